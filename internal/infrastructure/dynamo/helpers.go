package dynamo

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// boolVal and numVal build expression attribute values for conditional updates.
func boolVal(b bool) types.AttributeValue {
	return &types.AttributeValueMemberBOOL{Value: b}
}

func numVal(s string) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: s}
}

func strVal(s string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: s}
}
