package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/go-review-api/internal/application/verify"
	"github.com/go-review-api/internal/domain"
)

type mockVerifyService struct{ mock.Mock }

func (m *mockVerifyService) Verify(ctx context.Context, rawToken, email string) (*verify.Result, error) {
	args := m.Called(ctx, rawToken, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*verify.Result), args.Error(1)
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp
}

func TestVerify_MissingToken(t *testing.T) {
	svc := &mockVerifyService{}
	svc.On("Verify", mock.Anything, "", "").Return(nil, domain.ErrMissingToken)

	req := httptest.NewRequest(http.MethodGet, "/api/reviews/verify", nil)
	rr := httptest.NewRecorder()
	NewVerifyHandler(svc).Verify(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeEnvelope(t, rr)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "MISSING_TOKEN", resp.Error.Code)
}

func TestVerify_MalformedToken(t *testing.T) {
	svc := &mockVerifyService{}
	svc.On("Verify", mock.Anything, "xyz", "").Return(nil, domain.ErrInvalidTokenFormat)

	req := httptest.NewRequest(http.MethodGet, "/api/reviews/verify?token=xyz", nil)
	rr := httptest.NewRecorder()
	NewVerifyHandler(svc).Verify(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_TOKEN_FORMAT", decodeEnvelope(t, rr).Error.Code)
}

func TestVerify_TokenNotFound(t *testing.T) {
	tok := strings.Repeat("a", 64)
	svc := &mockVerifyService{}
	svc.On("Verify", mock.Anything, tok, "a@b.com").Return(nil, domain.ErrTokenNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/reviews/verify?token="+tok+"&email=a%40b.com", nil)
	rr := httptest.NewRecorder()
	NewVerifyHandler(svc).Verify(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "TOKEN_NOT_FOUND", decodeEnvelope(t, rr).Error.Code)
}

func TestVerify_Success(t *testing.T) {
	tok := strings.Repeat("b", 64)
	svc := &mockVerifyService{}
	svc.On("Verify", mock.Anything, tok, "a@b.com").
		Return(&verify.Result{ReviewID: "r1", Verified: true, Status: domain.StatusVerified}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/reviews/verify?token="+tok+"&email=a%40b.com", nil)
	rr := httptest.NewRecorder()
	NewVerifyHandler(svc).Verify(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp struct {
		Success bool          `json:"success"`
		Data    verify.Result `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "r1", resp.Data.ReviewID)
	assert.True(t, resp.Data.Verified)
	assert.Equal(t, domain.StatusVerified, resp.Data.Status)
}

func TestVerify_UnexpectedErrorIsOpaque500(t *testing.T) {
	tok := strings.Repeat("c", 64)
	svc := &mockVerifyService{}
	svc.On("Verify", mock.Anything, tok, "").Return(nil, errors.New("dynamodb: connection reset"))

	req := httptest.NewRequest(http.MethodGet, "/api/reviews/verify?token="+tok, nil)
	rr := httptest.NewRecorder()
	NewVerifyHandler(svc).Verify(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	resp := decodeEnvelope(t, rr)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "dynamodb")
}
