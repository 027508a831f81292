package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-review-api/internal/application/sweep"
	"github.com/go-review-api/internal/infrastructure/smtp"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Task types processed by the background worker.
const (
	TypeEmailDelivery = "email:deliver"
	TypeTokenSweep    = "token:sweep"
)

// EmailPayload is the wire form of a queued verification email.
type EmailPayload struct {
	To        string `json:"to"`
	VerifyURL string `json:"verify_url"`
}

// redisOpt translates the shared go-redis client options for asynq, which
// manages its own connections.
func redisOpt(rdb *redis.Client) asynq.RedisClientOpt {
	opts := rdb.Options()
	return asynq.RedisClientOpt{Addr: opts.Addr, Password: opts.Password, DB: opts.DB}
}

// NewClient creates the enqueue-side asynq client from the shared redis client.
func NewClient(rdb *redis.Client) *asynq.Client {
	return asynq.NewClient(redisOpt(rdb))
}

// Enqueuer wraps the asynq client behind the narrow interfaces the
// application services consume.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

func (e *Enqueuer) EnqueueVerificationEmail(ctx context.Context, to, verifyURL string) error {
	payload, err := json.Marshal(EmailPayload{To: to, VerifyURL: verifyURL})
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}
	_, err = e.client.EnqueueContext(ctx, asynq.NewTask(TypeEmailDelivery, payload),
		asynq.Queue("critical"), asynq.MaxRetry(5), asynq.Timeout(30*time.Second))
	return err
}

func (e *Enqueuer) EnqueueSweep(ctx context.Context) error {
	_, err := e.client.EnqueueContext(ctx, asynq.NewTask(TypeTokenSweep, nil),
		asynq.Queue("low"), asynq.MaxRetry(1))
	return err
}

// Processor handles the tasks on the worker side.
type Processor struct {
	mailer  smtp.Mailer
	sweeper *sweep.Service
}

func NewProcessor(mailer smtp.Mailer, sweeper *sweep.Service) *Processor {
	return &Processor{mailer: mailer, sweeper: sweeper}
}

func (p *Processor) HandleEmailDeliveryTask(_ context.Context, t *asynq.Task) error {
	var payload EmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal email payload: %v: %w", err, asynq.SkipRetry)
	}
	body := fmt.Sprintf(
		"Thanks for your review!\r\n\r\n"+
			"Please confirm your email address by opening this link:\r\n\r\n%s\r\n\r\n"+
			"The link is valid for a limited time and can be used once.\r\n"+
			"If you didn't submit a review, you can ignore this email.\r\n",
		payload.VerifyURL)
	return p.mailer.SendEmail(payload.To, "Confirm your review", body)
}

func (p *Processor) HandleTokenSweepTask(ctx context.Context, _ *asynq.Task) error {
	_, err := p.sweeper.Run(ctx)
	return err
}

// SetupServer configures the asynq server and registers the task handlers.
// The caller starts it with srv.Start(mux) and owns shutdown.
func SetupServer(rdb *redis.Client, processor *Processor) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(redisOpt(rdb), asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"critical": 6,
			"default":  3,
			"low":      1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
			slog.Error("task failed", "type", task.Type(), "err", err)
		}),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEmailDelivery, processor.HandleEmailDeliveryTask)
	mux.HandleFunc(TypeTokenSweep, processor.HandleTokenSweepTask)
	return srv, mux
}

// SetupScheduler registers the periodic token sweep. The cadence is explicit
// and timer-driven, not sampled off request volume.
func SetupScheduler(rdb *redis.Client, interval time.Duration) (*asynq.Scheduler, error) {
	sched := asynq.NewScheduler(redisOpt(rdb), nil)
	if _, err := sched.Register(fmt.Sprintf("@every %s", interval), asynq.NewTask(TypeTokenSweep, nil),
		asynq.Queue("low")); err != nil {
		return nil, fmt.Errorf("register sweep schedule: %w", err)
	}
	return sched, nil
}
