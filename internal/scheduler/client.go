package scheduler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"rental_agreement_backend/platform/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const agreementMaxRetry = 5

type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return newClient(opt, cfg.GetAsynqQueueName()), nil
}

func newClient(opt asynq.RedisConnOpt, queue string) *Client {
	if queue == "" {
		queue = "default"
	}
	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueAgreementGeneration queues a generation run and returns the task ID.
func (c *Client) EnqueueAgreementGeneration(ctx context.Context, rentalID uuid.UUID) (string, error) {
	task, err := NewGenerateAgreementTask(GenerateAgreementPayload{RentalID: rentalID.String()})
	if err != nil {
		return "", err
	}

	info, err := c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.MaxRetry(agreementMaxRetry))
	if err != nil {
		return "", fmt.Errorf("enqueue agreement generation: %w", err)
	}
	return info.ID, nil
}

// EnqueueAgreementOnce queues generation unless a task for the rental is
// already queued. It reports whether a new task was created.
func (c *Client) EnqueueAgreementOnce(ctx context.Context, rentalID uuid.UUID) (bool, error) {
	task, err := NewGenerateAgreementTask(GenerateAgreementPayload{RentalID: rentalID.String()})
	if err != nil {
		return false, err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(agreementMaxRetry),
		asynq.TaskID(agreementTaskID(rentalID)),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("enqueue agreement generation: %w", err)
	}
	return true, nil
}

func agreementTaskID(rentalID uuid.UUID) string {
	return "agreement:" + rentalID.String()
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
