package mailer

import (
	"context"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// AttemptsHeader counts failed deliveries of a republished job.
const AttemptsHeader = "x-attempts"

// Publisher is the part of *amqp.Channel used to put a job back on a queue.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Consumer acknowledges queued jobs according to the Worker result.
// Retryable failures wait a bounded exponential backoff and are republished
// with AttemptsHeader incremented; after MaxAttempts the job goes to DeadQueue,
// or is dropped when DeadQueue is empty.
type Consumer struct {
	Worker      *Worker
	Publisher   Publisher
	Queue       string
	DeadQueue   string
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Logger      *logrus.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

func NewConsumer(worker *Worker, pub Publisher, queue, deadQueue string, logger *logrus.Logger) *Consumer {
	return &Consumer{
		Worker:      worker,
		Publisher:   pub,
		Queue:       queue,
		DeadQueue:   deadQueue,
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		Logger:      logger,
		sleep:       sleepContext,
	}
}

// Backoff is the wait before retry number attempt, starting at 1.
func (c *Consumer) Backoff(attempt int) time.Duration {
	d := c.BaseDelay
	for i := 1; i < attempt && d < c.MaxDelay; i++ {
		d *= 2
	}
	if d > c.MaxDelay {
		d = c.MaxDelay
	}
	return d
}

// Attempts reads AttemptsHeader; a missing or malformed header counts as zero.
func Attempts(h amqp.Table) int {
	switch v := h[AttemptsHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// Process handles one delivery and settles it exactly once.
func (c *Consumer) Process(ctx context.Context, d amqp.Delivery) {
	err := c.Worker.Handle(ctx, d.Body)
	if err == nil {
		_ = d.Ack(false)
		return
	}
	if errors.Is(err, ErrInvalidJob) {
		c.Logger.WithError(err).Warn("dropping email job")
		_ = d.Nack(false, false)
		return
	}

	attempts := Attempts(d.Headers) + 1
	log := c.Logger.WithError(err).WithField("attempts", attempts)
	if attempts >= c.MaxAttempts {
		c.deadLetter(ctx, d, attempts, log)
		return
	}

	wait := c.Backoff(attempts)
	log.WithField("retry_in", wait.String()).Warn("email send failed; retrying")
	if err := c.sleep(ctx, wait); err != nil {
		// shutting down; let the broker redeliver
		_ = d.Nack(false, true)
		return
	}
	if err := c.Publisher.PublishWithContext(ctx, "", c.Queue, false, false, retryPublishing(d, attempts)); err != nil {
		log.WithField("publish_error", err.Error()).Error("republish failed; requeueing")
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}

func (c *Consumer) deadLetter(ctx context.Context, d amqp.Delivery, attempts int, log *logrus.Entry) {
	if c.DeadQueue == "" {
		log.Error("email send failed; giving up")
		_ = d.Nack(false, false)
		return
	}
	if err := c.Publisher.PublishWithContext(ctx, "", c.DeadQueue, false, false, retryPublishing(d, attempts)); err != nil {
		log.WithField("publish_error", err.Error()).Error("dead-letter publish failed; dropping")
		_ = d.Nack(false, false)
		return
	}
	log.WithField("queue", c.DeadQueue).Error("email send failed; moved to dead-letter queue")
	_ = d.Ack(false)
}

func retryPublishing(d amqp.Delivery, attempts int) amqp.Publishing {
	headers := amqp.Table{}
	for k, v := range d.Headers {
		headers[k] = v
	}
	headers[AttemptsHeader] = int32(attempts)
	return amqp.Publishing{
		Headers:      headers,
		ContentType:  d.ContentType,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         d.Body,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
