package mailer

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ackRecord struct {
	acks, nacks, requeues int
}

func (a *ackRecord) Ack(uint64, bool) error { a.acks++; return nil }

func (a *ackRecord) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacks++
	if requeue {
		a.requeues++
	}
	return nil
}

func (a *ackRecord) Reject(_ uint64, requeue bool) error { return a.Nack(0, false, requeue) }

type published struct {
	key string
	msg amqp.Publishing
}

type fakePublisher struct {
	out []published
	err error
}

func (f *fakePublisher) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.out = append(f.out, published{key, msg})
	return nil
}

const validJob = `{"to":"a@example.com","subject":"s","text":"t"}`

func newTestConsumer(sender Sender, pub Publisher) (*Consumer, *[]time.Duration) {
	c := NewConsumer(NewWorker(sender, quietLogger()), pub, "emails", "emails.dead", quietLogger())
	var waits []time.Duration
	c.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return c, &waits
}

func delivery(ack *ackRecord, body string, headers amqp.Table) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, Body: []byte(body), Headers: headers, ContentType: "application/json"}
}

func TestConsumer_Backoff(t *testing.T) {
	c, _ := newTestConsumer(&fakeSender{}, &fakePublisher{})
	assert.Equal(t, time.Second, c.Backoff(1))
	assert.Equal(t, 2*time.Second, c.Backoff(2))
	assert.Equal(t, 8*time.Second, c.Backoff(4))
	assert.Equal(t, 30*time.Second, c.Backoff(10))
}

func TestConsumer_Process_Success(t *testing.T) {
	sender := &fakeSender{}
	pub := &fakePublisher{}
	c, waits := newTestConsumer(sender, pub)
	ack := &ackRecord{}

	c.Process(context.Background(), delivery(ack, validJob, nil))
	assert.Equal(t, 1, ack.acks)
	assert.Zero(t, ack.nacks)
	assert.Len(t, sender.sent, 1)
	assert.Empty(t, pub.out)
	assert.Empty(t, *waits)
}

func TestConsumer_Process_InvalidJobDropped(t *testing.T) {
	pub := &fakePublisher{}
	c, _ := newTestConsumer(&fakeSender{}, pub)
	ack := &ackRecord{}

	c.Process(context.Background(), delivery(ack, `{"subject":"s"}`, nil))
	assert.Equal(t, 1, ack.nacks)
	assert.Zero(t, ack.requeues)
	assert.Empty(t, pub.out)
}

func TestConsumer_Process_RetriesWithBackoff(t *testing.T) {
	pub := &fakePublisher{}
	c, waits := newTestConsumer(&fakeSender{err: errors.New("mailgun down")}, pub)

	d := delivery(&ackRecord{}, validJob, amqp.Table{"trace": "x"})
	for i := 1; i < c.MaxAttempts; i++ {
		ack := &ackRecord{}
		d.Acknowledger = ack
		c.Process(context.Background(), d)

		require.Len(t, pub.out, i)
		next := pub.out[i-1]
		assert.Equal(t, "emails", next.key)
		assert.Equal(t, i, Attempts(next.msg.Headers))
		assert.Equal(t, "x", next.msg.Headers["trace"])
		assert.Equal(t, []byte(validJob), next.msg.Body)
		assert.Equal(t, 1, ack.acks)
		assert.Zero(t, ack.requeues)

		d.Headers = next.msg.Headers
	}
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}, *waits)

	ack := &ackRecord{}
	d.Acknowledger = ack
	c.Process(context.Background(), d)
	last := pub.out[len(pub.out)-1]
	assert.Equal(t, "emails.dead", last.key)
	assert.Equal(t, c.MaxAttempts, Attempts(last.msg.Headers))
	assert.Equal(t, 1, ack.acks)
	assert.Len(t, *waits, c.MaxAttempts-1)
}

func TestConsumer_Process_GivesUpWithoutDeadQueue(t *testing.T) {
	pub := &fakePublisher{}
	c, _ := newTestConsumer(&fakeSender{err: errors.New("mailgun down")}, pub)
	c.DeadQueue = ""
	ack := &ackRecord{}

	c.Process(context.Background(), delivery(ack, validJob, amqp.Table{AttemptsHeader: int32(c.MaxAttempts - 1)}))
	assert.Equal(t, 1, ack.nacks)
	assert.Zero(t, ack.requeues)
	assert.Empty(t, pub.out)
}

func TestConsumer_Process_ShutdownRequeues(t *testing.T) {
	pub := &fakePublisher{}
	c, _ := newTestConsumer(&fakeSender{err: errors.New("mailgun down")}, pub)
	c.sleep = sleepContext
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ack := &ackRecord{}

	c.Process(ctx, delivery(ack, validJob, nil))
	assert.Equal(t, 1, ack.requeues)
	assert.Empty(t, pub.out)
}

func TestConsumer_Process_RepublishFailureRequeues(t *testing.T) {
	c, waits := newTestConsumer(&fakeSender{err: errors.New("mailgun down")}, &fakePublisher{err: errors.New("channel closed")})
	ack := &ackRecord{}

	c.Process(context.Background(), delivery(ack, validJob, nil))
	assert.Equal(t, 1, ack.requeues)
	assert.Len(t, *waits, 1)
}

func TestAttempts(t *testing.T) {
	assert.Zero(t, Attempts(nil))
	assert.Zero(t, Attempts(amqp.Table{AttemptsHeader: "3"}))
	assert.Equal(t, 3, Attempts(amqp.Table{AttemptsHeader: int32(3)}))
	assert.Equal(t, 4, Attempts(amqp.Table{AttemptsHeader: int64(4)}))
}
