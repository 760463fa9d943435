package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrInvalidJob marks a message that can never be delivered and must not be requeued.
var ErrInvalidJob = errors.New("invalid email job")

// Worker turns queued EmailJob messages into sent emails.
type Worker struct {
	Sender      Sender
	Logger      *logrus.Logger
	SendTimeout time.Duration
}

func NewWorker(sender Sender, logger *logrus.Logger) *Worker {
	return &Worker{Sender: sender, Logger: logger, SendTimeout: 15 * time.Second}
}

// Handle decodes, renders and sends one message body.
// Errors wrapping ErrInvalidJob should be dropped; any other error is retryable.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJob, err)
	}
	if job.To == "" {
		return fmt.Errorf("%w: missing recipient", ErrInvalidJob)
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, err := Render(job.Template, job.Data)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidJob, err)
		}
		subject, text, html = s, t, h
	}
	if subject == "" || (text == "" && html == "") {
		return fmt.Errorf("%w: empty content", ErrInvalidJob)
	}

	c, cancel := context.WithTimeout(ctx, w.SendTimeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		return err
	}
	w.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	return nil
}
