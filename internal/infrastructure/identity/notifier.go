package identity

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
	"github.com/oksasatya/go-ddd-identity/pkg/mailer"
)

// QueueNotifier enqueues verification emails for the email worker.
type QueueNotifier struct {
	Publisher helpers.JSONPublisher
	AppName   string
	CodeTTL   time.Duration
	Enabled   bool
	Logger    *logrus.Logger
}

func NewQueueNotifier(pub helpers.JSONPublisher, appName string, codeTTL time.Duration, enabled bool, logger *logrus.Logger) *QueueNotifier {
	return &QueueNotifier{Publisher: pub, AppName: appName, CodeTTL: codeTTL, Enabled: enabled, Logger: logger}
}

func (n *QueueNotifier) SendVerifyCode(ctx context.Context, email, code string) error {
	if !n.Enabled || n.Publisher == nil {
		n.Logger.WithField("email", email).Warn("mail sending disabled; verification code not delivered")
		return nil
	}
	return n.Publisher.PublishJSON(ctx, mailer.NewVerifyCodeJob(email, code, n.AppName, n.CodeTTL))
}

var _ Notifier = (*QueueNotifier)(nil)
