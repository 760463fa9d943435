package mailer

import "time"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (rendered with Data) or Subject with Text/HTML must be set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "verify_code"
	Data     map[string]any `json:"data,omitempty"`
}

// NewVerifyCodeJob builds the sign-up verification email for to.
func NewVerifyCodeJob(to, code, appName string, ttl time.Duration) EmailJob {
	return EmailJob{
		To:       to,
		Template: VerifyCode,
		Data: map[string]any{
			"AppName":   appName,
			"Code":      code,
			"ExpiresIn": ttl.String(),
		},
	}
}
