// Package queue moves password-reset notifications through the message
// broker so SMTP delivery never blocks the request path.
package queue

// PasswordResetRequestedEvent is published when a reset token has been
// issued for a known account. The consumer renders and delivers the mail;
// the event carries only the raw token and the destination address.
type PasswordResetRequestedEvent struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	RequestedAt string `json:"requested_at"`
}

const passwordResetQueueName = "password.reset.requested"
