// Package mailer delivers the password-reset mail over SMTP. The service
// layer never touches it directly; the queue consumer is the only caller.
package mailer

import (
	"fmt"
	"net/mail"
	"net/smtp"
	"net/url"
	"strings"
	"time"
)

// Mailer submits mail through a single SMTP account.
type Mailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	// FrontendURL is the base of the web client hosting the reset form;
	// the mail links to <FrontendURL>/reset-password?token=...
	FrontendURL string
}

func New(host, port, username, password, from, frontendURL string) *Mailer {
	return &Mailer{
		Host:        host,
		Port:        port,
		Username:    username,
		Password:    password,
		From:        from,
		FrontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// SendPasswordReset renders the reset mail around the raw token and submits
// it. The token reaches the account holder only through this mail.
func (m *Mailer) SendPasswordReset(to, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.FrontendURL, url.QueryEscape(token))

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: Password Recovery\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(resetBody(link))

	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	addr := m.Host + ":" + m.Port
	if err := smtp.SendMail(addr, auth, m.envelopeFrom(), []string{to}, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// envelopeFrom strips From down to the bare address for the MAIL FROM
// command. smtp.SendMail writes its argument into the envelope verbatim, and
// a display-name form like `"No Reply" <a@b>` is a 501 on real servers. The
// header keeps the display name; only the envelope is stripped.
func (m *Mailer) envelopeFrom() string {
	if a, err := mail.ParseAddress(m.From); err == nil {
		return a.Address
	}
	return m.Username
}

func resetBody(link string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 30px;">
  <div style="max-width: 600px; margin: auto; background-color: #fff; border-radius: 10px; padding: 40px;">
    <h2 style="color: #333;">Reset your password</h2>
    <p style="font-size: 16px; color: #555;">
      We received a request to reset your password. Click the button below to set a new one.
    </p>
    <div style="text-align: center; margin: 30px 0;">
      <a href="%s" target="_blank"
        style="background-color: #4f46e5; color: white; text-decoration: none; padding: 12px 24px; border-radius: 5px; font-weight: bold;">
        Reset Password
      </a>
    </div>
    <p style="font-size: 14px; color: #888;">
      If you didn't request a password reset, you can ignore this email.
    </p>
    <p style="font-size: 12px; color: #aaa; text-align: center;">
      &copy; %d User Account Service. All rights reserved.
    </p>
  </div>
</div>`, link, time.Now().Year())
}
