package mail

import (
	"context"
	"log/slog"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements Sender using go-mail for robust SMTP support.
// Features:
// - TLS/STARTTLS selection based on port and the explicit secure flag
// - Multiple auth methods (PLAIN, LOGIN, CRAM-MD5, SCRAM)
// - Proper MIME multipart message construction
// - Connection timeout handling
type SMTPSender struct {
	host     string
	port     int
	secure   bool
	username string
	password string
	logger   *slog.Logger
}

// NewSMTPSender creates a new SMTP email sender using go-mail.
// Missing credentials are not an error: the transport attempts an
// unauthenticated relay and any auth failure surfaces at send time.
func NewSMTPSender(host string, port int, secure bool, username, password string, logger *slog.Logger) *SMTPSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPSender{
		host:     host,
		port:     port,
		secure:   secure,
		username: username,
		password: password,
		logger:   logger,
	}
}

// Send sends an email via SMTP using go-mail.
func (s *SMTPSender) Send(ctx context.Context, email *Email) (string, error) {
	s.logger.Info("smtp: preparing email",
		"to", email.To,
		"subject", email.Subject,
		"host", s.host,
		"port", s.port,
	)

	msg, err := buildMessage(email)
	if err != nil {
		return "", err
	}

	client, err := gomail.NewClient(s.host, s.clientOptions()...)
	if err != nil {
		return "", sendErr("failed to create SMTP client", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		s.logger.Error("smtp: failed to send email", "error", err)
		return "", sendErr("failed to send email", err)
	}

	s.logger.Info("smtp: email sent successfully", "to", email.To)

	// Production SMTP has no web-viewable copy of the message.
	return "", nil
}

// clientOptions returns go-mail client options based on configuration.
func (s *SMTPSender) clientOptions() []gomail.Option {
	opts := []gomail.Option{
		gomail.WithPort(s.port),
		gomail.WithTimeout(30 * time.Second),
	}

	// The secure flag means implicit TLS regardless of port.
	// Otherwise pick a TLS policy from the port.
	switch {
	case s.secure || s.port == 465:
		opts = append(opts, gomail.WithSSL())
	case s.port == 587:
		// STARTTLS (submission port)
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	default:
		// Plain SMTP relays and local catchers (port 25, Mailpit on 1025)
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}

	// Authentication if credentials provided
	if s.username != "" && s.password != "" {
		opts = append(opts,
			gomail.WithUsername(s.username),
			gomail.WithPassword(s.password),
			gomail.WithSMTPAuth(gomail.SMTPAuthAutoDiscover),
		)
	}

	return opts
}

// buildMessage converts an Email into a go-mail message.
func buildMessage(email *Email) (*gomail.Msg, error) {
	msg := gomail.NewMsg()

	if err := msg.From(email.From); err != nil {
		return nil, invalidErr("invalid from address")
	}
	if err := msg.To(email.To...); err != nil {
		return nil, invalidErr("invalid to address")
	}
	if email.ReplyTo != "" {
		if err := msg.ReplyTo(email.ReplyTo); err != nil {
			return nil, invalidErr("invalid reply-to address")
		}
	}

	msg.Subject(email.Subject)

	// Prefer HTML with text fallback, or just text
	if email.HTMLBody != "" && email.TextBody != "" {
		msg.SetBodyString(gomail.TypeTextPlain, email.TextBody)
		msg.AddAlternativeString(gomail.TypeTextHTML, email.HTMLBody)
	} else if email.HTMLBody != "" {
		msg.SetBodyString(gomail.TypeTextHTML, email.HTMLBody)
	} else {
		msg.SetBodyString(gomail.TypeTextPlain, email.TextBody)
	}

	return msg, nil
}
