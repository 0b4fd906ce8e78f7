package mail

import "context"

// Email represents an email message to be sent.
type Email struct {
	To       []string // Recipient email addresses
	From     string   // Sender email address
	ReplyTo  string   // Reply-To address (the form submitter, optional)
	Subject  string   // Email subject
	TextBody string   // Plain text body
	HTMLBody string   // HTML body (optional)
}

// Sender defines the interface for sending emails.
//
// Send returns a preview URL when the transport exposes one (the disposable
// Ethereal inbox does); production SMTP transports return an empty string.
type Sender interface {
	Send(ctx context.Context, email *Email) (string, error)
}

// Config holds the transport configuration for the resolver.
// Username and Password are optional - some servers allow unauthenticated
// relay, and auth failures surface at send time rather than construction.
type Config struct {
	Host          string
	Port          int
	Secure        bool // implicit TLS (SMTPS) instead of STARTTLS
	Username      string
	Password      string
	AllowFallback bool // force the disposable-inbox path even when Host is set
}
