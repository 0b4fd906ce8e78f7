package mail

import (
	"context"
	"log/slog"
	"sync"
)

// Resolver picks the transport for this process: a real SMTP sender when a
// host is configured, otherwise a disposable Ethereal inbox. The choice is
// made lazily on first use and cached, so the fallback path provisions at
// most one test account per process. A failed resolution is not cached; the
// next request retries.
type Resolver struct {
	config Config
	logger *slog.Logger

	provision func(ctx context.Context) (*TestAccount, error)

	mu     sync.Mutex
	sender Sender
}

// NewResolver creates a transport resolver for the given configuration.
func NewResolver(config Config, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		config:    config,
		logger:    logger,
		provision: ProvisionTestAccount,
	}
}

// Sender returns the process-wide transport, constructing it on first call.
func (r *Resolver) Sender(ctx context.Context) (Sender, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sender != nil {
		return r.sender, nil
	}

	sender, err := r.resolve(ctx)
	if err != nil {
		return nil, err
	}

	r.sender = sender
	return sender, nil
}

func (r *Resolver) resolve(ctx context.Context) (Sender, error) {
	if r.config.Host != "" && !r.config.AllowFallback {
		r.logger.Info("mail: using configured SMTP transport",
			"host", r.config.Host,
			"port", r.config.Port,
			"authenticated", r.config.Username != "",
		)
		return NewSMTPSender(
			r.config.Host,
			r.config.Port,
			r.config.Secure,
			r.config.Username,
			r.config.Password,
			r.logger,
		), nil
	}

	r.logger.Info("mail: no SMTP host configured, provisioning disposable test inbox")

	account, err := r.provision(ctx)
	if err != nil {
		return nil, err
	}

	return NewEtherealSender(account, r.logger), nil
}
