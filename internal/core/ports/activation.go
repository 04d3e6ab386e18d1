package ports

import (
	"context"
	"time"
)

// ActivationStore holds pending account activation keys.
type ActivationStore interface {
	// Issue creates a new key for username that expires after ttl.
	Issue(ctx context.Context, username string, ttl time.Duration) (string, error)
	// Lookup returns the username bound to key without invalidating it.
	// Unknown or expired keys yield domain.ErrActivationKeyInvalid.
	Lookup(ctx context.Context, key string) (string, error)
	// Revoke invalidates key. Revoking an unknown key is not an error.
	Revoke(ctx context.Context, key string) error
}

// MailMessage is a plain-text outbound email.
type MailMessage struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers outbound email.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}
