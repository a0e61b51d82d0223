package http

import (
	"context"

	"github.com/go-signup-api/internal/domain"
	"github.com/go-signup-api/internal/infrastructure/google"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

// Mailer is the outbound notifier contract. Sends are fire-and-forget
// from the workflow's point of view: a failed send is logged, never fatal.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

// IDPVerifier validates an upstream identity provider token for social auth.
// Left nil when upstream verification is disabled; in that mode the
// caller-supplied identity is trusted as proven.
type IDPVerifier interface {
	Verify(ctx context.Context, idToken string) (*google.Payload, error)
}
