package google

import (
	"context"
	"fmt"

	"github.com/go-signup-api/internal/domain"
	"google.golang.org/api/idtoken"
)

// Payload holds the verified claims extracted from a Google ID token.
type Payload struct {
	Sub       string
	Email     string
	Name      string
	AvatarURL string
}

// Verifier verifies Google ID tokens against a specific client ID.
type Verifier struct {
	clientID string
}

func NewVerifier(clientID string) *Verifier {
	return &Verifier{clientID: clientID}
}

// Verify validates the Google ID token and returns the extracted payload.
// Returns a domain.ErrUnauthorized-wrapped error if the token is invalid
// or the upstream provider has not verified the email.
func (v *Verifier) Verify(ctx context.Context, token string) (*Payload, error) {
	p, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid google token: %w", domain.ErrUnauthorized)
	}
	email, _ := p.Claims["email"].(string)
	if verified, _ := p.Claims["email_verified"].(bool); !verified {
		return nil, fmt.Errorf("google email not verified: %w", domain.ErrUnauthorized)
	}
	name, _ := p.Claims["name"].(string)
	avatar, _ := p.Claims["picture"].(string)
	return &Payload{
		Sub:       p.Subject,
		Email:     email,
		Name:      name,
		AvatarURL: avatar,
	}, nil
}
