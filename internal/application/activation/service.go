package activation

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/go-signup-api/internal/domain"
	"github.com/go-signup-api/internal/infrastructure/token"
	"github.com/go-signup-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// Claim keys inside the activation token.
const (
	claimUser = "user"
	claimCode = "activation_code"

	pendingName     = "name"
	pendingEmail    = "email"
	pendingPassword = "password_hash"
)

type Service interface {
	// Register checks email uniqueness, mints an activation token embedding
	// the pending user plus a fresh 5-digit code, and emails the code. The
	// token is the only record of the pending signup; nothing is persisted.
	Register(ctx context.Context, req domain.CreateUserRequest) (activationToken string, err error)
	// Activate verifies the token, compares the submitted code against the
	// embedded one, re-checks uniqueness and persists the user.
	Activate(ctx context.Context, req domain.ActivateUserRequest) (*domain.User, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type tokenCodec interface {
	Issue(claims token.Claims) (string, error)
	Verify(tokenStr string) (token.Claims, error)
	TTL() time.Duration
}

type service struct {
	repo   userStore
	mailer mailer
	codec  tokenCodec
}

type ServiceDeps struct {
	UserRepo userStore
	Mailer   mailer
	Codec    tokenCodec // activation-class codec
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:   deps.UserRepo,
		mailer: deps.Mailer,
		codec:  deps.Codec,
	}
}

func (s *service) Register(ctx context.Context, req domain.CreateUserRequest) (string, error) {
	switch _, err := s.repo.GetByEmail(ctx, req.Email); {
	case err == nil:
		return "", fmt.Errorf("register: %w", domain.ErrDuplicateEmail)
	case !errors.Is(err, domain.ErrNotFound):
		// Only a definitive miss means the email is free.
		return "", fmt.Errorf("register: check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	code, err := newActivationCode()
	if err != nil {
		return "", err
	}

	activationToken, err := s.codec.Issue(token.Claims{
		claimUser: map[string]interface{}{
			pendingName:     req.Name,
			pendingEmail:    req.Email,
			pendingPassword: string(hash),
		},
		claimCode: code,
	})
	if err != nil {
		return "", err
	}

	// The code travels out-of-band; the raw password never leaves this method.
	// A failed send does not void the token; the client can re-register.
	body := fmt.Sprintf("Hi %s,\n\nYour activation code is %s. It expires in %d minutes.",
		req.Name, code, int(s.codec.TTL().Minutes()))
	if err := s.mailer.SendEmail(req.Email, "Activate your account!", body); err != nil {
		slog.Warn("failed to send activation email", "email", req.Email, "err", err)
	}

	return activationToken, nil
}

func (s *service) Activate(ctx context.Context, req domain.ActivateUserRequest) (*domain.User, error) {
	claims, err := s.codec.Verify(req.ActivationToken)
	if err != nil {
		return nil, err
	}

	pending, embeddedCode, err := pendingFromClaims(claims)
	if err != nil {
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(embeddedCode), []byte(req.ActivationCode)) != 1 {
		return nil, fmt.Errorf("activate: %w", domain.ErrCodeMismatch)
	}

	// Two registrations can race before either activates; the re-check
	// lets at most one of them materialize a user.
	switch _, err := s.repo.GetByEmail(ctx, pending.Email); {
	case err == nil:
		return nil, fmt.Errorf("activate: %w", domain.ErrDuplicateEmail)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("activate: check email: %w", err)
	}

	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Name:         pending.Name,
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		AuthProvider: domain.ProviderLocal,
		Enable:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// pendingFromClaims re-derives the pending user and activation code from
// verified token claims. JSON round-tripping turns the nested claim into
// map[string]interface{}, so fields are pulled out by type assertion.
func pendingFromClaims(claims token.Claims) (*domain.PendingUser, string, error) {
	code, ok := claims[claimCode].(string)
	if !ok || code == "" {
		return nil, "", fmt.Errorf("missing activation code claim: %w", domain.ErrTokenInvalid)
	}
	raw, ok := claims[claimUser].(map[string]interface{})
	if !ok {
		return nil, "", fmt.Errorf("missing user claim: %w", domain.ErrTokenInvalid)
	}
	pending := &domain.PendingUser{}
	pending.Name, _ = raw[pendingName].(string)
	pending.Email, _ = raw[pendingEmail].(string)
	pending.PasswordHash, _ = raw[pendingPassword].(string)
	if pending.Email == "" || pending.PasswordHash == "" {
		return nil, "", fmt.Errorf("incomplete user claim: %w", domain.ErrTokenInvalid)
	}
	return pending, code, nil
}

// newActivationCode draws a uniform 5-digit code from crypto/rand.
func newActivationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(100000))
	if err != nil {
		return "", fmt.Errorf("generate activation code: %w", err)
	}
	return fmt.Sprintf("%05d", n.Int64()), nil
}
