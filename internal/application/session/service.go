package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-signup-api/internal/domain"
	"github.com/go-signup-api/internal/infrastructure/google"
	"github.com/go-signup-api/internal/infrastructure/token"
	"github.com/go-signup-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

const claimUserID = "user_id"

// TokenPair is the result of a successful login, social auth or refresh:
// a short-lived access token and a longer-lived refresh token, both
// stateless and bound to the user's id.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

type Service interface {
	Login(ctx context.Context, req domain.LoginRequest) (*TokenPair, error)
	// SocialAuth is an idempotent upsert: first sight of an email creates a
	// passwordless user, later calls reuse it. No credential is checked;
	// the upstream identity provider already proved the email.
	SocialAuth(ctx context.Context, req domain.SocialAuthRequest) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type idpVerifier interface {
	Verify(ctx context.Context, idToken string) (*google.Payload, error)
}

type tokenCodec interface {
	Issue(claims token.Claims) (string, error)
	Verify(tokenStr string) (token.Claims, error)
}

type service struct {
	repo         userStore
	accessCodec  tokenCodec
	refreshCodec tokenCodec
	idp          idpVerifier // nil when upstream verification is disabled
}

type ServiceDeps struct {
	UserRepo     userStore
	AccessCodec  tokenCodec
	RefreshCodec tokenCodec
	IDPVerifier  idpVerifier
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:         deps.UserRepo,
		accessCodec:  deps.AccessCodec,
		refreshCodec: deps.RefreshCodec,
		idp:          deps.IDPVerifier,
	}
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*TokenPair, error) {
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("login: %w", domain.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if !u.Enable {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrUnauthorized)
	}
	if u.PasswordHash == "" {
		// Social accounts have no password to check.
		return nil, fmt.Errorf("login: %w", domain.ErrInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("login: %w", domain.ErrInvalidCredentials)
	}
	return s.issuePair(u)
}

func (s *service) SocialAuth(ctx context.Context, req domain.SocialAuthRequest) (*TokenPair, error) {
	email, name, avatar := req.Email, req.Name, req.AvatarURL
	if s.idp != nil && req.IDToken != "" {
		p, err := s.idp.Verify(ctx, req.IDToken)
		if err != nil {
			return nil, err
		}
		email, name = p.Email, p.Name
		if avatar == "" {
			avatar = p.AvatarURL
		}
	}
	if email == "" {
		return nil, fmt.Errorf("social auth: email required: %w", domain.ErrBadRequest)
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			// A store fault is not "new user"; creating here would race a
			// duplicate past the uniqueness check.
			return nil, fmt.Errorf("social auth: %w", err)
		}
		now := time.Now().UTC()
		u = &domain.User{
			UserID:       id.New(),
			Name:         name,
			Email:        email,
			AvatarURL:    avatar,
			AuthProvider: domain.ProviderSocial,
			Enable:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.repo.Put(ctx, u); err != nil {
			return nil, err
		}
	} else if avatar != "" && avatar != u.AvatarURL {
		if err := s.repo.Update(ctx, u.UserID, map[string]interface{}{"avatar_url": avatar}); err != nil {
			slog.Warn("failed to refresh avatar", "user_id", u.UserID, "err", err)
		} else {
			u.AvatarURL = avatar
		}
	}
	return s.issuePair(u)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.refreshCodec.Verify(refreshToken)
	if err != nil {
		return nil, err
	}
	userID, ok := claims[claimUserID].(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("refresh: %w", domain.ErrTokenInvalid)
	}
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("refresh: user no longer exists: %w", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}
	if !u.Enable {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrUnauthorized)
	}
	return s.issuePair(u)
}

func (s *service) issuePair(u *domain.User) (*TokenPair, error) {
	access, err := s.accessCodec.Issue(token.Claims{claimUserID: u.UserID})
	if err != nil {
		return nil, err
	}
	refresh, err := s.refreshCodec.Issue(token.Claims{claimUserID: u.UserID})
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, User: u}, nil
}
