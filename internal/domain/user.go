package domain

import "time"

type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id"`
	Name         string    `json:"name" dynamodbav:"name"`
	Email        string    `json:"email" dynamodbav:"email"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	AvatarURL    string    `json:"avatar_url,omitempty" dynamodbav:"avatar_url"`
	AuthProvider string    `json:"auth_provider,omitempty" dynamodbav:"auth_provider"` // "local" | "social"
	Enable       bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

// PendingUser is a not-yet-persisted signup. It lives only inside the
// claims of an activation token and becomes a User when the emailed
// activation code is echoed back.
type PendingUser struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

const (
	ProviderLocal  = "local"
	ProviderSocial = "social"
)

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type ActivateUserRequest struct {
	ActivationToken string `json:"activation_token" validate:"required"`
	ActivationCode  string `json:"activation_code" validate:"required,len=5,numeric"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SocialAuthRequest struct {
	Email     string `json:"email" validate:"required_without=IDToken,omitempty,email"`
	Name      string `json:"name" validate:"required_without=IDToken"`
	AvatarURL string `json:"avatar_url"`
	// IDToken, when present, is verified against the configured Google
	// client ID and overrides the caller-supplied email/name.
	IDToken string `json:"id_token"`
}
