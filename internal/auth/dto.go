package auth

import (
	"github.com/gmml-lab/inventory-backend/internal/users"
)

// LoginRequest carries the OAuth authorization code from the frontend callback.
type LoginRequest struct {
	Code        string `json:"code" validate:"required"`
	RedirectURI string `json:"redirect_uri" validate:"required,url"`
}

// RefreshRequest rotates an expired access token using its refresh token.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenPair is the access/refresh pair returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResponse contains the token pair plus the signed-in profile.
type LoginResponse struct {
	TokenPair
	User *users.ProfileDTO `json:"user"`
}
