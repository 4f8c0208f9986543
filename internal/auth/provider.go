package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gmml-lab/inventory-backend/pkg/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Identity is the subset of the OAuth userinfo document the backend needs.
type Identity struct {
	Email    string `json:"email"`
	FullName string `json:"name"`
}

// IdentityProvider exchanges an authorization code for a verified identity.
type IdentityProvider interface {
	Exchange(ctx context.Context, code, redirectURI string) (*Identity, error)
}

// GoogleProvider implements IdentityProvider against Google's OAuth endpoints.
type GoogleProvider struct {
	clientID     string
	clientSecret string
	userInfoURL  string
	httpClient   *http.Client
}

// NewGoogleProvider builds a provider from the auth config.
func NewGoogleProvider(cfg config.AuthConfig) (*GoogleProvider, error) {
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		return nil, fmt.Errorf("google client credentials are required")
	}
	return &GoogleProvider{
		clientID:     cfg.GoogleClientID,
		clientSecret: cfg.GoogleClientSecret,
		userInfoURL:  cfg.GoogleUserInfoURL,
		httpClient:   http.DefaultClient,
	}, nil
}

// Exchange trades the authorization code for tokens and fetches the userinfo
// document with the resulting access token.
func (p *GoogleProvider) Exchange(ctx context.Context, code, redirectURI string) (*Identity, error) {
	conf := &oauth2.Config{
		ClientID:     p.clientID,
		ClientSecret: p.clientSecret,
		RedirectURL:  redirectURI,
		Endpoint:     google.Endpoint,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	token.SetAuthHeader(req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var identity Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if identity.Email == "" {
		return nil, fmt.Errorf("userinfo missing email")
	}
	return &identity, nil
}
