package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"quill/internal/config"
	"quill/internal/models"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userInfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// Profile is the subset of the Google userinfo response the platform needs.
type Profile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Provider abstracts the external identity provider so handlers and tests
// do not talk to Google directly.
type Provider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*Profile, error)
}

type googleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider builds a Provider backed by Google's OAuth2 endpoints.
func NewGoogleProvider(cfg *config.Config) Provider {
	return &googleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

func (p *googleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *googleProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, models.NewExternalAuthError(fmt.Errorf("exchanging authorization code: %w", err))
	}

	client := p.config.Client(ctx, token)
	resp, err := client.Get(userInfoEndpoint)
	if err != nil {
		return nil, models.NewExternalAuthError(fmt.Errorf("fetching user info: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, models.NewExternalAuthError(fmt.Errorf("user info request returned status %d", resp.StatusCode))
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, models.NewExternalAuthError(fmt.Errorf("decoding user info: %w", err))
	}
	if profile.Email == "" {
		return nil, models.NewExternalAuthError(fmt.Errorf("user info response missing email"))
	}
	return &profile, nil
}
