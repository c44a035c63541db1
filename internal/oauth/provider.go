package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/Simonbn1/eksamen/internal/models"
	"golang.org/x/oauth2"
)

// Discovery is the subset of an OpenID configuration document the login
// flow needs.
type Discovery struct {
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
}

// Userinfo is what a provider reports about the authenticated subject.
// Raw keeps the full claim set for storage.
type Userinfo struct {
	Subject string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
	Raw     json.RawMessage
}

// Provider is one OpenID Connect identity provider, configured by its
// discovery URL and client credentials. The discovery document is
// fetched lazily and cached for the process lifetime.
type Provider struct {
	Name         string
	DiscoveryURL string
	ClientID     string
	ClientSecret string
	Scopes       []string

	mu        sync.Mutex
	discovery *Discovery
}

func (p *Provider) Discover(ctx context.Context) (Discovery, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.discovery != nil {
		return *p.discovery, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.DiscoveryURL, nil)

	if err != nil {
		return Discovery{}, err
	}

	resp, err := http.DefaultClient.Do(req)

	if err != nil {
		return Discovery{}, fmt.Errorf("failed to fetch discovery document for %s: %w", p.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Discovery{}, fmt.Errorf("discovery endpoint for %s returned %d", p.Name, resp.StatusCode)
	}

	var discovery Discovery

	if err := json.NewDecoder(resp.Body).Decode(&discovery); err != nil {
		return Discovery{}, fmt.Errorf("failed to decode discovery document for %s: %w", p.Name, err)
	}

	p.discovery = &discovery
	return discovery, nil
}

// Config builds the oauth2 configuration for this provider against the
// given callback URL.
func (p *Provider) Config(discovery Discovery, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		RedirectURL:  redirectURL,
		Scopes:       p.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  discovery.AuthorizationEndpoint,
			TokenURL: discovery.TokenEndpoint,
		},
	}
}

// Exchange trades an authorization code for a token.
func (p *Provider) Exchange(ctx context.Context, code, redirectURL string) (*oauth2.Token, error) {
	discovery, err := p.Discover(ctx)

	if err != nil {
		return nil, err
	}

	return p.Config(discovery, redirectURL).Exchange(ctx, code)
}

// FetchUserinfo calls the provider's userinfo endpoint with the access
// token and returns the subject profile.
func (p *Provider) FetchUserinfo(ctx context.Context, accessToken string) (Userinfo, error) {
	discovery, err := p.Discover(ctx)

	if err != nil {
		return Userinfo{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discovery.UserinfoEndpoint, nil)

	if err != nil {
		return Userinfo{}, err
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)

	if err != nil {
		return Userinfo{}, fmt.Errorf("failed to fetch userinfo from %s: %w", p.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Userinfo{}, fmt.Errorf("userinfo endpoint for %s returned %d", p.Name, resp.StatusCode)
	}

	var raw json.RawMessage

	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Userinfo{}, fmt.Errorf("failed to decode userinfo from %s: %w", p.Name, err)
	}

	var info Userinfo

	if err := json.Unmarshal(raw, &info); err != nil {
		return Userinfo{}, err
	}

	info.Raw = raw
	return info, nil
}

// Registry maps route provider names to configured providers.
type Registry map[string]*Provider

// NewRegistry wires up the providers that have credentials in the
// environment. A provider without credentials simply is not offered.
func NewRegistry() Registry {
	registry := Registry{}

	if id, secret := os.Getenv("GOOGLE_CLIENT_ID"), os.Getenv("GOOGLE_CLIENT_SECRET"); id != "" {
		registry[models.ProviderGoogle] = &Provider{
			Name:         models.ProviderGoogle,
			DiscoveryURL: "https://accounts.google.com/.well-known/openid-configuration",
			ClientID:     id,
			ClientSecret: secret,
			Scopes:       []string{"openid", "profile", "email"},
		}
	}

	if id, secret := os.Getenv("LINKEDIN_CLIENT_ID"), os.Getenv("LINKEDIN_CLIENT_SECRET"); id != "" {
		registry[models.ProviderLinkedIn] = &Provider{
			Name:         models.ProviderLinkedIn,
			DiscoveryURL: "https://www.linkedin.com/oauth/.well-known/openid-configuration",
			ClientID:     id,
			ClientSecret: secret,
			Scopes:       []string{"openid", "profile", "email"},
		}
	}

	if id, secret := os.Getenv("ENTRAID_CLIENT_ID"), os.Getenv("ENTRAID_CLIENT_SECRET"); id != "" {
		tenant := os.Getenv("ENTRAID_TENANT")
		if tenant == "" {
			tenant = "common"
		}
		registry[models.ProviderEntraID] = &Provider{
			Name:         models.ProviderEntraID,
			DiscoveryURL: fmt.Sprintf("https://login.microsoftonline.com/%s/v2.0/.well-known/openid-configuration", tenant),
			ClientID:     id,
			ClientSecret: secret,
			Scopes:       []string{"openid", "profile", "email"},
		}
	}

	return registry
}
