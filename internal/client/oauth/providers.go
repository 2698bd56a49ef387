// Package oauth builds provider authorization URLs and receives the
// authorization code on a local callback listener. The code itself is
// exchanged by the backend, never by the client.
package oauth

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

type Provider string

const (
	Google   Provider = "google"
	GitHub   Provider = "github"
	LinkedIn Provider = "linkedin"
)

var (
	ErrUnknownProvider = errors.New("unknown oauth provider")
	ErrNotConfigured   = errors.New("oauth provider not configured")
)

var scopes = map[Provider][]string{
	Google:   {"email", "profile", "openid"},
	GitHub:   {"read:user", "user:email"},
	LinkedIn: {"openid", "profile", "email"},
}

var providerEndpoints = map[Provider]oauth2.Endpoint{
	Google:   endpoints.Google,
	GitHub:   endpoints.GitHub,
	LinkedIn: endpoints.LinkedIn,
}

func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := scopes[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, s)
	}
	return p, nil
}

// Providers holds one oauth2.Config per configured provider.
type Providers struct {
	redirectURL string
	configs     map[Provider]*oauth2.Config
}

// NewProviders configures every provider with a non-empty client ID.
func NewProviders(redirectURL string, clientIDs map[Provider]string) *Providers {
	p := &Providers{redirectURL: redirectURL, configs: make(map[Provider]*oauth2.Config)}
	for prov, id := range clientIDs {
		ep, ok := providerEndpoints[prov]
		if !ok || id == "" {
			continue
		}
		p.configs[prov] = &oauth2.Config{
			ClientID:    id,
			Endpoint:    ep,
			RedirectURL: redirectURL,
			Scopes:      scopes[prov],
		}
	}
	return p
}

func (p *Providers) RedirectURL() string { return p.redirectURL }

// Configured lists the usable providers in name order.
func (p *Providers) Configured() []Provider {
	out := make([]Provider, 0, len(p.configs))
	for prov := range p.configs {
		out = append(out, prov)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AuthURL is the page the user opens to grant access. Google additionally
// asks for offline access with a forced consent prompt.
func (p *Providers) AuthURL(prov Provider, state string) (string, error) {
	if _, ok := scopes[prov]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, prov)
	}
	cfg, ok := p.configs[prov]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotConfigured, prov)
	}

	var opts []oauth2.AuthCodeOption
	if prov == Google {
		opts = append(opts, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	}
	return cfg.AuthCodeURL(state, opts...), nil
}

// NewState returns an unguessable state value for one login attempt.
func NewState() string {
	return uuid.NewString()
}
