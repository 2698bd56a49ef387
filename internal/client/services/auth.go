package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/jobswipe/internal/client/client"
	"github.com/dmitrijs2005/jobswipe/internal/client/models"
)

// ErrAuthFailed wraps every failed OAuth code exchange.
var ErrAuthFailed = errors.New("authentication failed")

// SessionWriter is the subset of the session store AuthService mutates.
// Profile updates carry the Generation seen before the request, so an answer
// that arrives after a logout or a new login is dropped.
type SessionWriter interface {
	SetAuth(ctx context.Context, token string, user *models.User) error
	Generation() uint64
	UpdateUser(ctx context.Context, gen uint64, user *models.User) error
	MergeUser(ctx context.Context, gen uint64, patch models.UserPatch) error
}

// AuthService defines authentication operations.
//
// Contract:
//   - Login: exchange an OAuth code via the backend and record the session.
//   - Me: fetch the current user; requires a token.
//   - Refresh: Me followed by a profile update of the session.
//   - LinkProvider: attach another OAuth identity and record it on the
//     session user; requires a token.
type AuthService interface {
	Login(ctx context.Context, provider, code, redirectURI string) (*models.AuthResponse, error)
	Me(ctx context.Context) (*models.User, error)
	Refresh(ctx context.Context) (*models.User, error)
	LinkProvider(ctx context.Context, provider, code, redirectURI string) (*models.LinkProviderResponse, error)
}

type authService struct {
	http    Doer
	session SessionWriter
}

func NewAuthService(hc Doer, session SessionWriter) AuthService {
	return &authService{http: hc, session: session}
}

type oauthCodeRequest struct {
	Provider    string `json:"provider"`
	Code        string `json:"code"`
	RedirectURI string `json:"redirect_uri,omitempty"`
}

func validateCode(provider, code string) error {
	if strings.TrimSpace(provider) == "" {
		return fmt.Errorf("%w: provider is empty", ErrInvalidArgument)
	}
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("%w: authorization code is empty", ErrInvalidArgument)
	}
	return nil
}

// Login posts the code to /auth/oauth/callback and, on success, records the
// returned token and user in the session.
func (a *authService) Login(ctx context.Context, provider, code, redirectURI string) (*models.AuthResponse, error) {
	if err := validateCode(provider, code); err != nil {
		return nil, err
	}

	var resp models.AuthResponse
	err := a.http.DoJSON(ctx, client.Request{
		Method: http.MethodPost,
		Path:   "/auth/oauth/callback",
		Body:   oauthCodeRequest{Provider: provider, Code: code, RedirectURI: redirectURI},
		NoAuth: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("%w with %s: %w", ErrAuthFailed, provider, err)
	}
	if resp.Token == "" || resp.User == nil {
		return nil, fmt.Errorf("%w with %s: incomplete response", ErrAuthFailed, provider)
	}

	if err := a.session.SetAuth(ctx, resp.Token, resp.User); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return &resp, nil
}

func (a *authService) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	err := a.http.DoJSON(ctx, client.Request{
		Method:      http.MethodGet,
		Path:        "/auth/me",
		RequireAuth: true,
		NoCache:     true,
	}, &u)
	if err != nil {
		return nil, fmt.Errorf("fetch user session: %w", err)
	}
	return &u, nil
}

func (a *authService) Refresh(ctx context.Context) (*models.User, error) {
	gen := a.session.Generation()
	u, err := a.Me(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.session.UpdateUser(ctx, gen, u); err != nil {
		return nil, fmt.Errorf("update session user: %w", err)
	}
	return u, nil
}

func (a *authService) LinkProvider(ctx context.Context, provider, code, redirectURI string) (*models.LinkProviderResponse, error) {
	if err := validateCode(provider, code); err != nil {
		return nil, err
	}

	gen := a.session.Generation()
	var resp models.LinkProviderResponse
	err := a.http.DoJSON(ctx, client.Request{
		Method:      http.MethodPost,
		Path:        "/auth/link-provider",
		Body:        oauthCodeRequest{Provider: provider, Code: code, RedirectURI: redirectURI},
		RequireAuth: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to link %s: %w", provider, err)
	}

	patch := models.UserPatch{LinkAccount: &models.LinkedAccount{Provider: provider}}
	if err := a.session.MergeUser(ctx, gen, patch); err != nil {
		return nil, fmt.Errorf("record linked %s: %w", provider, err)
	}
	return &resp, nil
}
