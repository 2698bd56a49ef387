package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/jobswipe/internal/client/guard"
	"github.com/dmitrijs2005/jobswipe/internal/client/oauth"
	"github.com/dmitrijs2005/jobswipe/internal/client/session"
)

var errUsage = errors.New("usage")

// Login signs in with an OAuth provider. Without a code argument the
// authorization link is printed and the code is taken from the local
// callback, or pasted by hand when no callback can be served.
func (a *App) Login(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Usage: login <google|github|linkedin> [code]")
		return errUsage
	}
	if a.isLoggedIn() {
		a.println("Already logged in as", a.session.Snapshot().User.Name+". Run 'logout' first.")
		return nil
	}

	prov, err := oauth.ParseProvider(args[0])
	if err != nil {
		a.println(err)
		return err
	}
	a.setRoute(guard.RouteLogin)

	code, err := a.authorizationCode(ctx, prov, args[1:])
	if err != nil {
		a.println("Login unsuccessful:", err)
		return err
	}

	resp, err := a.auth.Login(ctx, string(prov), code, a.providers.RedirectURL())
	if err != nil {
		a.log.Error(ctx, "login failed", "provider", prov, "error", err)
		a.println("Login unsuccessful:", err)
		return err
	}

	a.println("Logged in as", resp.User.Name)
	if a.navigate(guard.RouteJobs) {
		a.println("Type 'jobs' to start swiping.")
	}
	return nil
}

// Link attaches another provider to the signed-in account.
func (a *App) Link(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Usage: link <google|github|linkedin> [code]")
		return errUsage
	}
	if !a.isLoggedIn() {
		a.navigate(guard.RouteJobs)
		return nil
	}

	prov, err := oauth.ParseProvider(args[0])
	if err != nil {
		a.println(err)
		return err
	}

	code, err := a.authorizationCode(ctx, prov, args[1:])
	if err != nil {
		a.println("Linking failed:", err)
		return err
	}

	resp, err := a.auth.LinkProvider(ctx, string(prov), code, a.providers.RedirectURL())
	if err != nil {
		a.println("Linking failed:", err)
		return err
	}
	if resp.Message != "" {
		a.println(resp.Message)
	} else {
		a.println("Linked", prov)
	}
	return nil
}

func (a *App) authorizationCode(ctx context.Context, prov oauth.Provider, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	state := oauth.NewState()
	authURL, err := a.providers.AuthURL(prov, state)
	if err != nil {
		a.log.Debug(ctx, "no client id for provider, asking for a code", "provider", prov)
		return GetSecret(a.reader, fmt.Sprintf("Paste the %s authorization code", prov), a.out)
	}

	srv, err := oauth.ListenCallback(a.config.CallbackAddr, state, a.log)
	if err != nil {
		a.log.Warn(ctx, "callback listener unavailable", "addr", a.config.CallbackAddr, "error", err)
		a.println("Open this link to authorize:", authURL)
		return GetSecret(a.reader, "Paste the authorization code", a.out)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Close(closeCtx)
	}()

	a.println("Open this link to authorize:", authURL)
	a.println("Waiting for the provider to redirect back...")

	waitCtx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()
	return srv.Wait(waitCtx)
}

// Whoami prints the stored profile and what the token says about itself.
func (a *App) Whoami(ctx context.Context, _ []string) error {
	s := a.session.Snapshot()
	if !s.IsAuthenticated() {
		a.println("Not logged in.")
		return nil
	}

	u := s.User
	a.println(fmt.Sprintf("%s <%s> (%s)", u.Name, u.Email, u.Role))
	if u.Onboarding {
		a.println("Onboarding: pending")
	} else {
		a.println("Onboarding: complete")
	}
	for _, acc := range u.LinkedAccounts {
		a.println("Linked:", acc.Provider)
	}

	claims, err := session.ParseClaims(s.Token)
	switch {
	case err != nil:
		a.log.Debug(ctx, "token carries no readable claims", "error", err)
	case claims.HasExpiry():
		a.println("Token expires:", claims.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

// Refresh re-reads the profile from the backend. It is how a user who
// finished onboarding elsewhere gets into the main pages.
func (a *App) Refresh(ctx context.Context, _ []string) error {
	if !a.isLoggedIn() {
		a.navigate(guard.RouteOnboarding)
		return nil
	}

	u, err := a.auth.Refresh(ctx)
	if err != nil {
		a.println("Could not refresh profile:", err)
		return err
	}

	if u.Onboarding {
		a.setRoute(guard.RouteOnboarding)
		a.println("Onboarding is still pending.")
		return nil
	}
	a.navigate(guard.RouteJobs)
	a.println("Profile up to date.")
	return nil
}

// Logout clears the session and every cached response.
func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.session.Logout(ctx); err != nil {
		a.log.Error(ctx, "logout cleanup failed", "error", err)
	}
	a.setRoute(guard.RouteLogin)
	a.println("Logged out.")
	return nil
}
