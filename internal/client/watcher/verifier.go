// Package watcher re-validates the persisted session against the backend:
// once at startup and then on a fixed schedule.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/jobswipe/internal/client/models"
	"github.com/dmitrijs2005/jobswipe/internal/logging"
	"github.com/robfig/cron/v3"
)

// ErrTokenExpired is returned when the token's own exp claim has passed; the
// session is cleared without asking the backend.
var ErrTokenExpired = errors.New("token expired")

type Session interface {
	IsAuthenticated() bool
	Expired(now time.Time) bool
	Logout(ctx context.Context) error
}

// Refresher fetches the current user and stores it in the session.
type Refresher interface {
	Refresh(ctx context.Context) (*models.User, error)
}

// SessionVerifier wraps robfig/cron and runs the verification job.
type SessionVerifier struct {
	cron      *cron.Cron
	spec      string
	interval  time.Duration
	session   Session
	refresher Refresher
	log       logging.Logger
	now       func() time.Time
}

// NewSessionVerifier fires every interval.
func NewSessionVerifier(session Session, refresher Refresher, interval time.Duration, log logging.Logger) *SessionVerifier {
	return &SessionVerifier{
		cron: cron.New(
			cron.WithLogger(cronLogger{log: log}),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{log: log})),
		),
		spec:      fmt.Sprintf("@every %s", interval),
		interval:  interval,
		session:   session,
		refresher: refresher,
		log:       log,
		now:       time.Now,
	}
}

// VerifyOnce refreshes the user of an authenticated session. Logged-out
// stores are left alone. A 401/403 from the backend clears the session in the
// HTTP layer; the error is still returned.
func (v *SessionVerifier) VerifyOnce(ctx context.Context) error {
	if !v.session.IsAuthenticated() {
		return nil
	}

	if v.session.Expired(v.now()) {
		v.log.Info(ctx, "session token expired, logging out")
		if err := v.session.Logout(ctx); err != nil {
			return fmt.Errorf("logout expired session: %w", err)
		}
		return ErrTokenExpired
	}

	if _, err := v.refresher.Refresh(ctx); err != nil {
		return fmt.Errorf("session sync failed: %w", err)
	}
	return nil
}

// Start registers the periodic job and starts the scheduler.
func (v *SessionVerifier) Start(ctx context.Context) error {
	if v.interval < time.Second {
		return fmt.Errorf("session check interval %s is below 1s", v.interval)
	}
	_, err := v.cron.AddFunc(v.spec, func() {
		if err := v.VerifyOnce(ctx); err != nil {
			v.log.Warn(ctx, "periodic session check failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	v.cron.Start()
	v.log.Debug(ctx, "session verifier started", "spec", v.spec)
	return nil
}

// Stop halts the scheduler and waits for a running check to finish.
func (v *SessionVerifier) Stop() {
	<-v.cron.Stop().Done()
}

// cronLogger adapts logging.Logger to cron.Logger.
type cronLogger struct {
	log logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(context.Background(), "cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(context.Background(), "cron: "+msg, append(keysAndValues, "error", err)...)
}
