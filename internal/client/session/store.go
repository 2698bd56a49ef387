// Package session is the single source of truth for who is logged in and with
// which bearer token.
//
// The current session is held behind an atomic pointer and replaced wholesale
// on every write, so readers (the HTTP layer on every request, route guards
// on every navigation) never block and never observe a half-applied update.
// Writers are serialized so that the persisted copy matches the in-memory one.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/jobswipe/internal/client/models"
	"github.com/dmitrijs2005/jobswipe/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/jobswipe/internal/logging"
)

// StorageKey is the metadata key holding the serialized session.
const StorageKey = "auth-storage"

var (
	ErrEmptyToken = errors.New("session: token must not be empty")
	ErrNilUser    = errors.New("session: user must not be nil")
	// ErrNoSession is returned by user updates when nobody is logged in.
	ErrNoSession = errors.New("session: not authenticated")
	// ErrStaleSession is returned by user updates computed for a session
	// that has since been replaced or logged out.
	ErrStaleSession = errors.New("session: changed since the update was requested")
)

// Hook runs after the session has been cleared.
type Hook func(ctx context.Context) error

type Store struct {
	cur atomic.Pointer[models.Session]
	// gen changes on every identity change (load, login, logout). It is
	// bumped after cur is swapped.
	gen  atomic.Uint64
	wmu  sync.Mutex
	repo metadata.Repository
	log  logging.Logger

	hmu   sync.Mutex
	hooks []Hook
}

func NewStore(repo metadata.Repository, log logging.Logger) *Store {
	s := &Store{repo: repo, log: log}
	s.cur.Store(&models.Session{})
	return s
}

// OnLogout registers fn to run on every effective logout.
func (s *Store) OnLogout(fn Hook) {
	s.hmu.Lock()
	s.hooks = append(s.hooks, fn)
	s.hmu.Unlock()
}

// Load restores the persisted session. A stored record lacking either the
// token or the user is discarded and the store starts logged out.
func (s *Store) Load(ctx context.Context) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	raw, err := s.repo.Get(ctx, StorageKey)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if raw == nil {
		s.cur.Store(&models.Session{})
		return nil
	}

	var stored models.Session
	if err := json.Unmarshal(raw, &stored); err != nil || !stored.IsAuthenticated() {
		s.log.Warn(ctx, "discarding incomplete persisted session")
		s.cur.Store(&models.Session{})
		if err := s.repo.Delete(ctx, StorageKey); err != nil {
			return fmt.Errorf("drop session: %w", err)
		}
		return nil
	}

	s.cur.Store(&stored)
	s.gen.Add(1)
	return nil
}

// SetAuth records a new session and persists it.
func (s *Store) SetAuth(ctx context.Context, token string, user *models.User) error {
	if token == "" {
		return ErrEmptyToken
	}
	if user == nil {
		return ErrNilUser
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()

	if err := s.replace(ctx, &models.Session{Token: token, User: user.Clone()}); err != nil {
		return err
	}
	s.gen.Add(1)
	return nil
}

// Generation identifies the current session. Capture it before a request
// whose answer is only valid for the session that sent it.
func (s *Store) Generation() uint64 {
	return s.gen.Load()
}

// UpdateUser replaces the profile while keeping the token. gen is the
// Generation observed before the profile was fetched.
func (s *Store) UpdateUser(ctx context.Context, gen uint64, user *models.User) error {
	if user == nil {
		return ErrNilUser
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()

	cur, err := s.current(gen)
	if err != nil {
		return err
	}
	return s.replace(ctx, &models.Session{Token: cur.Token, User: user.Clone()})
}

// MergeUser applies a partial profile update as one atomic replace.
func (s *Store) MergeUser(ctx context.Context, gen uint64, patch models.UserPatch) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	cur, err := s.current(gen)
	if err != nil {
		return err
	}
	return s.replace(ctx, &models.Session{Token: cur.Token, User: patch.Apply(cur.User)})
}

// current must be called with wmu held.
func (s *Store) current(gen uint64) (*models.Session, error) {
	cur := s.cur.Load()
	if !cur.IsAuthenticated() {
		return nil, ErrNoSession
	}
	if s.gen.Load() != gen {
		return nil, ErrStaleSession
	}
	return cur, nil
}

// Logout clears the session, persists the cleared state and runs the logout
// hooks. Calling it while logged out does nothing.
func (s *Store) Logout(ctx context.Context) error {
	s.wmu.Lock()
	cur := s.cur.Load()
	if cur.Token == "" && cur.User == nil {
		s.wmu.Unlock()
		return nil
	}

	s.cur.Store(&models.Session{})
	s.gen.Add(1)
	err := s.repo.Delete(ctx, StorageKey)
	s.wmu.Unlock()
	if err != nil {
		err = fmt.Errorf("clear persisted session: %w", err)
	}

	s.hmu.Lock()
	hooks := append([]Hook(nil), s.hooks...)
	s.hmu.Unlock()

	errs := []error{err}
	for _, h := range hooks {
		if herr := h(ctx); herr != nil {
			s.log.Error(ctx, "logout hook failed", "error", herr)
			errs = append(errs, herr)
		}
	}
	return errors.Join(errs...)
}

// Token is the current bearer token, "" when logged out.
func (s *Store) Token() string {
	return s.cur.Load().Token
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() models.Session {
	cur := s.cur.Load()
	return models.Session{Token: cur.Token, User: cur.User.Clone()}
}

func (s *Store) IsAuthenticated() bool {
	return s.cur.Load().IsAuthenticated()
}

// replace must be called with wmu held.
func (s *Store) replace(ctx context.Context, next *models.Session) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.repo.Set(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.cur.Store(next)
	return nil
}
