package oauth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/jobswipe/internal/logging"
	"github.com/go-chi/chi/v5"
)

const CallbackPath = "/auth/callback"

var (
	ErrStateMismatch = errors.New("oauth state mismatch")
	ErrDenied        = errors.New("authorization denied")
)

// Code is what the provider redirect delivered.
type Code struct {
	Code string
	Err  error
}

// CallbackServer accepts exactly one provider redirect for an expected state.
type CallbackServer struct {
	state  string
	log    logging.Logger
	result chan Code
	srv    *http.Server
	ln     net.Listener
}

// ListenCallback starts listening on addr ("127.0.0.1:0" picks a free port).
func ListenCallback(addr, state string, log logging.Logger) (*CallbackServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	s := &CallbackServer{
		state:  state,
		log:    log,
		result: make(chan Code, 1),
		ln:     ln,
	}

	r := chi.NewRouter()
	r.Get(CallbackPath, s.handleCallback)
	s.srv = &http.Server{Handler: r, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(context.Background(), "oauth callback server failed", "error", err)
		}
	}()
	return s, nil
}

// Addr is the bound address.
func (s *CallbackServer) Addr() string {
	return s.ln.Addr().String()
}

func (s *CallbackServer) URL() string {
	return "http://" + s.Addr() + CallbackPath
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var res Code
	switch {
	case q.Get("error") != "":
		res.Err = fmt.Errorf("%w: %s", ErrDenied, q.Get("error"))
	case q.Get("state") != s.state:
		res.Err = ErrStateMismatch
	case q.Get("code") == "":
		res.Err = errors.New("callback without code")
	default:
		res.Code = q.Get("code")
	}

	if res.Err != nil {
		s.log.Warn(r.Context(), "oauth callback rejected", "error", res.Err)
		http.Error(w, "Login failed. Return to the terminal.", http.StatusBadRequest)
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Login complete. You can close this window."))
	}

	select {
	case s.result <- res:
	default:
	}
}

// Wait blocks until the first callback arrives or ctx is done.
func (s *CallbackServer) Wait(ctx context.Context) (string, error) {
	select {
	case res := <-s.result:
		return res.Code, res.Err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *CallbackServer) Close(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
