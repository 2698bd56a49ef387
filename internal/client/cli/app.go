package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/jobswipe/internal/client/cache"
	"github.com/dmitrijs2005/jobswipe/internal/client/client"
	"github.com/dmitrijs2005/jobswipe/internal/client/config"
	"github.com/dmitrijs2005/jobswipe/internal/client/events"
	"github.com/dmitrijs2005/jobswipe/internal/client/guard"
	"github.com/dmitrijs2005/jobswipe/internal/client/metrics"
	"github.com/dmitrijs2005/jobswipe/internal/client/oauth"
	cacherepo "github.com/dmitrijs2005/jobswipe/internal/client/repositories/cache"
	"github.com/dmitrijs2005/jobswipe/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/jobswipe/internal/client/services"
	"github.com/dmitrijs2005/jobswipe/internal/client/session"
	"github.com/dmitrijs2005/jobswipe/internal/client/storage"
	"github.com/dmitrijs2005/jobswipe/internal/client/views"
	"github.com/dmitrijs2005/jobswipe/internal/client/watcher"
	"github.com/dmitrijs2005/jobswipe/internal/logging"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "jobswipe:"
	loginTimeout   = 5 * time.Minute
	feedLimit      = 10
)

// App wires configuration, local storage, the HTTP layer, page controllers
// and the REPL.
type App struct {
	config *config.Config
	log    logging.Logger

	reader *bufio.Reader
	outMu  sync.Mutex
	out    io.Writer

	db      *sql.DB
	rdb     *redis.Client
	bus     *events.Bus
	metrics *metrics.Client
	session *session.Store
	http    *client.HTTPClient

	respCache cache.Store
	techFeed  *cache.MemoryStore

	auth      services.AuthService
	providers *oauth.Providers
	verifier  *watcher.SessionVerifier

	queue        *views.JobsQueue
	bookmarks    *views.Bookmarks
	applications *views.Applications
	dashboard    *views.Dashboard
	feed         *views.Feed

	routeMu sync.Mutex
	route   string

	// pending tracks optimistic results that are still being reported.
	pending sync.WaitGroup
}

// NewApp opens the local database, picks the response cache backend and
// builds every service and page controller.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	a := &App{
		config:  c,
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		db:      db,
		bus:     events.NewBus(),
		metrics: metrics.New(),
		route:   guard.RouteLogin,
	}

	switch c.CacheBackend {
	case config.CacheBackendRedis:
		rdb, err := cache.NewRedisClient(ctx, c.RedisURL)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		a.rdb = rdb
		a.respCache = cache.NewRedisStore(rdb, redisKeyPrefix, func() string {
			return cache.TokenScope(a.session.Token())
		})
	default:
		a.respCache = cache.NewSQLiteStore(cacherepo.NewSQLiteRepository(db))
	}
	a.techFeed = cache.NewMemoryStore()

	a.session = session.NewStore(metadata.NewSQLiteRepository(db), log)
	a.session.OnLogout(a.respCache.Clear)
	a.session.OnLogout(a.techFeed.Clear)
	a.session.OnLogout(a.resetPages)

	a.http, err = client.New(client.Options{
		BaseURL:           c.APIBaseURL,
		Timeout:           c.RequestTimeout,
		RequestsPerSecond: c.RequestsPerSecond,
		Burst:             c.RequestBurst,
		Session:           a.session,
		Cache:             a.respCache,
		Bus:               a.bus,
		Metrics:           a.metrics,
		Logger:            log,
	})
	if err != nil {
		a.closeStorage()
		return nil, err
	}

	a.auth = services.NewAuthService(a.http, a.session)
	jobs := services.NewJobsService(a.http)
	bookmarks := services.NewBookmarksService(a.http)

	a.queue = views.NewJobsQueue(jobs, bookmarks, a.metrics)
	a.bookmarks = views.NewBookmarks(bookmarks, a.metrics)
	a.applications = views.NewApplications(services.NewApplicationsService(a.http), a.metrics)
	a.dashboard = views.NewDashboard(services.NewAnalyticsService(a.http))
	a.feed = views.NewFeed(services.NewFeedService(a.http, c.TechFeedURL, a.techFeed, log))

	a.providers = oauth.NewProviders(c.OAuthRedirectURL, map[oauth.Provider]string{
		oauth.Google:   c.GoogleClientID,
		oauth.GitHub:   c.GitHubClientID,
		oauth.LinkedIn: c.LinkedInClientID,
	})
	a.verifier = watcher.NewSessionVerifier(a.session, a.auth, c.SessionCheckInterval, log)

	return a, nil
}

// Run restores the persisted session, verifies it against the backend and
// starts the REPL. It blocks until the user exits or ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Close()

	if err := a.session.Load(ctx); err != nil {
		a.log.Warn(ctx, "failed to restore session", "error", err)
	}

	limited, cancelLimited := a.bus.Subscribe(events.TopicRateLimited, 4)
	defer cancelLimited()
	loggedOut, cancelLoggedOut := a.bus.Subscribe(events.TopicLoggedOut, 4)
	defer cancelLoggedOut()
	go a.watchNotices(ctx, limited, loggedOut)

	if err := a.verifier.VerifyOnce(ctx); err != nil {
		a.log.Warn(ctx, "startup session check failed", "error", err)
	}
	if err := a.verifier.Start(ctx); err != nil {
		a.log.Warn(ctx, "periodic session check disabled", "error", err)
	}

	if a.config.MetricsAddr != "" {
		go func() {
			if err := a.metrics.Serve(ctx, a.config.MetricsAddr); err != nil {
				a.log.Error(ctx, "metrics server stopped", "error", err)
			}
		}()
	}

	if a.isLoggedIn() {
		a.navigate(guard.RouteJobs)
		a.println(fmt.Sprintf("Welcome back, %s.", a.session.Snapshot().User.Name))
	} else {
		a.println("Welcome to jobswipe. Type 'help' to get started.")
	}

	runREPL(ctx, a, a.status, a.reader)
	a.pending.Wait()
	return nil
}

// resetPages drops page state that belongs to the user who just left.
func (a *App) resetPages(context.Context) error {
	a.queue.Reset()
	a.bookmarks.Reset()
	a.applications.Reset()
	return nil
}

// Close stops background work and releases storage. It is safe to call more
// than once.
func (a *App) Close() {
	a.verifier.Stop()
	a.queue.Close()
	a.bookmarks.Close()
	a.applications.Close()
	a.bus.Close()
	a.closeStorage()
}

func (a *App) closeStorage() {
	if a.rdb != nil {
		_ = a.rdb.Close()
		a.rdb = nil
	}
	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
}

// watchNotices turns bus events into user-facing notices.
func (a *App) watchNotices(ctx context.Context, limited, loggedOut <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-limited:
			if !ok {
				return
			}
			a.println("Daily Quota Exceeded: swipe limit exceeded, try again tomorrow.")
		case _, ok := <-loggedOut:
			if !ok {
				return
			}
			a.setRoute(guard.RouteLogin)
			a.println("Your session has ended. Please log in again.")
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

// status renders the prompt: user and current page.
func (a *App) status() string {
	s := a.session.Snapshot()
	if !s.IsAuthenticated() {
		return "guest " + a.currentRoute()
	}
	return s.User.Name + " " + a.currentRoute()
}

// navigate applies the route guards and moves to route or to the redirect
// target. It reports whether route itself was entered.
func (a *App) navigate(route string) bool {
	d := guard.Decide(route, a.session.Snapshot())
	a.setRoute(d.Target())
	if d.Allowed() {
		return true
	}

	switch d.Redirect {
	case guard.RouteLogin:
		a.println("Please log in first: login <google|github|linkedin>")
	case guard.RouteOnboarding:
		a.println("Your profile is not complete yet. Finish onboarding, then run 'refresh'.")
	case guard.RouteJobs:
		a.println("Onboarding already completed.")
	}
	return false
}

func (a *App) currentRoute() string {
	a.routeMu.Lock()
	defer a.routeMu.Unlock()
	return a.route
}

func (a *App) setRoute(r string) {
	a.routeMu.Lock()
	a.route = r
	a.routeMu.Unlock()
}

// println writes one line to the user. Results of optimistic actions arrive
// from other goroutines, so writes are serialized.
func (a *App) println(args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintln(a.out, args...)
}
