package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/abrezinsky/hockeyscorer/internal/config"
	"github.com/abrezinsky/hockeyscorer/internal/handlers"
	"github.com/abrezinsky/hockeyscorer/internal/idgen"
	"github.com/abrezinsky/hockeyscorer/internal/kvstore"
	"github.com/abrezinsky/hockeyscorer/internal/logger"
	"github.com/abrezinsky/hockeyscorer/internal/repository"
	"github.com/abrezinsky/hockeyscorer/internal/scheduler"
	"github.com/abrezinsky/hockeyscorer/internal/services"
	"github.com/abrezinsky/hockeyscorer/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

// App holds all application dependencies
type App struct {
	cfg      *config.Config
	log      logger.Logger
	repo     *repository.Repository
	hub      *websocket.Hub
	handlers *handlers.Handlers
	baseURL  string
}

// New creates the application with a file-backed store under cfg.DataDir
func New(cfg *config.Config, log logger.Logger) (*App, error) {
	kv, err := kvstore.NewFileStore(cfg.DataDir, cfg.StorageQuotaBytes)
	if err != nil {
		return nil, err
	}
	return NewWithStore(cfg, log, kv, clockwork.NewRealClock())
}

// NewWithStore creates the application over an existing key-value store
func NewWithStore(cfg *config.Config, log logger.Logger, kv kvstore.Store, clock clockwork.Clock) (*App, error) {
	repo, err := repository.New(kv, log.With("component", "repository"), clock)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	repo.SetPersistSettle(cfg.PersistSettle)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = lanBaseURL(realNetworkProvider{}, cfg.Port)
	}

	// Initialize services
	gameService := services.NewGameService(log, repo, clock, idgen.UUID{}, idgen.NanoID{Size: 10})
	logService := services.NewLogService(log, repo)
	historyService := services.NewHistoryService(log, repo)
	consentService := services.NewConsentService(log, kv)
	shareService := services.NewShareService(log, baseURL)

	hub := websocket.New(log.With("component", "websocket"), gameService)
	hub.Start()
	gameService.SetBroadcaster(hub)
	logService.SetBroadcaster(hub)
	historyService.SetBroadcaster(hub)

	h := handlers.New(
		gameService,
		logService,
		historyService,
		consentService,
		shareService,
		repo,
		http.HandlerFunc(hub.ServeWs),
		log,
	)

	return &App{
		cfg:      cfg,
		log:      log,
		repo:     repo,
		hub:      hub,
		handlers: h,
		baseURL:  baseURL,
	}, nil
}

// BaseURL is the address the scoreboard is shared under
func (a *App) BaseURL() string {
	return a.baseURL
}

// Handler returns the HTTP handler with cross-origin access applied
func (a *App) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: a.cfg.CORSOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(a.handlers.Router())
}

// Run serves HTTP and runs maintenance until ctx is cancelled or the
// server fails
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return err
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var sched *scheduler.Scheduler
	if a.cfg.MaintenanceInterval > 0 {
		var err error
		if sched, err = scheduler.New(a.log, a.repo, a.cfg.MaintenanceInterval, nil); err != nil {
			ln.Close()
			return err
		}
		if err := sched.Start(); err != nil {
			ln.Close()
			return err
		}
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info("Server starting", "url", a.baseURL)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		a.log.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		if sched != nil {
			errs = append(errs, sched.Stop())
		}
		a.hub.Stop()
		errs = append(errs, srv.Shutdown(shutdownCtx))
		return errors.Join(errs...)
	})

	return g.Wait()
}

// Close releases the store. Call after Run returns.
func (a *App) Close() error {
	a.hub.Stop()
	return a.repo.Close()
}
