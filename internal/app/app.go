package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/moodcare-backend/internal/db"
	"github.com/yungbote/moodcare-backend/internal/observability"
	"github.com/yungbote/moodcare-backend/internal/pkg/logger"
	"github.com/yungbote/moodcare-backend/internal/realtime"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	Hub      *realtime.Hub

	dbService    *db.DBService
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "moodcare-backend",
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	dbService, err := db.NewDBService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	theDB := dbService.DB()

	clients, err := wireClients(log)
	if err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}

	hub := realtime.NewHub(log)
	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, hub, clients)
	handlerset := wireHandlers(theDB, log, serviceset, hub)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		Hub:          hub,
		dbService:    dbService,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches the background pieces: the bus forwarder that turns
// Redis messages into local hub broadcasts.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Clients.Bus != nil {
		if err := a.Clients.Bus.StartForwarder(ctx, a.Hub.Broadcast); err != nil {
			a.Log.Error("realtime bus forwarder failed to start", "error", err)
		}
	}
}

// Run serves HTTP until SIGINT/SIGTERM, then drains in-flight requests.
func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}

	srv := &http.Server{
		Addr:    ":" + a.Cfg.Port,
		Handler: a.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		a.Log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		_ = a.otelShutdown(ctx)
		cancel()
	}
	if a.dbService != nil {
		_ = a.dbService.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
