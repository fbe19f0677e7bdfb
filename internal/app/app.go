package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"ridepulse/internal/bookings"
	"ridepulse/internal/config"
	apierrors "ridepulse/internal/errors"
	"ridepulse/internal/infrastructure"
	customMiddleware "ridepulse/internal/middleware"
	"ridepulse/internal/services"
	"ridepulse/internal/session"
	handlers "ridepulse/internal/transport/http"
	ws "ridepulse/internal/websocket"
)

var (
	// Version is set at compile time
	Version = config.AppVersion
	// BuildTime is set at compile time
	BuildTime = ""
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	ErrorHandler  *apierrors.ErrorHandler

	Sessions      *session.Store
	Dashboard     *services.DashboardService
	HealthService *services.HealthService
	WebSocketHub  *ws.Hub

	listener net.Listener
	serveErr chan error
}

// NewApplication loads configuration and the process logger, then builds the
// application
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(ctx, cfg, logger)
}

// New wires every component from cfg. A dataset that fails to load is
// logged and leaves the application running but not ready.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.InfoContext(ctx, "Application starting",
		slog.String("name", config.AppName),
		slog.String("version", Version))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	if err := a.initializeServices(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	a.setupRouter()
	a.createServer()

	return a, nil
}

// initializeServices builds the loader, session store, dashboard service and
// websocket hub, then loads the configured dataset
func (a *Application) initializeServices(ctx context.Context) error {
	var loaderOpts []bookings.LoaderOption
	if a.Config.Dataset.SheetsEnabled() {
		client, err := bookings.NewSheetsClient(ctx, a.Config.Dataset.SheetsAPIKey, a.Config.Dataset.SheetsCredentialsFile)
		if err != nil {
			return fmt.Errorf("failed to initialize sheets client: %w", err)
		}
		loaderOpts = append(loaderOpts, bookings.WithSheetsFetcher(client))
	}
	loader := bookings.NewLoader(a.Logger, loaderOpts...)

	a.Sessions = session.NewStore(session.StoreConfig{
		IdleTimeout: a.Config.Session.IdleTimeout,
		MaxSessions: a.Config.Session.MaxSessions,
	}, a.Logger)

	a.Dashboard = services.NewDashboardService(loader, a.Sessions, a.Logger,
		services.WithMetrics(a.Metrics),
		services.WithTracer(a.OTelProviders.Tracer),
		services.WithLoadTimeout(a.Config.Dataset.LoadTimeout),
		services.WithCSVBOM(a.Config.Export.BOMPrefix),
	)

	a.WebSocketHub = ws.NewHub(a.Logger, a.Metrics)
	a.WebSocketHub.Start()

	a.HealthService = services.NewHealthService(Version, BuildTime, a.Dashboard, a.WebSocketHub, a.Sessions, a.Logger)

	if _, err := a.Dashboard.LoadDataset(ctx, a.Config.Dataset.Source); err != nil {
		a.Logger.ErrorContext(ctx, "Dataset not loaded, dashboard endpoints will report 503",
			slog.String("source", a.Config.Dataset.Source),
			slog.String("error", err.Error()))
	}

	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// RequestID → RealIP → OTel → metrics → Logger → Recoverer → SecurityHeaders → CORS → RateLimit
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
	if err != nil {
		a.Logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
	} else {
		r.Use(otelMiddleware.Handler)
	}
	r.Use(customMiddleware.BusinessMetricsMiddleware(a.Metrics))
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.ErrorHandler))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
	}

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
			a.ErrorHandler,
		).Handler)
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	// The websocket is long-lived and stays outside the request timeout
	wsHandler := ws.NewHandler(a.WebSocketHub, a.Dashboard, a.Config.WebSocket,
		a.Config.Security.AllowedOrigins, a.ErrorHandler, a.Logger)
	r.With(customMiddleware.WebSocketTraceMiddleware(a.Logger)).Handle(config.WebSocketEndpoint, wsHandler)

	r.Mount(config.MetricsEndpoint, handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP).Routes())

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger, a.ErrorHandler))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Mount(config.HealthEndpoint, healthHandler.Routes())
		r.Get(config.APIBasePath+"/version", healthHandler.Version)

		r.Mount(config.APIBasePath+"/sessions", handlers.NewSessionHandler(a.Dashboard, a.Logger, a.ErrorHandler).Routes())
		r.Mount(config.APIBasePath, handlers.NewDashboardHandler(a.Dashboard, a.Logger, a.ErrorHandler).Routes())
	})

	a.Router = r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start binds the listener and serves in the background. Bind errors are
// returned directly.
func (a *Application) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	a.listener = ln
	a.serveErr = make(chan error, 1)

	go func() {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server failed", slog.String("error", err.Error()))
			a.serveErr <- err
		}
		close(a.serveErr)
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", ln.Addr().String()),
		slog.Bool("dataset_ready", a.Dashboard.Ready()))
	return nil
}

// Addr returns the bound listener address, or "" before Start
func (a *Application) Addr() string {
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if a.listener != nil {
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
		}
	}

	// hijacked websocket connections are not covered by Shutdown
	a.WebSocketHub.Stop()

	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}

// Run serves until SIGINT or SIGTERM, or until the server fails
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		return err
	}

	var serveErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("Received interrupt signal")
	case serveErr = <-a.serveErr:
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout+5*time.Second)
	defer cancel()
	return errors.Join(serveErr, a.Stop(stopCtx))
}
