package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"clinic-booking/core/cache"
	"clinic-booking/core/config"
	"clinic-booking/core/constants"
	"clinic-booking/core/errors"
	"clinic-booking/core/logger"
	"clinic-booking/core/middleware"
	"clinic-booking/core/queue"
	"clinic-booking/core/validator"
	"clinic-booking/modules/booking"
	bookingservice "clinic-booking/modules/booking/service"
	"clinic-booking/modules/booking/worker"
	"clinic-booking/modules/doctor"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// App is a fully wired API process.
type App struct {
	Echo    *echo.Echo
	Storage *Storage
	Config  *config.Config

	closers []func()
}

// Build wires storage, cache, queue and the HTTP modules from cfg.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	storage, err := OpenStorage(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	app := &App{Storage: storage, Config: cfg}
	app.onClose(func() {
		if err := storage.Close(); err != nil {
			logger.Warn("Server:Close:Storage", "error", err)
		}
	})

	catalogCache := cache.NewNoopCache()
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			app.Close()
			return nil, err
		}
		catalogCache = cache.NewRedisCache(client)
	}
	app.onClose(func() { _ = catalogCache.Close() })

	e := NewEcho(cfg)
	e.GET("/health", app.health)
	api := e.Group("/api/v1")

	catalog := doctor.Init(api, storage.Catalog, catalogCache, cfg.Redis.CatalogTTL)

	handler := worker.NewBookingConfirmedHandler(catalog)
	var publisher bookingservice.Publisher = worker.NewInlinePublisher(handler)
	if cfg.Queue.Enabled {
		opt := queue.RedisOpt(cfg.Redis)
		client := queue.NewClient(opt)
		app.onClose(func() { _ = client.Close() })
		publisher = worker.NewAsynqPublisher(client)

		qs := queue.NewServer(opt, cfg.Queue.Concurrency)
		qs.Handle(worker.TypeBookingConfirmed, handler)
		if err := qs.Start(); err != nil {
			app.Close()
			return nil, err
		}
		app.onClose(qs.Shutdown)
	}

	booking.Init(api, storage.Reservations, publisher, cfg.Booking.ReservationTimeout)

	app.Echo = e
	return app, nil
}

// NewEcho returns an echo instance with the shared middleware chain.
func NewEcho(cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()

	bodyLimit := cfg.Server.BodyLimit
	if bodyLimit == "" {
		bodyLimit = constants.DefaultBodyLimit
	}

	mw := middleware.NewMiddleware()
	e.Use(mw.RequestID())
	e.Use(mw.RequestLogger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.BodyLimit(bodyLimit))
	e.Use(echomw.ContextTimeout(constants.DefaultRequestTimeout))
	return e
}

func (a *App) health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), constants.DefaultTimeout)
	defer cancel()

	if err := a.Storage.Ping(ctx); err != nil {
		logger.Error("Server:Health:Ping", "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "driver": a.Storage.Driver})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "driver": a.Storage.Driver})
}

func (a *App) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Run loads the config, serves HTTP and shuts down on SIGINT or SIGTERM.
func Run() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Encoding); err != nil {
		logger.Warn("Server:Run:LogLevel", "level", cfg.Log.Level, "error", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server:Run:Listening", "addr", srv.Addr, "driver", cfg.Database.Driver, "queue", cfg.Queue.Enabled)
		if err := app.Echo.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Server:Run:ShuttingDown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := app.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Server:Run:Stopped")
	return nil
}
