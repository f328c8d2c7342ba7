package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	adminhandler "rendezvous/internal/admin/handler"
	appointmenthandler "rendezvous/internal/appointments/handler"
	availabilityhandler "rendezvous/internal/availability/handler"
	"rendezvous/internal/notification"
	"rendezvous/internal/scheduler"
	"rendezvous/pkg/client"
	"rendezvous/pkg/config"
	"rendezvous/pkg/contracts"
	"rendezvous/pkg/kafka"
	kafkamw "rendezvous/pkg/kafka/middleware"
	"rendezvous/pkg/metrics"
	"rendezvous/pkg/middleware"
	"rendezvous/pkg/store"
)

const serviceName = "rendezvous-api"

type Application struct {
	cfg      *config.Config
	clients  *client.Client
	services *Services

	server           *http.Server
	idempotencyStore middleware.IdempotencyStore
	rateLimiter      *middleware.ClientRateLimiter
	pool             *notification.WorkerPool
	producer         *kafka.Producer
	scheduler        *scheduler.Scheduler

	healthHandler http.Handler
	appHandler    http.Handler

	stopWorkers context.CancelFunc
	workers     sync.WaitGroup
}

func NewApplication(cfg *config.Config) *Application {
	return &Application{
		cfg:     cfg,
		clients: client.NewClient(),
	}
}

// Setup opens the store, picks the notification queue and builds the HTTP stack.
func (a *Application) Setup(ctx context.Context) error {
	st, err := OpenStore(ctx, a.cfg)
	if err != nil {
		return err
	}

	queue, err := a.setNotificationQueue()
	if err != nil {
		a.releaseSetup(st)
		return err
	}
	a.services = NewServices(a.cfg, st, queue)
	a.scheduler = scheduler.NewScheduler(a.services.Availability, a.cfg)

	if err := a.setIdempotencyStore(ctx); err != nil {
		a.releaseSetup(st)
		return err
	}

	a.setHealthHandler()
	a.setAppHandler()
	a.setAppServer()
	return nil
}

// releaseSetup closes what a failed Setup already opened.
func (a *Application) releaseSetup(st *store.Store) {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.cfg.Log.Error("Failed to close notification producer", "error", err)
		}
		a.producer = nil
	}
	a.pool = nil
	if err := st.Close(); err != nil {
		a.cfg.Log.Error("Failed to close store", "error", err)
	}
}

func (a *Application) Services() *Services {
	return a.services
}

// Handler is the complete HTTP surface; Setup must have run.
func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

func (a *Application) setNotificationQueue() (notification.Queue, error) {
	if a.cfg.Kafka != nil && a.cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(a.cfg.Kafka, a.cfg.Kafka.NotificationsTopic, a.cfg.Kafka.NotificationsDLQ, a.cfg.Log)
		if err != nil {
			return nil, fmt.Errorf("create notification producer: %w", err)
		}
		producer.Use(kafkamw.LoggingProducerMiddleware(a.cfg.Log))
		producer.Use(kafkamw.MetricsProducerMiddleware())
		a.producer = producer
		a.cfg.Log.Info("Notifications published to Kafka", "topic", a.cfg.Kafka.NotificationsTopic)
		return notification.NewKafkaQueue(producer, serviceName), nil
	}

	a.pool = notification.NewWorkerPool(
		notification.NewDispatcherFromConfig(a.cfg),
		a.cfg.NotificationWorkers,
		a.cfg.NotificationQueueSize,
		a.cfg.NotificationTimeout,
		a.cfg.Log,
	)
	return a.pool, nil
}

func (a *Application) setIdempotencyStore(ctx context.Context) error {
	if a.cfg.RedisAddr == "" {
		a.idempotencyStore = middleware.NewInMemoryIdempotencyStore(a.cfg.IdempotencyTTL)
		return nil
	}
	if err := a.clients.SetRedis(ctx, a.cfg.Log, a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB); err != nil {
		return err
	}
	a.idempotencyStore = middleware.NewRedisIdempotencyStore(a.clients.Redis, a.cfg.IdempotencyTTL, a.cfg.Log)
	a.cfg.Log.Info("Idempotency keys stored in Redis", "addr", a.cfg.RedisAddr)
	return nil
}

func (a *Application) setHealthHandler() {
	a.healthHandler = contracts.Chain(
		contracts.Router(adminhandler.NewHealthHandler(a.services.Store, a.cfg.Log)),
		middleware.Recovery(a.cfg.Log),
		middleware.RequestLogging(a.cfg.Log),
	)
	a.cfg.Log.Info("Health endpoints configured with minimal middleware (Recovery + Logging only)")
}

func (a *Application) setAppHandler() {
	admin := middleware.RequireAdmin(a.services.Admin, a.cfg.Log)
	appRouter := contracts.Router(
		availabilityhandler.NewAvailabilityHandler(a.services.Availability, admin, a.cfg.Log),
		appointmenthandler.NewAppointmentHandler(a.services.Appointments, admin, a.cfg.Log),
		adminhandler.NewAdminHandler(a.services.Admin, admin, a.cfg.Log),
	)

	a.rateLimiter = middleware.NewClientRateLimiter(
		a.cfg.RateLimitRequests,
		a.cfg.RateLimitWindow,
		a.cfg.RateLimitBurst,
		a.cfg.Log,
	)

	a.appHandler = contracts.Chain(appRouter,
		middleware.Recovery(a.cfg.Log),
		middleware.RequestLogging(a.cfg.Log),
		middleware.CORS(a.cfg.CORSAllowedOrigins),
		middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize)),
		middleware.ContentTypeValidation(a.cfg.Log),
		middleware.RateLimit(a.rateLimiter),
		middleware.RequestTimeout(a.cfg.RequestTimeout),
		middleware.Idempotency(a.idempotencyStore, a.cfg.Log),
	)
	a.cfg.Log.Info("Application endpoints configured with full security middleware stack")
}

func (a *Application) setAppServer() {
	mux := http.NewServeMux()
	mux.Handle("/health", a.healthHandler)
	mux.Handle("/ready", a.healthHandler)
	mux.Handle("/api/health", a.healthHandler)
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/", a.appHandler)

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      mux,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

// StartWorkers launches the notification pool and the sweep scheduler.
func (a *Application) StartWorkers() {
	ctx, cancel := context.WithCancel(context.Background())
	a.stopWorkers = cancel

	if a.pool != nil {
		a.pool.Start()
	}

	a.workers.Add(1)
	go func() {
		defer a.workers.Done()
		a.scheduler.Run(ctx)
	}()
}

func (a *Application) Run() {
	a.StartWorkers()

	serverErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			a.stopBackground()
			a.cfg.Log.Fatal("HTTP server failed", "error", err)
		}

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Error("Could not stop server gracefully", "error", err)
		}
	}

	a.stopBackground()
	a.cfg.Log.Info("Server stopped gracefully")
}

// stopBackground drains queued notifications before the store is closed.
func (a *Application) stopBackground() {
	a.cfg.Log.Info("Stopping background workers...")
	if a.stopWorkers != nil {
		a.stopWorkers()
	}
	a.workers.Wait()

	if a.pool != nil {
		a.pool.Stop()
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.cfg.Log.Error("Failed to close notification producer", "error", err)
		}
	}
	a.idempotencyStore.Stop()
	a.rateLimiter.Stop()
	a.cfg.Log.Info("Background workers stopped")

	if err := a.services.Store.Close(); err != nil {
		a.cfg.Log.Error("Failed to close store", "error", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.clients.Close(ctx); err != nil {
		a.cfg.Log.Error("Failed to close clients", "error", err)
	}
}

// Close releases everything Setup and StartWorkers acquired.
func (a *Application) Close() {
	a.stopBackground()
}
