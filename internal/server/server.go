package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"time"

	"catalog-stock/internal/config"
	"catalog-stock/internal/database"
	"catalog-stock/internal/domain"
	"catalog-stock/internal/events"
	"catalog-stock/internal/metrics"
	custommiddleware "catalog-stock/internal/middleware"
	"catalog-stock/internal/outbox"
	"catalog-stock/internal/repository"
	"catalog-stock/internal/service"
	"catalog-stock/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config     *config.Config
	logger     *zap.Logger
	db         database.Service
	redis      *redis.Client
	relay      *outbox.Relay
	publisher  io.Closer
	stopWorker context.CancelFunc
	workerDone chan struct{}
}

func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service) (*Server, error) {
	sqlDB := db.DB()
	m := metrics.New()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	publisher, closer, err := newPublisher(cfg.Events, redisClient, logger)
	if err != nil {
		redisClient.Close()
		return nil, err
	}

	dispatcher := events.NewDispatcher(logger, publisher)
	dispatcher.Subscribe(domain.EventProductStockLow, events.NewLowStockAlertHandler(func() events.ProductLoader {
		return repository.NewProductRepository(sqlDB, repository.NewUnitOfWork(sqlDB))
	}, logger))

	relay := outbox.NewRelay(repository.NewOutboxStore(sqlDB), dispatcher,
		cfg.Events.RelayInterval, cfg.Events.RelayBatch, m, logger)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(m.Middleware)
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.IsDevelopment()))
	router.Use(middleware.Compress(5))

	router.Get("/health", healthHandler(db, redisClient))
	router.Method(http.MethodGet, "/metrics", m.Handler())

	catalog := newCatalogFactory(sqlDB, m, logger)
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	adminMiddleware := custommiddleware.RequireAdmin(logger)
	stockLimiter := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.Requests,
		Window:            cfg.RateLimit.Window,
		KeyPrefix:         "catalog:stock_rate_limit",
	}, logger)

	transport.NewProductHandler(catalog, logger).RegisterRoutes(router, authMiddleware, adminMiddleware, stockLimiter)
	transport.NewCategoryHandler(catalog, logger).RegisterRoutes(router, authMiddleware, adminMiddleware)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:    cfg,
		logger:    logger,
		db:        db,
		redis:     redisClient,
		relay:     relay,
		publisher: closer,
	}, nil
}

// newCatalogFactory returns a factory that wires a fresh unit of work per request. The
// repository, the outbox notifier and both services share it, so one commit stores the
// product change together with its events.
func newCatalogFactory(db *sql.DB, m *metrics.Metrics, logger *zap.Logger) transport.CatalogFactory {
	return func() service.CatalogService {
		uow := repository.NewUnitOfWork(db)
		products := repository.NewProductRepository(db, uow)
		stock := service.WithMetrics(
			service.NewStockService(products, repository.NewOutboxNotifier(uow), logger),
			m,
		)
		return service.NewCatalogService(products, stock, logger)
	}
}

// newPublisher selects the broker that receives relayed events. The returned closer is
// nil when the publisher holds no resources of its own.
func newPublisher(cfg config.EventsConfig, client *redis.Client, logger *zap.Logger) (events.Publisher, io.Closer, error) {
	switch cfg.Broker {
	case "", "log":
		return events.NewLogPublisher(logger), nil, nil
	case "redis":
		return events.NewRedisPublisher(client, cfg.RedisChannel, logger), nil, nil
	case "kafka":
		publisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		if err != nil {
			return nil, nil, err
		}
		return publisher, publisher, nil
	default:
		return nil, nil, fmt.Errorf("unknown events broker %q", cfg.Broker)
	}
}

func healthHandler(db database.Service, client *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()

		redisStatus := "up"
		if err := client.Ping(ctx).Err(); err != nil {
			redisStatus = "down"
		}

		dbHealth := db.Health()
		status := http.StatusOK
		if dbHealth["status"] != "up" {
			status = http.StatusServiceUnavailable
		}

		custommiddleware.RespondWithJSON(w, status, map[string]interface{}{
			"status":   http.StatusText(status),
			"database": dbHealth,
			"redis":    redisStatus,
		})
	}
}

// StartWorkers runs the outbox relay until Close
func (s *Server) StartWorkers() {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopWorker = cancel
	s.workerDone = make(chan struct{})

	go func() {
		defer close(s.workerDone)
		s.relay.Run(ctx)
	}()
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// The relay may be mid-flush; wait for it before closing what it writes to
	if s.stopWorker != nil {
		s.stopWorker()
		<-s.workerDone
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			s.logger.Error("Failed to close event publisher", zap.Error(err))
		}
	}

	if err := s.redis.Close(); err != nil {
		s.logger.Error("Failed to close redis client", zap.Error(err))
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
