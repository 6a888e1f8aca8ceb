package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/cache"
	"github.com/vladislavdragonenkov/storefront/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/storefront/internal/health"
	"github.com/vladislavdragonenkov/storefront/internal/httpapi"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
	adminsvc "github.com/vladislavdragonenkov/storefront/internal/service/admin"
	"github.com/vladislavdragonenkov/storefront/internal/service/auth"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
	cartsvc "github.com/vladislavdragonenkov/storefront/internal/service/cart"
	checkoutsvc "github.com/vladislavdragonenkov/storefront/internal/service/checkout"
	outboxsvc "github.com/vladislavdragonenkov/storefront/internal/service/outbox"
	"github.com/vladislavdragonenkov/storefront/internal/service/profile"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
	"github.com/vladislavdragonenkov/storefront/internal/storage/postgres"
	"github.com/vladislavdragonenkov/storefront/internal/version"
)

// repositories объединяет хранилища, собранные из Postgres или памяти.
type repositories struct {
	cart      domain.CartRepository
	addresses domain.AddressRepository
	orders    domain.OrderRepository
	outbox    domain.OutboxRepository
	store     *postgres.Store
}

// Run собирает зависимости и держит приложение до отмены ctx.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	repos, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if repos.store != nil {
		defer func() { _ = repos.store.Close() }()
	}

	// NOTE: Using mock collaborators for development/demo purposes
	// In production, replace with real auth, profile and catalog clients
	authenticator := auth.NewStaticAuthenticator()
	authenticator.Register("dev-user-token", domain.Principal{ID: "dev-user", Role: domain.RoleUser})
	authenticator.Register("dev-admin-token", domain.Principal{ID: "dev-admin", Role: domain.RoleAdmin})
	profiles := profile.NewInMemoryDirectory()
	profiles.Register(domain.Profile{ID: "dev-user", FirstName: "Dev", LastName: "User", Email: "dev-user@example.com", Role: domain.RoleUser})
	profiles.Register(domain.Profile{ID: "dev-admin", FirstName: "Dev", LastName: "Admin", Email: "dev-admin@example.com", Role: domain.RoleAdmin})
	products := catalog.NewStaticCatalog(demoProducts())

	var displayNames cache.Cache
	if cfg.RedisAddr != "" {
		displayNames = cache.NewRedisCache(cfg.RedisAddr, "storefront")
		logger.WithField("addr", cfg.RedisAddr).Info("redis display-name cache enabled")
	}

	checkoutMetrics := metrics.NewCheckoutMetrics()

	carts := cartsvc.NewService(repos.cart, profiles, displayNames, checkoutMetrics)
	checkout := checkoutsvc.NewService(repos.orders, repos.addresses, checkoutMetrics)
	admin := adminsvc.NewService(repos.cart, repos.addresses, repos.orders, profiles, repos.outbox, checkoutMetrics)

	// Инициализация Kafka producer (опционально)
	kafkaProducer := initKafka(cfg, logger)
	if kafkaProducer != nil {
		defer func() {
			if err := kafkaProducer.Close(); err != nil {
				logger.WithError(err).Warn("failed to close kafka producer")
			}
		}()

		publisher := kafka.NewOutboxPublisher(kafkaProducer, kafka.TopicOrderEvents, kafka.TopicUserEvents)
		dlqPublisher := kafka.NewOutboxPublisher(kafkaProducer, kafka.TopicDeadLetterQueue, kafka.TopicDeadLetterQueue)
		worker := outboxsvc.NewWorker(repos.outbox, publisher,
			outboxsvc.WithDLQPublisher(dlqPublisher),
		)
		go worker.Run(ctx)
	} else {
		logger.Info("kafka is not configured, outbox worker disabled")
	}

	sweeper := checkoutsvc.NewSweeper(repos.orders,
		checkoutsvc.WithSweeperMetrics(checkoutMetrics),
	)
	go sweeper.Run(ctx)

	healthHandler := healthcheck.NewHandler(version.String())
	healthHandler.RegisterChecker("outbox", healthcheck.NewOutboxChecker(repos.outbox, 0, 0))
	if repos.store != nil {
		healthHandler.RegisterChecker("postgres", healthcheck.NewSimpleChecker("postgres", func() error {
			return repos.store.Ping(context.Background())
		}))
	}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	handler := httpapi.NewHandler(carts, repos.addresses, checkout, repos.orders, admin, products)
	apiSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpapi.NewRouter(handler, authenticator),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP сервер слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// initStorage выбирает между PostgreSQL и in-memory двойниками.
func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (repositories, error) {
	if cfg.PostgresDSN == "" {
		logger.Info("postgres DSN is not set, using in-memory storage")
		cart := memory.NewCartRepository()
		outbox := memory.NewOutboxRepository()
		return repositories{
			cart:      cart,
			addresses: memory.NewAddressRepository(),
			orders:    memory.NewOrderRepository(cart, outbox),
			outbox:    outbox,
		}, nil
	}

	store, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return repositories{}, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return repositories{}, err
	}
	logger.Info("postgres storage initialized")

	return repositories{
		cart:      postgres.NewCartRepository(store),
		addresses: postgres.NewAddressRepository(store),
		orders:    postgres.NewOrderRepository(store),
		outbox:    postgres.NewOutboxRepository(store),
		store:     store,
	}, nil
}

// initKafka создаёт producer, если заданы брокеры; ошибки не фатальны.
func initKafka(cfg Config, logger *log.Entry) *kafka.Producer {
	if cfg.KafkaBrokers == "" {
		return nil
	}

	brokers := strings.Split(cfg.KafkaBrokers, ",")
	producer, err := kafka.NewProducer(brokers)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return nil
	}
	logger.WithField("brokers", brokers).Info("kafka producer initialized")

	return producer
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez", addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// demoProducts наполняет каталог витрины для режима разработки.
func demoProducts() []domain.Product {
	now := time.Now().UTC()
	return []domain.Product{
		{ID: "p-1", Name: "Classic Tee", Category: "clothing", Price: 300, Stock: 25, CreatedAt: now.Add(-72 * time.Hour)},
		{ID: "p-2", Name: "Ceramic Mug", Category: "home", Price: 150, Stock: 40, CreatedAt: now.Add(-48 * time.Hour)},
		{ID: "p-3", Name: "Canvas Tote", Category: "accessories", Price: 220, Stock: 15, CreatedAt: now.Add(-24 * time.Hour)},
	}
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
