// Package app собирает зависимости сервиса из конфигурации.
// Используется HTTP сервером и утилитой salonctl
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SalonService/internal/config"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	catalogCache "github.com/m04kA/SMC-SalonService/internal/infra/cache/catalog"
	appointmentRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SalonService/internal/integrations/notification"
	"github.com/m04kA/SMC-SalonService/internal/integrations/staffdirectory"
	appointmentsService "github.com/m04kA/SMC-SalonService/internal/service/appointments"
	catalogService "github.com/m04kA/SMC-SalonService/internal/service/catalog"
	reportsService "github.com/m04kA/SMC-SalonService/internal/service/reports"
	workloadService "github.com/m04kA/SMC-SalonService/internal/service/workload"
	composeBookingUC "github.com/m04kA/SMC-SalonService/internal/usecase/compose_booking"
	createAppointmentUC "github.com/m04kA/SMC-SalonService/internal/usecase/create_appointment"
	resolveAvailabilityUC "github.com/m04kA/SMC-SalonService/internal/usecase/resolve_availability"
	"github.com/m04kA/SMC-SalonService/pkg/breaker"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/metrics"
	"github.com/m04kA/SMC-SalonService/pkg/txmanager"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// App готовые к использованию сервисы и use cases
type App struct {
	DB      *sql.DB
	Metrics *metrics.Metrics
	Clock   *createAppointmentUC.RealTimeProvider

	Availability *resolveAvailabilityUC.UseCase
	Create       *createAppointmentUC.UseCase
	Compose      *composeBookingUC.UseCase
	Appointments *appointmentsService.Service
	Reports      *reportsService.Service
	CatalogCache *catalogCache.Cache // nil, если Redis выключен

	redis     *redis.Client
	publisher *notification.EventPublisher
	stopCh    chan struct{}
	logger    Logger
}

// OpenDB открывает пул соединений и проверяет его
func OpenDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// New собирает граф зависимостей. metricsCollector может быть nil
func New(ctx context.Context, cfg *config.Config, metricsCollector *metrics.Metrics, logger Logger) (*App, error) {
	loc, err := cfg.Salon.Location()
	if err != nil {
		return nil, fmt.Errorf("salon timezone: %w", err)
	}

	db, err := OpenDB(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	logger.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	a := &App{
		DB:      db,
		Metrics: metricsCollector,
		Clock:   &createAppointmentUC.RealTimeProvider{Location: loc},
		stopCh:  make(chan struct{}),
		logger:  logger,
	}

	if cfg.Database.AutoMigrate {
		migrator, err := NewMigrator(db, logger)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		if err := migrator.Up(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	// Обёртка с метриками запросов; без коллектора работает как обычный пул
	var recorder dbmetrics.Recorder
	if metricsCollector != nil {
		recorder = metricsCollector
	}
	wrappedDB := dbmetrics.WrapWithDefault(db, recorder, cfg.Metrics.ServiceName, a.stopCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB,
		txmanager.WithMaxRetries(cfg.Database.TxMaxRetries),
		txmanager.WithUnavailableError(domain.ErrStoreUnavailable),
	)

	// Репозитории
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)

	// Определения услуг читаются через Redis, если он включен
	var definitions catalogService.DefinitionSource = catalogRepository
	if cfg.Redis.Enabled {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unavailable at %s, catalog cache falls through to database: %v", cfg.Redis.Addr, err)
		}
		a.CatalogCache = catalogCache.New(a.redis, catalogRepository, cfg.Redis.TTL(), logger)
		definitions = a.CatalogCache
		logger.Info("Catalog cache enabled (addr=%s, ttl=%s)", cfg.Redis.Addr, cfg.Redis.TTL())
	}

	// Интеграции
	staffClient := staffdirectory.NewClient(
		cfg.StaffDirectory.URL,
		time.Duration(cfg.StaffDirectory.Timeout)*time.Second,
		breakerSettings(cfg.StaffDirectory.Breaker),
		logger,
	)
	logger.Info("Staff directory client initialized (url=%s, timeout=%ds)", cfg.StaffDirectory.URL, cfg.StaffDirectory.Timeout)

	notifier, err := a.buildNotifier(cfg.Notifications, metricsCollector)
	if err != nil {
		a.Close()
		return nil, err
	}

	// Сервисы
	catalogSvc := catalogService.NewService(catalogRepository, definitions, logger)
	workloadSvc := workloadService.NewService(scheduleRepository, metricsCollector, logger)
	a.Appointments = appointmentsService.NewService(
		appointmentRepository,
		workloadSvc,
		staffClient,
		notifier,
		txMgr,
		metricsCollector,
		a.Clock,
		logger,
	)
	a.Reports = reportsService.NewService(appointmentRepository, catalogSvc, txMgr, logger)

	// Use cases
	a.Availability = resolveAvailabilityUC.NewUseCase(
		staffClient,
		catalogSvc,
		scheduleRepository,
		metricsCollector,
		cfg.Salon.AvailabilityConcurrency,
		logger,
	)
	a.Create = createAppointmentUC.NewUseCase(
		appointmentRepository,
		catalogSvc,
		staffClient,
		workloadSvc,
		txMgr,
		metricsCollector,
		a.Clock,
		logger,
	)
	a.Compose = composeBookingUC.NewUseCase(a.Availability, a.Create, logger)

	return a, nil
}

func (a *App) buildNotifier(cfg config.NotificationsConfig, metricsCollector *metrics.Metrics) (*notification.Fanout, error) {
	notifiers := []notification.Notifier{notification.NewLogNotifier(a.logger)}
	settings := breakerSettings(cfg.Breaker)

	if cfg.Email.Enabled {
		email := notification.NewEmailNotifier(notification.EmailConfig{
			APIKey:    cfg.Email.APIKey,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		}, a.logger)
		notifiers = append(notifiers, notification.NewGuarded("email", email, settings, metricsCollector, a.logger))
		a.logger.Info("Email notifications enabled (from=%s)", cfg.Email.FromEmail)
	}

	if cfg.Events.Enabled {
		publisher, err := notification.NewEventPublisher(cfg.Events.URL, cfg.Events.Exchange, a.logger)
		if err != nil {
			return nil, fmt.Errorf("event publisher: %w", err)
		}
		a.publisher = publisher
		notifiers = append(notifiers, notification.NewGuarded("events", publisher, settings, metricsCollector, a.logger))
		a.logger.Info("Appointment events enabled (exchange=%s)", cfg.Events.Exchange)
	}

	return notification.NewFanout(notifiers...), nil
}

// Close останавливает фоновый сбор метрик и закрывает соединения
func (a *App) Close() {
	close(a.stopCh)
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("Failed to close event publisher: %v", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("Failed to close redis client: %v", err)
		}
	}
	if err := a.DB.Close(); err != nil {
		a.logger.Warn("Failed to close database: %v", err)
	}
}

func breakerSettings(b config.BreakerConfig) breaker.Settings {
	return breaker.Settings{
		FailureThreshold: b.FailureThreshold,
		OpenTimeout:      time.Duration(b.OpenTimeout) * time.Second,
		HalfOpenRequests: b.HalfOpenRequests,
	}
}
