package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	composeBookingHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/compose_booking"
	createAppointmentHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_appointment"
	getAvailabilityHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_availability"
	getBranchAppointmentsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_branch_appointments"
	getClientAppointmentsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_client_appointments"
	getRevenueReportHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_revenue_report"
	getStylistReportHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_stylist_report"
	getTransitionsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_transitions"
	rescheduleAppointmentHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/reschedule_appointment"
	updateClientInfoHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/update_client_info"
	updateStatusHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/update_status"
	validateAppointmentHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/validate_appointment"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/app"
	"github.com/m04kA/SMC-SalonService/internal/config"
	"github.com/m04kA/SMC-SalonService/pkg/logger"
	"github.com/m04kA/SMC-SalonService/pkg/metrics"
)

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-SalonService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Собираем репозитории, интеграции, сервисы и use cases
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	application, err := app.New(startCtx, cfg, metricsCollector, log)
	cancelStart()
	if err != nil {
		log.Fatal("Failed to initialize application: %v", err)
	}
	defer application.Close()

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(application.Availability, log)
	validateAppointment := validateAppointmentHandler.NewHandler(application.Clock, log)
	getTransitions := getTransitionsHandler.NewHandler(log)
	createAppointment := createAppointmentHandler.NewHandler(application.Create, application.Clock, log)
	composeBooking := composeBookingHandler.NewHandler(application.Compose, application.Clock, log)
	getAppointment := getAppointmentHandler.NewHandler(application.Appointments, log)
	getBranchAppointments := getBranchAppointmentsHandler.NewHandler(application.Appointments, log)
	getClientAppointments := getClientAppointmentsHandler.NewHandler(application.Appointments, log)
	updateStatus := updateStatusHandler.NewHandler(application.Appointments, log)
	updateClientInfo := updateClientInfoHandler.NewHandler(application.Appointments, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(application.Appointments, log)
	getRevenueReport := getRevenueReportHandler.NewHandler(application.Reports, log)
	getStylistReport := getStylistReportHandler.NewHandler(application.Reports, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Metrics middleware и endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступность стилистов филиала на дату
	api.HandleFunc("/branches/{branchId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Проверка документа записи без сохранения
	api.HandleFunc("/appointments/validate", validateAppointment.Handle).Methods(http.MethodPost)

	// Таблица переходов статусов
	api.HandleFunc("/appointments/transitions", getTransitions.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/branches/{branchId}/bookings", composeBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/client-info", updateClientInfo.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/clients/{clientId}/appointments", getClientAppointments.Handle).Methods(http.MethodGet)

	// --- Филиал (для администраторов) ---
	protected.HandleFunc("/branches/{branchId}/appointments", getBranchAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/branches/{branchId}/reports/revenue", getRevenueReport.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/branches/{branchId}/reports/stylists", getStylistReport.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
