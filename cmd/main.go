package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelAppointmentHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/cancel_appointment"
	clientCancelAppointmentHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/client_cancel_appointment"
	confirmAppointmentHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/confirm_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/create_appointment"
	createStaffHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/create_staff"
	getAppointmentHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_appointment"
	getAppointmentsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_appointments"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_available_slots"
	getStaffScheduleHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/get_staff_schedule"
	updateStaffScheduleHandler "github.com/m04kA/SMC-SalonService/internal/api/handlers/update_staff_schedule"
	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/config"
	"github.com/m04kA/SMC-SalonService/internal/infra/cache/slots"
	appointmentRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/catalog"
	clientRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/client"
	staffRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SalonService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-SalonService/internal/integrations/whatsapp"
	"github.com/m04kA/SMC-SalonService/internal/notifier"
	appointmentsService "github.com/m04kA/SMC-SalonService/internal/service/appointments"
	staffService "github.com/m04kA/SMC-SalonService/internal/service/staff"
	createAppointmentUC "github.com/m04kA/SMC-SalonService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-SalonService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/logger"
	"github.com/m04kA/SMC-SalonService/pkg/metrics"
	"github.com/m04kA/SMC-SalonService/pkg/migrator"
	"github.com/m04kA/SMC-SalonService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	loc, err := cfg.Scheduling.Location()
	if err != nil {
		log.Fatal("Failed to load timezone %s: %v", cfg.Scheduling.Timezone, err)
	}
	log.Info("Canonical timezone: %s", loc)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.MigrateOnStart {
		if err := migrator.Up(db, log); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
	}

	// Без коллектора обёртка работает как прозрачный адаптер
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB, cfg.Database.QueryTimeoutDuration())

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB, loc)
	staffRepository := staffRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	clientRepository := clientRepo.NewRepository(wrappedDB)

	// Кэш слотов (опционально)
	var (
		redisClient *redis.Client
		slotsCache  *slots.Cache
	)
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn("Redis is unavailable at %s, slots cache disabled: %v", cfg.Redis.Address, err)
			_ = redisClient.Close()
			redisClient = nil
		} else {
			slotsCache = slots.New(redisClient, time.Duration(cfg.Redis.TTL)*time.Second)
			log.Info("Slots cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Address, cfg.Redis.TTL)
		}
	}

	// Уведомления
	notify := notifier.New(
		clientRepository,
		cfg.WhatsApp.RateLimit,
		cfg.WhatsApp.RateBurst,
		time.Duration(cfg.WhatsApp.Timeout)*time.Second,
		loc,
		log,
	)

	var publisher *eventbus.Publisher
	if cfg.Kafka.Enabled {
		publisher = eventbus.NewPublisher(cfg.Kafka.BrokerList(), cfg.Kafka.Topic)
		notify.UsePublisher(publisher)
		log.Info("Event publishing enabled (topic=%s, brokers=%v)", cfg.Kafka.Topic, cfg.Kafka.BrokerList())
	}

	if cfg.WhatsApp.Enabled {
		whatsappClient := whatsapp.NewClient(
			cfg.WhatsApp.BaseURL,
			cfg.WhatsApp.AccessToken,
			cfg.WhatsApp.PhoneNumberID,
			cfg.WhatsApp.LanguageCode,
			time.Duration(cfg.WhatsApp.Timeout)*time.Second,
			log,
		)
		notify.UseWhatsApp(whatsappClient)
		log.Info("WhatsApp notifications enabled (rate=%.1f/s, burst=%d)", cfg.WhatsApp.RateLimit, cfg.WhatsApp.RateBurst)
	}

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(appointmentRepository, notify, log)
	staffSvc := staffService.NewService(staffRepository, catalogRepository, txMgr, log)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		staffRepository,
		catalogRepository,
		clientRepository,
		txMgr,
		notify,
		loc,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		staffRepository,
		catalogRepository,
		loc,
		log,
	)

	if slotsCache != nil {
		appointmentSvc.UseCache(slotsCache)
		staffSvc.UseCache(slotsCache)
		createAppointmentUseCase.UseCache(slotsCache)
		getAvailableSlotsUseCase.UseCache(slotsCache)
	}

	if metricsCollector != nil {
		appointmentSvc.UseMetrics(metricsCollector)
		createAppointmentUseCase.UseMetrics(metricsCollector)
		getAvailableSlotsUseCase.UseMetrics(metricsCollector)
	}

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	clientCancelAppointment := clientCancelAppointmentHandler.NewHandler(appointmentSvc, log)
	getAppointments := getAppointmentsHandler.NewHandler(appointmentSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	confirmAppointment := confirmAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	createStaff := createStaffHandler.NewHandler(staffSvc, log)
	getStaffSchedule := getStaffScheduleHandler.NewHandler(staffSvc, log)
	updateStaffSchedule := updateStaffScheduleHandler.NewHandler(staffSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (клиентские сценарии)
	// ============================================================

	// Свободные слоты мастера на дату
	api.HandleFunc("/organizations/{organizationId}/staff/{staffId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание записи
	api.HandleFunc("/organizations/{organizationId}/appointments",
		createAppointment.Handle).Methods(http.MethodPost)

	// Отмена записи клиентом
	api.HandleFunc("/organizations/{organizationId}/appointments/{appointmentId}/client-cancel",
		clientCancelAppointment.Handle).Methods(http.MethodPatch)

	// ============================================================
	// PROTECTED ROUTES (администратор салона, требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.HandleFunc("/organizations/{organizationId}/appointments",
		getAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/organizations/{organizationId}/appointments/{appointmentId}",
		getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/organizations/{organizationId}/appointments/{appointmentId}/confirm",
		confirmAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/organizations/{organizationId}/appointments/{appointmentId}/cancel",
		cancelAppointment.Handle).Methods(http.MethodPatch)

	// --- Мастера ---
	protected.HandleFunc("/organizations/{organizationId}/staff",
		createStaff.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/organizations/{organizationId}/staff/{staffId}/schedule",
		getStaffSchedule.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/organizations/{organizationId}/staff/{staffId}/schedule",
		updateStaffSchedule.Handle).Methods(http.MethodPut)

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

	// Дожидаемся отправки начатых уведомлений
	if err := notify.Shutdown(shutdownCtx); err != nil {
		log.Warn("Pending notifications were not delivered: %v", err)
	}

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close event publisher: %v", err)
		}
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
