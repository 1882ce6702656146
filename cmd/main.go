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

	deleteExceptionHandler "github.com/m04kA/SMC-DeliverySlotsService/internal/api/handlers/delete_exception"
	getTemplateHandler "github.com/m04kA/SMC-DeliverySlotsService/internal/api/handlers/get_template"
	getWindowReservationsHandler "github.com/m04kA/SMC-DeliverySlotsService/internal/api/handlers/get_window_reservations"
	listAvailabilityHandler "github.com/m04kA/SMC-DeliverySlotsService/internal/api/handlers/list_availability"
	listExceptionsHandler "github.com/m04kA/SMC-DeliverySlotsService/internal/api/handlers/list_exceptions"
	releaseWindowHandler "github.com/m04kA/SMC-DeliverySlotsService/internal/api/handlers/release_window"
	reserveWindowHandler "github.com/m04kA/SMC-DeliverySlotsService/internal/api/handlers/reserve_window"
	upsertExceptionHandler "github.com/m04kA/SMC-DeliverySlotsService/internal/api/handlers/upsert_exception"
	upsertTemplateHandler "github.com/m04kA/SMC-DeliverySlotsService/internal/api/handlers/upsert_template"
	"github.com/m04kA/SMC-DeliverySlotsService/internal/api/middleware"
	"github.com/m04kA/SMC-DeliverySlotsService/internal/config"
	exceptionRepo "github.com/m04kA/SMC-DeliverySlotsService/internal/infra/storage/exception"
	ledgerRepo "github.com/m04kA/SMC-DeliverySlotsService/internal/infra/storage/ledger"
	templateRepo "github.com/m04kA/SMC-DeliverySlotsService/internal/infra/storage/template"
	tenantServiceClient "github.com/m04kA/SMC-DeliverySlotsService/internal/integrations/tenantservice"
	reservationsService "github.com/m04kA/SMC-DeliverySlotsService/internal/service/reservations"
	scheduleService "github.com/m04kA/SMC-DeliverySlotsService/internal/service/schedule"
	listAvailabilityUC "github.com/m04kA/SMC-DeliverySlotsService/internal/usecase/list_availability"
	releaseWindowUC "github.com/m04kA/SMC-DeliverySlotsService/internal/usecase/release_window"
	reserveWindowUC "github.com/m04kA/SMC-DeliverySlotsService/internal/usecase/reserve_window"
	"github.com/m04kA/SMC-DeliverySlotsService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DeliverySlotsService/pkg/logger"
	"github.com/m04kA/SMC-DeliverySlotsService/pkg/metrics"
	"github.com/m04kA/SMC-DeliverySlotsService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-DeliverySlotsService/pkg/txmanager"
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

	log.Info("Starting SMC-DeliverySlotsService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем клиента TenantService
	tenantClient := tenantServiceClient.NewClient(
		cfg.TenantService.URL,
		time.Duration(cfg.TenantService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration client initialized (TenantService=%s timeout=%ds)",
		cfg.TenantService.URL, cfg.TenantService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		templateRepository  *templateRepo.Repository
		exceptionRepository *exceptionRepo.Repository
		ledgerRepository    *ledgerRepo.Repository
	)

	// Интерфейс transaction manager, общий для сервисов и usecase'ов
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		templateRepository = templateRepo.NewRepository(wrappedDB)
		exceptionRepository = exceptionRepo.NewRepository(wrappedDB)
		ledgerRepository = ledgerRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		templateRepository = templateRepo.NewRepository(db)
		exceptionRepository = exceptionRepo.NewRepository(db)
		ledgerRepository = ledgerRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	scheduleSvc := scheduleService.NewService(
		templateRepository,
		exceptionRepository,
		tenantClient,
		txMgr,
		log,
	)
	reservationsSvc := reservationsService.NewService(ledgerRepository, log)

	// Инициализируем use cases
	listAvailabilityUseCase := listAvailabilityUC.NewUseCase(
		templateRepository,
		exceptionRepository,
		ledgerRepository,
		tenantClient,
		cfg.Availability.MaxRangeDays,
		log,
	)
	reserveWindowUseCase := reserveWindowUC.NewUseCase(
		templateRepository,
		exceptionRepository,
		ledgerRepository,
		tenantClient,
		txMgr,
		log,
	)
	releaseWindowUseCase := releaseWindowUC.NewUseCase(ledgerRepository, txMgr, log)

	// Инициализируем handlers
	listAvailability := listAvailabilityHandler.NewHandler(listAvailabilityUseCase, log)
	reserveWindow := reserveWindowHandler.NewHandler(reserveWindowUseCase, log)
	releaseWindow := releaseWindowHandler.NewHandler(releaseWindowUseCase, log)
	getTemplate := getTemplateHandler.NewHandler(scheduleSvc, log)
	upsertTemplate := upsertTemplateHandler.NewHandler(scheduleSvc, log)
	upsertException := upsertExceptionHandler.NewHandler(scheduleSvc, log)
	deleteException := deleteExceptionHandler.NewHandler(scheduleSvc, log)
	listExceptions := listExceptionsHandler.NewHandler(scheduleSvc, log)
	getWindowReservations := getWindowReservationsHandler.NewHandler(reservationsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступность окон доставки для витрины
	api.HandleFunc("/tenants/{tenantId}/availability",
		listAvailability.Handle).Methods(http.MethodGet)

	// Недельный шаблон арендатора
	api.HandleFunc("/tenants/{tenantId}/template",
		getTemplate.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Резервирования ---
	// Резервирование окна под заказ
	protected.HandleFunc("/reservations", reserveWindow.Handle).Methods(http.MethodPost)

	// Снятие резервирования заказа
	protected.HandleFunc("/orders/{orderId}/reservation", releaseWindow.Handle).Methods(http.MethodDelete)

	// Держатели резервирований окна (для менеджеров)
	protected.HandleFunc("/tenants/{tenantId}/windows/{date}/{windowType}/reservations",
		getWindowReservations.Handle).Methods(http.MethodGet)

	// --- Управление расписанием (для менеджеров) ---
	// Сохранение недельного шаблона
	protected.HandleFunc("/tenants/{tenantId}/template", upsertTemplate.Handle).Methods(http.MethodPut)

	// Исключения дат
	protected.HandleFunc("/tenants/{tenantId}/exceptions", upsertException.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/tenants/{tenantId}/exceptions", deleteException.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/tenants/{tenantId}/exceptions", listExceptions.Handle).Methods(http.MethodGet)

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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
