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

	cancelBookingHandler "github.com/rentride/RR-BookingService/internal/api/handlers/cancel_booking"
	checkAvailabilityHandler "github.com/rentride/RR-BookingService/internal/api/handlers/check_availability"
	createBookingHandler "github.com/rentride/RR-BookingService/internal/api/handlers/create_booking"
	getBookingHandler "github.com/rentride/RR-BookingService/internal/api/handlers/get_booking"
	getUserBookingsHandler "github.com/rentride/RR-BookingService/internal/api/handlers/get_user_bookings"
	getVehicleBookingsHandler "github.com/rentride/RR-BookingService/internal/api/handlers/get_vehicle_bookings"
	transitionBookingHandler "github.com/rentride/RR-BookingService/internal/api/handlers/transition_booking"
	"github.com/rentride/RR-BookingService/internal/api/middleware"
	"github.com/rentride/RR-BookingService/internal/config"
	"github.com/rentride/RR-BookingService/internal/infra/otp"
	availabilityRepo "github.com/rentride/RR-BookingService/internal/infra/storage/availability"
	bookingRepo "github.com/rentride/RR-BookingService/internal/infra/storage/booking"
	identityServiceClient "github.com/rentride/RR-BookingService/internal/integrations/identityservice"
	listingServiceClient "github.com/rentride/RR-BookingService/internal/integrations/listingservice"
	paymentGatewayClient "github.com/rentride/RR-BookingService/internal/integrations/paymentgateway"
	"github.com/rentride/RR-BookingService/internal/jobs"
	bookingsService "github.com/rentride/RR-BookingService/internal/service/bookings"
	cancelBookingUC "github.com/rentride/RR-BookingService/internal/usecase/cancel_booking"
	checkAvailabilityUC "github.com/rentride/RR-BookingService/internal/usecase/check_availability"
	createBookingUC "github.com/rentride/RR-BookingService/internal/usecase/create_booking"
	expirePendingUC "github.com/rentride/RR-BookingService/internal/usecase/expire_pending"
	transitionBookingUC "github.com/rentride/RR-BookingService/internal/usecase/transition_booking"
	"github.com/rentride/RR-BookingService/pkg/dbmetrics"
	"github.com/rentride/RR-BookingService/pkg/logger"
	"github.com/rentride/RR-BookingService/pkg/metrics"
	"github.com/rentride/RR-BookingService/pkg/simpletxmanager"
	"github.com/rentride/RR-BookingService/pkg/txmanager"
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

	log.Info("Starting RR-BookingService...")
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

	// Инициализируем интеграционных клиентов
	identityClient := identityServiceClient.NewClient(
		cfg.IdentityService.URL,
		time.Duration(cfg.IdentityService.Timeout)*time.Second,
		log,
	)
	listingClient := listingServiceClient.NewClient(
		cfg.ListingService.URL,
		time.Duration(cfg.ListingService.Timeout)*time.Second,
		log,
	)
	gatewayClient := paymentGatewayClient.NewClient(
		cfg.PaymentGateway.URL,
		time.Duration(cfg.PaymentGateway.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (IdentityService=%s, ListingService=%s, PaymentGateway=%s)",
		cfg.IdentityService.URL, cfg.ListingService.URL, cfg.PaymentGateway.URL)

	// Хранилище одноразовых кодов передачи машины
	otpStore := otp.NewStore(
		time.Duration(cfg.Booking.OTPTTLMinutes)*time.Minute,
		time.Minute,
	)
	defer otpStore.Stop()

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository      *bookingRepo.Repository
		availabilityRepository *availabilityRepo.Repository
		txMgr                  TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		availabilityRepository = availabilityRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		availabilityRepository = availabilityRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		listingClient,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		listingClient,
		identityClient,
		txMgr,
		createBookingUC.Policy{
			GSTBasisPoints:        cfg.Booking.GSTBasisPoints,
			ServiceTaxBasisPoints: cfg.Booking.ServiceTaxBasisPoints,
			PastStartGrace:        time.Duration(cfg.Booking.PastStartGraceMinutes) * time.Minute,
		},
		log,
	)

	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		txMgr,
		log,
	)

	transitionBookingUseCase := transitionBookingUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		gatewayClient,
		otpStore,
		txMgr,
		log,
	)

	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(
		availabilityRepository,
		log,
	)

	expirePendingUseCase := expirePendingUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		txMgr,
		time.Duration(cfg.Booking.PendingTTLMinutes)*time.Minute,
		log,
	)

	// Фоновый джоб зачистки неподтвержденных броней
	expirer := jobs.NewExpirer(
		expirePendingUseCase,
		time.Duration(cfg.Booking.ExpireSweepMinutes)*time.Minute,
		log,
	)
	expirer.Start()
	defer expirer.Stop()

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	transitionBooking := transitionBookingHandler.NewHandler(transitionBookingUseCase, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getVehicleBookings := getVehicleBookingsHandler.NewHandler(bookingSvc, log)

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

	// Справочная проверка доступности окна
	api.HandleFunc("/vehicles/{vehicleId}/availability",
		checkAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по коду
	protected.HandleFunc("/bookings/{code}", getBooking.Handle).Methods(http.MethodGet)

	// Переход брони по жизненному циклу
	protected.HandleFunc("/bookings/{code}/transition", transitionBooking.Handle).Methods(http.MethodPost)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{code}/cancel", cancelBooking.Handle).Methods(http.MethodPost)

	// История бронирований клиента
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// Брони машины (для владельца)
	protected.HandleFunc("/vehicles/{vehicleId}/bookings", getVehicleBookings.Handle).Methods(http.MethodGet)

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
