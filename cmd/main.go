package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	cancelBookingHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/cancel_booking"
	checkAvailabilityHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/check_availability"
	confirmBookingHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/confirm_booking"
	createBlockHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/create_block"
	createBookingHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/create_booking"
	createRateHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/create_rate"
	createUnitHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/create_unit"
	deleteRateHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/delete_rate"
	getBookingHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/get_booking"
	getQuoteHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/get_quote"
	getUnitHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/get_unit"
	listBlocksHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/list_blocks"
	listRatesHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/list_rates"
	listUnitBookingsHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/list_unit_bookings"
	releaseBlockHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/release_block"
	"github.com/m04kA/SMC-RentalService/internal/api/middleware"
	"github.com/m04kA/SMC-RentalService/internal/config"
	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/service/availability"
	blocksService "github.com/m04kA/SMC-RentalService/internal/service/blocks"
	bookingsService "github.com/m04kA/SMC-RentalService/internal/service/bookings"
	ratesService "github.com/m04kA/SMC-RentalService/internal/service/rates"
	unitsService "github.com/m04kA/SMC-RentalService/internal/service/units"
	createBlockUC "github.com/m04kA/SMC-RentalService/internal/usecase/create_block"
	createBookingUC "github.com/m04kA/SMC-RentalService/internal/usecase/create_booking"
	getQuoteUC "github.com/m04kA/SMC-RentalService/internal/usecase/get_quote"
	"github.com/m04kA/SMC-RentalService/pkg/logger"
	"github.com/m04kA/SMC-RentalService/pkg/metrics"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load(config.DefaultPath)
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

	log.Info("Starting SMC-RentalService...")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище: PostgreSQL или память
	store, err := openStorage(cfg, metricsCollector, stopMetricsCh, log)
	if err != nil {
		log.Fatal("Failed to open storage: %v", err)
	}
	defer store.close()

	rateCache, closeCache, err := newRateCache(cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to initialize rate cache: %v", err)
	}
	defer closeCache()

	// Уведомления уходят после коммита и не влияют на результат операций
	dispatcher, err := newDispatcher(cfg.Notifier, metricsCollector, log)
	if err != nil {
		log.Fatal("Failed to initialize notifier: %v", err)
	}

	blockPolicy := availability.Policy{BlockConflictsWithPending: cfg.Booking.BlockConflictsWithPending}
	defaultStatus := domain.StatusConfirmed
	if strings.EqualFold(cfg.Booking.DefaultStatus, "pending") {
		defaultStatus = domain.StatusPending
	}
	log.Info("Booking policy: default_status=%s, block_conflicts_with_pending=%t, max_stay_nights=%d",
		defaultStatus, blockPolicy.BlockConflictsWithPending, cfg.Booking.MaxStayNights)

	// Инициализируем сервисы
	oracle := availability.NewOracle(store.bookings, store.blocks, log)
	rateSvc := ratesService.NewService(store.rates, store.units, rateCache, log).
		WithMaxRange(cfg.Booking.MaxStayNights)
	unitSvc := unitsService.NewService(store.units, log)
	bookingSvc := bookingsService.NewService(
		store.bookings,
		store.blocks,
		store.units,
		oracle,
		store.txManager,
		dispatcher,
		metricsCollector,
		log,
	)
	blockSvc := blocksService.NewService(store.blocks, store.units, store.txManager, dispatcher, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		store.units,
		store.bookings,
		rateSvc,
		oracle,
		store.txManager,
		dispatcher,
		metricsCollector,
		defaultStatus,
		log,
	).WithMaxStay(cfg.Booking.MaxStayNights)
	createBlockUseCase := createBlockUC.NewUseCase(
		store.units,
		store.bookings,
		store.blocks,
		oracle,
		store.txManager,
		blockPolicy,
		dispatcher,
		metricsCollector,
		log,
	).WithMaxNights(cfg.Booking.MaxStayNights)
	getQuoteUseCase := getQuoteUC.NewUseCase(store.units, rateSvc, oracle, log).
		WithMaxStay(cfg.Booking.MaxStayNights)

	// Инициализируем handlers
	createUnit := createUnitHandler.NewHandler(unitSvc, log)
	getUnit := getUnitHandler.NewHandler(unitSvc, log)
	getQuote := getQuoteHandler.NewHandler(getQuoteUseCase, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(unitSvc, oracle, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	listUnitBookings := listUnitBookingsHandler.NewHandler(bookingSvc, log)
	createBlock := createBlockHandler.NewHandler(createBlockUseCase, log)
	listBlocks := listBlocksHandler.NewHandler(blockSvc, log)
	releaseBlock := releaseBlockHandler.NewHandler(blockSvc, log)
	listRates := listRatesHandler.NewHandler(rateSvc, log)
	createRate := createRateHandler.NewHandler(rateSvc, log)
	deleteRate := deleteRateHandler.NewHandler(rateSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Объекты размещения ---
	api.HandleFunc("/units", createUnit.Handle).Methods(http.MethodPost)
	api.HandleFunc("/units/{unitId}", getUnit.Handle).Methods(http.MethodGet)
	api.HandleFunc("/units/{unitId}/quote", getQuote.Handle).Methods(http.MethodGet)
	api.HandleFunc("/units/{unitId}/availability", checkAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/units/{unitId}/bookings", listUnitBookings.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPatch)

	// --- Блокировки ---
	api.HandleFunc("/units/{unitId}/blocks", createBlock.Handle).Methods(http.MethodPost)
	api.HandleFunc("/units/{unitId}/blocks", listBlocks.Handle).Methods(http.MethodGet)
	api.HandleFunc("/blocks/{blockId}", releaseBlock.Handle).Methods(http.MethodDelete)

	// --- Цены ---
	api.HandleFunc("/units/{unitId}/rates", listRates.Handle).Methods(http.MethodGet)
	api.HandleFunc("/units/{unitId}/rates", createRate.Handle).Methods(http.MethodPost)
	api.HandleFunc("/rates/{rateId}", deleteRate.Handle).Methods(http.MethodDelete)

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

	// Дожидаемся доставки накопленных уведомлений
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Error("Notifier stopped with undelivered events: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
