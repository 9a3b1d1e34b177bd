package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-RentalService/internal/config"
	"github.com/m04kA/SMC-RentalService/internal/domain"
	blockRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/block"
	bookingRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-RentalService/internal/infra/storage/memory"
	rateRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/rate"
	unitRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/unit"
	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RentalService/pkg/logger"
	"github.com/m04kA/SMC-RentalService/pkg/metrics"
	"github.com/m04kA/SMC-RentalService/pkg/txmanager"
)

// Общие интерфейсы репозиториев PostgreSQL и памяти, чтобы main не зависел от драйвера

type unitStore interface {
	Create(ctx context.Context, unit *domain.Unit) (*domain.Unit, error)
	GetByID(ctx context.Context, id int64) (*domain.Unit, error)
}

type bookingStore interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetOverlapping(ctx context.Context, unitID int64, start, end time.Time, statuses []domain.BookingStatus) ([]*domain.Booking, error)
	GetByUnit(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, reason *string, cancelledAt time.Time) error
}

type blockStore interface {
	Create(ctx context.Context, block *domain.Block) (*domain.Block, error)
	GetByID(ctx context.Context, id int64) (*domain.Block, error)
	GetOverlapping(ctx context.Context, unitID int64, start, end time.Time) ([]*domain.Block, error)
	GetByUnit(ctx context.Context, unitID int64, from, to *time.Time) ([]*domain.Block, error)
	Delete(ctx context.Context, id int64) (bool, error)
	DeleteByOwner(ctx context.Context, bookingID int64) ([]*domain.Block, error)
}

type rateStore interface {
	Create(ctx context.Context, period *domain.RatePeriod) (*domain.RatePeriod, error)
	GetByID(ctx context.Context, id int64) (*domain.RatePeriod, error)
	GetByUnit(ctx context.Context, unitID int64) ([]domain.RatePeriod, error)
	Delete(ctx context.Context, id int64) error
}

type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

type storage struct {
	units     unitStore
	bookings  bookingStore
	blocks    blockStore
	rates     rateStore
	txManager txManager
	close     func()
}

// openStorage поднимает хранилище по storage.driver
func openStorage(cfg *config.Config, m *metrics.Metrics, stopMetricsCh <-chan struct{}, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		log.Warn("Using in-memory storage: data is lost on restart")
		store := memory.NewStore()
		return &storage{
			units:     store.Units(),
			bookings:  store.Bookings(),
			blocks:    store.Blocks(),
			rates:     store.Rates(),
			txManager: store.TxManager(),
			close:     func() {},
		}, nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	s := &storage{close: func() { _ = db.Close() }}

	if m != nil {
		wrappedDB := dbmetrics.WrapWithDefault(db, m, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		s.units = unitRepo.NewRepository(wrappedDB)
		s.bookings = bookingRepo.NewRepository(wrappedDB)
		s.blocks = blockRepo.NewRepository(wrappedDB)
		s.rates = rateRepo.NewRepository(wrappedDB)
		s.txManager = txmanager.NewTransactionManager(wrappedDB)
		return s, nil
	}

	s.units = unitRepo.NewRepository(db)
	s.bookings = bookingRepo.NewRepository(db)
	s.blocks = blockRepo.NewRepository(db)
	s.rates = rateRepo.NewRepository(db)
	s.txManager = txmanager.NewFromSQL(db)
	return s, nil
}
