package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// Store хранилище в памяти процесса с теми же контрактами, что и PostgreSQL-репозитории.
// Все операции выполняются под одним мьютексом: транзакция держит его целиком,
// а одиночные операции вне транзакции берут его на время вызова.
// Это даёт сериализуемое исполнение без грязных чтений.
type Store struct {
	mu sync.Mutex

	units    map[int64]domain.Unit
	bookings map[int64]domain.Booking
	blocks   map[int64]domain.Block
	rates    map[int64]domain.RatePeriod

	seq int64
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		units:    make(map[int64]domain.Unit),
		bookings: make(map[int64]domain.Booking),
		blocks:   make(map[int64]domain.Block),
		rates:    make(map[int64]domain.RatePeriod),
	}
}

// Units репозиторий юнитов
func (s *Store) Units() *UnitRepository {
	return &UnitRepository{store: s}
}

// Bookings репозиторий бронирований
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{store: s}
}

// Blocks репозиторий блоков
func (s *Store) Blocks() *BlockRepository {
	return &BlockRepository{store: s}
}

// Rates репозиторий ценовых периодов
func (s *Store) Rates() *RateRepository {
	return &RateRepository{store: s}
}

// TxManager менеджер транзакций хранилища
func (s *Store) TxManager() *TxManager {
	return &TxManager{store: s}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

type txKey struct{}

// inTx true, если контекст принадлежит транзакции этого хранилища
func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// lock берёт мьютекс, если вызов не внутри транзакции (там он уже взят)
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	units    map[int64]domain.Unit
	bookings map[int64]domain.Booking
	blocks   map[int64]domain.Block
	rates    map[int64]domain.RatePeriod
	seq      int64
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		units:    maps.Clone(s.units),
		bookings: maps.Clone(s.bookings),
		blocks:   maps.Clone(s.blocks),
		rates:    maps.Clone(s.rates),
		seq:      s.seq,
	}
}

func (s *Store) restore(snap snapshot) {
	s.units = snap.units
	s.bookings = snap.bookings
	s.blocks = snap.blocks
	s.rates = snap.rates
	s.seq = snap.seq
}

// TxManager транзакции хранилища в памяти.
// Транзакция держит мьютекс хранилища на всё время fn и откатывает
// изменения к снимку, если fn вернула ошибку.
type TxManager struct {
	store *Store
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	s := m.store
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.restore(snap)
		return err
	}

	return nil
}
