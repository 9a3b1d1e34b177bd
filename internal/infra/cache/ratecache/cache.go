package ratecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/dates"
)

const (
	DefaultTTL    = 5 * time.Minute
	DefaultPrefix = "rental:rates:"
)

var (
	// ErrCache ошибка обращения к Redis
	ErrCache = errors.New("ratecache: redis error")

	// ErrDecode повреждённая запись кэша
	ErrDecode = errors.New("ratecache: failed to decode snapshot")
)

// Cache кэш снимков ценовых периодов в Redis
type Cache struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	prefix string
}

// New создает кэш поверх клиента Redis
func New(rdb redis.Cmdable, ttl time.Duration, prefix string) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Cache{rdb: rdb, ttl: ttl, prefix: prefix}
}

// NewClient создает клиента Redis и проверяет соединение
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", ErrCache, addr, err)
	}
	return client, nil
}

func (c *Cache) key(unitID int64) string {
	return c.prefix + strconv.FormatInt(unitID, 10)
}

// ключ поколения живёт без TTL, иначе сброс в 0 совпал бы со старым значением
func (c *Cache) genKey(unitID int64) string {
	return c.prefix + "gen:" + strconv.FormatInt(unitID, 10)
}

// Get возвращает снимок из кэша. ok=false, если записи нет.
func (c *Cache) Get(ctx context.Context, unitID int64) (*domain.RateSnapshot, bool, error) {
	data, err := c.rdb.Get(ctx, c.key(unitID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get unit=%d: %w", ErrCache, unitID, err)
	}

	var cached cachedSnapshot
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false, fmt.Errorf("%w: unit=%d: %v", ErrDecode, unitID, err)
	}

	snapshot, err := cached.toDomain()
	if err != nil {
		return nil, false, fmt.Errorf("%w: unit=%d: %v", ErrDecode, unitID, err)
	}
	return snapshot, true, nil
}

// Generation текущее поколение периодов юнита. 0, если периоды ещё не менялись.
// Читается до загрузки периодов из хранилища и передаётся в Set.
func (c *Cache) Generation(ctx context.Context, unitID int64) (int64, error) {
	gen, err := c.rdb.Get(ctx, c.genKey(unitID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: get generation unit=%d: %w", ErrCache, unitID, err)
	}
	return gen, nil
}

// Set сохраняет снимок с TTL, только если поколение не сменилось с момента чтения.
// stored=false означает, что между чтением и записью прошла инвалидация.
func (c *Cache) Set(ctx context.Context, snapshot *domain.RateSnapshot, generation int64) (bool, error) {
	data, err := json.Marshal(fromDomain(snapshot))
	if err != nil {
		return false, fmt.Errorf("%w: marshal unit=%d: %v", ErrCache, snapshot.UnitID, err)
	}

	stored, err := setIfGeneration.Run(ctx, c.rdb,
		[]string{c.key(snapshot.UnitID), c.genKey(snapshot.UnitID)},
		strconv.FormatInt(generation, 10), data, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("%w: set unit=%d: %w", ErrCache, snapshot.UnitID, err)
	}
	return stored == 1, nil
}

// Invalidate удаляет снимок юнита и увеличивает поколение
func (c *Cache) Invalidate(ctx context.Context, unitID int64) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.genKey(unitID))
		pipe.Del(ctx, c.key(unitID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: invalidate unit=%d: %w", ErrCache, unitID, err)
	}
	return nil
}

// KEYS[1] снимок, KEYS[2] поколение; ARGV: ожидаемое поколение, данные, TTL в мс
var setIfGeneration = redis.NewScript(`
local gen = redis.call('GET', KEYS[2])
if not gen then gen = '0' end
if gen ~= ARGV[1] then return 0 end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

type cachedSnapshot struct {
	UnitID  int64          `json:"unitId"`
	Periods []cachedPeriod `json:"periods"`
}

type cachedPeriod struct {
	ID           int64  `json:"id"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	WeekdayPrice *int64 `json:"weekdayPrice,omitempty"`
	WeekendPrice *int64 `json:"weekendPrice,omitempty"`
	MinStay      int    `json:"minStay"`
}

func fromDomain(snapshot *domain.RateSnapshot) cachedSnapshot {
	result := cachedSnapshot{UnitID: snapshot.UnitID, Periods: make([]cachedPeriod, 0, len(snapshot.Periods))}
	for _, p := range snapshot.Periods {
		result.Periods = append(result.Periods, cachedPeriod{
			ID:           p.ID,
			StartDate:    dates.Format(p.StartDate),
			EndDate:      dates.Format(p.EndDate),
			WeekdayPrice: p.WeekdayPrice,
			WeekendPrice: p.WeekendPrice,
			MinStay:      p.MinStay,
		})
	}
	return result
}

func (c cachedSnapshot) toDomain() (*domain.RateSnapshot, error) {
	snapshot := &domain.RateSnapshot{UnitID: c.UnitID, Periods: make([]domain.RatePeriod, 0, len(c.Periods))}
	for _, p := range c.Periods {
		start, err := dates.Parse(p.StartDate)
		if err != nil {
			return nil, err
		}
		end, err := dates.Parse(p.EndDate)
		if err != nil {
			return nil, err
		}
		snapshot.Periods = append(snapshot.Periods, domain.RatePeriod{
			ID:           p.ID,
			UnitID:       c.UnitID,
			StartDate:    start,
			EndDate:      end,
			WeekdayPrice: p.WeekdayPrice,
			WeekendPrice: p.WeekendPrice,
			MinStay:      p.MinStay,
		})
	}
	return snapshot, nil
}

// Noop кэш-заглушка, когда Redis не настроен
type Noop struct{}

func (Noop) Get(ctx context.Context, unitID int64) (*domain.RateSnapshot, bool, error) {
	return nil, false, nil
}

func (Noop) Generation(ctx context.Context, unitID int64) (int64, error) { return 0, nil }

// Set ничего не хранит; stored=true, потому что откладывать запись некому
func (Noop) Set(ctx context.Context, snapshot *domain.RateSnapshot, generation int64) (bool, error) {
	return true, nil
}

func (Noop) Invalidate(ctx context.Context, unitID int64) error { return nil }
