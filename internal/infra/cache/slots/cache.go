package slots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

const (
	scanBatch = 100

	// ключи поколений должны пережить любой слот
	generationTTL = 24 * time.Hour
)

var errGenerationChanged = errors.New("slots.cache: generation changed")

// Cache кэш свободных слотов в Redis.
// Один hash на мастера и день (slots:{org}:{staff}:{date}), поле - ID услуги.
// Хранятся слоты без фильтра прошедшего времени: он применяется после чтения.
//
// Каждая инвалидация увеличивает поколение дня (slots:gen:{org}:{staff}:{date})
// или мастера (slots:gen:{org}:{staff}). Set записывает слоты только если поколение
// не изменилось с момента, когда читатель взял его перед запросом в БД.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New создает кэш слотов
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get возвращает слоты из кэша; hit=false, если записи нет
func (c *Cache) Get(ctx context.Context, organizationID, staffID int64, date time.Time, serviceID int64) ([]types.TimeString, bool, error) {
	val, err := c.client.HGet(ctx, dayKey(organizationID, staffID, date), field(serviceID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: Get: %v", ErrCacheRead, err)
	}

	var slots []types.TimeString
	if err := json.Unmarshal([]byte(val), &slots); err != nil {
		return nil, false, fmt.Errorf("%w: Get - decode: %v", ErrCacheRead, err)
	}

	return slots, true, nil
}

// Generation возвращает текущее поколение дня мастера.
// Значение только растет, пока ключи поколений не истекли.
func (c *Cache) Generation(ctx context.Context, organizationID, staffID int64, date time.Time) (int64, error) {
	vals, err := c.client.MGet(ctx, generationKeys(organizationID, staffID, date)...).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: Generation: %v", ErrCacheRead, err)
	}

	gen, err := sumGenerations(vals)
	if err != nil {
		return 0, fmt.Errorf("%w: Generation: %v", ErrCacheRead, err)
	}
	return gen, nil
}

// Set сохраняет слоты услуги на день и продлевает TTL ключа дня.
// generation - значение Generation, прочитанное до запроса в БД.
// Если с тех пор день был инвалидирован, запись молча пропускается.
func (c *Cache) Set(ctx context.Context, organizationID, staffID int64, date time.Time, serviceID int64, generation int64, slots []types.TimeString) error {
	if slots == nil {
		slots = []types.TimeString{}
	}
	data, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("%w: Set - encode: %v", ErrCacheWrite, err)
	}

	key := dayKey(organizationID, staffID, date)
	genKeys := generationKeys(organizationID, staffID, date)

	// WATCH отменяет MULTI, если поколение изменится между проверкой и записью
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		vals, err := tx.MGet(ctx, genKeys...).Result()
		if err != nil {
			return err
		}
		current, err := sumGenerations(vals)
		if err != nil {
			return err
		}
		if current != generation {
			return errGenerationChanged
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, field(serviceID), data)
			pipe.Expire(ctx, key, c.ttl)
			return nil
		})
		return err
	}, genKeys...)

	switch {
	case err == nil, errors.Is(err, errGenerationChanged), errors.Is(err, redis.TxFailedErr):
		return nil
	default:
		return fmt.Errorf("%w: Set: %v", ErrCacheWrite, err)
	}
}

// InvalidateDay удаляет слоты мастера на день (все услуги) и увеличивает поколение дня
func (c *Cache) InvalidateDay(ctx context.Context, organizationID, staffID int64, date time.Time) error {
	genKey := dayGenerationKey(organizationID, staffID, date)

	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, genKey)
	pipe.Expire(ctx, genKey, generationTTL)
	pipe.Del(ctx, dayKey(organizationID, staffID, date))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: InvalidateDay: %v", ErrCacheInvalidate, err)
	}
	return nil
}

// InvalidateStaff удаляет все закэшированные дни мастера (после смены расписания)
func (c *Cache) InvalidateStaff(ctx context.Context, organizationID, staffID int64) error {
	genKey := staffGenerationKey(organizationID, staffID)

	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, genKey)
	pipe.Expire(ctx, genKey, generationTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: InvalidateStaff - generation: %v", ErrCacheInvalidate, err)
	}

	pattern := fmt.Sprintf("slots:%d:%d:*", organizationID, staffID)

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("%w: InvalidateStaff - scan: %v", ErrCacheInvalidate, err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("%w: InvalidateStaff - del: %v", ErrCacheInvalidate, err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func dayKey(organizationID, staffID int64, date time.Time) string {
	return fmt.Sprintf("slots:%d:%d:%s", organizationID, staffID, date.Format(domain.DateFormat))
}

func staffGenerationKey(organizationID, staffID int64) string {
	return fmt.Sprintf("slots:gen:%d:%d", organizationID, staffID)
}

func dayGenerationKey(organizationID, staffID int64, date time.Time) string {
	return fmt.Sprintf("slots:gen:%d:%d:%s", organizationID, staffID, date.Format(domain.DateFormat))
}

func generationKeys(organizationID, staffID int64, date time.Time) []string {
	return []string{staffGenerationKey(organizationID, staffID), dayGenerationKey(organizationID, staffID, date)}
}

// sumGenerations складывает поколения мастера и дня; отсутствующий ключ - ноль
func sumGenerations(vals []interface{}) (int64, error) {
	var total int64
	for _, v := range vals {
		if v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return 0, fmt.Errorf("unexpected generation value %v", v)
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse generation %q: %w", s, err)
		}
		total += n
	}
	return total, nil
}

func field(serviceID int64) string {
	return strconv.FormatInt(serviceID, 10)
}
