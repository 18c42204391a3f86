package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"roombook/internal/config"
	"roombook/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	bookingKeyPrefix = "booking:"
	orderKey         = "bookings:order"
	roomIndexPrefix  = "bookings:room:"
	seqKey           = "bookings:seq"
)

// RedisLedger stores bookings as JSON values with a list-based insertion
// order and a per-room index. IDs come from a Redis counter, so they stay
// monotonic across restarts.
type RedisLedger struct {
	client *redis.Client
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{client: client}
}

func (l *RedisLedger) NextID(ctx context.Context) (string, error) {
	n, err := l.client.Incr(ctx, seqKey).Result()
	if err != nil {
		return "", fmt.Errorf("failed to advance booking sequence: %w", err)
	}
	return fmt.Sprintf("b%d", n), nil
}

func (l *RedisLedger) Insert(ctx context.Context, booking *models.Booking) error {
	data, err := json.Marshal(booking)
	if err != nil {
		return fmt.Errorf("failed to marshal booking: %w", err)
	}

	ok, err := l.client.SetNX(ctx, bookingKeyPrefix+booking.BookingID, data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	if !ok {
		return fmt.Errorf("insert booking %s: %w", booking.BookingID, ErrDuplicateID)
	}

	pipe := l.client.Pipeline()
	pipe.RPush(ctx, orderKey, booking.BookingID)
	pipe.RPush(ctx, roomIndexPrefix+booking.RoomID, booking.BookingID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to index booking: %w", err)
	}
	return nil
}

func (l *RedisLedger) Get(ctx context.Context, bookingID string) (*models.Booking, error) {
	val, err := l.client.Get(ctx, bookingKeyPrefix+bookingID).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("get booking %s: %w", bookingID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking from redis: %w", err)
	}

	var booking models.Booking
	if err := json.Unmarshal([]byte(val), &booking); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking: %w", err)
	}
	return &booking, nil
}

func (l *RedisLedger) ListAll(ctx context.Context) ([]*models.Booking, error) {
	return l.listByIndex(ctx, orderKey)
}

func (l *RedisLedger) ListByRoom(ctx context.Context, roomID string) ([]*models.Booking, error) {
	return l.listByIndex(ctx, roomIndexPrefix+roomID)
}

func (l *RedisLedger) Update(ctx context.Context, booking *models.Booking) error {
	data, err := json.Marshal(booking)
	if err != nil {
		return fmt.Errorf("failed to marshal booking: %w", err)
	}

	key := bookingKeyPrefix + booking.BookingID
	// SET XX rejects updates for unknown bookings
	ok, err := l.client.SetXX(ctx, key, data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if !ok {
		return fmt.Errorf("update booking %s: %w", booking.BookingID, ErrNotFound)
	}
	return nil
}

func (l *RedisLedger) Close() error {
	if l.client != nil {
		return l.client.Close()
	}
	return nil
}

func (l *RedisLedger) listByIndex(ctx context.Context, indexKey string) ([]*models.Booking, error) {
	ids, err := l.client.LRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read booking index: %w", err)
	}
	if len(ids) == 0 {
		// Пустой список, а не nil: ответ API сериализуется как []
		return []*models.Booking{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = bookingKeyPrefix + id
	}

	vals, err := l.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	out := make([]*models.Booking, 0, len(vals))
	for _, val := range vals {
		raw, ok := val.(string)
		if !ok {
			continue
		}
		var booking models.Booking
		if err := json.Unmarshal([]byte(raw), &booking); err != nil {
			return nil, fmt.Errorf("failed to unmarshal booking: %w", err)
		}
		out = append(out, &booking)
	}
	return out, nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}
