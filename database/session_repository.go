package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/WeedGo-Platform/checkout-service/models"

	"github.com/redis/go-redis/v9"
)

// SessionRepository stores checkout sessions in Redis with a TTL. An
// abandoned session simply expires; a confirmed one is deleted explicitly.
// One session per user at a time.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *SessionRepository) getKey(userID string) string {
	return fmt.Sprintf("checkout:session:%s", userID)
}

// GetSession returns the user's active session, or nil when none exists.
func (r *SessionRepository) GetSession(ctx context.Context, userID string) (*models.CheckoutSession, error) {
	key := r.getKey(userID)
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session models.CheckoutSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) SaveSession(ctx context.Context, session *models.CheckoutSession) error {
	key := r.getKey(session.UserID)
	session.UpdatedAt = time.Now()

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, key, data, r.ttl).Err()
}

func (r *SessionRepository) DeleteSession(ctx context.Context, userID string) error {
	key := r.getKey(userID)
	return r.client.Del(ctx, key).Err()
}

// Idempotency helpers: map a session's idempotency key to the created order
// number so a replayed submit returns the original order.

func (r *SessionRepository) getIdemKey(key string) string {
	return "idem:checkout:" + key
}

func (r *SessionRepository) GetIdempotency(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.getIdemKey(key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *SessionRepository) SetIdempotency(ctx context.Context, key, orderNumber string, ttl time.Duration) error {
	return r.client.Set(ctx, r.getIdemKey(key), orderNumber, ttl).Err()
}
