// Package otp keeps short-lived, single-use secrets in Redis: the pending
// login codes and the two-factor setup codes. Every entry carries a TTL and
// is explicitly invalidated on successful verification.
package otp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// otp:login:{login_id} -> PendingLogin
	keyLogin = "otp:login:%s"
	// otp:setup:{user_id} -> code
	keySetup = "otp:setup:%s"
)

// PendingLogin ties a generated code to the user whose credentials already
// checked out but who still has to present the code.
type PendingLogin struct {
	UserID uuid.UUID `json:"user_id"`
	Code   string    `json:"code"`
}

type Store interface {
	SetPendingLogin(ctx context.Context, loginID uuid.UUID, pending PendingLogin, ttl time.Duration) error
	// GetPendingLogin returns nil when the key is missing or expired.
	GetPendingLogin(ctx context.Context, loginID uuid.UUID) (*PendingLogin, error)
	InvalidatePendingLogin(ctx context.Context, loginID uuid.UUID) error

	SetSetupCode(ctx context.Context, userID uuid.UUID, code string, ttl time.Duration) error
	GetSetupCode(ctx context.Context, userID uuid.UUID) (string, error)
	InvalidateSetupCode(ctx context.Context, userID uuid.UUID) error
}

type redisStore struct {
	rdb *redis.Client
}

func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

func NewStore(rdb *redis.Client) Store {
	return &redisStore{rdb: rdb}
}

func (s *redisStore) SetPendingLogin(ctx context.Context, loginID uuid.UUID, pending PendingLogin, ttl time.Duration) error {
	b, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("encode pending login: %w", err)
	}

	key := fmt.Sprintf(keyLogin, loginID.String())
	if err := s.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		return fmt.Errorf("store pending login: %w", err)
	}

	return nil
}

func (s *redisStore) GetPendingLogin(ctx context.Context, loginID uuid.UUID) (*PendingLogin, error) {
	key := fmt.Sprintf(keyLogin, loginID.String())

	b, err := s.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read pending login: %w", err)
	}

	var pending PendingLogin
	if err := json.Unmarshal(b, &pending); err != nil {
		return nil, fmt.Errorf("decode pending login: %w", err)
	}

	return &pending, nil
}

func (s *redisStore) InvalidatePendingLogin(ctx context.Context, loginID uuid.UUID) error {
	key := fmt.Sprintf(keyLogin, loginID.String())
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("invalidate pending login: %w", err)
	}
	return nil
}

func (s *redisStore) SetSetupCode(ctx context.Context, userID uuid.UUID, code string, ttl time.Duration) error {
	key := fmt.Sprintf(keySetup, userID.String())
	if err := s.rdb.Set(ctx, key, code, ttl).Err(); err != nil {
		return fmt.Errorf("store setup code: %w", err)
	}
	return nil
}

func (s *redisStore) GetSetupCode(ctx context.Context, userID uuid.UUID) (string, error) {
	key := fmt.Sprintf(keySetup, userID.String())

	code, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read setup code: %w", err)
	}

	return code, nil
}

func (s *redisStore) InvalidateSetupCode(ctx context.Context, userID uuid.UUID) error {
	key := fmt.Sprintf(keySetup, userID.String())
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("invalidate setup code: %w", err)
	}
	return nil
}
