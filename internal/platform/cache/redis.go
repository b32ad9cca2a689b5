// Package cache provides the Redis-backed read caches: provider predictions
// (stable per phone prefix) and resolved transaction statuses (immutable once
// terminal). Both are best-effort; a cache miss or Redis outage falls through
// to the source of truth.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/momo-payment-gateway/internal/config"
	"github.com/momo-payment-gateway/internal/domain/transaction"
	"github.com/momo-payment-gateway/internal/platform/momoapi"
	"github.com/redis/go-redis/v9"
)

const (
	predictionKeyPrefix = "prediction:"
	statusKeyPrefix     = "txstatus:"
)

// Store defines the cache operations the gateway services consume
type Store interface {
	GetPrediction(ctx context.Context, phoneNumber string) (*momoapi.ProviderPrediction, error)
	SetPrediction(ctx context.Context, phoneNumber string, prediction *momoapi.ProviderPrediction) error
	GetOutcome(ctx context.Context, transactionID string) (*transaction.Outcome, error)
	SetOutcome(ctx context.Context, transactionID string, outcome transaction.Outcome) error
	Close() error
}

// RedisStore implements Store on go-redis
type RedisStore struct {
	client        *redis.Client
	predictionTTL time.Duration
	statusTTL     time.Duration
}

// NewRedisStore creates a Redis-backed cache and verifies connectivity
func NewRedisStore(ctx context.Context, cfg *config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &RedisStore{
		client:        client,
		predictionTTL: cfg.PredictionTTL,
		statusTTL:     cfg.StatusTTL,
	}, nil
}

// GetPrediction returns the cached prediction, or nil, nil on a miss
func (s *RedisStore) GetPrediction(ctx context.Context, phoneNumber string) (*momoapi.ProviderPrediction, error) {
	raw, err := s.client.Get(ctx, predictionKeyPrefix+phoneNumber).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis GET error: %w", err)
	}

	var prediction momoapi.ProviderPrediction
	if err := json.Unmarshal(raw, &prediction); err != nil {
		return nil, fmt.Errorf("decode cached prediction: %w", err)
	}
	return &prediction, nil
}

// SetPrediction caches a prediction with the configured TTL
func (s *RedisStore) SetPrediction(ctx context.Context, phoneNumber string, prediction *momoapi.ProviderPrediction) error {
	raw, err := json.Marshal(prediction)
	if err != nil {
		return fmt.Errorf("encode prediction: %w", err)
	}
	return s.client.Set(ctx, predictionKeyPrefix+phoneNumber, raw, s.predictionTTL).Err()
}

// GetOutcome returns the cached terminal outcome, or nil, nil on a miss
func (s *RedisStore) GetOutcome(ctx context.Context, transactionID string) (*transaction.Outcome, error) {
	raw, err := s.client.Get(ctx, statusKeyPrefix+transactionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis GET error: %w", err)
	}

	var outcome transaction.Outcome
	if err := json.Unmarshal(raw, &outcome); err != nil {
		return nil, fmt.Errorf("decode cached outcome: %w", err)
	}
	return &outcome, nil
}

// SetOutcome caches a terminal outcome. Non-terminal outcomes are rejected:
// a pending run has no stable value to serve.
func (s *RedisStore) SetOutcome(ctx context.Context, transactionID string, outcome transaction.Outcome) error {
	if !outcome.State.Terminal() {
		return transaction.ErrNotTerminal
	}
	raw, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("encode outcome: %w", err)
	}
	return s.client.Set(ctx, statusKeyPrefix+transactionID, raw, s.statusTTL).Err()
}

// Close releases the underlying Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
