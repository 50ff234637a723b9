package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const DefaultTTL = 24 * time.Hour

// RedisStore keeps session history in Redis with a TTL, so advisor context
// survives process restarts and is shared across replicas. Turn-cap
// semantics match MemoryStore; the session-count cap is delegated to the
// key TTL instead of explicit eviction.
type RedisStore struct {
	redis    *redis.Client
	tracer   trace.Tracer
	maxTurns int
	ttl      time.Duration
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, maxTurns int, ttl time.Duration, tracer trace.Tracer) *RedisStore {
	if client == nil {
		panic("session: redis client cannot be nil")
	}
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if tracer == nil {
		tracer = otel.Tracer("stocklens.internal.session")
	}
	return &RedisStore{
		redis:    client,
		tracer:   tracer,
		maxTurns: maxTurns,
		ttl:      ttl,
	}
}

// GetOrCreate resolves an existing session or mints a new one.
func (s *RedisStore) GetOrCreate(ctx context.Context, id string) (string, []Turn, error) {
	ctx, span := s.tracer.Start(ctx, "session.get_or_create")
	defer span.End()

	if id != "" {
		turns, err := s.load(ctx, id)
		if err == nil {
			return id, turns, nil
		}
		if err != redis.Nil {
			span.RecordError(err)
			return "", nil, fmt.Errorf("session: failed to load history: %w", err)
		}
	}

	id = NewID()
	if err := s.save(ctx, id, nil); err != nil {
		span.RecordError(err)
		return "", nil, err
	}
	return id, nil, nil
}

// Append adds turns to a session and trims to the turn cap.
func (s *RedisStore) Append(ctx context.Context, id string, turns ...Turn) error {
	ctx, span := s.tracer.Start(ctx, "session.append")
	defer span.End()

	existing, err := s.load(ctx, id)
	if err != nil && err != redis.Nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to load history: %w", err)
	}

	updated := append(existing, turns...)
	if len(updated) > s.maxTurns {
		updated = updated[len(updated)-s.maxTurns:]
	}
	if err := s.save(ctx, id, updated); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// History returns the stored turns for a session, nil when unknown.
func (s *RedisStore) History(ctx context.Context, id string) ([]Turn, error) {
	ctx, span := s.tracer.Start(ctx, "session.history")
	defer span.End()

	turns, err := s.load(ctx, id)
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("session: failed to load history: %w", err)
	}
	return turns, nil
}

func (s *RedisStore) load(ctx context.Context, id string) ([]Turn, error) {
	data, err := s.redis.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		return nil, err
	}
	var turns []Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("session: failed to decode history: %w", err)
	}
	return turns, nil
}

func (s *RedisStore) save(ctx context.Context, id string, turns []Turn) error {
	data, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("session: failed to marshal history: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: failed to persist history: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}
