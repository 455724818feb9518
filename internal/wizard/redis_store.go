package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// DefaultDraftKeyPrefix is the storage key drafts are kept under.
const DefaultDraftKeyPrefix = "bookingState"

// RedisStore keeps each draft as JSON under <prefix>:<session> with a sliding TTL.
type RedisStore struct {
	redis  *redis.Client
	prefix string
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisStore creates a store. A zero ttl keeps drafts until cleared.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if client == nil {
		panic("wizard: redis client cannot be nil")
	}
	if prefix == "" {
		prefix = DefaultDraftKeyPrefix
	}
	return &RedisStore{
		redis:  client,
		prefix: prefix,
		ttl:    ttl,
		tracer: otel.Tracer("clinicbooking.internal.wizard.drafts"),
	}
}

func (s *RedisStore) key(sessionID string) string {
	return fmt.Sprintf("%s:%s", s.prefix, sessionID)
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Draft, error) {
	ctx, span := s.tracer.Start(ctx, "wizard.load_draft")
	defer span.End()

	data, err := s.redis.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("wizard: failed to load draft: %w", err)
	}

	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("wizard: failed to decode draft: %w", err)
	}
	return &d, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, draft Draft) error {
	ctx, span := s.tracer.Start(ctx, "wizard.save_draft")
	defer span.End()

	data, err := json.Marshal(draft)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("wizard: failed to marshal draft: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("wizard: failed to persist draft: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "wizard.clear_draft")
	defer span.End()

	if err := s.redis.Del(ctx, s.key(sessionID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("wizard: failed to clear draft: %w", err)
	}
	return nil
}

var _ DraftStore = (*RedisStore)(nil)
