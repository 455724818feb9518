// Package events carries booking events from the booking backends to downstream consumers through a
// Postgres outbox or directly to SQS.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Event is a versioned domain event keyed by the aggregate it belongs to.
type Event interface {
	EventType() string
	Aggregate() string
}

// Envelope is the wire form shared by the outbox and the queue.
type Envelope struct {
	EventID         uuid.UUID       `json:"event_id"`
	EventType       string          `json:"event_type"`
	Aggregate       string          `json:"aggregate"`
	TimestampMicros int64           `json:"timestamp"`
	CorrelationID   string          `json:"correlation_id,omitempty"`
	Payload         json.RawMessage `json:"payload"`
}

// Time is the event timestamp in UTC.
func (e Envelope) Time() time.Time {
	return time.UnixMicro(e.TimestampMicros).UTC()
}

var (
	ErrNilEvent         = errors.New("events: event is required")
	ErrMissingType      = errors.New("events: event type is required")
	ErrMissingAggregate = errors.New("events: aggregate is required")

	newEventID = uuid.New
)

// Seal marshals evt into an envelope stamped at. correlationID may be empty.
func Seal(evt Event, correlationID string, at time.Time) (Envelope, error) {
	if evt == nil {
		return Envelope{}, ErrNilEvent
	}
	typ, agg := strings.TrimSpace(evt.EventType()), strings.TrimSpace(evt.Aggregate())
	switch {
	case typ == "":
		return Envelope{}, ErrMissingType
	case agg == "":
		return Envelope{}, ErrMissingAggregate
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return Envelope{}, fmt.Errorf("events: marshal %s: %w", typ, err)
	}
	return Envelope{
		EventID:         newEventID(),
		EventType:       typ,
		Aggregate:       agg,
		TimestampMicros: at.UTC().UnixMicro(),
		CorrelationID:   strings.TrimSpace(correlationID),
		Payload:         payload,
	}, nil
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// AppendToOutbox stores env through exec. Pass the transaction that produced the event so both
// commit together.
func AppendToOutbox(ctx context.Context, exec execer, env Envelope) error {
	if exec == nil {
		return errors.New("events: exec required")
	}
	_, err := exec.Exec(ctx, `
		INSERT INTO outbox (id, aggregate, event_type, correlation_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, env.EventID, env.Aggregate, env.EventType, env.CorrelationID, []byte(env.Payload), env.Time())
	if err != nil {
		return fmt.Errorf("events: append %s to outbox: %w", env.EventType, err)
	}
	return nil
}
