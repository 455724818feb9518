package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wolfman30/clinic-booking/pkg/logging"
)

// DefaultMaxAttempts is how many failed deliveries a row gets before the relay leaves it for manual replay.
const DefaultMaxAttempts = 10

// OutboxEntry is a booking event waiting in the outbox table.
type OutboxEntry struct {
	ID            uuid.UUID
	Aggregate     string
	Type          string
	CorrelationID string // slot id for booking events
	Payload       json.RawMessage
	CreatedAt     time.Time
	Attempts      int
}

// Envelope rebuilds the transport envelope for the row.
func (e OutboxEntry) Envelope() Envelope {
	return Envelope{
		EventID:         e.ID,
		EventType:       e.Type,
		Aggregate:       e.Aggregate,
		TimestampMicros: e.CreatedAt.UTC().UnixMicro(),
		CorrelationID:   e.CorrelationID,
		Payload:         e.Payload,
	}
}

// DeliveryHandler emits outbox rows to a downstream transport.
type DeliveryHandler interface {
	Handle(ctx context.Context, entry OutboxEntry) error
}

type outboxDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// OutboxStore reads the outbox and records delivery outcomes.
type OutboxStore struct {
	db          outboxDB
	maxAttempts int
}

// NewOutboxStore creates a store over the booking database.
func NewOutboxStore(pool *pgxpool.Pool) *OutboxStore {
	if pool == nil {
		panic("events: pgx pool required")
	}
	return newOutboxStore(pool)
}

func newOutboxStore(db outboxDB) *OutboxStore {
	return &OutboxStore{db: db, maxAttempts: DefaultMaxAttempts}
}

// Pending returns up to limit undelivered rows that still have attempts left, oldest first.
func (s *OutboxStore) Pending(ctx context.Context, limit int32) ([]OutboxEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, aggregate, event_type, correlation_id, payload, created_at, attempts
		FROM outbox
		WHERE delivered_at IS NULL AND attempts < $1
		ORDER BY created_at
		LIMIT $2
	`, s.maxAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("events: load pending: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (OutboxEntry, error) {
		var e OutboxEntry
		var payload []byte
		if err := row.Scan(&e.ID, &e.Aggregate, &e.Type, &e.CorrelationID, &payload, &e.CreatedAt, &e.Attempts); err != nil {
			return e, fmt.Errorf("events: scan outbox: %w", err)
		}
		e.Payload = json.RawMessage(payload)
		return e, nil
	})
}

// Delivered stamps the row. It reports false when another relay got there first.
func (s *OutboxStore) Delivered(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.db.Exec(ctx, `UPDATE outbox SET delivered_at = now() WHERE id = $1 AND delivered_at IS NULL`, id)
	if err != nil {
		return false, fmt.Errorf("events: mark delivered: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Failed counts a failed attempt and keeps the last error for operators.
func (s *OutboxStore) Failed(ctx context.Context, id uuid.UUID, cause error) error {
	_, err := s.db.Exec(ctx, `UPDATE outbox SET attempts = attempts + 1, last_error = $2 WHERE id = $1`, id, cause.Error())
	if err != nil {
		return fmt.Errorf("events: record failure: %w", err)
	}
	return nil
}

// DrainResult counts the outcome of one relay pass.
type DrainResult struct {
	Delivered int
	Failed    int
}

// Deliverer relays outbox rows to a handler on a fixed interval. A failed row stays pending until
// it runs out of attempts.
type Deliverer struct {
	store     *OutboxStore
	handler   DeliveryHandler
	logger    *logging.Logger
	batchSize int32
	interval  time.Duration
}

// NewDeliverer creates a relay with a batch of 25 every 2s.
func NewDeliverer(store *OutboxStore, handler DeliveryHandler, logger *logging.Logger) *Deliverer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Deliverer{store: store, handler: handler, logger: logger, batchSize: 25, interval: 2 * time.Second}
}

func (d *Deliverer) WithBatchSize(size int32) *Deliverer {
	if size > 0 {
		d.batchSize = size
	}
	return d
}

func (d *Deliverer) WithInterval(interval time.Duration) *Deliverer {
	if interval > 0 {
		d.interval = interval
	}
	return d
}

// Start relays until ctx is cancelled. It blocks.
func (d *Deliverer) Start(ctx context.Context) {
	if d.store == nil || d.handler == nil {
		return
	}
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if res := d.Drain(ctx); res.Failed > 0 {
				d.logger.Warn("outbox relay pass had failures", "delivered", res.Delivered, "failed", res.Failed)
			}
		}
	}
}

// Drain relays one batch.
func (d *Deliverer) Drain(ctx context.Context) DrainResult {
	var res DrainResult
	entries, err := d.store.Pending(ctx, d.batchSize)
	if err != nil {
		d.logger.Error("outbox load failed", "error", err)
		return res
	}
	for _, entry := range entries {
		if err := d.handler.Handle(ctx, entry); err != nil {
			res.Failed++
			d.logger.Error("outbox delivery failed", "error", err, "event_id", entry.ID, "attempt", entry.Attempts+1)
			if ferr := d.store.Failed(ctx, entry.ID, err); ferr != nil {
				d.logger.Error("outbox failure not recorded", "error", ferr, "event_id", entry.ID)
			}
			continue
		}
		ok, err := d.store.Delivered(ctx, entry.ID)
		if err != nil {
			res.Failed++
			d.logger.Error("outbox delivery not acknowledged", "error", err, "event_id", entry.ID)
			continue
		}
		if ok {
			res.Delivered++
			d.logger.Debug("outbox delivered", "event_id", entry.ID, "type", entry.Type, "aggregate", entry.Aggregate)
		}
	}
	return res
}
