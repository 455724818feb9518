package events

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wolfman30/clinic-booking/pkg/logging"
)

type claimExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ProcessedStore is a claim table keyed by (consumer, event id). A consumer claims an event before
// acting on it; a second claim for the same pair fails.
type ProcessedStore struct {
	db  claimExecer
	now func() time.Time
}

func NewProcessedStore(pool *pgxpool.Pool) *ProcessedStore {
	if pool == nil {
		panic("events: pgx pool required")
	}
	return newProcessedStore(pool)
}

func newProcessedStore(db claimExecer) *ProcessedStore {
	return &ProcessedStore{db: db, now: time.Now}
}

// MarkProcessed claims eventID for consumer. It returns false when the claim already exists.
func (s *ProcessedStore) MarkProcessed(ctx context.Context, consumer, eventID string) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`INSERT INTO processed_events (consumer, event_id) VALUES ($1, $2) ON CONFLICT (consumer, event_id) DO NOTHING`,
		consumer, eventID)
	if err != nil {
		return false, fmt.Errorf("events: claim %s/%s: %w", consumer, eventID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// Prune forgets claims older than keep.
func (s *ProcessedStore) Prune(ctx context.Context, keep time.Duration) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM processed_events WHERE processed_at < $1`, s.now().Add(-keep))
	if err != nil {
		return 0, fmt.Errorf("events: prune claims: %w", err)
	}
	return tag.RowsAffected(), nil
}

// StartPruning runs Prune every interval until ctx is cancelled. It blocks.
func (s *ProcessedStore) StartPruning(ctx context.Context, keep, interval time.Duration, logger *logging.Logger) {
	if keep <= 0 || interval <= 0 {
		return
	}
	if logger == nil {
		logger = logging.Default()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Prune(ctx, keep)
			if err != nil {
				logger.Warn("claim pruning failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("pruned processed events", "rows", n)
			}
		}
	}
}
