package slots

import (
	"context"
	"time"

	"github.com/wolfman30/clinic-booking/pkg/logging"
)

// Source fetches every slot of one doctor, past and future, active or not.
type Source interface {
	FetchSlots(ctx context.Context, doctorID string) ([]Entry, error)
}

// Loader fetches slots and falls back to generated sample slots on failure.
type Loader struct {
	source Source
	logger *logging.Logger
	now    func() time.Time
}

// NewLoader creates a loader. A nil source always serves sample slots.
func NewLoader(source Source, logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.Default()
	}
	return &Loader{source: source, logger: logger, now: time.Now}
}

// Load returns the doctor's slots and whether they are sample data.
func (l *Loader) Load(ctx context.Context, doctorID string) ([]Entry, bool) {
	if l.source == nil {
		return Sample(doctorID, l.now()), true
	}
	entries, err := l.source.FetchSlots(ctx, doctorID)
	if err != nil {
		l.logger.Warn("slots: fetch failed, using sample data", "doctor_id", doctorID, "error", err)
		return Sample(doctorID, l.now()), true
	}
	return entries, false
}
