package catalog

import (
	"context"

	"github.com/wolfman30/clinic-booking/pkg/logging"
)

// Source fetches the catalog from a booking backend.
type Source interface {
	FetchDoctors(ctx context.Context) ([]Doctor, error)
	FetchServices(ctx context.Context) ([]Service, error)
}

// Snapshot is one fetched catalog. Demo is set when bundled sample data replaced a failed fetch.
type Snapshot struct {
	Doctors  []Doctor
	Services []Service
	Demo     bool
}

// Loader fetches the catalog and falls back to sample data so the wizard stays usable.
type Loader struct {
	source Source
	logger *logging.Logger
}

// NewLoader creates a loader. A nil source always serves the sample catalog.
func NewLoader(source Source, logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.Default()
	}
	return &Loader{source: source, logger: logger}
}

// Doctors fetches doctors, returning sample data and demo=true on failure.
func (l *Loader) Doctors(ctx context.Context) ([]Doctor, bool) {
	if l.source == nil {
		return SampleDoctors(), true
	}
	doctors, err := l.source.FetchDoctors(ctx)
	if err != nil {
		l.logger.Warn("catalog: doctor fetch failed, using sample data", "error", err)
		return SampleDoctors(), true
	}
	return doctors, false
}

// Services fetches services, returning sample data and demo=true on failure.
func (l *Loader) Services(ctx context.Context) ([]Service, bool) {
	if l.source == nil {
		return SampleServices(), true
	}
	services, err := l.source.FetchServices(ctx)
	if err != nil {
		l.logger.Warn("catalog: service fetch failed, using sample data", "error", err)
		return SampleServices(), true
	}
	return services, false
}

// Load fetches both lists.
func (l *Loader) Load(ctx context.Context) Snapshot {
	doctors, demoDoctors := l.Doctors(ctx)
	services, demoServices := l.Services(ctx)
	return Snapshot{Doctors: doctors, Services: services, Demo: demoDoctors || demoServices}
}
