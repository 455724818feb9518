// Package bookings is the Postgres booking backend: it serves the catalog and slot lists and accepts
// bookings transactionally against slot capacity.
package bookings

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wolfman30/clinic-booking/internal/catalog"
	"github.com/wolfman30/clinic-booking/internal/slots"
)

// DB is the subset of pgxpool.Pool the backend uses.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const slotColumns = `id, doctor_id, to_char(slot_date, 'YYYY-MM-DD'), to_char(slot_time, 'HH24:MI:SS'),
		is_active, current_bookings, max_bookings`

// Repository reads catalog and slot rows.
type Repository struct {
	db DB
}

// NewRepository creates a repository. Pass a *pgxpool.Pool in production.
func NewRepository(db DB) *Repository {
	if db == nil {
		panic("bookings: db required")
	}
	return &Repository{db: db}
}

// FetchDoctors lists active doctors with the ids of the services they offer.
func (r *Repository) FetchDoctors(ctx context.Context) ([]catalog.Doctor, error) {
	query := `
		SELECT d.id, d.full_name, d.gender, COALESCE(d.specialty, ''),
		       COALESCE(array_agg(ds.service_id ORDER BY ds.service_id) FILTER (WHERE ds.service_id IS NOT NULL), '{}')
		FROM doctors d
		LEFT JOIN doctor_services ds ON ds.doctor_id = d.id
		WHERE d.is_active
		GROUP BY d.id
		ORDER BY d.full_name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("bookings: list doctors: %w", err)
	}
	defer rows.Close()

	var doctors []catalog.Doctor
	for rows.Next() {
		var d catalog.Doctor
		var gender string
		if err := rows.Scan(&d.ID, &d.FullName, &gender, &d.Specialty, &d.ServiceIDs); err != nil {
			return nil, fmt.Errorf("bookings: scan doctor: %w", err)
		}
		d.Gender = catalog.ParseGender(gender)
		doctors = append(doctors, d)
	}
	return doctors, rows.Err()
}

// FetchServices lists active services.
func (r *Repository) FetchServices(ctx context.Context) ([]catalog.Service, error) {
	query := `
		SELECT id, name, COALESCE(description, ''), COALESCE(category, '')
		FROM services
		WHERE is_active
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("bookings: list services: %w", err)
	}
	defer rows.Close()

	var services []catalog.Service
	for rows.Next() {
		var s catalog.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Category); err != nil {
			return nil, fmt.Errorf("bookings: scan service: %w", err)
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

// FetchSlots lists every slot of one doctor.
func (r *Repository) FetchSlots(ctx context.Context, doctorID string) ([]slots.Entry, error) {
	query := `SELECT ` + slotColumns + `
		FROM doctor_slots
		WHERE doctor_id = $1
		ORDER BY slot_date, slot_time
	`
	return scanSlots(ctx, r.db, query, doctorID)
}

func scanSlots(ctx context.Context, q querier, query string, args ...any) ([]slots.Entry, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("bookings: list slots: %w", err)
	}
	defer rows.Close()

	out := []slots.Entry{}
	for rows.Next() {
		var e slots.Entry
		if err := rows.Scan(&e.SlotID, &e.DoctorID, &e.Date, &e.Time, &e.Active, &e.CurrentBookings, &e.MaxBookings); err != nil {
			return nil, fmt.Errorf("bookings: scan slot: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

var (
	_ catalog.Source = (*Repository)(nil)
	_ slots.Source   = (*Repository)(nil)
)
