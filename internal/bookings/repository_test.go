package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/wolfman30/clinic-booking/internal/booking"
	"github.com/wolfman30/clinic-booking/internal/catalog"
)

var slotRowColumns = []string{"id", "doctor_id", "slot_date", "slot_time", "is_active", "current_bookings", "max_bookings"}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func TestFetchDoctorsAggregatesServices(t *testing.T) {
	mock := newMockPool(t)
	repo := NewRepository(mock)

	rows := pgxmock.NewRows([]string{"id", "full_name", "gender", "specialty", "service_ids"}).
		AddRow("doc-an", "Nguyễn Văn An", "male", "Nội tổng quát", []string{"svc-cardio", "svc-general"}).
		AddRow("doc-binh", "Trần Thị Bình", "F", "Da liễu", []string{})
	mock.ExpectQuery("FROM doctors d").WillReturnRows(rows)

	doctors, err := repo.FetchDoctors(context.Background())
	if err != nil {
		t.Fatalf("FetchDoctors returned error: %v", err)
	}
	if len(doctors) != 2 {
		t.Fatalf("expected 2 doctors, got %d", len(doctors))
	}
	if !doctors[0].Supports("svc-general") || doctors[0].Gender != catalog.GenderMale {
		t.Fatalf("unexpected first doctor: %#v", doctors[0])
	}
	if doctors[1].Gender != catalog.GenderFemale {
		t.Fatalf("expected gender to be normalized, got %q", doctors[1].Gender)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFetchServicesPropagatesErrors(t *testing.T) {
	mock := newMockPool(t)
	repo := NewRepository(mock)

	mock.ExpectQuery("FROM services").WillReturnError(errors.New("connection reset"))

	if _, err := repo.FetchServices(context.Background()); err == nil {
		t.Fatal("expected error from FetchServices")
	}
}

func TestFetchSlotsScansEntries(t *testing.T) {
	mock := newMockPool(t)
	repo := NewRepository(mock)

	rows := pgxmock.NewRows(slotRowColumns).
		AddRow("slot-1", "doc-an", "2026-10-20", "09:30:00", true, 0, 2).
		AddRow("slot-2", "doc-an", "2026-10-20", "13:00:00", true, 2, 2)
	mock.ExpectQuery("FROM doctor_slots").WithArgs("doc-an").WillReturnRows(rows)

	entries, err := repo.FetchSlots(context.Background(), "doc-an")
	if err != nil {
		t.Fatalf("FetchSlots returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(entries))
	}
	if !entries[0].Selectable() || entries[1].Selectable() {
		t.Fatalf("unexpected selectability: %#v", entries)
	}
}

func newTestService(mock pgxmock.PgxPoolIface) *Service {
	svc := NewService(mock, nil)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "apt-1" }
	return svc
}

func validRequest() booking.Request {
	return booking.Request{
		FullName:        "Lan Nguyen",
		Phone:           "+84901234567",
		Message:         "Annual checkup",
		DoctorID:        "doc-an",
		ServiceID:       "svc-general",
		PreferredSlotID: "slot-1",
	}
}

func TestSubmitAcceptsOpenSlot(t *testing.T) {
	mock := newMockPool(t)
	svc := newTestService(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs("slot-1").
		WillReturnRows(pgxmock.NewRows(slotRowColumns).AddRow("slot-1", "doc-an", "2026-10-20", "09:30:00", true, 1, 2))
	mock.ExpectExec("INSERT INTO appointments").
		WithArgs("apt-1", "doc-an", "svc-general", "slot-1", "Lan Nguyen", "", "+84901234567", "other",
			"Annual checkup", "", booking.VisitTypeConsultation, "2026-10-20", "09:30:00", "pending").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE doctor_slots").WithArgs("slot-1").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO outbox").
		WithArgs(pgxmock.AnyArg(), "appointment:apt-1", "booking.submitted.v1", "slot-1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	result, err := svc.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if !result.Success || result.AppointmentID != "apt-1" {
		t.Fatalf("unexpected result: %#v", result)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubmitFullSlotSuggestsAlternatives(t *testing.T) {
	mock := newMockPool(t)
	svc := newTestService(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs("slot-1").
		WillReturnRows(pgxmock.NewRows(slotRowColumns).AddRow("slot-1", "doc-an", "2026-10-20", "09:30:00", true, 2, 2))
	mock.ExpectQuery("LIMIT").WithArgs("doc-an", "slot-1", "2026-10-19", MaxAlternatives).
		WillReturnRows(pgxmock.NewRows(slotRowColumns).
			AddRow("slot-2", "doc-an", "2026-10-20", "13:00:00", true, 0, 1).
			AddRow("slot-3", "doc-an", "2026-10-21", "08:00:00", true, 0, 1).
			AddRow("slot-4", "doc-an", "2026-10-21", "15:30:00", true, 1, 3))
	mock.ExpectRollback()

	result, err := svc.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if result.Success {
		t.Fatal("expected rejection for a full slot")
	}
	if result.Message != msgSlotFull {
		t.Fatalf("unexpected message %q", result.Message)
	}
	if len(result.AlternativeSlots) != 3 || result.AlternativeSlots[0].SlotID != "slot-2" {
		t.Fatalf("unexpected alternatives: %#v", result.AlternativeSlots)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubmitRejectsSlotOfAnotherDoctor(t *testing.T) {
	mock := newMockPool(t)
	svc := newTestService(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs("slot-1").
		WillReturnRows(pgxmock.NewRows(slotRowColumns).AddRow("slot-1", "doc-binh", "2026-10-20", "09:30:00", true, 0, 1))
	mock.ExpectQuery("LIMIT").WithArgs("doc-an", "slot-1", "2026-10-19", MaxAlternatives).
		WillReturnRows(pgxmock.NewRows(slotRowColumns))
	mock.ExpectRollback()

	result, err := svc.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if result.Success || result.Message != msgSlotMismatch {
		t.Fatalf("unexpected result: %#v", result)
	}
	if len(result.AlternativeSlots) != 0 {
		t.Fatalf("expected no alternatives, got %#v", result.AlternativeSlots)
	}
}

func TestSubmitIncompleteRequestSkipsDatabase(t *testing.T) {
	mock := newMockPool(t)
	svc := newTestService(mock)

	req := validRequest()
	req.Phone = ""
	result, err := svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if result.Success || result.Message != msgIncomplete {
		t.Fatalf("unexpected result: %#v", result)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected database calls: %v", err)
	}
}

func TestSubmitBeginFailure(t *testing.T) {
	mock := newMockPool(t)
	svc := newTestService(mock)

	mock.ExpectBegin().WillReturnError(errors.New("pool closed"))

	if _, err := svc.Submit(context.Background(), validRequest()); err == nil {
		t.Fatal("expected begin failure to surface")
	}
}
