package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRecord is returned for catalog records missing an id or a name.
var ErrInvalidRecord = errors.New("catalog: record missing id or name")

// FlexString decodes a JSON string or number into a string. Backend ids arrive as both.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("catalog: id must be string or number: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

// FlexIDs decodes a list of ids given either as scalars or as objects carrying an id field.
type FlexIDs []string

func (f *FlexIDs) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make([]string, 0, len(items))
	for _, raw := range items {
		var id FlexString
		if err := json.Unmarshal(raw, &id); err == nil {
			if id != "" {
				out = append(out, string(id))
			}
			continue
		}
		var obj struct {
			ID        FlexString `json:"id"`
			ServiceID FlexString `json:"service_id"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return fmt.Errorf("catalog: decode id list: %w", err)
		}
		if id := firstNonEmpty(string(obj.ServiceID), string(obj.ID)); id != "" {
			out = append(out, id)
		}
	}
	*f = out
	return nil
}

// RawDoctor is a doctor as returned by the backend. Several field spellings are in use.
type RawDoctor struct {
	ID             FlexString `json:"id"`
	DoctorID       FlexString `json:"doctor_id"`
	FullName       string     `json:"full_name"`
	Name           string     `json:"name"`
	Gender         string     `json:"gender"`
	Specialty      string     `json:"specialty"`
	Specialization string     `json:"specialization"`
	ServiceIDs     FlexIDs    `json:"service_ids"`
	Services       FlexIDs    `json:"services"`
}

// RawService is a service as returned by the backend.
type RawService struct {
	ID                 FlexString `json:"id"`
	ServiceID          FlexString `json:"service_id"`
	Name               string     `json:"name"`
	ServiceName        string     `json:"service_name"`
	Description        string     `json:"description"`
	ServiceDescription string     `json:"service_description"`
	Category           string     `json:"category"`
	CategoryID         FlexString `json:"category_id"`
}

// ToDoctor validates and converts a raw record.
func (r RawDoctor) ToDoctor() (Doctor, error) {
	id := firstNonEmpty(string(r.DoctorID), string(r.ID))
	name := firstNonEmpty(r.FullName, r.Name)
	if id == "" || name == "" {
		return Doctor{}, ErrInvalidRecord
	}
	ids := append([]string{}, r.ServiceIDs...)
	ids = append(ids, r.Services...)
	return Doctor{
		ID:         id,
		FullName:   name,
		Gender:     ParseGender(r.Gender),
		Specialty:  firstNonEmpty(r.Specialty, r.Specialization),
		ServiceIDs: dedupe(ids),
	}, nil
}

// ToService validates and converts a raw record.
func (r RawService) ToService() (Service, error) {
	id := firstNonEmpty(string(r.ServiceID), string(r.ID))
	name := firstNonEmpty(r.Name, r.ServiceName)
	if id == "" || name == "" {
		return Service{}, ErrInvalidRecord
	}
	return Service{
		ID:          id,
		Name:        name,
		Description: firstNonEmpty(r.Description, r.ServiceDescription),
		Category:    firstNonEmpty(r.Category, string(r.CategoryID)),
	}, nil
}

// DecodeDoctors maps a JSON array of doctors. Records that fail to decode or validate are skipped
// and counted; only a body that is not an array is an error.
func DecodeDoctors(data []byte) ([]Doctor, int, error) {
	items, err := splitArray(data)
	if err != nil {
		return nil, 0, fmt.Errorf("catalog: decode doctors: %w", err)
	}
	out := make([]Doctor, 0, len(items))
	skipped := 0
	for _, item := range items {
		var r RawDoctor
		if err := json.Unmarshal(item, &r); err != nil {
			skipped++
			continue
		}
		d, err := r.ToDoctor()
		if err != nil {
			skipped++
			continue
		}
		out = append(out, d)
	}
	return out, skipped, nil
}

// DecodeServices maps a JSON array of services with the same per-record skipping as DecodeDoctors.
func DecodeServices(data []byte) ([]Service, int, error) {
	items, err := splitArray(data)
	if err != nil {
		return nil, 0, fmt.Errorf("catalog: decode services: %w", err)
	}
	out := make([]Service, 0, len(items))
	skipped := 0
	for _, item := range items {
		var r RawService
		if err := json.Unmarshal(item, &r); err != nil {
			skipped++
			continue
		}
		svc, err := r.ToService()
		if err != nil {
			skipped++
			continue
		}
		out = append(out, svc)
	}
	return out, skipped, nil
}

func splitArray(data []byte) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
