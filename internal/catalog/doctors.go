package catalog

import (
	"slices"
	"strings"
)

// DoctorSort selects the doctor list ordering.
type DoctorSort string

const (
	SortDoctorsByName      DoctorSort = "name"
	SortDoctorsBySpecialty DoctorSort = "specialty"
)

// ParseDoctorSort defaults to sorting by name.
func ParseDoctorSort(s string) DoctorSort {
	if DoctorSort(strings.ToLower(strings.TrimSpace(s))) == SortDoctorsBySpecialty {
		return SortDoctorsBySpecialty
	}
	return SortDoctorsByName
}

// DoctorQuery holds the doctor-step filters. Empty fields do not filter.
type DoctorQuery struct {
	ServiceID string     `json:"service_id,omitempty"`
	Gender    Gender     `json:"gender,omitempty"`
	Specialty string     `json:"specialty,omitempty"`
	Search    string     `json:"search,omitempty"`
	Sort      DoctorSort `json:"sort,omitempty"`
}

// NarrowDoctors keeps the doctors that offer serviceID. An empty serviceID keeps everyone.
func NarrowDoctors(all []Doctor, serviceID string) []Doctor {
	if serviceID == "" {
		return slices.Clone(all)
	}
	out := make([]Doctor, 0, len(all))
	for _, d := range all {
		if d.Supports(serviceID) {
			out = append(out, d)
		}
	}
	return out
}

// FilterDoctors applies the service narrowing, gender, specialty and name filters, then sorts.
// The input slice is never modified.
func FilterDoctors(all []Doctor, q DoctorQuery) []Doctor {
	candidates := NarrowDoctors(all, q.ServiceID)

	filtered := make([]Doctor, 0, len(candidates))
	specialty := Normalize(q.Specialty)
	for _, d := range candidates {
		if q.Gender != "" && d.Gender != q.Gender {
			continue
		}
		if specialty != "" && Normalize(d.Specialty) != specialty {
			continue
		}
		filtered = append(filtered, d)
	}

	filtered = matchText(filtered, q.Search, func(d Doctor) string { return d.FullName })
	SortDoctors(filtered, q.Sort)
	return filtered
}

// SortDoctors orders doctors in place by name or specialty. Equal keys keep their relative order.
func SortDoctors(doctors []Doctor, mode DoctorSort) {
	key := func(d Doctor) string { return Normalize(d.FullName) }
	if mode == SortDoctorsBySpecialty {
		key = func(d Doctor) string { return Normalize(d.Specialty) }
	}
	slices.SortStableFunc(doctors, func(a, b Doctor) int {
		return strings.Compare(key(a), key(b))
	})
}

// Specialties lists the distinct specialties of the given doctors, sorted. Spelling variants that
// normalize to the same value are reported once using the first spelling seen.
func Specialties(doctors []Doctor) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, d := range doctors {
		key := Normalize(d.Specialty)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(d.Specialty))
	}
	slices.SortFunc(out, func(a, b string) int {
		return strings.Compare(Normalize(a), Normalize(b))
	})
	return out
}
