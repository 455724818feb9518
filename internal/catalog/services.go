package catalog

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// MinServiceQueryRunes is the shortest normalized query that activates the service text filter.
const MinServiceQueryRunes = 2

// ServiceSort selects the service list ordering.
type ServiceSort string

const (
	SortServicesByName        ServiceSort = "name"
	SortServicesByDescription ServiceSort = "description"
)

// ParseServiceSort defaults to sorting by name.
func ParseServiceSort(s string) ServiceSort {
	if ServiceSort(strings.ToLower(strings.TrimSpace(s))) == SortServicesByDescription {
		return SortServicesByDescription
	}
	return SortServicesByName
}

// ServiceQuery holds the service-step filters. Doctor narrows to the doctor's services when set.
type ServiceQuery struct {
	Doctor   *Doctor     `json:"-"`
	Category string      `json:"category,omitempty"`
	Search   string      `json:"search,omitempty"`
	Sort     ServiceSort `json:"sort,omitempty"`
}

// NarrowServices keeps the services offered by doctor. A nil doctor keeps every service.
func NarrowServices(all []Service, doctor *Doctor) []Service {
	if doctor == nil {
		return slices.Clone(all)
	}
	out := make([]Service, 0, len(all))
	for _, s := range all {
		if doctor.Supports(s.ID) {
			out = append(out, s)
		}
	}
	return out
}

// FilterServices applies doctor narrowing, the category filter and the text filter, then sorts with
// names starting with the query first.
func FilterServices(all []Service, q ServiceQuery) []Service {
	candidates := NarrowServices(all, q.Doctor)

	category := Normalize(q.Category)
	filtered := make([]Service, 0, len(candidates))
	for _, s := range candidates {
		if category != "" && Normalize(s.Category) != category {
			continue
		}
		filtered = append(filtered, s)
	}

	query := Normalize(q.Search)
	if utf8.RuneCountInString(query) < MinServiceQueryRunes {
		query = ""
	}
	filtered = matchText(filtered, query, func(s Service) string {
		return s.Name + " " + s.Description
	})
	sortServices(filtered, query, q.Sort)
	return filtered
}

func sortServices(services []Service, query string, mode ServiceSort) {
	key := func(s Service) string { return Normalize(s.Name) }
	if mode == SortServicesByDescription {
		key = func(s Service) string { return Normalize(s.Description) }
	}
	boosted := func(s Service) bool {
		return query != "" && strings.HasPrefix(Normalize(s.Name), query)
	}
	slices.SortStableFunc(services, func(a, b Service) int {
		pa, pb := boosted(a), boosted(b)
		if pa != pb {
			if pa {
				return -1
			}
			return 1
		}
		return strings.Compare(key(a), key(b))
	})
}

// Categories lists the distinct non-empty service categories, sorted.
func Categories(services []Service) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range services {
		c := strings.TrimSpace(s.Category)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}
