package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serviceIDs(services []Service) []string {
	ids := make([]string, 0, len(services))
	for _, s := range services {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestNarrowServicesByDoctor(t *testing.T) {
	all := SampleServices()
	doctor, ok := FindDoctor(SampleDoctors(), "doc-dung")
	assert.True(t, ok)

	got := NarrowServices(all, &doctor)
	assert.Equal(t, []string{"svc-general", "svc-peds"}, serviceIDs(got))
	assert.Len(t, NarrowServices(all, nil), len(all))
}

func TestFilterServicesMinimumQueryLength(t *testing.T) {
	all := SampleServices()
	assert.Len(t, FilterServices(all, ServiceQuery{Search: "k"}), len(all))
	assert.Len(t, FilterServices(all, ServiceQuery{Search: " ế "}), len(all))
	assert.Equal(t, []string{"svc-general"}, serviceIDs(FilterServices(all, ServiceQuery{Search: "khám"})))
}

func TestFilterServicesMatchesDescription(t *testing.T) {
	got := FilterServices(SampleServices(), ServiceQuery{Search: "consultation"})
	assert.Equal(t, []string{"svc-derm", "svc-cardio"}, serviceIDs(got))
}

func TestFilterServicesPrefixBoost(t *testing.T) {
	services := []Service{
		{ID: "acne", Name: "Acne skin treatment"},
		{ID: "body", Name: "Body scrub", Description: "skin polish"},
		{ID: "skin", Name: "Skin care"},
	}
	got := FilterServices(services, ServiceQuery{Search: "SKIN"})
	assert.Equal(t, []string{"skin", "acne", "body"}, serviceIDs(got))
}

func TestFilterServicesSortByDescription(t *testing.T) {
	got := FilterServices(SampleServices(), ServiceQuery{Sort: SortServicesByDescription})
	assert.Equal(t, []string{"svc-cardio", "svc-dental", "svc-derm", "svc-general", "svc-peds"}, serviceIDs(got))
}

func TestFilterServicesCategory(t *testing.T) {
	got := FilterServices(SampleServices(), ServiceQuery{Category: "Specialist"})
	assert.Equal(t, []string{"svc-derm", "svc-cardio"}, serviceIDs(got))
	assert.Equal(t, []string{"dental", "general", "specialist"}, Categories(SampleServices()))
}

func TestServiceSearchResultsAreSubsetContainingQuery(t *testing.T) {
	all := SampleServices()
	for _, query := range []string{"khoa", "checkup dental", "tim", "care children", "nha"} {
		got := FilterServices(all, ServiceQuery{Search: query})
		q := Normalize(query)
		for _, s := range got {
			_, ok := FindService(all, s.ID)
			assert.True(t, ok)
			text := Normalize(s.Name + " " + s.Description)
			if strings.Contains(text, q) {
				continue
			}
			for _, kw := range Keywords(query) {
				assert.Contains(t, text, kw, "query %q", query)
			}
		}
	}
}
