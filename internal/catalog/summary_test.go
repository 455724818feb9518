package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	candidates := NarrowDoctors(SampleDoctors(), "svc-general")
	shown := FilterDoctors(SampleDoctors(), DoctorQuery{ServiceID: "svc-general", Gender: GenderFemale})

	s := Summarize(shown, candidates)
	assert.Equal(t, Summary{Shown: 1, Total: 2}, s)
	assert.True(t, s.Filtered())
	assert.Equal(t, "showing 1 of 2", s.String())
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	p := Paginate(items, 2, 3)
	assert.Equal(t, []int{4, 5, 6}, p.Items)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 7, p.Total)

	last := Paginate(items, 99, 3)
	assert.Equal(t, 3, last.Page)
	assert.Equal(t, []int{7}, last.Items)

	first := Paginate(items, -1, 3)
	assert.Equal(t, 1, first.Page)

	all := Paginate(items, 1, 0)
	assert.Equal(t, items, all.Items)
	assert.Equal(t, 1, all.TotalPages)

	empty := Paginate([]int{}, 1, 5)
	assert.Empty(t, empty.Items)
	assert.Equal(t, 1, empty.TotalPages)
}
