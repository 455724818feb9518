package slots

import (
	"slices"
	"strings"
)

// Resolution is the slot view for one doctor: every date with an active slot, the selected date and
// that date's slots ordered by time.
type Resolution struct {
	Dates        []string `json:"dates"`
	SelectedDate string   `json:"selected_date"`
	Slots        []Entry  `json:"slots"`
}

// Resolve filters all to the doctor's active slots on or after notBefore (YYYY-MM-DD, empty for no
// cutoff). A selectedDate that is empty or no longer available defaults to the earliest date.
// Resolve is pure: the same inputs always give the same Resolution.
func Resolve(all []Entry, doctorID, selectedDate, notBefore string) Resolution {
	active := make([]Entry, 0, len(all))
	for _, e := range all {
		if e.DoctorID != doctorID || !e.Active {
			continue
		}
		if notBefore != "" && e.Date < notBefore {
			continue
		}
		active = append(active, e)
	}

	dates := make([]string, 0, len(active))
	for _, e := range active {
		dates = append(dates, e.Date)
	}
	slices.Sort(dates)
	dates = slices.Compact(dates)

	res := Resolution{Dates: dates, Slots: []Entry{}}
	if len(dates) == 0 {
		return res
	}

	res.SelectedDate = dates[0]
	if selectedDate != "" && slices.Contains(dates, selectedDate) {
		res.SelectedDate = selectedDate
	}

	for _, e := range active {
		if e.Date == res.SelectedDate {
			res.Slots = append(res.Slots, e)
		}
	}
	slices.SortStableFunc(res.Slots, func(a, b Entry) int {
		if c := strings.Compare(a.Time, b.Time); c != 0 {
			return c
		}
		return strings.Compare(a.SlotID, b.SlotID)
	})
	return res
}
