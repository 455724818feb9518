package slots

import (
	"fmt"
	"time"
)

var sampleTimes = []string{"08:00:00", "09:30:00", "13:00:00", "15:30:00", "18:30:00"}

const sampleDays = 5

// Sample generates a demo schedule for doctorID starting the day after from. The first day carries
// one fully booked and one inactive slot so the degraded mode still shows unavailable entries.
func Sample(doctorID string, from time.Time) []Entry {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location()).AddDate(0, 0, 1)
	out := make([]Entry, 0, sampleDays*len(sampleTimes))
	for day := 0; day < sampleDays; day++ {
		date := start.AddDate(0, 0, day).Format(time.DateOnly)
		for i, clock := range sampleTimes {
			e := Entry{
				DoctorID:        doctorID,
				SlotID:          fmt.Sprintf("sample-%s-%s-%d", doctorID, date, i),
				Date:            date,
				Time:            clock,
				Active:          true,
				CurrentBookings: (day + i) % 3,
				MaxBookings:     4,
			}
			if day == 0 && i == 1 {
				e.CurrentBookings = e.MaxBookings
			}
			if day == 0 && i == 2 {
				e.Active = false
			}
			out = append(out, e)
		}
	}
	return out
}
