package wizard

import "strconv"

const (
	ScheduleMorning   = "morning"
	ScheduleAfternoon = "afternoon"
	ScheduleEvening   = "evening"
)

// ScheduleFor buckets an HH:MM[:SS] time: before 13:00 is morning, before 18:00 afternoon, otherwise
// evening. Unparseable values return "".
func ScheduleFor(clock string) string {
	if len(clock) < 2 {
		return ""
	}
	hour, err := strconv.Atoi(clock[:2])
	if err != nil || hour < 0 || hour > 23 {
		return ""
	}
	switch {
	case hour < 13:
		return ScheduleMorning
	case hour < 18:
		return ScheduleAfternoon
	default:
		return ScheduleEvening
	}
}
