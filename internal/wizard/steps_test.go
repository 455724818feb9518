package wizard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepOrderPerPath(t *testing.T) {
	assert.Equal(t,
		[]Step{StepChooseType, StepContactInfo, StepSelectService, StepSelectDoctor, StepSelectSlot},
		PathServiceFirst.Steps())
	assert.Equal(t,
		[]Step{StepChooseType, StepContactInfo, StepSelectDoctor, StepSelectService, StepSelectSlot},
		PathDoctorFirst.Steps())
	assert.Equal(t, []Step{StepChooseType}, Path("").Steps())
}

func TestNextAndPrevious(t *testing.T) {
	next, ok := PathDoctorFirst.next(StepContactInfo)
	assert.True(t, ok)
	assert.Equal(t, StepSelectDoctor, next)

	_, ok = PathDoctorFirst.next(StepSelectSlot)
	assert.False(t, ok)

	prev, ok := PathServiceFirst.previous(StepSelectDoctor)
	assert.True(t, ok)
	assert.Equal(t, StepSelectService, prev)

	_, ok = PathServiceFirst.previous(StepChooseType)
	assert.False(t, ok)

	assert.Equal(t, StepSelectDoctor, PathServiceFirst.secondPick())
	assert.Equal(t, StepSelectService, PathDoctorFirst.secondPick())
}

func TestParsePath(t *testing.T) {
	for raw, want := range map[string]Path{
		"serfirst":       PathServiceFirst,
		" Service-First": PathServiceFirst,
		"docfirst":       PathDoctorFirst,
		"doctor":         PathDoctorFirst,
	} {
		got, ok := ParsePath(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}
	_, ok := ParsePath("")
	assert.False(t, ok)
}

func TestStepMarshalsAsName(t *testing.T) {
	data, err := json.Marshal(map[string]Step{"step": StepSelectSlot})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"step":"select_slot"}`, string(data))
	assert.Equal(t, "unknown", Step(42).String())
}

func TestScheduleFor(t *testing.T) {
	tests := map[string]string{
		"00:00:00": ScheduleMorning,
		"12:59:59": ScheduleMorning,
		"13:00:00": ScheduleAfternoon,
		"17:59:00": ScheduleAfternoon,
		"18:00:00": ScheduleEvening,
		"23:30":    ScheduleEvening,
		"":         "",
		"xx:00:00": "",
		"25:00:00": "",
	}
	for clock, want := range tests {
		assert.Equal(t, want, ScheduleFor(clock), clock)
	}
}

func TestDraftHasData(t *testing.T) {
	assert.False(t, Draft{}.HasData())
	assert.False(t, Draft{PhoneRegion: "VN", Gender: "other"}.HasData())
	assert.True(t, Draft{Type: PathDoctorFirst}.HasData())
	assert.True(t, Draft{Message: "checkup"}.HasData())
}

func TestDraftJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(Draft{Type: PathServiceFirst, FullName: "Lan", PreferredSlotID: "s1"})
	assert.NoError(t, err)

	var fields map[string]any
	assert.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "serfirst", fields["type"])
	assert.Equal(t, "Lan", fields["fullName"])
	assert.Equal(t, "s1", fields["preferred_slot_id"])
	assert.Contains(t, fields, "phoneRegion")
}
