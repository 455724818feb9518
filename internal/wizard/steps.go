// Package wizard runs the multi-step appointment booking flow. One Controller owns one session's
// draft and moves it through a path-specific step order until the booking is accepted.
package wizard

import "strings"

// Path is the booking path chosen on the first step.
type Path string

const (
	PathServiceFirst Path = "serfirst"
	PathDoctorFirst  Path = "docfirst"
)

// ParsePath accepts the stored codes and a few readable aliases.
func ParsePath(s string) (Path, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(PathServiceFirst), "service-first", "service":
		return PathServiceFirst, true
	case string(PathDoctorFirst), "doctor-first", "doctor":
		return PathDoctorFirst, true
	default:
		return "", false
	}
}

// Step is one wizard stage.
type Step int

const (
	StepChooseType Step = iota
	StepContactInfo
	StepSelectService
	StepSelectDoctor
	StepSelectSlot
	StepSubmitted
)

var stepNames = map[Step]string{
	StepChooseType:    "choose_type",
	StepContactInfo:   "contact_info",
	StepSelectService: "select_service",
	StepSelectDoctor:  "select_doctor",
	StepSelectSlot:    "select_slot",
	StepSubmitted:     "submitted",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// stepOrder lists the stages of each path. Submitted follows the last entry.
var stepOrder = map[Path][]Step{
	PathServiceFirst: {StepChooseType, StepContactInfo, StepSelectService, StepSelectDoctor, StepSelectSlot},
	PathDoctorFirst:  {StepChooseType, StepContactInfo, StepSelectDoctor, StepSelectService, StepSelectSlot},
}

// Steps returns the stage order for p, or only ChooseType for an unset path.
func (p Path) Steps() []Step {
	if order, ok := stepOrder[p]; ok {
		return order
	}
	return []Step{StepChooseType}
}

func (p Path) index(s Step) int {
	for i, step := range p.Steps() {
		if step == s {
			return i
		}
	}
	return -1
}

// next returns the stage after current. ok is false at the last stage.
func (p Path) next(current Step) (Step, bool) {
	order := p.Steps()
	i := p.index(current)
	if i < 0 || i+1 >= len(order) {
		return current, false
	}
	return order[i+1], true
}

// previous returns the stage before current. ok is false at the first stage.
func (p Path) previous(current Step) (Step, bool) {
	i := p.index(current)
	if i <= 0 {
		return current, false
	}
	return p.Steps()[i-1], true
}

// secondPick is the later of the two catalog stages.
func (p Path) secondPick() Step {
	if p == PathDoctorFirst {
		return StepSelectService
	}
	return StepSelectDoctor
}
