package wizard

import (
	"github.com/wolfman30/clinic-booking/internal/booking"
	"github.com/wolfman30/clinic-booking/internal/catalog"
	"github.com/wolfman30/clinic-booking/internal/contact"
	"github.com/wolfman30/clinic-booking/internal/slots"
)

// View is the render model of a session returned by the HTTP API.
type View struct {
	SessionID    string              `json:"session_id"`
	Step         Step                `json:"step"`
	Steps        []Step              `json:"steps"`
	Draft        Draft               `json:"draft"`
	Error        string              `json:"error,omitempty"`
	Busy         bool                `json:"busy"`
	HasData      bool                `json:"has_data"`
	Demo         bool                `json:"demo"`
	PhoneRegion  contact.PhoneRegion `json:"phone_region"`
	Doctors      *DoctorList         `json:"doctors,omitempty"`
	Services     *ServiceList        `json:"services,omitempty"`
	Slots        *SlotView           `json:"slots,omitempty"`
	Confirmation *booking.Result     `json:"confirmation,omitempty"`
}

// DoctorList is the doctor step listing.
type DoctorList struct {
	Items       []catalog.Doctor `json:"items"`
	Filter      DoctorFilter     `json:"filter"`
	Specialties []string         `json:"specialties"`
	Summary     catalog.Summary  `json:"summary"`
}

// ServiceList is the service step listing.
type ServiceList struct {
	Items      []catalog.Service `json:"items"`
	Filter     ServiceFilter     `json:"filter"`
	Categories []string          `json:"categories"`
	Summary    catalog.Summary   `json:"summary"`
}

// SlotView is the slot step listing. Alternatives is set when the slots are suggestions returned
// by a rejected submission.
type SlotView struct {
	Dates        []string      `json:"dates"`
	SelectedDate string        `json:"selected_date"`
	Slots        []slots.Entry `json:"slots"`
	Alternatives bool          `json:"alternatives"`
}

// View snapshots the session. Only the listing of the current step is included.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		SessionID:    c.id,
		Step:         c.step,
		Steps:        c.draft.Type.Steps(),
		Draft:        c.draft,
		Error:        c.errMsg,
		Busy:         c.busy,
		HasData:      c.draft.HasData(),
		Demo:         c.catalogDemo || c.slotsDemo,
		Confirmation: c.confirmation,
	}
	if region := c.region(); region != nil {
		v.PhoneRegion = region.Info()
	}

	switch c.step {
	case StepSelectDoctor:
		candidates := c.doctorCandidates()
		items := c.filteredDoctors()
		v.Doctors = &DoctorList{
			Items:       items,
			Filter:      c.doctorFilter,
			Specialties: catalog.Specialties(candidates),
			Summary:     catalog.Summarize(items, candidates),
		}
	case StepSelectService:
		candidates := c.serviceCandidates()
		items := c.filteredServices()
		v.Services = &ServiceList{
			Items:      items,
			Filter:     c.serviceFilter,
			Categories: catalog.Categories(candidates),
			Summary:    catalog.Summarize(items, candidates),
		}
	case StepSelectSlot:
		v.Slots = &SlotView{
			Dates:        c.resolution.Dates,
			SelectedDate: c.resolution.SelectedDate,
			Slots:        c.resolution.Slots,
			Alternatives: c.alternatives,
		}
	}
	return v
}
