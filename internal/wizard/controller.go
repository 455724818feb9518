package wizard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/wolfman30/clinic-booking/internal/booking"
	"github.com/wolfman30/clinic-booking/internal/catalog"
	"github.com/wolfman30/clinic-booking/internal/contact"
	"github.com/wolfman30/clinic-booking/internal/observability/metrics"
	"github.com/wolfman30/clinic-booking/internal/slots"
	"github.com/wolfman30/clinic-booking/pkg/logging"
)

const (
	resourceCatalog = "catalog"
	resourceSlots   = "slots"
)

// User-facing messages shown in View.Error.
const (
	msgChooseType         = "Please choose how you would like to book."
	msgFullNameRequired   = "Please enter your full name."
	msgMessageRequired    = "Please describe the reason for your visit."
	msgPhoneRequired      = "Please enter your phone number."
	msgPhoneInvalid       = "Please enter a valid phone number for %s."
	msgEmailInvalid       = "Please enter a valid email address."
	msgUnknownRegion      = "Unsupported phone region."
	msgSelectService      = "Please select a service."
	msgServiceUnavailable = "The selected service is not available."
	msgSelectDoctor       = "Please select a doctor."
	msgDoctorUnavailable  = "The selected doctor is not available for this service."
	msgSelectSlot         = "Please select a time slot."
	msgInvalidTime        = "The selected time is not valid."
	msgSlotUnavailable    = "This time slot is no longer available."
	msgSlotFull           = "This time slot is fully booked."
	msgDateUnavailable    = "There are no open slots on the selected date."
	msgSubmitFailed       = "We could not submit your booking. Please try again."
	msgRejected           = "We could not book this appointment."
)

// Dependencies are the collaborators shared by every session.
type Dependencies struct {
	Catalog   *catalog.Loader
	Slots     *slots.Loader
	Submitter booking.Submitter
	Store     DraftStore
	Regions   *contact.Registry

	// DefaultRegion is the phone region of a fresh draft.
	DefaultRegion string
	// AcceptStaleResponses applies every fetch result in completion order instead of only the
	// latest one issued per resource.
	AcceptStaleResponses bool

	Metrics *metrics.WizardMetrics
	Logger  *logging.Logger
	Now     func() time.Time
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Submitter == nil {
		panic("wizard: submitter required")
	}
	if d.Logger == nil {
		d.Logger = logging.Default()
	}
	if d.Catalog == nil {
		d.Catalog = catalog.NewLoader(nil, d.Logger)
	}
	if d.Slots == nil {
		d.Slots = slots.NewLoader(nil, d.Logger)
	}
	if d.Store == nil {
		d.Store = NewMemoryStore()
	}
	if d.Regions == nil {
		d.Regions = contact.DefaultRegistry()
	}
	if _, ok := d.Regions.Lookup(d.DefaultRegion); !ok {
		if first, ok := d.Regions.First(); ok {
			d.DefaultRegion = first.Info().Code
		}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// DoctorFilter holds the doctor-step filter inputs.
type DoctorFilter struct {
	Gender    string `json:"gender,omitempty"`
	Specialty string `json:"specialty,omitempty"`
	Search    string `json:"search,omitempty"`
	Sort      string `json:"sort,omitempty"`
}

// ServiceFilter holds the service-step filter inputs.
type ServiceFilter struct {
	Category string `json:"category,omitempty"`
	Search   string `json:"search,omitempty"`
	Sort     string `json:"sort,omitempty"`
}

// ContactInput is the contact step form. It replaces every contact field of the draft.
type ContactInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Gender   string `json:"gender"`
	Message  string `json:"message"`
}

// Controller is the state machine of one wizard session. All methods are safe for concurrent use;
// catalog, slot and submission calls run without holding the session lock.
type Controller struct {
	id   string
	deps Dependencies

	mu           sync.Mutex
	step         Step
	draft        Draft
	errMsg       string
	busy         bool
	confirmation *booking.Result

	doctors       []catalog.Doctor
	services      []catalog.Service
	catalogDemo   bool
	doctorFilter  DoctorFilter
	serviceFilter ServiceFilter

	slotEntries  []slots.Entry
	resolution   slots.Resolution
	slotsDemo    bool
	alternatives bool

	requests map[string]uint64
}

// NewController creates a session at the first step. Call Restore and RefreshCatalog before use.
func NewController(id string, deps Dependencies) *Controller {
	deps = deps.withDefaults()
	return &Controller{
		id:         id,
		deps:       deps,
		draft:      Draft{PhoneRegion: deps.DefaultRegion},
		resolution: emptyResolution(),
		requests:   make(map[string]uint64),
	}
}

// ID returns the session id.
func (c *Controller) ID() string { return c.id }

// Restore loads a stored draft. A draft with a chosen path resumes at the contact step.
func (c *Controller) Restore(ctx context.Context) (bool, error) {
	stored, err := c.deps.Store.Load(ctx, c.id)
	if err != nil {
		return false, err
	}
	if stored == nil {
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = *stored
	if _, ok := c.deps.Regions.Lookup(c.draft.PhoneRegion); !ok {
		c.draft.PhoneRegion = c.deps.DefaultRegion
	}
	if _, ok := ParsePath(string(c.draft.Type)); ok {
		c.step = StepContactInfo
	} else {
		c.draft.Type = ""
		c.step = StepChooseType
	}
	return true, nil
}

// RefreshCatalog fetches doctors and services. Sample data replaces a failed fetch.
func (c *Controller) RefreshCatalog(ctx context.Context) {
	c.mu.Lock()
	reqID := c.beginRequest(resourceCatalog)
	c.mu.Unlock()

	snap := c.deps.Catalog.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isLatest(resourceCatalog, reqID) {
		c.discardStale(resourceCatalog)
		return
	}
	c.doctors = snap.Doctors
	c.services = snap.Services
	c.catalogDemo = snap.Demo
	if snap.Demo {
		c.deps.Metrics.ObserveFallback(resourceCatalog)
	}
}

func (c *Controller) loadSlots(ctx context.Context, doctorID string) {
	c.mu.Lock()
	reqID := c.beginRequest(resourceSlots)
	c.mu.Unlock()

	entries, demo := c.deps.Slots.Load(ctx, doctorID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isLatest(resourceSlots, reqID) {
		c.discardStale(resourceSlots)
		return
	}
	c.slotEntries = entries
	c.slotsDemo = demo
	c.alternatives = false
	if demo {
		c.deps.Metrics.ObserveFallback(resourceSlots)
	}
	c.resolveSlots()
	if c.draft.PreferredSlotID != "" {
		if _, err := slots.CheckSelectable(c.resolution.Slots, c.draft.PreferredSlotID); err != nil {
			c.draft.clearSlotChoice()
		}
	}
	c.persist(ctx)
}

// ChooseType picks the booking path. It only acts on the first step; unknown paths are ignored.
func (c *Controller) ChooseType(ctx context.Context, raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != StepChooseType {
		return
	}
	path, ok := ParsePath(raw)
	if !ok {
		return
	}
	c.draft.Type = path
	c.errMsg = ""
	c.transition(StepContactInfo)
	c.persist(ctx)
}

// Advance validates the current step and moves to the next one. Entering the slot step loads the
// selected doctor's slots; advancing from the slot step submits.
func (c *Controller) Advance(ctx context.Context) {
	c.mu.Lock()
	if c.step == StepSelectSlot {
		c.mu.Unlock()
		c.Submit(ctx)
		return
	}
	if msg := c.validateStep(c.step); msg != "" {
		c.errMsg = msg
		c.mu.Unlock()
		return
	}
	next, ok := c.draft.Type.next(c.step)
	if !ok {
		c.mu.Unlock()
		return
	}
	c.errMsg = ""
	c.transition(next)
	c.persist(ctx)
	doctorID := c.draft.DoctorID
	c.mu.Unlock()

	if next == StepSelectSlot {
		c.loadSlots(ctx, doctorID)
	}
}

// Retreat moves one step back, discarding what the step being left collected.
func (c *Controller) Retreat(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.step {
	case StepChooseType, StepSubmitted:
		return
	case StepContactInfo:
		c.draft.Type = ""
		c.errMsg = ""
		c.transition(StepChooseType)
		c.persist(ctx)
		return
	case StepSelectSlot:
		c.clearSlots()
	case c.draft.Type.secondPick():
		if c.step == StepSelectDoctor {
			c.draft.DoctorID = ""
		} else {
			c.draft.ServiceID = ""
		}
	}

	prev, ok := c.draft.Type.previous(c.step)
	if !ok {
		return
	}
	c.errMsg = ""
	c.transition(prev)
	c.persist(ctx)
}

// Submit sends the completed draft to the booking backend. A second call while one is in flight
// is ignored. A rejection keeps the draft and, when alternatives are offered, shows exactly those.
func (c *Controller) Submit(ctx context.Context) {
	c.mu.Lock()
	if c.busy || c.step != StepSelectSlot {
		c.mu.Unlock()
		return
	}
	if msg := c.validateDraft(); msg != "" {
		c.errMsg = msg
		c.mu.Unlock()
		return
	}
	req := c.buildRequest()
	c.busy = true
	c.errMsg = ""
	c.mu.Unlock()

	started := c.deps.Now()
	result, err := c.deps.Submitter.Submit(ctx, req)
	elapsed := c.deps.Now().Sub(started).Seconds()
	if err == nil && result == nil {
		err = errors.New("wizard: backend returned no result")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false

	switch {
	case err != nil:
		c.deps.Logger.Error("wizard: booking submission failed",
			"error", err,
			"session_id", c.id,
			"doctor_id", req.DoctorID,
			"slot_id", req.PreferredSlotID,
		)
		c.deps.Metrics.ObserveSubmission("error", elapsed)
		c.errMsg = msgSubmitFailed

	case !result.Success:
		c.deps.Metrics.ObserveSubmission("rejected", elapsed)
		c.errMsg = result.Message
		if c.errMsg == "" {
			c.errMsg = msgRejected
		}
		if len(result.AlternativeSlots) > 0 {
			c.showAlternatives(result.AlternativeSlots)
		}
		c.deps.Logger.Info("wizard: booking rejected",
			"session_id", c.id,
			"slot_id", req.PreferredSlotID,
			"alternatives", len(result.AlternativeSlots),
		)
		c.persist(ctx)

	default:
		c.deps.Metrics.ObserveSubmission("accepted", elapsed)
		c.deps.Logger.Info("wizard: booking accepted",
			"session_id", c.id,
			"appointment_id", result.AppointmentID,
		)
		c.confirmation = result
		c.transition(StepSubmitted)
		c.draft = Draft{PhoneRegion: c.deps.DefaultRegion}
		c.clearSlots()
		c.clearStore(ctx)
	}
}

// Reset discards the draft and the stored copy and returns to the first step.
func (c *Controller) Reset(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = StepChooseType
	c.draft = Draft{PhoneRegion: c.deps.DefaultRegion}
	c.errMsg = ""
	c.confirmation = nil
	c.doctorFilter = DoctorFilter{}
	c.serviceFilter = ServiceFilter{}
	c.clearSlots()
	c.clearStore(ctx)
}

// SetContact replaces the contact fields. The phone is re-formatted for the current region.
func (c *Controller) SetContact(ctx context.Context, in ContactInput) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step == StepSubmitted {
		return
	}
	region := c.region()
	c.draft.FullName = in.FullName
	c.draft.Email = in.Email
	c.draft.Message = in.Message
	c.draft.Phone = region.Format(region.Strip(in.Phone))
	c.draft.Gender = ""
	if in.Gender != "" {
		c.draft.Gender = string(catalog.ParseGender(in.Gender))
	}
	c.persist(ctx)
}

// SetPhoneRegion switches the phone region and clears the phone number.
func (c *Controller) SetPhoneRegion(ctx context.Context, code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step == StepSubmitted {
		return
	}
	region, ok := c.deps.Regions.Lookup(code)
	if !ok {
		c.errMsg = msgUnknownRegion
		return
	}
	c.draft.PhoneRegion = region.Info().Code
	c.draft.Phone = ""
	c.persist(ctx)
}

// SetPhone formats raw input for display in the current region.
func (c *Controller) SetPhone(ctx context.Context, raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step == StepSubmitted {
		return
	}
	region := c.region()
	c.draft.Phone = region.Format(region.Strip(raw))
	c.persist(ctx)
}

// SelectService records the service. On the service-first path a doctor who does not offer it
// is deselected.
func (c *Controller) SelectService(ctx context.Context, serviceID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step == StepSubmitted {
		return
	}
	if _, ok := catalog.FindService(c.services, serviceID); !ok {
		c.errMsg = msgServiceUnavailable
		return
	}
	c.draft.ServiceID = serviceID
	c.errMsg = ""
	if c.draft.Type == PathServiceFirst && c.draft.DoctorID != "" {
		if doc, ok := catalog.FindDoctor(c.doctors, c.draft.DoctorID); !ok || !doc.Supports(serviceID) {
			c.draft.DoctorID = ""
			c.clearSlots()
		}
	}
	c.persist(ctx)
}

// SelectDoctor records the doctor. Changing doctors drops any slot selection; on the
// doctor-first path a service the doctor does not offer is deselected.
func (c *Controller) SelectDoctor(ctx context.Context, doctorID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step == StepSubmitted {
		return
	}
	doc, ok := catalog.FindDoctor(c.doctors, doctorID)
	if !ok {
		c.errMsg = msgDoctorUnavailable
		return
	}
	if c.draft.DoctorID != doctorID {
		c.clearSlots()
	}
	c.draft.DoctorID = doctorID
	c.errMsg = ""
	if c.draft.Type == PathDoctorFirst && c.draft.ServiceID != "" && !doc.Supports(c.draft.ServiceID) {
		c.draft.ServiceID = ""
	}
	c.persist(ctx)
}

// SelectDate shows the slots of another available date.
func (c *Controller) SelectDate(ctx context.Context, date string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != StepSelectSlot {
		return
	}
	if !slices.Contains(c.resolution.Dates, date) {
		c.errMsg = msgDateUnavailable
		return
	}
	c.draft.PreferredDate = date
	c.draft.clearSlotChoice()
	c.errMsg = ""
	c.resolveSlots()
	c.persist(ctx)
}

// SelectSlot picks one of the shown slots. Inactive or full slots are refused without changing
// the draft.
func (c *Controller) SelectSlot(ctx context.Context, slotID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != StepSelectSlot {
		return
	}
	entry, err := slots.CheckSelectable(c.resolution.Slots, slotID)
	if err != nil {
		if errors.Is(err, slots.ErrSlotUnavailable) && entry.Active {
			c.errMsg = msgSlotFull
		} else {
			c.errMsg = msgSlotUnavailable
		}
		return
	}
	c.draft.PreferredSlotID = entry.SlotID
	c.draft.PreferredDate = entry.Date
	c.draft.PreferredTime = entry.Time
	c.draft.Schedule = ScheduleFor(entry.Time)
	c.errMsg = ""
	c.persist(ctx)
}

// SetDoctorFilter replaces the doctor list filters.
func (c *Controller) SetDoctorFilter(ctx context.Context, f DoctorFilter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doctorFilter = f
	c.persist(ctx)
}

// SetServiceFilter replaces the service list filters.
func (c *Controller) SetServiceFilter(ctx context.Context, f ServiceFilter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.serviceFilter = f
	c.persist(ctx)
}

// Step returns the current step.
func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Draft returns a copy of the draft.
func (c *Controller) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Error returns the current user-facing error, if any.
func (c *Controller) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Doctors returns the filtered doctor list for the current path.
func (c *Controller) Doctors() []catalog.Doctor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filteredDoctors()
}

// Services returns the filtered service list for the current path.
func (c *Controller) Services() []catalog.Service {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filteredServices()
}

// AvailableSlots returns the slots currently offered.
func (c *Controller) AvailableSlots() []slots.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.resolution.Slots)
}

func (c *Controller) isBusy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// validateStep returns the first failing rule of a step as a user message.
func (c *Controller) validateStep(step Step) string {
	switch step {
	case StepChooseType:
		if c.draft.Type == "" {
			return msgChooseType
		}
	case StepContactInfo:
		return c.validateContact()
	case StepSelectService:
		if c.draft.ServiceID == "" {
			return msgSelectService
		}
		if !slices.ContainsFunc(c.filteredServices(), func(s catalog.Service) bool { return s.ID == c.draft.ServiceID }) {
			return msgServiceUnavailable
		}
	case StepSelectDoctor:
		if c.draft.DoctorID == "" {
			return msgSelectDoctor
		}
		if !slices.ContainsFunc(c.filteredDoctors(), func(d catalog.Doctor) bool { return d.ID == c.draft.DoctorID }) {
			return msgDoctorUnavailable
		}
	case StepSelectSlot:
		if c.draft.PreferredSlotID == "" {
			return msgSelectSlot
		}
		if contact.ValidateTime(c.draft.PreferredTime) != nil {
			return msgInvalidTime
		}
	}
	return ""
}

func (c *Controller) validateContact() string {
	region := c.region()
	err := contact.Validate(contact.Details{
		FullName: c.draft.FullName,
		Email:    c.draft.Email,
		Phone:    c.draft.Phone,
		Message:  c.draft.Message,
	}, region)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, contact.ErrFullNameRequired):
		return msgFullNameRequired
	case errors.Is(err, contact.ErrMessageRequired):
		return msgMessageRequired
	case errors.Is(err, contact.ErrPhoneRequired):
		return msgPhoneRequired
	case errors.Is(err, contact.ErrInvalidPhone):
		return fmt.Sprintf(msgPhoneInvalid, region.Info().Name)
	case errors.Is(err, contact.ErrInvalidEmail):
		return msgEmailInvalid
	default:
		return msgUnknownRegion
	}
}

// validateDraft checks everything a submission needs, in step order.
func (c *Controller) validateDraft() string {
	if msg := c.validateContact(); msg != "" {
		return msg
	}
	if c.draft.ServiceID == "" {
		return msgSelectService
	}
	if _, ok := catalog.FindService(c.services, c.draft.ServiceID); !ok {
		return msgServiceUnavailable
	}
	if c.draft.DoctorID == "" {
		return msgSelectDoctor
	}
	doc, ok := catalog.FindDoctor(c.doctors, c.draft.DoctorID)
	if !ok || !doc.Supports(c.draft.ServiceID) {
		return msgDoctorUnavailable
	}
	return c.validateStep(StepSelectSlot)
}

func (c *Controller) buildRequest() booking.Request {
	region := c.region()
	gender := c.draft.Gender
	if gender == "" {
		gender = string(catalog.GenderOther)
	}
	req := booking.Request{
		FullName:        c.draft.FullName,
		Email:           c.draft.Email,
		Phone:           region.ToWire(c.draft.Phone),
		Gender:          gender,
		Schedule:        ScheduleFor(c.draft.PreferredTime),
		Message:         c.draft.Message,
		DoctorID:        c.draft.DoctorID,
		ServiceID:       c.draft.ServiceID,
		PreferredDate:   c.draft.PreferredDate,
		PreferredTime:   c.draft.PreferredTime,
		PreferredSlotID: c.draft.PreferredSlotID,
		VisitType:       booking.VisitTypeConsultation,
	}
	if doc, ok := catalog.FindDoctor(c.doctors, c.draft.DoctorID); ok {
		req.DoctorName = doc.FullName
	}
	if svc, ok := catalog.FindService(c.services, c.draft.ServiceID); ok {
		req.ServiceName = svc.Name
	}
	return req
}

// doctorCandidates is the doctor list before user filters: narrowed by the chosen service on the
// service-first path.
func (c *Controller) doctorCandidates() []catalog.Doctor {
	return catalog.NarrowDoctors(c.doctors, c.doctorQuery().ServiceID)
}

func (c *Controller) doctorQuery() catalog.DoctorQuery {
	q := catalog.DoctorQuery{
		Specialty: c.doctorFilter.Specialty,
		Search:    c.doctorFilter.Search,
		Sort:      catalog.ParseDoctorSort(c.doctorFilter.Sort),
	}
	if c.draft.Type == PathServiceFirst {
		q.ServiceID = c.draft.ServiceID
	}
	if c.doctorFilter.Gender != "" {
		q.Gender = catalog.ParseGender(c.doctorFilter.Gender)
	}
	return q
}

func (c *Controller) filteredDoctors() []catalog.Doctor {
	return catalog.FilterDoctors(c.doctors, c.doctorQuery())
}

func (c *Controller) serviceQuery() catalog.ServiceQuery {
	q := catalog.ServiceQuery{
		Category: c.serviceFilter.Category,
		Search:   c.serviceFilter.Search,
		Sort:     catalog.ParseServiceSort(c.serviceFilter.Sort),
	}
	if c.draft.Type == PathDoctorFirst {
		if doc, ok := catalog.FindDoctor(c.doctors, c.draft.DoctorID); ok {
			q.Doctor = &doc
		}
	}
	return q
}

func (c *Controller) serviceCandidates() []catalog.Service {
	return catalog.NarrowServices(c.services, c.serviceQuery().Doctor)
}

func (c *Controller) filteredServices() []catalog.Service {
	return catalog.FilterServices(c.services, c.serviceQuery())
}

func (c *Controller) region() contact.Region {
	if r, ok := c.deps.Regions.Lookup(c.draft.PhoneRegion); ok {
		return r
	}
	if r, ok := c.deps.Regions.Lookup(c.deps.DefaultRegion); ok {
		return r
	}
	r, _ := c.deps.Regions.First()
	return r
}

func (c *Controller) resolveSlots() {
	c.resolution = slots.Resolve(c.slotEntries, c.draft.DoctorID, c.draft.PreferredDate, c.deps.Now().Format(time.DateOnly))
	c.draft.PreferredDate = c.resolution.SelectedDate
}

// showAlternatives replaces the loaded slots with the backend's suggestions, so the rejected slot
// is gone from later date changes. All suggestions are listed until a date is picked.
func (c *Controller) showAlternatives(alts []slots.Entry) {
	entries := make([]slots.Entry, 0, len(alts))
	dates := make([]string, 0, len(alts))
	for _, e := range alts {
		if e.DoctorID == "" {
			e.DoctorID = c.draft.DoctorID
		}
		entries = append(entries, e)
		dates = append(dates, e.Date)
	}
	slices.Sort(dates)

	c.slotEntries = entries
	c.resolution = slots.Resolution{Dates: slices.Compact(dates), Slots: slices.Clone(entries)}
	c.alternatives = true
	c.draft.clearSlot()
}

// clearSlots drops the slot selection and the loaded slots, and invalidates any slot fetch in flight.
func (c *Controller) clearSlots() {
	c.draft.clearSlot()
	c.slotEntries = nil
	c.slotsDemo = false
	c.alternatives = false
	c.resolution = emptyResolution()
	c.beginRequest(resourceSlots)
}

func (c *Controller) transition(next Step) {
	if next == c.step {
		return
	}
	c.deps.Metrics.ObserveTransition(string(c.draft.Type), c.step.String(), next.String())
	c.step = next
}

func (c *Controller) beginRequest(resource string) uint64 {
	c.requests[resource]++
	return c.requests[resource]
}

func (c *Controller) isLatest(resource string, id uint64) bool {
	return c.deps.AcceptStaleResponses || c.requests[resource] == id
}

func (c *Controller) discardStale(resource string) {
	c.deps.Metrics.ObserveStaleDiscard(resource)
	c.deps.Logger.Debug("wizard: discarded stale response", "session_id", c.id, "resource", resource)
}

// persist writes the draft while the session lock is held so stores see writes in order.
func (c *Controller) persist(ctx context.Context) {
	if err := c.deps.Store.Save(ctx, c.id, c.draft); err != nil {
		c.deps.Logger.Warn("wizard: failed to persist draft", "session_id", c.id, "error", err)
	}
}

func (c *Controller) clearStore(ctx context.Context) {
	if err := c.deps.Store.Clear(ctx, c.id); err != nil {
		c.deps.Logger.Warn("wizard: failed to clear draft", "session_id", c.id, "error", err)
	}
}

func emptyResolution() slots.Resolution {
	return slots.Resolution{Dates: []string{}, Slots: []slots.Entry{}}
}
