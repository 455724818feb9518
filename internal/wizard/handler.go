package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/clinic-booking/internal/catalog"
	"github.com/wolfman30/clinic-booking/pkg/logging"
)

const maxBodyBytes = 64 << 10

// Handler exposes the wizard sessions and the read-only catalog over HTTP.
type Handler struct {
	manager *Manager
	logger  *logging.Logger
}

// NewHandler creates the wizard HTTP handler.
func NewHandler(manager *Manager, logger *logging.Logger) *Handler {
	if manager == nil {
		panic("wizard: manager required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{manager: manager, logger: logger}
}

// Register mounts the wizard and catalog routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/phone-regions", h.PhoneRegions)
	r.Route("/catalog", func(r chi.Router) {
		r.Get("/doctors", h.ListDoctors)
		r.Get("/services", h.ListServices)
		r.Get("/specialties", h.ListSpecialties)
	})
	r.Route("/wizard/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", h.GetSession)
			r.Delete("/", h.DeleteSession)
			r.Post("/type", bodyHandler(h, func(ctx context.Context, c *Controller, in struct {
				Type string `json:"type"`
			}) {
				c.ChooseType(ctx, in.Type)
			}))
			r.Put("/contact", bodyHandler(h, func(ctx context.Context, c *Controller, in ContactInput) {
				c.SetContact(ctx, in)
			}))
			r.Put("/phone-region", bodyHandler(h, func(ctx context.Context, c *Controller, in struct {
				Code string `json:"code"`
			}) {
				c.SetPhoneRegion(ctx, in.Code)
			}))
			r.Put("/doctor-filter", bodyHandler(h, func(ctx context.Context, c *Controller, in DoctorFilter) {
				c.SetDoctorFilter(ctx, in)
			}))
			r.Put("/service-filter", bodyHandler(h, func(ctx context.Context, c *Controller, in ServiceFilter) {
				c.SetServiceFilter(ctx, in)
			}))
			r.Put("/service", bodyHandler(h, func(ctx context.Context, c *Controller, in struct {
				ServiceID string `json:"service_id"`
			}) {
				c.SelectService(ctx, in.ServiceID)
			}))
			r.Put("/doctor", bodyHandler(h, func(ctx context.Context, c *Controller, in struct {
				DoctorID string `json:"doctor_id"`
			}) {
				c.SelectDoctor(ctx, in.DoctorID)
			}))
			r.Put("/date", bodyHandler(h, func(ctx context.Context, c *Controller, in struct {
				Date string `json:"date"`
			}) {
				c.SelectDate(ctx, in.Date)
			}))
			r.Put("/slot", bodyHandler(h, func(ctx context.Context, c *Controller, in struct {
				SlotID string `json:"slot_id"`
			}) {
				c.SelectSlot(ctx, in.SlotID)
			}))
			r.Post("/advance", h.action((*Controller).Advance))
			r.Post("/retreat", h.action((*Controller).Retreat))
			r.Post("/submit", h.action((*Controller).Submit))
		})
	})
}

// PhoneRegions lists the supported phone regions, default first.
// GET /phone-regions
func (h *Handler) PhoneRegions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"default": h.manager.deps.DefaultRegion,
		"regions": h.manager.deps.Regions.List(),
	})
}

// ListDoctors filters the doctor catalog.
// GET /catalog/doctors?service_id=&gender=&specialty=&search=&sort=&page=&page_size=
func (h *Handler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	doctors, demo := h.manager.deps.Catalog.Doctors(r.Context())
	query := catalog.DoctorQuery{
		ServiceID: q.Get("service_id"),
		Specialty: q.Get("specialty"),
		Search:    q.Get("search"),
		Sort:      catalog.ParseDoctorSort(q.Get("sort")),
	}
	if g := q.Get("gender"); g != "" {
		query.Gender = catalog.ParseGender(g)
	}
	items := catalog.FilterDoctors(doctors, query)
	writeJSON(w, http.StatusOK, map[string]any{
		"page":    catalog.Paginate(items, queryInt(q.Get("page")), queryInt(q.Get("page_size"))),
		"summary": catalog.Summarize(items, catalog.NarrowDoctors(doctors, query.ServiceID)),
		"demo":    demo,
	})
}

// ListServices filters the service catalog.
// GET /catalog/services?doctor_id=&category=&search=&sort=&page=&page_size=
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	services, demo := h.manager.deps.Catalog.Services(ctx)
	query := catalog.ServiceQuery{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     catalog.ParseServiceSort(q.Get("sort")),
	}
	if id := q.Get("doctor_id"); id != "" {
		doctors, _ := h.manager.deps.Catalog.Doctors(ctx)
		doc, ok := catalog.FindDoctor(doctors, id)
		if !ok {
			jsonError(w, "unknown doctor", http.StatusNotFound)
			return
		}
		query.Doctor = &doc
	}
	items := catalog.FilterServices(services, query)
	writeJSON(w, http.StatusOK, map[string]any{
		"page":    catalog.Paginate(items, queryInt(q.Get("page")), queryInt(q.Get("page_size"))),
		"summary": catalog.Summarize(items, catalog.NarrowServices(services, query.Doctor)),
		"demo":    demo,
	})
}

// ListSpecialties returns the distinct doctor specialties.
// GET /catalog/specialties
func (h *Handler) ListSpecialties(w http.ResponseWriter, r *http.Request) {
	doctors, demo := h.manager.deps.Catalog.Doctors(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"specialties": catalog.Specialties(doctors),
		"demo":        demo,
	})
}

// CreateSession starts a wizard session.
// POST /wizard/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctrl := h.manager.Create(r.Context())
	writeJSON(w, http.StatusCreated, ctrl.View())
}

// GetSession returns the session view, resuming a stored draft when needed.
// GET /wizard/sessions/{sessionID}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(ctrl *Controller) {
		writeJSON(w, http.StatusOK, ctrl.View())
	})
}

// DeleteSession is the confirmed leave: the draft is discarded.
// DELETE /wizard/sessions/{sessionID}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "sessionID"))
	if err := h.manager.Delete(r.Context(), id); err != nil {
		h.sessionError(w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) action(fn func(*Controller, context.Context)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.withSession(w, r, func(ctrl *Controller) {
			fn(ctrl, r.Context())
			writeJSON(w, http.StatusOK, ctrl.View())
		})
	}
}

// bodyHandler decodes the JSON body into T before applying fn. Validation failures are reported in
// the returned view, not as HTTP errors.
func bodyHandler[T any](h *Handler, fn func(context.Context, *Controller, T)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.withSession(w, r, func(ctrl *Controller) {
			var in T
			if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
				jsonError(w, "invalid request body", http.StatusBadRequest)
				return
			}
			fn(r.Context(), ctrl, in)
			writeJSON(w, http.StatusOK, ctrl.View())
		})
	}
}

// withSession runs fn while the manager holds the session live.
func (h *Handler) withSession(w http.ResponseWriter, r *http.Request, fn func(*Controller)) {
	id := strings.TrimSpace(chi.URLParam(r, "sessionID"))
	if id == "" {
		jsonError(w, "missing sessionID", http.StatusBadRequest)
		return
	}
	if err := h.manager.Use(r.Context(), id, fn); err != nil {
		h.sessionError(w, id, err)
	}
}

func (h *Handler) sessionError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, ErrUnknownSession) {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	h.logger.Error("wizard: failed to load session", "session_id", id, "error", err)
	jsonError(w, "internal error", http.StatusInternalServerError)
}

func queryInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func jsonError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
