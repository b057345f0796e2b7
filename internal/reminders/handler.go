package reminders

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/wolfman30/clinicdesk/internal/apperr"
	"github.com/wolfman30/clinicdesk/internal/identity"
	"github.com/wolfman30/clinicdesk/pkg/logging"
)

// Handler exposes reminder endpoints.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a reminder handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts reminder endpoints under a chi router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/reminders", h.list)
	r.Post("/reminders", h.create)
	r.Post("/reminders/{reminderID}/sent", h.markSent)
	r.Delete("/reminders/{reminderID}", h.delete)
	r.Post("/waitlist/{entryID}/reminders", h.createFromWaitlist)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity.UserIDFromContext(r.Context())

	dueOnly := false
	if raw := r.URL.Query().Get("due"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			apperr.WriteError(w, apperr.Invalid("due must be true or false"))
			return
		}
		dueOnly = v
	}

	list, err := h.service.ListForUser(r.Context(), actor, dueOnly)
	if err != nil {
		h.logger.Error("reminders handler: list", "error", err)
		apperr.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reminders": list,
		"count":     len(list),
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity.UserIDFromContext(r.Context())
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	reminder, err := h.service.Create(r.Context(), actor, in)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reminder)
}

func (h *Handler) createFromWaitlist(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity.UserIDFromContext(r.Context())
	entryID, err := uuid.Parse(chi.URLParam(r, "entryID"))
	if err != nil {
		apperr.WriteError(w, apperr.Invalid("entry id must be a UUID"))
		return
	}
	reminder, err := h.service.CreateFromWaitingListEntry(r.Context(), entryID, actor)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reminder)
}

func (h *Handler) markSent(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity.UserIDFromContext(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "reminderID"))
	if err != nil {
		apperr.WriteError(w, apperr.Invalid("reminder id must be a UUID"))
		return
	}
	reminder, err := h.service.MarkSent(r.Context(), id, actor)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reminder)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity.UserIDFromContext(r.Context())
	id, err := uuid.Parse(chi.URLParam(r, "reminderID"))
	if err != nil {
		apperr.WriteError(w, apperr.Invalid("reminder id must be a UUID"))
		return
	}
	if err := h.service.Delete(r.Context(), id, actor); err != nil {
		apperr.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
