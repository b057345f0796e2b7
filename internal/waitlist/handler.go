package waitlist

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/wolfman30/clinicdesk/internal/apperr"
	"github.com/wolfman30/clinicdesk/internal/identity"
	"github.com/wolfman30/clinicdesk/pkg/logging"
)

// Handler provides HTTP endpoints for the waiting list.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a waiting list handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes mounts waiting list endpoints under a chi router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/waitlist", h.create)
	r.Get("/waitlist", h.list)
	r.Get("/waitlist/{entryID}", h.get)
	r.Delete("/waitlist/{entryID}", h.delete)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, _ := identity.UserIDFromContext(r.Context())
	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	entry, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("waitlist handler: list", "error", err)
		apperr.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "entryID"))
	if err != nil {
		apperr.WriteError(w, apperr.Invalid("entry id must be a UUID"))
		return
	}
	entry, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "entryID"))
	if err != nil {
		apperr.WriteError(w, apperr.Invalid("entry id must be a UUID"))
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
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
