package patients

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/wolfman30/clinicdesk/internal/apperr"
	"github.com/wolfman30/clinicdesk/internal/identity"
	"github.com/wolfman30/clinicdesk/pkg/logging"
)

// Handler handles HTTP requests for patients and the per-user recent list.
type Handler struct {
	repo   Repository
	recent RecentStore
	logger *logging.Logger
	now    func() time.Time
}

// NewHandler creates a patients handler. recent may be nil to disable the
// recently viewed list.
func NewHandler(repo Repository, recent RecentStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, recent: recent, logger: logger, now: time.Now}
}

// RegisterRoutes mounts patient endpoints under a chi router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/patients", func(r chi.Router) {
		r.Post("/", h.CreatePatient)
		r.Get("/", h.ListPatients)
		r.Get("/{patientID}", h.GetPatient)
		r.Put("/{patientID}", h.UpdatePatient)
		r.Delete("/{patientID}", h.DeletePatient)
	})
	if h.recent != nil {
		r.Route("/me/recent-patients", func(r chi.Router) {
			r.Get("/", h.ListRecent)
			r.Delete("/", h.ClearRecent)
			r.Put("/{patientID}", h.TouchRecent)
			r.Delete("/{patientID}", h.RemoveRecent)
		})
	}
}

// CreatePatient handles POST /patients
func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	patient, err := req.Build(h.now())
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	if err := h.repo.Create(r.Context(), patient); err != nil {
		h.logger.Error("failed to create patient", "error", err)
		apperr.WriteError(w, err)
		return
	}
	h.logger.Info("patient created", "id", patient.ID)
	writeJSON(w, http.StatusCreated, patient)
}

// ListPatientsResponse is the response for listing patients
type ListPatientsResponse struct {
	Patients []Patient `json:"patients"`
	Count    int       `json:"count"`
	Offset   int       `json:"offset"`
	Limit    int       `json:"limit"`
}

// ListPatients handles GET /patients?search=&limit=&offset=
func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Search: r.URL.Query().Get("search"),
		Limit:  defaultListLimit,
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 200 {
			filter.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	list, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list patients", "error", err)
		apperr.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListPatientsResponse{
		Patients: list,
		Count:    len(list),
		Offset:   filter.Offset,
		Limit:    filter.Limit,
	})
}

// GetPatient handles GET /patients/{patientID} and records the view in the
// caller's recent list.
func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id, err := parsePatientID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	patient, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	if userID, ok := identity.UserIDFromContext(r.Context()); ok && h.recent != nil {
		if err := h.recent.Touch(r.Context(), userID, id); err != nil {
			h.logger.Warn("failed to record recent patient", "error", err, "user_id", userID)
		}
	}
	writeJSON(w, http.StatusOK, patient)
}

// UpdatePatient handles PUT /patients/{patientID}
func (h *Handler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	id, err := parsePatientID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	var req UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	now := h.now()
	if err := req.Validate(now); err != nil {
		apperr.WriteError(w, err)
		return
	}
	patient, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	if err := req.Apply(patient, now); err != nil {
		apperr.WriteError(w, err)
		return
	}
	if err := h.repo.Update(r.Context(), patient); err != nil {
		h.logger.Error("failed to update patient", "error", err, "id", id)
		apperr.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, patient)
}

// DeletePatient handles DELETE /patients/{patientID}
func (h *Handler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	id, err := parsePatientID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		apperr.WriteError(w, err)
		return
	}
	if userID, ok := identity.UserIDFromContext(r.Context()); ok && h.recent != nil {
		if err := h.recent.Remove(r.Context(), userID, id); err != nil {
			h.logger.Warn("failed to drop deleted patient from recent list", "error", err, "user_id", userID)
		}
	}
	h.logger.Info("patient deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// ListRecent handles GET /me/recent-patients. Patients deleted since they were
// viewed are skipped.
func (h *Handler) ListRecent(w http.ResponseWriter, r *http.Request) {
	userID, ok := identity.UserIDFromContext(r.Context())
	if !ok {
		apperr.WriteError(w, apperr.ErrUnauthenticated)
		return
	}
	ids, err := h.recent.List(r.Context(), userID)
	if err != nil {
		apperr.WriteError(w, apperr.Upstream("patients: recent list", err))
		return
	}
	out := make([]Patient, 0, len(ids))
	for _, id := range ids {
		p, err := h.repo.GetByID(r.Context(), id)
		if errors.Is(err, ErrPatientNotFound) {
			continue
		}
		if err != nil {
			apperr.WriteError(w, err)
			return
		}
		out = append(out, *p)
	}
	writeJSON(w, http.StatusOK, map[string]any{"patients": out})
}

// TouchRecent handles PUT /me/recent-patients/{patientID}
func (h *Handler) TouchRecent(w http.ResponseWriter, r *http.Request) {
	userID, ok := identity.UserIDFromContext(r.Context())
	if !ok {
		apperr.WriteError(w, apperr.ErrUnauthenticated)
		return
	}
	id, err := parsePatientID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	if _, err := h.repo.GetByID(r.Context(), id); err != nil {
		apperr.WriteError(w, err)
		return
	}
	if err := h.recent.Touch(r.Context(), userID, id); err != nil {
		apperr.WriteError(w, apperr.Upstream("patients: recent touch", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveRecent handles DELETE /me/recent-patients/{patientID}
func (h *Handler) RemoveRecent(w http.ResponseWriter, r *http.Request) {
	userID, ok := identity.UserIDFromContext(r.Context())
	if !ok {
		apperr.WriteError(w, apperr.ErrUnauthenticated)
		return
	}
	id, err := parsePatientID(r)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}
	if err := h.recent.Remove(r.Context(), userID, id); err != nil {
		apperr.WriteError(w, apperr.Upstream("patients: recent remove", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearRecent handles DELETE /me/recent-patients
func (h *Handler) ClearRecent(w http.ResponseWriter, r *http.Request) {
	userID, ok := identity.UserIDFromContext(r.Context())
	if !ok {
		apperr.WriteError(w, apperr.ErrUnauthenticated)
		return
	}
	if err := h.recent.Clear(r.Context(), userID); err != nil {
		apperr.WriteError(w, apperr.Upstream("patients: recent clear", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parsePatientID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "patientID"))
	if err != nil {
		return uuid.Nil, ErrInvalidPatientID
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
