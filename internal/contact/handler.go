package contact

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/wolfman30/clinicdesk/pkg/logging"
)

// Handler exposes the validators over HTTP for form pre-checks.
type Handler struct {
	logger *logging.Logger
	now    func() time.Time
}

// NewHandler creates a contact validation handler.
func NewHandler(logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{logger: logger, now: time.Now}
}

// ValidationResponse is returned by Validate.
type ValidationResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Validate handles POST /contacts/validate.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var in PatientInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Debug("contact validation: bad body", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	errs := in.Validate(h.now())
	if errs == nil {
		errs = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ValidationResponse{Valid: len(errs) == 0, Errors: errs})
}
