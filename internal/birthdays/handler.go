package birthdays

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/clinicdesk/internal/apperr"
	"github.com/wolfman30/clinicdesk/internal/contact"
	"github.com/wolfman30/clinicdesk/pkg/logging"
)

// Handler serves the birthday list.
type Handler struct {
	service *Service
	loc     *time.Location
	logger  *logging.Logger
	now     func() time.Time
}

// NewHandler creates a birthday handler. loc decides what "today" is when the
// caller does not pass a date.
func NewHandler(service *Service, loc *time.Location, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{service: service, loc: loc, logger: logger, now: time.Now}
}

// RegisterRoutes mounts birthday endpoints under a chi router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/birthdays/today", h.ListToday)
}

// ListToday handles GET /birthdays/today?date=YYYY-MM-DD
func (h *Handler) ListToday(w http.ResponseWriter, r *http.Request) {
	today := h.now().In(h.loc)
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := time.Parse(contact.DateLayout, raw)
		if err != nil {
			apperr.WriteError(w, apperr.Invalid("date must be YYYY-MM-DD"))
			return
		}
		today = d
	}

	list, err := h.service.ListToday(r.Context(), today)
	if err != nil {
		apperr.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"date":      today.Format(contact.DateLayout),
		"birthdays": list,
		"count":     len(list),
	})
}
