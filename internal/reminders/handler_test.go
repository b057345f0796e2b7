package reminders

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/clinicdesk/internal/identity"
	"github.com/wolfman30/clinicdesk/internal/waitlist"
)

func newTestRouter(svc *Service) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := r.Header.Get("X-Test-User"); user != "" {
				r = r.WithContext(identity.WithUserID(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	})
	NewHandler(svc, nil).RegisterRoutes(r)
	return r
}

func doRequest(h http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerReminderLifecycle(t *testing.T) {
	entry := waitlist.Entry{ID: uuid.New(), PatientName: "Ana Costa", Notes: "Call after 5pm"}
	svc, _, _ := newTestService(t, entry)
	h := newTestRouter(svc)

	rec := doRequest(h, http.MethodPost, "/waitlist/"+entry.ID.String()+"/reminders", "staff-1", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Waiting List – Ana Costa", created["title"])
	assert.Equal(t, "Call after 5pm", created["description"])
	assert.Equal(t, "in_app", created["channel"])
	assert.Equal(t, entry.ID.String(), created["waitlist_entry_id"])
	id := created["id"].(string)

	due := testNow.Add(-time.Minute).Format(time.RFC3339)
	rec = doRequest(h, http.MethodPost, "/reminders", "staff-1", `{"title":"Order gloves","due_at":"`+due+`","channel":"email","lead_time_minutes":10}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(h, http.MethodGet, "/reminders?due=true", "staff-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Reminders []map[string]any `json:"reminders"`
		Count     int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Equal(t, 1, listed.Count)
	assert.Equal(t, "Order gloves", listed.Reminders[0]["title"])
	assert.EqualValues(t, 10, listed.Reminders[0]["lead_time_minutes"])

	rec = doRequest(h, http.MethodPost, "/reminders/"+id+"/sent", "staff-2", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(h, http.MethodPost, "/reminders/"+id+"/sent", "staff-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sent":true`)

	rec = doRequest(h, http.MethodDelete, "/reminders/"+id, "staff-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(h, http.MethodDelete, "/reminders/"+id, "staff-1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerErrors(t *testing.T) {
	svc, _, _ := newTestService(t)
	h := newTestRouter(svc)

	tests := []struct {
		name   string
		method string
		path   string
		user   string
		body   string
		status int
	}{
		{"unauthenticated list", http.MethodGet, "/reminders", "", "", http.StatusUnauthorized},
		{"bad due flag", http.MethodGet, "/reminders?due=maybe", "u1", "", http.StatusBadRequest},
		{"bad body", http.MethodPost, "/reminders", "u1", "{", http.StatusBadRequest},
		{"missing title", http.MethodPost, "/reminders", "u1", `{"due_at":"2024-05-10T10:00:00Z"}`, http.StatusBadRequest},
		{"bad reminder id", http.MethodPost, "/reminders/nope/sent", "u1", "", http.StatusBadRequest},
		{"unknown reminder", http.MethodPost, "/reminders/" + uuid.NewString() + "/sent", "u1", "", http.StatusNotFound},
		{"bad entry id", http.MethodPost, "/waitlist/nope/reminders", "u1", "", http.StatusBadRequest},
		{"unknown entry", http.MethodPost, "/waitlist/" + uuid.NewString() + "/reminders", "u1", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(h, tt.method, tt.path, tt.user, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}
