package patients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/clinicdesk/internal/apperr"
	"github.com/wolfman30/clinicdesk/internal/identity"
	"github.com/wolfman30/clinicdesk/pkg/logging"
)

func newTestServer(repo Repository, recent RecentStore) http.Handler {
	h := NewHandler(repo, recent, logging.Default())
	h.now = func() time.Time { return testNow }
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user := r.Header.Get("X-Test-User"); user != "" {
				r = r.WithContext(identity.WithUserID(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	})
	h.RegisterRoutes(r)
	return r
}

func do(t *testing.T, srv http.Handler, method, path, body, user string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndGetPatient(t *testing.T) {
	repo := NewInMemoryRepository()
	recent := NewMemoryRecentStore(5)
	srv := newTestServer(repo, recent)

	rec := do(t, srv, http.MethodPost, "/patients", `{"full_name":"Ana Costa","phone":"912345678","birth_date":"1990-03-15"}`, "u1")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "+351 912 345 678", created["phone"])
	id := created["id"].(string)

	rec = do(t, srv, http.MethodGet, "/patients/"+id, "", "u1")
	require.Equal(t, http.StatusOK, rec.Code)

	viewed, err := recent.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, viewed, 1)
	assert.Equal(t, id, viewed[0].String())
}

func TestCreatePatientValidation(t *testing.T) {
	srv := newTestServer(NewInMemoryRepository(), nil)

	rec := do(t, srv, http.MethodPost, "/patients", `{"full_name":"","email":"nope"}`, "u1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid email address")

	rec = do(t, srv, http.MethodPost, "/patients", `{`, "u1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPatientErrors(t *testing.T) {
	srv := newTestServer(NewInMemoryRepository(), nil)

	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/patients/not-a-uuid", "", "u1").Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/patients/"+uuid.NewString(), "", "u1").Code)
}

func TestUpdateAndDeletePatient(t *testing.T) {
	repo := NewInMemoryRepository()
	p := &Patient{FullName: "Rui"}
	require.NoError(t, repo.Create(context.Background(), p))
	srv := newTestServer(repo, NewMemoryRecentStore(5))

	rec := do(t, srv, http.MethodPut, "/patients/"+p.ID.String(), `{"email":"rui@example.pt"}`, "u1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got, _ := repo.GetByID(context.Background(), p.ID)
	assert.Equal(t, "rui@example.pt", got.Email)

	rec = do(t, srv, http.MethodDelete, "/patients/"+p.ID.String(), "", "u1")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, srv, http.MethodDelete, "/patients/"+p.ID.String(), "", "u1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecentPatientsEndpoints(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	recent := NewMemoryRecentStore(5)
	a := &Patient{FullName: "A"}
	b := &Patient{FullName: "B"}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))
	srv := newTestServer(repo, recent)

	require.Equal(t, http.StatusNoContent, do(t, srv, http.MethodPut, "/me/recent-patients/"+a.ID.String(), "", "u1").Code)
	require.Equal(t, http.StatusNoContent, do(t, srv, http.MethodPut, "/me/recent-patients/"+b.ID.String(), "", "u1").Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodPut, "/me/recent-patients/"+uuid.NewString(), "", "u1").Code)

	require.NoError(t, repo.Delete(ctx, a.ID))

	rec := do(t, srv, http.MethodGet, "/me/recent-patients", "", "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Patients []map[string]any `json:"patients"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Patients, 1)
	assert.Equal(t, "B", resp.Patients[0]["full_name"])

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/me/recent-patients/"+b.ID.String(), "", "u1").Code)
	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/me/recent-patients", "", "u1").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, srv, http.MethodGet, "/me/recent-patients", "", "").Code)
}

type failingRepository struct {
	*InMemoryRepository
}

func (failingRepository) List(context.Context, ListFilter) ([]Patient, error) {
	return nil, apperr.Upstream("patients: list", errors.New("db down"))
}

func TestListPatientsUpstreamFailure(t *testing.T) {
	srv := newTestServer(failingRepository{NewInMemoryRepository()}, nil)
	rec := do(t, srv, http.MethodGet, "/patients", "", "u1")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

type countingRepository struct {
	*InMemoryRepository
	gets int
}

func (c *countingRepository) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	c.gets++
	return c.InMemoryRepository.GetByID(ctx, id)
}

func TestUpdatePatientValidatesBeforeLookup(t *testing.T) {
	repo := &countingRepository{InMemoryRepository: NewInMemoryRepository()}
	srv := newTestServer(repo, nil)

	rec := do(t, srv, http.MethodPut, "/patients/"+uuid.NewString(), `{"email":"nope"}`, "u1")
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Zero(t, repo.gets)

	rec = do(t, srv, http.MethodPut, "/patients/"+uuid.NewString(), `{"email":"ana@example.com"}`, "u1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 1, repo.gets)
}

type brokenRecentStore struct {
	*MemoryRecentStore
}

func (brokenRecentStore) Remove(context.Context, string, uuid.UUID) error {
	return errors.New("redis unavailable")
}

func TestDeletePatientLogsRecentListFailure(t *testing.T) {
	repo := NewInMemoryRepository()
	p := &Patient{FullName: "Rui"}
	require.NoError(t, repo.Create(context.Background(), p))

	var buf bytes.Buffer
	h := NewHandler(repo, brokenRecentStore{NewMemoryRecentStore(5)}, logging.NewWithWriter(&buf, "info", "json"))
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodDelete, "/patients/"+p.ID.String(), nil)
	req = req.WithContext(identity.WithUserID(req.Context(), "u1"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, buf.String(), "failed to drop deleted patient from recent list")
	assert.Contains(t, buf.String(), "redis unavailable")
}
