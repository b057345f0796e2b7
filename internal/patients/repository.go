package patients

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for patient storage
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	List(ctx context.Context, filter ListFilter) ([]Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	// FindWithBirthDate returns every patient that has a birth date on file.
	FindWithBirthDate(ctx context.Context) ([]Patient, error)
}

const defaultListLimit = 50

// InMemoryRepository keeps patients in a map. Used for local development and tests.
type InMemoryRepository struct {
	mu       sync.RWMutex
	patients map[uuid.UUID]Patient
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		patients: make(map[uuid.UUID]Patient),
	}
}

// Create stores p, assigning its id and timestamps.
func (r *InMemoryRepository) Create(ctx context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	r.mu.Lock()
	r.patients[p.ID] = *p
	r.mu.Unlock()
	return nil
}

// GetByID retrieves a patient by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	return &p, nil
}

// List returns patients ordered by name.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]Patient, error) {
	r.mu.RLock()
	out := make([]Patient, 0, len(r.patients))
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, p := range r.patients {
		if search != "" && !strings.Contains(strings.ToLower(p.FullName), search) {
			continue
		}
		out = append(out, p)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].FullName == out[j].FullName {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].FullName < out[j].FullName
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if filter.Offset >= len(out) {
		return []Patient{}, nil
	}
	out = out[filter.Offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Update replaces the stored patient.
func (r *InMemoryRepository) Update(ctx context.Context, p *Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.patients[p.ID]
	if !ok {
		return ErrPatientNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	r.patients[p.ID] = *p
	return nil
}

// Delete removes a patient.
func (r *InMemoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.patients[id]; !ok {
		return ErrPatientNotFound
	}
	delete(r.patients, id)
	return nil
}

// FindWithBirthDate returns patients with a birth date on file.
func (r *InMemoryRepository) FindWithBirthDate(ctx context.Context) ([]Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Patient
	for _, p := range r.patients {
		if p.BirthDate != nil {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}
