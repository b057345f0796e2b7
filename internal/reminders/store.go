package reminders

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store persists reminders.
type Store interface {
	Create(ctx context.Context, r *Reminder) error
	GetByID(ctx context.Context, id uuid.UUID) (*Reminder, error)
	// ListForUser returns reminders created by or targeted at userID.
	ListForUser(ctx context.Context, userID string) ([]Reminder, error)
	// ListDue returns unsent reminders on channel whose surface time is at or before asOf.
	ListDue(ctx context.Context, channel Channel, asOf time.Time) ([]Reminder, error)
	// MarkSent sets the sent flag and returns the stored reminder. A reminder
	// that is already sent keeps its original SentAt.
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) (*Reminder, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// InMemoryStore keeps reminders in a map.
type InMemoryStore struct {
	mu        sync.RWMutex
	reminders map[uuid.UUID]Reminder
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{reminders: make(map[uuid.UUID]Reminder)}
}

func (s *InMemoryStore) Create(ctx context.Context, r *Reminder) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	if r.Channel == "" {
		r.Channel = ChannelInApp
	}

	s.mu.Lock()
	s.reminders[r.ID] = *r
	s.mu.Unlock()
	return nil
}

func (s *InMemoryStore) GetByID(ctx context.Context, id uuid.UUID) (*Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reminders[id]
	if !ok {
		return nil, ErrReminderNotFound
	}
	return &r, nil
}

func (s *InMemoryStore) ListForUser(ctx context.Context, userID string) ([]Reminder, error) {
	return s.filter(func(r *Reminder) bool {
		return r.CreatedBy == userID || r.TargetUser == userID
	}), nil
}

func (s *InMemoryStore) ListDue(ctx context.Context, channel Channel, asOf time.Time) ([]Reminder, error) {
	return s.filter(func(r *Reminder) bool {
		return r.Channel == channel && r.IsDue(asOf)
	}), nil
}

func (s *InMemoryStore) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) (*Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reminders[id]
	if !ok {
		return nil, ErrReminderNotFound
	}
	if !r.Sent {
		r.Sent = true
		sentAt := at.UTC()
		r.SentAt = &sentAt
		r.UpdatedAt = sentAt
		s.reminders[id] = r
	}
	return &r, nil
}

func (s *InMemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reminders[id]; !ok {
		return ErrReminderNotFound
	}
	delete(s.reminders, id)
	return nil
}

// filter returns matching reminders ordered by due time.
func (s *InMemoryStore) filter(keep func(*Reminder) bool) []Reminder {
	s.mu.RLock()
	out := []Reminder{}
	for _, r := range s.reminders {
		if keep(&r) {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].DueAt.Equal(out[j].DueAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].DueAt.Before(out[j].DueAt)
	})
	return out
}
