package patients

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// DefaultRecentLimit is how many recently viewed patients are remembered per user.
const DefaultRecentLimit = 5

// RecentList is a bounded most-recently-used list of patient ids. Touching an
// id moves it to the front; the oldest id is evicted once the list is full.
// It is not safe for concurrent use on its own.
type RecentList struct {
	limit int
	ids   []uuid.UUID
}

// NewRecentList creates a list holding at most limit ids.
func NewRecentList(limit int) *RecentList {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return &RecentList{limit: limit, ids: make([]uuid.UUID, 0, limit)}
}

// Touch records id as the most recent entry.
func (l *RecentList) Touch(id uuid.UUID) {
	l.Remove(id)
	l.ids = append([]uuid.UUID{id}, l.ids...)
	if len(l.ids) > l.limit {
		l.ids = l.ids[:l.limit]
	}
}

// List returns the ids, most recent first.
func (l *RecentList) List() []uuid.UUID {
	out := make([]uuid.UUID, len(l.ids))
	copy(out, l.ids)
	return out
}

// Remove drops id if present.
func (l *RecentList) Remove(id uuid.UUID) {
	for i, existing := range l.ids {
		if existing == id {
			l.ids = append(l.ids[:i], l.ids[i+1:]...)
			return
		}
	}
}

// Clear empties the list.
func (l *RecentList) Clear() {
	l.ids = l.ids[:0]
}

// RecentStore keeps one RecentList per staff user.
type RecentStore interface {
	Touch(ctx context.Context, userID string, patientID uuid.UUID) error
	List(ctx context.Context, userID string) ([]uuid.UUID, error)
	Remove(ctx context.Context, userID string, patientID uuid.UUID) error
	Clear(ctx context.Context, userID string) error
}

// MemoryRecentStore is a process-local RecentStore.
type MemoryRecentStore struct {
	mu    sync.Mutex
	limit int
	lists map[string]*RecentList
}

// NewMemoryRecentStore creates a store whose lists hold at most limit ids.
func NewMemoryRecentStore(limit int) *MemoryRecentStore {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return &MemoryRecentStore{limit: limit, lists: make(map[string]*RecentList)}
}

func (s *MemoryRecentStore) Touch(ctx context.Context, userID string, patientID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, ok := s.lists[userID]
	if !ok {
		list = NewRecentList(s.limit)
		s.lists[userID] = list
	}
	list.Touch(patientID)
	return nil
}

func (s *MemoryRecentStore) List(ctx context.Context, userID string) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, ok := s.lists[userID]
	if !ok {
		return []uuid.UUID{}, nil
	}
	return list.List(), nil
}

func (s *MemoryRecentStore) Remove(ctx context.Context, userID string, patientID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if list, ok := s.lists[userID]; ok {
		list.Remove(patientID)
	}
	return nil
}

func (s *MemoryRecentStore) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lists, userID)
	return nil
}

const (
	recentKeyPrefix = "recent_patients:"
	recentTTL       = 30 * 24 * time.Hour
)

// RedisRecentStore keeps each user's list in a Redis list so it survives
// restarts and is shared between API replicas.
type RedisRecentStore struct {
	redis  *redis.Client
	tracer trace.Tracer
	limit  int64
}

// NewRedisRecentStore returns nil when no client is configured.
func NewRedisRecentStore(client *redis.Client, limit int) *RedisRecentStore {
	if client == nil {
		return nil
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return &RedisRecentStore{
		redis:  client,
		tracer: otel.Tracer("clinicdesk.internal.patients.recent"),
		limit:  int64(limit),
	}
}

func (s *RedisRecentStore) Touch(ctx context.Context, userID string, patientID uuid.UUID) error {
	if userID == "" {
		return errors.New("patients: recent list userID required")
	}
	ctx, span := s.tracer.Start(ctx, "patients.recent.touch")
	defer span.End()

	key := recentKey(userID)
	id := patientID.String()
	pipe := s.redis.TxPipeline()
	pipe.LRem(ctx, key, 0, id)
	pipe.LPush(ctx, key, id)
	pipe.LTrim(ctx, key, 0, s.limit-1)
	pipe.Expire(ctx, key, recentTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("patients: touch recent: %w", err)
	}
	return nil
}

func (s *RedisRecentStore) List(ctx context.Context, userID string) ([]uuid.UUID, error) {
	ctx, span := s.tracer.Start(ctx, "patients.recent.list")
	defer span.End()

	raw, err := s.redis.LRange(ctx, recentKey(userID), 0, s.limit-1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []uuid.UUID{}, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("patients: list recent: %w", err)
	}
	out := make([]uuid.UUID, 0, len(raw))
	for _, item := range raw {
		id, err := uuid.Parse(item)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

func (s *RedisRecentStore) Remove(ctx context.Context, userID string, patientID uuid.UUID) error {
	if err := s.redis.LRem(ctx, recentKey(userID), 0, patientID.String()).Err(); err != nil {
		return fmt.Errorf("patients: remove recent: %w", err)
	}
	return nil
}

func (s *RedisRecentStore) Clear(ctx context.Context, userID string) error {
	if err := s.redis.Del(ctx, recentKey(userID)).Err(); err != nil {
		return fmt.Errorf("patients: clear recent: %w", err)
	}
	return nil
}

func recentKey(userID string) string {
	return recentKeyPrefix + userID
}
