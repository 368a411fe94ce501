package docstore

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore - in-memory реализация для локального запуска без MongoDB и для тестов
type MemoryStore struct {
	mu      sync.RWMutex
	intents map[string]RegistrationIntent
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		intents: make(map[string]RegistrationIntent),
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, intent *RegistrationIntent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	doc := *intent
	doc.Status = IntentPending
	doc.LastError = ""
	doc.UpdatedAt = now
	if existing, ok := s.intents[intent.UID]; ok {
		doc.CreatedAt = existing.CreatedAt
		doc.Attempts = existing.Attempts
	} else {
		doc.CreatedAt = now
	}
	s.intents[intent.UID] = doc
	*intent = doc
	return nil
}

func (s *MemoryStore) Get(_ context.Context, uid string) (*RegistrationIntent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.intents[uid]
	if !ok {
		return nil, ErrIntentNotFound
	}
	return &doc, nil
}

func (s *MemoryStore) MarkReconciled(_ context.Context, uid string) error {
	return s.update(uid, func(doc *RegistrationIntent) {
		doc.Status = IntentReconciled
		doc.LastError = ""
	})
}

func (s *MemoryStore) MarkFailed(_ context.Context, uid string, cause error) error {
	return s.update(uid, func(doc *RegistrationIntent) {
		doc.Status = IntentFailed
		doc.Attempts++
		if cause != nil {
			doc.LastError = cause.Error()
		}
	})
}

func (s *MemoryStore) update(uid string, fn func(doc *RegistrationIntent)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.intents[uid]
	if !ok {
		return ErrIntentNotFound
	}
	fn(&doc)
	doc.UpdatedAt = s.now()
	s.intents[uid] = doc
	return nil
}

func (s *MemoryStore) ListPending(_ context.Context, olderThan time.Time, maxAttempts, limit int) ([]*RegistrationIntent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []*RegistrationIntent{}
	for _, doc := range s.intents {
		if doc.Status == IntentReconciled || doc.UpdatedAt.After(olderThan) {
			continue
		}
		if maxAttempts > 0 && doc.Attempts >= maxAttempts {
			continue
		}
		d := doc
		result = append(result, &d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UpdatedAt.Before(result[j].UpdatedAt) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }
