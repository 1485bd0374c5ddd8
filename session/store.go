package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"solar-forecaster/form"
)

// Store хранит контроллер формы для каждой сессии браузера.
// Сессий не больше maxSessions: при переполнении вытесняется самая давняя.
type Store struct {
	sessions    map[string]entry
	mu          sync.RWMutex
	ttl         time.Duration
	maxSessions int
	newForm     func() *form.Controller
	now         func() time.Time
}

type entry struct {
	controller *form.Controller
	lastSeen   time.Time
}

func NewStore(ttl time.Duration, maxSessions int, newForm func() *form.Controller) *Store {
	if maxSessions < 1 {
		maxSessions = 1
	}
	return &Store{
		sessions:    make(map[string]entry),
		ttl:         ttl,
		maxSessions: maxSessions,
		newForm:     newForm,
		now:         time.Now,
	}
}

// Get возвращает контроллер сессии и продлевает ее
func (s *Store) Get(id string) (*form.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found := s.sessions[id]
	if !found {
		return nil, false
	}

	// Проверяем TTL
	now := s.now()
	if now.Sub(e.lastSeen) > s.ttl {
		delete(s.sessions, id)
		return nil, false
	}

	e.lastSeen = now
	s.sessions[id] = e
	return e.controller, true
}

// Create заводит новую сессию с формой по умолчанию
func (s *Store) Create() (string, *form.Controller) {
	id := uuid.NewString()
	c := s.newForm()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= s.maxSessions {
		s.removeExpired()
	}
	for len(s.sessions) >= s.maxSessions {
		s.evictOldest()
	}

	s.sessions[id] = entry{controller: c, lastSeen: s.now()}
	return id, c
}

// evictOldest удаляет сессию, которая дольше всех не использовалась; вызывается под s.mu
func (s *Store) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, e := range s.sessions {
		if oldestID == "" || e.lastSeen.Before(oldest) {
			oldestID, oldest = id, e.lastSeen
		}
	}
	delete(s.sessions, oldestID)
}

// GetOrCreate возвращает существующую сессию или создает новую.
// created сообщает, что id изменился.
func (s *Store) GetOrCreate(id string) (string, *form.Controller, bool) {
	if id != "" {
		if c, ok := s.Get(id); ok {
			return id, c, false
		}
	}
	newID, c := s.Create()
	return newID, c, true
}

// Cleanup удаляет просроченные сессии и возвращает их количество
func (s *Store) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.removeExpired()
}

// removeExpired вызывается под s.mu
func (s *Store) removeExpired() int {
	now := s.now()
	removed := 0
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor периодически вызывает Cleanup до отмены ctx
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cleanup()
		}
	}
}

// Clear удаляет все сессии
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[string]entry)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
