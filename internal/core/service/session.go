package service

import (
	"artbot/internal/core/domain"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type SessionStore struct {
	mutex    sync.Mutex
	sessions map[int64]*sessionEntry
	idle     time.Duration
}

type sessionEntry struct {
	session    domain.Session
	timer      *time.Timer
	generation uint64
}

// NewSessionStore keeps each chat's session until it has been idle for the given duration. A zero duration
// keeps sessions forever.
func NewSessionStore(idle time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]*sessionEntry),
		idle:     idle,
	}
}

// Get returns a copy of the chat's session, starting a fresh one if there is none.
func (s *SessionStore) Get(chatID int64) domain.Session {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.load(chatID).session
}

// Update applies fn to the chat's session. Changes are kept only if fn succeeds.
func (s *SessionStore) Update(chatID int64, fn func(session *domain.Session) error) (domain.Session, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry := s.load(chatID)

	updated := entry.session
	if err := fn(&updated); err != nil {
		return entry.session, err
	}

	entry.session = updated

	return updated, nil
}

func (s *SessionStore) Delete(chatID int64) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry, ok := s.sessions[chatID]
	if !ok {
		return false
	}

	if entry.timer != nil {
		entry.timer.Stop()
	}
	delete(s.sessions, chatID)

	return true
}

func (s *SessionStore) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return len(s.sessions)
}

// load must be called with the mutex held.
func (s *SessionStore) load(chatID int64) *sessionEntry {
	entry, ok := s.sessions[chatID]
	if !ok {
		log.Debug().Int64("chatID", chatID).Msg("new session")
		entry = &sessionEntry{session: domain.NewSession()}
		s.sessions[chatID] = entry
	}

	s.touch(chatID, entry)

	return entry
}

func (s *SessionStore) touch(chatID int64, entry *sessionEntry) {
	if s.idle <= 0 {
		return
	}

	if entry.timer != nil {
		entry.timer.Stop()
	}

	entry.generation++
	generation := entry.generation
	entry.timer = time.AfterFunc(s.idle, func() {
		s.expire(chatID, entry, generation)
	})
}

func (s *SessionStore) expire(chatID int64, entry *sessionEntry, generation uint64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	// the entry may have been replaced or refreshed while the timer was firing
	if current, ok := s.sessions[chatID]; !ok || current != entry || entry.generation != generation {
		return
	}

	log.Debug().Int64("chatID", chatID).Msg("clearing idle session")
	delete(s.sessions, chatID)
}
