// Package memory is an in-process implementation of domain.Store used in
// local mode and tests. It emulates the relational store's tables and its
// aggregate procedures.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/studybuddy/internal/domain"
)

type Store struct {
	mu        sync.RWMutex
	profiles  map[domain.UserID]*domain.UserProfile
	sessions  map[domain.UserID][]*domain.StudySession
	questions map[domain.UserID][]*domain.SavedQuestion

	now func() time.Time
}

var _ domain.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		profiles:  make(map[domain.UserID]*domain.UserProfile),
		sessions:  make(map[domain.UserID][]*domain.StudySession),
		questions: make(map[domain.UserID][]*domain.SavedQuestion),
		now:       time.Now,
	}
}

// WithClock replaces the store clock. Used by tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func newID() string {
	return uuid.NewString()
}
