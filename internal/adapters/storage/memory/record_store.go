package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/PabloGalante/studybuddy/internal/domain"
)

func (s *Store) SaveStudySession(_ context.Context, session *domain.StudySession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *session
	if c.ID == "" {
		c.ID = newID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	s.sessions[c.UserID] = append(s.sessions[c.UserID], &c)

	*session = c
	return nil
}

// ListStudySessions returns the newest sessions first.
func (s *Store) ListStudySessions(_ context.Context, userID domain.UserID, limit int) ([]*domain.StudySession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.StudySession, 0, len(s.sessions[userID]))
	for _, sess := range s.sessions[userID] {
		c := *sess
		result = append(result, &c)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) SaveQuestion(_ context.Context, q *domain.SavedQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := cloneQuestion(q)
	if c.ID == "" {
		c.ID = domain.QuestionID(newID())
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	s.questions[c.UserID] = append(s.questions[c.UserID], c)

	*q = *cloneQuestion(c)
	return nil
}

// ListSavedQuestions returns the newest questions first. A limit <= 0
// returns all of them.
func (s *Store) ListSavedQuestions(_ context.Context, userID domain.UserID, limit int, bookmarkedOnly bool) ([]*domain.SavedQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SavedQuestion
	for _, q := range s.questions[userID] {
		if bookmarkedOnly && !q.IsBookmarked {
			continue
		}
		result = append(result, cloneQuestion(q))
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) SetBookmark(_ context.Context, userID domain.UserID, id domain.QuestionID, bookmarked bool) (*domain.SavedQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, q := range s.questions[userID] {
		if q.ID == id {
			q.IsBookmarked = bookmarked
			return cloneQuestion(q), nil
		}
	}
	return nil, fmt.Errorf("question %s: %w", id, domain.ErrNotFound)
}

func cloneQuestion(q *domain.SavedQuestion) *domain.SavedQuestion {
	c := *q
	c.Sources = append([]string(nil), q.Sources...)
	return &c
}
