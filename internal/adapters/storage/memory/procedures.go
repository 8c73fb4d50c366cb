package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/PabloGalante/studybuddy/internal/domain"
)

func (s *Store) GetUserStats(_ context.Context, userID domain.UserID) (*domain.UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &domain.UserStats{
		TotalSessions:  len(s.sessions[userID]),
		TotalQuestions: len(s.questions[userID]),
	}
	for _, sess := range s.sessions[userID] {
		stats.TotalStudyTimeMinutes += sess.Duration
		if stats.LastSessionDate == nil || sess.CreatedAt.After(*stats.LastSessionDate) {
			last := sess.CreatedAt
			stats.LastSessionDate = &last
		}
	}
	if p, ok := s.profiles[userID]; ok {
		stats.CurrentStreak = p.StudyStreak
	}
	return stats, nil
}

// RefreshUserProfileStats recomputes the profile counters from the records.
func (s *Store) RefreshUserProfileStats(_ context.Context, userID domain.UserID) (*domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", userID, domain.ErrNotFound)
	}

	minutes := 0
	for _, sess := range s.sessions[userID] {
		minutes += sess.Duration
	}
	p.TotalQuestionsAsked = len(s.questions[userID])
	p.TotalStudyTime = minutes
	p.StudyStreak = domain.StudyStreak(s.sessionDatesLocked(userID), s.now(), time.UTC)
	p.UpdatedAt = s.now()

	return cloneProfile(p), nil
}

func (s *Store) UpdateStudyStreak(_ context.Context, userID domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return fmt.Errorf("profile %s: %w", userID, domain.ErrNotFound)
	}
	p.StudyStreak = domain.StudyStreak(s.sessionDatesLocked(userID), s.now(), time.UTC)
	return nil
}

func (s *Store) IncrementQuestionCount(_ context.Context, userID domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return fmt.Errorf("profile %s: %w", userID, domain.ErrNotFound)
	}
	p.TotalQuestionsAsked++
	return nil
}

func (s *Store) UpdateStudyTime(_ context.Context, userID domain.UserID, minutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return fmt.Errorf("profile %s: %w", userID, domain.ErrNotFound)
	}
	p.TotalStudyTime += minutes
	return nil
}

func (s *Store) sessionDatesLocked(userID domain.UserID) []time.Time {
	dates := make([]time.Time, 0, len(s.sessions[userID]))
	for _, sess := range s.sessions[userID] {
		dates = append(dates, sess.CreatedAt)
	}
	return dates
}
