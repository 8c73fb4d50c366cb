package memory

import (
	"context"
	"fmt"

	"github.com/PabloGalante/studybuddy/internal/domain"
)

func (s *Store) GetProfile(_ context.Context, userID domain.UserID) (*domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", userID, domain.ErrNotFound)
	}
	return cloneProfile(p), nil
}

func (s *Store) CreateProfile(_ context.Context, profile *domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[profile.UserID]; exists {
		return fmt.Errorf("profile %s already exists", profile.UserID)
	}

	now := s.now()
	p := cloneProfile(profile)
	if p.ID == "" {
		p.ID = newID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.profiles[p.UserID] = p

	*profile = *cloneProfile(p)
	return nil
}

// UpdateProfile writes the editable fields. Counters are owned by the
// aggregate procedures and are left as stored.
func (s *Store) UpdateProfile(_ context.Context, profile *domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[profile.UserID]
	if !ok {
		return fmt.Errorf("profile %s: %w", profile.UserID, domain.ErrNotFound)
	}

	p.DisplayName = profile.DisplayName
	p.Bio = profile.Bio
	p.AcademicLevel = profile.AcademicLevel
	p.SubjectsOfInterest = append([]string(nil), profile.SubjectsOfInterest...)
	p.LearningGoals = append([]string(nil), profile.LearningGoals...)
	p.PreferredDifficulty = profile.PreferredDifficulty
	p.UpdatedAt = s.now()

	*profile = *cloneProfile(p)
	return nil
}

func (s *Store) UpdateAvatar(_ context.Context, userID domain.UserID, avatarURL string) (*domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", userID, domain.ErrNotFound)
	}
	p.AvatarURL = avatarURL
	p.UpdatedAt = s.now()
	return cloneProfile(p), nil
}

func cloneProfile(p *domain.UserProfile) *domain.UserProfile {
	c := *p
	c.SubjectsOfInterest = append([]string(nil), p.SubjectsOfInterest...)
	c.LearningGoals = append([]string(nil), p.LearningGoals...)
	return &c
}
