// Package profile is the pass-through to the relational store for profiles,
// study history and the aggregate counter procedures.
package profile

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/PabloGalante/studybuddy/internal/domain"
	"github.com/PabloGalante/studybuddy/internal/observability"
)

const (
	DefaultDisplayName = "Student"

	StudySessionsLimit  = 10
	SavedQuestionsLimit = 20
)

var (
	academicLevels = []domain.AcademicLevel{
		domain.LevelHighSchool, domain.LevelUndergraduate, domain.LevelGraduate,
		domain.LevelProfessional, domain.LevelOther,
	}
	difficulties = []domain.Difficulty{
		domain.DifficultyBeginner, domain.DifficultyIntermediate, domain.DifficultyAdvanced,
	}
)

type Service struct {
	store domain.Store
}

func NewService(store domain.Store) *Service {
	return &Service{store: store}
}

// Input carries profile fields. Nil pointers are left unchanged on update
// and defaulted on create.
type Input struct {
	DisplayName         *string
	Bio                 *string
	AcademicLevel       *domain.AcademicLevel
	SubjectsOfInterest  []string
	LearningGoals       []string
	PreferredDifficulty *domain.Difficulty
}

func (in Input) validate() error {
	if in.AcademicLevel != nil && !slices.Contains(academicLevels, *in.AcademicLevel) {
		return domain.NewValidationError(fmt.Sprintf("Unknown academic level %q", *in.AcademicLevel))
	}
	if in.PreferredDifficulty != nil && !slices.Contains(difficulties, *in.PreferredDifficulty) {
		return domain.NewValidationError(fmt.Sprintf("Unknown difficulty %q", *in.PreferredDifficulty))
	}
	return nil
}

func (in Input) apply(p *domain.UserProfile) {
	if in.DisplayName != nil {
		p.DisplayName = strings.TrimSpace(*in.DisplayName)
	}
	if in.Bio != nil {
		p.Bio = *in.Bio
	}
	if in.AcademicLevel != nil {
		p.AcademicLevel = *in.AcademicLevel
	}
	if in.SubjectsOfInterest != nil {
		p.SubjectsOfInterest = append([]string(nil), in.SubjectsOfInterest...)
	}
	if in.LearningGoals != nil {
		p.LearningGoals = append([]string(nil), in.LearningGoals...)
	}
	if in.PreferredDifficulty != nil {
		p.PreferredDifficulty = *in.PreferredDifficulty
	}
}

// Get returns the stored profile or domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, userID domain.UserID) (*domain.UserProfile, error) {
	return s.store.GetProfile(ctx, userID)
}

// Find is Get for callers that treat a missing or unreadable profile as
// absent. Lookup failures are logged and reported as nil.
func (s *Service) Find(ctx context.Context, userID domain.UserID) *domain.UserProfile {
	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			observability.LoggerFromContext(ctx).Error("profile lookup failed", "user_id", userID, "error", err)
		}
		return nil
	}
	return p
}

// Create stores a new profile with zeroed counters.
func (s *Service) Create(ctx context.Context, userID domain.UserID, in Input) (*domain.UserProfile, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	p := newProfile(userID)
	in.apply(p)
	if p.DisplayName == "" {
		p.DisplayName = DefaultDisplayName
	}

	if err := s.store.CreateProfile(ctx, p); err != nil {
		observability.LoggerFromContext(ctx).Error("profile create failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return p, nil
}

// Ensure returns the existing profile or creates one from in.
func (s *Service) Ensure(ctx context.Context, userID domain.UserID, in Input) (*domain.UserProfile, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}
	return s.Create(ctx, userID, in)
}

func (s *Service) Update(ctx context.Context, userID domain.UserID, in Input) (*domain.UserProfile, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	in.apply(p)
	if p.DisplayName == "" {
		return nil, domain.NewValidationError("Display name cannot be empty")
	}

	if err := s.store.UpdateProfile(ctx, p); err != nil {
		observability.LoggerFromContext(ctx).Error("profile update failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

// Stats never fails: a procedure error yields zero values.
func (s *Service) Stats(ctx context.Context, userID domain.UserID) *domain.UserStats {
	stats, err := s.store.GetUserStats(ctx, userID)
	if err != nil || stats == nil {
		if err != nil {
			observability.LoggerFromContext(ctx).Error("get_user_stats failed", "user_id", userID, "error", err)
		}
		return &domain.UserStats{}
	}
	return stats
}

// Refresh recomputes the profile counters, falling back to a plain read when
// the procedure fails.
func (s *Service) Refresh(ctx context.Context, userID domain.UserID) (*domain.UserProfile, error) {
	p, err := s.store.RefreshUserProfileStats(ctx, userID)
	if err == nil {
		return p, nil
	}
	observability.LoggerFromContext(ctx).Error("refresh_user_profile_stats failed", "user_id", userID, "error", err)

	p, err = s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("refresh profile: %w", err)
	}
	return p, nil
}

func (s *Service) UpdateStudyStreak(ctx context.Context, userID domain.UserID) {
	if err := s.store.UpdateStudyStreak(ctx, userID); err != nil {
		observability.LoggerFromContext(ctx).Error("update_study_streak failed", "user_id", userID, "error", err)
	}
}

func (s *Service) IncrementQuestionCount(ctx context.Context, userID domain.UserID) {
	if err := s.store.IncrementQuestionCount(ctx, userID); err != nil {
		observability.LoggerFromContext(ctx).Error("increment_question_count failed", "user_id", userID, "error", err)
	}
}

func (s *Service) UpdateStudyTime(ctx context.Context, userID domain.UserID, minutes int) {
	if err := s.store.UpdateStudyTime(ctx, userID, minutes); err != nil {
		observability.LoggerFromContext(ctx).Error("update_study_time failed", "user_id", userID, "minutes", minutes, "error", err)
	}
}

func (s *Service) StudySessions(ctx context.Context, userID domain.UserID, limit int) ([]*domain.StudySession, error) {
	if limit <= 0 {
		limit = StudySessionsLimit
	}
	return s.store.ListStudySessions(ctx, userID, limit)
}

func (s *Service) SavedQuestions(ctx context.Context, userID domain.UserID, limit int) ([]*domain.SavedQuestion, error) {
	if limit <= 0 {
		limit = SavedQuestionsLimit
	}
	return s.store.ListSavedQuestions(ctx, userID, limit, false)
}

// BookmarkedQuestions is unbounded.
func (s *Service) BookmarkedQuestions(ctx context.Context, userID domain.UserID) ([]*domain.SavedQuestion, error) {
	return s.store.ListSavedQuestions(ctx, userID, 0, true)
}

func (s *Service) SetBookmark(ctx context.Context, userID domain.UserID, id domain.QuestionID, bookmarked bool) (*domain.SavedQuestion, error) {
	return s.store.SetBookmark(ctx, userID, id, bookmarked)
}

// RecordQuestion stores an answered question and bumps the question counter.
func (s *Service) RecordQuestion(ctx context.Context, q *domain.SavedQuestion) error {
	if err := s.store.SaveQuestion(ctx, q); err != nil {
		return fmt.Errorf("save question: %w", err)
	}
	s.IncrementQuestionCount(ctx, q.UserID)
	return nil
}

// RecordStudySession stores a session summary and updates study time and
// streak.
func (s *Service) RecordStudySession(ctx context.Context, sess *domain.StudySession) error {
	if err := s.store.SaveStudySession(ctx, sess); err != nil {
		return fmt.Errorf("save study session: %w", err)
	}
	s.UpdateStudyTime(ctx, sess.UserID, sess.Duration)
	s.UpdateStudyStreak(ctx, sess.UserID)
	return nil
}

func newProfile(userID domain.UserID) *domain.UserProfile {
	return &domain.UserProfile{
		UserID:              userID,
		DisplayName:         DefaultDisplayName,
		AcademicLevel:       domain.LevelUndergraduate,
		SubjectsOfInterest:  []string{},
		LearningGoals:       []string{},
		PreferredDifficulty: domain.DifficultyIntermediate,
	}
}
