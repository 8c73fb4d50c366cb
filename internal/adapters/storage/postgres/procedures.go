package postgres

import (
	"context"
	"fmt"

	"github.com/PabloGalante/studybuddy/internal/domain"
)

func (s *Store) GetUserStats(ctx context.Context, userID domain.UserID) (*domain.UserStats, error) {
	var row statsRow
	err := s.db.WithContext(ctx).
		Raw("SELECT * FROM get_user_stats(?)", string(userID)).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("get_user_stats: %w", err)
	}
	return &domain.UserStats{
		TotalSessions:         int(row.TotalSessions),
		TotalQuestions:        int(row.TotalQuestions),
		TotalStudyTimeMinutes: int(row.TotalStudyTimeMinutes),
		CurrentStreak:         int(row.CurrentStreak),
		LastSessionDate:       row.LastSessionDate,
	}, nil
}

func (s *Store) RefreshUserProfileStats(ctx context.Context, userID domain.UserID) (*domain.UserProfile, error) {
	var models []ProfileModel
	err := s.db.WithContext(ctx).
		Raw("SELECT * FROM refresh_user_profile_stats(?)", string(userID)).
		Scan(&models).Error
	if err != nil {
		return nil, fmt.Errorf("refresh_user_profile_stats: %w", err)
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("profile %s: %w", userID, domain.ErrNotFound)
	}
	return models[0].toDomain(), nil
}

func (s *Store) UpdateStudyStreak(ctx context.Context, userID domain.UserID) error {
	return s.call(ctx, "SELECT update_study_streak(?)", string(userID))
}

func (s *Store) IncrementQuestionCount(ctx context.Context, userID domain.UserID) error {
	return s.call(ctx, "SELECT increment_question_count(?)", string(userID))
}

func (s *Store) UpdateStudyTime(ctx context.Context, userID domain.UserID, minutes int) error {
	return s.call(ctx, "SELECT update_study_time(?, ?)", string(userID), minutes)
}

func (s *Store) call(ctx context.Context, sql string, args ...any) error {
	if err := s.db.WithContext(ctx).Exec(sql, args...).Error; err != nil {
		return fmt.Errorf("%s: %w", sql, err)
	}
	return nil
}
