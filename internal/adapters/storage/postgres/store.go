package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/PabloGalante/studybuddy/internal/domain"
)

func (s *Store) GetProfile(ctx context.Context, userID domain.UserID) (*domain.UserProfile, error) {
	var m ProfileModel
	if err := s.db.WithContext(ctx).Where("user_id = ?", string(userID)).First(&m).Error; err != nil {
		return nil, notFound(err, "profile "+string(userID))
	}
	return m.toDomain(), nil
}

func (s *Store) CreateProfile(ctx context.Context, profile *domain.UserProfile) error {
	m := toProfileModel(profile)
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create profile %s: %w", profile.UserID, err)
	}
	*profile = *m.toDomain()
	return nil
}

// UpdateProfile writes the editable fields only.
func (s *Store) UpdateProfile(ctx context.Context, profile *domain.UserProfile) error {
	res := s.db.WithContext(ctx).Model(&ProfileModel{}).
		Where("user_id = ?", string(profile.UserID)).
		Updates(map[string]any{
			"display_name":         profile.DisplayName,
			"bio":                  profile.Bio,
			"academic_level":       string(profile.AcademicLevel),
			"subjects_of_interest": datatypes.NewJSONSlice(profile.SubjectsOfInterest),
			"learning_goals":       datatypes.NewJSONSlice(profile.LearningGoals),
			"preferred_difficulty": string(profile.PreferredDifficulty),
			"updated_at":           time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("update profile %s: %w", profile.UserID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("profile %s: %w", profile.UserID, domain.ErrNotFound)
	}

	updated, err := s.GetProfile(ctx, profile.UserID)
	if err != nil {
		return err
	}
	*profile = *updated
	return nil
}

func (s *Store) UpdateAvatar(ctx context.Context, userID domain.UserID, avatarURL string) (*domain.UserProfile, error) {
	res := s.db.WithContext(ctx).Model(&ProfileModel{}).
		Where("user_id = ?", string(userID)).
		Updates(map[string]any{"avatar_url": avatarURL, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, fmt.Errorf("update avatar %s: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("profile %s: %w", userID, domain.ErrNotFound)
	}
	return s.GetProfile(ctx, userID)
}

func (s *Store) SaveStudySession(ctx context.Context, session *domain.StudySession) error {
	m := &StudySessionModel{
		ID:             session.ID,
		UserID:         string(session.UserID),
		Title:          session.Title,
		Subject:        session.Subject,
		Duration:       session.Duration,
		QuestionsCount: session.QuestionsCount,
		CreatedAt:      session.CreatedAt,
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("save study session: %w", err)
	}
	*session = *m.toDomain()
	return nil
}

func (s *Store) ListStudySessions(ctx context.Context, userID domain.UserID, limit int) ([]*domain.StudySession, error) {
	var models []StudySessionModel
	q := s.db.WithContext(ctx).Where("user_id = ?", string(userID)).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list study sessions: %w", err)
	}

	result := make([]*domain.StudySession, 0, len(models))
	for i := range models {
		result = append(result, models[i].toDomain())
	}
	return result, nil
}

func (s *Store) SaveQuestion(ctx context.Context, q *domain.SavedQuestion) error {
	m := &SavedQuestionModel{
		ID:           string(q.ID),
		UserID:       string(q.UserID),
		Question:     q.Question,
		Answer:       q.Answer,
		Subject:      q.Subject,
		Sources:      datatypes.NewJSONSlice(q.Sources),
		IsBookmarked: q.IsBookmarked,
		CreatedAt:    q.CreatedAt,
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("save question: %w", err)
	}
	*q = *m.toDomain()
	return nil
}

func (s *Store) ListSavedQuestions(ctx context.Context, userID domain.UserID, limit int, bookmarkedOnly bool) ([]*domain.SavedQuestion, error) {
	var models []SavedQuestionModel
	q := s.db.WithContext(ctx).Where("user_id = ?", string(userID))
	if bookmarkedOnly {
		q = q.Where("is_bookmarked = ?", true)
	}
	q = q.Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list saved questions: %w", err)
	}

	result := make([]*domain.SavedQuestion, 0, len(models))
	for i := range models {
		result = append(result, models[i].toDomain())
	}
	return result, nil
}

func (s *Store) SetBookmark(ctx context.Context, userID domain.UserID, id domain.QuestionID, bookmarked bool) (*domain.SavedQuestion, error) {
	db := s.db.WithContext(ctx)
	res := db.Model(&SavedQuestionModel{}).
		Where("id = ? AND user_id = ?", string(id), string(userID)).
		Update("is_bookmarked", bookmarked)
	if res.Error != nil {
		return nil, fmt.Errorf("set bookmark %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("question %s: %w", id, domain.ErrNotFound)
	}

	var m SavedQuestionModel
	if err := db.Where("id = ?", string(id)).First(&m).Error; err != nil {
		return nil, notFound(err, "question "+string(id))
	}
	return m.toDomain(), nil
}
