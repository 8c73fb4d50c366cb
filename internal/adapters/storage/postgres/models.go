package postgres

import (
	"time"

	"gorm.io/datatypes"

	"github.com/PabloGalante/studybuddy/internal/domain"
)

type ProfileModel struct {
	ID                  string                      `gorm:"primaryKey;size:36;column:id"`
	UserID              string                      `gorm:"uniqueIndex;not null;column:user_id"`
	DisplayName         string                      `gorm:"not null;column:display_name"`
	Bio                 string                      `gorm:"column:bio"`
	AvatarURL           string                      `gorm:"column:avatar_url"`
	AcademicLevel       string                      `gorm:"not null;default:undergraduate;column:academic_level"`
	SubjectsOfInterest  datatypes.JSONSlice[string] `gorm:"column:subjects_of_interest"`
	LearningGoals       datatypes.JSONSlice[string] `gorm:"column:learning_goals"`
	PreferredDifficulty string                      `gorm:"not null;default:intermediate;column:preferred_difficulty"`
	StudyStreak         int                         `gorm:"not null;default:0;column:study_streak"`
	TotalQuestionsAsked int                         `gorm:"not null;default:0;column:total_questions_asked"`
	TotalStudyTime      int                         `gorm:"not null;default:0;column:total_study_time"`
	CreatedAt           time.Time                   `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt           time.Time                   `gorm:"autoUpdateTime;column:updated_at"`
}

func (ProfileModel) TableName() string { return "user_profiles" }

func (m *ProfileModel) toDomain() *domain.UserProfile {
	return &domain.UserProfile{
		ID:                  m.ID,
		UserID:              domain.UserID(m.UserID),
		DisplayName:         m.DisplayName,
		Bio:                 m.Bio,
		AvatarURL:           m.AvatarURL,
		AcademicLevel:       domain.AcademicLevel(m.AcademicLevel),
		SubjectsOfInterest:  append([]string{}, m.SubjectsOfInterest...),
		LearningGoals:       append([]string{}, m.LearningGoals...),
		PreferredDifficulty: domain.Difficulty(m.PreferredDifficulty),
		StudyStreak:         m.StudyStreak,
		TotalQuestionsAsked: m.TotalQuestionsAsked,
		TotalStudyTime:      m.TotalStudyTime,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func toProfileModel(p *domain.UserProfile) *ProfileModel {
	return &ProfileModel{
		ID:                  p.ID,
		UserID:              string(p.UserID),
		DisplayName:         p.DisplayName,
		Bio:                 p.Bio,
		AvatarURL:           p.AvatarURL,
		AcademicLevel:       string(p.AcademicLevel),
		SubjectsOfInterest:  datatypes.NewJSONSlice(p.SubjectsOfInterest),
		LearningGoals:       datatypes.NewJSONSlice(p.LearningGoals),
		PreferredDifficulty: string(p.PreferredDifficulty),
		StudyStreak:         p.StudyStreak,
		TotalQuestionsAsked: p.TotalQuestionsAsked,
		TotalStudyTime:      p.TotalStudyTime,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

type StudySessionModel struct {
	ID             string    `gorm:"primaryKey;size:36;column:id"`
	UserID         string    `gorm:"index:idx_study_sessions_user_created,priority:1;not null;column:user_id"`
	Title          string    `gorm:"not null;column:title"`
	Subject        string    `gorm:"column:subject"`
	Duration       int       `gorm:"not null;default:0;column:duration"`
	QuestionsCount int       `gorm:"not null;default:0;column:questions_count"`
	CreatedAt      time.Time `gorm:"index:idx_study_sessions_user_created,priority:2;autoCreateTime;column:created_at"`
}

func (StudySessionModel) TableName() string { return "study_sessions" }

func (m *StudySessionModel) toDomain() *domain.StudySession {
	return &domain.StudySession{
		ID:             m.ID,
		UserID:         domain.UserID(m.UserID),
		Title:          m.Title,
		Subject:        m.Subject,
		Duration:       m.Duration,
		QuestionsCount: m.QuestionsCount,
		CreatedAt:      m.CreatedAt,
	}
}

type SavedQuestionModel struct {
	ID           string                      `gorm:"primaryKey;size:36;column:id"`
	UserID       string                      `gorm:"index:idx_saved_questions_user_created,priority:1;not null;column:user_id"`
	Question     string                      `gorm:"type:text;not null;column:question"`
	Answer       string                      `gorm:"type:text;not null;column:answer"`
	Subject      string                      `gorm:"column:subject"`
	Sources      datatypes.JSONSlice[string] `gorm:"column:sources"`
	IsBookmarked bool                        `gorm:"not null;default:false;column:is_bookmarked"`
	CreatedAt    time.Time                   `gorm:"index:idx_saved_questions_user_created,priority:2;autoCreateTime;column:created_at"`
}

func (SavedQuestionModel) TableName() string { return "saved_questions" }

func (m *SavedQuestionModel) toDomain() *domain.SavedQuestion {
	return &domain.SavedQuestion{
		ID:           domain.QuestionID(m.ID),
		UserID:       domain.UserID(m.UserID),
		Question:     m.Question,
		Answer:       m.Answer,
		Subject:      m.Subject,
		Sources:      append([]string{}, m.Sources...),
		IsBookmarked: m.IsBookmarked,
		CreatedAt:    m.CreatedAt,
	}
}

// statsRow is one row of get_user_stats.
type statsRow struct {
	TotalSessions         int64
	TotalQuestions        int64
	TotalStudyTimeMinutes int64
	CurrentStreak         int64
	LastSessionDate       *time.Time
}
