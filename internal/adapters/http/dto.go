package httpadapter

import (
	"time"

	"github.com/PabloGalante/studybuddy/internal/app/conversation"
	"github.com/PabloGalante/studybuddy/internal/domain"
)

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type messageResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Sources   []string  `json:"sources,omitempty"`
	FollowUps []string  `json:"follow_ups,omitempty"`
	Rating    string    `json:"rating,omitempty"`
}

type uploadResponse struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type sessionResponse struct {
	ID            string            `json:"id"`
	Subject       string            `json:"subject"`
	Title         string            `json:"title"`
	State         string            `json:"state"`
	Banner        string            `json:"banner,omitempty"`
	QuestionCount int               `json:"question_count"`
	StartedAt     time.Time         `json:"started_at"`
	Uploads       []uploadResponse  `json:"uploads"`
	Messages      []messageResponse `json:"messages"`
}

type studySessionResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Subject        string    `json:"subject"`
	Duration       int       `json:"duration"`
	QuestionsCount int       `json:"questions_count"`
	CreatedAt      time.Time `json:"created_at"`
}

type questionResponse struct {
	ID           string    `json:"id"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	Subject      string    `json:"subject"`
	Sources      []string  `json:"sources"`
	IsBookmarked bool      `json:"is_bookmarked"`
	CreatedAt    time.Time `json:"created_at"`
}

type profileResponse struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"user_id"`
	DisplayName         string    `json:"display_name"`
	Bio                 string    `json:"bio"`
	AvatarURL           string    `json:"avatar_url"`
	AcademicLevel       string    `json:"academic_level"`
	SubjectsOfInterest  []string  `json:"subjects_of_interest"`
	LearningGoals       []string  `json:"learning_goals"`
	PreferredDifficulty string    `json:"preferred_difficulty"`
	StudyStreak         int       `json:"study_streak"`
	TotalQuestionsAsked int       `json:"total_questions_asked"`
	TotalStudyTime      int       `json:"total_study_time"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type statsResponse struct {
	TotalSessions         int        `json:"total_sessions"`
	TotalQuestions        int        `json:"total_questions"`
	TotalStudyTimeMinutes int        `json:"total_study_time_minutes"`
	CurrentStreak         int        `json:"current_streak"`
	LastSessionDate       *time.Time `json:"last_session_date"`
}

type identityResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ─────────────────────────────────────────────
// Conversion helpers
// ─────────────────────────────────────────────

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:        string(m.ID),
		Role:      string(m.Role),
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
		Sources:   m.Sources,
		FollowUps: m.FollowUps,
		Rating:    string(m.Rating),
	}
}

func toSessionResponse(s *conversation.Session) sessionResponse {
	msgs := s.Messages()
	out := sessionResponse{
		ID:            string(s.ID()),
		Subject:       s.Subject(),
		Title:         s.Title(),
		State:         string(s.State()),
		Banner:        s.Banner(),
		QuestionCount: s.QuestionCount(),
		StartedAt:     s.StartedAt(),
		Uploads:       make([]uploadResponse, 0),
		Messages:      make([]messageResponse, 0, len(msgs)),
	}
	for _, u := range s.Uploads() {
		out.Uploads = append(out.Uploads, uploadResponse{Name: u.Name, ContentType: u.ContentType, Size: u.Size})
	}
	for _, m := range msgs {
		out.Messages = append(out.Messages, toMessageResponse(m))
	}
	return out
}

func toStudySessionResponse(s *domain.StudySession) studySessionResponse {
	return studySessionResponse{
		ID:             s.ID,
		Title:          s.Title,
		Subject:        s.Subject,
		Duration:       s.Duration,
		QuestionsCount: s.QuestionsCount,
		CreatedAt:      s.CreatedAt,
	}
}

func toQuestionResponse(q *domain.SavedQuestion) questionResponse {
	sources := q.Sources
	if sources == nil {
		sources = []string{}
	}
	return questionResponse{
		ID:           string(q.ID),
		Question:     q.Question,
		Answer:       q.Answer,
		Subject:      q.Subject,
		Sources:      sources,
		IsBookmarked: q.IsBookmarked,
		CreatedAt:    q.CreatedAt,
	}
}

func toProfileResponse(p *domain.UserProfile) *profileResponse {
	if p == nil {
		return nil
	}
	orEmpty := func(s []string) []string {
		if s == nil {
			return []string{}
		}
		return s
	}
	return &profileResponse{
		ID:                  p.ID,
		UserID:              string(p.UserID),
		DisplayName:         p.DisplayName,
		Bio:                 p.Bio,
		AvatarURL:           p.AvatarURL,
		AcademicLevel:       string(p.AcademicLevel),
		SubjectsOfInterest:  orEmpty(p.SubjectsOfInterest),
		LearningGoals:       orEmpty(p.LearningGoals),
		PreferredDifficulty: string(p.PreferredDifficulty),
		StudyStreak:         p.StudyStreak,
		TotalQuestionsAsked: p.TotalQuestionsAsked,
		TotalStudyTime:      p.TotalStudyTime,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func toIdentityResponse(id *domain.Identity) *identityResponse {
	if id == nil {
		return nil
	}
	return &identityResponse{
		ID:        string(id.ID),
		Email:     id.Email,
		FullName:  id.FullName,
		AvatarURL: id.AvatarURL,
		CreatedAt: id.CreatedAt,
	}
}
