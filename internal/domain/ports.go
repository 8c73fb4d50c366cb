package domain

import "context"

// GenerationRequest is what the orchestrator hands to the text generator.
type GenerationRequest struct {
	Prompt  string
	Uploads []Upload
	Profile *UserProfile
}

// LLMClient generates the assistant answer for a composite prompt.
type LLMClient interface {
	GenerateReply(ctx context.Context, req GenerationRequest) (string, error)
}

// OCRResult is the text recovered from an image.
type OCRResult struct {
	Text         string
	DocumentType string
	Confidence   float64
}

// OCRClient extracts text from image bytes.
type OCRClient interface {
	AnalyzeImage(ctx context.Context, image []byte) (*OCRResult, error)
	AnalyzeHandwriting(ctx context.Context, image []byte) (*OCRResult, error)
}

// IdentityProvider is the hosted auth collaborator.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password, fullName string) (*Identity, error)
	SignIn(ctx context.Context, email, password string) (*AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
	// CurrentUser returns nil, nil when the token carries no session.
	CurrentUser(ctx context.Context, accessToken string) (*Identity, error)
}

// TokenVerifier resolves a bearer token to a user id without a network call.
type TokenVerifier interface {
	Verify(token string) (UserID, error)
}

// ObjectStorage stores binary objects such as avatars.
type ObjectStorage interface {
	Put(ctx context.Context, path, contentType string, data []byte) (publicURL string, err error)
	Remove(ctx context.Context, path string) error
}

// ProfileStore persists user profiles.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID UserID) (*UserProfile, error)
	CreateProfile(ctx context.Context, profile *UserProfile) error
	UpdateProfile(ctx context.Context, profile *UserProfile) error
	UpdateAvatar(ctx context.Context, userID UserID, avatarURL string) (*UserProfile, error)
}

// RecordStore persists study sessions and saved questions.
type RecordStore interface {
	SaveStudySession(ctx context.Context, session *StudySession) error
	ListStudySessions(ctx context.Context, userID UserID, limit int) ([]*StudySession, error)
	SaveQuestion(ctx context.Context, q *SavedQuestion) error
	ListSavedQuestions(ctx context.Context, userID UserID, limit int, bookmarkedOnly bool) ([]*SavedQuestion, error)
	SetBookmark(ctx context.Context, userID UserID, id QuestionID, bookmarked bool) (*SavedQuestion, error)
}

// StatsProcedures are the server-side aggregate functions of the store.
type StatsProcedures interface {
	GetUserStats(ctx context.Context, userID UserID) (*UserStats, error)
	RefreshUserProfileStats(ctx context.Context, userID UserID) (*UserProfile, error)
	UpdateStudyStreak(ctx context.Context, userID UserID) error
	IncrementQuestionCount(ctx context.Context, userID UserID) error
	UpdateStudyTime(ctx context.Context, userID UserID, minutes int) error
}

// Store is the full relational collaborator.
type Store interface {
	ProfileStore
	RecordStore
	StatsProcedures
}
