package domain

// UserProfile is owned by the relational store; the service only reads and
// forwards it.
type UserProfile struct {
	ID                  string
	UserID              UserID
	DisplayName         string
	Bio                 string
	AvatarURL           string
	AcademicLevel       AcademicLevel
	SubjectsOfInterest  []string
	LearningGoals       []string
	PreferredDifficulty Difficulty

	StudyStreak         int
	TotalQuestionsAsked int
	TotalStudyTime      int // minutes

	CreatedAt Timestamp
	UpdatedAt Timestamp
}

// StudySession is the write-once summary emitted when a chat session ends.
type StudySession struct {
	ID             string
	UserID         UserID
	Title          string
	Subject        string
	Duration       int // minutes
	QuestionsCount int
	CreatedAt      Timestamp
}

// SavedQuestion is written once per answered question.
type SavedQuestion struct {
	ID           QuestionID
	UserID       UserID
	Question     string
	Answer       string
	Subject      string
	Sources      []string
	IsBookmarked bool
	CreatedAt    Timestamp
}

// UserStats is the aggregate returned by the get_user_stats procedure.
type UserStats struct {
	TotalSessions         int
	TotalQuestions        int
	TotalStudyTimeMinutes int
	CurrentStreak         int
	LastSessionDate       *Timestamp
}
