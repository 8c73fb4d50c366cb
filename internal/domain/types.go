package domain

import "time"

type SessionID string
type UserID string
type MessageID string
type QuestionID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleError     Role = "error"
)

type Rating string

const (
	RatingNone Rating = ""
	RatingUp   Rating = "up"
	RatingDown Rating = "down"
)

// ParseRating accepts "up" and "down"; anything else is rejected.
func ParseRating(s string) (Rating, bool) {
	switch Rating(s) {
	case RatingUp, RatingDown:
		return Rating(s), true
	default:
		return RatingNone, false
	}
}

type AcademicLevel string

const (
	LevelHighSchool    AcademicLevel = "high_school"
	LevelUndergraduate AcademicLevel = "undergraduate"
	LevelGraduate      AcademicLevel = "graduate"
	LevelProfessional  AcademicLevel = "professional"
	LevelOther         AcademicLevel = "other"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

type Timestamp = time.Time
