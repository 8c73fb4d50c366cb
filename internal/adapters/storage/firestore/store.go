// Package firestore is the document-store backend. Firestore has no stored
// procedures, so the aggregate procedures run here against the documents.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/studybuddy/internal/domain"
)

type Store struct {
	client *firestore.Client
	now    func() time.Time
}

var _ domain.Store = (*Store)(nil)

// NewStore creates a Firestore store on the project passed
// (STUDYBUDDY_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) profileDoc(userID domain.UserID) *firestore.DocumentRef {
	return s.client.Collection("user_profiles").Doc(string(userID))
}

func (s *Store) sessionsCol() *firestore.CollectionRef {
	return s.client.Collection("study_sessions")
}

func (s *Store) questionsCol() *firestore.CollectionRef {
	return s.client.Collection("saved_questions")
}

func wrap(op string, err error) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("firestore %s: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("firestore %s: %w", op, err)
}

// each runs fn for every document of q.
func each(ctx context.Context, q firestore.Query, fn func(*firestore.DocumentSnapshot) error) error {
	iter := q.Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(snap); err != nil {
			return err
		}
	}
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type profileDoc struct {
	ID                  string    `firestore:"id"`
	UserID              string    `firestore:"user_id"`
	DisplayName         string    `firestore:"display_name"`
	Bio                 string    `firestore:"bio"`
	AvatarURL           string    `firestore:"avatar_url"`
	AcademicLevel       string    `firestore:"academic_level"`
	SubjectsOfInterest  []string  `firestore:"subjects_of_interest"`
	LearningGoals       []string  `firestore:"learning_goals"`
	PreferredDifficulty string    `firestore:"preferred_difficulty"`
	StudyStreak         int       `firestore:"study_streak"`
	TotalQuestionsAsked int       `firestore:"total_questions_asked"`
	TotalStudyTime      int       `firestore:"total_study_time"`
	CreatedAt           time.Time `firestore:"created_at"`
	UpdatedAt           time.Time `firestore:"updated_at"`
}

func (d *profileDoc) toDomain() *domain.UserProfile {
	return &domain.UserProfile{
		ID:                  d.ID,
		UserID:              domain.UserID(d.UserID),
		DisplayName:         d.DisplayName,
		Bio:                 d.Bio,
		AvatarURL:           d.AvatarURL,
		AcademicLevel:       domain.AcademicLevel(d.AcademicLevel),
		SubjectsOfInterest:  d.SubjectsOfInterest,
		LearningGoals:       d.LearningGoals,
		PreferredDifficulty: domain.Difficulty(d.PreferredDifficulty),
		StudyStreak:         d.StudyStreak,
		TotalQuestionsAsked: d.TotalQuestionsAsked,
		TotalStudyTime:      d.TotalStudyTime,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}

type studySessionDoc struct {
	UserID         string    `firestore:"user_id"`
	Title          string    `firestore:"title"`
	Subject        string    `firestore:"subject"`
	Duration       int       `firestore:"duration"`
	QuestionsCount int       `firestore:"questions_count"`
	CreatedAt      time.Time `firestore:"created_at"`
}

type questionDoc struct {
	UserID       string    `firestore:"user_id"`
	Question     string    `firestore:"question"`
	Answer       string    `firestore:"answer"`
	Subject      string    `firestore:"subject"`
	Sources      []string  `firestore:"sources"`
	IsBookmarked bool      `firestore:"is_bookmarked"`
	CreatedAt    time.Time `firestore:"created_at"`
}

func (d *questionDoc) toDomain(id string) *domain.SavedQuestion {
	return &domain.SavedQuestion{
		ID:           domain.QuestionID(id),
		UserID:       domain.UserID(d.UserID),
		Question:     d.Question,
		Answer:       d.Answer,
		Subject:      d.Subject,
		Sources:      d.Sources,
		IsBookmarked: d.IsBookmarked,
		CreatedAt:    d.CreatedAt,
	}
}

// ─────────────────────────────────────────
// ProfileStore implementation
// ─────────────────────────────────────────

func (s *Store) GetProfile(ctx context.Context, userID domain.UserID) (*domain.UserProfile, error) {
	snap, err := s.profileDoc(userID).Get(ctx)
	if err != nil {
		return nil, wrap("GetProfile", err)
	}

	var doc profileDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetProfile decode: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *Store) CreateProfile(ctx context.Context, profile *domain.UserProfile) error {
	now := s.now()
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	profile.CreatedAt = now
	profile.UpdatedAt = now

	doc := profileDoc{
		ID:                  profile.ID,
		UserID:              string(profile.UserID),
		DisplayName:         profile.DisplayName,
		Bio:                 profile.Bio,
		AvatarURL:           profile.AvatarURL,
		AcademicLevel:       string(profile.AcademicLevel),
		SubjectsOfInterest:  profile.SubjectsOfInterest,
		LearningGoals:       profile.LearningGoals,
		PreferredDifficulty: string(profile.PreferredDifficulty),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if _, err := s.profileDoc(profile.UserID).Create(ctx, doc); err != nil {
		return fmt.Errorf("firestore CreateProfile: %w", err)
	}
	return nil
}

// UpdateProfile writes the editable fields. Update fails with NotFound on a
// missing document.
func (s *Store) UpdateProfile(ctx context.Context, profile *domain.UserProfile) error {
	_, err := s.profileDoc(profile.UserID).Update(ctx, []firestore.Update{
		{Path: "display_name", Value: profile.DisplayName},
		{Path: "bio", Value: profile.Bio},
		{Path: "academic_level", Value: string(profile.AcademicLevel)},
		{Path: "subjects_of_interest", Value: profile.SubjectsOfInterest},
		{Path: "learning_goals", Value: profile.LearningGoals},
		{Path: "preferred_difficulty", Value: string(profile.PreferredDifficulty)},
		{Path: "updated_at", Value: s.now()},
	})
	if err != nil {
		return wrap("UpdateProfile", err)
	}

	updated, err := s.GetProfile(ctx, profile.UserID)
	if err != nil {
		return err
	}
	*profile = *updated
	return nil
}

func (s *Store) UpdateAvatar(ctx context.Context, userID domain.UserID, avatarURL string) (*domain.UserProfile, error) {
	_, err := s.profileDoc(userID).Update(ctx, []firestore.Update{
		{Path: "avatar_url", Value: avatarURL},
		{Path: "updated_at", Value: s.now()},
	})
	if err != nil {
		return nil, wrap("UpdateAvatar", err)
	}
	return s.GetProfile(ctx, userID)
}

// ─────────────────────────────────────────
// RecordStore implementation
// ─────────────────────────────────────────

func (s *Store) SaveStudySession(ctx context.Context, session *domain.StudySession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = s.now()
	}

	doc := studySessionDoc{
		UserID:         string(session.UserID),
		Title:          session.Title,
		Subject:        session.Subject,
		Duration:       session.Duration,
		QuestionsCount: session.QuestionsCount,
		CreatedAt:      session.CreatedAt,
	}
	if _, err := s.sessionsCol().Doc(session.ID).Create(ctx, doc); err != nil {
		return fmt.Errorf("firestore SaveStudySession: %w", err)
	}
	return nil
}

func (s *Store) ListStudySessions(ctx context.Context, userID domain.UserID, limit int) ([]*domain.StudySession, error) {
	q := s.sessionsCol().Where("user_id", "==", string(userID)).OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []*domain.StudySession
	err := each(ctx, q, func(snap *firestore.DocumentSnapshot) error {
		var doc studySessionDoc
		if err := snap.DataTo(&doc); err != nil {
			return fmt.Errorf("decode studySessionDoc: %w", err)
		}
		out = append(out, &domain.StudySession{
			ID:             snap.Ref.ID,
			UserID:         domain.UserID(doc.UserID),
			Title:          doc.Title,
			Subject:        doc.Subject,
			Duration:       doc.Duration,
			QuestionsCount: doc.QuestionsCount,
			CreatedAt:      doc.CreatedAt,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("firestore ListStudySessions: %w", err)
	}
	return out, nil
}

func (s *Store) SaveQuestion(ctx context.Context, q *domain.SavedQuestion) error {
	if q.ID == "" {
		q.ID = domain.QuestionID(uuid.NewString())
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = s.now()
	}

	doc := questionDoc{
		UserID:       string(q.UserID),
		Question:     q.Question,
		Answer:       q.Answer,
		Subject:      q.Subject,
		Sources:      q.Sources,
		IsBookmarked: q.IsBookmarked,
		CreatedAt:    q.CreatedAt,
	}
	if _, err := s.questionsCol().Doc(string(q.ID)).Create(ctx, doc); err != nil {
		return fmt.Errorf("firestore SaveQuestion: %w", err)
	}
	return nil
}

func (s *Store) ListSavedQuestions(ctx context.Context, userID domain.UserID, limit int, bookmarkedOnly bool) ([]*domain.SavedQuestion, error) {
	q := s.questionsCol().Where("user_id", "==", string(userID))
	if bookmarkedOnly {
		q = q.Where("is_bookmarked", "==", true)
	}
	q = q.OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []*domain.SavedQuestion
	err := each(ctx, q, func(snap *firestore.DocumentSnapshot) error {
		var doc questionDoc
		if err := snap.DataTo(&doc); err != nil {
			return fmt.Errorf("decode questionDoc: %w", err)
		}
		out = append(out, doc.toDomain(snap.Ref.ID))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("firestore ListSavedQuestions: %w", err)
	}
	return out, nil
}

// SetBookmark only touches questions owned by userID; anything else reads
// as not found.
func (s *Store) SetBookmark(ctx context.Context, userID domain.UserID, id domain.QuestionID, bookmarked bool) (*domain.SavedQuestion, error) {
	ref := s.questionsCol().Doc(string(id))

	var out *domain.SavedQuestion
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var doc questionDoc
		if err := snap.DataTo(&doc); err != nil {
			return err
		}
		if doc.UserID != string(userID) {
			return status.Error(codes.NotFound, "question not owned by caller")
		}
		doc.IsBookmarked = bookmarked
		out = doc.toDomain(ref.ID)
		return tx.Update(ref, []firestore.Update{{Path: "is_bookmarked", Value: bookmarked}})
	})
	if err != nil {
		return nil, wrap("SetBookmark", err)
	}
	return out, nil
}

// ─────────────────────────────────────────
// StatsProcedures implementation
// ─────────────────────────────────────────

func (s *Store) sessionStats(ctx context.Context, userID domain.UserID) (count, minutes int, dates []time.Time, err error) {
	q := s.sessionsCol().Where("user_id", "==", string(userID))
	err = each(ctx, q, func(snap *firestore.DocumentSnapshot) error {
		var doc studySessionDoc
		if err := snap.DataTo(&doc); err != nil {
			return fmt.Errorf("decode studySessionDoc: %w", err)
		}
		count++
		minutes += doc.Duration
		dates = append(dates, doc.CreatedAt)
		return nil
	})
	return count, minutes, dates, err
}

func (s *Store) questionCount(ctx context.Context, userID domain.UserID) (int, error) {
	n := 0
	q := s.questionsCol().Where("user_id", "==", string(userID)).Select()
	err := each(ctx, q, func(*firestore.DocumentSnapshot) error {
		n++
		return nil
	})
	return n, err
}

func (s *Store) GetUserStats(ctx context.Context, userID domain.UserID) (*domain.UserStats, error) {
	sessions, minutes, dates, err := s.sessionStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("firestore GetUserStats: %w", err)
	}
	questions, err := s.questionCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("firestore GetUserStats: %w", err)
	}

	stats := &domain.UserStats{
		TotalSessions:         sessions,
		TotalQuestions:        questions,
		TotalStudyTimeMinutes: minutes,
	}
	for _, d := range dates {
		if stats.LastSessionDate == nil || d.After(*stats.LastSessionDate) {
			last := d
			stats.LastSessionDate = &last
		}
	}

	p, err := s.GetProfile(ctx, userID)
	switch {
	case err == nil:
		stats.CurrentStreak = p.StudyStreak
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}
	return stats, nil
}

func (s *Store) RefreshUserProfileStats(ctx context.Context, userID domain.UserID) (*domain.UserProfile, error) {
	_, minutes, dates, err := s.sessionStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("firestore RefreshUserProfileStats: %w", err)
	}
	questions, err := s.questionCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("firestore RefreshUserProfileStats: %w", err)
	}

	now := s.now()
	_, err = s.profileDoc(userID).Update(ctx, []firestore.Update{
		{Path: "total_questions_asked", Value: questions},
		{Path: "total_study_time", Value: minutes},
		{Path: "study_streak", Value: domain.StudyStreak(dates, now, time.UTC)},
		{Path: "updated_at", Value: now},
	})
	if err != nil {
		return nil, wrap("RefreshUserProfileStats", err)
	}
	return s.GetProfile(ctx, userID)
}

func (s *Store) UpdateStudyStreak(ctx context.Context, userID domain.UserID) error {
	_, _, dates, err := s.sessionStats(ctx, userID)
	if err != nil {
		return fmt.Errorf("firestore UpdateStudyStreak: %w", err)
	}

	now := s.now()
	_, err = s.profileDoc(userID).Update(ctx, []firestore.Update{
		{Path: "study_streak", Value: domain.StudyStreak(dates, now, time.UTC)},
		{Path: "updated_at", Value: now},
	})
	if err != nil {
		return wrap("UpdateStudyStreak", err)
	}
	return nil
}

func (s *Store) IncrementQuestionCount(ctx context.Context, userID domain.UserID) error {
	_, err := s.profileDoc(userID).Update(ctx, []firestore.Update{
		{Path: "total_questions_asked", Value: firestore.Increment(1)},
		{Path: "updated_at", Value: s.now()},
	})
	if err != nil {
		return wrap("IncrementQuestionCount", err)
	}
	return nil
}

func (s *Store) UpdateStudyTime(ctx context.Context, userID domain.UserID, minutes int) error {
	_, err := s.profileDoc(userID).Update(ctx, []firestore.Update{
		{Path: "total_study_time", Value: firestore.Increment(minutes)},
		{Path: "updated_at", Value: s.now()},
	})
	if err != nil {
		return wrap("UpdateStudyTime", err)
	}
	return nil
}
