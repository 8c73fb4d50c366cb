package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/studybuddy/internal/adapters/storage/memory"
	"github.com/PabloGalante/studybuddy/internal/domain"
)

func TestProfileLifecycle(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	_, err := s.GetProfile(ctx, "u1")
	require.ErrorIs(t, err, domain.ErrNotFound)

	p := &domain.UserProfile{UserID: "u1", DisplayName: "Ada", SubjectsOfInterest: []string{"Math"}}
	require.NoError(t, s.CreateProfile(ctx, p))
	assert.NotEmpty(t, p.ID)
	require.Error(t, s.CreateProfile(ctx, &domain.UserProfile{UserID: "u1"}))

	p.DisplayName = "Ada L."
	p.TotalQuestionsAsked = 99
	require.NoError(t, s.UpdateProfile(ctx, p))

	got, err := s.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", got.DisplayName)
	assert.Zero(t, got.TotalQuestionsAsked)

	got.SubjectsOfInterest[0] = "mutated"
	again, _ := s.GetProfile(ctx, "u1")
	assert.Equal(t, "Math", again.SubjectsOfInterest[0])
}

func TestQuestionsNewestFirstAndBookmarks(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := memory.NewStore().WithClock(func() time.Time { return now })

	var ids []domain.QuestionID
	for i := range 3 {
		q := &domain.SavedQuestion{UserID: "u1", Question: "q", CreatedAt: now.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, s.SaveQuestion(ctx, q))
		ids = append(ids, q.ID)
	}

	list, err := s.ListSavedQuestions(ctx, "u1", 2, false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ids[2], list[0].ID)

	_, err = s.SetBookmark(ctx, "u1", ids[0], true)
	require.NoError(t, err)
	marked, err := s.ListSavedQuestions(ctx, "u1", 0, true)
	require.NoError(t, err)
	require.Len(t, marked, 1)
	assert.Equal(t, ids[0], marked[0].ID)

	_, err = s.SetBookmark(ctx, "u2", ids[0], true)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProcedures(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	s := memory.NewStore().WithClock(func() time.Time { return now })

	require.ErrorIs(t, s.IncrementQuestionCount(ctx, "u1"), domain.ErrNotFound)
	require.NoError(t, s.CreateProfile(ctx, &domain.UserProfile{UserID: "u1"}))

	require.NoError(t, s.SaveStudySession(ctx, &domain.StudySession{UserID: "u1", Duration: 10, QuestionsCount: 2, CreatedAt: now.AddDate(0, 0, -1)}))
	require.NoError(t, s.SaveStudySession(ctx, &domain.StudySession{UserID: "u1", Duration: 5, QuestionsCount: 1}))
	require.NoError(t, s.SaveQuestion(ctx, &domain.SavedQuestion{UserID: "u1"}))

	require.NoError(t, s.IncrementQuestionCount(ctx, "u1"))
	require.NoError(t, s.UpdateStudyTime(ctx, "u1", 5))
	require.NoError(t, s.UpdateStudyStreak(ctx, "u1"))

	p, _ := s.GetProfile(ctx, "u1")
	assert.Equal(t, 1, p.TotalQuestionsAsked)
	assert.Equal(t, 5, p.TotalStudyTime)
	assert.Equal(t, 2, p.StudyStreak)

	stats, err := s.GetUserStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalSessions)
	assert.Equal(t, 1, stats.TotalQuestions)
	assert.Equal(t, 15, stats.TotalStudyTimeMinutes)
	assert.Equal(t, 2, stats.CurrentStreak)
	require.NotNil(t, stats.LastSessionDate)
	assert.Equal(t, now, *stats.LastSessionDate)

	refreshed, err := s.RefreshUserProfileStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 15, refreshed.TotalStudyTime)

	sessions, err := s.ListStudySessions(ctx, "u1", 1)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 5, sessions[0].Duration)
}
