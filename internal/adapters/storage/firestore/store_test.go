package firestore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/studybuddy/internal/domain"
)

// newEmulatorStore needs FIRESTORE_EMULATOR_HOST; the client picks it up.
func newEmulatorStore(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	s, err := NewStore(context.Background(), "studybuddy-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewStoreRequiresProject(t *testing.T) {
	_, err := NewStore(context.Background(), "")
	require.Error(t, err)
}

func TestStoreAgainstEmulator(t *testing.T) {
	s := newEmulatorStore(t)
	ctx := context.Background()
	uid := domain.UserID(uuid.NewString())

	_, err := s.GetProfile(ctx, uid)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, s.IncrementQuestionCount(ctx, uid), domain.ErrNotFound)

	require.NoError(t, s.CreateProfile(ctx, &domain.UserProfile{UserID: uid, DisplayName: "Student"}))
	require.NoError(t, s.SaveQuestion(ctx, &domain.SavedQuestion{UserID: uid, Question: "q", Answer: "a"}))
	require.NoError(t, s.IncrementQuestionCount(ctx, uid))
	require.NoError(t, s.SaveStudySession(ctx, &domain.StudySession{UserID: uid, Title: "t", Duration: 7}))
	require.NoError(t, s.UpdateStudyTime(ctx, uid, 7))
	require.NoError(t, s.UpdateStudyStreak(ctx, uid))

	p, err := s.GetProfile(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 1, p.TotalQuestionsAsked)
	assert.Equal(t, 7, p.TotalStudyTime)
	assert.Equal(t, 1, p.StudyStreak)

	stats, err := s.GetUserStats(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalSessions)
	assert.Equal(t, 1, stats.TotalQuestions)
}
