package profile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/studybuddy/internal/adapters/storage/memory"
	"github.com/PabloGalante/studybuddy/internal/app/conversation"
	"github.com/PabloGalante/studybuddy/internal/app/profile"
	"github.com/PabloGalante/studybuddy/internal/domain"
)

var errRPC = errors.New("rpc unavailable")

// brokenProcedures fails every aggregate procedure.
type brokenProcedures struct {
	*memory.Store
}

func (brokenProcedures) GetUserStats(context.Context, domain.UserID) (*domain.UserStats, error) {
	return nil, errRPC
}

func (brokenProcedures) RefreshUserProfileStats(context.Context, domain.UserID) (*domain.UserProfile, error) {
	return nil, errRPC
}

func (brokenProcedures) IncrementQuestionCount(context.Context, domain.UserID) error {
	return errRPC
}

func ptr[T any](v T) *T { return &v }

var _ conversation.Recorder = (*profile.Service)(nil)

func TestEnsureAppliesDefaults(t *testing.T) {
	ctx := context.Background()
	svc := profile.NewService(memory.NewStore())

	p, err := svc.Ensure(ctx, "u1", profile.Input{})
	require.NoError(t, err)
	assert.Equal(t, "Student", p.DisplayName)
	assert.Equal(t, domain.LevelUndergraduate, p.AcademicLevel)
	assert.Equal(t, domain.DifficultyIntermediate, p.PreferredDifficulty)
	assert.Zero(t, p.StudyStreak)
	assert.Zero(t, p.TotalQuestionsAsked)
	assert.Zero(t, p.TotalStudyTime)

	again, err := svc.Ensure(ctx, "u1", profile.Input{DisplayName: ptr("Other")})
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
	assert.Equal(t, "Student", again.DisplayName)
}

func TestCreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	svc := profile.NewService(memory.NewStore())

	p, err := svc.Create(ctx, "u1", profile.Input{
		DisplayName:        ptr("Grace"),
		AcademicLevel:      ptr(domain.LevelGraduate),
		SubjectsOfInterest: []string{"Computer Science"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace", p.DisplayName)

	p, err = svc.Update(ctx, "u1", profile.Input{Bio: ptr("compilers")})
	require.NoError(t, err)
	assert.Equal(t, "Grace", p.DisplayName)
	assert.Equal(t, "compilers", p.Bio)
	assert.Equal(t, []string{"Computer Science"}, p.SubjectsOfInterest)

	_, err = svc.Update(ctx, "u1", profile.Input{PreferredDifficulty: ptr(domain.Difficulty("expert"))})
	_, isValidation := domain.UserMessage(err)
	assert.True(t, isValidation)

	_, err = svc.Update(ctx, "missing", profile.Input{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Nil(t, svc.Find(ctx, "missing"))
	assert.NotNil(t, svc.Find(ctx, "u1"))
}

func TestRecorderUpdatesCounters(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := profile.NewService(store)
	_, err := svc.Ensure(ctx, "u1", profile.Input{})
	require.NoError(t, err)

	require.NoError(t, svc.RecordQuestion(ctx, &domain.SavedQuestion{UserID: "u1", Question: "q", Answer: "a"}))
	require.NoError(t, svc.RecordStudySession(ctx, &domain.StudySession{UserID: "u1", Duration: 7, QuestionsCount: 1}))

	p, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.TotalQuestionsAsked)
	assert.Equal(t, 7, p.TotalStudyTime)
	assert.Equal(t, 1, p.StudyStreak)

	sessions, err := svc.StudySessions(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestBookmarks(t *testing.T) {
	ctx := context.Background()
	svc := profile.NewService(memory.NewStore())

	q := &domain.SavedQuestion{UserID: "u1", Question: "why?"}
	require.NoError(t, svc.RecordQuestion(ctx, q))

	marked, err := svc.BookmarkedQuestions(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, marked)

	got, err := svc.SetBookmark(ctx, "u1", q.ID, true)
	require.NoError(t, err)
	assert.True(t, got.IsBookmarked)

	marked, err = svc.BookmarkedQuestions(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, marked, 1)

	all, err := svc.SavedQuestions(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestProcedureFailuresFallBack(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := profile.NewService(brokenProcedures{store})
	_, err := svc.Ensure(ctx, "u1", profile.Input{DisplayName: ptr("Ada")})
	require.NoError(t, err)

	assert.Equal(t, &domain.UserStats{}, svc.Stats(ctx, "u1"))

	p, err := svc.Refresh(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.DisplayName)

	_, err = svc.Refresh(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// counter failures are logged, not returned
	require.NoError(t, svc.RecordQuestion(ctx, &domain.SavedQuestion{UserID: "u1"}))
}
