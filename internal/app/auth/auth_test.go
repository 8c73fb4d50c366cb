package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/studybuddy/internal/app/auth"
	"github.com/PabloGalante/studybuddy/internal/domain"
)

type fakeProvider struct {
	calls   int
	signIn  *domain.AuthSession
	err     error
	current *domain.Identity
}

func (f *fakeProvider) SignUp(_ context.Context, email, _, fullName string) (*domain.Identity, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Identity{ID: "new", Email: email, FullName: fullName}, nil
}

func (f *fakeProvider) SignIn(context.Context, string, string) (*domain.AuthSession, error) {
	f.calls++
	return f.signIn, f.err
}

func (f *fakeProvider) SignOut(context.Context, string) error {
	f.calls++
	return f.err
}

func (f *fakeProvider) CurrentUser(context.Context, string) (*domain.Identity, error) {
	f.calls++
	return f.current, f.err
}

func userMessage(t *testing.T, err error) string {
	t.Helper()
	msg, ok := domain.UserMessage(err)
	require.True(t, ok, "expected a user-facing error, got %v", err)
	return msg
}

func TestSignUpPasswordMismatchMakesNoCall(t *testing.T) {
	p := &fakeProvider{}
	svc := auth.NewService(p, nil)

	_, err := svc.SignUp(context.Background(), auth.SignUpInput{
		Email: "a@b.c", Password: "secret1", ConfirmPassword: "secret2",
	})
	assert.Equal(t, "Passwords do not match", userMessage(t, err))
	assert.Zero(t, p.calls)
}

func TestSignUpValidationOrder(t *testing.T) {
	tests := []struct {
		name string
		in   auth.SignUpInput
		want string
	}{
		{"mismatch wins over length", auth.SignUpInput{Email: "a@b.c", Password: "abc", ConfirmPassword: "abd"}, auth.MsgPasswordMismatch},
		{"short password", auth.SignUpInput{Email: "a@b.c", Password: "abc", ConfirmPassword: "abc"}, auth.MsgPasswordTooShort},
		{"missing email", auth.SignUpInput{Password: "abcdef", ConfirmPassword: "abcdef"}, auth.MsgEmailRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, userMessage(t, auth.ValidateSignUp(tt.in)))
		})
	}
	assert.NoError(t, auth.ValidateSignUp(auth.SignUpInput{Email: "a@b.c", Password: "abcdef", ConfirmPassword: "abcdef"}))
}

func TestSignUpCallsProvider(t *testing.T) {
	p := &fakeProvider{}
	svc := auth.NewService(p, nil)

	id, err := svc.SignUp(context.Background(), auth.SignUpInput{
		Email: " ada@example.com ", Password: "secret1", ConfirmPassword: "secret1", FullName: "Ada",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", id.Email)
	assert.Equal(t, 1, p.calls)
}

func TestProviderErrorsBecomeUserFacing(t *testing.T) {
	p := &fakeProvider{err: errors.New("connection reset")}
	svc := auth.NewService(p, nil)

	_, err := svc.SignIn(context.Background(), "a@b.c", "secret1")
	assert.Equal(t, auth.MsgGenericFailure, userMessage(t, err))

	p.err = domain.NewCollaboratorError("Invalid login credentials", errors.New("400"))
	_, err = svc.SignIn(context.Background(), "a@b.c", "secret1")
	assert.Equal(t, "Invalid login credentials", userMessage(t, err))
}

func TestSignInAndOutPublishTransitions(t *testing.T) {
	ada := &domain.Identity{ID: "u1", Email: "ada@example.com"}
	p := &fakeProvider{signIn: &domain.AuthSession{AccessToken: "tok", Identity: ada}}
	svc := auth.NewService(p, nil)

	var got []domain.AuthChange
	unsubscribe := svc.Subscribe(func(_ context.Context, c domain.AuthChange) {
		got = append(got, c)
	})

	ctx := context.Background()
	_, err := svc.SignIn(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(ctx, "tok", ada.ID))

	require.Len(t, got, 2)
	assert.False(t, got[0].SignedOut())
	assert.Equal(t, ada, got[0].Identity)
	assert.True(t, got[1].SignedOut())
	assert.Equal(t, domain.UserID("u1"), got[1].UserID)

	unsubscribe()
	unsubscribe()
	_, err = svc.SignIn(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCurrentUserSwallowsErrors(t *testing.T) {
	p := &fakeProvider{err: errors.New("session expired")}
	svc := auth.NewService(p, nil)

	assert.Nil(t, svc.CurrentUser(context.Background(), "tok"))
	assert.Nil(t, svc.CurrentUser(context.Background(), ""))
	assert.Equal(t, 1, p.calls)
}

func TestHubNoReplayAndExactlyOnce(t *testing.T) {
	hub := auth.NewHub()
	ctx := context.Background()

	hub.Publish(ctx, domain.AuthChange{UserID: "before"})

	var mu sync.Mutex
	counts := map[domain.UserID]int{}
	hub.Subscribe(func(_ context.Context, c domain.AuthChange) {
		mu.Lock()
		counts[c.UserID]++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for _, id := range []domain.UserID{"a", "b", "c", "d"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Publish(ctx, domain.AuthChange{UserID: id})
		}()
	}
	wg.Wait()

	assert.Equal(t, map[domain.UserID]int{"a": 1, "b": 1, "c": 1, "d": 1}, counts)
	assert.Equal(t, 1, hub.Len())
}

func TestHubPreservesSubscriptionOrder(t *testing.T) {
	hub := auth.NewHub()
	var order []int
	for i := range 3 {
		hub.Subscribe(func(context.Context, domain.AuthChange) { order = append(order, i) })
	}
	hub.Publish(context.Background(), domain.AuthChange{UserID: "x"})
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestHubSlowHandlerDoesNotBlockOtherPublishers(t *testing.T) {
	hub := auth.NewHub()
	ctx := context.Background()

	gate := make(chan struct{})
	delivered := make(chan domain.UserID, 2)
	hub.Subscribe(func(_ context.Context, c domain.AuthChange) {
		if c.UserID == "slow" {
			<-gate
		}
		delivered <- c.UserID
	})

	go hub.Publish(ctx, domain.AuthChange{UserID: "slow"})

	done := make(chan struct{})
	go func() {
		hub.Publish(ctx, domain.AuthChange{UserID: "fast"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish waited on another publisher's handler")
	}
	assert.Equal(t, domain.UserID("fast"), <-delivered)

	close(gate)
	assert.Equal(t, domain.UserID("slow"), <-delivered)
}
