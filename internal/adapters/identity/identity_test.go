package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/studybuddy/internal/adapters/identity"
	"github.com/PabloGalante/studybuddy/internal/domain"
)

func TestTokensRoundTrip(t *testing.T) {
	tokens := identity.NewTokens("s3cret", time.Hour)

	tok, exp, err := tokens.Issue(&domain.Identity{ID: "u1", Email: "a@b.c"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	uid, err := tokens.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("u1"), uid)

	_, err = identity.NewTokens("other", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = tokens.Verify("")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLocalProviderFlow(t *testing.T) {
	ctx := context.Background()
	p := identity.NewLocalProvider(identity.NewTokens("s3cret", time.Hour))

	id, err := p.SignUp(ctx, "Ada@Example.com", "secret1", "Ada")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", id.Email)

	_, err = p.SignUp(ctx, "ada@example.com", "secret1", "Ada")
	msg, ok := domain.UserMessage(err)
	require.True(t, ok)
	assert.Equal(t, identity.MsgAlreadyRegistered, msg)

	_, err = p.SignIn(ctx, "ada@example.com", "wrong")
	msg, _ = domain.UserMessage(err)
	assert.Equal(t, identity.MsgInvalidCredentials, msg)

	sess, err := p.SignIn(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, id.ID, sess.Identity.ID)

	cur, err := p.CurrentUser(ctx, sess.AccessToken)
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, "Ada", cur.FullName)

	uid, err := p.Verify(sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, id.ID, uid)

	require.NoError(t, p.SignOut(ctx, sess.AccessToken))
	cur, err = p.CurrentUser(ctx, sess.AccessToken)
	require.NoError(t, err)
	assert.Nil(t, cur)
	_, err = p.Verify(sess.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	cur, err = p.CurrentUser(ctx, "garbage")
	require.NoError(t, err)
	assert.Nil(t, cur)
}
