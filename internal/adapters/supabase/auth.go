package supabase

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"

	"github.com/PabloGalante/studybuddy/internal/domain"
)

// Auth implements domain.IdentityProvider on GoTrue.
type Auth struct {
	c *Client
}

var _ domain.IdentityProvider = (*Auth)(nil)

func NewAuth(c *Client) *Auth {
	return &Auth{c: c}
}

func toIdentity(u types.User) *domain.Identity {
	meta := func(key string) string {
		s, _ := u.UserMetadata[key].(string)
		return s
	}
	return &domain.Identity{
		ID:        domain.UserID(u.ID.String()),
		Email:     u.Email,
		FullName:  meta("full_name"),
		AvatarURL: meta("avatar_url"),
		CreatedAt: u.CreatedAt,
	}
}

// SignUp creates the account. With email confirmation enabled GoTrue
// answers with the bare user; otherwise with a session wrapping it.
func (a *Auth) SignUp(ctx context.Context, email, password, fullName string) (*domain.Identity, error) {
	res, err := a.c.auth(ctx, "").Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data:     map[string]interface{}{"full_name": fullName},
	})
	if err != nil {
		return nil, userFacing(err)
	}
	return toIdentity(res.User), nil
}

func (a *Auth) SignIn(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	res, err := a.c.auth(ctx, "").SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, userFacing(err)
	}
	if res.AccessToken == "" || res.User.ID == uuid.Nil {
		return nil, domain.NewCollaboratorError("Sign-in returned no session", domain.ErrUnauthorized)
	}

	exp := time.Unix(res.ExpiresAt, 0)
	if res.ExpiresAt == 0 {
		exp = time.Now().Add(time.Duration(res.ExpiresIn) * time.Second)
	}
	return &domain.AuthSession{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresAt:    exp,
		Identity:     toIdentity(res.User),
	}, nil
}

// SignOut revokes the session. An already invalid token counts as signed out.
func (a *Auth) SignOut(ctx context.Context, accessToken string) error {
	err := a.c.auth(ctx, accessToken).Logout()
	if err != nil && !isStatus(err, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound) {
		return userFacing(err)
	}
	return nil
}

// CurrentUser returns nil, nil when the token has no live session.
func (a *Auth) CurrentUser(ctx context.Context, accessToken string) (*domain.Identity, error) {
	if accessToken == "" {
		return nil, nil
	}
	res, err := a.c.auth(ctx, accessToken).GetUser()
	if err != nil {
		if isStatus(err, http.StatusUnauthorized, http.StatusForbidden) {
			return nil, nil
		}
		return nil, err
	}
	return toIdentity(res.User), nil
}
