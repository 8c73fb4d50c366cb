package domain

// Identity is the signed-in account as reported by the identity provider.
type Identity struct {
	ID        UserID
	Email     string
	FullName  string
	AvatarURL string
	CreatedAt Timestamp
}

// AuthSession is returned on sign-in.
type AuthSession struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    Timestamp
	Identity     *Identity
}

// AuthChange is delivered to auth observers on every transition. Identity is
// nil when UserID signed out.
type AuthChange struct {
	UserID   UserID
	Identity *Identity
}

// SignedOut reports whether the transition ended the user's session.
func (c AuthChange) SignedOut() bool {
	return c.Identity == nil
}
