package identity

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/PabloGalante/studybuddy/internal/domain"
)

const (
	MsgInvalidCredentials = "Invalid login credentials"
	MsgAlreadyRegistered  = "User already registered"
)

type account struct {
	identity domain.Identity
	hash     []byte
}

// LocalProvider is an in-memory domain.IdentityProvider for local mode.
// Accounts are usable right after sign-up; there is no email verification.
type LocalProvider struct {
	tokens *Tokens

	mu       sync.RWMutex
	accounts map[string]*account // by lower-cased email
	byID     map[domain.UserID]*account
	revoked  map[string]time.Time // token id -> expiry
}

var _ domain.IdentityProvider = (*LocalProvider)(nil)

func NewLocalProvider(tokens *Tokens) *LocalProvider {
	return &LocalProvider{
		tokens:   tokens,
		accounts: make(map[string]*account),
		byID:     make(map[domain.UserID]*account),
		revoked:  make(map[string]time.Time),
	}
}

func (p *LocalProvider) SignUp(_ context.Context, email, password, fullName string) (*domain.Identity, error) {
	key := strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewCollaboratorError("Unable to create account", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.accounts[key]; exists {
		return nil, domain.NewCollaboratorError(MsgAlreadyRegistered, nil)
	}

	acc := &account{
		identity: domain.Identity{
			ID:        domain.UserID(uuid.NewString()),
			Email:     key,
			FullName:  fullName,
			CreatedAt: p.tokens.now(),
		},
		hash: hash,
	}
	p.accounts[key] = acc
	p.byID[acc.identity.ID] = acc

	id := acc.identity
	return &id, nil
}

func (p *LocalProvider) SignIn(_ context.Context, email, password string) (*domain.AuthSession, error) {
	p.mu.RLock()
	acc, ok := p.accounts[strings.ToLower(strings.TrimSpace(email))]
	p.mu.RUnlock()

	if !ok || bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
		return nil, domain.NewCollaboratorError(MsgInvalidCredentials, domain.ErrUnauthorized)
	}

	id := acc.identity
	token, exp, err := p.tokens.Issue(&id)
	if err != nil {
		return nil, err
	}
	return &domain.AuthSession{AccessToken: token, ExpiresAt: exp, Identity: &id}, nil
}

// SignOut revokes the token. An invalid token is already signed out.
func (p *LocalProvider) SignOut(_ context.Context, accessToken string) error {
	claims, err := p.tokens.Parse(accessToken)
	if err != nil {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.tokens.now()
	for jti, exp := range p.revoked {
		if exp.Before(now) {
			delete(p.revoked, jti)
		}
	}
	p.revoked[claims.ID] = claims.ExpiresAt.Time
	return nil
}

// CurrentUser returns nil, nil for a missing, invalid or revoked token.
func (p *LocalProvider) CurrentUser(_ context.Context, accessToken string) (*domain.Identity, error) {
	claims, err := p.tokens.Parse(accessToken)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil, nil
		}
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if _, gone := p.revoked[claims.ID]; gone {
		return nil, nil
	}
	acc, ok := p.byID[domain.UserID(claims.Subject)]
	if !ok {
		return nil, nil
	}
	id := acc.identity
	return &id, nil
}

// Verify implements domain.TokenVerifier and also rejects revoked tokens.
func (p *LocalProvider) Verify(token string) (domain.UserID, error) {
	claims, err := p.tokens.Parse(token)
	if err != nil {
		return "", err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if _, gone := p.revoked[claims.ID]; gone {
		return "", errors.Join(domain.ErrUnauthorized, errors.New("token revoked"))
	}
	return domain.UserID(claims.Subject), nil
}
