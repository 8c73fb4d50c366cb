// Package auth validates the sign-up form, fronts the identity provider and
// broadcasts auth transitions to observers.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PabloGalante/studybuddy/internal/domain"
	"github.com/PabloGalante/studybuddy/internal/observability"
)

const (
	MinPasswordLength = 6

	MsgPasswordMismatch = "Passwords do not match"
	MsgPasswordTooShort = "Password must be at least 6 characters long"
	MsgEmailRequired    = "Email is required"
	MsgSignUpSucceeded  = "Account created successfully! Please check your email to verify your account."
	MsgGenericFailure   = "An error occurred. Please try again."
)

type SignUpInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FullName        string
}

// ValidateSignUp checks the form in the order the user sees the errors:
// confirmation mismatch first, then length.
func ValidateSignUp(in SignUpInput) error {
	if in.Password != in.ConfirmPassword {
		return domain.NewValidationError(MsgPasswordMismatch)
	}
	if len(in.Password) < MinPasswordLength {
		return domain.NewValidationError(MsgPasswordTooShort)
	}
	if strings.TrimSpace(in.Email) == "" {
		return domain.NewValidationError(MsgEmailRequired)
	}
	return nil
}

type Service struct {
	provider domain.IdentityProvider
	hub      *Hub
}

func NewService(provider domain.IdentityProvider, hub *Hub) *Service {
	if hub == nil {
		hub = NewHub()
	}
	return &Service{provider: provider, hub: hub}
}

// Subscribe registers an auth observer.
func (s *Service) Subscribe(h Handler) (unsubscribe func()) {
	return s.hub.Subscribe(h)
}

// SignUp validates the form before any call to the provider. A new account
// still has to verify its email, so no transition is published.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*domain.Identity, error) {
	if err := ValidateSignUp(in); err != nil {
		return nil, err
	}

	id, err := s.provider.SignUp(ctx, strings.TrimSpace(in.Email), in.Password, strings.TrimSpace(in.FullName))
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("sign-up failed", "error", err)
		return nil, userFacing(err)
	}

	observability.LoggerFromContext(ctx).Info("account created", "user_id", id.ID)
	return id, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.NewValidationError("Email and password are required")
	}

	sess, err := s.provider.SignIn(ctx, strings.TrimSpace(email), password)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("sign-in failed", "error", err)
		return nil, userFacing(err)
	}

	observability.LoggerFromContext(ctx).Info("signed in", "user_id", sess.Identity.ID)
	s.hub.Publish(ctx, domain.AuthChange{UserID: sess.Identity.ID, Identity: sess.Identity})
	return sess, nil
}

// SignOut ends the provider session and publishes the sign-out of userID.
func (s *Service) SignOut(ctx context.Context, accessToken string, userID domain.UserID) error {
	if err := s.provider.SignOut(ctx, accessToken); err != nil {
		observability.LoggerFromContext(ctx).Error("sign-out failed", "user_id", userID, "error", err)
		return userFacing(err)
	}

	observability.LoggerFromContext(ctx).Info("signed out", "user_id", userID)
	s.hub.Publish(ctx, domain.AuthChange{UserID: userID})
	return nil
}

// CurrentUser returns nil when the token carries no usable session. Provider
// errors are logged and treated as signed out.
func (s *Service) CurrentUser(ctx context.Context, accessToken string) *domain.Identity {
	if accessToken == "" {
		return nil
	}
	id, err := s.provider.CurrentUser(ctx, accessToken)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("current user lookup failed", "error", err)
		return nil
	}
	return id
}

func userFacing(err error) error {
	if _, ok := domain.UserMessage(err); ok {
		return err
	}
	if errors.Is(err, domain.ErrNotConfigured) {
		return err
	}
	return domain.NewCollaboratorError(MsgGenericFailure, fmt.Errorf("identity provider: %w", err))
}
