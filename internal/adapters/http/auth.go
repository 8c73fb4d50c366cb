package httpadapter

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/PabloGalante/studybuddy/internal/app/auth"
	"github.com/PabloGalante/studybuddy/internal/app/navigation"
)

type signUpRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FullName        string `json:"full_name"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time         `json:"expires_at"`
	User         *identityResponse `json:"user"`
	Screen       navigation.Screen `json:"screen"`
}

type meResponse struct {
	SignedIn bool              `json:"signed_in"`
	User     *identityResponse `json:"user,omitempty"`
	Profile  *profileResponse  `json:"profile,omitempty"`
	Screen   navigation.Screen `json:"screen"`
}

// POST /v1/auth/signup
func (s *Server) handleSignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}

	id, err := s.auth.SignUp(c.Request().Context(), auth.SignUpInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FullName:        req.FullName,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"user":    toIdentityResponse(id),
		"message": auth.MsgSignUpSucceeded,
	})
}

// POST /v1/auth/signin
func (s *Server) handleSignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}

	ctx := c.Request().Context()
	sess, err := s.auth.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	hasProfile := s.profiles.Find(ctx, sess.Identity.ID) != nil
	return c.JSON(http.StatusOK, signInResponse{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		ExpiresAt:    sess.ExpiresAt,
		User:         toIdentityResponse(sess.Identity),
		Screen:       navigation.Resume(true, hasProfile).Screen(),
	})
}

// POST /v1/auth/signout
func (s *Server) handleSignOut(c echo.Context) error {
	if err := s.auth.SignOut(c.Request().Context(), accessToken(c), callerID(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"signed_in": false,
		"screen":    navigation.ScreenLanding,
	})
}

// GET /v1/me
// Answers for anonymous callers too; the screen hint is where the client
// should land.
func (s *Server) handleMe(c echo.Context) error {
	ctx := c.Request().Context()

	id := s.auth.CurrentUser(ctx, accessToken(c))
	if id == nil {
		return c.JSON(http.StatusOK, meResponse{Screen: navigation.Resume(false, false).Screen()})
	}

	p := s.profiles.Find(ctx, id.ID)
	return c.JSON(http.StatusOK, meResponse{
		SignedIn: true,
		User:     toIdentityResponse(id),
		Profile:  toProfileResponse(p),
		Screen:   navigation.Resume(true, p != nil).Screen(),
	})
}
