package httpadapter

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/PabloGalante/studybuddy/internal/app/auth"
	"github.com/PabloGalante/studybuddy/internal/app/conversation"
	"github.com/PabloGalante/studybuddy/internal/app/profile"
	"github.com/PabloGalante/studybuddy/internal/app/settings"
	"github.com/PabloGalante/studybuddy/internal/app/upload"
	"github.com/PabloGalante/studybuddy/internal/domain"
)

// ObjectReader serves stored objects back over HTTP. Only the in-process
// object storage of local mode needs it.
type ObjectReader interface {
	Get(path string) (data []byte, contentType string, err error)
}

type Deps struct {
	Conversations *conversation.Service
	Profiles      *profile.Service
	Auth          *auth.Service
	Images        *upload.ImageAnalyzer
	Avatars       *upload.AvatarService
	Settings      *settings.Settings
	Verifier      domain.TokenVerifier
	Objects       ObjectReader

	SubmitRate   rate.Limit
	SubmitBurst  int
	AllowOrigins []string
}

type Server struct {
	conv     *conversation.Service
	profiles *profile.Service
	auth     *auth.Service
	images   *upload.ImageAnalyzer
	avatars  *upload.AvatarService
	settings *settings.Settings
	verifier domain.TokenVerifier
	objects  ObjectReader
	limiter  *callerLimiter
}

// NewServer builds the echo instance with every route registered.
func NewServer(d Deps) *echo.Echo {
	s := &Server{
		conv:     d.Conversations,
		profiles: d.Profiles,
		auth:     d.Auth,
		images:   d.Images,
		avatars:  d.Avatars,
		settings: d.Settings,
		verifier: d.Verifier,
		objects:  d.Objects,
		limiter:  newCallerLimiter(d.SubmitRate, d.SubmitBurst),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	origins := d.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	e.Use(middleware.Recover())
	e.Use(withRequestID())
	e.Use(withLogging())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(middleware.BodyLimit(bodyLimit))

	s.registerRoutes(e)
	return e
}

func (s *Server) registerRoutes(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)

	if s.objects != nil {
		e.GET("/objects/*", s.handleGetObject)
	}

	v1 := e.Group("/v1")
	optional := s.authenticate(false)
	required := s.authenticate(true)

	// auth
	v1.POST("/auth/signup", s.handleSignUp)
	v1.POST("/auth/signin", s.handleSignIn)
	v1.POST("/auth/signout", s.handleSignOut, required)
	v1.GET("/me", s.handleMe, optional)

	// profile
	v1.GET("/profile", s.handleGetProfile, required)
	v1.POST("/profile", s.handleCreateProfile, required)
	v1.PATCH("/profile", s.handleUpdateProfile, required)
	v1.POST("/profile/avatar", s.handleUploadAvatar, required)
	v1.GET("/profile/stats", s.handleStats, required)
	v1.POST("/profile/refresh", s.handleRefreshProfile, required)
	v1.GET("/questions", s.handleListQuestions, required)
	v1.POST("/questions/:id/bookmark", s.handleBookmark, required)
	v1.GET("/study-sessions", s.handleListStudySessions, required)

	// chat sessions
	v1.POST("/sessions", s.handleCreateSession, optional)
	v1.GET("/sessions/:id", s.handleGetSession, optional)
	v1.DELETE("/sessions/:id", s.handleEndSession, optional)
	v1.POST("/sessions/:id/messages", s.handleSendMessage, optional, s.limitSubmits())
	v1.POST("/sessions/:id/messages/:mid/rating", s.handleRateMessage, optional)
	v1.POST("/sessions/:id/images", s.handleAnalyzeImage, optional)
	v1.POST("/sessions/:id/files", s.handleAttachFiles, optional)

	// settings
	v1.GET("/settings", s.handleGetSettings)
	v1.POST("/settings/dark-mode", s.handleDarkMode)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":          "ok",
		"active_sessions": s.conv.Len(),
	})
}

func (s *Server) handleGetObject(c echo.Context) error {
	data, contentType, err := s.objects.Get(c.Param("*"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Blob(http.StatusOK, contentType, data)
}
