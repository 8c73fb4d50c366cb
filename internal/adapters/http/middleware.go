package httpadapter

import (
	"net/http"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/PabloGalante/studybuddy/internal/domain"
	"github.com/PabloGalante/studybuddy/internal/observability"
)

const (
	bodyLimit = "12M"

	ctxKeyUserID = "user_id"
	ctxKeyToken  = "access_token"

	maxTrackedCallers = 10000
)

// withRequestID tags the request context so every log line of the request
// carries the id.
func withRequestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		RequestIDHandler: func(c echo.Context, id string) {
			req := c.Request()
			c.SetRequest(req.WithContext(observability.WithRequestID(req.Context(), id)))
		},
	})
}

// withLogging logs every request once it has been served.
func withLogging() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURIPath: true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log := observability.LoggerFromContext(c.Request().Context())
			attrs := []any{
				"method", v.Method,
				"path", v.URIPath,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			log.Info("http request", attrs...)
			return nil
		},
	})
}

// authenticate resolves the bearer token to a user id. With required unset
// a missing or invalid token lets the request through anonymously.
func (s *Server) authenticate(required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request())
			if token == "" {
				if required {
					return writeError(c, domain.ErrUnauthorized)
				}
				return next(c)
			}

			userID, err := s.verifier.Verify(token)
			if err != nil {
				observability.LoggerFromContext(c.Request().Context()).Debug("token rejected", "error", err)
				if required {
					return writeError(c, err)
				}
				return next(c)
			}

			c.Set(ctxKeyUserID, userID)
			c.Set(ctxKeyToken, token)
			return next(c)
		}
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get(echo.HeaderAuthorization)
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// callerID is the authenticated user, or empty for anonymous requests.
func callerID(c echo.Context) domain.UserID {
	id, _ := c.Get(ctxKeyUserID).(domain.UserID)
	return id
}

func accessToken(c echo.Context) string {
	t, _ := c.Get(ctxKeyToken).(string)
	return t
}

// callerLimiter keeps one token bucket per caller.
type callerLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	callers map[string]*rate.Limiter
}

func newCallerLimiter(limit rate.Limit, burst int) *callerLimiter {
	if limit <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return &callerLimiter{
		limit:   limit,
		burst:   burst,
		callers: make(map[string]*rate.Limiter),
	}
}

func (l *callerLimiter) allow(key string) bool {
	l.mu.Lock()
	lim, ok := l.callers[key]
	if !ok {
		if len(l.callers) >= maxTrackedCallers {
			clear(l.callers)
		}
		lim = rate.NewLimiter(l.limit, l.burst)
		l.callers[key] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// limitSubmits throttles message submission per user, or per client IP for
// anonymous callers. It must run after authenticate.
func (s *Server) limitSubmits() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "ip:" + c.RealIP()
			if id := callerID(c); id != "" {
				key = "user:" + string(id)
			}
			if !s.limiter.allow(key) {
				observability.LoggerFromContext(c.Request().Context()).Warn("submit rate limited", "caller", key)
				return c.JSON(http.StatusTooManyRequests, errorResponse{Error: "Too many messages. Please wait a moment and try again."})
			}
			return next(c)
		}
	}
}
