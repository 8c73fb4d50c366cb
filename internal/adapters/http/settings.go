package httpadapter

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type darkModeRequest struct {
	Enabled *bool `json:"enabled"`
}

// GET /v1/settings
func (s *Server) handleGetSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"dark_mode": s.settings.DarkMode()})
}

// POST /v1/settings/dark-mode
// Sets the preference when "enabled" is given, toggles it otherwise.
func (s *Server) handleDarkMode(c echo.Context) error {
	var req darkModeRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid JSON body")
		}
	}

	var (
		on  bool
		err error
	)
	if req.Enabled != nil {
		on = *req.Enabled
		err = s.settings.SetDarkMode(on)
	} else {
		on, err = s.settings.ToggleDarkMode()
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"dark_mode": on})
}
