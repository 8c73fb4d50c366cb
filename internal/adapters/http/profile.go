package httpadapter

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/PabloGalante/studybuddy/internal/app/profile"
	"github.com/PabloGalante/studybuddy/internal/app/upload"
	"github.com/PabloGalante/studybuddy/internal/domain"
)

type profileRequest struct {
	DisplayName         *string  `json:"display_name"`
	Bio                 *string  `json:"bio"`
	AcademicLevel       *string  `json:"academic_level"`
	SubjectsOfInterest  []string `json:"subjects_of_interest"`
	LearningGoals       []string `json:"learning_goals"`
	PreferredDifficulty *string  `json:"preferred_difficulty"`
}

func (r profileRequest) toInput() profile.Input {
	in := profile.Input{
		DisplayName:        r.DisplayName,
		Bio:                r.Bio,
		SubjectsOfInterest: r.SubjectsOfInterest,
		LearningGoals:      r.LearningGoals,
	}
	if r.AcademicLevel != nil {
		lvl := domain.AcademicLevel(*r.AcademicLevel)
		in.AcademicLevel = &lvl
	}
	if r.PreferredDifficulty != nil {
		d := domain.Difficulty(*r.PreferredDifficulty)
		in.PreferredDifficulty = &d
	}
	return in
}

type bookmarkRequest struct {
	Bookmarked *bool `json:"bookmarked"`
}

// GET /v1/profile
func (s *Server) handleGetProfile(c echo.Context) error {
	p, err := s.profiles.Get(c.Request().Context(), callerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toProfileResponse(p))
}

// POST /v1/profile
// Completes profile setup. An existing profile is returned unchanged.
func (s *Server) handleCreateProfile(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}

	p, err := s.profiles.Ensure(c.Request().Context(), callerID(c), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toProfileResponse(p))
}

// PATCH /v1/profile
func (s *Server) handleUpdateProfile(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}

	p, err := s.profiles.Update(c.Request().Context(), callerID(c), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toProfileResponse(p))
}

// POST /v1/profile/avatar (multipart, field "file")
func (s *Server) handleUploadAvatar(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, upload.MsgInvalidAvatar)
	}

	file := domain.Upload{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
	}
	// oversized files are rejected by the service without reading them
	if fh.Size <= upload.MaxAvatarBytes {
		if file.Data, err = readFile(fh); err != nil {
			return writeError(c, err)
		}
	}

	p, err := s.avatars.Upload(c.Request().Context(), callerID(c), file)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toProfileResponse(p))
}

// GET /v1/profile/stats
func (s *Server) handleStats(c echo.Context) error {
	st := s.profiles.Stats(c.Request().Context(), callerID(c))
	return c.JSON(http.StatusOK, statsResponse{
		TotalSessions:         st.TotalSessions,
		TotalQuestions:        st.TotalQuestions,
		TotalStudyTimeMinutes: st.TotalStudyTimeMinutes,
		CurrentStreak:         st.CurrentStreak,
		LastSessionDate:       st.LastSessionDate,
	})
}

// POST /v1/profile/refresh
func (s *Server) handleRefreshProfile(c echo.Context) error {
	p, err := s.profiles.Refresh(c.Request().Context(), callerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toProfileResponse(p))
}

// GET /v1/questions[?bookmarked=true]
func (s *Server) handleListQuestions(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		qs  []*domain.SavedQuestion
		err error
	)
	if bookmarked, _ := strconv.ParseBool(c.QueryParam("bookmarked")); bookmarked {
		qs, err = s.profiles.BookmarkedQuestions(ctx, callerID(c))
	} else {
		qs, err = s.profiles.SavedQuestions(ctx, callerID(c), profile.SavedQuestionsLimit)
	}
	if err != nil {
		return writeError(c, err)
	}

	out := make([]questionResponse, 0, len(qs))
	for _, q := range qs {
		out = append(out, toQuestionResponse(q))
	}
	return c.JSON(http.StatusOK, map[string]any{"questions": out})
}

// POST /v1/questions/:id/bookmark
// Without a body the bookmark is set.
func (s *Server) handleBookmark(c echo.Context) error {
	var req bookmarkRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid JSON body")
		}
	}
	bookmarked := req.Bookmarked == nil || *req.Bookmarked

	q, err := s.profiles.SetBookmark(c.Request().Context(), callerID(c), domain.QuestionID(c.Param("id")), bookmarked)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toQuestionResponse(q))
}

// GET /v1/study-sessions
func (s *Server) handleListStudySessions(c echo.Context) error {
	sessions, err := s.profiles.StudySessions(c.Request().Context(), callerID(c), profile.StudySessionsLimit)
	if err != nil {
		return writeError(c, err)
	}

	out := make([]studySessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, toStudySessionResponse(sess))
	}
	return c.JSON(http.StatusOK, map[string]any{"study_sessions": out})
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
