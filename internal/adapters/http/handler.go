package httpadapter

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/PabloGalante/studybuddy/internal/app/conversation"
	"github.com/PabloGalante/studybuddy/internal/app/upload"
	"github.com/PabloGalante/studybuddy/internal/domain"
)

const maxImageBytes = 10 << 20

type createSessionRequest struct {
	Subject string `json:"subject"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	UserMessage  messageResponse `json:"user_message"`
	ReplyMessage messageResponse `json:"reply_message"`
	Failed       bool            `json:"failed"`
	Banner       string          `json:"banner,omitempty"`
}

type rateMessageRequest struct {
	Rating string `json:"rating"`
}

type analyzeImageResponse struct {
	Text         string          `json:"text"`
	DocumentType string          `json:"document_type"`
	Confidence   float64         `json:"confidence"`
	Message      messageResponse `json:"message"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

// POST /v1/sessions
func (s *Server) handleCreateSession(c echo.Context) error {
	var req createSessionRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid JSON body")
		}
	}

	ctx := c.Request().Context()
	in := conversation.StartSessionInput{Subject: req.Subject}
	if uid := callerID(c); uid != "" {
		in.Identity = s.auth.CurrentUser(ctx, accessToken(c))
		if in.Identity == nil {
			in.Identity = &domain.Identity{ID: uid}
		}
		in.Profile = s.profiles.Find(ctx, uid)
	}

	sess := s.conv.StartSession(ctx, in)
	return c.JSON(http.StatusCreated, toSessionResponse(sess))
}

// GET /v1/sessions/:id
func (s *Server) handleGetSession(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(sess))
}

// DELETE /v1/sessions/:id
// Ends the session; the summary is null when nothing was recorded.
func (s *Server) handleEndSession(c echo.Context) error {
	summary, err := s.conv.EndSession(c.Request().Context(), domain.SessionID(c.Param("id")), callerID(c))
	if err != nil {
		return writeError(c, err)
	}

	var out *studySessionResponse
	if summary != nil {
		r := toStudySessionResponse(summary)
		out = &r
	}
	return c.JSON(http.StatusOK, map[string]any{"study_session": out})
}

// POST /v1/sessions/:id/messages
// A failed generation is still a 200: the error entry is part of the log.
func (s *Server) handleSendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}

	sess, err := s.session(c)
	if err != nil {
		return writeError(c, err)
	}

	turn, err := sess.Submit(c.Request().Context(), req.Text)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, sendMessageResponse{
		UserMessage:  toMessageResponse(turn.UserMessage),
		ReplyMessage: toMessageResponse(turn.ReplyMessage),
		Failed:       turn.Failed,
		Banner:       sess.Banner(),
	})
}

// POST /v1/sessions/:id/messages/:mid/rating
func (s *Server) handleRateMessage(c echo.Context) error {
	var req rateMessageRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	rating, ok := domain.ParseRating(req.Rating)
	if !ok {
		return badRequest(c, `rating must be "up" or "down"`)
	}

	sess, err := s.session(c)
	if err != nil {
		return writeError(c, err)
	}
	if !sess.Rate(domain.MessageID(c.Param("mid")), rating) {
		return writeError(c, domain.ErrNotFound)
	}
	return c.NoContent(http.StatusNoContent)
}

// POST /v1/sessions/:id/images (multipart, fields "file" and "handwriting")
func (s *Server) handleAnalyzeImage(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return writeError(c, err)
	}

	fh, err := c.FormFile("file")
	if err != nil || fh.Size > maxImageBytes {
		return badRequest(c, upload.MsgInvalidImage)
	}
	data, err := readFile(fh)
	if err != nil {
		return writeError(c, err)
	}
	contentType := fh.Header.Get(echo.HeaderContentType)
	if contentType == "" || contentType == echo.MIMEOctetStream {
		contentType = http.DetectContentType(data)
	}
	handwriting, _ := strconv.ParseBool(c.FormValue("handwriting"))

	res, msg, err := s.images.AnalyzeInto(c.Request().Context(), sess, upload.AnalyzeInput{
		File: domain.Upload{
			Name:        fh.Filename,
			ContentType: contentType,
			Size:        fh.Size,
			Data:        data,
		},
		Handwriting: handwriting,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, analyzeImageResponse{
		Text:         res.Text,
		DocumentType: res.DocumentType,
		Confidence:   res.Confidence,
		Message:      toMessageResponse(msg),
	})
}

// POST /v1/sessions/:id/files (multipart, repeated field "files")
// Only the file names and sizes are kept.
func (s *Server) handleAttachFiles(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return writeError(c, err)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "multipart form with files is required")
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		return badRequest(c, "at least one file is required")
	}

	files := make([]domain.Upload, 0, len(headers))
	for _, fh := range headers {
		files = append(files, domain.Upload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Size:        fh.Size,
		})
	}

	msg, err := sess.AttachFiles(c.Request().Context(), files)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": toMessageResponse(msg)})
}

func (s *Server) session(c echo.Context) (*conversation.Session, error) {
	return s.conv.Get(c.Request().Context(), domain.SessionID(c.Param("id")), callerID(c))
}
