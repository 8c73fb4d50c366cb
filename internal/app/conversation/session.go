package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/studybuddy/internal/app/attribution"
	"github.com/PabloGalante/studybuddy/internal/domain"
	"github.com/PabloGalante/studybuddy/internal/observability"
)

// State is the coarse lifecycle of a session.
type State string

const (
	StateIdle             State = "idle"
	StateAwaitingResponse State = "awaiting_response"
	StateClosed           State = "closed"
)

const (
	defaultSubjectLabel = "General"
	mixedSubjectsLabel  = "Mixed Subjects"
	defaultWriteTimeout = 10 * time.Second
)

// Recorder receives the write-only records a session emits. Calls happen
// in the background and failures are only logged.
type Recorder interface {
	RecordQuestion(ctx context.Context, q *domain.SavedQuestion) error
	RecordStudySession(ctx context.Context, s *domain.StudySession) error
}

// SessionConfig holds the collaborators and inputs of one session.
type SessionConfig struct {
	ID       domain.SessionID
	Subject  string
	Profile  *domain.UserProfile
	Identity *domain.Identity

	LLM         domain.LLMClient
	Attribution *attribution.Heuristic
	Recorder    Recorder

	Now          func() time.Time
	NewID        func() string
	WriteTimeout time.Duration
}

// Turn is the outcome of a submit: the user message and the assistant or
// error message that answered it.
type Turn struct {
	UserMessage  *domain.Message
	ReplyMessage *domain.Message
	Failed       bool
}

// Session owns the ordered message log of one chat and decides which
// context accompanies each request to the text generator.
//
// Submits and attachments are serialized: a call made while another is in
// flight waits for it, so the log always reads user, reply, user, reply.
type Session struct {
	id       domain.SessionID
	subject  string
	profile  *domain.UserProfile
	identity *domain.Identity

	llm          domain.LLMClient
	attribution  *attribution.Heuristic
	recorder     Recorder
	now          func() time.Time
	newID        func() string
	writeTimeout time.Duration

	// turn is a one-slot semaphore held for the whole of a submit.
	turn chan struct{}
	bg   sync.WaitGroup

	mu         sync.Mutex
	messages   []*domain.Message
	extracted  []domain.ExtractedContent
	uploads    []domain.Upload
	startedAt  time.Time
	lastActive time.Time
	questions  int
	state      State
	banner     string
	summary    *domain.StudySession
	finalized  bool
	// finalizePending is set when the session was closed while a turn was
	// in flight; that turn finalizes on release.
	finalizePending bool
}

// NewSession initializes a session and appends its greeting.
func NewSession(cfg SessionConfig) *Session {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Attribution == nil {
		cfg.Attribution = attribution.New(nil)
	}
	if cfg.ID == "" {
		cfg.ID = domain.SessionID(cfg.NewID())
	}

	now := cfg.Now()
	s := &Session{
		id:           cfg.ID,
		subject:      strings.TrimSpace(cfg.Subject),
		profile:      cfg.Profile,
		identity:     cfg.Identity,
		llm:          cfg.LLM,
		attribution:  cfg.Attribution,
		recorder:     cfg.Recorder,
		now:          cfg.Now,
		newID:        cfg.NewID,
		writeTimeout: cfg.WriteTimeout,
		turn:         make(chan struct{}, 1),
		startedAt:    now,
		lastActive:   now,
		state:        StateIdle,
	}

	g := BuildGreeting(s.subject, s.profile)
	s.messages = append(s.messages, &domain.Message{
		ID:        domain.MessageID(s.newID()),
		SessionID: s.id,
		Role:      domain.RoleAssistant,
		Text:      g.Text,
		CreatedAt: now,
		Sources:   g.Sources,
		FollowUps: g.FollowUps,
	})

	return s
}

func (s *Session) ID() domain.SessionID { return s.id }

func (s *Session) Subject() string { return s.subject }

// Owner is the signed-in user of the session, or "" when anonymous.
func (s *Session) Owner() domain.UserID {
	if s.identity == nil {
		return ""
	}
	return s.identity.ID
}

func (s *Session) Title() string { return Title(s.subject, s.profile) }

func (s *Session) StartedAt() time.Time { return s.startedAt }

// Submit sends userText to the text generator with the session context.
// ctx bounds only the wait for the turn. Blank input is rejected with domain.ErrEmptyInput and leaves the log
// untouched. A generation failure is not returned as an error: it appends
// an error message, sets the banner and reports Failed on the Turn.
func (s *Session) Submit(ctx context.Context, userText string) (*Turn, error) {
	if strings.TrimSpace(userText) == "" {
		return nil, domain.ErrEmptyInput
	}

	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	log := observability.LoggerFromContext(ctx).With("session_id", s.id, "user_id", s.Owner())

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil, domain.ErrSessionClosed
	}
	now := s.now()
	userMsg := &domain.Message{
		ID:        domain.MessageID(s.newID()),
		SessionID: s.id,
		Role:      domain.RoleUser,
		Text:      userText,
		CreatedAt: now,
	}
	s.messages = append(s.messages, userMsg)
	s.state = StateAwaitingResponse
	s.banner = ""
	s.lastActive = now
	prompt := s.compositePromptLocked(userText)
	uploads := append([]domain.Upload(nil), s.uploads...)
	s.mu.Unlock()

	log.Info("submitting question", "prompt_chars", len(prompt), "uploads", len(uploads))

	// Generation is not cancellable once started; a caller that goes away
	// still gets its answer into the log.
	reply, genErr := s.llm.GenerateReply(context.WithoutCancel(ctx), domain.GenerationRequest{
		Prompt:  prompt,
		Uploads: uploads,
		Profile: s.profile,
	})

	var attr attribution.Result
	if genErr == nil {
		attr = s.attribution.Attribute(prompt, reply, uploads, s.profile)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateClosed {
		s.state = StateIdle
	}
	s.lastActive = s.now()

	if genErr != nil {
		log.Error("text generation failed", "error", genErr)
		errMsg := &domain.Message{
			ID:        domain.MessageID(s.newID()),
			SessionID: s.id,
			Role:      domain.RoleError,
			Text:      generationErrorText,
			CreatedAt: s.now(),
			Sources:   append([]string(nil), generationErrorSources...),
			FollowUps: append([]string(nil), generationErrorFollowUps...),
		}
		s.messages = append(s.messages, errMsg)
		s.banner = BannerGenerationFailed
		return &Turn{UserMessage: userMsg.Clone(), ReplyMessage: errMsg.Clone(), Failed: true}, nil
	}

	answer := &domain.Message{
		ID:        domain.MessageID(s.newID()),
		SessionID: s.id,
		Role:      domain.RoleAssistant,
		Text:      reply,
		CreatedAt: s.now(),
		Sources:   attr.Sources,
		FollowUps: attr.FollowUps,
	}
	s.messages = append(s.messages, answer)
	// A session closed during generation still counts the answered
	// question; the pending finalize on release includes it.
	s.questions++

	if s.identity != nil && s.recorder != nil {
		q := &domain.SavedQuestion{
			UserID:   s.identity.ID,
			Question: userText,
			Answer:   reply,
			Subject:  s.subjectOr(defaultSubjectLabel),
			Sources:  append([]string(nil), attr.Sources...),
		}
		s.background(ctx, "save question", func(bctx context.Context) error {
			return s.recorder.RecordQuestion(bctx, q)
		})
	}

	log.Info("question answered", "questions", s.questions, "topic", attr.Topic)

	return &Turn{UserMessage: userMsg.Clone(), ReplyMessage: answer.Clone()}, nil
}

// Rate sets the rating of a message. It reports false, changing nothing,
// when no message has that id. Ratings are not persisted.
func (s *Session) Rate(id domain.MessageID, rating domain.Rating) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.messages {
		if m.ID == id {
			m.Rating = rating
			return true
		}
	}
	return false
}

// AttachExtractedText folds OCR output into every later prompt and appends
// an acknowledgment quoting the first 200 characters.
func (s *Session) AttachExtractedText(ctx context.Context, text, documentType string) (*domain.Message, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return nil, domain.ErrSessionClosed
	}

	s.extracted = append(s.extracted, domain.ExtractedContent{Text: text, DocumentType: documentType})
	msg := &domain.Message{
		ID:        domain.MessageID(s.newID()),
		SessionID: s.id,
		Role:      domain.RoleAssistant,
		Text:      extractionText(documentType, text, s.subject),
		CreatedAt: s.now(),
		Sources:   []string{"Vision AI Analysis: " + documentType, "Google Cloud Vision API"},
		FollowUps: append([]string(nil), extractionFollowUps...),
	}
	s.messages = append(s.messages, msg)
	s.lastActive = msg.CreatedAt
	return msg.Clone(), nil
}

// AttachFiles adds files to the upload list sent with every later request
// and appends an acknowledgment. An empty list is a no-op.
func (s *Session) AttachFiles(ctx context.Context, files []domain.Upload) (*domain.Message, error) {
	if len(files) == 0 {
		return nil, nil
	}

	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return nil, domain.ErrSessionClosed
	}

	names := make([]string, 0, len(files))
	sources := make([]string, 0, len(files))
	for _, f := range files {
		f.Data = nil
		s.uploads = append(s.uploads, f)
		names = append(names, f.Name)
		sources = append(sources, attribution.UploadSourcePrefix+f.Name)
	}

	msg := &domain.Message{
		ID:        domain.MessageID(s.newID()),
		SessionID: s.id,
		Role:      domain.RoleAssistant,
		Text:      filesText(names, s.subject),
		CreatedAt: s.now(),
		Sources:   sources,
		FollowUps: append([]string(nil), fileFollowUps...),
	}
	s.messages = append(s.messages, msg)
	s.lastActive = msg.CreatedAt
	return msg.Clone(), nil
}

// Finalize closes the session. When a signed-in user asked at least one
// question it emits one study-session summary in the background and returns
// it. Later calls return the same summary.
//
// Finalize waits for an in-flight submit so its question is counted. If ctx
// ends first the session is closed at once and the in-flight submit emits
// the summary when it completes; Finalize then returns nil.
func (s *Session) Finalize(ctx context.Context) *domain.StudySession {
	release, err := s.acquire(ctx)
	if err != nil {
		return s.closeOrDefer(ctx)
	}
	defer release()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalizeLocked(ctx)
}

// Close is Finalize without waiting: a session with a submit in flight is
// closed at once and its summary is emitted when that submit completes.
func (s *Session) Close(ctx context.Context) *domain.StudySession {
	return s.closeOrDefer(ctx)
}

func (s *Session) closeOrDefer(ctx context.Context) *domain.StudySession {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized || s.finalizePending {
		return s.summary
	}
	s.state = StateClosed

	select {
	case s.turn <- struct{}{}:
		summary := s.finalizeLocked(ctx)
		<-s.turn
		return summary
	default:
		s.finalizePending = true
		return nil
	}
}

// finalizeLocked must run with both s.mu and the turn held.
func (s *Session) finalizeLocked(ctx context.Context) *domain.StudySession {
	if s.finalized {
		return s.summary
	}
	s.finalized = true
	s.finalizePending = false
	s.state = StateClosed

	if s.identity == nil || s.questions == 0 {
		return nil
	}

	now := s.now()
	subject := s.subjectOr(mixedSubjectsLabel)
	summary := &domain.StudySession{
		UserID:         s.identity.ID,
		Title:          fmt.Sprintf("Study Session - %s - %s", subject, now.Format("1/2/2006")),
		Subject:        subject,
		Duration:       int(now.Sub(s.startedAt) / time.Minute),
		QuestionsCount: s.questions,
		CreatedAt:      now,
	}
	s.summary = summary

	if s.recorder != nil {
		rec := *summary
		s.background(ctx, "save study session", func(bctx context.Context) error {
			return s.recorder.RecordStudySession(bctx, &rec)
		})
	}
	return summary
}

// Summary is the emitted study-session summary, or nil.
func (s *Session) Summary() *domain.StudySession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// Wait blocks until the in-flight turn, if any, has finished and every
// background write started by the session is done. Background writes are
// only started while the turn is held.
func (s *Session) Wait() {
	s.turn <- struct{}{}
	s.release(context.Background())
	s.bg.Wait()
}

// Messages returns a copy of the log.
func (s *Session) Messages() []*domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Message, 0, len(s.messages))
	for _, m := range s.messages {
		out = append(out, m.Clone())
	}
	return out
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Banner is the last banner-level error, cleared by the next submit.
func (s *Session) Banner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.banner
}

func (s *Session) QuestionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questions
}

func (s *Session) ExtractedContents() []domain.ExtractedContent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ExtractedContent(nil), s.extracted...)
}

func (s *Session) Uploads() []domain.Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Upload(nil), s.uploads...)
}

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// compositePromptLocked builds subject prefix + user text + extracted texts.
func (s *Session) compositePromptLocked(userText string) string {
	var b strings.Builder
	if s.subject != "" {
		b.WriteString("Subject Focus: ")
		b.WriteString(s.subject)
		b.WriteString("\n\n")
	}
	b.WriteString(userText)

	if len(s.extracted) > 0 {
		b.WriteString("\n\nContext from uploaded images:\n")
		for i, e := range s.extracted {
			if i > 0 {
				b.WriteString("\n\n")
			}
			fmt.Fprintf(&b, "[%s]: %s", e.DocumentType, e.Text)
		}
	}
	return b.String()
}

func (s *Session) subjectOr(def string) string {
	if s.subject == "" {
		return def
	}
	return s.subject
}

func (s *Session) acquire(ctx context.Context) (func(), error) {
	release := func() { s.release(ctx) }
	select {
	case s.turn <- struct{}{}:
		return release, nil
	default:
	}
	select {
	case s.turn <- struct{}{}:
		return release, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// release frees the turn, first running a finalize deferred by Close.
func (s *Session) release(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalizePending {
		s.finalizeLocked(ctx)
	}
	<-s.turn
}

// background runs a fire-and-forget write detached from ctx's cancellation
// but keeping its values for logging.
func (s *Session) background(ctx context.Context, what string, fn func(context.Context) error) {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()

		bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
		defer cancel()

		if err := fn(bctx); err != nil {
			observability.LoggerFromContext(ctx).Error("background write failed",
				"what", what,
				"session_id", s.id,
				"user_id", s.Owner(),
				"error", err)
		}
	}()
}
