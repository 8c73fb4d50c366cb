package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/studybuddy/internal/app/attribution"
	"github.com/PabloGalante/studybuddy/internal/domain"
	"github.com/PabloGalante/studybuddy/internal/observability"
)

// Options tunes the registry. Zero values pick the defaults.
type Options struct {
	IdleTimeout  time.Duration
	WriteTimeout time.Duration
	Now          func() time.Time
	NewID        func() string
}

// Service keeps the live chat sessions of the process, keyed by id.
type Service struct {
	llm         domain.LLMClient
	attribution *attribution.Heuristic
	recorder    Recorder

	idleTimeout  time.Duration
	writeTimeout time.Duration
	now          func() time.Time
	newID        func() string

	mu       sync.RWMutex
	sessions map[domain.SessionID]*Session
	// retired keeps finalized sessions until their background writes drain.
	// Adds happen under mu and stop once draining is set.
	retired  sync.WaitGroup
	draining bool
}

func NewService(llm domain.LLMClient, attr *attribution.Heuristic, recorder Recorder, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 2 * time.Hour
	}
	if attr == nil {
		attr = attribution.New(nil)
	}

	return &Service{
		llm:          llm,
		attribution:  attr,
		recorder:     recorder,
		idleTimeout:  opts.IdleTimeout,
		writeTimeout: opts.WriteTimeout,
		now:          opts.Now,
		newID:        opts.NewID,
		sessions:     make(map[domain.SessionID]*Session),
	}
}

type StartSessionInput struct {
	Subject  string
	Identity *domain.Identity
	Profile  *domain.UserProfile
}

func (s *Service) StartSession(ctx context.Context, in StartSessionInput) *Session {
	sess := NewSession(SessionConfig{
		ID:           domain.SessionID(s.newID()),
		Subject:      in.Subject,
		Profile:      in.Profile,
		Identity:     in.Identity,
		LLM:          s.llm,
		Attribution:  s.attribution,
		Recorder:     s.recorder,
		Now:          s.now,
		NewID:        s.newID,
		WriteTimeout: s.writeTimeout,
	})

	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()

	observability.LoggerFromContext(ctx).Info("session started",
		"session_id", sess.ID(),
		"user_id", sess.Owner(),
		"subject", sess.Subject())

	return sess
}

// Get returns a live session. A session owned by a signed-in user is only
// visible to that user; anonymous sessions are visible to anyone holding
// the id.
func (s *Service) Get(ctx context.Context, id domain.SessionID, caller domain.UserID) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	if owner := sess.Owner(); owner != "" && owner != caller {
		observability.LoggerFromContext(ctx).Warn("session access denied",
			"session_id", id, "caller", caller)
		return nil, domain.ErrForbidden
	}
	return sess, nil
}

// EndSession finalizes and forgets a session.
func (s *Service) EndSession(ctx context.Context, id domain.SessionID, caller domain.UserID) (*domain.StudySession, error) {
	sess, err := s.Get(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	return s.end(ctx, sess, "ended", true), nil
}

// EndUserSessions closes every session owned by userID and returns how
// many were closed. It does not wait for in-flight submits: their sessions
// are finalized when the submit completes.
func (s *Service) EndUserSessions(ctx context.Context, userID domain.UserID) int {
	if userID == "" {
		return 0
	}

	s.mu.RLock()
	var owned []*Session
	for _, sess := range s.sessions {
		if sess.Owner() == userID {
			owned = append(owned, sess)
		}
	}
	s.mu.RUnlock()

	for _, sess := range owned {
		s.end(ctx, sess, "signed out", false)
	}
	return len(owned)
}

// HandleAuthChange is an auth observer: on sign-out it finalizes the
// user's sessions.
func (s *Service) HandleAuthChange(ctx context.Context, change domain.AuthChange) {
	if !change.SignedOut() {
		return
	}
	n := s.EndUserSessions(ctx, change.UserID)
	observability.LoggerFromContext(ctx).Info("sessions closed on sign-out",
		"user_id", change.UserID, "count", n)
}

// SweepIdle finalizes sessions with no activity for the idle timeout.
func (s *Service) SweepIdle(ctx context.Context) int {
	cutoff := s.now().Add(-s.idleTimeout)

	s.mu.RLock()
	var idle []*Session
	for _, sess := range s.sessions {
		if sess.LastActive().Before(cutoff) && sess.State() != StateAwaitingResponse {
			idle = append(idle, sess)
		}
	}
	s.mu.RUnlock()

	for _, sess := range idle {
		s.end(ctx, sess, "idle", true)
	}
	return len(idle)
}

// RunJanitor sweeps idle sessions every interval until ctx is done.
func (s *Service) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.SweepIdle(ctx); n > 0 {
				observability.Logger().Info("idle sessions swept", "count", n)
			}
		}
	}
}

// Len is the number of live sessions.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Shutdown finalizes every live session and waits for pending writes, or
// for ctx to end.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	all := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		all = append(all, sess)
	}
	s.mu.RUnlock()

	for _, sess := range all {
		s.end(ctx, sess, "shutdown", true)
	}

	s.mu.Lock()
	s.draining = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.retired.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// end forgets sess and finalizes it. With wait unset a submit in flight is
// not waited for.
func (s *Service) end(ctx context.Context, sess *Session, reason string, wait bool) *domain.StudySession {
	s.mu.Lock()
	_, live := s.sessions[sess.ID()]
	delete(s.sessions, sess.ID())
	track := live && !s.draining
	if track {
		s.retired.Add(1)
	}
	s.mu.Unlock()

	var summary *domain.StudySession
	if wait {
		summary = sess.Finalize(ctx)
	} else {
		summary = sess.Close(ctx)
	}

	if track {
		go func() {
			defer s.retired.Done()
			sess.Wait()
		}()
	}

	observability.LoggerFromContext(ctx).Info("session finalized",
		"session_id", sess.ID(),
		"user_id", sess.Owner(),
		"reason", reason,
		"questions", sess.QuestionCount(),
		"summary", summary != nil)

	return summary
}
