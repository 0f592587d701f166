package app

import (
	"context"
	"fmt"

	"quizshow-scoreboard/internal/domain"

	"github.com/sirupsen/logrus"
)

// SessionRepository abstracts where live show sessions are kept.
type SessionRepository interface {
	GetOrCreate(ctx context.Context, showID string) (*Session, error)
	Get(ctx context.Context, showID string) (*Session, bool)
	Delete(ctx context.Context, showID string)
}

// SessionFactory builds a fresh session for a show.
type SessionFactory func(showID string) *Session

// NewSessionFactory returns a factory that applies the same options to every show.
func NewSessionFactory(opts SessionOptions) SessionFactory {
	return func(showID string) *Session { return NewSession(showID, opts) }
}

// QuestionRepository loads question sets (from cache/backing store).
type QuestionRepository interface {
	GetQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error)
}

// RosterLoader loads a seeded roster by name.
type RosterLoader interface {
	LoadRoster(ctx context.Context, rosterID string) ([]domain.RosterEntry, error)
}

// ControlService contains the operator use cases of a show.
type ControlService struct {
	sessions  SessionRepository
	questions QuestionRepository
	rosters   RosterLoader
	log       logrus.FieldLogger
}

func NewControlService(sessions SessionRepository, questions QuestionRepository, rosters RosterLoader, log logrus.FieldLogger) *ControlService {
	return &ControlService{sessions: sessions, questions: questions, rosters: rosters, log: log}
}

// Open returns the session of a show, creating it on first use.
func (c *ControlService) Open(ctx context.Context, showID string) (*Session, error) {
	return c.sessions.GetOrCreate(ctx, showID)
}

// Dispatch runs a command against an open show. Loading commands reach the
// repositories; everything else is handled by the session itself.
func (c *ControlService) Dispatch(ctx context.Context, showID string, cmd Command) (domain.Board, error) {
	session, ok := c.sessions.Get(ctx, showID)
	if !ok {
		return domain.Board{}, domain.ErrShowNotFound
	}

	switch cmd.Type {
	case CmdLoadQuestions:
		if err := c.loadQuestions(ctx, session, cmd.Source); err != nil {
			return domain.Board{}, err
		}
		return session.Board(), nil
	case CmdLoadRoster:
		if err := c.loadRoster(ctx, session, cmd.Source); err != nil {
			return domain.Board{}, err
		}
		return session.Board(), nil
	}

	board, err := session.Execute(cmd)
	if err != nil {
		c.log.WithFields(logrus.Fields{"show": showID, "command": cmd.Type}).WithError(err).Warn("command rejected")
	}
	return board, err
}

// Board returns the current board of a show.
func (c *ControlService) Board(ctx context.Context, showID string) (domain.Board, error) {
	session, ok := c.sessions.Get(ctx, showID)
	if !ok {
		return domain.Board{}, domain.ErrShowNotFound
	}
	return session.Board(), nil
}

// Subscribe returns a channel that receives board updates for a show.
// The caller must invoke the returned cancel function to avoid leaks.
func (c *ControlService) Subscribe(ctx context.Context, showID string) (<-chan domain.Board, func(), error) {
	session, ok := c.sessions.Get(ctx, showID)
	if !ok {
		return nil, nil, domain.ErrShowNotFound
	}
	ch, cancel := session.Subscribe()
	return ch, cancel, nil
}

// LoadQuestions installs a question set into an open show.
func (c *ControlService) LoadQuestions(ctx context.Context, showID, setID string) error {
	session, ok := c.sessions.Get(ctx, showID)
	if !ok {
		return domain.ErrShowNotFound
	}
	return c.loadQuestions(ctx, session, setID)
}

// LoadRoster seeds an open show's groups from a roster.
func (c *ControlService) LoadRoster(ctx context.Context, showID, rosterID string) error {
	session, ok := c.sessions.Get(ctx, showID)
	if !ok {
		return domain.ErrShowNotFound
	}
	return c.loadRoster(ctx, session, rosterID)
}

// Close ends a show and releases its timer and subscribers.
func (c *ControlService) Close(ctx context.Context, showID string) {
	if session, ok := c.sessions.Get(ctx, showID); ok {
		session.Close()
	}
	c.sessions.Delete(ctx, showID)
}

func (c *ControlService) loadQuestions(ctx context.Context, session *Session, setID string) error {
	if c.questions == nil {
		return fmt.Errorf("load questions %q: %w", setID, domain.ErrQuestionSetNotFound)
	}
	set, err := c.questions.GetQuestionSet(ctx, setID)
	if err != nil {
		return err
	}
	session.SetQuestions(set)
	return nil
}

func (c *ControlService) loadRoster(ctx context.Context, session *Session, rosterID string) error {
	if c.rosters == nil {
		return fmt.Errorf("load roster %q: %w", rosterID, domain.ErrRosterNotFound)
	}
	entries, err := c.rosters.LoadRoster(ctx, rosterID)
	if err != nil {
		return err
	}
	if session.LoadRoster(entries) == 0 {
		return fmt.Errorf("load roster %q: %w", rosterID, domain.ErrRosterNotFound)
	}
	return nil
}
