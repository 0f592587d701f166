package domain

import "errors"

var (
	// ErrShowNotFound is returned when a show has not been opened.
	ErrShowNotFound = errors.New("show not found")
	// ErrUnknownMode indicates a mode name that does not resolve to a cohort.
	ErrUnknownMode = errors.New("unknown mode")
	// ErrUnknownAction indicates an action token outside correct/wrong/reset/forceWin/forceLose.
	ErrUnknownAction = errors.New("unknown action")
	// ErrUnknownCommand indicates a control command the session does not handle.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidSet indicates a semifinal set index without a rule table.
	ErrInvalidSet = errors.New("invalid semifinal set")
	// ErrInvalidRange indicates a follow-up range with start after end.
	ErrInvalidRange = errors.New("invalid question range")
	// ErrRosterNotLoaded is returned when a cohort is seeded before any roster was loaded.
	ErrRosterNotLoaded = errors.New("roster not loaded")
	// ErrInvalidEntry indicates a seed entry without a usable rank.
	ErrInvalidEntry = errors.New("invalid entry")
	// ErrQuestionSetNotFound indicates the question list could not be loaded.
	ErrQuestionSetNotFound = errors.New("question set not found")
	// ErrRosterNotFound indicates the roster could not be loaded.
	ErrRosterNotFound = errors.New("roster not found")
)
