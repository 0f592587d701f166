package domain

import "fmt"

// Format identifies a quiz format and therefore the rule set applied to a cohort.
type Format string

const (
	FormatElimination Format = "2R"
	FormatUpDown      Format = "10up-down"
	FormatSwedish     Format = "Swedish10"
	FormatFreeze      Format = "Freeze10"
	FormatTenByTen    Format = "10by10"
	FormatSemifinal   Format = "SEMI"
	FormatFinal       Format = "FINAL"
	FormatExtra       Format = "EXTRA"
)

// CourseFormats are the third-round formats a player can be assigned to.
var CourseFormats = []Format{FormatSwedish, FormatFreeze, FormatTenByTen, FormatUpDown}

// IsCourse reports whether f is a third-round course.
func (f Format) IsCourse() bool {
	for _, c := range CourseFormats {
		if c == f {
			return true
		}
	}
	return false
}

// ParseCourse resolves a course name. The empty string and "none" mean no course.
func ParseCourse(raw string) (Format, bool, error) {
	if raw == "" || raw == "none" {
		return "", false, nil
	}
	f := Format(raw)
	if !f.IsCourse() {
		return "", false, fmt.Errorf("%w: course %q", ErrUnknownMode, raw)
	}
	return f, true, nil
}

// Action is an operator verdict applied to one player.
type Action string

const (
	ActionCorrect   Action = "correct"
	ActionWrong     Action = "wrong"
	ActionReset     Action = "reset"
	ActionForceWin  Action = "forceWin"
	ActionForceLose Action = "forceLose"
)

// ParseAction validates an action token.
func ParseAction(raw string) (Action, error) {
	switch a := Action(raw); a {
	case ActionCorrect, ActionWrong, ActionReset, ActionForceWin, ActionForceLose:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, raw)
}
