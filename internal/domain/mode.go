package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// NumGroups is the number of second-round elimination groups.
const NumGroups = 4

// ModeKind is the closed set of control-panel tabs.
type ModeKind string

const (
	ModeGroup        ModeKind = "group"
	ModeCourse       ModeKind = "course"
	ModeCourseSelect ModeKind = "courseSelect"
	ModeSemifinal    ModeKind = "semifinal"
	ModeFinal        ModeKind = "final"
	ModeExtra        ModeKind = "extra"
	ModeFollow       ModeKind = "follow"
)

// Mode selects the active cohort and rule set. Group is 0-based and only
// meaningful for ModeGroup; Course only for ModeCourse.
type Mode struct {
	Kind   ModeKind
	Group  int
	Course Format
}

func GroupMode(group int) Mode      { return Mode{Kind: ModeGroup, Group: group} }
func CourseMode(course Format) Mode { return Mode{Kind: ModeCourse, Course: course} }

// ParseMode accepts "group:1".."group:4", "course:<name>", and the bare kinds.
func ParseMode(raw string) (Mode, error) {
	kind, arg, _ := strings.Cut(raw, ":")
	switch ModeKind(kind) {
	case ModeGroup:
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 || n > NumGroups {
			return Mode{}, fmt.Errorf("%w: %q", ErrUnknownMode, raw)
		}
		return GroupMode(n - 1), nil
	case ModeCourse:
		f := Format(arg)
		if !f.IsCourse() {
			return Mode{}, fmt.Errorf("%w: %q", ErrUnknownMode, raw)
		}
		return CourseMode(f), nil
	case ModeCourseSelect, ModeSemifinal, ModeFinal, ModeExtra, ModeFollow:
		if arg != "" {
			return Mode{}, fmt.Errorf("%w: %q", ErrUnknownMode, raw)
		}
		return Mode{Kind: ModeKind(kind)}, nil
	}
	return Mode{}, fmt.Errorf("%w: %q", ErrUnknownMode, raw)
}

func (m Mode) String() string {
	switch m.Kind {
	case ModeGroup:
		return fmt.Sprintf("group:%d", m.Group+1)
	case ModeCourse:
		return "course:" + string(m.Course)
	}
	return string(m.Kind)
}

// Format returns the scoring format of the mode; non-scoring modes report false.
func (m Mode) Format() (Format, bool) {
	switch m.Kind {
	case ModeGroup:
		return FormatElimination, true
	case ModeCourse:
		return m.Course, true
	case ModeSemifinal:
		return FormatSemifinal, true
	case ModeFinal:
		return FormatFinal, true
	case ModeExtra:
		return FormatExtra, true
	}
	return "", false
}

// CohortKey names the history stack the mode's actions are recorded on.
func (m Mode) CohortKey() string {
	switch m.Kind {
	case ModeGroup:
		return fmt.Sprintf("group-%d", m.Group+1)
	case ModeCourse:
		return "course-" + string(m.Course)
	}
	return string(m.Kind)
}

// Header is the board title for the mode.
func (m Mode) Header(semifinalSet int) string {
	switch m.Kind {
	case ModeGroup:
		return fmt.Sprintf("2nd Round Group%d", m.Group+1)
	case ModeCourse:
		return "3rd Round " + string(m.Course)
	case ModeCourseSelect:
		return "3rd Round course select"
	case ModeSemifinal:
		return fmt.Sprintf("Semifinal Nine Hundred - Set %d", semifinalSet)
	case ModeFinal:
		return "Final - Triple Seven"
	case ModeExtra:
		return "Extra Round 2nd Step"
	case ModeFollow:
		return "SF Follow-up"
	}
	return ""
}
