package domain

// FormatState is the per-format scoring state a player carries. Implementations
// are plain values so copying a player's state map is a deep copy.
type FormatState interface {
	Format() Format
	// WinOrder is the 1-based advancement rank, 0 when not advanced.
	WinOrder() int
	// WithWinOrder returns a copy holding the given rank.
	WithWinOrder(order int) FormatState
}

// EliminationState is the second-round N-win/M-wrong state.
type EliminationState struct {
	Score int
	Wrong int
	// Streak is set after a correct answer that did not reach the win threshold.
	Streak bool
	Order  int
}

func (s EliminationState) Format() Format { return FormatElimination }
func (s EliminationState) WinOrder() int  { return s.Order }
func (s EliminationState) WithWinOrder(order int) FormatState {
	s.Order = order
	return s
}

type UpDownState struct {
	Score     int
	Wrong     int
	Forfeited bool
	Order     int
}

func (s UpDownState) Format() Format { return FormatUpDown }
func (s UpDownState) WinOrder() int  { return s.Order }
func (s UpDownState) WithWinOrder(order int) FormatState {
	s.Order = order
	return s
}

type SwedishState struct {
	Correct int
	// Penalty accumulates the schedule value of every miss.
	Penalty int
	Order   int
}

func (s SwedishState) Format() Format { return FormatSwedish }
func (s SwedishState) WinOrder() int  { return s.Order }
func (s SwedishState) WithWinOrder(order int) FormatState {
	s.Order = order
	return s
}

type FreezeState struct {
	Correct int
	Wrong   int
	// Freeze counts the questions the player still sits out.
	Freeze int
	Order  int
}

func (s FreezeState) Format() Format { return FormatFreeze }
func (s FreezeState) WinOrder() int  { return s.Order }
func (s FreezeState) WithWinOrder(order int) FormatState {
	s.Order = order
	return s
}

// TenByTenState scores Correct * Remaining; Remaining starts at ten and drops per miss.
type TenByTenState struct {
	Correct   int
	Remaining int
	Order     int
}

func (s TenByTenState) Format() Format { return FormatTenByTen }
func (s TenByTenState) WinOrder() int  { return s.Order }
func (s TenByTenState) WithWinOrder(order int) FormatState {
	s.Order = order
	return s
}

// Product is the displayed 10by10 score.
func (s TenByTenState) Product() int { return s.Correct * s.Remaining }

// SemifinalStatus is the operator-decided outcome of a semifinalist.
type SemifinalStatus string

const (
	SemifinalActive SemifinalStatus = "active"
	SemifinalWon    SemifinalStatus = "won"
	SemifinalLost   SemifinalStatus = "lost"
)

type SemifinalState struct {
	Score  int
	Status SemifinalStatus
	// ExitSet is the set index at which Status was decided; it seeds the final.
	ExitSet int
}

func (s SemifinalState) Format() Format { return FormatSemifinal }

// WinOrder is always 0: semifinal advancement is recorded through Status and ExitSet.
func (s SemifinalState) WinOrder() int                      { return 0 }
func (s SemifinalState) WithWinOrder(order int) FormatState { return s }

// FinalState is the best-of-sets final. Correct, Wrong and SetLost describe the current set.
type FinalState struct {
	SetsWon int
	Correct int
	Wrong   int
	SetLost bool
	Order   int
}

func (s FinalState) Format() Format { return FormatFinal }
func (s FinalState) WinOrder() int  { return s.Order }
func (s FinalState) WithWinOrder(order int) FormatState {
	s.Order = order
	return s
}

type ExtraState struct {
	Score int
	Wrong int
	Order int
}

func (s ExtraState) Format() Format { return FormatExtra }
func (s ExtraState) WinOrder() int  { return s.Order }
func (s ExtraState) WithWinOrder(order int) FormatState {
	s.Order = order
	return s
}
