package app

import "quizshow-scoreboard/internal/domain"

// Snapshot is one undo step: a cohort copy and the question index it was
// taken at. Its contents are never shared with live state.
type Snapshot struct {
	players  []domain.Player
	slots    []int
	question int
}

// NewSnapshot copies players. slots lists the backing indices the players
// came from when the cohort is a view over a larger list; nil means the
// players are the whole backing list.
func NewSnapshot(players []domain.Player, slots []int, question int) Snapshot {
	var s []int
	if slots != nil {
		s = append([]int(nil), slots...)
	}
	return Snapshot{players: domain.ClonePlayers(players), slots: s, question: question}
}

func (s Snapshot) Players() []domain.Player { return domain.ClonePlayers(s.players) }

func (s Snapshot) Slots() []int {
	if s.slots == nil {
		return nil
	}
	return append([]int(nil), s.slots...)
}

func (s Snapshot) Question() int { return s.question }

// History keeps one undo stack per cohort key.
type History struct {
	stacks map[string][]Snapshot
}

func NewHistory() *History {
	return &History{stacks: make(map[string][]Snapshot)}
}

func (h *History) Save(key string, snap Snapshot) {
	h.stacks[key] = append(h.stacks[key], snap)
}

// Undo pops the latest snapshot of key; an empty stack reports false.
func (h *History) Undo(key string) (Snapshot, bool) {
	stack := h.stacks[key]
	if len(stack) == 0 {
		return Snapshot{}, false
	}
	last := stack[len(stack)-1]
	h.stacks[key] = stack[:len(stack)-1]
	return last, true
}

func (h *History) Depth(key string) int {
	return len(h.stacks[key])
}
