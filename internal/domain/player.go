package domain

import "fmt"

// Player is one competitor slot. Identity lives on the record itself, scoring
// state lives in States keyed by the formats the player has taken part in.
type Player struct {
	Rank         int
	Name         string
	Organization string
	PhotoPath    string
	States       map[Format]FormatState
}

// NewPlayer builds a roster player with no format state yet.
func NewPlayer(rank int, name, organization string) Player {
	return Player{
		Rank:         rank,
		Name:         name,
		Organization: organization,
		States:       make(map[Format]FormatState),
	}
}

// NewPlaceholder builds an empty slot that keeps its seed rank.
func NewPlaceholder(rank int) Player {
	return NewPlayer(rank, "", "")
}

// IsPlaceholder reports whether the slot has no competitor assigned.
func (p Player) IsPlaceholder() bool {
	return p.Name == ""
}

// Clone returns a copy that shares nothing mutable with p.
func (p Player) Clone() Player {
	states := make(map[Format]FormatState, len(p.States))
	for f, s := range p.States {
		states[f] = s
	}
	p.States = states
	return p
}

// ClonePlayers deep-copies a cohort.
func ClonePlayers(players []Player) []Player {
	if players == nil {
		return nil
	}
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = p.Clone()
	}
	return out
}

// StateAs returns the player's state for a format as its concrete variant.
func StateAs[T FormatState](p Player, f Format) (T, bool) {
	var zero T
	s, ok := p.States[f]
	if !ok {
		return zero, false
	}
	typed, ok := s.(T)
	return typed, ok
}

// RankLabel renders the seed as an English ordinal ("1st", "12th").
func (p Player) RankLabel() string {
	return Ordinal(p.Rank)
}

// Ordinal renders n as an English ordinal.
func Ordinal(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return fmt.Sprintf("%dth", n)
	}
	switch n % 10 {
	case 1:
		return fmt.Sprintf("%dst", n)
	case 2:
		return fmt.Sprintf("%dnd", n)
	case 3:
		return fmt.Sprintf("%drd", n)
	}
	return fmt.Sprintf("%dth", n)
}

// RosterEntry is one parsed roster row.
type RosterEntry struct {
	Rank         int    `json:"rank"`
	Organization string `json:"organization"`
	Name         string `json:"name"`
}

// Question is a question/answer pair shown to the audience.
type Question struct {
	Text   string `json:"text"`
	Answer string `json:"answer"`
}

// QuestionSet is an ordered question list consumed with wraparound.
type QuestionSet struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}
