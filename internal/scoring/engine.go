// Package scoring applies operator verdicts to cohorts. Every format has a Rule;
// the Engine routes to it and guards the shared edge cases (bad slots, players
// that cannot act).
package scoring

import "quizshow-scoreboard/internal/domain"

// Params carries round-level settings that are not player state.
type Params struct {
	// SemifinalSet is the 1-based set whose delta table applies.
	SemifinalSet int
}

// EventKind names a notable transition produced by a rule.
type EventKind string

const (
	EventWin       EventKind = "win"
	EventLose      EventKind = "lose"
	EventFrozen    EventKind = "frozen"
	EventSetWon    EventKind = "setWon"
	EventAttrition EventKind = "attrition"
	EventChampion  EventKind = "champion"
	EventRevival   EventKind = "revival"
)

// Event reports a transition for the player in Slot. Value holds the
// win-order, freeze length or sets won depending on Kind.
type Event struct {
	Kind  EventKind
	Slot  int
	Value int
}

// Outcome describes what an action did.
type Outcome struct {
	Applied bool
	// Blocked is set when the player was suspended or already out.
	Blocked bool
	// Advance asks the caller to move to the next question.
	Advance bool
	Events  []Event
}

func (o *Outcome) emit(kind EventKind, slot, value int) {
	o.Events = append(o.Events, Event{Kind: kind, Slot: slot, Value: value})
}

// Rule is one format's scoring rules. Implementations mutate only the
// format's own entry in each player's state map.
type Rule interface {
	Format() domain.Format
	// Initial is the state a player starts the format with.
	Initial(p domain.Player) domain.FormatState
	// Blocked reports whether correct/wrong must be ignored for the slot.
	Blocked(cohort []domain.Player, slot int) bool
	Apply(cohort []domain.Player, slot int, action domain.Action, params Params) Outcome
	// EndOfQuestion runs when a question closes without an answer.
	EndOfQuestion(cohort []domain.Player)
}

// Engine dispatches actions to the rule of a format.
type Engine struct {
	cfg   Config
	rules map[domain.Format]Rule
}

func NewEngine(cfg Config) *Engine {
	e := &Engine{cfg: cfg, rules: make(map[domain.Format]Rule)}
	for _, r := range []Rule{
		eliminationRule{cfg: cfg.Elimination},
		upDownRule{cfg: cfg.UpDown},
		swedishRule{cfg: cfg.Swedish},
		freezeRule{cfg: cfg.Freeze},
		tenByTenRule{cfg: cfg.TenByTen},
		semifinalRule{cfg: cfg.Semifinal},
		finalRule{cfg: cfg.Final},
		extraRule{cfg: cfg.Extra},
	} {
		e.rules[r.Format()] = r
	}
	return e
}

func (e *Engine) Config() Config { return e.cfg }

// Rule returns the rule set of a format.
func (e *Engine) Rule(f domain.Format) (Rule, bool) {
	r, ok := e.rules[f]
	return r, ok
}

// Prepare gives every cohort member an initial state for f if it has none.
func (e *Engine) Prepare(f domain.Format, cohort []domain.Player) {
	r, ok := e.rules[f]
	if !ok {
		return
	}
	for i := range cohort {
		if cohort[i].States == nil {
			cohort[i].States = make(map[domain.Format]domain.FormatState)
		}
		if _, ok := cohort[i].States[f]; !ok {
			cohort[i].States[f] = r.Initial(cohort[i])
		}
	}
}

// Apply runs one action for cohort[slot]. Out-of-range slots and blocked
// players yield an Outcome with Applied unset.
func (e *Engine) Apply(f domain.Format, cohort []domain.Player, slot int, action domain.Action, params Params) Outcome {
	r, ok := e.rules[f]
	if !ok || slot < 0 || slot >= len(cohort) {
		return Outcome{}
	}
	e.Prepare(f, cohort)
	if (action == domain.ActionCorrect || action == domain.ActionWrong) && r.Blocked(cohort, slot) {
		return Outcome{Blocked: true}
	}
	return r.Apply(cohort, slot, action, params)
}

// EndOfQuestion closes a question for the whole cohort.
func (e *Engine) EndOfQuestion(f domain.Format, cohort []domain.Player) {
	r, ok := e.rules[f]
	if !ok {
		return
	}
	e.Prepare(f, cohort)
	r.EndOfQuestion(cohort)
}

// stateOf returns the typed state of the slot, falling back to the rule's
// initial value when the map holds nothing usable.
func stateOf[T domain.FormatState](r Rule, cohort []domain.Player, slot int) T {
	if s, ok := domain.StateAs[T](cohort[slot], r.Format()); ok {
		return s
	}
	s, _ := r.Initial(cohort[slot]).(T)
	return s
}

func put(cohort []domain.Player, slot int, s domain.FormatState) {
	cohort[slot].States[s.Format()] = s
}

// StateOf returns p's state for f, or the state p would start the format with.
func (e *Engine) StateOf(f domain.Format, p domain.Player) (domain.FormatState, bool) {
	if s, ok := p.States[f]; ok {
		return s, true
	}
	r, ok := e.rules[f]
	if !ok {
		return nil, false
	}
	return r.Initial(p), true
}
