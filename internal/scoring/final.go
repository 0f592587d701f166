package scoring

import "quizshow-scoreboard/internal/domain"

// finalRule ("Triple Seven"): first to SetTarget correct takes the set, SetLoseWrongs
// misses lose it, SetsToWin sets take the title. A set stays closed once
// someone has taken it until NewFinalSet opens the next one.
type finalRule struct {
	cfg FinalConfig
}

func (r finalRule) Format() domain.Format { return domain.FormatFinal }

func (r finalRule) Initial(domain.Player) domain.FormatState { return domain.FinalState{} }

func (r finalRule) Blocked(cohort []domain.Player, slot int) bool {
	if stateOf[domain.FinalState](r, cohort, slot).SetLost {
		return true
	}
	return r.matchOver(cohort) || r.setClosed(cohort)
}

func (r finalRule) Apply(cohort []domain.Player, slot int, action domain.Action, _ Params) Outcome {
	s := stateOf[domain.FinalState](r, cohort, slot)
	out := Outcome{Applied: true}

	switch action {
	case domain.ActionCorrect:
		s.Correct++
		put(cohort, slot, s)
		if s.Correct >= r.cfg.SetTarget {
			r.awardSet(cohort, slot, EventSetWon, &out)
		}
		out.Advance = true
	case domain.ActionWrong:
		s.Wrong++
		if s.Wrong >= r.cfg.SetLoseWrongs {
			s.SetLost = true
			out.emit(EventLose, slot, s.Wrong)
		}
		put(cohort, slot, s)
		out.Advance = true
	case domain.ActionReset:
		ReleaseWinOrder(cohort, slot, r.Format())
		put(cohort, slot, r.Initial(cohort[slot]))
	case domain.ActionForceWin:
		if s.Order == 0 && r.matchOver(cohort) {
			return Outcome{}
		}
		s.SetsWon = r.cfg.SetsToWin
		put(cohort, slot, s)
		if order, ok := AllocateWinOrder(cohort, slot, r.Format()); ok {
			out.emit(EventChampion, slot, order)
		}
	case domain.ActionForceLose:
		s.Wrong = r.cfg.SetLoseWrongs
		s.SetLost = true
		put(cohort, slot, s)
		out.emit(EventLose, slot, s.Wrong)
	default:
		return Outcome{}
	}

	r.settleByAttrition(cohort, &out)
	return out
}

func (r finalRule) EndOfQuestion([]domain.Player) {}

// settleByAttrition hands the open set to the last finalist standing.
func (r finalRule) settleByAttrition(cohort []domain.Player, out *Outcome) {
	if r.matchOver(cohort) || r.setClosed(cohort) {
		return
	}
	standing, contenders := -1, 0
	for i, p := range cohort {
		if p.IsPlaceholder() {
			continue
		}
		contenders++
		if s, _ := domain.StateAs[domain.FinalState](p, r.Format()); !s.SetLost {
			if standing >= 0 {
				return
			}
			standing = i
		}
	}
	if standing < 0 || contenders < 2 {
		return
	}
	s := stateOf[domain.FinalState](r, cohort, standing)
	s.Correct = r.cfg.SetTarget
	put(cohort, standing, s)
	r.awardSet(cohort, standing, EventAttrition, out)
}

func (r finalRule) awardSet(cohort []domain.Player, slot int, kind EventKind, out *Outcome) {
	s := stateOf[domain.FinalState](r, cohort, slot)
	s.SetsWon++
	put(cohort, slot, s)
	out.emit(kind, slot, s.SetsWon)
	if s.SetsWon >= r.cfg.SetsToWin {
		if order, ok := AllocateWinOrder(cohort, slot, r.Format()); ok {
			out.emit(EventChampion, slot, order)
		}
	}
}

func (r finalRule) setClosed(cohort []domain.Player) bool {
	for _, p := range cohort {
		if s, ok := domain.StateAs[domain.FinalState](p, r.Format()); ok && s.Correct >= r.cfg.SetTarget {
			return true
		}
	}
	return false
}

func (r finalRule) matchOver(cohort []domain.Player) bool {
	return CountWinners(cohort, r.Format()) > 0
}

// NewFinalSet clears every finalist's current-set counters. Sets won and the
// champion are kept.
func NewFinalSet(cohort []domain.Player) {
	for i := range cohort {
		s, ok := domain.StateAs[domain.FinalState](cohort[i], domain.FormatFinal)
		if !ok {
			continue
		}
		s.Correct, s.Wrong, s.SetLost = 0, 0, false
		put(cohort, i, s)
	}
}
