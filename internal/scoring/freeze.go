package scoring

import "quizshow-scoreboard/internal/domain"

// freezeRule suspends a player after each miss. The freeze is set to wrong+1
// and every closed question, including the missed one, counts it down, so the
// nth miss sits the player out for n questions.
type freezeRule struct {
	cfg FreezeConfig
}

func (r freezeRule) Format() domain.Format { return domain.FormatFreeze }

func (r freezeRule) Initial(domain.Player) domain.FormatState { return domain.FreezeState{} }

func (r freezeRule) Blocked(cohort []domain.Player, slot int) bool {
	return stateOf[domain.FreezeState](r, cohort, slot).Freeze > 0
}

func (r freezeRule) Apply(cohort []domain.Player, slot int, action domain.Action, _ Params) Outcome {
	s := stateOf[domain.FreezeState](r, cohort, slot)
	out := Outcome{Applied: true}

	switch action {
	case domain.ActionCorrect:
		s.Correct++
		put(cohort, slot, s)
		if s.Correct >= r.cfg.Target {
			if order, ok := AllocateWinOrder(cohort, slot, r.Format()); ok {
				out.emit(EventWin, slot, order)
			}
		}
		r.thaw(cohort)
		out.Advance = true
	case domain.ActionWrong:
		s.Wrong++
		s.Freeze = s.Wrong + 1
		put(cohort, slot, s)
		r.thaw(cohort)
		out.emit(EventFrozen, slot, s.Freeze-1)
		out.Advance = true
	case domain.ActionReset:
		ReleaseWinOrder(cohort, slot, r.Format())
		put(cohort, slot, r.Initial(cohort[slot]))
	case domain.ActionForceWin:
		s.Correct = r.cfg.Target
		put(cohort, slot, s)
		if order, ok := AllocateWinOrder(cohort, slot, r.Format()); ok {
			out.emit(EventWin, slot, order)
		}
	case domain.ActionForceLose:
		// Freeze has no losing boundary.
		return Outcome{}
	default:
		return Outcome{}
	}
	return out
}

func (r freezeRule) EndOfQuestion(cohort []domain.Player) {
	r.thaw(cohort)
}

func (r freezeRule) thaw(cohort []domain.Player) {
	for i := range cohort {
		s, ok := domain.StateAs[domain.FreezeState](cohort[i], r.Format())
		if !ok || s.Freeze == 0 {
			continue
		}
		s.Freeze--
		put(cohort, i, s)
	}
}
