package scoring

import "quizshow-scoreboard/internal/domain"

// semifinalRule ("Nine Hundred") has no automatic threshold; the operator
// decides every outcome and the deciding set seeds the final.
type semifinalRule struct {
	cfg SemifinalConfig
}

func (r semifinalRule) Format() domain.Format { return domain.FormatSemifinal }

func (r semifinalRule) Initial(domain.Player) domain.FormatState {
	return domain.SemifinalState{Status: domain.SemifinalActive}
}

func (r semifinalRule) Blocked(cohort []domain.Player, slot int) bool {
	return stateOf[domain.SemifinalState](r, cohort, slot).Status != domain.SemifinalActive
}

func (r semifinalRule) Apply(cohort []domain.Player, slot int, action domain.Action, params Params) Outcome {
	s := stateOf[domain.SemifinalState](r, cohort, slot)
	set, ok := r.cfg.Set(params.SemifinalSet)
	if !ok {
		params.SemifinalSet = 1
		set, _ = r.cfg.Set(1)
	}
	out := Outcome{Applied: true}

	switch action {
	case domain.ActionCorrect:
		s.Score += set.Correct
		out.Advance = true
	case domain.ActionWrong:
		s.Score += set.Wrong
		out.Advance = true
	case domain.ActionReset:
		s = r.Initial(cohort[slot]).(domain.SemifinalState)
	case domain.ActionForceWin:
		s.Status = domain.SemifinalWon
		s.ExitSet = params.SemifinalSet
		out.emit(EventWin, slot, s.ExitSet)
	case domain.ActionForceLose:
		s.Status = domain.SemifinalLost
		s.ExitSet = params.SemifinalSet
		out.emit(EventLose, slot, s.ExitSet)
	default:
		return Outcome{}
	}
	put(cohort, slot, s)
	return out
}

func (r semifinalRule) EndOfQuestion([]domain.Player) {}
