package scoring

import "quizshow-scoreboard/internal/domain"

// swedishRule charges a miss by the SwedishPenalty schedule of the current correct count.
type swedishRule struct {
	cfg SwedishConfig
}

func (r swedishRule) Format() domain.Format { return domain.FormatSwedish }

func (r swedishRule) Initial(domain.Player) domain.FormatState { return domain.SwedishState{} }

func (r swedishRule) Blocked(cohort []domain.Player, slot int) bool {
	return stateOf[domain.SwedishState](r, cohort, slot).Penalty >= r.cfg.LosePenalty
}

func (r swedishRule) Apply(cohort []domain.Player, slot int, action domain.Action, _ Params) Outcome {
	s := stateOf[domain.SwedishState](r, cohort, slot)
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
		out.Advance = true
	case domain.ActionWrong:
		s.Penalty += SwedishPenalty(s.Correct)
		put(cohort, slot, s)
		if s.Penalty >= r.cfg.LosePenalty {
			out.emit(EventLose, slot, s.Penalty)
		}
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
		s.Penalty = r.cfg.LosePenalty
		put(cohort, slot, s)
		out.emit(EventLose, slot, s.Penalty)
	default:
		return Outcome{}
	}
	return out
}

func (r swedishRule) EndOfQuestion([]domain.Player) {}
