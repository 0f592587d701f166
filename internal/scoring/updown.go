package scoring

import "quizshow-scoreboard/internal/domain"

// upDownRule: a miss drops the score back to zero.
type upDownRule struct {
	cfg UpDownConfig
}

func (r upDownRule) Format() domain.Format { return domain.FormatUpDown }

func (r upDownRule) Initial(domain.Player) domain.FormatState { return domain.UpDownState{} }

func (r upDownRule) Blocked(cohort []domain.Player, slot int) bool {
	return stateOf[domain.UpDownState](r, cohort, slot).Forfeited
}

func (r upDownRule) Apply(cohort []domain.Player, slot int, action domain.Action, _ Params) Outcome {
	s := stateOf[domain.UpDownState](r, cohort, slot)
	out := Outcome{Applied: true}

	switch action {
	case domain.ActionCorrect:
		s.Score++
		put(cohort, slot, s)
		if s.Score >= r.cfg.Target {
			if order, ok := AllocateWinOrder(cohort, slot, r.Format()); ok {
				out.emit(EventWin, slot, order)
			}
		}
		out.Advance = true
	case domain.ActionWrong:
		s.Score = 0
		s.Wrong++
		put(cohort, slot, s)
		out.Advance = true
	case domain.ActionReset:
		ReleaseWinOrder(cohort, slot, r.Format())
		put(cohort, slot, r.Initial(cohort[slot]))
	case domain.ActionForceWin:
		s.Score = r.cfg.Target
		put(cohort, slot, s)
		if order, ok := AllocateWinOrder(cohort, slot, r.Format()); ok {
			out.emit(EventWin, slot, order)
		}
	case domain.ActionForceLose:
		s.Wrong = r.cfg.ForfeitWrongs
		s.Forfeited = true
		put(cohort, slot, s)
		out.emit(EventLose, slot, s.Wrong)
	default:
		return Outcome{}
	}
	return out
}

func (r upDownRule) EndOfQuestion([]domain.Player) {}
