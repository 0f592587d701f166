package scoring

import "quizshow-scoreboard/internal/domain"

// tenByTenRule scores correct * remaining; each miss costs one of the lives.
type tenByTenRule struct {
	cfg TenByTenConfig
}

func (r tenByTenRule) Format() domain.Format { return domain.FormatTenByTen }

func (r tenByTenRule) Initial(domain.Player) domain.FormatState {
	return domain.TenByTenState{Remaining: r.cfg.Lives}
}

func (r tenByTenRule) Blocked(cohort []domain.Player, slot int) bool {
	return stateOf[domain.TenByTenState](r, cohort, slot).Remaining <= 0
}

func (r tenByTenRule) Apply(cohort []domain.Player, slot int, action domain.Action, _ Params) Outcome {
	s := stateOf[domain.TenByTenState](r, cohort, slot)
	out := Outcome{Applied: true}

	switch action {
	case domain.ActionCorrect:
		s.Correct++
		put(cohort, slot, s)
		if s.Product() >= r.cfg.Target {
			if order, ok := AllocateWinOrder(cohort, slot, r.Format()); ok {
				out.emit(EventWin, slot, order)
			}
		}
		out.Advance = true
	case domain.ActionWrong:
		s.Remaining--
		put(cohort, slot, s)
		if s.Remaining <= 0 {
			out.emit(EventLose, slot, 0)
		}
		out.Advance = true
	case domain.ActionReset:
		ReleaseWinOrder(cohort, slot, r.Format())
		put(cohort, slot, r.Initial(cohort[slot]))
	case domain.ActionForceWin:
		s.Remaining = r.cfg.Lives
		s.Correct = (r.cfg.Target + r.cfg.Lives - 1) / r.cfg.Lives
		put(cohort, slot, s)
		if order, ok := AllocateWinOrder(cohort, slot, r.Format()); ok {
			out.emit(EventWin, slot, order)
		}
	case domain.ActionForceLose:
		s.Remaining = 0
		put(cohort, slot, s)
		out.emit(EventLose, slot, 0)
	default:
		return Outcome{}
	}
	return out
}

func (r tenByTenRule) EndOfQuestion([]domain.Player) {}
