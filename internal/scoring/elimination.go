package scoring

import "quizshow-scoreboard/internal/domain"

// eliminationRule is the second-round N-win/M-wrong format with the streak bonus.
type eliminationRule struct {
	cfg EliminationConfig
}

func (r eliminationRule) Format() domain.Format { return domain.FormatElimination }

func (r eliminationRule) Initial(p domain.Player) domain.FormatState {
	return domain.EliminationState{Score: AdvantagePoints(p.Rank)}
}

func (r eliminationRule) Blocked(cohort []domain.Player, slot int) bool {
	return stateOf[domain.EliminationState](r, cohort, slot).Wrong >= r.cfg.LoseWrongs
}

func (r eliminationRule) Apply(cohort []domain.Player, slot int, action domain.Action, _ Params) Outcome {
	s := stateOf[domain.EliminationState](r, cohort, slot)
	out := Outcome{Applied: true}

	switch action {
	case domain.ActionCorrect:
		if s.Streak {
			s.Score += 2
			s.Streak = false
		} else {
			s.Score++
			s.Streak = s.Score < r.cfg.WinPoints
		}
		put(cohort, slot, s)
		for i := range cohort {
			if i == slot {
				continue
			}
			if other, ok := domain.StateAs[domain.EliminationState](cohort[i], r.Format()); ok && other.Streak {
				other.Streak = false
				put(cohort, i, other)
			}
		}
		if s.Score >= r.cfg.WinPoints {
			if order, ok := AllocateWinOrder(cohort, slot, r.Format()); ok {
				out.emit(EventWin, slot, order)
			}
		}
		out.Advance = true
	case domain.ActionWrong:
		s.Wrong++
		s.Streak = false
		put(cohort, slot, s)
		if s.Wrong >= r.cfg.LoseWrongs {
			out.emit(EventLose, slot, s.Wrong)
		}
		out.Advance = true
	case domain.ActionReset:
		ReleaseWinOrder(cohort, slot, r.Format())
		put(cohort, slot, r.Initial(cohort[slot]))
	case domain.ActionForceWin:
		s.Score = r.cfg.WinPoints
		put(cohort, slot, s)
		if order, ok := AllocateWinOrder(cohort, slot, r.Format()); ok {
			out.emit(EventWin, slot, order)
		}
	case domain.ActionForceLose:
		s.Wrong = r.cfg.LoseWrongs
		put(cohort, slot, s)
		out.emit(EventLose, slot, s.Wrong)
	default:
		return Outcome{}
	}
	return out
}

func (r eliminationRule) EndOfQuestion([]domain.Player) {}
