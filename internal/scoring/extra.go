package scoring

import "quizshow-scoreboard/internal/domain"

// extraRule: one miss eliminates, Target correct wins, and the last player
// without a miss is revived as winner when nobody has won yet.
type extraRule struct {
	cfg ExtraConfig
}

func (r extraRule) Format() domain.Format { return domain.FormatExtra }

func (r extraRule) Initial(domain.Player) domain.FormatState { return domain.ExtraState{} }

func (r extraRule) Blocked(cohort []domain.Player, slot int) bool {
	return stateOf[domain.ExtraState](r, cohort, slot).Wrong >= 1
}

func (r extraRule) Apply(cohort []domain.Player, slot int, action domain.Action, _ Params) Outcome {
	s := stateOf[domain.ExtraState](r, cohort, slot)
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
		s.Wrong++
		put(cohort, slot, s)
		out.emit(EventLose, slot, s.Wrong)
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
		s.Wrong = 1
		put(cohort, slot, s)
		out.emit(EventLose, slot, s.Wrong)
	default:
		return Outcome{}
	}

	r.revive(cohort, &out)
	return out
}

func (r extraRule) EndOfQuestion([]domain.Player) {}

func (r extraRule) revive(cohort []domain.Player, out *Outcome) {
	if CountWinners(cohort, r.Format()) > 0 {
		return
	}
	standing, contenders := -1, 0
	for i, p := range cohort {
		if p.IsPlaceholder() {
			continue
		}
		contenders++
		if s, _ := domain.StateAs[domain.ExtraState](p, r.Format()); s.Wrong == 0 {
			if standing >= 0 {
				return
			}
			standing = i
		}
	}
	if standing < 0 || contenders < 2 {
		return
	}
	if order, ok := AllocateWinOrder(cohort, standing, r.Format()); ok {
		out.emit(EventRevival, standing, order)
	}
}
