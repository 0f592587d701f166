package scoring

import "quizshow-scoreboard/internal/domain"

// CountWinners returns how many players of the cohort hold a win-order for f.
func CountWinners(cohort []domain.Player, f domain.Format) int {
	n := 0
	for _, p := range cohort {
		if s, ok := p.States[f]; ok && s.WinOrder() > 0 {
			n++
		}
	}
	return n
}

// AllocateWinOrder gives cohort[slot] the next free win-order for f. The rank
// is derived from the cohort on every call, so it stays dense after an undo.
// A player already holding a rank keeps it and the call reports false.
func AllocateWinOrder(cohort []domain.Player, slot int, f domain.Format) (int, bool) {
	s, ok := cohort[slot].States[f]
	if !ok {
		return 0, false
	}
	if order := s.WinOrder(); order > 0 {
		return order, false
	}
	order := CountWinners(cohort, f) + 1
	cohort[slot].States[f] = s.WithWinOrder(order)
	return order, true
}

// ReleaseWinOrder clears cohort[slot]'s win-order for f and moves every later
// rank up by one, so the held orders stay exactly 1..K.
func ReleaseWinOrder(cohort []domain.Player, slot int, f domain.Format) {
	s, ok := cohort[slot].States[f]
	if !ok {
		return
	}
	released := s.WinOrder()
	if released == 0 {
		return
	}
	cohort[slot].States[f] = s.WithWinOrder(0)
	for i := range cohort {
		other, ok := cohort[i].States[f]
		if !ok || other.WinOrder() <= released {
			continue
		}
		cohort[i].States[f] = other.WithWinOrder(other.WinOrder() - 1)
	}
}
