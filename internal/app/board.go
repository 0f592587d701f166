package app

import (
	"fmt"
	"strings"

	"quizshow-scoreboard/internal/domain"
)

const (
	statusActive = "active"
	statusWon    = "won"
	statusLost   = "lost"
	statusFrozen = "frozen"

	placeholderName = "---"
)

// Board returns a read-only snapshot of the active mode for rendering.
func (s *Session) Board() domain.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boardLocked()
}

func (s *Session) boardLocked() domain.Board {
	b := domain.Board{
		ShowID:         s.id,
		Mode:           s.mode.String(),
		Header:         s.mode.Header(s.semifinalSet),
		QuestionSet:    s.questionSet,
		QuestionNumber: s.question + 1,
		Timer:          s.timer.Display(),
		TimerAlert:     s.timer.Alert(),
		ShowTimer:      s.showTimer,
		SemifinalSet:   s.semifinalSet,
		HideScores:     s.hideScores,
		UpdatedAt:      s.now(),
	}
	if len(s.questions) > 0 {
		q := s.questions[s.question%len(s.questions)]
		b.Question, b.Answer = q.Text, q.Answer
	}
	if f, ok := s.mode.Format(); ok {
		b.Format = f
	}

	switch s.mode.Kind {
	case domain.ModeCourseSelect:
		b.CoursePool = make([]domain.CoursePick, 0, len(s.pool))
		for i, p := range s.pool {
			b.CoursePool = append(b.CoursePool, domain.CoursePick{
				Slot:   i,
				Rank:   p.Rank,
				Name:   displayName(p),
				Course: s.courses[i],
			})
		}
	case domain.ModeFollow:
		b.FollowQuestions = s.followPageLocked()
	default:
		if ref, ok := s.cohortLocked(s.mode); ok {
			b.Players = make([]domain.PlayerView, 0, len(ref.players))
			for i, p := range ref.players {
				b.Players = append(b.Players, s.viewLocked(i, p, ref.format))
			}
		}
	}
	return b
}

func (s *Session) followPageLocked() []domain.Question {
	var page []domain.Question
	for i := 0; i < followPage; i++ {
		idx := s.followStart + s.followCursor + i
		if idx > s.followEnd || idx >= len(s.questions) {
			break
		}
		page = append(page, s.questions[idx])
	}
	return page
}

func displayName(p domain.Player) string {
	if p.IsPlaceholder() {
		return placeholderName
	}
	return p.Name
}

// viewLocked renders one player the way the overlay shows it: a winner's
// order or outcome replaces the running score.
func (s *Session) viewLocked(slot int, p domain.Player, f domain.Format) domain.PlayerView {
	v := domain.PlayerView{
		Slot:         slot,
		Rank:         p.Rank,
		RankLabel:    p.RankLabel(),
		Name:         displayName(p),
		Organization: p.Organization,
		PhotoPath:    p.PhotoPath,
		Status:       statusActive,
	}
	st, ok := s.engine.StateOf(f, p)
	if !ok {
		v.Text = "-"
		return v
	}
	v.WinOrder = st.WinOrder()
	cfg := s.engine.Config()

	switch st := st.(type) {
	case domain.EliminationState:
		v.Score, v.Wrong, v.Streak = st.Score, st.Wrong, st.Streak
		switch {
		case st.Order > 0:
			v.Status, v.Text = statusWon, domain.Ordinal(st.Order)+" WIN"
		case st.Wrong >= cfg.Elimination.LoseWrongs:
			v.Status, v.Text = statusLost, "LOSE"
		default:
			v.Text = strings.TrimSpace(fmt.Sprintf("%d %s", st.Score, strings.Repeat("x", st.Wrong)))
		}
	case domain.TenByTenState:
		v.Score, v.Wrong = st.Product(), cfg.TenByTen.Lives-st.Remaining
		switch {
		case st.Order > 0:
			v.Status, v.Text = statusWon, domain.Ordinal(st.Order)+" WIN"
		default:
			if st.Remaining <= 0 {
				v.Status = statusLost
			}
			v.Text = fmt.Sprintf("%do %dx", st.Correct, st.Remaining)
		}
	case domain.SwedishState:
		v.Score, v.Wrong = st.Correct, st.Penalty
		switch {
		case st.Order > 0:
			v.Status, v.Text = statusWon, domain.Ordinal(st.Order)+" WIN"
		default:
			if st.Penalty >= cfg.Swedish.LosePenalty {
				v.Status = statusLost
			}
			v.Text = fmt.Sprintf("%do %dx", st.Correct, st.Penalty)
		}
	case domain.FreezeState:
		v.Score, v.Wrong, v.Freeze = st.Correct, st.Wrong, st.Freeze
		switch {
		case st.Order > 0:
			v.Status, v.Text = statusWon, domain.Ordinal(st.Order)+" WIN"
		case st.Freeze > 0:
			v.Status, v.Text = statusFrozen, fmt.Sprintf("Freeze %d", st.Freeze)
		default:
			v.Text = fmt.Sprintf("%do %dx", st.Correct, st.Wrong)
		}
	case domain.UpDownState:
		v.Score, v.Wrong = st.Score, st.Wrong
		switch {
		case st.Order > 0:
			v.Status, v.Text = statusWon, domain.Ordinal(st.Order)+" WIN"
		default:
			if st.Forfeited {
				v.Status = statusLost
			}
			v.Text = fmt.Sprintf("%dpt %dx", st.Score, st.Wrong)
		}
	case domain.SemifinalState:
		v.Score = st.Score
		switch st.Status {
		case domain.SemifinalWon:
			v.Status, v.Text = statusWon, "WIN"
		case domain.SemifinalLost:
			v.Status, v.Text = statusLost, "LOSE"
		default:
			v.Text = fmt.Sprintf("%dpt", st.Score)
		}
		if s.hideScores {
			v.Score = 0
			if st.Status == domain.SemifinalActive {
				v.Text = "?"
			}
		}
	case domain.FinalState:
		v.Score, v.Wrong, v.SetsWon = st.Correct, st.Wrong, st.SetsWon
		switch {
		case st.Order > 0:
			v.Status, v.Text = statusWon, "CHAMPION"
		case st.SetLost:
			v.Status, v.Text = statusLost, "LOSE"
		default:
			v.Text = fmt.Sprintf("%dS %do %dx", st.SetsWon, st.Correct, st.Wrong)
		}
	case domain.ExtraState:
		v.Score, v.Wrong = st.Score, st.Wrong
		switch {
		case st.Order > 0:
			v.Status, v.Text = statusWon, "WIN"
		case st.Wrong > 0:
			v.Status, v.Text = statusLost, "LOSE"
		default:
			v.Text = fmt.Sprintf("%dpt", st.Score)
		}
	}
	return v
}
