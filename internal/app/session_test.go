package app_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"quizshow-scoreboard/internal/app"
	"quizshow-scoreboard/internal/domain"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/go-cmp/cmp"
)

func newTestSession(t *testing.T) *app.Session {
	t.Helper()
	s := app.NewSession("show-1", app.SessionOptions{
		Debounce:     5 * time.Millisecond,
		TickInterval: 5 * time.Millisecond,
		Now:          func() time.Time { return time.Unix(1700000000, 0) },
	})
	t.Cleanup(s.Close)
	return s
}

func fakeRoster(n int) []domain.RosterEntry {
	faker := gofakeit.New(42)
	entries := make([]domain.RosterEntry, 0, n)
	for rank := 1; rank <= n; rank++ {
		entries = append(entries, domain.RosterEntry{
			Rank:         rank,
			Organization: faker.Company(),
			Name:         faker.Name(),
		})
	}
	return entries
}

func switchMode(t *testing.T, s *app.Session, raw string) {
	t.Helper()
	m, err := domain.ParseMode(raw)
	if err != nil {
		t.Fatalf("parse mode %q: %v", raw, err)
	}
	if err := s.SwitchMode(m); err != nil {
		t.Fatalf("switch to %q: %v", raw, err)
	}
}

func seedEntries(ranks ...int) []app.SeedEntry {
	entries := make([]app.SeedEntry, 0, len(ranks))
	for _, r := range ranks {
		entries = append(entries, app.SeedEntry{Rank: r})
	}
	return entries
}

func TestLoadRosterPlacesBySeed(t *testing.T) {
	s := newTestSession(t)
	roster := append(fakeRoster(48), domain.RosterEntry{Rank: 60, Name: "Too Low", Organization: "X"})

	if placed := s.LoadRoster(roster); placed != 48 {
		t.Fatalf("expected 48 placed entries, got %d", placed)
	}

	group1 := s.Players()
	if group1[0].Rank != 1 || group1[1].Rank != 5 || group1[11].Rank != 45 {
		t.Fatalf("unexpected group 1 seeding: %d, %d, %d", group1[0].Rank, group1[1].Rank, group1[11].Rank)
	}
	if group1[1].Name != roster[4].Name {
		t.Fatalf("expected rank 5 to be %q, got %q", roster[4].Name, group1[1].Name)
	}

	switchMode(t, s, "group:4")
	group4 := s.Players()
	if group4[0].Rank != 4 || group4[0].Name != roster[3].Name {
		t.Fatalf("expected rank 4 to open group 4, got %+v", group4[0])
	}

	board := s.Board()
	if board.Header != "2nd Round Group4" {
		t.Fatalf("unexpected header %q", board.Header)
	}
	if board.Players[0].Text != "3" {
		t.Fatalf("expected seed advantage 3 for rank 4, got %q", board.Players[0].Text)
	}
}

// prepareFinal seeds three semifinal winners, one per set, and opens the final.
func prepareFinal(t *testing.T, s *app.Session) {
	t.Helper()
	if err := s.SeedCohort(domain.ModeSemifinal, seedEntries(1, 2, 3, 4, 5, 6, 7, 8, 9)); err != nil {
		t.Fatalf("seed semifinal: %v", err)
	}
	switchMode(t, s, "semifinal")
	for set, slot := range map[int]int{1: 0, 2: 4, 3: 8} {
		if err := s.SetSemifinalSet(set); err != nil {
			t.Fatalf("set %d: %v", set, err)
		}
		s.Act(slot, domain.ActionForceWin)
	}
	switchMode(t, s, "final")
}

// prepareCourse gives the first two group winners the course and opens it.
func prepareCourse(t *testing.T, s *app.Session, course domain.Format) {
	t.Helper()
	s.Act(0, domain.ActionForceWin)
	s.Act(1, domain.ActionForceWin)
	switchMode(t, s, "courseSelect")
	for slot := 0; slot < 2; slot++ {
		if err := s.SelectCourse(slot, string(course)); err != nil {
			t.Fatalf("select course: %v", err)
		}
	}
	switchMode(t, s, "course:"+string(course))
}

func TestUndoRestoresEveryFormat(t *testing.T) {
	cases := []struct {
		name  string
		setup func(t *testing.T, s *app.Session)
	}{
		{name: "elimination", setup: func(t *testing.T, s *app.Session) {}},
		{name: "up-down", setup: func(t *testing.T, s *app.Session) { prepareCourse(t, s, domain.FormatUpDown) }},
		{name: "swedish", setup: func(t *testing.T, s *app.Session) { prepareCourse(t, s, domain.FormatSwedish) }},
		{name: "freeze", setup: func(t *testing.T, s *app.Session) { prepareCourse(t, s, domain.FormatFreeze) }},
		{name: "10by10", setup: func(t *testing.T, s *app.Session) { prepareCourse(t, s, domain.FormatTenByTen) }},
		{name: "semifinal", setup: func(t *testing.T, s *app.Session) {
			if err := s.SeedCohort(domain.ModeSemifinal, seedEntries(1, 2, 3)); err != nil {
				t.Fatalf("seed: %v", err)
			}
			switchMode(t, s, "semifinal")
		}},
		{name: "final", setup: prepareFinal},
		{name: "extra", setup: func(t *testing.T, s *app.Session) {
			if err := s.SeedCohort(domain.ModeExtra, seedEntries(13, 14, 15)); err != nil {
				t.Fatalf("seed: %v", err)
			}
			switchMode(t, s, "extra")
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSession(t)
			s.LoadRoster(fakeRoster(48))
			tc.setup(t, s)

			before := s.Players()
			question := s.QuestionIndex()

			s.Act(0, domain.ActionCorrect)
			s.Act(1, domain.ActionWrong)
			s.Act(0, domain.ActionForceWin)

			if diff := cmp.Diff(before, s.Players()); diff == "" {
				t.Fatalf("expected actions to change the cohort")
			}

			for i := 0; i < 3; i++ {
				if !s.Undo() {
					t.Fatalf("undo %d reported empty history", i+1)
				}
			}
			if diff := cmp.Diff(before, s.Players()); diff != "" {
				t.Fatalf("cohort not restored (-want +got):\n%s", diff)
			}
			if got := s.QuestionIndex(); got != question {
				t.Fatalf("expected question index %d, got %d", question, got)
			}
		})
	}
}

func TestUndoIsPerCohort(t *testing.T) {
	s := newTestSession(t)
	s.Act(0, domain.ActionCorrect)
	switchMode(t, s, "group:2")

	if s.Undo() {
		t.Fatalf("group 2 has no history yet")
	}
	switchMode(t, s, "group:1")
	if !s.Undo() {
		t.Fatalf("expected group 1 history to survive the tab switch")
	}
}

func TestActOutsideCohortIsIgnored(t *testing.T) {
	s := newTestSession(t)

	out := s.Act(12, domain.ActionCorrect)
	if out.Applied || out.Blocked {
		t.Fatalf("expected no-op outcome, got %+v", out)
	}
	if s.Undo() {
		t.Fatalf("an ignored action must not record history")
	}

	switchMode(t, s, "courseSelect")
	if out := s.Act(0, domain.ActionCorrect); out.Applied {
		t.Fatalf("course select has no cohort to score")
	}
}

func TestQuestionIndexWraps(t *testing.T) {
	s := newTestSession(t)
	s.SetQuestions(domain.QuestionSet{ID: "qs", Questions: []domain.Question{
		{Text: "Q1", Answer: "A1"},
		{Text: "Q2", Answer: "A2"},
	}})

	s.Act(0, domain.ActionCorrect)
	s.Act(1, domain.ActionWrong)
	s.Act(2, domain.ActionCorrect)

	board := s.Board()
	if board.QuestionNumber != 2 || board.Question != "Q2" || board.Answer != "A2" {
		t.Fatalf("expected to sit on Q2, got #%d %q", board.QuestionNumber, board.Question)
	}
	if board.QuestionSet != "qs" {
		t.Fatalf("expected question set id, got %q", board.QuestionSet)
	}

	s.Skip()
	if s.QuestionIndex() != 0 {
		t.Fatalf("expected skip to wrap to the first question, got %d", s.QuestionIndex())
	}
}

func TestFreezeCourseThawsOnSkip(t *testing.T) {
	s := newTestSession(t)
	s.LoadRoster(fakeRoster(48))
	prepareCourse(t, s, domain.FormatFreeze)

	s.Act(0, domain.ActionWrong)
	board := s.Board()
	if board.Players[0].Freeze != 1 || board.Players[0].Text != "Freeze 1" {
		t.Fatalf("expected one question of freeze, got %+v", board.Players[0])
	}

	if out := s.Act(0, domain.ActionCorrect); !out.Blocked {
		t.Fatalf("expected frozen player to be blocked, got %+v", out)
	}

	s.Skip()
	if out := s.Act(0, domain.ActionCorrect); !out.Applied {
		t.Fatalf("expected player to act again after the skip, got %+v", out)
	}
	if got := s.Board().Players[0].Text; got != "1o 1x" {
		t.Fatalf("unexpected score text %q", got)
	}
}

func TestCoursePoolKeepsSelectionsAcrossRebuilds(t *testing.T) {
	s := newTestSession(t)
	s.LoadRoster(fakeRoster(48))

	// group 1: rank 9 wins first, then rank 1
	s.Act(2, domain.ActionForceWin)
	s.Act(0, domain.ActionForceWin)
	switchMode(t, s, "group:2")
	s.Act(0, domain.ActionForceWin)

	switchMode(t, s, "courseSelect")
	pool := s.Board().CoursePool
	if len(pool) != 20 {
		t.Fatalf("expected 20 pool slots, got %d", len(pool))
	}
	if pool[0].Rank != 2 || pool[1].Rank != 9 || pool[2].Rank != 1 || pool[3].Name != "---" {
		t.Fatalf("unexpected pool order: %+v", pool[:4])
	}
	if err := s.SelectCourse(2, string(domain.FormatSwedish)); err != nil {
		t.Fatalf("select: %v", err)
	}

	switchMode(t, s, "course:Swedish10")
	s.Act(0, domain.ActionCorrect)

	switchMode(t, s, "group:3")
	s.Act(0, domain.ActionForceWin)
	switchMode(t, s, "courseSelect")

	pool = s.Board().CoursePool
	if pool[3].Rank != 1 || pool[3].Course != domain.FormatSwedish {
		t.Fatalf("expected rank 1 to keep Swedish10 at slot 3, got %+v", pool[3])
	}

	switchMode(t, s, "course:Swedish10")
	players := s.Players()
	if len(players) != 1 || players[0].Rank != 1 {
		t.Fatalf("unexpected course cohort %+v", players)
	}
	if st, _ := domain.StateAs[domain.SwedishState](players[0], domain.FormatSwedish); st.Correct != 1 {
		t.Fatalf("expected course progress to survive the rebuild, got %+v", st)
	}

	if err := s.SelectCourse(0, "Marathon"); !errors.Is(err, domain.ErrUnknownMode) {
		t.Fatalf("expected unknown course error, got %v", err)
	}
}

func TestFinalSeatsSemifinalWinnersBySet(t *testing.T) {
	s := newTestSession(t)
	s.LoadRoster(fakeRoster(48))
	prepareFinal(t, s)

	players := s.Players()
	if len(players) != 3 || players[0].Rank != 1 || players[1].Rank != 5 || players[2].Rank != 9 {
		t.Fatalf("unexpected finalists %+v", players)
	}

	s.Act(1, domain.ActionCorrect)
	switchMode(t, s, "semifinal")
	switchMode(t, s, "final")

	board := s.Board()
	if board.Players[1].Text != "0S 1o 0x" {
		t.Fatalf("expected final progress to survive reseeding, got %q", board.Players[1].Text)
	}
	if board.Header != "Final - Triple Seven" {
		t.Fatalf("unexpected header %q", board.Header)
	}
}

func TestFinalSetClosesUntilNewSet(t *testing.T) {
	s := newTestSession(t)
	s.LoadRoster(fakeRoster(48))
	prepareFinal(t, s)

	s.Act(0, domain.ActionForceLose)
	s.Act(1, domain.ActionForceLose)

	board := s.Board()
	if board.Players[2].SetsWon != 1 || board.Players[2].Score != 7 {
		t.Fatalf("expected attrition set for slot 2, got %+v", board.Players[2])
	}
	if out := s.Act(2, domain.ActionCorrect); !out.Blocked {
		t.Fatalf("expected closed set to block answers, got %+v", out)
	}

	s.NewFinalSet()
	board = s.Board()
	for _, p := range board.Players {
		if p.Score != 0 || p.Wrong != 0 || p.Status != "active" {
			t.Fatalf("expected a fresh set, got %+v", p)
		}
	}
	if board.Players[2].SetsWon != 1 {
		t.Fatalf("sets won must carry over, got %d", board.Players[2].SetsWon)
	}

	if !s.Undo() {
		t.Fatalf("expected the new set to be undoable")
	}
	if got := s.Board().Players[0].Text; got != "LOSE" {
		t.Fatalf("expected undo to restore the lost set, got %q", got)
	}
}

func TestSeedCohortRequiresRoster(t *testing.T) {
	s := newTestSession(t)
	err := s.SeedCohort(domain.ModeSemifinal, seedEntries(1))
	if !errors.Is(err, domain.ErrRosterNotLoaded) {
		t.Fatalf("expected roster error, got %v", err)
	}
	if err := s.SeedCohort(domain.ModeFinal, nil); !errors.Is(err, domain.ErrUnknownMode) {
		t.Fatalf("expected only semifinal and extra to be seedable, got %v", err)
	}

	s.LoadRoster(fakeRoster(12))
	if err := s.SeedCohort(domain.ModeSemifinal, seedEntries(3, 0)); !errors.Is(err, domain.ErrInvalidEntry) {
		t.Fatalf("expected invalid entry, got %v", err)
	}
	switchMode(t, s, "semifinal")
	if s.Undo() {
		t.Fatal("rejected seed must not record history")
	}
}

func TestSeedCohortCopiesRosterAndScores(t *testing.T) {
	s := newTestSession(t)
	roster := fakeRoster(48)
	s.LoadRoster(roster)

	entries := []app.SeedEntry{
		{Rank: 7, PhotoPath: "photos/7.png", Score: 2, Wrong: 0},
		{Rank: 70, Score: 1},
		{Rank: 12, Wrong: 1},
	}
	if err := s.SeedCohort(domain.ModeExtra, entries); err != nil {
		t.Fatalf("seed: %v", err)
	}
	switchMode(t, s, "extra")

	board := s.Board()
	if len(board.Players) != 12 {
		t.Fatalf("expected 12 extra slots, got %d", len(board.Players))
	}
	first := board.Players[0]
	if first.Name != roster[6].Name || first.PhotoPath != "photos/7.png" || first.Text != "2pt" {
		t.Fatalf("unexpected first slot %+v", first)
	}
	if board.Players[1].Name != "---" || board.Players[1].Rank != 70 {
		t.Fatalf("expected unknown rank to stay a placeholder, got %+v", board.Players[1])
	}
	if board.Players[2].Text != "LOSE" {
		t.Fatalf("expected seeded miss to show LOSE, got %q", board.Players[2].Text)
	}
}

func TestSemifinalHideScores(t *testing.T) {
	s := newTestSession(t)
	s.LoadRoster(fakeRoster(48))
	if err := s.SeedCohort(domain.ModeSemifinal, []app.SeedEntry{{Rank: 1, Score: 3}, {Rank: 2}}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	switchMode(t, s, "semifinal")
	if err := s.SetSemifinalSet(3); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.Act(1, domain.ActionForceWin)

	if !s.ToggleHideScores() {
		t.Fatalf("expected scores hidden")
	}
	board := s.Board()
	if board.Players[0].Text != "?" || board.Players[0].Score != 0 {
		t.Fatalf("expected hidden score, got %+v", board.Players[0])
	}
	if board.Players[1].Text != "WIN" {
		t.Fatalf("outcomes stay visible, got %q", board.Players[1].Text)
	}
	if board.Header != "Semifinal Nine Hundred - Set 3" {
		t.Fatalf("unexpected header %q", board.Header)
	}

	if err := s.SetSemifinalSet(4); !errors.Is(err, domain.ErrInvalidSet) {
		t.Fatalf("expected invalid set error, got %v", err)
	}
}

func TestFollowPaging(t *testing.T) {
	s := newTestSession(t)
	questions := make([]domain.Question, 0, 7)
	for i := 1; i <= 7; i++ {
		questions = append(questions, domain.Question{Text: fmt.Sprintf("Q%d", i), Answer: fmt.Sprintf("A%d", i)})
	}
	s.SetQuestions(domain.QuestionSet{ID: "sf", Questions: questions})
	switchMode(t, s, "follow")

	if err := s.FollowRange(3, 2); !errors.Is(err, domain.ErrInvalidRange) {
		t.Fatalf("expected range error, got %v", err)
	}
	if err := s.FollowRange(1, 7); err != nil {
		t.Fatalf("range: %v", err)
	}

	page := func() []string {
		var texts []string
		for _, q := range s.Board().FollowQuestions {
			texts = append(texts, q.Text)
		}
		return texts
	}

	if diff := cmp.Diff([]string{"Q1", "Q2", "Q3"}, page()); diff != "" {
		t.Fatalf("first page (-want +got):\n%s", diff)
	}
	if !s.FollowNext() || !s.FollowNext() {
		t.Fatalf("expected two more pages")
	}
	if diff := cmp.Diff([]string{"Q7"}, page()); diff != "" {
		t.Fatalf("last page (-want +got):\n%s", diff)
	}
	if s.FollowNext() {
		t.Fatalf("expected no page past the range")
	}
	if !s.FollowPrev() {
		t.Fatalf("expected to page back")
	}
	if diff := cmp.Diff([]string{"Q4", "Q5", "Q6"}, page()); diff != "" {
		t.Fatalf("middle page (-want +got):\n%s", diff)
	}
}

func TestExecuteRoutesCommands(t *testing.T) {
	s := newTestSession(t)

	board, err := s.Execute(app.Command{Type: app.CmdSwitchMode, Mode: "group:2"})
	if err != nil {
		t.Fatalf("switch: %v", err)
	}
	if board.Mode != "group:2" {
		t.Fatalf("expected group:2, got %q", board.Mode)
	}

	board, err = s.Execute(app.Command{Type: app.CmdCorrect, Slot: 0})
	if err != nil {
		t.Fatalf("correct: %v", err)
	}
	if board.Players[0].Text != "4" || !board.Players[0].Streak {
		t.Fatalf("expected rank 2 on 4 with streak, got %+v", board.Players[0])
	}

	board, err = s.Execute(app.Command{Type: app.CmdUndo})
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if board.Players[0].Text != "3" {
		t.Fatalf("expected undo to restore 3, got %q", board.Players[0].Text)
	}

	if _, err := s.Execute(app.Command{Type: app.CmdSwitchMode, Mode: "group:9"}); !errors.Is(err, domain.ErrUnknownMode) {
		t.Fatalf("expected unknown mode, got %v", err)
	}
	if _, err := s.Execute(app.Command{Type: "dance"}); !errors.Is(err, domain.ErrUnknownCommand) {
		t.Fatalf("expected unknown command, got %v", err)
	}

	board, err = s.Execute(app.Command{Type: app.CmdSetTimer, Seconds: 95})
	if err != nil {
		t.Fatalf("timer: %v", err)
	}
	if board.Timer != "01:35" || board.TimerAlert {
		t.Fatalf("unexpected timer %q alert=%v", board.Timer, board.TimerAlert)
	}
}

func TestSubscribeCoalescesBursts(t *testing.T) {
	s := app.NewSession("show-1", app.SessionOptions{Debounce: 20 * time.Millisecond})
	defer s.Close()

	ch, cancel := s.Subscribe()
	defer cancel()
	<-ch // initial board

	for i := 0; i < 5; i++ {
		s.Act(i, domain.ActionWrong)
	}

	select {
	case board := <-ch:
		if board.QuestionNumber != 6 {
			t.Fatalf("expected the coalesced board to reflect every action, got question %d", board.QuestionNumber)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for board")
	}

	select {
	case board := <-ch:
		t.Fatalf("expected a single render for the burst, got another at question %d", board.QuestionNumber)
	case <-time.After(80 * time.Millisecond):
	}
}

func TestCloseEndsSubscriptions(t *testing.T) {
	s := app.NewSession("show-1", app.SessionOptions{})
	ch, cancel := s.Subscribe()
	<-ch

	s.Close()
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel to be closed")
	}
	cancel()
}

func TestGroupResetReleasesWinOrder(t *testing.T) {
	s := newTestSession(t)
	s.LoadRoster(fakeRoster(48))

	for _, slot := range []int{0, 1, 2} {
		s.Act(slot, domain.ActionForceWin)
	}
	s.Act(0, domain.ActionReset)
	s.Act(3, domain.ActionForceWin)

	got := make([]int, 0, 4)
	for _, v := range s.Board().Players[:4] {
		got = append(got, v.WinOrder)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3}, got); diff != "" {
		t.Fatalf("win orders (-want +got):\n%s", diff)
	}
	if text := s.Board().Players[3].Text; text != "3rd WIN" {
		t.Fatalf("expected third winner label, got %q", text)
	}
}
