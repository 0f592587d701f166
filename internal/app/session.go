package app

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"quizshow-scoreboard/internal/domain"
	"quizshow-scoreboard/internal/metrics"
	"quizshow-scoreboard/internal/scoring"

	"github.com/sirupsen/logrus"
)

const (
	groupSize       = 12
	poolSize        = 20
	courseSize      = 5
	semifinalSize   = 9
	finalSize       = 3
	extraSize       = 12
	followPage      = 3
	placeholderRank = 99

	defaultDebounce     = 30 * time.Millisecond
	defaultTimerSeconds = 60
)

// SessionOptions configures a show session. Zero values fall back to defaults.
type SessionOptions struct {
	Engine       *scoring.Engine
	Logger       logrus.FieldLogger
	Metrics      metrics.Recorder
	TimerSeconds int
	TickInterval time.Duration
	Debounce     time.Duration
	ShowTimer    bool
	Now          func() time.Time
}

func (o SessionOptions) withDefaults() SessionOptions {
	if o.Engine == nil {
		o.Engine = scoring.NewEngine(scoring.DefaultConfig())
	}
	if o.Logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		o.Logger = l
	}
	if o.Metrics == nil {
		o.Metrics = metrics.Nop{}
	}
	if o.TimerSeconds < 0 {
		o.TimerSeconds = 0
	} else if o.TimerSeconds == 0 {
		o.TimerSeconds = defaultTimerSeconds
	}
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second
	}
	if o.Debounce <= 0 {
		o.Debounce = defaultDebounce
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Session owns every cohort of one show and is the only writer of player
// state. All exported methods are safe for concurrent use.
type Session struct {
	id      string
	engine  *scoring.Engine
	log     logrus.FieldLogger
	metrics metrics.Recorder
	now     func() time.Time
	timer   *Timer
	feed    *feed

	mu sync.Mutex

	mode domain.Mode

	roster map[int]domain.RosterEntry

	groups    [domain.NumGroups][]domain.Player
	pool      []domain.Player
	courses   map[int]domain.Format // pool slot -> course
	semifinal []domain.Player
	final     []domain.Player
	extra     []domain.Player

	questionSet string
	questions   []domain.Question
	question    int

	semifinalSet int
	hideScores   bool
	showTimer    bool

	followStart  int
	followEnd    int
	followCursor int

	history *History
}

// NewSession builds a show with placeholder cohorts and the first group active.
func NewSession(id string, opts SessionOptions) *Session {
	opts = opts.withDefaults()
	s := &Session{
		id:           id,
		engine:       opts.Engine,
		log:          opts.Logger.WithField("show", id),
		metrics:      opts.Metrics,
		now:          opts.Now,
		mode:         domain.GroupMode(0),
		courses:      make(map[int]domain.Format),
		semifinalSet: 1,
		showTimer:    opts.ShowTimer,
		history:      NewHistory(),
	}
	s.feed = newFeed(opts.Debounce, s.Board)
	s.timer = NewTimer(opts.TimerSeconds, opts.TickInterval, s.feed.notify)

	for g := range s.groups {
		group := make([]domain.Player, groupSize)
		for i := range group {
			group[i] = domain.NewPlaceholder(i*domain.NumGroups + g + 1)
		}
		s.engine.Prepare(domain.FormatElimination, group)
		s.groups[g] = group
	}
	s.pool = placeholders(poolSize)
	s.semifinal = placeholders(semifinalSize)
	s.engine.Prepare(domain.FormatSemifinal, s.semifinal)
	s.final = placeholders(finalSize)
	s.engine.Prepare(domain.FormatFinal, s.final)
	s.extra = placeholders(extraSize)
	s.engine.Prepare(domain.FormatExtra, s.extra)
	return s
}

func placeholders(n int) []domain.Player {
	out := make([]domain.Player, n)
	for i := range out {
		out[i] = domain.NewPlaceholder(placeholderRank)
	}
	return out
}

func (s *Session) ID() string { return s.id }

// cohortRef is the active cohort of a mode. players aliases the backing list
// unless slots is set, in which case it is a gathered view of the pool.
type cohortRef struct {
	key     string
	format  domain.Format
	players []domain.Player
	slots   []int
}

func (s *Session) cohortLocked(m domain.Mode) (cohortRef, bool) {
	f, ok := m.Format()
	if !ok {
		return cohortRef{}, false
	}
	ref := cohortRef{key: m.CohortKey(), format: f}
	switch m.Kind {
	case domain.ModeGroup:
		ref.players = s.groups[m.Group]
	case domain.ModeCourse:
		ref.slots = s.courseSlotsLocked(m.Course)
		ref.players = make([]domain.Player, len(ref.slots))
		for i, idx := range ref.slots {
			ref.players[i] = s.pool[idx]
		}
	case domain.ModeSemifinal:
		ref.players = s.semifinal
	case domain.ModeFinal:
		ref.players = s.final
	case domain.ModeExtra:
		ref.players = s.extra
	default:
		return cohortRef{}, false
	}
	return ref, true
}

// commitLocked writes a gathered course view back into the pool.
func (s *Session) commitLocked(ref cohortRef) {
	for i, idx := range ref.slots {
		s.pool[idx] = ref.players[i]
	}
}

// courseSlotsLocked lists the pool slots assigned to a course, best seed first.
func (s *Session) courseSlotsLocked(course domain.Format) []int {
	var slots []int
	for idx, c := range s.courses {
		if c == course && idx < len(s.pool) {
			slots = append(slots, idx)
		}
	}
	sort.Slice(slots, func(i, j int) bool {
		ri, rj := s.pool[slots[i]].Rank, s.pool[slots[j]].Rank
		if ri != rj {
			return ri < rj
		}
		return slots[i] < slots[j]
	})
	if len(slots) > courseSize {
		slots = slots[:courseSize]
	}
	return slots
}

func (s *Session) saveLocked(ref cohortRef) {
	s.history.Save(ref.key, NewSnapshot(ref.players, ref.slots, s.question))
}

func (s *Session) paramsLocked() scoring.Params {
	return scoring.Params{SemifinalSet: s.semifinalSet}
}

func (s *Session) advanceLocked() {
	if len(s.questions) == 0 {
		s.question++
		return
	}
	s.question = (s.question + 1) % len(s.questions)
}

// Act applies an operator verdict to a slot of the active cohort. Slots
// outside the cohort and modes without a cohort are ignored.
func (s *Session) Act(slot int, action domain.Action) scoring.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref, ok := s.cohortLocked(s.mode)
	if !ok || slot < 0 || slot >= len(ref.players) {
		return scoring.Outcome{}
	}
	s.saveLocked(ref)

	out := s.engine.Apply(ref.format, ref.players, slot, action, s.paramsLocked())
	s.commitLocked(ref)
	if out.Advance {
		s.advanceLocked()
	}

	entry := s.log.WithFields(logrus.Fields{
		"mode":   s.mode.String(),
		"slot":   slot,
		"action": action,
	})
	switch {
	case out.Blocked:
		s.metrics.ActionBlocked(ref.format)
		entry.Debug("action blocked")
	case out.Applied:
		s.metrics.ActionApplied(ref.format, action)
		entry.Debug("action applied")
	}
	for _, ev := range out.Events {
		entry.WithFields(logrus.Fields{"event": ev.Kind, "player": ev.Slot, "value": ev.Value}).Info("scoring event")
	}

	s.feed.notify()
	return out
}

// Skip closes the current question without a verdict and moves on.
func (s *Session) Skip() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ref, ok := s.cohortLocked(s.mode); ok {
		s.saveLocked(ref)
		s.engine.EndOfQuestion(ref.format, ref.players)
		s.commitLocked(ref)
	}
	s.advanceLocked()
	s.feed.notify()
}

// Undo rolls the active cohort back one step. It reports false when the
// cohort has no history.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.mode.CohortKey()
	snap, ok := s.history.Undo(key)
	if !ok {
		return false
	}
	s.restoreLocked(s.mode, snap)
	s.question = snap.Question()
	s.metrics.Undo(key)
	s.log.WithField("cohort", key).Debug("undo")
	s.feed.notify()
	return true
}

func (s *Session) restoreLocked(m domain.Mode, snap Snapshot) {
	players := snap.Players()
	switch m.Kind {
	case domain.ModeGroup:
		s.groups[m.Group] = players
	case domain.ModeCourse:
		for i, idx := range snap.Slots() {
			if target := s.poolIndexLocked(idx, players[i]); target >= 0 {
				s.pool[target] = players[i]
			}
		}
	case domain.ModeSemifinal:
		s.semifinal = players
	case domain.ModeFinal:
		s.final = players
	case domain.ModeExtra:
		s.extra = players
	}
}

// poolIndexLocked finds where a snapshotted pool player lives now. The pool
// may have been rebuilt since, so a moved player is looked up by rank.
func (s *Session) poolIndexLocked(idx int, p domain.Player) int {
	if idx < len(s.pool) && s.pool[idx].Rank == p.Rank {
		return idx
	}
	if p.IsPlaceholder() {
		return -1
	}
	for i, q := range s.pool {
		if !q.IsPlaceholder() && q.Rank == p.Rank {
			return i
		}
	}
	return -1
}

// SwitchMode changes the active tab. Player state is untouched except that
// the course pool and the final are re-derived from earlier rounds.
func (s *Session) SwitchMode(m domain.Mode) error {
	switch m.Kind {
	case domain.ModeGroup:
		if m.Group < 0 || m.Group >= domain.NumGroups {
			return fmt.Errorf("%w: group %d", domain.ErrUnknownMode, m.Group+1)
		}
	case domain.ModeCourse:
		if !m.Course.IsCourse() {
			return fmt.Errorf("%w: course %q", domain.ErrUnknownMode, m.Course)
		}
	case domain.ModeCourseSelect, domain.ModeSemifinal, domain.ModeFinal, domain.ModeExtra, domain.ModeFollow:
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnknownMode, m.Kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch m.Kind {
	case domain.ModeCourseSelect:
		s.rebuildPoolLocked()
	case domain.ModeFinal:
		s.seedFinalLocked()
	}
	s.mode = m
	s.log.WithField("mode", m.String()).Info("mode switched")
	s.feed.notify()
	return nil
}

// rebuildPoolLocked refills the course pool with the group winners ordered by
// win-order then seed. Players already in the pool keep their course state.
func (s *Session) rebuildPoolLocked() {
	var winners []domain.Player
	for _, group := range s.groups {
		for _, p := range group {
			if st, ok := p.States[domain.FormatElimination]; ok && st.WinOrder() > 0 {
				winners = append(winners, p)
			}
		}
	}
	sort.SliceStable(winners, func(i, j int) bool {
		oi := winners[i].States[domain.FormatElimination].WinOrder()
		oj := winners[j].States[domain.FormatElimination].WinOrder()
		if oi != oj {
			return oi < oj
		}
		return winners[i].Rank < winners[j].Rank
	})

	previous := make(map[int]domain.Player)
	for _, p := range s.pool {
		if !p.IsPlaceholder() {
			previous[p.Rank] = p
		}
	}

	pool := make([]domain.Player, 0, poolSize)
	for _, w := range winners {
		if len(pool) == poolSize {
			break
		}
		rec := w.Clone()
		if old, ok := previous[w.Rank]; ok {
			for f, st := range old.States {
				if f != domain.FormatElimination {
					rec.States[f] = st
				}
			}
		}
		pool = append(pool, rec)
	}
	for len(pool) < poolSize {
		pool = append(pool, domain.NewPlaceholder(placeholderRank))
	}

	courses := make(map[int]domain.Format)
	for idx, c := range s.courses {
		if idx >= len(s.pool) || s.pool[idx].IsPlaceholder() {
			continue
		}
		for i, p := range pool {
			if !p.IsPlaceholder() && p.Rank == s.pool[idx].Rank {
				courses[i] = c
				break
			}
		}
	}
	s.pool = pool
	s.courses = courses
}

// seedFinalLocked places each semifinal winner at the slot of the set they
// won in. Finalists already seated keep their final state.
func (s *Session) seedFinalLocked() {
	previous := make(map[int]domain.Player)
	for _, p := range s.final {
		if !p.IsPlaceholder() {
			previous[p.Rank] = p
		}
	}

	final := placeholders(finalSize)
	for _, p := range s.semifinal {
		st, ok := domain.StateAs[domain.SemifinalState](p, domain.FormatSemifinal)
		if !ok || st.Status != domain.SemifinalWon || st.ExitSet < 1 || st.ExitSet > finalSize {
			continue
		}
		rec := p.Clone()
		if old, ok := previous[p.Rank]; ok && !p.IsPlaceholder() {
			if fs, ok := old.States[domain.FormatFinal]; ok {
				rec.States[domain.FormatFinal] = fs
			}
		}
		final[st.ExitSet-1] = rec
	}
	s.engine.Prepare(domain.FormatFinal, final)
	s.final = final
}

// SelectCourse assigns a pool slot to a third-round course; "" or "none"
// clears the assignment.
func (s *Session) SelectCourse(poolSlot int, course string) error {
	f, assign, err := domain.ParseCourse(course)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if poolSlot < 0 || poolSlot >= len(s.pool) {
		return nil
	}
	if !assign {
		delete(s.courses, poolSlot)
	} else {
		s.courses[poolSlot] = f
		s.engine.Prepare(f, s.pool[poolSlot:poolSlot+1])
	}
	s.feed.notify()
	return nil
}

// LoadRoster places roster entries into the elimination groups by seed and
// reports how many landed in a slot.
func (s *Session) LoadRoster(entries []domain.RosterEntry) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	placed := 0
	roster := make(map[int]domain.RosterEntry, len(entries))
	for _, e := range entries {
		if e.Rank < 1 {
			continue
		}
		roster[e.Rank] = e
		g, slot := (e.Rank-1)%domain.NumGroups, (e.Rank-1)/domain.NumGroups
		if slot >= groupSize {
			continue
		}
		s.groups[g][slot].Name = e.Name
		s.groups[g][slot].Organization = e.Organization
		placed++
	}
	if placed == 0 {
		s.log.WithField("entries", len(entries)).Warn("roster had no placeable entries")
		return 0
	}
	s.roster = roster
	s.log.WithField("placed", placed).Info("roster loaded")
	s.feed.notify()
	return placed
}

// SetQuestions replaces the question list and rewinds to the first question.
func (s *Session) SetQuestions(set domain.QuestionSet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.questionSet = set.ID
	s.questions = append([]domain.Question(nil), set.Questions...)
	s.question = 0
	s.followCursor = 0
	s.log.WithFields(logrus.Fields{"set": set.ID, "questions": len(set.Questions)}).Info("questions loaded")
	s.feed.notify()
}

// SeedCohort fills the semifinal or extra cohort from manual entries. Ranks
// found in the roster bring their name and organization along.
func (s *Session) SeedCohort(kind domain.ModeKind, entries []SeedEntry) error {
	var (
		size   int
		format domain.Format
	)
	switch kind {
	case domain.ModeSemifinal:
		size, format = semifinalSize, domain.FormatSemifinal
	case domain.ModeExtra:
		size, format = extraSize, domain.FormatExtra
	default:
		return fmt.Errorf("%w: cannot seed %q", domain.ErrUnknownMode, kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.roster == nil {
		return domain.ErrRosterNotLoaded
	}
	for _, e := range entries {
		if e.Rank < 1 {
			return fmt.Errorf("%w: rank %d", domain.ErrInvalidEntry, e.Rank)
		}
	}
	m := domain.Mode{Kind: kind}
	if ref, ok := s.cohortLocked(m); ok {
		s.saveLocked(ref)
	}

	cohort := placeholders(size)
	for i, e := range entries {
		if i >= size {
			break
		}
		p := domain.NewPlaceholder(e.Rank)
		if r, ok := s.roster[e.Rank]; ok {
			p = domain.NewPlayer(r.Rank, r.Name, r.Organization)
		}
		p.PhotoPath = e.PhotoPath
		if format == domain.FormatSemifinal {
			p.States[format] = domain.SemifinalState{Score: e.Score, Status: domain.SemifinalActive}
		} else {
			p.States[format] = domain.ExtraState{Score: e.Score, Wrong: e.Wrong}
		}
		cohort[i] = p
	}
	s.engine.Prepare(format, cohort)

	if kind == domain.ModeSemifinal {
		s.semifinal = cohort
	} else {
		s.extra = cohort
	}
	s.log.WithFields(logrus.Fields{"cohort": m.CohortKey(), "entries": len(entries)}).Info("cohort seeded")
	s.feed.notify()
	return nil
}

// SetSemifinalSet selects the 1-based semifinal set whose deltas apply.
func (s *Session) SetSemifinalSet(set int) error {
	if _, ok := s.engine.Config().Semifinal.Set(set); !ok {
		return fmt.Errorf("%w: %d", domain.ErrInvalidSet, set)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.semifinalSet = set
	s.feed.notify()
	return nil
}

// ToggleHideScores flips semifinal score hiding and returns the new value.
func (s *Session) ToggleHideScores() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hideScores = !s.hideScores
	s.feed.notify()
	return s.hideScores
}

// NewFinalSet opens the next final set.
func (s *Session) NewFinalSet() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref, _ := s.cohortLocked(domain.Mode{Kind: domain.ModeFinal})
	s.saveLocked(ref)
	scoring.NewFinalSet(s.final)
	s.log.Info("final set opened")
	s.feed.notify()
}

// FollowRange selects the 1-based inclusive question range for the
// semifinal follow-up page.
func (s *Session) FollowRange(start, end int) error {
	if start < 1 || start > end {
		return fmt.Errorf("%w: %d-%d", domain.ErrInvalidRange, start, end)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.followStart, s.followEnd, s.followCursor = start-1, end-1, 0
	s.feed.notify()
	return nil
}

// FollowNext pages forward while questions of the range remain.
func (s *Session) FollowNext() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.followStart+s.followCursor+followPage > s.followEnd {
		return false
	}
	s.followCursor += followPage
	s.feed.notify()
	return true
}

func (s *Session) FollowPrev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.followCursor < followPage {
		return false
	}
	s.followCursor -= followPage
	s.feed.notify()
	return true
}

func (s *Session) SetTimer(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	s.timer.Set(seconds)
	s.feed.notify()
}

// StartStopTimer toggles the countdown and reports whether it now runs.
func (s *Session) StartStopTimer() bool {
	running := s.timer.Toggle()
	s.feed.notify()
	return running
}

func (s *Session) ResetTimer() {
	s.timer.Reset()
	s.feed.notify()
}

// Execute runs one control command and returns the resulting board.
func (s *Session) Execute(cmd Command) (domain.Board, error) {
	var err error
	switch cmd.Type {
	case CmdCorrect, CmdWrong, CmdReset, CmdForceWin, CmdForceLose:
		var action domain.Action
		if action, err = domain.ParseAction(string(cmd.Type)); err == nil {
			s.Act(cmd.Slot, action)
		}
	case CmdSkip:
		s.Skip()
	case CmdUndo:
		s.Undo()
	case CmdSwitchMode:
		var m domain.Mode
		if m, err = domain.ParseMode(cmd.Mode); err == nil {
			err = s.SwitchMode(m)
		}
	case CmdSetTimer:
		s.SetTimer(cmd.Seconds)
	case CmdStartStopTimer:
		s.StartStopTimer()
	case CmdResetTimer:
		s.ResetTimer()
	case CmdSelectCourse:
		err = s.SelectCourse(cmd.Slot, cmd.Course)
	case CmdSetSemifinalSet:
		err = s.SetSemifinalSet(cmd.Set)
	case CmdToggleHideScores:
		s.ToggleHideScores()
	case CmdNewFinalSet:
		s.NewFinalSet()
	case CmdSeedCohort:
		err = s.SeedCohort(domain.ModeKind(cmd.Cohort), cmd.Entries)
	case CmdFollowRange:
		err = s.FollowRange(cmd.Start, cmd.End)
	case CmdFollowNext:
		s.FollowNext()
	case CmdFollowPrev:
		s.FollowPrev()
	default:
		err = fmt.Errorf("%w: %q", domain.ErrUnknownCommand, cmd.Type)
	}
	if err != nil {
		return domain.Board{}, err
	}
	return s.Board(), nil
}

// Subscribe streams boards to a renderer, starting with the current one.
// The caller must invoke the returned cancel function.
func (s *Session) Subscribe() (<-chan domain.Board, func()) {
	return s.feed.subscribe(s.Board())
}

// Close stops the timer and ends every subscription.
func (s *Session) Close() {
	s.timer.Stop()
	s.feed.close()
}

// Mode returns the active mode.
func (s *Session) Mode() domain.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Players returns a copy of the active cohort.
func (s *Session) Players() []domain.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref, ok := s.cohortLocked(s.mode)
	if !ok {
		return nil
	}
	return domain.ClonePlayers(ref.players)
}

// QuestionIndex returns the 0-based position in the question list.
func (s *Session) QuestionIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.question
}
