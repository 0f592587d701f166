package app

// CommandType names a control-surface command.
type CommandType string

const (
	CmdCorrect          CommandType = "correct"
	CmdWrong            CommandType = "wrong"
	CmdReset            CommandType = "reset"
	CmdForceWin         CommandType = "forceWin"
	CmdForceLose        CommandType = "forceLose"
	CmdSkip             CommandType = "skip"
	CmdUndo             CommandType = "undo"
	CmdSwitchMode       CommandType = "switchMode"
	CmdSetTimer         CommandType = "setTimer"
	CmdStartStopTimer   CommandType = "startStopTimer"
	CmdResetTimer       CommandType = "resetTimer"
	CmdSelectCourse     CommandType = "selectCourse"
	CmdSetSemifinalSet  CommandType = "setSemifinalSet"
	CmdToggleHideScores CommandType = "toggleHideScores"
	CmdNewFinalSet      CommandType = "newFinalSet"
	CmdSeedCohort       CommandType = "seedCohort"
	CmdFollowRange      CommandType = "followRange"
	CmdFollowNext       CommandType = "followNext"
	CmdFollowPrev       CommandType = "followPrev"
	CmdLoadQuestions    CommandType = "loadQuestions"
	CmdLoadRoster       CommandType = "loadRoster"
)

// Command is one operator request. Only the fields its Type reads are set.
type Command struct {
	Type    CommandType `json:"type"`
	Slot    int         `json:"slot"`
	Mode    string      `json:"mode,omitempty"`
	Seconds int         `json:"seconds,omitempty"`
	Set     int         `json:"set,omitempty"`
	Course  string      `json:"course,omitempty"`
	Cohort  string      `json:"cohort,omitempty"`
	Entries []SeedEntry `json:"entries,omitempty"`
	Start   int         `json:"start,omitempty"`
	End     int         `json:"end,omitempty"`
	// Source names the question set or roster to load.
	Source string `json:"source,omitempty"`
}

// SeedEntry is one manually entered semifinal or extra-round slot.
type SeedEntry struct {
	Rank      int    `json:"rank"`
	PhotoPath string `json:"photoPath,omitempty"`
	Score     int    `json:"score"`
	Wrong     int    `json:"wrong"`
}
