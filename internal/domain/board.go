package domain

import "time"

// PlayerView is a read-only copy of one player as the renderer sees it.
// Score and Wrong carry the format's primary and penalty measures.
type PlayerView struct {
	Slot         int    `json:"slot"`
	Rank         int    `json:"rank"`
	RankLabel    string `json:"rankLabel"`
	Name         string `json:"name"`
	Organization string `json:"organization"`
	PhotoPath    string `json:"photoPath,omitempty"`
	Score        int    `json:"score"`
	Wrong        int    `json:"wrong"`
	WinOrder     int    `json:"winOrder"`
	Streak       bool   `json:"streak,omitempty"`
	Freeze       int    `json:"freeze,omitempty"`
	SetsWon      int    `json:"setsWon,omitempty"`
	Status       string `json:"status"`
	Text         string `json:"text"`
}

// CoursePick is one row of the third-round course-select pool.
type CoursePick struct {
	Slot   int    `json:"slot"`
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Course Format `json:"course,omitempty"`
}

// Board is the snapshot handed to the rendering collaborator and the control UI.
type Board struct {
	ShowID          string       `json:"showId"`
	Mode            string       `json:"mode"`
	Format          Format       `json:"format,omitempty"`
	Header          string       `json:"header"`
	Players         []PlayerView `json:"players"`
	QuestionSet     string       `json:"questionSet,omitempty"`
	QuestionNumber  int          `json:"questionNumber"`
	Question        string       `json:"question"`
	Answer          string       `json:"answer"`
	Timer           string       `json:"timer"`
	TimerAlert      bool         `json:"timerAlert"`
	ShowTimer       bool         `json:"showTimer"`
	SemifinalSet    int          `json:"semifinalSet"`
	HideScores      bool         `json:"hideScores"`
	CoursePool      []CoursePick `json:"coursePool,omitempty"`
	FollowQuestions []Question   `json:"followQuestions,omitempty"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}
