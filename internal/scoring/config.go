package scoring

import "fmt"

// Config holds every format's thresholds. Zero values are never valid; start
// from DefaultConfig and override.
type Config struct {
	Elimination EliminationConfig `yaml:"elimination"`
	UpDown      UpDownConfig      `yaml:"up_down"`
	Swedish     SwedishConfig     `yaml:"swedish"`
	Freeze      FreezeConfig      `yaml:"freeze"`
	TenByTen    TenByTenConfig    `yaml:"ten_by_ten"`
	Semifinal   SemifinalConfig   `yaml:"semifinal"`
	Final       FinalConfig       `yaml:"final"`
	Extra       ExtraConfig       `yaml:"extra"`
}

type EliminationConfig struct {
	WinPoints  int `yaml:"win_points"`
	LoseWrongs int `yaml:"lose_wrongs"`
}

type UpDownConfig struct {
	Target int `yaml:"target"`
	// ForfeitWrongs is the wrong count written on a forced loss.
	ForfeitWrongs int `yaml:"forfeit_wrongs"`
}

type SwedishConfig struct {
	Target      int `yaml:"target"`
	LosePenalty int `yaml:"lose_penalty"`
}

type FreezeConfig struct {
	Target int `yaml:"target"`
}

type TenByTenConfig struct {
	Target int `yaml:"target"`
	Lives  int `yaml:"lives"`
}

// SetRule is the score delta table of one semifinal set.
type SetRule struct {
	Correct int `yaml:"correct"`
	Wrong   int `yaml:"wrong"`
}

type SemifinalConfig struct {
	// Sets is indexed by set number minus one.
	Sets []SetRule `yaml:"sets"`
}

// Set returns the rule of a 1-based set index.
func (c SemifinalConfig) Set(n int) (SetRule, bool) {
	if n < 1 || n > len(c.Sets) {
		return SetRule{}, false
	}
	return c.Sets[n-1], true
}

type FinalConfig struct {
	SetTarget     int `yaml:"set_target"`
	SetLoseWrongs int `yaml:"set_lose_wrongs"`
	SetsToWin     int `yaml:"sets_to_win"`
}

type ExtraConfig struct {
	Target int `yaml:"target"`
}

// DefaultConfig is the tournament's standard rule sheet.
func DefaultConfig() Config {
	return Config{
		Elimination: EliminationConfig{WinPoints: 5, LoseWrongs: 2},
		UpDown:      UpDownConfig{Target: 10, ForfeitWrongs: 2},
		Swedish:     SwedishConfig{Target: 10, LosePenalty: 10},
		Freeze:      FreezeConfig{Target: 10},
		TenByTen:    TenByTenConfig{Target: 100, Lives: 10},
		Semifinal: SemifinalConfig{Sets: []SetRule{
			{Correct: 1, Wrong: -1},
			{Correct: 1, Wrong: -2},
			{Correct: 2, Wrong: -2},
		}},
		Final: FinalConfig{SetTarget: 7, SetLoseWrongs: 3, SetsToWin: 3},
		Extra: ExtraConfig{Target: 5},
	}
}

// Validate rejects thresholds that would leave a format unplayable, such as
// zero lives or a target every player already meets.
func (c Config) Validate() error {
	positive := []struct {
		name  string
		value int
	}{
		{"elimination.win_points", c.Elimination.WinPoints},
		{"elimination.lose_wrongs", c.Elimination.LoseWrongs},
		{"up_down.target", c.UpDown.Target},
		{"up_down.forfeit_wrongs", c.UpDown.ForfeitWrongs},
		{"swedish.target", c.Swedish.Target},
		{"swedish.lose_penalty", c.Swedish.LosePenalty},
		{"freeze.target", c.Freeze.Target},
		{"ten_by_ten.target", c.TenByTen.Target},
		{"ten_by_ten.lives", c.TenByTen.Lives},
		{"final.set_target", c.Final.SetTarget},
		{"final.set_lose_wrongs", c.Final.SetLoseWrongs},
		{"final.sets_to_win", c.Final.SetsToWin},
		{"extra.target", c.Extra.Target},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("rules %s must be positive, got %d", p.name, p.value)
		}
	}
	if len(c.Semifinal.Sets) == 0 {
		return fmt.Errorf("rules semifinal.sets must not be empty")
	}
	return nil
}

// AdvantagePoints is the head start a seed carries into the second round.
func AdvantagePoints(rank int) int {
	switch {
	case rank >= 1 && rank <= 4:
		return 3
	case rank >= 5 && rank <= 12:
		return 2
	case rank >= 13 && rank <= 24:
		return 1
	}
	return 0
}

// SwedishPenalty is the penalty charged for a miss at the given correct count.
func SwedishPenalty(correct int) int {
	switch {
	case correct == 0:
		return 1
	case correct >= 1 && correct <= 2:
		return 2
	case correct >= 3 && correct <= 5:
		return 3
	case correct >= 6 && correct <= 9:
		return 4
	}
	return 0
}
