package domain

// PlayerInfo is one entry of the sorted player dump that goes out on every
// "player" notification. Entries are ordered by descending score, ties broken
// by name ascending.
type PlayerInfo struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	IsPlaying bool   `json:"isplaying"`
}

// PlayerDump is the full sorted scoreboard.
type PlayerDump []PlayerInfo

// Info is a free-form bag of renderable fields. Snapshots must be complete:
// clients redraw from scratch on every message and keep no state of their own.
type Info map[string]any

// GameDataMsg is the snapshot every state produces from StateMsg. GeneralInfo
// goes to everyone (the big screen included), AdminInfo only to the quiz
// master, and PlayerInfo carries per-player fields keyed by player name.
type GameDataMsg struct {
	GeneralInfo Info            `json:"general_info"`
	AdminInfo   Info            `json:"admin_info,omitempty"`
	PlayerInfo  map[string]Info `json:"player_specific_info"`
}

// WithDefaults fills in the widget_name field of GeneralInfo when the state
// did not set one itself. Callers may override by setting it explicitly.
func (m GameDataMsg) WithDefaults(stateName string) GameDataMsg {
	if m.GeneralInfo == nil {
		m.GeneralInfo = Info{}
	}
	if m.PlayerInfo == nil {
		m.PlayerInfo = map[string]Info{}
	}
	if _, ok := m.GeneralInfo["widget_name"]; !ok {
		m.GeneralInfo["widget_name"] = stateName
	}
	return m
}

// StateDef is one entry of a pack's ordered state list. Type selects the
// builder from the registry; the remaining fields are read by the builder
// that needs them and ignored by the rest.
type StateDef struct {
	Type string `yaml:"type" json:"type"`

	// Shared question fields.
	Question      string   `yaml:"question,omitempty" json:"question,omitempty"`
	CorrectAnswer []string `yaml:"correct_answer,omitempty" json:"correct_answer,omitempty"`
	CaseSensitive bool     `yaml:"case_sensitive,omitempty" json:"case_sensitive,omitempty"`
	PointReward   int      `yaml:"point_reward,omitempty" json:"point_reward,omitempty"`

	// Multiple choice.
	Options []string `yaml:"options,omitempty" json:"options,omitempty"`

	// Crowd-judged rounds.
	MaxPoints    int            `yaml:"max_points,omitempty" json:"max_points,omitempty"`
	MinPoints    int            `yaml:"min_points,omitempty" json:"min_points,omitempty"`
	AnswerPoints map[string]int `yaml:"answer_points,omitempty" json:"answer_points,omitempty"`
	EndOnZero    bool           `yaml:"end_on_zero,omitempty" json:"end_on_zero,omitempty"`

	// Top-N filter.
	KeepTop int `yaml:"keep_top,omitempty" json:"keep_top,omitempty"`

	// Info pages.
	Title string `yaml:"title,omitempty" json:"title,omitempty"`
	Text  string `yaml:"text,omitempty" json:"text,omitempty"`
}

// Pack is a complete game definition: the ordered list of rounds and
// questions one live session will walk through.
type Pack struct {
	ID         string     `yaml:"id" json:"id"`
	Title      string     `yaml:"title" json:"title"`
	StartScore int        `yaml:"start_score" json:"start_score"`
	States     []StateDef `yaml:"states" json:"states"`
}
