package game

import (
	"fmt"

	"crowdquiz-service/internal/domain"
	"crowdquiz-service/internal/view"
)

// NewMCQuestion registers the two stages of a multiple-choice question: the
// answering stage with its fixed options, and the award stage. No operator
// review in between; the correct option is known up front.
func NewMCQuestion(g *Game, def domain.StateDef) error {
	if def.Question == "" {
		return fmt.Errorf("mcquestion: missing question")
	}
	if len(def.Options) < 2 {
		return fmt.Errorf("mcquestion %q: need at least two options", def.Question)
	}
	if len(def.CorrectAnswer) == 0 {
		return fmt.Errorf("mcquestion %q: missing correct_answer", def.Question)
	}
	if def.PointReward <= 0 {
		return fmt.Errorf("mcquestion %q: point_reward must be positive", def.Question)
	}
	for _, ca := range def.CorrectAnswer {
		if !contains(def.Options, ca) {
			return fmt.Errorf("mcquestion %q: correct answer %q not among options", def.Question, ca)
		}
	}

	qd := NewQuestionData(def.CorrectAnswer, true)
	newMCAnsweringStage(g, def.Question, def.Options, qd)
	newAwardStage(g, qd, def.PointReward)
	return nil
}

// mcAnsweringStage accepts exactly one of the configured options per player
// and advances itself once every playing player has picked.
type mcAnsweringStage struct {
	baseState
	question string
	options  []string
	qdat     *QuestionData
}

func newMCAnsweringStage(g *Game, question string, options []string, qd *QuestionData) *mcAnsweringStage {
	s := &mcAnsweringStage{
		baseState: newBaseState(g, "mcqansweringstage"),
		question:  question,
		options:   options,
		qdat:      qd,
	}
	g.AddState(s)
	return s
}

func (s *mcAnsweringStage) PlayerAnswer(name, response string) bool {
	p, ok := s.game.players[name]
	if !ok || !p.isPlaying {
		return false
	}
	if !contains(s.options, response) {
		return false
	}
	s.qdat.ProcessAnswer(name, response)

	if s.qdat.NumAnswers() >= len(s.game.playerNamesLocked(true)) {
		s.game.shiftStateLocked(1)
	} else {
		s.game.gameStateChangeLocked(s.StateMsg())
	}
	return true
}

func (s *mcAnsweringStage) StateMsg() domain.GameDataMsg {
	psi := make(map[string]domain.Info)
	for _, pa := range s.qdat.PlayerAnswers() {
		psi[pa[0]] = domain.Info{"widget_name": "wait_screen"}
	}
	return domain.GameDataMsg{
		GeneralInfo: domain.Info{
			"question": s.question,
			"options":  s.options,
		},
		PlayerInfo: psi,
	}
}

func (s *mcAnsweringStage) BigScreenWidgets() *view.Snippets {
	return view.NewSnippets().AddHTML("mcqansweringstage_bigscreen").AddJS("mcqansweringstage_bigscreen")
}

func (s *mcAnsweringStage) PlayerScreenWidgets() *view.Snippets {
	return view.NewSnippets().
		AddHTML("mcqansweringstage_playerscreen").
		AddHTML("wait_playerscreen").
		AddJS("mcqansweringstage_playerscreen")
}

func (s *mcAnsweringStage) AdminScreenWidgets() *view.Snippets {
	return s.BigScreenWidgets()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
