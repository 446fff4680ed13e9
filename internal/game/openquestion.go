package game

import (
	"fmt"

	"crowdquiz-service/internal/domain"
	"crowdquiz-service/internal/view"
)

// NewOpenQuestion registers the three stages of an open question in order:
// players type an answer, the operator reviews the submissions and marks the
// correct ones, and the award stage pays out. The stages share one
// QuestionData instance.
func NewOpenQuestion(g *Game, def domain.StateDef) error {
	if def.Question == "" {
		return fmt.Errorf("openquestion: missing question")
	}
	if len(def.CorrectAnswer) == 0 {
		return fmt.Errorf("openquestion %q: missing correct_answer", def.Question)
	}
	if def.PointReward <= 0 {
		return fmt.Errorf("openquestion %q: point_reward must be positive", def.Question)
	}

	qd := NewQuestionData(def.CorrectAnswer, def.CaseSensitive)
	newOQAnsweringStage(g, def.Question, qd)
	newAdminAnswerCheck(g, qd)
	newAwardStage(g, qd, def.PointReward)
	return nil
}

// oqAnsweringStage collects typed answers from the phones. When the last
// playing player has answered it advances on its own; until then every
// accepted answer redirects that player to the wait screen.
type oqAnsweringStage struct {
	baseState
	question string
	qdat     *QuestionData
}

func newOQAnsweringStage(g *Game, question string, qd *QuestionData) *oqAnsweringStage {
	s := &oqAnsweringStage{
		baseState: newBaseState(g, "oqansweringstage"),
		question:  question,
		qdat:      qd,
	}
	g.AddState(s)
	return s
}

func (s *oqAnsweringStage) PlayerAnswer(name, response string) bool {
	// Judges sit questions out; accepting them would skew the quorum below
	// and hand them a payout in the award stage.
	p, ok := s.game.players[name]
	if !ok || !p.isPlaying {
		return false
	}
	s.qdat.ProcessAnswer(name, response)

	// One message to the clients, not two: either the transition
	// broadcasts or we do.
	if s.qdat.NumAnswers() >= len(s.game.playerNamesLocked(true)) {
		s.game.shiftStateLocked(1)
	} else {
		s.game.gameStateChangeLocked(s.StateMsg())
	}
	return true
}

func (s *oqAnsweringStage) StateMsg() domain.GameDataMsg {
	psi := make(map[string]domain.Info)
	for _, pa := range s.qdat.PlayerAnswers() {
		psi[pa[0]] = domain.Info{"widget_name": "wait_screen"}
	}
	return domain.GameDataMsg{
		GeneralInfo: domain.Info{"question": s.question},
		PlayerInfo:  psi,
	}
}

func (s *oqAnsweringStage) BigScreenWidgets() *view.Snippets {
	return view.NewSnippets().AddHTML("oqansweringstage_bigscreen").AddJS("oqansweringstage_bigscreen")
}

func (s *oqAnsweringStage) PlayerScreenWidgets() *view.Snippets {
	return view.NewSnippets().
		AddHTML("oqansweringstage_playerscreen").
		AddHTML("wait_playerscreen").
		AddJS("oqansweringstage_playerscreen")
}

func (s *oqAnsweringStage) AdminScreenWidgets() *view.Snippets {
	return s.BigScreenWidgets()
}

// adminAnswerCheck shows the operator every submission next to the exemplar
// answer; whatever the operator marks correct joins the accepted set before
// the award stage runs.
type adminAnswerCheck struct {
	baseState
	qdat *QuestionData
}

func newAdminAnswerCheck(g *Game, qd *QuestionData) *adminAnswerCheck {
	s := &adminAnswerCheck{baseState: newBaseState(g, "adminanswercheck"), qdat: qd}
	g.AddState(s)
	return s
}

func (s *adminAnswerCheck) AdminAnswer(msg domain.Info) {
	s.qdat.AddCorrectAnswers(stringSlice(msg["correct_answers"]))
	s.game.shiftStateLocked(1)
}

func (s *adminAnswerCheck) StateMsg() domain.GameDataMsg {
	answers := make([][2]string, 0)
	answers = append(answers, s.qdat.PlayerAnswers()...)
	return domain.GameDataMsg{
		GeneralInfo: domain.Info{"widget_name": "wait_screen"},
		AdminInfo: domain.Info{
			"widget_name":     s.name,
			"exemplar_answer": s.qdat.ExemplarAnswer(),
			"player_answers":  answers,
		},
	}
}

func (s *adminAnswerCheck) AdminScreenWidgets() *view.Snippets {
	return view.NewSnippets().AddHTML("adminanswercheck_adminscreen").AddJS("adminanswercheck_adminscreen")
}

// awardStage pays the configured reward to everyone whose answer matched.
// It runs once: navigating back and forth does not pay twice, and the
// snapshot keeps showing the original result.
type awardStage struct {
	baseState
	qdat       *QuestionData
	reward     int
	alreadyRan bool
	answer     string
	perPlayer  map[string]domain.Info
}

func newAwardStage(g *Game, qd *QuestionData, reward int) *awardStage {
	s := &awardStage{
		baseState: newBaseState(g, "checkanswersstage"),
		qdat:      qd,
		reward:    reward,
		perPlayer: make(map[string]domain.Info),
	}
	g.AddState(s)
	return s
}

func (s *awardStage) BeginActive() {
	if s.alreadyRan {
		return
	}
	s.alreadyRan = true

	// The dump clears the question data, so capture the display answer first.
	s.answer = s.qdat.ExemplarAnswer()

	scoreMap := make(map[string]int)
	for _, hero := range s.qdat.ListDumpAndClear() {
		scoreMap[hero] = s.reward
		s.perPlayer[hero] = domain.Info{"answer_correct": true}
	}
	s.game.updateScoresLocked(scoreMap, true)
}

func (s *awardStage) StateMsg() domain.GameDataMsg {
	return domain.GameDataMsg{
		GeneralInfo: domain.Info{"answer": s.answer},
		PlayerInfo:  s.perPlayer,
	}
}

func (s *awardStage) BigScreenWidgets() *view.Snippets {
	return view.NewSnippets().AddHTML("checkanswersstage_bigscreen").AddJS("checkanswersstage_bigscreen")
}

func (s *awardStage) PlayerScreenWidgets() *view.Snippets {
	return view.NewSnippets().
		AddHTML("checkanswersstage_playerscreen").
		AddJS("checkanswersstage_playerscreen").
		AddCSS("checkanswersstage_playerscreen")
}

func (s *awardStage) AdminScreenWidgets() *view.Snippets {
	return s.BigScreenWidgets()
}

// stringSlice pulls a list of strings out of a decoded admin command, where
// JSON gives []any and internal callers may pass []string directly.
func stringSlice(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
