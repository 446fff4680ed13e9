package game

import (
	"fmt"
	"strings"
	"time"

	"crowdquiz-service/internal/domain"
	"crowdquiz-service/internal/view"
)

const tickInterval = time.Second

// crowdJudgedRound is the turn-based round where the active player speaks
// answers out loud and the judges (eliminated players) vote on which of the
// known answers were said. The active player's score ticks down one point per
// second for as long as the turn lasts; each resolved answer pays the active
// player, and the judges earn or lose points through the consensus engine.
//
// The ticker is owned by this state: EndActive cancels it, and the tick
// callback re-checks under the session lock that this state is still active
// before touching anything, because a fired tick can race the cancellation.
type crowdJudgedRound struct {
	baseState
	picker    *PlayerPicker
	consensus *AnswerConsensus

	// Points paid to the active player per resolved answer: the flat
	// reward unless the answer has an entry in the table.
	flatReward   int
	answerPoints map[string]int

	// End the round outright when the active player hits zero, instead of
	// passing the turn on.
	endOnZero bool

	activePlayer string
	roundOver    bool

	stopTick chan struct{}
}

// NewCrowdJudgedRound registers a turn-based crowd-judged round. The
// candidate answers, the judge reward band (max/min points) and either a flat
// or a per-answer reward for the active player all come from the definition.
func NewCrowdJudgedRound(g *Game, def domain.StateDef) error {
	if len(def.CorrectAnswer) == 0 {
		return fmt.Errorf("crowdjudged: missing correct_answer list")
	}
	if def.MaxPoints <= 0 || def.MinPoints <= 0 {
		return fmt.Errorf("crowdjudged: max_points and min_points must be positive")
	}
	if def.PointReward <= 0 && len(def.AnswerPoints) == 0 {
		return fmt.Errorf("crowdjudged: need point_reward or answer_points")
	}
	for a := range def.AnswerPoints {
		if !contains(def.CorrectAnswer, a) {
			return fmt.Errorf("crowdjudged: answer_points key %q not among correct answers", a)
		}
	}

	s := &crowdJudgedRound{
		baseState:    newBaseState(g, "crowdjudged"),
		picker:       NewPlayerPicker(g),
		consensus:    NewAnswerConsensus(def.CorrectAnswer, def.MaxPoints, def.MinPoints),
		flatReward:   def.PointReward,
		answerPoints: def.AnswerPoints,
		endOnZero:    def.EndOnZero,
	}
	g.AddState(s)
	newCrowdJudgedRecap(g, s.consensus)
	return nil
}

// crowdJudgedRecap is the answer sheet shown after the round: what the judges
// resolved, in resolution order, and what was never said.
type crowdJudgedRecap struct {
	baseState
	consensus *AnswerConsensus
}

func newCrowdJudgedRecap(g *Game, ac *AnswerConsensus) *crowdJudgedRecap {
	s := &crowdJudgedRecap{baseState: newBaseState(g, "crowdjudgerecap"), consensus: ac}
	g.AddState(s)
	return s
}

func (s *crowdJudgedRecap) StateMsg() domain.GameDataMsg {
	return domain.GameDataMsg{
		GeneralInfo: domain.Info{
			"given_answers":  s.consensus.GivenAnswers(),
			"missed_answers": s.consensus.OutstandingAnswers(),
		},
	}
}

func (s *crowdJudgedRecap) BigScreenWidgets() *view.Snippets {
	return view.NewSnippets().AddHTML("crowdjudgerecap_bigscreen").AddJS("crowdjudgerecap_bigscreen")
}

func (s *crowdJudgedRound) BeginActive() {
	// Navigating back into a finished round must not restart it: with no
	// answers left to resolve the clock would only bleed points.
	if !s.consensus.CanKeepPlaying() {
		s.roundOver = true
		s.activePlayer = ""
		return
	}
	name, ok := s.picker.PickPlayer(true)
	if !ok {
		// Nobody left to take a turn; the operator moves the game along.
		s.roundOver = true
		return
	}
	s.activePlayer = name
	s.roundOver = false
	s.startTicker()
}

func (s *crowdJudgedRound) EndActive() {
	s.stopTicker()
}

// startTicker runs the one-second score drain for the active turn.
func (s *crowdJudgedRound) startTicker() {
	s.stopTicker()
	stop := make(chan struct{})
	s.stopTick = stop

	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				alive := true
				s.game.run(func() { alive = s.tick() })
				if !alive {
					return
				}
			}
		}
	}()
}

// stopTicker is idempotent; EndActive and a round transition may both call it.
func (s *crowdJudgedRound) stopTicker() {
	if s.stopTick != nil {
		close(s.stopTick)
		s.stopTick = nil
	}
}

// tick runs under the session lock. Returns false when the ticker goroutine
// should exit because this state lost its claim on the session.
func (s *crowdJudgedRound) tick() bool {
	// Stale continuation guard: cancellation races behind a fired tick.
	if s.game.currentStateLocked() != GameState(s) {
		return false
	}
	if s.roundOver || s.activePlayer == "" {
		return true
	}

	s.game.updateScoresLocked(map[string]int{s.activePlayer: -1}, true)

	score, ok := s.game.players[s.activePlayer]
	if ok && score.score <= 0 {
		if s.endOnZero {
			s.finishRound()
		} else {
			s.nextPlayer()
		}
		s.game.gameStateChangeLocked(s.StateMsg())
	}
	return true
}

// PlayerAnswer handles both sides of the round: a "pass" from the active
// player hands the turn on, anything else is a judge vote of the form
// "Y<answer>" or "N<answer>".
func (s *crowdJudgedRound) PlayerAnswer(name, response string) bool {
	if s.roundOver {
		return false
	}
	if name == s.activePlayer {
		if !strings.EqualFold(response, "pass") {
			return false
		}
		s.nextPlayer()
		s.game.gameStateChangeLocked(s.StateMsg())
		return true
	}
	return s.judgeVote(name, response)
}

func (s *crowdJudgedRound) judgeVote(name, response string) bool {
	playing, known := s.game.players[name]
	if !known || playing.isPlaying {
		return false
	}
	if len(response) < 2 {
		return false
	}
	votesYes := response[0] == 'Y'
	if !votesYes && response[0] != 'N' {
		return false
	}
	answer := response[1:]

	if !s.consensus.ToggleVote(name, answer, votesYes) {
		return false
	}
	s.applyConsensus(answer)
	s.game.gameStateChangeLocked(s.StateMsg())
	return true
}

// applyConsensus runs the thresholds for answer and applies whatever score
// movement falls out: judge rewards or penalties, plus the active player's
// reward for every answer that resolved.
func (s *crowdJudgedRound) applyConsensus(answer string) {
	resolved, deltas := s.consensus.HandleChange(s.numJudges(), answer)
	for _, a := range resolved {
		s.rewardActivePlayer(a, deltas)
	}
	if len(deltas) > 0 {
		s.game.updateScoresLocked(deltas, true)
	}
	if !s.consensus.CanKeepPlaying() {
		s.finishRound()
	}
}

func (s *crowdJudgedRound) rewardActivePlayer(answer string, deltas map[string]int) {
	if s.activePlayer == "" {
		return
	}
	points := s.flatReward
	if p, ok := s.answerPoints[answer]; ok {
		points = p
	}
	deltas[s.activePlayer] += points
}

// AdminAnswer lets the operator steer the round: force-resolve an answer the
// judges are sleeping on, force a pass, tune the thresholds, or end the round.
func (s *crowdJudgedRound) AdminAnswer(msg domain.Info) {
	switch action, _ := msg["action"].(string); action {
	case "mark_given":
		answer, _ := msg["answer"].(string)
		if !s.consensus.IsOutstanding(answer) {
			return
		}
		deltas := s.consensus.MarkAnswerGivenAndReturnPoints(answer)
		s.rewardActivePlayer(answer, deltas)
		if len(deltas) > 0 {
			s.game.updateScoresLocked(deltas, true)
		}
		if !s.consensus.CanKeepPlaying() {
			s.finishRound()
		}
	case "pass":
		s.nextPlayer()
	case "end_round":
		s.finishRound()
	case "set_correct_threshold":
		if v, ok := msg["value"].(float64); ok {
			s.consensus.SetCorrectThreshold(v)
		}
	case "set_incorrect_threshold":
		if v, ok := msg["value"].(float64); ok {
			s.consensus.SetIncorrectThreshold(v)
		}
	default:
		return
	}
	s.game.gameStateChangeLocked(s.StateMsg())
}

// nextPlayer moves the turn to the next candidate of the same question; when
// nobody is left the round is done.
func (s *crowdJudgedRound) nextPlayer() {
	name, ok := s.picker.PickPlayer(false)
	if !ok {
		s.finishRound()
		return
	}
	s.activePlayer = name
}

func (s *crowdJudgedRound) finishRound() {
	s.roundOver = true
	s.activePlayer = ""
	s.stopTicker()
}

func (s *crowdJudgedRound) numJudges() int {
	return len(s.game.playerNamesLocked(false))
}

func (s *crowdJudgedRound) StateMsg() domain.GameDataMsg {
	numJudges := s.numJudges()

	votes := make([]domain.Info, 0)
	for _, av := range s.consensus.VotesForAnswers(numJudges) {
		votes = append(votes, domain.Info{
			"answer": av.Answer,
			"yes":    av.Yes,
			"no":     av.No,
		})
	}

	judgeVotes := make(map[string]domain.Info)
	for judge, jv := range s.consensus.VotesOfPlayers() {
		judgeVotes[judge] = domain.Info{"yes": jv.Yes, "no": jv.No}
	}

	psi := make(map[string]domain.Info)
	for _, name := range s.game.playerNamesLocked(false) {
		psi[name] = domain.Info{"widget_name": "crowdjudge_np"}
	}
	for _, name := range s.game.playerNamesLocked(true) {
		psi[name] = domain.Info{"widget_name": "wait_screen"}
	}
	if s.activePlayer != "" {
		psi[s.activePlayer] = domain.Info{"widget_name": "crowdjudge_p"}
	}

	return domain.GameDataMsg{
		GeneralInfo: domain.Info{
			"active_player": s.activePlayer,
			"answer_votes":  votes,
			"given_answers": s.consensus.GivenAnswers(),
			"round_over":    s.roundOver,
		},
		AdminInfo: domain.Info{
			"widget_name": "crowdjudge",
			"judge_votes": judgeVotes,
		},
		PlayerInfo: psi,
	}
}

func (s *crowdJudgedRound) BigScreenWidgets() *view.Snippets {
	return view.NewSnippets().AddHTML("crowdjudge_bigscreen").AddJS("crowdjudge_bigscreen")
}

func (s *crowdJudgedRound) PlayerScreenWidgets() *view.Snippets {
	return view.NewSnippets().
		AddHTML("wait_playerscreen").
		AddHTML("crowdjudge_np_playerscreen").
		AddHTML("crowdjudge_p_playerscreen").
		AddJS("crowdjudge_np_playerscreen").
		AddJS("crowdjudge_p_playerscreen").
		AddCSS("crowdjudge")
}

func (s *crowdJudgedRound) AdminScreenWidgets() *view.Snippets {
	return view.NewSnippets().AddHTML("crowdjudge_adminscreen").AddJS("crowdjudge_adminscreen")
}
