package game

import (
	"log"
	"strings"
)

type playerAnswer struct {
	player string
	answer string
}

// QuestionData is the bookkeeping shared by the stages of one open or
// short-answer question: which answers count as correct, and who answered
// what, in arrival order. A player answers at most once; later submissions
// are dropped, not overwritten. After ListDumpAndClear the object is empty
// again, so navigating backward and replaying the question starts fresh.
type QuestionData struct {
	correctAnswers []string
	answers        []playerAnswer
	caseSensitive  bool
}

// NewQuestionData seeds the accepted answers. With caseSensitive false (the
// lenient default) matching folds case on both sides.
func NewQuestionData(correctAnswers []string, caseSensitive bool) *QuestionData {
	qd := &QuestionData{caseSensitive: caseSensitive}
	qd.AddCorrectAnswers(correctAnswers)
	return qd
}

// AddCorrectAnswers extends the accepted set. The operator uses this after
// reviewing open answers.
func (qd *QuestionData) AddCorrectAnswers(answers []string) {
	for _, a := range answers {
		if !qd.hasCorrect(a) {
			qd.correctAnswers = append(qd.correctAnswers, a)
		}
	}
}

func (qd *QuestionData) hasCorrect(answer string) bool {
	for _, c := range qd.correctAnswers {
		if qd.equal(c, answer) {
			return true
		}
	}
	return false
}

func (qd *QuestionData) equal(a, b string) bool {
	if qd.caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

// ExemplarAnswer returns one representative correct answer for display, or
// "" when none are configured.
func (qd *QuestionData) ExemplarAnswer() string {
	if len(qd.correctAnswers) == 0 {
		return ""
	}
	return qd.correctAnswers[0]
}

// ProcessAnswer records a player's answer. A second answer from the same
// player is logged and ignored.
func (qd *QuestionData) ProcessAnswer(player, answer string) {
	for _, pa := range qd.answers {
		if pa.player == player {
			log.Printf("question: player %q already answered; ignoring", player)
			return
		}
	}
	qd.answers = append(qd.answers, playerAnswer{player: player, answer: answer})
}

// NumAnswers reports how many players have answered so far.
func (qd *QuestionData) NumAnswers() int { return len(qd.answers) }

// PlayerAnswers returns (player, answer) pairs in arrival order.
func (qd *QuestionData) PlayerAnswers() [][2]string {
	out := make([][2]string, 0, len(qd.answers))
	for _, pa := range qd.answers {
		out = append(out, [2]string{pa.player, pa.answer})
	}
	return out
}

// ListDumpAndClear returns, in arrival order, the players whose answer
// matches the accepted set, then resets all data so the object can be reused.
func (qd *QuestionData) ListDumpAndClear() []string {
	var heroes []string
	for _, pa := range qd.answers {
		if qd.hasCorrect(pa.answer) {
			heroes = append(heroes, pa.player)
		}
	}
	qd.correctAnswers = nil
	qd.answers = nil
	return heroes
}

// SetDumpAndClear is ListDumpAndClear with set semantics.
func (qd *QuestionData) SetDumpAndClear() map[string]struct{} {
	set := make(map[string]struct{})
	for _, name := range qd.ListDumpAndClear() {
		set[name] = struct{}{}
	}
	return set
}
