package game

import "math"

const (
	defaultCorrectThreshold   = 0.5
	defaultIncorrectThreshold = 2.0
)

type voteLists struct {
	yes []string // judges asserting the answer was said, in vote order
	no  []string // judges asserting it explicitly was not
}

// AnswerVotes is one row of the rendering aid VotesForAnswers: both counts
// are expressed as a fraction of their threshold, so 1.0 means exactly at it.
type AnswerVotes struct {
	Answer string
	Yes    float64
	No     float64
}

// JudgeVotes lists which answers one judge currently has marked.
type JudgeVotes struct {
	Yes []string
	No  []string
}

// AnswerConsensus is the crowd-voting engine for turn-based rounds: the
// judges (eliminated players) vote on a fixed candidate-answer set, and the
// engine resolves an answer once enough of them agree it was said, or
// penalizes premature yes-voters once enough disagree. Vote arrival order is
// the reward ranking. Thresholds are instance fields, never shared between
// rounds.
type AnswerConsensus struct {
	allAnswers []string // canonical display order
	votes      map[string]*voteLists
	given      []string // resolved answers, in resolution order

	maxPoints int
	minPoints int

	correctThreshold   float64
	incorrectThreshold float64
}

// NewAnswerConsensus builds the engine for a fixed candidate set. minPoints
// is clamped to at least 1 and maxPoints to at least minPoints, keeping the
// decay formula well defined.
func NewAnswerConsensus(answers []string, maxPoints, minPoints int) *AnswerConsensus {
	if minPoints <= 0 {
		minPoints = 1
	}
	if maxPoints < minPoints {
		maxPoints = minPoints
	}
	ac := &AnswerConsensus{
		allAnswers:         append([]string(nil), answers...),
		votes:              make(map[string]*voteLists, len(answers)),
		maxPoints:          maxPoints,
		minPoints:          minPoints,
		correctThreshold:   defaultCorrectThreshold,
		incorrectThreshold: defaultIncorrectThreshold,
	}
	for _, a := range answers {
		ac.votes[a] = &voteLists{}
	}
	return ac
}

// SetCorrectThreshold sets the fraction of judges whose yes-vote resolves an
// answer. Values outside (0, 1] are ignored.
func (ac *AnswerConsensus) SetCorrectThreshold(th float64) {
	if th <= 0 || th > 1 {
		return
	}
	ac.correctThreshold = th
}

// SetIncorrectThreshold sets the no-to-yes ratio that triggers the penalty.
// Values of 1 or below are ignored.
func (ac *AnswerConsensus) SetIncorrectThreshold(th float64) {
	if th <= 1 {
		return
	}
	ac.incorrectThreshold = th
}

// CanKeepPlaying reports whether any candidate answer is still unresolved.
func (ac *AnswerConsensus) CanKeepPlaying() bool { return len(ac.votes) > 0 }

// IsOutstanding reports whether answer is a known, still unresolved candidate.
func (ac *AnswerConsensus) IsOutstanding(answer string) bool {
	_, ok := ac.votes[answer]
	return ok
}

// GivenAnswers returns the resolved answers in resolution order.
func (ac *AnswerConsensus) GivenAnswers() []string {
	return append([]string(nil), ac.given...)
}

// OutstandingAnswers returns the unresolved candidates in canonical display
// order.
func (ac *AnswerConsensus) OutstandingAnswers() []string {
	out := make([]string, 0, len(ac.votes))
	return append(out, ac.outstanding()...)
}

// ToggleVote registers judge's vote on answer. Voting the same direction
// twice un-registers the vote; voting the opposite direction moves the judge
// over. Returns false when the answer is unknown or already resolved.
func (ac *AnswerConsensus) ToggleVote(judge, answer string, assertsGiven bool) bool {
	lists, ok := ac.votes[answer]
	if !ok {
		return false
	}
	target, opposite := &lists.no, &lists.yes
	if assertsGiven {
		target, opposite = &lists.yes, &lists.no
	}

	if idx := indexOf(*target, judge); idx != -1 {
		*target = append((*target)[:idx], (*target)[idx+1:]...)
		return true
	}
	if idx := indexOf(*opposite, judge); idx != -1 {
		*opposite = append((*opposite)[:idx], (*opposite)[idx+1:]...)
	}
	*target = append(*target, judge)
	return true
}

// HandleChange re-evaluates the thresholds for answer, or for every
// outstanding answer when answer is empty. It returns the answers that
// resolved plus the accumulated score deltas (rank-decayed rewards and
// penalties). numJudges is passed on every call because judges may leave.
func (ac *AnswerConsensus) HandleChange(numJudges int, answer string) ([]string, map[string]int) {
	deltas := make(map[string]int)
	correctTh := float64(numJudges) * ac.correctThreshold
	// Without judges the operator is the only one who can resolve answers.
	if correctTh == 0 {
		return nil, deltas
	}

	answers := []string{answer}
	if answer == "" {
		answers = ac.outstanding()
	}

	var resolved []string
	for _, a := range answers {
		lists, ok := ac.votes[a]
		if !ok {
			continue
		}
		numYes := len(lists.yes)
		numNo := len(lists.no)

		if float64(numYes) >= correctTh {
			addDeltas(deltas, ac.MarkAnswerGivenAndReturnPoints(a))
			resolved = append(resolved, a)
			continue
		}

		// The no-list must not hold votes while the yes-list is empty;
		// reset the inconsistency before the ratio check below.
		if numYes == 0 {
			if numNo > 0 {
				ac.votes[a] = &voteLists{}
			}
			continue
		}

		if float64(numNo) >= float64(numYes)*ac.incorrectThreshold {
			for _, naughty := range lists.yes {
				deltas[naughty] -= ac.maxPoints
			}
			ac.votes[a] = &voteLists{}
		}
	}
	return resolved, deltas
}

// MarkAnswerGivenAndReturnPoints force-resolves answer, independent of any
// threshold: the yes-voters get their rank-decayed rewards, the answer leaves
// the voting map for good and joins the given list.
func (ac *AnswerConsensus) MarkAnswerGivenAndReturnPoints(answer string) map[string]int {
	rewards := make(map[string]int)
	lists, ok := ac.votes[answer]
	if !ok {
		return rewards
	}

	// Judge at rank i of N gets floor(max * (min/max)^(i/N)): geometric
	// decay from exactly max at rank 0 down toward min.
	n := float64(len(lists.yes))
	y0 := float64(ac.maxPoints)
	decay := float64(ac.minPoints) / y0
	for i, judge := range lists.yes {
		rewards[judge] = int(math.Floor(y0 * math.Pow(decay, float64(i)/n)))
	}

	delete(ac.votes, answer)
	ac.given = append(ac.given, answer)
	return rewards
}

// VotesForAnswers returns, per candidate answer in canonical display order,
// the yes- and no-counts as fractions of their thresholds. Resolved answers
// report yes=1, no=0. Purely a rendering aid.
func (ac *AnswerConsensus) VotesForAnswers(numJudges int) []AnswerVotes {
	out := make([]AnswerVotes, 0, len(ac.allAnswers))
	for _, a := range ac.allAnswers {
		row := AnswerVotes{Answer: a, Yes: 1, No: 0}
		if lists, ok := ac.votes[a]; ok {
			row.Yes, row.No = 0, 0
			numYes := len(lists.yes)
			numNo := len(lists.no)
			if numJudges > 0 {
				row.Yes = float64(numYes) / float64(numJudges) / ac.correctThreshold
			}
			if numNo > 0 && numYes > 0 {
				row.No = float64(numNo) / (float64(numYes) * ac.incorrectThreshold)
			}
		}
		out = append(out, row)
	}
	return out
}

// VotesOfPlayers returns, per judge, the answers they currently have marked
// yes and no.
func (ac *AnswerConsensus) VotesOfPlayers() map[string]JudgeVotes {
	out := make(map[string]JudgeVotes)
	for _, a := range ac.allAnswers {
		lists, ok := ac.votes[a]
		if !ok {
			continue
		}
		for _, judge := range lists.yes {
			jv := out[judge]
			jv.Yes = append(jv.Yes, a)
			out[judge] = jv
		}
		for _, judge := range lists.no {
			jv := out[judge]
			jv.No = append(jv.No, a)
			out[judge] = jv
		}
	}
	return out
}

// outstanding lists unresolved answers in canonical order so HandleChange
// sweeps deterministically.
func (ac *AnswerConsensus) outstanding() []string {
	var out []string
	for _, a := range ac.allAnswers {
		if _, ok := ac.votes[a]; ok {
			out = append(out, a)
		}
	}
	return out
}

func addDeltas(dst, src map[string]int) {
	for name, delta := range src {
		dst[name] += delta
	}
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
