package game

// PlayerPicker selects the turn-holder for elimination-style rounds. It
// always hands the turn to the lowest-scoring candidate still in the running,
// the comeback rule of the classic elimination game shows. Two exclusion sets
// track who already had a turn: one scoped to the whole round, one to the
// current question, so a continuation pass can reuse players whose own
// question came earlier in the round.
//
// PickPlayer reads the registry through the session's locked helpers, so it
// must run under the session lock like the states that own it.
type PlayerPicker struct {
	game           *Game
	pickedRound    map[string]struct{}
	pickedQuestion map[string]struct{}
}

// NewPlayerPicker creates a picker bound to one round of g.
func NewPlayerPicker(g *Game) *PlayerPicker {
	return &PlayerPicker{
		game:           g,
		pickedRound:    make(map[string]struct{}),
		pickedQuestion: make(map[string]struct{}),
	}
}

// PickPlayer returns the next turn-holder, or ok=false when no candidate is
// left — callers treat exhaustion as "move past this round", not an error.
// With startOfQuestion the question exclusions reset and anyone who already
// had their own question this round is filtered out; on a continuation only
// the question exclusions apply.
func (pp *PlayerPicker) PickPlayer(startOfQuestion bool) (string, bool) {
	// Dump order is descending by score, so the lowest scorer comes last.
	dump := pp.game.playerDataDumpLocked()

	excluded := pp.pickedQuestion
	if startOfQuestion {
		pp.pickedQuestion = make(map[string]struct{})
		excluded = pp.pickedRound
	}

	for i := len(dump) - 1; i >= 0; i-- {
		p := dump[i]
		if !p.IsPlaying {
			continue
		}
		if _, done := excluded[p.Name]; done {
			continue
		}
		if startOfQuestion {
			pp.pickedRound[p.Name] = struct{}{}
		}
		pp.pickedQuestion[p.Name] = struct{}{}
		return p.Name, true
	}
	return "", false
}
