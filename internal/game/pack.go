package game

import (
	"fmt"

	"crowdquiz-service/internal/domain"
)

// stateBuilder turns one pack definition entry into one or more registered
// states. Composite questions append their constituent stages in order, so
// building a pack is a single linear pass.
type stateBuilder func(g *Game, def domain.StateDef) error

var stateBuilders = map[string]stateBuilder{
	"openquestion":       NewOpenQuestion,
	"mcquestion":         NewMCQuestion,
	"crowdjudged_open":   NewCrowdJudgedRound,
	"crowdjudged_puzzle": NewCrowdJudgedRound,
	"topnfilter":         NewTopNFilter,
	"infopage":           NewInfoPage,
}

// NewGameFromPack builds a complete session from a pack definition: the
// lobby first, then every configured state in order. A malformed definition
// fails here, at construction, because such a session could never be run.
func NewGameFromPack(pack domain.Pack) (*Game, error) {
	g := NewGame(pack.StartScore)
	NewLobby(g, pack.Title)

	for i, def := range pack.States {
		build, ok := stateBuilders[def.Type]
		if !ok {
			return nil, fmt.Errorf("pack %q: state %d has unknown type %q", pack.ID, i, def.Type)
		}
		if err := build(g, def); err != nil {
			return nil, fmt.Errorf("pack %q: state %d: %w", pack.ID, i, err)
		}
	}
	return g, nil
}
