package game

import (
	"crowdquiz-service/internal/domain"
	"crowdquiz-service/internal/view"
)

// GameState is the lifecycle contract every round or question phase
// implements. Exactly one state is active at a time; the Game calls
// BeginActive when the cursor lands on it and EndActive when it moves away,
// including mid-timer. Any method that mutates visible game state must finish
// by handing a fresh StateMsg to the controller (command then notify); the
// controller itself broadcasts after BeginActive, so states only rebroadcast
// from their answer handlers.
//
// StateMsg must be a pure function of current state and its result complete:
// clients retain nothing between messages.
type GameState interface {
	Name() string

	BeginActive()
	EndActive()

	// PlayerAnswer processes one inbound player action and reports whether
	// it was accepted.
	PlayerAnswer(name, response string) bool

	// AdminAnswer processes one inbound operator action.
	AdminAnswer(msg domain.Info)

	StateMsg() domain.GameDataMsg

	// Widget resolution for the three audiences. The core never looks
	// inside these; the transport serves them once per distinct state type.
	BigScreenWidgets() *view.Snippets
	PlayerScreenWidgets() *view.Snippets
	AdminScreenWidgets() *view.Snippets
}

// baseState carries the back-reference to the session controller plus the
// state's wire name, and provides no-op defaults so concrete states override
// only what they need.
type baseState struct {
	game *Game
	name string
}

func newBaseState(g *Game, name string) baseState {
	return baseState{game: g, name: name}
}

func (b *baseState) Name() string { return b.name }

func (b *baseState) BeginActive() {}

func (b *baseState) EndActive() {}

func (b *baseState) PlayerAnswer(name, response string) bool { return false }

func (b *baseState) AdminAnswer(msg domain.Info) {}

func (b *baseState) BigScreenWidgets() *view.Snippets { return view.NewSnippets() }

func (b *baseState) PlayerScreenWidgets() *view.Snippets {
	return view.NewSnippets().AddHTML("wait_playerscreen")
}

func (b *baseState) AdminScreenWidgets() *view.Snippets { return view.NewSnippets() }
