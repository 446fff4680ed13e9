package game

import (
	"crowdquiz-service/internal/domain"
	"crowdquiz-service/internal/view"
)

// Lobby is the first state of every session: the big screen lists who joined,
// phones show the join form. A player action in this state is a join request;
// the name collision is reported through the boolean return so the transport
// can tell the one offending client.
type Lobby struct {
	baseState
	title string
}

// NewLobby registers a lobby at the current end of g's sequence.
func NewLobby(g *Game, title string) *Lobby {
	l := &Lobby{baseState: newBaseState(g, "lobby"), title: title}
	g.AddState(l)
	return l
}

func (l *Lobby) PlayerAnswer(name, _ string) bool {
	if !l.game.addPlayerLocked(name) {
		return false
	}
	l.game.gameStateChangeLocked(l.StateMsg())
	return true
}

func (l *Lobby) AdminAnswer(msg domain.Info) {
	action, _ := msg["action"].(string)
	if action != "remove_player" {
		return
	}
	name, _ := msg["name"].(string)
	l.game.removePlayerLocked(name)
	l.game.gameStateChangeLocked(l.StateMsg())
}

func (l *Lobby) StateMsg() domain.GameDataMsg {
	names := make([]string, 0, l.game.numPlayersLocked())
	for _, p := range l.game.playerDataDumpLocked() {
		names = append(names, p.Name)
	}
	return domain.GameDataMsg{
		GeneralInfo: domain.Info{
			"title":   l.title,
			"players": names,
		},
	}
}

func (l *Lobby) BigScreenWidgets() *view.Snippets {
	return view.NewSnippets().AddHTML("lobby_bigscreen").AddJS("lobby_bigscreen")
}

func (l *Lobby) PlayerScreenWidgets() *view.Snippets {
	return view.NewSnippets().AddHTML("lobby_playerscreen").AddJS("lobby_playerscreen")
}

func (l *Lobby) AdminScreenWidgets() *view.Snippets {
	return view.NewSnippets().AddHTML("lobby_adminscreen").AddJS("lobby_adminscreen")
}
