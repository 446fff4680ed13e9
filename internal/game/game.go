package game

import (
	"log"
	"sort"
	"sync"

	"crowdquiz-service/internal/domain"
)

// GameListener receives the full renderable snapshot after every visible
// state mutation. Notification order is registration order.
type GameListener interface {
	GameUpdate(msg domain.GameDataMsg)
}

// PlayerListener receives the sorted player dump after every change to the
// player registry (join, leave, score or isplaying update).
type PlayerListener interface {
	PlayerUpdate(dump domain.PlayerDump)
}

type playerEntry struct {
	score     int
	isPlaying bool
}

// Game is the session controller. It owns the player registry, the ordered
// state sequence with its cursor, and the listener fan-out. Every public
// operation takes the session lock and runs to completion before the next one
// is dispatched; states execute under that lock and talk to the controller
// through the unexported *Locked helpers. Listeners are invoked synchronously
// while the lock is held and must not call back into the Game.
type Game struct {
	mu sync.Mutex

	startScore int
	players    map[string]*playerEntry

	states []GameState
	cur    int
	active bool

	gameListeners   []GameListener
	playerListeners []PlayerListener
}

// NewGame creates an empty session. States are appended with AddState and the
// session starts on the first of them once Start is called.
func NewGame(startScore int) *Game {
	return &Game{
		startScore: startScore,
		players:    make(map[string]*playerEntry),
	}
}

// AddState appends a state to the sequence and returns its index. Composite
// rounds call this from their builders so their constituent stages land in
// the sequence in construction order.
func (g *Game) AddState(s GameState) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.states = append(g.states, s)
	return len(g.states) - 1
}

// NumStates reports how many states the sequence holds.
func (g *Game) NumStates() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.states)
}

// Start activates the state at the cursor. Call once, after the sequence has
// been built.
func (g *Game) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active || len(g.states) == 0 {
		return
	}
	g.active = true
	s := g.states[g.cur]
	s.BeginActive()
	g.gameStateChangeLocked(s.StateMsg())
}

// States returns the built sequence, for callers that assemble per-state
// assets. The slice is a copy; the sequence itself is immutable once built.
func (g *Game) States() []GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]GameState(nil), g.states...)
}

// Snapshot returns the active state's full renderable snapshot, for clients
// that connect between broadcasts.
func (g *Game) Snapshot() domain.GameDataMsg {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := g.currentStateLocked()
	if s == nil {
		return domain.GameDataMsg{}.WithDefaults("")
	}
	return s.StateMsg().WithDefaults(s.Name())
}

// CurrentState returns the active state, or nil before Start.
func (g *Game) CurrentState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentStateLocked()
}

func (g *Game) currentStateLocked() GameState {
	if !g.active || len(g.states) == 0 {
		return nil
	}
	return g.states[g.cur]
}

// CurrentIndex returns the cursor position.
func (g *Game) CurrentIndex() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cur
}

// SetCurState moves the cursor to idx. Out-of-range indices are logged and
// ignored. The outgoing state gets EndActive, the incoming one BeginActive
// followed by a snapshot broadcast.
func (g *Game) SetCurState(idx int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.setCurStateLocked(idx)
}

// ShiftState moves the cursor by delta relative to its current position.
func (g *Game) ShiftState(delta int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.setCurStateLocked(g.cur + delta)
}

func (g *Game) setCurStateLocked(idx int) {
	if idx < 0 || idx >= len(g.states) {
		log.Printf("game: state index %d out of range [0,%d); ignoring", idx, len(g.states))
		return
	}
	if g.active {
		g.states[g.cur].EndActive()
	}
	g.cur = idx
	if !g.active {
		return
	}
	s := g.states[g.cur]
	s.BeginActive()
	g.gameStateChangeLocked(s.StateMsg())
}

// shiftStateLocked is for states advancing the game themselves, e.g. when the
// last answer arrives or the operator confirms a check.
func (g *Game) shiftStateLocked(delta int) {
	g.setCurStateLocked(g.cur + delta)
}

// PlayerAnswer forwards one inbound player action to the active state.
func (g *Game) PlayerAnswer(name, response string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := g.currentStateLocked()
	if s == nil {
		return false
	}
	return s.PlayerAnswer(name, response)
}

// AdminAnswer forwards one inbound operator action to the active state.
func (g *Game) AdminAnswer(msg domain.Info) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := g.currentStateLocked()
	if s == nil {
		return
	}
	s.AdminAnswer(msg)
}

// AddPlayer registers a new player with the configured starting score.
// Returns false without mutating anything if the name is taken.
func (g *Game) AddPlayer(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addPlayerLocked(name)
}

func (g *Game) addPlayerLocked(name string) bool {
	if _, ok := g.players[name]; ok {
		return false
	}
	g.players[name] = &playerEntry{score: g.startScore, isPlaying: true}
	g.playerChangeLocked()
	return true
}

// RemovePlayer deletes a player. Unknown names are logged and ignored.
func (g *Game) RemovePlayer(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removePlayerLocked(name)
}

func (g *Game) removePlayerLocked(name string) {
	if _, ok := g.players[name]; !ok {
		log.Printf("game: remove of unknown player %q; ignoring", name)
		return
	}
	delete(g.players, name)
	g.playerChangeLocked()
}

// NumPlayers reports the number of registered players.
func (g *Game) NumPlayers() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.players)
}

func (g *Game) numPlayersLocked() int { return len(g.players) }

// HasPlayer reports whether name is registered.
func (g *Game) HasPlayer(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.players[name]
	return ok
}

// Score returns a player's score.
func (g *Game) Score(name string) (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.players[name]
	if !ok {
		return 0, false
	}
	return p.score, true
}

// IsPlaying returns a player's isplaying flag.
func (g *Game) IsPlaying(name string) (bool, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.players[name]
	if !ok {
		return false, false
	}
	return p.isPlaying, true
}

// UpdateScores applies a batch of score changes in one go: additive adds each
// delta to the player's score, non-additive assigns it. Unknown names are
// logged and skipped; the rest of the batch still applies. One broadcast for
// the whole batch, never one per entry.
func (g *Game) UpdateScores(deltas map[string]int, additive bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updateScoresLocked(deltas, additive)
}

func (g *Game) updateScoresLocked(deltas map[string]int, additive bool) {
	for name, delta := range deltas {
		p, ok := g.players[name]
		if !ok {
			log.Printf("game: score update for unknown player %q; skipping", name)
			continue
		}
		if additive {
			p.score += delta
		} else {
			p.score = delta
		}
	}
	g.playerChangeLocked()
}

// SetIsPlaying bulk-toggles the isplaying flag. One broadcast for the batch.
func (g *Game) SetIsPlaying(names []string, flag bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.setIsPlayingLocked(names, flag)
}

func (g *Game) setIsPlayingLocked(names []string, flag bool) {
	for _, name := range names {
		p, ok := g.players[name]
		if !ok {
			log.Printf("game: isplaying update for unknown player %q; skipping", name)
			continue
		}
		p.isPlaying = flag
	}
	g.playerChangeLocked()
}

// PlayerDataDump returns all players sorted by descending score, ties broken
// by name ascending. The total order keeps the leaderboard and the
// PlayerPicker deterministic.
func (g *Game) PlayerDataDump() domain.PlayerDump {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playerDataDumpLocked()
}

func (g *Game) playerDataDumpLocked() domain.PlayerDump {
	dump := make(domain.PlayerDump, 0, len(g.players))
	for name, p := range g.players {
		dump = append(dump, domain.PlayerInfo{Name: name, Score: p.score, IsPlaying: p.isPlaying})
	}
	sort.Slice(dump, func(i, j int) bool {
		if dump[i].Score != dump[j].Score {
			return dump[i].Score > dump[j].Score
		}
		return dump[i].Name < dump[j].Name
	})
	return dump
}

// PlayerNames returns the names of all players whose isplaying flag equals
// playing, in dump order.
func (g *Game) PlayerNames(playing bool) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playerNamesLocked(playing)
}

func (g *Game) playerNamesLocked(playing bool) []string {
	names := make([]string, 0, len(g.players))
	for _, p := range g.playerDataDumpLocked() {
		if p.IsPlaying == playing {
			names = append(names, p.Name)
		}
	}
	return names
}

// AddGameListener registers a listener for snapshot broadcasts.
func (g *Game) AddGameListener(l GameListener) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gameListeners = append(g.gameListeners, l)
}

// RemoveGameListener removes a listener by identity.
func (g *Game) RemoveGameListener(l GameListener) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, reg := range g.gameListeners {
		if reg == l {
			g.gameListeners = append(g.gameListeners[:i], g.gameListeners[i+1:]...)
			return
		}
	}
}

// AddPlayerListener registers a listener for player-dump broadcasts.
func (g *Game) AddPlayerListener(l PlayerListener) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.playerListeners = append(g.playerListeners, l)
}

// RemovePlayerListener removes a listener by identity.
func (g *Game) RemovePlayerListener(l PlayerListener) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, reg := range g.playerListeners {
		if reg == l {
			g.playerListeners = append(g.playerListeners[:i], g.playerListeners[i+1:]...)
			return
		}
	}
}

// GameStateChange merges the active state's name into the snapshot and
// notifies every game listener. This is the only channel through which states
// reach the outside world.
func (g *Game) GameStateChange(msg domain.GameDataMsg) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gameStateChangeLocked(msg)
}

func (g *Game) gameStateChangeLocked(msg domain.GameDataMsg) {
	name := ""
	if s := g.currentStateLocked(); s != nil {
		name = s.Name()
	}
	msg = msg.WithDefaults(name)
	for _, l := range g.gameListeners {
		l.GameUpdate(msg)
	}
}

// PlayerChange notifies every player listener with a fresh sorted dump.
func (g *Game) PlayerChange() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.playerChangeLocked()
}

func (g *Game) playerChangeLocked() {
	dump := g.playerDataDumpLocked()
	for _, l := range g.playerListeners {
		l.PlayerUpdate(dump)
	}
}

// run executes f under the session lock. Timer callbacks owned by states use
// this to re-enter the session without racing other callbacks.
func (g *Game) run(f func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	f()
}
