// Package ws adapts the session controller to its three websocket audiences:
// the players' phones, the operator console, and the passive big screen. The
// adapters are plain Game/Player listeners; all game logic stays behind the
// controller's public operations.
package ws

import (
	"encoding/json"
	"log"
	"net/http"

	"crowdquiz-service/internal/domain"
	"crowdquiz-service/internal/game"
	"crowdquiz-service/internal/view"
	"github.com/gorilla/websocket"
)

// AuthStore issues and redeems the reconnect codes handed to players when
// they join.
type AuthStore interface {
	Issue(player string) (string, error)
	Redeem(code string) (string, error)
	Revoke(player string)
}

// Handler serves the three websocket endpoints plus the static widget
// bundles for one live session.
type Handler struct {
	game       *game.Game
	auth       AuthStore
	adminToken string
	upgrader   websocket.Upgrader

	bigScreen *view.Snippets
	player    *view.Snippets
	admin     *view.Snippets
}

func NewHandler(g *game.Game, auth AuthStore, adminToken string) *Handler {
	h := &Handler{
		game:       g,
		auth:       auth,
		adminToken: adminToken,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		bigScreen: view.NewSnippets(),
		player:    view.NewSnippets(),
		admin:     view.NewSnippets(),
	}

	// Each distinct state type contributes its widgets once; the bundle is
	// fixed for the lifetime of the session.
	for _, s := range g.States() {
		h.bigScreen.Merge(s.BigScreenWidgets())
		h.player.Merge(s.PlayerScreenWidgets())
		h.admin.Merge(s.AdminScreenWidgets())
	}
	return h
}

// Register wires the handler's routes into mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/ws/player", h.ServePlayer)
	mux.HandleFunc("/ws/admin", h.ServeAdmin)
	mux.HandleFunc("/ws/bigscreen", h.ServeBigScreen)
	mux.HandleFunc("/widgets", h.ServeWidgets)
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type answerPayload struct {
	Response string `json:"response"`
}

type commandPayload map[string]any

// conn is one connected client: a writer goroutine draining send, and the
// listener adapters feeding it. Snapshots are dropped, never queued behind a
// slow client; the next broadcast supersedes them anyway.
type conn struct {
	ws   *websocket.Conn
	send chan outboundMessage
	done chan struct{}
}

func newConn(ws *websocket.Conn) *conn {
	c := &conn{ws: ws, send: make(chan outboundMessage, 16), done: make(chan struct{})}
	go func() {
		defer close(c.done)
		for msg := range c.send {
			if err := c.ws.WriteJSON(msg); err != nil {
				return
			}
		}
	}()
	return c
}

func (c *conn) push(msg outboundMessage) {
	select {
	case c.send <- msg:
	default:
	}
}

// close lets the writer drain what is already queued before tearing the
// socket down, so a final error message still reaches the client.
func (c *conn) close() {
	close(c.send)
	<-c.done
	_ = c.ws.Close()
}

// playerListener slices each snapshot down to what one player may see:
// the general info plus their own per-player fields.
type playerListener struct {
	conn *conn
	name string
}

func (l *playerListener) GameUpdate(msg domain.GameDataMsg) {
	l.conn.push(outboundMessage{Type: "game", Payload: domain.Info{
		"general_info": msg.GeneralInfo,
		"info":         msg.PlayerInfo[l.name],
	}})
}

func (l *playerListener) PlayerUpdate(dump domain.PlayerDump) {
	l.conn.push(outboundMessage{Type: "players", Payload: dump})
}

// adminListener forwards the full snapshot, operator fields included.
type adminListener struct {
	conn *conn
}

func (l *adminListener) GameUpdate(msg domain.GameDataMsg) {
	l.conn.push(outboundMessage{Type: "game", Payload: msg})
}

func (l *adminListener) PlayerUpdate(dump domain.PlayerDump) {
	l.conn.push(outboundMessage{Type: "players", Payload: dump})
}

// bigScreenListener gets general info only.
type bigScreenListener struct {
	conn *conn
}

func (l *bigScreenListener) GameUpdate(msg domain.GameDataMsg) {
	l.conn.push(outboundMessage{Type: "game", Payload: domain.Info{
		"general_info": msg.GeneralInfo,
	}})
}

func (l *bigScreenListener) PlayerUpdate(dump domain.PlayerDump) {
	l.conn.push(outboundMessage{Type: "players", Payload: dump})
}

// ServePlayer handles a phone connection. A fresh client joins with ?name=,
// which the active state must authorize (only the lobby does); a returning
// client presents ?code= instead and reclaims its identity.
func (h *Handler) ServePlayer(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	code := r.URL.Query().Get("code")
	if name == "" && code == "" {
		http.Error(w, "missing name or code", http.StatusBadRequest)
		return
	}

	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: player upgrade failed: %v", err)
		return
	}
	c := newConn(wsConn)
	defer c.close()

	if code != "" {
		reclaimed, err := h.auth.Redeem(code)
		if err != nil {
			c.push(outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}})
			return
		}
		name = reclaimed
	} else {
		if !h.game.PlayerAnswer(name, "join") {
			c.push(outboundMessage{Type: "error", Payload: errorPayload{Message: "name already taken or joining is closed"}})
			return
		}
		freshCode, err := h.auth.Issue(name)
		if err != nil {
			log.Printf("ws: issuing auth code for %q: %v", name, err)
		} else {
			code = freshCode
		}
	}

	c.push(outboundMessage{Type: "joined", Payload: domain.Info{"name": name, "auth_code": code}})

	listener := &playerListener{conn: c, name: name}
	h.game.AddGameListener(listener)
	h.game.AddPlayerListener(listener)
	defer h.game.RemoveGameListener(listener)
	defer h.game.RemovePlayerListener(listener)

	// Late joiners still need a full picture.
	listener.GameUpdate(h.game.Snapshot())
	listener.PlayerUpdate(h.game.PlayerDataDump())

	for {
		var inbound inboundMessage
		if err := c.ws.ReadJSON(&inbound); err != nil {
			return
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				c.push(outboundMessage{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}})
				continue
			}
			accepted := h.game.PlayerAnswer(name, payload.Response)
			c.push(outboundMessage{Type: "answer_ack", Payload: domain.Info{"accepted": accepted}})
		default:
			c.push(outboundMessage{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}
}

// ServeAdmin handles the operator console. The shared token comes from the
// config file; there is exactly one operator per session.
func (h *Handler) ServeAdmin(w http.ResponseWriter, r *http.Request) {
	if h.adminToken == "" || r.URL.Query().Get("token") != h.adminToken {
		http.Error(w, "bad admin token", http.StatusUnauthorized)
		return
	}

	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: admin upgrade failed: %v", err)
		return
	}
	c := newConn(wsConn)
	defer c.close()

	listener := &adminListener{conn: c}
	h.game.AddGameListener(listener)
	h.game.AddPlayerListener(listener)
	defer h.game.RemoveGameListener(listener)
	defer h.game.RemovePlayerListener(listener)

	listener.GameUpdate(h.game.Snapshot())
	listener.PlayerUpdate(h.game.PlayerDataDump())

	for {
		var inbound inboundMessage
		if err := c.ws.ReadJSON(&inbound); err != nil {
			return
		}
		h.handleAdminMessage(c, inbound)
	}
}

func (h *Handler) handleAdminMessage(c *conn, inbound inboundMessage) {
	var payload commandPayload
	if len(inbound.Payload) > 0 {
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			c.push(outboundMessage{Type: "error", Payload: errorPayload{Message: "invalid payload"}})
			return
		}
	}

	switch inbound.Type {
	case "next":
		h.game.ShiftState(1)
	case "prev":
		h.game.ShiftState(-1)
	case "goto":
		if idx, ok := payload["index"].(float64); ok {
			h.game.SetCurState(int(idx))
		}
	case "command":
		h.game.AdminAnswer(domain.Info(payload))
	case "add_player":
		if name, ok := payload["name"].(string); ok {
			if !h.game.AddPlayer(name) {
				c.push(outboundMessage{Type: "error", Payload: errorPayload{Message: "name already taken"}})
			}
		}
	case "remove_player":
		if name, ok := payload["name"].(string); ok {
			h.game.RemovePlayer(name)
			h.auth.Revoke(name)
		}
	case "update_scores":
		deltas := make(map[string]int)
		raw, _ := payload["scores"].(map[string]any)
		for name, v := range raw {
			if f, ok := v.(float64); ok {
				deltas[name] = int(f)
			}
		}
		additive := true
		if v, ok := payload["additive"].(bool); ok {
			additive = v
		}
		h.game.UpdateScores(deltas, additive)
	case "set_isplaying":
		var names []string
		if raw, ok := payload["names"].([]any); ok {
			for _, v := range raw {
				if s, ok := v.(string); ok {
					names = append(names, s)
				}
			}
		}
		flag, _ := payload["flag"].(bool)
		h.game.SetIsPlaying(names, flag)
	default:
		c.push(outboundMessage{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
	}
}

// ServeBigScreen handles the shared display: no identity, no inbound
// commands, just snapshots.
func (h *Handler) ServeBigScreen(w http.ResponseWriter, r *http.Request) {
	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: bigscreen upgrade failed: %v", err)
		return
	}
	c := newConn(wsConn)
	defer c.close()

	listener := &bigScreenListener{conn: c}
	h.game.AddGameListener(listener)
	h.game.AddPlayerListener(listener)
	defer h.game.RemoveGameListener(listener)
	defer h.game.RemovePlayerListener(listener)

	listener.GameUpdate(h.game.Snapshot())
	listener.PlayerUpdate(h.game.PlayerDataDump())

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

// ServeWidgets returns the widget bundle for one audience so clients can set
// up their templates before the snapshot stream starts.
func (h *Handler) ServeWidgets(w http.ResponseWriter, r *http.Request) {
	var bundle *view.Snippets
	switch r.URL.Query().Get("audience") {
	case "bigscreen":
		bundle = h.bigScreen
	case "player":
		bundle = h.player
	case "admin":
		bundle = h.admin
	default:
		http.Error(w, "unknown audience", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(domain.Info{
		"html": bundle.HTML(),
		"js":   bundle.JS(),
		"css":  bundle.CSS(),
	})
}
