/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Sadari Ladder Lottery
//
// Everyone in the room watches one shared screen per game ID. The host
// enters the participants and a team size, then starts the ladder. Each
// participant walks down from the top, crossing every rung they meet, and
// lands in the team whose slot they reach at the bottom.
//
// Routes:
// - $path              redirects to a fresh, human readable game ID
// - $path/:gameid      HTML client
// - $path/:gameid/ws   WebSocket for that game
// - $path/:gameid/qr   PNG QR code for sharing the game, roster included
//
// Every socket on a game ID sees the same broadcasts. Idle games are reaped
// after the configured session timeout.

package main

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/Seednode/sadari/games/ladder"
)

const (
	clientCookieName = "sadari_id"
	maxGameIDLength  = 64
	sendBuffer       = 256
)

// ClientMessage is anything a browser may send over the socket.
type ClientMessage struct {
	Type           string   `json:"type"`                       // "setup", "add", "start", "reset"
	Names          []string `json:"names,omitempty"`            // setup
	Data           string   `json:"data,omitempty"`             // setup, comma separated names
	MembersPerTeam int      `json:"members_per_team,omitempty"` // setup
	Name           string   `json:"name,omitempty"`             // add
	AllAtOnce      bool     `json:"all_at_once,omitempty"`      // start
}

// SessionInfoMessage is sent immediately on connect.
type SessionInfoMessage struct {
	Type           string `json:"type"` // "session_info"
	GameID         string `json:"game_id"`
	ClientID       string `json:"client_id"`
	MembersPerTeam int    `json:"members_per_team"`
	MinTeamSize    int    `json:"min_team_size"`
	MaxTeamSize    int    `json:"max_team_size"`
	MaxPlayers     int    `json:"max_participants"`
	Playing        bool   `json:"playing"`
}

// RosterMessage carries who is playing and how teams will be sized.
type RosterMessage struct {
	Type           string               `json:"type"` // "roster"
	Participants   []ladder.Participant `json:"participants"`
	MembersPerTeam int                  `json:"members_per_team"`
	TeamSizes      []int                `json:"team_sizes"`
	Truncated      bool                 `json:"truncated"`
	Share          string               `json:"share"`
}

// LadderMessage announces a freshly drawn ladder. Paths are withheld until
// the result so that the animation is the reveal.
type LadderMessage struct {
	Type         string               `json:"type"` // "ladder"
	Mode         string               `json:"mode"`
	Grid         ladder.Grid          `json:"grid"`
	Participants []ladder.Participant `json:"participants"`
	TeamSizes    []int                `json:"team_sizes"`
	Frames       int                  `json:"frames"`
	Playing      bool                 `json:"playing"`
}

type FrameMessage struct {
	Type  string       `json:"type"` // "frame"
	Frame ladder.Frame `json:"frame"`
}

type ResultMessage struct {
	Type         string                     `json:"type"` // "result"
	Teams        []ladder.Team              `json:"teams"`
	Participants []ladder.ParticipantResult `json:"participants"`
}

// SimpleMessage is for notifications such as "error" and "reset".
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Client struct {
	conn     *websocket.Conn
	send     chan any
	clientID string
}

type command struct {
	client *Client
	msg    ClientMessage
}

type Hub struct {
	id      string
	clients map[*Client]bool
	src     ladder.Source
	metrics *Metrics

	register chan *Client
	unreg    chan *Client
	commands chan command
	done     chan struct{}
	stopOnce sync.Once

	mu sync.RWMutex

	createdAt  time.Time
	lastActive time.Time

	participants   []ladder.Participant
	membersPerTeam int
	truncated      bool

	game     *ladder.Game
	mode     ladder.PlaybackMode
	frames   int
	revealed bool
	playing  bool
	cancel   context.CancelFunc
}

func newHub(gameID string, membersPerTeam int, src ladder.Source, m *Metrics) *Hub {
	now := time.Now()
	return &Hub{
		id:             gameID,
		clients:        make(map[*Client]bool),
		src:            src,
		metrics:        m,
		register:       make(chan *Client),
		unreg:          make(chan *Client),
		commands:       make(chan command),
		done:           make(chan struct{}),
		createdAt:      now,
		lastActive:     now,
		participants:   []ladder.Participant{},
		membersPerTeam: membersPerTeam,
	}
}

func (h *Hub) run(cfg *Config) {
	for {
		select {
		case <-h.done:
			return

		case c := <-h.register:
			h.mu.Lock()
			h.lastActive = time.Now()
			h.clients[c] = true
			h.metrics.clientConnected()

			h.sendLocked(c, SessionInfoMessage{
				Type:           "session_info",
				GameID:         h.id,
				ClientID:       c.clientID,
				MembersPerTeam: h.membersPerTeam,
				MinTeamSize:    minTeamSize,
				MaxTeamSize:    maxTeamSize,
				MaxPlayers:     ladder.MaxParticipants,
				Playing:        h.playing,
			})
			h.sendLocked(c, h.rosterLocked())

			// Late joiners see the current ladder straight away.
			if h.game != nil {
				h.sendLocked(c, h.ladderLocked(h.mode, h.frames))
				if h.revealed {
					h.sendLocked(c, resultMessage(h.game.Result))
				}
			}
			h.mu.Unlock()

			logf(cfg, "GAMES: Client %s connected to %s", c.clientID, h.id)

		case c := <-h.unreg:
			h.mu.Lock()
			h.lastActive = time.Now()
			if _, ok := h.clients[c]; ok {
				h.dropLocked(c)
			}
			h.mu.Unlock()

		case cmd := <-h.commands:
			h.handleCommand(cfg, cmd)
		}
	}
}

// dropLocked assumes h.mu is held and c is registered.
func (h *Hub) dropLocked(c *Client) {
	delete(h.clients, c)
	close(c.send)
	h.metrics.clientDisconnected()
}

func (h *Hub) sendLocked(c *Client, msg any) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		h.dropLocked(c)
	}
}

func (h *Hub) broadcastLocked(msg any) {
	for client := range h.clients {
		h.sendLocked(client, msg)
	}
}

func (h *Hub) errorLocked(c *Client, text string) {
	h.sendLocked(c, SimpleMessage{Type: "error", Message: text})
}

func (h *Hub) rosterLocked() RosterMessage {
	sizes, err := ladder.Partition(len(h.participants), h.membersPerTeam)
	if err != nil || sizes == nil {
		sizes = []int{}
	}

	participants := make([]ladder.Participant, len(h.participants))
	copy(participants, h.participants)

	return RosterMessage{
		Type:           "roster",
		Participants:   participants,
		MembersPerTeam: h.membersPerTeam,
		TeamSizes:      sizes,
		Truncated:      h.truncated,
		Share:          ladder.FormatNames(h.participants),
	}
}

func (h *Hub) ladderLocked(mode ladder.PlaybackMode, frames int) LadderMessage {
	return LadderMessage{
		Type:         "ladder",
		Mode:         mode.String(),
		Grid:         h.game.Grid,
		Participants: h.game.Participants,
		TeamSizes:    h.game.TeamSizes,
		Frames:       frames,
		Playing:      h.playing,
	}
}

func resultMessage(result ladder.Result) ResultMessage {
	return ResultMessage{
		Type:         "result",
		Teams:        result.Teams,
		Participants: result.Participants,
	}
}

// discardLocked stops any playback and forgets the current ladder.
func (h *Hub) discardLocked() {
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	h.game = nil
	h.revealed = false
	h.playing = false
}

func (h *Hub) handleCommand(cfg *Config, cmd command) {
	c := cmd.client
	msg := cmd.msg

	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	switch msg.Type {
	case "setup":
		if h.playing {
			h.errorLocked(c, "The ladder is still playing; reset it first.")
			return
		}

		membersPerTeam := h.membersPerTeam
		if msg.MembersPerTeam != 0 {
			membersPerTeam = msg.MembersPerTeam
		}
		if membersPerTeam < minTeamSize || membersPerTeam > maxTeamSize {
			h.errorLocked(c, "Members per team must be between 1 and 10.")
			return
		}

		var names []string
		truncated := false
		if msg.Data != "" {
			names, truncated = ladder.ParseNames(msg.Data)
		} else {
			names, truncated = cleanNames(msg.Names)
		}

		h.discardLocked()
		h.participants = ladder.AssignCharacters(names, h.src)
		h.membersPerTeam = membersPerTeam
		h.truncated = truncated

		logf(cfg, "GAMES: Set up %d participants in teams of %d for %s", len(names), membersPerTeam, h.id)

		h.broadcastLocked(h.rosterLocked())

	case "add":
		if h.playing {
			h.errorLocked(c, "The ladder is still playing; reset it first.")
			return
		}

		name := strings.TrimSpace(msg.Name)
		if name == "" {
			h.errorLocked(c, "Enter a name to add.")
			return
		}
		if len(h.participants) >= ladder.MaxParticipants {
			h.errorLocked(c, "The ladder is full.")
			return
		}

		h.discardLocked()
		h.participants = append(h.participants, ladder.NewParticipant(name, h.src))
		h.truncated = false

		logf(cfg, "GAMES: Added %q to %s", name, h.id)

		h.broadcastLocked(h.rosterLocked())

	case "start":
		if h.playing {
			h.errorLocked(c, "The ladder is already playing.")
			return
		}
		if len(h.participants) == 0 {
			h.errorLocked(c, "Add some participants first.")
			return
		}

		game, err := ladder.Play(h.participants, h.membersPerTeam, h.src)
		if err != nil {
			h.errorLocked(c, err.Error())
			return
		}

		mode := ladder.OneByOne
		if msg.AllAtOnce {
			mode = ladder.AllAtOnce
		}
		frames := ladder.Playback(game.Result, mode)

		h.discardLocked()
		h.game = &game
		h.mode = mode
		h.frames = len(frames)
		h.playing = true
		h.metrics.ladderGenerated(len(game.Participants))

		ctx, cancel := context.WithCancel(context.Background())
		h.cancel = cancel

		logf(cfg, "GAMES: Started a %d row ladder for %d participants in %s (%s)",
			game.Grid.Rows(), len(game.Participants), h.id, mode)

		h.broadcastLocked(h.ladderLocked(mode, len(frames)))

		go h.play(ctx, cfg, game, frames)

	case "reset":
		h.discardLocked()

		logf(cfg, "GAMES: Reset %s", h.id)

		h.broadcastLocked(SimpleMessage{Type: "reset", Message: "The ladder has been cleared."})
		h.broadcastLocked(h.rosterLocked())
	}
}

// play streams frames to every client at their planned pace, then reveals
// the teams. It gives up as soon as ctx is cancelled.
func (h *Hub) play(ctx context.Context, cfg *Config, game ladder.Game, frames []ladder.Frame) {
	for _, frame := range frames {
		timer := time.NewTimer(cfg.scaled(frame.Delay))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		h.mu.Lock()
		if ctx.Err() != nil {
			h.mu.Unlock()
			return
		}
		h.lastActive = time.Now()
		h.broadcastLocked(FrameMessage{Type: "frame", Frame: frame})
		h.mu.Unlock()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if ctx.Err() != nil {
		return
	}

	h.playing = false
	h.revealed = true
	h.lastActive = time.Now()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}

	h.broadcastLocked(resultMessage(game.Result))
}

// closeAll disconnects all clients of this hub and stops it (used by reaper).
func (h *Hub) closeAll() {
	h.stopOnce.Do(func() {
		close(h.done)
	})

	h.mu.Lock()
	defer h.mu.Unlock()

	h.discardLocked()

	for c := range h.clients {
		h.dropLocked(c)
		_ = c.conn.Close()
	}
}

// cleanNames trims names, drops blanks and keeps at most MaxParticipants.
func cleanNames(raw []string) ([]string, bool) {
	names := make([]string, 0, len(raw))
	for _, n := range raw {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		names = append(names, n)
	}

	if len(names) > ladder.MaxParticipants {
		return names[:ladder.MaxParticipants], true
	}

	return names, false
}

func validGameID(id string) bool {
	if id == "" || len(id) > maxGameIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func getOrSetClientID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(clientCookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	id := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     clientCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// GameManager holds a set of hubs keyed by game ID, so each $path/$gameid
// is its own isolated session.
type GameManager struct {
	mu          sync.Mutex
	hubs        map[string]*Hub
	idleTimeout time.Duration
	teamSize    int
	metrics     *Metrics
}

func newGameManager(ctx context.Context, cfg *Config, m *Metrics) *GameManager {
	gm := &GameManager{
		hubs:        make(map[string]*Hub),
		idleTimeout: cfg.sessionTimeout,
		teamSize:    cfg.teamSize,
		metrics:     m,
	}
	if gm.idleTimeout > 0 {
		go gm.reaperLoop(ctx, cfg)
	}
	return gm
}

func (gm *GameManager) getHub(cfg *Config, gameID string) *Hub {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub
	}

	hub := newHub(gameID, gm.teamSize, ladder.DefaultSource(), gm.metrics)
	gm.hubs[gameID] = hub
	gm.metrics.sessionOpened()
	go hub.run(cfg)

	logf(cfg, "GAMES: Opened %s", gameID)

	return hub
}

func (gm *GameManager) count() int {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	return len(gm.hubs)
}

// newGameID picks a readable three word ID that no live game is using.
func (gm *GameManager) newGameID() string {
	for {
		id := petname.Generate(3, "-")

		gm.mu.Lock()
		_, exists := gm.hubs[id]
		gm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// reap removes hubs idle since before cutoff and returns how many went.
// A hub that is playing a ladder counts as active now.
func (gm *GameManager) reap(cfg *Config, cutoff time.Time) int {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	now := time.Now()

	reaped := 0
	for id, hub := range gm.hubs {
		hub.mu.RLock()
		last := hub.lastActive
		if hub.playing {
			last = now
		}
		hub.mu.RUnlock()

		if last.Before(cutoff) {
			delete(gm.hubs, id)
			gm.metrics.sessionClosed()
			go hub.closeAll()
			reaped++

			logf(cfg, "GAMES: Reaped idle game %s", id)
		}
	}

	return reaped
}

// reaperLoop periodically removes hubs that have been idle longer than
// idleTimeout, and closes every hub once ctx is done.
func (gm *GameManager) reaperLoop(ctx context.Context, cfg *Config) {
	ticker := time.NewTicker(gm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			gm.reap(cfg, time.Now().Add(time.Hour))
			return
		case <-ticker.C:
			gm.reap(cfg, time.Now().Add(-gm.idleTimeout))
		}
	}
}

// WebSocket handler that picks the hub based on :gameid
func serveWSForManager(cfg *Config, gm *GameManager, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if !validGameID(gameID) {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		clientID := getOrSetClientID(w, r)

		hub := gm.getHub(cfg, gameID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			report(errs, err)
			return
		}

		client := &Client{
			conn:     conn,
			send:     make(chan any, sendBuffer),
			clientID: clientID,
		}

		select {
		case hub.register <- client:
		case <-hub.done:
			_ = conn.Close()
			return
		}

		logf(cfg, "SERVE: WebSocket for %s to %s", gameID, realIP(r))

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "setup", "add", "start", "reset":
			select {
			case h.commands <- command{client: c, msg: msg}:
			case <-h.done:
				return
			}
		default:
			// ignore unknown types
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// shareURL rebuilds the absolute game URL from a request to one of its
// sub-routes, carrying the roster along in ?data= when present.
func shareURL(r *http.Request, suffix string) string {
	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	u := scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, suffix)

	if data := r.URL.Query().Get("data"); data != "" {
		u += "?data=" + url.QueryEscape(data)
	}

	return u
}

// QR handler: generates a PNG QR code for the current game URL using go-qrcode.
func qrHandler(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !validGameID(ps.ByName("gameid")) {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		const qrSize = 320 // mobile-friendly size
		png, err := qrcode.Encode(shareURL(r, "/qr"), qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)

		if _, err := w.Write(png); err != nil {
			report(errs, err)
		}
	}
}

func getIndexHandler(cfg *Config, page string, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if gameID := ps.ByName("gameid"); gameID != "" && !validGameID(gameID) {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		data, err := assets.ReadFile(page)
		if err != nil {
			report(errs, err)
			http.Error(w, "page not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		securityHeaders(cfg, w)

		_ = getOrSetClientID(w, r)

		written, err := w.Write(data)
		if err != nil {
			report(errs, err)

			return
		}

		logf(cfg, "SERVE: Page %s (%s) to %s", r.URL.Path, humanReadableSize(int64(written)), realIP(r))
	}
}

// redirectNewGame handles GET /path by generating a new random game ID
// (with server-side collision detection) and redirecting to /path/:gameid.
// A roster passed in ?data= follows the redirect.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created game %s/%s", path, gameID)

		target := cfg.prefix + path + "/" + gameID
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}

		http.Redirect(w, r, target, http.StatusTemporaryRedirect)
	}
}

// registerLadderGame sets up routes so that:
//   - $path                  → redirects to a new game
//   - $path/:gameid          → HTML client
//   - $path/:gameid/ws       → WebSocket for that game
//   - $path/:gameid/qr       → PNG QR code for that game URL
func registerLadderGame(cfg *Config, path string, mux *httprouter.Router, gm *GameManager, m *Metrics, errs chan<- error) {
	mux.GET(cfg.prefix+path, m.instrument(path, redirectNewGame(cfg, path, gm)))

	mux.GET(cfg.prefix+path+"/:gameid", m.instrument(path+"/:gameid", getIndexHandler(cfg, "assets/ladder/index.html", errs)))

	mux.GET(cfg.prefix+path+"/:gameid/ws", m.instrument(path+"/:gameid/ws", serveWSForManager(cfg, gm, errs)))

	mux.GET(cfg.prefix+path+"/:gameid/qr", m.instrument(path+"/:gameid/qr", qrHandler(cfg, errs)))
}
