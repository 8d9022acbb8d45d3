package live

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"lane_battle/internal/battle"
	"lane_battle/internal/sim"
)

const (
	sendBuffer = 256
	writeWait  = 5 * time.Second
	DefaultFPS = 60
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type Params struct {
	// Init is the battle setup; its Delegate is replaced by the hub.
	Init battle.InitParams
	FPS  int
}

type command struct {
	Type   string `json:"type"`
	UnitID int    `json:"unitId"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub runs one battle and streams its events to every connected client.
// Only the Run goroutine touches the battle.
type Hub struct {
	params Params
	log    zerolog.Logger

	logic   *battle.Logic
	sim     *sim.Simulator
	pending []sim.Event

	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	commands   chan command
	done       chan struct{}
}

func NewHub(p Params, log zerolog.Logger) *Hub {
	if p.FPS <= 0 {
		p.FPS = DefaultFPS
	}
	return &Hub{
		params:     p,
		log:        log,
		logic:      battle.New(),
		clients:    map[*client]struct{}{},
		register:   make(chan *client),
		unregister: make(chan *client),
		commands:   make(chan command, 64),
		done:       make(chan struct{}),
	}
}

func (h *Hub) reset() error {
	h.sim = sim.NewSimulator(h.params.Init.Stage.Length, h.params.Init.UnitMasters, h.logic.Frame)
	h.sim.Emit = func(ev sim.Event) { h.pending = append(h.pending, ev) }
	setup := h.params.Init
	setup.Delegate = h.sim
	return h.logic.Init(setup)
}

// Run ticks the battle until ctx is cancelled. Client commands are applied
// between frames.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	if err := h.reset(); err != nil {
		return err
	}
	h.log.Info().Int("stage", h.params.Init.Stage.StageID).Int("fps", h.params.FPS).Msg("battle started")

	ticker := time.NewTicker(time.Second / time.Duration(h.params.FPS))
	defer ticker.Stop()
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.log.Debug().Str("client", c.id).Int("clients", len(h.clients)).Msg("client joined")
		case c := <-h.unregister:
			h.drop(c)
		case cmd := <-h.commands:
			if err := h.apply(cmd); err != nil {
				return err
			}
		case <-ticker.C:
			wasOver := h.logic.IsGameOver()
			h.logic.Update()
			if !wasOver && h.logic.IsGameOver() {
				_, won := h.sim.GameOver()
				h.log.Info().Int("frame", h.logic.Frame()).Bool("win", won).Msg("battle over")
			}
		}
		h.flush()
	}
}

func (h *Hub) apply(cmd command) error {
	switch cmd.Type {
	case "spawn":
		m, ok := h.logic.UnitMaster(cmd.UnitID)
		if !ok {
			h.log.Debug().Int("unit", cmd.UnitID).Msg("spawn for unknown unit")
		} else {
			h.log.Debug().
				Int("unit", cmd.UnitID).
				Str("name", m.Name).
				Float64("cost", m.Cost).
				Float64("available", h.sim.Cost()).
				Msg("spawn requested")
		}
		h.logic.RequestSpawnPlayer(cmd.UnitID)
	case "reset":
		h.log.Info().Msg("battle reset")
		return h.reset()
	default:
		h.log.Debug().Str("type", cmd.Type).Msg("unknown command")
	}
	return nil
}

func (h *Hub) flush() {
	for _, ev := range h.pending {
		msg, err := json.Marshal(ev)
		if err != nil {
			h.log.Error().Err(err).Str("type", ev.Type).Msg("encode event")
			continue
		}
		for c := range h.clients {
			select {
			case c.send <- msg:
			default:
				h.log.Warn().Str("client", c.id).Msg("client too slow, dropping")
				h.drop(c)
			}
		}
	}
	h.pending = h.pending[:0]
}

func (h *Hub) drop(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.log.Debug().Str("client", c.id).Int("clients", len(h.clients)).Msg("client left")
}

func (h *Hub) closeAll() {
	for c := range h.clients {
		h.drop(c)
	}
}

// ServeWS upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("upgrade failed")
		return
	}
	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd command
		if err := json.Unmarshal(message, &cmd); err != nil {
			h.log.Debug().Err(err).Str("client", c.id).Msg("bad message")
			continue
		}
		select {
		case h.commands <- cmd:
		case <-h.done:
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for message := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
