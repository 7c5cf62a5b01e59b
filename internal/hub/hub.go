// Package hub pushes session events to browsers over websockets so an open
// dashboard refreshes when a background reconcile finishes.
package hub

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/mymatch/dashboard/internal/models"
)

var (
	activeClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mymatch_ws_active_clients",
		Help: "Currently connected websocket clients",
	})

	eventsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mymatch_ws_events_sent_total",
		Help: "Session events delivered to websocket clients",
	})

	eventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mymatch_ws_events_dropped_total",
		Help: "Session events that could not be delivered",
	}, []string{"reason"})
)

type envelope struct {
	sessionID string
	event     models.SessionEvent
}

// Hub maintains the active clients of every session and fans events out to them
type Hub struct {
	// clients by session id
	clients   map[string]map[*Client]bool
	clientsMu sync.RWMutex

	publish    chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	logger *zap.SugaredLogger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		publish:    make(chan envelope, 1000),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.Sugar(),
	}
}

// Run is the hub's main loop. It closes every client when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("Hub started")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case env := <-h.publish:
			h.deliver(env)
		}
	}
}

// Register adds a client. It returns false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues an event for every client of a session without blocking
func (h *Hub) Publish(sessionID string, event models.SessionEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case h.publish <- envelope{sessionID: sessionID, event: event}:
	default:
		eventsDropped.WithLabelValues("hub_full").Inc()
		h.logger.Warnw("Publish buffer full, dropping event", "session", sessionID, "type", event.Type)
	}
}

func (h *Hub) registerClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	set, ok := h.clients[c.SessionID]
	if !ok {
		set = make(map[*Client]bool)
		h.clients[c.SessionID] = set
	}
	set[c] = true
	activeClients.Inc()

	h.logger.Debugw("Client connected", "client", c.ID, "session", c.SessionID)
}

func (h *Hub) unregisterClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	set := h.clients[c.SessionID]
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.SessionID)
	}
	close(c.Send)
	activeClients.Dec()

	h.logger.Debugw("Client disconnected", "client", c.ID, "session", c.SessionID)
}

func (h *Hub) deliver(env envelope) {
	h.clientsMu.RLock()
	targets := make([]*Client, 0, len(h.clients[env.sessionID]))
	for c := range h.clients[env.sessionID] {
		targets = append(targets, c)
	}
	h.clientsMu.RUnlock()

	for _, c := range targets {
		if c.TrySend(env.event) {
			eventsSent.Inc()
			continue
		}
		// too slow to keep up
		eventsDropped.WithLabelValues("client_full").Inc()
		h.unregisterClient(c)
	}
}

// ClientCount returns the number of connected clients of a session
func (h *Hub) ClientCount(sessionID string) int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients[sessionID])
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	n := 0
	for id, set := range h.clients {
		for c := range set {
			close(c.Send)
			n++
		}
		delete(h.clients, id)
	}
	activeClients.Sub(float64(n))
	h.logger.Infow("Hub stopped", "closedClients", n)
}
