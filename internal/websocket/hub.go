package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Hub is the process-wide connection registry: it maps room channels and
// personal (per-user) channels to live connections and fans events out
// to them. Exactly one hub exists per process, created at startup and
// torn down at shutdown.
type Hub struct {
	// Room channel management
	rooms map[string]map[*Client]struct{}
	mu    sync.RWMutex

	// Personal channels: userID -> [clients]
	userClients map[string][]*Client
	userMu      sync.RWMutex

	// Incoming event dispatcher
	handlerMu    sync.RWMutex
	eventHandler EventHandler

	// Hub lifecycle
	ctx    context.Context
	cancel context.CancelFunc

	// Metrics
	stats   HubStats
	statsMu sync.RWMutex

	// Cleanup
	cleanupTicker *time.Ticker
}

type HubStats struct {
	TotalRooms       int       `json:"total_rooms"`
	TotalClients     int       `json:"total_clients"`
	TotalConnections int64     `json:"total_connections"`
	EventsSent       int64     `json:"events_sent"`
	LastReset        time.Time `json:"last_reset"`
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	hub := &Hub{
		rooms:       make(map[string]map[*Client]struct{}),
		userClients: make(map[string][]*Client),
		ctx:         ctx,
		cancel:      cancel,
		stats: HubStats{
			LastReset: time.Now(),
		},
		cleanupTicker: time.NewTicker(1 * time.Minute),
	}

	go hub.cleanupRoutine()

	return hub
}

// SetEventHandler wires the socket dispatcher. Must be called before the
// first connection registers.
func (h *Hub) SetEventHandler(handler EventHandler) {
	h.handlerMu.Lock()
	h.eventHandler = handler
	h.handlerMu.Unlock()
}

func (h *Hub) handler() EventHandler {
	h.handlerMu.RLock()
	defer h.handlerMu.RUnlock()
	return h.eventHandler
}

// Register binds a connection to its user's personal channel and starts
// the client pumps. Room channels are joined separately via JoinRoom.
func (h *Hub) Register(client *Client) {
	h.userMu.Lock()
	h.userClients[client.UserID] = append(h.userClients[client.UserID], client)
	h.userMu.Unlock()

	h.updateStats(func(stats *HubStats) {
		stats.TotalConnections++
	})

	client.Start()

	if handler := h.handler(); handler != nil {
		handler.HandleConnect(client)
	}

	log.Info().Str("clientID", client.ID).Str("userID", client.UserID).Msg("ws: client registered")
}

// JoinRoom subscribes a connection to a room channel. Callers are
// responsible for the membership check; the hub only manages channels.
func (h *Hub) JoinRoom(roomID string, client *Client) {
	h.mu.Lock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]struct{})
	}
	h.rooms[roomID][client] = struct{}{}
	roomSize := len(h.rooms[roomID])
	h.mu.Unlock()

	log.Info().Str("roomID", roomID).Str("clientID", client.ID).Str("userID", client.UserID).Int("roomSize", roomSize).Msg("ws: client joined room channel")
}

// Unregister removes a connection from every room channel and from its
// personal channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	for roomID, clients := range h.rooms {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
	h.mu.Unlock()

	h.userMu.Lock()
	userClients := h.userClients[client.UserID]
	for i, c := range userClients {
		if c == client {
			h.userClients[client.UserID] = append(userClients[:i], userClients[i+1:]...)
			break
		}
	}
	if len(h.userClients[client.UserID]) == 0 {
		delete(h.userClients, client.UserID)
	}
	h.userMu.Unlock()

	if handler := h.handler(); handler != nil {
		handler.HandleDisconnect(client)
	}

	log.Info().Str("clientID", client.ID).Str("userID", client.UserID).Msg("ws: client unregistered")
}

// BroadcastToRoom sends an event to all connections subscribed to a room
// channel.
func (h *Hub) BroadcastToRoom(roomID string, evt OutgoingEvent) {
	h.broadcastToRoomInternal(roomID, evt, nil)
}

// BroadcastToRoomExcept sends an event to a room channel excluding the
// originating connection (typing signals, presence echoes).
func (h *Hub) BroadcastToRoomExcept(roomID string, evt OutgoingEvent, except *Client) {
	h.broadcastToRoomInternal(roomID, evt, except)
}

func (h *Hub) broadcastToRoomInternal(roomID string, evt OutgoingEvent, except *Client) {
	data, err := json.Marshal(evt)
	if err != nil {
		log.Error().Err(err).Str("roomID", roomID).Msg("ws: failed to marshal broadcast event")
		return
	}

	// Get snapshot of clients (minimize lock time)
	h.mu.RLock()
	var targets []*Client
	if clients, ok := h.rooms[roomID]; ok {
		targets = make([]*Client, 0, len(clients))
		for client := range clients {
			if except != nil && client == except {
				continue
			}
			if client.IsClientActive() {
				targets = append(targets, client)
			}
		}
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return
	}

	// Send to clients outside of lock (parallel sending)
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, 50) // limit concurrent sends

	for _, client := range targets {
		wg.Add(1)
		go func(c *Client) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() {
				<-semaphore
			}()
			select {
			case c.Send <- data:
				// success
			case <-c.ctx.Done():
				// Client is closing
			default:
				// Client buffer full - slow consumer
				log.Warn().Str("roomID", roomID).Str("clientID", c.ID).Msg("ws: slow consumer, dropping event")

				go c.Close()
			}
		}(client)
	}

	wg.Wait()

	h.updateStats(func(stats *HubStats) {
		stats.EventsSent += int64(len(targets))
	})

	log.Debug().Str("roomID", roomID).Int("targets", len(targets)).Str("event", evt.Event).Msg("ws: room broadcast completed")
}

// BroadcastToUser sends an event to every connection on a user's
// personal channel, regardless of room subscriptions.
func (h *Hub) BroadcastToUser(userID string, evt OutgoingEvent) {
	h.userMu.RLock()
	clients := make([]*Client, len(h.userClients[userID]))
	copy(clients, h.userClients[userID])
	h.userMu.RUnlock()

	if len(clients) == 0 {
		return
	}

	data, err := json.Marshal(evt)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("ws: failed to marshal user event")
		return
	}

	for _, client := range clients {
		if !client.IsClientActive() {
			continue
		}

		select {
		case client.Send <- data:
		case <-client.ctx.Done():
		default:
			log.Warn().Str("userID", userID).Str("clientID", client.ID).Msg("ws: user client buffer full")
		}
	}

	h.updateStats(func(stats *HubStats) {
		stats.EventsSent += int64(len(clients))
	})
}

// BroadcastToAll delivers an event to every live connection. Used for
// global presence transitions.
func (h *Hub) BroadcastToAll(evt OutgoingEvent) {
	data, err := json.Marshal(evt)
	if err != nil {
		log.Error().Err(err).Str("event", evt.Event).Msg("ws: failed to marshal global event")
		return
	}

	h.userMu.RLock()
	var targets []*Client
	for _, clients := range h.userClients {
		for _, client := range clients {
			if client.IsClientActive() {
				targets = append(targets, client)
			}
		}
	}
	h.userMu.RUnlock()

	for _, client := range targets {
		select {
		case client.Send <- data:
		case <-client.ctx.Done():
		default:
		}
	}
}

// GetUserClients returns all active clients for a user.
func (h *Hub) GetUserClients(userID string) []*Client {
	h.userMu.RLock()
	defer h.userMu.RUnlock()

	var activeClients []*Client
	for _, client := range h.userClients[userID] {
		if client.IsClientActive() {
			activeClients = append(activeClients, client)
		}
	}

	return activeClients
}

// IsSubscribed reports whether a connection holds the room channel.
func (h *Hub) IsSubscribed(roomID string, client *Client) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[roomID]
	if !ok {
		return false
	}
	_, ok = clients[client]
	return ok
}

// GetRoomStats returns statistics for a room channel.
func (h *Hub) GetRoomStats(roomID string) map[string]any {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := map[string]any{
		"room_id": roomID,
		"exists":  false,
	}

	if clients, ok := h.rooms[roomID]; ok {
		activeClients := 0
		uniqueUsers := make(map[string]bool)

		for client := range clients {
			if client.IsClientActive() {
				activeClients++
				uniqueUsers[client.UserID] = true
			}
		}

		stats["exists"] = true
		stats["total_connections"] = len(clients)
		stats["active_connections"] = activeClients
		stats["unique_users"] = len(uniqueUsers)
	}

	return stats
}

// GetHubStats returns overall hub statistics.
func (h *Hub) GetHubStats() HubStats {
	h.statsMu.RLock()
	stats := h.stats
	h.statsMu.RUnlock()

	h.mu.RLock()
	stats.TotalRooms = len(h.rooms)
	h.mu.RUnlock()

	h.userMu.RLock()
	totalClients := 0
	for _, clients := range h.userClients {
		for _, client := range clients {
			if client.IsClientActive() {
				totalClients++
			}
		}
	}
	h.userMu.RUnlock()
	stats.TotalClients = totalClients

	return stats
}

func (h *Hub) updateStats(fn func(*HubStats)) {
	h.statsMu.Lock()
	fn(&h.stats)
	h.statsMu.Unlock()
}

func (h *Hub) cleanupRoutine() {
	defer h.cleanupTicker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.cleanupTicker.C:
			h.performCleanup()
		}
	}
}

func (h *Hub) performCleanup() {
	now := time.Now()
	inactiveThreshold := 2 * time.Minute

	var toRemove []*Client

	h.userMu.RLock()
	for _, clients := range h.userClients {
		for _, client := range clients {
			if !client.IsClientActive() || now.Sub(client.GetLastSeen()) > inactiveThreshold {
				toRemove = append(toRemove, client)
			}
		}
	}
	h.userMu.RUnlock()

	for _, client := range toRemove {
		log.Info().
			Str("clientID", client.ID).
			Str("userID", client.UserID).
			Msg("ws: cleaning up inactive client")
		client.Close()
	}

	log.Debug().Int("cleaned", len(toRemove)).Msg("ws: cleanup routine completed")
}

// Close gracefully shuts down the hub.
func (h *Hub) Close() {
	log.Info().Msg("ws: shutting down hub")

	h.cancel()

	h.userMu.RLock()
	var allClients []*Client
	for _, clients := range h.userClients {
		allClients = append(allClients, clients...)
	}
	h.userMu.RUnlock()

	for _, client := range allClients {
		client.Close()
	}

	log.Info().Int("clients", len(allClients)).Msg("ws: hub shutdown completed")
}
