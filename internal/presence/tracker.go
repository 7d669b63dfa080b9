package presence

import (
	"sync"
	"time"
)

// Transition reports a user's online/offline edge. Connect and
// Disconnect only return one on the 0->1 and 1->0 connection-count
// transitions, so one user with several devices fires a single
// online event and a single offline event.
type Transition struct {
	UserID   string
	Online   bool
	LastSeen time.Time
}

type record struct {
	connectionCount int
	lastSeen        time.Time
}

// Tracker keeps in-memory per-user connection counts. State lives only
// for the process lifetime; durable last-seen persistence is the
// caller's concern.
type Tracker struct {
	mu    sync.Mutex
	users map[string]*record
}

func NewTracker() *Tracker {
	return &Tracker{
		users: make(map[string]*record),
	}
}

func (t *Tracker) Connect(userID string) *Transition {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.users[userID]
	if !ok {
		rec = &record{}
		t.users[userID] = rec
	}

	rec.connectionCount++
	rec.lastSeen = time.Now()

	if rec.connectionCount == 1 {
		return &Transition{UserID: userID, Online: true, LastSeen: rec.lastSeen}
	}
	return nil
}

// Disconnect is defensive against duplicate disconnect signals: an
// unknown or already-offline user is a no-op.
func (t *Tracker) Disconnect(userID string) *Transition {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.users[userID]
	if !ok || rec.connectionCount == 0 {
		return nil
	}

	rec.connectionCount--
	rec.lastSeen = time.Now()

	if rec.connectionCount == 0 {
		delete(t.users, userID)
		return &Transition{UserID: userID, Online: false, LastSeen: rec.lastSeen}
	}
	return nil
}

func (t *Tracker) IsOnline(userID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.users[userID]
	return ok && rec.connectionCount > 0
}

func (t *Tracker) ConnectionCount(userID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.users[userID]
	if !ok {
		return 0
	}
	return rec.connectionCount
}

// OnlineUsers returns the set of users with at least one connection.
func (t *Tracker) OnlineUsers() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	users := make([]string, 0, len(t.users))
	for id, rec := range t.users {
		if rec.connectionCount > 0 {
			users = append(users, id)
		}
	}
	return users
}
