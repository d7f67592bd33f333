package service

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"amberreview/internal/model"
)

// codeAlphabet excludes visually ambiguous characters (0/O, 1/I).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 5

type roomEntry struct {
	mu   sync.Mutex
	room *model.Room
}

type tombstone struct {
	Reason string
	At     time.Time
}

// Registry owns every live room. It serializes code generation and map
// mutation; all room state is accessed through WithRoom, which provides the
// per-room exclusive critical section required by the state machine.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*roomEntry
	closed map[string]tombstone

	ttl time.Duration
	now func() time.Time
}

// NewRegistry creates an empty registry. Rooms idle longer than ttl are
// removed by Sweep.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		rooms:  make(map[string]*roomEntry),
		closed: make(map[string]tombstone),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Insert assigns the room a fresh unique code and registers it.
func (r *Registry) Insert(room *model.Room) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := generateCode()
	for {
		_, live := r.rooms[code]
		_, dead := r.closed[code]
		if !live && !dead {
			break
		}
		code = generateCode()
	}

	room.Code = code
	r.rooms[code] = &roomEntry{room: room}
	return code
}

// WithRoom runs fn with exclusive access to the room's state. Every
// read-modify-write against a room, including timer callbacks, must go through
// here. Returns ErrRoomNotFound or ErrRoomClosed if the code does not resolve
// to a live room.
func (r *Registry) WithRoom(code string, fn func(room *model.Room) error) error {
	r.mu.RLock()
	entry, ok := r.rooms[code]
	if !ok {
		tomb, dead := r.closed[code]
		r.mu.RUnlock()
		if dead && tomb.Reason == model.CloseReasonHostLeft {
			return ErrRoomClosed
		}
		return ErrRoomNotFound
	}
	r.mu.RUnlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	// The room may have been closed between the lookup and acquiring its lock.
	if entry.room.Closed {
		if entry.room.CloseReason == model.CloseReasonHostLeft {
			return ErrRoomClosed
		}
		return ErrRoomNotFound
	}
	return fn(entry.room)
}

// Remove deletes a closed room from the registry. The room must already be
// marked closed (with its timer cancelled) inside its critical section; Remove
// only mutates the maps. A host-left closure leaves a tombstone so late
// pollers get a distinguishable signal.
func (r *Registry) Remove(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.rooms[code]
	if !ok {
		return
	}
	delete(r.rooms, code)

	if entry.room.CloseReason == model.CloseReasonHostLeft {
		r.closed[code] = tombstone{Reason: model.CloseReasonHostLeft, At: r.now()}
	}
	log.Printf("[registry] room %s removed (%s), %d live rooms", code, entry.room.CloseReason, len(r.rooms))
}

// Len returns the number of live rooms.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Sweep removes rooms idle longer than the TTL and expires old tombstones.
func (r *Registry) Sweep(now time.Time) {
	r.mu.RLock()
	entries := make(map[string]*roomEntry, len(r.rooms))
	for code, entry := range r.rooms {
		entries[code] = entry
	}
	r.mu.RUnlock()

	for code, entry := range entries {
		entry.mu.Lock()
		expired := !entry.room.Closed && now.Sub(entry.room.UpdatedAt) > r.ttl
		if expired {
			entry.room.CancelTimer()
			entry.room.Closed = true
			entry.room.CloseReason = model.CloseReasonExpired
		}
		entry.mu.Unlock()

		if expired {
			r.Remove(code)
		}
	}

	r.mu.Lock()
	for code, tomb := range r.closed {
		if now.Sub(tomb.At) > r.ttl {
			delete(r.closed, code)
		}
	}
	r.mu.Unlock()
}

// StartSweeper runs Sweep on a fixed cadence until ctx is cancelled.
func (r *Registry) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.Sweep(time.Now())
			case <-ctx.Done():
				return
			}
		}
	}()
}

func generateCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}
