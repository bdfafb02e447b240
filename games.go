package bingo

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Room is one word-picking session. Class is the state that lives on the
// room's goroutine, everything it needs arrives on Cmd.
type Room[T any] struct {
	Class T             `json:"-"`
	Cmd   chan *Command `json:"-"`

	Id      string
	Created time.Time `json:"-"`

	mu      sync.Mutex
	updated time.Time

	done     chan struct{}
	doneOnce sync.Once
}

func NewRoom[T any](class T, id string) *Room[T] {
	now := time.Now()
	return &Room[T]{
		Cmd:     make(chan *Command),
		Class:   class,
		Id:      id,
		Created: now,
		updated: now,
		done:    make(chan struct{}),
	}
}

// Send hands cmd to the room goroutine. False means the room has finished
// and nobody is listening anymore.
func (r *Room[T]) Send(cmd *Command) bool {
	select {
	case r.Cmd <- cmd:
		return true
	case <-r.done:
		return false
	}
}

// Finish is called by the room goroutine on its way out
func (r *Room[T]) Finish() {
	r.doneOnce.Do(func() {
		close(r.done)
	})
}

func (r *Room[T]) Done() <-chan struct{} {
	return r.done
}

// Touch records activity, the sweeper leaves busy rooms alone
func (r *Room[T]) Touch() {
	r.mu.Lock()
	r.updated = time.Now()
	r.mu.Unlock()
}

func (r *Room[T]) Updated() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updated
}

type Rooms[T any] struct {
	sync.RWMutex
	rooms   map[string]*Room[T]
	players map[string]*Room[T]
}

func NewRooms[T any]() *Rooms[T] {
	return &Rooms[T]{
		rooms:   map[string]*Room[T]{},
		players: map[string]*Room[T]{},
	}
}

func (r *Rooms[T]) Ids() []string {
	r.RLock()
	defer r.RUnlock()
	var ids []string
	for id := range r.rooms {
		ids = append(ids, id)
	}
	return ids
}

func (r *Rooms[T]) Get(id string) *Room[T] {
	r.RLock()
	defer r.RUnlock()
	return r.rooms[id]
}

func (r *Rooms[T]) Set(room *Room[T], pid string) {
	if room.Id == "" {
		// this is programmer error, ok with panic
		panic("room needs an ID")
	}
	r.Lock()
	r.rooms[room.Id] = room
	r.players[pid] = room
	r.Unlock()
}

func (r *Rooms[T]) Delete(id string) {
	r.Lock()
	delete(r.rooms, id)
	for pid, room := range r.players {
		if room.Id == id {
			delete(r.players, pid)
		}
	}
	r.Unlock()
}

// Find returns the room the player last joined
func (r *Rooms[T]) Find(pid string) *Room[T] {
	r.RLock()
	defer r.RUnlock()
	return r.players[pid]
}

// Sweep stops and forgets rooms that were created and last used more than
// maxAge before now. It returns the ids it removed.
func (r *Rooms[T]) Sweep(now time.Time, maxAge time.Duration) []string {
	var removed []string
	for _, id := range r.Ids() {
		room := r.Get(id)
		if room == nil {
			continue
		}
		if now.Sub(room.Created) > maxAge && now.Sub(room.Updated()) > maxAge {
			r.Delete(id)
			room.Send(&Command{Type: CmdStop})
			removed = append(removed, id)
		}
	}
	return removed
}

// Janitor sweeps abandoned rooms every interval until ctx is done
func (r *Rooms[T]) Janitor(ctx context.Context, every, maxAge time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := r.Sweep(now, maxAge); len(removed) > 0 {
				zap.L().Info("Swept abandoned rooms", zap.Strings("rooms", removed))
			}
		}
	}
}
