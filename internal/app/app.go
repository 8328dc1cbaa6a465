// Package app implements the process-wide room registry: creating rooms
// on first join, destroying them on last disconnect, and serializing every
// mutation behind a single reader/writer lock, per spec.md §4.1 and §5.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"planner-server/internal/archive"
	"planner-server/internal/canvas"
	"planner-server/internal/metrics"
	"planner-server/internal/room"
)

// App is the process-wide registry mapping room name to Room. Exactly one
// App exists per server process.
type App struct {
	mu    sync.RWMutex
	rooms map[string]*room.Room

	archiver archive.Archiver
	metrics  *metrics.Recorder
}

// New creates an empty registry. archiver and metrics may be nil, in which
// case a no-op archiver and a disabled recorder are used respectively.
func New(archiver archive.Archiver, recorder *metrics.Recorder) *App {
	if archiver == nil {
		archiver = archive.Noop{}
	}
	if recorder == nil {
		recorder = metrics.NewDisabled()
	}
	return &App{
		rooms:    make(map[string]*room.Room),
		archiver: archiver,
		metrics:  recorder,
	}
}

// GetRoom returns the named room, read-locked. Used by the join handshake
// to probe a room's password requirement without taking the write lock.
func (a *App) GetRoom(name string) (*room.Room, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	r, ok := a.rooms[name]
	return r, ok
}

// GetOrInsertRoom returns the named room, creating it with the given
// config if this is the first join. Per spec.md §4.1, the password from
// the first admitting client is adopted; later callers' config is
// ignored once the room exists.
func (a *App) GetOrInsertRoom(name string, config room.Config) *room.Room {
	a.mu.Lock()
	defer a.mu.Unlock()
	r, ok := a.rooms[name]
	if !ok {
		r = room.New(name, config)
		a.rooms[name] = r
		a.metrics.RoomCreated()
	}
	return r
}

// NewJoiner describes a not-yet-admitted connection: everything the join
// handshake (internal/join) has already validated, plus the Outbox the
// transport layer has wired up for it.
type NewJoiner struct {
	Username string
	Color    canvas.Color
	Canvas   *uint16
	Outbox   room.Outbox
}

// AdmitUser looks up or creates roomName, computes the joiner's canvas and
// access level per room.AdmissionDefaults, and admits them — all under a
// single write-lock acquisition, mirroring original_source's
// handle_connection doing the same under one `app.write()` guard. config
// is only consulted on room creation; it's ignored for an existing room.
func (a *App) AdmitUser(addr room.Addr, roomName string, config room.Config, joiner NewJoiner) room.User {
	a.mu.Lock()
	defer a.mu.Unlock()

	r, ok := a.rooms[roomName]
	if !ok {
		r = room.New(roomName, config)
		a.rooms[roomName] = r
		a.metrics.RoomCreated()
	}

	canvasID, level := r.AdmissionDefaults(joiner.Canvas)
	ru := room.RoomUser{
		Addr:        addr,
		UUID:        uuid.New(),
		Username:    joiner.Username,
		Color:       joiner.Color,
		Canvas:      canvasID,
		AccessLevel: level,
		Outbox:      joiner.Outbox,
	}
	r.AddUser(ru)
	a.metrics.UserJoined(roomName)

	return ru.View()
}

// PingAll enqueues a WebSocket ping to every connected user in every room,
// per spec.md §4.5's heartbeat sweep. Read-locked: pinging never mutates
// room state.
func (a *App) PingAll() {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, r := range a.rooms {
		for _, u := range r.Users() {
			u.Outbox.EnqueuePing()
		}
	}
}

// Mutate runs fn against the named room under the write lock, matching
// spec.md §5: "the lock spans each handler from validation through
// computing the AnnounceTo". Returns ok=false if the room doesn't exist.
func (a *App) Mutate(name string, fn func(r *room.Room) room.AnnounceTo) (room.AnnounceTo, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	r, ok := a.rooms[name]
	if !ok {
		return room.AnnounceTo{}, false
	}
	return fn(r), true
}

// DisconnectUser removes addr from the named room, dropping the room and
// archiving it if that was the last user, per spec.md §4.1/§4.2.2.
// Returns whether a user was actually removed.
func (a *App) DisconnectUser(ctx context.Context, roomName string, addr room.Addr) bool {
	a.mu.Lock()

	r, ok := a.rooms[roomName]
	if !ok {
		a.mu.Unlock()
		return false
	}

	removed := r.RemoveUser(addr)
	if removed {
		a.metrics.UserLeft(roomName)
	}
	empty := removed && r.UserCount() == 0
	if empty {
		delete(a.rooms, roomName)
		a.metrics.RoomClosed()
	}
	a.mu.Unlock()

	if empty {
		// Archiving happens outside the lock: spec.md §5 forbids awaiting
		// while the App lock is held, and the room is already unreachable
		// to new commands by the time we get here.
		snapshot := archive.NewSnapshot(r, time.Now())
		if err := a.archiver.SaveRoom(ctx, snapshot); err != nil {
			a.metrics.ArchiveFailure()
		}
	}

	return removed
}
