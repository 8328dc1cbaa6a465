package room

import (
	"github.com/google/uuid"

	"planner-server/internal/canvas"
)

// Room is a named multi-user session: its users, its canvases, and its
// config. A Room is created on first join to its name and destroyed when
// the last user leaves — see internal/app for that lifecycle. Room itself
// assumes the caller (internal/app, under the App's write lock) already
// serializes all mutation; Room holds no lock of its own, mirroring
// spec.md §5 ("the lock spans each handler from validation through
// computing the AnnounceTo").
type Room struct {
	Name string

	users    []RoomUser
	canvases map[uint16]*canvas.Canvas
	config   Config
}

// New creates a room with canvas 0 pre-seeded with the default "Hello,
// world" welcome element (spec.md §8 S1/S6); every other canvas is
// created lazily via GetOrCreateCanvas, matching original_source's
// HashMap::entry pattern.
func New(name string, config Config) *Room {
	r := &Room{
		Name:     name,
		canvases: make(map[uint16]*canvas.Canvas),
		config:   config,
	}
	seed := canvas.NewCanvas()
	seed.Upsert(canvas.WelcomeText(uuid.Nil))
	r.canvases[0] = seed
	return r
}

// Config returns the room's fixed configuration.
func (r *Room) Config() Config { return r.config }

// UserCount reports how many users currently occupy the room.
func (r *Room) UserCount() int { return len(r.users) }

// Admin returns the room's current admin, if any.
func (r *Room) Admin() *RoomUser {
	for i := range r.users {
		if r.users[i].AccessLevel == Admin {
			return &r.users[i]
		}
	}
	return nil
}

// Users returns a snapshot of the current roster, in join order.
func (r *Room) Users() []RoomUser {
	out := make([]RoomUser, len(r.users))
	copy(out, r.users)
	return out
}

// GetOrCreateCanvas returns the canvas with the given id, creating an empty
// one on first reference.
func (r *Room) GetOrCreateCanvas(id uint16) *canvas.Canvas {
	c, ok := r.canvases[id]
	if !ok {
		c = canvas.NewCanvas()
		r.canvases[id] = c
	}
	return c
}

// GetCanvas returns the canvas with the given id, if it has been created.
func (r *Room) GetCanvas(id uint16) (*canvas.Canvas, bool) {
	c, ok := r.canvases[id]
	return c, ok
}

// AllCanvases returns every canvas's current elements, keyed by canvas id.
// Used when archiving a room at destruction time.
func (r *Room) AllCanvases() map[uint16][]canvas.Element {
	out := make(map[uint16][]canvas.Element, len(r.canvases))
	for id, c := range r.canvases {
		out[id] = c.Elements()
	}
	return out
}

func (r *Room) userByAddr(addr Addr) *RoomUser {
	for i := range r.users {
		if r.users[i].Addr == addr {
			return &r.users[i]
		}
	}
	return nil
}

// GetUserByAddr looks up a connected user by connection identity.
func (r *Room) GetUserByAddr(addr Addr) (*RoomUser, bool) {
	u := r.userByAddr(addr)
	if u == nil {
		return nil, false
	}
	return u, true
}

func (r *Room) userByUUID(id uuid.UUID) *RoomUser {
	for i := range r.users {
		if r.users[i].UUID == id {
			return &r.users[i]
		}
	}
	return nil
}

// GetUserByUUID looks up a connected user by their stable identity.
func (r *Room) GetUserByUUID(id uuid.UUID) (*RoomUser, bool) {
	u := r.userByUUID(id)
	if u == nil {
		return nil, false
	}
	return u, true
}
