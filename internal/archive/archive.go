// Package archive implements the save_to_file seam from spec.md §6: a hook
// invoked once, on room destruction, that implementations may plug a
// writer into. The default is a no-op, matching spec.md's Non-goals ("no
// durable storage").
package archive

import (
	"context"
	"time"

	"github.com/google/uuid"

	"planner-server/internal/canvas"
	"planner-server/internal/room"
)

// UserSnapshot is the archived projection of a RoomUser.
type UserSnapshot struct {
	UUID        uuid.UUID
	Username    string
	AccessLevel string
}

// RoomSnapshot is a read-only projection of a Room at the moment of its
// destruction, handed to Archiver.SaveRoom outside the App lock.
type RoomSnapshot struct {
	Name     string
	ClosedAt time.Time
	Users    []UserSnapshot
	Canvases map[uint16][]canvas.Element
}

// NewSnapshot builds a RoomSnapshot from a room at the point of teardown.
func NewSnapshot(r *room.Room, closedAt time.Time) RoomSnapshot {
	users := r.Users()
	out := make([]UserSnapshot, len(users))
	for i, u := range users {
		out[i] = UserSnapshot{UUID: u.UUID, Username: u.Username, AccessLevel: u.AccessLevel.String()}
	}
	return RoomSnapshot{
		Name:     r.Name,
		ClosedAt: closedAt,
		Users:    out,
		Canvases: r.AllCanvases(),
	}
}

// Archiver is the save_to_file seam. SaveRoom is called once per room,
// after the room has already been removed from the registry and is no
// longer reachable by any command.
type Archiver interface {
	SaveRoom(ctx context.Context, snapshot RoomSnapshot) error
}

// Noop is the default archiver: it matches spec.md's literal "save_to_file
// is a stub" behavior.
type Noop struct{}

// SaveRoom does nothing and never fails.
func (Noop) SaveRoom(context.Context, RoomSnapshot) error { return nil }
