package room

import (
	"github.com/google/uuid"

	"planner-server/internal/canvas"
)

// ChangeAccessLevel sets target's access level, per spec.md §4.2.3.
// Preconditions (that the requester is Admin) are enforced by the caller
// (internal/commands); this method only knows about the room's own
// invariants. Returns false if target isn't in the room.
func (r *Room) ChangeAccessLevel(target uuid.UUID, level AccessLevel) bool {
	u := r.userByUUID(target)
	if u == nil {
		return false
	}

	u.AccessLevel = level
	if level == View {
		for _, c := range r.canvases {
			c.ClearSelectionsBy(target)
		}
	}
	r.broadcastAll(UserChange{User: u.View()})

	if level == Admin {
		for i := range r.users {
			if r.users[i].AccessLevel == Admin && r.users[i].UUID != target {
				r.users[i].AccessLevel = Edit
				r.broadcastAll(UserChange{User: r.users[i].View()})
				break
			}
		}
	}

	return true
}

// SwitchCanvas moves a user to a different canvas, per spec.md §4.2.4 and
// the Open Question decision in SPEC_FULL.md §9.2: a single critical
// section mutates the user's canvas, clears their selections on the
// *target* canvas (not the one they're leaving — this is the behavior
// specified, not a bug), and snapshots the target canvas's elements,
// all before releasing. Returns the new canvas's elements and the user's
// updated view; ok is false if the user wasn't found.
func (r *Room) SwitchCanvas(addr Addr, canvasID uint16) (elements []canvas.Element, view User, ok bool) {
	u := r.userByAddr(addr)
	if u == nil {
		return nil, User{}, false
	}

	u.Canvas = canvasID
	c := r.GetOrCreateCanvas(canvasID)
	c.ClearSelectionsBy(u.UUID)

	return c.Elements(), u.View(), true
}
