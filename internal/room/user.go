package room

import (
	"github.com/google/uuid"

	"planner-server/internal/canvas"
)

// Addr identifies a connection uniquely within a room. It has no meaning
// beyond equality — the transport layer decides what it is (e.g. the
// underlying TCP remote address plus a per-upgrade nonce).
type Addr string

// Outbox is a user's outbound delivery queue, as seen by the room. The
// transport layer supplies the concrete implementation (an unbounded or
// capped channel backing a per-connection writer goroutine); Room only
// ever enqueues onto it, never blocks on a socket write.
type Outbox interface {
	// Enqueue queues a text frame for delivery. It must never block past
	// the room's own concurrency budget (see internal/transport) and must
	// be safe to call while the App lock is held.
	Enqueue(msg []byte)
	// EnqueuePing queues a protocol-level ping frame.
	EnqueuePing()
	// Close signals the connection's both halves to terminate. Closing an
	// already-closed Outbox must not panic.
	Close()
}

// User is the externally-visible projection of a RoomUser, the shape sent
// on the wire wherever a roster or join/user_change event mentions a user.
type User struct {
	UUID        uuid.UUID    `json:"uuid"`
	Username    string       `json:"username"`
	Color       canvas.Color `json:"color"`
	Canvas      uint16       `json:"canvas"`
	AccessLevel AccessLevel  `json:"access_level"`
}

// RoomUser is the authoritative server-side record of a connected user.
type RoomUser struct {
	Addr        Addr
	UUID        uuid.UUID
	Username    string
	Color       canvas.Color
	Canvas      uint16
	AccessLevel AccessLevel
	Outbox      Outbox
}

// View projects the wire-visible User out of a RoomUser.
func (u RoomUser) View() User {
	return User{
		UUID:        u.UUID,
		Username:    u.Username,
		Color:       u.Color,
		Canvas:      u.Canvas,
		AccessLevel: u.AccessLevel,
	}
}

// Config holds the per-room settings fixed at room creation.
type Config struct {
	// Password, if set, must be presented by every subsequent joiner.
	Password *string
	// NewUsersDefaultEditor controls the access level a non-admin joiner
	// is admitted at: Edit if true, View (the default) otherwise.
	NewUsersDefaultEditor bool
}

// DefaultAccessLevel is the level a non-admin joiner is admitted at.
func (c Config) DefaultAccessLevel() AccessLevel {
	if c.NewUsersDefaultEditor {
		return Edit
	}
	return View
}

// RequiresPassword reports whether joiners must present a password.
func (c Config) RequiresPassword() bool {
	return c.Password != nil
}

// PasswordCorrect compares a guessed password against the room's, treating
// "no password set" and "empty guess" consistently with spec.md: an
// unprotected room accepts any (or no) password.
func (c Config) PasswordCorrect(guess *string) bool {
	if c.Password == nil {
		return true
	}
	return guess != nil && *guess == *c.Password
}
