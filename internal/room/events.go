package room

import (
	"github.com/google/uuid"

	"planner-server/internal/canvas"
)

// JoinAnnounce is broadcast to everyone already in the room when a new
// user is admitted.
type JoinAnnounce struct {
	User User `json:"user"`
}

func (JoinAnnounce) EventType() string { return "join" }

// OnJoin is sent only to the user who just joined.
type OnJoin struct {
	User     User             `json:"user"`
	Users    []User           `json:"users"`
	Elements []canvas.Element `json:"elements"`
}

func (OnJoin) EventType() string { return "on_join" }

// Disconnect is broadcast when a user leaves the room.
type Disconnect struct {
	User uuid.UUID `json:"user"`
}

func (Disconnect) EventType() string { return "disconnect" }

// UserChange is broadcast whenever a user's durable attributes change
// (currently: access level, canvas).
type UserChange struct {
	User User `json:"user"`
}

func (UserChange) EventType() string { return "user_change" }

// SelectionResponse answers the user who sent a selection command.
type SelectionResponse struct {
	UserUUID        uuid.UUID   `json:"user_uuid"`
	NewlySelected   []uuid.UUID `json:"newly_selected"`
	NewlyDeselected []uuid.UUID `json:"newly_deselected"`
	FailedToSelect  []uuid.UUID `json:"failed_to_select"`
}

func (SelectionResponse) EventType() string { return "selection_response" }

// Selection is broadcast to the rest of the sender's canvas.
type Selection struct {
	UserUUID        uuid.UUID   `json:"user_uuid"`
	NewlySelected   []uuid.UUID `json:"newly_selected"`
	NewlyDeselected []uuid.UUID `json:"newly_deselected"`
}

func (Selection) EventType() string { return "selection" }

// CanvasResponse answers a canvas-switch command with the new canvas's
// current elements.
type CanvasResponse struct {
	Canvas   uint16           `json:"canvas"`
	Elements []canvas.Element `json:"elements"`
}

func (CanvasResponse) EventType() string { return "canvas_response" }

// ElementsChanged carries both the ack to the sender and the broadcast to
// the rest of the canvas, with different contents depending on recipient
// (see Room.ApplyElements).
type ElementsChanged struct {
	Elements        []canvas.Element `json:"elements"`
	DeletedElements []uuid.UUID      `json:"deleted_elements"`
}

func (ElementsChanged) EventType() string { return "elements_changed" }
