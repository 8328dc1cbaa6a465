package commands

import (
	"encoding/json"

	"github.com/google/uuid"

	"planner-server/internal/app"
	"planner-server/internal/canvas"
	"planner-server/internal/room"
)

// errorCode is the snake_case taxonomy from spec.md §7, surfaced on the
// wire as {id, error:{code}} when the inbound envelope carried an id.
type errorCode string

const (
	codeNoPermission     errorCode = "no_permission"
	codeRoomDoesNotExist errorCode = "room_does_not_exist"
	codeUserDoesNotExist errorCode = "user_does_not_exist"
)

// mapRoomErr translates a Room-level error into its wire taxonomy code,
// per spec.md §7's post-admission command codes.
func mapRoomErr(err error) errorCode {
	switch err.(type) {
	case room.ErrNoPermission:
		return codeNoPermission
	case room.ErrUserDoesNotExist:
		return codeUserDoesNotExist
	default:
		return codeUserDoesNotExist
	}
}

// errorEnvelope is the {id, error:{code}} wire shape. It doesn't implement
// room.Event: errors are never fanned out through AnnounceTo, only handed
// straight to the originator's Outbox by Dispatch below.
type errorEnvelope struct {
	ID    *uuid.UUID `json:"id,omitempty"`
	Error struct {
		Code errorCode `json:"code"`
	} `json:"error"`
}

func marshalError(id *uuid.UUID, code errorCode) []byte {
	e := errorEnvelope{ID: id}
	e.Error.Code = code
	b, _ := json.Marshal(e)
	return b
}

// accessLevelAdjustmentPayload is the body of a "type":"access_level_adjustment"
// command: { "user": uuid, "access_level": "view"|"edit"|"admin" }.
type accessLevelAdjustmentPayload struct {
	User        uuid.UUID        `json:"user"`
	AccessLevel room.AccessLevel `json:"access_level"`
}

// selectionPayload is the body of a "type":"selection" command.
type selectionPayload struct {
	Elements []uuid.UUID `json:"elements"`
}

// canvasPayload is the body of a "type":"canvas" command: switch the
// sender's current canvas.
type canvasPayload struct {
	Canvas uint16 `json:"canvas"`
}

// elementsPayload is the body of a "type":"elements" command.
type elementsPayload struct {
	Elements        []canvas.Element `json:"elements"`
	DeletedElements []uuid.UUID      `json:"deleted_elements"`
}

// Dispatch decodes env's per-tag payload and runs the matching handler
// against roomName under a.Mutate, then realizes the resulting AnnounceTo
// (or error envelope) against the room. sender is the connection identity
// of whoever sent the frame.
//
// Dispatch only reports whether it recognized the tag, leaving frame-level
// logging to internal/transport, which logs unknown tags and otherwise
// ignores them. A recognized tag whose payload fails to decode is dropped
// and still reported as recognized, so the caller does not log it.
func Dispatch(a *app.App, roomName string, sender room.Addr, env Envelope) (recognized bool) {
	switch env.Type {
	case TypeAccessLevelAdjustment:
		var payload accessLevelAdjustmentPayload
		if err := json.Unmarshal(env.Raw, &payload); err != nil {
			return true
		}
		dispatchMutation(a, roomName, sender, env.ID, func(r *room.Room) room.AnnounceTo {
			return handleAccessLevelAdjustment(r, sender, payload)
		})
		return true

	case TypeSelection:
		var payload selectionPayload
		if err := json.Unmarshal(env.Raw, &payload); err != nil {
			return true
		}
		dispatchMutation(a, roomName, sender, env.ID, func(r *room.Room) room.AnnounceTo {
			return handleSelection(r, sender, payload)
		})
		return true

	case TypeCanvas:
		var payload canvasPayload
		if err := json.Unmarshal(env.Raw, &payload); err != nil {
			return true
		}
		dispatchMutation(a, roomName, sender, env.ID, func(r *room.Room) room.AnnounceTo {
			return handleCanvas(r, sender, payload)
		})
		return true

	case TypeElements:
		var payload elementsPayload
		if err := json.Unmarshal(env.Raw, &payload); err != nil {
			return true
		}
		dispatchMutation(a, roomName, sender, env.ID, func(r *room.Room) room.AnnounceTo {
			return handleElements(r, sender, payload)
		})
		return true

	default:
		return false
	}
}

// dispatchMutation runs fn under the App's write lock and realizes its
// result against the room — either a normal fan-out, or, if the room
// vanished between the read that routed this frame here and the lock
// being acquired, a room_does_not_exist error straight to the sender.
func dispatchMutation(a *app.App, roomName string, sender room.Addr, id *uuid.UUID, fn func(r *room.Room) room.AnnounceTo) {
	// fn runs and Dispatch fans out its result inside the same Mutate call,
	// so the sender-response and peer-broadcast are enqueued atomically
	// under the write lock, per spec.md §5.
	announce, ok := a.Mutate(roomName, func(r *room.Room) room.AnnounceTo {
		result := fn(r)
		if _, isErr := result.ErrorCode(); !isErr {
			r.Dispatch(sender, id, result)
		}
		return result
	})
	if !ok {
		respondError(a, roomName, sender, id, codeRoomDoesNotExist)
		return
	}
	if code, isErr := announce.ErrorCode(); isErr {
		respondError(a, roomName, sender, id, errorCode(code))
	}
}

// respondError delivers {id, error:{code}} straight to sender, dropping it
// silently if id is nil, per spec.md §4.2.7's Err(errorKind) rule. It best-
// effort looks the room back up (it may already be gone) purely to find
// the sender's Outbox; if that fails too, the error has nowhere to go.
func respondError(a *app.App, roomName string, sender room.Addr, id *uuid.UUID, code errorCode) {
	if id == nil {
		return
	}
	r, ok := a.GetRoom(roomName)
	if !ok {
		return
	}
	u, ok := r.GetUserByAddr(sender)
	if !ok {
		return
	}
	u.Outbox.Enqueue(marshalError(id, code))
}

func handleAccessLevelAdjustment(r *room.Room, sender room.Addr, p accessLevelAdjustmentPayload) room.AnnounceTo {
	requester, ok := r.GetUserByAddr(sender)
	if !ok {
		// Mirrors original_source's commands/user.rs: a sender not found in
		// its own room is treated the same as the room being gone.
		return room.AnnounceError(string(codeRoomDoesNotExist))
	}
	if requester.AccessLevel != room.Admin {
		return room.AnnounceError(string(codeNoPermission))
	}
	if !r.ChangeAccessLevel(p.User, p.AccessLevel) {
		return room.AnnounceError(string(codeUserDoesNotExist))
	}
	return room.NoAnnounce()
}

func handleSelection(r *room.Room, sender room.Addr, p selectionPayload) room.AnnounceTo {
	result, err := r.ApplySelection(sender, p.Elements)
	if err != nil {
		return room.AnnounceError(string(mapRoomErr(err)))
	}
	u, ok := r.GetUserByAddr(sender)
	if !ok {
		return room.NoAnnounce()
	}
	return room.RespondAndAnnounceToCanvas(
		room.SelectionResponse{
			UserUUID:        u.UUID,
			NewlySelected:   result.NewlySelected,
			NewlyDeselected: result.NewlyDeselected,
			FailedToSelect:  result.FailedToSelect,
		},
		room.Selection{
			UserUUID:        u.UUID,
			NewlySelected:   result.NewlySelected,
			NewlyDeselected: result.NewlyDeselected,
		},
		result.CanvasID,
	)
}

func handleCanvas(r *room.Room, sender room.Addr, p canvasPayload) room.AnnounceTo {
	elements, view, ok := r.SwitchCanvas(sender, p.Canvas)
	if !ok {
		return room.NoAnnounce()
	}
	return room.RespondAndAnnounce(
		room.CanvasResponse{Canvas: p.Canvas, Elements: elements},
		room.UserChange{User: view},
	)
}

func handleElements(r *room.Room, sender room.Addr, p elementsPayload) room.AnnounceTo {
	result, err := r.ApplyElements(sender, p.Elements, p.DeletedElements)
	if err != nil {
		return room.AnnounceError(string(mapRoomErr(err)))
	}

	senderAck := room.ElementsChanged{
		Elements:        result.SenderElements,
		DeletedElements: result.SenderDeletedElements,
	}
	if !result.Mutated() {
		return room.RespondOnly(senderAck)
	}
	return room.RespondAndAnnounceToCanvas(
		senderAck,
		room.ElementsChanged{Elements: result.Elements, DeletedElements: result.DeletedElements},
		result.CanvasID,
	)
}
