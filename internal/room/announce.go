package room

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Event is anything that can be serialized as the payload of an outbound
// envelope; the command layer supplies the concrete Type/fields per
// spec.md §4.3.
type Event interface {
	// EventType is the wire "type" tag, e.g. "join", "on_join".
	EventType() string
}

// AnnounceTo is the fan-out instruction a Room mutation returns to its
// caller: who gets told what. The command dispatcher realizes it into
// actual Outbox.Enqueue calls, serializing any multi-recipient event
// exactly once per spec.md §4.2.7 / §9 ("Fan-out vs serialization cost").
type AnnounceTo struct {
	kind Kind

	respond  Event
	announce Event

	// canvas, when kind is KindResponseAndAnnounceToCanvas, restricts the announce
	// audience to users currently viewing this canvas.
	canvas    uint16
	hasCanvas bool

	// errorCode carries the Err(errorKind) shape from spec.md §4.2.7: a
	// command handler failed after the App lock was already taken, and the
	// caller (internal/commands) should deliver {id, error:{code}} to the
	// originator instead of calling Dispatch.
	errorCode string
}

// Kind discriminates the shape of an AnnounceTo.
type Kind int

const (
	KindNone Kind = iota
	KindAll
	KindRespond
	KindResponseAndAnnounce
	KindResponseAndAnnounceToCanvas
	KindError
)

// AnnounceError produces the Err(errorKind) instruction: no fan-out, just
// a signal for the dispatcher to deliver an error to the originator.
func AnnounceError(code string) AnnounceTo { return AnnounceTo{kind: KindError, errorCode: code} }

// ErrorCode reports the carried error code, if this instruction is the
// Err(errorKind) shape.
func (a AnnounceTo) ErrorCode() (string, bool) {
	if a.kind == KindError {
		return a.errorCode, true
	}
	return "", false
}

// NoAnnounce produces a no-op instruction.
func NoAnnounce() AnnounceTo { return AnnounceTo{kind: KindNone} }

// AnnounceAll broadcasts event to every user in the room.
func AnnounceAll(event Event) AnnounceTo {
	return AnnounceTo{kind: KindAll, announce: event}
}

// RespondOnly sends event only to the originator.
func RespondOnly(event Event) AnnounceTo {
	return AnnounceTo{kind: KindRespond, respond: event}
}

// RespondAndAnnounce sends respond to the originator and announce to
// everyone else in the room.
func RespondAndAnnounce(respond, announce Event) AnnounceTo {
	return AnnounceTo{kind: KindResponseAndAnnounce, respond: respond, announce: announce}
}

// RespondAndAnnounceToCanvas sends respond to the originator and announce
// to every other user currently viewing the given canvas.
func RespondAndAnnounceToCanvas(respond, announce Event, canvasID uint16) AnnounceTo {
	return AnnounceTo{
		kind:      KindResponseAndAnnounceToCanvas,
		respond:   respond,
		announce:  announce,
		canvas:    canvasID,
		hasCanvas: true,
	}
}

// envelope is the outbound wire shape: {"id"?: uuid, "type": ..., ...fields}.
type envelope struct {
	ID *uuid.UUID `json:"id,omitempty"`
}

// marshalEnvelope serializes an event into its outbound envelope, flattening the
// event's own fields alongside "type" (and "id" when present).
func marshalEnvelope(id *uuid.UUID, event Event) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	typeTag, _ := json.Marshal(event.EventType())
	fields["type"] = typeTag
	if id != nil {
		idJSON, _ := json.Marshal(id)
		fields["id"] = idJSON
	}
	return json.Marshal(fields)
}

// Dispatch realizes the AnnounceTo instruction against the room's current
// user list, serializing each distinct event exactly once. originator is
// the addr of the user who sent the command that produced this
// instruction; respondID is the inbound envelope's "id" field, echoed back
// only on the respond half of the instruction — announce-shaped frames
// never carry an id, matching spec.md §4.3's "id?" and the id-echo
// decision in DESIGN.md's Open Question decisions.
func (r *Room) Dispatch(originator Addr, respondID *uuid.UUID, a AnnounceTo) {
	switch a.kind {
	case KindNone, KindError:
		return
	case KindAll:
		msg, err := marshalEnvelope(nil, a.announce)
		if err != nil {
			return
		}
		for i := range r.users {
			r.users[i].Outbox.Enqueue(msg)
		}
	case KindRespond:
		msg, err := marshalEnvelope(respondID, a.respond)
		if err != nil {
			return
		}
		if u := r.userByAddr(originator); u != nil {
			u.Outbox.Enqueue(msg)
		}
	case KindResponseAndAnnounce:
		respondMsg, err := marshalEnvelope(respondID, a.respond)
		if err != nil {
			return
		}
		announceMsg, err := marshalEnvelope(nil, a.announce)
		if err != nil {
			return
		}
		for i := range r.users {
			if r.users[i].Addr == originator {
				r.users[i].Outbox.Enqueue(respondMsg)
			} else {
				r.users[i].Outbox.Enqueue(announceMsg)
			}
		}
	case KindResponseAndAnnounceToCanvas:
		respondMsg, err := marshalEnvelope(respondID, a.respond)
		if err != nil {
			return
		}
		announceMsg, err := marshalEnvelope(nil, a.announce)
		if err != nil {
			return
		}
		for i := range r.users {
			u := &r.users[i]
			if u.Addr == originator {
				u.Outbox.Enqueue(respondMsg)
			} else if u.Canvas == a.canvas {
				u.Outbox.Enqueue(announceMsg)
			}
		}
	}
}
