// Package join implements the WebSocket admission handshake: parsing and
// validating the query parameters a client presents when opening a
// connection, per spec.md §4.4 and the close-code table in §6.
package join

import (
	"net/url"
	"strconv"

	"planner-server/internal/canvas"
	"planner-server/internal/room"
)

const (
	protocolVersion = "1"

	minRoomNameLen = 3
	maxRoomNameLen = 32
	minUsernameLen = 1
	maxUsernameLen = 32
)

// Params is a fully validated set of join parameters, ready to be admitted
// to a room once the room's password (if any) has also been checked.
type Params struct {
	RoomName string
	Password *string
	Username string
	Color    canvas.Color
	Canvas   *uint16
}

// Validate parses and validates query against the rules in spec.md §4.4,
// stopping at the first violation in the order the original server checks
// them: protocol, room, username, color. It does not check the room's
// password — that requires a room lookup, which the caller performs
// separately (see CheckPassword) since it's the one admission check that
// needs the App.
func Validate(query url.Values) (Params, *Error) {
	if query.Get("protocol") != protocolVersion {
		return Params{}, errProtocolMismatch()
	}

	roomName := query.Get("room")
	if roomName == "" {
		return Params{}, errRoomMissing()
	}
	if len(roomName) < minRoomNameLen || len(roomName) > maxRoomNameLen {
		return Params{}, errRoomInvalidLength(len(roomName))
	}

	username := query.Get("username")
	if username == "" {
		return Params{}, errUsernameMissing()
	}
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return Params{}, errUsernameInvalidLength(len(username))
	}

	var color canvas.Color
	if raw := query.Get("color"); raw != "" {
		parsed, err := canvas.ParseColor(raw)
		if err != nil {
			return Params{}, errColorInvalid()
		}
		color = parsed
	} else {
		color = canvas.RandomColor()
	}

	var canvasID *uint16
	if raw := query.Get("canvas"); raw != "" {
		if n, err := strconv.ParseUint(raw, 10, 16); err == nil {
			v := uint16(n)
			canvasID = &v
		}
	}

	var password *string
	if raw := query.Get("password"); raw != "" {
		password = &raw
	}

	return Params{
		RoomName: roomName,
		Password: password,
		Username: username,
		Color:    color,
		Canvas:   canvasID,
	}, nil
}

// CheckPassword validates password against an existing room's config, once
// the caller has looked the room up. Pass exists=false for a room that
// doesn't exist yet — a brand-new room has no password to check.
func CheckPassword(cfg room.Config, exists bool, password *string) *Error {
	if !exists || !cfg.RequiresPassword() {
		return nil
	}
	if password == nil {
		return errPasswordRequired()
	}
	if !cfg.PasswordCorrect(password) {
		return errPasswordIncorrect()
	}
	return nil
}
