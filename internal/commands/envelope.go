// Package commands implements the inbound command envelope, its
// per-command handlers, and the dispatcher that ties them to a Room under
// the App's write lock, per spec.md §4.3.
package commands

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Inbound tags, matching spec.md §4.3 exactly.
const (
	TypeAccessLevelAdjustment = "access_level_adjustment"
	TypeSelection             = "selection"
	TypeCanvas                = "canvas"
	TypeElements              = "elements"
)

// Envelope is the inbound {"id"?, "type", ...fields} frame. Fields are
// decoded lazily per-tag by Dispatch, matching serde's internally-tagged enum
// behavior (the tag is read first, then the rest re-decoded against the
// concrete payload type).
type Envelope struct {
	ID   *uuid.UUID      `json:"id"`
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// Parse decodes a raw inbound text frame into an Envelope plus its
// still-raw body, so the caller can decode the per-tag payload next.
// Malformed JSON is reported as an error; the caller (internal/transport)
// logs and drops it, matching spec.md's "logged and ignored".
func Parse(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, err
	}
	env.Raw = data
	return env, nil
}
