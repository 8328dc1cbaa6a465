package commands

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner-server/internal/app"
	"planner-server/internal/canvas"
	"planner-server/internal/room"
)

type fakeOutbox struct {
	frames []map[string]any
}

func (f *fakeOutbox) Enqueue(msg []byte) {
	var decoded map[string]any
	if err := json.Unmarshal(msg, &decoded); err == nil {
		f.frames = append(f.frames, decoded)
	}
}
func (f *fakeOutbox) EnqueuePing() {}
func (f *fakeOutbox) Close()       {}

// newTestApp seeds a room with one Admin (a) and one View user (b) on
// canvas 0, returning the App and each user's outbox for assertions.
func newTestApp(t *testing.T) (a *app.App, aUUID, bUUID uuid.UUID, aOut, bOut *fakeOutbox) {
	t.Helper()
	a = app.New(nil, nil)
	aOut, bOut = &fakeOutbox{}, &fakeOutbox{}

	aView := a.AdmitUser("a", "R", room.Config{}, app.NewJoiner{Username: "a", Color: "#000000ff", Outbox: aOut})
	bView := a.AdmitUser("b", "R", room.Config{}, app.NewJoiner{Username: "b", Color: "#000000ff", Outbox: bOut})
	return a, aView.UUID, bView.UUID, aOut, bOut
}

func parseAndDispatch(t *testing.T, a *app.App, sender room.Addr, raw string) bool {
	t.Helper()
	env, err := Parse([]byte(raw))
	require.NoError(t, err)
	return Dispatch(a, "R", sender, env)
}

func TestDispatchSelectionDeniedForViewer(t *testing.T) {
	a, _, _, _, bOut := newTestApp(t)
	id := uuid.New().String()

	recognized := parseAndDispatch(t, a, "b", `{"id":"`+id+`","type":"selection","elements":[]}`)
	require.True(t, recognized)

	require.NotEmpty(t, bOut.frames)
	last := bOut.frames[len(bOut.frames)-1]
	assert.Equal(t, id, last["id"])
	errObj, _ := last["error"].(map[string]any)
	require.NotNil(t, errObj)
	assert.Equal(t, "no_permission", errObj["code"])
}

func TestDispatchAccessLevelAdjustmentPromotesAndDemotes(t *testing.T) {
	a, aUUID, bUUID, aOut, bOut := newTestApp(t)
	aOut.frames, bOut.frames = nil, nil

	recognized := parseAndDispatch(t, a, "a", `{"type":"access_level_adjustment","user":"`+bUUID.String()+`","access_level":"admin"}`)
	require.True(t, recognized)

	require.NotEmpty(t, bOut.frames)
	assert.Equal(t, "user_change", bOut.frames[len(bOut.frames)-1]["type"])

	require.NotEmpty(t, aOut.frames)
	assert.Equal(t, "user_change", aOut.frames[len(aOut.frames)-1]["type"])

	r, ok := a.GetRoom("R")
	require.True(t, ok)
	bUser, _ := r.GetUserByUUID(bUUID)
	aUser, _ := r.GetUserByUUID(aUUID)
	assert.Equal(t, room.Admin, bUser.AccessLevel)
	assert.Equal(t, room.Edit, aUser.AccessLevel)
}

func TestDispatchAccessLevelAdjustmentDeniedForNonAdmin(t *testing.T) {
	a, aUUID, _, _, bOut := newTestApp(t)
	bOut.frames = nil
	id := uuid.New().String()

	recognized := parseAndDispatch(t, a, "b", `{"id":"`+id+`","type":"access_level_adjustment","user":"`+aUUID.String()+`","access_level":"view"}`)
	require.True(t, recognized)

	require.NotEmpty(t, bOut.frames)
	last := bOut.frames[len(bOut.frames)-1]
	assert.Equal(t, id, last["id"])
	errObj, _ := last["error"].(map[string]any)
	require.NotNil(t, errObj)
	assert.Equal(t, "no_permission", errObj["code"])

	r, ok := a.GetRoom("R")
	require.True(t, ok)
	aUser, _ := r.GetUserByUUID(aUUID)
	assert.Equal(t, room.Admin, aUser.AccessLevel)
}

func TestDispatchAccessLevelAdjustmentUnknownTargetReportsError(t *testing.T) {
	a, _, _, aOut, _ := newTestApp(t)
	aOut.frames = nil
	id := uuid.New().String()

	recognized := parseAndDispatch(t, a, "a", `{"id":"`+id+`","type":"access_level_adjustment","user":"`+uuid.New().String()+`","access_level":"edit"}`)
	require.True(t, recognized)

	require.NotEmpty(t, aOut.frames)
	last := aOut.frames[len(aOut.frames)-1]
	assert.Equal(t, id, last["id"])
	errObj, _ := last["error"].(map[string]any)
	require.NotNil(t, errObj)
	assert.Equal(t, "user_does_not_exist", errObj["code"])
}

func TestDispatchUnknownTagIsIgnored(t *testing.T) {
	a, _, _, _, _ := newTestApp(t)
	recognized := parseAndDispatch(t, a, "a", `{"type":"not_a_real_tag"}`)
	assert.False(t, recognized)
}

func TestDispatchElementsInsertedByEditor(t *testing.T) {
	a, aUUID, _, aOut, _ := newTestApp(t)
	aOut.frames = nil

	el := canvas.Element{
		UUID: uuid.New(),
		Kind: canvas.KindText,
		Text: &canvas.Text{Content: "hi"},
	}
	raw, err := json.Marshal(struct {
		Type     string           `json:"type"`
		Elements []canvas.Element `json:"elements"`
	}{Type: TypeElements, Elements: []canvas.Element{el}})
	require.NoError(t, err)

	recognized := parseAndDispatch(t, a, "a", string(raw))
	require.True(t, recognized)

	r, ok := a.GetRoom("R")
	require.True(t, ok)
	c, _ := r.GetCanvas(0)
	stored, ok := c.Get(el.UUID)
	require.True(t, ok)
	assert.Equal(t, aUUID, stored.LastEditedBy)
}

func TestDispatchRoomDoesNotExistDoesNotPanic(t *testing.T) {
	a := app.New(nil, nil)
	env, err := Parse([]byte(`{"id":"` + uuid.New().String() + `","type":"selection","elements":[]}`))
	require.NoError(t, err)

	recognized := Dispatch(a, "ghost-room", "x", env)
	assert.True(t, recognized)
}
