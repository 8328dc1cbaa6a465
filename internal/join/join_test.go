package join

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner-server/internal/room"
)

func values(pairs ...string) url.Values {
	v := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		v.Set(pairs[i], pairs[i+1])
	}
	return v
}

func TestValidateAcceptsWellFormedJoin(t *testing.T) {
	p, err := Validate(values("protocol", "1", "room", "office", "username", "ada"))
	require.Nil(t, err)
	assert.Equal(t, "office", p.RoomName)
	assert.Equal(t, "ada", p.Username)
	assert.NotEmpty(t, p.Color)
}

func TestValidateRejectsProtocolMismatch(t *testing.T) {
	_, err := Validate(values("protocol", "2", "room", "office", "username", "ada"))
	require.NotNil(t, err)
	assert.Equal(t, 4999, err.Code)
}

func TestValidateRejectsMissingRoom(t *testing.T) {
	_, err := Validate(values("protocol", "1", "username", "ada"))
	require.NotNil(t, err)
	assert.Equal(t, 4000, err.Code)
}

func TestValidateRejectsRoomLength(t *testing.T) {
	_, err := Validate(values("protocol", "1", "room", "ab", "username", "ada"))
	require.NotNil(t, err)
	assert.Equal(t, 4002, err.Code)
}

func TestValidateRejectsBadColor(t *testing.T) {
	_, err := Validate(values("protocol", "1", "room", "office", "username", "ada", "color", "not-a-color"))
	require.NotNil(t, err)
	assert.Equal(t, 4021, err.Code)
}

func TestValidateDefaultsCanvasToNilWhenUnset(t *testing.T) {
	p, err := Validate(values("protocol", "1", "room", "office", "username", "ada"))
	require.Nil(t, err)
	assert.Nil(t, p.Canvas)
}

func TestCheckPasswordRequiresOneWhenConfigured(t *testing.T) {
	pw := "secret"
	cfg := room.Config{Password: &pw}

	err := CheckPassword(cfg, true, nil)
	require.NotNil(t, err)
	assert.Equal(t, 4030, err.Code)

	wrong := "nope"
	err = CheckPassword(cfg, true, &wrong)
	require.NotNil(t, err)
	assert.Equal(t, 4033, err.Code)

	err = CheckPassword(cfg, true, &pw)
	assert.Nil(t, err)
}

func TestCheckPasswordSkippedForNewRoom(t *testing.T) {
	err := CheckPassword(room.Config{}, false, nil)
	assert.Nil(t, err)
}

func TestErrorReasonStaysUnderCloseFrameLimit(t *testing.T) {
	err := errRoomInvalidLength(64)
	assert.LessOrEqual(t, len(err.Reason()), 123)
}
