package archive

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner-server/internal/room"
)

func TestNoopSaveRoomNeverFails(t *testing.T) {
	var a Noop
	err := a.SaveRoom(context.Background(), RoomSnapshot{Name: "R"})
	assert.NoError(t, err)
}

func TestNewSnapshotProjectsUsersAndCanvases(t *testing.T) {
	r := room.New("office", room.Config{})
	u := room.RoomUser{
		Addr:        "a",
		UUID:        uuid.New(),
		Username:    "ada",
		Color:       "#000000ff",
		Canvas:      0,
		AccessLevel: room.Admin,
		Outbox:      discardOutbox{},
	}
	r.AddUser(u)

	closedAt := time.Unix(0, 0).UTC()
	snap := NewSnapshot(r, closedAt)

	require.Len(t, snap.Users, 1)
	assert.Equal(t, "ada", snap.Users[0].Username)
	assert.Equal(t, "admin", snap.Users[0].AccessLevel)
	assert.Equal(t, "office", snap.Name)
	assert.Equal(t, closedAt, snap.ClosedAt)
	assert.Contains(t, snap.Canvases, uint16(0))
}

type discardOutbox struct{}

func (discardOutbox) Enqueue([]byte) {}
func (discardOutbox) EnqueuePing()   {}
func (discardOutbox) Close()         {}
