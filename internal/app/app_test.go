package app

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"planner-server/internal/archive"
	"planner-server/internal/room"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeOutbox struct{}

func (fakeOutbox) Enqueue([]byte) {}
func (fakeOutbox) EnqueuePing()   {}
func (fakeOutbox) Close()         {}

// countingArchiver records how many times SaveRoom was called, standing in
// for a real Archiver in tests that only care about the call count.
type countingArchiver struct {
	mu    sync.Mutex
	calls int
}

func (a *countingArchiver) SaveRoom(context.Context, archive.RoomSnapshot) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	return nil
}

func TestAdmitUserCreatesRoomOnFirstJoin(t *testing.T) {
	a := New(nil, nil)
	view := a.AdmitUser("addr-1", "R", room.Config{}, NewJoiner{Username: "ada", Color: "#000000ff", Outbox: fakeOutbox{}})

	assert.Equal(t, room.Admin, view.AccessLevel)

	r, ok := a.GetRoom("R")
	require.True(t, ok)
	assert.Equal(t, 1, r.UserCount())
}

func TestMutateReportsMissingRoom(t *testing.T) {
	a := New(nil, nil)
	_, ok := a.Mutate("ghost", func(r *room.Room) room.AnnounceTo { return room.NoAnnounce() })
	assert.False(t, ok)
}

func TestDisconnectUserArchivesOnlyOnLastLeave(t *testing.T) {
	arch := &countingArchiver{}
	a := New(arch, nil)

	a.AdmitUser("addr-1", "R", room.Config{}, NewJoiner{Username: "ada", Color: "#000000ff", Outbox: fakeOutbox{}})
	a.AdmitUser("addr-2", "R", room.Config{}, NewJoiner{Username: "bea", Color: "#000000ff", Outbox: fakeOutbox{}})

	removed := a.DisconnectUser(context.Background(), "R", "addr-1")
	assert.True(t, removed)
	assert.Equal(t, 0, arch.calls)
	_, ok := a.GetRoom("R")
	assert.True(t, ok)

	removed = a.DisconnectUser(context.Background(), "R", "addr-2")
	assert.True(t, removed)
	assert.Equal(t, 1, arch.calls)
	_, ok = a.GetRoom("R")
	assert.False(t, ok)
}

func TestDisconnectUserUnknownAddrIsNoop(t *testing.T) {
	a := New(nil, nil)
	a.AdmitUser("addr-1", "R", room.Config{}, NewJoiner{Username: "ada", Color: "#000000ff", Outbox: fakeOutbox{}})

	assert.False(t, a.DisconnectUser(context.Background(), "R", "nonexistent"))
	assert.False(t, a.DisconnectUser(context.Background(), "ghost-room", "addr-1"))
}
