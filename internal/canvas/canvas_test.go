package canvas

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanvasUpsertInsertsThenOverwrites(t *testing.T) {
	c := NewCanvas()
	el := WelcomeText(uuid.New())

	c.Upsert(el)
	require.Len(t, c.Elements(), 1)

	el.Text.Content = "edited"
	c.Upsert(el)

	got, ok := c.Get(el.UUID)
	require.True(t, ok)
	assert.Equal(t, "edited", got.Text.Content)
	assert.Len(t, c.Elements(), 1)
}

func TestCanvasDeletePreservesRemainingIndex(t *testing.T) {
	c := NewCanvas()
	a, b, d := WelcomeText(uuid.New()), WelcomeText(uuid.New()), WelcomeText(uuid.New())
	c.Upsert(a)
	c.Upsert(b)
	c.Upsert(d)

	assert.True(t, c.Delete(a.UUID))
	assert.False(t, c.Delete(a.UUID))

	_, ok := c.Get(b.UUID)
	assert.True(t, ok)
	_, ok = c.Get(d.UUID)
	assert.True(t, ok)
	assert.Len(t, c.Elements(), 2)
}

func TestCanvasClearSelectionsByOnlyTouchesOwnedElements(t *testing.T) {
	c := NewCanvas()
	owner := uuid.New()
	other := uuid.New()

	owned := WelcomeText(uuid.New())
	owned.SelectedBy = &owner
	unowned := WelcomeText(uuid.New())
	unowned.SelectedBy = &other

	c.Upsert(owned)
	c.Upsert(unowned)

	cleared := c.ClearSelectionsBy(owner)
	require.Len(t, cleared, 1)
	assert.Equal(t, owned.UUID, cleared[0])

	got, _ := c.Get(unowned.UUID)
	assert.NotNil(t, got.SelectedBy)
}
