package canvas

import "github.com/google/uuid"

// Canvas is a numbered layer of elements within a room. Users view exactly
// one canvas at a time; it is created on first reference and destroyed with
// its owning room.
type Canvas struct {
	// elements preserves insertion order on the wire for deterministic
	// test output; draw order is resolved client-side from ZIndex.
	elements []Element
	index    map[uuid.UUID]int
}

// NewCanvas returns an empty canvas.
func NewCanvas() *Canvas {
	return &Canvas{index: make(map[uuid.UUID]int)}
}

// Elements returns a snapshot slice of every element on the canvas, in
// insertion order.
func (c *Canvas) Elements() []Element {
	out := make([]Element, len(c.elements))
	copy(out, c.elements)
	return out
}

// Get returns the element with the given uuid, if present.
func (c *Canvas) Get(id uuid.UUID) (Element, bool) {
	i, ok := c.index[id]
	if !ok {
		return Element{}, false
	}
	return c.elements[i], true
}

// Upsert inserts a new element or overwrites an existing one by uuid.
func (c *Canvas) Upsert(e Element) {
	if i, ok := c.index[e.UUID]; ok {
		c.elements[i] = e
		return
	}
	c.index[e.UUID] = len(c.elements)
	c.elements = append(c.elements, e)
}

// Delete removes an element by uuid. Returns false if it wasn't present.
func (c *Canvas) Delete(id uuid.UUID) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	c.elements = append(c.elements[:i], c.elements[i+1:]...)
	delete(c.index, id)
	for id2, j := range c.index {
		if j > i {
			c.index[id2] = j - 1
		}
	}
	return true
}

// ClearSelectionsBy clears every selection held by user on this canvas.
// Returns the uuids whose selection changed.
func (c *Canvas) ClearSelectionsBy(user uuid.UUID) []uuid.UUID {
	var cleared []uuid.UUID
	for i := range c.elements {
		if sel := c.elements[i].SelectedBy; sel != nil && *sel == user {
			c.elements[i].SelectedBy = nil
			cleared = append(cleared, c.elements[i].UUID)
		}
	}
	return cleared
}
