package room

import "github.com/google/uuid"

// SelectionResult is the outcome of applying a selection request against
// the sender's current canvas, per spec.md §4.2.5.
type SelectionResult struct {
	CanvasID        uint16
	NewlySelected   []uuid.UUID
	NewlyDeselected []uuid.UUID
	FailedToSelect  []uuid.UUID
}

// ErrNoPermission means the sender's access level doesn't allow the
// requested mutation (selection or element change).
type ErrNoPermission struct{}

func (ErrNoPermission) Error() string { return "no_permission" }

// ApplySelection mutates the sender's current canvas to match requested,
// per spec.md's three-way classification (newly deselected / newly
// selected / failed to select). The sender must hold at least Edit.
func (r *Room) ApplySelection(addr Addr, requested []uuid.UUID) (SelectionResult, error) {
	u := r.userByAddr(addr)
	if u == nil {
		return SelectionResult{}, ErrUserDoesNotExist{}
	}
	if u.AccessLevel < Edit {
		return SelectionResult{}, ErrNoPermission{}
	}

	wanted := make(map[uuid.UUID]bool, len(requested))
	for _, id := range requested {
		wanted[id] = true
	}

	result := SelectionResult{CanvasID: u.Canvas}
	c := r.GetOrCreateCanvas(u.Canvas)
	elements := c.Elements()

	for _, el := range elements {
		isSelectedByServer := el.SelectedBy != nil && *el.SelectedBy == u.UUID
		isRequestedByClient := wanted[el.UUID]

		switch {
		case !isRequestedByClient && isSelectedByServer:
			result.NewlyDeselected = append(result.NewlyDeselected, el.UUID)
			el.SelectedBy = nil
			c.Upsert(el)
		case isRequestedByClient && !isSelectedByServer:
			if el.SelectedBy == nil {
				result.NewlySelected = append(result.NewlySelected, el.UUID)
				sel := u.UUID
				el.SelectedBy = &sel
				c.Upsert(el)
			} else {
				result.FailedToSelect = append(result.FailedToSelect, el.UUID)
			}
		}
	}

	return result, nil
}

// ErrUserDoesNotExist means the addr didn't resolve to a user of this room
// (spec.md's post-admission "user_does_not_exist" error code).
type ErrUserDoesNotExist struct{}

func (ErrUserDoesNotExist) Error() string { return "user_does_not_exist" }
