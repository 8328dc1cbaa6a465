package room

import (
	"github.com/google/uuid"

	"planner-server/internal/canvas"
)

// ElementsResult is the outcome of applying an elements upsert/delete
// request, per spec.md §4.2.6. SenderElements/SenderDeletedElements are
// always populated (the ack to the sender, including reverts);
// Elements/DeletedElements are only populated when some mutation actually
// took place (the broadcast to the rest of the canvas).
type ElementsResult struct {
	CanvasID uint16

	Elements        []canvas.Element
	DeletedElements []uuid.UUID

	SenderElements        []canvas.Element
	SenderDeletedElements []uuid.UUID
}

// Mutated reports whether any element was actually created, overwritten,
// or deleted — i.e. whether a canvas-wide broadcast is warranted.
func (res ElementsResult) Mutated() bool {
	return len(res.Elements) > 0 || len(res.DeletedElements) > 0
}

// ApplyElements upserts and deletes elements on the sender's current
// canvas, enforcing per-element ownership (selected-by-sender or
// unselected) and access level, per spec.md §4.2.6.
func (r *Room) ApplyElements(addr Addr, upserts []canvas.Element, deletes []uuid.UUID) (ElementsResult, error) {
	u := r.userByAddr(addr)
	if u == nil {
		return ElementsResult{}, ErrUserDoesNotExist{}
	}

	canMutate := u.AccessLevel >= Edit
	c := r.GetOrCreateCanvas(u.Canvas)
	res := ElementsResult{CanvasID: u.Canvas}

	for _, sent := range upserts {
		known, exists := c.Get(sent.UUID)
		if exists {
			ownedOrUnselected := known.SelectedBy == nil || *known.SelectedBy == u.UUID
			if ownedOrUnselected && canMutate {
				sent.LastEditedBy = u.UUID
				c.Upsert(sent)
				res.Elements = append(res.Elements, sent)
				res.SenderElements = append(res.SenderElements, sent)
			} else {
				res.SenderElements = append(res.SenderElements, known)
			}
		} else {
			if canMutate {
				sent.LastEditedBy = u.UUID
				c.Upsert(sent)
				res.Elements = append(res.Elements, sent)
				res.SenderElements = append(res.SenderElements, sent)
			} else {
				res.SenderDeletedElements = append(res.SenderDeletedElements, sent.UUID)
			}
		}
	}

	for _, id := range deletes {
		known, exists := c.Get(id)
		if !exists {
			continue
		}
		ownedOrUnselected := known.SelectedBy == nil || *known.SelectedBy == u.UUID
		if ownedOrUnselected && canMutate {
			c.Delete(id)
			res.DeletedElements = append(res.DeletedElements, id)
			res.SenderDeletedElements = append(res.SenderDeletedElements, id)
		} else {
			res.SenderElements = append(res.SenderElements, known)
		}
	}

	return res, nil
}
