package room

// AdmissionDefaults computes the canvas and access level a newly joining
// user is admitted at, per spec.md §4.4/§9 and original_source's
// handle_connection: canvas defaults to the one requested, else the
// current admin's canvas, else 0; access level is Admin if the room has
// none yet, else the room's configured default.
func (r *Room) AdmissionDefaults(requestedCanvas *uint16) (canvasID uint16, level AccessLevel) {
	admin := r.Admin()
	if requestedCanvas != nil {
		canvasID = *requestedCanvas
	} else if admin != nil {
		canvasID = admin.Canvas
	}
	if admin == nil {
		level = Admin
	} else {
		level = r.config.DefaultAccessLevel()
	}
	return canvasID, level
}

// AddUser admits a fully-formed RoomUser to the room, per spec.md §4.2.1:
// broadcast Join to everyone already present, snapshot the user's canvas,
// append the user, then respond to the new user alone with OnJoin
// (roster including themselves). Admin election (who gets admitted as
// Admin) is decided by the caller, which must consult Admin() before
// constructing the RoomUser — see AdmissionDefaults and internal/app's
// AdmitUser.
func (r *Room) AddUser(u RoomUser) {
	r.broadcastAll(JoinAnnounce{User: u.View()})

	elements := r.GetOrCreateCanvas(u.Canvas).Elements()

	r.users = append(r.users, u)
	joined := &r.users[len(r.users)-1]

	roster := make([]User, len(r.users))
	for i := range r.users {
		roster[i] = r.users[i].View()
	}

	msg, err := marshalEnvelope(nil, OnJoin{
		User:     joined.View(),
		Users:    roster,
		Elements: elements,
	})
	if err == nil {
		joined.Outbox.Enqueue(msg)
	}
}

// broadcastAll serializes event once and enqueues it to every current user.
// Used directly (rather than through Dispatch/AnnounceTo) by operations
// that aren't triggered via the command dispatcher: admission, removal,
// and access-level cascades.
func (r *Room) broadcastAll(event Event) {
	msg, err := marshalEnvelope(nil, event)
	if err != nil {
		return
	}
	for i := range r.users {
		r.users[i].Outbox.Enqueue(msg)
	}
}

// RemoveUser removes the user identified by addr, per spec.md §4.2.2.
// Returns false if no such user was found. The caller (internal/app) is
// responsible for dropping the room once RemoveUser leaves it empty.
func (r *Room) RemoveUser(addr Addr) bool {
	idx := -1
	for i := range r.users {
		if r.users[i].Addr == addr {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}

	removed := r.users[idx]
	r.users = append(r.users[:idx], r.users[idx+1:]...)
	removed.Outbox.Close()

	for _, c := range r.canvases {
		c.ClearSelectionsBy(removed.UUID)
	}

	if len(r.users) == 0 {
		return true
	}

	r.broadcastAll(Disconnect{User: removed.UUID})

	if removed.AccessLevel == Admin {
		var toAdmin *RoomUser
		for i := range r.users {
			if r.users[i].AccessLevel == Edit {
				toAdmin = &r.users[i]
				break
			}
		}
		if toAdmin == nil {
			toAdmin = &r.users[0]
		}
		r.ChangeAccessLevel(toAdmin.UUID, Admin)
	}

	return true
}
