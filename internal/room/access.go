package room

import "fmt"

// AccessLevel is a user's permission tier within a room: View grants no
// mutation rights, Edit grants elements and selection, Admin additionally
// grants access-level changes. Exactly one user holds Admin per live room.
type AccessLevel int

const (
	View AccessLevel = iota
	Edit
	Admin
)

// String renders the level the way it appears on the wire (snake_case,
// lower-case — there happen to be no multi-word levels so this is just
// lower-casing the name).
func (a AccessLevel) String() string {
	switch a {
	case View:
		return "view"
	case Edit:
		return "edit"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("access_level(%d)", int(a))
	}
}

// MarshalJSON renders the level as its snake_case wire string.
func (a AccessLevel) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON parses the snake_case wire string back into an AccessLevel.
func (a *AccessLevel) UnmarshalJSON(data []byte) error {
	s := string(data)
	switch s {
	case `"view"`:
		*a = View
	case `"edit"`:
		*a = Edit
	case `"admin"`:
		*a = Admin
	default:
		return fmt.Errorf("invalid access_level %s", s)
	}
	return nil
}
