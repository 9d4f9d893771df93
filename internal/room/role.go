package room

import "encoding/json"

// Role is a session's role inside a code block room.
type Role int

const (
	RoleUnassigned Role = iota
	RoleMentor
	RoleStudent
)

func (r Role) String() string {
	switch r {
	case RoleMentor:
		return "mentor"
	case RoleStudent:
		return "student"
	default:
		return "unassigned"
	}
}

// Greeting is the human-readable text sent alongside a role assignment.
func (r Role) Greeting() string {
	switch r {
	case RoleMentor:
		return "You are a Mentor"
	case RoleStudent:
		return "You are a Student"
	default:
		return ""
	}
}

// CanEdit reports whether a session with this role may change the template.
// Mentors supervise with a read-only view.
func (r Role) CanEdit() bool {
	return r == RoleStudent
}

// MarshalJSON serializes Role as a string.
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON deserializes Role from a string.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "mentor":
		*r = RoleMentor
	case "student":
		*r = RoleStudent
	default:
		*r = RoleUnassigned
	}
	return nil
}
