package models

// Role distinguishes the two profile types an account can own
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleCompany   Role = "company"
)

// ParseRole validates a stored or submitted role string
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCandidate, RoleCompany:
		return Role(s), true
	}
	return "", false
}

// SessionUser is the minimal account snapshot persisted alongside the token
type SessionUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session is the active authenticated state. A session with a token but no
// resolved role is invalid and must be torn down.
type Session struct {
	Token     string      `json:"-"`
	Role      Role        `json:"role"`
	ProfileID string      `json:"profileId"`
	User      SessionUser `json:"user"`
}

// Complete reports whether every required session component is present;
// restore must yield either a complete session or none at all.
func (s *Session) Complete() bool {
	if s == nil {
		return false
	}
	_, roleOK := ParseRole(string(s.Role))
	return s.Token != "" && roleOK && s.ProfileID != "" && s.User.ID != 0
}
