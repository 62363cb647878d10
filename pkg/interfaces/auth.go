package interfaces

import (
	"context"
	"net/http"
	"strings"
)

// RoleAdmin is the profile role that unlocks content management affordances.
const RoleAdmin = "admin"

// User identifies the signed-in account as reported by the external auth service.
type User struct {
	ID    string
	Email string
}

// Profile carries the display attributes stored alongside a user.
type Profile struct {
	UserID   string
	FullName string
	Role     string
}

// AuthSession is the read-only identity context injected at the page boundary.
// User and Profile return nil when absent.
type AuthSession interface {
	User() *User
	Profile() *Profile
	SignOut(ctx context.Context) error
}

// SessionResolver produces the AuthSession for an incoming request.
type SessionResolver interface {
	Resolve(w http.ResponseWriter, r *http.Request) AuthSession
}

// IsAdmin reports whether the session profile carries the admin role.
func IsAdmin(session AuthSession) bool {
	if session == nil {
		return false
	}
	profile := session.Profile()
	if profile == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(profile.Role), RoleAdmin)
}

// DisplayName prefers the profile full name and falls back to the user email.
func DisplayName(session AuthSession) string {
	if session == nil {
		return ""
	}
	if profile := session.Profile(); profile != nil {
		if name := strings.TrimSpace(profile.FullName); name != "" {
			return name
		}
	}
	if user := session.User(); user != nil {
		return strings.TrimSpace(user.Email)
	}
	return ""
}
