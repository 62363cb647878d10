package auth

import (
	"context"
	"net/http"

	"github.com/goliatone/go-storefront/pkg/interfaces"
)

// Static is a fixed session. SignOut does nothing.
type Static struct {
	user    *interfaces.User
	profile *interfaces.Profile
}

var _ interfaces.AuthSession = (*Static)(nil)

func NewStatic(user *interfaces.User, profile *interfaces.Profile) *Static {
	return &Static{user: user, profile: profile}
}

// Anonymous returns a session with no user.
func Anonymous() *Static { return &Static{} }

func (s *Static) User() *interfaces.User {
	if s == nil {
		return nil
	}
	return s.user
}

func (s *Static) Profile() *interfaces.Profile {
	if s == nil || s.user == nil {
		return nil
	}
	return s.profile
}

func (s *Static) SignOut(context.Context) error { return nil }

// StaticResolver hands every request the same session.
type StaticResolver struct {
	Session interfaces.AuthSession
}

func (r StaticResolver) Resolve(http.ResponseWriter, *http.Request) interfaces.AuthSession {
	if r.Session == nil {
		return Anonymous()
	}
	return r.Session
}
