package session

import (
	"time"

	"rentcar/internal/domain"
	"rentcar/internal/pkg/jwt"
)

// State is the client session: the bearer token and the signed-in profile.
// Both are nil/empty together outside of a login.
type State struct {
	Token *string         `json:"token"`
	User  *domain.Profile `json:"user"`
}

func (s State) TokenValue() string {
	if s.Token == nil {
		return ""
	}
	return *s.Token
}

func (s State) Authenticated() bool {
	return s.TokenValue() != "" && s.User != nil
}

// Action is one of the two allowed transitions.
type Action interface {
	isAction()
}

type LoginSuccess struct {
	Token string
	User  domain.Profile
}

type Logout struct{}

func (LoginSuccess) isAction() {}
func (Logout) isAction()       {}

// Reduce is the only place session state changes.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case LoginSuccess:
		token := a.Token
		user := a.User
		return State{Token: &token, User: &user}
	case Logout:
		return State{}
	}
	return s
}

// CanAccess is the route guard. An empty role admits any signed-in user.
// Tokens that are JWTs past their exp are refused; opaque tokens are trusted
// until the backend rejects them.
func CanAccess(s State, required domain.Role, now time.Time) bool {
	if !s.Authenticated() {
		return false
	}
	if exp, ok := jwt.ExpiresAt(s.TokenValue()); ok && !now.Before(exp) {
		return false
	}
	return required == "" || s.User.Role == required
}
