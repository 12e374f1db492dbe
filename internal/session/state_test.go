package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentcar/internal/domain"
	"rentcar/internal/pkg/jwt"
)

var testNow = time.Now()

var ann = domain.Profile{CustomerID: 3, FirstName: "Ann", LastName: "Wanjiru", Email: "ann@example.com", Role: domain.RoleUser, IsVerified: true}

func TestReduce(t *testing.T) {
	s := Reduce(State{}, LoginSuccess{Token: "t1", User: ann})
	require.True(t, s.Authenticated())
	assert.Equal(t, "t1", s.TokenValue())
	assert.Equal(t, ann, *s.User)

	s = Reduce(s, LoginSuccess{Token: "t2", User: ann})
	assert.Equal(t, "t2", s.TokenValue())

	s = Reduce(s, Logout{})
	assert.Nil(t, s.Token)
	assert.Nil(t, s.User)
	assert.False(t, s.Authenticated())
}

func TestCanAccess(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	signer := jwt.New("secret", time.Hour)

	valid, err := signer.GenerateToken(3, string(domain.RoleUser))
	require.NoError(t, err)

	expiredSigner := jwt.New("secret", -time.Hour)
	expired, err := expiredSigner.GenerateToken(3, string(domain.RoleUser))
	require.NoError(t, err)

	signed := func(token string) State {
		return Reduce(State{}, LoginSuccess{Token: token, User: ann})
	}

	tests := []struct {
		name  string
		state State
		role  domain.Role
		now   time.Time
		want  bool
	}{
		{"anonymous", State{}, "", now, false},
		{"opaque token any role", signed("opaque"), "", now, true},
		{"role match", signed("opaque"), domain.RoleUser, now, true},
		{"role mismatch", signed("opaque"), domain.RoleAdmin, now, false},
		{"jwt valid", signed(valid), domain.RoleUser, time.Now(), true},
		{"jwt expired", signed(expired), domain.RoleUser, time.Now(), false},
		{"after logout", Reduce(signed("opaque"), Logout{}), "", now, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccess(tt.state, tt.role, tt.now))
		})
	}
}
