package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentcar/internal/database"
)

func newPersister(t *testing.T) *GormPersister {
	t.Helper()
	db, err := database.Connect(database.MemoryDSN(strings.ReplaceAll(t.Name(), "/", "_")))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	p := NewGormPersister(db)
	require.NoError(t, p.Migrate())
	return p
}

func TestPersistKey(t *testing.T) {
	assert.Equal(t, "persist:root", PersistKey(""))
	assert.Equal(t, "persist:abc", PersistKey("abc"))
}

func TestStore_PersistsAndRehydrates(t *testing.T) {
	ctx := context.Background()
	p := newPersister(t)

	s, err := Open(ctx, p, "ws1")
	require.NoError(t, err)
	assert.False(t, s.State().Authenticated())

	require.NoError(t, s.LoginSuccess(ctx, "tok", ann))

	blob, version, err := p.Load(ctx, "persist:ws1")
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	assert.JSONEq(t, `{"user":{"token":"tok","user":{"customerID":3,"firstName":"Ann","lastName":"Wanjiru","email":"ann@example.com","role":"user","isVerified":true}}}`, string(blob))

	again, err := Open(ctx, p, "ws1")
	require.NoError(t, err)
	assert.Equal(t, "tok", again.Token())
	require.NotNil(t, again.User())
	assert.Equal(t, "Ann", again.User().FirstName)
}

func TestStore_LogoutDeletesBlob(t *testing.T) {
	ctx := context.Background()
	p := newPersister(t)

	s, err := Open(ctx, p, "ws2")
	require.NoError(t, err)
	require.NoError(t, s.LoginSuccess(ctx, "tok", ann))

	var seen []State
	s.Subscribe(func(st State) { seen = append(seen, st) })

	require.NoError(t, s.Logout(ctx))
	assert.Equal(t, "", s.Token())
	assert.Nil(t, s.User())
	assert.False(t, CanAccess(s.State(), "", testNow))
	require.Len(t, seen, 1)
	assert.False(t, seen[0].Authenticated())

	_, _, err = p.Load(ctx, "persist:ws2")
	assert.ErrorIs(t, err, ErrNotPersisted)

	fresh, err := Open(ctx, p, "ws2")
	require.NoError(t, err)
	assert.False(t, fresh.State().Authenticated())
}

func TestOpen_DropsUnreadableBlob(t *testing.T) {
	ctx := context.Background()
	p := newPersister(t)
	require.NoError(t, p.Save(ctx, "persist:ws3", []byte("{not json"), 1))

	s, err := Open(ctx, p, "ws3")
	require.NoError(t, err)
	assert.False(t, s.State().Authenticated())

	_, _, err = p.Load(ctx, "persist:ws3")
	assert.ErrorIs(t, err, ErrNotPersisted)
}

func TestOpen_RejectsOtherVersion(t *testing.T) {
	ctx := context.Background()
	p := newPersister(t)
	require.NoError(t, p.Save(ctx, "persist:ws4", []byte(`{"user":{"token":"x","user":{"customerID":1}}}`), 2))

	s, err := Open(ctx, p, "ws4")
	require.NoError(t, err)
	assert.Equal(t, "", s.Token())
}

func TestGormPersister_DeleteOlderThan(t *testing.T) {
	ctx := context.Background()
	p := newPersister(t)
	require.NoError(t, p.Save(ctx, "persist:a", []byte(`{}`), 1))
	require.NoError(t, p.Save(ctx, "persist:b", []byte(`{}`), 1))

	n, err := p.DeleteOlderThan(ctx, testNow.AddDate(-10, 0, 0))
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	n, err = p.DeleteOlderThan(ctx, testNow.AddDate(10, 0, 0))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestGormPersister_TouchDefersPrune(t *testing.T) {
	ctx := context.Background()
	p := newPersister(t)
	require.NoError(t, p.Save(ctx, "persist:used", []byte(`{}`), 1))
	require.NoError(t, p.Save(ctx, "persist:idle", []byte(`{}`), 1))

	later := testNow.Add(48 * time.Hour)
	require.NoError(t, p.Touch(ctx, later, "persist:used"))
	require.NoError(t, p.Touch(ctx, later))

	n, err := p.DeleteOlderThan(ctx, testNow.Add(24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, _, err = p.Load(ctx, "persist:used")
	assert.NoError(t, err)
	_, _, err = p.Load(ctx, "persist:idle")
	assert.ErrorIs(t, err, ErrNotPersisted)
}

func TestStore_RefreshUser(t *testing.T) {
	ctx := context.Background()
	p := newPersister(t)
	s, err := Open(ctx, p, "ws5")
	require.NoError(t, err)

	assert.ErrorIs(t, s.RefreshUser(ctx, "", ann), ErrSessionChanged)
	assert.Nil(t, s.User())

	require.NoError(t, s.LoginSuccess(ctx, "tok", ann))
	renamed := ann
	renamed.FirstName = "Annie"
	require.NoError(t, s.RefreshUser(ctx, "tok", renamed))
	assert.Equal(t, "Annie", s.User().FirstName)
	assert.Equal(t, "tok", s.Token())

	assert.ErrorIs(t, s.RefreshUser(ctx, "old-tok", ann), ErrSessionChanged)
	assert.Equal(t, "Annie", s.User().FirstName)

	require.NoError(t, s.Logout(ctx))
	assert.ErrorIs(t, s.RefreshUser(ctx, "tok", renamed), ErrSessionChanged)
	st := s.State()
	assert.Nil(t, st.Token)
	assert.Nil(t, st.User)
	_, _, err = p.Load(ctx, "persist:ws5")
	assert.ErrorIs(t, err, ErrNotPersisted)
}

func TestStore_SubscribeCancel(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, nil, "")
	require.NoError(t, err)

	calls := 0
	cancel := s.Subscribe(func(State) { calls++ })
	require.NoError(t, s.LoginSuccess(ctx, "tok", ann))
	cancel()
	require.NoError(t, s.Logout(ctx))
	assert.Equal(t, 1, calls)
}

func TestStore_WithoutPersister(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, nil, "")
	require.NoError(t, err)
	require.NoError(t, s.LoginSuccess(ctx, "tok", ann))
	assert.Equal(t, "tok", s.Token())
	require.NoError(t, s.Logout(ctx))
	assert.Equal(t, "", s.Token())
}
