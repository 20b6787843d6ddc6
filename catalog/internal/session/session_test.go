package session

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStore(t *testing.T) *sqliteStore {
	t.Helper()
	store, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "session.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	st, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, st.Empty())

	want := State{
		Token:   "9944b09199c62bcf9418ad846dd0e4bbdfc6ee4b",
		User:    User{Email: "admin@ubrary.io", IsAdmin: true},
		Cookies: map[string]string{"csrftoken": "abc", "sessionid": "xyz"},
	}
	require.NoError(t, store.Save(ctx, want))
	// saving twice exercises the upsert path
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)

	require.NoError(t, store.Clear(ctx))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	require.True(t, got.Empty())
}

func TestSession_FlushHonoursRemember(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	sess, err := Open(ctx, store)
	require.NoError(t, err)
	sess.Login("tok", User{Email: "reader@ubrary.io"}, false)
	require.NoError(t, sess.Flush(ctx))

	reopened, err := Open(ctx, store)
	require.NoError(t, err)
	_, ok := reopened.User()
	require.False(t, ok, "a session without remember must not survive a restart")

	sess.Login("tok", User{Email: "reader@ubrary.io"}, true)
	sess.SetCookies([]*http.Cookie{{Name: "csrftoken", Value: "c1"}, {Name: "messages", Value: "m"}}, "csrftoken", "sessionid")
	require.NoError(t, sess.Flush(ctx))

	reopened, err = Open(ctx, store)
	require.NoError(t, err)
	user, ok := reopened.User()
	require.True(t, ok)
	require.Equal(t, "reader@ubrary.io", user.Email)
	require.Equal(t, "tok", reopened.Token())
	require.Equal(t, "c1", reopened.Cookie("csrftoken"))
	require.Empty(t, reopened.Cookie("messages"))
	require.True(t, reopened.Remember())

	reopened.Clear()
	require.NoError(t, reopened.Flush(ctx))
	st, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, st.Empty())
}
