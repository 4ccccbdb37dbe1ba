package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SaveLoadClear(t *testing.T) {
	s := NewFileStore(t.TempDir())

	sess, err := s.Load()
	require.NoError(t, err)
	assert.False(t, sess.LoggedIn())

	require.NoError(t, s.Save(Session{Token: "tok", FirebaseUID: "fb1"}))
	sess, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, Session{Token: "tok", FirebaseUID: "fb1"}, sess)

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	sess, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, Session{}, sess)
}

func TestFileStore_Watch(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 16)
	require.NoError(t, s.Watch(ctx, func() { changed <- struct{}{} }))

	require.NoError(t, s.Save(Session{Token: "tok"}))

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("expected change notification")
	}
}
