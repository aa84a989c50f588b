package sessions

import (
	"io"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instaai/pkg/storage/sqlite"
)

func setupTestStore(t *testing.T) *Store {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	storage, err := sqlite.New(logger, ":memory:")
	require.NoError(t, err)
	t.Cleanup(storage.Close)

	return NewStore(storage.Connection)
}

func TestCurrentUsername_EmptyWhenLoggedOut(t *testing.T) {
	store := setupTestStore(t)

	username, err := store.CurrentUsername()
	require.NoError(t, err)
	assert.Empty(t, username)
}

func TestSetCurrentUsername(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.SetCurrentUsername("adal"))

	username, err := store.CurrentUsername()
	require.NoError(t, err)
	assert.Equal(t, "adal", username)

	// a later login replaces the stored username
	require.NoError(t, store.SetCurrentUsername("grace"))

	username, err = store.CurrentUsername()
	require.NoError(t, err)
	assert.Equal(t, "grace", username)
}

func TestClear(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.SetCurrentUsername("adal"))
	require.NoError(t, store.Clear())

	username, err := store.CurrentUsername()
	require.NoError(t, err)
	assert.Empty(t, username)

	// clearing an absent session is a no-op
	assert.NoError(t, store.Clear())
}
