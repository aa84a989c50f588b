package images

import (
	"io"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instaai/pkg/dbtime"
	"instaai/pkg/storage/sqlite"
	"instaai/pkg/users"
)

func setupTestStore(t *testing.T) (*Store, users.UserRepository) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	storage, err := sqlite.New(logger, ":memory:")
	require.NoError(t, err)
	t.Cleanup(storage.Close)

	ur := users.NewRepository(storage.Connection)
	return NewStore(storage.Connection, ur), ur
}

func at(day, hour int) dbtime.Time {
	return dbtime.At(time.Date(2024, 3, day, hour, 0, 0, 0, time.Local))
}

func TestAddImage_RoundTrip(t *testing.T) {
	ar, _ := setupTestStore(t)

	created := at(1, 12)
	image, err := ar.AddImage("data:image/jpeg;base64,/9j/4A==", "adal", "a sunset", created)
	require.NoError(t, err)
	assert.Positive(t, image.Id)

	stored, err := ar.GetUserImages("adal")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, image.Id, stored[0].Id)
	assert.Equal(t, "data:image/jpeg;base64,/9j/4A==", stored[0].Url)
	assert.Equal(t, "adal", stored[0].Owner)
	assert.Equal(t, "a sunset", stored[0].Description)
	assert.Equal(t, created.String(), stored[0].CreationDate.String())
}

func TestGetUserImages_MostRecentFirst(t *testing.T) {
	ar, _ := setupTestStore(t)

	_, err := ar.AddImage("one", "adal", "", at(1, 10))
	require.NoError(t, err)
	_, err = ar.AddImage("three", "adal", "", at(3, 10))
	require.NoError(t, err)
	_, err = ar.AddImage("two", "adal", "", at(2, 10))
	require.NoError(t, err)

	stored, err := ar.GetUserImages("adal")
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, "three", stored[0].Url)
	assert.Equal(t, "two", stored[1].Url)
	assert.Equal(t, "one", stored[2].Url)
}

func TestGetFeed_OnlyFollowedOwners(t *testing.T) {
	ar, ur := setupTestStore(t)

	_, err := ar.AddImage("followed-image", "grace", "", at(1, 10))
	require.NoError(t, err)
	_, err = ar.AddImage("stranger-image", "alan", "", at(2, 10))
	require.NoError(t, err)

	require.NoError(t, ur.Follow("adal", "grace"))

	feed, err := ar.GetFeed("adal")
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "followed-image", feed[0].Url)

	// an unfollowed session user sees an empty feed
	feed, err = ar.GetFeed("alan")
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestGetFeed_MostRecentFirstAcrossOwners(t *testing.T) {
	ar, ur := setupTestStore(t)

	require.NoError(t, ur.Follow("adal", "grace"))
	require.NoError(t, ur.Follow("adal", "alan"))

	_, err := ar.AddImage("oldest", "grace", "", at(1, 8))
	require.NoError(t, err)
	_, err = ar.AddImage("newest", "alan", "", at(2, 9))
	require.NoError(t, err)
	_, err = ar.AddImage("middle", "grace", "", at(1, 23))
	require.NoError(t, err)

	feed, err := ar.GetFeed("adal")
	require.NoError(t, err)
	require.Len(t, feed, 3)
	assert.Equal(t, "newest", feed[0].Url)
	assert.Equal(t, "middle", feed[1].Url)
	assert.Equal(t, "oldest", feed[2].Url)
}

func TestCountPosts(t *testing.T) {
	ar, _ := setupTestStore(t)

	count, err := ar.CountPosts("adal")
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = ar.AddImage("one", "adal", "", at(1, 10))
	require.NoError(t, err)
	_, err = ar.AddImage("two", "adal", "", at(2, 10))
	require.NoError(t, err)
	_, err = ar.AddImage("other", "grace", "", at(3, 10))
	require.NoError(t, err)

	count, err = ar.CountPosts("adal")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestLikes_Lifecycle(t *testing.T) {
	ar, _ := setupTestStore(t)

	image, err := ar.AddImage("one", "grace", "", at(1, 10))
	require.NoError(t, err)

	before, err := ar.CountLikes(image.Id)
	require.NoError(t, err)
	assert.False(t, ar.HasLiked("adal", image.Id))

	require.NoError(t, ar.AddLike("adal", image.Id))
	assert.True(t, ar.HasLiked("adal", image.Id))

	after, err := ar.CountLikes(image.Id)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	require.NoError(t, ar.RemoveLike("adal", image.Id))
	assert.False(t, ar.HasLiked("adal", image.Id))

	restored, err := ar.CountLikes(image.Id)
	require.NoError(t, err)
	assert.Equal(t, before, restored)
}

func TestAddLike_RejectsDuplicate(t *testing.T) {
	ar, _ := setupTestStore(t)

	image, err := ar.AddImage("one", "grace", "", at(1, 10))
	require.NoError(t, err)

	require.NoError(t, ar.AddLike("adal", image.Id))
	assert.ErrorIs(t, ar.AddLike("adal", image.Id), ErrDupLike)

	count, err := ar.CountLikes(image.Id)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRemoveLike_AbsentIsNoOp(t *testing.T) {
	ar, _ := setupTestStore(t)

	assert.NoError(t, ar.RemoveLike("adal", 42))
}
