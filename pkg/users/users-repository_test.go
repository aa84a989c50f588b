package users

import (
	"io"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instaai/pkg/storage/sqlite"
)

func setupTestRepository(t *testing.T) UserRepository {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	storage, err := sqlite.New(logger, ":memory:")
	require.NoError(t, err)
	t.Cleanup(storage.Close)

	return NewRepository(storage.Connection)
}

func validUser(username string) AddUserData {
	return AddUserData{
		Username:    username,
		Password:    "hunter2hunter2",
		Name:        "Ada",
		Surname:     "Lovelace",
		Email:       username + "@example.com",
		DateOfBirth: "1815-12-10",
	}
}

func TestAddUser_FlipsAvailability(t *testing.T) {
	ur := setupTestRepository(t)

	assert.True(t, ur.IsUsernameAvailable("adal"))

	_, err := ur.AddUser(validUser("adal"))
	require.NoError(t, err)

	assert.False(t, ur.IsUsernameAvailable("adal"))
	assert.True(t, ur.ExistsUsername("adal"))
}

func TestAddUser_RejectsDuplicateUsername(t *testing.T) {
	ur := setupTestRepository(t)

	_, err := ur.AddUser(validUser("adal"))
	require.NoError(t, err)

	// the insert itself must reject the duplicate, regardless of any prior
	// availability check by the caller
	_, err = ur.AddUser(validUser("adal"))
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestCheckCredentials(t *testing.T) {
	ur := setupTestRepository(t)

	data := validUser("adal")
	_, err := ur.AddUser(data)
	require.NoError(t, err)

	assert.True(t, ur.CheckCredentials("adal", data.Password))
	assert.False(t, ur.CheckCredentials("adal", "wrong password"))
	assert.False(t, ur.CheckCredentials("nobody", data.Password))
}

func TestAddUser_StoresNoPlaintextPassword(t *testing.T) {
	ur := setupTestRepository(t)

	data := validUser("adal")
	_, err := ur.AddUser(data)
	require.NoError(t, err)

	var stored string
	repository := ur.(*userRepository)
	require.NoError(t, repository.Connection.QueryRow(
		"SELECT password FROM users WHERE username = ?", "adal").Scan(&stored))
	assert.NotEqual(t, data.Password, stored)
}

func TestGetUserInfo(t *testing.T) {
	ur := setupTestRepository(t)

	data := validUser("adal")
	_, err := ur.AddUser(data)
	require.NoError(t, err)

	user, err := ur.GetUserInfo("adal")
	require.NoError(t, err)
	assert.Equal(t, data.Username, user.Username)
	assert.Equal(t, data.Name, user.Name)
	assert.Equal(t, data.Surname, user.Surname)
	assert.Equal(t, data.Email, user.Email)
	assert.Equal(t, data.DateOfBirth, user.DateOfBirth)
}

func TestGetUserInfo_NotFound(t *testing.T) {
	ur := setupTestRepository(t)

	_, err := ur.GetUserInfo("nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetUsers(t *testing.T) {
	ur := setupTestRepository(t)

	users, err := ur.GetUsers()
	require.NoError(t, err)
	assert.Empty(t, users)

	_, err = ur.AddUser(validUser("adal"))
	require.NoError(t, err)
	_, err = ur.AddUser(validUser("grace"))
	require.NoError(t, err)

	users, err = ur.GetUsers()
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestFollow_Lifecycle(t *testing.T) {
	ur := setupTestRepository(t)

	assert.False(t, ur.IsFollowing("adal", "grace"))

	require.NoError(t, ur.Follow("adal", "grace"))
	assert.True(t, ur.IsFollowing("adal", "grace"))

	// the edge is directed
	assert.False(t, ur.IsFollowing("grace", "adal"))

	require.NoError(t, ur.Unfollow("adal", "grace"))
	assert.False(t, ur.IsFollowing("adal", "grace"))
}

func TestUnfollow_AbsentEdgeIsNoOp(t *testing.T) {
	ur := setupTestRepository(t)

	assert.NoError(t, ur.Unfollow("adal", "grace"))
	assert.NoError(t, ur.Unfollow("adal", "grace"))
}

func TestFollow_RejectsDuplicateEdge(t *testing.T) {
	ur := setupTestRepository(t)

	require.NoError(t, ur.Follow("adal", "grace"))
	assert.ErrorIs(t, ur.Follow("adal", "grace"), ErrDupFollow)

	// the failed insert must not have added a second edge
	count, err := ur.CountFollowers("grace")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFollowCounts(t *testing.T) {
	ur := setupTestRepository(t)

	require.NoError(t, ur.Follow("adal", "grace"))
	require.NoError(t, ur.Follow("alan", "grace"))
	require.NoError(t, ur.Follow("grace", "adal"))

	followers, err := ur.CountFollowers("grace")
	require.NoError(t, err)
	assert.Equal(t, 2, followers)

	followed, err := ur.CountFollowed("grace")
	require.NoError(t, err)
	assert.Equal(t, 1, followed)

	followers, err = ur.CountFollowers("nobody")
	require.NoError(t, err)
	assert.Zero(t, followers)
}
