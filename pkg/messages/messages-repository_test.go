package messages

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
)

func setupTestRepository(t *testing.T) MessageRepository {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	storage, err := sqlite.New(logger, ":memory:")
	require.NoError(t, err)
	t.Cleanup(storage.Close)

	return NewRepository(storage.Connection)
}

func at(day, hour, minute int) dbtime.Time {
	return dbtime.At(time.Date(2024, 3, day, hour, minute, 0, 0, time.Local))
}

func TestAddMessage_AssignsTimestamp(t *testing.T) {
	mr := setupTestRepository(t)

	message, err := mr.AddMessage("alice", "bob", "hello")
	require.NoError(t, err)
	assert.Positive(t, message.Id)
	assert.True(t, message.Datetime.IsValid())

	stored, err := mr.GetMessagesBetween("alice", "bob")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "alice", stored[0].Sender)
	assert.Equal(t, "bob", stored[0].Recipient)
	assert.Equal(t, "hello", stored[0].Text)
	assert.Equal(t, message.Datetime.String(), stored[0].Datetime.String())
}

func TestGetMessagesBetween_AscendingAndBidirectional(t *testing.T) {
	mr := setupTestRepository(t)

	_, err := mr.AddMessageAt("bob", "alice", "second", at(1, 10, 5))
	require.NoError(t, err)
	_, err = mr.AddMessageAt("alice", "bob", "first", at(1, 10, 0))
	require.NoError(t, err)
	_, err = mr.AddMessageAt("alice", "bob", "third", at(1, 10, 10))
	require.NoError(t, err)

	// unrelated traffic stays out of the transcript
	_, err = mr.AddMessageAt("alice", "carol", "aside", at(1, 10, 7))
	require.NoError(t, err)

	transcript, err := mr.GetMessagesBetween("alice", "bob")
	require.NoError(t, err)
	require.Len(t, transcript, 3)
	assert.Equal(t, "first", transcript[0].Text)
	assert.Equal(t, "second", transcript[1].Text)
	assert.Equal(t, "third", transcript[2].Text)

	// the transcript reads identically from either side
	mirrored, err := mr.GetMessagesBetween("bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, transcript, mirrored)
}

func TestGetConversations_GroupsAndOrders(t *testing.T) {
	mr := setupTestRepository(t)

	// alice and bob exchange two messages, then alice writes to carol
	_, err := mr.AddMessageAt("alice", "bob", "to bob", at(1, 9, 0))
	require.NoError(t, err)
	_, err = mr.AddMessageAt("bob", "alice", "to alice", at(1, 9, 30))
	require.NoError(t, err)
	_, err = mr.AddMessageAt("alice", "carol", "to carol", at(1, 10, 0))
	require.NoError(t, err)

	conversations, err := mr.GetConversations("alice")
	require.NoError(t, err)
	require.Len(t, conversations, 2)

	// the carol thread holds the most recent message and surfaces first
	assert.Equal(t, "carol", conversations[0].Participant)
	require.Len(t, conversations[0].Messages, 1)
	assert.Equal(t, "to carol", conversations[0].Messages[0].Text)

	// within the bob thread messages read in chronological order
	assert.Equal(t, "bob", conversations[1].Participant)
	require.Len(t, conversations[1].Messages, 2)
	assert.Equal(t, "to bob", conversations[1].Messages[0].Text)
	assert.Equal(t, "to alice", conversations[1].Messages[1].Text)
}

func TestGetConversations_CollapsesDirections(t *testing.T) {
	mr := setupTestRepository(t)

	// both directions of the same pair belong to a single thread
	_, err := mr.AddMessageAt("alice", "bob", "ping", at(1, 9, 0))
	require.NoError(t, err)
	_, err = mr.AddMessageAt("bob", "alice", "pong", at(1, 9, 1))
	require.NoError(t, err)

	conversations, err := mr.GetConversations("alice")
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, "bob", conversations[0].Participant)
	assert.Len(t, conversations[0].Messages, 2)
}

func TestGetConversations_RecencyFollowsLatestMessage(t *testing.T) {
	mr := setupTestRepository(t)

	// the bob thread starts first but a late reply makes it the most recent
	_, err := mr.AddMessageAt("alice", "bob", "early", at(1, 8, 0))
	require.NoError(t, err)
	_, err = mr.AddMessageAt("alice", "carol", "middle", at(1, 9, 0))
	require.NoError(t, err)
	_, err = mr.AddMessageAt("bob", "alice", "late reply", at(1, 11, 0))
	require.NoError(t, err)

	conversations, err := mr.GetConversations("alice")
	require.NoError(t, err)
	require.Len(t, conversations, 2)
	assert.Equal(t, "bob", conversations[0].Participant)
	assert.Equal(t, "carol", conversations[1].Participant)
}

func TestGetConversations_Empty(t *testing.T) {
	mr := setupTestRepository(t)

	conversations, err := mr.GetConversations("alice")
	require.NoError(t, err)
	assert.Empty(t, conversations)
}

func TestGetConversations_ExcludesThirdParties(t *testing.T) {
	mr := setupTestRepository(t)

	_, err := mr.AddMessageAt("bob", "carol", "private", at(1, 9, 0))
	require.NoError(t, err)
	_, err = mr.AddMessageAt("alice", "bob", "hers", at(1, 10, 0))
	require.NoError(t, err)

	conversations, err := mr.GetConversations("alice")
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, "bob", conversations[0].Participant)
	require.Len(t, conversations[0].Messages, 1)
	assert.Equal(t, "hers", conversations[0].Messages[0].Text)
}
