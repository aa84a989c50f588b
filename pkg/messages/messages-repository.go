package messages

import (
	"database/sql"
	"fmt"

	"instaai/pkg/dbtime"
)

type MessageRepository interface {
	AddMessage(sender, recipient, text string) (Message, error)
	AddMessageAt(sender, recipient, text string, at dbtime.Time) (Message, error)
	GetMessagesBetween(userA, userB string) ([]Message, error)
	GetConversations(sessionUser string) ([]Conversation, error)
}

type messageRepository struct {
	Connection *sql.DB
}

func NewRepository(connection *sql.DB) MessageRepository {
	return &messageRepository{connection}
}

// AddMessage appends a message stamped with the local clock.
func (mr *messageRepository) AddMessage(sender, recipient, text string) (Message, error) {
	return mr.AddMessageAt(sender, recipient, text, dbtime.Now())
}

// AddMessageAt appends a message with an explicit timestamp, serving callers
// that already hold one.
func (mr *messageRepository) AddMessageAt(sender, recipient, text string, at dbtime.Time) (Message, error) {

	result, err := mr.Connection.Exec(
		"INSERT INTO messages (sender, recipient, message, datetime) VALUES (?, ?, ?, ?)",
		sender, recipient, text, at)
	if err != nil {
		return Message{}, fmt.Errorf("couldn't add message from %q to %q: %w", sender, recipient, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Message{}, err
	}

	return Message{
		Id:        id,
		Sender:    sender,
		Recipient: recipient,
		Text:      text,
		Datetime:  at,
	}, nil
}

// GetMessagesBetween returns the full bidirectional transcript between two
// users in ascending, chronological order: the single ordering contract every
// consumer relies on to render a chat top to bottom.
func (mr *messageRepository) GetMessagesBetween(userA, userB string) ([]Message, error) {

	var transcript = make([]Message, 0)

	rows, err := mr.Connection.Query(`
		SELECT id, sender, recipient, message, datetime FROM messages
		WHERE (sender = ? AND recipient = ?) OR (sender = ? AND recipient = ?)
		ORDER BY datetime ASC, id ASC`,
		userA, userB, userB, userA,
	)
	if err != nil {
		return nil, err
	}

	defer closeRows(rows)

	for rows.Next() {
		var message Message
		if err = rows.Scan(&message.Id, &message.Sender, &message.Recipient, &message.Text, &message.Datetime); err != nil {
			return transcript, err
		}
		transcript = append(transcript, message)
	}

	return transcript, rows.Err()
}

/*
GetConversations partitions the session user's whole message log into per
participant threads, ordered by recency.

The scan runs in descending datetime order, and each thread is recorded when
its first message surfaces; a thread's first encounter is therefore its most
recent message, which yields the "most recently active conversation first"
ordering as a guaranteed contract rather than an accident of grouping.
Messages within each thread are then reversed into ascending, chronological
order, matching the transcript contract of GetMessagesBetween.
*/
func (mr *messageRepository) GetConversations(sessionUser string) ([]Conversation, error) {

	rows, err := mr.Connection.Query(`
		SELECT id, sender, recipient, message, datetime FROM messages
		WHERE sender = ? OR recipient = ?
		ORDER BY datetime DESC, id DESC`,
		sessionUser, sessionUser,
	)
	if err != nil {
		return nil, err
	}

	defer closeRows(rows)

	var conversations = make([]Conversation, 0)
	var groups = make(map[conversationKey]int)

	for rows.Next() {
		var message Message
		if err = rows.Scan(&message.Id, &message.Sender, &message.Recipient, &message.Text, &message.Datetime); err != nil {
			return conversations, err
		}

		var other = message.Sender
		if message.Sender == sessionUser {
			other = message.Recipient
		}

		var key = newConversationKey(sessionUser, other)
		index, found := groups[key]
		if !found {
			index = len(conversations)
			groups[key] = index
			conversations = append(conversations, Conversation{Participant: other})
		}
		conversations[index].Messages = append(conversations[index].Messages, message)
	}

	if err = rows.Err(); err != nil {
		return conversations, err
	}

	// each thread accumulated newest first; flip it into transcript order
	for index := range conversations {
		reverse(conversations[index].Messages)
	}

	return conversations, nil
}

func reverse(thread []Message) {
	for i, j := 0, len(thread)-1; i < j; i, j = i+1, j-1 {
		thread[i], thread[j] = thread[j], thread[i]
	}
}

func closeRows(rows *sql.Rows) {
	_ = rows.Close()
}
