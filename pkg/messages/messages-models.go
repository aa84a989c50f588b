package messages

import (
	"github.com/go-ozzo/ozzo-validation"

	"instaai/pkg/dbtime"
)

// Message mirrors a row of the append-only message log; no edit or delete
// operations exist.
type Message struct {
	Id        int64
	Sender    string
	Recipient string
	Text      string
	Datetime  dbtime.Time
}

// Conversation is the ordered thread of every message exchanged between the
// session user and one other participant, regardless of who sent which.
type Conversation struct {
	Participant string
	Messages    []Message
}

// conversationKey canonicalizes the unordered participant pair as an ordered
// tuple, so that the A to B and B to A directions collapse into one thread.
// A composite key sidesteps the fragility of joining usernames with a
// separator the usernames themselves could contain.
type conversationKey struct {
	low, high string
}

func newConversationKey(a, b string) conversationKey {
	if b < a {
		a, b = b, a
	}
	return conversationKey{a, b}
}

type AddMessageData struct {
	Recipient string
	Text      string
}

func (data AddMessageData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Recipient, validation.Required, validation.Length(3, 20)),
		validation.Field(&data.Text, validation.Required, validation.Length(1, 2000)),
	)
}
