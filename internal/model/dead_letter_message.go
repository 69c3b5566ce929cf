package model

import "time"

// DeadLetterMessage is a message that could not be processed, kept for offline inspection.
// Source is the pubsub subscription or pgmq queue it came from.
type DeadLetterMessage struct {
	ID         string    `db:"id"`
	Source     string    `db:"source"`
	MessageID  string    `db:"message_id"`
	Payload    []byte    `db:"payload"`    // JSON
	Attributes []byte    `db:"attributes"` // JSON, may be nil
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
