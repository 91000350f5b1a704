package messaging

import "time"

// Message is one entry in the append-only ledger. Once sent, only the
// read flag ever changes.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	OrderID    string    `json:"order_id,omitempty"`
	Content    string    `json:"content"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

// Conversation is a derived grouping of messages between two
// participants. Last message and unread count are recomputed from the
// ledger on every read; nothing here is stored.
type Conversation struct {
	Participants [2]string `json:"participants"`
	LastMessage  Message   `json:"last_message"`
	UnreadCount  int       `json:"unread_count"`
}
