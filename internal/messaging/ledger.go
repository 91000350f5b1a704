package messaging

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Errors surfaced by the ledger. Transport failures from the store wrap
// ErrPersistence.
var (
	ErrValidation      = errors.New("validation failed")
	ErrMessageNotFound = errors.New("message not found")
	ErrPersistence     = errors.New("persistence failure")
)

// MessageStore is the persistence gateway for the ledger.
type MessageStore interface {
	ListByUser(ctx context.Context, userID string) ([]Message, error)
	ListBetween(ctx context.Context, a, b string) ([]Message, error)
	Insert(ctx context.Context, m Message) error
	MarkRead(ctx context.Context, id, receiverID string) error
}

// Ledger is the append-only message log with derived conversation views.
type Ledger struct {
	store MessageStore

	// ULIDs share one monotonic entropy source so ids issued within the
	// same millisecond still sort in send order.
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewLedger(store MessageStore) *Ledger {
	return &Ledger{
		store:   store,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

func (l *Ledger) newID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return ulid.MustNew(ulid.Now(), l.entropy).String()
}

// Send appends a message from sender to receiver, unread, stamped now.
func (l *Ledger) Send(ctx context.Context, senderID, receiverID, content, orderID string) (Message, error) {
	if senderID == "" || receiverID == "" || content == "" {
		return Message{}, ErrValidation
	}
	if senderID == receiverID {
		return Message{}, ErrValidation
	}

	msg := Message{
		ID:         l.newID(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		OrderID:    orderID,
		Content:    content,
		Read:       false,
		CreatedAt:  time.Now(),
	}
	if err := l.store.Insert(ctx, msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}

// Conversations groups the actor's messages by the unordered participant
// pair and derives last message and unread count for each group, newest
// conversation first.
func (l *Ledger) Conversations(ctx context.Context, actorID string) ([]Conversation, error) {
	messages, err := l.store.ListByUser(ctx, actorID)
	if err != nil {
		return nil, err
	}

	grouped := make(map[[2]string]*Conversation)
	order := make([][2]string, 0)
	for _, m := range messages {
		key := pairKey(m.SenderID, m.ReceiverID)
		conv, seen := grouped[key]
		if !seen {
			conv = &Conversation{Participants: key}
			grouped[key] = conv
			order = append(order, key)
		}
		// Ledger order is send order, so the latest wins
		if m.ID >= conv.LastMessage.ID {
			conv.LastMessage = m
		}
		if m.ReceiverID == actorID && !m.Read {
			conv.UnreadCount++
		}
	}

	out := make([]Conversation, 0, len(order))
	for _, key := range order {
		out = append(out, *grouped[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastMessage.ID > out[j].LastMessage.ID
	})
	return out, nil
}

// Thread returns the messages between two participants in send order.
func (l *Ledger) Thread(ctx context.Context, actorID, otherID string) ([]Message, error) {
	if actorID == "" || otherID == "" {
		return nil, ErrValidation
	}
	return l.store.ListBetween(ctx, actorID, otherID)
}

// MarkAsRead flips the read flag on one message. Only the receiver may
// flip it; someone else's message comes back not found, so existence is
// not leaked. Conversation-level counts pick the flag up on the next
// recompute.
func (l *Ledger) MarkAsRead(ctx context.Context, actorID, messageID string) error {
	if actorID == "" || messageID == "" {
		return ErrValidation
	}
	return l.store.MarkRead(ctx, messageID, actorID)
}

// pairKey builds the unordered participant pair.
func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}
