package messaging

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGMessageStore implements MessageStore over the Postgres pool.
type PGMessageStore struct {
	pool *pgxpool.Pool
}

func NewPGMessageStore(pool *pgxpool.Pool) *PGMessageStore {
	return &PGMessageStore{pool: pool}
}

const messageColumns = `id, sender_id, receiver_id, COALESCE(order_id::text, ''), content, read, created_at`

func scanMessage(row pgx.Row) (Message, error) {
	var m Message
	err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.OrderID,
		&m.Content, &m.Read, &m.CreatedAt)
	return m, err
}

func (st *PGMessageStore) ListByUser(ctx context.Context, userID string) ([]Message, error) {
	rows, err := st.pool.Query(ctx,
		`SELECT `+messageColumns+` FROM messages
         WHERE sender_id = $1 OR receiver_id = $1 ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	defer rows.Close()
	return collectMessages(rows)
}

func (st *PGMessageStore) ListBetween(ctx context.Context, a, b string) ([]Message, error) {
	rows, err := st.pool.Query(ctx,
		`SELECT `+messageColumns+` FROM messages
         WHERE (sender_id = $1 AND receiver_id = $2)
            OR (sender_id = $2 AND receiver_id = $1)
         ORDER BY id ASC`, a, b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	defer rows.Close()
	return collectMessages(rows)
}

func collectMessages(rows pgx.Rows) ([]Message, error) {
	var messages []Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (st *PGMessageStore) Insert(ctx context.Context, m Message) error {
	var orderID *string
	if m.OrderID != "" {
		orderID = &m.OrderID
	}
	_, err := st.pool.Exec(ctx, `
        INSERT INTO messages (id, sender_id, receiver_id, order_id, content, read, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.SenderID, m.ReceiverID, orderID, m.Content, m.Read, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (st *PGMessageStore) MarkRead(ctx context.Context, id, receiverID string) error {
	ct, err := st.pool.Exec(ctx,
		`UPDATE messages SET read = TRUE WHERE id = $1 AND receiver_id = $2`,
		id, receiverID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if ct.RowsAffected() == 0 {
		return ErrMessageNotFound
	}
	return nil
}
