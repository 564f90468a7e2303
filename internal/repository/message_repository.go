package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mediatordesk/helpdesk/internal/domain"
)

// MessageRepository persists ticket thread messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	Update(ctx context.Context, msg *domain.Message) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Message, error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository builds repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	const query = `
        INSERT INTO ticket_messages (id, ticket_id, sender_id, content, original_content, status, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := querierFrom(ctx, r.pool).Exec(ctx, query,
		msg.ID,
		msg.TicketID,
		msg.SenderID,
		msg.Content,
		msg.OriginalContent,
		msg.Status,
		msg.Timestamp,
	)
	return err
}

// Update persists a moderation outcome. Only content and status ever
// change; original_content is written once at send time.
func (r *messageRepository) Update(ctx context.Context, msg *domain.Message) error {
	const query = `
        UPDATE ticket_messages SET content=$1, status=$2 WHERE id=$3`
	cmd, err := querierFrom(ctx, r.pool).Exec(ctx, query, msg.Content, msg.Status, msg.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *messageRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Message, error) {
	const query = `
        SELECT id, ticket_id, sender_id, content, original_content, status, created_at
        FROM ticket_messages WHERE ticket_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.TicketID,
			&msg.SenderID,
			&msg.Content,
			&msg.OriginalContent,
			&msg.Status,
			&msg.Timestamp,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
