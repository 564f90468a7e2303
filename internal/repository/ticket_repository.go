package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mediatordesk/helpdesk/internal/domain"
)

// ErrVersionConflict signals that a concurrent writer updated the ticket
// between our read and our write. The caller rereads and revalidates.
var ErrVersionConflict = errors.New("ticket modified by concurrent writer")

// TicketRepository encapsulates ticket row persistence. Messages and
// audit entries live in their own repositories.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, project_id, title, description, original_description,
            status, querent_id, responder_id, mediator_id, version, created_at, updated_at, closed_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,1,$10,$11,$12)`
	_, err := querierFrom(ctx, r.pool).Exec(ctx, query,
		ticket.ID,
		ticket.ProjectID,
		ticket.Title,
		ticket.Description,
		ticket.OriginalDescription,
		ticket.Status,
		ticket.QuerentID,
		ticket.ResponderID,
		ticket.MediatorID,
		ticket.CreatedAt,
		ticket.UpdatedAt,
		ticket.ClosedAt,
	)
	if err == nil {
		ticket.Version = 1
	}
	return err
}

// Update writes the ticket row guarded by its version: the row must
// still carry the version we read, otherwise ErrVersionConflict.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status=$1, responder_id=$2, updated_at=$3, closed_at=$4, version=version+1
        WHERE id=$5 AND version=$6`
	cmd, err := querierFrom(ctx, r.pool).Exec(ctx, query,
		ticket.Status,
		ticket.ResponderID,
		ticket.UpdatedAt,
		ticket.ClosedAt,
		ticket.ID,
		ticket.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	ticket.Version++
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, project_id, title, description, original_description, status,
               querent_id, responder_id, mediator_id, version, created_at, updated_at, closed_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := querierFrom(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.ProjectID,
		&ticket.Title,
		&ticket.Description,
		&ticket.OriginalDescription,
		&ticket.Status,
		&ticket.QuerentID,
		&ticket.ResponderID,
		&ticket.MediatorID,
		&ticket.Version,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ClosedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Ticket, error) {
	const query = `
        SELECT id, project_id, title, description, original_description, status,
               querent_id, responder_id, mediator_id, version, created_at, updated_at, closed_at
        FROM tickets WHERE project_id=$1 ORDER BY updated_at DESC`
	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.ProjectID,
			&ticket.Title,
			&ticket.Description,
			&ticket.OriginalDescription,
			&ticket.Status,
			&ticket.QuerentID,
			&ticket.ResponderID,
			&ticket.MediatorID,
			&ticket.Version,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
			&ticket.ClosedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
