package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mediatordesk/helpdesk/internal/domain"
)

// AuditRepository stores the append-only ticket audit trail. Entries are
// never updated or deleted; a bigserial seq column breaks timestamp ties
// so the read order always matches insertion order.
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditLogEntry) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.AuditLogEntry, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository builds repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Append(ctx context.Context, entry *domain.AuditLogEntry) error {
	const query = `
        INSERT INTO audit_log (id, ticket_id, user_id, role, action, details, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := querierFrom(ctx, r.pool).Exec(ctx, query,
		entry.ID,
		entry.TicketID,
		entry.UserID,
		entry.Role,
		entry.Action,
		entry.Details,
		entry.Timestamp,
	)
	return err
}

func (r *auditRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.AuditLogEntry, error) {
	const query = `
        SELECT id, ticket_id, user_id, role, action, details, created_at
        FROM audit_log WHERE ticket_id=$1 ORDER BY created_at ASC, seq ASC`
	rows, err := querierFrom(ctx, r.pool).Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditLogEntry
	for rows.Next() {
		var entry domain.AuditLogEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.UserID,
			&entry.Role,
			&entry.Action,
			&entry.Details,
			&entry.Timestamp,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
