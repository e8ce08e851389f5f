package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"crmapi/internal/model"
	"crmapi/internal/repository"
)

// TicketPostgres is a PostgreSQL implementation of repository.TicketRepository.
type TicketPostgres struct {
	db *sql.DB
}

// NewTicketPostgres creates a new TicketPostgres repository.
func NewTicketPostgres(db *sql.DB) *TicketPostgres {
	return &TicketPostgres{db: db}
}

var _ repository.TicketRepository = (*TicketPostgres)(nil)

const ticketColumns = `id, contact_id, subject, description, status, priority, created_at, updated_at`

func scanTicket(s scanner) (*model.Ticket, error) {
	var t model.Ticket
	if err := s.Scan(&t.ID, &t.ContactID, &t.Subject, &t.Description, &t.Status, &t.Priority, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new ticket row and returns the stored record.
func (r *TicketPostgres) Create(ctx context.Context, t *model.Ticket) (*model.Ticket, error) {
	const q = `
		INSERT INTO tickets (id, contact_id, subject, description, status, priority, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + ticketColumns
	out, err := scanTicket(r.db.QueryRowContext(ctx, q,
		t.ID, t.ContactID, t.Subject, t.Description, t.Status, t.Priority, t.CreatedAt, t.UpdatedAt))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// FindByID fetches a single ticket by its ID.
func (r *TicketPostgres) FindByID(ctx context.Context, id string) (*model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`
	out, err := scanTicket(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// List returns tickets matching f, most recently updated first, with a total count.
func (r *TicketPostgres) List(ctx context.Context, f repository.TicketFilter, pq repository.PageQuery) (*repository.PageResult[model.Ticket], error) {
	var (
		conds []string
		args  []any
	)
	if f.ContactID != "" {
		args = append(args, f.ContactID)
		conds = append(conds, fmt.Sprintf("contact_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	total, err := count(ctx, r.db, `SELECT COUNT(*) FROM tickets`+where, args...)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`SELECT %s FROM tickets%s ORDER BY updated_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		ticketColumns, where, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, q, append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Ticket]{Items: items, Total: total}, nil
}

// UpdateStatus moves a ticket out of one of the from statuses and returns
// the updated record.
func (r *TicketPostgres) UpdateStatus(ctx context.Context, id string, from []string, status string, updatedAt time.Time) (*model.Ticket, error) {
	guard, guardArgs := statusIn(4, from)
	q := `
		UPDATE tickets SET status = $2, updated_at = $3
		WHERE id = $1 AND ` + guard + `
		RETURNING ` + ticketColumns
	out, err := scanTicket(r.db.QueryRowContext(ctx, q, append([]any{id, status, updatedAt}, guardArgs...)...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, missingOrMismatch(ctx, r.db, "tickets", id)
	}
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}
