package postgres

import (
	"context"
	"database/sql"

	"crmapi/internal/model"
	"crmapi/internal/repository"
)

// AttachmentPostgres is a PostgreSQL implementation of repository.AttachmentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type AttachmentPostgres struct {
	db *sql.DB
}

// NewAttachmentPostgres creates a new AttachmentPostgres repository.
func NewAttachmentPostgres(db *sql.DB) *AttachmentPostgres {
	return &AttachmentPostgres{db: db}
}

var _ repository.AttachmentRepository = (*AttachmentPostgres)(nil)

const attachmentColumns = `id, ticket_id, filename, storage_path, size, content_type, created_at`

func scanAttachment(s scanner) (*model.Attachment, error) {
	var a model.Attachment
	if err := s.Scan(
		&a.ID,
		&a.TicketID,
		&a.Filename,
		&a.StoragePath,
		&a.Size,
		&a.ContentType,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new attachment row and returns the stored record.
func (r *AttachmentPostgres) Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error) {
	const q = `
		INSERT INTO ticket_attachments (id, ticket_id, filename, storage_path, size, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + attachmentColumns
	out, err := scanAttachment(r.db.QueryRowContext(ctx, q,
		a.ID,
		a.TicketID,
		a.Filename,
		a.StoragePath,
		a.Size,
		a.ContentType,
		a.CreatedAt,
	))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// FindByID fetches a single attachment by its ID.
func (r *AttachmentPostgres) FindByID(ctx context.Context, id string) (*model.Attachment, error) {
	const q = `SELECT ` + attachmentColumns + ` FROM ticket_attachments WHERE id = $1`
	out, err := scanAttachment(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// ListByTicket returns a ticket's attachments in upload order.
func (r *AttachmentPostgres) ListByTicket(ctx context.Context, ticketID string) ([]model.Attachment, error) {
	const q = `
		SELECT ` + attachmentColumns + `
		FROM ticket_attachments
		WHERE ticket_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Attachment, 0)
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes an attachment by ID. It does not return an error if the row does not exist.
func (r *AttachmentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM ticket_attachments WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
