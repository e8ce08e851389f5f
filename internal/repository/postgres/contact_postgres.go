package postgres

import (
	"context"
	"database/sql"

	"crmapi/internal/model"
	"crmapi/internal/repository"
)

// ContactPostgres is a PostgreSQL implementation of repository.ContactRepository.
type ContactPostgres struct {
	db *sql.DB
}

// NewContactPostgres creates a new ContactPostgres repository.
func NewContactPostgres(db *sql.DB) *ContactPostgres {
	return &ContactPostgres{db: db}
}

var _ repository.ContactRepository = (*ContactPostgres)(nil)

const contactColumns = `id, name, email, phone, company, created_at`

func scanContact(s scanner) (*model.Contact, error) {
	var c model.Contact
	if err := s.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new contact row and returns the stored record.
func (r *ContactPostgres) Create(ctx context.Context, c *model.Contact) (*model.Contact, error) {
	const q = `
		INSERT INTO contacts (id, name, email, phone, company, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + contactColumns
	out, err := scanContact(r.db.QueryRowContext(ctx, q, c.ID, c.Name, c.Email, c.Phone, c.Company, c.CreatedAt))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// FindByID fetches a single contact by its ID.
func (r *ContactPostgres) FindByID(ctx context.Context, id string) (*model.Contact, error) {
	const q = `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`
	out, err := scanContact(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// List returns contacts ordered by name using LIMIT/OFFSET pagination and a total count.
func (r *ContactPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Contact], error) {
	total, err := count(ctx, r.db, `SELECT COUNT(*) FROM contacts`)
	if err != nil {
		return nil, err
	}

	const q = `
		SELECT ` + contactColumns + `
		FROM contacts
		ORDER BY name ASC, id ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, q, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Contact]{Items: items, Total: total}, nil
}
