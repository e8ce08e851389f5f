package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"crmapi/internal/model"
	"crmapi/internal/numbering"
	"crmapi/internal/repository"
)

// SalesDocumentPostgres is a PostgreSQL implementation of
// repository.SalesDocumentRepository. Quotes, sales orders and service
// contracts share one column layout in three tables.
type SalesDocumentPostgres struct {
	db  *sql.DB
	seq *numbering.Sequencer
}

// NewSalesDocumentPostgres creates a new SalesDocumentPostgres repository.
func NewSalesDocumentPostgres(db *sql.DB, seq *numbering.Sequencer) *SalesDocumentPostgres {
	return &SalesDocumentPostgres{db: db, seq: seq}
}

var _ repository.SalesDocumentRepository = (*SalesDocumentPostgres)(nil)

const salesDocumentColumns = `id, number, contact_id, title, amount, status, start_date, completed_at, created_at`

func scanSalesDocument(s scanner, t model.DocumentType) (*model.SalesDocument, error) {
	d := model.SalesDocument{Type: t}
	if err := s.Scan(
		&d.ID,
		&d.Number,
		&d.ContactID,
		&d.Title,
		&d.Amount,
		&d.Status,
		&d.StartDate,
		&d.CompletedAt,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create numbers and inserts doc in one transaction.
func (r *SalesDocumentPostgres) Create(ctx context.Context, doc *model.SalesDocument) (*model.SalesDocument, error) {
	var out *model.SalesDocument
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		out, err = r.insert(ctx, tx, doc)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Convert moves the quote out of one of the from statuses and inserts
// target in one transaction. The status guard sits in the UPDATE itself, so
// of two concurrent conversions only the first one matches a row.
func (r *SalesDocumentPostgres) Convert(ctx context.Context, quoteID string, from []string, quoteStatus string, target *model.SalesDocument) (*model.SalesDocument, error) {
	var out *model.SalesDocument
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		guard, guardArgs := statusIn(3, from)
		q := `UPDATE quotes SET status = $2 WHERE id = $1 AND ` + guard
		res, err := tx.ExecContext(ctx, q, append([]any{quoteID, quoteStatus}, guardArgs...)...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return missingOrMismatch(ctx, tx, "quotes", quoteID)
		}
		out, err = r.insert(ctx, tx, target)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SalesDocumentPostgres) insert(ctx context.Context, tx *sql.Tx, doc *model.SalesDocument) (*model.SalesDocument, error) {
	table, err := numbering.Table(doc.Type)
	if err != nil {
		return nil, err
	}
	number, err := r.seq.Next(ctx, tx, doc.Type, doc.CreatedAt)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s
	`, table, salesDocumentColumns, salesDocumentColumns)
	row := tx.QueryRowContext(ctx, q,
		doc.ID,
		number,
		doc.ContactID,
		doc.Title,
		doc.Amount,
		doc.Status,
		doc.StartDate,
		doc.CompletedAt,
		doc.CreatedAt,
	)
	out, err := scanSalesDocument(row, doc.Type)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// FindByID fetches a single document of type t by its ID.
func (r *SalesDocumentPostgres) FindByID(ctx context.Context, t model.DocumentType, id string) (*model.SalesDocument, error) {
	table, err := numbering.Table(t)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, salesDocumentColumns, table)
	out, err := scanSalesDocument(r.db.QueryRowContext(ctx, q, id), t)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// List returns documents of type t, newest first, with a total count.
func (r *SalesDocumentPostgres) List(ctx context.Context, t model.DocumentType, pq repository.PageQuery) (*repository.PageResult[model.SalesDocument], error) {
	table, err := numbering.Table(t)
	if err != nil {
		return nil, err
	}
	total, err := count(ctx, r.db, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table))
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, salesDocumentColumns, table)
	rows, err := r.db.QueryContext(ctx, q, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.SalesDocument, 0)
	for rows.Next() {
		d, err := scanSalesDocument(rows, t)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.SalesDocument]{Items: items, Total: total}, nil
}
