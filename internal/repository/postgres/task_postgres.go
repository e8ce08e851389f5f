package postgres

import (
	"context"
	"database/sql"
	"time"

	"crmapi/internal/model"
	"crmapi/internal/repository"
)

// TaskPostgres is a PostgreSQL implementation of repository.TaskRepository.
type TaskPostgres struct {
	db *sql.DB
}

// NewTaskPostgres creates a new TaskPostgres repository.
func NewTaskPostgres(db *sql.DB) *TaskPostgres {
	return &TaskPostgres{db: db}
}

var _ repository.TaskRepository = (*TaskPostgres)(nil)

const taskColumns = `id, contact_id, title, estimated_hours, actual_hours, created_at`

func scanTask(s scanner) (*model.Task, error) {
	var t model.Task
	if err := s.Scan(&t.ID, &t.ContactID, &t.Title, &t.EstimatedHours, &t.ActualHours, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new task row and returns the stored record.
func (r *TaskPostgres) Create(ctx context.Context, t *model.Task) (*model.Task, error) {
	const q = `
		INSERT INTO tasks (id, contact_id, title, estimated_hours, actual_hours, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + taskColumns
	out, err := scanTask(r.db.QueryRowContext(ctx, q,
		t.ID, t.ContactID, t.Title, t.EstimatedHours, t.ActualHours, t.CreatedAt))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// ListByContactCreatedBetween returns the contact's tasks created in [from, to].
func (r *TaskPostgres) ListByContactCreatedBetween(ctx context.Context, contactID string, from, to time.Time) ([]model.Task, error) {
	const q = `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE contact_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, contactID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
