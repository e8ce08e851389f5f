package postgres

import (
	"context"
	"database/sql"

	"crmapi/internal/model"
	"crmapi/internal/repository"
)

// ProjectPostgres is a PostgreSQL implementation of repository.ProjectRepository.
type ProjectPostgres struct {
	db *sql.DB
}

// NewProjectPostgres creates a new ProjectPostgres repository.
func NewProjectPostgres(db *sql.DB) *ProjectPostgres {
	return &ProjectPostgres{db: db}
}

var _ repository.ProjectRepository = (*ProjectPostgres)(nil)

const projectColumns = `id, name, contact_id, budget, start_date, completed_at, created_at`

func scanProject(s scanner) (*model.Project, error) {
	var p model.Project
	if err := s.Scan(&p.ID, &p.Name, &p.ContactID, &p.Budget, &p.StartDate, &p.CompletedAt, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new project row and returns the stored record.
func (r *ProjectPostgres) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	const q = `
		INSERT INTO projects (id, name, contact_id, budget, start_date, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + projectColumns
	out, err := scanProject(r.db.QueryRowContext(ctx, q,
		p.ID, p.Name, p.ContactID, p.Budget, p.StartDate, p.CompletedAt, p.CreatedAt))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// FindByID fetches a single project by its ID.
func (r *ProjectPostgres) FindByID(ctx context.Context, id string) (*model.Project, error) {
	const q = `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	out, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// List returns projects, most recently started first, with a total count.
func (r *ProjectPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Project], error) {
	total, err := count(ctx, r.db, `SELECT COUNT(*) FROM projects`)
	if err != nil {
		return nil, err
	}

	const q = `
		SELECT ` + projectColumns + `
		FROM projects
		ORDER BY start_date DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, q, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Project]{Items: items, Total: total}, nil
}
