package postgres

import (
	"context"
	"database/sql"
	"time"

	"crmapi/internal/model"
	"crmapi/internal/repository"
)

// CalendarEventPostgres is a PostgreSQL implementation of repository.CalendarEventRepository.
type CalendarEventPostgres struct {
	db *sql.DB
}

// NewCalendarEventPostgres creates a new CalendarEventPostgres repository.
func NewCalendarEventPostgres(db *sql.DB) *CalendarEventPostgres {
	return &CalendarEventPostgres{db: db}
}

var _ repository.CalendarEventRepository = (*CalendarEventPostgres)(nil)

const calendarEventColumns = `id, contact_id, title, start_date_time, end_date_time, is_all_day, created_at`

func scanCalendarEvent(s scanner) (*model.CalendarEvent, error) {
	var e model.CalendarEvent
	if err := s.Scan(&e.ID, &e.ContactID, &e.Title, &e.StartDateTime, &e.EndDateTime, &e.IsAllDay, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new calendar event row and returns the stored record.
func (r *CalendarEventPostgres) Create(ctx context.Context, e *model.CalendarEvent) (*model.CalendarEvent, error) {
	const q = `
		INSERT INTO calendar_events (id, contact_id, title, start_date_time, end_date_time, is_all_day, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + calendarEventColumns
	out, err := scanCalendarEvent(r.db.QueryRowContext(ctx, q,
		e.ID, e.ContactID, e.Title, e.StartDateTime, e.EndDateTime, e.IsAllDay, e.CreatedAt))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// ListByContactBetween returns the contact's events starting in [from, to].
func (r *CalendarEventPostgres) ListByContactBetween(ctx context.Context, contactID string, from, to time.Time) ([]model.CalendarEvent, error) {
	const q = `
		SELECT ` + calendarEventColumns + `
		FROM calendar_events
		WHERE contact_id = $1 AND start_date_time >= $2 AND start_date_time <= $3
		ORDER BY start_date_time ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, contactID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.CalendarEvent, 0)
	for rows.Next() {
		e, err := scanCalendarEvent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
