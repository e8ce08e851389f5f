// Package repository defines data access for the CRM entities.
// Implementations live in subpackages (e.g. postgres) and contain no business logic.
package repository

import (
	"context"
	"errors"
	"time"

	"crmapi/internal/model"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("record conflicts with an existing one")
	// ErrStatusMismatch is returned when a guarded status update finds the
	// row in none of the expected statuses.
	ErrStatusMismatch = errors.New("record is not in an expected status")
)

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

// ContactRepository persists contacts.
type ContactRepository interface {
	Create(ctx context.Context, c *model.Contact) (*model.Contact, error)
	FindByID(ctx context.Context, id string) (*model.Contact, error)
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Contact], error)
}

// SalesDocumentRepository persists quotes, sales orders and service contracts.
type SalesDocumentRepository interface {
	// Create assigns the next number of doc.Type for the year of doc.CreatedAt
	// and inserts the document in the same transaction.
	Create(ctx context.Context, doc *model.SalesDocument) (*model.SalesDocument, error)

	// Convert moves quote quoteID from one of the from statuses to
	// quoteStatus and creates target as a new numbered document, atomically.
	// A quote in any other status yields ErrStatusMismatch.
	Convert(ctx context.Context, quoteID string, from []string, quoteStatus string, target *model.SalesDocument) (*model.SalesDocument, error)

	FindByID(ctx context.Context, t model.DocumentType, id string) (*model.SalesDocument, error)
	List(ctx context.Context, t model.DocumentType, pq PageQuery) (*PageResult[model.SalesDocument], error)
}

// ProjectRepository persists projects.
type ProjectRepository interface {
	Create(ctx context.Context, p *model.Project) (*model.Project, error)
	FindByID(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Project], error)
}

// CalendarEventRepository persists calendar events.
type CalendarEventRepository interface {
	Create(ctx context.Context, e *model.CalendarEvent) (*model.CalendarEvent, error)
	// ListByContactBetween returns the events of a contact whose start lies
	// in [from, to], ordered by start.
	ListByContactBetween(ctx context.Context, contactID string, from, to time.Time) ([]model.CalendarEvent, error)
}

// TaskRepository persists tasks.
type TaskRepository interface {
	Create(ctx context.Context, t *model.Task) (*model.Task, error)
	// ListByContactCreatedBetween returns the tasks of a contact created in
	// [from, to], ordered by creation.
	ListByContactCreatedBetween(ctx context.Context, contactID string, from, to time.Time) ([]model.Task, error)
}

// TicketFilter narrows ticket listings. Empty fields do not filter.
type TicketFilter struct {
	ContactID string
	Status    string
}

// TicketRepository persists support tickets.
type TicketRepository interface {
	Create(ctx context.Context, t *model.Ticket) (*model.Ticket, error)
	FindByID(ctx context.Context, id string) (*model.Ticket, error)
	List(ctx context.Context, f TicketFilter, pq PageQuery) (*PageResult[model.Ticket], error)
	// UpdateStatus moves a ticket from one of the from statuses to status.
	// A ticket in any other status yields ErrStatusMismatch.
	UpdateStatus(ctx context.Context, id string, from []string, status string, updatedAt time.Time) (*model.Ticket, error)
}

// AttachmentRepository persists ticket attachment metadata.
type AttachmentRepository interface {
	Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error)
	FindByID(ctx context.Context, id string) (*model.Attachment, error)
	ListByTicket(ctx context.Context, ticketID string) ([]model.Attachment, error)
	// Delete removes an attachment row. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
