package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"crmapi/internal/model"
	"crmapi/internal/repository"
	"crmapi/internal/storage"
)

// transitions lists the statuses each ticket status may move to.
var transitions = map[string][]string{
	model.TicketOpen:       {model.TicketInProgress, model.TicketClosed},
	model.TicketInProgress: {model.TicketResolved, model.TicketClosed},
	model.TicketResolved:   {model.TicketInProgress, model.TicketClosed},
	model.TicketClosed:     {},
}

// ticketStatuses fixes the order in which source statuses are listed.
var ticketStatuses = []string{model.TicketOpen, model.TicketInProgress, model.TicketResolved, model.TicketClosed}

// sourcesOf returns the statuses a ticket may move to status from.
func sourcesOf(status string) []string {
	var from []string
	for _, s := range ticketStatuses {
		if CanTransition(s, status) {
			from = append(from, s)
		}
	}
	return from
}

// CanTransition reports whether a ticket may move from one status to another.
func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TicketInput is the payload for opening a ticket.
type TicketInput struct {
	ContactID   string `json:"contact_id"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

func (in TicketInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.ContactID, validation.Required, is.UUID),
		validation.Field(&in.Subject, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Description, validation.Length(0, 10000)),
		validation.Field(&in.Priority, validation.In(model.PriorityLow, model.PriorityNormal, model.PriorityHigh, model.PriorityUrgent)),
	)
}

// TicketFilter narrows ticket listings.
type TicketFilter struct {
	ContactID string
	Status    string
}

// UploadInput describes an attachment stream.
type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
}

// TicketService manages support tickets and their attachments.
type TicketService interface {
	Create(ctx context.Context, in TicketInput) (*model.Ticket, error)
	Get(ctx context.Context, id string) (*model.Ticket, error)
	List(ctx context.Context, f TicketFilter, limit, offset int) (*ListResult[model.Ticket], error)

	// UpdateStatus moves a ticket along the workflow, returning
	// ErrInvalidTransition for moves the workflow does not allow.
	UpdateStatus(ctx context.Context, id, status string) (*model.Ticket, error)

	// UploadAttachment streams r to object storage under
	// tickets/<ticket>/<uuid><ext> and records it. The object is removed
	// again when the record cannot be saved.
	UploadAttachment(ctx context.Context, ticketID string, r io.Reader, in UploadInput) (*model.Attachment, error)

	ListAttachments(ctx context.Context, ticketID string) ([]model.Attachment, error)
	GetAttachment(ctx context.Context, id string) (*model.Attachment, error)

	// AttachmentURL returns a presigned download URL.
	AttachmentURL(ctx context.Context, id string) (string, error)

	// OpenAttachment streams an attachment. The caller closes the reader.
	OpenAttachment(ctx context.Context, id string) (io.ReadCloser, *model.Attachment, error)

	// DeleteAttachment removes the object first, then its record.
	DeleteAttachment(ctx context.Context, id string) error
}

type ticketService struct {
	tickets     repository.TicketRepository
	attachments repository.AttachmentRepository
	contacts    repository.ContactRepository
	store       storage.Storage
	now         func() time.Time
}

// NewTicketService constructs a new TicketService.
func NewTicketService(tickets repository.TicketRepository, attachments repository.AttachmentRepository, contacts repository.ContactRepository, store storage.Storage) TicketService {
	return &ticketService{tickets: tickets, attachments: attachments, contacts: contacts, store: store, now: utcNow}
}

func (s *ticketService) Create(ctx context.Context, in TicketInput) (*model.Ticket, error) {
	in.Subject = strings.TrimSpace(in.Subject)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := requireContact(ctx, s.contacts, in.ContactID); err != nil {
		return nil, err
	}
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}
	now := s.now()
	t, err := s.tickets.Create(ctx, &model.Ticket{
		ID:          uuid.New().String(),
		ContactID:   in.ContactID,
		Subject:     in.Subject,
		Description: in.Description,
		Status:      model.TicketOpen,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, translate(err)
	}
	return t, nil
}

func (s *ticketService) Get(ctx context.Context, id string) (*model.Ticket, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	t, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return t, nil
}

func (s *ticketService) List(ctx context.Context, f TicketFilter, limit, offset int) (*ListResult[model.Ticket], error) {
	if f.Status != "" {
		if _, ok := transitions[f.Status]; !ok {
			return nil, validation.Errors{"status": fmt.Errorf("unknown status %q", f.Status)}
		}
	}
	res, err := s.tickets.List(ctx, repository.TicketFilter{ContactID: f.ContactID, Status: f.Status}, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}

func (s *ticketService) UpdateStatus(ctx context.Context, id, status string) (*model.Ticket, error) {
	if _, ok := transitions[status]; !ok {
		return nil, validation.Errors{"status": fmt.Errorf("unknown status %q", status)}
	}
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(t.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, t.Status, status)
	}
	updated, err := s.tickets.UpdateStatus(ctx, id, sourcesOf(status), status, s.now())
	if err != nil {
		return nil, translate(err)
	}
	return updated, nil
}
