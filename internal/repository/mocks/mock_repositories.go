package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"crmapi/internal/model"
	"crmapi/internal/repository"
)

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, c *model.Contact) (*model.Contact, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contact), args.Error(1)
}

func (m *MockContactRepository) FindByID(ctx context.Context, id string) (*model.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contact), args.Error(1)
}

func (m *MockContactRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Contact], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Contact]), args.Error(1)
}

type MockSalesDocumentRepository struct {
	mock.Mock
}

func (m *MockSalesDocumentRepository) Create(ctx context.Context, doc *model.SalesDocument) (*model.SalesDocument, error) {
	args := m.Called(ctx, doc)
	if f, ok := args.Get(0).(func(context.Context, *model.SalesDocument) *model.SalesDocument); ok {
		return f(ctx, doc), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SalesDocument), args.Error(1)
}

func (m *MockSalesDocumentRepository) Convert(ctx context.Context, quoteID string, from []string, quoteStatus string, target *model.SalesDocument) (*model.SalesDocument, error) {
	args := m.Called(ctx, quoteID, from, quoteStatus, target)
	if f, ok := args.Get(0).(func(context.Context, string, []string, string, *model.SalesDocument) *model.SalesDocument); ok {
		return f(ctx, quoteID, from, quoteStatus, target), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SalesDocument), args.Error(1)
}

func (m *MockSalesDocumentRepository) FindByID(ctx context.Context, t model.DocumentType, id string) (*model.SalesDocument, error) {
	args := m.Called(ctx, t, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SalesDocument), args.Error(1)
}

func (m *MockSalesDocumentRepository) List(ctx context.Context, t model.DocumentType, pq repository.PageQuery) (*repository.PageResult[model.SalesDocument], error) {
	args := m.Called(ctx, t, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.SalesDocument]), args.Error(1)
}

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id string) (*model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Project], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Project]), args.Error(1)
}

type MockCalendarEventRepository struct {
	mock.Mock
}

func (m *MockCalendarEventRepository) Create(ctx context.Context, e *model.CalendarEvent) (*model.CalendarEvent, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CalendarEvent), args.Error(1)
}

func (m *MockCalendarEventRepository) ListByContactBetween(ctx context.Context, contactID string, from, to time.Time) ([]model.CalendarEvent, error) {
	args := m.Called(ctx, contactID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CalendarEvent), args.Error(1)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, t *model.Task) (*model.Task, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByContactCreatedBetween(ctx context.Context, contactID string, from, to time.Time) ([]model.Task, error) {
	args := m.Called(ctx, contactID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, t *model.Ticket) (*model.Ticket, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindByID(ctx context.Context, id string) (*model.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) List(ctx context.Context, f repository.TicketFilter, pq repository.PageQuery) (*repository.PageResult[model.Ticket], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Ticket]), args.Error(1)
}

func (m *MockTicketRepository) UpdateStatus(ctx context.Context, id string, from []string, status string, updatedAt time.Time) (*model.Ticket, error) {
	args := m.Called(ctx, id, from, status, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

type MockAttachmentRepository struct {
	mock.Mock
}

func (m *MockAttachmentRepository) Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error) {
	args := m.Called(ctx, a)
	if f, ok := args.Get(0).(func(context.Context, *model.Attachment) *model.Attachment); ok {
		return f(ctx, a), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) FindByID(ctx context.Context, id string) (*model.Attachment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) ListByTicket(ctx context.Context, ticketID string) ([]model.Attachment, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
