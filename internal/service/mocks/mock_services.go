package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"crmapi/internal/model"
	"crmapi/internal/service"
)

type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) Create(ctx context.Context, in service.ContactInput) (*model.Contact, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contact), args.Error(1)
}

func (m *MockContactService) Get(ctx context.Context, id string) (*model.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contact), args.Error(1)
}

func (m *MockContactService) List(ctx context.Context, limit, offset int) (*service.ListResult[model.Contact], error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Contact]), args.Error(1)
}

type MockSalesDocumentService struct {
	mock.Mock
}

func (m *MockSalesDocumentService) Create(ctx context.Context, t model.DocumentType, in service.SalesDocumentInput) (*model.SalesDocument, error) {
	args := m.Called(ctx, t, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SalesDocument), args.Error(1)
}

func (m *MockSalesDocumentService) Get(ctx context.Context, t model.DocumentType, id string) (*model.SalesDocument, error) {
	args := m.Called(ctx, t, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SalesDocument), args.Error(1)
}

func (m *MockSalesDocumentService) List(ctx context.Context, t model.DocumentType, limit, offset int) (*service.ListResult[model.SalesDocument], error) {
	args := m.Called(ctx, t, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.SalesDocument]), args.Error(1)
}

func (m *MockSalesDocumentService) ConvertQuote(ctx context.Context, quoteID string) (*model.SalesDocument, error) {
	args := m.Called(ctx, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SalesDocument), args.Error(1)
}

func (m *MockSalesDocumentService) ContractMetrics(ctx context.Context, id string, withBreakdown bool) (*model.EngagementReport, error) {
	args := m.Called(ctx, id, withBreakdown)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EngagementReport), args.Error(1)
}

type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) Create(ctx context.Context, in service.ProjectInput) (*model.Project, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) Get(ctx context.Context, id string) (*model.ProjectDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectDetail), args.Error(1)
}

func (m *MockProjectService) List(ctx context.Context, limit, offset int) (*service.ListResult[model.Project], error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Project]), args.Error(1)
}

func (m *MockProjectService) Metrics(ctx context.Context, id string, withBreakdown bool) (*model.EngagementReport, error) {
	args := m.Called(ctx, id, withBreakdown)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EngagementReport), args.Error(1)
}

type MockSchedulingService struct {
	mock.Mock
}

func (m *MockSchedulingService) CreateEvent(ctx context.Context, in service.CalendarEventInput) (*model.CalendarEvent, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CalendarEvent), args.Error(1)
}

func (m *MockSchedulingService) ListEvents(ctx context.Context, contactID string, r service.TimeRange) ([]model.CalendarEvent, error) {
	args := m.Called(ctx, contactID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CalendarEvent), args.Error(1)
}

func (m *MockSchedulingService) CreateTask(ctx context.Context, in service.TaskInput) (*model.Task, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockSchedulingService) ListTasks(ctx context.Context, contactID string, r service.TimeRange) ([]model.Task, error) {
	args := m.Called(ctx, contactID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

type MockTicketService struct {
	mock.Mock
}

func (m *MockTicketService) Create(ctx context.Context, in service.TicketInput) (*model.Ticket, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketService) Get(ctx context.Context, id string) (*model.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketService) List(ctx context.Context, f service.TicketFilter, limit, offset int) (*service.ListResult[model.Ticket], error) {
	args := m.Called(ctx, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Ticket]), args.Error(1)
}

func (m *MockTicketService) UpdateStatus(ctx context.Context, id, status string) (*model.Ticket, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketService) UploadAttachment(ctx context.Context, ticketID string, r io.Reader, in service.UploadInput) (*model.Attachment, error) {
	args := m.Called(ctx, ticketID, r, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}

func (m *MockTicketService) ListAttachments(ctx context.Context, ticketID string) ([]model.Attachment, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Attachment), args.Error(1)
}

func (m *MockTicketService) GetAttachment(ctx context.Context, id string) (*model.Attachment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}

func (m *MockTicketService) AttachmentURL(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockTicketService) OpenAttachment(ctx context.Context, id string) (io.ReadCloser, *model.Attachment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*model.Attachment), args.Error(2)
}

func (m *MockTicketService) DeleteAttachment(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
