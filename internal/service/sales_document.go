package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"crmapi/internal/engagement"
	"crmapi/internal/model"
	"crmapi/internal/repository"
)

// SalesDocumentInput is the payload for creating a quote, sales order or
// service contract. An empty Status selects the type's initial status.
type SalesDocumentInput struct {
	ContactID   string          `json:"contact_id"`
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	StartDate   *time.Time      `json:"start_date"`
	CompletedAt *time.Time      `json:"completed_at"`
}

func (in SalesDocumentInput) validate(t model.DocumentType) error {
	statuses := make([]any, 0, len(t.Statuses()))
	for _, s := range t.Statuses() {
		statuses = append(statuses, s)
	}
	var start time.Time
	if in.StartDate != nil {
		start = *in.StartDate
	}
	return validation.ValidateStruct(&in,
		validation.Field(&in.ContactID, validation.Required, is.UUID),
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Amount, validation.By(nonNegative)),
		validation.Field(&in.Status, validation.In(statuses...)),
		validation.Field(&in.CompletedAt, validation.By(notBefore(start))),
	)
}

// convertibleQuoteStatuses are the quote statuses ConvertQuote accepts.
var convertibleQuoteStatuses = []string{model.QuoteDraft, model.QuoteSent}

// SalesDocumentService manages the numbered sales documents.
type SalesDocumentService interface {
	// Create validates the input and stores a new document of type t with
	// the next number of its series.
	Create(ctx context.Context, t model.DocumentType, in SalesDocumentInput) (*model.SalesDocument, error)

	Get(ctx context.Context, t model.DocumentType, id string) (*model.SalesDocument, error)
	List(ctx context.Context, t model.DocumentType, limit, offset int) (*ListResult[model.SalesDocument], error)

	// ConvertQuote accepts a draft or sent quote and creates the sales order
	// that carries its contact, title and amount.
	ConvertQuote(ctx context.Context, quoteID string) (*model.SalesDocument, error)

	// ContractMetrics computes engagement figures over a service contract's
	// window, using its amount as the budget.
	ContractMetrics(ctx context.Context, id string, withBreakdown bool) (*model.EngagementReport, error)
}

type salesDocumentService struct {
	repo     repository.SalesDocumentRepository
	contacts repository.ContactRepository
	metrics  MetricsCalculator
	now      func() time.Time
}

// NewSalesDocumentService constructs a new SalesDocumentService.
func NewSalesDocumentService(repo repository.SalesDocumentRepository, contacts repository.ContactRepository, metrics MetricsCalculator) SalesDocumentService {
	return &salesDocumentService{repo: repo, contacts: contacts, metrics: metrics, now: utcNow}
}

func (s *salesDocumentService) Create(ctx context.Context, t model.DocumentType, in SalesDocumentInput) (*model.SalesDocument, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("create document: unknown type %q", t)
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := in.validate(t); err != nil {
		return nil, err
	}
	if err := requireContact(ctx, s.contacts, in.ContactID); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = t.Statuses()[0]
	}

	doc, err := s.repo.Create(ctx, &model.SalesDocument{
		ID:          uuid.New().String(),
		Type:        t,
		ContactID:   in.ContactID,
		Title:       in.Title,
		Amount:      in.Amount,
		Status:      status,
		StartDate:   in.StartDate,
		CompletedAt: in.CompletedAt,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return nil, translate(err)
	}
	return doc, nil
}

func (s *salesDocumentService) Get(ctx context.Context, t model.DocumentType, id string) (*model.SalesDocument, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, t, id)
	if err != nil {
		return nil, translate(err)
	}
	return doc, nil
}

func (s *salesDocumentService) List(ctx context.Context, t model.DocumentType, limit, offset int) (*ListResult[model.SalesDocument], error) {
	res, err := s.repo.List(ctx, t, pageQuery(limit, offset))
	if err != nil {
		return nil, err
	}
	return listResult(res), nil
}

func (s *salesDocumentService) ConvertQuote(ctx context.Context, quoteID string) (*model.SalesDocument, error) {
	quote, err := s.Get(ctx, model.DocumentQuote, quoteID)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(convertibleQuoteStatuses, quote.Status) {
		return nil, fmt.Errorf("%w: quote %s is %s", ErrInvalidTransition, quote.Number, quote.Status)
	}

	order, err := s.repo.Convert(ctx, quote.ID, convertibleQuoteStatuses, model.QuoteAccepted, &model.SalesDocument{
		ID:        uuid.New().String(),
		Type:      model.DocumentSalesOrder,
		ContactID: quote.ContactID,
		Title:     quote.Title,
		Amount:    quote.Amount,
		Status:    model.OrderOpen,
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, translate(err)
	}
	return order, nil
}

func (s *salesDocumentService) ContractMetrics(ctx context.Context, id string, withBreakdown bool) (*model.EngagementReport, error) {
	contract, err := s.Get(ctx, model.DocumentServiceContract, id)
	if err != nil {
		return nil, err
	}
	start := contract.CreatedAt
	if contract.StartDate != nil {
		start = *contract.StartDate
	}
	return s.metrics.Calculate(ctx, engagement.Window{
		ContactID: contract.ContactID,
		Start:     start,
		End:       contract.CompletedAt,
	}, contract.Amount, withBreakdown)
}
