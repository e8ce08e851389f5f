package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"crmapi/internal/engagement"
	"crmapi/internal/model"
	"crmapi/internal/repository"
	repoMocks "crmapi/internal/repository/mocks"
)

func newSalesDocumentService() (*salesDocumentService, *repoMocks.MockSalesDocumentRepository, *repoMocks.MockContactRepository, *mockCalculator) {
	mRepo := new(repoMocks.MockSalesDocumentRepository)
	mContacts := new(repoMocks.MockContactRepository)
	mCalc := new(mockCalculator)
	return &salesDocumentService{repo: mRepo, contacts: mContacts, metrics: mCalc, now: clock}, mRepo, mContacts, mCalc
}

func TestSalesDocumentService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		docType    model.DocumentType
		in         SalesDocumentInput
		setupMocks func(mRepo *repoMocks.MockSalesDocumentRepository, mContacts *repoMocks.MockContactRepository)
		wantStatus string
		wantField  string
		wantErr    error
	}{
		{
			name:    "quote defaults to draft",
			docType: model.DocumentQuote,
			in:      SalesDocumentInput{ContactID: contactID, Title: "Redesign", Amount: decimal.NewFromInt(1500)},
			setupMocks: func(mRepo *repoMocks.MockSalesDocumentRepository, mContacts *repoMocks.MockContactRepository) {
				mContacts.On("FindByID", ctx, contactID).Return(&model.Contact{ID: contactID}, nil)
				mRepo.On("Create", ctx, mock.MatchedBy(func(d *model.SalesDocument) bool {
					return d.Type == model.DocumentQuote && d.Number == "" && d.CreatedAt.Equal(fixedNow)
				})).Return(func(_ context.Context, d *model.SalesDocument) *model.SalesDocument {
					out := *d
					out.Number = "P2025-0001"
					return &out
				}, nil)
			},
			wantStatus: model.QuoteDraft,
		},
		{
			name:    "contract keeps explicit status",
			docType: model.DocumentServiceContract,
			in:      SalesDocumentInput{ContactID: contactID, Title: "Support", Status: model.ContractCompleted},
			setupMocks: func(mRepo *repoMocks.MockSalesDocumentRepository, mContacts *repoMocks.MockContactRepository) {
				mContacts.On("FindByID", ctx, contactID).Return(&model.Contact{ID: contactID}, nil)
				mRepo.On("Create", ctx, mock.Anything).
					Return(func(_ context.Context, d *model.SalesDocument) *model.SalesDocument { return d }, nil)
			},
			wantStatus: model.ContractCompleted,
		},
		{
			name:       "status of another type",
			docType:    model.DocumentSalesOrder,
			in:         SalesDocumentInput{ContactID: contactID, Title: "Order", Status: model.QuoteDraft},
			setupMocks: func(*repoMocks.MockSalesDocumentRepository, *repoMocks.MockContactRepository) {},
			wantField:  "status",
		},
		{
			name:       "negative amount",
			docType:    model.DocumentQuote,
			in:         SalesDocumentInput{ContactID: contactID, Title: "Quote", Amount: decimal.NewFromInt(-1)},
			setupMocks: func(*repoMocks.MockSalesDocumentRepository, *repoMocks.MockContactRepository) {},
			wantField:  "amount",
		},
		{
			name:    "unknown contact",
			docType: model.DocumentQuote,
			in:      SalesDocumentInput{ContactID: ghostContactID, Title: "Quote"},
			setupMocks: func(_ *repoMocks.MockSalesDocumentRepository, mContacts *repoMocks.MockContactRepository) {
				mContacts.On("FindByID", ctx, ghostContactID).Return(nil, repository.ErrNotFound)
			},
			wantField: "contact_id",
		},
		{
			name:    "duplicate number",
			docType: model.DocumentQuote,
			in:      SalesDocumentInput{ContactID: contactID, Title: "Quote"},
			setupMocks: func(mRepo *repoMocks.MockSalesDocumentRepository, mContacts *repoMocks.MockContactRepository) {
				mContacts.On("FindByID", ctx, contactID).Return(&model.Contact{ID: contactID}, nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, repository.ErrConflict)
			},
			wantErr: ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mRepo, mContacts, _ := newSalesDocumentService()
			tt.setupMocks(mRepo, mContacts)

			got, err := svc.Create(ctx, tt.docType, tt.in)

			switch {
			case tt.wantField != "":
				assertFieldError(t, err, tt.wantField)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantStatus, got.Status)
				assert.Equal(t, tt.docType, got.Type)
			}
			mRepo.AssertExpectations(t)
			mContacts.AssertExpectations(t)
		})
	}
}

func TestSalesDocumentService_ConvertQuote(t *testing.T) {
	ctx := context.Background()
	quote := &model.SalesDocument{
		ID:        "q1",
		Type:      model.DocumentQuote,
		Number:    "P2025-0003",
		ContactID: contactID,
		Title:     "Redesign",
		Amount:    decimal.RequireFromString("1500.50"),
		Status:    model.QuoteSent,
	}

	t.Run("creates open order and accepts quote", func(t *testing.T) {
		svc, mRepo, _, _ := newSalesDocumentService()
		mRepo.On("FindByID", ctx, model.DocumentQuote, "q1").Return(quote, nil)
		mRepo.On("Convert", ctx, "q1", []string{model.QuoteDraft, model.QuoteSent}, model.QuoteAccepted, mock.MatchedBy(func(d *model.SalesDocument) bool {
			return d.Type == model.DocumentSalesOrder &&
				d.Status == model.OrderOpen &&
				d.ContactID == contactID &&
				d.Title == "Redesign" &&
				d.Amount.Equal(quote.Amount)
		})).Return(&model.SalesDocument{ID: "o1", Number: "OV2025-0001", Type: model.DocumentSalesOrder}, nil)

		got, err := svc.ConvertQuote(ctx, "q1")

		require.NoError(t, err)
		assert.Equal(t, "OV2025-0001", got.Number)
		mRepo.AssertExpectations(t)
	})

	t.Run("already accepted", func(t *testing.T) {
		svc, mRepo, _, _ := newSalesDocumentService()
		accepted := *quote
		accepted.Status = model.QuoteAccepted
		mRepo.On("FindByID", ctx, model.DocumentQuote, "q1").Return(&accepted, nil)

		_, err := svc.ConvertQuote(ctx, "q1")

		assert.ErrorIs(t, err, ErrInvalidTransition)
		mRepo.AssertNotCalled(t, "Convert", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("converted concurrently after the read", func(t *testing.T) {
		svc, mRepo, _, _ := newSalesDocumentService()
		mRepo.On("FindByID", ctx, model.DocumentQuote, "q1").Return(quote, nil)
		mRepo.On("Convert", ctx, "q1", mock.Anything, model.QuoteAccepted, mock.Anything).
			Return(nil, repository.ErrStatusMismatch)

		got, err := svc.ConvertQuote(ctx, "q1")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("missing quote", func(t *testing.T) {
		svc, mRepo, _, _ := newSalesDocumentService()
		mRepo.On("FindByID", ctx, model.DocumentQuote, "nope").Return(nil, repository.ErrNotFound)

		_, err := svc.ConvertQuote(ctx, "nope")

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSalesDocumentService_ContractMetrics(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	done := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)

	t.Run("window from start date to completion", func(t *testing.T) {
		svc, mRepo, _, mCalc := newSalesDocumentService()
		mRepo.On("FindByID", ctx, model.DocumentServiceContract, "sc1").Return(&model.SalesDocument{
			ID:          "sc1",
			ContactID:   contactID,
			Amount:      decimal.NewFromInt(3000),
			StartDate:   &start,
			CompletedAt: &done,
			CreatedAt:   fixedNow,
		}, nil)
		report := &model.EngagementReport{EngagementMetrics: model.EngagementMetrics{ActualHours: 50, HourlyRate: 60}}
		mCalc.On("Calculate", ctx, engagement.Window{ContactID: contactID, Start: start, End: &done}, decimal.NewFromInt(3000), true).
			Return(report, nil)

		got, err := svc.ContractMetrics(ctx, "sc1", true)

		require.NoError(t, err)
		assert.Equal(t, 60.0, got.HourlyRate)
		mCalc.AssertExpectations(t)
	})

	t.Run("falls back to creation date", func(t *testing.T) {
		svc, mRepo, _, mCalc := newSalesDocumentService()
		mRepo.On("FindByID", ctx, model.DocumentServiceContract, "sc2").Return(&model.SalesDocument{
			ID:        "sc2",
			ContactID: otherContactID,
			Amount:    decimal.Zero,
			CreatedAt: fixedNow,
		}, nil)
		mCalc.On("Calculate", ctx, mock.MatchedBy(func(w engagement.Window) bool {
			return w.Start.Equal(fixedNow) && w.End == nil && w.ContactID == otherContactID
		}), decimal.Zero, false).Return(&model.EngagementReport{}, nil)

		_, err := svc.ContractMetrics(ctx, "sc2", false)

		require.NoError(t, err)
		mCalc.AssertExpectations(t)
	})

	t.Run("calculator error", func(t *testing.T) {
		svc, mRepo, _, mCalc := newSalesDocumentService()
		mRepo.On("FindByID", ctx, model.DocumentServiceContract, "sc3").Return(&model.SalesDocument{ID: "sc3", CreatedAt: fixedNow}, nil)
		mCalc.On("Calculate", ctx, mock.Anything, mock.Anything, false).Return(nil, errors.New("list tasks: timeout"))

		_, err := svc.ContractMetrics(ctx, "sc3", false)

		assert.EqualError(t, err, "list tasks: timeout")
	})
}
