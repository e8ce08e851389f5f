package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType selects one of the numbered sales documents.
// Each type has its own number prefix and an independent sequence.
type DocumentType string

const (
	DocumentQuote           DocumentType = "quote"
	DocumentSalesOrder      DocumentType = "sales_order"
	DocumentServiceContract DocumentType = "service_contract"
)

// DocumentTypes lists every numbered document type.
var DocumentTypes = []DocumentType{DocumentQuote, DocumentSalesOrder, DocumentServiceContract}

// Statuses a sales document may carry, per type.
const (
	QuoteDraft    = "draft"
	QuoteSent     = "sent"
	QuoteAccepted = "accepted"
	QuoteRejected = "rejected"

	OrderOpen      = "open"
	OrderFulfilled = "fulfilled"
	OrderCancelled = "cancelled"

	ContractActive    = "active"
	ContractCompleted = "completed"
	ContractCancelled = "cancelled"
)

// Statuses returns the allowed statuses of t; the first one is the default.
func (t DocumentType) Statuses() []string {
	switch t {
	case DocumentQuote:
		return []string{QuoteDraft, QuoteSent, QuoteAccepted, QuoteRejected}
	case DocumentSalesOrder:
		return []string{OrderOpen, OrderFulfilled, OrderCancelled}
	case DocumentServiceContract:
		return []string{ContractActive, ContractCompleted, ContractCancelled}
	}
	return nil
}

// Valid reports whether t is a known document type.
func (t DocumentType) Valid() bool {
	return len(t.Statuses()) > 0
}

// SalesDocument is a quote, sales order or service contract.
// StartDate and CompletedAt delimit the engagement window of a service
// contract and are left empty on the other types.
type SalesDocument struct {
	ID          string          `json:"id"`
	Type        DocumentType    `json:"type"`
	Number      string          `json:"number"`
	ContactID   string          `json:"contact_id"`
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	StartDate   *time.Time      `json:"start_date,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
