package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project is a budgeted engagement with a contact. Its window runs from
// StartDate to CompletedAt, or is open-ended while CompletedAt is nil.
type Project struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	ContactID   string          `json:"contact_id"`
	Budget      decimal.Decimal `json:"budget"`
	StartDate   time.Time       `json:"start_date"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ProjectDetail is a project merged with its derived engagement figures.
type ProjectDetail struct {
	Project
	Metrics   EngagementMetrics    `json:"metrics"`
	Breakdown *EngagementBreakdown `json:"breakdown,omitempty"`
}
