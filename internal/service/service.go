// Package service holds the CRM use cases. Services validate input, stamp
// IDs and timestamps, and translate repository errors into the sentinels
// below; persistence and object storage stay behind interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"crmapi/internal/engagement"
	"crmapi/internal/model"
	"crmapi/internal/repository"
)

var (
	ErrIDRequired        = errors.New("id is required")
	ErrNotFound          = errors.New("record not found")
	ErrConflict          = errors.New("record already exists")
	ErrReaderNil         = errors.New("reader is nil")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// ListResult is the service-level DTO for paginated listings.
type ListResult[T any] struct {
	Items []T `json:"data"`
	Total int `json:"total"`
}

// MetricsCalculator computes engagement figures for a contact window.
// *engagement.Calculator satisfies it.
type MetricsCalculator interface {
	Calculate(ctx context.Context, w engagement.Window, budget decimal.Decimal, withBreakdown bool) (*model.EngagementReport, error)
}

func pageQuery(limit, offset int) repository.PageQuery {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return repository.PageQuery{Limit: limit, Offset: offset}
}

func listResult[T any](res *repository.PageResult[T]) *ListResult[T] {
	items := res.Items
	if items == nil {
		items = []T{}
	}
	return &ListResult[T]{Items: items, Total: res.Total}
}

// translate maps repository sentinels to service ones, keeping other errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, repository.ErrStatusMismatch):
		return fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
	}
	return err
}

// requireContact reports a missing contact as a field validation error.
func requireContact(ctx context.Context, contacts repository.ContactRepository, id string) error {
	if _, err := contacts.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return validation.Errors{"contact_id": errors.New("contact does not exist")}
		}
		return fmt.Errorf("find contact: %w", err)
	}
	return nil
}

func nonNegative(value any) error {
	switch v := value.(type) {
	case decimal.Decimal:
		if v.IsNegative() {
			return errors.New("must not be negative")
		}
	case *float64:
		if v != nil && *v < 0 {
			return errors.New("must not be negative")
		}
	}
	return nil
}

// notBefore checks that a *time.Time or time.Time is not earlier than start.
func notBefore(start time.Time) validation.RuleFunc {
	return func(value any) error {
		var t time.Time
		switch v := value.(type) {
		case time.Time:
			t = v
		case *time.Time:
			if v == nil {
				return nil
			}
			t = *v
		}
		if !start.IsZero() && t.Before(start) {
			return errors.New("must not be before the start")
		}
		return nil
	}
}

func utcNow() time.Time {
	return time.Now().UTC()
}
