package service

import (
	"context"
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"crmapi/internal/engagement"
	"crmapi/internal/model"
	"crmapi/internal/repository"
)

type mockCalculator struct {
	mock.Mock
}

func (m *mockCalculator) Calculate(ctx context.Context, w engagement.Window, budget decimal.Decimal, withBreakdown bool) (*model.EngagementReport, error) {
	args := m.Called(ctx, w, budget, withBreakdown)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EngagementReport), args.Error(1)
}

const (
	contactID      = "6f1c2a3e-8b4d-4e5f-9a10-1b2c3d4e5f60"
	otherContactID = "0d9e8f7a-6b5c-4d3e-8f21-a0b1c2d3e4f5"
	ghostContactID = "9a8b7c6d-5e4f-4a3b-9c2d-1e0f9a8b7c6d"
)

var fixedNow = time.Date(2025, time.June, 2, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func TestPageQuery(t *testing.T) {
	assert.Equal(t, repository.PageQuery{Limit: 10, Offset: 0}, pageQuery(0, -5))
	assert.Equal(t, repository.PageQuery{Limit: 25, Offset: 50}, pageQuery(25, 50))
	assert.Equal(t, repository.PageQuery{Limit: 100, Offset: 0}, pageQuery(1000, 0))
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(repository.ErrNotFound), ErrNotFound)
	assert.ErrorIs(t, translate(errors.Join(repository.ErrConflict)), ErrConflict)

	other := errors.New("boom")
	assert.Same(t, other, translate(other))
}

func TestNotBefore(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rule := notBefore(start)

	earlier := start.Add(-time.Hour)
	later := start.Add(time.Hour)

	assert.Error(t, rule(earlier))
	assert.Error(t, rule(&earlier))
	assert.NoError(t, rule(later))
	assert.NoError(t, rule((*time.Time)(nil)))
	assert.NoError(t, notBefore(time.Time{})(earlier))
}

func TestNonNegative(t *testing.T) {
	neg := -1.0
	assert.Error(t, nonNegative(decimal.NewFromInt(-1)))
	assert.Error(t, nonNegative(&neg))
	assert.NoError(t, nonNegative(decimal.Zero))
	assert.NoError(t, nonNegative((*float64)(nil)))
}

func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()
	var verrs validation.Errors
	if assert.ErrorAs(t, err, &verrs) {
		assert.Contains(t, verrs, field)
	}
}
