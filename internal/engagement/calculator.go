package engagement

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"crmapi/internal/model"
)

// EventSource lists a contact's calendar events starting inside [from, to].
type EventSource interface {
	ListByContactBetween(ctx context.Context, contactID string, from, to time.Time) ([]model.CalendarEvent, error)
}

// TaskSource lists a contact's tasks created inside [from, to].
type TaskSource interface {
	ListByContactCreatedBetween(ctx context.Context, contactID string, from, to time.Time) ([]model.Task, error)
}

// Window scopes the aggregation to one contact and a date range.
// A nil End means the window is still open and ends now.
type Window struct {
	ContactID string
	Start     time.Time
	End       *time.Time
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithClock replaces time.Now, which closes open-ended windows.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) {
		c.now = now
	}
}

// Calculator recomputes engagement figures from the store on every call.
type Calculator struct {
	events EventSource
	tasks  TaskSource
	policy Policy
	now    func() time.Time
}

// NewCalculator creates a Calculator.
func NewCalculator(events EventSource, tasks TaskSource, policy Policy, opts ...Option) *Calculator {
	c := &Calculator{events: events, tasks: tasks, policy: policy, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate aggregates the window. Store errors are returned unchanged
// apart from wrapping; the breakdown is only built when requested.
func (c *Calculator) Calculate(ctx context.Context, w Window, budget decimal.Decimal, withBreakdown bool) (*model.EngagementReport, error) {
	end := c.now()
	if w.End != nil {
		end = *w.End
	}

	var (
		events []model.CalendarEvent
		tasks  []model.Task
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = c.events.ListByContactBetween(gCtx, w.ContactID, w.Start, end)
		if err != nil {
			return fmt.Errorf("list calendar events: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		tasks, err = c.tasks.ListByContactCreatedBetween(gCtx, w.ContactID, w.Start, end)
		if err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &model.EngagementReport{EngagementMetrics: Summarize(events, tasks, budget, c.policy)}
	if withBreakdown {
		b := BuildBreakdown(events, c.policy)
		report.Breakdown = &b
	}
	return report, nil
}
