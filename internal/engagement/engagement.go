// Package engagement derives worked-hours figures for a project or service
// contract from the calendar events and tasks of its contact.
package engagement

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"crmapi/internal/model"
)

// Policy holds the cut-offs applied while aggregating.
type Policy struct {
	// Events lasting this long or longer are treated as mis-flagged
	// all-day reminders and not counted.
	MaxEventDuration time.Duration
	// Once any hours are counted, a rate strictly below this value is
	// flagged, including the zero rate of an unbudgeted engagement.
	RateThreshold decimal.Decimal
	// Location used to assign events to weeks and months.
	Location *time.Location
}

// DefaultPolicy returns the historical cut-offs: 23 hours and a rate of 30.
func DefaultPolicy() Policy {
	return Policy{
		MaxEventDuration: 23 * time.Hour,
		RateThreshold:    decimal.NewFromInt(30),
		Location:         time.UTC,
	}
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// EventHours returns the hours e contributes and whether it counts at all.
// All-day events, events of MaxEventDuration or longer, and events ending
// before they start do not count.
func (p Policy) EventHours(e model.CalendarEvent) (float64, bool) {
	if e.IsAllDay {
		return 0, false
	}
	d := e.Duration()
	if d < 0 || d >= p.MaxEventDuration {
		return 0, false
	}
	return d.Hours(), true
}

// Summarize computes the metrics record. With no counted hours the rate is
// 0 and the threshold flag is false.
func Summarize(events []model.CalendarEvent, tasks []model.Task, budget decimal.Decimal, p Policy) model.EngagementMetrics {
	var m model.EngagementMetrics
	for _, e := range events {
		if h, ok := p.EventHours(e); ok {
			m.ActualHours += h
		}
	}
	for _, t := range tasks {
		if t.EstimatedHours != nil {
			m.EstimatedHoursFromTasks += *t.EstimatedHours
		}
	}
	if m.ActualHours > 0 {
		rate := budget.Div(decimal.NewFromFloat(m.ActualHours))
		m.HourlyRate = rate.InexactFloat64()
		m.IsUnderThreshold = rate.LessThan(p.RateThreshold)
	}
	return m
}

// BuildBreakdown buckets the counted events per ISO week ("2025-W10") and
// per calendar month ("2025-03"). Buckets keep the order in which their
// period was first seen.
func BuildBreakdown(events []model.CalendarEvent, p Policy) model.EngagementBreakdown {
	weekly := newBuckets()
	monthly := newBuckets()
	loc := p.location()
	for _, e := range events {
		h, ok := p.EventHours(e)
		if !ok {
			continue
		}
		start := e.StartDateTime.In(loc)
		year, week := start.ISOWeek()
		weekly.add(fmt.Sprintf("%04d-W%02d", year, week), h)
		monthly.add(start.Format("2006-01"), h)
	}
	return model.EngagementBreakdown{Weekly: weekly.items, Monthly: monthly.items}
}

type buckets struct {
	index map[string]int
	items []model.PeriodBucket
}

func newBuckets() *buckets {
	return &buckets{index: make(map[string]int), items: make([]model.PeriodBucket, 0)}
}

func (b *buckets) add(period string, hours float64) {
	i, ok := b.index[period]
	if !ok {
		i = len(b.items)
		b.index[period] = i
		b.items = append(b.items, model.PeriodBucket{Period: period})
	}
	b.items[i].Hours += hours
	b.items[i].Events++
}
