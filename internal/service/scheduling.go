package service

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"crmapi/internal/model"
	"crmapi/internal/repository"
)

// Bounds used when a listing range is left open.
var (
	rangeMin = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)
	rangeMax = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)
)

// CalendarEventInput is the payload for scheduling an event.
type CalendarEventInput struct {
	ContactID     string    `json:"contact_id"`
	Title         string    `json:"title"`
	StartDateTime time.Time `json:"start_date_time"`
	EndDateTime   time.Time `json:"end_date_time"`
	IsAllDay      bool      `json:"is_all_day"`
}

func (in CalendarEventInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.ContactID, validation.Required, is.UUID),
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.StartDateTime, validation.Required),
		validation.Field(&in.EndDateTime, validation.Required, validation.By(notBefore(in.StartDateTime))),
	)
}

// TaskInput is the payload for creating a task.
type TaskInput struct {
	ContactID      string   `json:"contact_id"`
	Title          string   `json:"title"`
	EstimatedHours *float64 `json:"estimated_hours"`
	ActualHours    *float64 `json:"actual_hours"`
}

func (in TaskInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.ContactID, validation.Required, is.UUID),
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.EstimatedHours, validation.By(nonNegative)),
		validation.Field(&in.ActualHours, validation.By(nonNegative)),
	)
}

// TimeRange bounds a listing. Zero values leave that side open.
type TimeRange struct {
	From time.Time
	To   time.Time
}

func (r TimeRange) bounds() (time.Time, time.Time) {
	from, to := r.From, r.To
	if from.IsZero() {
		from = rangeMin
	}
	if to.IsZero() {
		to = rangeMax
	}
	return from, to
}

// SchedulingService records the calendar events and tasks that feed the
// engagement metrics.
type SchedulingService interface {
	CreateEvent(ctx context.Context, in CalendarEventInput) (*model.CalendarEvent, error)
	// ListEvents returns a contact's events whose start lies in r.
	ListEvents(ctx context.Context, contactID string, r TimeRange) ([]model.CalendarEvent, error)
	CreateTask(ctx context.Context, in TaskInput) (*model.Task, error)
	// ListTasks returns a contact's tasks created in r.
	ListTasks(ctx context.Context, contactID string, r TimeRange) ([]model.Task, error)
}

type schedulingService struct {
	events   repository.CalendarEventRepository
	tasks    repository.TaskRepository
	contacts repository.ContactRepository
	now      func() time.Time
}

// NewSchedulingService constructs a new SchedulingService.
func NewSchedulingService(events repository.CalendarEventRepository, tasks repository.TaskRepository, contacts repository.ContactRepository) SchedulingService {
	return &schedulingService{events: events, tasks: tasks, contacts: contacts, now: utcNow}
}

func (s *schedulingService) CreateEvent(ctx context.Context, in CalendarEventInput) (*model.CalendarEvent, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := requireContact(ctx, s.contacts, in.ContactID); err != nil {
		return nil, err
	}
	e, err := s.events.Create(ctx, &model.CalendarEvent{
		ID:            uuid.New().String(),
		ContactID:     in.ContactID,
		Title:         in.Title,
		StartDateTime: in.StartDateTime,
		EndDateTime:   in.EndDateTime,
		IsAllDay:      in.IsAllDay,
		CreatedAt:     s.now(),
	})
	if err != nil {
		return nil, translate(err)
	}
	return e, nil
}

func (s *schedulingService) ListEvents(ctx context.Context, contactID string, r TimeRange) ([]model.CalendarEvent, error) {
	if contactID == "" {
		return nil, ErrIDRequired
	}
	from, to := r.bounds()
	events, err := s.events.ListByContactBetween(ctx, contactID, from, to)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []model.CalendarEvent{}
	}
	return events, nil
}

func (s *schedulingService) CreateTask(ctx context.Context, in TaskInput) (*model.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := requireContact(ctx, s.contacts, in.ContactID); err != nil {
		return nil, err
	}
	t, err := s.tasks.Create(ctx, &model.Task{
		ID:             uuid.New().String(),
		ContactID:      in.ContactID,
		Title:          in.Title,
		EstimatedHours: in.EstimatedHours,
		ActualHours:    in.ActualHours,
		CreatedAt:      s.now(),
	})
	if err != nil {
		return nil, translate(err)
	}
	return t, nil
}

func (s *schedulingService) ListTasks(ctx context.Context, contactID string, r TimeRange) ([]model.Task, error) {
	if contactID == "" {
		return nil, ErrIDRequired
	}
	from, to := r.bounds()
	tasks, err := s.tasks.ListByContactCreatedBetween(ctx, contactID, from, to)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}
