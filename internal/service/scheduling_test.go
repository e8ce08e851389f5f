package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"crmapi/internal/model"
	repoMocks "crmapi/internal/repository/mocks"
)

func TestSchedulingService_CreateEvent(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		mEvents := new(repoMocks.MockCalendarEventRepository)
		mContacts := new(repoMocks.MockContactRepository)
		svc := &schedulingService{events: mEvents, contacts: mContacts, now: clock}

		mContacts.On("FindByID", ctx, contactID).Return(&model.Contact{ID: contactID}, nil)
		mEvents.On("Create", ctx, mock.MatchedBy(func(e *model.CalendarEvent) bool {
			return e.Duration() == 2*time.Hour && e.CreatedAt.Equal(fixedNow)
		})).Return(&model.CalendarEvent{ID: "e1"}, nil)

		got, err := svc.CreateEvent(ctx, CalendarEventInput{ContactID: contactID, Title: "Workshop", StartDateTime: start, EndDateTime: start.Add(2 * time.Hour)})

		require.NoError(t, err)
		assert.Equal(t, "e1", got.ID)
	})

	t.Run("end before start", func(t *testing.T) {
		svc := NewSchedulingService(new(repoMocks.MockCalendarEventRepository), new(repoMocks.MockTaskRepository), new(repoMocks.MockContactRepository))

		_, err := svc.CreateEvent(ctx, CalendarEventInput{ContactID: contactID, Title: "Workshop", StartDateTime: start, EndDateTime: start.Add(-time.Minute)})

		assertFieldError(t, err, "end_date_time")
	})
}

func TestSchedulingService_ListEvents(t *testing.T) {
	ctx := context.Background()
	mEvents := new(repoMocks.MockCalendarEventRepository)
	svc := NewSchedulingService(mEvents, new(repoMocks.MockTaskRepository), new(repoMocks.MockContactRepository))

	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	mEvents.On("ListByContactBetween", ctx, contactID, from, rangeMax).Return(nil, nil)

	got, err := svc.ListEvents(ctx, contactID, TimeRange{From: from})

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = svc.ListEvents(ctx, "", TimeRange{})
	assert.ErrorIs(t, err, ErrIDRequired)
}

func TestSchedulingService_CreateTask(t *testing.T) {
	ctx := context.Background()
	neg := -2.0
	est := 4.0

	t.Run("negative hours", func(t *testing.T) {
		svc := NewSchedulingService(new(repoMocks.MockCalendarEventRepository), new(repoMocks.MockTaskRepository), new(repoMocks.MockContactRepository))

		_, err := svc.CreateTask(ctx, TaskInput{ContactID: contactID, Title: "Design", ActualHours: &neg})

		assertFieldError(t, err, "actual_hours")
	})

	t.Run("success", func(t *testing.T) {
		mTasks := new(repoMocks.MockTaskRepository)
		mContacts := new(repoMocks.MockContactRepository)
		svc := NewSchedulingService(new(repoMocks.MockCalendarEventRepository), mTasks, mContacts)

		mContacts.On("FindByID", ctx, contactID).Return(&model.Contact{ID: contactID}, nil)
		mTasks.On("Create", ctx, mock.MatchedBy(func(t *model.Task) bool {
			return t.EstimatedHours != nil && *t.EstimatedHours == 4 && t.ActualHours == nil
		})).Return(&model.Task{ID: "t1"}, nil)

		got, err := svc.CreateTask(ctx, TaskInput{ContactID: contactID, Title: "Design", EstimatedHours: &est})

		require.NoError(t, err)
		assert.Equal(t, "t1", got.ID)
	})
}

func TestSchedulingService_ListTasks(t *testing.T) {
	ctx := context.Background()
	mTasks := new(repoMocks.MockTaskRepository)
	svc := NewSchedulingService(new(repoMocks.MockCalendarEventRepository), mTasks, new(repoMocks.MockContactRepository))

	mTasks.On("ListByContactCreatedBetween", ctx, contactID, rangeMin, rangeMax).Return([]model.Task{{ID: "t1"}}, nil)

	got, err := svc.ListTasks(ctx, contactID, TimeRange{})

	require.NoError(t, err)
	assert.Len(t, got, 1)
}
