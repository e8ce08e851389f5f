package model

import "time"

// CalendarEvent is a scheduled block of time spent with a contact.
type CalendarEvent struct {
	ID            string    `json:"id"`
	ContactID     string    `json:"contact_id"`
	Title         string    `json:"title"`
	StartDateTime time.Time `json:"start_date_time"`
	EndDateTime   time.Time `json:"end_date_time"`
	IsAllDay      bool      `json:"is_all_day"`
	CreatedAt     time.Time `json:"created_at"`
}

// Duration is EndDateTime - StartDateTime.
func (e CalendarEvent) Duration() time.Duration {
	return e.EndDateTime.Sub(e.StartDateTime)
}

// Task is a unit of work for a contact. Hours are optional.
type Task struct {
	ID             string    `json:"id"`
	ContactID      string    `json:"contact_id"`
	Title          string    `json:"title"`
	EstimatedHours *float64  `json:"estimated_hours,omitempty"`
	ActualHours    *float64  `json:"actual_hours,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
