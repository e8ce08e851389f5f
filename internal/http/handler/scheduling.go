package handler

import (
	"github.com/gofiber/fiber/v2"

	"crmapi/internal/service"
)

func CreateCalendarEvent(svc service.SchedulingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CalendarEventInput
		if err := parseBody(c, &in); err != nil {
			return respondError(c, err)
		}
		e, err := svc.CreateEvent(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(e)
	}
}

// ListContactEvents lists a contact's events, optionally bounded by from/to.
//
// @Summary List calendar events of a contact
// @Tags scheduling
// @Produce json
// @Param id path string true "Contact ID"
// @Param from query string false "RFC 3339 lower bound on start"
// @Param to query string false "RFC 3339 upper bound on start"
// @Success 200 {array} model.CalendarEvent
// @Router /contacts/{id}/calendar-events [get]
func ListContactEvents(svc service.SchedulingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		r, err := rangeParams(c)
		if err != nil {
			return respondError(c, err)
		}
		events, err := svc.ListEvents(c.UserContext(), id, r)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(events)
	}
}

func CreateTask(svc service.SchedulingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.TaskInput
		if err := parseBody(c, &in); err != nil {
			return respondError(c, err)
		}
		t, err := svc.CreateTask(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	}
}

func ListContactTasks(svc service.SchedulingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		r, err := rangeParams(c)
		if err != nil {
			return respondError(c, err)
		}
		tasks, err := svc.ListTasks(c.UserContext(), id, r)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(tasks)
	}
}
