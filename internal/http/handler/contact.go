package handler

import (
	"github.com/gofiber/fiber/v2"

	"crmapi/internal/service"
)

// CreateContact stores a new contact.
//
// @Summary Create contact
// @Tags contacts
// @Accept json
// @Produce json
// @Param contact body service.ContactInput true "Contact"
// @Success 201 {object} model.Contact
// @Failure 400 {object} errorPayload
// @Router /contacts [post]
func CreateContact(svc service.ContactService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.ContactInput
		if err := parseBody(c, &in); err != nil {
			return respondError(c, err)
		}
		contact, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(contact)
	}
}

// ListContacts pages through contacts ordered by name.
//
// @Summary List contacts
// @Tags contacts
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Router /contacts [get]
func ListContacts(svc service.ContactService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := pageParams(c)
		if err != nil {
			return respondError(c, err)
		}
		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

// GetContact returns one contact.
//
// @Summary Get contact
// @Tags contacts
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} model.Contact
// @Failure 404 {object} errorPayload
// @Router /contacts/{id} [get]
func GetContact(svc service.ContactService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		contact, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(contact)
	}
}
