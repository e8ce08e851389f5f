package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"crmapi/internal/service"
)

type statusUpdate struct {
	Status string `json:"status"`
}

func CreateTicket(svc service.TicketService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.TicketInput
		if err := parseBody(c, &in); err != nil {
			return respondError(c, err)
		}
		t, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	}
}

// ListTickets lists tickets, most recently updated first.
//
// @Summary List tickets
// @Tags tickets
// @Produce json
// @Param contact_id query string false "Filter by contact"
// @Param status query string false "Filter by status"
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Router /tickets [get]
func ListTickets(svc service.TicketService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := pageParams(c)
		if err != nil {
			return respondError(c, err)
		}
		contactID, err := idQuery(c, "contact_id")
		if err != nil {
			return respondError(c, err)
		}
		f := service.TicketFilter{ContactID: contactID, Status: c.Query("status")}
		res, err := svc.List(c.UserContext(), f, limit, offset)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

func GetTicket(svc service.TicketService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		t, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(t)
	}
}

// UpdateTicketStatus moves a ticket along its workflow.
//
// @Summary Change ticket status
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Param body body statusUpdate true "New status"
// @Success 200 {object} model.Ticket
// @Failure 409 {object} errorPayload
// @Router /tickets/{id}/status [patch]
func UpdateTicketStatus(svc service.TicketService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		var body statusUpdate
		if err := parseBody(c, &body); err != nil {
			return respondError(c, err)
		}
		t, err := svc.UpdateStatus(c.UserContext(), id, body.Status)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(t)
	}
}

// UploadAttachment stores a multipart "file" against a ticket.
//
// @Summary Upload ticket attachment
// @Tags tickets
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Ticket ID"
// @Param file formData file true "Attachment"
// @Success 201 {object} model.Attachment
// @Failure 413 {object} errorPayload
// @Router /tickets/{id}/attachments [post]
func UploadAttachment(svc service.TicketService, maxBytes int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		if maxBytes > 0 && fh.Size > maxBytes {
			return writeError(c, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
				fmt.Sprintf("file exceeds %d bytes", maxBytes))
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		a, err := svc.UploadAttachment(c.UserContext(), id, f, service.UploadInput{
			Filename:    fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}

func ListAttachments(svc service.TicketService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		list, err := svc.ListAttachments(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(list)
	}
}

// AttachmentURL returns a presigned download URL.
//
// @Summary Presigned attachment URL
// @Tags tickets
// @Produce json
// @Param id path string true "Attachment ID"
// @Success 200 {object} map[string]string
// @Router /attachments/{id}/url [get]
func AttachmentURL(svc service.TicketService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		u, err := svc.AttachmentURL(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"url": u})
	}
}

// DownloadAttachment streams the stored object.
func DownloadAttachment(svc service.TicketService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		rc, a, err := svc.OpenAttachment(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		c.Attachment(a.Filename)
		c.Set(fiber.HeaderContentType, a.ContentType)
		// fasthttp closes rc once the body is written.
		return c.SendStream(rc, int(a.Size))
	}
}

func DeleteAttachment(svc service.TicketService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		if err := svc.DeleteAttachment(c.UserContext(), id); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
