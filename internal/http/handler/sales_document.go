package handler

import (
	"github.com/gofiber/fiber/v2"

	"crmapi/internal/model"
	"crmapi/internal/service"
)

// CreateSalesDocument stores a document of type t with the next number of
// its series.
//
// @Summary Create quote, sales order or service contract
// @Tags sales-documents
// @Accept json
// @Produce json
// @Param document body service.SalesDocumentInput true "Document"
// @Success 201 {object} model.SalesDocument
// @Failure 400 {object} errorPayload
// @Router /quotes [post]
// @Router /sales-orders [post]
// @Router /service-contracts [post]
func CreateSalesDocument(svc service.SalesDocumentService, t model.DocumentType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.SalesDocumentInput
		if err := parseBody(c, &in); err != nil {
			return respondError(c, err)
		}
		doc, err := svc.Create(c.UserContext(), t, in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

func ListSalesDocuments(svc service.SalesDocumentService, t model.DocumentType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, err := pageParams(c)
		if err != nil {
			return respondError(c, err)
		}
		res, err := svc.List(c.UserContext(), t, limit, offset)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	}
}

func GetSalesDocument(svc service.SalesDocumentService, t model.DocumentType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		doc, err := svc.Get(c.UserContext(), t, id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(doc)
	}
}

// ConvertQuote turns a draft or sent quote into a sales order.
//
// @Summary Convert quote to sales order
// @Tags sales-documents
// @Produce json
// @Param id path string true "Quote ID"
// @Success 201 {object} model.SalesDocument
// @Failure 409 {object} errorPayload
// @Router /quotes/{id}/convert [post]
func ConvertQuote(svc service.SalesDocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		order, err := svc.ConvertQuote(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(order)
	}
}

// ContractMetrics returns engagement figures of a service contract.
//
// @Summary Service contract engagement metrics
// @Tags sales-documents
// @Produce json
// @Param id path string true "Service contract ID"
// @Param breakdown query bool false "Include weekly and monthly breakdown"
// @Success 200 {object} model.EngagementReport
// @Router /service-contracts/{id}/metrics [get]
func ContractMetrics(svc service.SalesDocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		report, err := svc.ContractMetrics(c.UserContext(), id, c.QueryBool("breakdown"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(report)
	}
}
