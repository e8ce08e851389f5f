package handler

import (
	"github.com/gofiber/fiber/v2"

	"crmapi/internal/service"
)

func CreateProject(svc service.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.ProjectInput
		if err := parseBody(c, &in); err != nil {
			return respondError(c, err)
		}
		p, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

func ListProjects(svc service.ProjectService) fiber.Handler {
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

// GetProject returns the project merged with its engagement metrics.
//
// @Summary Get project with metrics
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} model.ProjectDetail
// @Failure 404 {object} errorPayload
// @Router /projects/{id} [get]
func GetProject(svc service.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		detail, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(detail)
	}
}

// ProjectMetrics returns engagement figures of a project.
//
// @Summary Project engagement metrics
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Param breakdown query bool false "Include weekly and monthly breakdown"
// @Success 200 {object} model.EngagementReport
// @Router /projects/{id}/metrics [get]
func ProjectMetrics(svc service.ProjectService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		report, err := svc.Metrics(c.UserContext(), id, c.QueryBool("breakdown"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(report)
	}
}
