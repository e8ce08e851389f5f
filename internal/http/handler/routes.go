package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"crmapi/internal/model"
	"crmapi/internal/service"
)

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Contacts       service.ContactService
	Documents      service.SalesDocumentService
	Projects       service.ProjectService
	Scheduling     service.SchedulingService
	Tickets        service.TicketService
	MaxUploadBytes int64
}

// documentPaths is the collection path of each numbered document type.
var documentPaths = map[model.DocumentType]string{
	model.DocumentQuote:           "/quotes",
	model.DocumentSalesOrder:      "/sales-orders",
	model.DocumentServiceContract: "/service-contracts",
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, s Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", Liveness())

	app.Post("/contacts", CreateContact(s.Contacts))
	app.Get("/contacts", ListContacts(s.Contacts))
	app.Get("/contacts/:id", GetContact(s.Contacts))
	app.Get("/contacts/:id/calendar-events", ListContactEvents(s.Scheduling))
	app.Get("/contacts/:id/tasks", ListContactTasks(s.Scheduling))

	for _, t := range model.DocumentTypes {
		prefix := documentPaths[t]
		app.Post(prefix, CreateSalesDocument(s.Documents, t))
		app.Get(prefix, ListSalesDocuments(s.Documents, t))
		app.Get(prefix+"/:id", GetSalesDocument(s.Documents, t))
	}
	app.Post("/quotes/:id/convert", ConvertQuote(s.Documents))
	app.Get("/service-contracts/:id/metrics", ContractMetrics(s.Documents))

	app.Post("/projects", CreateProject(s.Projects))
	app.Get("/projects", ListProjects(s.Projects))
	app.Get("/projects/:id", GetProject(s.Projects))
	app.Get("/projects/:id/metrics", ProjectMetrics(s.Projects))

	app.Post("/calendar-events", CreateCalendarEvent(s.Scheduling))
	app.Post("/tasks", CreateTask(s.Scheduling))

	app.Post("/tickets", CreateTicket(s.Tickets))
	app.Get("/tickets", ListTickets(s.Tickets))
	app.Get("/tickets/:id", GetTicket(s.Tickets))
	app.Patch("/tickets/:id/status", UpdateTicketStatus(s.Tickets))
	app.Post("/tickets/:id/attachments", UploadAttachment(s.Tickets, s.MaxUploadBytes))
	app.Get("/tickets/:id/attachments", ListAttachments(s.Tickets))

	app.Get("/attachments/:id/url", AttachmentURL(s.Tickets))
	app.Get("/attachments/:id/download", DownloadAttachment(s.Tickets))
	app.Delete("/attachments/:id", DeleteAttachment(s.Tickets))
}
