package handler

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmapi/docs"
	serviceMocks "crmapi/internal/service/mocks"
)

var pathParam = regexp.MustCompile(`:(\w+)`)

func TestSwaggerDocCoversRoutes(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	app := newApp()
	RegisterRoutes(app, db, Services{
		Contacts:   new(serviceMocks.MockContactService),
		Documents:  new(serviceMocks.MockSalesDocumentService),
		Projects:   new(serviceMocks.MockProjectService),
		Scheduling: new(serviceMocks.MockSchedulingService),
		Tickets:    new(serviceMocks.MockTicketService),
	})

	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc))

	registered := 0
	for _, r := range app.GetRoutes(true) {
		if r.Method == "HEAD" {
			continue
		}
		registered++
		path := pathParam.ReplaceAllString(r.Path, "{$1}")
		_, ok := doc.Paths[path][strings.ToLower(r.Method)]
		assert.True(t, ok, "route %s %s is missing from the swagger document", r.Method, r.Path)
	}

	documented := 0
	for _, ops := range doc.Paths {
		documented += len(ops)
	}
	assert.Equal(t, registered, documented)
}
