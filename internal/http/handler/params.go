package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"crmapi/internal/service"
)

// requestError is a client input error detected by the handler itself.
type requestError struct {
	status  int
	code    string
	message string
}

func (e *requestError) Error() string { return e.message }

func badRequest(code, message string) error {
	return &requestError{status: fiber.StatusBadRequest, code: code, message: message}
}

// pageParams reads limit (default 10) and offset (default 0).
func pageParams(c *fiber.Ctx) (limit, offset int, err error) {
	limit, err = strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit < 0 {
		return 0, 0, badRequest("INVALID_LIMIT", "invalid limit")
	}
	offset, err = strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offset < 0 {
		return 0, 0, badRequest("INVALID_OFFSET", "invalid offset")
	}
	return limit, offset, nil
}

// idParam returns the named path parameter if it is a UUID.
func idParam(c *fiber.Ctx, name string) (string, error) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", badRequest("INVALID_ID", "invalid id format")
	}
	return id, nil
}

// idQuery reads an optional UUID query parameter; empty means no filter.
func idQuery(c *fiber.Ctx, name string) (string, error) {
	id := c.Query(name)
	if id == "" {
		return "", nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", badRequest("INVALID_ID", "invalid "+name+" format")
	}
	return id, nil
}

// rangeParams reads the optional RFC 3339 from/to query parameters.
func rangeParams(c *fiber.Ctx) (service.TimeRange, error) {
	var r service.TimeRange
	for key, dst := range map[string]*time.Time{"from": &r.From, "to": &r.To} {
		v := c.Query(key)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return r, badRequest("INVALID_RANGE", "from and to must be RFC 3339 timestamps")
		}
		*dst = t
	}
	return r, nil
}

func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return badRequest("INVALID_BODY", "malformed request body")
	}
	return nil
}
