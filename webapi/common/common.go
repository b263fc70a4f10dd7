// Package common holds the response envelope, problem details and request
// helpers shared by the HTTP handlers.
package common

import (
	"errors"
	"strconv"
	"time"

	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/amirasaad/fintrack/pkg/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Errors   any    `json:"errors,omitempty"`
}

var validate = validator.New()

// SuccessResponseJSON writes the standard success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Status: status, Message: message, Data: data})
}

// ProblemDetailsJSON writes an RFC 9457 response. The status comes from
// ErrorToStatusCode(err) unless status is given; detail defaults to the
// error text.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, detail string, status ...int) error {
	code := ErrorToStatusCode(err)
	if len(status) > 0 {
		code = status[0]
	}
	if detail == "" && err != nil {
		detail = err.Error()
	}
	return c.Status(code).JSON(ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   code,
		Detail:   detail,
		Instance: c.OriginalURL(),
	}, "application/problem+json")
}

// ErrorToStatusCode maps domain error categories to HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return fiber.StatusInternalServerError
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrInsufficientFunds):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body and validates it using go-playground/validator.
// On failure it writes a 400 response and returns nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ProblemDetailsJSON(c, "Invalid request body", err, "", fiber.StatusBadRequest)
	}
	if err := validate.Struct(input); err != nil {
		return nil, ProblemDetailsJSON(c, "Validation failed", err, "", fiber.StatusBadRequest)
	}
	return &input, nil
}

// Owner extracts the authenticated owner, writing a 401 when absent.
func Owner(c *fiber.Ctx) (uuid.UUID, bool, error) {
	owner, err := middleware.OwnerID(c)
	if err != nil {
		return uuid.Nil, false, ProblemDetailsJSON(c, "Unauthorized", err, "")
	}
	return owner, true, nil
}

// ParamID parses a positive integer route parameter, writing a 400 when it
// is malformed.
func ParamID(c *fiber.Ctx, name string) (uint, bool, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false, ProblemDetailsJSON(c, "Invalid "+name, domain.ErrValidation, name+" must be a positive integer", fiber.StatusBadRequest)
	}
	return uint(id), true, nil
}

// ParseDate parses an optional YYYY-MM-DD value.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
