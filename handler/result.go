// Package handler exposes the blog API over HTTP: account endpoints that sit
// in front of the auth core, and the category/post resources. Every response
// travels in the same envelope so clients always find data and errors in the
// same place.
package handler

import (
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// Result is the response envelope: data on success, a flat list of error
// messages otherwise, never both.
type Result struct {
	Data   any      `json:"data,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// OK wraps a payload in the success envelope.
func OK(data any) Result {
	return Result{Data: data}
}

// Fail wraps error messages in the failure envelope.
func Fail(messages ...string) Result {
	return Result{Errors: messages}
}

// RespondError maps an error onto the HTTP status and envelope the API
// promises: validation problems become 400s with the individual messages,
// auth failures 401/403 from their go-errors codes, unknown records 404, and
// everything else an opaque 500 so internals never leak.
func RespondError(c *fiber.Ctx, err error) error {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return c.Status(fiber.StatusBadRequest).JSON(Fail(validationMessages(fieldErrs)...))
	}

	if repository.IsRecordNotFound(err) {
		return c.Status(fiber.StatusNotFound).JSON(Fail("content not found"))
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		status := richErr.Code
		if status < fiber.StatusBadRequest {
			status = fiber.StatusInternalServerError
		}

		message := richErr.Message
		if status >= fiber.StatusInternalServerError {
			message = "internal server failure"
		}

		return c.Status(status).JSON(Fail(message))
	}

	return c.Status(fiber.StatusInternalServerError).JSON(Fail("internal server failure"))
}

func validationMessages(fieldErrs validation.Errors) []string {
	messages := make([]string, 0, len(fieldErrs))
	for field, fieldErr := range fieldErrs {
		messages = append(messages, fmt.Sprintf("%s: %s", field, fieldErr))
	}
	sort.Strings(messages)
	return messages
}
