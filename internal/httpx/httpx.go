// Package httpx holds the fiber error handler and request helpers shared by
// the API packages.
package httpx

import (
	"errors"

	"github.com/Abraxas-365/prointern/pkg/errx"
	"github.com/Abraxas-365/prointern/pkg/kernel"
	"github.com/Abraxas-365/prointern/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler converts internal errors to standard HTTP responses
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiberErr.Message,
			"code":  fiberErr.Code,
		})
	}

	if e, ok := errx.As(err); ok {
		if e.HTTPStatus >= fiber.StatusInternalServerError {
			logx.With(map[string]any{"path": c.Path(), "code": e.Code}).WithError(err).Error("request failed")
		}
		return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
	}

	logx.Errorf("Internal Server Error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Internal Server Error",
		"type":    "INTERNAL",
		"code":    "INTERNAL_ERROR",
		"message": "An unexpected error occurred",
	})
}

// ParsePagination reads page and page_size from the query string
func ParsePagination(c *fiber.Ctx) kernel.PaginationOptions {
	return kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", kernel.DefaultPageSize),
	}.Normalize()
}
