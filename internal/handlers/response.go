package handlers

import (
	"errors"
	"strings"

	"storefront/internal/catalog"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/hashicorp/go-hclog"
)

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// serviceError translates a service error into a response. resource names
// the thing that was looked up, for the not-found message. Unknown errors are
// returned so that ErrorHandler answers with a 500.
func serviceError(c *fiber.Ctx, err error, resource string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return fail(c, fiber.StatusNotFound, resource+" not found")
	case errors.Is(err, services.ErrAlreadyReviewed):
		return fail(c, fiber.StatusBadRequest, "Product already reviewed")
	case errors.Is(err, services.ErrInvalidCredentials):
		return fail(c, fiber.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrUnauthorized):
		return fail(c, fiber.StatusUnauthorized, "Not authorized to modify this "+strings.ToLower(resource))
	case errors.Is(err, services.ErrUserExists):
		return fail(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, repositories.ErrDuplicate):
		return fail(c, fiber.StatusConflict, resource+" already exists")
	default:
		return err
	}
}

func pageResponse(c *fiber.Ctx, page catalog.Page) error {
	return c.JSON(fiber.Map{
		"success":  true,
		"count":    page.Count,
		"total":    page.Total,
		"page":     page.Page,
		"pages":    page.Pages,
		"products": page.Items,
	})
}

// listingParams reads catalog listing parameters from the query string.
func listingParams(c *fiber.Ctx, defaultLimit int) catalog.Params {
	return catalog.ParseParams(func(key string) string {
		return c.Query(key)
	}, defaultLimit)
}

// ErrorHandler answers every error that reaches Fiber with the
// {success:false, message} body.
func ErrorHandler(logger hclog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return fail(c, fiberErr.Code, fiberErr.Message)
		}
		logger.Error("unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
		return fail(c, fiber.StatusInternalServerError, "Server error")
	}
}
