package handler

import "github.com/gofiber/fiber/v2"

// Every endpoint answers with the same envelope: success flag, the
// payload under data, an optional human message and, for listings,
// pagination metadata.
type Pagination struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func NewPagination(page, limit, total int64) *Pagination {
	pages := total / limit
	if total%limit != 0 {
		pages++
	}

	return &Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}

func respondOK(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func respondCreated(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func respondMessage(c *fiber.Ctx, message string) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

func respondList(c *fiber.Ctx, data interface{}, pagination *Pagination) error {
	return c.JSON(fiber.Map{
		"success":    true,
		"data":       data,
		"pagination": pagination,
	})
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func respondValidation(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "validation failed",
		"data":    fiber.Map{"fields": fields},
	})
}
