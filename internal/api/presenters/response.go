package presenters

import (
	"cookshare/domain"

	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, status int, message string) error {
	return c.Status(status).JSON(Response{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// ErrorResponse writes the error envelope. Handlers pass a default status;
// not-found and permission errors override it so the sentinel decides the
// code, not the call site.
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	if err != nil {
		switch {
		case domain.IsNotFound(err):
			status = fiber.StatusNotFound
		case domain.IsPermission(err):
			status = fiber.StatusForbidden
		}
	}

	res := Response{
		Status:  "error",
		Message: message,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return c.Status(status).JSON(res)
}
