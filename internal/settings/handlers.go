package settings

import (
	"errors"

	"github.com/sarag5/Trip-tracker-backend/internal/db"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		st, err := svc.Get(c.Context(), userID)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(st)
	})

	r.Put("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Settings
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		req.UserID, _ = c.Locals("user_id").(string)

		st, err := svc.Update(c.Context(), req)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(st)
	})
}

func mapError(err error) error {
	if errors.Is(err, db.ErrStorageUnavailable) {
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
