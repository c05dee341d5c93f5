package geofence

import (
	"errors"

	"github.com/sarag5/Trip-tracker-backend/internal/db"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Geofence
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		req.UserID, _ = c.Locals("user_id").(string)

		fence, err := svc.Create(c.Context(), req)
		if err != nil {
			return mapError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(fence)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		fences, err := svc.List(c.Context(), userID)
		if err != nil {
			return mapError(err)
		}
		if fences == nil {
			fences = []Geofence{}
		}
		return c.JSON(fences)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		fence, err := svc.Get(c.Context(), userID, c.Params("id"))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(fence)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if err := svc.Delete(c.Context(), userID, c.Params("id")); err != nil {
			return mapError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidGeofence):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "geofence not found")
	case errors.Is(err, db.ErrStorageUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
