package trip

import (
	"errors"

	"github.com/sarag5/Trip-tracker-backend/internal/db"
	"github.com/sarag5/Trip-tracker-backend/internal/lock"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/start", authMiddleware, func(c *fiber.Ctx) error {
		var req StartInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		userID, _ := c.Locals("user_id").(string)

		t, err := svc.Start(c.Context(), userID, req)
		if err != nil {
			return mapError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	})

	r.Post("/update", authMiddleware, func(c *fiber.Ctx) error {
		var req PointInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		userID, _ := c.Locals("user_id").(string)

		result, err := svc.Update(c.Context(), userID, req)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(result)
	})

	r.Post("/stop", authMiddleware, func(c *fiber.Ctx) error {
		var req StopInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		userID, _ := c.Locals("user_id").(string)

		t, err := svc.Stop(c.Context(), userID, req)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(t)
	})

	// Registered before /:id so "active" is not taken as a trip id.
	r.Get("/active", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		t, err := svc.Active(c.Context(), userID)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(t)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		trips, err := svc.List(c.Context(), userID, c.QueryInt("limit", 100), c.QueryInt("offset", 0))
		if err != nil {
			return mapError(err)
		}
		if trips == nil {
			trips = []Trip{}
		}
		return c.JSON(trips)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		t, err := svc.Get(c.Context(), userID, c.Params("id"))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(t)
	})

	r.Get("/:id/points", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		points, err := svc.Points(c.Context(), userID, c.Params("id"))
		if err != nil {
			return mapError(err)
		}
		if points == nil {
			points = []Point{}
		}
		return c.JSON(points)
	})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrTripAlreadyActive), errors.Is(err, lock.ErrBusy):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, ErrNoActiveTrip), errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrOutOfOrderPoint):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrInvalidPoint):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, db.ErrStorageUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
