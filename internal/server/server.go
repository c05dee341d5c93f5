package server

import (
	"time"

	"github.com/sarag5/Trip-tracker-backend/internal/auth"
	"github.com/sarag5/Trip-tracker-backend/internal/config"
	"github.com/sarag5/Trip-tracker-backend/internal/geofence"
	"github.com/sarag5/Trip-tracker-backend/internal/lock"
	"github.com/sarag5/Trip-tracker-backend/internal/settings"
	"github.com/sarag5/Trip-tracker-backend/internal/trip"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    *pgxpool.Pool
	Redis *redis.Client
	Locks lock.Locker
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    db,
		Redis: redisClient,
		Locks: lock.New(redisClient, time.Duration(cfg.LockWaitMs)*time.Millisecond),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	settingsSvc := settings.NewService(s.DB)
	fenceSvc := geofence.NewService(s.DB)
	tripSvc := trip.NewService(s.DB, fenceSvc, settingsSvc, s.Locks)

	api := s.App.Group("/api/v1")
	auth.RegisterRoutes(api.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB, settingsSvc), jwtMiddleware)
	trip.RegisterRoutes(api.Group("/trips"), tripSvc, jwtMiddleware)
	geofence.RegisterRoutes(api.Group("/geofences"), fenceSvc, jwtMiddleware)
	settings.RegisterRoutes(api.Group("/settings"), settingsSvc, jwtMiddleware)
}
