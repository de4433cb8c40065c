package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"taskhub/internal/apperr"
	"taskhub/internal/config"
	applog "taskhub/internal/log"
	"taskhub/internal/store"
)

// NewApp assembles the middleware pipeline and routes. main and the HTTP
// tests build the exact same app.
func NewApp(cfg config.Config, deps *Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:             1 << 20, // 1 MiB
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigin,
		AllowCredentials: cfg.CORSOrigin != "*",
	}))
	app.Use("/api", limiter.New(limiter.Config{
		Max:        100,
		Expiration: 15 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.api.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "Too many requests from this IP, please try again later.",
			})
		},
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success":   true,
			"message":   "Server is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	auth := app.Group("/api/auth")
	auth.Post("/register", deps.AuthHandler.Register)
	auth.Post("/login", deps.AuthHandler.Login)
	auth.Get("/me", Protect(deps.Tokens), deps.AuthHandler.Me)

	tasks := app.Group("/api/tasks", Protect(deps.Tokens))
	tasks.Get("/", deps.TaskHandler.List)
	tasks.Post("/", deps.TaskHandler.Create)
	tasks.Get("/:id", deps.TaskHandler.Get)
	tasks.Put("/:id", deps.TaskHandler.Update)
	tasks.Delete("/:id", deps.TaskHandler.Delete)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Route " + c.OriginalURL() + " not found",
		})
	})

	return app
}

// errorHandler is the single boundary translator: error kind in, HTTP
// status plus {success:false, message} out. Anything unclassified is a
// 500 with a generic message; internals stay in the server log.
func errorHandler(c *fiber.Ctx, err error) error {
	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		applog.Error(c, "store.failure", err, map[string]any{
			"resource": storeErr.Resource, "op": storeErr.Op,
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": storeErr.Op + " on " + storeErr.Resource + " failed",
		})
	}

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return respondErr(c, fiber.StatusBadRequest, err)
	case apperr.KindUnauthenticated, apperr.KindInvalidToken:
		return respondErr(c, fiber.StatusUnauthorized, err)
	case apperr.KindForbidden:
		return respondErr(c, fiber.StatusForbidden, err)
	case apperr.KindNotFound:
		return respondErr(c, fiber.StatusNotFound, err)
	case apperr.KindConflict:
		return respondErr(c, fiber.StatusConflict, err)
	case apperr.KindStoreFailure:
		return respondErr(c, fiber.StatusInternalServerError, err)
	}

	// Framework-raised errors (body too large, bad transfer encoding)
	// keep their status but not their text.
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"success": false,
			"message": "Request could not be processed",
		})
	}

	applog.Error(c, "server.error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Something went wrong. Please try again.",
	})
}

func respondErr(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": apperr.Message(err)})
}
