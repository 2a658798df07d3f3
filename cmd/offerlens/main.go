package main

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"offerlens/internal/cache"
	"offerlens/internal/config"
	"offerlens/internal/geo"
	"offerlens/internal/http/handlers"
	"offerlens/internal/kv"
	applog "offerlens/internal/log"
	"offerlens/internal/repos"
	"offerlens/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Durable cache tier: redis when configured, sqlite otherwise.
	var store kv.Store = kv.NewSQLiteStore(db)
	if cfg.RedisURL != "" {
		rs, err := kv.NewRedisStore(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Printf("[warn] redis unavailable, falling back to sqlite cache tier: %v", err)
		} else {
			store = rs
		}
	}

	geoClient := geo.NewClient(cfg.AIBaseURL, cfg.AIAPIKey)
	locSvc := services.NewLocationService(geoClient, store, cache.DefaultTTL, nil)
	scanSvc := services.NewScanService(geoClient)

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	// Templates & app
	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Something went wrong. Please try again.",
			})
		},
	})
	// Scans arrive as base64 photos; leave headroom over the 8 MiB cap.
	app.Server().MaxRequestBodySize = 12 << 20

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	deps := handlers.NewDeps(db, cfg, locSvc, scanSvc)

	// ---------- Routes ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Render("home", fiber.Map{})
	})

	api := app.Group("/api/v1")

	api.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), authH.Login)
	api.Post("/logout", authH.Logout)

	requireUser := handlers.RequireUser(authSvc)

	api.Get("/feed", requireUser, deps.FeedHandler.List)
	api.Post("/offers", requireUser, deps.OfferHandler.Create)
	api.Get("/offers/:id", requireUser, deps.OfferHandler.Detail)

	scanLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|scan"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.scan.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Post("/scan", requireUser, scanLimiter, deps.ScanHandler.Analyze)

	api.Get("/geo/suggest", deps.GeoHandler.Suggest)
	api.Get("/geo/geocode", deps.GeoHandler.Geocode)
	api.Get("/geo/reverse", deps.GeoHandler.Reverse)

	api.Post("/location/input", deps.LocatorHandler.Input)
	api.Get("/location/state", deps.LocatorHandler.State)

	api.Get("/saved", requireUser, deps.SavedHandler.List)
	api.Post("/saved", requireUser, deps.SavedHandler.Save)
	api.Delete("/saved/:id", requireUser, deps.SavedHandler.Unsave)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
