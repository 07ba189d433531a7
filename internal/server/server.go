package server

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/travelmate/admin-console/internal/config"
	"github.com/travelmate/admin-console/internal/domain"
	"github.com/travelmate/admin-console/internal/handler"
	"github.com/travelmate/admin-console/internal/infrastructure/firebaseadmin"
	"github.com/travelmate/admin-console/internal/middleware"
	"github.com/travelmate/admin-console/internal/repository"
	"github.com/travelmate/admin-console/internal/service"
	"github.com/travelmate/admin-console/internal/telemetry"
	"go.mongodb.org/mongo-driver/mongo"
)

const idempotencyTTL = 24 * time.Hour

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config      *config.Config
	MongoDB     *mongo.Database
	RedisClient *redis.Client
	AuthClient  service.FirebaseAuthClient
	// AdminClient lists and creates admin accounts. Without it the admin
	// list is served from fixtures.
	AdminClient firebaseadmin.UserAdmin
	// Images stores package images. Without it uploads are refused.
	Images domain.FileRepository
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	cfg := deps.Config

	// Gateway
	gateway := service.Gateway{
		Packages: repository.NewMongoPackageRepository(deps.MongoDB),
		Bookings: repository.NewMongoBookingRepository(deps.MongoDB),
		Profiles: repository.NewMongoProfileRepository(deps.MongoDB),
		Orders:   repository.NewMongoOrderRepository(deps.MongoDB),
		Tickets:  repository.NewMongoTicketRepository(deps.MongoDB),
	}

	// Admin lookup, cached in Redis when a privileged client is available
	var remoteAdmins domain.AdminDirectory
	if deps.AdminClient != nil {
		remoteAdmins = repository.NewCachedAdminDirectory(
			firebaseadmin.NewDirectory(deps.AdminClient),
			repository.NewRedisCacheRepository(deps.RedisClient),
			cfg.Admin.CacheTTL,
		)
	}
	directory := service.NewAdminDirectoryService(remoteAdmins, cfg.Admin.FixtureEmails, time.Now)

	// Sign-outs outlive the in-memory session so stale tokens cannot restore it
	var revocations domain.SessionRevocationStore
	if deps.RedisClient != nil {
		revocations = repository.NewRedisSessionRevocationStore(deps.RedisClient)
	}

	// Services
	sessions := service.NewSessionManager(gateway, directory, time.Now)
	authService := service.NewAuthService(deps.AuthClient, sessions, revocations, cfg.JWT.Secret, cfg.JWT.Expiry, cfg.Admin.AllowedEmails)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	dashboardHandler := handler.NewDashboardHandler(sessions)
	packageHandler := handler.NewPackageHandler(sessions, deps.Images, cfg.Server.MaxUploadSizeMB)
	bookingHandler := handler.NewBookingHandler(sessions)
	customerHandler := handler.NewCustomerHandler(sessions)
	ticketHandler := handler.NewTicketHandler(sessions)
	adminHandler := handler.NewAdminHandler(sessions, directory)

	app := fiber.New(fiber.Config{
		AppName:      "TravelMate Admin Console API",
		BodyLimit:    int(cfg.Server.MaxUploadSizeMB * 1024 * 1024),
		ErrorHandler: customErrorHandler,
	})

	app.Hooks().OnShutdown(func() error {
		sessions.Shutdown()
		return nil
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(telemetry.FiberMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Correlation-ID",
		AllowMethods: "GET, POST, PATCH, DELETE, OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "travelmate-admin-console",
		})
	})

	v1 := app.Group("/v1")
	requireAdmin := []fiber.Handler{
		middleware.VerifyAdminToken(cfg.JWT.Secret, revocations),
		middleware.AuthorizeRole(domain.RoleAdmin),
	}

	// Auth: login takes the Firebase ID token, the rest the console token
	auth := v1.Group("/auth")
	auth.Post("/login", middleware.RequireFirebaseToken(), authHandler.Login)
	auth.Post("/logout", append(requireAdmin, authHandler.Logout)...)
	auth.Get("/me", append(requireAdmin, authHandler.Me)...)

	// ===========================================
	// ADMIN API - /v1/admin/* (requires 'admin' role)
	// ===========================================
	admin := v1.Group("/admin", requireAdmin...)
	admin.Use(middleware.IdempotencyMiddleware(deps.RedisClient, idempotencyTTL,
		"/v1/admin/refresh",
		"/v1/admin/admins/refresh",
	))

	admin.Get("/dashboard", dashboardHandler.Dashboard)
	admin.Post("/refresh", dashboardHandler.Refresh)

	packages := admin.Group("/packages")
	packages.Get("/", packageHandler.ListPackages)
	packages.Post("/", packageHandler.CreatePackage)
	packages.Post("/images", packageHandler.UploadImage)
	packages.Get("/:id", packageHandler.GetPackage)
	packages.Patch("/:id", packageHandler.UpdatePackage)
	packages.Delete("/:id", packageHandler.DeletePackage)

	bookings := admin.Group("/bookings")
	bookings.Get("/", bookingHandler.ListBookings)
	bookings.Patch("/:id/status", bookingHandler.UpdateStatus)
	bookings.Delete("/:id", bookingHandler.DeleteBooking)

	users := admin.Group("/users")
	users.Get("/", customerHandler.ListUsers)
	users.Get("/stats", customerHandler.UserStats)
	users.Patch("/:id/status", customerHandler.UpdateUserStatus)

	admin.Get("/payments/stats", customerHandler.PaymentStats)

	tickets := admin.Group("/tickets")
	tickets.Get("/", ticketHandler.ListTickets)
	tickets.Patch("/:id/status", ticketHandler.UpdateStatus)
	tickets.Delete("/:id", ticketHandler.DeleteTicket)

	admins := admin.Group("/admins")
	admins.Get("/", adminHandler.ListAdmins)
	admins.Post("/", adminHandler.CreateAdmin)
	admins.Post("/refresh", adminHandler.RefreshAdmins)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	log.Printf("Error: %v", err)
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
