package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/dtroode/alumni-portal-server/internal/api/http/handler"
	"github.com/dtroode/alumni-portal-server/internal/api/http/middleware"
	"github.com/dtroode/alumni-portal-server/internal/apierrors"
	"github.com/dtroode/alumni-portal-server/internal/logger"
	"github.com/dtroode/alumni-portal-server/internal/model"
)

// Options holds transport-level settings.
type Options struct {
	DevMode   bool
	BodyLimit int
}

// Router wires HTTP handlers and middleware into a fiber application.
type Router struct {
	authService       handler.AuthService
	profileService    handler.ProfileService
	moderationService handler.ModerationService
	tokens            middleware.TokenVerifier
	db                handler.Pinger
	contextManager    model.ContextManager
	logger            *logger.Logger
	opts              Options
}

// New creates new HTTP Router instance.
func New(
	authService handler.AuthService,
	profileService handler.ProfileService,
	moderationService handler.ModerationService,
	tokens middleware.TokenVerifier,
	db handler.Pinger,
	contextManager model.ContextManager,
	logger *logger.Logger,
	opts Options,
) *Router {
	return &Router{
		authService:       authService,
		profileService:    profileService,
		moderationService: moderationService,
		tokens:            tokens,
		db:                db,
		contextManager:    contextManager,
		logger:            logger,
		opts:              opts,
	}
}

// Register builds the fiber application with all routes and middleware.
func (r *Router) Register() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          handler.NewErrorHandler(r.logger, r.opts.DevMode),
		BodyLimit:             r.opts.BodyLimit,
		DisableStartupMessage: true,
	})

	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokens, r.contextManager, r.logger)

	app.Use(logging.Handle)
	app.Use(recover.New(recover.Config{EnableStackTrace: r.opts.DevMode}))
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))

	api := app.Group("/api")
	r.registerHealthRoutes(api)
	r.registerAuthRoutes(api, authenticate)
	r.registerUserRoutes(api, authenticate)
	r.registerAdminRoutes(api, authenticate)
	api.Use(func(c *fiber.Ctx) error {
		return apierrors.NewErrNotFound("API endpoint not found")
	})

	profile := handler.NewProfile(r.profileService, r.contextManager, r.logger)
	app.Get("/uploads/:key", profile.ServeImage)

	return app
}

func (r *Router) registerHealthRoutes(api fiber.Router) {
	health := handler.NewHealth(r.db)
	api.Get("/health", health.Live)
	api.Get("/health/db", health.Database)
}

func (r *Router) registerAuthRoutes(api fiber.Router, authenticate *middleware.Authenticate) {
	auth := handler.NewAuth(r.authService, r.contextManager, r.logger)

	g := api.Group("/auth")
	g.Post("/register", auth.Register)
	g.Post("/login", auth.Login)
	g.Post("/reset-password", auth.ResetPassword)

	api.Put("/users/change-password", authenticate.Handle, auth.ChangePassword)
}

func (r *Router) registerUserRoutes(api fiber.Router, authenticate *middleware.Authenticate) {
	profile := handler.NewProfile(r.profileService, r.contextManager, r.logger)

	g := api.Group("/users")
	g.Get("/approved", profile.ListApproved)
	g.Get("/profile", authenticate.Handle, profile.GetOwn)
	g.Put("/profile", authenticate.Handle, profile.UpdateOwn)
	g.Get("/privacy-settings", authenticate.Handle, profile.GetPrivacySettings)
	g.Put("/privacy-settings", authenticate.Handle, profile.UpdatePrivacySettings)
	g.Put("/profile-image", authenticate.Handle, profile.UploadProfileImage)
	g.Put("/cover-image", authenticate.Handle, profile.UploadCoverImage)
	// Static paths above must stay ahead of the id parameter.
	g.Get("/:id", profile.GetByID)
}

func (r *Router) registerAdminRoutes(api fiber.Router, authenticate *middleware.Authenticate) {
	moderation := handler.NewModeration(r.moderationService, r.contextManager, r.logger)

	g := api.Group("/admin", authenticate.Handle)
	g.Get("/users/pending", moderation.ListPending)
	g.Put("/users/:id/status", moderation.SetStatus)
}
