package routes

import (
	"crypto/sha256"
	"encoding/base64"
	"projecttracker/backend/config"
	"projecttracker/backend/controllers"
	"projecttracker/backend/middleware"
	"projecttracker/backend/services"
	"projecttracker/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// NewApp builds the fiber app with the middleware every route shares.
func NewApp(cfg *config.Config, logger zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "project-tracker",
		ErrorHandler: utils.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: cookieKey(cfg.SecretKey),
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	return app
}

// cookieKey derives a 32 byte AES key from SECRET_KEY. Without one the key
// is random and sessions do not survive a restart.
func cookieKey(secret string) string {
	if secret == "" {
		return encryptcookie.GenerateKey()
	}
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, logger zerolog.Logger, notifier services.Notifier) {
	sessions := session.New(session.Config{
		KeyLookup:      "cookie:session_id",
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})

	authService := services.NewAuthService(db, cfg, notifier, logger)

	// Auth routes
	authController := controllers.NewAuthController(db, authService, sessions, logger)
	app.Get("/", authController.Home)
	app.Post("/register", authController.Register)
	app.Post("/verify", authController.Verify)
	app.Post("/login", authController.Login)
	app.Post("/logout", authController.Logout)
	app.Get("/me", middleware.AuthMiddleware(cfg), authController.Me)

	// Cohorts
	cohortController := controllers.NewCohortController(db, logger)
	cohorts := app.Group("/cohorts")
	cohorts.Get("/", cohortController.GetCohorts)
	cohorts.Post("/", cohortController.CreateCohort)
	cohorts.Get("/:id", cohortController.GetCohort)
	cohorts.Put("/:id", cohortController.UpdateCohort)
	cohorts.Delete("/:id", cohortController.DeleteCohort)

	// Projects
	projectController := controllers.NewProjectController(db, logger)
	projects := app.Group("/projects")
	projects.Get("/", projectController.GetProjects)
	projects.Post("/", projectController.CreateProject)
	projects.Get("/:id", projectController.GetProject)
	projects.Put("/:id", projectController.UpdateProject)
	projects.Delete("/:id", projectController.DeleteProject)

	// Project members
	memberController := controllers.NewProjectMemberController(db, logger)
	members := app.Group("/project_members")
	members.Get("/", memberController.GetProjectMembers)
	members.Post("/", memberController.CreateProjectMember)
	members.Get("/:id", memberController.GetProjectMember)
	members.Put("/:id", memberController.UpdateProjectMember)
	members.Delete("/:id", memberController.DeleteProjectMember)

	// Users
	userController := controllers.NewUserController(db, authService, logger)
	users := app.Group("/users")
	users.Get("/", userController.GetUsers)
	users.Post("/", userController.CreateUser)
	users.Get("/:id", userController.GetUser)
	users.Put("/:id", userController.UpdateUser)
	users.Delete("/:id", userController.DeleteUser)
}
