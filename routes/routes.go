package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	controller "collabhub/controllers"
	"collabhub/middleware"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	authLogger := log.New(os.Stdout, "AUTH: ", log.Ldate|log.Ltime|log.Lshortfile)
	authController := controller.NewAuthController(db, authLogger)

	// Auth routes group with logging middleware
	auth := app.Group("/api/auth", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Public auth endpoints (no authentication required)
	auth.Post("/register", authController.Register)
	auth.Post("/login", authController.Login)

	// Profile endpoints (require valid JWT)
	profile := app.Group("/api/profile", middleware.Protected(db))
	profile.Get("/", authController.GetProfile)
	profile.Put("/", authController.UpdateProfile)

	authLogger.Println("Authentication routes initialized successfully")
}

func SetupAPIRoutes(app *fiber.App, db *gorm.DB) {
	groupController := controller.NewGroupController(db, log.New(os.Stdout, "GROUP: ", log.LstdFlags))
	eventController := controller.NewEventController(db, log.New(os.Stdout, "EVENT: ", log.LstdFlags))
	taskController := controller.NewTaskController(db, log.New(os.Stdout, "TASK: ", log.LstdFlags))
	pollController := controller.NewPollController(db, log.New(os.Stdout, "POLL: ", log.LstdFlags))

	// API group with bearer-token protection
	api := app.Group("/api", middleware.Protected(db), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Group routes
	group := api.Group("/groups")
	group.Post("/", groupController.CreateGroup)
	group.Get("/", groupController.GetGroups)

	// Calendar routes
	calendar := api.Group("/calendar")
	calendar.Post("/", eventController.CreateEvent)
	calendar.Get("/", eventController.GetEvents)
	calendar.Put("/:id", eventController.UpdateEvent)
	calendar.Delete("/:id", eventController.DeleteEvent)

	// Task routes
	task := api.Group("/tasks")
	task.Post("/", taskController.CreateTask)
	task.Get("/", taskController.GetTasks)
	task.Put("/:id", taskController.UpdateTask)
	task.Delete("/:id", taskController.DeleteTask)

	// Poll routes
	poll := api.Group("/polls")
	poll.Post("/", pollController.CreatePoll)
	poll.Get("/", pollController.GetPolls)
	poll.Post("/:id/vote", pollController.Vote)
	poll.Delete("/:id", pollController.DeletePoll)

	log.Println("API routes initialized successfully")
}

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Setup health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Setup auth routes
	SetupAuthRoutes(app, db)

	// Setup API routes
	SetupAPIRoutes(app, db)

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}
