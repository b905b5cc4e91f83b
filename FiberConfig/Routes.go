package FiberConfig

import (
	"Pulse/Bitrix"
	"Pulse/Config"
	"Pulse/Controllers"
	"Pulse/Counseling"
	"Pulse/Jira"
	"Pulse/Models"
	"Pulse/OpenAi"
	"Pulse/Trello"
	"Pulse/Workload"
	"Pulse/middleware"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/template/html"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize handlers
	currencyRateController := Controllers.NewCurrencyRateController(db)
	timesheetController := Controllers.NewTimesheetController(db)
	budgetController := Controllers.NewBudgetController(db)
	staffController := Controllers.NewStaffController(db)

	jiraDB, err := Jira.Connect(Config.Current.JiraDSN)
	if err != nil {
		log.Fatalf("error connecting to jira database: %v", err)
	}
	trackController := Controllers.NewTrackController(Jira.NewReadRepository(jiraDB))

	trelloApi := Trello.NewApi(Config.Current.TrelloKey, Config.Current.TrelloToken)
	openAiClient := OpenAi.NewClient(
		Config.Current.OpenAiBaseURL,
		Config.Current.OpenAiToken,
		Config.Current.OpenAiProxyURL,
		Config.Current.OpenAiProxyAuth,
	)
	workloadService := Workload.NewService(db)
	bitrixFactory := Bitrix.NewClientFactory(Config.Current.BitrixWebhooks)

	counselingService, err := Counseling.NewService(
		trelloApi,
		openAiClient,
		workloadService,
		bitrixFactory,
		db,
		Config.Current.SpreadsheetLink,
	)
	if err != nil {
		log.Fatalf("error building counseling service: %v", err)
	}
	counselingController := Controllers.NewCounselingController(counselingService, trelloApi)

	// API group
	api := app.Group("/api")

	// Currency rate routes
	currencyRates := api.Group("/currency-rates", middleware.Verify(1))
	currencyRates.Get("/", currencyRateController.GetCurrencyRates)
	currencyRates.Post("/", currencyRateController.CreateCurrencyRate)
	currencyRates.Put("/:id", currencyRateController.UpdateCurrencyRate)
	currencyRates.Delete("/:id", currencyRateController.DeleteCurrencyRate)
	currencyRates.Get("/bank", currencyRateController.GetCurrencyBankRates)
	currencyRates.Get("/bank/:code", currencyRateController.GetCurrencyBankRate)

	// Timesheet routes
	timesheets := api.Group("/timesheets", middleware.Verify(1))
	timesheets.Get("/timings", timesheetController.GetTimesheetTimings)
	timesheets.Get("/timings/export", timesheetController.ExportTimesheetTimings)
	timesheets.Post("/timings/remind", timesheetController.RemindLateSubmitters)

	// Jira track routes
	tracks := api.Group("/tracks", middleware.Verify(1))
	tracks.Get("/", trackController.GetTracks)
	tracks.Get("/projects", trackController.GetWorkedTimeForProjects)
	tracks.Get("/user-stats", trackController.GetUserStats)
	tracks.Get("/user-rating", trackController.GetUserRating)
	tracks.Get("/issues", trackController.GetWorkedMinutesByIssueKeys)
	tracks.Get("/year-summary", trackController.GetYearSummary)

	// Voice assistant budget routes
	budgets := api.Group("/budgets", middleware.Verify(2))
	budgets.Get("/:id/participants", budgetController.GetParticipants)
	budgets.Post("/:id/participants", budgetController.AddParticipant)
	budgets.Delete("/:id/participants/:participant_id", budgetController.RemoveParticipant)

	// Staff routes
	staff := api.Group("/staff", middleware.Verify(1))
	staff.Get("/", staffController.GetStaff)
	staff.Get("/workload-types", staffController.GetWorkloadTypes)
	staff.Post("/:id/photo", staffController.UploadProfilePhoto)

	// Counseling routes
	counseling := api.Group("/counseling", middleware.Verify(2))
	counseling.Post("/trello", counselingController.RecommendToTrello)
	counseling.Post("/bitrix", counselingController.RecommendToBitrix)
}

func FiberConfig() {
	fmt.Println("Server Up...")
	engine := html.New("./Templates", ".html")
	// Html Template engine
	app := fiber.New(fiber.Config{
		Views: engine,
	})
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression, // 2
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*", // Allow all origins
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true, // Important for cookies
		MaxAge:           300,  // Max age for preflight requests caching (5 minutes)
	}))

	SetupRoutes(app, Models.DB)
	app.Static("/static", "static/")
	app.Static("/uploads", "uploads/")
	app.Post("/api/RegisterUser", middleware.Verify(4), Controllers.RegisterUser)
	app.Post("/api/Login", Controllers.Login)
	app.Get("/api/User", middleware.Verify(1), Controllers.CurrentUser)
	app.Post("/api/Logout", Controllers.Logout)

	app.Listen(":3001")
}
