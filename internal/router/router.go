package router

import (
	"time"

	"github.com/P3chys/fresher-portal/internal/config"
	"github.com/P3chys/fresher-portal/internal/handlers"
	"github.com/P3chys/fresher-portal/internal/middleware"
	"github.com/P3chys/fresher-portal/internal/services"
	"github.com/P3chys/fresher-portal/internal/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Infra carries the optional backing services. Nil fields disable the
// feature that depends on them.
type Infra struct {
	Sessions session.Store
	Redis    *redis.Client
	Search   handlers.EmployeeIndex
	Archive  handlers.ReportArchive
	Notifier handlers.InterviewNotifier
}

const batchLoginMessage = "Please login as trainer to access that page."

func Setup(db *gorm.DB, cfg *config.Config, infra Infra, log *logrus.Logger) *gin.Engine {
	// Initialize Services
	activityService := services.NewActivityService(db)
	authService := services.NewAuthService(db)
	batchService := services.NewBatchService(db, activityService)
	employeeService := services.NewEmployeeService(db, activityService)
	evaluationService := services.NewEvaluationService(db, activityService)
	performanceService := services.NewPerformanceService(db)
	allocationService := services.NewAllocationService(db, activityService)
	feedbackService := services.NewFeedbackService(db, activityService)

	sessionStore := infra.Sessions
	if sessionStore == nil {
		sessionStore = session.NewMemoryStore()
	}
	sm := session.NewManager(sessionStore, cfg.SecretKey, cfg.SessionTTL, cfg.GinMode == gin.ReleaseMode)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(middleware.RequestLogger(log), gin.Recovery())

	// CORS middleware
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
		}))
	}

	// Health check endpoint
	r.GET("/health", handlers.HealthCheck(db, infra.Redis))

	app := r.Group("")
	app.Use(middleware.LoadSession(sm))

	var loginLimit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if infra.Redis != nil {
		loginLimit = middleware.NewRateLimiter(infra.Redis, cfg.LoginRateLimit, time.Duration(cfg.LoginRateWindow)*time.Second).ByIP()
	}

	// Public pages
	app.GET("/", handlers.Page(sm, "index"))
	app.GET("/home", handlers.Page(sm, "home"))
	app.GET("/thank-you", handlers.Page(sm, "thank_you"))

	// Trainer auth
	app.GET("/trainer/register", handlers.Page(sm, "register_trainer"))
	app.POST("/trainer/register", handlers.RegisterTrainer(authService, sm))
	app.GET("/trainer/login", handlers.LoginPage(sm, session.RoleTrainer, "login_trainer", "/trainer/dashboard"))
	app.POST("/trainer/login", loginLimit, handlers.LoginTrainer(authService, sm))
	app.GET("/trainer/logout", handlers.Logout(sm))

	// Employee auth
	app.GET("/employee/register", handlers.Page(sm, "register_employee"))
	app.POST("/employee/register", handlers.RegisterEmployee(authService, infra.Search, sm))
	app.GET("/employee/login", handlers.LoginPage(sm, session.RoleEmployee, "login_employee", "/employee/dashboard"))
	app.POST("/employee/login", loginLimit, handlers.LoginEmployee(authService, sm))
	app.GET("/employee/logout", handlers.Logout(sm))

	// Trainer routes
	trainerOnly := middleware.RoleRequired(sm, session.RoleTrainer, "")
	trainerBatchOnly := middleware.RoleRequired(sm, session.RoleTrainer, batchLoginMessage)
	trainer := app.Group("/trainer")
	{
		trainer.GET("/dashboard", trainerOnly, handlers.TrainerDashboard(authService, batchService, sm))
		trainer.POST("/add_batch", trainerOnly, handlers.AddBatch(batchService, sm))
		trainer.GET("/batch/:id", trainerBatchOnly, handlers.BatchDetail(batchService, sm))
		trainer.GET("/batch/:id/performance", trainerBatchOnly, handlers.BatchPerformance(performanceService, sm))
		trainer.GET("/batch/:id/performance/export", trainerBatchOnly, handlers.ExportBatchPerformance(performanceService, infra.Archive))
		trainer.POST("/assign_employee_to_batch", trainerOnly, handlers.AssignEmployeeToBatch(employeeService, infra.Search, sm))
		trainer.GET("/edit_employee/:id", trainerOnly, handlers.EditEmployeePage(employeeService, sm))
		trainer.POST("/edit_employee/:id", trainerOnly, handlers.EditEmployee(employeeService, infra.Search, sm))
		trainer.POST("/edit_evaluation/:id", trainerOnly, handlers.EditEvaluation(evaluationService, sm))
		trainer.POST("/allocate_project/:id", trainerOnly, handlers.AllocateProject(employeeService, allocationService, infra.Notifier, sm))
		trainer.GET("/employees/search", trainerOnly, handlers.SearchEmployees(employeeService, infra.Search))
		trainer.GET("/activities/recent", trainerOnly, handlers.GetRecentActivities(activityService))
	}

	// Employee routes
	employeeOnly := middleware.RoleRequired(sm, session.RoleEmployee, "")
	employee := app.Group("/employee")
	{
		employee.GET("/dashboard", employeeOnly, handlers.EmployeeDashboard(employeeService, sm))
		employee.GET("/feedback", employeeOnly, handlers.FeedbackPage(employeeService, sm))
		employee.POST("/feedback", employeeOnly, handlers.SubmitFeedback(feedbackService, sm))
	}

	return r
}
