package router

import (
	"time"

	"doutoragenda/internal/config"
	"doutoragenda/internal/handler"
	"doutoragenda/internal/middleware"
	"doutoragenda/internal/repository"
	"doutoragenda/internal/service"
	"doutoragenda/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	doctorRepo := repository.NewDoctorRepository(db)
	cashRepo := repository.NewCashRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	patientSvc := service.NewPatientService(patientRepo)
	doctorSvc := service.NewDoctorService(doctorRepo)

	// Worker dispatcher — the cash service enqueues the closing report here
	dispatcher := worker.NewDispatcher(rdb)
	cashSvc := service.NewCashService(cashRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	patientsH := handler.NewPatientsHandler(patientSvc)
	doctorsH := handler.NewDoctorsHandler(doctorSvc)
	cashH := handler.NewCashHandler(cashSvc, cfg.PDFStoragePath)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: receptionist, doctor, admin — declared per-endpoint
		cash := v1.Group("/cash")
		{
			cash.POST("/open", middleware.RequireRole("receptionist", "admin"), cashH.Open)
			cash.POST("/operations", middleware.RequireRole("receptionist", "admin"), cashH.AddOperation)
			cash.DELETE("/operations/:id", middleware.RequireRole("receptionist", "admin"), cashH.DeleteOperation)
			cash.POST("/close", middleware.RequireRole("receptionist", "admin"), cashH.Close)
			cash.GET("/current", middleware.RequireRole("receptionist", "admin"), cashH.GetCurrent)
			cash.GET("/:id/report", middleware.RequireRole("receptionist", "admin"), cashH.GetReport)
			cash.GET("/:id/report/pdf", middleware.RequireRole("receptionist", "admin"), cashH.DownloadReportPDF)
			cash.GET("/history", middleware.RequireRole("admin"), cashH.History)
		}

		patients := v1.Group("/patients", middleware.RequireRole("receptionist", "doctor", "admin"))
		{
			patients.POST("", patientsH.Create)
			patients.GET("", patientsH.List)
			patients.GET("/:id", patientsH.Get)
			patients.PUT("/:id", patientsH.Update)
			patients.DELETE("/:id", patientsH.Deactivate)
			patients.PATCH("/:id/reactivate", patientsH.Reactivate)
		}

		v1.GET("/doctors", middleware.RequireRole("receptionist", "doctor", "admin"), doctorsH.List)
		v1.GET("/doctors/:id", middleware.RequireRole("receptionist", "doctor", "admin"), doctorsH.Get)
		doctors := v1.Group("/doctors", middleware.RequireRole("admin"))
		{
			doctors.POST("", doctorsH.Create)
			doctors.PUT("/:id", doctorsH.Update)
			doctors.DELETE("/:id", doctorsH.Deactivate)
			doctors.PATCH("/:id/reactivate", doctorsH.Reactivate)
		}

		users := v1.Group("/users", middleware.RequireRole("admin"))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
