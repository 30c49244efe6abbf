package main

import (
	"fmt"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/hrstack/staff-portal-api/internal/config"
	"github.com/hrstack/staff-portal-api/internal/constants"
	"github.com/hrstack/staff-portal-api/internal/database"
	"github.com/hrstack/staff-portal-api/internal/handlers"
	"github.com/hrstack/staff-portal-api/internal/logging"
	"github.com/hrstack/staff-portal-api/internal/mail"
	"github.com/hrstack/staff-portal-api/internal/middleware"
	"github.com/hrstack/staff-portal-api/internal/repository"
	"github.com/hrstack/staff-portal-api/internal/services"
	"github.com/hrstack/staff-portal-api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	log := logging.New(cfg.Environment)

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	images, err := storage.NewImageStore(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare upload directory")
	}

	stores := repository.Stores{
		Admins:    repository.NewAdminRepository(database.GetDB()),
		Managers:  repository.NewManagerRepository(database.GetDB()),
		Employees: repository.NewEmployeeRepository(database.GetDB()),
	}

	mailer := mail.NewSMTPMailer(cfg.SMTP)

	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(stores, tokenService)
	accountService := services.NewAccountService(stores, mailer, cfg.PortalURL, log)
	resetService := services.NewResetService(stores, mailer, cfg.PortalURL, cfg.ResetTokenTTL, log)

	auth := middleware.NewAuthenticator(stores, tokenService)

	adminHandler := handlers.NewAdminHandler(authService, accountService, resetService, images)
	managerHandler := handlers.NewManagerHandler(authService, accountService, resetService, images)
	employeeHandler := handlers.NewEmployeeHandler(authService, accountService, resetService, images)

	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	r.Static("/uploads", images.Dir())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Staff Portal API is running",
		})
	})

	api := r.Group("/api")
	{
		admin := api.Group("/admin")
		{
			admin.POST("/register", adminHandler.Register)
			admin.POST("/login", adminHandler.Login)
			admin.POST("/logout", adminHandler.Logout)
			admin.POST("/forgot-password", adminHandler.ForgotPassword)
			admin.POST("/reset-password", adminHandler.ResetPassword)

			protected := admin.Group("")
			protected.Use(auth.RequireAdmin())
			{
				protected.GET("/profile", adminHandler.Profile)
				protected.PUT("/update-profile", adminHandler.UpdateProfile)
				protected.PUT("/change-password", adminHandler.ChangePassword)
				protected.GET("/dashboard", adminHandler.Dashboard)
				protected.POST("/add-manager", adminHandler.AddManager)
				protected.GET("/managers", adminHandler.ListManagers)
				protected.GET("/employees", adminHandler.ListEmployees)
				protected.PUT("/managers/:id", adminHandler.UpdateManager)
				protected.PUT("/employees/:id", adminHandler.UpdateEmployee)
				protected.PUT("/managers/:id/toggle-status", adminHandler.ToggleManagerStatus)
				protected.PUT("/employees/:id/toggle-status", adminHandler.ToggleEmployeeStatus)
			}
		}

		manager := api.Group("/manager")
		{
			manager.POST("/login", managerHandler.Login)
			manager.POST("/logout", managerHandler.Logout)
			manager.POST("/forgot-password", managerHandler.ForgotPassword)
			manager.POST("/reset-password", managerHandler.ResetPassword)

			protected := manager.Group("")
			protected.Use(auth.RequireManager())
			{
				protected.GET("/profile", managerHandler.Profile)
				protected.PUT("/update-profile", managerHandler.UpdateProfile)
				protected.PUT("/change-password", managerHandler.ChangePassword)
				protected.GET("/dashboard", managerHandler.Dashboard)
				protected.GET("/stats", managerHandler.Stats)
				protected.POST("/add-employee", managerHandler.AddEmployee)
				protected.GET("/employees", managerHandler.ListEmployees)
				protected.PUT("/employees/:id", managerHandler.UpdateEmployee)
				protected.PUT("/employees/:id/toggle-status", managerHandler.ToggleEmployeeStatus)
			}
		}

		employee := api.Group("/employee")
		{
			employee.POST("/login", employeeHandler.Login)
			employee.POST("/logout", employeeHandler.Logout)
			employee.POST("/forgot-password", employeeHandler.ForgotPassword)
			employee.POST("/reset-password", employeeHandler.ResetPassword)

			protected := employee.Group("")
			protected.Use(auth.RequireEmployee())
			{
				protected.GET("/profile", employeeHandler.Profile)
				protected.PUT("/update-profile", employeeHandler.UpdateProfile)
				protected.PUT("/change-password", employeeHandler.ChangePassword)
				protected.GET("/dashboard", employeeHandler.Dashboard)
			}
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("server starting")
	if err := r.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
