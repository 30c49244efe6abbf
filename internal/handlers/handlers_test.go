package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hrstack/staff-portal-api/internal/constants"
	"github.com/hrstack/staff-portal-api/internal/middleware"
	"github.com/hrstack/staff-portal-api/internal/models"
	"github.com/hrstack/staff-portal-api/internal/repository"
	"github.com/hrstack/staff-portal-api/internal/services"
	"github.com/hrstack/staff-portal-api/internal/storage"
)

// fakeMailer records sends instead of dialing SMTP.
type fakeMailer struct {
	failing bool
	sent    []fakeMail
}

type fakeMail struct {
	To      string
	Subject string
	Body    string
}

func (m *fakeMailer) Send(to, subject, htmlBody string) error {
	if m.failing {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, fakeMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

type portalTestEnv struct {
	stores repository.Stores
	tokens *services.TokenService
	mailer *fakeMailer
	router *gin.Engine
}

// setupPortalTestEnv wires the whole API surface over an in-memory database,
// mirroring the route layout the server binary builds.
func setupPortalTestEnv(t *testing.T) portalTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Admin{},
		&models.Manager{},
		&models.Employee{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	stores := repository.Stores{
		Admins:    repository.NewAdminRepository(db),
		Managers:  repository.NewManagerRepository(db),
		Employees: repository.NewEmployeeRepository(db),
	}

	mailer := &fakeMailer{}
	images, err := storage.NewImageStore(t.TempDir())
	require.NoError(t, err)

	tokens := services.NewTokenService("test-secret", time.Hour)
	authService := services.NewAuthService(stores, tokens)
	accountService := services.NewAccountService(stores, mailer, "http://localhost:3000", zerolog.Nop())
	resetService := services.NewResetService(stores, mailer, "http://localhost:3000", time.Hour, zerolog.Nop())

	auth := middleware.NewAuthenticator(stores, tokens)

	adminHandler := NewAdminHandler(authService, accountService, resetService, images)
	managerHandler := NewManagerHandler(authService, accountService, resetService, images)
	employeeHandler := NewEmployeeHandler(authService, accountService, resetService, images)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

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

	return portalTestEnv{stores: stores, tokens: tokens, mailer: mailer, router: r}
}

func (env portalTestEnv) doJSON(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env portalTestEnv) doJSONWithCookies(t *testing.T, method, path string, cookies []*http.Cookie, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return string(hash)
}

func seedTestManager(t *testing.T, env portalTestEnv, username string, active bool) *models.Manager {
	t.Helper()
	manager := &models.Manager{
		Account: models.Account{
			Username:     username,
			Email:        username + "@example.com",
			Phone:        "555-0100",
			PasswordHash: mustHash(t, "supersecret"),
		},
		Department: "Engineering",
		IsActive:   active,
		CreatedBy:  1,
	}
	require.NoError(t, env.stores.Managers.Create(manager))
	return manager
}

func seedTestEmployee(t *testing.T, env portalTestEnv, username string, managerID uint64, active bool) *models.Employee {
	t.Helper()
	employee := &models.Employee{
		Account: models.Account{
			Username:     username,
			Email:        username + "@example.com",
			Phone:        "555-0101",
			PasswordHash: mustHash(t, "supersecret"),
		},
		Department: "Engineering",
		Position:   "Developer",
		Salary:     50000,
		IsActive:   active,
		CreatedBy:  managerID,
		ManagerID:  managerID,
	}
	require.NoError(t, env.stores.Employees.Create(employee))
	return employee
}

func seedTestAdmin(t *testing.T, env portalTestEnv, username string) *models.Admin {
	t.Helper()
	admin := &models.Admin{
		Account: models.Account{
			Username:     username,
			Email:        username + "@example.com",
			Phone:        "555-0102",
			PasswordHash: mustHash(t, "supersecret"),
		},
	}
	require.NoError(t, env.stores.Admins.Create(admin))
	return admin
}

func (env portalTestEnv) tokenFor(t *testing.T, identity models.Identity) string {
	t.Helper()
	token, err := env.tokens.Issue(identity)
	require.NoError(t, err)
	return token
}
