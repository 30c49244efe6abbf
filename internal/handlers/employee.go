package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hrstack/staff-portal-api/internal/dto"
	apierrors "github.com/hrstack/staff-portal-api/internal/errors"
	"github.com/hrstack/staff-portal-api/internal/models"
	"github.com/hrstack/staff-portal-api/internal/services"
	"github.com/hrstack/staff-portal-api/internal/storage"
)

// EmployeeHandler serves the /api/employee route group. Employees operate on
// themselves only; the id always comes from the authenticated identity, never
// from the request.
type EmployeeHandler struct {
	authService    *services.AuthService
	accountService *services.AccountService
	resetService   *services.ResetService
	images         *storage.ImageStore
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(authService *services.AuthService, accountService *services.AccountService, resetService *services.ResetService, images *storage.ImageStore) *EmployeeHandler {
	return &EmployeeHandler{
		authService:    authService,
		accountService: accountService,
		resetService:   resetService,
		images:         images,
	}
}

// Login authenticates an employee, binds the session and returns a bearer
// token.
func (h *EmployeeHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	employee, token, err := h.authService.LoginEmployee(req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := bindLoginSession(c, employee); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Login successful",
		"token":    token,
		"employee": dto.ToEmployeeDTO(*employee),
	})
}

// Logout removes the session claim.
func (h *EmployeeHandler) Logout(c *gin.Context) {
	if err := clearSession(c); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// ForgotPassword starts the reset flow.
func (h *EmployeeHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.resetService.Request(models.RoleEmployee, req.Email); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent"})
}

// ResetPassword consumes a reset token.
func (h *EmployeeHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.resetService.Consume(models.RoleEmployee, req.Token, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}

// Profile returns the authenticated employee.
func (h *EmployeeHandler) Profile(c *gin.Context) {
	employee, ok := currentEmployee(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Employee profile retrieved successfully",
		"employee": dto.ToEmployeeDTO(*employee),
	})
}

// ChangePassword replaces the employee's password.
func (h *EmployeeHandler) ChangePassword(c *gin.Context) {
	employee, ok := currentEmployee(c)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authService.ChangeEmployeePassword(employee.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// UpdateProfile applies a partial update to the employee's own record.
// Employment fields (position, salary, manager, status) are not accepted
// here; those belong to the tiers above.
func (h *EmployeeHandler) UpdateProfile(c *gin.Context) {
	employee, ok := currentEmployee(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	image, ok := saveOptionalImage(c, h.images)
	if !ok {
		return
	}

	updated, err := h.accountService.UpdateEmployee(employee.ID, nil, services.UpdateEmployeeInput{
		UpdateProfileInput: req.toInput(image),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Profile updated successfully",
		"employee": dto.ToEmployeeDTO(*updated),
	})
}

// Dashboard returns the employee's own record with the manager summary.
func (h *EmployeeHandler) Dashboard(c *gin.Context) {
	employee, ok := currentEmployee(c)
	if !ok {
		return
	}

	withManager, err := h.accountService.EmployeeWithManager(employee.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Employee dashboard data retrieved successfully",
		"employee": dto.ToEmployeeDTO(*withManager),
	})
}
