package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hrstack/staff-portal-api/internal/dto"
	apierrors "github.com/hrstack/staff-portal-api/internal/errors"
	"github.com/hrstack/staff-portal-api/internal/models"
	"github.com/hrstack/staff-portal-api/internal/services"
	"github.com/hrstack/staff-portal-api/internal/storage"
	"github.com/hrstack/staff-portal-api/internal/utils"
)

// ManagerHandler serves the /api/manager route group. Every employee
// operation it exposes is scoped to the authenticated manager's own tree.
type ManagerHandler struct {
	authService    *services.AuthService
	accountService *services.AccountService
	resetService   *services.ResetService
	images         *storage.ImageStore
}

// NewManagerHandler creates a new ManagerHandler.
func NewManagerHandler(authService *services.AuthService, accountService *services.AccountService, resetService *services.ResetService, images *storage.ImageStore) *ManagerHandler {
	return &ManagerHandler{
		authService:    authService,
		accountService: accountService,
		resetService:   resetService,
		images:         images,
	}
}

// Login authenticates a manager, binds the session and returns a bearer token.
func (h *ManagerHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	manager, token, err := h.authService.LoginManager(req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := bindLoginSession(c, manager); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"manager": dto.ToManagerDTO(*manager),
	})
}

// Logout removes the session claim.
func (h *ManagerHandler) Logout(c *gin.Context) {
	if err := clearSession(c); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// ForgotPassword starts the reset flow.
func (h *ManagerHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.resetService.Request(models.RoleManager, req.Email); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent"})
}

// ResetPassword consumes a reset token.
func (h *ManagerHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.resetService.Consume(models.RoleManager, req.Token, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}

// Profile returns the authenticated manager.
func (h *ManagerHandler) Profile(c *gin.Context) {
	manager, ok := currentManager(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Manager profile retrieved successfully",
		"manager": dto.ToManagerDTO(*manager),
	})
}

// ChangePassword replaces the manager's password.
func (h *ManagerHandler) ChangePassword(c *gin.Context) {
	manager, ok := currentManager(c)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authService.ChangeManagerPassword(manager.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// UpdateProfile applies a partial update to the manager's own record.
func (h *ManagerHandler) UpdateProfile(c *gin.Context) {
	manager, ok := currentManager(c)
	if !ok {
		return
	}

	var req struct {
		updateProfileRequest
		Department *string `json:"department" form:"department"`
	}
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	image, ok := saveOptionalImage(c, h.images)
	if !ok {
		return
	}

	updated, err := h.accountService.UpdateManager(manager.ID, services.UpdateManagerInput{
		UpdateProfileInput: req.toInput(image),
		Department:         req.Department,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"manager": dto.ToManagerDTO(*updated),
	})
}

// Dashboard lists the manager's own employees with activity counts.
func (h *ManagerHandler) Dashboard(c *gin.Context) {
	manager, ok := currentManager(c)
	if !ok {
		return
	}

	employees, _, err := h.accountService.ListEmployeesByManager(manager.ID, utils.Unbounded())
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	stats := dto.TierStats{Total: len(employees)}
	for _, e := range employees {
		if e.IsActive {
			stats.Active++
		}
	}
	stats.Inactive = stats.Total - stats.Active

	c.JSON(http.StatusOK, gin.H{
		"message":   "Manager dashboard data retrieved successfully",
		"manager":   dto.ToManagerDTO(*manager),
		"employees": dto.ToEmployeeDTOs(employees),
		"stats":     stats,
	})
}

// AddEmployee creates an employee under the authenticated manager.
func (h *ManagerHandler) AddEmployee(c *gin.Context) {
	manager, ok := currentManager(c)
	if !ok {
		return
	}

	var req struct {
		Username   string  `json:"username" form:"username" binding:"required,min=3,max=50"`
		Email      string  `json:"email" form:"email" binding:"required,email"`
		FirstName  string  `json:"first_name" form:"first_name"`
		LastName   string  `json:"last_name" form:"last_name"`
		Phone      string  `json:"phone" form:"phone" binding:"required"`
		Department string  `json:"department" form:"department"`
		Position   string  `json:"position" form:"position"`
		Salary     float64 `json:"salary" form:"salary"`
		Address    string  `json:"address" form:"address"`
		Password   string  `json:"password" form:"password" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	image, ok := saveOptionalImage(c, h.images)
	if !ok {
		return
	}

	employee, err := h.accountService.CreateEmployee(manager.ID, manager.ID, services.CreateEmployeeInput{
		Username:   req.Username,
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Department: req.Department,
		Position:   req.Position,
		Salary:     req.Salary,
		Address:    req.Address,
		Password:   req.Password,
		Image:      image,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Employee created successfully",
		"employee": dto.ToEmployeeDTO(*employee),
	})
}

// ListEmployees returns the authenticated manager's employees.
func (h *ManagerHandler) ListEmployees(c *gin.Context) {
	manager, ok := currentManager(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	employees, total, err := h.accountService.ListEmployeesByManager(manager.ID, params)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Employees retrieved successfully",
		"employees": dto.ToEmployeeDTOs(employees),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// UpdateEmployee applies a partial update to one of the manager's own
// employees. An employee outside the manager's tree reads as not found.
func (h *ManagerHandler) UpdateEmployee(c *gin.Context) {
	manager, ok := currentManager(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		updateProfileRequest
		Department *string  `json:"department" form:"department"`
		Position   *string  `json:"position" form:"position"`
		Salary     *float64 `json:"salary" form:"salary"`
		Address    *string  `json:"address" form:"address"`
	}
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	image, ok := saveOptionalImage(c, h.images)
	if !ok {
		return
	}

	employee, err := h.accountService.UpdateEmployee(id, &manager.ID, services.UpdateEmployeeInput{
		UpdateProfileInput: req.toInput(image),
		Department:         req.Department,
		Position:           req.Position,
		Salary:             req.Salary,
		Address:            req.Address,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Employee updated successfully",
		"employee": dto.ToEmployeeDTO(*employee),
	})
}

// ToggleEmployeeStatus activates or deactivates one of the manager's own
// employees.
func (h *ManagerHandler) ToggleEmployeeStatus(c *gin.Context) {
	manager, ok := currentManager(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	employee, err := h.accountService.ToggleEmployeeStatus(id, &manager.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Employee " + statusWord(employee.IsActive) + " successfully",
		"employee": dto.ToEmployeeDTO(*employee),
	})
}

// Stats returns the manager's employee counts.
func (h *ManagerHandler) Stats(c *gin.Context) {
	manager, ok := currentManager(c)
	if !ok {
		return
	}

	total, active, err := h.accountService.ManagerStats(manager.ID)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stats retrieved successfully",
		"stats": dto.TierStats{
			Total:    int(total),
			Active:   int(active),
			Inactive: int(total - active),
		},
	})
}
