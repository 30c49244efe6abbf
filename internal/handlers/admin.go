package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hrstack/staff-portal-api/internal/dto"
	apierrors "github.com/hrstack/staff-portal-api/internal/errors"
	"github.com/hrstack/staff-portal-api/internal/models"
	"github.com/hrstack/staff-portal-api/internal/services"
	"github.com/hrstack/staff-portal-api/internal/storage"
	"github.com/hrstack/staff-portal-api/internal/utils"
)

// AdminHandler serves the /api/admin route group.
type AdminHandler struct {
	authService    *services.AuthService
	accountService *services.AccountService
	resetService   *services.ResetService
	images         *storage.ImageStore
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(authService *services.AuthService, accountService *services.AccountService, resetService *services.ResetService, images *storage.ImageStore) *AdminHandler {
	return &AdminHandler{
		authService:    authService,
		accountService: accountService,
		resetService:   resetService,
		images:         images,
	}
}

// Register creates an admin account (self-service, no elevation check).
func (h *AdminHandler) Register(c *gin.Context) {
	var req struct {
		Username  string `json:"username" form:"username" binding:"required,min=3,max=50"`
		Email     string `json:"email" form:"email" binding:"required,email"`
		FirstName string `json:"first_name" form:"first_name"`
		LastName  string `json:"last_name" form:"last_name"`
		Phone     string `json:"phone" form:"phone" binding:"required"`
		Password  string `json:"password" form:"password" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	image, ok := saveOptionalImage(c, h.images)
	if !ok {
		return
	}

	admin, token, err := h.authService.RegisterAdmin(services.RegisterAdminInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Password:  req.Password,
		Image:     image,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Admin registered successfully",
		"token":   token,
		"admin":   dto.ToAdminDTO(*admin),
	})
}

// Login authenticates an admin, binds the session and returns a bearer token.
func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	admin, token, err := h.authService.LoginAdmin(req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := bindLoginSession(c, admin); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"admin":   dto.ToAdminDTO(*admin),
	})
}

// Logout removes the session claim.
func (h *AdminHandler) Logout(c *gin.Context) {
	if err := clearSession(c); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// ForgotPassword starts the reset flow.
func (h *AdminHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.resetService.Request(models.RoleAdmin, req.Email); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent"})
}

// ResetPassword consumes a reset token.
func (h *AdminHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.resetService.Consume(models.RoleAdmin, req.Token, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}

// Profile returns the authenticated admin.
func (h *AdminHandler) Profile(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Admin profile retrieved successfully",
		"admin":   dto.ToAdminDTO(*admin),
	})
}

// ChangePassword replaces the admin's password.
func (h *AdminHandler) ChangePassword(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authService.ChangeAdminPassword(admin.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// UpdateProfile applies a partial update to the admin's own record.
func (h *AdminHandler) UpdateProfile(c *gin.Context) {
	admin, ok := currentAdmin(c)
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

	updated, err := h.accountService.UpdateAdminProfile(admin.ID, req.toInput(image))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"admin":   dto.ToAdminDTO(*updated),
	})
}

// Dashboard aggregates both lower tiers with activity counts.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}

	unbounded := utils.Unbounded()
	managers, _, err := h.accountService.ListManagers(unbounded)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	employees, _, err := h.accountService.ListEmployees(unbounded)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	stats := dto.AdminStatsDTO{TotalManagers: len(managers), TotalEmployees: len(employees)}
	for _, m := range managers {
		if m.IsActive {
			stats.ActiveManagers++
		}
	}
	stats.InactiveManagers = stats.TotalManagers - stats.ActiveManagers
	for _, e := range employees {
		if e.IsActive {
			stats.ActiveEmployees++
		}
	}
	stats.InactiveEmployees = stats.TotalEmployees - stats.ActiveEmployees

	c.JSON(http.StatusOK, gin.H{
		"message":   "Admin dashboard data retrieved successfully",
		"admin":     dto.ToAdminDTO(*admin),
		"managers":  dto.ToManagerDTOs(managers),
		"employees": dto.ToEmployeeDTOs(employees),
		"stats":     stats,
	})
}

// AddManager creates a manager account under the authenticated admin.
func (h *AdminHandler) AddManager(c *gin.Context) {
	admin, ok := currentAdmin(c)
	if !ok {
		return
	}

	var req struct {
		Username   string `json:"username" form:"username" binding:"required,min=3,max=50"`
		Email      string `json:"email" form:"email" binding:"required,email"`
		FirstName  string `json:"first_name" form:"first_name"`
		LastName   string `json:"last_name" form:"last_name"`
		Phone      string `json:"phone" form:"phone" binding:"required"`
		Department string `json:"department" form:"department"`
		Password   string `json:"password" form:"password" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	image, ok := saveOptionalImage(c, h.images)
	if !ok {
		return
	}

	manager, err := h.accountService.CreateManager(admin.ID, services.CreateManagerInput{
		Username:   req.Username,
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Department: req.Department,
		Password:   req.Password,
		Image:      image,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Manager created successfully",
		"manager": dto.ToManagerDTO(*manager),
	})
}

// ListManagers returns all managers.
func (h *AdminHandler) ListManagers(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	managers, total, err := h.accountService.ListManagers(params)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Managers retrieved successfully",
		"managers": dto.ToManagerDTOs(managers),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// ListEmployees returns all employees across managers.
func (h *AdminHandler) ListEmployees(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	employees, total, err := h.accountService.ListEmployees(params)
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

// UpdateManager applies an admin-driven partial update to a manager.
func (h *AdminHandler) UpdateManager(c *gin.Context) {
	id, ok := pathID(c)
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

	manager, err := h.accountService.UpdateManager(id, services.UpdateManagerInput{
		UpdateProfileInput: req.toInput(image),
		Department:         req.Department,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Manager updated successfully",
		"manager": dto.ToManagerDTO(*manager),
	})
}

// UpdateEmployee applies an admin-driven partial update to any employee,
// including reassignment to another manager.
func (h *AdminHandler) UpdateEmployee(c *gin.Context) {
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
		ManagerID  *uint64  `json:"manager_id" form:"manager_id"`
	}
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	image, ok := saveOptionalImage(c, h.images)
	if !ok {
		return
	}

	employee, err := h.accountService.UpdateEmployee(id, nil, services.UpdateEmployeeInput{
		UpdateProfileInput: req.toInput(image),
		Department:         req.Department,
		Position:           req.Position,
		Salary:             req.Salary,
		Address:            req.Address,
		ManagerID:          req.ManagerID,
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

// ToggleManagerStatus activates or deactivates a manager.
func (h *AdminHandler) ToggleManagerStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	manager, err := h.accountService.ToggleManagerStatus(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Manager " + statusWord(manager.IsActive) + " successfully",
		"manager": dto.ToManagerDTO(*manager),
	})
}

// ToggleEmployeeStatus activates or deactivates any employee.
func (h *AdminHandler) ToggleEmployeeStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	employee, err := h.accountService.ToggleEmployeeStatus(id, nil)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Employee " + statusWord(employee.IsActive) + " successfully",
		"employee": dto.ToEmployeeDTO(*employee),
	})
}

func pathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}

func statusWord(active bool) string {
	if active {
		return "activated"
	}
	return "deactivated"
}
