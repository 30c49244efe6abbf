package handlers

import (
	"errors"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/hrstack/staff-portal-api/internal/constants"
	apierrors "github.com/hrstack/staff-portal-api/internal/errors"
	"github.com/hrstack/staff-portal-api/internal/middleware"
	"github.com/hrstack/staff-portal-api/internal/models"
	"github.com/hrstack/staff-portal-api/internal/services"
	"github.com/hrstack/staff-portal-api/internal/storage"
)

// bindLoginSession stores the identity claim in the server-side session so
// the session resolver can pick it up on later requests.
func bindLoginSession(c *gin.Context, identity models.Identity) error {
	session := sessions.Default(c)
	session.Set(constants.SessionKeyUserID, identity.GetID())
	session.Set(constants.SessionKeyRole, string(identity.GetRole()))
	return session.Save()
}

// clearSession drops the session claim on logout.
func clearSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	return session.Save()
}

// saveOptionalImage stores an uploaded profile image if one was attached.
// Returns the stored filename ("" when absent) and whether the request may
// proceed.
func saveOptionalImage(c *gin.Context, images *storage.ImageStore) (string, bool) {
	fh, err := c.FormFile("image")
	if err != nil {
		// No file attached.
		return "", true
	}
	name, err := images.Save(fh)
	if err != nil {
		apierrors.InternalError(c, "Failed to store image")
		return "", false
	}
	return name, true
}

// respondServiceError translates service errors into the API error taxonomy.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUsernameTooShort),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrManagerInvalid),
		errors.Is(err, services.ErrWrongPassword),
		errors.Is(err, services.ErrResetInvalid),
		errors.Is(err, services.ErrResetExpired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, "Invalid credentials")
	case errors.Is(err, services.ErrAccountInactive):
		apierrors.Unauthorized(c, "Account is inactive")
	case errors.Is(err, services.ErrIdentityNotFound),
		errors.Is(err, services.ErrManagerNotFound),
		errors.Is(err, services.ErrEmployeeNotFound),
		errors.Is(err, services.ErrEmailNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrResetSendFail):
		apierrors.InternalError(c, "Email could not be sent")
	default:
		apierrors.InternalError(c, "")
	}
}

func currentAdmin(c *gin.Context) (*models.Admin, bool) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return nil, false
	}
	admin, ok := identity.(*models.Admin)
	if !ok {
		apierrors.Unauthorized(c, "")
		return nil, false
	}
	return admin, true
}

func currentManager(c *gin.Context) (*models.Manager, bool) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return nil, false
	}
	manager, ok := identity.(*models.Manager)
	if !ok {
		apierrors.Unauthorized(c, "")
		return nil, false
	}
	return manager, true
}

func currentEmployee(c *gin.Context) (*models.Employee, bool) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return nil, false
	}
	employee, ok := identity.(*models.Employee)
	if !ok {
		apierrors.Unauthorized(c, "")
		return nil, false
	}
	return employee, true
}

// Shared request bodies

type loginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" form:"token" binding:"required"`
	NewPassword string `json:"new_password" form:"new_password" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" form:"new_password" binding:"required"`
}

type updateProfileRequest struct {
	Username  *string `json:"username" form:"username"`
	Email     *string `json:"email" form:"email"`
	FirstName *string `json:"first_name" form:"first_name"`
	LastName  *string `json:"last_name" form:"last_name"`
	Phone     *string `json:"phone" form:"phone"`
}

func (r updateProfileRequest) toInput(image string) services.UpdateProfileInput {
	return services.UpdateProfileInput{
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Image:     image,
	}
}
