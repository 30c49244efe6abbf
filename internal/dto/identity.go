package dto

import (
	"time"

	"github.com/hrstack/staff-portal-api/internal/models"
)

// accountDTO is the sanitized common shape. Password hashes and reset fields
// are stripped unconditionally by construction: they simply have no field
// here.
type accountDTO struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AdminDTO struct {
	accountDTO
	Role models.Role `json:"role"`
}

type ManagerDTO struct {
	accountDTO
	Role       models.Role `json:"role"`
	Department string      `json:"department"`
	IsActive   bool        `json:"is_active"`
	CreatedBy  uint64      `json:"created_by"`
}

type EmployeeDTO struct {
	accountDTO
	Role       models.Role    `json:"role"`
	Department string         `json:"department"`
	Position   string         `json:"position"`
	Salary     float64        `json:"salary"`
	Address    string         `json:"address"`
	IsActive   bool           `json:"is_active"`
	CreatedBy  uint64         `json:"created_by"`
	ManagerID  uint64         `json:"manager_id"`
	Manager    *ManagerRefDTO `json:"manager,omitempty"`
}

// ManagerRefDTO is the short manager summary embedded in employee views.
type ManagerRefDTO struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

func toAccountDTO(a models.Account) accountDTO {
	return accountDTO{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Phone:     a.Phone,
		Image:     a.Image,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// ToAdminDTO converts an admin record to its sanitized view.
func ToAdminDTO(admin models.Admin) AdminDTO {
	return AdminDTO{
		accountDTO: toAccountDTO(admin.Account),
		Role:       models.RoleAdmin,
	}
}

// ToManagerDTO converts a manager record to its sanitized view.
func ToManagerDTO(manager models.Manager) ManagerDTO {
	return ManagerDTO{
		accountDTO: toAccountDTO(manager.Account),
		Role:       models.RoleManager,
		Department: manager.Department,
		IsActive:   manager.IsActive,
		CreatedBy:  manager.CreatedBy,
	}
}

// ToEmployeeDTO converts an employee record to its sanitized view, including
// the manager summary when the relation is loaded.
func ToEmployeeDTO(employee models.Employee) EmployeeDTO {
	out := EmployeeDTO{
		accountDTO: toAccountDTO(employee.Account),
		Role:       models.RoleEmployee,
		Department: employee.Department,
		Position:   employee.Position,
		Salary:     employee.Salary,
		Address:    employee.Address,
		IsActive:   employee.IsActive,
		CreatedBy:  employee.CreatedBy,
		ManagerID:  employee.ManagerID,
	}
	if employee.Manager != nil {
		out.Manager = &ManagerRefDTO{
			ID:        employee.Manager.ID,
			Username:  employee.Manager.Username,
			Email:     employee.Manager.Email,
			FirstName: employee.Manager.FirstName,
			LastName:  employee.Manager.LastName,
			Phone:     employee.Manager.Phone,
		}
	}
	return out
}

// ToManagerDTOs converts a manager list.
func ToManagerDTOs(managers []models.Manager) []ManagerDTO {
	out := make([]ManagerDTO, len(managers))
	for i, m := range managers {
		out[i] = ToManagerDTO(m)
	}
	return out
}

// ToEmployeeDTOs converts an employee list.
func ToEmployeeDTOs(employees []models.Employee) []EmployeeDTO {
	out := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		out[i] = ToEmployeeDTO(e)
	}
	return out
}
