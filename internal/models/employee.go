package models

// Employee is the bottom tier. ManagerID defines the authorization scope
// boundary: a manager may only act on employees whose ManagerID equals its
// own id.
type Employee struct {
	Account
	Department string  `gorm:"type:varchar(100)" json:"department"`
	Position   string  `gorm:"type:varchar(100)" json:"position"`
	Salary     float64 `json:"salary"`
	Address    string  `gorm:"type:varchar(255)" json:"address"`
	IsActive   bool    `json:"is_active"`
	CreatedBy  uint64  `gorm:"index" json:"created_by"`
	ManagerID  uint64  `gorm:"index;not null" json:"manager_id"`

	Manager *Manager `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
}

func (e *Employee) GetRole() Role { return RoleEmployee }
func (e *Employee) Active() bool  { return e.IsActive }
