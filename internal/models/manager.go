package models

// Manager records are created only by an admin. CreatedBy is a back-reference,
// not an ownership boundary; scope for managers is defined on Employee.
type Manager struct {
	Account
	Department string `gorm:"type:varchar(100)" json:"department"`
	// Plain bool on purpose: a default tag would make GORM drop false on
	// insert. Creation paths set this explicitly.
	IsActive  bool   `json:"is_active"`
	CreatedBy uint64 `gorm:"index" json:"created_by"`
}

func (m *Manager) GetRole() Role { return RoleManager }
func (m *Manager) Active() bool  { return m.IsActive }
