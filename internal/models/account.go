package models

import "time"

// Account is the shape shared by all three identity variants. PasswordHash
// and the reset fields never leave the process; the dto package is the only
// sanctioned outward view.
type Account struct {
	ID               uint64     `gorm:"primarykey" json:"id"`
	Username         string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email            string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FirstName        string     `gorm:"type:varchar(100)" json:"first_name"`
	LastName         string     `gorm:"type:varchar(100)" json:"last_name"`
	Phone            string     `gorm:"type:varchar(30)" json:"phone"`
	Image            string     `gorm:"type:varchar(255)" json:"image,omitempty"`
	PasswordHash     string     `gorm:"type:varchar(255);not null" json:"-"`
	ResetTokenHash   string     `gorm:"type:varchar(64)" json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (a *Account) GetID() uint64       { return a.ID }
func (a *Account) GetUsername() string { return a.Username }
func (a *Account) GetEmail() string    { return a.Email }

// Identity is the polymorphic view over Admin, Manager and Employee used by
// the token service, the authentication gate and the mailer.
type Identity interface {
	GetID() uint64
	GetRole() Role
	GetUsername() string
	GetEmail() string
	// Active reports login eligibility. Admins are always active; Manager
	// and Employee carry an explicit flag.
	Active() bool
}
