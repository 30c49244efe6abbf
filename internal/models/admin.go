package models

// Admin is the top of the hierarchy. There is no is_active flag: an admin
// record that exists may log in.
type Admin struct {
	Account
}

func (a *Admin) GetRole() Role { return RoleAdmin }
func (a *Admin) Active() bool  { return true }
