package dto

// TierStats counts one tier's records by activity.
type TierStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// AdminDashboardDTO aggregates everything an admin sees on login.
type AdminDashboardDTO struct {
	Managers  []ManagerDTO  `json:"managers"`
	Employees []EmployeeDTO `json:"employees"`
	Stats     AdminStatsDTO `json:"stats"`
}

type AdminStatsDTO struct {
	TotalManagers     int `json:"total_managers"`
	ActiveManagers    int `json:"active_managers"`
	InactiveManagers  int `json:"inactive_managers"`
	TotalEmployees    int `json:"total_employees"`
	ActiveEmployees   int `json:"active_employees"`
	InactiveEmployees int `json:"inactive_employees"`
}

// ManagerDashboardDTO holds a manager's own employee roster and counts.
type ManagerDashboardDTO struct {
	Employees []EmployeeDTO `json:"employees"`
	Stats     TierStats     `json:"stats"`
}
