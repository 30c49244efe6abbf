package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hrstack/staff-portal-api/internal/models"
	"github.com/hrstack/staff-portal-api/internal/repository"
)

// fakeMailer records sends instead of dialing SMTP. When failing is set every
// send errors, which is how the rollback paths get exercised.
type fakeMailer struct {
	failing bool
	sent    []fakeMail
}

type fakeMail struct {
	To      string
	Subject string
	Body    string
}

func (m *fakeMailer) Send(to, subject, htmlBody string) error {
	if m.failing {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, fakeMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

func openTestStores(t *testing.T) (repository.Stores, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Admin{},
		&models.Manager{},
		&models.Employee{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return repository.Stores{
		Admins:    repository.NewAdminRepository(db),
		Managers:  repository.NewManagerRepository(db),
		Employees: repository.NewEmployeeRepository(db),
	}, db
}

func seedManager(t *testing.T, stores repository.Stores, username string, active bool) *models.Manager {
	t.Helper()

	hash, err := hashPassword("supersecret")
	require.NoError(t, err)

	manager := &models.Manager{
		Account: models.Account{
			Username:     username,
			Email:        username + "@example.com",
			Phone:        "555-0100",
			PasswordHash: hash,
		},
		Department: "Engineering",
		IsActive:   active,
		CreatedBy:  1,
	}
	require.NoError(t, stores.Managers.Create(manager))
	return manager
}

func seedEmployee(t *testing.T, stores repository.Stores, username string, managerID uint64, active bool) *models.Employee {
	t.Helper()

	hash, err := hashPassword("supersecret")
	require.NoError(t, err)

	employee := &models.Employee{
		Account: models.Account{
			Username:     username,
			Email:        username + "@example.com",
			Phone:        "555-0101",
			PasswordHash: hash,
		},
		Department: "Engineering",
		Position:   "Developer",
		Salary:     50000,
		IsActive:   active,
		CreatedBy:  managerID,
		ManagerID:  managerID,
	}
	require.NoError(t, stores.Employees.Create(employee))
	return employee
}

func ptr[T any](v T) *T { return &v }
