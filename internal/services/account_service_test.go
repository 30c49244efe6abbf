package services

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/hrstack/staff-portal-api/internal/repository"
	"github.com/hrstack/staff-portal-api/internal/utils"
)

func newAccountService(stores repository.Stores, mailer *fakeMailer) *AccountService {
	return NewAccountService(stores, mailer, "http://localhost:3000", zerolog.Nop())
}

func TestAccountService_CreateManager(t *testing.T) {
	stores, _ := openTestStores(t)
	mailer := &fakeMailer{}
	svc := newAccountService(stores, mailer)

	manager, err := svc.CreateManager(1, CreateManagerInput{
		Username:   "mgr",
		Email:      "mgr@example.com",
		Phone:      "555-0100",
		Department: "Engineering",
		Password:   "supersecret",
	})
	require.NoError(t, err)
	require.NotZero(t, manager.ID)
	require.True(t, manager.IsActive)
	require.Equal(t, uint64(1), manager.CreatedBy)
	require.True(t, comparePassword(manager.PasswordHash, "supersecret"))

	// Welcome mail carries the initial password to the new account's email.
	require.Len(t, mailer.sent, 1)
	require.Equal(t, "mgr@example.com", mailer.sent[0].To)
	require.Contains(t, mailer.sent[0].Body, "supersecret")
}

func TestAccountService_CreateManager_MailFailureDoesNotFailCreation(t *testing.T) {
	stores, _ := openTestStores(t)
	svc := newAccountService(stores, &fakeMailer{failing: true})

	manager, err := svc.CreateManager(1, CreateManagerInput{
		Username: "mgr",
		Email:    "mgr@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.NotZero(t, manager.ID)
}

func TestAccountService_CreateEmployee(t *testing.T) {
	stores, _ := openTestStores(t)
	mailer := &fakeMailer{}
	svc := newAccountService(stores, mailer)

	manager := seedManager(t, stores, "mgr", true)

	employee, err := svc.CreateEmployee(manager.ID, manager.ID, CreateEmployeeInput{
		Username: "emp",
		Email:    "emp@example.com",
		Position: "Developer",
		Salary:   60000,
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.Equal(t, manager.ID, employee.ManagerID)
	require.True(t, employee.IsActive)
	require.Len(t, mailer.sent, 1)
}

func TestAccountService_CreateEmployee_RejectsInactiveManager(t *testing.T) {
	stores, _ := openTestStores(t)
	svc := newAccountService(stores, &fakeMailer{})

	manager := seedManager(t, stores, "off-mgr", false)

	_, err := svc.CreateEmployee(manager.ID, manager.ID, CreateEmployeeInput{
		Username: "emp",
		Email:    "emp@example.com",
		Password: "supersecret",
	})
	require.ErrorIs(t, err, ErrManagerInvalid)

	_, err = svc.CreateEmployee(1, 9999, CreateEmployeeInput{
		Username: "emp",
		Email:    "emp@example.com",
		Password: "supersecret",
	})
	require.ErrorIs(t, err, ErrManagerInvalid)
}

func TestAccountService_UpdateEmployee_ScopeHidesForeignEmployees(t *testing.T) {
	stores, _ := openTestStores(t)
	svc := newAccountService(stores, &fakeMailer{})

	mgrA := seedManager(t, stores, "mgr-a", true)
	mgrB := seedManager(t, stores, "mgr-b", true)
	empB := seedEmployee(t, stores, "emp-b", mgrB.ID, true)

	// Manager A reaching for B's employee reads as not found, exactly like a
	// nonexistent id.
	_, err := svc.UpdateEmployee(empB.ID, &mgrA.ID, UpdateEmployeeInput{
		UpdateProfileInput: UpdateProfileInput{FirstName: ptr("Sam")},
	})
	require.ErrorIs(t, err, ErrEmployeeNotFound)

	_, err = svc.ToggleEmployeeStatus(empB.ID, &mgrA.ID)
	require.ErrorIs(t, err, ErrEmployeeNotFound)

	// The owning manager can.
	updated, err := svc.UpdateEmployee(empB.ID, &mgrB.ID, UpdateEmployeeInput{
		UpdateProfileInput: UpdateProfileInput{FirstName: ptr("Sam")},
	})
	require.NoError(t, err)
	require.Equal(t, "Sam", updated.FirstName)
}

func TestAccountService_UpdateEmployee_Reassignment(t *testing.T) {
	stores, _ := openTestStores(t)
	svc := newAccountService(stores, &fakeMailer{})

	mgrA := seedManager(t, stores, "mgr-a", true)
	mgrB := seedManager(t, stores, "mgr-b", true)
	offMgr := seedManager(t, stores, "off-mgr", false)
	emp := seedEmployee(t, stores, "emp", mgrA.ID, true)

	// Admin path (nil scope) may move an employee to another active manager.
	updated, err := svc.UpdateEmployee(emp.ID, nil, UpdateEmployeeInput{
		ManagerID: &mgrB.ID,
	})
	require.NoError(t, err)
	require.Equal(t, mgrB.ID, updated.ManagerID)

	// Reassignment to a deactivated manager is rejected.
	_, err = svc.UpdateEmployee(emp.ID, nil, UpdateEmployeeInput{
		ManagerID: &offMgr.ID,
	})
	require.ErrorIs(t, err, ErrManagerInvalid)
}

func TestAccountService_UpdateProfile_UniquenessOnChange(t *testing.T) {
	stores, _ := openTestStores(t)
	svc := newAccountService(stores, &fakeMailer{})

	seedManager(t, stores, "mgr-a", true)
	mgrB := seedManager(t, stores, "mgr-b", true)

	_, err := svc.UpdateManager(mgrB.ID, UpdateManagerInput{
		UpdateProfileInput: UpdateProfileInput{Username: ptr("mgr-a")},
	})
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.UpdateManager(mgrB.ID, UpdateManagerInput{
		UpdateProfileInput: UpdateProfileInput{Email: ptr("mgr-a@example.com")},
	})
	require.ErrorIs(t, err, ErrEmailTaken)

	// Re-submitting your own current username is not a conflict.
	updated, err := svc.UpdateManager(mgrB.ID, UpdateManagerInput{
		UpdateProfileInput: UpdateProfileInput{Username: ptr("mgr-b"), FirstName: ptr("Bea")},
	})
	require.NoError(t, err)
	require.Equal(t, "Bea", updated.FirstName)
}

func TestAccountService_ToggleStatus(t *testing.T) {
	stores, _ := openTestStores(t)
	svc := newAccountService(stores, &fakeMailer{})

	manager := seedManager(t, stores, "mgr", true)

	toggled, err := svc.ToggleManagerStatus(manager.ID)
	require.NoError(t, err)
	require.False(t, toggled.IsActive)

	toggled, err = svc.ToggleManagerStatus(manager.ID)
	require.NoError(t, err)
	require.True(t, toggled.IsActive)

	_, err = svc.ToggleManagerStatus(9999)
	require.ErrorIs(t, err, ErrManagerNotFound)
}

func TestAccountService_ListingsAndStats(t *testing.T) {
	stores, _ := openTestStores(t)
	svc := newAccountService(stores, &fakeMailer{})

	mgrA := seedManager(t, stores, "mgr-a", true)
	mgrB := seedManager(t, stores, "mgr-b", true)
	seedEmployee(t, stores, "a1", mgrA.ID, true)
	seedEmployee(t, stores, "a2", mgrA.ID, false)
	seedEmployee(t, stores, "b1", mgrB.ID, true)

	params := utils.PaginationParams{Page: 1, Limit: 20, Offset: 0}

	managers, total, err := svc.ListManagers(params)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, managers, 2)

	all, total, err := svc.ListEmployees(params)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, all, 3)

	scoped, total, err := svc.ListEmployeesByManager(mgrA.ID, params)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, scoped, 2)

	count, active, err := svc.ManagerStats(mgrA.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
	require.EqualValues(t, 1, active)
}

func TestAccountService_EmployeeWithManager(t *testing.T) {
	stores, _ := openTestStores(t)
	svc := newAccountService(stores, &fakeMailer{})

	manager := seedManager(t, stores, "mgr", true)
	emp := seedEmployee(t, stores, "emp", manager.ID, true)

	loaded, err := svc.EmployeeWithManager(emp.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Manager)
	require.Equal(t, manager.ID, loaded.Manager.ID)

	_, err = svc.EmployeeWithManager(9999)
	require.ErrorIs(t, err, ErrEmployeeNotFound)
}
