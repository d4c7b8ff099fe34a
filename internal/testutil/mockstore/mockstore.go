// Package mockstore provides a configurable mock implementation of the
// storage interface for testing.
//
// The MockStorage type uses function fields for each method, allowing tests
// to customize behavior as needed while providing sensible defaults for
// methods that aren't customized.
package mockstore

import (
	"context"
	"time"

	"github.com/ridgeline-transport/admin-api/internal/storage"
)

// MockStorage is a configurable mock implementation of storage.Storage.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a sensible default value.
type MockStorage struct {
	// Admin accounts
	CreateAdminFunc         func(ctx context.Context, email, passwordHash, name, role string) (*storage.Admin, error)
	GetAdminByIDFunc        func(ctx context.Context, id int64) (*storage.Admin, error)
	GetAdminByEmailFunc     func(ctx context.Context, email string) (*storage.Admin, error)
	ListAdminsFunc          func(ctx context.Context) ([]*storage.Admin, error)
	UpdateAdminRoleFunc     func(ctx context.Context, id int64, role string) error
	UpdateAdminPasswordFunc func(ctx context.Context, id int64, passwordHash string) error
	DeleteAdminFunc         func(ctx context.Context, id int64) error

	// Refresh tokens
	CreateRefreshTokenFunc          func(ctx context.Context, token string, adminID int64, expiresAt time.Time) error
	GetRefreshTokenFunc             func(ctx context.Context, token string) (*storage.RefreshToken, error)
	RevokeRefreshTokenFunc          func(ctx context.Context, token string) error
	RevokeRefreshTokensForAdminFunc func(ctx context.Context, adminID int64) error
	PurgeRefreshTokensFunc          func(ctx context.Context, before time.Time) (int64, error)

	// Driver applications
	CreateApplicationFunc       func(ctx context.Context, app *storage.Application) (*storage.Application, error)
	GetApplicationFunc          func(ctx context.Context, id int64) (*storage.Application, error)
	ListApplicationsFunc        func(ctx context.Context, f storage.ApplicationFilter) ([]*storage.Application, error)
	UpdateApplicationReviewFunc func(ctx context.Context, id int64, status string, reviewedBy int64, notes string) error
	DeleteApplicationFunc       func(ctx context.Context, id int64) error

	// Fleet
	CreateTruckFunc     func(ctx context.Context, truck *storage.Truck) (*storage.Truck, error)
	GetTruckFunc        func(ctx context.Context, id int64) (*storage.Truck, error)
	ListTrucksFunc      func(ctx context.Context) ([]*storage.Truck, error)
	UpdateTruckFunc     func(ctx context.Context, truck *storage.Truck) error
	DeleteTruckFunc     func(ctx context.Context, id int64) error
	AddOilChangeFunc    func(ctx context.Context, oc *storage.OilChange) (*storage.OilChange, error)
	ListOilChangesFunc  func(ctx context.Context, truckID int64) ([]*storage.OilChange, error)
	DeleteOilChangeFunc func(ctx context.Context, id int64) error

	// Public request inbox
	CreateRequestFunc       func(ctx context.Context, req *storage.Request) (*storage.Request, error)
	GetRequestFunc          func(ctx context.Context, id int64) (*storage.Request, error)
	ListRequestsFunc        func(ctx context.Context, f storage.RequestFilter) ([]*storage.Request, error)
	UpdateRequestStatusFunc func(ctx context.Context, id int64, status string) error
	DeleteRequestFunc       func(ctx context.Context, id int64) error

	// Audit trail
	CreateAuditLogFunc func(ctx context.Context, entry *storage.AuditLog) error
	ListAuditLogsFunc  func(ctx context.Context, limit, offset int) ([]*storage.AuditLog, error)

	// Lifecycle
	PingFunc  func(ctx context.Context) error
	CloseFunc func() error
}

// CreateAdmin creates a new admin account.
func (m *MockStorage) CreateAdmin(ctx context.Context, email, passwordHash, name, role string) (*storage.Admin, error) {
	if m.CreateAdminFunc != nil {
		return m.CreateAdminFunc(ctx, email, passwordHash, name, role)
	}
	return &storage.Admin{ID: 1, Email: email, Name: name, Role: role, PasswordHash: passwordHash}, nil
}

// GetAdminByID retrieves an admin by ID.
func (m *MockStorage) GetAdminByID(ctx context.Context, id int64) (*storage.Admin, error) {
	if m.GetAdminByIDFunc != nil {
		return m.GetAdminByIDFunc(ctx, id)
	}
	return nil, storage.ErrNotFound
}

// GetAdminByEmail retrieves an admin by email.
func (m *MockStorage) GetAdminByEmail(ctx context.Context, email string) (*storage.Admin, error) {
	if m.GetAdminByEmailFunc != nil {
		return m.GetAdminByEmailFunc(ctx, email)
	}
	return nil, storage.ErrNotFound
}

// ListAdmins retrieves all admin accounts.
func (m *MockStorage) ListAdmins(ctx context.Context) ([]*storage.Admin, error) {
	if m.ListAdminsFunc != nil {
		return m.ListAdminsFunc(ctx)
	}
	return []*storage.Admin{}, nil
}

// UpdateAdminRole changes an admin's role.
func (m *MockStorage) UpdateAdminRole(ctx context.Context, id int64, role string) error {
	if m.UpdateAdminRoleFunc != nil {
		return m.UpdateAdminRoleFunc(ctx, id, role)
	}
	return nil
}

// UpdateAdminPassword changes an admin's password hash.
func (m *MockStorage) UpdateAdminPassword(ctx context.Context, id int64, passwordHash string) error {
	if m.UpdateAdminPasswordFunc != nil {
		return m.UpdateAdminPasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

// DeleteAdmin removes an admin account.
func (m *MockStorage) DeleteAdmin(ctx context.Context, id int64) error {
	if m.DeleteAdminFunc != nil {
		return m.DeleteAdminFunc(ctx, id)
	}
	return nil
}

// CreateRefreshToken stores a new refresh token.
func (m *MockStorage) CreateRefreshToken(ctx context.Context, token string, adminID int64, expiresAt time.Time) error {
	if m.CreateRefreshTokenFunc != nil {
		return m.CreateRefreshTokenFunc(ctx, token, adminID, expiresAt)
	}
	return nil
}

// GetRefreshToken retrieves a refresh token row.
func (m *MockStorage) GetRefreshToken(ctx context.Context, token string) (*storage.RefreshToken, error) {
	if m.GetRefreshTokenFunc != nil {
		return m.GetRefreshTokenFunc(ctx, token)
	}
	return nil, storage.ErrNotFound
}

// RevokeRefreshToken revokes one refresh token.
func (m *MockStorage) RevokeRefreshToken(ctx context.Context, token string) error {
	if m.RevokeRefreshTokenFunc != nil {
		return m.RevokeRefreshTokenFunc(ctx, token)
	}
	return nil
}

// RevokeRefreshTokensForAdmin revokes every refresh token of one admin.
func (m *MockStorage) RevokeRefreshTokensForAdmin(ctx context.Context, adminID int64) error {
	if m.RevokeRefreshTokensForAdminFunc != nil {
		return m.RevokeRefreshTokensForAdminFunc(ctx, adminID)
	}
	return nil
}

// PurgeRefreshTokens deletes old expired and revoked tokens.
func (m *MockStorage) PurgeRefreshTokens(ctx context.Context, before time.Time) (int64, error) {
	if m.PurgeRefreshTokensFunc != nil {
		return m.PurgeRefreshTokensFunc(ctx, before)
	}
	return 0, nil
}

// CreateApplication stores a new driver application.
func (m *MockStorage) CreateApplication(ctx context.Context, app *storage.Application) (*storage.Application, error) {
	if m.CreateApplicationFunc != nil {
		return m.CreateApplicationFunc(ctx, app)
	}
	out := *app
	out.ID = 1
	out.Status = storage.ApplicationStatusNew
	return &out, nil
}

// GetApplication retrieves an application by ID.
func (m *MockStorage) GetApplication(ctx context.Context, id int64) (*storage.Application, error) {
	if m.GetApplicationFunc != nil {
		return m.GetApplicationFunc(ctx, id)
	}
	return nil, storage.ErrNotFound
}

// ListApplications retrieves applications matching a filter.
func (m *MockStorage) ListApplications(ctx context.Context, f storage.ApplicationFilter) ([]*storage.Application, error) {
	if m.ListApplicationsFunc != nil {
		return m.ListApplicationsFunc(ctx, f)
	}
	return []*storage.Application{}, nil
}

// UpdateApplicationReview records a review decision.
func (m *MockStorage) UpdateApplicationReview(ctx context.Context, id int64, status string, reviewedBy int64, notes string) error {
	if m.UpdateApplicationReviewFunc != nil {
		return m.UpdateApplicationReviewFunc(ctx, id, status, reviewedBy, notes)
	}
	return nil
}

// DeleteApplication removes an application.
func (m *MockStorage) DeleteApplication(ctx context.Context, id int64) error {
	if m.DeleteApplicationFunc != nil {
		return m.DeleteApplicationFunc(ctx, id)
	}
	return nil
}

// CreateTruck adds a truck.
func (m *MockStorage) CreateTruck(ctx context.Context, truck *storage.Truck) (*storage.Truck, error) {
	if m.CreateTruckFunc != nil {
		return m.CreateTruckFunc(ctx, truck)
	}
	out := *truck
	out.ID = 1
	return &out, nil
}

// GetTruck retrieves a truck by ID.
func (m *MockStorage) GetTruck(ctx context.Context, id int64) (*storage.Truck, error) {
	if m.GetTruckFunc != nil {
		return m.GetTruckFunc(ctx, id)
	}
	return nil, storage.ErrNotFound
}

// ListTrucks retrieves all trucks.
func (m *MockStorage) ListTrucks(ctx context.Context) ([]*storage.Truck, error) {
	if m.ListTrucksFunc != nil {
		return m.ListTrucksFunc(ctx)
	}
	return []*storage.Truck{}, nil
}

// UpdateTruck replaces a truck's fields.
func (m *MockStorage) UpdateTruck(ctx context.Context, truck *storage.Truck) error {
	if m.UpdateTruckFunc != nil {
		return m.UpdateTruckFunc(ctx, truck)
	}
	return nil
}

// DeleteTruck removes a truck.
func (m *MockStorage) DeleteTruck(ctx context.Context, id int64) error {
	if m.DeleteTruckFunc != nil {
		return m.DeleteTruckFunc(ctx, id)
	}
	return nil
}

// AddOilChange appends a maintenance entry.
func (m *MockStorage) AddOilChange(ctx context.Context, oc *storage.OilChange) (*storage.OilChange, error) {
	if m.AddOilChangeFunc != nil {
		return m.AddOilChangeFunc(ctx, oc)
	}
	out := *oc
	out.ID = 1
	return &out, nil
}

// ListOilChanges retrieves the maintenance log for a truck.
func (m *MockStorage) ListOilChanges(ctx context.Context, truckID int64) ([]*storage.OilChange, error) {
	if m.ListOilChangesFunc != nil {
		return m.ListOilChangesFunc(ctx, truckID)
	}
	return []*storage.OilChange{}, nil
}

// DeleteOilChange removes a maintenance entry.
func (m *MockStorage) DeleteOilChange(ctx context.Context, id int64) error {
	if m.DeleteOilChangeFunc != nil {
		return m.DeleteOilChangeFunc(ctx, id)
	}
	return nil
}

// CreateRequest stores a public site request.
func (m *MockStorage) CreateRequest(ctx context.Context, req *storage.Request) (*storage.Request, error) {
	if m.CreateRequestFunc != nil {
		return m.CreateRequestFunc(ctx, req)
	}
	out := *req
	out.ID = 1
	out.Status = storage.RequestStatusNew
	return &out, nil
}

// GetRequest retrieves a request by ID.
func (m *MockStorage) GetRequest(ctx context.Context, id int64) (*storage.Request, error) {
	if m.GetRequestFunc != nil {
		return m.GetRequestFunc(ctx, id)
	}
	return nil, storage.ErrNotFound
}

// ListRequests retrieves requests matching a filter.
func (m *MockStorage) ListRequests(ctx context.Context, f storage.RequestFilter) ([]*storage.Request, error) {
	if m.ListRequestsFunc != nil {
		return m.ListRequestsFunc(ctx, f)
	}
	return []*storage.Request{}, nil
}

// UpdateRequestStatus moves a request through its workflow.
func (m *MockStorage) UpdateRequestStatus(ctx context.Context, id int64, status string) error {
	if m.UpdateRequestStatusFunc != nil {
		return m.UpdateRequestStatusFunc(ctx, id, status)
	}
	return nil
}

// DeleteRequest removes a request.
func (m *MockStorage) DeleteRequest(ctx context.Context, id int64) error {
	if m.DeleteRequestFunc != nil {
		return m.DeleteRequestFunc(ctx, id)
	}
	return nil
}

// CreateAuditLog appends an audit entry.
func (m *MockStorage) CreateAuditLog(ctx context.Context, entry *storage.AuditLog) error {
	if m.CreateAuditLogFunc != nil {
		return m.CreateAuditLogFunc(ctx, entry)
	}
	return nil
}

// ListAuditLogs retrieves audit entries, newest first.
func (m *MockStorage) ListAuditLogs(ctx context.Context, limit, offset int) ([]*storage.AuditLog, error) {
	if m.ListAuditLogsFunc != nil {
		return m.ListAuditLogsFunc(ctx, limit, offset)
	}
	return []*storage.AuditLog{}, nil
}

// Ping checks database connectivity.
func (m *MockStorage) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// Close closes the store.
func (m *MockStorage) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}
