// Package storage handles all database operations for the admin API.
package storage

import (
	"context"
	"time"
)

// Storage defines the interface for persistence operations.
type Storage interface {
	// Admin accounts
	CreateAdmin(ctx context.Context, email, passwordHash, name, role string) (*Admin, error)
	GetAdminByID(ctx context.Context, id int64) (*Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (*Admin, error)
	ListAdmins(ctx context.Context) ([]*Admin, error)
	UpdateAdminRole(ctx context.Context, id int64, role string) error
	UpdateAdminPassword(ctx context.Context, id int64, passwordHash string) error
	DeleteAdmin(ctx context.Context, id int64) error

	// Refresh tokens
	CreateRefreshToken(ctx context.Context, token string, adminID int64, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeRefreshTokensForAdmin(ctx context.Context, adminID int64) error
	PurgeRefreshTokens(ctx context.Context, before time.Time) (int64, error)

	// Driver applications
	CreateApplication(ctx context.Context, app *Application) (*Application, error)
	GetApplication(ctx context.Context, id int64) (*Application, error)
	ListApplications(ctx context.Context, f ApplicationFilter) ([]*Application, error)
	UpdateApplicationReview(ctx context.Context, id int64, status string, reviewedBy int64, notes string) error
	DeleteApplication(ctx context.Context, id int64) error

	// Fleet
	CreateTruck(ctx context.Context, truck *Truck) (*Truck, error)
	GetTruck(ctx context.Context, id int64) (*Truck, error)
	ListTrucks(ctx context.Context) ([]*Truck, error)
	UpdateTruck(ctx context.Context, truck *Truck) error
	DeleteTruck(ctx context.Context, id int64) error
	AddOilChange(ctx context.Context, oc *OilChange) (*OilChange, error)
	ListOilChanges(ctx context.Context, truckID int64) ([]*OilChange, error)
	DeleteOilChange(ctx context.Context, id int64) error

	// Public request inbox
	CreateRequest(ctx context.Context, req *Request) (*Request, error)
	GetRequest(ctx context.Context, id int64) (*Request, error)
	ListRequests(ctx context.Context, f RequestFilter) ([]*Request, error)
	UpdateRequestStatus(ctx context.Context, id int64, status string) error
	DeleteRequest(ctx context.Context, id int64) error

	// Audit trail
	CreateAuditLog(ctx context.Context, entry *AuditLog) error
	ListAuditLogs(ctx context.Context, limit, offset int) ([]*AuditLog, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}

// ApplicationFilter narrows and pages an application listing.
// Zero values mean "no filter"; Limit of 0 falls back to a default page size.
type ApplicationFilter struct {
	Status string
	Search string // matches name or email, case-insensitive substring
	Page   int
	Limit  int
}

// RequestFilter narrows and pages the public request inbox.
type RequestFilter struct {
	Kind   string
	Status string
	Page   int
	Limit  int
}
