package storage

import "time"

// Admin represents a back-office user account.
// Role is one of SUPER_ADMIN, MANAGER, VIEWER (see the auth package for the
// ordering); it is stored verbatim.
type Admin struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	Role         string
	CreatedAt    time.Time
}

// RefreshToken is a long-lived opaque session credential.
// A token is usable iff RevokedAt is nil and ExpiresAt is in the future.
type RefreshToken struct {
	Token     string
	AdminID   int64
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// Application is a driver job application submitted through the public site.
// SSNEncrypted holds the applicant's national ID as a sealed envelope
// (see EncryptField); the plaintext is never stored.
type Application struct {
	ID              int64
	Name            string
	Email           string
	Phone           string
	ExperienceYears int
	CDLClass        string
	SSNEncrypted    string
	Status          string // NEW, REVIEWING, APPROVED, REJECTED
	ReviewedBy      *int64 // admin ID, cleared when that admin is deleted
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Truck is a fleet vehicle.
type Truck struct {
	ID         int64
	UnitNumber string
	Make       string
	Model      string
	Year       int
	VIN        string
	Mileage    int64
	Status     string // ACTIVE, IN_SHOP, RETIRED
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OilChange is one maintenance log entry for a truck.
type OilChange struct {
	ID          int64
	TruckID     int64
	Mileage     int64
	PerformedAt time.Time
	Notes       string
	CreatedAt   time.Time
}

// Request is an inbound message from the public site: a freight quote
// request or a general contact request.
type Request struct {
	ID             int64
	Kind           string // QUOTE, CONTACT
	Name           string
	Email          string
	Phone          string
	OriginCity     string
	DestCity       string
	FreightDetails string
	Message        string
	Status         string // NEW, CONTACTED, CLOSED
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AuditLog is one append-only record of an admin action.
// AdminID/AdminEmail are snapshots of the actor at the time of the action;
// AdminID may be nil for unauthenticated events (e.g. failed logins).
type AuditLog struct {
	ID           int64
	AdminID      *int64
	AdminEmail   string
	Action       string
	ResourceType string
	ResourceID   string
	Details      string // free-form JSON payload
	IPAddress    string
	UserAgent    string
	CreatedAt    time.Time
}

// Application statuses.
const (
	ApplicationStatusNew       = "NEW"
	ApplicationStatusReviewing = "REVIEWING"
	ApplicationStatusApproved  = "APPROVED"
	ApplicationStatusRejected  = "REJECTED"
)

// Truck statuses.
const (
	TruckStatusActive  = "ACTIVE"
	TruckStatusInShop  = "IN_SHOP"
	TruckStatusRetired = "RETIRED"
)

// Request kinds and statuses.
const (
	RequestKindQuote   = "QUOTE"
	RequestKindContact = "CONTACT"

	RequestStatusNew       = "NEW"
	RequestStatusContacted = "CONTACTED"
	RequestStatusClosed    = "CLOSED"
)
