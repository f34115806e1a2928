package repositories

import (
	"context"

	"github.com/campustrack/academic-record-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role *models.UserRole `json:"role"`
	USN  *string          `json:"usn"`
}

type AttendanceFilters struct {
	USN          *string `json:"usn"`
	Date         *string `json:"date"`
	Hour         *string `json:"hour"`
	Subject      *string `json:"subject"`
	FacultyEmail *string `json:"faculty_email"`
}

type MarkFilters struct {
	USN          *string `json:"usn"`
	Subject      *string `json:"subject"`
	FacultyEmail *string `json:"faculty_email"`
}

// ===== ENTITY REPOSITORIES =====

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, error)

	// UpdateFields applies a partial update; fields not present are untouched.
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

type AttendanceRepository interface {
	Create(ctx context.Context, record *models.AttendanceRecord) error
	GetByID(ctx context.Context, id uint) (*models.AttendanceRecord, error)

	// GetByKey is an exact match on the full natural key (usn, date, hour).
	GetByKey(ctx context.Context, usn, date, hour string) (*models.AttendanceRecord, error)
	List(ctx context.Context, filters AttendanceFilters) ([]*models.AttendanceRecord, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	DeleteByFilter(ctx context.Context, filters AttendanceFilters) error
}

type MarkRepository interface {
	Create(ctx context.Context, record *models.IAMarkRecord) error
	GetByID(ctx context.Context, id uint) (*models.IAMarkRecord, error)

	// GetByKey is an exact match on the full natural key (usn, subject).
	GetByKey(ctx context.Context, usn, subject string) (*models.IAMarkRecord, error)
	List(ctx context.Context, filters MarkFilters) ([]*models.IAMarkRecord, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	DeleteByFilter(ctx context.Context, filters MarkFilters) error
}
