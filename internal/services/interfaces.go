package services

import (
	"context"
	"time"

	"github.com/campustrack/academic-record-service/internal/models"
	"github.com/campustrack/academic-record-service/internal/sessions"
	"github.com/campustrack/academic-record-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use validator request types
type AttendanceRow = validator.AttendanceRow
type MarkRow = validator.MarkRow
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type UpdateAttendanceRequest = validator.UpdateAttendanceRequest
type UpdateMarkRequest = validator.UpdateMarkRequest
type AssignSubjectsRequest = validator.AssignSubjectsRequest

// EnrichedAttendanceRecord is an attendance record with the student's display
// name joined from the roster.
type EnrichedAttendanceRecord struct {
	*models.AttendanceRecord
	Uname string `json:"uname"`
}

// EnrichedMarkRecord is a mark record with the student's display name joined
// from the roster.
type EnrichedMarkRecord struct {
	*models.IAMarkRecord
	Uname string `json:"uname"`
}

// FacultyAttendanceRecord carries the recording faculty's display name, looked
// up from subject assignments.
type FacultyAttendanceRecord struct {
	*models.AttendanceRecord
	FacultyName string `json:"facultyName"`
}

// SubjectAttendance is a per-subject attendance percentage for one student.
type SubjectAttendance struct {
	Subject    string `json:"subject"`
	Percentage string `json:"percentage"`
}

type StudentAttendanceResponse struct {
	SubjectAttendance []SubjectAttendance       `json:"subjectAttendance"`
	Records           []FacultyAttendanceRecord `json:"attendanceRecords"`
}

// StudentPerformanceRow is one row of the roster-with-performance view.
type StudentPerformanceRow struct {
	USN                  string              `json:"usn"`
	Uname                string              `json:"uname"`
	AssignedClass        models.ClassSection `json:"assignedClass"`
	AttendancePercentage string              `json:"attendancePercentage"`
	IA1                  float64             `json:"IA1"`
	IA2                  float64             `json:"IA2"`
}

type IADistribution struct {
	Above25 int `json:"above25"`
	Below25 int `json:"below25"`
}

type AttendanceDistribution struct {
	Above85 int `json:"above85"`
	Below85 int `json:"below85"`
}

type SubjectAnalyticsResponse struct {
	IADistribution         IADistribution         `json:"iaDistribution"`
	AttendanceDistribution AttendanceDistribution `json:"attendanceDistribution"`
}

type PerformanceSummaryResponse struct {
	Above85Attendance int `json:"above85Attendance"`
	Above25Marks      int `json:"above25Marks"`
}

type LoginResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// ===== SERVICE INTERFACES =====

type AttendanceService interface {
	// UploadBatch reconciles a bulk attendance sheet against the store. The
	// whole batch is applied in one transaction; a failing row aborts it.
	UploadBatch(ctx context.Context, rows []AttendanceRow) error

	// GetByDate returns roster-enriched records for the given date.
	GetByDate(ctx context.Context, date string) ([]EnrichedAttendanceRecord, error)

	// UpdateStatus edits the status of a single record. No ownership check is
	// applied here: any faculty may correct attendance (unlike IA marks).
	UpdateStatus(ctx context.Context, req *UpdateAttendanceRequest) error

	// GetByStudentEmail returns a student's records with per-subject
	// percentages and faculty names.
	GetByStudentEmail(ctx context.Context, email string) (*StudentAttendanceResponse, error)

	// ExportRows fetches the records for one (date, hour, subject) sheet.
	ExportRows(ctx context.Context, date, hour, subject string) ([]*models.AttendanceRecord, error)
}

type MarksService interface {
	// UploadBatch reconciles a bulk marks sheet against the store, keyed by
	// (usn, subject). Same transactional semantics as attendance.
	UploadBatch(ctx context.Context, rows []MarkRow) error

	// List returns roster-enriched mark records, optionally for one student.
	List(ctx context.Context, usn *string) ([]EnrichedMarkRecord, error)

	// Update edits IA1/IA2 of one record after the ownership check: only the
	// faculty that recorded the marks may change them.
	Update(ctx context.Context, req *UpdateMarkRequest) error

	// GetByStudentEmail returns a student's own mark records.
	GetByStudentEmail(ctx context.Context, email string) ([]*models.IAMarkRecord, error)
}

type AnalyticsService interface {
	// SubjectAnalytics computes the IA and attendance distributions for one
	// subject. Derived values are recomputed on every call, never cached.
	SubjectAnalytics(ctx context.Context, subject string) (*SubjectAnalyticsResponse, error)

	// StudentRoster returns per-student performance rows for an optional
	// subject filter, sorted by natural numeric order of USN.
	StudentRoster(ctx context.Context, subject *string) ([]StudentPerformanceRow, error)

	// PerformanceSummary returns the overall threshold counts.
	PerformanceSummary(ctx context.Context) (*PerformanceSummaryResponse, error)
}

type RosterService interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListFaculty(ctx context.Context) ([]*models.User, error)
	AssignSubjects(ctx context.Context, req *AssignSubjectsRequest) (*models.User, error)

	// RemoveFaculty deletes a faculty member and cascades deletion of the
	// attendance and mark records they created, in one transaction.
	RemoveFaculty(ctx context.Context, id uint) error
}

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) error
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, token string) error
	GetSession(ctx context.Context, token string) (*sessions.Session, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Attendance() AttendanceService
	Marks() MarksService
	Analytics() AnalyticsService
	Roster() RosterService
	Auth() AuthService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
