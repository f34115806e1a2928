package validator

import "github.com/campustrack/academic-record-service/internal/models"

// Request structures for all write operations. JSON field names follow the
// client contract (usn, facultyEmail, IA1, ...), not Go conventions.

// AttendanceRow is one row of a bulk attendance upload.
type AttendanceRow struct {
	USN          string                  `json:"usn" validate:"required"`
	Date         string                  `json:"date" validate:"required"`
	Hour         string                  `json:"hour" validate:"required"`
	Subject      string                  `json:"subject" validate:"required"`
	FacultyEmail string                  `json:"facultyEmail" validate:"required,email"`
	Status       models.AttendanceStatus `json:"status" validate:"required,attendance_status"`
}

// MarkRow is one row of a bulk IA-marks upload.
type MarkRow struct {
	USN          string  `json:"usn" validate:"required"`
	Subject      string  `json:"subject" validate:"required"`
	FacultyEmail string  `json:"facultyEmail" validate:"required,email"`
	IA1          float64 `json:"IA1" validate:"ia_score"`
	IA2          float64 `json:"IA2" validate:"ia_score"`
}

type RegisterRequest struct {
	Uname    string          `json:"uname" validate:"required,max=100"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=6"`
	Role     models.UserRole `json:"role" validate:"required,user_role"`
	USN      *string         `json:"usn" validate:"omitempty,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateAttendanceRequest struct {
	ID     uint                    `json:"id" validate:"required"`
	Status models.AttendanceStatus `json:"status" validate:"required,attendance_status"`
}

type UpdateMarkRequest struct {
	ID           uint    `json:"id" validate:"required"`
	IA1          float64 `json:"IA1" validate:"ia_score"`
	IA2          float64 `json:"IA2" validate:"ia_score"`
	FacultyEmail string  `json:"facultyEmail" validate:"required,email"`
}

type AssignSubjectsRequest struct {
	FacultyID     uint                `json:"facultyId" validate:"required"`
	Subjects      []string            `json:"subjects" validate:"required,min=1,dive,required"`
	AssignedClass models.ClassSection `json:"assignedClass" validate:"required,class_section"`
}
