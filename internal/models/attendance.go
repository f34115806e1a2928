package models

import (
	"strings"
	"time"
)

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
)

// IsPresent reports whether the status counts as a presence. Comparison is
// case-insensitive: historical data contains both "present" and "Present".
func (s AttendanceStatus) IsPresent() bool {
	return strings.EqualFold(string(s), string(StatusPresent))
}

// IsValid accepts both casings of the two allowed values.
func (s AttendanceStatus) IsValid() bool {
	return s.IsPresent() || strings.EqualFold(string(s), string(StatusAbsent))
}

// AttendanceRecord stores one status per student per hour. The natural key is
// (usn, date, hour); uniqueness on it is enforced by the upsert reconciler,
// not by the schema.
type AttendanceRecord struct {
	ID           uint             `json:"id" gorm:"primaryKey"`
	USN          string           `json:"usn" gorm:"not null;size:20;index:idx_attendance_key"`
	Date         string           `json:"date" gorm:"not null;size:10;index:idx_attendance_key"`
	Hour         string           `json:"hour" gorm:"not null;size:5;index:idx_attendance_key"`
	Subject      string           `json:"subject" gorm:"not null;size:50;index"`
	FacultyEmail string           `json:"facultyEmail" gorm:"not null;size:255;index"`
	Status       AttendanceStatus `json:"status" gorm:"not null;size:10"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}
