package models

import (
	"strconv"
	"time"

	"gorm.io/datatypes"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleFaculty UserRole = "faculty"
	RoleHOD     UserRole = "hod"
)

// ClassSection is the section a student or faculty member belongs to.
type ClassSection string

const (
	ClassA ClassSection = "A"
	ClassB ClassSection = "B"
)

type User struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	Uname    string   `json:"uname" gorm:"not null;size:100"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password string   `json:"-" gorm:"not null;size:255"`
	Role     UserRole `json:"role" gorm:"not null;size:20;index"`

	// Student-only natural id
	USN *string `json:"usn" gorm:"size:20;index"`

	// Faculty-only assignment data, set by the HOD
	AssignedSubjects datatypes.JSONSlice[string] `json:"assignedSubjects"`
	AssignedClass    *ClassSection               `json:"assignedClass" gorm:"size:1"`
	Department       *string                     `json:"department" gorm:"size:100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// DeriveClassFromUSN resolves the class section for a student without an
// explicit assignment: numeric USN suffix <= 60 maps to section A, everything
// else (including unparsable suffixes) to section B.
func DeriveClassFromUSN(usn string) ClassSection {
	suffix := usn
	if len(usn) > 3 {
		suffix = usn[len(usn)-3:]
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return ClassB
	}
	if n <= 60 {
		return ClassA
	}
	return ClassB
}
