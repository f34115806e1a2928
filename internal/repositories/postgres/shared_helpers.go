package postgres

import (
	"gorm.io/gorm"

	"github.com/campustrack/academic-record-service/internal/repositories"
)

// Filter application shared by list and delete queries. Every set field is an
// exact-match predicate; unset fields are ignored.

func applyUserFilters(query *gorm.DB, filters repositories.UserFilters) *gorm.DB {
	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.USN != nil {
		query = query.Where("usn = ?", *filters.USN)
	}
	return query
}

func applyAttendanceFilters(query *gorm.DB, filters repositories.AttendanceFilters) *gorm.DB {
	if filters.USN != nil {
		query = query.Where("usn = ?", *filters.USN)
	}
	if filters.Date != nil {
		query = query.Where("date = ?", *filters.Date)
	}
	if filters.Hour != nil {
		query = query.Where("hour = ?", *filters.Hour)
	}
	if filters.Subject != nil {
		query = query.Where("subject = ?", *filters.Subject)
	}
	if filters.FacultyEmail != nil {
		query = query.Where("faculty_email = ?", *filters.FacultyEmail)
	}
	return query
}

func applyMarkFilters(query *gorm.DB, filters repositories.MarkFilters) *gorm.DB {
	if filters.USN != nil {
		query = query.Where("usn = ?", *filters.USN)
	}
	if filters.Subject != nil {
		query = query.Where("subject = ?", *filters.Subject)
	}
	if filters.FacultyEmail != nil {
		query = query.Where("faculty_email = ?", *filters.FacultyEmail)
	}
	return query
}
