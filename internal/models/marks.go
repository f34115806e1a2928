package models

import "time"

// IAMarkRecord holds the two internal-assessment scores for a student in a
// subject, each out of 50. The natural key is (usn, subject). FacultyEmail is
// the owning recorder: only that faculty may update the record later.
type IAMarkRecord struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	USN          string  `json:"usn" gorm:"not null;size:20;index:idx_mark_key"`
	Subject      string  `json:"subject" gorm:"not null;size:50;index:idx_mark_key"`
	FacultyEmail string  `json:"facultyEmail" gorm:"not null;size:255;index"`
	IA1          float64 `json:"IA1" gorm:"not null;default:0"`
	IA2          float64 `json:"IA2" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (IAMarkRecord) TableName() string {
	return "ia_mark_records"
}
