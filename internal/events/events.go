package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the record services.
const (
	TypeAttendanceUploaded = "attendance.uploaded"
	TypeMarksUploaded      = "marks.uploaded"
	TypeMarksUpdated       = "marks.updated"
	TypeFacultyRemoved     = "faculty.removed"
)

const (
	eventSource  = "academic-record-service"
	eventVersion = "1.0"
)

// Event is the envelope published for every domain event.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope for the given type and payload.
func NewEvent(eventType string, data interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    eventSource,
		Version:   eventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher publishes domain events. Publishing is best-effort from the
// caller's point of view: services log failures but never fail a request on one.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// ===== EVENT PAYLOADS =====

type BatchUploadedEvent struct {
	FacultyEmail string `json:"faculty_email"`
	RowCount     int    `json:"row_count"`
}

type MarksUpdatedEvent struct {
	RecordID     uint    `json:"record_id"`
	USN          string  `json:"usn"`
	Subject      string  `json:"subject"`
	FacultyEmail string  `json:"faculty_email"`
	IA1          float64 `json:"ia1"`
	IA2          float64 `json:"ia2"`
}

type FacultyRemovedEvent struct {
	FacultyID    uint   `json:"faculty_id"`
	FacultyEmail string `json:"faculty_email"`
}
