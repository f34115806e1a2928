package services

import (
	"context"
	"errors"
	"testing"

	"github.com/campustrack/academic-record-service/internal/events"
	"github.com/campustrack/academic-record-service/internal/models"
	"github.com/campustrack/academic-record-service/internal/validator"
)

func newMarksFixture() (*fakeRepository, *events.MockEventPublisher, MarksService) {
	repo := newFakeRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := NewMarksService(repo, testLogger(), validator.New(), publisher)
	return repo, publisher, service
}

func markRow(usn, subject string, ia1, ia2 float64) MarkRow {
	return MarkRow{
		USN:          usn,
		Subject:      subject,
		FacultyEmail: "faculty@college.edu",
		IA1:          ia1,
		IA2:          ia2,
	}
}

func TestMarksUploadBatchUpserts(t *testing.T) {
	repo, publisher, service := newMarksFixture()

	rows := []MarkRow{
		markRow("4CB21CS001", "DBMS", 20, 30),
		markRow("4CB21CS002", "DBMS", 15, 18),
	}
	if err := service.UploadBatch(context.Background(), rows); err != nil {
		t.Fatalf("UploadBatch() error = %v", err)
	}
	if len(repo.marks) != 2 {
		t.Fatalf("stored records = %d, want 2", len(repo.marks))
	}

	// Re-upload with new scores for one student: same record count, scores
	// updated, owning faculty preserved.
	rows[0].IA1, rows[0].IA2 = 35, 40
	rows[0].FacultyEmail = "someone-else@college.edu"
	if err := service.UploadBatch(context.Background(), rows); err != nil {
		t.Fatalf("UploadBatch() re-upload error = %v", err)
	}
	if len(repo.marks) != 2 {
		t.Fatalf("stored records = %d, want 2 after re-upload", len(repo.marks))
	}

	record, err := repo.Marks().GetByKey(context.Background(), "4CB21CS001", "DBMS")
	if err != nil {
		t.Fatalf("GetByKey() error = %v", err)
	}
	if record.IA1 != 35 || record.IA2 != 40 {
		t.Errorf("scores = (%v, %v), want (35, 40)", record.IA1, record.IA2)
	}
	if record.FacultyEmail != "faculty@college.edu" {
		t.Errorf("facultyEmail = %q, want original owner preserved", record.FacultyEmail)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 2 {
		t.Fatalf("published events = %d, want 2", len(published))
	}
	for _, event := range published {
		if event.Type != events.TypeMarksUploaded {
			t.Errorf("event type = %q, want %q", event.Type, events.TypeMarksUploaded)
		}
	}
}

func TestMarksUploadBatchRejectsOutOfRangeScores(t *testing.T) {
	repo, _, service := newMarksFixture()

	err := service.UploadBatch(context.Background(), []MarkRow{markRow("4CB21CS001", "DBMS", 55, 10)})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("UploadBatch() error = %v, want ValidationError", err)
	}
	if len(repo.marks) != 0 {
		t.Errorf("stored records = %d, want none", len(repo.marks))
	}
}

func TestMarksUpdateOwnershipCheck(t *testing.T) {
	repo, publisher, service := newMarksFixture()

	record := repo.addMark(models.IAMarkRecord{
		USN: "4CB21CS001", Subject: "DBMS", FacultyEmail: "owner@college.edu", IA1: 20, IA2: 22,
	})

	err := service.Update(context.Background(), &UpdateMarkRequest{
		ID: record.ID, IA1: 30, IA2: 32, FacultyEmail: "intruder@college.edu",
	})
	var authErr *AuthorizationError
	if !errors.As(err, &authErr) {
		t.Fatalf("Update() error = %v, want AuthorizationError", err)
	}

	// Rejection must not mutate the record or publish anything.
	got := repo.marks[record.ID]
	if got.IA1 != 20 || got.IA2 != 22 {
		t.Errorf("scores after rejection = (%v, %v), want unchanged (20, 22)", got.IA1, got.IA2)
	}
	if len(publisher.GetPublishedEvents()) != 0 {
		t.Errorf("events published for rejected update")
	}
}

func TestMarksUpdateByOwner(t *testing.T) {
	repo, publisher, service := newMarksFixture()

	record := repo.addMark(models.IAMarkRecord{
		USN: "4CB21CS001", Subject: "DBMS", FacultyEmail: "owner@college.edu", IA1: 20, IA2: 22,
	})

	err := service.Update(context.Background(), &UpdateMarkRequest{
		ID: record.ID, IA1: 30, IA2: 32, FacultyEmail: "owner@college.edu",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got := repo.marks[record.ID]
	if got.IA1 != 30 || got.IA2 != 32 {
		t.Errorf("scores = (%v, %v), want (30, 32)", got.IA1, got.IA2)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.TypeMarksUpdated {
		t.Errorf("published events = %+v, want one %q", published, events.TypeMarksUpdated)
	}
}

func TestMarksUpdateUnknownRecord(t *testing.T) {
	_, _, service := newMarksFixture()

	err := service.Update(context.Background(), &UpdateMarkRequest{
		ID: 9999, IA1: 30, IA2: 32, FacultyEmail: "owner@college.edu",
	})
	var notFoundErr *NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("Update() error = %v, want NotFoundError", err)
	}
}

func TestMarksListEnrichesNames(t *testing.T) {
	repo, _, service := newMarksFixture()

	usn := "4CB21CS001"
	repo.addUser(models.User{Uname: "Anita", Email: "anita@college.edu", Role: models.RoleStudent, USN: &usn})
	repo.addMark(models.IAMarkRecord{USN: usn, Subject: "DBMS", FacultyEmail: "f@college.edu", IA1: 20, IA2: 22})
	repo.addMark(models.IAMarkRecord{USN: "4CB21CS099", Subject: "DBMS", FacultyEmail: "f@college.edu", IA1: 10, IA2: 12})

	records, err := service.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}

	names := make(map[string]string)
	for _, r := range records {
		names[r.USN] = r.Uname
	}
	if names[usn] != "Anita" {
		t.Errorf("uname = %q, want Anita", names[usn])
	}
	if names["4CB21CS099"] != "Unknown Student" {
		t.Errorf("unrostered uname = %q, want Unknown Student", names["4CB21CS099"])
	}

	filtered, err := service.List(context.Background(), &usn)
	if err != nil {
		t.Fatalf("List(usn) error = %v", err)
	}
	if len(filtered) != 1 || filtered[0].USN != usn {
		t.Errorf("filtered records = %+v, want only %s", filtered, usn)
	}
}

func TestMarksGetByStudentEmail(t *testing.T) {
	repo, _, service := newMarksFixture()

	usn := "4CB21CS001"
	repo.addUser(models.User{Uname: "Anita", Email: "anita@college.edu", Role: models.RoleStudent, USN: &usn})
	repo.addMark(models.IAMarkRecord{USN: usn, Subject: "DBMS", FacultyEmail: "f@college.edu", IA1: 20, IA2: 22})
	repo.addMark(models.IAMarkRecord{USN: "4CB21CS002", Subject: "DBMS", FacultyEmail: "f@college.edu", IA1: 1, IA2: 2})

	records, err := service.GetByStudentEmail(context.Background(), "anita@college.edu")
	if err != nil {
		t.Fatalf("GetByStudentEmail() error = %v", err)
	}
	if len(records) != 1 || records[0].USN != usn {
		t.Errorf("records = %+v, want only own records", records)
	}

	_, err = service.GetByStudentEmail(context.Background(), "missing@college.edu")
	var notFoundErr *NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Errorf("GetByStudentEmail(unknown) error = %v, want NotFoundError", err)
	}
}
