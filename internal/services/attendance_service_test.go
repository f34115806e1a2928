package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/campustrack/academic-record-service/internal/events"
	"github.com/campustrack/academic-record-service/internal/models"
	"github.com/campustrack/academic-record-service/internal/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAttendanceFixture() (*fakeRepository, *events.MockEventPublisher, AttendanceService) {
	repo := newFakeRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := NewAttendanceService(repo, testLogger(), validator.New(), publisher)
	return repo, publisher, service
}

func attendanceRow(usn, date, hour string, status models.AttendanceStatus) AttendanceRow {
	return AttendanceRow{
		USN:          usn,
		Date:         date,
		Hour:         hour,
		Subject:      "DBMS",
		FacultyEmail: "faculty@college.edu",
		Status:       status,
	}
}

func TestAttendanceUploadBatchInsertsNewRecords(t *testing.T) {
	repo, publisher, service := newAttendanceFixture()

	rows := []AttendanceRow{
		attendanceRow("4CB21CS001", "2026-02-10", "1", models.StatusPresent),
		attendanceRow("4CB21CS002", "2026-02-10", "1", models.StatusAbsent),
	}
	if err := service.UploadBatch(context.Background(), rows); err != nil {
		t.Fatalf("UploadBatch() error = %v", err)
	}

	if len(repo.attendance) != 2 {
		t.Fatalf("stored records = %d, want 2", len(repo.attendance))
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 {
		t.Fatalf("published events = %d, want 1", len(published))
	}
	if published[0].Type != events.TypeAttendanceUploaded {
		t.Errorf("event type = %q, want %q", published[0].Type, events.TypeAttendanceUploaded)
	}
}

func TestAttendanceUploadBatchIsIdempotent(t *testing.T) {
	repo, _, service := newAttendanceFixture()

	rows := []AttendanceRow{
		attendanceRow("4CB21CS001", "2026-02-10", "1", models.StatusPresent),
	}
	for i := 0; i < 2; i++ {
		if err := service.UploadBatch(context.Background(), rows); err != nil {
			t.Fatalf("UploadBatch() pass %d error = %v", i+1, err)
		}
	}

	if len(repo.attendance) != 1 {
		t.Fatalf("stored records = %d, want 1 after identical re-upload", len(repo.attendance))
	}
}

func TestAttendanceUploadBatchUpdatesOnlyStatus(t *testing.T) {
	repo, _, service := newAttendanceFixture()

	existing := repo.addAttendance(models.AttendanceRecord{
		USN:          "4CB21CS001",
		Date:         "2026-02-10",
		Hour:         "1",
		Subject:      "DBMS",
		FacultyEmail: "original@college.edu",
		Status:       models.StatusAbsent,
	})

	// Same key, different faculty and subject: only status may change.
	row := attendanceRow("4CB21CS001", "2026-02-10", "1", models.StatusPresent)
	row.Subject = "OS"
	row.FacultyEmail = "other@college.edu"

	if err := service.UploadBatch(context.Background(), []AttendanceRow{row}); err != nil {
		t.Fatalf("UploadBatch() error = %v", err)
	}

	got := repo.attendance[existing.ID]
	if got.Status != models.StatusPresent {
		t.Errorf("status = %q, want %q", got.Status, models.StatusPresent)
	}
	if got.FacultyEmail != "original@college.edu" {
		t.Errorf("facultyEmail = %q, want original preserved", got.FacultyEmail)
	}
	if got.Subject != "DBMS" {
		t.Errorf("subject = %q, want original preserved", got.Subject)
	}
}

func TestAttendanceUploadBatchLastWriteWins(t *testing.T) {
	repo, _, service := newAttendanceFixture()

	rows := []AttendanceRow{
		attendanceRow("4CB21CS001", "2026-02-10", "1", models.StatusAbsent),
		attendanceRow("4CB21CS001", "2026-02-10", "1", models.StatusPresent),
	}
	if err := service.UploadBatch(context.Background(), rows); err != nil {
		t.Fatalf("UploadBatch() error = %v", err)
	}

	if len(repo.attendance) != 1 {
		t.Fatalf("stored records = %d, want 1 for duplicate key", len(repo.attendance))
	}
	for _, record := range repo.attendance {
		if record.Status != models.StatusPresent {
			t.Errorf("status = %q, want last row to win", record.Status)
		}
	}
}

func TestAttendanceUploadBatchRejectsInvalidInput(t *testing.T) {
	repo, publisher, service := newAttendanceFixture()

	tests := []struct {
		name string
		rows []AttendanceRow
	}{
		{"empty batch", nil},
		{"bad status", []AttendanceRow{attendanceRow("4CB21CS001", "2026-02-10", "1", "late")}},
		{"missing usn", []AttendanceRow{attendanceRow("", "2026-02-10", "1", models.StatusPresent)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.UploadBatch(context.Background(), tt.rows)
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("UploadBatch() error = %v, want ValidationError", err)
			}
			if len(repo.attendance) != 0 {
				t.Errorf("stored records = %d, want none after rejected batch", len(repo.attendance))
			}
			if len(publisher.GetPublishedEvents()) != 0 {
				t.Errorf("events published for rejected batch")
			}
		})
	}
}

func TestAttendanceUploadBatchRollsBackOnStoreFailure(t *testing.T) {
	repo, publisher, service := newAttendanceFixture()

	existing := repo.addAttendance(models.AttendanceRecord{
		USN:          "4CB21CS001",
		Date:         "2026-02-10",
		Hour:         "1",
		Subject:      "DBMS",
		FacultyEmail: "faculty@college.edu",
		Status:       models.StatusAbsent,
	})

	// First row updates the existing record, second row needs an insert that
	// fails; the update must be rolled back with it.
	repo.failCreates = true
	rows := []AttendanceRow{
		attendanceRow("4CB21CS001", "2026-02-10", "1", models.StatusPresent),
		attendanceRow("4CB21CS002", "2026-02-10", "1", models.StatusPresent),
	}
	if err := service.UploadBatch(context.Background(), rows); err == nil {
		t.Fatal("UploadBatch() error = nil, want store failure")
	}

	if got := repo.attendance[existing.ID].Status; got != models.StatusAbsent {
		t.Errorf("status after rollback = %q, want %q", got, models.StatusAbsent)
	}
	if len(repo.attendance) != 1 {
		t.Errorf("stored records = %d, want 1 after rollback", len(repo.attendance))
	}
	if len(publisher.GetPublishedEvents()) != 0 {
		t.Errorf("events published for failed batch")
	}
}

func TestAttendanceGetByDate(t *testing.T) {
	repo, _, service := newAttendanceFixture()

	usn := "4CB21CS001"
	repo.addUser(models.User{Uname: "Anita", Email: "anita@college.edu", Role: models.RoleStudent, USN: &usn})
	repo.addAttendance(models.AttendanceRecord{USN: usn, Date: "2026-02-10", Hour: "1", Subject: "DBMS", Status: models.StatusPresent})
	repo.addAttendance(models.AttendanceRecord{USN: "4CB21CS099", Date: "2026-02-10", Hour: "1", Subject: "DBMS", Status: models.StatusAbsent})
	repo.addAttendance(models.AttendanceRecord{USN: usn, Date: "2026-02-11", Hour: "1", Subject: "DBMS", Status: models.StatusPresent})

	records, err := service.GetByDate(context.Background(), "2026-02-10")
	if err != nil {
		t.Fatalf("GetByDate() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}

	names := make(map[string]string)
	for _, r := range records {
		names[r.USN] = r.Uname
	}
	if names[usn] != "Anita" {
		t.Errorf("uname for %s = %q, want Anita", usn, names[usn])
	}
	if names["4CB21CS099"] != "Unknown Student" {
		t.Errorf("uname for unrostered student = %q, want Unknown Student", names["4CB21CS099"])
	}
}

func TestAttendanceGetByDateRequiresDate(t *testing.T) {
	_, _, service := newAttendanceFixture()

	_, err := service.GetByDate(context.Background(), "")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("GetByDate() error = %v, want ValidationError", err)
	}
}

func TestAttendanceUpdateStatus(t *testing.T) {
	repo, _, service := newAttendanceFixture()

	record := repo.addAttendance(models.AttendanceRecord{
		USN: "4CB21CS001", Date: "2026-02-10", Hour: "1", Subject: "DBMS", Status: models.StatusAbsent,
	})

	err := service.UpdateStatus(context.Background(), &UpdateAttendanceRequest{ID: record.ID, Status: models.StatusPresent})
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if got := repo.attendance[record.ID].Status; got != models.StatusPresent {
		t.Errorf("status = %q, want %q", got, models.StatusPresent)
	}

	err = service.UpdateStatus(context.Background(), &UpdateAttendanceRequest{ID: 9999, Status: models.StatusPresent})
	var notFoundErr *NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Errorf("UpdateStatus(unknown id) error = %v, want NotFoundError", err)
	}
}

func TestAttendanceGetByStudentEmail(t *testing.T) {
	repo, _, service := newAttendanceFixture()

	usn := "4CB21CS001"
	repo.addUser(models.User{Uname: "Anita", Email: "anita@college.edu", Role: models.RoleStudent, USN: &usn})
	repo.addUser(models.User{
		Uname: "Prof. Rao", Email: "rao@college.edu", Role: models.RoleFaculty,
		AssignedSubjects: []string{"DBMS"},
	})

	// DBMS: 3 of 4 present; OS: 1 of 1 present.
	for i, status := range []models.AttendanceStatus{models.StatusPresent, models.StatusPresent, models.StatusPresent, models.StatusAbsent} {
		repo.addAttendance(models.AttendanceRecord{
			USN: usn, Date: "2026-02-10", Hour: string(rune('1' + i)), Subject: "DBMS", Status: status,
		})
	}
	repo.addAttendance(models.AttendanceRecord{USN: usn, Date: "2026-02-10", Hour: "5", Subject: "OS", Status: models.StatusPresent})

	resp, err := service.GetByStudentEmail(context.Background(), "anita@college.edu")
	if err != nil {
		t.Fatalf("GetByStudentEmail() error = %v", err)
	}

	if len(resp.SubjectAttendance) != 2 {
		t.Fatalf("subjects = %d, want 2", len(resp.SubjectAttendance))
	}
	if resp.SubjectAttendance[0].Subject != "DBMS" || resp.SubjectAttendance[0].Percentage != "75.00" {
		t.Errorf("DBMS attendance = %+v, want 75.00", resp.SubjectAttendance[0])
	}
	if resp.SubjectAttendance[1].Subject != "OS" || resp.SubjectAttendance[1].Percentage != "100.00" {
		t.Errorf("OS attendance = %+v, want 100.00", resp.SubjectAttendance[1])
	}

	for _, record := range resp.Records {
		switch record.Subject {
		case "DBMS":
			if record.FacultyName != "Prof. Rao" {
				t.Errorf("DBMS faculty = %q, want Prof. Rao", record.FacultyName)
			}
		case "OS":
			if record.FacultyName != "N/A" {
				t.Errorf("OS faculty = %q, want N/A for unassigned subject", record.FacultyName)
			}
		}
	}
}

func TestAttendanceGetByStudentEmailUnknownStudent(t *testing.T) {
	repo, _, service := newAttendanceFixture()

	// Faculty accounts have no USN, so their email resolves to not-found too.
	repo.addUser(models.User{Uname: "Prof. Rao", Email: "rao@college.edu", Role: models.RoleFaculty})

	for _, email := range []string{"missing@college.edu", "rao@college.edu"} {
		_, err := service.GetByStudentEmail(context.Background(), email)
		var notFoundErr *NotFoundError
		if !errors.As(err, &notFoundErr) {
			t.Errorf("GetByStudentEmail(%q) error = %v, want NotFoundError", email, err)
		}
	}
}

func TestAttendanceExportRows(t *testing.T) {
	repo, _, service := newAttendanceFixture()

	repo.addAttendance(models.AttendanceRecord{USN: "4CB21CS001", Date: "2026-02-10", Hour: "1", Subject: "DBMS", Status: models.StatusPresent})

	records, err := service.ExportRows(context.Background(), "2026-02-10", "1", "DBMS")
	if err != nil {
		t.Fatalf("ExportRows() error = %v", err)
	}
	if len(records) != 1 {
		t.Errorf("records = %d, want 1", len(records))
	}

	_, err = service.ExportRows(context.Background(), "2026-02-11", "1", "DBMS")
	var notFoundErr *NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Errorf("ExportRows(empty sheet) error = %v, want NotFoundError", err)
	}
}
