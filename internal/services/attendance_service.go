package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/campustrack/academic-record-service/internal/events"
	"github.com/campustrack/academic-record-service/internal/models"
	"github.com/campustrack/academic-record-service/internal/repositories"
	"github.com/campustrack/academic-record-service/internal/validator"
)

type attendanceService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewAttendanceService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) AttendanceService {
	return &attendanceService{
		repo:      repo,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

// UploadBatch applies the rows sequentially inside one transaction: row order
// determines last-write-wins for duplicate keys within the batch, and any row
// failure rolls back every previously applied row.
func (s *attendanceService) UploadBatch(ctx context.Context, rows []AttendanceRow) error {
	s.logger.Info("Uploading attendance batch", "rows", len(rows))

	if len(rows) == 0 {
		return NewValidationError("rows", "batch must not be empty")
	}
	for i, row := range rows {
		if err := s.validator.Struct(row); err != nil {
			return NewValidationError(fmt.Sprintf("rows[%d]", i), err.Error())
		}
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		for i, row := range rows {
			if err := reconcileAttendanceRow(ctx, tx, row); err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publishEvent(ctx, events.NewEvent(events.TypeAttendanceUploaded, events.BatchUploadedEvent{
		FacultyEmail: rows[0].FacultyEmail,
		RowCount:     len(rows),
	}))
	return nil
}

// reconcileAttendanceRow upserts one row by its natural key (usn, date, hour).
// Only status is mutable on update; facultyEmail, usn and subject of an
// existing record are never overwritten.
func reconcileAttendanceRow(ctx context.Context, tx repositories.Repository, row AttendanceRow) error {
	existing, err := tx.Attendance().GetByKey(ctx, row.USN, row.Date, row.Hour)
	if err != nil {
		if !repositories.IsNotFoundError(err) {
			return err
		}
		return tx.Attendance().Create(ctx, &models.AttendanceRecord{
			USN:          row.USN,
			Date:         row.Date,
			Hour:         row.Hour,
			Subject:      row.Subject,
			FacultyEmail: row.FacultyEmail,
			Status:       row.Status,
		})
	}
	return tx.Attendance().UpdateFields(ctx, existing.ID, map[string]interface{}{
		"status": row.Status,
	})
}

func (s *attendanceService) GetByDate(ctx context.Context, date string) ([]EnrichedAttendanceRecord, error) {
	if date == "" {
		return nil, NewValidationError("date", "is required")
	}

	records, err := s.repo.Attendance().List(ctx, repositories.AttendanceFilters{Date: &date})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendance: %w", err)
	}

	users, err := s.repo.User().List(ctx, repositories.UserFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster: %w", err)
	}
	names := studentNameMap(users)

	enriched := make([]EnrichedAttendanceRecord, 0, len(records))
	for _, record := range records {
		enriched = append(enriched, EnrichedAttendanceRecord{
			AttendanceRecord: record,
			Uname:            displayName(names, record.USN),
		})
	}
	return enriched, nil
}

func (s *attendanceService) UpdateStatus(ctx context.Context, req *UpdateAttendanceRequest) error {
	if err := validationErrorFrom(s.validator.Struct(req)); err != nil {
		return err
	}

	record, err := s.repo.Attendance().GetByID(ctx, req.ID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return NewNotFoundError("attendance record", fmt.Sprintf("id=%d", req.ID))
		}
		return err
	}

	return s.repo.Attendance().UpdateFields(ctx, record.ID, map[string]interface{}{
		"status": req.Status,
	})
}

func (s *attendanceService) GetByStudentEmail(ctx context.Context, email string) (*StudentAttendanceResponse, error) {
	if email == "" {
		return nil, NewValidationError("email", "is required")
	}

	student, err := s.repo.User().GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("student", email)
		}
		return nil, err
	}
	if student.USN == nil {
		return nil, NewNotFoundError("student", email)
	}

	records, err := s.repo.Attendance().List(ctx, repositories.AttendanceFilters{USN: student.USN})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendance: %w", err)
	}

	facultyBySubject, err := s.facultySubjectMap(ctx)
	if err != nil {
		return nil, err
	}

	bySubject := make(map[string][]*models.AttendanceRecord)
	enriched := make([]FacultyAttendanceRecord, 0, len(records))
	for _, record := range records {
		bySubject[record.Subject] = append(bySubject[record.Subject], record)

		facultyName := facultyBySubject[record.Subject]
		if facultyName == "" {
			facultyName = "N/A"
		}
		enriched = append(enriched, FacultyAttendanceRecord{
			AttendanceRecord: record,
			FacultyName:      facultyName,
		})
	}

	subjects := make([]string, 0, len(bySubject))
	for subject := range bySubject {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)

	subjectAttendance := make([]SubjectAttendance, 0, len(subjects))
	for _, subject := range subjects {
		subjectAttendance = append(subjectAttendance, SubjectAttendance{
			Subject:    subject,
			Percentage: attendancePercentage(bySubject[subject]),
		})
	}

	return &StudentAttendanceResponse{
		SubjectAttendance: subjectAttendance,
		Records:           enriched,
	}, nil
}

func (s *attendanceService) ExportRows(ctx context.Context, date, hour, subject string) ([]*models.AttendanceRecord, error) {
	records, err := s.repo.Attendance().List(ctx, repositories.AttendanceFilters{
		Date:    &date,
		Hour:    &hour,
		Subject: &subject,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendance: %w", err)
	}
	if len(records) == 0 {
		return nil, NewNotFoundError("attendance records", fmt.Sprintf("%s/%s/%s", date, hour, subject))
	}
	return records, nil
}

// facultySubjectMap maps each subject to the display name of the faculty
// assigned to it.
func (s *attendanceService) facultySubjectMap(ctx context.Context) (map[string]string, error) {
	role := models.RoleFaculty
	faculty, err := s.repo.User().List(ctx, repositories.UserFilters{Role: &role})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch faculty: %w", err)
	}

	bySubject := make(map[string]string)
	for _, f := range faculty {
		for _, subject := range f.AssignedSubjects {
			bySubject[subject] = f.Uname
		}
	}
	return bySubject, nil
}

func (s *attendanceService) publishEvent(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", event.Type, "error", err)
	}
}
