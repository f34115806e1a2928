package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campustrack/academic-record-service/internal/events"
	"github.com/campustrack/academic-record-service/internal/models"
	"github.com/campustrack/academic-record-service/internal/repositories"
	"github.com/campustrack/academic-record-service/internal/validator"
)

type marksService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewMarksService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) MarksService {
	return &marksService{
		repo:      repo,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

// UploadBatch applies the rows sequentially inside one transaction, keyed by
// (usn, subject). Any row failure rolls the whole batch back.
func (s *marksService) UploadBatch(ctx context.Context, rows []MarkRow) error {
	s.logger.Info("Uploading marks batch", "rows", len(rows))

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
			if err := reconcileMarkRow(ctx, tx, row); err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publishEvent(ctx, events.NewEvent(events.TypeMarksUploaded, events.BatchUploadedEvent{
		FacultyEmail: rows[0].FacultyEmail,
		RowCount:     len(rows),
	}))
	return nil
}

// reconcileMarkRow upserts one row by its natural key (usn, subject). Only IA1
// and IA2 are mutable on update; the owning facultyEmail is never overwritten.
func reconcileMarkRow(ctx context.Context, tx repositories.Repository, row MarkRow) error {
	existing, err := tx.Marks().GetByKey(ctx, row.USN, row.Subject)
	if err != nil {
		if !repositories.IsNotFoundError(err) {
			return err
		}
		return tx.Marks().Create(ctx, &models.IAMarkRecord{
			USN:          row.USN,
			Subject:      row.Subject,
			FacultyEmail: row.FacultyEmail,
			IA1:          row.IA1,
			IA2:          row.IA2,
		})
	}
	return tx.Marks().UpdateFields(ctx, existing.ID, map[string]interface{}{
		"ia1": row.IA1,
		"ia2": row.IA2,
	})
}

func (s *marksService) List(ctx context.Context, usn *string) ([]EnrichedMarkRecord, error) {
	records, err := s.repo.Marks().List(ctx, repositories.MarkFilters{USN: usn})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch marks: %w", err)
	}

	users, err := s.repo.User().List(ctx, repositories.UserFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster: %w", err)
	}
	names := studentNameMap(users)

	enriched := make([]EnrichedMarkRecord, 0, len(records))
	for _, record := range records {
		enriched = append(enriched, EnrichedMarkRecord{
			IAMarkRecord: record,
			Uname:        displayName(names, record.USN),
		})
	}
	return enriched, nil
}

// Update applies the ownership invariant before mutating: the stored
// facultyEmail must match the requester. On rejection nothing is written.
func (s *marksService) Update(ctx context.Context, req *UpdateMarkRequest) error {
	if err := validationErrorFrom(s.validator.Struct(req)); err != nil {
		return err
	}

	record, err := s.repo.Marks().GetByID(ctx, req.ID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return NewNotFoundError("mark record", fmt.Sprintf("id=%d", req.ID))
		}
		return err
	}

	if record.FacultyEmail != req.FacultyEmail {
		return NewAuthorizationError(req.FacultyEmail, fmt.Sprintf("mark record id=%d", req.ID),
			"marks can only be updated by the faculty who recorded them")
	}

	if err := s.repo.Marks().UpdateFields(ctx, record.ID, map[string]interface{}{
		"ia1": req.IA1,
		"ia2": req.IA2,
	}); err != nil {
		return err
	}

	s.publishEvent(ctx, events.NewEvent(events.TypeMarksUpdated, events.MarksUpdatedEvent{
		RecordID:     record.ID,
		USN:          record.USN,
		Subject:      record.Subject,
		FacultyEmail: req.FacultyEmail,
		IA1:          req.IA1,
		IA2:          req.IA2,
	}))
	return nil
}

func (s *marksService) GetByStudentEmail(ctx context.Context, email string) ([]*models.IAMarkRecord, error) {
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

	records, err := s.repo.Marks().List(ctx, repositories.MarkFilters{USN: student.USN})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch marks: %w", err)
	}
	return records, nil
}

func (s *marksService) publishEvent(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", event.Type, "error", err)
	}
}
