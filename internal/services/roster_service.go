package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/campustrack/academic-record-service/internal/events"
	"github.com/campustrack/academic-record-service/internal/models"
	"github.com/campustrack/academic-record-service/internal/repositories"
	"github.com/campustrack/academic-record-service/internal/validator"
)

type rosterService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewRosterService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) RosterService {
	return &rosterService{
		repo:      repo,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

func (s *rosterService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, NewValidationError("email", "is required")
	}

	user, err := s.repo.User().GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("user", email)
		}
		return nil, err
	}
	return user, nil
}

func (s *rosterService) ListFaculty(ctx context.Context) ([]*models.User, error) {
	role := models.RoleFaculty
	faculty, err := s.repo.User().List(ctx, repositories.UserFilters{Role: &role})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch faculty: %w", err)
	}
	return faculty, nil
}

func (s *rosterService) AssignSubjects(ctx context.Context, req *AssignSubjectsRequest) (*models.User, error) {
	if err := validationErrorFrom(s.validator.Struct(req)); err != nil {
		return nil, err
	}

	faculty, err := s.repo.User().GetByID(ctx, req.FacultyID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("faculty", fmt.Sprintf("id=%d", req.FacultyID))
		}
		return nil, err
	}
	if faculty.Role != models.RoleFaculty {
		return nil, NewValidationError("facultyId", "user is not a faculty member")
	}

	err = s.repo.User().UpdateFields(ctx, faculty.ID, map[string]interface{}{
		"assigned_subjects": datatypes.NewJSONSlice(req.Subjects),
		"assigned_class":    req.AssignedClass,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assign subjects: %w", err)
	}

	s.logger.Info("Assigned subjects to faculty",
		"faculty_id", faculty.ID, "subjects", req.Subjects, "class", req.AssignedClass)

	return s.repo.User().GetByID(ctx, faculty.ID)
}

// RemoveFaculty deletes the faculty member together with every attendance and
// mark record they created, in one transaction.
func (s *rosterService) RemoveFaculty(ctx context.Context, id uint) error {
	faculty, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return NewNotFoundError("faculty", fmt.Sprintf("id=%d", id))
		}
		return err
	}
	if faculty.Role != models.RoleFaculty {
		return NewValidationError("id", "user is not a faculty member")
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Attendance().DeleteByFilter(ctx, repositories.AttendanceFilters{FacultyEmail: &faculty.Email}); err != nil {
			return err
		}
		if err := tx.Marks().DeleteByFilter(ctx, repositories.MarkFilters{FacultyEmail: &faculty.Email}); err != nil {
			return err
		}
		return tx.User().Delete(ctx, faculty.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to remove faculty: %w", err)
	}

	s.logger.Info("Removed faculty", "faculty_id", faculty.ID, "email", faculty.Email)

	s.publishEvent(ctx, events.NewEvent(events.TypeFacultyRemoved, events.FacultyRemovedEvent{
		FacultyID:    faculty.ID,
		FacultyEmail: faculty.Email,
	}))
	return nil
}

func (s *rosterService) publishEvent(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", event.Type, "error", err)
	}
}
