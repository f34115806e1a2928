package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/campustrack/academic-record-service/internal/events"
	"github.com/campustrack/academic-record-service/internal/repositories"
	"github.com/campustrack/academic-record-service/internal/sessions"
	"github.com/campustrack/academic-record-service/internal/validator"
)

// serviceManager implements ServiceManager
type serviceManager struct {
	repo      repositories.Repository
	store     *sessions.Store
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher

	attendanceService AttendanceService
	marksService      MarksService
	analyticsService  AnalyticsService
	rosterService     RosterService
	authService       AuthService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

func NewServiceManager(repo repositories.Repository, store *sessions.Store, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) ServiceManager {
	return &serviceManager{
		repo:      repo,
		store:     store,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if sm.repo == nil {
		return fmt.Errorf("repository is required")
	}

	sm.attendanceService = NewAttendanceService(sm.repo, sm.logger, sm.validator, sm.publisher)
	sm.marksService = NewMarksService(sm.repo, sm.logger, sm.validator, sm.publisher)
	sm.analyticsService = NewAnalyticsService(sm.repo, sm.logger)
	sm.rosterService = NewRosterService(sm.repo, sm.logger, sm.validator, sm.publisher)
	sm.authService = NewAuthService(sm.repo, sm.store, sm.logger, sm.validator)

	sm.initialized = true
	sm.logger.Info("Service manager initialized")
	return nil
}

func (sm *serviceManager) Attendance() AttendanceService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.attendanceService
}

func (sm *serviceManager) Marks() MarksService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.marksService
}

func (sm *serviceManager) Analytics() AnalyticsService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.analyticsService
}

func (sm *serviceManager) Roster() RosterService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.rosterService
}

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.authService
}

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}
	return sm.repo.Ping(ctx)
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}
	sm.shutdown = true

	if sm.publisher != nil {
		if err := sm.publisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	sm.logger.Info("Service manager shut down")
	return nil
}
