package repositories

import "context"

// Repository aggregates the entity repositories owned by the record store.
type Repository interface {
	User() UserRepository
	Attendance() AttendanceRepository
	Marks() MarkRepository

	// WithTransaction runs fn against a Repository whose operations share one
	// database transaction; any error rolls the whole transaction back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
