package repositories

import "context"

// Repository aggregates all repository interfaces.
type Repository interface {
	// Account domain
	User() UserRepository
	Subscription() SubscriptionRepository

	// Assessment domain
	Test() TestRepository
	Result() ResultRepository
	Quiz() QuizRepository

	// Credential recovery
	PasswordReset() PasswordResetRepository

	// Library content and notifications
	Content() ContentRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
