package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/akshara-learn/examportal-service/internal/models"
)

// ErrNotFound is returned by Get* methods when no row matches.
var ErrNotFound = gorm.ErrRecordNotFound

// IsNotFoundError reports whether err means a missing row.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ===== SHARED FILTER STRUCTS =====

type TestFilters struct {
	Category  *models.ExamCategory `json:"category"`
	Limit     int                  `json:"limit"`
	Offset    int                  `json:"offset"`
	SortBy    string               `json:"sort_by"`    // "created_at", "title"
	SortOrder string               `json:"sort_order"` // "asc", "desc"
}

type ContentFilters struct {
	Category models.ExamCategory `json:"category"`
	Limit    int                 `json:"limit"`
	Offset   int                 `json:"offset"`
}

// SectionContent bundles everything a category landing page shows.
type SectionContent struct {
	Tests  []*models.MockTest          `json:"tests"`
	PDFs   []*models.CurrentAffairPDF  `json:"pdfs"`
	Videos []*models.VideoClass        `json:"videos"`
	Papers []*models.PreviousYearPaper `json:"papers"`
}

// SearchResults groups cross-entity title search hits.
type SearchResults struct {
	Tests  []*models.MockTest         `json:"tests"`
	PDFs   []*models.CurrentAffairPDF `json:"pdfs"`
	Videos []*models.VideoClass       `json:"videos"`
}

// ===== REPOSITORY INTERFACES =====

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
}

type SubscriptionRepository interface {
	GetByUser(ctx context.Context, userID uint) (*models.Subscription, error)
	// Upsert creates or replaces the single subscription row for the user.
	Upsert(ctx context.Context, sub *models.Subscription) error
}

type TestRepository interface {
	Create(ctx context.Context, test *models.MockTest) error
	GetByID(ctx context.Context, id uint) (*models.MockTest, error)
	GetByIDWithQuestions(ctx context.Context, id uint) (*models.MockTest, error)
	List(ctx context.Context, filters TestFilters) ([]*models.MockTest, int64, error)
	// OldestByCategory returns the first test ever published in a category.
	OldestByCategory(ctx context.Context, category models.ExamCategory) (*models.MockTest, error)
	// QuestionCounts returns the number of questions per test id. Tests with
	// no questions are absent from the map.
	QuestionCounts(ctx context.Context, testIDs []uint) (map[uint]int64, error)
	AddQuestions(ctx context.Context, testID uint, questions []*models.Question) error
	Delete(ctx context.Context, id uint) error
}

type ResultRepository interface {
	// Upsert writes the single result row for (user, test) atomically:
	// insert, or overwrite every mutable column on conflict.
	Upsert(ctx context.Context, result *models.TestResult) error
	GetByUserAndTest(ctx context.Context, userID, testID uint) (*models.TestResult, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.TestResult, error)
	CountCompletedByUser(ctx context.Context, userID uint) (int64, error)
}

type QuizRepository interface {
	CreateQuiz(ctx context.Context, quiz *models.DailyQuiz) error
	GetQuizByDate(ctx context.Context, date time.Time) (*models.DailyQuiz, error)
	GetQuizByID(ctx context.Context, id uint) (*models.DailyQuiz, error)
	// CreateSubmission inserts with ON CONFLICT DO NOTHING; the returned bool
	// is false when a submission for (user, quiz) already existed.
	CreateSubmission(ctx context.Context, sub *models.DailyQuizSubmission) (bool, error)
	GetSubmission(ctx context.Context, userID, quizID uint) (*models.DailyQuizSubmission, error)
	ListSubmissionsByUser(ctx context.Context, userID uint, limit int) ([]*models.DailyQuizSubmission, error)
}

type PasswordResetRepository interface {
	Create(ctx context.Context, code *models.PasswordResetCode) error
	GetByID(ctx context.Context, id uint) (*models.PasswordResetCode, error)
	// GetActiveByUser returns the newest code that is still usable at now
	// under the given attempt budget.
	GetActiveByUser(ctx context.Context, userID uint, now time.Time, maxAttempts int) (*models.PasswordResetCode, error)
	// GetLatestByUser returns the newest code regardless of state.
	GetLatestByUser(ctx context.Context, userID uint) (*models.PasswordResetCode, error)
	// InvalidateActive marks every live code for the user as used, so a
	// reissued code is the only one that can verify.
	InvalidateActive(ctx context.Context, userID uint) error
	// RegisterFailedAttempt bumps the attempt counter in one conditional
	// write and reports the attempt count after the bump and whether the
	// code is now dead.
	RegisterFailedAttempt(ctx context.Context, id uint, maxAttempts int) (attempts int, exhausted bool, err error)
	// Consume marks the code used; returns false if it was already consumed
	// or exhausted by a concurrent request.
	Consume(ctx context.Context, id uint) (bool, error)
}

type ContentRepository interface {
	GetSection(ctx context.Context, filters ContentFilters) (*SectionContent, error)
	Search(ctx context.Context, query string, limit int) (*SearchResults, error)

	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID uint, limit int) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID uint) error
}
