package services

import (
	"context"
	"io"
	"time"

	"github.com/akshara-learn/examportal-service/internal/models"
)

// ===== ACCOUNT DTOs =====

type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=150"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"omitempty,min=7,max=20"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=150"`
	Phone *string `json:"phone" validate:"omitempty,min=7,max=20"`
}

type ProfileResponse struct {
	User         *models.User            `json:"user"`
	Plan         models.SubscriptionPlan `json:"plan"`
	PlanActive   bool                    `json:"plan_active"`
	PlanExpiry   *time.Time              `json:"plan_expiry,omitempty"`
	TestsTaken   int64                   `json:"tests_taken"`
	QuizzesTaken int                     `json:"quizzes_taken"`
}

// ===== PASSWORD RESET DTOs =====

type ResetRequestInput struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyCodeInput struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// VerifyCodeResult carries the one-time session token that authorizes the
// completion step.
type VerifyCodeResult struct {
	ResetToken string `json:"reset_token"`
}

type CompleteResetInput struct {
	ResetToken      string `json:"reset_token" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// ===== SCORING DTOs =====

type SubmitTestRequest struct {
	// Answers maps question id to the selected option label. Unanswered
	// questions are simply absent.
	Answers map[uint]string `json:"answers" validate:"required"`
}

type TestResultResponse struct {
	TestID     uint      `json:"test_id"`
	Title      string    `json:"title"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	Correct    int       `json:"correct"`
	Wrong      int       `json:"wrong"`
	Skipped    int       `json:"skipped"`
	Percentage float64   `json:"percentage"`
	TakenAt    time.Time `json:"taken_at"`
}

type TestListResponse struct {
	Tests []*TestSummary `json:"tests"`
	Total int64          `json:"total"`
}

type TestSummary struct {
	*models.MockTest
	QuestionCount int  `json:"question_count"`
	Accessible    bool `json:"accessible"`
	Attempted     bool `json:"attempted"`
}

// TestDetail is the student-facing view: questions without correct answers.
type TestDetail struct {
	*models.MockTest
}

type ProgressResponse struct {
	TestsCompleted int64                 `json:"tests_completed"`
	Results        []*TestResultResponse `json:"results"`
}

// ===== DAILY QUIZ DTOs =====

type QuizLanguage string

const (
	QuizLanguageML QuizLanguage = "ml"
	QuizLanguageEN QuizLanguage = "en"
)

type SubmitQuizRequest struct {
	Answers map[uint]string `json:"answers" validate:"required"`
}

// QuizView is the student-facing daily quiz in the requested language.
type QuizView struct {
	QuizID          uint           `json:"quiz_id"`
	Date            time.Time      `json:"date"`
	DurationMinutes int            `json:"duration_minutes"`
	Language        QuizLanguage   `json:"language"`
	Questions       []QuizQuestion `json:"questions"`
	Submitted       bool           `json:"submitted"`
}

type QuizQuestion struct {
	ID      uint     `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

type QuizResultResponse struct {
	QuizID  uint      `json:"quiz_id"`
	Date    time.Time `json:"date"`
	Score   int       `json:"score"`
	Total   int       `json:"total"`
	Wrong   int       `json:"wrong"`
	Skipped int       `json:"skipped"`
	// AlreadySubmitted is set when a duplicate submission was answered with
	// the stored first result instead of a fresh grading.
	AlreadySubmitted bool      `json:"already_submitted,omitempty"`
	SubmittedAt      time.Time `json:"submitted_at"`
}

// ===== SUBSCRIPTION DTOs =====

type OrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int    `json:"amount"` // paise
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

type ActivateSubscriptionRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

type PlanStatus struct {
	Plan    models.SubscriptionPlan `json:"plan"`
	Active  bool                    `json:"active"`
	EndDate *time.Time              `json:"end_date,omitempty"`
}

// ===== CONTENT DTOs =====

type NotifyAllRequest struct {
	Message string `json:"message" validate:"required,max=500"`
}

// ===== ADMIN DTOs =====

type CreateTestRequest struct {
	Category    models.ExamCategory `json:"category" validate:"required"`
	Title       string              `json:"title" validate:"required,min=3,max=255"`
	Description string              `json:"description" validate:"omitempty,max=2000"`
}

type CreateQuizQuestion struct {
	TextML    string  `json:"text_ml" validate:"required"`
	OptionAML string  `json:"option_a_ml" validate:"required"`
	OptionBML string  `json:"option_b_ml" validate:"required"`
	OptionCML string  `json:"option_c_ml" validate:"required"`
	OptionDML string  `json:"option_d_ml" validate:"required"`
	TextEN    *string `json:"text_en"`
	OptionAEN *string `json:"option_a_en"`
	OptionBEN *string `json:"option_b_en"`
	OptionCEN *string `json:"option_c_en"`
	OptionDEN *string `json:"option_d_en"`
	Correct   string  `json:"correct_option" validate:"required,oneof=A B C D"`
}

type CreateQuizRequest struct {
	Title           string               `json:"title" validate:"required,min=3,max=200"`
	Subject         *string              `json:"subject"`
	Date            string               `json:"date" validate:"required,datetime=2006-01-02"`
	DurationMinutes int                  `json:"duration_minutes" validate:"omitempty,min=1,max=180"`
	Questions       []CreateQuizQuestion `json:"questions" validate:"required,min=1,dive"`
}

// ===== IMPORT DTOs =====

type ImportReport struct {
	TestID   uint     `json:"test_id"`
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped,omitempty"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	// ParseToken validates a bearer token and returns the user id and role.
	ParseToken(token string) (uint, models.UserRole, error)
	GetProfile(ctx context.Context, userID uint) (*ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest) (*models.User, error)
}

type PasswordResetService interface {
	// RequestReset issues and delivers a code. It succeeds silently for
	// unknown emails so the endpoint cannot be used to enumerate accounts.
	RequestReset(ctx context.Context, req ResetRequestInput) error
	VerifyCode(ctx context.Context, req VerifyCodeInput) (*VerifyCodeResult, error)
	CompleteReset(ctx context.Context, req CompleteResetInput) error
}

type ScoringService interface {
	// Mock tests
	ListTests(ctx context.Context, userID uint, category *models.ExamCategory, limit, offset int) (*TestListResponse, error)
	GetTest(ctx context.Context, userID, testID uint) (*TestDetail, error)
	SubmitTest(ctx context.Context, userID, testID uint, req SubmitTestRequest) (*TestResultResponse, error)
	GetResult(ctx context.Context, userID, testID uint) (*TestResultResponse, error)
	GetProgress(ctx context.Context, userID uint) (*ProgressResponse, error)

	// Daily quiz
	TodayQuiz(ctx context.Context, userID uint, lang QuizLanguage) (*QuizView, error)
	SubmitQuiz(ctx context.Context, userID, quizID uint, req SubmitQuizRequest) (*QuizResultResponse, error)
	QuizResult(ctx context.Context, userID, quizID uint) (*QuizResultResponse, error)
	QuizHistory(ctx context.Context, userID uint, limit int) ([]*QuizResultResponse, error)
}

type SubscriptionService interface {
	CreateOrder(ctx context.Context, userID uint) (*OrderResponse, error)
	Activate(ctx context.Context, userID uint, req ActivateSubscriptionRequest) (*PlanStatus, error)
	CurrentPlan(ctx context.Context, userID uint) (*PlanStatus, error)
	// CanAccessTest applies premium gating, including the free first test
	// of each category.
	CanAccessTest(ctx context.Context, userID uint, test *models.MockTest) (bool, error)
}

type ContentService interface {
	GetSection(ctx context.Context, userID uint, category models.ExamCategory, limit, offset int) (*SectionContent, error)
	Search(ctx context.Context, query string, limit int) (*SearchContent, error)
	ListNotifications(ctx context.Context, userID uint, limit int) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID uint) error
	NotifyUser(ctx context.Context, userID uint, message string) error

	// Admin content management
	CreateTest(ctx context.Context, req CreateTestRequest) (*models.MockTest, error)
	DeleteTest(ctx context.Context, testID uint) error
	CreateDailyQuiz(ctx context.Context, req CreateQuizRequest) (*models.DailyQuiz, error)
}

type ImportService interface {
	// ImportTestQuestions reads an xlsx workbook and appends its rows to the
	// test as questions.
	ImportTestQuestions(ctx context.Context, testID uint, r io.Reader) (*ImportReport, error)
}

// EmailSender delivers transactional mail.
type EmailSender interface {
	SendPasswordResetCode(ctx context.Context, to, name, code string, ttl time.Duration) error
	SendSubscriptionReceipt(ctx context.Context, to, name string, amountPaise int, endDate time.Time) error
	SendWelcome(ctx context.Context, to, name string) error
}

// SectionContent and SearchContent mirror the repository bundles but stay
// service-level types so handlers never import repositories.
type SectionContent struct {
	Category models.ExamCategory         `json:"category"`
	Locked   bool                        `json:"locked"`
	Tests    []*models.MockTest          `json:"tests"`
	PDFs     []*models.CurrentAffairPDF  `json:"pdfs"`
	Videos   []*models.VideoClass        `json:"videos"`
	Papers   []*models.PreviousYearPaper `json:"papers"`
}

type SearchContent struct {
	Tests  []*models.MockTest         `json:"tests"`
	PDFs   []*models.CurrentAffairPDF `json:"pdfs"`
	Videos []*models.VideoClass       `json:"videos"`
}

// ServiceManager provides access to all services.
type ServiceManager interface {
	Auth() AuthService
	PasswordReset() PasswordResetService
	Scoring() ScoringService
	Subscription() SubscriptionService
	Content() ContentService
	Import() ImportService

	Initialize() error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
