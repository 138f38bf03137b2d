package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/akshara-learn/examportal-service/internal/models"
	"github.com/akshara-learn/examportal-service/internal/repositories"
	"github.com/akshara-learn/examportal-service/internal/validator"
)

type contentService struct {
	repo         repositories.Repository
	subscription SubscriptionService
	logger       *slog.Logger
	validator    *validator.Validator
}

func NewContentService(repo repositories.Repository, subscription SubscriptionService, logger *slog.Logger, v *validator.Validator) ContentService {
	return &contentService{
		repo:         repo,
		subscription: subscription,
		logger:       logger,
		validator:    v,
	}
}

// GetSection returns a category's shelves. Premium categories come back
// with Locked set and empty shelves for free accounts; the client shows the
// upgrade prompt instead of the content.
func (s *contentService) GetSection(ctx context.Context, userID uint, category models.ExamCategory, limit, offset int) (*SectionContent, error) {
	if !models.ValidCategory(category) {
		return nil, NewValidationError("category", "unknown exam category", category)
	}

	if category.RequiresPremium() {
		plan, err := s.subscription.CurrentPlan(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !plan.Active {
			return &SectionContent{Category: category, Locked: true}, nil
		}
	}

	bundle, err := s.repo.Content().GetSection(ctx, repositories.ContentFilters{
		Category: category,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, err
	}

	return &SectionContent{
		Category: category,
		Tests:    bundle.Tests,
		PDFs:     bundle.PDFs,
		Videos:   bundle.Videos,
		Papers:   bundle.Papers,
	}, nil
}

func (s *contentService) Search(ctx context.Context, query string, limit int) (*SearchContent, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, NewValidationError("q", "search query is required", nil)
	}

	results, err := s.repo.Content().Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	return &SearchContent{
		Tests:  results.Tests,
		PDFs:   results.PDFs,
		Videos: results.Videos,
	}, nil
}

func (s *contentService) ListNotifications(ctx context.Context, userID uint, limit int) ([]*models.Notification, error) {
	return s.repo.Content().ListNotifications(ctx, userID, limit)
}

func (s *contentService) MarkNotificationRead(ctx context.Context, userID, notificationID uint) error {
	err := s.repo.Content().MarkNotificationRead(ctx, userID, notificationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return NewNotFoundError("notification", notificationID)
		}
		return err
	}
	return nil
}

func (s *contentService) NotifyUser(ctx context.Context, userID uint, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return NewValidationError("message", "message is required", nil)
	}

	n := &models.Notification{
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Content().CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// ===== ADMIN CONTENT MANAGEMENT =====

func (s *contentService) CreateTest(ctx context.Context, req CreateTestRequest) (*models.MockTest, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("test", err.Error(), nil)
	}
	if !models.ValidCategory(req.Category) {
		return nil, NewValidationError("category", "unknown exam category", req.Category)
	}

	test := &models.MockTest{
		Category:    req.Category,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.repo.Test().Create(ctx, test); err != nil {
		return nil, err
	}

	s.logger.Info("mock test created", "test_id", test.ID, "category", test.Category)
	return test, nil
}

func (s *contentService) DeleteTest(ctx context.Context, testID uint) error {
	if err := s.repo.Test().Delete(ctx, testID); err != nil {
		if repositories.IsNotFoundError(err) {
			return NewNotFoundError("test", testID)
		}
		return err
	}
	s.logger.Info("mock test deleted", "test_id", testID)
	return nil
}

func (s *contentService) CreateDailyQuiz(ctx context.Context, req CreateQuizRequest) (*models.DailyQuiz, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("quiz", err.Error(), nil)
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, NewValidationError("date", "expected YYYY-MM-DD", req.Date)
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = 10
	}

	quiz := &models.DailyQuiz{
		Title:           req.Title,
		Subject:         req.Subject,
		Date:            date,
		DurationMinutes: duration,
		Questions:       make([]models.DailyQuestion, 0, len(req.Questions)),
	}
	for _, q := range req.Questions {
		quiz.Questions = append(quiz.Questions, models.DailyQuestion{
			TextML:        q.TextML,
			OptionAML:     q.OptionAML,
			OptionBML:     q.OptionBML,
			OptionCML:     q.OptionCML,
			OptionDML:     q.OptionDML,
			TextEN:        q.TextEN,
			OptionAEN:     q.OptionAEN,
			OptionBEN:     q.OptionBEN,
			OptionCEN:     q.OptionCEN,
			OptionDEN:     q.OptionDEN,
			CorrectOption: models.OptionLabel(q.Correct),
		})
	}

	if err := s.repo.Quiz().CreateQuiz(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to create daily quiz: %w", err)
	}

	s.logger.Info("daily quiz created", "quiz_id", quiz.ID, "date", req.Date)
	return quiz, nil
}
