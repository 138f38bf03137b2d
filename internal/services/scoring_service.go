package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"gorm.io/datatypes"

	"github.com/akshara-learn/examportal-service/internal/events"
	"github.com/akshara-learn/examportal-service/internal/models"
	"github.com/akshara-learn/examportal-service/internal/repositories"
	"github.com/akshara-learn/examportal-service/internal/validator"
)

type scoringService struct {
	repo           repositories.Repository
	subscription   SubscriptionService
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewScoringService(repo repositories.Repository, subscription SubscriptionService, eventPublisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) ScoringService {
	return &scoringService{
		repo:           repo,
		subscription:   subscription,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      v,
	}
}

// ===== SCORING CORE =====

// tally is what one grading pass produces. One point per exact match on the
// correct option label; anything unanswered counts as skipped, and a skipped
// question is never wrong.
type tally struct {
	Score   int
	Total   int
	Correct int
	Wrong   int
	Skipped int
}

func (t tally) percentage() float64 {
	if t.Total == 0 {
		return 0
	}
	return math.Round(float64(t.Score)/float64(t.Total)*10000) / 100
}

// grade runs the single scoring pass used by both mock tests and the daily
// quiz. Comparison is exact and case-sensitive.
func grade(correct map[uint]models.OptionLabel, answers map[uint]string) tally {
	t := tally{Total: len(correct)}
	for id, want := range correct {
		got, ok := answers[id]
		if !ok || got == "" {
			t.Skipped++
			continue
		}
		if models.OptionLabel(got) == want {
			t.Correct++
		} else {
			t.Wrong++
		}
	}
	t.Score = t.Correct
	return t
}

func testAnswerKey(questions []models.Question) map[uint]models.OptionLabel {
	key := make(map[uint]models.OptionLabel, len(questions))
	for _, q := range questions {
		key[q.ID] = q.CorrectOption
	}
	return key
}

func quizAnswerKey(questions []models.DailyQuestion) map[uint]models.OptionLabel {
	key := make(map[uint]models.OptionLabel, len(questions))
	for _, q := range questions {
		key[q.ID] = q.CorrectOption
	}
	return key
}

// validateAnswers rejects any submitted label outside A-D and any question
// id that is not part of the paper.
func validateAnswers(answers map[uint]string, key map[uint]models.OptionLabel) error {
	for id, label := range answers {
		if _, ok := key[id]; !ok {
			return NewValidationError("answers", "unknown question id", id)
		}
		if label != "" && !models.ValidOptionLabel(models.OptionLabel(label)) {
			return NewValidationError("answers", "invalid option label", label)
		}
	}
	return nil
}

// ===== MOCK TESTS =====

func (s *scoringService) ListTests(ctx context.Context, userID uint, category *models.ExamCategory, limit, offset int) (*TestListResponse, error) {
	if category != nil && !models.ValidCategory(*category) {
		return nil, NewValidationError("category", "unknown exam category", *category)
	}

	filters := repositories.TestFilters{
		Category: category,
		Limit:    limit,
		Offset:   offset,
	}

	tests, total, err := s.repo.Test().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list tests: %w", err)
	}

	ids := make([]uint, 0, len(tests))
	for _, test := range tests {
		ids = append(ids, test.ID)
	}
	counts, err := s.repo.Test().QuestionCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}

	resp := &TestListResponse{Total: total, Tests: make([]*TestSummary, 0, len(tests))}
	for _, test := range tests {
		accessible, err := s.subscription.CanAccessTest(ctx, userID, test)
		if err != nil {
			return nil, err
		}

		attempted := false
		if _, err := s.repo.Result().GetByUserAndTest(ctx, userID, test.ID); err == nil {
			attempted = true
		} else if !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to check result: %w", err)
		}

		resp.Tests = append(resp.Tests, &TestSummary{
			MockTest:      test,
			QuestionCount: int(counts[test.ID]),
			Accessible:    accessible,
			Attempted:     attempted,
		})
	}

	return resp, nil
}

func (s *scoringService) GetTest(ctx context.Context, userID, testID uint) (*TestDetail, error) {
	test, err := s.repo.Test().GetByIDWithQuestions(ctx, testID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("test", testID)
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	accessible, err := s.subscription.CanAccessTest(ctx, userID, test)
	if err != nil {
		return nil, err
	}
	if !accessible {
		return nil, ErrNeedsSubscription
	}

	return &TestDetail{MockTest: test}, nil
}

func (s *scoringService) SubmitTest(ctx context.Context, userID, testID uint, req SubmitTestRequest) (*TestResultResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("answers", err.Error(), nil)
	}

	test, err := s.repo.Test().GetByIDWithQuestions(ctx, testID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("test", testID)
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	accessible, err := s.subscription.CanAccessTest(ctx, userID, test)
	if err != nil {
		return nil, err
	}
	if !accessible {
		return nil, ErrNeedsSubscription
	}

	key := testAnswerKey(test.Questions)
	if err := validateAnswers(req.Answers, key); err != nil {
		return nil, err
	}

	t := grade(key, req.Answers)

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answers: %w", err)
	}

	now := time.Now().UTC()
	result := &models.TestResult{
		UserID:         userID,
		TestID:         testID,
		Score:          t.Score,
		TotalQuestions: t.Total,
		Skipped:        t.Skipped,
		Completed:      true,
		Answers:        datatypes.JSON(answersJSON),
		TakenAt:        now,
	}

	if err := s.repo.Result().Upsert(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to store result: %w", err)
	}

	s.logger.Info("test result recorded",
		"user_id", userID,
		"test_id", testID,
		"score", t.Score,
		"total", t.Total,
		"skipped", t.Skipped,
	)

	resp := s.resultResponse(test, result)

	if err := s.eventPublisher.Publish(ctx, events.NewEvent(events.EventResultRecorded, events.ResultRecordedEvent{
		UserID:     userID,
		TestID:     testID,
		Score:      t.Score,
		Total:      t.Total,
		Percentage: resp.Percentage,
		TakenAt:    now,
	})); err != nil {
		// Scoring already succeeded; the event stream catching up later is
		// acceptable.
		s.logger.Error("failed to publish result event", "error", err, "test_id", testID)
	}

	return resp, nil
}

func (s *scoringService) GetResult(ctx context.Context, userID, testID uint) (*TestResultResponse, error) {
	result, err := s.repo.Result().GetByUserAndTest(ctx, userID, testID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("result", testID)
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	test, err := s.repo.Test().GetByID(ctx, testID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("test", testID)
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	return s.resultResponse(test, result), nil
}

func (s *scoringService) GetProgress(ctx context.Context, userID uint) (*ProgressResponse, error) {
	completed, err := s.repo.Result().CountCompletedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	results, err := s.repo.Result().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &ProgressResponse{
		TestsCompleted: completed,
		Results:        make([]*TestResultResponse, 0, len(results)),
	}
	for _, r := range results {
		resp.Results = append(resp.Results, s.resultResponse(&r.Test, r))
	}

	return resp, nil
}

// resultResponse derives the correct/wrong split from the stored score and
// skip count instead of persisting it.
func (s *scoringService) resultResponse(test *models.MockTest, r *models.TestResult) *TestResultResponse {
	t := tally{
		Score:   r.Score,
		Total:   r.TotalQuestions,
		Correct: r.Score,
		Skipped: r.Skipped,
	}
	t.Wrong = t.Total - t.Correct - t.Skipped

	return &TestResultResponse{
		TestID:     r.TestID,
		Title:      test.Title,
		Score:      t.Score,
		Total:      t.Total,
		Correct:    t.Correct,
		Wrong:      t.Wrong,
		Skipped:    t.Skipped,
		Percentage: t.percentage(),
		TakenAt:    r.TakenAt,
	}
}

// ===== DAILY QUIZ =====

func (s *scoringService) TodayQuiz(ctx context.Context, userID uint, lang QuizLanguage) (*QuizView, error) {
	if lang != QuizLanguageEN {
		lang = QuizLanguageML
	}

	quiz, err := s.repo.Quiz().GetQuizByDate(ctx, time.Now().UTC())
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("daily quiz", time.Now().UTC().Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to get daily quiz: %w", err)
	}

	submitted := false
	if _, err := s.repo.Quiz().GetSubmission(ctx, userID, quiz.ID); err == nil {
		submitted = true
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check submission: %w", err)
	}

	view := &QuizView{
		QuizID:          quiz.ID,
		Date:            quiz.Date,
		DurationMinutes: quiz.DurationMinutes,
		Language:        lang,
		Submitted:       submitted,
		Questions:       make([]QuizQuestion, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		view.Questions = append(view.Questions, quizQuestionView(q, lang))
	}

	return view, nil
}

// quizQuestionView picks the requested language track, falling back to
// Malayalam when a question has no English translation.
func quizQuestionView(q models.DailyQuestion, lang QuizLanguage) QuizQuestion {
	if lang == QuizLanguageEN && q.TextEN != nil && q.OptionAEN != nil && q.OptionBEN != nil && q.OptionCEN != nil && q.OptionDEN != nil {
		return QuizQuestion{
			ID:      q.ID,
			Text:    *q.TextEN,
			Options: []string{*q.OptionAEN, *q.OptionBEN, *q.OptionCEN, *q.OptionDEN},
		}
	}
	return QuizQuestion{
		ID:      q.ID,
		Text:    q.TextML,
		Options: []string{q.OptionAML, q.OptionBML, q.OptionCML, q.OptionDML},
	}
}

func (s *scoringService) SubmitQuiz(ctx context.Context, userID, quizID uint, req SubmitQuizRequest) (*QuizResultResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("answers", err.Error(), nil)
	}

	quiz, err := s.repo.Quiz().GetQuizByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("daily quiz", quizID)
		}
		return nil, fmt.Errorf("failed to get daily quiz: %w", err)
	}

	key := quizAnswerKey(quiz.Questions)
	if err := validateAnswers(req.Answers, key); err != nil {
		return nil, err
	}

	t := grade(key, req.Answers)

	now := time.Now().UTC()
	sub := &models.DailyQuizSubmission{
		UserID:         userID,
		QuizID:         quizID,
		Score:          t.Score,
		TotalQuestions: t.Total,
		Skipped:        t.Skipped,
		SubmittedAt:    now,
	}

	inserted, err := s.repo.Quiz().CreateSubmission(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("failed to store quiz submission: %w", err)
	}
	if !inserted {
		// First submission wins; a duplicate POST gets the stored result back.
		existing, err := s.repo.Quiz().GetSubmission(ctx, userID, quizID)
		if err != nil {
			return nil, fmt.Errorf("failed to load quiz submission: %w", err)
		}
		resp := quizResultResponse(quiz, existing)
		resp.AlreadySubmitted = true
		return resp, nil
	}

	s.logger.Info("daily quiz submitted",
		"user_id", userID,
		"quiz_id", quizID,
		"score", t.Score,
		"total", t.Total,
	)

	if err := s.eventPublisher.Publish(ctx, events.NewEvent(events.EventQuizSubmitted, events.QuizSubmittedEvent{
		UserID:      userID,
		QuizID:      quizID,
		Score:       t.Score,
		Total:       t.Total,
		SubmittedAt: now,
	})); err != nil {
		s.logger.Error("failed to publish quiz event", "error", err, "quiz_id", quizID)
	}

	return quizResultResponse(quiz, sub), nil
}

func (s *scoringService) QuizResult(ctx context.Context, userID, quizID uint) (*QuizResultResponse, error) {
	sub, err := s.repo.Quiz().GetSubmission(ctx, userID, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("quiz submission", quizID)
		}
		return nil, fmt.Errorf("failed to get quiz submission: %w", err)
	}

	quiz, err := s.repo.Quiz().GetQuizByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("daily quiz", quizID)
		}
		return nil, fmt.Errorf("failed to get daily quiz: %w", err)
	}

	return quizResultResponse(quiz, sub), nil
}

func (s *scoringService) QuizHistory(ctx context.Context, userID uint, limit int) ([]*QuizResultResponse, error) {
	subs, err := s.repo.Quiz().ListSubmissionsByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*QuizResultResponse, 0, len(subs))
	for _, sub := range subs {
		out = append(out, quizResultResponse(&sub.Quiz, sub))
	}
	return out, nil
}

func quizResultResponse(quiz *models.DailyQuiz, sub *models.DailyQuizSubmission) *QuizResultResponse {
	wrong := sub.TotalQuestions - sub.Score - sub.Skipped
	if wrong < 0 {
		wrong = 0
	}
	return &QuizResultResponse{
		QuizID:      sub.QuizID,
		Date:        quiz.Date,
		Score:       sub.Score,
		Total:       sub.TotalQuestions,
		Wrong:       wrong,
		Skipped:     sub.Skipped,
		SubmittedAt: sub.SubmittedAt,
	}
}
