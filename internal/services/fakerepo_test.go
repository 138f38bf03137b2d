package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/akshara-learn/examportal-service/internal/models"
	"github.com/akshara-learn/examportal-service/internal/repositories"
)

// fakeRepository is an in-memory Repository for service tests. Only the
// behavior the services rely on is modeled; writes are guarded by a single
// mutex, which is enough for the race-shaped assertions in these tests.
type fakeRepository struct {
	mu sync.Mutex

	users       map[uint]*models.User
	nextUserID  uint
	tests       map[uint]*models.MockTest
	results     map[[2]uint]*models.TestResult
	quizzes     map[uint]*models.DailyQuiz
	submissions map[[2]uint]*models.DailyQuizSubmission
	resetCodes  map[uint]*models.PasswordResetCode
	nextCodeID  uint
	subs        map[uint]*models.Subscription
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:       make(map[uint]*models.User),
		nextUserID:  1,
		tests:       make(map[uint]*models.MockTest),
		results:     make(map[[2]uint]*models.TestResult),
		quizzes:     make(map[uint]*models.DailyQuiz),
		submissions: make(map[[2]uint]*models.DailyQuizSubmission),
		resetCodes:  make(map[uint]*models.PasswordResetCode),
		nextCodeID:  1,
		subs:        make(map[uint]*models.Subscription),
	}
}

func (f *fakeRepository) User() repositories.UserRepository                 { return &fakeUserRepo{f} }
func (f *fakeRepository) Subscription() repositories.SubscriptionRepository { return &fakeSubRepo{f} }
func (f *fakeRepository) Test() repositories.TestRepository                 { return &fakeTestRepo{f} }
func (f *fakeRepository) Result() repositories.ResultRepository             { return &fakeResultRepo{f} }
func (f *fakeRepository) Quiz() repositories.QuizRepository                 { return &fakeQuizRepo{f} }
func (f *fakeRepository) PasswordReset() repositories.PasswordResetRepository {
	return &fakeResetRepo{f}
}
func (f *fakeRepository) Content() repositories.ContentRepository { return nil }

func (f *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(f)
}

func (f *fakeRepository) Ping(ctx context.Context) error { return nil }
func (f *fakeRepository) Close() error                   { return nil }

// ----- users -----

type fakeUserRepo struct{ f *fakeRepository }

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	user.ID = r.f.nextUserID
	r.f.nextUserID++
	r.f.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if u, ok := r.f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, u := range r.f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id uint, hash string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	u, ok := r.f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = hash
	return nil
}

// ----- subscriptions -----

type fakeSubRepo struct{ f *fakeRepository }

func (r *fakeSubRepo) GetByUser(ctx context.Context, userID uint) (*models.Subscription, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if s, ok := r.f.subs[userID]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSubRepo) Upsert(ctx context.Context, sub *models.Subscription) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.subs[sub.UserID] = sub
	return nil
}

// ----- tests -----

type fakeTestRepo struct{ f *fakeRepository }

func (r *fakeTestRepo) Create(ctx context.Context, test *models.MockTest) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if test.ID == 0 {
		test.ID = uint(len(r.f.tests) + 1)
	}
	r.f.tests[test.ID] = test
	return nil
}

func (r *fakeTestRepo) GetByID(ctx context.Context, id uint) (*models.MockTest, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if t, ok := r.f.tests[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTestRepo) GetByIDWithQuestions(ctx context.Context, id uint) (*models.MockTest, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeTestRepo) List(ctx context.Context, filters repositories.TestFilters) ([]*models.MockTest, int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.MockTest
	for _, t := range r.f.tests {
		if filters.Category != nil && t.Category != *filters.Category {
			continue
		}
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

func (r *fakeTestRepo) OldestByCategory(ctx context.Context, category models.ExamCategory) (*models.MockTest, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var oldest *models.MockTest
	for _, t := range r.f.tests {
		if t.Category != category {
			continue
		}
		if oldest == nil || t.CreatedAt.Before(oldest.CreatedAt) || (t.CreatedAt.Equal(oldest.CreatedAt) && t.ID < oldest.ID) {
			oldest = t
		}
	}
	if oldest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return oldest, nil
}

func (r *fakeTestRepo) QuestionCounts(ctx context.Context, testIDs []uint) (map[uint]int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	counts := make(map[uint]int64, len(testIDs))
	for _, id := range testIDs {
		if t, ok := r.f.tests[id]; ok && len(t.Questions) > 0 {
			counts[id] = int64(len(t.Questions))
		}
	}
	return counts, nil
}

func (r *fakeTestRepo) AddQuestions(ctx context.Context, testID uint, questions []*models.Question) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	t, ok := r.f.tests[testID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i, q := range questions {
		q.TestID = testID
		if q.ID == 0 {
			q.ID = uint(len(t.Questions) + i + 1)
		}
		t.Questions = append(t.Questions, *q)
	}
	return nil
}

func (r *fakeTestRepo) Delete(ctx context.Context, id uint) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.tests[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.f.tests, id)
	return nil
}

// ----- results -----

type fakeResultRepo struct{ f *fakeRepository }

func (r *fakeResultRepo) Upsert(ctx context.Context, result *models.TestResult) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	key := [2]uint{result.UserID, result.TestID}
	if existing, ok := r.f.results[key]; ok {
		result.ID = existing.ID
	} else {
		result.ID = uint(len(r.f.results) + 1)
	}
	r.f.results[key] = result
	return nil
}

func (r *fakeResultRepo) GetByUserAndTest(ctx context.Context, userID, testID uint) (*models.TestResult, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if res, ok := r.f.results[[2]uint{userID, testID}]; ok {
		return res, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeResultRepo) ListByUser(ctx context.Context, userID uint) ([]*models.TestResult, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.TestResult
	for key, res := range r.f.results {
		if key[0] != userID {
			continue
		}
		copied := *res
		if t, ok := r.f.tests[res.TestID]; ok {
			copied.Test = *t
		}
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeResultRepo) CountCompletedByUser(ctx context.Context, userID uint) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var n int64
	for key, res := range r.f.results {
		if key[0] == userID && res.Completed {
			n++
		}
	}
	return n, nil
}

// ----- quizzes -----

type fakeQuizRepo struct{ f *fakeRepository }

func (r *fakeQuizRepo) CreateQuiz(ctx context.Context, quiz *models.DailyQuiz) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if quiz.ID == 0 {
		quiz.ID = uint(len(r.f.quizzes) + 1)
	}
	r.f.quizzes[quiz.ID] = quiz
	return nil
}

func (r *fakeQuizRepo) GetQuizByDate(ctx context.Context, date time.Time) (*models.DailyQuiz, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	want := date.Format("2006-01-02")
	for _, q := range r.f.quizzes {
		if q.Date.Format("2006-01-02") == want {
			return q, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeQuizRepo) GetQuizByID(ctx context.Context, id uint) (*models.DailyQuiz, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if q, ok := r.f.quizzes[id]; ok {
		return q, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeQuizRepo) CreateSubmission(ctx context.Context, sub *models.DailyQuizSubmission) (bool, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	key := [2]uint{sub.UserID, sub.QuizID}
	if _, ok := r.f.submissions[key]; ok {
		return false, nil
	}
	sub.ID = uint(len(r.f.submissions) + 1)
	r.f.submissions[key] = sub
	return true, nil
}

func (r *fakeQuizRepo) GetSubmission(ctx context.Context, userID, quizID uint) (*models.DailyQuizSubmission, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if s, ok := r.f.submissions[[2]uint{userID, quizID}]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeQuizRepo) ListSubmissionsByUser(ctx context.Context, userID uint, limit int) ([]*models.DailyQuizSubmission, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.DailyQuizSubmission
	for key, s := range r.f.submissions {
		if key[0] != userID {
			continue
		}
		copied := *s
		if q, ok := r.f.quizzes[s.QuizID]; ok {
			copied.Quiz = *q
		}
		out = append(out, &copied)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// ----- password reset codes -----

type fakeResetRepo struct{ f *fakeRepository }

func (r *fakeResetRepo) Create(ctx context.Context, code *models.PasswordResetCode) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	code.ID = r.f.nextCodeID
	r.f.nextCodeID++
	r.f.resetCodes[code.ID] = code
	return nil
}

func (r *fakeResetRepo) GetByID(ctx context.Context, id uint) (*models.PasswordResetCode, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if c, ok := r.f.resetCodes[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeResetRepo) GetActiveByUser(ctx context.Context, userID uint, now time.Time, maxAttempts int) (*models.PasswordResetCode, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var newest *models.PasswordResetCode
	for _, c := range r.f.resetCodes {
		if c.UserID != userID || !c.Usable(now, maxAttempts) {
			continue
		}
		if newest == nil || c.CreatedAt.After(newest.CreatedAt) {
			newest = c
		}
	}
	if newest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return newest, nil
}

func (r *fakeResetRepo) GetLatestByUser(ctx context.Context, userID uint) (*models.PasswordResetCode, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var newest *models.PasswordResetCode
	for _, c := range r.f.resetCodes {
		if c.UserID != userID {
			continue
		}
		if newest == nil || c.CreatedAt.After(newest.CreatedAt) || (c.CreatedAt.Equal(newest.CreatedAt) && c.ID > newest.ID) {
			newest = c
		}
	}
	if newest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return newest, nil
}

func (r *fakeResetRepo) InvalidateActive(ctx context.Context, userID uint) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, c := range r.f.resetCodes {
		if c.UserID == userID && !c.IsUsed {
			c.IsUsed = true
		}
	}
	return nil
}

func (r *fakeResetRepo) RegisterFailedAttempt(ctx context.Context, id uint, maxAttempts int) (int, bool, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	c, ok := r.f.resetCodes[id]
	if !ok || c.IsUsed {
		return maxAttempts, true, nil
	}
	c.Attempts++
	if c.Attempts >= maxAttempts {
		c.IsUsed = true
	}
	return c.Attempts, c.IsUsed, nil
}

func (r *fakeResetRepo) Consume(ctx context.Context, id uint) (bool, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	c, ok := r.f.resetCodes[id]
	if !ok || c.IsUsed {
		return false, nil
	}
	c.IsUsed = true
	return true, nil
}
