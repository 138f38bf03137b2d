package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/akshara-learn/examportal-service/internal/cache"
	"github.com/akshara-learn/examportal-service/internal/models"
	"github.com/akshara-learn/examportal-service/internal/repositories"
)

const testCacheTTL = 5 * time.Minute

// TestPostgreSQL implements TestRepository backed by PostgreSQL with a
// read-through cache on the hot test-detail path.
type TestPostgreSQL struct {
	db          *gorm.DB
	cacheHelper *cache.CacheHelper
}

func NewTestPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.TestRepository {
	return &TestPostgreSQL{
		db:          db,
		cacheHelper: cache.NewCacheHelper(redisClient, "test:"),
	}
}

func (r *TestPostgreSQL) Create(ctx context.Context, test *models.MockTest) error {
	if err := r.db.WithContext(ctx).Create(test).Error; err != nil {
		return fmt.Errorf("failed to create test: %w", err)
	}
	return nil
}

func (r *TestPostgreSQL) GetByID(ctx context.Context, id uint) (*models.MockTest, error) {
	var test models.MockTest
	if err := r.db.WithContext(ctx).First(&test, id).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *TestPostgreSQL) GetByIDWithQuestions(ctx context.Context, id uint) (*models.MockTest, error) {
	cacheKey := fmt.Sprintf("detail:%d", id)

	var cached models.MockTest
	if err := r.cacheHelper.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	var test models.MockTest
	err := r.db.WithContext(ctx).
		Preload("Questions").
		First(&test, id).Error
	if err != nil {
		return nil, err
	}

	_ = r.cacheHelper.Set(ctx, cacheKey, &test, testCacheTTL)

	return &test, nil
}

func (r *TestPostgreSQL) List(ctx context.Context, filters repositories.TestFilters) ([]*models.MockTest, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.MockTest{})

	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tests: %w", err)
	}

	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var tests []*models.MockTest
	if err := query.Find(&tests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tests: %w", err)
	}

	return tests, total, nil
}

// OldestByCategory is the free-trial anchor: the earliest-created test in a
// category is the one every account may take without a subscription.
func (r *TestPostgreSQL) OldestByCategory(ctx context.Context, category models.ExamCategory) (*models.MockTest, error) {
	var test models.MockTest
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("created_at ASC, id ASC").
		First(&test).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *TestPostgreSQL) QuestionCounts(ctx context.Context, testIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(testIDs))
	if len(testIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		TestID uint
		N      int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Select("test_id, COUNT(*) AS n").
		Where("test_id IN ?", testIDs).
		Group("test_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}

	for _, row := range rows {
		counts[row.TestID] = row.N
	}
	return counts, nil
}

func (r *TestPostgreSQL) AddQuestions(ctx context.Context, testID uint, questions []*models.Question) error {
	if len(questions) == 0 {
		return nil
	}

	for _, q := range questions {
		q.TestID = testID
	}

	if err := r.db.WithContext(ctx).Create(&questions).Error; err != nil {
		return fmt.Errorf("failed to add questions: %w", err)
	}

	_ = r.cacheHelper.Delete(ctx, fmt.Sprintf("detail:%d", testID))

	return nil
}

func (r *TestPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.MockTest{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete test: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	_ = r.cacheHelper.Delete(ctx, fmt.Sprintf("detail:%d", id))

	return nil
}
