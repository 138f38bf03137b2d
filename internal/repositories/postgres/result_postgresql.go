package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/akshara-learn/examportal-service/internal/models"
	"github.com/akshara-learn/examportal-service/internal/repositories"
)

// ResultPostgreSQL implements ResultRepository backed by PostgreSQL.
type ResultPostgreSQL struct {
	db *gorm.DB
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultRepository {
	return &ResultPostgreSQL{db: db}
}

// Upsert relies on the (user_id, test_id) unique index: a resubmission
// overwrites the existing row in one statement, so concurrent submissions
// can never leave two rows or a torn read.
func (r *ResultPostgreSQL) Upsert(ctx context.Context, result *models.TestResult) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "test_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"score", "total_questions", "skipped", "completed", "answers", "taken_at",
			}),
		}).
		Create(result).Error
	if err != nil {
		return fmt.Errorf("failed to upsert test result: %w", err)
	}
	return nil
}

func (r *ResultPostgreSQL) GetByUserAndTest(ctx context.Context, userID, testID uint) (*models.TestResult, error) {
	var result models.TestResult
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND test_id = ?", userID, testID).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *ResultPostgreSQL) ListByUser(ctx context.Context, userID uint) ([]*models.TestResult, error) {
	var results []*models.TestResult
	err := r.db.WithContext(ctx).
		Preload("Test").
		Where("user_id = ?", userID).
		Order("taken_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return results, nil
}

func (r *ResultPostgreSQL) CountCompletedByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TestResult{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count completed results: %w", err)
	}
	return count, nil
}
