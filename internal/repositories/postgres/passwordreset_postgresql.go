package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/akshara-learn/examportal-service/internal/models"
	"github.com/akshara-learn/examportal-service/internal/repositories"
)

// PasswordResetPostgreSQL implements PasswordResetRepository backed by
// PostgreSQL. The attempt counter and consumption flag are only ever moved
// by single conditional UPDATEs, so two concurrent verifications cannot
// both succeed and cannot lose a failed attempt.
type PasswordResetPostgreSQL struct {
	db *gorm.DB
}

func NewPasswordResetPostgreSQL(db *gorm.DB) repositories.PasswordResetRepository {
	return &PasswordResetPostgreSQL{db: db}
}

func (r *PasswordResetPostgreSQL) Create(ctx context.Context, code *models.PasswordResetCode) error {
	if err := r.db.WithContext(ctx).Create(code).Error; err != nil {
		return fmt.Errorf("failed to create reset code: %w", err)
	}
	return nil
}

func (r *PasswordResetPostgreSQL) GetByID(ctx context.Context, id uint) (*models.PasswordResetCode, error) {
	var code models.PasswordResetCode
	if err := r.db.WithContext(ctx).First(&code, id).Error; err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *PasswordResetPostgreSQL) GetActiveByUser(ctx context.Context, userID uint, now time.Time, maxAttempts int) (*models.PasswordResetCode, error) {
	var code models.PasswordResetCode
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_used = ? AND expires_at > ? AND attempts < ?",
			userID, false, now, maxAttempts).
		Order("created_at DESC").
		First(&code).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *PasswordResetPostgreSQL) GetLatestByUser(ctx context.Context, userID uint) (*models.PasswordResetCode, error) {
	var code models.PasswordResetCode
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&code).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *PasswordResetPostgreSQL) InvalidateActive(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.PasswordResetCode{}).
		Where("user_id = ? AND is_used = ?", userID, false).
		Update("is_used", true).Error
	if err != nil {
		return fmt.Errorf("failed to invalidate reset codes: %w", err)
	}
	return nil
}

// RegisterFailedAttempt bumps the counter and, when the bump reaches the
// budget, retires the code — all in one UPDATE. The guard on is_used means
// a code consumed by a racing success is left untouched.
func (r *PasswordResetPostgreSQL) RegisterFailedAttempt(ctx context.Context, id uint, maxAttempts int) (int, bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PasswordResetCode{}).
		Where("id = ? AND is_used = ?", id, false).
		Updates(map[string]interface{}{
			"attempts": gorm.Expr("attempts + 1"),
			"is_used":  gorm.Expr("attempts + 1 >= ?", maxAttempts),
		})
	if result.Error != nil {
		return 0, false, fmt.Errorf("failed to register attempt: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Already consumed or exhausted elsewhere.
		return maxAttempts, true, nil
	}

	var code models.PasswordResetCode
	if err := r.db.WithContext(ctx).Select("attempts", "is_used").First(&code, id).Error; err != nil {
		return 0, false, fmt.Errorf("failed to reload reset code: %w", err)
	}

	return code.Attempts, code.IsUsed, nil
}

// Consume marks the code used exactly once; the conditional write is the
// single-use guarantee.
func (r *PasswordResetPostgreSQL) Consume(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PasswordResetCode{}).
		Where("id = ? AND is_used = ?", id, false).
		Update("is_used", true)
	if result.Error != nil {
		return false, fmt.Errorf("failed to consume reset code: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}
