package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/akshara-learn/examportal-service/internal/models"
	"github.com/akshara-learn/examportal-service/internal/repositories"
)

// ContentPostgreSQL implements ContentRepository backed by PostgreSQL.
type ContentPostgreSQL struct {
	db *gorm.DB
}

func NewContentPostgreSQL(db *gorm.DB) repositories.ContentRepository {
	return &ContentPostgreSQL{db: db}
}

// GetSection loads everything a category landing page shows: the test list
// plus the three content shelves, all filtered by category.
func (r *ContentPostgreSQL) GetSection(ctx context.Context, filters repositories.ContentFilters) (*repositories.SectionContent, error) {
	section := &repositories.SectionContent{}
	db := r.db.WithContext(ctx)

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	err := db.Where("category = ?", filters.Category).
		Order("created_at DESC").
		Limit(limit).Offset(filters.Offset).
		Find(&section.Tests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load section tests: %w", err)
	}

	err = db.Where("category = ?", filters.Category).
		Order("uploaded_at DESC").
		Limit(limit).
		Find(&section.PDFs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load section pdfs: %w", err)
	}

	err = db.Where("category = ?", filters.Category).
		Order("uploaded_at DESC").
		Limit(limit).
		Find(&section.Videos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load section videos: %w", err)
	}

	err = db.Where("category = ?", filters.Category).
		Order("uploaded_at DESC").
		Limit(limit).
		Find(&section.Papers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load section papers: %w", err)
	}

	return section, nil
}

// Search does a case-insensitive title match across tests, PDFs and video
// classes.
func (r *ContentPostgreSQL) Search(ctx context.Context, query string, limit int) (*repositories.SearchResults, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + query + "%"
	results := &repositories.SearchResults{}
	db := r.db.WithContext(ctx)

	if err := db.Where("title ILIKE ?", pattern).Limit(limit).Find(&results.Tests).Error; err != nil {
		return nil, fmt.Errorf("failed to search tests: %w", err)
	}
	if err := db.Where("title ILIKE ?", pattern).Limit(limit).Find(&results.PDFs).Error; err != nil {
		return nil, fmt.Errorf("failed to search pdfs: %w", err)
	}
	if err := db.Where("title ILIKE ?", pattern).Limit(limit).Find(&results.Videos).Error; err != nil {
		return nil, fmt.Errorf("failed to search videos: %w", err)
	}

	return results, nil
}

func (r *ContentPostgreSQL) CreateNotification(ctx context.Context, n *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *ContentPostgreSQL) ListNotifications(ctx context.Context, userID uint, limit int) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	var notifications []*models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (r *ContentPostgreSQL) MarkNotificationRead(ctx context.Context, userID, notificationID uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
