package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/akshara-learn/examportal-service/internal/models"
	"github.com/akshara-learn/examportal-service/internal/repositories"
)

// QuizPostgreSQL implements QuizRepository backed by PostgreSQL.
type QuizPostgreSQL struct {
	db *gorm.DB
}

func NewQuizPostgreSQL(db *gorm.DB) repositories.QuizRepository {
	return &QuizPostgreSQL{db: db}
}

func (r *QuizPostgreSQL) CreateQuiz(ctx context.Context, quiz *models.DailyQuiz) error {
	if err := r.db.WithContext(ctx).Create(quiz).Error; err != nil {
		return fmt.Errorf("failed to create daily quiz: %w", err)
	}
	return nil
}

func (r *QuizPostgreSQL) GetQuizByDate(ctx context.Context, date time.Time) (*models.DailyQuiz, error) {
	var quiz models.DailyQuiz
	err := r.db.WithContext(ctx).
		Preload("Questions").
		Where("date = ?", date.Format("2006-01-02")).
		First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizPostgreSQL) GetQuizByID(ctx context.Context, id uint) (*models.DailyQuiz, error) {
	var quiz models.DailyQuiz
	err := r.db.WithContext(ctx).
		Preload("Questions").
		First(&quiz, id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// CreateSubmission is append-only: ON CONFLICT DO NOTHING on the
// (user_id, quiz_id) index means the first submission wins and every later
// one is reported back as a duplicate, never overwritten.
func (r *QuizPostgreSQL) CreateSubmission(ctx context.Context, sub *models.DailyQuizSubmission) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "quiz_id"}},
			DoNothing: true,
		}).
		Create(sub)
	if result.Error != nil {
		return false, fmt.Errorf("failed to create quiz submission: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *QuizPostgreSQL) GetSubmission(ctx context.Context, userID, quizID uint) (*models.DailyQuizSubmission, error) {
	var sub models.DailyQuizSubmission
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *QuizPostgreSQL) ListSubmissionsByUser(ctx context.Context, userID uint, limit int) ([]*models.DailyQuizSubmission, error) {
	query := r.db.WithContext(ctx).
		Preload("Quiz").
		Where("user_id = ?", userID).
		Order("submitted_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var subs []*models.DailyQuizSubmission
	if err := query.Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list quiz submissions: %w", err)
	}
	return subs, nil
}
