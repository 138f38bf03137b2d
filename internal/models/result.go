package models

import (
	"time"

	"gorm.io/datatypes"
)

// TestResult is the one stored result per (user, test). The unique index is
// the upsert key: resubmission overwrites in a single conditional write, so
// two racing submissions can never produce two rows. Correct/wrong counts
// are derived at read time, never stored.
type TestResult struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"not null;uniqueIndex:idx_user_test"`
	TestID uint `json:"test_id" gorm:"not null;uniqueIndex:idx_user_test"`

	Score          int  `json:"score" gorm:"default:0"`
	TotalQuestions int  `json:"total_questions" gorm:"default:0"`
	Skipped        int  `json:"skipped" gorm:"default:0"`
	Completed      bool `json:"completed" gorm:"default:false"`

	// Submitted answers snapshot, question id -> selected label.
	Answers datatypes.JSON `json:"answers" gorm:"type:jsonb"`

	TakenAt time.Time `json:"taken_at"`

	// Relations
	User User     `json:"-" gorm:"foreignKey:UserID"`
	Test MockTest `json:"-" gorm:"foreignKey:TestID"`
}

// DailyQuizSubmission is append-only: the unique index plus an ON CONFLICT
// DO NOTHING insert guarantees at most one submission per (user, quiz), and
// the first submission wins.
type DailyQuizSubmission struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"not null;uniqueIndex:idx_user_quiz"`
	QuizID uint `json:"quiz_id" gorm:"not null;uniqueIndex:idx_user_quiz"`

	Score          int `json:"score" gorm:"not null"`
	TotalQuestions int `json:"total_questions" gorm:"default:0"`
	Skipped        int `json:"skipped" gorm:"default:0"`

	SubmittedAt time.Time `json:"submitted_at"`

	// Relations
	User User      `json:"-" gorm:"foreignKey:UserID"`
	Quiz DailyQuiz `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
}
