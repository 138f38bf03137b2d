package models

import "time"

// DailyQuiz is the one quiz published per calendar date. Date carries a
// unique index so at most one quiz exists per day.
type DailyQuiz struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Title           string    `json:"title" gorm:"size:200;not null"`
	Subject         *string   `json:"subject" gorm:"size:100"`
	Date            time.Time `json:"date" gorm:"type:date;not null;uniqueIndex"`
	DurationMinutes int       `json:"duration_minutes" gorm:"default:10"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Questions []DailyQuestion `json:"questions,omitempty" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
}

// DailyQuestion carries two language tracks (Malayalam and English) over a
// single correct-option label. The English track is optional.
type DailyQuestion struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	QuizID uint `json:"quiz_id" gorm:"not null;index"`

	// Malayalam track
	TextML    string `json:"text_ml" gorm:"type:text;not null"`
	OptionAML string `json:"option_a_ml" gorm:"size:200;not null"`
	OptionBML string `json:"option_b_ml" gorm:"size:200;not null"`
	OptionCML string `json:"option_c_ml" gorm:"size:200;not null"`
	OptionDML string `json:"option_d_ml" gorm:"size:200;not null"`

	// English track
	TextEN    *string `json:"text_en" gorm:"type:text"`
	OptionAEN *string `json:"option_a_en" gorm:"size:200"`
	OptionBEN *string `json:"option_b_en" gorm:"size:200"`
	OptionCEN *string `json:"option_c_en" gorm:"size:200"`
	OptionDEN *string `json:"option_d_en" gorm:"size:200"`

	CorrectOption OptionLabel `json:"-" gorm:"size:1;not null;default:A"`

	// Relations
	Quiz DailyQuiz `json:"-" gorm:"foreignKey:QuizID"`
}
