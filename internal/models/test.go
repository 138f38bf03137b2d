package models

import "time"

type ExamCategory string

const (
	CategoryGeneral ExamCategory = "general"
	CategoryPSC     ExamCategory = "psc"
	CategorySSC     ExamCategory = "ssc"
	CategoryRRB     ExamCategory = "rrb"
)

// ValidCategory reports whether c names one of the four exam categories.
func ValidCategory(c ExamCategory) bool {
	switch c {
	case CategoryGeneral, CategoryPSC, CategorySSC, CategoryRRB:
		return true
	}
	return false
}

// RequiresPremium reports whether listing content for the category is gated
// behind the PREMIUM plan. The general section stays open so the trial test
// is reachable for free users.
func (c ExamCategory) RequiresPremium() bool {
	return c == CategoryPSC || c == CategorySSC || c == CategoryRRB
}

type OptionLabel string

const (
	OptionA OptionLabel = "A"
	OptionB OptionLabel = "B"
	OptionC OptionLabel = "C"
	OptionD OptionLabel = "D"
)

// ValidOptionLabel reports whether l is one of the four answer labels.
func ValidOptionLabel(l OptionLabel) bool {
	return l == OptionA || l == OptionB || l == OptionC || l == OptionD
}

type MockTest struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Category    ExamCategory `json:"category" gorm:"size:20;not null;index"`
	Title       string       `json:"title" gorm:"size:255;not null"`
	Description string       `json:"description" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:TestID;constraint:OnDelete:CASCADE"`
}

// Question is a single-correct-answer multiple-choice question. The option
// set is fixed at four labeled options; the correct label is compared
// case-sensitively at scoring time.
type Question struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	TestID uint `json:"test_id" gorm:"not null;index"`

	Text    string `json:"text" gorm:"type:text;not null"`
	OptionA string `json:"option_a" gorm:"size:200;not null"`
	OptionB string `json:"option_b" gorm:"size:200;not null"`
	OptionC string `json:"option_c" gorm:"size:200;not null"`
	OptionD string `json:"option_d" gorm:"size:200;not null"`

	CorrectOption OptionLabel `json:"-" gorm:"size:1;not null"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Test MockTest `json:"-" gorm:"foreignKey:TestID"`
}
