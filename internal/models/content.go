package models

import "time"

// Content records are read-only from the portal's perspective; uploads and
// file storage happen through admin tooling outside this service.

type CurrentAffairPDF struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Category    ExamCategory `json:"category" gorm:"size:20;not null;index"`
	Title       string       `json:"title" gorm:"size:255;not null"`
	Description *string      `json:"description" gorm:"type:text"`
	FileURL     string       `json:"file_url" gorm:"size:500;not null"`

	UploadedAt time.Time `json:"uploaded_at"`
}

type VideoClass struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Category    ExamCategory `json:"category" gorm:"size:20;not null;index"`
	Title       string       `json:"title" gorm:"size:200;not null"`
	Description *string      `json:"description" gorm:"type:text"`
	VideoLink   string       `json:"video_link" gorm:"size:500;not null"`

	UploadedAt time.Time `json:"uploaded_at"`
}

type PreviousYearPaper struct {
	ID       uint         `json:"id" gorm:"primaryKey"`
	Category ExamCategory `json:"category" gorm:"size:20;not null;index"`
	ExamName string       `json:"exam_name" gorm:"size:200;not null"`
	Year     string       `json:"year" gorm:"size:20;not null"`
	FileURL  string       `json:"file_url" gorm:"size:500;not null"`

	UploadedAt time.Time `json:"uploaded_at"`
}
