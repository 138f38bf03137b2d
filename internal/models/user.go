package models

import "time"

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Name         string   `json:"name" gorm:"size:200;not null"`
	Email        string   `json:"email" gorm:"size:255;not null;uniqueIndex"`
	Phone        string   `json:"phone" gorm:"size:15"`
	PasswordHash string   `json:"-" gorm:"size:255;not null"`
	Role         UserRole `json:"role" gorm:"size:20;default:student;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Subscription *Subscription `json:"subscription,omitempty" gorm:"foreignKey:UserID"`
}

type Notification struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	UserID  uint   `json:"user_id" gorm:"not null;index"`
	Message string `json:"message" gorm:"size:255;not null"`
	IsRead  bool   `json:"is_read" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}
