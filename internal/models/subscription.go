package models

import "time"

type SubscriptionPlan string

const (
	PlanFree    SubscriptionPlan = "FREE"
	PlanPremium SubscriptionPlan = "PREMIUM"
)

// Subscription holds the single plan row per user. The premium flag is the
// only thing the gating logic reads; payment details stay with the gateway.
type Subscription struct {
	ID     uint             `json:"id" gorm:"primaryKey"`
	UserID uint             `json:"user_id" gorm:"not null;uniqueIndex"`
	Plan   SubscriptionPlan `json:"plan" gorm:"size:20;default:FREE"`

	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// IsActive reports whether the subscription window covers now.
func (s *Subscription) IsActive(now time.Time) bool {
	return s.EndDate != nil && !s.EndDate.Before(now)
}
