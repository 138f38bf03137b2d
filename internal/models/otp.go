package models

import "time"

const (
	// OTPMaxAttempts is the number of wrong guesses that kill a code.
	OTPMaxAttempts = 5

	// OTPDigits is the length of the zero-padded numeric code.
	OTPDigits = 6

	// OTPDefaultTTL bounds how long an issued code stays verifiable.
	OTPDefaultTTL = 10 * time.Minute
)

// PasswordResetCode is the stored side of the OTP password-reset protocol.
// Only the bcrypt hash of the code is persisted; the plaintext travels once,
// by email. Rows are never deleted — a consumed or exhausted code stays
// around as an audit trail with IsUsed set.
type PasswordResetCode struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"not null;index"`

	HashedCode string `json:"-" gorm:"size:255;not null"`
	Channel    string `json:"channel" gorm:"size:10;default:email"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`

	IsUsed   bool `json:"is_used" gorm:"default:false"`
	Attempts int  `json:"attempts" gorm:"default:0"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// IsExpired reports whether the code is past its verification window.
func (c *PasswordResetCode) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Usable is the single liveness invariant: not consumed, not expired, and
// under the attempt budget.
func (c *PasswordResetCode) Usable(now time.Time, maxAttempts int) bool {
	return !c.IsUsed && !c.IsExpired(now) && c.Attempts < maxAttempts
}
