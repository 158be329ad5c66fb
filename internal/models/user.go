package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Unavailability is a window of time during which a user cannot be scheduled.
type Unavailability struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Reason string    `json:"reason"`
}

type User struct {
	gorm.Model

	Username     string `gorm:"uniqueIndex;not null"`
	FirstName    string
	LastName     string
	Company      string
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	// VerificationToken is cleared when the account is verified;
	// IsVerified implies an empty token.
	VerificationToken string `gorm:"index"`
	IsVerified        bool   `gorm:"not null;default:false"`

	// ResetToken is single-use. ResetTokenIssuedAt records issuance time;
	// the validity deadline is issuance + the configured reset window.
	ResetToken         string
	ResetTokenIssuedAt time.Time

	AdminOf          datatypes.JSONSlice[string]         `gorm:"type:jsonb"`
	UnavailableHours datatypes.JSONSlice[Unavailability] `gorm:"type:jsonb"`
}
