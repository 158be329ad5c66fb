package models

import (
	"time"

	"gorm.io/gorm"
)

type Shift struct {
	gorm.Model

	ScheduleID uint `gorm:"not null;index"`
	// Position preserves the order the shifts were submitted in.
	Position int `gorm:"not null"`

	Start    time.Time
	End      time.Time
	Role     string
	Location string
	Notes    string
	Status   string `gorm:"not null;default:'Scheduled'"`
}
