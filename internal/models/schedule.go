package models

import "gorm.io/gorm"

type Schedule struct {
	gorm.Model

	EventName   string `gorm:"not null"`
	Company     string
	Department  string `gorm:"index;not null"`
	HoursNeeded int
	// Username references the owning user by name, not by foreign key.
	Username string `gorm:"index;not null"`

	Shifts []Shift `gorm:"foreignKey:ScheduleID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
