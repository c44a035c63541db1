package models

import (
	"time"

	"gorm.io/gorm"
)

type Event struct {
	gorm.Model

	Title       string    `gorm:"not null;uniqueIndex"`
	Date        time.Time `gorm:"not null;index"`
	Description string
	Category    string `gorm:"index"`
	Place       string `gorm:"index"`
	OrganizerID *uint  `gorm:"index"`

	// Relationships
	Organizer   *User        `gorm:"foreignKey:OrganizerID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Attendances []Attendance `gorm:"foreignKey:EventID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
