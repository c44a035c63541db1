package models

import "gorm.io/gorm"

// Attendance links a user to an event they joined. The composite unique
// index makes repeated joins a constraint violation rather than a
// read-then-write race.
type Attendance struct {
	gorm.Model

	UserID  uint `gorm:"not null;uniqueIndex:idx_user_event"`
	EventID uint `gorm:"not null;uniqueIndex:idx_user_event"`

	// Relationships
	User  User  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Event Event `gorm:"foreignKey:EventID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
