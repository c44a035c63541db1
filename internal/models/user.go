package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Identity providers a user record can originate from. An empty
// Provider means the account was registered with a password.
const (
	ProviderGoogle   = "google"
	ProviderLinkedIn = "linkedin"
	ProviderEntraID  = "entraid"
)

type User struct {
	gorm.Model

	Name         string `gorm:"not null"`
	Email        string `gorm:"index"`
	Picture      string
	PasswordHash string

	// OAuth identity. Subject is the provider's stable subject claim,
	// unique per provider. Claims keeps the raw userinfo payload.
	Provider string `gorm:"uniqueIndex:idx_provider_subject"`
	Subject  string `gorm:"uniqueIndex:idx_provider_subject"`
	Claims   datatypes.JSON

	// Relationships
	Attendances     []Attendance `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	OrganizedEvents []Event      `gorm:"foreignKey:OrganizerID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
