package models

import "time"

type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// USER or SYSTEM.
	Actor  string `gorm:"size:10;not null;default:'USER'" json:"actor"`
	UserID string `gorm:"size:64" json:"user_id"`
	Action string `gorm:"size:50;not null;index" json:"action"`

	Entity   string `gorm:"size:50;index" json:"entity"`
	EntityID *uint  `json:"entity_id"`
	Metadata string `gorm:"type:text" json:"metadata"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
