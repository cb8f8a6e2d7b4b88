package models

import "time"

type Customer struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"size:64;index" json:"user_id"`

	Name    string `gorm:"size:100;not null" json:"name"`
	Email   string `gorm:"size:100" json:"email"`
	Address string `gorm:"size:255" json:"address"`
	// Empty when unknown; such services cannot be geo-filtered.
	ZipCode string `gorm:"size:10;index" json:"zip_code"`

	ProcessorCustomerID string `gorm:"size:100" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Referral struct {
	ID                 uint   `gorm:"primaryKey" json:"id"`
	ReferrerCustomerID uint   `gorm:"index" json:"referrer_customer_id"`
	ReferredCustomerID uint   `gorm:"index;not null" json:"referred_customer_id"`
	Status             string `gorm:"size:20;not null;default:'ACTIVE'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
