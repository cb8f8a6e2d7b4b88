package models

import "time"

type Employee struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"size:64;uniqueIndex;not null" json:"user_id"`

	Name   string `gorm:"size:100;not null" json:"name"`
	Status string `gorm:"size:20;not null;default:'ACTIVE'" json:"status"`

	// Where approved earnings are sent: STRIPE_CONNECT, BANK_TRANSFER, CHECK.
	PayoutMethod string `gorm:"size:30;default:'BANK_TRANSFER'" json:"payout_method"`

	ServiceAreas []ServiceArea `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"service_areas"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ServiceArea struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	EmployeeID uint   `gorm:"index;not null" json:"employee_id"`
	ZipCode    string `gorm:"size:10;not null" json:"zip_code"`
	// Miles around ZipCode, zero means exact zip only.
	Radius float64 `gorm:"default:0" json:"radius"`
	Active bool    `gorm:"not null" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ZipCoordinate anchors a postal code for radius checks.
type ZipCoordinate struct {
	ZipCode   string  `gorm:"primaryKey;size:10" json:"zip_code"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
