package models

import "time"

type Earning struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ServiceID  uint `gorm:"uniqueIndex;not null" json:"service_id"`
	EmployeeID uint `gorm:"index;not null" json:"employee_id"`

	Amount     int64      `gorm:"not null" json:"amount"`
	ApprovedAt time.Time  `json:"approved_at"`
	ApprovedBy string     `gorm:"size:64;not null" json:"approved_by"`
	PaidVia    string     `gorm:"size:30" json:"paid_via"`
	PaidAt     *time.Time `json:"paid_at"`

	Adjustments []EarningAdjustment `json:"adjustments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type EarningAdjustment struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	EarningID uint   `gorm:"index;not null" json:"earning_id"`
	Amount    int64  `gorm:"not null" json:"amount"`
	Reason    string `gorm:"size:255;not null" json:"reason"`
	CreatedBy string `gorm:"size:64;not null" json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
}
