package models

import "time"

type Subscription struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	CustomerID    uint   `gorm:"index;not null" json:"customer_id"`
	ServicePlanID uint   `json:"service_plan_id"`
	Status        string `gorm:"size:20;not null;default:'ACTIVE'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Payment struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	SubscriptionID uint `gorm:"index;not null" json:"subscription_id"`
	CustomerID     uint `gorm:"index;not null" json:"customer_id"`

	// Minor units.
	Amount       int64  `gorm:"not null" json:"amount"`
	ProcessorFee int64  `gorm:"not null;default:0" json:"processor_fee"`
	Currency     string `gorm:"size:3;default:'USD'" json:"currency"`

	Status            string `gorm:"size:20;index;not null;default:'PENDING'" json:"status"`
	ProcessorIntentID string `gorm:"size:100;index" json:"processor_intent_id"`

	PaidAt   *time.Time `json:"paid_at"`
	FailedAt *time.Time `json:"failed_at"`

	Retries []PaymentRetry `json:"retries,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PaymentRetry struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	PaymentID uint `gorm:"uniqueIndex:idx_retry_payment_count;not null" json:"payment_id"`

	RetryCount        int        `gorm:"uniqueIndex:idx_retry_payment_count;not null" json:"retry_count"`
	Status            string     `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	NextRetryDate     *time.Time `json:"next_retry_date"`
	ProcessorIntentID string     `gorm:"size:100" json:"processor_intent_id"`
	LastError         string     `gorm:"size:500" json:"last_error,omitempty"`
	RequestedBy       string     `gorm:"size:64" json:"requested_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
