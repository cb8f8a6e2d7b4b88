package models

import "time"

type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerID uint     `gorm:"index;not null" json:"customer_id"`
	Customer   Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"customer"`

	SubscriptionID uint `gorm:"index" json:"subscription_id"`
	ServicePlanID  uint `json:"service_plan_id"`

	// Set only while claimed or being worked, kept after completion.
	EmployeeID *uint `gorm:"index" json:"employee_id"`

	Status        string    `gorm:"size:20;index;not null;default:'PENDING'" json:"status"`
	ScheduledDate time.Time `gorm:"index;not null" json:"scheduled_date"`

	ClaimedAt       *time.Time `json:"claimed_at"`
	ArrivalDeadline *time.Time `json:"arrival_deadline"`
	ExtensionUsed   bool       `gorm:"default:false" json:"extension_used"`
	ArrivedAt       *time.Time `json:"arrived_at"`
	ArrivalLat      *float64   `json:"arrival_lat,omitempty"`
	ArrivalLng      *float64   `json:"arrival_lng,omitempty"`
	StartedAt       *time.Time `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	CancelledAt     *time.Time `json:"cancelled_at"`

	PotentialEarnings  int64  `gorm:"not null;default:0" json:"potential_earnings"`
	PaymentStatus      string `gorm:"size:20;not null;default:'PENDING'" json:"payment_status"`
	CancellationReason string `gorm:"size:255" json:"cancellation_reason,omitempty"`
	CompletionPhotoKey string `gorm:"size:255" json:"completion_photo_key,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ServiceClaim is one claim attempt on a Service. Outcome is terminal once it
// leaves ACTIVE.
type ServiceClaim struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ServiceID  uint `gorm:"index;not null" json:"service_id"`
	EmployeeID uint `gorm:"index;not null" json:"employee_id"`

	ClaimedAt       time.Time  `json:"claimed_at"`
	ArrivalDeadline time.Time  `json:"arrival_deadline"`
	Extended        bool       `json:"extended"`
	Outcome         string     `gorm:"size:20;index;not null;default:'ACTIVE'" json:"outcome"`
	ClosedAt        *time.Time `json:"closed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
