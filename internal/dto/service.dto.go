package dto

import (
	"time"

	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/claiming"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/earnings"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

// ServiceDTO is what workers and customers see of a Service. The customer's
// address is only exposed to the current holder.
type ServiceDTO struct {
	ID            uint      `json:"id"`
	Status        string    `json:"status"`
	ScheduledDate time.Time `json:"scheduled_date"`

	CustomerName string `json:"customer_name"`
	ZipCode      string `json:"zip_code"`
	Address      string `json:"address,omitempty"`

	EmployeeID      *uint      `json:"employee_id"`
	ClaimedAt       *time.Time `json:"claimed_at,omitempty"`
	ArrivalDeadline *time.Time `json:"arrival_deadline,omitempty"`
	ExtensionUsed   bool       `json:"extension_used"`
	ArrivedAt       *time.Time `json:"arrived_at,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`

	PotentialEarnings string `json:"potential_earnings"`
	PaymentStatus     string `json:"payment_status"`

	Window claiming.Window `json:"window"`
}

func NewServiceDTO(svc models.Service, policy claiming.Policy, holder bool) ServiceDTO {
	out := ServiceDTO{
		ID:                svc.ID,
		Status:            svc.Status,
		ScheduledDate:     svc.ScheduledDate.In(policy.Location),
		CustomerName:      svc.Customer.Name,
		ZipCode:           svc.Customer.ZipCode,
		EmployeeID:        svc.EmployeeID,
		ClaimedAt:         svc.ClaimedAt,
		ArrivalDeadline:   svc.ArrivalDeadline,
		ExtensionUsed:     svc.ExtensionUsed,
		ArrivedAt:         svc.ArrivedAt,
		StartedAt:         svc.StartedAt,
		CompletedAt:       svc.CompletedAt,
		CancelledAt:       svc.CancelledAt,
		PotentialEarnings: earnings.Format(svc.PotentialEarnings),
		PaymentStatus:     svc.PaymentStatus,
		Window:            policy.AdmissibleWindow(svc.ScheduledDate),
	}
	if holder {
		out.Address = svc.Customer.Address
	}
	return out
}

func NewServiceDTOs(list []models.Service, policy claiming.Policy, holder bool) []ServiceDTO {
	out := make([]ServiceDTO, 0, len(list))
	for _, svc := range list {
		out = append(out, NewServiceDTO(svc, policy, holder))
	}
	return out
}

type AdjustmentDTO struct {
	ID        uint      `json:"id"`
	Amount    string    `json:"amount"`
	Reason    string    `json:"reason"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type EarningDTO struct {
	ID          uint            `json:"id"`
	ServiceID   uint            `json:"service_id"`
	Amount      string          `json:"amount"`
	Net         string          `json:"net"`
	PaidVia     string          `json:"paid_via"`
	ApprovedAt  time.Time       `json:"approved_at"`
	PaidAt      *time.Time      `json:"paid_at"`
	Adjustments []AdjustmentDTO `json:"adjustments"`
}

func NewEarningDTO(e models.Earning, net int64) EarningDTO {
	adj := make([]AdjustmentDTO, 0, len(e.Adjustments))
	for _, a := range e.Adjustments {
		adj = append(adj, AdjustmentDTO{
			ID:        a.ID,
			Amount:    earnings.Format(a.Amount),
			Reason:    a.Reason,
			CreatedBy: a.CreatedBy,
			CreatedAt: a.CreatedAt,
		})
	}
	return EarningDTO{
		ID:          e.ID,
		ServiceID:   e.ServiceID,
		Amount:      earnings.Format(e.Amount),
		Net:         earnings.Format(net),
		PaidVia:     e.PaidVia,
		ApprovedAt:  e.ApprovedAt,
		PaidAt:      e.PaidAt,
		Adjustments: adj,
	}
}
