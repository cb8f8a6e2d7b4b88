package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/earnings"
	"github.com/BruksfildServices01/scoop-dispatch/internal/dto"
	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
	"github.com/BruksfildServices01/scoop-dispatch/internal/httpresp"
	"github.com/BruksfildServices01/scoop-dispatch/internal/middleware"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
	ucEarnings "github.com/BruksfildServices01/scoop-dispatch/internal/usecase/earnings"
)

type EarningsHandler struct {
	loc *time.Location

	approve  *ucEarnings.ApproveServicePayment
	markPaid *ucEarnings.MarkEarningPaid
	adjust   *ucEarnings.AdjustEarning
	list     *ucEarnings.ListEarnings
	compute  *ucEarnings.ComputeServiceEarnings
	generate *ucEarnings.GenerateCycle
}

func NewEarningsHandler(
	loc *time.Location,
	approve *ucEarnings.ApproveServicePayment,
	markPaid *ucEarnings.MarkEarningPaid,
	adjust *ucEarnings.AdjustEarning,
	list *ucEarnings.ListEarnings,
	compute *ucEarnings.ComputeServiceEarnings,
	generate *ucEarnings.GenerateCycle,
) *EarningsHandler {
	return &EarningsHandler{
		loc:      loc,
		approve:  approve,
		markPaid: markPaid,
		adjust:   adjust,
		list:     list,
		compute:  compute,
		generate: generate,
	}
}

// --------- Requests ---------

type AdjustEarningRequest struct {
	// Amount is a signed correction in cents.
	Amount int64  `json:"amount" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

type GenerateCycleRequest struct {
	// FirstDate is RFC3339; the visit time must sit inside the work day.
	FirstDate time.Time `json:"first_date" binding:"required"`
}

type EarningsListResponse struct {
	Data        []dto.EarningDTO `json:"data"`
	Total       string           `json:"total"`
	Paid        string           `json:"paid"`
	Outstanding string           `json:"outstanding"`
}

// --------- Handlers ---------

func (h *EarningsHandler) Approve(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	e, err := h.approve.Execute(c.Request.Context(), id, middleware.Principal(c).UserID)
	h.respond(c, http.StatusCreated, e, err)
}

func (h *EarningsHandler) MarkPaid(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	e, err := h.markPaid.Execute(c.Request.Context(), id, middleware.Principal(c).UserID)
	h.respond(c, http.StatusOK, e, err)
}

func (h *EarningsHandler) Adjust(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req AdjustEarningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Amount and reason are required.")
		return
	}

	e, err := h.adjust.Execute(c.Request.Context(), middleware.Principal(c).UserID, ucEarnings.AdjustInput{
		EarningID: id,
		Amount:    req.Amount,
		Reason:    req.Reason,
	})
	h.respond(c, http.StatusCreated, e, err)
}

// List returns the caller's earnings, optionally bounded by ?from=&to=.
func (h *EarningsHandler) List(c *gin.Context) {
	from, to, ok := dateRange(c, h.loc)
	if !ok {
		return
	}

	list, sum, err := h.list.Execute(c.Request.Context(), middleware.Principal(c).UserID, from, to)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	out := make([]dto.EarningDTO, 0, len(list))
	for _, e := range list {
		out = append(out, dto.NewEarningDTO(e, ucEarnings.Net(e)))
	}

	c.JSON(http.StatusOK, EarningsListResponse{
		Data:        out,
		Total:       earnings.Format(sum.Total),
		Paid:        earnings.Format(sum.Paid),
		Outstanding: earnings.Format(sum.Outstanding),
	})
}

// --------- Subscriptions ---------

// Preview shows what each service of the subscription's next cycle pays.
func (h *EarningsHandler) Preview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	amount, err := h.compute.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"subscription_id": id,
		"per_service":     earnings.Format(amount),
	})
}

func (h *EarningsHandler) GenerateCycle(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req GenerateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "first_date is required.")
		return
	}

	services, err := h.generate.Execute(c.Request.Context(), ucEarnings.GenerateCycleInput{
		SubscriptionID: id,
		FirstDate:      req.FirstDate,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httpresp.ListResponse[models.Service]{
		Data:  services,
		Total: len(services),
	})
}

func (h *EarningsHandler) respond(c *gin.Context, status int, e *models.Earning, err error) {
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(status, dto.NewEarningDTO(*e, ucEarnings.Net(*e)))
}
