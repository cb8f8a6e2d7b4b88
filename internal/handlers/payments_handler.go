package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
	"github.com/BruksfildServices01/scoop-dispatch/internal/httpresp"
	"github.com/BruksfildServices01/scoop-dispatch/internal/middleware"
	ucPayment "github.com/BruksfildServices01/scoop-dispatch/internal/usecase/payment"
)

type PaymentsHandler struct {
	loc       *time.Location
	retry     *ucPayment.RetryPayment
	reconcile *ucPayment.Reconcile
}

func NewPaymentsHandler(
	loc *time.Location,
	retry *ucPayment.RetryPayment,
	reconcile *ucPayment.Reconcile,
) *PaymentsHandler {
	return &PaymentsHandler{loc: loc, retry: retry, reconcile: reconcile}
}

type ReconcileRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

func (h *PaymentsHandler) Retry(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	res, err := h.retry.Execute(c.Request.Context(), middleware.Principal(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// Reconcile checks payments created between start_date and end_date, both
// inclusive calendar days.
func (h *PaymentsHandler) Reconcile(c *gin.Context) {
	var req ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "start_date and end_date are required.")
		return
	}

	start, err := time.ParseInLocation(dateLayout, req.StartDate, h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid start_date.")
		return
	}
	end, err := time.ParseInLocation(dateLayout, req.EndDate, h.loc)
	if err != nil || end.Before(start) {
		httperr.BadRequest(c, "invalid_date", "Invalid end_date.")
		return
	}

	report, err := h.reconcile.Execute(c.Request.Context(), start, end.AddDate(0, 0, 1))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, report)
}
