package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/claiming"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/lifecycle"
	"github.com/BruksfildServices01/scoop-dispatch/internal/dto"
	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
	"github.com/BruksfildServices01/scoop-dispatch/internal/httpresp"
	"github.com/BruksfildServices01/scoop-dispatch/internal/middleware"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
	ucJobpool "github.com/BruksfildServices01/scoop-dispatch/internal/usecase/jobpool"
)

// maxPhotoBytes caps the multipart photo read into memory.
const maxPhotoBytes = 10 << 20

// ======================================================
// HANDLER
// ======================================================

type JobsHandler struct {
	policy claiming.Policy

	available *ucJobpool.ListAvailable
	assigned  *ucJobpool.ListAssigned
	claim     *ucJobpool.ClaimService
	arrive    *ucJobpool.Arrive
	extend    *ucJobpool.ExtendClaim
	start     *ucJobpool.StartWork
	complete  *ucJobpool.CompleteService
	cancel    *ucJobpool.CancelService
}

func NewJobsHandler(
	policy claiming.Policy,
	available *ucJobpool.ListAvailable,
	assigned *ucJobpool.ListAssigned,
	claim *ucJobpool.ClaimService,
	arrive *ucJobpool.Arrive,
	extend *ucJobpool.ExtendClaim,
	start *ucJobpool.StartWork,
	complete *ucJobpool.CompleteService,
	cancel *ucJobpool.CancelService,
) *JobsHandler {
	return &JobsHandler{
		policy:    policy,
		available: available,
		assigned:  assigned,
		claim:     claim,
		arrive:    arrive,
		extend:    extend,
		start:     start,
		complete:  complete,
		cancel:    cancel,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CheckInRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ======================================================
// LIST
// ======================================================

// Available streams the pool; ?open=true limits it to services claimable
// right now.
func (h *JobsHandler) Available(c *gin.Context) {
	userID := middleware.Principal(c).UserID

	list := h.available.Execute
	if c.Query("open") == "true" {
		list = h.available.ClaimableNow
	}

	seq, err := list(c.Request.Context(), userID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	out := []dto.ServiceDTO{}
	for svc, err := range seq {
		if err != nil {
			httperr.FromError(c, err)
			return
		}
		out = append(out, dto.NewServiceDTO(svc, h.policy, false))
	}

	httpresp.List(c, out)
}

func (h *JobsHandler) Mine(c *gin.Context) {
	list, err := h.assigned.Execute(c.Request.Context(), middleware.Principal(c).UserID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, dto.NewServiceDTOs(list, h.policy, true))
}

// ======================================================
// CLAIM
// ======================================================

func (h *JobsHandler) Claim(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	svc, err := h.claim.Execute(c.Request.Context(), middleware.Principal(c).UserID, id)
	h.respond(c, svc, err)
}

func (h *JobsHandler) CheckIn(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CheckInRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "invalid_request", "Invalid request body.")
			return
		}
	}

	in := ucJobpool.ArriveInput{ServiceID: id}
	if req.Lat != nil && req.Lng != nil {
		in.Location = &lifecycle.GeoPoint{Lat: *req.Lat, Lng: *req.Lng}
	}

	svc, err := h.arrive.Execute(c.Request.Context(), middleware.Principal(c).UserID, in)
	h.respond(c, svc, err)
}

func (h *JobsHandler) Extend(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	svc, err := h.extend.Execute(c.Request.Context(), middleware.Principal(c).UserID, id)
	h.respond(c, svc, err)
}

// ======================================================
// WORK
// ======================================================

func (h *JobsHandler) Start(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	svc, err := h.start.Execute(c.Request.Context(), middleware.Principal(c).UserID, id)
	h.respond(c, svc, err)
}

// Complete accepts an optional multipart "photo" field.
func (h *JobsHandler) Complete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	in := ucJobpool.CompleteInput{ServiceID: id}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPhotoBytes)
	fh, err := c.FormFile("photo")
	switch {
	case err == nil:
		f, err := fh.Open()
		if err != nil {
			httperr.BadRequest(c, "invalid_photo", "Could not read photo.")
			return
		}
		defer f.Close()
		in.Photo = f
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		httperr.BadRequest(c, "invalid_photo", "Could not read photo.")
		return
	}

	svc, err := h.complete.Execute(c.Request.Context(), middleware.Principal(c).UserID, in)
	h.respond(c, svc, err)
}

func (h *JobsHandler) Cancel(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "A cancellation reason is required.")
		return
	}

	svc, err := h.cancel.Execute(c.Request.Context(), middleware.Principal(c), ucJobpool.CancelInput{
		ServiceID: id,
		Reason:    req.Reason,
	})
	h.respond(c, svc, err)
}

// ======================================================
// HELPERS
// ======================================================

func (h *JobsHandler) respond(c *gin.Context, svc *models.Service, err error) {
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.NewServiceDTO(*svc, h.policy, true))
}
