package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
	"github.com/BruksfildServices01/scoop-dispatch/internal/httpresp"
	"github.com/BruksfildServices01/scoop-dispatch/internal/middleware"
	ucJobpool "github.com/BruksfildServices01/scoop-dispatch/internal/usecase/jobpool"
)

type ServiceAreasHandler struct {
	areas *ucJobpool.ServiceAreas
}

func NewServiceAreasHandler(areas *ucJobpool.ServiceAreas) *ServiceAreasHandler {
	return &ServiceAreasHandler{areas: areas}
}

type ReplaceServiceAreasRequest struct {
	Areas []ucJobpool.AreaInput `json:"areas"`
}

func (h *ServiceAreasHandler) Get(c *gin.Context) {
	areas, err := h.areas.Get(c.Request.Context(), middleware.Principal(c).UserID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, areas)
}

// Update replaces the whole set; an empty list takes the worker off the
// pool until areas are added again.
func (h *ServiceAreasHandler) Update(c *gin.Context) {
	var req ReplaceServiceAreasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	areas, err := h.areas.Replace(c.Request.Context(), middleware.Principal(c).UserID, req.Areas)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, areas)
}
