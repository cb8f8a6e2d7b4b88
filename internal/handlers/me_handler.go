package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/coverage"
	"github.com/BruksfildServices01/scoop-dispatch/internal/domain/identity"
	"github.com/BruksfildServices01/scoop-dispatch/internal/httperr"
	"github.com/BruksfildServices01/scoop-dispatch/internal/middleware"
	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

// GetMe echoes the verified caller and, for workers, whether they can use
// the job pool yet.
func (h *MeHandler) GetMe(c *gin.Context) {
	p := middleware.Principal(c)

	resp := gin.H{
		"user": gin.H{
			"id":   p.UserID,
			"role": p.Role,
		},
	}

	if p.Role == identity.RoleEmployee {
		var emp models.Employee
		err := h.db.WithContext(c.Request.Context()).
			Preload("ServiceAreas").
			Where("user_id = ?", p.UserID).
			First(&emp).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			resp["employee"] = nil
		case err != nil:
			httperr.FromError(c, err)
			return
		default:
			onboarded := coverage.CheckEmployee(&emp) == nil
			resp["employee"] = gin.H{
				"id":            emp.ID,
				"name":          emp.Name,
				"status":        emp.Status,
				"payout_method": emp.PayoutMethod,
				"active_areas":  len(coverage.ActiveAreas(&emp)),
				"can_claim":     onboarded,
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}
