package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HTTPError struct {
	Code    string         `json:"error_code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFoundJSON(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// FromError writes err using its business kind. Anything that is not a
// BusinessError is treated as an infrastructure failure.
func FromError(c *gin.Context, err error) {
	be, ok := AsBusiness(err)
	if !ok {
		zap.L().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		Internal(c, "internal_error", "Internal error.")
		return
	}

	status := statusFor(be)
	switch be.Kind {
	case KindContention:
		zap.L().Debug("contention", zap.String("code", be.Code), zap.String("path", c.FullPath()))
	case KindIntegrity, KindExternal:
		zap.L().Warn("business error",
			zap.String("kind", string(be.Kind)),
			zap.String("code", be.Code),
			zap.String("path", c.FullPath()),
			zap.String("message", be.Message),
		)
	}

	c.JSON(status, HTTPError{
		Code:    be.Code,
		Message: be.Message,
		Details: be.Details,
	})
}

func statusFor(be BusinessError) int {
	switch be.Kind {
	case KindContention:
		return http.StatusConflict
	case KindEligibility:
		switch be.Code {
		case CodeOutsideClaimingWindow, CodeOutsideWorkWindow,
			CodeDeadlinePassed, CodeExtensionAlreadyUsed:
			return http.StatusUnprocessableEntity
		}
		return http.StatusForbidden
	case KindIntegrity:
		if be.Code == CodeNotFound {
			return http.StatusNotFound
		}
		return http.StatusConflict
	case KindExternal:
		return http.StatusBadGateway
	case KindValidation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
