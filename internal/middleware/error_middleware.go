package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mbdelmundo/thesisdesk/internal/app/models/dto"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/apperrors"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/logger"
)

// HandleAPIError maps application errors to the uniform error envelope.
// Domain-rule conflicts surface their exact sentinel message so the
// client can show it verbatim.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrInvalidRole),
		errors.Is(err, apperrors.ErrInvalidAdviseeStatus):
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))

	case errors.Is(err, apperrors.ErrInvalidAssertion):
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidAssertion, "Invalid identity assertion")
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))

	case errors.Is(err, apperrors.ErrAssertionExpired):
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeExpiredAssertion, "Identity assertion expired")
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))

	case errors.Is(err, apperrors.ErrMissingEmail):
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeMissingEmail, "Identity assertion carries no email")
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))

	case errors.Is(err, apperrors.ErrSessionNotFound),
		errors.Is(err, apperrors.ErrSessionExpired):
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeSessionExpired, "Session is no longer valid")
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))

	case errors.Is(err, apperrors.ErrUnauthenticated):
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))

	case errors.Is(err, apperrors.ErrPermissionDenied):
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, err.Error())
		c.JSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))

	case errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrAdviseeNotFound),
		errors.Is(err, apperrors.ErrAnnouncementNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(errorDetail))

	case errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrResourceAlreadyExists),
		errors.Is(err, apperrors.ErrConflict):
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error())
		c.JSON(http.StatusConflict, dto.NewErrorResponse(errorDetail))

	case errors.Is(err, apperrors.ErrNotAStudent),
		errors.Is(err, apperrors.ErrActiveAdviserExists),
		errors.Is(err, apperrors.ErrPendingAdviserExists),
		errors.Is(err, apperrors.ErrAdviseeNotPending):
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeDomainRule, err.Error())
		c.JSON(http.StatusConflict, dto.NewErrorResponse(errorDetail))

	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled API error")
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
	}
}
