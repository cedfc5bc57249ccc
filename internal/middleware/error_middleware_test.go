package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mbdelmundo/thesisdesk/internal/app/models/dto"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestHandleAPIErrorMappings(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"validation", apperrors.NewValidationError("adviser and student must differ"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"forbidden", apperrors.NewForbiddenError("Access denied"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{"not found", apperrors.NewNotFoundError("adviser account not found"), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"conflict", apperrors.NewConflictError("cannot delete the signed-in account"), http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"invalid role", apperrors.ErrInvalidRole, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"invalid assertion", apperrors.ErrInvalidAssertion, http.StatusUnauthorized, dto.ErrorCodeInvalidAssertion},
		{"expired assertion", apperrors.ErrAssertionExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredAssertion},
		{"missing email", apperrors.ErrMissingEmail, http.StatusUnauthorized, dto.ErrorCodeMissingEmail},
		{"expired session", apperrors.ErrSessionExpired, http.StatusUnauthorized, dto.ErrorCodeSessionExpired},
		{"user not found", apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"advisee not found", apperrors.ErrAdviseeNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"duplicate email", apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"not a student", apperrors.ErrNotAStudent, http.StatusConflict, dto.ErrorCodeDomainRule},
		{"active adviser exists", apperrors.ErrActiveAdviserExists, http.StatusConflict, dto.ErrorCodeDomainRule},
		{"pending adviser exists", apperrors.ErrPendingAdviserExists, http.StatusConflict, dto.ErrorCodeDomainRule},
		{"advisee not pending", apperrors.ErrAdviseeNotPending, http.StatusConflict, dto.ErrorCodeDomainRule},
		{"unknown", errors.New("pool timeout"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, recorder).Error.Code)
		})
	}
}

func TestDomainRuleErrorsSurfaceVerbatim(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, apperrors.ErrActiveAdviserExists)

	response := decodeError(t, recorder)
	assert.Equal(t, "student already has an active adviser", response.Error.Message)
	assert.Equal(t, response.Error.Message, response.Message, "envelope message mirrors the detail")
}

func TestUnknownErrorHidesInternals(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	response := decodeError(t, recorder)
	assert.NotContains(t, response.Error.Message, "10.0.0.5")
}
