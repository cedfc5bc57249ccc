package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mbdelmundo/thesisdesk/internal/app/models/dto"
	"github.com/mbdelmundo/thesisdesk/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteUserRefusesSelfDeletion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodDelete, "/api/v1/users/u1", nil)
	c.Params = gin.Params{{Key: "id", Value: "u1"}}
	c.Set(middleware.ContextKeyUserID, "u1")

	// The guard fires before the service is touched
	NewUserController(nil).DeleteUser(c)

	assert.Equal(t, http.StatusConflict, recorder.Code)

	var response dto.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.NotNil(t, response.Error)
	assert.Equal(t, dto.ErrorCodeResourceAlreadyExists, response.Error.Code)
	assert.Equal(t, "cannot delete the signed-in account", response.Error.Message)
}
