package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mbdelmundo/thesisdesk/internal/app/models"
	"github.com/mbdelmundo/thesisdesk/internal/app/models/dto"
	"github.com/mbdelmundo/thesisdesk/internal/app/repositories"
	"github.com/mbdelmundo/thesisdesk/internal/app/services"
	"github.com/mbdelmundo/thesisdesk/internal/middleware"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/helpers"
)

// AdviseeController handles the adviser assignment endpoints
type AdviseeController struct {
	adviseeService *services.AdviseeService
}

// NewAdviseeController creates a new AdviseeController
func NewAdviseeController(adviseeService *services.AdviseeService) *AdviseeController {
	return &AdviseeController{adviseeService: adviseeService}
}

// ListAdvisees retrieves a page of advisee records
// @Summary List advisee records
// @Description Retrieves a paginated advisee listing with adviser, student and committee relations populated. Search matches student and adviser names and the student number.
// @Tags advisees
// @Produce json
// @Param page query int false "Page number" default(1) minimum(1)
// @Param pageSize query int false "Items per page" default(10) maximum(100)
// @Param search query string false "Substring match over names and student number"
// @Param status query string false "Status filter" Enums(PENDING, ACTIVE, INACTIVE)
// @Param adviserId query string false "Only records for this adviser"
// @Param studentId query string false "Only records for this student"
// @Success 200 {object} dto.APIResponse{data=dto.AdviseeListResponse} "Advisee page"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter value"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /advisees [get]
func (c *AdviseeController) ListAdvisees(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)

	params := repositories.ListAdviseesParams{
		Page:      page,
		PageSize:  pageSize,
		Search:    ctx.Query("search"),
		AdviserID: ctx.Query("adviserId"),
		StudentID: ctx.Query("studentId"),
	}
	if statusStr := ctx.Query("status"); statusStr != "" {
		status := models.AdviseeStatus(statusStr)
		if !status.Valid() {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid status filter")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		params.Status = &status
	}

	advisees, total, err := c.adviseeService.List(ctx, params)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := dto.AdviseeListResponse{
		Items: advisees,
		PaginationInfo: dto.PaginationInfo{
			Page:     page,
			PageSize: pageSize,
			Total:    total,
			Pages:    helpers.TotalPages(total, pageSize),
		},
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      response,
		Timestamp: time.Now(),
	})
}

// GetAdvisee retrieves one advisee record
// @Summary Get advisee details
// @Tags advisees
// @Produce json
// @Param id path string true "Advisee record ID"
// @Success 200 {object} dto.APIResponse{data=models.Advisee} "Advisee retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Advisee not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /advisees/{id} [get]
func (c *AdviseeController) GetAdvisee(ctx *gin.Context) {
	advisee, err := c.adviseeService.GetByID(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      advisee,
		Timestamp: time.Now(),
	})
}

// CreateAdvisee opens a new adviser request
// @Summary Open an adviser request
// @Description Opens a PENDING adviser-student relationship. The student must hold the STUDENT role, have no active adviser and no other pending request; each condition has its own conflict message.
// @Tags advisees
// @Accept json
// @Produce json
// @Param request body dto.CreateAdviseeRequest true "Adviser request"
// @Success 201 {object} dto.APIResponse{data=models.Advisee} "Request opened"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Adviser, student or member not found"
// @Failure 409 {object} dto.ErrorResponse "Student unavailable for assignment"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /advisees [post]
func (c *AdviseeController) CreateAdvisee(ctx *gin.Context) {
	var req dto.CreateAdviseeRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	advisee, err := c.adviseeService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Success:   true,
		Data:      advisee,
		Timestamp: time.Now(),
	})
}

// UpdateAdvisee rewrites an advisee record
// @Summary Update an advisee record
// @Description Replaces the adviser, student, status and the entire committee membership set. Memberships not in the request are removed.
// @Tags advisees
// @Accept json
// @Produce json
// @Param id path string true "Advisee record ID"
// @Param request body dto.UpdateAdviseeRequest true "Updated advisee record"
// @Success 200 {object} dto.APIResponse{data=models.Advisee} "Advisee updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Advisee not found"
// @Failure 409 {object} dto.ErrorResponse "Student unavailable for assignment"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /advisees/{id} [put]
func (c *AdviseeController) UpdateAdvisee(ctx *gin.Context) {
	var req dto.UpdateAdviseeRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	advisee, err := c.adviseeService.Update(ctx, ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      advisee,
		Timestamp: time.Now(),
	})
}

// UpdateAdviseeStatus changes only the relationship status
// @Summary Change advisee status
// @Description Moving to ACTIVE accepts a request and requires the record to still be PENDING. Other targets apply directly.
// @Tags advisees
// @Accept json
// @Produce json
// @Param id path string true "Advisee record ID"
// @Param request body dto.UpdateAdviseeStatusRequest true "Target status"
// @Success 200 {object} dto.APIResponse{data=models.Advisee} "Status changed"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Advisee not found"
// @Failure 409 {object} dto.ErrorResponse "Record is not pending"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /advisees/{id}/status [patch]
func (c *AdviseeController) UpdateAdviseeStatus(ctx *gin.Context) {
	var req dto.UpdateAdviseeStatusRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	advisee, err := c.adviseeService.SetStatus(ctx, ctx.Param("id"), req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      advisee,
		Timestamp: time.Now(),
	})
}

// DeleteAdvisee removes an advisee record
// @Summary Delete an advisee record
// @Description Removes the record and its committee memberships.
// @Tags advisees
// @Produce json
// @Param id path string true "Advisee record ID"
// @Success 200 {object} dto.APIResponse "Advisee deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Advisee not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /advisees/{id} [delete]
func (c *AdviseeController) DeleteAdvisee(ctx *gin.Context) {
	if err := c.adviseeService.Delete(ctx, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Advisee deleted"))
}
