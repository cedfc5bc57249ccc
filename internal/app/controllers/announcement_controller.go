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

// AnnouncementController handles the announcements board endpoints
type AnnouncementController struct {
	announcementService *services.AnnouncementService
}

// NewAnnouncementController creates a new AnnouncementController
func NewAnnouncementController(announcementService *services.AnnouncementService) *AnnouncementController {
	return &AnnouncementController{announcementService: announcementService}
}

func (c *AnnouncementController) list(ctx *gin.Context, visibleOnly bool) {
	page, pageSize := helpers.ParsePaginationParams(ctx)

	params := repositories.ListAnnouncementsParams{
		Page:        page,
		PageSize:    pageSize,
		Search:      ctx.Query("search"),
		VisibleOnly: visibleOnly,
	}
	if !visibleOnly {
		if statusStr := ctx.Query("status"); statusStr != "" {
			status := models.AnnouncementStatus(statusStr)
			if !status.Valid() {
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid status filter")
				ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
				return
			}
			params.Status = &status
		}
	}

	announcements, total, err := c.announcementService.List(ctx, params)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := dto.AnnouncementListResponse{
		Items: announcements,
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

// ListAnnouncements retrieves the visible announcements board
// @Summary List visible announcements
// @Description Retrieves a page of VISIBLE announcements that have not passed their expiry, newest first.
// @Tags announcements
// @Produce json
// @Param page query int false "Page number" default(1) minimum(1)
// @Param pageSize query int false "Items per page" default(10) maximum(100)
// @Param search query string false "Substring match over titles"
// @Success 200 {object} dto.APIResponse{data=dto.AnnouncementListResponse} "Announcements page"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /announcements [get]
func (c *AnnouncementController) ListAnnouncements(ctx *gin.Context) {
	c.list(ctx, true)
}

// ListAllAnnouncements retrieves the management view of the board
// @Summary List all announcements
// @Description Retrieves every announcement regardless of status or expiry, with an optional status filter.
// @Tags announcements
// @Produce json
// @Param page query int false "Page number" default(1) minimum(1)
// @Param pageSize query int false "Items per page" default(10) maximum(100)
// @Param search query string false "Substring match over titles"
// @Param status query string false "Status filter" Enums(VISIBLE, HIDDEN)
// @Success 200 {object} dto.APIResponse{data=dto.AnnouncementListResponse} "Announcements page"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /announcements/all [get]
func (c *AnnouncementController) ListAllAnnouncements(ctx *gin.Context) {
	c.list(ctx, false)
}

// GetAnnouncement retrieves one announcement
// @Summary Get announcement details
// @Tags announcements
// @Produce json
// @Param id path string true "Announcement ID"
// @Success 200 {object} dto.APIResponse{data=models.Announcement} "Announcement retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Announcement not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /announcements/{id} [get]
func (c *AnnouncementController) GetAnnouncement(ctx *gin.Context) {
	announcement, err := c.announcementService.GetByID(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      announcement,
		Timestamp: time.Now(),
	})
}

// CreateAnnouncement posts a new announcement
// @Summary Post an announcement
// @Description Posts a notice to the board. Content is the rich-text editor output, stored as an opaque HTML string.
// @Tags announcements
// @Accept json
// @Produce json
// @Param request body dto.AnnouncementRequest true "Announcement"
// @Success 201 {object} dto.APIResponse{data=models.Announcement} "Announcement posted"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /announcements [post]
func (c *AnnouncementController) CreateAnnouncement(ctx *gin.Context) {
	var req dto.AnnouncementRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	announcement, err := c.announcementService.Create(ctx, &req, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Success:   true,
		Data:      announcement,
		Timestamp: time.Now(),
	})
}

// UpdateAnnouncement rewrites an announcement
// @Summary Update an announcement
// @Description Rewrites the title, status, expiry and content. Omitting the expiry clears it.
// @Tags announcements
// @Accept json
// @Produce json
// @Param id path string true "Announcement ID"
// @Param request body dto.AnnouncementRequest true "Updated announcement"
// @Success 200 {object} dto.APIResponse{data=models.Announcement} "Announcement updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Announcement not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /announcements/{id} [put]
func (c *AnnouncementController) UpdateAnnouncement(ctx *gin.Context) {
	var req dto.AnnouncementRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	announcement, err := c.announcementService.Update(ctx, ctx.Param("id"), &req, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      announcement,
		Timestamp: time.Now(),
	})
}

// DeleteAnnouncement removes an announcement
// @Summary Delete an announcement
// @Tags announcements
// @Produce json
// @Param id path string true "Announcement ID"
// @Success 200 {object} dto.APIResponse "Announcement deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Announcement not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /announcements/{id} [delete]
func (c *AnnouncementController) DeleteAnnouncement(ctx *gin.Context) {
	if err := c.announcementService.Delete(ctx, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Announcement deleted"))
}
