package dto

import (
	"time"

	"github.com/mbdelmundo/thesisdesk/internal/app/models"
)

// AnnouncementRequest creates or updates a posted notice. Content is
// the rich-text editor output, treated as an opaque HTML string.
type AnnouncementRequest struct {
	Title   string                    `json:"title" binding:"required"`
	Status  models.AnnouncementStatus `json:"status" binding:"required"`
	Expiry  *time.Time                `json:"expiry,omitempty"`
	Content string                    `json:"content"`
}

// AnnouncementListResponse is the paginated announcements board
type AnnouncementListResponse struct {
	Items []models.Announcement `json:"items"`
	PaginationInfo
}
