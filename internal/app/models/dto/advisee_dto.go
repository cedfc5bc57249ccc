package dto

import "github.com/mbdelmundo/thesisdesk/internal/app/models"

// CreateAdviseeRequest opens an adviser-student relationship request
type CreateAdviseeRequest struct {
	AdviserID string   `json:"adviserId" binding:"required"`
	StudentID string   `json:"studentId" binding:"required"`
	MemberIDs []string `json:"memberIds,omitempty"`
}

// UpdateAdviseeRequest replaces all scalar fields and the whole
// committee membership set of an advisee record.
type UpdateAdviseeRequest struct {
	AdviserID string               `json:"adviserId" binding:"required"`
	StudentID string               `json:"studentId" binding:"required"`
	Status    models.AdviseeStatus `json:"status" binding:"required"`
	MemberIDs []string             `json:"memberIds"`
}

// UpdateAdviseeStatusRequest changes only the relationship status
type UpdateAdviseeStatusRequest struct {
	Status models.AdviseeStatus `json:"status" binding:"required"`
}

// AdviseeListResponse is the paginated adviser-scoped listing
type AdviseeListResponse struct {
	Items []models.Advisee `json:"items"`
	PaginationInfo
}
