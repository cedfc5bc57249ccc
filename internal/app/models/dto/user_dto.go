package dto

import (
	"time"

	"github.com/mbdelmundo/thesisdesk/internal/app/models"
)

// CreateUserRequest represents an administrative account creation
type CreateUserRequest struct {
	FirstName string      `json:"firstName" binding:"required"`
	LastName  string      `json:"lastName" binding:"required"`
	Email     string      `json:"email" binding:"required,email"`
	Role      models.Role `json:"role" binding:"required"`
	Image     string      `json:"image,omitempty"`
}

// UpdateUserRequest represents an administrative account update. Blank
// optional fields clear the stored value rather than preserving it.
type UpdateUserRequest struct {
	StudentID   string `json:"studentId,omitempty"`
	StaffID     string `json:"staffId,omitempty"`
	FirstName   string `json:"firstName" binding:"required"`
	MiddleName  string `json:"middleName,omitempty"`
	LastName    string `json:"lastName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// UserListItem is one row of the directory listing
type UserListItem struct {
	ID          string      `json:"id"`
	StudentID   string      `json:"studentId"`
	StaffID     string      `json:"staffId"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Email       string      `json:"email"`
	PhoneNumber string      `json:"phoneNumber"`
	Role        models.Role `json:"role"`
	CreatedAt   time.Time   `json:"createdAt"`
	// Active reports whether the account holds an unexpired session
	Active bool `json:"active"`
}

// UserListResponse is the paginated directory listing
type UserListResponse struct {
	Items []UserListItem `json:"items"`
	PaginationInfo
}

// UserOption is a directory entry shaped for selection widgets
type UserOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
