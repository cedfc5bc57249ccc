package models

import "time"

// Announcement is a posted notice. Content is the rich-text editor
// output and is stored as an opaque HTML blob.
type Announcement struct {
	ID        string             `json:"id" db:"id"`
	Title     string             `json:"title" db:"title" example:"Thesis defense schedule"`
	Status    AnnouncementStatus `json:"status" db:"status" example:"VISIBLE"`
	Expiry    *time.Time         `json:"expiry,omitempty" db:"expiry"`
	Content   string             `json:"content" db:"content"`
	CreatedBy *string            `json:"createdBy,omitempty" db:"created_by"` // Nil once the author account is deleted
	UpdatedBy *string            `json:"updatedBy,omitempty" db:"updated_by"`
	CreatedAt time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" db:"updated_at"`
}
