package models

import "time"

// Advisee links one adviser (FACULTY or STAFF) to one student, plus any
// number of additional committee members.
type Advisee struct {
	ID        string          `json:"id" db:"id"`
	AdviserID string          `json:"adviserId" db:"adviser_id"`
	StudentID string          `json:"studentId" db:"student_id"`
	Status    AdviseeStatus   `json:"status" db:"status" example:"PENDING"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
	Adviser   *UserSummary    `json:"adviser,omitempty"` // Relation, no db tag
	Student   *UserSummary    `json:"student,omitempty"` // Relation, no db tag
	Members   []AdviseeMember `json:"members,omitempty"` // Relation, no db tag
}

// AdviseeMember is one committee membership row on an advisee record
type AdviseeMember struct {
	ID        string       `json:"id" db:"id"`
	AdviseeID string       `json:"adviseeId" db:"advisee_id"`
	MemberID  string       `json:"memberId" db:"member_id"`
	Member    *UserSummary `json:"member,omitempty"` // Relation, no db tag
}
