package models

// Role defines the account role stored in the directory
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleStaff   Role = "STAFF"
	RoleFaculty Role = "FACULTY"
	RoleAdmin   Role = "ADMIN"
)

// Valid reports whether the role is one of the known directory roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleStaff, RoleFaculty, RoleAdmin:
		return true
	}
	return false
}

// AdviseeStatus is the state of an adviser-student relationship
type AdviseeStatus string

const (
	AdviseePending  AdviseeStatus = "PENDING"
	AdviseeActive   AdviseeStatus = "ACTIVE"
	AdviseeInactive AdviseeStatus = "INACTIVE"
)

// Valid reports whether the status is a known advisee status.
func (s AdviseeStatus) Valid() bool {
	switch s {
	case AdviseePending, AdviseeActive, AdviseeInactive:
		return true
	}
	return false
}

// AnnouncementStatus controls visibility of a posted notice
type AnnouncementStatus string

const (
	AnnouncementVisible AnnouncementStatus = "VISIBLE"
	AnnouncementHidden  AnnouncementStatus = "HIDDEN"
)

// Valid reports whether the status is a known announcement status.
func (s AnnouncementStatus) Valid() bool {
	return s == AnnouncementVisible || s == AnnouncementHidden
}
