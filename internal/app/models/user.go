package models

import (
	"strings"
	"time"
)

// User defines the directory account model based on the 'users' table
type User struct {
	ID              string     `json:"id" db:"id" example:"f1c7f2d0-6f4b-4a52-9c3e-8d1de0a3b1aa"`
	StudentID       *string    `json:"studentId,omitempty" db:"student_id" example:"2021-04567"` // Set only for STUDENT accounts
	StaffID         *string    `json:"staffId,omitempty" db:"staff_id" example:"STF-0192"`       // Set only for STAFF/FACULTY accounts
	FirstName       string     `json:"firstName" db:"first_name" example:"Jane"`
	MiddleName      *string    `json:"middleName,omitempty" db:"middle_name" example:"Reyes"`
	LastName        string     `json:"lastName" db:"last_name" example:"Doe"`
	Email           string     `json:"email" db:"email" example:"jane.doe@univ.edu"` // Unique; join key to the identity provider
	PhoneNumber     *string    `json:"phoneNumber,omitempty" db:"phone_number"`
	Role            Role       `json:"role" db:"role" example:"STUDENT"`
	Image           *string    `json:"image,omitempty" db:"image"` // Profile image URI
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt,omitempty" db:"email_verified_at"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
}

// FullName joins the name parts, skipping an absent middle name.
func (u *User) FullName() string {
	parts := []string{u.FirstName}
	if u.MiddleName != nil && *u.MiddleName != "" {
		parts = append(parts, *u.MiddleName)
	}
	parts = append(parts, u.LastName)
	return strings.Join(parts, " ")
}

// UserSummary is the slim profile embedded in advisee records
type UserSummary struct {
	ID          string  `json:"id"`
	StudentID   *string `json:"studentId,omitempty"`
	FirstName   string  `json:"firstName"`
	MiddleName  *string `json:"middleName,omitempty"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
}

// AccountLink associates a user with one external identity-provider account.
// At most one link exists per (user, provider) pair.
type AccountLink struct {
	ID                string    `json:"id" db:"id"`
	UserID            string    `json:"userId" db:"user_id"`
	Provider          string    `json:"provider" db:"provider"`
	ProviderAccountID string    `json:"providerAccountId" db:"provider_account_id"`
	AccessToken       *string   `json:"-" db:"access_token"`
	IDToken           *string   `json:"-" db:"id_token"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
}

// Session is the server-side record backing the session cookie. The name,
// role and image columns are the provider-supplied snapshot taken at
// sign-in; reads overlay current directory values on top of them.
type Session struct {
	Token      string    `json:"-" db:"token"`
	UserID     string    `json:"userId" db:"user_id"`
	Email      string    `json:"email" db:"email"`
	FirstName  string    `json:"firstName" db:"first_name"`
	MiddleName *string   `json:"middleName,omitempty" db:"middle_name"`
	LastName   string    `json:"lastName" db:"last_name"`
	Role       Role      `json:"role" db:"role"`
	Image      *string   `json:"image,omitempty" db:"image"`
	ExpiresAt  time.Time `json:"expiresAt" db:"expires_at"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
