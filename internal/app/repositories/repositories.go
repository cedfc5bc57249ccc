package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles every repository for dependency wiring
type Repositories struct {
	User         *UserRepository
	Account      *AccountRepository
	Session      *SessionRepository
	Advisee      *AdviseeRepository
	Announcement *AnnouncementRepository
}

// NewRepositories creates the repository container over one pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Account:      NewAccountRepository(db),
		Session:      NewSessionRepository(db),
		Advisee:      NewAdviseeRepository(db),
		Announcement: NewAnnouncementRepository(db),
	}
}
