package user

import "time"

// User is a login account. ERPID links it to an employee record.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	ERPID        int64
	IsActive     bool
	IsSuperuser  bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
