package domain

import "time"

// Admin is a back-office reviewer who decides approval and
// verification requests.
type Admin struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
