package repositories

import "friendgift/internal/models"

// UserRepository defines the interface for credential storage.
type UserRepository interface {
	// Create persists a new user. It returns errs.ErrAlreadyExists when the
	// username is taken.
	Create(user *models.User) error
	// GetByUsername returns errs.ErrNotFound for unknown usernames.
	GetByUsername(username string) (*models.User, error)
}
