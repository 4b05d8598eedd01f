package roster

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// API metadata reported by the version endpoint and the CLI.
const (
	APITitle       = "Roster API"
	APIDescription = "Roster is a template for a versioned user microservice."
	APIVersion     = "1.0.0"
)

// UsersTable is the name of the table holding user records.
const UsersTable = "users"

// User is a persisted user record.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Fullname string `json:"fullname"`
	Nickname string `json:"nickname"`
}

// CreateUser is the payload for creating a user.
type CreateUser struct {
	Name     string `json:"name" validate:"required,max=255"`
	Fullname string `json:"fullname" validate:"required,max=255"`
	Nickname string `json:"nickname" validate:"required,max=255"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that all fields are present and fit the column width.
func (c CreateUser) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validate user: %w: %w", ErrInvalidInput, err)
	}
	return nil
}

// VersionInfo is the body of the version endpoint.
type VersionInfo struct {
	Version string `json:"version"`
}
