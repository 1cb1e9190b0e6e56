package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/memberbase/member-registry/internal/domain"
	"github.com/memberbase/member-registry/internal/repository"
	"github.com/memberbase/member-registry/internal/security"
)

// SeedAdmin creates the bootstrap login if the username is still free.
// Existing users are left untouched so re-running the seed is safe.
func SeedAdmin(db *gorm.DB, username, password, displayName string) error {
	if username == "" || password == "" {
		return fmt.Errorf("seed admin: username and password are required")
	}
	if displayName == "" {
		displayName = "Administrator"
	}

	users := repository.NewGormUserRepository(db)
	if _, err := users.FindByUsername(username); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return err
	}
	return users.Create(&domain.User{
		Username:    username,
		Password:    hash,
		DisplayName: displayName,
	})
}
