package database

import (
	"gorm.io/gorm"

	"github.com/memberbase/member-registry/internal/domain"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Member{},
	)
}
