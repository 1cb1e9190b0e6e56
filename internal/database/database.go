package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/memberbase/member-registry/internal/config"
)

// Open connects to the postgres backend. TranslateError is on so unique
// violations surface as gorm.ErrDuplicatedKey and the repositories can map
// them to conflict errors.
func Open(cfg *config.Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
}
