// Package store owns the two persisted embedding collections, one Postgres
// pgvector table per entity type. Queries are read-only and safe for
// concurrent callers; index passes must be serialized by the caller.
package store

import (
	"errors"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned by all lookup paths when no document matches.
var ErrNotFound = errors.New("not found")

func NewPg(connStr string) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, err
	}

	for _, extension := range []string{"vector", "postgis"} {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS " + extension).Error; err != nil {
			return nil, err
		}
	}

	return db, nil
}
