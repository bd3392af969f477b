// Package testutil builds throwaway stores for package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"astrocrm/internal/models/db_models"
	"astrocrm/pkg/utils"
)

// NewDB opens a private in-memory SQLite database with every table migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(db_models.All()...))
	return db
}

// NewLogger returns a logger whose entries are captured by the returned hook.
func NewLogger() (*logrus.Logger, *test.Hook) {
	return test.NewNullLogger()
}

// SeedAccount inserts an account with the given role and status.
func SeedAccount(t *testing.T, db *gorm.DB, email, role, status string) *db_models.Account {
	t.Helper()

	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)

	acc := &db_models.Account{
		Name:         email,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       status,
		IsApproved:   status == db_models.StatusApproved,
	}
	require.NoError(t, db.Create(acc).Error)
	return acc
}
