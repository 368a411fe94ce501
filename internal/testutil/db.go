// Package testutil - общие хелперы для тестов пакетов internal/...
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"proconnect_backend/database"
	"proconnect_backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

// NewTestDB - отдельная in-memory SQLite база на каждый тест, со всеми миграциями.
// Одно соединение: транзакции и запросы вне них не блокируют друг друга.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbCounter.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateAccount создает одобренный аккаунт с профилем и набором ролей
func CreateAccount(t *testing.T, db *gorm.DB, id string, roles ...models.Role) *models.Account {
	t.Helper()

	account := &models.Account{
		ID:             id,
		Email:          strings.ToLower(id) + "@example.com",
		DisplayName:    "User " + id,
		ApprovalStatus: models.ApprovalStatusApproved,
	}
	require.NoError(t, db.Omit("Profile", "Roles", "ProfessionalProfile", "JobSeekerProfile",
		"EmployerProfile", "BusinessOwnerProfile", "InvestorProfile", "Applications").Create(account).Error)

	profile := &models.Profile{UserID: id, FirstName: "First " + id, LastName: "Last " + id}
	require.NoError(t, db.Create(profile).Error)

	roleSet := models.NewRoleSet(id, roles...)
	require.NoError(t, db.Create(roleSet).Error)

	account.Profile = profile
	account.Roles = roleSet
	return account
}
