package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/zevliandragovets/EcoBankWebsite/internal/database"
	"github.com/zevliandragovets/EcoBankWebsite/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory sqlite database for one test and runs
// the full migration. The database is named after the test so parallel tests
// never share state.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	// A single connection keeps every session on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string) *model.User {
	t.Helper()

	user := &model.User{
		Name:     "Test " + role,
		Email:    email,
		Password: "$2a$10$not.a.real.hash.for.tests.only",
		Phone:    "081234567890",
		Address:  "Jl. Test No. 1",
		Role:     role,
		Balance:  decimal.Zero,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user %s: %v", email, err)
	}
	return user
}

func createTestCategory(t *testing.T, db *gorm.DB, name string) *model.Category {
	t.Helper()

	category := &model.Category{Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category %s: %v", name, err)
	}
	return category
}

func createTestWasteItem(t *testing.T, db *gorm.DB, categoryID uuid.UUID, name string, price float64, active bool) *model.WasteItem {
	t.Helper()

	item := &model.WasteItem{
		Name:       name,
		Price:      decimal.NewFromFloat(price).Round(2),
		Unit:       "Kg",
		CategoryID: categoryID,
		IsActive:   active,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test waste item %s: %v", name, err)
	}
	return item
}
