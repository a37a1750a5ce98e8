package service

import (
	"context"
	"errors"
	"testing"

	"github.com/zevliandragovets/EcoBankWebsite/internal/model"
	"github.com/zevliandragovets/EcoBankWebsite/internal/repository"

	"gorm.io/gorm"
)

func newStatisticsService(db *gorm.DB) StatisticsService {
	return NewStatisticsService(
		db,
		repository.NewUserRepository(db),
		repository.NewWasteItemRepository(db),
		repository.NewTransactionRepository(db),
	)
}

func TestDashboard(t *testing.T) {
	db := setupTestDB(t)
	statsSvc := newStatisticsService(db)
	txSvc, txRepo := newTransactionService(db)

	admin := createTestUser(t, db, "admin@example.com", model.RoleAdmin)
	member := createTestUser(t, db, "member@example.com", model.RoleUser)
	category := createTestCategory(t, db, "Plastik")
	item := createTestWasteItem(t, db, category.ID, "Plastik PET", 3000, true)
	createTestWasteItem(t, db, category.ID, "Retired", 1000, false)

	submit := func(t *testing.T) *model.Transaction {
		t.Helper()
		txn, err := txSvc.Create(context.Background(), member.ID, CreateTransactionRequest{
			Items: []TransactionLineRequest{{WasteItemID: item.ID.String(), Weight: 2, Price: 3000}},
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		return txn
	}

	submit(t) // stays PENDING
	completed := submit(t)
	for _, status := range []string{model.StatusApproved, model.StatusCompleted} {
		if _, err := txSvc.Transition(context.Background(), completed.ID.String(), admin.ID, model.RoleAdmin, status); err != nil {
			t.Fatalf("transition to %s failed: %v", status, err)
		}
	}

	stats, err := statsSvc.Dashboard(context.Background(), admin.ID, model.RoleAdmin)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}

	if stats.TotalUsers != 2 {
		t.Errorf("total users = %d, want 2", stats.TotalUsers)
	}
	if stats.ActiveWasteItems != 1 {
		t.Errorf("active waste items = %d, want 1", stats.ActiveWasteItems)
	}
	if stats.TransactionsByStatus[model.StatusPending] != 1 {
		t.Errorf("pending = %d, want 1", stats.TransactionsByStatus[model.StatusPending])
	}
	if stats.TransactionsByStatus[model.StatusCompleted] != 1 {
		t.Errorf("completed = %d, want 1", stats.TransactionsByStatus[model.StatusCompleted])
	}
	// Only the completed sale counts toward the payout totals.
	if stats.CompletedAmount != "6000.00" {
		t.Errorf("completed amount = %s, want 6000.00", stats.CompletedAmount)
	}
	if stats.CompletedWeight != "2.00" {
		t.Errorf("completed weight = %s, want 2.00", stats.CompletedWeight)
	}

	// Sanity check the repo-level counter used by the dashboard.
	count, err := txRepo.CountByStatus(context.Background(), model.StatusApproved)
	if err != nil || count != 0 {
		t.Errorf("approved count = %d err = %v, want 0", count, err)
	}
}

func TestDashboardRequiresAdmin(t *testing.T) {
	db := setupTestDB(t)
	svc := newStatisticsService(db)
	member := createTestUser(t, db, "member@example.com", model.RoleUser)

	if _, err := svc.Dashboard(context.Background(), member.ID, model.RoleUser); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
