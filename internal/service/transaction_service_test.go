package service

import (
	"context"
	"errors"
	"testing"

	"github.com/zevliandragovets/EcoBankWebsite/internal/model"
	"github.com/zevliandragovets/EcoBankWebsite/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newTransactionService(db *gorm.DB) (TransactionService, repository.TransactionRepository) {
	txRepo := repository.NewTransactionRepository(db)
	svc := NewTransactionService(
		txRepo,
		repository.NewWasteItemRepository(db),
		repository.NewAuditRepository(db),
		repository.NewTransactionManager(db),
		nil,
	)
	return svc, txRepo
}

func countAuditRows(t *testing.T, db *gorm.DB, action string) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&model.AuditLog{}).Where("action = ?", action).Count(&count).Error; err != nil {
		t.Fatalf("failed to count audit rows: %v", err)
	}
	return count
}

func TestTransactionCreate(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTransactionService(db)

	member := createTestUser(t, db, "member@example.com", model.RoleUser)
	category := createTestCategory(t, db, "Plastik")
	pet := createTestWasteItem(t, db, category.ID, "Plastik PET", 3000, true)
	kardus := createTestWasteItem(t, db, category.ID, "Kardus", 1500, true)

	req := CreateTransactionRequest{Items: []TransactionLineRequest{
		{WasteItemID: pet.ID.String(), Weight: 2.5, Price: 3000},
		{WasteItemID: kardus.ID.String(), Weight: 4, Price: 1500},
	}}

	txn, err := svc.Create(context.Background(), member.ID, req)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if txn.Status != model.StatusPending {
		t.Errorf("status = %s, want PENDING", txn.Status)
	}
	if txn.UserID != member.ID {
		t.Errorf("owner = %s, want %s", txn.UserID, member.ID)
	}
	if s := txn.TotalAmount.StringFixed(2); s != "13500.00" {
		t.Errorf("total amount = %s, want 13500.00", s)
	}
	if s := txn.TotalWeight.StringFixed(2); s != "6.50" {
		t.Errorf("total weight = %s, want 6.50", s)
	}
	if len(txn.Items) != 2 {
		t.Errorf("got %d items, want 2", len(txn.Items))
	}
	if got := countAuditRows(t, db, model.ActionCreateTransaction); got != 1 {
		t.Errorf("audit rows = %d, want 1", got)
	}
}

func TestTransactionCreateRequiresCaller(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTransactionService(db)

	_, err := svc.Create(context.Background(), uuid.Nil, CreateTransactionRequest{})
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestTransactionCreateRejectsInactiveItem(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTransactionService(db)

	member := createTestUser(t, db, "member@example.com", model.RoleUser)
	category := createTestCategory(t, db, "Plastik")
	retired := createTestWasteItem(t, db, category.ID, "Plastik Retired", 2000, false)

	req := CreateTransactionRequest{Items: []TransactionLineRequest{
		{WasteItemID: retired.ID.String(), Weight: 1, Price: 2000},
	}}

	_, err := svc.Create(context.Background(), member.ID, req)
	var unknownErr *UnknownItemsError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownItemsError for inactive item, got %v", err)
	}
}

func TestTransactionCreateLeavesNothingOnFailure(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTransactionService(db)

	member := createTestUser(t, db, "member@example.com", model.RoleUser)
	category := createTestCategory(t, db, "Plastik")
	pet := createTestWasteItem(t, db, category.ID, "Plastik PET", 3000, true)

	req := CreateTransactionRequest{Items: []TransactionLineRequest{
		{WasteItemID: pet.ID.String(), Weight: 1, Price: 2500}, // stale price
	}}

	_, err := svc.Create(context.Background(), member.ID, req)
	var priceErr *PriceMismatchError
	if !errors.As(err, &priceErr) {
		t.Fatalf("expected PriceMismatchError, got %v", err)
	}

	var txCount, itemCount int64
	db.Model(&model.Transaction{}).Count(&txCount)
	db.Model(&model.TransactionItem{}).Count(&itemCount)
	if txCount != 0 || itemCount != 0 {
		t.Errorf("found %d transactions and %d items after failed create, want none", txCount, itemCount)
	}
}

func TestTransactionGetOwnership(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTransactionService(db)

	admin := createTestUser(t, db, "admin@example.com", model.RoleAdmin)
	owner := createTestUser(t, db, "owner@example.com", model.RoleUser)
	stranger := createTestUser(t, db, "stranger@example.com", model.RoleUser)
	category := createTestCategory(t, db, "Kertas")
	item := createTestWasteItem(t, db, category.ID, "Kardus", 1500, true)

	txn, err := svc.Create(context.Background(), owner.ID, CreateTransactionRequest{
		Items: []TransactionLineRequest{{WasteItemID: item.ID.String(), Weight: 2, Price: 1500}},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("owner sees own", func(t *testing.T) {
		got, err := svc.Get(context.Background(), txn.ID.String(), owner.ID, model.RoleUser)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.ID != txn.ID {
			t.Errorf("got %s, want %s", got.ID, txn.ID)
		}
	})

	t.Run("stranger gets not found", func(t *testing.T) {
		// Existence must not leak, so this is not-found rather than forbidden.
		_, err := svc.Get(context.Background(), txn.ID.String(), stranger.ID, model.RoleUser)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("admin sees any", func(t *testing.T) {
		got, err := svc.Get(context.Background(), txn.ID.String(), admin.ID, model.RoleAdmin)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.ID != txn.ID {
			t.Errorf("got %s, want %s", got.ID, txn.ID)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := svc.Get(context.Background(), "not-a-uuid", owner.ID, model.RoleUser)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestTransactionListScoping(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTransactionService(db)

	admin := createTestUser(t, db, "admin@example.com", model.RoleAdmin)
	alice := createTestUser(t, db, "alice@example.com", model.RoleUser)
	bob := createTestUser(t, db, "bob@example.com", model.RoleUser)
	category := createTestCategory(t, db, "Logam")
	item := createTestWasteItem(t, db, category.ID, "Besi", 4000, true)

	for _, owner := range []uuid.UUID{alice.ID, alice.ID, bob.ID} {
		_, err := svc.Create(context.Background(), owner, CreateTransactionRequest{
			Items: []TransactionLineRequest{{WasteItemID: item.ID.String(), Weight: 1, Price: 4000}},
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	adminList, err := svc.List(context.Background(), admin.ID, model.RoleAdmin)
	if err != nil {
		t.Fatalf("admin List failed: %v", err)
	}
	if len(adminList) != 3 {
		t.Errorf("admin sees %d transactions, want 3", len(adminList))
	}

	aliceList, err := svc.List(context.Background(), alice.ID, model.RoleUser)
	if err != nil {
		t.Fatalf("member List failed: %v", err)
	}
	if len(aliceList) != 2 {
		t.Errorf("alice sees %d transactions, want 2", len(aliceList))
	}
	for _, txn := range aliceList {
		if txn.UserID != alice.ID {
			t.Errorf("alice's list contains transaction owned by %s", txn.UserID)
		}
	}
}

func TestTransactionTransition(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTransactionService(db)

	admin := createTestUser(t, db, "admin@example.com", model.RoleAdmin)
	member := createTestUser(t, db, "member@example.com", model.RoleUser)
	category := createTestCategory(t, db, "Plastik")
	item := createTestWasteItem(t, db, category.ID, "Plastik PET", 3000, true)

	create := func(t *testing.T) *model.Transaction {
		t.Helper()
		txn, err := svc.Create(context.Background(), member.ID, CreateTransactionRequest{
			Items: []TransactionLineRequest{{WasteItemID: item.ID.String(), Weight: 1, Price: 3000}},
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		return txn
	}

	t.Run("member cannot transition", func(t *testing.T) {
		txn := create(t)
		_, err := svc.Transition(context.Background(), txn.ID.String(), member.ID, model.RoleUser, model.StatusApproved)
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("full approval path", func(t *testing.T) {
		txn := create(t)

		approved, err := svc.Transition(context.Background(), txn.ID.String(), admin.ID, model.RoleAdmin, model.StatusApproved)
		if err != nil {
			t.Fatalf("approve failed: %v", err)
		}
		if approved.Status != model.StatusApproved {
			t.Errorf("status = %s, want APPROVED", approved.Status)
		}

		completed, err := svc.Transition(context.Background(), txn.ID.String(), admin.ID, model.RoleAdmin, model.StatusCompleted)
		if err != nil {
			t.Fatalf("complete failed: %v", err)
		}
		if completed.Status != model.StatusCompleted {
			t.Errorf("status = %s, want COMPLETED", completed.Status)
		}
	})

	t.Run("skipping approval is rejected", func(t *testing.T) {
		txn := create(t)
		_, err := svc.Transition(context.Background(), txn.ID.String(), admin.ID, model.RoleAdmin, model.StatusCompleted)
		var transitionErr *InvalidTransitionError
		if !errors.As(err, &transitionErr) {
			t.Fatalf("expected InvalidTransitionError, got %v", err)
		}
	})

	t.Run("terminal status has no exit", func(t *testing.T) {
		txn := create(t)
		if _, err := svc.Transition(context.Background(), txn.ID.String(), admin.ID, model.RoleAdmin, model.StatusRejected); err != nil {
			t.Fatalf("reject failed: %v", err)
		}

		_, err := svc.Transition(context.Background(), txn.ID.String(), admin.ID, model.RoleAdmin, model.StatusApproved)
		var transitionErr *InvalidTransitionError
		if !errors.As(err, &transitionErr) {
			t.Fatalf("expected InvalidTransitionError, got %v", err)
		}
	})

	t.Run("unknown target status", func(t *testing.T) {
		txn := create(t)
		_, err := svc.Transition(context.Background(), txn.ID.String(), admin.ID, model.RoleAdmin, "ARCHIVED")
		var transitionErr *InvalidTransitionError
		if !errors.As(err, &transitionErr) {
			t.Fatalf("expected InvalidTransitionError, got %v", err)
		}
	})

	t.Run("missing transaction", func(t *testing.T) {
		_, err := svc.Transition(context.Background(), uuid.New().String(), admin.ID, model.RoleAdmin, model.StatusApproved)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("writes audit trail", func(t *testing.T) {
		before := countAuditRows(t, db, model.ActionTransitionStatus)
		txn := create(t)
		if _, err := svc.Transition(context.Background(), txn.ID.String(), admin.ID, model.RoleAdmin, model.StatusApproved); err != nil {
			t.Fatalf("approve failed: %v", err)
		}
		if got := countAuditRows(t, db, model.ActionTransitionStatus); got != before+1 {
			t.Errorf("audit rows = %d, want %d", got, before+1)
		}
	})
}

func TestUpdateStatusFromGuardsConcurrentTransitions(t *testing.T) {
	db := setupTestDB(t)
	svc, txRepo := newTransactionService(db)

	member := createTestUser(t, db, "member@example.com", model.RoleUser)
	category := createTestCategory(t, db, "Plastik")
	item := createTestWasteItem(t, db, category.ID, "Plastik PET", 3000, true)

	txn, err := svc.Create(context.Background(), member.ID, CreateTransactionRequest{
		Items: []TransactionLineRequest{{WasteItemID: item.ID.String(), Weight: 1, Price: 3000}},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	changed, err := txRepo.UpdateStatusFrom(context.Background(), txn.ID, model.StatusPending, model.StatusApproved)
	if err != nil || !changed {
		t.Fatalf("first transition: changed=%v err=%v, want applied", changed, err)
	}

	// A second actor who read PENDING before the first write must lose.
	changed, err = txRepo.UpdateStatusFrom(context.Background(), txn.ID, model.StatusPending, model.StatusRejected)
	if err != nil {
		t.Fatalf("stale transition errored: %v", err)
	}
	if changed {
		t.Error("stale transition was applied, want rejected by the status guard")
	}

	reloaded, err := txRepo.FindByID(context.Background(), txn.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Status != model.StatusApproved {
		t.Errorf("status = %s, want APPROVED to survive the race", reloaded.Status)
	}
}

func TestTransactionTotalsStoredWithTwoDecimals(t *testing.T) {
	db := setupTestDB(t)
	svc, txRepo := newTransactionService(db)

	member := createTestUser(t, db, "member@example.com", model.RoleUser)
	category := createTestCategory(t, db, "Logam")
	item := createTestWasteItem(t, db, category.ID, "Aluminium", 1200.50, true)

	txn, err := svc.Create(context.Background(), member.ID, CreateTransactionRequest{
		Items: []TransactionLineRequest{
			{WasteItemID: item.ID.String(), Weight: 1.333, Price: 1200.50},
			{WasteItemID: item.ID.String(), Weight: 1.333, Price: 1200.50},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	reloaded, err := txRepo.FindByID(context.Background(), txn.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(reloaded.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(reloaded.Items))
	}

	// The stored header must equal the sum of its stored lines.
	sum := decimal.Zero
	for _, line := range reloaded.Items {
		if !line.Subtotal.Equal(decimal.RequireFromString("1600.27")) {
			t.Errorf("persisted subtotal = %s, want 1600.27", line.Subtotal)
		}
		sum = sum.Add(line.Subtotal)
	}
	if !reloaded.TotalAmount.Equal(sum) {
		t.Errorf("persisted total %s != sum of persisted subtotals %s", reloaded.TotalAmount, sum)
	}
	if !reloaded.TotalAmount.Equal(decimal.RequireFromString("3200.54")) {
		t.Errorf("persisted total = %s, want 3200.54", reloaded.TotalAmount)
	}
}
