package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/zevliandragovets/EcoBankWebsite/internal/model"
	"github.com/zevliandragovets/EcoBankWebsite/internal/repository"
	ws "github.com/zevliandragovets/EcoBankWebsite/internal/websocket"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DTOs
type CreateTransactionRequest struct {
	Items []TransactionLineRequest `json:"items" binding:"required,min=1,dive"`
}

type TransitionStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// TransactionEvent is pushed to connected admin dashboards.
type TransactionEvent struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// TransactionService owns transaction creation and the status lifecycle.
// Every operation takes the caller's identity and role explicitly; nothing
// is read from ambient request state.
type TransactionService interface {
	Create(ctx context.Context, ownerID uuid.UUID, req CreateTransactionRequest) (*model.Transaction, error)
	Get(ctx context.Context, id string, callerID uuid.UUID, callerRole string) (*model.Transaction, error)
	List(ctx context.Context, callerID uuid.UUID, callerRole string) ([]model.Transaction, error)
	Transition(ctx context.Context, id string, callerID uuid.UUID, callerRole string, targetStatus string) (*model.Transaction, error)
}

type transactionService struct {
	txRepo        repository.TransactionRepository
	wasteItemRepo repository.WasteItemRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	hub           *ws.Hub
}

func NewTransactionService(
	txRepo repository.TransactionRepository,
	wasteItemRepo repository.WasteItemRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) TransactionService {
	return &transactionService{
		txRepo:        txRepo,
		wasteItemRepo: wasteItemRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		hub:           hub,
	}
}

// Create validates the submitted lines against the catalog and inserts the
// transaction header and its items as a single unit, status forced to
// PENDING.
func (s *transactionService) Create(ctx context.Context, ownerID uuid.UUID, req CreateTransactionRequest) (*model.Transaction, error) {
	if ownerID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	catalog, err := s.resolveCatalog(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	validated, err := ValidateTransactionLines(req.Items, catalog)
	if err != nil {
		return nil, err
	}

	txn := &model.Transaction{
		UserID:      ownerID,
		Status:      model.StatusPending,
		TotalAmount: validated.TotalAmount,
		TotalWeight: validated.TotalWeight,
		Items:       validated.Items,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.txRepo.Create(txCtx, txn); err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"total_amount": txn.TotalAmount.StringFixed(2),
			"total_weight": txn.TotalWeight.StringFixed(2),
			"item_count":   len(txn.Items),
		})
		audit := &model.AuditLog{
			UserID:   &txn.UserID,
			Action:   model.ActionCreateTransaction,
			EntityID: txn.ID.String(),
			Details:  string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created, err := s.txRepo.FindByID(ctx, txn.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload transaction: %w", err)
	}

	s.broadcast("transaction.created", map[string]interface{}{
		"id":           created.ID.String(),
		"status":       created.Status,
		"total_amount": created.TotalAmount.StringFixed(2),
	})

	return created, nil
}

// Get returns the transaction if the caller may see it. Non-admins can only
// resolve their own records; a foreign id yields not-found, never forbidden,
// so record existence is not leaked.
func (s *transactionService) Get(ctx context.Context, id string, callerID uuid.UUID, callerRole string) (*model.Transaction, error) {
	if callerID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	txnID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var txn *model.Transaction
	if callerRole == model.RoleAdmin {
		txn, err = s.txRepo.FindByID(ctx, txnID)
	} else {
		txn, err = s.txRepo.FindByIDForOwner(ctx, txnID, callerID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return txn, nil
}

// List returns all transactions for admins, the caller's own otherwise,
// newest first.
func (s *transactionService) List(ctx context.Context, callerID uuid.UUID, callerRole string) ([]model.Transaction, error) {
	if callerID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	if callerRole == model.RoleAdmin {
		return s.txRepo.ListAll(ctx)
	}
	return s.txRepo.ListByOwner(ctx, callerID)
}

// Transition moves a transaction along the status graph. Admin only. The
// status update is conditional on the status the decision was based on, so
// two admins acting on the same stale read cannot both win.
func (s *transactionService) Transition(ctx context.Context, id string, callerID uuid.UUID, callerRole string, targetStatus string) (*model.Transaction, error) {
	if callerID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if callerRole != model.RoleAdmin {
		return nil, ErrForbidden
	}

	txnID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	txn, err := s.txRepo.FindByID(ctx, txnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	fromStatus := txn.Status
	if !model.IsValidStatus(targetStatus) || !model.CanTransition(fromStatus, targetStatus) {
		return nil, &InvalidTransitionError{
			From:    fromStatus,
			To:      targetStatus,
			Allowed: model.AllowedNextStatuses(fromStatus),
		}
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		changed, err := s.txRepo.UpdateStatusFrom(txCtx, txnID, fromStatus, targetStatus)
		if err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}
		if !changed {
			// Someone else transitioned the record after our read.
			return &InvalidTransitionError{
				From:    fromStatus,
				To:      targetStatus,
				Allowed: model.AllowedNextStatuses(fromStatus),
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"from": fromStatus,
			"to":   targetStatus,
		})
		audit := &model.AuditLog{
			UserID:   &callerID,
			Action:   model.ActionTransitionStatus,
			EntityID: txnID.String(),
			Details:  string(details),
		}
		if err := s.auditRepo.Log(txCtx, audit); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("transaction %s status changed %s -> %s by admin %s at %s",
		txnID, fromStatus, targetStatus, callerID, time.Now().Format(time.RFC3339))

	updated, err := s.txRepo.FindByID(ctx, txnID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload transaction: %w", err)
	}

	s.broadcast("transaction.status_changed", map[string]interface{}{
		"id":   updated.ID.String(),
		"from": fromStatus,
		"to":   updated.Status,
	})

	return updated, nil
}

// resolveCatalog fetches the active catalog rows referenced by the request.
// Inactive or unparseable ids are simply absent from the map; the validator
// reports them as unknown.
func (s *transactionService) resolveCatalog(ctx context.Context, lines []TransactionLineRequest) (map[string]model.WasteItem, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		id, err := uuid.Parse(line.WasteItemID)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	catalog := make(map[string]model.WasteItem, len(ids))
	if len(ids) == 0 {
		return catalog, nil
	}

	items, err := s.wasteItemRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve waste items: %w", err)
	}
	for _, item := range items {
		if item.IsActive {
			catalog[item.ID.String()] = item
		}
	}
	return catalog, nil
}

func (s *transactionService) broadcast(event string, data map[string]interface{}) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(TransactionEvent{Event: event, Data: data})
	if err != nil {
		return
	}
	s.hub.Broadcast <- payload
}
