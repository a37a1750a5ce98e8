package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/zevliandragovets/EcoBankWebsite/internal/model"
	"github.com/zevliandragovets/EcoBankWebsite/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DTOs
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type CreateWasteItemRequest struct {
	Name       string  `json:"name" binding:"required"`
	Price      float64 `json:"price" binding:"min=0"`
	Unit       string  `json:"unit" binding:"required"`
	CategoryID string  `json:"category_id" binding:"required"`
	IsActive   *bool   `json:"is_active"`
}

// UpdateWasteItemRequest carries a partial update; nil fields are untouched.
type UpdateWasteItemRequest struct {
	Name       *string  `json:"name"`
	Price      *float64 `json:"price"`
	Unit       *string  `json:"unit"`
	CategoryID *string  `json:"category_id"`
	IsActive   *bool    `json:"is_active"`
}

type ListWasteItemsRequest struct {
	CategoryID string
	Search     string
	IsActive   *bool
}

// DeleteOutcome tells the caller which delete branch ran: items referenced
// by transaction lines are deactivated, unreferenced ones are removed.
type DeleteOutcome string

const (
	DeleteOutcomeDeactivated DeleteOutcome = "DEACTIVATED"
	DeleteOutcomeRemoved     DeleteOutcome = "REMOVED"
)

// CatalogService manages categories and waste items. Mutation is admin-only;
// listing is open to any caller.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, callerID uuid.UUID, callerRole string, req CreateCategoryRequest) (*model.Category, error)
	ListWasteItems(ctx context.Context, req ListWasteItemsRequest) ([]model.WasteItem, error)
	CreateWasteItem(ctx context.Context, callerID uuid.UUID, callerRole string, req CreateWasteItemRequest) (*model.WasteItem, error)
	UpdateWasteItem(ctx context.Context, callerID uuid.UUID, callerRole string, id string, req UpdateWasteItemRequest) (*model.WasteItem, error)
	DeleteWasteItem(ctx context.Context, callerID uuid.UUID, callerRole string, id string) (DeleteOutcome, error)
}

type catalogService struct {
	categoryRepo  repository.CategoryRepository
	wasteItemRepo repository.WasteItemRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
}

func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	wasteItemRepo repository.WasteItemRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) CatalogService {
	return &catalogService{
		categoryRepo:  categoryRepo,
		wasteItemRepo: wasteItemRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
	}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *catalogService) CreateCategory(ctx context.Context, callerID uuid.UUID, callerRole string, req CreateCategoryRequest) (*model.Category, error) {
	if err := requireAdmin(callerID, callerRole); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, &FieldError{Field: "name", Reason: "must not be blank"}
	}

	if _, err := s.categoryRepo.FindByName(ctx, name); err == nil {
		return nil, &DuplicateError{Entity: "category", Name: name}
	}

	category := &model.Category{Name: name, Description: req.Description}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.categoryRepo.Create(txCtx, category); err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}
		return s.logAudit(txCtx, callerID, model.ActionCreateCategory, category.ID.String(), category.Name, req)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) ListWasteItems(ctx context.Context, req ListWasteItemsRequest) ([]model.WasteItem, error) {
	filter := repository.WasteItemFilter{
		Search:   strings.TrimSpace(req.Search),
		IsActive: req.IsActive,
	}
	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, &FieldError{Field: "category_id", Reason: "must be a valid id"}
		}
		filter.CategoryID = &categoryID
	}
	return s.wasteItemRepo.List(ctx, filter)
}

func (s *catalogService) CreateWasteItem(ctx context.Context, callerID uuid.UUID, callerRole string, req CreateWasteItemRequest) (*model.WasteItem, error) {
	if err := requireAdmin(callerID, callerRole); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	unit := strings.TrimSpace(req.Unit)
	if name == "" {
		return nil, &FieldError{Field: "name", Reason: "must not be blank"}
	}
	if unit == "" {
		return nil, &FieldError{Field: "unit", Reason: "must not be blank"}
	}
	if req.Price < 0 {
		return nil, &FieldError{Field: "price", Reason: "must be a non-negative number"}
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, &FieldError{Field: "category_id", Reason: "must be a valid id"}
	}
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &FieldError{Field: "category_id", Reason: "category not found"}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if _, err := s.wasteItemRepo.FindByNameInCategory(ctx, name, categoryID, nil); err == nil {
		return nil, &DuplicateError{Entity: "waste item", Name: name}
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	item := &model.WasteItem{
		Name:       name,
		Price:      decimal.NewFromFloat(req.Price).Round(2),
		Unit:       unit,
		CategoryID: categoryID,
		IsActive:   active,
	}
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.wasteItemRepo.Create(txCtx, item); err != nil {
			return fmt.Errorf("failed to create waste item: %w", err)
		}
		return s.logAudit(txCtx, callerID, model.ActionCreateWasteItem, item.ID.String(), item.Name, req)
	})
	if err != nil {
		return nil, err
	}

	return s.wasteItemRepo.FindByID(ctx, item.ID)
}

func (s *catalogService) UpdateWasteItem(ctx context.Context, callerID uuid.UUID, callerRole string, id string, req UpdateWasteItemRequest) (*model.WasteItem, error) {
	if err := requireAdmin(callerID, callerRole); err != nil {
		return nil, err
	}

	itemID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	item, err := s.wasteItemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, &FieldError{Field: "category_id", Reason: "must be a valid id"}
		}
		if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &FieldError{Field: "category_id", Reason: "category not found"}
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
		item.CategoryID = categoryID
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, &FieldError{Field: "name", Reason: "must not be blank"}
		}
		// Re-check the (name, category) uniqueness against the effective
		// category, excluding the item itself.
		if _, err := s.wasteItemRepo.FindByNameInCategory(ctx, name, item.CategoryID, &item.ID); err == nil {
			return nil, &DuplicateError{Entity: "waste item", Name: name}
		}
		item.Name = name
	}

	if req.Price != nil {
		if *req.Price < 0 {
			return nil, &FieldError{Field: "price", Reason: "must be a non-negative number"}
		}
		item.Price = decimal.NewFromFloat(*req.Price).Round(2)
	}

	if req.Unit != nil {
		unit := strings.TrimSpace(*req.Unit)
		if unit == "" {
			return nil, &FieldError{Field: "unit", Reason: "must not be blank"}
		}
		item.Unit = unit
	}

	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.wasteItemRepo.Update(txCtx, item); err != nil {
			return fmt.Errorf("failed to update waste item: %w", err)
		}
		return s.logAudit(txCtx, callerID, model.ActionUpdateWasteItem, item.ID.String(), item.Name, req)
	})
	if err != nil {
		return nil, err
	}

	return s.wasteItemRepo.FindByID(ctx, item.ID)
}

// DeleteWasteItem removes the item when no transaction line has ever
// referenced it, and deactivates it otherwise so historical lines keep a
// valid reference.
func (s *catalogService) DeleteWasteItem(ctx context.Context, callerID uuid.UUID, callerRole string, id string) (DeleteOutcome, error) {
	if err := requireAdmin(callerID, callerRole); err != nil {
		return "", err
	}

	itemID, err := uuid.Parse(id)
	if err != nil {
		return "", ErrNotFound
	}

	item, err := s.wasteItemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("database error: %w", err)
	}

	references, err := s.wasteItemRepo.CountTransactionReferences(ctx, itemID)
	if err != nil {
		return "", fmt.Errorf("database error: %w", err)
	}

	outcome := DeleteOutcomeRemoved
	if references > 0 {
		outcome = DeleteOutcomeDeactivated
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if outcome == DeleteOutcomeDeactivated {
			item.IsActive = false
			if err := s.wasteItemRepo.Update(txCtx, item); err != nil {
				return fmt.Errorf("failed to deactivate waste item: %w", err)
			}
			return s.logAudit(txCtx, callerID, model.ActionDeactivateWasteItem, item.ID.String(), item.Name, nil)
		}

		if err := s.wasteItemRepo.Delete(txCtx, itemID); err != nil {
			return fmt.Errorf("failed to delete waste item: %w", err)
		}
		return s.logAudit(txCtx, callerID, model.ActionDeleteWasteItem, item.ID.String(), item.Name, nil)
	})
	if err != nil {
		return "", err
	}

	return outcome, nil
}

func (s *catalogService) logAudit(ctx context.Context, callerID uuid.UUID, action, entityID, entityName string, payload interface{}) error {
	details := ""
	if payload != nil {
		raw, _ := json.Marshal(payload)
		details = string(raw)
	}
	audit := &model.AuditLog{
		UserID:     &callerID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    details,
	}
	if err := s.auditRepo.Log(ctx, audit); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// requireAdmin is the single capability check gating catalog mutation and
// status transitions.
func requireAdmin(callerID uuid.UUID, callerRole string) error {
	if callerID == uuid.Nil {
		return ErrUnauthenticated
	}
	if callerRole != model.RoleAdmin {
		return ErrForbidden
	}
	return nil
}
