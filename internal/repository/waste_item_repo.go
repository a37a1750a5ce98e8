package repository

import (
	"context"

	"github.com/zevliandragovets/EcoBankWebsite/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WasteItemFilter narrows the catalog listing.
type WasteItemFilter struct {
	CategoryID *uuid.UUID
	Search     string
	// IsActive filters by active flag; nil lists active items only, which is
	// the catalog's default public view.
	IsActive *bool
}

type WasteItemRepository interface {
	Create(ctx context.Context, item *model.WasteItem) error
	Update(ctx context.Context, item *model.WasteItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.WasteItem, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.WasteItem, error)
	FindByNameInCategory(ctx context.Context, name string, categoryID uuid.UUID, excludeID *uuid.UUID) (*model.WasteItem, error)
	List(ctx context.Context, filter WasteItemFilter) ([]model.WasteItem, error)
	CountTransactionReferences(ctx context.Context, id uuid.UUID) (int64, error)
	CountActive(ctx context.Context) (int64, error)
}

type wasteItemRepository struct {
	db *gorm.DB
}

func NewWasteItemRepository(db *gorm.DB) WasteItemRepository {
	return &wasteItemRepository{db: db}
}

func (r *wasteItemRepository) Create(ctx context.Context, item *model.WasteItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *wasteItemRepository) Update(ctx context.Context, item *model.WasteItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *wasteItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.WasteItem{}).Error
}

func (r *wasteItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.WasteItem, error) {
	var item model.WasteItem
	if err := GetDB(ctx, r.db).Preload("Category").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *wasteItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.WasteItem, error) {
	var items []model.WasteItem
	if err := GetDB(ctx, r.db).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByNameInCategory looks up an item by (name, category) for the
// duplicate-name check. excludeID skips the item being updated.
func (r *wasteItemRepository) FindByNameInCategory(ctx context.Context, name string, categoryID uuid.UUID, excludeID *uuid.UUID) (*model.WasteItem, error) {
	query := GetDB(ctx, r.db).Where("name = ? AND category_id = ?", name, categoryID)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var item model.WasteItem
	if err := query.First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *wasteItemRepository) List(ctx context.Context, filter WasteItemFilter) ([]model.WasteItem, error) {
	query := GetDB(ctx, r.db).
		Model(&model.WasteItem{}).
		Joins("JOIN categories ON categories.id = waste_items.category_id").
		Preload("Category")

	if filter.CategoryID != nil {
		query = query.Where("waste_items.category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(waste_items.name) LIKE LOWER(?)", "%"+filter.Search+"%")
	}
	if filter.IsActive != nil {
		query = query.Where("waste_items.is_active = ?", *filter.IsActive)
	} else {
		query = query.Where("waste_items.is_active = ?", true)
	}

	var items []model.WasteItem
	if err := query.
		Order("categories.name asc").
		Order("waste_items.name asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CountTransactionReferences returns how many transaction lines reference the
// item. The delete path branches on this: referenced items are deactivated,
// never removed.
func (r *wasteItemRepository) CountTransactionReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).
		Model(&model.TransactionItem{}).
		Where("waste_item_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *wasteItemRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).
		Model(&model.WasteItem{}).
		Where("is_active = ?", true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
