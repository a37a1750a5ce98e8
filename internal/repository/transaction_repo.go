package repository

import (
	"context"

	"github.com/zevliandragovets/EcoBankWebsite/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	// Create inserts the transaction header together with its items. Callers
	// wrap it in TransactionManager.RunInTx so the write is all-or-nothing.
	Create(ctx context.Context, tx *model.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	// FindByIDForOwner resolves the transaction only if it belongs to ownerID.
	// A foreign id behaves exactly like a missing one.
	FindByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*model.Transaction, error)
	ListAll(ctx context.Context) ([]model.Transaction, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Transaction, error)
	// UpdateStatusFrom sets the status only when the row still holds
	// fromStatus, and reports whether a row was changed. A false result means
	// a concurrent transition won the race.
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (bool, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *model.Transaction) error {
	return GetDB(ctx, r.db).Create(tx).Error
}

func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var txn model.Transaction
	if err := r.withRelations(ctx).First(&txn, "transactions.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) FindByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*model.Transaction, error) {
	var txn model.Transaction
	if err := r.withRelations(ctx).
		First(&txn, "transactions.id = ? AND transactions.user_id = ?", id, ownerID).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) ListAll(ctx context.Context) ([]model.Transaction, error) {
	var txns []model.Transaction
	if err := r.withRelations(ctx).
		Order("created_at desc").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *transactionRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Transaction, error) {
	var txns []model.Transaction
	if err := r.withRelations(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at desc").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *transactionRepository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) (bool, error) {
	result := GetDB(ctx, r.db).
		Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Update("status", toStatus)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *transactionRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).
		Model(&model.Transaction{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *transactionRepository) withRelations(ctx context.Context) *gorm.DB {
	return GetDB(ctx, r.db).
		Preload("User").
		Preload("Items").
		Preload("Items.WasteItem").
		Preload("Items.WasteItem.Category")
}
