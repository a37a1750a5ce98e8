package service

import (
	"context"

	"github.com/zevliandragovets/EcoBankWebsite/internal/model"
	"github.com/zevliandragovets/EcoBankWebsite/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardStats is the admin dashboard summary.
type DashboardStats struct {
	TotalUsers           int64            `json:"total_users"`
	ActiveWasteItems     int64            `json:"active_waste_items"`
	TransactionsByStatus map[string]int64 `json:"transactions_by_status"`
	CompletedAmount      string           `json:"completed_amount"`
	CompletedWeight      string           `json:"completed_weight"`
}

type StatisticsService interface {
	Dashboard(ctx context.Context, callerID uuid.UUID, callerRole string) (*DashboardStats, error)
}

type statisticsService struct {
	db            *gorm.DB
	userRepo      repository.UserRepository
	wasteItemRepo repository.WasteItemRepository
	txRepo        repository.TransactionRepository
}

func NewStatisticsService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	wasteItemRepo repository.WasteItemRepository,
	txRepo repository.TransactionRepository,
) StatisticsService {
	return &statisticsService{
		db:            db,
		userRepo:      userRepo,
		wasteItemRepo: wasteItemRepo,
		txRepo:        txRepo,
	}
}

func (s *statisticsService) Dashboard(ctx context.Context, callerID uuid.UUID, callerRole string) (*DashboardStats, error) {
	if err := requireAdmin(callerID, callerRole); err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TransactionsByStatus: make(map[string]int64, 4),
	}

	var err error
	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveWasteItems, err = s.wasteItemRepo.CountActive(ctx); err != nil {
		return nil, err
	}

	for _, status := range []string{model.StatusPending, model.StatusApproved, model.StatusRejected, model.StatusCompleted} {
		count, err := s.txRepo.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		stats.TransactionsByStatus[status] = count
	}

	// Sums over completed transactions. decimal columns come back as strings
	// from some drivers, so scan into a helper struct of decimals.
	var sums struct {
		Amount decimal.Decimal
		Weight decimal.Decimal
	}
	err = s.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Select("COALESCE(SUM(total_amount), 0) AS amount, COALESCE(SUM(total_weight), 0) AS weight").
		Where("status = ?", model.StatusCompleted).
		Scan(&sums).Error
	if err != nil {
		return nil, err
	}
	stats.CompletedAmount = sums.Amount.StringFixed(2)
	stats.CompletedWeight = sums.Weight.StringFixed(2)

	return stats, nil
}
