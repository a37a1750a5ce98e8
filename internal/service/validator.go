package service

import (
	"math"

	"github.com/zevliandragovets/EcoBankWebsite/internal/model"

	"github.com/shopspring/decimal"
)

// priceTolerance is the absolute difference accepted between the submitted
// price and the current catalog price. Anything larger means the client
// priced against a stale catalog and must resubmit.
var priceTolerance = decimal.NewFromFloat(0.01)

// TransactionLineRequest is one proposed line of a waste sale.
type TransactionLineRequest struct {
	WasteItemID string  `json:"waste_item_id" binding:"required"`
	Weight      float64 `json:"weight" binding:"required"`
	Price       float64 `json:"price"`
}

// ValidatedLines is the result of a successful validation: persistable line
// records plus the aggregate totals, both rounded to two decimal places.
type ValidatedLines struct {
	Items       []model.TransactionItem
	TotalAmount decimal.Decimal
	TotalWeight decimal.Decimal
}

// ValidateTransactionLines checks the proposed lines against the catalog and
// computes subtotals and totals. It is pure: the caller resolves the catalog
// rows (active items only) and persists the result.
//
// Checks run in order, failing fast: shape, weights, prices, catalog
// resolution, price tolerance, totals.
func ValidateTransactionLines(lines []TransactionLineRequest, catalog map[string]model.WasteItem) (*ValidatedLines, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyItems
	}

	for i, line := range lines {
		if line.WasteItemID == "" {
			return nil, &LineError{Index: i, Field: "waste_item_id", Reason: "is required"}
		}
	}

	for i, line := range lines {
		if math.IsNaN(line.Weight) || math.IsInf(line.Weight, 0) || line.Weight <= 0 {
			return nil, &LineError{Index: i, Field: "weight", Reason: "must be a positive number"}
		}
	}

	for i, line := range lines {
		if math.IsNaN(line.Price) || math.IsInf(line.Price, 0) || line.Price < 0 {
			return nil, &LineError{Index: i, Field: "price", Reason: "must be a non-negative number"}
		}
	}

	var missing []string
	for _, line := range lines {
		if _, ok := catalog[line.WasteItemID]; !ok {
			missing = append(missing, line.WasteItemID)
		}
	}
	if len(missing) > 0 {
		return nil, &UnknownItemsError{IDs: missing}
	}

	for _, line := range lines {
		item := catalog[line.WasteItemID]
		supplied := decimal.NewFromFloat(line.Price)
		if item.Price.Sub(supplied).Abs().GreaterThan(priceTolerance) {
			return nil, &PriceMismatchError{
				ItemName: item.Name,
				Expected: item.Price,
				Supplied: supplied,
			}
		}
	}

	result := &ValidatedLines{
		Items:       make([]model.TransactionItem, 0, len(lines)),
		TotalAmount: decimal.Zero,
		TotalWeight: decimal.Zero,
	}
	for _, line := range lines {
		item := catalog[line.WasteItemID]
		weight := decimal.NewFromFloat(line.Weight)
		price := decimal.NewFromFloat(line.Price)
		subtotal := weight.Mul(price).Round(2)

		result.Items = append(result.Items, model.TransactionItem{
			WasteItemID: item.ID,
			Weight:      weight,
			Price:       price,
			Subtotal:    subtotal,
		})
		result.TotalAmount = result.TotalAmount.Add(subtotal)
		result.TotalWeight = result.TotalWeight.Add(weight)
	}

	// TotalAmount accumulates the rounded subtotals, so the persisted header
	// always equals the sum of its stored lines. Rounding is half away from
	// zero, identical to half-up for the non-negative values handled here.
	result.TotalWeight = result.TotalWeight.Round(2)

	return result, nil
}
