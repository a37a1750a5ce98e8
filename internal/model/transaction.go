package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionStatus constants
const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCompleted = "COMPLETED"
)

// allowedTransitions is the transaction status state machine. REJECTED and
// COMPLETED are terminal: they have no outgoing edges.
var allowedTransitions = map[string][]string{
	StatusPending:   {StatusApproved, StatusRejected},
	StatusApproved:  {StatusCompleted, StatusRejected},
	StatusRejected:  {},
	StatusCompleted: {},
}

// IsValidStatus reports whether s is one of the four transaction statuses.
func IsValidStatus(s string) bool {
	_, ok := allowedTransitions[s]
	return ok
}

// AllowedNextStatuses returns the statuses reachable from current in one step.
func AllowedNextStatuses(current string) []string {
	return allowedTransitions[current]
}

// CanTransition reports whether moving from one status to another is legal.
// Setting the same status again, skipping a state (PENDING→COMPLETED), or
// leaving a terminal state are all illegal.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transaction is a member's waste sale submission. Created in PENDING with
// its items in a single database transaction; after that only the status
// may change, and only along the allowedTransitions graph.
type Transaction struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status      string            `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	TotalAmount decimal.Decimal   `gorm:"type:decimal(14,2);not null" json:"total_amount"`
	TotalWeight decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"total_weight"`
	Items       []TransactionItem `gorm:"foreignKey:TransactionID" json:"items"`
	CreatedAt   time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TransactionItem is one line of a transaction. Price is the catalog price
// captured at submission time; Subtotal = Weight × Price. Immutable after
// creation.
type TransactionItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	WasteItemID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"waste_item_id"`
	WasteItem     *WasteItem      `gorm:"foreignKey:WasteItemID" json:"waste_item,omitempty"`
	Weight        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"weight"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"subtotal"`
}

func (i *TransactionItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
