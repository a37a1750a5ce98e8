package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Role constants. The waste bank only distinguishes administrators from
// regular members; there is no finer-grained permission matrix.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User represents a waste-bank member or administrator
type User struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Email     string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string          `gorm:"type:varchar(255);not null" json:"-"` // Omit password from JSON responses
	Phone     string          `gorm:"type:varchar(20);not null" json:"phone"`
	Address   string          `gorm:"type:text;not null" json:"address"`
	Role      string          `gorm:"type:varchar(20);not null;default:'USER'" json:"role"` // ADMIN, USER
	Balance   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"balance"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"` // GORM soft delete
}

// BeforeCreate assigns the UUID primary key. IDs are generated in the
// application rather than by the database so the models also run on the
// sqlite test dialector.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// RefreshToken stores long-lived tokens allowing users to request new access tokens
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (t *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
