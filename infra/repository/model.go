package repository

import (
	"time"

	"github.com/amirasaad/fintrack/pkg/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account represents an account record in the database.
type Account struct {
	ID        uint        `gorm:"primaryKey"`
	OwnerID   uuid.UUID   `gorm:"type:uuid;not null;index"`
	Name      string      `gorm:"size:50;not null"`
	Currency  string      `gorm:"size:16;not null;default:USD"`
	Balance   money.Money `gorm:"not null"`
	CreatedAt time.Time
}

func (Account) TableName() string { return "accounts" }

// Category represents a category record. ParentID points at another
// category of the same owner.
type Category struct {
	ID        uint      `gorm:"primaryKey"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"size:50;not null"`
	ParentID  *uint     `gorm:"index"`
	CreatedAt time.Time
}

func (Category) TableName() string { return "categories" }

// Transaction represents a persisted ledger posting. Rows are never updated.
type Transaction struct {
	ID          uint        `gorm:"primaryKey"`
	OwnerID     uuid.UUID   `gorm:"type:uuid;not null;index"`
	AccountID   uint        `gorm:"not null;index"`
	CategoryID  *uint       `gorm:"index"`
	Amount      money.Money `gorm:"not null"`
	Kind        string      `gorm:"size:16;not null"`
	Date        time.Time   `gorm:"type:date;not null;index"`
	Description *string
	CreatedAt   time.Time
}

func (Transaction) TableName() string { return "transactions" }

// Budget represents a budget record. It holds no spent figure.
type Budget struct {
	ID         uint        `gorm:"primaryKey"`
	OwnerID    uuid.UUID   `gorm:"type:uuid;not null;index"`
	CategoryID *uint       `gorm:"index"`
	Amount     money.Money `gorm:"not null"`
	Period     string      `gorm:"size:32;not null;default:monthly"`
	StartDate  time.Time   `gorm:"type:date;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Budget) TableName() string { return "budgets" }

// AutoMigrate creates or updates the schema for every ledger table. It backs
// the embedded sqlite store; postgres deployments use the SQL migrations.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Account{}, &Category{}, &Transaction{}, &Budget{})
}
