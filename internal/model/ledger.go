package model

import (
	"time"

	"github.com/shopspring/decimal"

	"main/internal/model/enum"
)

// MoneyPlaces is the ledger precision. Balances, prices and totals carry
// two decimal places.
const MoneyPlaces = 2

// RoundMoney rounds to the ledger precision with banker's rounding, the
// only rounding path for monetary values.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(MoneyPlaces)
}

// Account holds the cash balance for one owner. One row per owner,
// created lazily on first access.
type Account struct {
	ID        uint64          `gorm:"primaryKey" json:"-"`
	Owner     string          `gorm:"size:64;uniqueIndex;not null" json:"owner"`
	Balance   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Holding is a position with positive quantity and its cost-basis average
// price. The row is deleted when quantity reaches zero; it never exists
// with quantity <= 0.
type Holding struct {
	ID        uint64          `gorm:"primaryKey" json:"-"`
	Owner     string          `gorm:"size:64;uniqueIndex:idx_holdings_owner_symbol;not null" json:"owner"`
	Symbol    string          `gorm:"size:20;uniqueIndex:idx_holdings_owner_symbol;not null" json:"symbol"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	AvgPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"avg_price"`
	CreatedAt time.Time       `json:"-"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// OrderRecord is the immutable record of one executed trade. Never updated
// or deleted once committed.
type OrderRecord struct {
	ID        uint64          `gorm:"primaryKey" json:"id"`
	Owner     string          `gorm:"size:64;index:idx_orders_owner_ts,priority:1;not null" json:"owner"`
	Symbol    string          `gorm:"size:20;not null" json:"symbol"`
	Side      enum.Side       `gorm:"size:4;not null" json:"side"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Timestamp time.Time       `gorm:"index:idx_orders_owner_ts,priority:2,sort:desc;not null" json:"timestamp"`
}
