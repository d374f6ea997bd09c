package store

import (
	"context"

	"github.com/shopspring/decimal"

	"main/internal/model"
)

// HoldingOp tells Commit what to do with the holding row.
type HoldingOp uint8

const (
	_holding_op_beg HoldingOp = iota
	HoldingOpUpsert
	HoldingOpDelete
	_holding_op_end
)

func (op HoldingOp) IsAvailable() bool {
	return op > _holding_op_beg && op < _holding_op_end
}

// Commit carries one trade's worth of ledger mutations: the owner's new
// balance, a holding upsert or delete, and the new order record. The three
// parts persist together or not at all.
type Commit struct {
	Owner      string
	NewBalance decimal.Decimal
	HoldingOp  HoldingOp
	Holding    model.Holding
	Order      model.OrderRecord
}

// Store is the read/write contract the execution engine depends on.
// Commit is the only write path besides account bootstrap; it assigns the
// order record's identifier and timestamp.
type Store interface {
	GetOrCreateAccount(ctx context.Context, owner string) (model.Account, error)
	GetHolding(ctx context.Context, owner, symbol string) (model.Holding, bool, error)
	ListHoldings(ctx context.Context, owner string, limit int) ([]model.Holding, error)
	ListOrders(ctx context.Context, owner string, limit int) ([]model.OrderRecord, error)
	Commit(ctx context.Context, c Commit) (model.OrderRecord, error)
}
