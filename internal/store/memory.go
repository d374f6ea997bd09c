package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"main/internal/errors"
	"main/internal/model"
	"main/pkg/exception"
)

// Memory is an in-process Store. It backs the test suite and the server
// when no database is configured; state is lost on restart.
type Memory struct {
	mu   sync.Mutex
	seed decimal.Decimal

	accounts map[string]model.Account
	holdings map[string]map[string]model.Holding
	orders   map[string][]model.OrderRecord

	nextAccountID uint64
	nextHoldingID uint64
	nextOrderID   uint64
}

func NewMemory(seedBalance decimal.Decimal) *Memory {
	return &Memory{
		seed:     seedBalance,
		accounts: make(map[string]model.Account),
		holdings: make(map[string]map[string]model.Holding),
		orders:   make(map[string][]model.OrderRecord),
	}
}

func (s *Memory) GetOrCreateAccount(ctx context.Context, owner string) (model.Account, error) {
	if err := ctx.Err(); err != nil {
		return model.Account{}, errors.Wrap(exception.ErrStorage, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if account, ok := s.accounts[owner]; ok {
		return account, nil
	}

	now := time.Now().UTC()
	s.nextAccountID++
	account := model.Account{
		ID:        s.nextAccountID,
		Owner:     owner,
		Balance:   s.seed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.accounts[owner] = account
	return account, nil
}

func (s *Memory) GetHolding(ctx context.Context, owner, symbol string) (model.Holding, bool, error) {
	if err := ctx.Err(); err != nil {
		return model.Holding{}, false, errors.Wrap(exception.ErrStorage, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	holding, ok := s.holdings[owner][symbol]
	return holding, ok, nil
}

func (s *Memory) ListHoldings(ctx context.Context, owner string, limit int) ([]model.Holding, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(exception.ErrStorage, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Holding, 0, len(s.holdings[owner]))
	for _, holding := range s.holdings[owner] {
		out = append(out, holding)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].Symbol < out[j].Symbol
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Memory) ListOrders(ctx context.Context, owner string, limit int) ([]model.OrderRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(exception.ErrStorage, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.orders[owner]
	if limit <= 0 || limit > len(records) {
		limit = len(records)
	}

	// stored oldest first, returned newest first
	out := make([]model.OrderRecord, 0, limit)
	for i := len(records) - 1; i >= len(records)-limit; i-- {
		out = append(out, records[i])
	}
	return out, nil
}

func (s *Memory) Commit(ctx context.Context, c Commit) (model.OrderRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.OrderRecord{}, errors.Wrap(exception.ErrStorage, err.Error())
	}
	if !c.HoldingOp.IsAvailable() {
		return model.OrderRecord{}, errors.Wrapf(exception.ErrStorage, "holding op %d not available", c.HoldingOp)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[c.Owner]
	if !ok {
		return model.OrderRecord{}, errors.Wrapf(exception.ErrStorage, "account %q missing", c.Owner)
	}

	now := time.Now().UTC()
	account.Balance = c.NewBalance
	account.UpdatedAt = now
	s.accounts[c.Owner] = account

	switch c.HoldingOp {
	case HoldingOpUpsert:
		symbols := s.holdings[c.Owner]
		if symbols == nil {
			symbols = make(map[string]model.Holding)
			s.holdings[c.Owner] = symbols
		}
		holding := c.Holding
		if existing, ok := symbols[holding.Symbol]; ok {
			holding.ID = existing.ID
			holding.CreatedAt = existing.CreatedAt
		} else {
			s.nextHoldingID++
			holding.ID = s.nextHoldingID
			holding.CreatedAt = now
		}
		holding.UpdatedAt = now
		symbols[holding.Symbol] = holding
	case HoldingOpDelete:
		delete(s.holdings[c.Owner], c.Holding.Symbol)
	}

	s.nextOrderID++
	record := c.Order
	record.ID = s.nextOrderID
	record.Timestamp = now
	s.orders[c.Owner] = append(s.orders[c.Owner], record)
	return record, nil
}
