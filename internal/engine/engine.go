package engine

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"main/internal/errors"
	"main/internal/model"
	"main/internal/model/enum"
	"main/internal/store"
	"main/pkg/exception"
)

// recentLimit bounds the holdings and order history returned in a
// portfolio snapshot.
const recentLimit = 10

// Engine is the sole authority that turns a trade request into ledger
// mutations. Each call runs read-validate-commit as one unit under the
// owner's lock.
type Engine struct {
	store store.Store
	locks ownerLocks
}

func New(st store.Store) *Engine {
	return &Engine{store: st}
}

// Request is a trade submission, validated once at the boundary.
type Request struct {
	Owner    string
	Symbol   string
	Side     enum.Side
	Quantity int64
	Price    decimal.Decimal
}

// Result reports a committed trade.
type Result struct {
	Balance   decimal.Decimal
	OrderID   uint64
	Timestamp time.Time
}

// Snapshot is a read-only view of one owner's ledger.
type Snapshot struct {
	Owner    string              `json:"owner"`
	Balance  decimal.Decimal     `json:"balance"`
	Holdings []model.Holding     `json:"holdings"`
	Orders   []model.OrderRecord `json:"recent_orders"`
}

func (r *Request) normalize() error {
	r.Owner = strings.TrimSpace(r.Owner)
	r.Symbol = strings.ToUpper(strings.TrimSpace(r.Symbol))
	r.Price = model.RoundMoney(r.Price)

	switch {
	case r.Owner == "":
		return errors.Wrap(exception.ErrInvalidRequest, "owner is empty")
	case r.Symbol == "":
		return errors.Wrap(exception.ErrInvalidRequest, "symbol is empty")
	case !r.Side.IsAvailable():
		return errors.Wrapf(exception.ErrInvalidRequest, "side %q is not BUY or SELL", r.Side)
	case r.Quantity <= 0:
		return errors.Wrapf(exception.ErrInvalidRequest, "quantity %d must be > 0", r.Quantity)
	case !r.Price.IsPositive():
		return errors.Wrap(exception.ErrInvalidRequest, "price must be > 0")
	}
	return nil
}

// ExecuteOrder validates req against current ledger state, computes the
// balance/holding deltas and commits them atomically together with an
// immutable order record. Failed validation leaves the ledger untouched.
func (e *Engine) ExecuteOrder(ctx context.Context, req Request) (Result, error) {
	if err := req.normalize(); err != nil {
		return Result{}, err
	}

	unlock := e.locks.lock(req.Owner)
	defer unlock()

	account, err := e.store.GetOrCreateAccount(ctx, req.Owner)
	if err != nil {
		return Result{}, err
	}

	total := req.Price.Mul(decimal.NewFromInt(req.Quantity))

	var commit store.Commit
	switch req.Side {
	case enum.SideBuy:
		commit, err = e.planBuy(ctx, account, req, total)
	case enum.SideSell:
		commit, err = e.planSell(ctx, account, req, total)
	}
	if err != nil {
		return Result{}, err
	}

	record, err := e.store.Commit(ctx, commit)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Balance:   commit.NewBalance,
		OrderID:   record.ID,
		Timestamp: record.Timestamp,
	}, nil
}

func (e *Engine) planBuy(ctx context.Context, account model.Account, req Request, total decimal.Decimal) (store.Commit, error) {
	if total.GreaterThan(account.Balance) {
		return store.Commit{}, errors.Wrapf(exception.ErrInsufficientFunds,
			"need %s, have %s", total, account.Balance)
	}

	holding, ok, err := e.store.GetHolding(ctx, req.Owner, req.Symbol)
	if err != nil {
		return store.Commit{}, err
	}
	if !ok {
		holding = model.Holding{
			Owner:    req.Owner,
			Symbol:   req.Symbol,
			Quantity: req.Quantity,
			AvgPrice: req.Price,
		}
	} else {
		// weighted average cost over all buy fills; sells never touch it
		oldCost := holding.AvgPrice.Mul(decimal.NewFromInt(holding.Quantity))
		newQuantity := holding.Quantity + req.Quantity
		holding.AvgPrice = model.RoundMoney(oldCost.Add(total).Div(decimal.NewFromInt(newQuantity)))
		holding.Quantity = newQuantity
	}

	return store.Commit{
		Owner:      req.Owner,
		NewBalance: account.Balance.Sub(total),
		HoldingOp:  store.HoldingOpUpsert,
		Holding:    holding,
		Order:      orderFor(req, total),
	}, nil
}

func (e *Engine) planSell(ctx context.Context, account model.Account, req Request, total decimal.Decimal) (store.Commit, error) {
	holding, ok, err := e.store.GetHolding(ctx, req.Owner, req.Symbol)
	if err != nil {
		return store.Commit{}, err
	}
	if !ok {
		return store.Commit{}, errors.Wrapf(exception.ErrNoSuchHolding, "no %s position", req.Symbol)
	}
	if holding.Quantity < req.Quantity {
		return store.Commit{}, errors.Wrapf(exception.ErrInsufficientShares,
			"hold %d %s, selling %d", holding.Quantity, req.Symbol, req.Quantity)
	}

	holding.Quantity -= req.Quantity
	op := store.HoldingOpUpsert
	if holding.Quantity == 0 {
		op = store.HoldingOpDelete
	}

	return store.Commit{
		Owner:      req.Owner,
		NewBalance: account.Balance.Add(total),
		HoldingOp:  op,
		Holding:    holding,
		Order:      orderFor(req, total),
	}, nil
}

func orderFor(req Request, total decimal.Decimal) model.OrderRecord {
	return model.OrderRecord{
		Owner:    req.Owner,
		Symbol:   req.Symbol,
		Side:     req.Side,
		Quantity: req.Quantity,
		Price:    req.Price,
		Total:    total,
	}
}

// GetOrCreateAccount resolves the owner's account, seeding it on first
// access.
func (e *Engine) GetOrCreateAccount(ctx context.Context, owner string) (model.Account, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return model.Account{}, errors.Wrap(exception.ErrInvalidRequest, "owner is empty")
	}
	return e.store.GetOrCreateAccount(ctx, owner)
}

// PortfolioSnapshot composes balance, holdings and recent orders. Reads
// only; the view is consistent enough for display, not linearizable.
func (e *Engine) PortfolioSnapshot(ctx context.Context, owner string) (Snapshot, error) {
	account, err := e.GetOrCreateAccount(ctx, owner)
	if err != nil {
		return Snapshot{}, err
	}

	holdings, err := e.store.ListHoldings(ctx, account.Owner, recentLimit)
	if err != nil {
		return Snapshot{}, err
	}

	orders, err := e.store.ListOrders(ctx, account.Owner, recentLimit)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Owner:    account.Owner,
		Balance:  account.Balance,
		Holdings: holdings,
		Orders:   orders,
	}, nil
}
