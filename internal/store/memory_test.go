package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/model"
	"main/internal/model/enum"
	"main/pkg/exception"
)

func seed(t *testing.T) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString("100000.00")
}

func TestMemoryGetOrCreateAccount(t *testing.T) {
	mem := NewMemory(seed(t))

	first, err := mem.GetOrCreateAccount(t.Context(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", first.Owner)
	assert.Equal(t, "100000.00", first.Balance.StringFixed(2))

	second, err := mem.GetOrCreateAccount(t.Context(), "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	other, err := mem.GetOrCreateAccount(t.Context(), "bob")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestMemoryCommitAppliesAllThreeMutations(t *testing.T) {
	mem := NewMemory(seed(t))
	_, err := mem.GetOrCreateAccount(t.Context(), "alice")
	require.NoError(t, err)

	record, err := mem.Commit(t.Context(), Commit{
		Owner:      "alice",
		NewBalance: decimal.RequireFromString("97545.00"),
		HoldingOp:  HoldingOpUpsert,
		Holding:    model.Holding{Owner: "alice", Symbol: "GP", Quantity: 10, AvgPrice: decimal.RequireFromString("245.50")},
		Order: model.OrderRecord{
			Owner: "alice", Symbol: "GP", Side: enum.SideBuy,
			Quantity: 10,
			Price:    decimal.RequireFromString("245.50"),
			Total:    decimal.RequireFromString("2455.00"),
		},
	})
	require.NoError(t, err)
	assert.NotZero(t, record.ID)
	assert.False(t, record.Timestamp.IsZero())

	account, err := mem.GetOrCreateAccount(t.Context(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "97545.00", account.Balance.StringFixed(2))

	holding, ok, err := mem.GetHolding(t.Context(), "alice", "GP")
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 10, holding.Quantity)

	orders, err := mem.ListOrders(t.Context(), "alice", 0)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, record.ID, orders[0].ID)
}

func TestMemoryCommitRejectsUnknownAccount(t *testing.T) {
	mem := NewMemory(seed(t))

	_, err := mem.Commit(t.Context(), Commit{
		Owner:      "ghost",
		NewBalance: decimal.Zero,
		HoldingOp:  HoldingOpUpsert,
	})
	require.ErrorIs(t, err, exception.ErrStorage)
}

func TestMemoryCommitRejectsBadHoldingOp(t *testing.T) {
	mem := NewMemory(seed(t))
	_, err := mem.GetOrCreateAccount(t.Context(), "alice")
	require.NoError(t, err)

	_, err = mem.Commit(t.Context(), Commit{Owner: "alice"})
	require.ErrorIs(t, err, exception.ErrStorage)
}

func TestMemoryHoldingDelete(t *testing.T) {
	mem := NewMemory(seed(t))
	_, err := mem.GetOrCreateAccount(t.Context(), "alice")
	require.NoError(t, err)

	_, err = mem.Commit(t.Context(), Commit{
		Owner:      "alice",
		NewBalance: seed(t),
		HoldingOp:  HoldingOpUpsert,
		Holding:    model.Holding{Owner: "alice", Symbol: "GP", Quantity: 5, AvgPrice: decimal.RequireFromString("10.00")},
		Order:      model.OrderRecord{Owner: "alice", Symbol: "GP", Side: enum.SideBuy, Quantity: 5},
	})
	require.NoError(t, err)

	_, err = mem.Commit(t.Context(), Commit{
		Owner:      "alice",
		NewBalance: seed(t),
		HoldingOp:  HoldingOpDelete,
		Holding:    model.Holding{Owner: "alice", Symbol: "GP"},
		Order:      model.OrderRecord{Owner: "alice", Symbol: "GP", Side: enum.SideSell, Quantity: 5},
	})
	require.NoError(t, err)

	_, ok, err := mem.GetHolding(t.Context(), "alice", "GP")
	require.NoError(t, err)
	assert.False(t, ok)

	holdings, err := mem.ListHoldings(t.Context(), "alice", 0)
	require.NoError(t, err)
	assert.Empty(t, holdings)
}

func TestMemoryListOrdersNewestFirst(t *testing.T) {
	mem := NewMemory(seed(t))
	_, err := mem.GetOrCreateAccount(t.Context(), "alice")
	require.NoError(t, err)

	for i := range 3 {
		_, err := mem.Commit(t.Context(), Commit{
			Owner:      "alice",
			NewBalance: seed(t),
			HoldingOp:  HoldingOpUpsert,
			Holding:    model.Holding{Owner: "alice", Symbol: "GP", Quantity: int64(i + 1), AvgPrice: decimal.RequireFromString("10.00")},
			Order:      model.OrderRecord{Owner: "alice", Symbol: "GP", Side: enum.SideBuy, Quantity: 1},
		})
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	orders, err := mem.ListOrders(t.Context(), "alice", 2)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Greater(t, orders[0].ID, orders[1].ID)
	assert.False(t, orders[0].Timestamp.Before(orders[1].Timestamp))
}

func TestMemoryListHoldingsMostRecentlyUpdatedFirst(t *testing.T) {
	mem := NewMemory(seed(t))
	_, err := mem.GetOrCreateAccount(t.Context(), "alice")
	require.NoError(t, err)

	for _, symbol := range []string{"GP", "ACI", "EBL"} {
		_, err := mem.Commit(t.Context(), Commit{
			Owner:      "alice",
			NewBalance: seed(t),
			HoldingOp:  HoldingOpUpsert,
			Holding:    model.Holding{Owner: "alice", Symbol: symbol, Quantity: 1, AvgPrice: decimal.RequireFromString("10.00")},
			Order:      model.OrderRecord{Owner: "alice", Symbol: symbol, Side: enum.SideBuy, Quantity: 1},
		})
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	holdings, err := mem.ListHoldings(t.Context(), "alice", 0)
	require.NoError(t, err)
	require.Len(t, holdings, 3)
	assert.Equal(t, "EBL", holdings[0].Symbol)
	assert.Equal(t, "GP", holdings[2].Symbol)
}
