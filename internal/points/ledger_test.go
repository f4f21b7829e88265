package points_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccpk1/kidschores-ha-sub014/internal/points"
	"github.com/ccpk1/kidschores-ha-sub014/internal/store"
)

type fixedMultiplier struct {
	rate float64
}

func (m fixedMultiplier) CurrentMultiplier(string) float64 { return m.rate }

func TestAwardAppliesMultiplier(t *testing.T) {
	st := store.NewMemory()
	ledger := points.New(st, fixedMultiplier{rate: 1.25})

	total, balance := ledger.Award(context.Background(), "kid-1", "chore-1", 8, "chore approved")

	assert.Equal(t, 10.0, total)
	assert.Equal(t, 10.0, balance)
	assert.Equal(t, 10.0, ledger.Balance("kid-1"))
}

func TestAwardWithoutSourceUsesUnitMultiplier(t *testing.T) {
	ledger := points.New(store.NewMemory(), nil)

	total, _ := ledger.Award(context.Background(), "kid-1", "chore-1", 8, "chore approved")

	assert.Equal(t, 8.0, total)
}

func TestDeductIgnoresMultiplier(t *testing.T) {
	st := store.NewMemory()
	ledger := points.New(st, fixedMultiplier{rate: 2.0})

	total, _ := ledger.Award(context.Background(), "kid-1", "chore-1", 10, "chore approved")
	require.Equal(t, 20.0, total)

	balance := ledger.Deduct(context.Background(), "kid-1", "chore-1", total, "approval withdrawn")

	assert.Equal(t, 0.0, balance)
	assert.Equal(t, 0.0, ledger.Balance("kid-1"))
}

func TestEveryChangeAppendsAnEntry(t *testing.T) {
	st := store.NewMemory()
	ledger := points.New(st, nil)
	ctx := context.Background()

	ledger.Award(ctx, "kid-1", "chore-1", 5, "chore approved")
	ledger.Deduct(ctx, "kid-1", "chore-1", 5, "approval withdrawn")

	entries, err := st.LedgerByAssignee(ctx, "kid-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 5.0, entries[0].Delta)
	assert.Equal(t, -5.0, entries[1].Delta)
	assert.Equal(t, 0.0, entries[1].BalanceAfter)
}

func TestSeedBalances(t *testing.T) {
	ledger := points.New(store.NewMemory(), nil)

	ledger.SeedBalances(map[string]float64{"kid-1": 42, "kid-2": 7})

	assert.Equal(t, 42.0, ledger.Balance("kid-1"))
	assert.Equal(t, 7.0, ledger.Balance("kid-2"))
	assert.Equal(t, 0.0, ledger.Balance("kid-3"))
}
