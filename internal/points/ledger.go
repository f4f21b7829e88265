// Package points is the points-ledger collaborator: it turns approvals into
// balance changes, applying the multiplier queried from the badge engine.
package points

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
	"github.com/ccpk1/kidschores-ha-sub014/internal/store"
)

// MultiplierSource is the narrow query interface the badge/rank engine
// exposes back to the ledger. The multiplier is consumed at award time, never
// computed here.
type MultiplierSource interface {
	CurrentMultiplier(assigneeID string) float64
}

// Ledger tracks per-assignee balances. Balances are authoritative in memory;
// every change appends a persisted ledger entry.
type Ledger struct {
	mu       sync.Mutex
	store    store.Store
	source   MultiplierSource
	now      func() time.Time
	balances map[string]float64
}

// New creates a Ledger. A nil source means multiplier 1.0.
func New(st store.Store, source MultiplierSource) *Ledger {
	return &Ledger{
		store:    st,
		source:   source,
		now:      time.Now,
		balances: make(map[string]float64),
	}
}

// SeedBalances installs the balances loaded from the store snapshot.
func (l *Ledger) SeedBalances(balances map[string]float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, b := range balances {
		l.balances[id] = b
	}
}

// Award credits base points times the assignee's current multiplier and
// returns the credited total and the new balance.
func (l *Ledger) Award(ctx context.Context, assigneeID, choreID string, base float64, reason string) (float64, float64) {
	mult := 1.0
	if l.source != nil {
		mult = l.source.CurrentMultiplier(assigneeID)
	}
	total := base * mult

	l.mu.Lock()
	l.balances[assigneeID] += total
	balance := l.balances[assigneeID]
	l.mu.Unlock()

	l.append(ctx, assigneeID, choreID, total, mult, balance, reason)
	return total, balance
}

// Deduct debits points from the assignee, used by compensating flows such as
// disapproving a prior approval. The multiplier was already baked into the
// amount at award time.
func (l *Ledger) Deduct(ctx context.Context, assigneeID, choreID string, amount float64, reason string) float64 {
	l.mu.Lock()
	l.balances[assigneeID] -= amount
	balance := l.balances[assigneeID]
	l.mu.Unlock()

	l.append(ctx, assigneeID, choreID, -amount, 1.0, balance, reason)
	return balance
}

// Balance returns the assignee's current balance.
func (l *Ledger) Balance(assigneeID string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[assigneeID]
}

func (l *Ledger) append(ctx context.Context, assigneeID, choreID string, delta, mult, balance float64, reason string) {
	entry := &domain.LedgerEntry{
		ID:           uuid.New().String(),
		AssigneeID:   assigneeID,
		ChoreID:      choreID,
		Delta:        delta,
		Multiplier:   mult,
		BalanceAfter: balance,
		Reason:       reason,
		CreatedAt:    l.now().UTC(),
	}
	// In-memory balance stays authoritative even if the append fails.
	if err := l.store.AppendLedger(ctx, entry); err != nil {
		slog.Error("failed to append ledger entry",
			"assignee_id", assigneeID,
			"chore_id", choreID,
			"delta", delta,
			"error", err,
		)
	}
}
