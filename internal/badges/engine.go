// Package badges is the badge/rank collaborator. It consumes lifecycle
// events to track per-assignee approval streaks and exposes the
// CurrentMultiplier query consumed by the points ledger. It never calls back
// into the orchestrator.
package badges

import (
	"sync"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
	"github.com/ccpk1/kidschores-ha-sub014/internal/eventbus"
)

// Multiplier tiers by streak length.
const (
	streakBronze = 3
	streakSilver = 7
	streakGold   = 14
	streakMax    = 30
)

// Engine tracks approval streaks. An approval extends the streak; entering
// overdue breaks it.
type Engine struct {
	mu      sync.RWMutex
	streaks map[string]int

	subID string
	bus   *eventbus.Bus
	done  chan struct{}
}

// New creates an Engine subscribed to the bus and starts consuming events.
func New(bus *eventbus.Bus) *Engine {
	e := &Engine{
		streaks: make(map[string]int),
		bus:     bus,
		done:    make(chan struct{}),
	}
	var ch <-chan *domain.Event
	e.subID, ch = bus.Subscribe(64)
	go e.consume(ch)
	return e
}

func (e *Engine) consume(ch <-chan *domain.Event) {
	defer close(e.done)
	for event := range ch {
		if event.AssigneeID == nil {
			continue
		}
		switch event.Type {
		case domain.EventApproved:
			e.mu.Lock()
			e.streaks[*event.AssigneeID]++
			e.mu.Unlock()
		case domain.EventOverdueEntered:
			e.mu.Lock()
			e.streaks[*event.AssigneeID] = 0
			e.mu.Unlock()
		}
	}
}

// Close unsubscribes from the bus and waits for the consumer to stop.
func (e *Engine) Close() {
	e.bus.Unsubscribe(e.subID)
	<-e.done
}

// Streak returns the assignee's current approval streak.
func (e *Engine) Streak(assigneeID string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.streaks[assigneeID]
}

// CurrentMultiplier returns the points multiplier for the assignee's streak
// tier.
func (e *Engine) CurrentMultiplier(assigneeID string) float64 {
	streak := e.Streak(assigneeID)
	switch {
	case streak >= streakMax:
		return 2.0
	case streak >= streakGold:
		return 1.5
	case streak >= streakSilver:
		return 1.25
	case streak >= streakBronze:
		return 1.1
	default:
		return 1.0
	}
}
