// Package notification turns lifecycle events into outbound messages. The
// dispatcher subscribes to the event bus and forwards the events the chore
// has notifications enabled for; Sender is the delivery seam (the default
// sender only logs, a push/webhook sender can be swapped in).
package notification

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
	"github.com/ccpk1/kidschores-ha-sub014/internal/eventbus"
)

// Sender delivers a single rendered message.
type Sender interface {
	Send(assigneeID *string, subject, body string) error
}

// ChoreSource resolves chore configuration for notify toggles and titles.
type ChoreSource interface {
	ChoreByID(choreID string) (*domain.Chore, error)
}

// Dispatcher consumes lifecycle events and forwards the notifiable ones.
type Dispatcher struct {
	sender Sender
	chores ChoreSource
	bus    *eventbus.Bus

	subID  string
	events <-chan *domain.Event
	wg     sync.WaitGroup
}

func NewDispatcher(bus *eventbus.Bus, chores ChoreSource, sender Sender) *Dispatcher {
	if sender == nil {
		sender = LogSender{}
	}
	d := &Dispatcher{
		sender: sender,
		chores: chores,
		bus:    bus,
	}
	d.subID, d.events = bus.Subscribe(64)
	return d
}

// Run consumes events until Close is called.
func (d *Dispatcher) Run() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for event := range d.events {
			d.handle(event)
		}
	}()
}

// Close unsubscribes and waits for in-flight deliveries.
func (d *Dispatcher) Close() {
	d.bus.Unsubscribe(d.subID)
	d.wg.Wait()
}

func (d *Dispatcher) handle(event *domain.Event) {
	chore, err := d.chores.ChoreByID(event.ChoreID)
	if err != nil {
		return
	}

	var subject, body string
	switch event.Type {
	case domain.EventClaimed:
		if !chore.NotifyOnClaim {
			return
		}
		subject = fmt.Sprintf("%s claimed", chore.Title)
		body = "Waiting for approval."
	case domain.EventApproved:
		if !chore.NotifyOnApproval {
			return
		}
		subject = fmt.Sprintf("%s approved", chore.Title)
		if event.Points != nil {
			body = fmt.Sprintf("%.1f points awarded.", *event.Points)
		}
	case domain.EventOverdueEntered:
		if !chore.NotifyOnOverdue {
			return
		}
		subject = fmt.Sprintf("%s is overdue", chore.Title)
		body = "The due date has passed."
	default:
		return
	}

	if err := d.sender.Send(event.AssigneeID, subject, body); err != nil {
		slog.Error("failed to send notification",
			"chore_id", event.ChoreID,
			"type", event.Type,
			"error", err,
		)
	}
}

// LogSender writes notifications to the structured log. It is the default
// delivery channel when no external sender is configured.
type LogSender struct{}

func (LogSender) Send(assigneeID *string, subject, body string) error {
	attrs := []any{"subject", subject, "body", body}
	if assigneeID != nil {
		attrs = append(attrs, "assignee_id", *assigneeID)
	}
	slog.Info("notification", attrs...)
	return nil
}
