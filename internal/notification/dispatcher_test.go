package notification_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
	"github.com/ccpk1/kidschores-ha-sub014/internal/eventbus"
	"github.com/ccpk1/kidschores-ha-sub014/internal/notification"
)

type fakeChores struct {
	chore *domain.Chore
}

func (f fakeChores) ChoreByID(choreID string) (*domain.Chore, error) {
	if f.chore != nil && f.chore.ID == choreID {
		return f.chore, nil
	}
	return nil, domain.ErrChoreNotFound
}

type capturingSender struct {
	mu       sync.Mutex
	subjects []string
}

func (c *capturingSender) Send(_ *string, subject, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subjects = append(c.subjects, subject)
	return nil
}

func (c *capturingSender) Subjects() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.subjects...)
}

func TestDispatcherForwardsEnabledEvents(t *testing.T) {
	bus := eventbus.New()
	chore := &domain.Chore{ID: "chore-1", Title: "dishes", NotifyOnClaim: true, NotifyOnApproval: true}
	sender := &capturingSender{}

	d := notification.NewDispatcher(bus, fakeChores{chore: chore}, sender)
	d.Run()

	kid := "kid-1"
	bus.Publish(&domain.Event{ChoreID: "chore-1", AssigneeID: &kid, Type: domain.EventClaimed})
	bus.Publish(&domain.Event{ChoreID: "chore-1", AssigneeID: &kid, Type: domain.EventApproved})
	d.Close()

	assert.Equal(t, []string{"dishes claimed", "dishes approved"}, sender.Subjects())
}

func TestDispatcherHonorsNotifyToggles(t *testing.T) {
	bus := eventbus.New()
	chore := &domain.Chore{ID: "chore-1", Title: "dishes", NotifyOnOverdue: true}
	sender := &capturingSender{}

	d := notification.NewDispatcher(bus, fakeChores{chore: chore}, sender)
	d.Run()

	kid := "kid-1"
	bus.Publish(&domain.Event{ChoreID: "chore-1", AssigneeID: &kid, Type: domain.EventClaimed})
	bus.Publish(&domain.Event{ChoreID: "chore-1", AssigneeID: &kid, Type: domain.EventOverdueEntered})
	bus.Publish(&domain.Event{ChoreID: "chore-1", AssigneeID: &kid, Type: domain.EventReset})
	d.Close()

	assert.Equal(t, []string{"dishes is overdue"}, sender.Subjects())
}

func TestDispatcherIgnoresUnknownChores(t *testing.T) {
	bus := eventbus.New()
	sender := &capturingSender{}

	d := notification.NewDispatcher(bus, fakeChores{}, sender)
	d.Run()

	kid := "kid-1"
	bus.Publish(&domain.Event{ChoreID: "gone", AssigneeID: &kid, Type: domain.EventClaimed})
	d.Close()

	assert.Empty(t, sender.Subjects())
}
