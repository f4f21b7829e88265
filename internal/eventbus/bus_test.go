package eventbus_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
	"github.com/ccpk1/kidschores-ha-sub014/internal/eventbus"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	bus := eventbus.New()
	_, ch1 := bus.Subscribe(4)
	_, ch2 := bus.Subscribe(4)

	bus.Publish(&domain.Event{ID: "e1", Type: domain.EventClaimed})

	for _, ch := range []<-chan *domain.Event{ch1, ch2} {
		select {
		case event := <-ch:
			assert.Equal(t, "e1", event.ID)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	bus := eventbus.New()
	_, ch := bus.Subscribe(1)

	bus.Publish(&domain.Event{ID: "e1"})
	bus.Publish(&domain.Event{ID: "e2"}) // buffer full, dropped

	event := <-ch
	assert.Equal(t, "e1", event.ID)
	select {
	case event := <-ch:
		t.Fatalf("unexpected event %s", event.ID)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := eventbus.New()
	id, ch := bus.Subscribe(1)

	bus.Unsubscribe(id)

	_, open := <-ch
	require.False(t, open)

	// Publishing after unsubscribe must not panic.
	bus.Publish(&domain.Event{ID: "e1"})
}
