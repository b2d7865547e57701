package hostsrv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_DeliversToSubscriber(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	require.Eventually(t, func() bool { return b.SubscriberCount() == 1 }, time.Second, time.Millisecond)

	b.Broadcast(BroadcastEvent{Type: EventState, Data: map[string]interface{}{"pc": 32}})

	select {
	case event := <-ch:
		assert.Equal(t, EventState, event.Type)
		assert.Equal(t, 32, event.Data["pc"])
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast event")
	}
}

func TestBroadcaster_FanOutToMultipleSubscribers(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	a, c := b.Subscribe(), b.Subscribe()
	require.Eventually(t, func() bool { return b.SubscriberCount() == 2 }, time.Second, time.Millisecond)

	b.Broadcast(BroadcastEvent{Type: EventOutput, Data: map[string]interface{}{"text": "hi"}})

	for _, ch := range []chan BroadcastEvent{a, c} {
		select {
		case event := <-ch:
			assert.Equal(t, "hi", event.Data["text"])
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for fan-out event")
		}
	}
}

func TestBroadcaster_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	ch := b.Subscribe()
	require.Eventually(t, func() bool { return b.SubscriberCount() == 1 }, time.Second, time.Millisecond)

	b.Unsubscribe(ch)
	require.Eventually(t, func() bool { return b.SubscriberCount() == 0 }, time.Second, time.Millisecond)

	_, ok := <-ch
	assert.False(t, ok)
}
