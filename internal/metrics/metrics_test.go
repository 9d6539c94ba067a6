package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmursyidd/pesanin/internal/domain"
	"github.com/mmursyidd/pesanin/internal/pubsub"
)

func newAttached(t *testing.T) (*Collector, *pubsub.Bus) {
	t.Helper()
	bus := pubsub.New()
	c := NewCollector(prometheus.NewRegistry())
	c.Attach(bus)
	return c, bus
}

func TestConnectionsGauge(t *testing.T) {
	c, bus := newAttached(t)

	bus.Publish(domain.EventConnectionOpened, "conn-1")
	bus.Publish(domain.EventConnectionOpened, "conn-2")
	bus.Publish(domain.EventConnectionClosed, "+15550001")

	if got := testutil.ToFloat64(c.connectionsLive); got != 1 {
		t.Errorf("connectionsLive = %v, want 1", got)
	}
}

func TestFrameCounters(t *testing.T) {
	c, bus := newAttached(t)

	bus.Publish(domain.EventFrameReceived, "auth")
	bus.Publish(domain.EventFrameReceived, "auth")
	bus.Publish(domain.EventFrameReceived, "message:send")
	bus.Publish(domain.EventFrameDropped, domain.DropPremature)

	if got := testutil.ToFloat64(c.framesReceived.WithLabelValues("auth")); got != 2 {
		t.Errorf("framesReceived{auth} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.framesDropped.WithLabelValues(domain.DropPremature)); got != 1 {
		t.Errorf("framesDropped{premature} = %v, want 1", got)
	}
}

func TestRelayCounters(t *testing.T) {
	c, bus := newAttached(t)

	bus.Publish(domain.EventMessageAppended, "a|b")
	bus.Publish(domain.EventChatOpened, "a|b")
	bus.Publish(domain.EventDeliveryDropped, "+15550002")

	if got := testutil.ToFloat64(c.messagesAppended); got != 1 {
		t.Errorf("messagesAppended = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.chatsOpened); got != 1 {
		t.Errorf("chatsOpened = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.deliveriesDropped); got != 1 {
		t.Errorf("deliveriesDropped = %v, want 1", got)
	}
}

func TestDetachStopsObserving(t *testing.T) {
	c, bus := newAttached(t)

	bus.Publish(domain.EventMessageAppended, "a|b")
	c.Detach(bus)
	bus.Publish(domain.EventMessageAppended, "a|b")

	if got := testutil.ToFloat64(c.messagesAppended); got != 1 {
		t.Errorf("messagesAppended after detach = %v, want 1", got)
	}
}
