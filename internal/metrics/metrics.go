package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mmursyidd/pesanin/internal/domain"
	"github.com/mmursyidd/pesanin/internal/pubsub"
)

// Collector owns the relay's Prometheus series. It observes the relay
// purely through bus events, so the dispatch path carries no metrics
// dependency.
type Collector struct {
	framesReceived    *prometheus.CounterVec
	framesDropped     *prometheus.CounterVec
	messagesAppended  prometheus.Counter
	chatsOpened       prometheus.Counter
	deliveriesDropped prometheus.Counter
	connectionsLive   prometheus.Gauge

	tokens []pubsub.Token
}

// NewCollector registers the relay series with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		framesReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_frames_received_total",
			Help: "Inbound frames by frame type.",
		}, []string{"type"}),
		framesDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_frames_dropped_total",
			Help: "Silently dropped inbound frames by reason.",
		}, []string{"reason"}),
		messagesAppended: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_messages_appended_total",
			Help: "Messages appended to conversation logs.",
		}),
		chatsOpened: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_chats_opened_total",
			Help: "chat:open frames that marked messages read.",
		}),
		deliveriesDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_deliveries_dropped_total",
			Help: "Fan-out deliveries skipped for lack of a sendable connection.",
		}),
		connectionsLive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "relay_connections_live",
			Help: "Currently open websocket connections.",
		}),
	}
}

// Attach subscribes the collector to every relay event kind it tracks
func (c *Collector) Attach(bus *pubsub.Bus) {
	sub := func(kind pubsub.EventKind, h pubsub.Handler) {
		c.tokens = append(c.tokens, bus.Subscribe(kind, h))
	}

	sub(domain.EventConnectionOpened, func(any) {
		c.connectionsLive.Inc()
	})
	sub(domain.EventConnectionClosed, func(any) {
		c.connectionsLive.Dec()
	})
	sub(domain.EventFrameReceived, func(payload any) {
		if t, ok := payload.(string); ok {
			c.framesReceived.WithLabelValues(t).Inc()
		}
	})
	sub(domain.EventFrameDropped, func(payload any) {
		if reason, ok := payload.(string); ok {
			c.framesDropped.WithLabelValues(reason).Inc()
		}
	})
	sub(domain.EventMessageAppended, func(any) {
		c.messagesAppended.Inc()
	})
	sub(domain.EventChatOpened, func(any) {
		c.chatsOpened.Inc()
	})
	sub(domain.EventDeliveryDropped, func(any) {
		c.deliveriesDropped.Inc()
	})
}

// Detach removes every subscription made by Attach
func (c *Collector) Detach(bus *pubsub.Bus) {
	for _, t := range c.tokens {
		bus.Unsubscribe(t)
	}
	c.tokens = nil
}
