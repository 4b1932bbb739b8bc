package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector exposes the relay and board metrics. Methods are safe on a nil
// receiver so components can run without metrics wired in.
type Collector struct {
	peersConnected prometheus.Gauge
	sessionsActive prometheus.Gauge

	payloadsRelayed prometheus.Counter
	fanoutSize      prometheus.Histogram

	boardsCreated   prometheus.Counter
	canvasSaves     prometheus.Counter
	storeOpDuration *prometheus.HistogramVec

	sessionPeerCount *prometheus.GaugeVec
}

func NewCollector() *Collector {
	return &Collector{
		peersConnected: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "drawnet_peers_connected_total",
			Help: "Number of currently connected peers",
		}),

		sessionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "drawnet_sessions_active_total",
			Help: "Number of sessions with at least one connected peer",
		}),

		payloadsRelayed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "drawnet_payloads_relayed_total",
			Help: "Total number of payloads relayed between peers",
		}),

		fanoutSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "drawnet_relay_fanout_size",
			Help:    "Number of recipients per relayed payload",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),

		boardsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "drawnet_boards_created_total",
			Help: "Total number of whiteboard sessions created",
		}),

		canvasSaves: promauto.NewCounter(prometheus.CounterOpts{
			Name: "drawnet_canvas_saves_total",
			Help: "Total number of canvas state saves",
		}),

		storeOpDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "drawnet_store_operation_duration_seconds",
			Help:    "Duration of session store operations",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"operation"}),

		sessionPeerCount: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "drawnet_session_peer_count",
			Help: "Number of peers in each session",
		}, []string{"session_id"}),
	}
}

func (c *Collector) PeerJoined(sessionID string, activeSessions int) {
	if c == nil {
		return
	}
	c.peersConnected.Inc()
	c.sessionsActive.Set(float64(activeSessions))
	c.sessionPeerCount.WithLabelValues(sessionID).Inc()
}

func (c *Collector) PeerLeft(sessionID string, activeSessions int) {
	if c == nil {
		return
	}
	c.peersConnected.Dec()
	c.sessionsActive.Set(float64(activeSessions))
	c.sessionPeerCount.WithLabelValues(sessionID).Dec()
}

// SessionClosed drops per-session series once the last peer is gone.
func (c *Collector) SessionClosed(sessionID string) {
	if c == nil {
		return
	}
	c.sessionPeerCount.DeleteLabelValues(sessionID)
}

func (c *Collector) PayloadRelayed(sessionID string, recipients int) {
	if c == nil {
		return
	}
	c.payloadsRelayed.Inc()
	c.fanoutSize.Observe(float64(recipients))
}

func (c *Collector) BoardCreated() {
	if c == nil {
		return
	}
	c.boardsCreated.Inc()
}

func (c *Collector) CanvasSaved() {
	if c == nil {
		return
	}
	c.canvasSaves.Inc()
}

func (c *Collector) ObserveStoreOperation(operation string, duration time.Duration) {
	if c == nil {
		return
	}
	c.storeOpDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
