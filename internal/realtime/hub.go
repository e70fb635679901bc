// Package realtime pushes typed event frames to websocket subscribers,
// independent of the request/response API.
package realtime

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/chittyapps/chittyinsight/internal/events"
	"github.com/chittyapps/chittyinsight/internal/logger"
	"github.com/chittyapps/chittyinsight/pkg/types"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // single-tenant console, same policy as the HTTP CORS layer
	},
}

var (
	framesPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chittyinsight_realtime_frames_published_total",
		Help: "Frames published to the realtime bus, by frame type.",
	}, []string{"type"})
	activeConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chittyinsight_realtime_connections",
		Help: "Currently connected realtime subscribers.",
	})
)

// Hub broadcasts frames to every connected websocket client.
type Hub struct {
	bus *events.Bus[types.Frame]
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{bus: events.NewBus[types.Frame](events.DefaultBuffer)}
}

// Publish marshals data and fans a frame out to all subscribers. Marshal
// failures are logged and dropped; a push frame is never worth failing the
// originating request over.
func (h *Hub) Publish(frameType string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		logger.Logger.Warn().Err(err).Str("type", frameType).Msg("failed to marshal realtime frame")
		return
	}
	framesPublished.WithLabelValues(frameType).Inc()
	h.bus.Publish(types.Frame{
		Type:      frameType,
		Data:      payload,
		Timestamp: time.Now(),
	})
}

// Subscribers reports the number of connected clients.
func (h *Hub) Subscribers() int { return h.bus.Len() }

// Close disconnects every subscriber.
func (h *Hub) Close() { h.bus.Close() }

// Handler upgrades the request to a websocket and streams frames until the
// client goes away.
func (h *Hub) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// upgrader.Upgrade already wrote the error response
			return
		}
		defer conn.Close()

		activeConnections.Inc()
		defer activeConnections.Dec()

		frames, cancel := h.bus.Subscribe()
		defer cancel()

		// Read pump: inbound frames are accepted but carry no server-side
		// semantics yet; the read loop exists to notice the close.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.NextReader(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case frame, ok := <-frames:
				if !ok {
					return
				}
				if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
					return
				}
				if err := conn.WriteJSON(frame); err != nil {
					logger.Logger.Debug().Err(err).Msg("realtime subscriber write failed")
					return
				}
			case <-done:
				return
			}
		}
	}
}
