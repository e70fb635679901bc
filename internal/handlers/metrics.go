package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chittyapps/chittyinsight/pkg/types"
)

// MetricStore captures the store operations required by metric handlers.
type MetricStore interface {
	ListSystemMetrics(ctx context.Context, metricType string, limit int) ([]*types.SystemMetric, error)
	CreateSystemMetric(ctx context.Context, in types.NewSystemMetric) (*types.SystemMetric, error)
}

// CreateMetricRequest is the metric creation body. The metric type is a
// free string (health_score, processing_speed, ...).
type CreateMetricRequest struct {
	MetricType string  `json:"metricType" binding:"required"`
	Value      string  `json:"value" binding:"required,decimal"`
	Unit       *string `json:"unit"`
}

// ListMetricsHandler handles GET /api/metrics?type=&limit=.
func ListMetricsHandler(store MetricStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics, err := store.ListSystemMetrics(c.Request.Context(), c.Query("type"), parseLimit(c))
		if err != nil {
			internalError(c, "fetch metrics", err)
			return
		}
		c.JSON(http.StatusOK, metrics)
	}
}

// CreateMetricHandler handles POST /api/metrics.
func CreateMetricHandler(store MetricStore, pub Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateMetricRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidBody(c, "metric", err)
			return
		}
		metric, err := store.CreateSystemMetric(c.Request.Context(), types.NewSystemMetric{
			MetricType: req.MetricType,
			Value:      req.Value,
			Unit:       req.Unit,
		})
		if err != nil {
			internalError(c, "create metric", err)
			return
		}
		publish(pub, "metric_created", metric)
		c.JSON(http.StatusCreated, metric)
	}
}
