package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus 指标定义
var (
	// HTTP 请求相关指标
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时分布",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// 数据库相关指标
	dbConnectionsInUse = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_in_use",
			Help: "当前使用中的数据库连接数",
		},
	)

	// 审核相关指标
	moderationDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_decisions_total",
			Help: "自动审核决策总数",
		},
		[]string{"type", "decision"},
	)

	moderationPipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moderation_pipeline_duration_seconds",
			Help:    "审核流水线耗时分布",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
		},
		[]string{"type"},
	)

	providerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_provider_requests_total",
			Help: "外部审核服务调用总数",
		},
		[]string{"endpoint", "status"},
	)

	providerRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moderation_provider_duration_seconds",
			Help:    "外部审核服务调用耗时分布",
			Buckets: []float64{0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 100.0},
		},
		[]string{"endpoint"},
	)

	moderationQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moderation_queue_depth",
			Help: "待执行的审核任务数",
		},
	)

	// 缓存相关指标
	redisCacheHitRate = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "redis_cache_hit_rate",
			Help: "Redis缓存命中率",
		},
		[]string{"cache_type"},
	)
)

// PrometheusMiddleware Gin中间件，用于收集HTTP指标
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			statusCode,
		).Inc()

		httpRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

// RecordModerationDecision 记录一次审核决策
func RecordModerationDecision(moderationType, decision string) {
	moderationDecisionsTotal.WithLabelValues(moderationType, decision).Inc()
}

// RecordPipelineDuration 记录审核流水线耗时
func RecordPipelineDuration(moderationType string, duration time.Duration) {
	moderationPipelineDuration.WithLabelValues(moderationType).Observe(duration.Seconds())
}

// RecordProviderRequest 记录外部服务调用
func RecordProviderRequest(endpoint, status string, duration time.Duration) {
	providerRequestsTotal.WithLabelValues(endpoint, status).Inc()
	providerRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// UpdateModerationQueueDepth 更新审核队列深度
func UpdateModerationQueueDepth(depth int) {
	moderationQueueDepth.Set(float64(depth))
}

// UpdateDBConnections 更新数据库连接数
func UpdateDBConnections(inUse int) {
	dbConnectionsInUse.Set(float64(inUse))
}

// UpdateCacheHitRate 更新缓存命中率
func UpdateCacheHitRate(cacheType string, hitRate float64) {
	redisCacheHitRate.WithLabelValues(cacheType).Set(hitRate)
}
