// Package metrics 定义推荐引擎的 Prometheus 指标。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResolveTotal 按请求策略与实际策略统计请求数
	ResolveTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_resolve_total",
			Help: "Total number of recommendation resolutions",
		},
		[]string{"requested", "used"},
	)

	// ResolveErrors 统计失败的请求
	ResolveErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_resolve_errors_total",
			Help: "Total number of failed recommendation resolutions",
		},
		[]string{"reason"},
	)

	// FallbackTotal 统计降级到热门的次数
	FallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_fallback_total",
			Help: "Total number of fallbacks to popularity, by originating strategy",
		},
		[]string{"from"},
	)

	// PredictionsDropped 统计预测失败被丢弃的候选
	PredictionsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movierec_predictions_dropped_total",
			Help: "Total number of collaborative candidates dropped because no estimate was available",
		},
	)

	// ItemsFiltered 统计收尾阶段被过滤的物品
	ItemsFiltered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_items_filtered_total",
			Help: "Total number of candidates removed during finalization, by filter",
		},
		[]string{"filter"},
	)

	// ResolveDuration 是一次推荐的耗时
	ResolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_resolve_duration_seconds",
			Help:    "Duration of recommendation resolution in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"used"},
	)

	// ArtifactSize 是启动时加载的产物大小
	ArtifactSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "movierec_artifact_entries",
			Help: "Number of entries loaded per artifact",
		},
		[]string{"artifact"},
	)
)

// RecordResolve 记录一次成功的推荐。
func RecordResolve(requested, used string, fellBack bool, d time.Duration) {
	ResolveTotal.WithLabelValues(requested, used).Inc()
	ResolveDuration.WithLabelValues(used).Observe(d.Seconds())
	if fellBack {
		FallbackTotal.WithLabelValues(requested).Inc()
	}
}
