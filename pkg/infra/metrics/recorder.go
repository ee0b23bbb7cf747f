// 指示: miu200521358
// Package metrics はリグ合成の計測値をPrometheusへ記録する。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultNamespace = "mu_ctrlrig"
	defaultSubsystem = "synthesis"
)

// Recorder はリグ合成の計測値を保持する。
type Recorder struct {
	namespace string
	subsystem string
	buckets   []float64
	registry  prometheus.Registerer

	classifiedJoints *prometheus.CounterVec
	groupsBuilt      *prometheus.CounterVec
	controlsCreated  prometheus.Counter
	controlsSkipped  prometheus.Counter
	graphNodes       prometheus.Counter
	diagnostics      *prometheus.CounterVec
	shapeCache       *prometheus.CounterVec
	synthesisTime    prometheus.Histogram
}

// Option は Recorder の生成オプションを表す。
type Option func(*Recorder)

// WithRegistry は登録先レジストリを指定する。
func WithRegistry(registry prometheus.Registerer) Option {
	return func(r *Recorder) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// WithNamespace は名前空間を指定する。
func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// WithBuckets は合成時間ヒストグラムのバケットを指定する。
func WithBuckets(buckets []float64) Option {
	return func(r *Recorder) {
		if len(buckets) > 0 {
			r.buckets = buckets
		}
	}
}

// NewRecorder は Recorder を生成してレジストリへ登録する。
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: defaultNamespace,
		subsystem: defaultSubsystem,
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.initialize()
	return r
}

// initialize は計測値を生成する。
func (r *Recorder) initialize() {
	auto := promauto.With(r.registry)
	r.classifiedJoints = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "classified_joints_total",
		Help:      "Number of joints classified per label",
	}, []string{"label"})
	r.groupsBuilt = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "space_groups_total",
		Help:      "Number of space groups built",
	}, []string{"kind"})
	r.controlsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "controls_created_total",
		Help:      "Number of controls created in the rig hierarchy",
	})
	r.controlsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "controls_skipped_total",
		Help:      "Number of controls skipped because they already existed",
	})
	r.graphNodes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "graph_nodes_created_total",
		Help:      "Number of graph nodes created from templates",
	})
	r.diagnostics = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "diagnostics_total",
		Help:      "Number of diagnostics reported per warning id",
	}, []string{"id"})
	r.shapeCache = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "shape_cache_lookups_total",
		Help:      "Number of shape cache lookups per result",
	}, []string{"result"})
	r.synthesisTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: r.subsystem,
		Name:      "duration_seconds",
		Help:      "Duration of a rig synthesis run",
		Buckets:   r.buckets,
	})
}

// RecordClassification は分類結果件数を記録する。
func (r *Recorder) RecordClassification(label string, count int) {
	if r == nil || count <= 0 {
		return
	}
	r.classifiedJoints.WithLabelValues(label).Add(float64(count))
}

// RecordGroup は構築したスペースグループを記録する。
func (r *Recorder) RecordGroup(kind string) {
	if r == nil {
		return
	}
	r.groupsBuilt.WithLabelValues(kind).Inc()
}

// RecordControls は作成/スキップしたコントロール数を記録する。
func (r *Recorder) RecordControls(created, skipped int) {
	if r == nil {
		return
	}
	if created > 0 {
		r.controlsCreated.Add(float64(created))
	}
	if skipped > 0 {
		r.controlsSkipped.Add(float64(skipped))
	}
}

// RecordGraphNodes は作成したグラフノード数を記録する。
func (r *Recorder) RecordGraphNodes(count int) {
	if r == nil || count <= 0 {
		return
	}
	r.graphNodes.Add(float64(count))
}

// RecordDiagnostic は診断を記録する。
func (r *Recorder) RecordDiagnostic(id string) {
	if r == nil {
		return
	}
	r.diagnostics.WithLabelValues(id).Inc()
}

// RecordShapeCache は形状キャッシュの参照結果を記録する。
func (r *Recorder) RecordShapeCache(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.shapeCache.WithLabelValues(result).Inc()
}

// ObserveSynthesis は合成処理時間を記録する。
func (r *Recorder) ObserveSynthesis(elapsed time.Duration) {
	if r == nil {
		return
	}
	r.synthesisTime.Observe(elapsed.Seconds())
}
