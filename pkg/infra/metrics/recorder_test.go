// 指示: miu200521358
package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCounts(t *testing.T) {
	registry := prometheus.NewRegistry()
	r := NewRecorder(WithRegistry(registry))

	r.RecordClassification("secondary", 3)
	r.RecordClassification("secondary", 2)
	r.RecordClassification("helper", 0)
	r.RecordGroup("secondary")
	r.RecordGroup("weapon")
	r.RecordGroup("weapon")
	r.RecordControls(4, 1)
	r.RecordGraphNodes(6)
	r.RecordDiagnostic("31001")
	r.RecordShapeCache(true)
	r.RecordShapeCache(false)
	r.RecordShapeCache(false)
	r.ObserveSynthesis(150 * time.Millisecond)

	if got := testutil.ToFloat64(r.classifiedJoints.WithLabelValues("secondary")); got != 5 {
		t.Fatalf("classified got=%v want=5", got)
	}
	if got := testutil.ToFloat64(r.groupsBuilt.WithLabelValues("weapon")); got != 2 {
		t.Fatalf("weapon groups got=%v want=2", got)
	}
	if got := testutil.ToFloat64(r.controlsCreated); got != 4 {
		t.Fatalf("controls created got=%v want=4", got)
	}
	if got := testutil.ToFloat64(r.controlsSkipped); got != 1 {
		t.Fatalf("controls skipped got=%v want=1", got)
	}
	if got := testutil.ToFloat64(r.graphNodes); got != 6 {
		t.Fatalf("graph nodes got=%v want=6", got)
	}
	if got := testutil.ToFloat64(r.shapeCache.WithLabelValues("miss")); got != 2 {
		t.Fatalf("cache miss got=%v want=2", got)
	}
	if got := testutil.CollectAndCount(r.synthesisTime); got != 1 {
		t.Fatalf("histogram count got=%v want=1", got)
	}
}

func TestRecorderNilSafe(t *testing.T) {
	var r *Recorder
	r.RecordClassification("helper", 1)
	r.RecordControls(1, 1)
	r.ObserveSynthesis(time.Second)
}

func TestRecorderSeparateRegistries(t *testing.T) {
	first := NewRecorder(WithRegistry(prometheus.NewRegistry()), WithNamespace("a"))
	second := NewRecorder(WithRegistry(prometheus.NewRegistry()), WithNamespace("a"))
	first.RecordGraphNodes(1)
	if got := testutil.ToFloat64(second.graphNodes); got != 0 {
		t.Fatalf("second recorder got=%v want=0", got)
	}
}
