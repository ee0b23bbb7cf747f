// 指示: miu200521358
package minteractor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"
	"github.com/miu200521358/mu_ctrlrig/pkg/domain/model"
	"gonum.org/v1/gonum/spatial/r3"
)

func vecNear(a r3.Vec, b r3.Vec) bool {
	return r3.Norm(r3.Sub(a, b)) < 1e-9
}

func TestFitShapeEmptyCloudReturnsDefault(t *testing.T) {
	fitter := NewShapeFitter(defaultTestConfig().Shape)
	got := fitter.FitShape(model.VertexCloud{})
	want := model.ShapeInfo{
		Kind:          model.ShapeKindBox,
		Scale:         r3.Vec{X: 0.3, Y: 0.3, Z: 0.3},
		Orientation:   mgl64.QuatIdent(),
		AverageNormal: r3.Vec{Z: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("default shape mismatch (-want +got):\n%s", diff)
	}
}

func TestFitShapeIsDeterministic(t *testing.T) {
	fitter := NewShapeFitter(defaultTestConfig().Shape)
	cloud := boxCloud(r3.Vec{X: 12, Y: -3, Z: 40}, r3.Vec{X: 8, Y: 6, Z: 50}, r3.Vec{X: 0.2, Y: 0.1, Z: 1})
	first := fitter.FitShape(cloud)
	second := fitter.FitShape(cloud)
	if first != second {
		t.Fatalf("fit is not deterministic: first=%v second=%v", first, second)
	}
}

func TestFitShapeClampsScale(t *testing.T) {
	fitter := NewShapeFitter(defaultTestConfig().Shape)
	cloud := model.VertexCloud{Positions: []r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 200, Y: 10, Z: 1000}}}
	got := fitter.FitShape(cloud)
	want := r3.Vec{X: 2, Y: 0.15, Z: 5}
	if !vecNear(got.Scale, want) {
		t.Fatalf("scale got=%v want=%v", got.Scale, want)
	}
}

func TestFitShapeOffsetsOutsideCenter(t *testing.T) {
	fitter := NewShapeFitter(defaultTestConfig().Shape)
	cloud := model.VertexCloud{Positions: []r3.Vec{{X: 10}, {X: 30}}}
	got := fitter.FitShape(cloud)
	// 重心距離20 + 対角半分10 に余白1.2を掛ける。
	want := r3.Vec{X: 36}
	if !vecNear(got.Offset, want) {
		t.Fatalf("offset got=%v want=%v", got.Offset, want)
	}
}

func TestFitShapeOffsetFallsBackToFarthestVertex(t *testing.T) {
	fitter := NewShapeFitter(defaultTestConfig().Shape)
	cloud := model.VertexCloud{Positions: []r3.Vec{{X: -10}, {X: 10}, {Y: 4}, {Y: -4}}}
	got := fitter.FitShape(cloud)
	want := r3.Vec{X: -12}
	if !vecNear(got.Offset, want) {
		t.Fatalf("offset got=%v want=%v", got.Offset, want)
	}
}

func TestFitShapeChoosesCapsuleForElongatedBox(t *testing.T) {
	fitter := NewShapeFitter(defaultTestConfig().Shape)
	long := fitter.FitShape(boxCloud(r3.Vec{}, r3.Vec{X: 10, Y: 10, Z: 100}, r3.Vec{Z: 1}))
	if long.Kind != model.ShapeKindCapsule {
		t.Fatalf("long kind got=%s want=Capsule", long.Kind)
	}
	short := fitter.FitShape(boxCloud(r3.Vec{}, r3.Vec{X: 10, Y: 10, Z: 20}, r3.Vec{Z: 1}))
	if short.Kind != model.ShapeKindBox {
		t.Fatalf("short kind got=%s want=Box", short.Kind)
	}
}

func TestFitShapeOrientsUpAxisToAverageNormal(t *testing.T) {
	fitter := NewShapeFitter(defaultTestConfig().Shape)
	got := fitter.FitShape(boxCloud(r3.Vec{X: 5}, r3.Vec{X: 4, Y: 4, Z: 4}, r3.Vec{X: 3}))
	if !vecNear(got.AverageNormal, r3.Vec{X: 1}) {
		t.Fatalf("average normal got=%v want=(1,0,0)", got.AverageNormal)
	}
	rotated := got.Orientation.Rotate(mgl64.Vec3{0, 0, 1})
	if !rotated.ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-9) {
		t.Fatalf("rotated up got=%v want=(1,0,0)", rotated)
	}
}

func TestFitGroupShapeUnionsClouds(t *testing.T) {
	fitter := NewShapeFitter(defaultTestConfig().Shape)
	a := model.VertexCloud{Positions: []r3.Vec{{X: 0}, {X: 50}}}
	b := model.VertexCloud{Positions: []r3.Vec{{X: 100, Y: 80}}}
	got := fitter.FitGroupShape([]model.VertexCloud{a, b, {}})
	want := r3.Vec{X: 1, Y: 0.8, Z: 0.15}
	if !vecNear(got.Scale, want) {
		t.Fatalf("group scale got=%v want=%v", got.Scale, want)
	}
	shared := fitter.GroupControlShape(fitter.FitShape(a), got)
	if shared.Scale != got.Scale {
		t.Fatalf("shared scale got=%v want=%v", shared.Scale, got.Scale)
	}
}

func TestChainControlShapeHeadAndBox(t *testing.T) {
	fitter := NewShapeFitter(defaultTestConfig().Shape)
	info := fitter.FitShape(model.VertexCloud{
		Positions: []r3.Vec{{X: 10}, {X: 30}},
		Normals:   []r3.Vec{{Y: 1}, {Y: 1}},
	})

	head := fitter.ChainControlShape("head", info)
	if head.Kind != model.ShapeKindSphere || head.Scale != (r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}) || head.Offset != (r3.Vec{}) {
		t.Fatalf("head shape got=%+v", head)
	}

	box := fitter.ChainControlShape("spine_03", info)
	if box.Kind != model.ShapeKindBox {
		t.Fatalf("box kind got=%s want=Box", box.Kind)
	}
	if !vecNear(box.Offset, r3.Vec{Y: 36}) {
		t.Fatalf("box offset got=%v want=(0,36,0)", box.Offset)
	}

	empty := fitter.ChainControlShape("pelvis", fitter.DefaultShape())
	wantDistance := 0.3 * 100 * 0.5 * 1.2
	if math.Abs(empty.Offset.Z-wantDistance) > 1e-9 {
		t.Fatalf("default offset got=%v want z=%v", empty.Offset, wantDistance)
	}
}

func TestShapeCachePurgesOnMeshChange(t *testing.T) {
	cache, err := NewShapeCache(8)
	if err != nil {
		t.Fatalf("NewShapeCache: %v", err)
	}
	calls := 0
	compute := func() model.ShapeInfo {
		calls++
		return model.ShapeInfo{Kind: model.ShapeKindBox}
	}

	if _, hit := cache.Get("mesh_a", "hair_01", compute); hit {
		t.Fatalf("first lookup should miss")
	}
	if _, hit := cache.Get("mesh_a", "hair_01", compute); !hit {
		t.Fatalf("second lookup should hit")
	}
	if calls != 1 {
		t.Fatalf("compute calls got=%d want=1", calls)
	}
	if _, hit := cache.Get("mesh_b", "hair_01", compute); hit {
		t.Fatalf("lookup after mesh change should miss")
	}
	if calls != 2 || cache.Len() != 1 {
		t.Fatalf("calls=%d len=%d want 2/1", calls, cache.Len())
	}
	cache.Reset("mesh_b")
	if cache.Len() != 0 {
		t.Fatalf("len after reset got=%d want=0", cache.Len())
	}
	if _, hit := cache.Get("mesh_b", "hair_01", compute); hit {
		t.Fatalf("lookup after reset on the same mesh should miss")
	}
}
