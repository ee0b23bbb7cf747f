// 指示: miu200521358
package model

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/miu200521358/mu_ctrlrig/pkg/shared/merr"
)

func newChainSkeleton() *Skeleton {
	offset := func(x, y, z float64) Transform {
		transform := IdentityTransform()
		transform.Position = r3.Vec{X: x, Y: y, Z: z}
		return transform
	}
	return NewSkeleton("chain", []Joint{
		{Name: "root", ParentIndex: NoParentIndex, BindTransform: offset(0, 0, 0)},
		{Name: "Pelvis", ParentIndex: 0, BindTransform: offset(0, 0, 100)},
		{Name: "spine_01", ParentIndex: 1, BindTransform: offset(0, 0, 10)},
		{Name: "hair_01", ParentIndex: 2, BindTransform: offset(0, 5, 0)},
	})
}

func TestSkeletonAncestorsAndDepth(t *testing.T) {
	skeleton := newChainSkeleton()

	ancestors := skeleton.Ancestors(3)
	if len(ancestors) != 3 || ancestors[0] != 2 || ancestors[2] != 0 {
		t.Fatalf("ancestors mismatch: %v", ancestors)
	}
	if skeleton.Depth(3) != 3 {
		t.Fatalf("depth mismatch: got=%d want=3", skeleton.Depth(3))
	}
	if skeleton.MaxDepth() != 3 {
		t.Fatalf("max depth mismatch: %d", skeleton.MaxDepth())
	}
	if !skeleton.IsAncestor(1, 3) || skeleton.IsAncestor(3, 1) {
		t.Fatalf("ancestor relation mismatch")
	}
	if children := skeleton.Children(0); len(children) != 1 || children[0] != 1 {
		t.Fatalf("children mismatch: %v", children)
	}
}

func TestSkeletonIndexOfIgnoresCase(t *testing.T) {
	skeleton := newChainSkeleton()
	index, ok := skeleton.IndexOf("PELVIS")
	if !ok || index != 1 {
		t.Fatalf("index mismatch: got=%d ok=%v", index, ok)
	}
	if _, ok := skeleton.IndexOf("missing"); ok {
		t.Fatalf("missing name should not resolve")
	}
}

func TestSkeletonGlobalTransformComposesChain(t *testing.T) {
	skeleton := newChainSkeleton()
	global, ok := skeleton.GlobalTransform(3)
	if !ok {
		t.Fatalf("global transform not resolved")
	}
	want := r3.Vec{X: 0, Y: 5, Z: 110}
	if r3.Norm(r3.Sub(global.Position, want)) > 1e-9 {
		t.Fatalf("position mismatch: got=%v want=%v", global.Position, want)
	}
}

func TestSkeletonGlobalTransformAppliesParentRotation(t *testing.T) {
	rotated := IdentityTransform()
	rotated.Rotation = mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})
	child := IdentityTransform()
	child.Position = r3.Vec{X: 10}
	skeleton := NewSkeleton("rot", []Joint{
		{Name: "root", ParentIndex: NoParentIndex, BindTransform: rotated},
		{Name: "arm", ParentIndex: 0, BindTransform: child},
	})

	global, _ := skeleton.GlobalTransform(1)
	want := r3.Vec{X: 0, Y: 10, Z: 0}
	if r3.Norm(r3.Sub(global.Position, want)) > 1e-9 {
		t.Fatalf("position mismatch: got=%v want=%v", global.Position, want)
	}
}

func TestSkeletonValidateDetectsCycle(t *testing.T) {
	skeleton := NewSkeleton("cycle", []Joint{
		{Name: "a", ParentIndex: 1},
		{Name: "b", ParentIndex: 0},
	})
	err := skeleton.Validate()
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if merr.ExtractErrorID(err) != merr.ErrorIDSkeletonInvalid {
		t.Fatalf("error id mismatch: %s", merr.ExtractErrorID(err))
	}
	if depth := skeleton.Depth(0); depth > skeleton.Len() {
		t.Fatalf("bounded walk exceeded joint count: %d", depth)
	}
}

func TestSkeletonValidateEmpty(t *testing.T) {
	var skeleton *Skeleton
	if merr.ExtractErrorID(skeleton.Validate()) != merr.ErrorIDSkeletonMissing {
		t.Fatalf("expected skeleton missing")
	}
	if err := newChainSkeleton().Validate(); err != nil {
		t.Fatalf("valid skeleton rejected: %v", err)
	}
}
