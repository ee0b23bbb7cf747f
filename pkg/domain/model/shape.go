// 指示: miu200521358
package model

import (
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
)

// ShapeKind はコントロール形状の種類を表す。
type ShapeKind string

const (
	// ShapeKindBox は箱形状。
	ShapeKindBox ShapeKind = "Box"
	// ShapeKindSphere は球形状。
	ShapeKindSphere ShapeKind = "Sphere"
	// ShapeKindCapsule はカプセル形状。
	ShapeKindCapsule ShapeKind = "Capsule"
)

// VertexCloud はジョイントにスキンされた頂点のローカル座標と法線を表す。
type VertexCloud struct {
	Positions []r3.Vec
	Normals   []r3.Vec
}

// IsEmpty は頂点を持たないか判定する。
func (c VertexCloud) IsEmpty() bool {
	return len(c.Positions) == 0
}

// BoneVertexInfo はジョイントindexと頂点群の組を表す。
type BoneVertexInfo struct {
	JointIndex int
	Cloud      VertexCloud
}

// ShapeInfo はジョイントごとの形状フィット結果を表す。
type ShapeInfo struct {
	Kind          ShapeKind
	Scale         r3.Vec
	Offset        r3.Vec
	Orientation   mgl64.Quat
	AverageNormal r3.Vec
}

// ControlShape はコントロールへ設定する形状を表す。
type ControlShape struct {
	Kind        ShapeKind
	Scale       r3.Vec
	Offset      r3.Vec
	Orientation mgl64.Quat
}
