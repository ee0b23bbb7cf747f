// 指示: miu200521358
package model

import (
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform は位置・回転・スケールの組を表す。
type Transform struct {
	Position r3.Vec
	Rotation mgl64.Quat
	Scale    r3.Vec
}

// IdentityTransform は単位変換を返す。
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl64.QuatIdent(),
		Scale:    r3.Vec{X: 1, Y: 1, Z: 1},
	}
}

// Compose は親空間の変換に子のローカル変換を合成した結果を返す。
func (t Transform) Compose(local Transform) Transform {
	scaled := MulVec(t.Scale, local.Position)
	rotated := t.Rotation.Rotate(ToMglVec(scaled))
	return Transform{
		Position: r3.Add(t.Position, FromMglVec(rotated)),
		Rotation: t.Rotation.Mul(local.Rotation).Normalize(),
		Scale:    MulVec(t.Scale, local.Scale),
	}
}

// MulVec は成分ごとの積を返す。
func MulVec(a r3.Vec, b r3.Vec) r3.Vec {
	return r3.Vec{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}

// ToMglVec は r3.Vec を mgl64.Vec3 へ変換する。
func ToMglVec(v r3.Vec) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// FromMglVec は mgl64.Vec3 を r3.Vec へ変換する。
func FromMglVec(v mgl64.Vec3) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}
