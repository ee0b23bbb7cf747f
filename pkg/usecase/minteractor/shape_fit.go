// 指示: miu200521358
package minteractor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/miu200521358/mu_ctrlrig/pkg/domain/model"
	"github.com/miu200521358/mu_ctrlrig/pkg/infra/config"
	"gonum.org/v1/gonum/spatial/r3"
)

// shapeUpAxis は形状の既定上方向を表す。
var shapeUpAxis = r3.Vec{X: 0, Y: 0, Z: 1}

// ShapeFitter は頂点群からコントロール形状を求める。
type ShapeFitter struct {
	cfg          config.ShapeConfig
	headKeywords []string
}

// NewShapeFitter は形状フィット定数からフィッタを生成する。
func NewShapeFitter(cfg config.ShapeConfig) *ShapeFitter {
	return &ShapeFitter{cfg: cfg, headKeywords: normalizeKeywords(cfg.HeadKeywords)}
}

// DefaultShape は頂点を持たないジョイント用の既定形状を返す。
func (f *ShapeFitter) DefaultShape() model.ShapeInfo {
	scale := f.cfg.DefaultScale
	return model.ShapeInfo{
		Kind:          model.ShapeKindBox,
		Scale:         r3.Vec{X: scale, Y: scale, Z: scale},
		Offset:        r3.Vec{},
		Orientation:   mgl64.QuatIdent(),
		AverageNormal: shapeUpAxis,
	}
}

// FitShape は頂点群のAABB・重心・平均法線から形状を求める。同じ入力には常に同じ結果を返す。
func (f *ShapeFitter) FitShape(cloud model.VertexCloud) model.ShapeInfo {
	if cloud.IsEmpty() {
		return f.DefaultShape()
	}

	minPos, maxPos := boundingBox(cloud.Positions)
	size := r3.Sub(maxPos, minPos)
	scale := r3.Vec{
		X: f.clampScale(size.X / f.cfg.UnitDivisor),
		Y: f.clampScale(size.Y / f.cfg.UnitDivisor),
		Z: f.clampScale(size.Z / f.cfg.UnitDivisor),
	}

	center := meanVec(cloud.Positions)
	averageNormal := normalizeOr(sumVec(cloud.Normals), shapeUpAxis)

	return model.ShapeInfo{
		Kind:          f.shapeKind(size),
		Scale:         scale,
		Offset:        f.outwardOffset(cloud.Positions, center, size),
		Orientation:   orientationFromNormal(averageNormal),
		AverageNormal: averageNormal,
	}
}

// FitGroupShape はグループ全体の頂点群を結合して1つの形状を求める。
func (f *ShapeFitter) FitGroupShape(clouds []model.VertexCloud) model.ShapeInfo {
	merged := model.VertexCloud{}
	for _, cloud := range clouds {
		merged.Positions = append(merged.Positions, cloud.Positions...)
		merged.Normals = append(merged.Normals, cloud.Normals...)
	}
	return f.FitShape(merged)
}

// ChainControlShape はアンカー名に応じてチェーンコントロールの形状を決める。
// 頭部アンカーは固定サイズの球、それ以外は平均法線方向へずらした箱とする。
func (f *ShapeFitter) ChainControlShape(anchorName string, info model.ShapeInfo) model.ControlShape {
	if f.IsHeadAnchor(anchorName) {
		scale := f.cfg.HeadSphereScale
		return model.ControlShape{
			Kind:        model.ShapeKindSphere,
			Scale:       r3.Vec{X: scale, Y: scale, Z: scale},
			Offset:      r3.Vec{},
			Orientation: mgl64.QuatIdent(),
		}
	}
	distance := r3.Norm(info.Offset)
	if distance <= f.cfg.CenterEpsilon {
		distance = maxComponent(info.Scale) * f.cfg.UnitDivisor * 0.5 * f.cfg.OutwardMargin
	}
	normal := normalizeOr(info.AverageNormal, shapeUpAxis)
	return model.ControlShape{
		Kind:        model.ShapeKindBox,
		Scale:       info.Scale,
		Offset:      r3.Scale(distance, normal),
		Orientation: info.Orientation,
	}
}

// GroupControlShape はグループ共有スケールを適用したコントロール形状を返す。
func (f *ShapeFitter) GroupControlShape(info model.ShapeInfo, shared model.ShapeInfo) model.ControlShape {
	return model.ControlShape{
		Kind:        info.Kind,
		Scale:       shared.Scale,
		Offset:      info.Offset,
		Orientation: info.Orientation,
	}
}

// IsHeadAnchor はアンカー名が頭部系か判定する。
func (f *ShapeFitter) IsHeadAnchor(anchorName string) bool {
	_, ok := model.ContainsAnyKeyword(model.NormalizeBoneName(anchorName), f.headKeywords)
	return ok
}

// clampScale はスケールを設定範囲へ収める。
func (f *ShapeFitter) clampScale(value float64) float64 {
	return math.Min(math.Max(value, f.cfg.MinScale), f.cfg.MaxScale)
}

// shapeKind はAABBの縦横比から形状種別を決める。
func (f *ShapeFitter) shapeKind(size r3.Vec) model.ShapeKind {
	axes := [3]float64{size.X, size.Y, size.Z}
	for i := range axes {
		elongated := axes[i] > 0
		for j := range axes {
			if i == j {
				continue
			}
			if axes[i] < axes[j]*f.cfg.CapsuleAspectRatio {
				elongated = false
			}
		}
		if elongated {
			return model.ShapeKindCapsule
		}
	}
	return model.ShapeKindBox
}

// outwardOffset はメッシュ表面の外側へ出るオフセットを求める。
func (f *ShapeFitter) outwardOffset(positions []r3.Vec, center r3.Vec, size r3.Vec) r3.Vec {
	distance := r3.Norm(center)
	if distance > f.cfg.CenterEpsilon {
		direction := r3.Scale(1/distance, center)
		halfDiagonal := r3.Norm(size) * 0.5
		return r3.Scale((distance+halfDiagonal)*f.cfg.OutwardMargin, direction)
	}

	farthest := r3.Vec{}
	farthestDistance := 0.0
	for _, position := range positions {
		if d := r3.Norm(position); d > farthestDistance {
			farthest = position
			farthestDistance = d
		}
	}
	if farthestDistance == 0 {
		return r3.Vec{}
	}
	return r3.Scale(f.cfg.OutwardMargin, farthest)
}

// orientationFromNormal は +Z を平均法線へ向ける回転を返す。
func orientationFromNormal(normal r3.Vec) mgl64.Quat {
	return mgl64.QuatBetweenVectors(model.ToMglVec(shapeUpAxis), model.ToMglVec(normal)).Normalize()
}

// boundingBox は座標群のAABBを返す。
func boundingBox(positions []r3.Vec) (r3.Vec, r3.Vec) {
	minPos := positions[0]
	maxPos := positions[0]
	for _, p := range positions[1:] {
		minPos = r3.Vec{X: math.Min(minPos.X, p.X), Y: math.Min(minPos.Y, p.Y), Z: math.Min(minPos.Z, p.Z)}
		maxPos = r3.Vec{X: math.Max(maxPos.X, p.X), Y: math.Max(maxPos.Y, p.Y), Z: math.Max(maxPos.Z, p.Z)}
	}
	return minPos, maxPos
}

// sumVec はベクトルの総和を返す。
func sumVec(values []r3.Vec) r3.Vec {
	total := r3.Vec{}
	for _, v := range values {
		total = r3.Add(total, v)
	}
	return total
}

// meanVec はベクトルの平均を返す。
func meanVec(values []r3.Vec) r3.Vec {
	if len(values) == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/float64(len(values)), sumVec(values))
}

// normalizeOr は正規化したベクトルを返す。長さが0なら fallback を返す。
func normalizeOr(v r3.Vec, fallback r3.Vec) r3.Vec {
	length := r3.Norm(v)
	if length < 1e-12 {
		return fallback
	}
	return r3.Scale(1/length, v)
}

// maxComponent は成分の最大値を返す。
func maxComponent(v r3.Vec) float64 {
	return math.Max(v.X, math.Max(v.Y, v.Z))
}

// ShapeCache はメッシュ単位でジョイント名ごとの形状を保持する。メッシュが変わると全件破棄する。
type ShapeCache struct {
	meshKey string
	cache   *lru.Cache[string, model.ShapeInfo]
}

// NewShapeCache は容量を指定して形状キャッシュを生成する。
func NewShapeCache(size int) (*ShapeCache, error) {
	cache, err := lru.New[string, model.ShapeInfo](size)
	if err != nil {
		return nil, err
	}
	return &ShapeCache{cache: cache}, nil
}

// Get はキャッシュ済み形状を返す。未登録なら compute の結果を登録して返す。
func (c *ShapeCache) Get(meshKey string, jointName string, compute func() model.ShapeInfo) (model.ShapeInfo, bool) {
	c.SelectMesh(meshKey)
	if info, ok := c.cache.Get(jointName); ok {
		return info, true
	}
	info := compute()
	c.cache.Add(jointName, info)
	return info, false
}

// SelectMesh はメッシュ選択を切り替え、変化した場合はキャッシュを破棄する。
func (c *ShapeCache) SelectMesh(meshKey string) {
	if c.meshKey == meshKey {
		return
	}
	c.cache.Purge()
	c.meshKey = meshKey
}

// Reset はメッシュ選択に関わらずキャッシュを破棄する。
func (c *ShapeCache) Reset(meshKey string) {
	c.cache.Purge()
	c.meshKey = meshKey
}

// Len はキャッシュ件数を返す。
func (c *ShapeCache) Len() int {
	return c.cache.Len()
}
