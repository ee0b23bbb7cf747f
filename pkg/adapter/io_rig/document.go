// 指示: miu200521358
package io_rig

import (
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/miu200521358/mu_ctrlrig/pkg/domain/model"
	"github.com/miu200521358/mu_ctrlrig/pkg/shared/merr"
)

// rigDocument はリグ入力JSONの最上位を表す。
type rigDocument struct {
	Name   string        `json:"name"`
	Joints []jointRecord `json:"joints"`
	Meshes []meshRecord  `json:"meshes"`
}

// jointRecord はジョイント1件を表す。parent は親ジョイント名で、空ならルート。
type jointRecord struct {
	Name     string     `json:"name"`
	Parent   string     `json:"parent"`
	Position [3]float64 `json:"position"`
	// Rotation は x,y,z,w 順のクォータニオン。省略時は単位回転。
	Rotation *[4]float64 `json:"rotation,omitempty"`
	Scale    *[3]float64 `json:"scale,omitempty"`
	Skinned  bool        `json:"skinned"`
}

// meshRecord はメッシュ1件分のジョイント別頂点群を表す。
type meshRecord struct {
	Name  string                 `json:"name"`
	Bones map[string]cloudRecord `json:"bones"`
}

// cloudRecord はジョイントローカルの頂点座標と法線を表す。
type cloudRecord struct {
	Positions [][3]float64 `json:"positions"`
	Normals   [][3]float64 `json:"normals"`
}

// toTransform はローカルバインド変換へ変換する。
func (j jointRecord) toTransform() model.Transform {
	transform := model.IdentityTransform()
	transform.Position = vecOf(j.Position)
	if j.Rotation != nil {
		r := *j.Rotation
		transform.Rotation = mgl64.Quat{W: r[3], V: mgl64.Vec3{r[0], r[1], r[2]}}.Normalize()
	}
	if j.Scale != nil {
		transform.Scale = vecOf(*j.Scale)
	}
	return transform
}

// buildSkeleton はジョイント記録からスケルトンを生成し、構造を検証する。
func (d rigDocument) buildSkeleton() (*model.Skeleton, error) {
	if len(d.Joints) == 0 {
		return nil, merr.Newf(merr.ErrorIDInputInvalid, "ジョイントが1件もありません")
	}
	indexByName := make(map[string]int, len(d.Joints))
	for i, record := range d.Joints {
		if record.Name == "" {
			return nil, merr.Newf(merr.ErrorIDInputInvalid, "ジョイント名が空です: index=%d", i)
		}
		key := model.NormalizeBoneName(record.Name)
		if _, exists := indexByName[key]; exists {
			return nil, merr.Newf(merr.ErrorIDInputInvalid, "ジョイント名が重複しています: %s", record.Name)
		}
		indexByName[key] = i
	}

	joints := make([]model.Joint, 0, len(d.Joints))
	for i, record := range d.Joints {
		parent := model.NoParentIndex
		if record.Parent != "" {
			index, ok := indexByName[model.NormalizeBoneName(record.Parent)]
			if !ok {
				return nil, merr.Newf(merr.ErrorIDInputInvalid, "親ジョイントが見つかりません: %s -> %s", record.Name, record.Parent)
			}
			parent = index
		}
		joints = append(joints, model.Joint{
			Name:          record.Name,
			Index:         i,
			ParentIndex:   parent,
			BindTransform: record.toTransform(),
			HasSkinWeight: record.Skinned,
		})
	}
	skeleton := model.NewSkeleton(d.Name, joints)
	if err := skeleton.Validate(); err != nil {
		return nil, err
	}
	return skeleton, nil
}

// toCloud は頂点群へ変換する。法線数が座標数と異なる場合は入力不正とする。
func (c cloudRecord) toCloud(bone string) (model.VertexCloud, error) {
	if len(c.Normals) != 0 && len(c.Normals) != len(c.Positions) {
		return model.VertexCloud{}, merr.Newf(
			merr.ErrorIDInputInvalid,
			"頂点数と法線数が一致しません: bone=%s positions=%d normals=%d",
			bone,
			len(c.Positions),
			len(c.Normals),
		)
	}
	cloud := model.VertexCloud{
		Positions: make([]r3.Vec, 0, len(c.Positions)),
		Normals:   make([]r3.Vec, 0, len(c.Positions)),
	}
	for i, position := range c.Positions {
		cloud.Positions = append(cloud.Positions, vecOf(position))
		normal := r3.Vec{Z: 1}
		if len(c.Normals) != 0 {
			normal = vecOf(c.Normals[i])
		}
		cloud.Normals = append(cloud.Normals, normal)
	}
	return cloud, nil
}

// vecOf は配列をベクトルへ変換する。
func vecOf(v [3]float64) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}
