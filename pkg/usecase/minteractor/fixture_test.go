// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_ctrlrig/pkg/domain/model"
	"github.com/miu200521358/mu_ctrlrig/pkg/infra/config"
	"gonum.org/v1/gonum/spatial/r3"
)

// newJoint はテスト用ジョイントを生成する。
func newJoint(name string, parent int, weighted bool, position r3.Vec) model.Joint {
	transform := model.IdentityTransform()
	transform.Position = position
	return model.Joint{Name: name, ParentIndex: parent, BindTransform: transform, HasSkinWeight: weighted}
}

// newExampleSkeleton は root→pelvis→spine_01→spine_02→head→hair_01→hair_02 のスケルトンを返す。
func newExampleSkeleton() *model.Skeleton {
	return model.NewSkeleton("example", []model.Joint{
		newJoint("root", model.NoParentIndex, false, r3.Vec{}),
		newJoint("pelvis", 0, true, r3.Vec{Z: 100}),
		newJoint("spine_01", 1, true, r3.Vec{Z: 10}),
		newJoint("spine_02", 2, true, r3.Vec{Z: 10}),
		newJoint("head", 3, true, r3.Vec{Z: 30}),
		newJoint("hair_01", 4, true, r3.Vec{Y: -5}),
		newJoint("hair_02", 5, false, r3.Vec{Z: -10}),
	})
}

// newExampleCorrespondence は例示の標準名→対象名の対応を返す。
func newExampleCorrespondence() *model.NameCorrespondence {
	return model.NewNameCorrespondence(map[string]string{"Pelvis": "pelvis", "Spine1": "spine_01"})
}

// newWeaponSkeleton は左右の武器ジョイントを持つスケルトンを返す。
func newWeaponSkeleton() *model.Skeleton {
	return model.NewSkeleton("weapon", []model.Joint{
		newJoint("root", model.NoParentIndex, false, r3.Vec{}),
		newJoint("pelvis", 0, true, r3.Vec{Z: 100}),
		newJoint("hand_l", 1, true, r3.Vec{X: 60}),
		newJoint("hand_r", 1, true, r3.Vec{X: -60}),
		newJoint("sword_l", 2, true, r3.Vec{X: 5}),
		newJoint("sword_tip_l", 4, true, r3.Vec{X: 80}),
		newJoint("shield_r", 3, true, r3.Vec{X: -5}),
		newJoint("gun", 1, true, r3.Vec{Y: 20}),
	})
}

// boxCloud は原点から offset だけ離れた箱状の頂点群を返す。
func boxCloud(offset r3.Vec, size r3.Vec, normal r3.Vec) model.VertexCloud {
	cloud := model.VertexCloud{}
	for _, sx := range []float64{-0.5, 0.5} {
		for _, sy := range []float64{-0.5, 0.5} {
			for _, sz := range []float64{-0.5, 0.5} {
				cloud.Positions = append(cloud.Positions, r3.Add(offset, r3.Vec{X: sx * size.X, Y: sy * size.Y, Z: sz * size.Z}))
				cloud.Normals = append(cloud.Normals, normal)
			}
		}
	}
	return cloud
}

// stubVertexProvider は固定の頂点群を返す。
type stubVertexProvider struct {
	infos []model.BoneVertexInfo
	err   error
	calls []string
}

// GetVertexInfoPerBone は固定の頂点群を返す。
func (p *stubVertexProvider) GetVertexInfoPerBone(mesh string) ([]model.BoneVertexInfo, error) {
	p.calls = append(p.calls, mesh)
	return p.infos, p.err
}

// progressRecorder は進捗イベントを記録する。
type progressRecorder struct {
	events []SynthesisProgressEvent
}

// ReportSynthesisProgress は進捗イベントを記録する。
func (r *progressRecorder) ReportSynthesisProgress(event SynthesisProgressEvent) {
	r.events = append(r.events, event)
}

// defaultTestConfig は既定設定の複製を返す。
func defaultTestConfig() *config.RigConfig {
	cfg, err := config.Default().Clone()
	if err != nil {
		panic(err)
	}
	return cfg
}
