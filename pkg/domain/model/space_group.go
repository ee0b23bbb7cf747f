// 指示: miu200521358
package model

// WeaponSide は武器グループの左右を表す。
type WeaponSide int

const (
	// WeaponSideNone は武器以外のグループ。
	WeaponSideNone WeaponSide = iota
	// WeaponSideLeft は左手側の武器グループ。
	WeaponSideLeft
	// WeaponSideRight は右手側の武器グループ。
	WeaponSideRight
)

// String は左右の表記を返す。
func (s WeaponSide) String() string {
	switch s {
	case WeaponSideLeft:
		return "left"
	case WeaponSideRight:
		return "right"
	}
	return "none"
}

// SpaceGroup はアンカー単位にまとめたジョイント列を表す。Members は親が先に並ぶ。
// AnchorJoint はスペースの配置に使う標準ジョイント名で、空なら AnchorName を使う。
type SpaceGroup struct {
	AnchorName  string
	AnchorJoint string
	Members     []int
	Side        WeaponSide
}

// AnchorJointName はスペースの配置に使う標準ジョイント名を返す。
func (g SpaceGroup) AnchorJointName() string {
	if g.AnchorJoint != "" {
		return g.AnchorJoint
	}
	return g.AnchorName
}

// SpaceGroups はセカンダリ/武器のグループ一覧を表す。
type SpaceGroups struct {
	Secondary []SpaceGroup
	Weapons   []SpaceGroup
}

// Total はグループ総数を返す。
func (g SpaceGroups) Total() int {
	return len(g.Secondary) + len(g.Weapons)
}

// MemberCount はメンバー総数を返す。
func (g SpaceGroups) MemberCount() int {
	total := 0
	for _, group := range g.Secondary {
		total += len(group.Members)
	}
	for _, group := range g.Weapons {
		total += len(group.Members)
	}
	return total
}

// ControlSpec はホスト階層へ追加するコントロールを表す。
type ControlSpec struct {
	Name       string
	ParentName string
	Transform  Transform
	Shape      ControlShape
	JointIndex int
}

// GroupBuild は1グループ分のコントロール生成結果を表す。
type GroupBuild struct {
	Group          SpaceGroup
	SpaceName      string
	AnchorJoint    string
	JointNames     []string
	ControlNames   []string
	JointToControl map[int]string
	Created        int
	Skipped        int
}
