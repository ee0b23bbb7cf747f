// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_ctrlrig/pkg/domain/model"
	"github.com/miu200521358/mu_ctrlrig/pkg/infra/config"
	"github.com/miu200521358/mu_ctrlrig/pkg/shared/merr"
	"github.com/miu200521358/mu_ctrlrig/pkg/usecase/port/moutput"
)

// ControlHierarchyBuilder はスペースグループからスペースノードとコントロールを生成する。
type ControlHierarchyBuilder struct {
	cfg       config.HierarchyConfig
	hierarchy moutput.IRigHierarchy
}

// BuildGroupInput は1グループ分の生成入力を表す。
type BuildGroupInput struct {
	Skeleton       *model.Skeleton
	Correspondence *model.NameCorrespondence
	Group          model.SpaceGroup
	ShapeOf        func(jointIndex int) model.ControlShape
}

// NewControlHierarchyBuilder はホスト階層へのビルダーを生成する。
func NewControlHierarchyBuilder(cfg config.HierarchyConfig, hierarchy moutput.IRigHierarchy) *ControlHierarchyBuilder {
	return &ControlHierarchyBuilder{cfg: cfg, hierarchy: hierarchy}
}

// SpaceName はアンカー名からスペースノード名を返す。
func (b *ControlHierarchyBuilder) SpaceName(anchorName string) string {
	return anchorName + b.cfg.SpaceSuffix
}

// ControlName はジョイント名からコントロール名を返す。
func (b *ControlHierarchyBuilder) ControlName(jointName string) string {
	return jointName + b.cfg.ControlSuffix
}

// BuildGroup はスペースノードを用意し、メンバーを親が先の順でコントロール化する。
// 骨格上の親が同じ走査でコントロール化済みならその下へ、なければスペースノードの下へ置く。
func (b *ControlHierarchyBuilder) BuildGroup(input BuildGroupInput, diagnostics *model.Diagnostics) (model.GroupBuild, error) {
	build := model.GroupBuild{
		Group:          input.Group,
		SpaceName:      b.SpaceName(input.Group.AnchorName),
		JointToControl: map[int]string{},
	}
	if input.Skeleton == nil || input.Skeleton.Len() == 0 {
		return build, merr.NewError(merr.ErrorIDSkeletonMissing, "メッシュのスケルトンが見つかりません", nil)
	}
	if b.hierarchy == nil {
		return build, merr.NewError(merr.ErrorIDHostFailed, "コントロール階層が未設定です", nil)
	}

	anchorJoint, anchorTransform, found := resolveAnchorJoint(input.Skeleton, input.Correspondence, input.Group.AnchorJointName())
	build.AnchorJoint = anchorJoint
	if !b.hierarchy.Contains(build.SpaceName) {
		if !found {
			addDiagnostic(diagnostics, model.RigWarningAnchorJointMissing, input.Group.AnchorJointName(),
				"アンカーに対応するジョイントがないため単位変換で配置します")
		}
		parent := b.cfg.TopLevelControlName
		if parent == "" || !b.hierarchy.Contains(parent) {
			addDiagnostic(diagnostics, model.RigWarningTopControlMissing, build.SpaceName,
				"最上位コントロール %q がないため階層ルートへ配置します", b.cfg.TopLevelControlName)
			parent = ""
		}
		if err := b.hierarchy.AddNull(build.SpaceName, parent, anchorTransform); err != nil {
			return build, merr.NewError(merr.ErrorIDHostFailed,
				fmt.Sprintf("スペースノードの生成に失敗しました: %s", build.SpaceName), err)
		}
	}

	for _, member := range input.Group.Members {
		joint, ok := input.Skeleton.Joint(member)
		if !ok {
			addDiagnostic(diagnostics, model.RigWarningHostFailed, build.SpaceName,
				"ジョイントindexが範囲外のため省略します: %d", member)
			continue
		}
		controlName := b.ControlName(joint.Name)
		if b.hierarchy.Contains(controlName) {
			build.Skipped++
			addDiagnostic(diagnostics, model.RigWarningControlExists, controlName, "既存のコントロールを再利用します")
		} else {
			parent := build.SpaceName
			if parentControl, exists := build.JointToControl[input.Skeleton.Parent(member)]; exists {
				parent = parentControl
			}
			transform, _ := input.Skeleton.GlobalTransform(member)
			shape := model.ControlShape{}
			if input.ShapeOf != nil {
				shape = input.ShapeOf(member)
			}
			if err := b.hierarchy.AddControl(model.ControlSpec{
				Name:       controlName,
				ParentName: parent,
				Transform:  transform,
				Shape:      shape,
				JointIndex: member,
			}); err != nil {
				addDiagnostic(diagnostics, model.RigWarningHostFailed, controlName, "コントロールの生成に失敗しました: %v", err)
				continue
			}
			build.Created++
		}
		build.JointToControl[member] = controlName
		build.JointNames = append(build.JointNames, joint.Name)
		build.ControlNames = append(build.ControlNames, controlName)
	}
	logRigDebug("グループ生成: space=%s created=%d skipped=%d", build.SpaceName, build.Created, build.Skipped)
	return build, nil
}

// resolveAnchorJoint はアンカー名に対応する対象ジョイント名と変換を返す。
// 名前対応の対象名、アンカー名そのものの順に探し、見つからなければ単位変換を返す。
func resolveAnchorJoint(skeleton *model.Skeleton, correspondence *model.NameCorrespondence, anchorName string) (string, model.Transform, bool) {
	candidates := make([]string, 0, 2)
	if target, ok := correspondence.TargetOf(anchorName); ok {
		candidates = append(candidates, target)
	}
	candidates = append(candidates, anchorName)
	for _, candidate := range candidates {
		index, ok := skeleton.IndexOf(candidate)
		if !ok {
			continue
		}
		joint, _ := skeleton.Joint(index)
		transform, _ := skeleton.GlobalTransform(index)
		return joint.Name, transform, true
	}
	return anchorName, model.IdentityTransform(), false
}
