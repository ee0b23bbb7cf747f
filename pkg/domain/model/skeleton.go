// 指示: miu200521358
package model

import (
	"fmt"

	"github.com/miu200521358/mu_ctrlrig/pkg/shared/merr"
)

// NoParentIndex はルートジョイントの親indexを表す。
const NoParentIndex = -1

// Joint はスケルトンの1ジョイントを表す。
type Joint struct {
	Name          string
	Index         int
	ParentIndex   int
	BindTransform Transform
	HasSkinWeight bool
}

// Skeleton は読み取り専用のジョイント階層を表す。
type Skeleton struct {
	Name   string
	joints []Joint
	byName map[string]int
}

// NewSkeleton はジョイント配列からスケルトンを生成する。Index は配列位置で上書きする。
func NewSkeleton(name string, joints []Joint) *Skeleton {
	copied := make([]Joint, len(joints))
	byName := make(map[string]int, len(joints))
	for i, joint := range joints {
		joint.Index = i
		copied[i] = joint
		key := NormalizeBoneName(joint.Name)
		if _, exists := byName[key]; !exists {
			byName[key] = i
		}
	}
	return &Skeleton{Name: name, joints: copied, byName: byName}
}

// Len はジョイント数を返す。
func (s *Skeleton) Len() int {
	if s == nil {
		return 0
	}
	return len(s.joints)
}

// Joint は index のジョイントを返す。
func (s *Skeleton) Joint(index int) (Joint, bool) {
	if s == nil || index < 0 || index >= len(s.joints) {
		return Joint{}, false
	}
	return s.joints[index], true
}

// Joints はジョイント配列の複製を返す。
func (s *Skeleton) Joints() []Joint {
	if s == nil {
		return nil
	}
	return append([]Joint(nil), s.joints...)
}

// IndexOf は名前(大文字小文字無視)からジョイントindexを返す。
func (s *Skeleton) IndexOf(name string) (int, bool) {
	if s == nil {
		return -1, false
	}
	index, ok := s.byName[NormalizeBoneName(name)]
	if !ok {
		return -1, false
	}
	return index, true
}

// Parent は親ジョイントindexを返す。範囲外の親はルート扱いとする。
func (s *Skeleton) Parent(index int) int {
	joint, ok := s.Joint(index)
	if !ok {
		return NoParentIndex
	}
	if joint.ParentIndex < 0 || joint.ParentIndex >= len(s.joints) || joint.ParentIndex == index {
		return NoParentIndex
	}
	return joint.ParentIndex
}

// Ancestors は親から順にルートまでの祖先indexを返す。循環時はジョイント数で打ち切る。
func (s *Skeleton) Ancestors(index int) []int {
	ancestors := make([]int, 0, 8)
	current := s.Parent(index)
	for steps := 0; current != NoParentIndex && steps < s.Len(); steps++ {
		ancestors = append(ancestors, current)
		current = s.Parent(current)
	}
	return ancestors
}

// IsAncestor は ancestor が index の祖先か判定する。
func (s *Skeleton) IsAncestor(ancestor int, index int) bool {
	for _, candidate := range s.Ancestors(index) {
		if candidate == ancestor {
			return true
		}
	}
	return false
}

// Depth はルートからの階層深さを返す。
func (s *Skeleton) Depth(index int) int {
	return len(s.Ancestors(index))
}

// MaxDepth はスケルトン全体の最大深さを返す。
func (s *Skeleton) MaxDepth() int {
	maxDepth := 0
	for i := 0; i < s.Len(); i++ {
		if depth := s.Depth(i); depth > maxDepth {
			maxDepth = depth
		}
	}
	return maxDepth
}

// Children は直下の子ジョイントindexを昇順で返す。
func (s *Skeleton) Children(index int) []int {
	children := make([]int, 0, 4)
	for i := 0; i < s.Len(); i++ {
		if i != index && s.Parent(i) == index {
			children = append(children, i)
		}
	}
	return children
}

// GlobalTransform はルートからローカルバインド変換を合成したコンポーネント空間変換を返す。
func (s *Skeleton) GlobalTransform(index int) (Transform, bool) {
	joint, ok := s.Joint(index)
	if !ok {
		return IdentityTransform(), false
	}
	chain := s.Ancestors(index)
	global := IdentityTransform()
	for i := len(chain) - 1; i >= 0; i-- {
		global = global.Compose(s.joints[chain[i]].BindTransform)
	}
	return global.Compose(joint.BindTransform), true
}

// Validate は親indexの範囲と循環を検証する。
func (s *Skeleton) Validate() error {
	if s == nil || len(s.joints) == 0 {
		return merr.NewError(merr.ErrorIDSkeletonMissing, "スケルトンが未設定です", nil)
	}
	for i, joint := range s.joints {
		if joint.ParentIndex == i {
			return merr.Newf(merr.ErrorIDSkeletonInvalid, "ジョイントが自身を親に指定しています: %s", joint.Name)
		}
		if joint.ParentIndex < NoParentIndex || joint.ParentIndex >= len(s.joints) {
			return merr.Newf(merr.ErrorIDSkeletonInvalid, "親indexが範囲外です: %s parent=%d", joint.Name, joint.ParentIndex)
		}
	}
	for i := range s.joints {
		visited := map[int]struct{}{i: {}}
		current := s.joints[i].ParentIndex
		for current != NoParentIndex {
			if _, seen := visited[current]; seen {
				return merr.Newf(merr.ErrorIDSkeletonInvalid, "親子関係が循環しています: %s", s.joints[i].Name)
			}
			visited[current] = struct{}{}
			current = s.joints[current].ParentIndex
		}
	}
	return nil
}

// String はデバッグ用の概要を返す。
func (s *Skeleton) String() string {
	if s == nil {
		return "Skeleton<nil>"
	}
	return fmt.Sprintf("Skeleton<%s joints=%d>", s.Name, len(s.joints))
}
