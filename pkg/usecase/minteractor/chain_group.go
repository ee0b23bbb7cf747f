// 指示: miu200521358
package minteractor

import (
	"sort"
	"strings"

	"github.com/miu200521358/mu_ctrlrig/pkg/domain/model"
	"github.com/miu200521358/mu_ctrlrig/pkg/infra/config"
)

// ChainGrouper はセカンダリ/武器ジョイントをアンカー単位のスペースへまとめる。
type ChainGrouper struct {
	rootMarkers      []config.RootMarker
	sceneRootName    string
	rootAnchorName   string
	leftSuffixes     []string
	leftInfixes      []string
	rightSuffixes    []string
	rightInfixes     []string
	leftAnchorName   string
	rightAnchorName  string
	leftAnchorJoint  string
	rightAnchorJoint string
}

// NewChainGrouper はルール表からグルーパーを生成する。
func NewChainGrouper(rules config.RuleConfig) *ChainGrouper {
	markers := make([]config.RootMarker, 0, len(rules.RootMarkers))
	for _, marker := range rules.RootMarkers {
		contains := model.NormalizeBoneName(marker.Contains)
		if contains == "" || marker.Anchor == "" {
			continue
		}
		markers = append(markers, config.RootMarker{Contains: contains, Anchor: marker.Anchor})
	}
	return &ChainGrouper{
		rootMarkers:      markers,
		sceneRootName:    model.NormalizeBoneName(rules.SceneRootName),
		rootAnchorName:   rules.RootAnchorName,
		leftSuffixes:     normalizeKeywords(rules.WeaponLeftSuffixes),
		leftInfixes:      normalizeKeywords(rules.WeaponLeftInfixes),
		rightSuffixes:    normalizeKeywords(rules.WeaponRightSuffixes),
		rightInfixes:     normalizeKeywords(rules.WeaponRightInfixes),
		leftAnchorName:   rules.WeaponLeftAnchorName,
		rightAnchorName:  rules.WeaponRightAnchorName,
		leftAnchorJoint:  rules.WeaponLeftAnchorJoint,
		rightAnchorJoint: rules.WeaponRightAnchorJoint,
	}
}

// ResolveAnchor は祖先を辿って最寄りのアンカー名を返す。見つからない場合はルートアンカーと false を返す。
func (g *ChainGrouper) ResolveAnchor(
	skeleton *model.Skeleton,
	table *model.ClassificationTable,
	correspondence *model.NameCorrespondence,
	index int,
) (string, bool) {
	for _, ancestor := range skeleton.Ancestors(index) {
		joint, _ := skeleton.Joint(ancestor)
		normalized := model.NormalizeBoneName(joint.Name)
		if table.Label(ancestor) == model.ClassificationZeroBone {
			if standard, ok := correspondence.StandardOf(joint.Name); ok {
				return standard, true
			}
			return normalized, true
		}
		for _, marker := range g.rootMarkers {
			if strings.Contains(normalized, marker.Contains) {
				return marker.Anchor, true
			}
		}
		if g.sceneRootName != "" && normalized == g.sceneRootName {
			return g.rootAnchorName, true
		}
	}
	return g.rootAnchorName, false
}

// WeaponSideOf は武器ジョイント名から左右を判定する。判定できない場合は左とする。
func (g *ChainGrouper) WeaponSideOf(name string) model.WeaponSide {
	normalized := model.NormalizeBoneName(name)
	isLeft := matchesSideHint(normalized, g.leftSuffixes, g.leftInfixes)
	isRight := matchesSideHint(normalized, g.rightSuffixes, g.rightInfixes)
	if isRight && !isLeft {
		return model.WeaponSideRight
	}
	return model.WeaponSideLeft
}

// GroupIntoSpaces はセカンダリをアンカー別に、武器を左右の固定アンカーへまとめる。
// グループはアンカー名順、メンバーは親が先になるよう並べる。
func (g *ChainGrouper) GroupIntoSpaces(
	skeleton *model.Skeleton,
	table *model.ClassificationTable,
	correspondence *model.NameCorrespondence,
	diagnostics *model.Diagnostics,
) model.SpaceGroups {
	secondaryMembers := map[string][]int{}
	for _, index := range table.IndexesWithRole(model.ClassificationSecondary) {
		anchor, resolved := g.ResolveAnchor(skeleton, table, correspondence, index)
		if !resolved {
			joint, _ := skeleton.Joint(index)
			addDiagnostic(diagnostics, model.RigWarningAnchorUnresolved, joint.Name,
				"アンカーが見つからないためルートへ配置します: %s", anchor)
		}
		secondaryMembers[anchor] = append(secondaryMembers[anchor], index)
	}

	weaponMembers := map[model.WeaponSide][]int{}
	for _, index := range table.IndexesWithRole(model.ClassificationWeapon) {
		joint, _ := skeleton.Joint(index)
		side := g.WeaponSideOf(joint.Name)
		weaponMembers[side] = append(weaponMembers[side], index)
	}

	groups := model.SpaceGroups{
		Secondary: make([]model.SpaceGroup, 0, len(secondaryMembers)),
		Weapons:   make([]model.SpaceGroup, 0, 2),
	}
	anchors := make([]string, 0, len(secondaryMembers))
	for anchor := range secondaryMembers {
		anchors = append(anchors, anchor)
	}
	sort.Strings(anchors)
	for _, anchor := range anchors {
		groups.Secondary = append(groups.Secondary, model.SpaceGroup{
			AnchorName: anchor,
			Members:    orderParentFirst(skeleton, secondaryMembers[anchor]),
			Side:       model.WeaponSideNone,
		})
	}
	for _, side := range []model.WeaponSide{model.WeaponSideLeft, model.WeaponSideRight} {
		members := weaponMembers[side]
		if len(members) == 0 {
			continue
		}
		anchor, anchorJoint := g.leftAnchorName, g.leftAnchorJoint
		if side == model.WeaponSideRight {
			anchor, anchorJoint = g.rightAnchorName, g.rightAnchorJoint
		}
		groups.Weapons = append(groups.Weapons, model.SpaceGroup{
			AnchorName:  anchor,
			AnchorJoint: anchorJoint,
			Members:     orderParentFirst(skeleton, members),
			Side:        side,
		})
	}
	logRigInfo("スペースグループ構築: secondary=%d weapon=%d members=%d",
		len(groups.Secondary), len(groups.Weapons), groups.MemberCount())
	return groups
}

// orderParentFirst はメンバーをindex昇順に安定ソートする。
// index順で祖先が後ろに来る不正な並びの場合は深さ順で並べ直す。
func orderParentFirst(skeleton *model.Skeleton, members []int) []int {
	ordered := append([]int(nil), members...)
	sort.SliceStable(ordered, func(i int, j int) bool { return ordered[i] < ordered[j] })
	if isParentFirst(skeleton, ordered) {
		return ordered
	}
	sort.SliceStable(ordered, func(i int, j int) bool {
		return skeleton.Depth(ordered[i]) < skeleton.Depth(ordered[j])
	})
	return ordered
}

// isParentFirst は祖先が常に子孫より前にあるか判定する。
func isParentFirst(skeleton *model.Skeleton, ordered []int) bool {
	position := make(map[int]int, len(ordered))
	for i, index := range ordered {
		position[index] = i
	}
	for i, index := range ordered {
		for _, ancestor := range skeleton.Ancestors(index) {
			if p, ok := position[ancestor]; ok && p > i {
				return false
			}
		}
	}
	return true
}

// matchesSideHint は接尾辞または部分文字列のヒントに一致するか判定する。
func matchesSideHint(normalized string, suffixes []string, infixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(normalized, suffix) {
			return true
		}
	}
	_, ok := model.ContainsAnyKeyword(normalized, infixes)
	return ok
}
