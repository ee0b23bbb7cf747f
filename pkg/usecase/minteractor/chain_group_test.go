// 指示: miu200521358
package minteractor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/miu200521358/mu_ctrlrig/pkg/domain/model"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestGroupIntoSpacesExampleScenario(t *testing.T) {
	cfg := defaultTestConfig()
	skeleton := newExampleSkeleton()
	corr := newExampleCorrespondence()
	table := NewBoneClassifier(cfg.Rules).ClassifyAll(skeleton, corr)

	diagnostics := model.Diagnostics{}
	groups := NewChainGrouper(cfg.Rules).GroupIntoSpaces(skeleton, table, corr, &diagnostics)

	want := []model.SpaceGroup{{AnchorName: "head", Members: []int{5}, Side: model.WeaponSideNone}}
	if diff := cmp.Diff(want, groups.Secondary); diff != "" {
		t.Fatalf("secondary groups mismatch (-want +got):\n%s", diff)
	}
	if len(groups.Weapons) != 0 {
		t.Fatalf("weapons got=%d want=0", len(groups.Weapons))
	}
	if len(diagnostics) != 0 {
		t.Fatalf("diagnostics got=%v want=none", diagnostics)
	}
}

func TestResolveAnchorUsesStandardName(t *testing.T) {
	cfg := defaultTestConfig()
	skeleton := model.NewSkeleton("mapped", []model.Joint{
		newJoint("Bip001", model.NoParentIndex, false, r3.Vec{}),
		newJoint("Bip001 Pelvis", 0, true, r3.Vec{}),
		newJoint("skirt_front", 1, true, r3.Vec{}),
		newJoint("cape", 0, true, r3.Vec{}),
	})
	corr := model.NewNameCorrespondence(map[string]string{"pelvis": "Bip001 Pelvis"})
	table := NewBoneClassifier(cfg.Rules).ClassifyAll(skeleton, corr)
	grouper := NewChainGrouper(cfg.Rules)

	if anchor, ok := grouper.ResolveAnchor(skeleton, table, corr, 2); anchor != "pelvis" || !ok {
		t.Fatalf("skirt anchor got=%s,%v want=pelvis,true", anchor, ok)
	}
	if anchor, ok := grouper.ResolveAnchor(skeleton, table, corr, 3); anchor != "bip001" || !ok {
		t.Fatalf("cape anchor got=%s,%v want=bip001,true", anchor, ok)
	}
}

func TestResolveAnchorSceneRootAndFallback(t *testing.T) {
	cfg := defaultTestConfig()
	cfg.Rules.SceneRootName = "Scene"
	skeleton := model.NewSkeleton("scene", []model.Joint{
		newJoint("Scene", model.NoParentIndex, false, r3.Vec{}),
		newJoint("tassel", 0, true, r3.Vec{}),
		newJoint("orphan", model.NoParentIndex, true, r3.Vec{}),
	})
	corr := model.NewNameCorrespondence(nil)
	table := NewBoneClassifier(cfg.Rules).ClassifyAll(skeleton, corr)
	grouper := NewChainGrouper(cfg.Rules)

	if anchor, ok := grouper.ResolveAnchor(skeleton, table, corr, 1); anchor != "root" || !ok {
		t.Fatalf("tassel anchor got=%s,%v want=root,true", anchor, ok)
	}
	if anchor, ok := grouper.ResolveAnchor(skeleton, table, corr, 2); anchor != "root" || ok {
		t.Fatalf("orphan anchor got=%s,%v want=root,false", anchor, ok)
	}

	diagnostics := model.Diagnostics{}
	groups := grouper.GroupIntoSpaces(skeleton, table, corr, &diagnostics)
	if len(groups.Secondary) != 1 || groups.Secondary[0].AnchorName != "root" {
		t.Fatalf("groups got=%v want=single root group", groups.Secondary)
	}
	if diagnostics.Count(model.RigWarningAnchorUnresolved) != 1 {
		t.Fatalf("unresolved diagnostics got=%d want=1", diagnostics.Count(model.RigWarningAnchorUnresolved))
	}
}

func TestWeaponSideOfDefaultsLeft(t *testing.T) {
	grouper := NewChainGrouper(defaultTestConfig().Rules)
	cases := map[string]model.WeaponSide{
		"sword_l":         model.WeaponSideLeft,
		"Shield_R":        model.WeaponSideRight,
		"RightBlade":      model.WeaponSideRight,
		"weapon_r_handle": model.WeaponSideRight,
		"gun":             model.WeaponSideLeft,
		"left_right_axe":  model.WeaponSideLeft,
	}
	for name, want := range cases {
		if got := grouper.WeaponSideOf(name); got != want {
			t.Fatalf("%s side got=%s want=%s", name, got, want)
		}
	}
}

func TestGroupIntoSpacesSplitsWeapons(t *testing.T) {
	cfg := defaultTestConfig()
	skeleton := newWeaponSkeleton()
	corr := model.NewNameCorrespondence(nil)
	table := NewBoneClassifier(cfg.Rules).ClassifyAll(skeleton, corr)
	for _, index := range []int{4, 5, 6, 7} {
		if err := table.Reclassify(index, model.ClassificationWeapon); err != nil {
			t.Fatalf("reclassify %d: %v", index, err)
		}
	}

	groups := NewChainGrouper(cfg.Rules).GroupIntoSpaces(skeleton, table, corr, &model.Diagnostics{})
	want := []model.SpaceGroup{
		{AnchorName: "weapon_l", AnchorJoint: "hand_l", Members: []int{4, 5, 7}, Side: model.WeaponSideLeft},
		{AnchorName: "weapon_r", AnchorJoint: "hand_r", Members: []int{6}, Side: model.WeaponSideRight},
	}
	if diff := cmp.Diff(want, groups.Weapons); diff != "" {
		t.Fatalf("weapon groups mismatch (-want +got):\n%s", diff)
	}
	if len(groups.Secondary) != 0 {
		t.Fatalf("secondary got=%v want=none", groups.Secondary)
	}
}

func TestGroupIntoSpacesOrdersAncestorsFirst(t *testing.T) {
	cfg := defaultTestConfig()
	skeleton := model.NewSkeleton("unordered", []model.Joint{
		newJoint("pelvis", model.NoParentIndex, true, r3.Vec{}),
		newJoint("tail_02", 2, true, r3.Vec{}),
		newJoint("tail_01", 0, true, r3.Vec{}),
		newJoint("tail_03", 1, true, r3.Vec{}),
	})
	corr := model.NewNameCorrespondence(nil)
	table := NewBoneClassifier(cfg.Rules).ClassifyAll(skeleton, corr)
	groups := NewChainGrouper(cfg.Rules).GroupIntoSpaces(skeleton, table, corr, &model.Diagnostics{})

	if len(groups.Secondary) != 1 {
		t.Fatalf("groups got=%d want=1", len(groups.Secondary))
	}
	members := groups.Secondary[0].Members
	if diff := cmp.Diff([]int{2, 1, 3}, members); diff != "" {
		t.Fatalf("members mismatch (-want +got):\n%s", diff)
	}
	for i, a := range members {
		for _, b := range members[:i] {
			if skeleton.IsAncestor(a, b) {
				t.Fatalf("ancestor %d appears after descendant %d", a, b)
			}
		}
	}
}

func TestGroupIntoSpacesReachability(t *testing.T) {
	cfg := defaultTestConfig()
	skeleton := newExampleSkeleton()
	corr := newExampleCorrespondence()
	table := NewBoneClassifier(cfg.Rules).ClassifyAll(skeleton, corr)
	groups := NewChainGrouper(cfg.Rules).GroupIntoSpaces(skeleton, table, corr, &model.Diagnostics{})

	maxDepth := skeleton.MaxDepth()
	for _, group := range groups.Secondary {
		for _, member := range group.Members {
			steps := 0
			for current := member; current != model.NoParentIndex; current = skeleton.Parent(current) {
				steps++
				if steps > maxDepth+1 {
					t.Fatalf("walk from %d did not terminate within depth %d", member, maxDepth)
				}
			}
		}
	}
}
