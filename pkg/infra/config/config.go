// 指示: miu200521358
// Package config はリグ合成のルール表と定数の設定を提供する。
package config

import (
	"fmt"

	"github.com/tiendc/go-deepcopy"
)

// RigConfig はリグ合成全体の設定を表す。
type RigConfig struct {
	Rules     RuleConfig      `koanf:"rules"`
	Shape     ShapeConfig     `koanf:"shape"`
	Hierarchy HierarchyConfig `koanf:"hierarchy"`
	Graph     GraphConfig     `koanf:"graph"`
}

// RootMarker は最上位ルートボーンの命名パターンとアンカー名を表す。
type RootMarker struct {
	Contains string `koanf:"contains"`
	Anchor   string `koanf:"anchor"`
}

// RuleConfig は分類・グループ化のルール表を表す。
type RuleConfig struct {
	ZeroBoneNames         []string     `koanf:"zero_bone_names"`
	HelperKeywords        []string     `koanf:"helper_keywords"`
	AccessoryKeywords     []string     `koanf:"accessory_keywords"`
	RootMarkers           []RootMarker `koanf:"root_markers"`
	SceneRootName         string       `koanf:"scene_root_name"`
	RootAnchorName        string       `koanf:"root_anchor_name"`
	WeaponLeftSuffixes    []string     `koanf:"weapon_left_suffixes"`
	WeaponLeftInfixes     []string     `koanf:"weapon_left_infixes"`
	WeaponRightSuffixes   []string     `koanf:"weapon_right_suffixes"`
	WeaponRightInfixes    []string     `koanf:"weapon_right_infixes"`
	WeaponLeftAnchorName  string       `koanf:"weapon_left_anchor_name"`
	WeaponRightAnchorName string       `koanf:"weapon_right_anchor_name"`

	// 武器スペースの配置に使う標準ジョイント名。
	WeaponLeftAnchorJoint  string `koanf:"weapon_left_anchor_joint"`
	WeaponRightAnchorJoint string `koanf:"weapon_right_anchor_joint"`
}

// ShapeConfig は形状フィットの定数を表す。
type ShapeConfig struct {
	UnitDivisor        float64  `koanf:"unit_divisor"`
	MinScale           float64  `koanf:"min_scale"`
	MaxScale           float64  `koanf:"max_scale"`
	OutwardMargin      float64  `koanf:"outward_margin"`
	CenterEpsilon      float64  `koanf:"center_epsilon"`
	DefaultScale       float64  `koanf:"default_scale"`
	CapsuleAspectRatio float64  `koanf:"capsule_aspect_ratio"`
	HeadKeywords       []string `koanf:"head_keywords"`
	HeadSphereScale    float64  `koanf:"head_sphere_scale"`
	CacheSize          int      `koanf:"cache_size"`
}

// HierarchyConfig はコントロール階層の命名を表す。
type HierarchyConfig struct {
	TopLevelControlName string `koanf:"top_level_control_name"`
	SpaceSuffix         string `koanf:"space_suffix"`
	ControlSuffix       string `koanf:"control_suffix"`
}

// FunctionSet は setup/forward/backward の関数名の組を表す。
type FunctionSet struct {
	Setup    string `koanf:"setup"`
	Forward  string `koanf:"forward"`
	Backward string `koanf:"backward"`
}

// Names は setup/forward/backward の順で関数名を返す。
func (f FunctionSet) Names() []string {
	return []string{f.Setup, f.Forward, f.Backward}
}

// GraphConfig はテンプレートグラフ展開の設定を表す。
type GraphConfig struct {
	Secondary          FunctionSet `koanf:"secondary"`
	Weapon             FunctionSet `koanf:"weapon"`
	WeaponVariantMark  string      `koanf:"weapon_variant_mark"`
	Spacing            float64     `koanf:"spacing"`
	ArrayOffsetY       float64     `koanf:"array_offset_y"`
	ExecutePin         string      `koanf:"execute_pin"`
	BonePin            string      `koanf:"bone_pin"`
	SpacePin           string      `koanf:"space_pin"`
	BonesPin           string      `koanf:"bones_pin"`
	ControlsPin        string      `koanf:"controls_pin"`
	ArrayValuesPin     string      `koanf:"array_values_pin"`
	ArrayOutputPin     string      `koanf:"array_output_pin"`
	EnabledPin         string      `koanf:"enabled_pin"`
	ChannelValuePin    string      `koanf:"channel_value_pin"`
	WeaponLeftChannel  string      `koanf:"weapon_left_channel"`
	WeaponRightChannel string      `koanf:"weapon_right_channel"`
}

// Default は組み込みのルール表と定数を返す。
func Default() *RigConfig {
	return &RigConfig{
		Rules: RuleConfig{
			ZeroBoneNames: []string{
				"root", "pelvis",
				"spine_01", "spine_02", "spine_03", "spine_04", "spine_05",
				"neck_01", "neck_02", "head",
				"clavicle_l", "clavicle_r",
				"upperarm_l", "upperarm_r", "lowerarm_l", "lowerarm_r",
				"hand_l", "hand_r",
				"thigh_l", "thigh_r", "calf_l", "calf_r",
				"foot_l", "foot_r", "ball_l", "ball_r",
				"thumb_01_l", "thumb_02_l", "thumb_03_l",
				"thumb_01_r", "thumb_02_r", "thumb_03_r",
				"index_01_l", "index_02_l", "index_03_l",
				"index_01_r", "index_02_r", "index_03_r",
				"middle_01_l", "middle_02_l", "middle_03_l",
				"middle_01_r", "middle_02_r", "middle_03_r",
				"ring_01_l", "ring_02_l", "ring_03_l",
				"ring_01_r", "ring_02_r", "ring_03_r",
				"pinky_01_l", "pinky_02_l", "pinky_03_l",
				"pinky_01_r", "pinky_02_r", "pinky_03_r",
				"ik_foot_root", "ik_foot_l", "ik_foot_r",
				"ik_hand_root", "ik_hand_gun", "ik_hand_l", "ik_hand_r",
			},
			HelperKeywords: []string{
				"twist", "roll", "corrective", "_ik", "ik_", "ikgoal", "ikpole",
				"ctrl", "control", "helper", "lookat", "lookup", "mirror",
				"nub", "_end", "dummy", "aux_",
			},
			AccessoryKeywords: []string{
				"hair", "ponytail", "pigtail", "bang", "skirt", "cape", "cloak",
				"cloth", "ribbon", "tassel", "breast", "boob",
				"weapon", "sword", "shield", "bag",
				"face", "facial", "eye", "brow", "lid", "lip", "cheek", "tongue",
				"wing", "tail", "acc_",
			},
			RootMarkers: []RootMarker{
				{Contains: "bip001", Anchor: "bip001"},
				{Contains: "bip01", Anchor: "bip01"},
				{Contains: "armature", Anchor: "armature"},
			},
			SceneRootName:          "root",
			RootAnchorName:         "root",
			WeaponLeftSuffixes:     []string{"_l"},
			WeaponLeftInfixes:      []string{"_l_", "left"},
			WeaponRightSuffixes:    []string{"_r"},
			WeaponRightInfixes:     []string{"_r_", "right"},
			WeaponLeftAnchorName:   "weapon_l",
			WeaponRightAnchorName:  "weapon_r",
			WeaponLeftAnchorJoint:  "hand_l",
			WeaponRightAnchorJoint: "hand_r",
		},
		Shape: ShapeConfig{
			UnitDivisor:        100.0,
			MinScale:           0.15,
			MaxScale:           5.0,
			OutwardMargin:      1.2,
			CenterEpsilon:      0.5,
			DefaultScale:       0.3,
			CapsuleAspectRatio: 2.5,
			HeadKeywords:       []string{"head"},
			HeadSphereScale:    0.5,
			CacheSize:          1024,
		},
		Hierarchy: HierarchyConfig{
			TopLevelControlName: "root_ctrl",
			SpaceSuffix:         "_space",
			ControlSuffix:       "_ctrl",
		},
		Graph: GraphConfig{
			Secondary: FunctionSet{
				Setup:    "AI_Setup",
				Forward:  "AI_Forward",
				Backward: "AI_Backward",
			},
			Weapon: FunctionSet{
				Setup:    "AI_Setup_Weapon",
				Forward:  "AI_Forward_Weapon",
				Backward: "AI_Backward_Weapon",
			},
			WeaponVariantMark:  "_weapon",
			Spacing:            400.0,
			ArrayOffsetY:       250.0,
			ExecutePin:         "ExecuteContext",
			BonePin:            "Bone",
			SpacePin:           "Space",
			BonesPin:           "Bones",
			ControlsPin:        "Controls",
			ArrayValuesPin:     "Values",
			ArrayOutputPin:     "Array",
			EnabledPin:         "Enabled",
			ChannelValuePin:    "Value",
			WeaponLeftChannel:  "WeaponL",
			WeaponRightChannel: "WeaponR",
		},
	}
}

// Clone は設定の独立した複製を返す。
func (c *RigConfig) Clone() (*RigConfig, error) {
	if c == nil {
		return nil, nil
	}
	copied := &RigConfig{}
	if err := deepcopy.Copy(copied, c); err != nil {
		return nil, fmt.Errorf("設定の複製に失敗しました: %w", err)
	}
	return copied, nil
}
