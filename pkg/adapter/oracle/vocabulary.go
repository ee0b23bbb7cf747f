// 指示: miu200521358
package oracle

// BoneTypeKeywords はボーン種別とその判定キーワードを表す。
type BoneTypeKeywords struct {
	Type     string
	Keywords []string
}

// ChainAnalysisRules はチェーン解析で使う語彙を表す。
type ChainAnalysisRules struct {
	StandardBones      []string
	SecondaryKeywords  []string
	PelvisKeywords     []string
	BoneTypes          []BoneTypeKeywords
	FingerNames        []string
	ExcludeFromSpine   []string
	ExcludeFromLeg     []string
	MaxChainDepth      int
	MaxSpineIndex      int
	FingerSegmentCount int
}

// DefaultChainAnalysisRules は既定のチェーン解析語彙を返す。呼び出しごとに新しい値を返す。
func DefaultChainAnalysisRules() ChainAnalysisRules {
	return ChainAnalysisRules{
		StandardBones: []string{
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
		},
		SecondaryKeywords: []string{
			"skirt", "cape", "cloak", "cloth", "ribbon", "tassel",
			"hair", "ponytail", "pigtail", "breast", "boob",
			"weapon", "attach", "socket", "slot", "mount",
			"ik_", "_ik", "ikgoal", "ikpole", "ctrl", "control", "helper",
			"twist", "roll", "_tw", "nub", "_end", "dummy", "_dm_", "_ph_", "_b_",
			"point_", "lookat", "aim_", "extra", "aux_", "sub_", "add_",
		},
		PelvisKeywords: []string{"pelvis", "hip", "hips"},
		// 判定は先頭から行う。collar は装飾ボーンと紛れるため clavicle に含めない。
		BoneTypes: []BoneTypeKeywords{
			{Type: "pelvis", Keywords: []string{"pelvis", "hip", "hips", "waist"}},
			{Type: "spine", Keywords: []string{"spine", "chest", "ribcage"}},
			{Type: "neck", Keywords: []string{"neck"}},
			{Type: "head", Keywords: []string{"head"}},
			{Type: "clavicle", Keywords: []string{"clavicle", "shoulder"}},
			{Type: "upperarm", Keywords: []string{"upperarm", "upper_arm", "uparm", "bicep", "humerus"}},
			{Type: "lowerarm", Keywords: []string{"forearm", "fore_arm", "lowerarm", "lower_arm", "radius"}},
			{Type: "hand", Keywords: []string{"hand", "wrist", "palm"}},
			{Type: "thigh", Keywords: []string{"thigh", "upperleg", "upper_leg", "upleg", "femur"}},
			{Type: "calf", Keywords: []string{"calf", "shin", "lowerleg", "lower_leg", "tibia"}},
			{Type: "foot", Keywords: []string{"foot", "ankle"}},
			{Type: "ball", Keywords: []string{"ball", "toe0", "toes"}},
			{Type: "finger", Keywords: []string{"finger", "thumb", "index", "middle", "ring", "pinky"}},
		},
		FingerNames:        []string{"thumb", "index", "middle", "ring", "pinky"},
		ExcludeFromSpine:   []string{"clavicle", "shoulder", "upperarm", "arm", "thigh", "leg"},
		ExcludeFromLeg:     []string{"spine", "neck", "head", "arm", "hand"},
		MaxChainDepth:      10,
		MaxSpineIndex:      5,
		FingerSegmentCount: 3,
	}
}
