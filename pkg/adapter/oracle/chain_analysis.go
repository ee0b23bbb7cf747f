// 指示: miu200521358
package oracle

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/miu200521358/mu_ctrlrig/pkg/domain/model"
	"github.com/miu200521358/mu_ctrlrig/pkg/shared/logging"
	"github.com/miu200521358/mu_ctrlrig/pkg/shared/merr"
	"github.com/miu200521358/mu_ctrlrig/pkg/usecase/port/moutput"
)

// MethodChainAnalysis はチェーン解析による応答の方式名。
const MethodChainAnalysis = "chain_analysis_v4"

const (
	sideLeft  = "l"
	sideRight = "r"
)

// chainKind はチェーン追跡時の除外規則を表す。
type chainKind int

const (
	chainAny chainKind = iota
	chainSpine
	chainLeg
)

// ChainAnalysisOracle は階層構造とキーワードから標準ボーン名への対応を推定する。
type ChainAnalysisOracle struct {
	rules ChainAnalysisRules
}

// NewChainAnalysisOracle はチェーン解析オラクルを生成する。
func NewChainAnalysisOracle(rules ChainAnalysisRules) *ChainAnalysisOracle {
	if rules.MaxChainDepth <= 0 {
		rules.MaxChainDepth = DefaultChainAnalysisRules().MaxChainDepth
	}
	return &ChainAnalysisOracle{rules: rules}
}

// GetStandardToTargetNameMap はスケルトンを解析して標準名→対象名の対応を返す。
func (o *ChainAnalysisOracle) GetStandardToTargetNameMap(
	ctx context.Context,
	desc moutput.SkeletonDescription,
) (map[string]string, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, merr.NewError(merr.ErrorIDOracleFailed, "名前対応の推定が中断されました", err)
		}
	}
	request, err := BuildMappingRequest(desc.Skeleton, desc.UseAI)
	if err != nil {
		return nil, err
	}
	response := o.Analyze(request)
	if len(response.Mapping) == 0 {
		return nil, merr.Newf(merr.ErrorIDOracleFailed, "名前対応を推定できませんでした: %d本", response.BoneCount)
	}
	return response.Mapping, nil
}

// Analyze は要求を解析して応答を返す。
func (o *ChainAnalysisOracle) Analyze(request MappingRequest) MappingResponse {
	analysis := newChainAnalysis(o.rules, newBoneTable(request.Bones))
	analysis.run()
	return MappingResponse{
		Mapping:   analysis.mapping,
		Method:    MethodChainAnalysis,
		BoneCount: len(request.Bones),
	}
}

// boneTable は名前で引ける親子関係を表す。
type boneTable struct {
	names    []string
	parent   map[string]string
	children map[string][]string
}

// newBoneTable は要求のボーン一覧から親子表を生成する。子の列挙が欠けている場合は親指定から補う。
func newBoneTable(bones []BoneInfo) *boneTable {
	table := &boneTable{
		names:    make([]string, 0, len(bones)),
		parent:   make(map[string]string, len(bones)),
		children: make(map[string][]string, len(bones)),
	}
	known := make(map[string]map[string]struct{}, len(bones))
	for _, bone := range bones {
		table.names = append(table.names, bone.Name)
		if bone.Parent != nil && *bone.Parent != "" {
			table.parent[bone.Name] = *bone.Parent
		}
		known[bone.Name] = map[string]struct{}{}
		for _, child := range bone.Children {
			table.children[bone.Name] = append(table.children[bone.Name], child)
			known[bone.Name][child] = struct{}{}
		}
	}
	for _, name := range table.names {
		parent, ok := table.parent[name]
		if !ok {
			continue
		}
		if _, listed := known[parent][name]; listed {
			continue
		}
		table.children[parent] = append(table.children[parent], name)
		if known[parent] != nil {
			known[parent][name] = struct{}{}
		}
	}
	return table
}

// chainAnalysis は1回分の解析状態を表す。
type chainAnalysis struct {
	rules    ChainAnalysisRules
	bones    *boneTable
	standard map[string]struct{}
	mapping  map[string]string
	mapped   map[string]struct{}
	logger   *logging.Logger
}

// newChainAnalysis は解析状態を初期化する。
func newChainAnalysis(rules ChainAnalysisRules, bones *boneTable) *chainAnalysis {
	standard := make(map[string]struct{}, len(rules.StandardBones))
	for _, name := range rules.StandardBones {
		standard[name] = struct{}{}
	}
	return &chainAnalysis{
		rules:    rules,
		bones:    bones,
		standard: standard,
		mapping:  map[string]string{},
		mapped:   map[string]struct{}{},
		logger:   logging.DefaultLogger(),
	}
}

// run はルート→骨盤→背骨→脚→腕→指→キーワードの順で対応を埋める。
func (a *chainAnalysis) run() {
	root := a.findRoot()
	if root != "" {
		a.assign("root", root)
	}

	pelvis := a.findPelvis()
	if pelvis == "" && root != "" {
		for _, child := range a.bones.children[root] {
			if !a.isSecondary(child) {
				pelvis = child
				a.logger.Debug("骨盤をルート直下から推定: %s", child)
				break
			}
		}
	}
	if pelvis == "" {
		a.logger.Warn("骨盤ボーンが見つかりません")
		return
	}
	a.assign("pelvis", pelvis)

	spineStart, legs := a.splitPelvisChildren(pelvis)
	if spineStart != "" {
		a.mapSpine(a.chainFrom(spineStart, chainSpine))
	}
	a.mapLegs(legs)
	for _, side := range []string{sideLeft, sideRight} {
		a.mapArm(side)
	}
	for _, side := range []string{sideLeft, sideRight} {
		if hand, ok := a.mapping["hand_"+side]; ok {
			a.mapFingers(a.bones.children[hand], side)
		}
	}
	a.mapByKeyword()
}

// assign は未使用の標準名へ対象名を割り当てる。
func (a *chainAnalysis) assign(standard string, bone string) bool {
	if _, exists := a.mapping[standard]; exists {
		return false
	}
	a.mapping[standard] = bone
	a.mapped[bone] = struct{}{}
	a.logger.Debug("名前対応: %s -> %s", bone, standard)
	return true
}

// findRoot は親を持たない最初のボーンを返す。
func (a *chainAnalysis) findRoot() string {
	for _, name := range a.bones.names {
		if _, ok := a.bones.parent[name]; !ok {
			return name
		}
	}
	return ""
}

// findPelvis は骨盤キーワードを含む最初の非セカンダリボーンを返す。
func (a *chainAnalysis) findPelvis() string {
	for _, name := range a.bones.names {
		if a.isSecondary(name) {
			continue
		}
		if _, ok := model.ContainsAnyKeyword(model.NormalizeBoneName(name), a.rules.PelvisKeywords); ok {
			return name
		}
	}
	return ""
}

// legCandidate は脚チェーン候補を表す。
type legCandidate struct {
	start string
	chain []string
	side  string
}

// splitPelvisChildren は骨盤の子を背骨の起点と脚チェーン候補へ振り分ける。
func (a *chainAnalysis) splitPelvisChildren(pelvis string) (string, []legCandidate) {
	spineStart := ""
	legs := make([]legCandidate, 0, 2)
	for _, child := range a.bones.children[pelvis] {
		if a.isSecondary(child) {
			continue
		}
		chain := a.chainFrom(child, chainLeg)
		boneType := a.boneType(child)
		switch {
		case boneType == "spine":
			if spineStart == "" {
				spineStart = child
			}
		case boneType == "thigh" || (boneType == "" && len(chain) >= 3):
			legs = append(legs, legCandidate{start: child, chain: chain, side: detectSide(child)})
		}
	}
	return spineStart, legs
}

// mapSpine は背骨チェーンを spine/neck/head へ割り当てる。
func (a *chainAnalysis) mapSpine(chain []string) {
	spineIndex := 1
	for _, bone := range chain {
		lower := model.NormalizeBoneName(bone)
		switch {
		// Biped の Spine1/Spine2 は番号で決める。
		case strings.Contains(lower, "spine2"):
			a.assign("spine_03", bone)
		case strings.Contains(lower, "spine1"):
			a.assign("spine_02", bone)
		case strings.Contains(lower, "spine"):
			for spineIndex <= a.rules.MaxSpineIndex {
				target := fmt.Sprintf("spine_%02d", spineIndex)
				spineIndex++
				if a.assign(target, bone) {
					break
				}
			}
		case strings.Contains(lower, "neck"):
			a.assign("neck_01", bone)
		case strings.Contains(lower, "head"):
			a.assign("head", bone)
		}
	}
}

// mapLegs は左右の脚チェーンを割り当てる。左右不明の候補は不足側へ回す。
func (a *chainAnalysis) mapLegs(candidates []legCandidate) {
	bySide := map[string][]legCandidate{}
	others := make([]legCandidate, 0)
	for _, candidate := range candidates {
		if candidate.side == "" {
			others = append(others, candidate)
			continue
		}
		bySide[candidate.side] = append(bySide[candidate.side], candidate)
	}
	for _, side := range []string{sideLeft, sideRight} {
		a.mapLegChain(bySide[side], side)
	}
	for _, candidate := range others {
		switch {
		case len(bySide[sideLeft]) == 0 && !a.isAssigned("thigh_l"):
			a.mapLegChain([]legCandidate{candidate}, sideLeft)
			bySide[sideLeft] = append(bySide[sideLeft], candidate)
		case len(bySide[sideRight]) == 0 && !a.isAssigned("thigh_r"):
			a.mapLegChain([]legCandidate{candidate}, sideRight)
			bySide[sideRight] = append(bySide[sideRight], candidate)
		}
	}
}

// mapLegChain は候補のうち最長(thigh キーワード優先)のチェーンを割り当てる。
func (a *chainAnalysis) mapLegChain(candidates []legCandidate, side string) {
	best := -1
	bestScore := -1
	for i, candidate := range candidates {
		score := len(candidate.chain)
		if a.boneType(candidate.start) == "thigh" {
			score += 100
		}
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	if best < 0 {
		return
	}
	targets := []string{"thigh_" + side, "calf_" + side, "foot_" + side, "ball_" + side}
	for i, bone := range candidates[best].chain {
		if i >= len(targets) {
			break
		}
		a.assign(targets[i], bone)
	}
}

// mapArm は手ボーンから親を遡って腕チェーンを割り当てる。
func (a *chainAnalysis) mapArm(side string) {
	hand := ""
	for _, name := range a.bones.names {
		if a.isSecondary(name) {
			continue
		}
		if detectSide(name) == side && strings.Contains(model.NormalizeBoneName(name), "hand") {
			hand = name
			break
		}
	}
	if hand == "" {
		a.logger.Debug("手ボーンが見つかりません: %s", side)
		return
	}

	parents := a.parentChain(hand)
	arm := make([]string, 0, 4)
walk:
	for i := len(parents) - 1; i >= 0 && len(arm) < 4; i-- {
		bone := parents[i]
		switch a.boneType(bone) {
		case "hand", "lowerarm", "upperarm", "clavicle":
			arm = append([]string{bone}, arm...)
		case "spine", "neck", "head", "pelvis":
			break walk
		default:
			if len(arm) > 0 {
				arm = append([]string{bone}, arm...)
			}
		}
	}
	if len(arm) < 3 {
		return
	}
	last := len(arm) - 1
	a.assign("hand_"+side, arm[last])
	a.assign("lowerarm_"+side, arm[last-1])
	a.assign("upperarm_"+side, arm[last-2])
	if len(arm) >= 4 {
		a.assign("clavicle_"+side, arm[last-3])
	}
}

// mapFingers は手の子から指チェーンを割り当てる。
func (a *chainAnalysis) mapFingers(roots []string, side string) {
	bipedFingers := []string{"finger0", "finger1", "finger2", "finger3", "finger4"}
	for _, root := range roots {
		if a.isSecondary(root) {
			continue
		}
		lower := model.NormalizeBoneName(root)
		fingerType, _ := model.ContainsAnyKeyword(lower, a.rules.FingerNames)
		// Biped の FingerN は番号順に thumb から割り当てる。
		for i, biped := range bipedFingers {
			if strings.Contains(lower, biped) && i < len(a.rules.FingerNames) {
				fingerType = a.rules.FingerNames[i]
				break
			}
		}
		if fingerType == "" {
			continue
		}
		for i, bone := range a.chainFrom(root, chainAny) {
			if i >= a.rules.FingerSegmentCount {
				break
			}
			a.assign(fmt.Sprintf("%s_%02d_%s", fingerType, i+1, side), bone)
		}
	}
}

// mapByKeyword は残りのボーンを種別キーワードと左右から割り当てる。
func (a *chainAnalysis) mapByKeyword() {
	for _, name := range a.bones.names {
		if _, done := a.mapped[name]; done || a.isSecondary(name) {
			continue
		}
		boneType := a.boneType(name)
		side := detectSide(name)
		if boneType == "" || side == "" {
			continue
		}
		target := boneType + "_" + side
		if _, ok := a.standard[target]; ok {
			a.assign(target, name)
		}
	}
}

// isAssigned は標準名が割当済みか判定する。
func (a *chainAnalysis) isAssigned(standard string) bool {
	_, ok := a.mapping[standard]
	return ok
}

// chainFrom は起点から非セカンダリの先頭の子を辿ったチェーンを返す。
func (a *chainAnalysis) chainFrom(start string, kind chainKind) []string {
	chain := []string{start}
	current := start
	for depth := 0; depth < a.rules.MaxChainDepth; depth++ {
		valid := make([]string, 0, 4)
		for _, child := range a.bones.children[current] {
			if !a.isSecondary(child) {
				valid = append(valid, child)
			}
		}
		if len(valid) == 0 {
			break
		}
		switch kind {
		case chainSpine:
			valid = excludeKeywords(valid, a.rules.ExcludeFromSpine)
		case chainLeg:
			valid = excludeKeywords(valid, a.rules.ExcludeFromLeg)
		}
		current = valid[0]
		chain = append(chain, current)
	}
	return chain
}

// parentChain はルート側から bone までの親チェーンを返す。
func (a *chainAnalysis) parentChain(bone string) []string {
	chain := []string{bone}
	current := bone
	for depth := 0; depth < a.rules.MaxChainDepth; depth++ {
		parent, ok := a.bones.parent[current]
		if !ok {
			break
		}
		chain = append([]string{parent}, chain...)
		current = parent
	}
	return chain
}

// isSecondary はセカンダリキーワードを含むか判定する。
func (a *chainAnalysis) isSecondary(name string) bool {
	_, ok := model.ContainsAnyKeyword(model.NormalizeBoneName(name), a.rules.SecondaryKeywords)
	return ok
}

// boneType は最初に一致したボーン種別を返す。
func (a *chainAnalysis) boneType(name string) string {
	lower := model.NormalizeBoneName(name)
	for _, entry := range a.rules.BoneTypes {
		if _, ok := model.ContainsAnyKeyword(lower, entry.Keywords); ok {
			return entry.Type
		}
	}
	return ""
}

// excludeKeywords は除外キーワードを含まない候補を返す。全て除外される場合は元の候補を返す。
func excludeKeywords(candidates []string, keywords []string) []string {
	filtered := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if _, ok := model.ContainsAnyKeyword(model.NormalizeBoneName(candidate), keywords); !ok {
			filtered = append(filtered, candidate)
		}
	}
	if len(filtered) == 0 {
		return candidates
	}
	return filtered
}

// detectSide は区切り文字で分けた語から左右を判定する。判定できない場合は空文字を返す。
func detectSide(name string) string {
	tokens := strings.FieldsFunc(model.NormalizeBoneName(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, token := range tokens {
		switch {
		case token == sideLeft || strings.HasPrefix(token, "left") || strings.HasSuffix(token, "left"):
			return sideLeft
		case token == sideRight || strings.HasPrefix(token, "right") || strings.HasSuffix(token, "right"):
			return sideRight
		}
	}
	return ""
}
