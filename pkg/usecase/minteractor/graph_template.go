// 指示: miu200521358
package minteractor

import (
	"sort"
	"strings"

	"github.com/miu200521358/mu_ctrlrig/pkg/domain/model"
	"github.com/miu200521358/mu_ctrlrig/pkg/infra/config"
	"github.com/miu200521358/mu_ctrlrig/pkg/usecase/port/moutput"
	"gonum.org/v1/gonum/spatial/r2"
)

// PlaceholderRole はテンプレートのプレースホルダ役割を表す。
type PlaceholderRole int

const (
	// PlaceholderRoleSetup は初期化処理。
	PlaceholderRoleSetup PlaceholderRole = iota
	// PlaceholderRoleForward は順方向処理。
	PlaceholderRoleForward
	// PlaceholderRoleBackward は逆方向処理。
	PlaceholderRoleBackward
)

// placeholderRoles は処理順の役割一覧。
var placeholderRoles = [...]PlaceholderRole{PlaceholderRoleSetup, PlaceholderRoleForward, PlaceholderRoleBackward}

// String は役割名を返す。
func (r PlaceholderRole) String() string {
	switch r {
	case PlaceholderRoleSetup:
		return "setup"
	case PlaceholderRoleForward:
		return "forward"
	case PlaceholderRoleBackward:
		return "backward"
	}
	return "unknown"
}

// Placeholder は発見したプレースホルダの位置と実行前段を表す。
type Placeholder struct {
	Role        PlaceholderRole
	Function    string
	NodeName    string
	Position    r2.Vec
	Predecessor model.PinRef
	Found       bool
}

// PlaceholderSet は1カテゴリ分の3役割のプレースホルダを表す。
type PlaceholderSet [3]Placeholder

// InstantiationResult はテンプレート展開結果を表す。
type InstantiationResult struct {
	FunctionNodes   int
	AuxiliaryNodes  int
	ChannelNodes    int
	RemovedNodes    []string
	ExecutionChains map[string][]string
}

// TotalNodes は生成したノード総数を返す。
func (r InstantiationResult) TotalNodes() int {
	return r.FunctionNodes + r.AuxiliaryNodes + r.ChannelNodes
}

// GraphTemplateInstantiator はテンプレートグラフのプレースホルダをグループ単位の関数参照へ展開する。
type GraphTemplateInstantiator struct {
	cfg   config.GraphConfig
	graph moutput.IRigGraph
}

// NewGraphTemplateInstantiator はホストグラフへの展開器を生成する。
func NewGraphTemplateInstantiator(cfg config.GraphConfig, graph moutput.IRigGraph) *GraphTemplateInstantiator {
	return &GraphTemplateInstantiator{cfg: cfg, graph: graph}
}

// InstantiateForGroups はセカンダリと武器のグループをテンプレートへ展開する。
// 失敗は警告として記録し、残りのグループの処理を続ける。
func (g *GraphTemplateInstantiator) InstantiateForGroups(
	secondary []model.GroupBuild,
	weapons []model.GroupBuild,
	diagnostics *model.Diagnostics,
) InstantiationResult {
	result := InstantiationResult{ExecutionChains: map[string][]string{}}
	if g.graph == nil {
		addDiagnostic(diagnostics, model.RigWarningHostFailed, "graph", "グラフが未設定のため展開を省略します")
		return result
	}

	if len(secondary) > 0 {
		places := g.Discover(g.cfg.Secondary, false, diagnostics)
		g.Clear(places, &result, diagnostics)
		g.replicate(places, g.cfg.Secondary, secondary, 0, predecessorsOf(places), false, &result, diagnostics)
	}

	if len(weapons) > 0 {
		places := g.Discover(g.cfg.Weapon, true, diagnostics)
		g.Clear(places, &result, diagnostics)
		previous := predecessorsOf(places)
		for _, side := range []model.WeaponSide{model.WeaponSideLeft, model.WeaponSideRight} {
			sideGroups := make([]model.GroupBuild, 0, 1)
			for _, build := range weapons {
				if build.Group.Side == side {
					sideGroups = append(sideGroups, build)
				}
			}
			if len(sideGroups) == 0 {
				continue
			}
			shift := 0.0
			if side == model.WeaponSideRight {
				shift = g.cfg.Spacing
			}
			previous = g.replicate(places, g.cfg.Weapon, sideGroups, shift, previous, true, &result, diagnostics)
		}
	}
	logRigInfo("グラフ展開: functions=%d auxiliary=%d channels=%d",
		result.FunctionNodes, result.AuxiliaryNodes, result.ChannelNodes)
	return result
}

// Discover はカテゴリ内の3役割のプレースホルダを探し、位置と実行前段を記録する。
// 名前は関数名との完全一致または前方一致で照合し、武器以外の照合では武器用の名前を除く。
func (g *GraphTemplateInstantiator) Discover(functions config.FunctionSet, weapon bool, diagnostics *model.Diagnostics) PlaceholderSet {
	nodes := g.graph.Nodes()
	sort.SliceStable(nodes, func(i int, j int) bool { return nodes[i].Name < nodes[j].Name })
	weaponMark := strings.ToLower(g.cfg.WeaponVariantMark)

	places := PlaceholderSet{}
	for i, role := range placeholderRoles {
		function := functions.Names()[i]
		places[i] = Placeholder{Role: role, Function: function}
		prefix := strings.ToLower(function)
		var matched *model.GraphNodeInfo
		for n := range nodes {
			name := strings.ToLower(nodes[n].Name)
			if !weapon && weaponMark != "" && strings.Contains(name, weaponMark) {
				continue
			}
			if name == prefix {
				matched = &nodes[n]
				break
			}
			if matched == nil && strings.HasPrefix(name, prefix) {
				matched = &nodes[n]
			}
		}
		if matched == nil {
			if tail, ok := g.chainTail(nodes, function); ok {
				places[i].Position = r2.Add(tail.Position, r2.Vec{X: g.cfg.Spacing})
				places[i].Predecessor = model.PinRef{Node: tail.Name, Pin: g.cfg.ExecutePin}
				logRigDebug("プレースホルダなし、既存の関数参照へ連結: function=%s tail=%s", function, tail.Name)
				continue
			}
			addDiagnostic(diagnostics, model.RigWarningPlaceholderMissing, function,
				"プレースホルダが見つからないため既定位置へ配置します")
			places[i].Position = r2.Vec{X: 0, Y: float64(i) * g.cfg.ArrayOffsetY * 4}
			continue
		}
		places[i].Found = true
		places[i].NodeName = matched.Name
		places[i].Position = matched.Position
		if predecessor, ok := g.graph.ExecPredecessor(model.PinRef{Node: matched.Name, Pin: g.cfg.ExecutePin}); ok {
			places[i].Predecessor = predecessor
		} else {
			addDiagnostic(diagnostics, model.RigWarningPredecessorMissing, matched.Name, "実行前段ノードが見つかりません")
		}
	}
	return places
}

// chainTail は関数を参照する既存ノードのうち、同じ関数の後段を持たない末尾ノードを返す。
// 末尾が複数ある場合は最も右のノードを選ぶ。
func (g *GraphTemplateInstantiator) chainTail(nodes []model.GraphNodeInfo, function string) (model.GraphNodeInfo, bool) {
	candidates := make([]model.GraphNodeInfo, 0)
	for _, node := range nodes {
		if node.Kind == model.NodeKindFunctionReference && node.Function == function {
			candidates = append(candidates, node)
		}
	}
	if len(candidates) == 0 {
		return model.GraphNodeInfo{}, false
	}
	followed := map[string]struct{}{}
	for _, node := range candidates {
		if from, ok := g.graph.ExecPredecessor(model.PinRef{Node: node.Name, Pin: g.cfg.ExecutePin}); ok {
			followed[from.Node] = struct{}{}
		}
	}
	var tail model.GraphNodeInfo
	found := false
	for _, node := range candidates {
		if _, ok := followed[node.Name]; ok {
			continue
		}
		if !found || node.Position.X > tail.Position.X {
			tail = node
			found = true
		}
	}
	return tail, found
}

// Clear は発見済みのプレースホルダを削除する。
func (g *GraphTemplateInstantiator) Clear(places PlaceholderSet, result *InstantiationResult, diagnostics *model.Diagnostics) {
	for _, place := range places {
		if !place.Found {
			continue
		}
		if err := g.graph.RemoveNode(place.NodeName); err != nil {
			addDiagnostic(diagnostics, model.RigWarningHostFailed, place.NodeName, "プレースホルダの削除に失敗しました: %v", err)
			continue
		}
		result.RemovedNodes = append(result.RemovedNodes, place.NodeName)
	}
}

// replicate はグループごとに3役割の関数参照を生成し、役割ごとに実行リンクを連結する。
// 連結の末尾ノード名を役割順で返す。
func (g *GraphTemplateInstantiator) replicate(
	places PlaceholderSet,
	functions config.FunctionSet,
	builds []model.GroupBuild,
	shift float64,
	previous [3]model.PinRef,
	weapon bool,
	result *InstantiationResult,
	diagnostics *model.Diagnostics,
) [3]model.PinRef {
	for groupIndex, build := range builds {
		for i, place := range places {
			function := functions.Names()[i]
			position := r2.Add(place.Position, r2.Vec{X: shift + float64(groupIndex)*g.cfg.Spacing})
			node, err := g.graph.AddNode(model.NodeSpec{
				Kind:     model.NodeKindFunctionReference,
				Function: function,
				Position: position,
			})
			if err != nil {
				addDiagnostic(diagnostics, model.RigWarningFunctionMissing, function,
					"関数参照の生成に失敗したため %s を省略します: %v", build.SpaceName, err)
				continue
			}
			result.FunctionNodes++

			g.setPin(model.PinRef{Node: node, Pin: g.cfg.BonePin}, build.AnchorJoint, diagnostics)
			g.setPin(model.PinRef{Node: node, Pin: g.cfg.SpacePin}, build.SpaceName, diagnostics)
			g.wireArray(node, g.cfg.BonesPin, r2.Add(position, r2.Vec{Y: g.cfg.ArrayOffsetY}), build.JointNames, result, diagnostics)
			g.wireArray(node, g.cfg.ControlsPin, r2.Add(position, r2.Vec{Y: 2 * g.cfg.ArrayOffsetY}), build.ControlNames, result, diagnostics)
			if weapon && place.Role == PlaceholderRoleForward && len(build.ControlNames) > 0 {
				g.wireChannel(node, build.Group.Side, position, result, diagnostics)
			}

			from := previous[i]
			chain := result.ExecutionChains[function]
			if len(chain) == 0 && from.Node != "" {
				chain = append(chain, from.Node)
			}
			if from.Node != "" {
				if err := g.graph.AddLink(from, model.PinRef{Node: node, Pin: g.cfg.ExecutePin}); err != nil {
					addDiagnostic(diagnostics, model.RigWarningLinkFailed, node, "実行リンクの生成に失敗しました: %v", err)
				}
			}
			result.ExecutionChains[function] = append(chain, node)
			previous[i] = model.PinRef{Node: node, Pin: g.cfg.ExecutePin}
		}
	}
	return previous
}

// wireArray は配列生成ノードへ名前を要素として設定し、関数の配列ピンへ接続する。
func (g *GraphTemplateInstantiator) wireArray(
	functionNode string,
	targetPin string,
	position r2.Vec,
	values []string,
	result *InstantiationResult,
	diagnostics *model.Diagnostics,
) {
	arrayNode, err := g.graph.AddNode(model.NodeSpec{Kind: model.NodeKindMakeArray, Position: position})
	if err != nil {
		addDiagnostic(diagnostics, model.RigWarningHostFailed, functionNode, "配列ノードの生成に失敗しました: %v", err)
		return
	}
	result.AuxiliaryNodes++
	for _, value := range values {
		element, err := g.graph.AddArrayPin(model.PinRef{Node: arrayNode, Pin: g.cfg.ArrayValuesPin})
		if err != nil {
			addDiagnostic(diagnostics, model.RigWarningPinFailed, arrayNode, "配列要素の追加に失敗しました: %v", err)
			continue
		}
		g.setPin(element, value, diagnostics)
	}
	if err := g.graph.AddLink(
		model.PinRef{Node: arrayNode, Pin: g.cfg.ArrayOutputPin},
		model.PinRef{Node: functionNode, Pin: targetPin},
	); err != nil {
		addDiagnostic(diagnostics, model.RigWarningLinkFailed, functionNode, "配列リンクの生成に失敗しました: %v", err)
	}
}

// wireChannel は武器の左右に応じたブールチャネル読み取りノードを順方向関数へ接続する。
func (g *GraphTemplateInstantiator) wireChannel(
	functionNode string,
	side model.WeaponSide,
	position r2.Vec,
	result *InstantiationResult,
	diagnostics *model.Diagnostics,
) {
	channel := g.cfg.WeaponLeftChannel
	if side == model.WeaponSideRight {
		channel = g.cfg.WeaponRightChannel
	}
	channelNode, err := g.graph.AddNode(model.NodeSpec{
		Kind:     model.NodeKindChannelRead,
		Function: channel,
		Position: r2.Add(position, r2.Vec{Y: -g.cfg.ArrayOffsetY}),
	})
	if err != nil {
		addDiagnostic(diagnostics, model.RigWarningHostFailed, functionNode, "チャネルノードの生成に失敗しました: %v", err)
		return
	}
	result.ChannelNodes++
	if err := g.graph.AddLink(
		model.PinRef{Node: channelNode, Pin: g.cfg.ChannelValuePin},
		model.PinRef{Node: functionNode, Pin: g.cfg.EnabledPin},
	); err != nil {
		addDiagnostic(diagnostics, model.RigWarningLinkFailed, functionNode, "チャネルリンクの生成に失敗しました: %v", err)
	}
}

// setPin はピンの既定値を設定し、失敗を警告として記録する。
func (g *GraphTemplateInstantiator) setPin(pin model.PinRef, value string, diagnostics *model.Diagnostics) {
	if err := g.graph.SetPinDefault(pin, value); err != nil {
		addDiagnostic(diagnostics, model.RigWarningPinFailed, pin.Node, "ピン %s の設定に失敗しました: %v", pin.Pin, err)
	}
}

// predecessorsOf はプレースホルダの実行前段を役割順で返す。
func predecessorsOf(places PlaceholderSet) [3]model.PinRef {
	previous := [3]model.PinRef{}
	for i, place := range places {
		previous[i] = place.Predecessor
	}
	return previous
}
