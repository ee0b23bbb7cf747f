// 指示: miu200521358
package memhost

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/miu200521358/mu_ctrlrig/pkg/domain/model"
)

// graphNode はグラフノードの内部状態を表す。
type graphNode struct {
	info     model.GraphNodeInfo
	defaults map[string]string
	arrays   map[string][]string
}

// Graph はメモリ上の実行グラフを表す。
type Graph struct {
	mu        sync.RWMutex
	nodes     map[string]*graphNode
	order     []string
	links     []model.GraphLink
	functions map[string]struct{}
}

// NewGraph は関数ライブラリを指定して空のグラフを生成する。
func NewGraph(functions ...string) *Graph {
	library := make(map[string]struct{}, len(functions))
	for _, function := range functions {
		library[function] = struct{}{}
	}
	return &Graph{nodes: map[string]*graphNode{}, functions: library}
}

// Nodes は追加順の全ノードを返す。
func (g *Graph) Nodes() []model.GraphNodeInfo {
	g.mu.RLock()
	defer g.mu.RUnlock()
	infos := make([]model.GraphNodeInfo, 0, len(g.order))
	for _, name := range g.order {
		infos = append(infos, g.snapshot(g.nodes[name]))
	}
	return infos
}

// FindNode は名前でノードを返す。
func (g *Graph) FindNode(name string) (model.GraphNodeInfo, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	node, ok := g.nodes[name]
	if !ok {
		return model.GraphNodeInfo{}, false
	}
	return g.snapshot(node), true
}

// ExecPredecessor は入力ピンへ接続された前段の出力ピンを返す。
func (g *Graph) ExecPredecessor(pin model.PinRef) (model.PinRef, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, link := range g.links {
		if link.To == pin {
			return link.From, true
		}
	}
	return model.PinRef{}, false
}

// RemoveNode はノードと接続リンクを削除する。
func (g *Graph) RemoveNode(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.nodes[name]; !ok {
		return fmt.Errorf("ノードが存在しません: %s", name)
	}
	delete(g.nodes, name)
	for i, candidate := range g.order {
		if candidate == name {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	kept := g.links[:0]
	for _, link := range g.links {
		if link.From.Node == name || link.To.Node == name {
			continue
		}
		kept = append(kept, link)
	}
	g.links = kept
	return nil
}

// AddNode はノードを生成し、生成名を返す。関数参照はライブラリに登録済みの関数のみ生成できる。
func (g *Graph) AddNode(spec model.NodeSpec) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if spec.Kind == model.NodeKindFunctionReference {
		if _, ok := g.functions[spec.Function]; !ok {
			return "", fmt.Errorf("ライブラリ関数が見つかりません: %s", spec.Function)
		}
	}
	name := spec.Name
	if name == "" {
		name = fmt.Sprintf("%s_%s", spec.Kind, uuid.NewString())
	}
	if _, exists := g.nodes[name]; exists {
		return "", fmt.Errorf("同名のノードが存在します: %s", name)
	}
	g.nodes[name] = &graphNode{
		info: model.GraphNodeInfo{
			Name:     name,
			Kind:     spec.Kind,
			Function: spec.Function,
			Position: spec.Position,
		},
		defaults: map[string]string{},
		arrays:   map[string][]string{},
	}
	g.order = append(g.order, name)
	return name, nil
}

// SetPinDefault はピンの既定値を設定する。配列要素ピンは要素値を更新する。
func (g *Graph) SetPinDefault(pin model.PinRef, value string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	node, ok := g.nodes[pin.Node]
	if !ok {
		return fmt.Errorf("ノードが存在しません: %s", pin.Node)
	}
	for base, values := range node.arrays {
		for i := range values {
			if pin.Pin == arrayElementPin(base, i) {
				values[i] = value
				return nil
			}
		}
	}
	node.defaults[pin.Pin] = value
	return nil
}

// AddArrayPin は配列ピンへ要素を追加し、要素ピン参照を返す。
func (g *Graph) AddArrayPin(pin model.PinRef) (model.PinRef, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	node, ok := g.nodes[pin.Node]
	if !ok {
		return model.PinRef{}, fmt.Errorf("ノードが存在しません: %s", pin.Node)
	}
	if node.info.Kind != model.NodeKindMakeArray {
		return model.PinRef{}, fmt.Errorf("配列ノードではありません: %s", pin.Node)
	}
	index := len(node.arrays[pin.Pin])
	node.arrays[pin.Pin] = append(node.arrays[pin.Pin], "")
	return model.PinRef{Node: pin.Node, Pin: arrayElementPin(pin.Pin, index)}, nil
}

// AddLink はピン間リンクを生成する。
func (g *Graph) AddLink(from model.PinRef, to model.PinRef) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.nodes[from.Node]; !ok {
		return fmt.Errorf("リンク元ノードが存在しません: %s", from.Node)
	}
	if _, ok := g.nodes[to.Node]; !ok {
		return fmt.Errorf("リンク先ノードが存在しません: %s", to.Node)
	}
	g.links = append(g.links, model.GraphLink{From: from, To: to})
	return nil
}

// Links はリンクの複製を返す。
func (g *Graph) Links() []model.GraphLink {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]model.GraphLink(nil), g.links...)
}

// PinDefault はピンの既定値を返す。
func (g *Graph) PinDefault(pin model.PinRef) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	node, ok := g.nodes[pin.Node]
	if !ok {
		return "", false
	}
	value, ok := node.defaults[pin.Pin]
	return value, ok
}

// ArrayValues は配列ピンの要素値を返す。
func (g *Graph) ArrayValues(pin model.PinRef) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	node, ok := g.nodes[pin.Node]
	if !ok {
		return nil
	}
	return append([]string(nil), node.arrays[pin.Pin]...)
}

// NodesOfFunction は指定関数を参照するノード名を追加順で返す。
func (g *Graph) NodesOfFunction(function string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	names := make([]string, 0)
	for _, name := range g.order {
		node := g.nodes[name]
		if node.info.Kind == model.NodeKindFunctionReference && node.info.Function == function {
			names = append(names, name)
		}
	}
	return names
}

// snapshot はノードの照会結果を生成する。
func (g *Graph) snapshot(node *graphNode) model.GraphNodeInfo {
	info := node.info
	pins := make([]string, 0, len(node.defaults)+len(node.arrays))
	for pin := range node.defaults {
		pins = append(pins, pin)
	}
	for pin, values := range node.arrays {
		pins = append(pins, pin)
		for i := range values {
			pins = append(pins, arrayElementPin(pin, i))
		}
	}
	sort.Strings(pins)
	info.Pins = pins
	return info
}

// arrayElementPin は配列要素ピン名を返す。
func arrayElementPin(pin string, index int) string {
	return fmt.Sprintf("%s.%d", pin, index)
}
