// 指示: miu200521358
// Package memhost はコントロール階層と実行グラフのメモリ上ホストを提供する。
package memhost

import (
	"fmt"
	"sort"
	"sync"

	"github.com/miu200521358/mu_ctrlrig/pkg/domain/model"
)

// ElementKind は階層要素の種類を表す。
type ElementKind string

const (
	// ElementKindNull はスペースノード。
	ElementKindNull ElementKind = "Null"
	// ElementKindControl はコントロール。
	ElementKindControl ElementKind = "Control"
)

// Element は階層要素を表す。
type Element struct {
	Name       string
	Kind       ElementKind
	Parent     string
	Transform  model.Transform
	Shape      model.ControlShape
	JointIndex int
}

// Hierarchy はメモリ上のコントロール階層を表す。
type Hierarchy struct {
	mu       sync.RWMutex
	elements map[string]Element
	order    []string
}

// NewHierarchy は空の階層を生成する。topLevelControls は階層ルート直下へ置く既存コントロール。
func NewHierarchy(topLevelControls ...string) *Hierarchy {
	h := &Hierarchy{elements: map[string]Element{}}
	for _, name := range topLevelControls {
		h.put(Element{Name: name, Kind: ElementKindControl, Transform: model.IdentityTransform(), JointIndex: model.NoParentIndex})
	}
	return h
}

// Contains は同名要素の有無を返す。
func (h *Hierarchy) Contains(name string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.elements[name]
	return ok
}

// AddNull はスペースノードを追加する。
func (h *Hierarchy) AddNull(name string, parent string, transform model.Transform) error {
	return h.add(Element{
		Name:       name,
		Kind:       ElementKindNull,
		Parent:     parent,
		Transform:  transform,
		JointIndex: model.NoParentIndex,
	})
}

// AddControl はコントロールを追加する。
func (h *Hierarchy) AddControl(spec model.ControlSpec) error {
	return h.add(Element{
		Name:       spec.Name,
		Kind:       ElementKindControl,
		Parent:     spec.ParentName,
		Transform:  spec.Transform,
		Shape:      spec.Shape,
		JointIndex: spec.JointIndex,
	})
}

// Element は名前で要素を返す。
func (h *Hierarchy) Element(name string) (Element, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	element, ok := h.elements[name]
	return element, ok
}

// Names は追加順の要素名を返す。
func (h *Hierarchy) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.order...)
}

// Children は直下の要素名を昇順で返す。parent が空なら階層ルート直下を返す。
func (h *Hierarchy) Children(parent string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	children := make([]string, 0)
	for name, element := range h.elements {
		if element.Parent == parent {
			children = append(children, name)
		}
	}
	sort.Strings(children)
	return children
}

// Count は指定種類の要素数を返す。
func (h *Hierarchy) Count(kind ElementKind) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	count := 0
	for _, element := range h.elements {
		if element.Kind == kind {
			count++
		}
	}
	return count
}

// add は重複と親の存在を検証して要素を追加する。
func (h *Hierarchy) add(element Element) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if element.Name == "" {
		return fmt.Errorf("要素名が未指定です")
	}
	if _, exists := h.elements[element.Name]; exists {
		return fmt.Errorf("同名の要素が存在します: %s", element.Name)
	}
	if element.Parent != "" {
		if _, exists := h.elements[element.Parent]; !exists {
			return fmt.Errorf("親要素が存在しません: %s", element.Parent)
		}
	}
	h.elements[element.Name] = element
	h.order = append(h.order, element.Name)
	return nil
}

// put は検証なしで要素を追加する。
func (h *Hierarchy) put(element Element) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.elements[element.Name] = element
	h.order = append(h.order, element.Name)
}
