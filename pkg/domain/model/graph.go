// 指示: miu200521358
package model

import "gonum.org/v1/gonum/spatial/r2"

// NodeKind はグラフノードの種類を表す。
type NodeKind string

const (
	// NodeKindFunctionReference はライブラリ関数参照ノード。
	NodeKindFunctionReference NodeKind = "FunctionReference"
	// NodeKindMakeArray は配列生成ノード。
	NodeKindMakeArray NodeKind = "MakeArray"
	// NodeKindChannelRead はブールチャネル読み取りノード。
	NodeKindChannelRead NodeKind = "ChannelRead"
	// NodeKindPlain はその他のノード。
	NodeKindPlain NodeKind = "Plain"
)

// NodeSpec はノード生成要求を表す。
type NodeSpec struct {
	Kind     NodeKind
	Function string
	Name     string
	Position r2.Vec
}

// GraphNodeInfo はノード照会結果を表す。
type GraphNodeInfo struct {
	Name     string
	Kind     NodeKind
	Function string
	Position r2.Vec
	Pins     []string
}

// PinRef はノードのピン参照を表す。
type PinRef struct {
	Node string
	Pin  string
}

// GraphLink はピン間の有向リンクを表す。
type GraphLink struct {
	From PinRef
	To   PinRef
}
