// 指示: miu200521358
package memhost

import (
	"github.com/miu200521358/mu_ctrlrig/pkg/domain/model"
	"github.com/miu200521358/mu_ctrlrig/pkg/infra/config"
	"gonum.org/v1/gonum/spatial/r2"
)

// テンプレートの実行イベントと分岐ノード名。
const (
	TemplateSetupEvent       = "PrepareForExecution"
	TemplateForwardEvent     = "BeginExecution"
	TemplateBackwardEvent    = "InverseExecution"
	TemplateSequenceSuffix   = "_Sequence"
	TemplateSequencePinMain  = "A"
	TemplateSequencePinExtra = "B"
)

// NewTemplateGraph はイベント、分岐、プレースホルダを配置したテンプレートグラフを生成する。
// 各イベントから分岐ノードを経て、セカンダリ用と武器用のプレースホルダへ実行リンクを張る。
func NewTemplateGraph(cfg config.GraphConfig) (*Graph, error) {
	functions := append(cfg.Secondary.Names(), cfg.Weapon.Names()...)
	graph := NewGraph(functions...)

	events := []string{TemplateSetupEvent, TemplateForwardEvent, TemplateBackwardEvent}
	secondary := cfg.Secondary.Names()
	weapon := cfg.Weapon.Names()
	rowHeight := cfg.ArrayOffsetY * 4
	for i, event := range events {
		y := float64(i) * rowHeight * 2
		sequence := event + TemplateSequenceSuffix
		if _, err := graph.AddNode(model.NodeSpec{Kind: model.NodeKindPlain, Name: event, Position: r2.Vec{X: 0, Y: y}}); err != nil {
			return nil, err
		}
		if _, err := graph.AddNode(model.NodeSpec{Kind: model.NodeKindPlain, Name: sequence, Position: r2.Vec{X: cfg.Spacing, Y: y}}); err != nil {
			return nil, err
		}
		if _, err := graph.AddNode(model.NodeSpec{
			Kind:     model.NodeKindFunctionReference,
			Function: secondary[i],
			Name:     secondary[i],
			Position: r2.Vec{X: cfg.Spacing * 2, Y: y},
		}); err != nil {
			return nil, err
		}
		if _, err := graph.AddNode(model.NodeSpec{
			Kind:     model.NodeKindFunctionReference,
			Function: weapon[i],
			Name:     weapon[i],
			Position: r2.Vec{X: cfg.Spacing * 2, Y: y + rowHeight},
		}); err != nil {
			return nil, err
		}
		links := []model.GraphLink{
			{From: model.PinRef{Node: event, Pin: cfg.ExecutePin}, To: model.PinRef{Node: sequence, Pin: cfg.ExecutePin}},
			{From: model.PinRef{Node: sequence, Pin: TemplateSequencePinMain}, To: model.PinRef{Node: secondary[i], Pin: cfg.ExecutePin}},
			{From: model.PinRef{Node: sequence, Pin: TemplateSequencePinExtra}, To: model.PinRef{Node: weapon[i], Pin: cfg.ExecutePin}},
		}
		for _, link := range links {
			if err := graph.AddLink(link.From, link.To); err != nil {
				return nil, err
			}
		}
	}
	return graph, nil
}
