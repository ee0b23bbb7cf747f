// 指示: miu200521358
package memhost

import (
	"testing"

	"github.com/miu200521358/mu_ctrlrig/pkg/domain/model"
	"github.com/miu200521358/mu_ctrlrig/pkg/infra/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHierarchyRejectsDuplicateAndMissingParent(t *testing.T) {
	h := NewHierarchy("root_ctrl")
	require.True(t, h.Contains("root_ctrl"))

	require.NoError(t, h.AddNull("head_space", "root_ctrl", model.IdentityTransform()))
	require.Error(t, h.AddNull("head_space", "", model.IdentityTransform()))
	require.Error(t, h.AddControl(model.ControlSpec{Name: "hair_01_ctrl", ParentName: "missing"}))
	require.NoError(t, h.AddControl(model.ControlSpec{Name: "hair_01_ctrl", ParentName: "head_space", JointIndex: 5}))

	element, ok := h.Element("hair_01_ctrl")
	require.True(t, ok)
	assert.Equal(t, ElementKindControl, element.Kind)
	assert.Equal(t, 5, element.JointIndex)
	assert.Equal(t, []string{"hair_01_ctrl"}, h.Children("head_space"))
	assert.Equal(t, 1, h.Count(ElementKindNull))
}

func TestGraphNodesPinsAndLinks(t *testing.T) {
	g := NewGraph("AI_Setup")

	_, err := g.AddNode(model.NodeSpec{Kind: model.NodeKindFunctionReference, Function: "Unknown"})
	require.Error(t, err)

	fn, err := g.AddNode(model.NodeSpec{Kind: model.NodeKindFunctionReference, Function: "AI_Setup"})
	require.NoError(t, err)
	arr, err := g.AddNode(model.NodeSpec{Kind: model.NodeKindMakeArray})
	require.NoError(t, err)
	assert.NotEqual(t, fn, arr)

	_, err = g.AddArrayPin(model.PinRef{Node: fn, Pin: "Values"})
	require.Error(t, err)

	first, err := g.AddArrayPin(model.PinRef{Node: arr, Pin: "Values"})
	require.NoError(t, err)
	second, err := g.AddArrayPin(model.PinRef{Node: arr, Pin: "Values"})
	require.NoError(t, err)
	require.NoError(t, g.SetPinDefault(first, "hair_01"))
	require.NoError(t, g.SetPinDefault(second, "hair_02"))
	require.NoError(t, g.SetPinDefault(model.PinRef{Node: fn, Pin: "Bone"}, "head"))
	assert.Equal(t, []string{"hair_01", "hair_02"}, g.ArrayValues(model.PinRef{Node: arr, Pin: "Values"}))

	value, ok := g.PinDefault(model.PinRef{Node: fn, Pin: "Bone"})
	require.True(t, ok)
	assert.Equal(t, "head", value)

	require.NoError(t, g.AddLink(model.PinRef{Node: arr, Pin: "Array"}, model.PinRef{Node: fn, Pin: "Bones"}))
	require.Error(t, g.AddLink(model.PinRef{Node: "missing", Pin: "Array"}, model.PinRef{Node: fn, Pin: "Bones"}))

	from, ok := g.ExecPredecessor(model.PinRef{Node: fn, Pin: "Bones"})
	require.True(t, ok)
	assert.Equal(t, arr, from.Node)

	require.NoError(t, g.RemoveNode(arr))
	assert.Empty(t, g.Links())
	_, ok = g.FindNode(arr)
	assert.False(t, ok)
}

func TestNewTemplateGraphWiresPlaceholders(t *testing.T) {
	cfg := config.Default().Graph
	g, err := NewTemplateGraph(cfg)
	require.NoError(t, err)

	for _, name := range append(cfg.Secondary.Names(), cfg.Weapon.Names()...) {
		_, ok := g.FindNode(name)
		require.True(t, ok, name)
		from, ok := g.ExecPredecessor(model.PinRef{Node: name, Pin: cfg.ExecutePin})
		require.True(t, ok, name)
		assert.Contains(t, from.Node, TemplateSequenceSuffix)
	}
	assert.Len(t, g.Nodes(), 12)
	assert.Len(t, g.Links(), 9)
}
