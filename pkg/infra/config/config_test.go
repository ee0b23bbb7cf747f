// 指示: miu200521358
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/miu200521358/mu_ctrlrig/pkg/shared/merr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Contains(t, cfg.Rules.ZeroBoneNames, "pelvis")
	assert.Contains(t, cfg.Rules.ZeroBoneNames, "ik_hand_gun")
	assert.Equal(t, "_ctrl", cfg.Hierarchy.ControlSuffix)
	assert.Equal(t, []string{"AI_Setup", "AI_Forward", "AI_Backward"}, cfg.Graph.Secondary.Names())
}

func TestLoadWithoutSourcesReturnsDefault(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYamlOverridesOnlyGivenFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rig.yaml")
	body := []byte(`shape:
  min_scale: 0.2
rules:
  helper_keywords: ["twist", "socket"]
`)
	require.NoError(t, os.WriteFile(path, body, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, cfg.Shape.MinScale, 1e-9)
	assert.InDelta(t, 5.0, cfg.Shape.MaxScale, 1e-9)
	assert.Equal(t, []string{"twist", "socket"}, cfg.Rules.HelperKeywords)
	assert.Equal(t, Default().Rules.ZeroBoneNames, cfg.Rules.ZeroBoneNames)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MU_CTRLRIG_SHAPE__MAX_SCALE", "3.5")
	t.Setenv("MU_CTRLRIG_HIERARCHY__TOP_LEVEL_CONTROL_NAME", "global_ctrl")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.InDelta(t, 3.5, cfg.Shape.MaxScale, 1e-9)
	assert.Equal(t, "global_ctrl", cfg.Hierarchy.TopLevelControlName)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("MU_CTRLRIG_SHAPE__MIN_SCALE", "9")
	_, err := Load("")
	require.Error(t, err)
	assert.Equal(t, merr.ErrorIDConfigInvalid, merr.ExtractErrorID(err))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, merr.ErrorIDConfigInvalid, merr.ExtractErrorID(err))
}

func TestCloneIsIndependent(t *testing.T) {
	cfg := Default()
	copied, err := cfg.Clone()
	require.NoError(t, err)
	copied.Rules.HelperKeywords[0] = "changed"
	copied.Shape.MinScale = 1.0
	assert.Equal(t, "twist", cfg.Rules.HelperKeywords[0])
	assert.InDelta(t, 0.15, cfg.Shape.MinScale, 1e-9)
}

func TestValidateRejectsWeaponAnchorNames(t *testing.T) {
	cases := map[string][2]string{
		"empty_left":  {"", "weapon_r"},
		"empty_right": {"weapon_l", ""},
		"blank_right": {"weapon_l", "  "},
		"same":        {"weapon", "weapon"},
	}
	for name, anchors := range cases {
		cfg := Default()
		cfg.Rules.WeaponLeftAnchorName = anchors[0]
		cfg.Rules.WeaponRightAnchorName = anchors[1]
		err := cfg.Validate()
		require.Errorf(t, err, "case=%s", name)
		assert.Equalf(t, merr.ErrorIDConfigInvalid, merr.ExtractErrorID(err), "case=%s", name)
	}
}

func TestDefaultWeaponAnchorJoints(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "hand_l", cfg.Rules.WeaponLeftAnchorJoint)
	assert.Equal(t, "hand_r", cfg.Rules.WeaponRightAnchorJoint)
}
