// 指示: miu200521358
package config

import (
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/miu200521358/mu_ctrlrig/pkg/shared/merr"
)

const (
	// EnvPrefix は環境変数による上書きの接頭辞。
	EnvPrefix        = "MU_CTRLRIG_"
	// EnvConfigPath は設定ファイルパスを指定する環境変数名。
	EnvConfigPath    = "MU_CTRLRIG_CONFIG"
	envNestDelimiter = "__"
)

// Load は既定値、YAMLファイル、環境変数の順に重ねて設定を構築する。
// path が空の場合は MU_CTRLRIG_CONFIG を参照する。
// 環境変数は MU_CTRLRIG_SHAPE__MIN_SCALE のように "__" で階層を区切る。
func Load(path string) (*RigConfig, error) {
	k := koanf.New(".")

	if strings.TrimSpace(path) == "" {
		path = lookupEnv(EnvConfigPath)
	}
	if strings.TrimSpace(path) != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, merr.NewError(merr.ErrorIDConfigInvalid, "設定ファイルの読み込みに失敗しました", err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		if s == EnvConfigPath {
			return ""
		}
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, envNestDelimiter, ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, merr.NewError(merr.ErrorIDConfigInvalid, "環境変数の読み込みに失敗しました", err)
	}

	cfg := Default()
	if len(k.Keys()) == 0 {
		return cfg, nil
	}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           cfg,
			WeaklyTypedInput: true,
			ZeroFields:       true,
		},
	}); err != nil {
		return nil, merr.NewError(merr.ErrorIDConfigInvalid, "設定の展開に失敗しました", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は設定値の整合性を検証する。
func (c *RigConfig) Validate() error {
	if c == nil {
		return invalidConfigError("設定が未指定です")
	}
	shape := c.Shape
	if shape.UnitDivisor <= 0 {
		return invalidConfigError("unit_divisor は正の値が必要です: %v", shape.UnitDivisor)
	}
	if shape.MinScale <= 0 || shape.MaxScale < shape.MinScale {
		return invalidConfigError("min_scale/max_scale が不正です: %v/%v", shape.MinScale, shape.MaxScale)
	}
	if shape.OutwardMargin <= 1.0 {
		return invalidConfigError("outward_margin は1より大きい値が必要です: %v", shape.OutwardMargin)
	}
	if shape.CacheSize <= 0 {
		return invalidConfigError("cache_size は正の値が必要です: %d", shape.CacheSize)
	}
	if strings.TrimSpace(c.Rules.RootAnchorName) == "" {
		return invalidConfigError("root_anchor_name が未指定です")
	}
	left := strings.TrimSpace(c.Rules.WeaponLeftAnchorName)
	right := strings.TrimSpace(c.Rules.WeaponRightAnchorName)
	if left == "" || right == "" || left == right {
		return invalidConfigError("武器アンカー名が不正です: %s/%s", c.Rules.WeaponLeftAnchorName, c.Rules.WeaponRightAnchorName)
	}
	for _, name := range append(c.Graph.Secondary.Names(), c.Graph.Weapon.Names()...) {
		if strings.TrimSpace(name) == "" {
			return invalidConfigError("ライブラリ関数名が未指定です")
		}
	}
	if c.Graph.Spacing <= 0 {
		return invalidConfigError("spacing は正の値が必要です: %v", c.Graph.Spacing)
	}
	return nil
}
