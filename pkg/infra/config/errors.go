// 指示: miu200521358
package config

import "github.com/miu200521358/mu_ctrlrig/pkg/shared/merr"

// invalidConfigError は設定値不正のエラーを生成する。
func invalidConfigError(format string, params ...any) error {
	return merr.Newf(merr.ErrorIDConfigInvalid, format, params...)
}
