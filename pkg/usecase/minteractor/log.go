// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_ctrlrig/pkg/domain/model"
	"github.com/miu200521358/mu_ctrlrig/pkg/shared/logging"
)

// logRigInfo はリグ合成の情報ログを出力する。
func logRigInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
}

// logRigDebug はリグ合成の詳細ログを出力する。
func logRigDebug(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Debug(format, params...)
}

// logRigWarn はリグ合成の警告ログを出力する。
func logRigWarn(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Warn(format, params...)
}

// addDiagnostic は警告を記録し、同じ内容を警告ログへ出力する。
func addDiagnostic(diagnostics *model.Diagnostics, id string, subject string, format string, params ...any) {
	if diagnostics == nil {
		return
	}
	diagnostics.Add(id, subject, format, params...)
	logRigWarn("%s", (*diagnostics)[len(*diagnostics)-1].String())
}
