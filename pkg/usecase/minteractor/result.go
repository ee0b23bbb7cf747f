// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_ctrlrig/pkg/domain/model"
)

// SynthesisProgressEventType は合成処理の進捗イベント種別を表す。
type SynthesisProgressEventType string

const (
	// SynthesisProgressEventTypeInputValidated は入力検証完了イベントを表す。
	SynthesisProgressEventTypeInputValidated SynthesisProgressEventType = "input_validated"
	// SynthesisProgressEventTypeGrouped はスペースグループ構築完了イベントを表す。
	SynthesisProgressEventTypeGrouped SynthesisProgressEventType = "grouped"
	// SynthesisProgressEventTypeShapesFitted は形状フィット完了イベントを表す。
	SynthesisProgressEventTypeShapesFitted SynthesisProgressEventType = "shapes_fitted"
	// SynthesisProgressEventTypeGroupBuilt はグループ1件のコントロール生成完了イベントを表す。
	SynthesisProgressEventTypeGroupBuilt SynthesisProgressEventType = "group_built"
	// SynthesisProgressEventTypeGraphInstantiated はグラフ展開完了イベントを表す。
	SynthesisProgressEventTypeGraphInstantiated SynthesisProgressEventType = "graph_instantiated"
	// SynthesisProgressEventTypeCompleted は合成完了イベントを表す。
	SynthesisProgressEventTypeCompleted SynthesisProgressEventType = "completed"
)

// SynthesisProgressEvent は合成処理の進捗イベントを表す。
type SynthesisProgressEvent struct {
	Type       SynthesisProgressEventType
	GroupCount int
	GroupIndex int
	JointCount int
	NodeCount  int
}

// ISynthesisProgressReporter は合成処理の進捗通知契約を表す。
type ISynthesisProgressReporter interface {
	// ReportSynthesisProgress は合成処理進捗を通知する。
	ReportSynthesisProgress(event SynthesisProgressEvent)
}

// SynthesisResult は合成結果を表す。
type SynthesisResult struct {
	Groups      model.SpaceGroups
	Builds      []model.GroupBuild
	Graph       InstantiationResult
	Diagnostics model.Diagnostics
}

// ControlsCreated は生成したコントロール数を返す。
func (r *SynthesisResult) ControlsCreated() int {
	if r == nil {
		return 0
	}
	total := 0
	for _, build := range r.Builds {
		total += build.Created
	}
	return total
}

// reportSynthesisProgress は合成処理の進捗を通知する。
func reportSynthesisProgress(reporter ISynthesisProgressReporter, event SynthesisProgressEvent) {
	if reporter == nil {
		return
	}
	reporter.ReportSynthesisProgress(event)
}
