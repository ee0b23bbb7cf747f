// 指示: miu200521358
// Package moutput はリグ合成ユースケースが利用する外部協調者の契約を定義する。
package moutput

import (
	"context"
	"time"

	"github.com/miu200521358/mu_ctrlrig/pkg/domain/model"
)

// SkeletonDescription は名前対応問い合わせへ渡すスケルトン記述を表す。
type SkeletonDescription struct {
	Skeleton *model.Skeleton
	UseAI    bool
}

// INameOracle は標準ボーン名と対象ボーン名の対応を返す協調者を表す。
type INameOracle interface {
	// GetStandardToTargetNameMap は標準名→対象名の対応を返す。
	GetStandardToTargetNameMap(ctx context.Context, desc SkeletonDescription) (map[string]string, error)
}

// IVertexInfoProvider はジョイントごとの頂点群を返す協調者を表す。
type IVertexInfoProvider interface {
	// GetVertexInfoPerBone はメッシュの頂点群をスケルトン順で返す。
	GetVertexInfoPerBone(mesh string) ([]model.BoneVertexInfo, error)
}

// IRigHierarchy はコントロール階層を保持するホストを表す。
type IRigHierarchy interface {
	// Contains は同名要素の有無を返す。
	Contains(name string) bool
	// AddNull は空間ノードを追加する。parent が空の場合は階層ルート直下へ置く。
	AddNull(name string, parent string, transform model.Transform) error
	// AddControl はコントロールを追加する。
	AddControl(spec model.ControlSpec) error
}

// IRigGraph は実行グラフを保持するホストを表す。
type IRigGraph interface {
	// Nodes は全ノードを返す。
	Nodes() []model.GraphNodeInfo
	// FindNode は名前でノードを返す。
	FindNode(name string) (model.GraphNodeInfo, bool)
	// ExecPredecessor は入力ピンへ接続された前段の出力ピンを返す。
	ExecPredecessor(pin model.PinRef) (model.PinRef, bool)
	// RemoveNode はノードと接続リンクを削除する。
	RemoveNode(name string) error
	// AddNode はノードを生成し、生成名を返す。
	AddNode(spec model.NodeSpec) (string, error)
	// SetPinDefault はピンの既定値を文字列で設定する。
	SetPinDefault(pin model.PinRef, value string) error
	// AddArrayPin は配列ピンへ要素を追加し、要素ピン参照を返す。
	AddArrayPin(pin model.PinRef) (model.PinRef, error)
	// AddLink はピン間リンクを生成する。
	AddLink(from model.PinRef, to model.PinRef) error
}

// IMetricsRecorder は合成処理の計測値を記録する。
type IMetricsRecorder interface {
	RecordClassification(label string, count int)
	RecordGroup(kind string)
	RecordControls(created, skipped int)
	RecordGraphNodes(count int)
	RecordDiagnostic(id string)
	RecordShapeCache(hit bool)
	ObserveSynthesis(elapsed time.Duration)
}
