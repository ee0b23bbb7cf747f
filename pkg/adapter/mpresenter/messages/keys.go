// 指示: miu200521358
// Package messages は利用者へ提示するメッセージキーを提供する。
package messages

// メッセージキー一覧。
const (
	StatusSkeletonRequired  = "スケルトンを設定してください"
	StatusMappingRequired   = "名前対応を取得してください"
	StatusAwaitingMapping   = "名前対応の応答を待っています"
	StatusMappingFailed     = "名前対応の取得に失敗しました"
	StatusSelectBones       = "分類を確認して合成を開始してください"
	StatusSynthesisComplete = "リグ合成が完了しました"
	StatusSynthesisFailed   = "リグ合成に失敗しました"
	StatusUnknown           = "状態不明"

	MessageLoadFailed      = "読み込み失敗"
	MessageMappingFailed   = "名前対応取得失敗"
	MessageSynthesisFailed = "合成失敗"
	MessageInputRequired   = "リグ入力ファイルを指定してください"

	LogLoadSuccess      = "リグ読み込み成功: %s"
	LogMappingSuccess   = "名前対応取得成功: %d組"
	LogSynthesisSuccess = "リグ合成成功: groups=%d controls=%d nodes=%d warnings=%d"

	ProgressInputValidated    = "入力検証完了: joints=%d"
	ProgressGrouped           = "グループ構築完了: groups=%d"
	ProgressShapesFitted      = "形状フィット完了: joints=%d"
	ProgressGroupBuilt        = "コントロール生成: %d/%d"
	ProgressGraphInstantiated = "グラフ展開完了: nodes=%d"
	ProgressCompleted         = "合成完了: groups=%d"
)
