// 指示: miu200521358
package model

import "fmt"

const (
	// RigWarningNoVertices は頂点なしで既定形状を使った警告。
	RigWarningNoVertices = "RigWarningNoVertices"
	// RigWarningAnchorUnresolved はアンカー解決不可でルートへ退避した警告。
	RigWarningAnchorUnresolved = "RigWarningAnchorUnresolved"
	// RigWarningAnchorJointMissing はアンカーのバインド変換が見つからない警告。
	RigWarningAnchorJointMissing = "RigWarningAnchorJointMissing"
	// RigWarningTopControlMissing は最上位コントロール不在でルート直下へ配置した警告。
	RigWarningTopControlMissing = "RigWarningTopControlMissing"
	// RigWarningControlExists は同名コントロールが既存のため生成を省略した警告。
	RigWarningControlExists = "RigWarningControlExists"
	// RigWarningPlaceholderMissing はテンプレートのプレースホルダ不在警告。
	RigWarningPlaceholderMissing = "RigWarningPlaceholderMissing"
	// RigWarningPredecessorMissing はプレースホルダの実行前段ノード不在警告。
	RigWarningPredecessorMissing = "RigWarningPredecessorMissing"
	// RigWarningFunctionMissing はライブラリ関数参照の生成失敗警告。
	RigWarningFunctionMissing = "RigWarningFunctionMissing"
	// RigWarningLinkFailed はリンク生成失敗警告。
	RigWarningLinkFailed = "RigWarningLinkFailed"
	// RigWarningPinFailed はピン値設定失敗警告。
	RigWarningPinFailed = "RigWarningPinFailed"
	// RigWarningHostFailed はホスト操作失敗警告。
	RigWarningHostFailed = "RigWarningHostFailed"
)

// Diagnostic は処理継続可能な警告1件を表す。
type Diagnostic struct {
	ID      string
	Subject string
	Message string
}

// String は表示用文字列を返す。
func (d Diagnostic) String() string {
	if d.Subject == "" {
		return fmt.Sprintf("%s: %s", d.ID, d.Message)
	}
	return fmt.Sprintf("%s[%s]: %s", d.ID, d.Subject, d.Message)
}

// Diagnostics は警告の集合を表す。
type Diagnostics []Diagnostic

// Add は警告を追加する。
func (d *Diagnostics) Add(id string, subject string, format string, params ...any) {
	*d = append(*d, Diagnostic{ID: id, Subject: subject, Message: fmt.Sprintf(format, params...)})
}

// Count は指定IDの件数を返す。
func (d Diagnostics) Count(id string) int {
	count := 0
	for _, diagnostic := range d {
		if diagnostic.ID == id {
			count++
		}
	}
	return count
}
