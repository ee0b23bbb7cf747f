// 指示: miu200521358
// Package merr はエラーIDを保持するエラー型を提供する。
package merr

import (
	"errors"
	"fmt"
)

// エラーID一覧。
const (
	// ErrorIDSkeletonMissing はスケルトン未設定を表す。
	ErrorIDSkeletonMissing = "21101"
	// ErrorIDCorrespondenceMissing は名前対応未取得を表す。
	ErrorIDCorrespondenceMissing = "21102"
	// ErrorIDMeshMissing はメッシュ未選択を表す。
	ErrorIDMeshMissing = "21103"
	// ErrorIDSkeletonInvalid はスケルトン構造不正を表す。
	ErrorIDSkeletonInvalid = "21104"
	// ErrorIDJointOutOfRange はジョイントindex範囲外を表す。
	ErrorIDJointOutOfRange = "21201"
	// ErrorIDReclassifyRejected は分類上書き不可を表す。
	ErrorIDReclassifyRejected = "21202"
	// ErrorIDWorkflowBusy は別の合成処理が進行中であることを表す。
	ErrorIDWorkflowBusy = "21203"
	// ErrorIDConfigInvalid は設定値不正を表す。
	ErrorIDConfigInvalid = "21301"
	// ErrorIDInputInvalid は入力ファイル不正を表す。
	ErrorIDInputInvalid = "21401"
	// ErrorIDInputNotFound は入力ファイル不在を表す。
	ErrorIDInputNotFound = "21402"
	// ErrorIDHostFailed はホストAPI呼び出し失敗を表す。
	ErrorIDHostFailed = "21501"
	// ErrorIDOracleFailed は名前対応問い合わせの失敗を表す。
	ErrorIDOracleFailed = "21502"
)

// RigError はエラーID付きのエラーを表す。
type RigError struct {
	ID      string
	Message string
	Err     error
}

// NewError はエラーID付きのエラーを生成する。
func NewError(id string, message string, cause error) *RigError {
	return &RigError{ID: id, Message: message, Err: cause}
}

// Newf は書式付きメッセージでエラーID付きのエラーを生成する。
func Newf(id string, format string, params ...any) *RigError {
	return &RigError{ID: id, Message: fmt.Sprintf(format, params...)}
}

// Error はエラーメッセージを返す。
func (e *RigError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.ID, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.ID, e.Message)
}

// Unwrap は原因エラーを返す。
func (e *RigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ExtractErrorID はエラー連鎖から最初のエラーIDを取り出す。
func ExtractErrorID(err error) string {
	var rigErr *RigError
	if errors.As(err, &rigErr) && rigErr != nil {
		return rigErr.ID
	}
	return ""
}

// IsMissingInputError は入力不足系のエラーか判定する。
func IsMissingInputError(err error) bool {
	switch ExtractErrorID(err) {
	case ErrorIDSkeletonMissing, ErrorIDCorrespondenceMissing, ErrorIDMeshMissing:
		return true
	}
	return false
}
