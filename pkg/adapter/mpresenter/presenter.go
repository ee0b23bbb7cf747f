// 指示: miu200521358
// Package mpresenter はセッション状態と合成進捗を利用者向けの文言へ変換する。
package mpresenter

import (
	"fmt"
	"io"
	"sync"

	"github.com/miu200521358/mu_ctrlrig/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_ctrlrig/pkg/usecase/minteractor"
)

var statusMessages = map[minteractor.SessionStatus]string{
	minteractor.SessionStatusSkeletonRequired:  messages.StatusSkeletonRequired,
	minteractor.SessionStatusMappingRequired:   messages.StatusMappingRequired,
	minteractor.SessionStatusAwaitingMapping:   messages.StatusAwaitingMapping,
	minteractor.SessionStatusMappingFailed:     messages.StatusMappingFailed,
	minteractor.SessionStatusSelectBones:       messages.StatusSelectBones,
	minteractor.SessionStatusSynthesisComplete: messages.StatusSynthesisComplete,
	minteractor.SessionStatusSynthesisFailed:   messages.StatusSynthesisFailed,
}

// StatusMessageKey はセッション状態に対応するメッセージキーを返す。
func StatusMessageKey(status minteractor.SessionStatus) string {
	if key, ok := statusMessages[status]; ok {
		return key
	}
	return messages.StatusUnknown
}

// StatusMessage はセッション状態の表示文言を返す。原因エラーがあれば併記する。
func StatusMessage(status minteractor.SessionStatus, cause error) string {
	key := StatusMessageKey(status)
	if cause == nil {
		return key
	}
	return fmt.Sprintf("%s: %v", key, cause)
}

// ProgressMessage は合成進捗イベントの表示文言を返す。
func ProgressMessage(event minteractor.SynthesisProgressEvent) string {
	switch event.Type {
	case minteractor.SynthesisProgressEventTypeInputValidated:
		return fmt.Sprintf(messages.ProgressInputValidated, event.JointCount)
	case minteractor.SynthesisProgressEventTypeGrouped:
		return fmt.Sprintf(messages.ProgressGrouped, event.GroupCount)
	case minteractor.SynthesisProgressEventTypeShapesFitted:
		return fmt.Sprintf(messages.ProgressShapesFitted, event.JointCount)
	case minteractor.SynthesisProgressEventTypeGroupBuilt:
		return fmt.Sprintf(messages.ProgressGroupBuilt, event.GroupIndex, event.GroupCount)
	case minteractor.SynthesisProgressEventTypeGraphInstantiated:
		return fmt.Sprintf(messages.ProgressGraphInstantiated, event.NodeCount)
	case minteractor.SynthesisProgressEventTypeCompleted:
		return fmt.Sprintf(messages.ProgressCompleted, event.GroupCount)
	}
	return string(event.Type)
}

// ProgressWriter は合成進捗を1行ずつ書き出す。
type ProgressWriter struct {
	mu     sync.Mutex
	out    io.Writer
	prefix string
}

// NewProgressWriter は進捗の書き出し先を生成する。
func NewProgressWriter(out io.Writer, prefix string) *ProgressWriter {
	return &ProgressWriter{out: out, prefix: prefix}
}

// ReportSynthesisProgress は合成進捗を書き出す。
func (w *ProgressWriter) ReportSynthesisProgress(event minteractor.SynthesisProgressEvent) {
	if w == nil || w.out == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, "%s%s\n", w.prefix, ProgressMessage(event))
}
