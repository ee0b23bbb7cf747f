// 指示: miu200521358
package mpresenter

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/miu200521358/mu_ctrlrig/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_ctrlrig/pkg/usecase/minteractor"
)

func TestStatusMessageKeyCoversEveryStatus(t *testing.T) {
	statuses := []minteractor.SessionStatus{
		minteractor.SessionStatusSkeletonRequired,
		minteractor.SessionStatusMappingRequired,
		minteractor.SessionStatusAwaitingMapping,
		minteractor.SessionStatusMappingFailed,
		minteractor.SessionStatusSelectBones,
		minteractor.SessionStatusSynthesisComplete,
		minteractor.SessionStatusSynthesisFailed,
	}
	seen := map[string]struct{}{}
	for _, status := range statuses {
		key := StatusMessageKey(status)
		if key == messages.StatusUnknown {
			t.Fatalf("status should have a message: %s", status)
		}
		if _, exists := seen[key]; exists {
			t.Fatalf("message should be unique: status=%s key=%s", status, key)
		}
		seen[key] = struct{}{}
	}
	if got := StatusMessageKey("bogus"); got != messages.StatusUnknown {
		t.Fatalf("unknown status mismatch: got=%s want=%s", got, messages.StatusUnknown)
	}
}

func TestStatusMessageAppendsCause(t *testing.T) {
	got := StatusMessage(minteractor.SessionStatusMappingFailed, errors.New("timeout"))
	want := messages.StatusMappingFailed + ": timeout"
	if got != want {
		t.Fatalf("status message mismatch: got=%s want=%s", got, want)
	}
	if got := StatusMessage(minteractor.SessionStatusSelectBones, nil); got != messages.StatusSelectBones {
		t.Fatalf("status message mismatch: got=%s want=%s", got, messages.StatusSelectBones)
	}
}

func TestProgressWriterWritesOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	writer := NewProgressWriter(&buf, "[rig] ")

	writer.ReportSynthesisProgress(minteractor.SynthesisProgressEvent{
		Type:       minteractor.SynthesisProgressEventTypeGroupBuilt,
		GroupIndex: 2,
		GroupCount: 3,
	})
	writer.ReportSynthesisProgress(minteractor.SynthesisProgressEvent{
		Type:      minteractor.SynthesisProgressEventTypeGraphInstantiated,
		NodeCount: 9,
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("line count mismatch: got=%d want=2 (%q)", len(lines), buf.String())
	}
	if lines[0] != "[rig] コントロール生成: 2/3" {
		t.Fatalf("group line mismatch: got=%s", lines[0])
	}
	if lines[1] != "[rig] グラフ展開完了: nodes=9" {
		t.Fatalf("graph line mismatch: got=%s", lines[1])
	}
}

func TestProgressWriterNilSafe(t *testing.T) {
	var writer *ProgressWriter
	writer.ReportSynthesisProgress(minteractor.SynthesisProgressEvent{Type: minteractor.SynthesisProgressEventTypeCompleted})
	NewProgressWriter(nil, "").ReportSynthesisProgress(minteractor.SynthesisProgressEvent{})
}
