package model

import "testing"

func TestRigWarningIDsAreNonEmptyAndUnique(t *testing.T) {
	warningIDs := []string{
		RigWarningNoVertices,
		RigWarningAnchorUnresolved,
		RigWarningAnchorJointMissing,
		RigWarningTopControlMissing,
		RigWarningControlExists,
		RigWarningPlaceholderMissing,
		RigWarningPredecessorMissing,
		RigWarningFunctionMissing,
		RigWarningLinkFailed,
		RigWarningPinFailed,
		RigWarningHostFailed,
	}

	seen := map[string]struct{}{}
	for _, warningID := range warningIDs {
		if warningID == "" {
			t.Fatalf("warning id should not be empty")
		}
		if _, exists := seen[warningID]; exists {
			t.Fatalf("warning id should be unique: %s", warningID)
		}
		seen[warningID] = struct{}{}
	}
}

func TestDiagnosticsAddAndCount(t *testing.T) {
	var diagnostics Diagnostics
	diagnostics.Add(RigWarningNoVertices, "hair_01", "vertices=%d", 0)
	diagnostics.Add(RigWarningNoVertices, "hair_02", "vertices=%d", 0)
	diagnostics.Add(RigWarningLinkFailed, "", "link")

	if got := diagnostics.Count(RigWarningNoVertices); got != 2 {
		t.Fatalf("count mismatch: got=%d want=2", got)
	}
	if got := diagnostics[0].String(); got != "RigWarningNoVertices[hair_01]: vertices=0" {
		t.Fatalf("string mismatch: %s", got)
	}
	if got := diagnostics[2].String(); got != "RigWarningLinkFailed: link" {
		t.Fatalf("string mismatch: %s", got)
	}
}
