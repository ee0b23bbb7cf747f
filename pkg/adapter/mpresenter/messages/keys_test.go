// 指示: miu200521358
package messages

import "testing"

func TestStatusAndProgressKeysAreDefined(t *testing.T) {
	keys := []string{
		StatusSkeletonRequired,
		StatusMappingRequired,
		StatusAwaitingMapping,
		StatusMappingFailed,
		StatusSelectBones,
		StatusSynthesisComplete,
		StatusSynthesisFailed,
		StatusUnknown,
		ProgressInputValidated,
		ProgressGrouped,
		ProgressShapesFitted,
		ProgressGroupBuilt,
		ProgressGraphInstantiated,
		ProgressCompleted,
	}

	seen := map[string]struct{}{}
	for _, key := range keys {
		if key == "" {
			t.Fatalf("key should not be empty")
		}
		if _, exists := seen[key]; exists {
			t.Fatalf("key should be unique: %s", key)
		}
		seen[key] = struct{}{}
	}
}
