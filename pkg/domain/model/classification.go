// 指示: miu200521358
package model

import (
	"fmt"
	"sort"

	"github.com/tiendc/go-deepcopy"

	"github.com/miu200521358/mu_ctrlrig/pkg/shared/merr"
)

// Classification はジョイント分類を表す。
type Classification int

const (
	// ClassificationZeroBone は標準骨格に対応するジョイント。
	ClassificationZeroBone Classification = iota
	// ClassificationAccessory は髪・布などの表示用グループ。
	ClassificationAccessory
	// ClassificationHelper はコントロールを生成しない補助ジョイント。
	ClassificationHelper
	// ClassificationSecondary はセカンダリコントロール対象。
	ClassificationSecondary
	// ClassificationWeapon は武器コントロール対象。手動上書きでのみ設定される。
	ClassificationWeapon
)

var classificationNames = map[Classification]string{
	ClassificationZeroBone:  "zero",
	ClassificationAccessory: "accessory",
	ClassificationHelper:    "helper",
	ClassificationSecondary: "secondary",
	ClassificationWeapon:    "weapon",
}

// String は分類名を返す。
func (c Classification) String() string {
	if name, ok := classificationNames[c]; ok {
		return name
	}
	return fmt.Sprintf("classification(%d)", int(c))
}

// ParseClassification は分類名から分類を返す。
func ParseClassification(name string) (Classification, bool) {
	normalized := NormalizeBoneName(name)
	for classification, candidate := range classificationNames {
		if candidate == normalized {
			return classification, true
		}
	}
	return ClassificationHelper, false
}

// IsOverrideTarget は手動上書き先として許可される分類か判定する。
func (c Classification) IsOverrideTarget() bool {
	return c == ClassificationHelper || c == ClassificationSecondary || c == ClassificationWeapon
}

// ClassificationEntry は1ジョイント分の分類状態を表す。
type ClassificationEntry struct {
	Label         Classification
	Overridden    bool
	HasSkinWeight bool
}

// ClassificationTable はジョイントindexごとの分類を保持する。
type ClassificationTable struct {
	entries []ClassificationEntry
}

// NewClassificationTable は分類済みエントリから分類表を生成する。
func NewClassificationTable(entries []ClassificationEntry) *ClassificationTable {
	return &ClassificationTable{entries: append([]ClassificationEntry(nil), entries...)}
}

// Len はエントリ数を返す。
func (t *ClassificationTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entry は index のエントリを返す。
func (t *ClassificationTable) Entry(index int) (ClassificationEntry, bool) {
	if t == nil || index < 0 || index >= len(t.entries) {
		return ClassificationEntry{}, false
	}
	return t.entries[index], true
}

// Label は index の分類ラベルを返す。範囲外は Helper とする。
func (t *ClassificationTable) Label(index int) Classification {
	entry, ok := t.Entry(index)
	if !ok {
		return ClassificationHelper
	}
	return entry.Label
}

// ControlRole はコントロール生成上の役割を返す。
// Accessory はウェイトありなら Secondary、なしなら Helper として扱う。
func (t *ClassificationTable) ControlRole(index int) Classification {
	entry, ok := t.Entry(index)
	if !ok {
		return ClassificationHelper
	}
	if entry.Label != ClassificationAccessory {
		return entry.Label
	}
	if entry.HasSkinWeight {
		return ClassificationSecondary
	}
	return ClassificationHelper
}

// Reclassify はZeroBone以外のジョイント分類を手動で上書きする。
func (t *ClassificationTable) Reclassify(index int, label Classification) error {
	if t == nil || index < 0 || index >= len(t.entries) {
		return merr.Newf(merr.ErrorIDJointOutOfRange, "ジョイントindexが範囲外です: %d", index)
	}
	if t.entries[index].Label == ClassificationZeroBone {
		return merr.Newf(merr.ErrorIDReclassifyRejected, "ZeroBoneは上書きできません: %d", index)
	}
	if !label.IsOverrideTarget() {
		return merr.Newf(merr.ErrorIDReclassifyRejected, "上書き先に指定できない分類です: %s", label)
	}
	t.entries[index].Label = label
	t.entries[index].Overridden = true
	return nil
}

// IndexesWithRole は指定役割のジョイントindexを昇順で返す。
func (t *ClassificationTable) IndexesWithRole(roles ...Classification) []int {
	indexes := make([]int, 0)
	for i := 0; i < t.Len(); i++ {
		role := t.ControlRole(i)
		for _, target := range roles {
			if role == target {
				indexes = append(indexes, i)
				break
			}
		}
	}
	return indexes
}

// Counts はラベルごとの件数を返す。
func (t *ClassificationTable) Counts() map[Classification]int {
	counts := map[Classification]int{}
	for i := 0; i < t.Len(); i++ {
		counts[t.entries[i].Label]++
	}
	return counts
}

// SortedLabels は件数表のラベルを列挙順で返す。
func SortedLabels(counts map[Classification]int) []Classification {
	labels := make([]Classification, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i int, j int) bool { return labels[i] < labels[j] })
	return labels
}

// Clone は分類表の独立した複製を返す。
func (t *ClassificationTable) Clone() (*ClassificationTable, error) {
	if t == nil {
		return nil, nil
	}
	var copied []ClassificationEntry
	if err := deepcopy.Copy(&copied, t.entries); err != nil {
		return nil, fmt.Errorf("分類表の複製に失敗しました: %w", err)
	}
	return &ClassificationTable{entries: copied}, nil
}
