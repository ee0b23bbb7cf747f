// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_ctrlrig/pkg/domain/model"
	"github.com/miu200521358/mu_ctrlrig/pkg/infra/config"
)

// BoneClassifier はルール表に従ってジョイントへ分類ラベルを付与する。
type BoneClassifier struct {
	zeroBoneNames     map[string]struct{}
	helperKeywords    []string
	accessoryKeywords []string
}

// NewBoneClassifier はルール表から分類器を生成する。ルール表は正規化して保持する。
func NewBoneClassifier(rules config.RuleConfig) *BoneClassifier {
	zeroBoneNames := make(map[string]struct{}, len(rules.ZeroBoneNames))
	for _, name := range rules.ZeroBoneNames {
		normalized := model.NormalizeBoneName(name)
		if normalized == "" {
			continue
		}
		zeroBoneNames[normalized] = struct{}{}
	}
	return &BoneClassifier{
		zeroBoneNames:     zeroBoneNames,
		helperKeywords:    normalizeKeywords(rules.HelperKeywords),
		accessoryKeywords: normalizeKeywords(rules.AccessoryKeywords),
	}
}

// Classify は1ジョイントの分類を返す。判定は ZeroBone, Helper, Accessory, ウェイト有無の順で最初に一致したものを採る。
func (c *BoneClassifier) Classify(joint model.Joint, correspondence *model.NameCorrespondence) model.Classification {
	normalized := model.NormalizeBoneName(joint.Name)
	if c.IsZeroBone(joint.Name, correspondence) {
		return model.ClassificationZeroBone
	}
	if _, ok := model.ContainsAnyKeyword(normalized, c.helperKeywords); ok {
		return model.ClassificationHelper
	}
	if _, ok := model.ContainsAnyKeyword(normalized, c.accessoryKeywords); ok {
		return model.ClassificationAccessory
	}
	if joint.HasSkinWeight {
		return model.ClassificationSecondary
	}
	return model.ClassificationHelper
}

// IsZeroBone は名前対応の値または標準語彙に含まれるか判定する。
func (c *BoneClassifier) IsZeroBone(name string, correspondence *model.NameCorrespondence) bool {
	if correspondence.HasTarget(name) {
		return true
	}
	_, ok := c.zeroBoneNames[model.NormalizeBoneName(name)]
	return ok
}

// ClassifyAll はスケルトン全ジョイントの分類表を生成する。
func (c *BoneClassifier) ClassifyAll(skeleton *model.Skeleton, correspondence *model.NameCorrespondence) *model.ClassificationTable {
	entries := make([]model.ClassificationEntry, skeleton.Len())
	for i, joint := range skeleton.Joints() {
		entries[i] = model.ClassificationEntry{
			Label:         c.Classify(joint, correspondence),
			HasSkinWeight: joint.HasSkinWeight,
		}
		logRigDebug("ジョイント分類: %s -> %s", joint.Name, entries[i].Label)
	}
	return model.NewClassificationTable(entries)
}

// normalizeKeywords はキーワードを比較用に正規化する。空要素は除く。
func normalizeKeywords(keywords []string) []string {
	normalized := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		value := model.NormalizeBoneName(keyword)
		if value == "" {
			continue
		}
		normalized = append(normalized, value)
	}
	return normalized
}
