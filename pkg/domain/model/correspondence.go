// 指示: miu200521358
package model

import "sort"

// NameCorrespondence は標準ボーン名と対象スケルトンのボーン名の双方向対応を表す。
type NameCorrespondence struct {
	standardToTarget map[string]string
	targetToStandard map[string]string
}

// NewNameCorrespondence は標準名→対象名の対応から双方向対応を生成する。空の対象名は無視する。
func NewNameCorrespondence(standardToTarget map[string]string) *NameCorrespondence {
	corr := &NameCorrespondence{
		standardToTarget: make(map[string]string, len(standardToTarget)),
		targetToStandard: make(map[string]string, len(standardToTarget)),
	}
	standards := make([]string, 0, len(standardToTarget))
	for standard := range standardToTarget {
		standards = append(standards, standard)
	}
	// 同じ対象名へ複数の標準名が向く場合は辞書順で先の標準名を逆引きに採用する。
	sort.Strings(standards)
	for _, standard := range standards {
		target := standardToTarget[standard]
		if target == "" || standard == "" {
			continue
		}
		corr.standardToTarget[standard] = target
		key := NormalizeBoneName(target)
		if _, exists := corr.targetToStandard[key]; !exists {
			corr.targetToStandard[key] = standard
		}
	}
	return corr
}

// Len は対応数を返す。
func (c *NameCorrespondence) Len() int {
	if c == nil {
		return 0
	}
	return len(c.standardToTarget)
}

// IsEmpty は対応が空か判定する。
func (c *NameCorrespondence) IsEmpty() bool {
	return c.Len() == 0
}

// TargetOf は標準名に対応する対象名を返す。
func (c *NameCorrespondence) TargetOf(standard string) (string, bool) {
	if c == nil {
		return "", false
	}
	target, ok := c.standardToTarget[standard]
	return target, ok
}

// StandardOf は対象名(大文字小文字無視)に対応する標準名を返す。
func (c *NameCorrespondence) StandardOf(target string) (string, bool) {
	if c == nil {
		return "", false
	}
	standard, ok := c.targetToStandard[NormalizeBoneName(target)]
	return standard, ok
}

// HasTarget は対象名が対応の値に含まれるか判定する。
func (c *NameCorrespondence) HasTarget(target string) bool {
	_, ok := c.StandardOf(target)
	return ok
}

// Standards は標準名を昇順で返す。
func (c *NameCorrespondence) Standards() []string {
	if c == nil {
		return nil
	}
	standards := make([]string, 0, len(c.standardToTarget))
	for standard := range c.standardToTarget {
		standards = append(standards, standard)
	}
	sort.Strings(standards)
	return standards
}

// ToMap は標準名→対象名の複製を返す。
func (c *NameCorrespondence) ToMap() map[string]string {
	out := map[string]string{}
	if c == nil {
		return out
	}
	for standard, target := range c.standardToTarget {
		out[standard] = target
	}
	return out
}
