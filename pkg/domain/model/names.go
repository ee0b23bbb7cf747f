// 指示: miu200521358
package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeBoneName はボーン名を比較用に前後空白除去・小文字化する。
func NormalizeBoneName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return cases.Lower(language.Und).String(trimmed)
}

// ContainsAnyKeyword は正規化済みの名前がキーワードのいずれかを含むか判定する。
func ContainsAnyKeyword(normalizedName string, keywords []string) (string, bool) {
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(normalizedName, keyword) {
			return keyword, true
		}
	}
	return "", false
}
