// 指示: miu200521358
package io_rig

import (
	"bytes"
	"context"

	"github.com/miu200521358/mu_ctrlrig/pkg/adapter/oracle"
	"github.com/miu200521358/mu_ctrlrig/pkg/shared/merr"
	"github.com/miu200521358/mu_ctrlrig/pkg/usecase/port/moutput"
)

// LoadMapping は問い合わせ応答形式のJSONファイルから標準名→対象名の対応を読み込む。
func LoadMapping(path string) (map[string]string, error) {
	b, err := readInput(path)
	if err != nil {
		return nil, err
	}
	response, err := oracle.DecodeMappingResponse(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	logIoInfo("名前対応読込完了: file=%s method=%s pairs=%d", path, response.Method, len(response.Mapping))
	return response.Mapping, nil
}

// MappingFileOracle は保存済みの応答ファイルを名前対応の問い合わせ先として扱う。
type MappingFileOracle struct {
	Path string
}

// GetStandardToTargetNameMap は応答ファイルを読み込み、スケルトンに存在しない対象名を除いた対応を返す。
func (o MappingFileOracle) GetStandardToTargetNameMap(
	ctx context.Context,
	desc moutput.SkeletonDescription,
) (map[string]string, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, merr.NewError(merr.ErrorIDOracleFailed, "名前対応の読込が中断されました", err)
		}
	}
	mapping, err := LoadMapping(o.Path)
	if err != nil {
		return nil, err
	}
	if desc.Skeleton == nil {
		return mapping, nil
	}
	for standard, target := range mapping {
		if _, ok := desc.Skeleton.IndexOf(target); !ok {
			logIoWarn("名前対応の対象ボーンがスケルトンにないため除外します: %s -> %s", standard, target)
			delete(mapping, standard)
		}
	}
	return mapping, nil
}
