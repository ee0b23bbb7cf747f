// 指示: miu200521358
// Package oracle は名前対応問い合わせの要求/応答形式と、ローカルのチェーン解析実装を提供する。
package oracle

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/miu200521358/mu_ctrlrig/pkg/domain/model"
	"github.com/miu200521358/mu_ctrlrig/pkg/shared/merr"
)

// BoneInfo は問い合わせ要求の1ボーンを表す。
type BoneInfo struct {
	Name     string   `json:"name"`
	Parent   *string  `json:"parent,omitempty"`
	Children []string `json:"children"`
}

// MappingRequest は名前対応問い合わせの要求を表す。
type MappingRequest struct {
	Bones []BoneInfo `json:"bones"`
	UseAI bool       `json:"use_ai"`
}

// MappingResponse は名前対応問い合わせの応答を表す。
type MappingResponse struct {
	Mapping   map[string]string `json:"mapping"`
	Method    string            `json:"method"`
	BoneCount int               `json:"bone_count"`
}

// BuildMappingRequest はスケルトンから問い合わせ要求を生成する。ボーン順はジョイントindex順。
func BuildMappingRequest(skeleton *model.Skeleton, useAI bool) (MappingRequest, error) {
	if skeleton == nil || skeleton.Len() == 0 {
		return MappingRequest{}, merr.NewError(merr.ErrorIDSkeletonMissing, "問い合わせ対象のスケルトンがありません", nil)
	}
	request := MappingRequest{Bones: make([]BoneInfo, 0, skeleton.Len()), UseAI: useAI}
	for i := 0; i < skeleton.Len(); i++ {
		joint, _ := skeleton.Joint(i)
		info := BoneInfo{Name: joint.Name, Children: []string{}}
		if parentIndex := skeleton.Parent(i); parentIndex != model.NoParentIndex {
			parent, _ := skeleton.Joint(parentIndex)
			parentName := parent.Name
			info.Parent = &parentName
		}
		for _, childIndex := range skeleton.Children(i) {
			child, _ := skeleton.Joint(childIndex)
			info.Children = append(info.Children, child.Name)
		}
		request.Bones = append(request.Bones, info)
	}
	return request, nil
}

// Encode は要求をJSONで書き出す。
func (r MappingRequest) Encode(w io.Writer) error {
	if err := json.NewEncoder(w).Encode(r); err != nil {
		return fmt.Errorf("問い合わせ要求の書き出しに失敗しました: %w", err)
	}
	return nil
}

// DecodeMappingRequest はJSONから問い合わせ要求を読み込む。
func DecodeMappingRequest(r io.Reader) (MappingRequest, error) {
	var request MappingRequest
	if err := json.NewDecoder(r).Decode(&request); err != nil {
		return MappingRequest{}, merr.NewError(merr.ErrorIDInputInvalid, "問い合わせ要求の解析に失敗しました", err)
	}
	return request, nil
}

// DecodeMappingResponse はJSONから問い合わせ応答を読み込む。空の対象名を持つ対応は除外する。
func DecodeMappingResponse(r io.Reader) (MappingResponse, error) {
	var response MappingResponse
	if err := json.NewDecoder(r).Decode(&response); err != nil {
		return MappingResponse{}, merr.NewError(merr.ErrorIDInputInvalid, "問い合わせ応答の解析に失敗しました", err)
	}
	if response.Mapping == nil {
		return MappingResponse{}, merr.Newf(merr.ErrorIDInputInvalid, "問い合わせ応答に mapping がありません")
	}
	for standard, target := range response.Mapping {
		if standard == "" || target == "" {
			delete(response.Mapping, standard)
		}
	}
	return response, nil
}

// Encode は応答をJSONで書き出す。
func (r MappingResponse) Encode(w io.Writer) error {
	if err := json.NewEncoder(w).Encode(r); err != nil {
		return fmt.Errorf("問い合わせ応答の書き出しに失敗しました: %w", err)
	}
	return nil
}
