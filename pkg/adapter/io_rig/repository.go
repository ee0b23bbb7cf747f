// 指示: miu200521358
// Package io_rig はJSON形式のリグ入力(スケルトンとジョイント別頂点群)を読み込む。
package io_rig

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/miu200521358/mu_ctrlrig/pkg/domain/model"
	"github.com/miu200521358/mu_ctrlrig/pkg/shared/logging"
	"github.com/miu200521358/mu_ctrlrig/pkg/shared/merr"
)

// LoadProgressEventType はリグ読込進捗イベント種別を表す。
type LoadProgressEventType string

const (
	// LoadProgressEventTypeFileReadComplete はファイル読込完了イベントを表す。
	LoadProgressEventTypeFileReadComplete LoadProgressEventType = "file_read_complete"
	// LoadProgressEventTypeJsonParsed はJSON解析完了イベントを表す。
	LoadProgressEventTypeJsonParsed LoadProgressEventType = "json_parsed"
	// LoadProgressEventTypeMeshProcessed はメッシュ変換進行イベントを表す。
	LoadProgressEventTypeMeshProcessed LoadProgressEventType = "mesh_processed"
	// LoadProgressEventTypeCompleted はリグ読込完了イベントを表す。
	LoadProgressEventTypeCompleted LoadProgressEventType = "completed"
)

// LoadProgressEvent はリグ読込進捗イベントを表す。
type LoadProgressEvent struct {
	Type          LoadProgressEventType
	FileSizeBytes int
	JointCount    int
	MeshTotal     int
	MeshDone      int
}

// RigAsset は読み込んだリグ入力を表す。
type RigAsset struct {
	Skeleton *model.Skeleton
	// Meshes はメッシュ名の昇順。
	Meshes []string
}

// DefaultMesh は先頭のメッシュ名を返す。メッシュがない場合は空文字。
func (a *RigAsset) DefaultMesh() string {
	if a == nil || len(a.Meshes) == 0 {
		return ""
	}
	return a.Meshes[0]
}

// RigRepository はリグ入力の読み込みと、メッシュ別頂点群の提供を行う。
type RigRepository struct {
	mu                   sync.RWMutex
	clouds               map[string][]model.BoneVertexInfo
	loadProgressReporter func(LoadProgressEvent)
}

// NewRigRepository はRigRepositoryを生成する。
func NewRigRepository() *RigRepository {
	return &RigRepository{clouds: map[string][]model.BoneVertexInfo{}}
}

// SetLoadProgressReporter はリグ読込進捗受信コールバックを設定する。
func (r *RigRepository) SetLoadProgressReporter(reporter func(LoadProgressEvent)) {
	if r == nil {
		return
	}
	r.loadProgressReporter = reporter
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *RigRepository) CanLoad(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// InferName はパスから表示名を推定する。
func (r *RigRepository) InferName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load はリグ入力ファイルを読み込む。読み込んだ頂点群は以降 GetVertexInfoPerBone で参照できる。
func (r *RigRepository) Load(path string) (*RigAsset, error) {
	if !r.CanLoad(path) {
		return nil, merr.Newf(merr.ErrorIDInputInvalid, "入力拡張子が .json ではありません: %s", path)
	}
	logIoInfo("リグ読込開始: file=%s", filepath.Base(path))

	b, err := readInput(path)
	if err != nil {
		return nil, err
	}
	r.reportLoadProgress(LoadProgressEvent{Type: LoadProgressEventTypeFileReadComplete, FileSizeBytes: len(b)})

	doc := rigDocument{}
	decoder := json.NewDecoder(bytes.NewReader(b))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return nil, merr.NewError(merr.ErrorIDInputInvalid, "リグJSONの解析に失敗しました", err)
	}
	if doc.Name == "" {
		doc.Name = r.InferName(path)
	}
	r.reportLoadProgress(LoadProgressEvent{
		Type:          LoadProgressEventTypeJsonParsed,
		FileSizeBytes: len(b),
		JointCount:    len(doc.Joints),
		MeshTotal:     len(doc.Meshes),
	})

	skeleton, err := doc.buildSkeleton()
	if err != nil {
		return nil, err
	}
	logIoInfo("リグ読込ステップ: スケルトン構築完了 joints=%d", skeleton.Len())

	clouds := make(map[string][]model.BoneVertexInfo, len(doc.Meshes))
	for i, mesh := range doc.Meshes {
		infos, err := buildVertexInfos(skeleton, mesh)
		if err != nil {
			return nil, err
		}
		clouds[mesh.Name] = infos
		r.reportLoadProgress(LoadProgressEvent{
			Type:       LoadProgressEventTypeMeshProcessed,
			JointCount: skeleton.Len(),
			MeshTotal:  len(doc.Meshes),
			MeshDone:   i + 1,
		})
		logIoDebug("リグ読込ステップ: メッシュ変換 mesh=%s bones=%d", mesh.Name, len(infos))
	}

	r.mu.Lock()
	r.clouds = clouds
	r.mu.Unlock()

	asset := &RigAsset{Skeleton: skeleton, Meshes: make([]string, 0, len(clouds))}
	for name := range clouds {
		asset.Meshes = append(asset.Meshes, name)
	}
	sort.Strings(asset.Meshes)
	r.reportLoadProgress(LoadProgressEvent{
		Type:       LoadProgressEventTypeCompleted,
		JointCount: skeleton.Len(),
		MeshTotal:  len(doc.Meshes),
		MeshDone:   len(doc.Meshes),
	})
	logIoInfo("リグ読込完了: name=%s joints=%d meshes=%d", skeleton.Name, skeleton.Len(), len(asset.Meshes))
	return asset, nil
}

// GetVertexInfoPerBone は読み込み済みメッシュのジョイント別頂点群をジョイントindex順で返す。
func (r *RigRepository) GetVertexInfoPerBone(mesh string) ([]model.BoneVertexInfo, error) {
	if r == nil {
		return nil, merr.Newf(merr.ErrorIDMeshMissing, "リグ入力が未読込です")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos, ok := r.clouds[mesh]
	if !ok {
		return nil, merr.Newf(merr.ErrorIDMeshMissing, "メッシュが見つかりません: %s", mesh)
	}
	return append([]model.BoneVertexInfo(nil), infos...), nil
}

// buildVertexInfos はメッシュ記録をジョイントindex順の頂点群へ変換する。
func buildVertexInfos(skeleton *model.Skeleton, mesh meshRecord) ([]model.BoneVertexInfo, error) {
	if mesh.Name == "" {
		return nil, merr.Newf(merr.ErrorIDInputInvalid, "メッシュ名が空です")
	}
	bones := make([]string, 0, len(mesh.Bones))
	for bone := range mesh.Bones {
		bones = append(bones, bone)
	}
	sort.Strings(bones)

	infos := make([]model.BoneVertexInfo, 0, len(mesh.Bones))
	seen := make(map[int]string, len(mesh.Bones))
	for _, bone := range bones {
		index, ok := skeleton.IndexOf(bone)
		if !ok {
			logIoWarn("頂点群のジョイントが見つからないため無視します: mesh=%s bone=%s", mesh.Name, bone)
			continue
		}
		if previous, exists := seen[index]; exists {
			return nil, merr.Newf(merr.ErrorIDInputInvalid,
				"同じジョイントの頂点群が重複しています: mesh=%s bones=%s/%s", mesh.Name, previous, bone)
		}
		seen[index] = bone
		cloud, err := mesh.Bones[bone].toCloud(bone)
		if err != nil {
			return nil, err
		}
		infos = append(infos, model.BoneVertexInfo{JointIndex: index, Cloud: cloud})
	}
	sort.Slice(infos, func(i int, j int) bool { return infos[i].JointIndex < infos[j].JointIndex })
	return infos, nil
}

// readInput はファイルを読み込み、不在と読取失敗を区別したエラーを返す。
func readInput(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, merr.NewError(merr.ErrorIDInputNotFound, "入力ファイルが見つかりません: "+path, err)
		}
		return nil, merr.NewError(merr.ErrorIDInputInvalid, "入力ファイルの読み取りに失敗しました", err)
	}
	return b, nil
}

// reportLoadProgress はリグ読込進捗を通知する。
func (r *RigRepository) reportLoadProgress(event LoadProgressEvent) {
	if r == nil || r.loadProgressReporter == nil {
		return
	}
	r.loadProgressReporter(event)
}

// logIoInfo はリグ入力の情報ログを出力する。
func logIoInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
}

// logIoDebug はリグ入力の詳細ログを出力する。
func logIoDebug(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Debug(format, params...)
}

// logIoWarn はリグ入力の警告ログを出力する。
func logIoWarn(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Warn(format, params...)
}
