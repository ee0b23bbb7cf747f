// 指示: miu200521358
package minteractor

import (
	"context"
	"sync"
	"time"

	"github.com/miu200521358/mu_ctrlrig/pkg/domain/model"
	"github.com/miu200521358/mu_ctrlrig/pkg/infra/config"
	"github.com/miu200521358/mu_ctrlrig/pkg/shared/merr"
	"github.com/miu200521358/mu_ctrlrig/pkg/usecase/port/moutput"
)

// WorkflowStep はリグ合成ワークフローの段階を表す。
type WorkflowStep int

const (
	// StepSetup はスケルトン設定と名前対応要求前の段階。
	StepSetup WorkflowStep = iota
	// StepAwaitingCorrespondence は名前対応の応答待ち段階。
	StepAwaitingCorrespondence
	// StepSelectBones は分類確認と手動上書きの段階。
	StepSelectBones
	// StepComplete は合成完了段階。
	StepComplete
)

// String は段階名を返す。
func (s WorkflowStep) String() string {
	switch s {
	case StepSetup:
		return "setup"
	case StepAwaitingCorrespondence:
		return "awaiting_correspondence"
	case StepSelectBones:
		return "select_bones"
	case StepComplete:
		return "complete"
	}
	return "unknown"
}

// SessionStatus は利用者へ提示する状態を表す。
type SessionStatus string

const (
	// SessionStatusSkeletonRequired はスケルトン未設定。
	SessionStatusSkeletonRequired SessionStatus = "skeleton_required"
	// SessionStatusMappingRequired は名前対応未取得。
	SessionStatusMappingRequired SessionStatus = "mapping_required"
	// SessionStatusAwaitingMapping は名前対応の応答待ち。
	SessionStatusAwaitingMapping SessionStatus = "awaiting_mapping"
	// SessionStatusMappingFailed は名前対応の取得失敗。
	SessionStatusMappingFailed SessionStatus = "mapping_failed"
	// SessionStatusSelectBones は分類確認待ち。
	SessionStatusSelectBones SessionStatus = "select_bones"
	// SessionStatusSynthesisComplete は合成完了。
	SessionStatusSynthesisComplete SessionStatus = "synthesis_complete"
	// SessionStatusSynthesisFailed は合成失敗。
	SessionStatusSynthesisFailed SessionStatus = "synthesis_failed"
)

// RigSessionDeps はリグ合成セッションの依存を表す。
type RigSessionDeps struct {
	Config    *config.RigConfig
	Hierarchy moutput.IRigHierarchy
	Graph     moutput.IRigGraph
	Vertices  moutput.IVertexInfoProvider
	Metrics   moutput.IMetricsRecorder
}

// RigSession は分類からグラフ展開までのリグ合成を1件ずつ進めるセッションを表す。
type RigSession struct {
	mu sync.Mutex

	cfg        *config.RigConfig
	classifier *BoneClassifier
	grouper    *ChainGrouper
	fitter     *ShapeFitter
	cache      *ShapeCache
	hierarchy  moutput.IRigHierarchy
	graph      moutput.IRigGraph
	vertices   moutput.IVertexInfoProvider
	metrics    moutput.IMetricsRecorder

	step           WorkflowStep
	status         SessionStatus
	running        bool
	requestSeq     uint64
	lastErr        error
	skeleton       *model.Skeleton
	meshKey        string
	correspondence *model.NameCorrespondence
	table          *model.ClassificationTable
}

// NewRigSession はリグ合成セッションを生成する。設定未指定時は既定設定を使う。
func NewRigSession(deps RigSessionDeps) (*RigSession, error) {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	snapshot, err := cfg.Clone()
	if err != nil {
		return nil, err
	}
	cache, err := NewShapeCache(snapshot.Shape.CacheSize)
	if err != nil {
		return nil, merr.NewError(merr.ErrorIDConfigInvalid, "形状キャッシュの生成に失敗しました", err)
	}
	return &RigSession{
		cfg:        snapshot,
		classifier: NewBoneClassifier(snapshot.Rules),
		grouper:    NewChainGrouper(snapshot.Rules),
		fitter:     NewShapeFitter(snapshot.Shape),
		cache:      cache,
		hierarchy:  deps.Hierarchy,
		graph:      deps.Graph,
		vertices:   deps.Vertices,
		metrics:    deps.Metrics,
		step:       StepSetup,
		status:     SessionStatusSkeletonRequired,
	}, nil
}

// Step は現在の段階を返す。
func (s *RigSession) Step() WorkflowStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Status は現在の状態と直近のエラーを返す。
func (s *RigSession) Status() (SessionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.lastErr
}

// SetSkeleton はスケルトンとメッシュを設定し、名前対応と分類を破棄する。
// 応答待ちの名前対応要求は無効になり、形状キャッシュは破棄する。
func (s *RigSession) SetSkeleton(skeleton *model.Skeleton, meshKey string) error {
	if err := skeleton.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return merr.NewError(merr.ErrorIDWorkflowBusy, "合成処理の実行中です", nil)
	}
	s.requestSeq++
	s.skeleton = skeleton
	s.meshKey = meshKey
	s.correspondence = nil
	s.table = nil
	s.lastErr = nil
	s.step = StepSetup
	s.status = SessionStatusMappingRequired
	s.cache.Reset(meshKey)
	logRigInfo("スケルトン設定: %s mesh=%s", skeleton, meshKey)
	return nil
}

// ApplyCorrespondence は名前対応を設定して全ジョイントを分類する。空の対応は標準語彙だけで分類する。
func (s *RigSession) ApplyCorrespondence(standardToTarget map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return merr.NewError(merr.ErrorIDWorkflowBusy, "合成処理の実行中です", nil)
	}
	s.requestSeq++
	return s.applyCorrespondenceLocked(standardToTarget)
}

// RequestCorrespondence は名前対応を非同期に問い合わせる。結果は done へ通知する。
// 応答が届くまで合成は開始できない。
func (s *RigSession) RequestCorrespondence(ctx context.Context, oracle moutput.INameOracle, useAI bool, done func(error)) error {
	if oracle == nil {
		return merr.NewError(merr.ErrorIDCorrespondenceMissing, "名前対応の問い合わせ先が未設定です", nil)
	}
	s.mu.Lock()
	if s.skeleton == nil {
		s.mu.Unlock()
		return merr.NewError(merr.ErrorIDSkeletonMissing, "スケルトンが未設定です", nil)
	}
	if s.running || s.step == StepAwaitingCorrespondence {
		s.mu.Unlock()
		return merr.NewError(merr.ErrorIDWorkflowBusy, "名前対応の応答待ちまたは合成処理の実行中です", nil)
	}
	s.requestSeq++
	seq := s.requestSeq
	skeleton := s.skeleton
	s.step = StepAwaitingCorrespondence
	s.status = SessionStatusAwaitingMapping
	s.lastErr = nil
	s.mu.Unlock()

	go func() {
		mapping, err := oracle.GetStandardToTargetNameMap(ctx, moutput.SkeletonDescription{Skeleton: skeleton, UseAI: useAI})
		err = s.completeCorrespondence(seq, mapping, err)
		if done != nil {
			done(err)
		}
	}()
	return nil
}

// completeCorrespondence は非同期応答を反映する。古い要求への応答は破棄する。
func (s *RigSession) completeCorrespondence(seq uint64, mapping map[string]string, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.requestSeq {
		logRigDebug("古い名前対応応答を破棄します: seq=%d current=%d", seq, s.requestSeq)
		return nil
	}
	if cause != nil {
		s.step = StepSetup
		s.status = SessionStatusMappingFailed
		s.lastErr = merr.NewError(merr.ErrorIDCorrespondenceMissing, "名前対応の取得に失敗しました", cause)
		logRigWarn("%s", s.lastErr.Error())
		return s.lastErr
	}
	return s.applyCorrespondenceLocked(mapping)
}

// applyCorrespondenceLocked は名前対応と分類表を更新する。呼び出し側でロックを保持する。
func (s *RigSession) applyCorrespondenceLocked(standardToTarget map[string]string) error {
	if s.skeleton == nil {
		return merr.NewError(merr.ErrorIDSkeletonMissing, "スケルトンが未設定です", nil)
	}
	s.correspondence = model.NewNameCorrespondence(standardToTarget)
	s.table = s.classifier.ClassifyAll(s.skeleton, s.correspondence)
	counts := s.table.Counts()
	for _, label := range model.SortedLabels(counts) {
		s.recordClassification(label.String(), counts[label])
	}
	s.step = StepSelectBones
	s.status = SessionStatusSelectBones
	s.lastErr = nil
	logRigInfo("ジョイント分類完了: joints=%d mapping=%d", s.table.Len(), s.correspondence.Len())
	return nil
}

// Classification は現在の分類表の複製を返す。
func (s *RigSession) Classification() (*model.ClassificationTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table == nil {
		return nil, merr.NewError(merr.ErrorIDCorrespondenceMissing, "名前対応が未取得です", nil)
	}
	return s.table.Clone()
}

// Correspondence は現在の名前対応を返す。
func (s *RigSession) Correspondence() *model.NameCorrespondence {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.correspondence
}

// Reclassify はZeroBone以外のジョイント分類を手動で上書きする。合成完了後は分類確認段階へ戻る。
func (s *RigSession) Reclassify(index int, label model.Classification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return merr.NewError(merr.ErrorIDWorkflowBusy, "合成処理の実行中です", nil)
	}
	if s.table == nil || (s.step != StepSelectBones && s.step != StepComplete) {
		return merr.NewError(merr.ErrorIDCorrespondenceMissing, "名前対応が未取得です", nil)
	}
	if err := s.table.Reclassify(index, label); err != nil {
		return err
	}
	s.step = StepSelectBones
	s.status = SessionStatusSelectBones
	logRigDebug("分類上書き: index=%d label=%s", index, label)
	return nil
}

// Synthesize は現在の分類からスペースグループ、形状、コントロール、グラフを生成する。
// 部分的な失敗は警告として結果へ含め、処理を継続する。
func (s *RigSession) Synthesize(reporter ISynthesisProgressReporter) (*SynthesisResult, error) {
	started := time.Now()
	skeleton, correspondence, table, meshKey, err := s.beginSynthesis()
	if err != nil {
		return nil, err
	}
	defer s.endSynthesis()
	reportSynthesisProgress(reporter, SynthesisProgressEvent{
		Type:       SynthesisProgressEventTypeInputValidated,
		JointCount: skeleton.Len(),
	})

	result := &SynthesisResult{}
	diagnostics := &result.Diagnostics

	result.Groups = s.grouper.GroupIntoSpaces(skeleton, table, correspondence, diagnostics)
	reportSynthesisProgress(reporter, SynthesisProgressEvent{
		Type:       SynthesisProgressEventTypeGrouped,
		GroupCount: result.Groups.Total(),
	})

	clouds := s.loadClouds(meshKey, skeleton.Len(), diagnostics)
	shapes := s.fitShapes(skeleton, meshKey, clouds, result.Groups, diagnostics)
	reportSynthesisProgress(reporter, SynthesisProgressEvent{
		Type:       SynthesisProgressEventTypeShapesFitted,
		JointCount: len(shapes),
	})

	builder := NewControlHierarchyBuilder(s.cfg.Hierarchy, s.hierarchy)
	secondaryBuilds := make([]model.GroupBuild, 0, len(result.Groups.Secondary))
	weaponBuilds := make([]model.GroupBuild, 0, len(result.Groups.Weapons))
	groupIndex := 0
	for _, group := range result.Groups.Secondary {
		anchor := group.AnchorName
		build, buildErr := builder.BuildGroup(BuildGroupInput{
			Skeleton:       skeleton,
			Correspondence: correspondence,
			Group:          group,
			ShapeOf: func(jointIndex int) model.ControlShape {
				return s.fitter.ChainControlShape(anchor, shapes[jointIndex])
			},
		}, diagnostics)
		if s.acceptBuild(build, buildErr, "secondary", result, diagnostics) {
			secondaryBuilds = append(secondaryBuilds, build)
		}
		groupIndex++
		reportSynthesisProgress(reporter, SynthesisProgressEvent{
			Type:       SynthesisProgressEventTypeGroupBuilt,
			GroupCount: result.Groups.Total(),
			GroupIndex: groupIndex,
		})
	}
	for _, group := range result.Groups.Weapons {
		memberClouds := make([]model.VertexCloud, 0, len(group.Members))
		for _, member := range group.Members {
			memberClouds = append(memberClouds, clouds[member])
		}
		shared := s.fitter.FitGroupShape(memberClouds)
		build, buildErr := builder.BuildGroup(BuildGroupInput{
			Skeleton:       skeleton,
			Correspondence: correspondence,
			Group:          group,
			ShapeOf: func(jointIndex int) model.ControlShape {
				return s.fitter.GroupControlShape(shapes[jointIndex], shared)
			},
		}, diagnostics)
		if s.acceptBuild(build, buildErr, "weapon", result, diagnostics) {
			weaponBuilds = append(weaponBuilds, build)
		}
		groupIndex++
		reportSynthesisProgress(reporter, SynthesisProgressEvent{
			Type:       SynthesisProgressEventTypeGroupBuilt,
			GroupCount: result.Groups.Total(),
			GroupIndex: groupIndex,
		})
	}

	instantiator := NewGraphTemplateInstantiator(s.cfg.Graph, s.graph)
	result.Graph = instantiator.InstantiateForGroups(secondaryBuilds, weaponBuilds, diagnostics)
	reportSynthesisProgress(reporter, SynthesisProgressEvent{
		Type:      SynthesisProgressEventTypeGraphInstantiated,
		NodeCount: result.Graph.TotalNodes(),
	})

	if s.metrics != nil {
		s.metrics.RecordGraphNodes(result.Graph.TotalNodes())
		for _, diagnostic := range result.Diagnostics {
			s.metrics.RecordDiagnostic(diagnostic.ID)
		}
		s.metrics.ObserveSynthesis(time.Since(started))
	}
	s.finishSynthesis()
	reportSynthesisProgress(reporter, SynthesisProgressEvent{
		Type:       SynthesisProgressEventTypeCompleted,
		GroupCount: len(result.Builds),
		NodeCount:  result.Graph.TotalNodes(),
	})
	logRigInfo("リグ合成完了: groups=%d controls=%d nodes=%d diagnostics=%d",
		len(result.Builds), result.ControlsCreated(), result.Graph.TotalNodes(), len(result.Diagnostics))
	return result, nil
}

// beginSynthesis は入力を検証し、実行中フラグを立てて入力の複製を返す。
func (s *RigSession) beginSynthesis() (*model.Skeleton, *model.NameCorrespondence, *model.ClassificationTable, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || s.step == StepAwaitingCorrespondence {
		return nil, nil, nil, "", merr.NewError(merr.ErrorIDWorkflowBusy, "名前対応の応答待ちまたは合成処理の実行中です", nil)
	}
	var err error
	switch {
	case s.skeleton == nil:
		err = merr.NewError(merr.ErrorIDSkeletonMissing, "メッシュのスケルトンが見つかりません", nil)
	case s.correspondence == nil || s.table == nil:
		err = merr.NewError(merr.ErrorIDCorrespondenceMissing, "名前対応が未取得です", nil)
	case s.vertices != nil && s.meshKey == "":
		err = merr.NewError(merr.ErrorIDMeshMissing, "メッシュが未選択です", nil)
	}
	if err != nil {
		s.status = SessionStatusSynthesisFailed
		s.lastErr = err
		return nil, nil, nil, "", err
	}
	table, err := s.table.Clone()
	if err != nil {
		return nil, nil, nil, "", err
	}
	s.running = true
	return s.skeleton, s.correspondence, table, s.meshKey, nil
}

// endSynthesis は実行中フラグを下ろす。
func (s *RigSession) endSynthesis() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}

// finishSynthesis は完了段階へ進める。
func (s *RigSession) finishSynthesis() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step = StepComplete
	s.status = SessionStatusSynthesisComplete
	s.lastErr = nil
}

// acceptBuild はグループ生成結果を集計し、失敗時は警告へ変換する。
func (s *RigSession) acceptBuild(build model.GroupBuild, err error, kind string, result *SynthesisResult, diagnostics *model.Diagnostics) bool {
	if err != nil {
		addDiagnostic(diagnostics, model.RigWarningHostFailed, build.SpaceName, "グループを省略します: %v", err)
		return false
	}
	result.Builds = append(result.Builds, build)
	if s.metrics != nil {
		s.metrics.RecordGroup(kind)
		s.metrics.RecordControls(build.Created, build.Skipped)
	}
	return true
}

// loadClouds はメッシュの頂点群をジョイントindex順に並べる。範囲外や欠落は頂点なしとする。
func (s *RigSession) loadClouds(meshKey string, jointCount int, diagnostics *model.Diagnostics) []model.VertexCloud {
	clouds := make([]model.VertexCloud, jointCount)
	if s.vertices == nil {
		return clouds
	}
	infos, err := s.vertices.GetVertexInfoPerBone(meshKey)
	if err != nil {
		addDiagnostic(diagnostics, model.RigWarningHostFailed, meshKey, "頂点情報の取得に失敗したため既定形状を使います: %v", err)
		return clouds
	}
	for _, info := range infos {
		if info.JointIndex < 0 || info.JointIndex >= jointCount {
			continue
		}
		clouds[info.JointIndex] = info.Cloud
	}
	return clouds
}

// fitShapes はグループメンバーの形状をキャッシュ経由で求める。
func (s *RigSession) fitShapes(
	skeleton *model.Skeleton,
	meshKey string,
	clouds []model.VertexCloud,
	groups model.SpaceGroups,
	diagnostics *model.Diagnostics,
) map[int]model.ShapeInfo {
	shapes := map[int]model.ShapeInfo{}
	members := make([]int, 0, groups.MemberCount())
	for _, group := range groups.Secondary {
		members = append(members, group.Members...)
	}
	for _, group := range groups.Weapons {
		members = append(members, group.Members...)
	}
	for _, index := range members {
		joint, _ := skeleton.Joint(index)
		cloud := clouds[index]
		if cloud.IsEmpty() {
			addDiagnostic(diagnostics, model.RigWarningNoVertices, joint.Name, "頂点がないため既定形状を使います")
		}
		info, hit := s.cache.Get(meshKey, joint.Name, func() model.ShapeInfo {
			return s.fitter.FitShape(cloud)
		})
		if s.metrics != nil {
			s.metrics.RecordShapeCache(hit)
		}
		shapes[index] = info
	}
	return shapes
}

// recordClassification は分類件数を計測値へ記録する。
func (s *RigSession) recordClassification(label string, count int) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordClassification(label, count)
}
