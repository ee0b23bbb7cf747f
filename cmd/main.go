// 指示: miu200521358
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"

	"github.com/miu200521358/mu_ctrlrig/pkg/adapter/io_rig"
	"github.com/miu200521358/mu_ctrlrig/pkg/adapter/memhost"
	"github.com/miu200521358/mu_ctrlrig/pkg/adapter/mpresenter"
	"github.com/miu200521358/mu_ctrlrig/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_ctrlrig/pkg/adapter/oracle"
	"github.com/miu200521358/mu_ctrlrig/pkg/domain/model"
	"github.com/miu200521358/mu_ctrlrig/pkg/infra/config"
	"github.com/miu200521358/mu_ctrlrig/pkg/infra/metrics"
	"github.com/miu200521358/mu_ctrlrig/pkg/shared/logging"
	"github.com/miu200521358/mu_ctrlrig/pkg/usecase/minteractor"
	"github.com/miu200521358/mu_ctrlrig/pkg/usecase/port/moutput"
)

const (
	appName           = "mu_ctrlrig"
	outputPrefix      = "[" + appName + "] "
	defaultMapTimeout = 30 * time.Second
)

// options はCLI引数を保持する。
type options struct {
	inputPath   string
	mappingPath string
	configPath  string
	meshName    string
	weapons     []string
	useAI       bool
	verbose     bool
	showMetrics bool
	timeout     time.Duration
}

// main はリグ入力からコントロールリグを合成する。
func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run はCLI処理全体を実行する。
func run(args []string, out io.Writer, errOut io.Writer) error {
	opts, err := parseOptions(args, errOut)
	if err != nil {
		return err
	}
	if opts.verbose {
		logging.DefaultLogger().SetLevel(zapcore.DebugLevel)
	}
	defer func() {
		_ = logging.DefaultLogger().Sync()
	}()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("規則設定の読み込みに失敗しました: %w", err)
	}

	repository := io_rig.NewRigRepository()
	asset, err := repository.Load(opts.inputPath)
	if err != nil {
		return fmt.Errorf("%s: %w", messages.MessageLoadFailed, err)
	}
	fmt.Fprintf(out, outputPrefix+messages.LogLoadSuccess+"\n", opts.inputPath)

	meshName := opts.meshName
	if meshName == "" {
		meshName = asset.DefaultMesh()
	}

	registry := prometheus.NewRegistry()
	hierarchy := memhost.NewHierarchy(cfg.Hierarchy.TopLevelControlName)
	graph, err := memhost.NewTemplateGraph(cfg.Graph)
	if err != nil {
		return fmt.Errorf("テンプレートグラフの生成に失敗しました: %w", err)
	}
	session, err := minteractor.NewRigSession(minteractor.RigSessionDeps{
		Config:    cfg,
		Hierarchy: hierarchy,
		Graph:     graph,
		Vertices:  repository,
		Metrics:   metrics.NewRecorder(metrics.WithRegistry(registry)),
	})
	if err != nil {
		return err
	}
	if err := session.SetSkeleton(asset.Skeleton, meshName); err != nil {
		return err
	}

	if err := requestCorrespondence(session, selectOracle(opts), opts); err != nil {
		status, cause := session.Status()
		fmt.Fprintln(errOut, outputPrefix+mpresenter.StatusMessage(status, cause))
		return fmt.Errorf("%s: %w", messages.MessageMappingFailed, err)
	}
	fmt.Fprintf(out, outputPrefix+messages.LogMappingSuccess+"\n", session.Correspondence().Len())

	if err := markWeapons(session, asset.Skeleton, opts.weapons); err != nil {
		return err
	}

	result, err := session.Synthesize(mpresenter.NewProgressWriter(out, outputPrefix))
	if err != nil {
		return fmt.Errorf("%s: %w", messages.MessageSynthesisFailed, err)
	}
	writeSummary(out, asset.Skeleton, result, hierarchy)
	if opts.showMetrics {
		if err := writeMetrics(out, registry); err != nil {
			return err
		}
	}
	status, _ := session.Status()
	fmt.Fprintln(out, outputPrefix+mpresenter.StatusMessage(status, nil))
	return nil
}

// parseOptions はCLI引数を解析する。
func parseOptions(args []string, errOut io.Writer) (options, error) {
	fs := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	fs.SetOutput(errOut)

	opts := options{}
	fs.StringVarP(&opts.inputPath, "in", "i", "", "リグ入力JSONファイルパス")
	fs.StringVarP(&opts.mappingPath, "mapping", "m", "", "名前対応JSONファイルパス (省略時はチェーン解析で推定)")
	fs.StringVarP(&opts.configPath, "config", "c", "", "規則設定YAMLファイルパス")
	fs.StringVar(&opts.meshName, "mesh", "", "形状フィットに使うメッシュ名 (省略時は先頭メッシュ)")
	fs.StringSliceVar(&opts.weapons, "weapon", nil, "武器として扱うジョイント名 (カンマ区切り)")
	fs.BoolVar(&opts.useAI, "use-ai", true, "名前対応の問い合わせで推論を使う")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "詳細ログを出力する")
	fs.BoolVar(&opts.showMetrics, "metrics", false, "計測値を出力する")
	fs.DurationVar(&opts.timeout, "timeout", defaultMapTimeout, "名前対応の待ち時間")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if opts.inputPath == "" && fs.NArg() > 0 {
		opts.inputPath = fs.Arg(0)
	}
	if opts.inputPath == "" {
		return options{}, fmt.Errorf("%s (-in)", messages.MessageInputRequired)
	}
	if !strings.EqualFold(filepath.Ext(opts.inputPath), ".json") {
		return options{}, fmt.Errorf("入力拡張子が .json ではありません: %s", opts.inputPath)
	}
	if opts.timeout <= 0 {
		return options{}, fmt.Errorf("待ち時間は正の値を指定してください: %s", opts.timeout)
	}
	return opts, nil
}

// selectOracle は名前対応の問い合わせ先を選ぶ。
func selectOracle(opts options) moutput.INameOracle {
	if opts.mappingPath != "" {
		return io_rig.MappingFileOracle{Path: opts.mappingPath}
	}
	return oracle.NewChainAnalysisOracle(oracle.DefaultChainAnalysisRules())
}

// requestCorrespondence は名前対応を問い合わせ、応答を待つ。
func requestCorrespondence(session *minteractor.RigSession, nameOracle moutput.INameOracle, opts options) error {
	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	done := make(chan error, 1)
	if err := session.RequestCorrespondence(ctx, nameOracle, opts.useAI, func(err error) {
		done <- err
	}); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// markWeapons は指定ジョイントを武器へ上書きする。
func markWeapons(session *minteractor.RigSession, skeleton *model.Skeleton, names []string) error {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		index, ok := skeleton.IndexOf(name)
		if !ok {
			return fmt.Errorf("武器指定のジョイントが見つかりません: %s", name)
		}
		if err := session.Reclassify(index, model.ClassificationWeapon); err != nil {
			return fmt.Errorf("武器指定に失敗しました: %s: %w", name, err)
		}
	}
	return nil
}

// writeSummary は合成結果の概要を書き出す。
func writeSummary(out io.Writer, skeleton *model.Skeleton, result *minteractor.SynthesisResult, hierarchy *memhost.Hierarchy) {
	fmt.Fprintf(
		out,
		outputPrefix+messages.LogSynthesisSuccess+"\n",
		result.Groups.Total(),
		result.ControlsCreated(),
		result.Graph.TotalNodes(),
		len(result.Diagnostics),
	)
	for _, build := range result.Builds {
		fmt.Fprintf(out, "  %s (%s): %s\n", build.SpaceName, build.AnchorJoint, strings.Join(build.ControlNames, ", "))
	}
	fmt.Fprintf(
		out,
		"  hierarchy: nulls=%d controls=%d joints=%d\n",
		hierarchy.Count(memhost.ElementKindNull),
		hierarchy.Count(memhost.ElementKindControl),
		skeleton.Len(),
	)
	for _, diagnostic := range result.Diagnostics {
		fmt.Fprintf(out, "  warning: %s\n", diagnostic.String())
	}
}

// writeMetrics は登録済み計測値を名前順に書き出す。
func writeMetrics(out io.Writer, registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("計測値の収集に失敗しました: %w", err)
	}
	sort.Slice(families, func(i int, j int) bool { return families[i].GetName() < families[j].GetName() })
	for _, family := range families {
		total := 0.0
		for _, metric := range family.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				total += metric.GetCounter().GetValue()
			case metric.GetHistogram() != nil:
				total += float64(metric.GetHistogram().GetSampleCount())
			case metric.GetGauge() != nil:
				total += metric.GetGauge().GetValue()
			}
		}
		fmt.Fprintf(out, "  metric: %s=%g\n", family.GetName(), total)
	}
	return nil
}
