// 指示: miu200521358
package main

import (
	"bytes"
	"strings"
	"testing"
)

const (
	testRigPath     = "testdata/example_rig.json"
	testMappingPath = "testdata/example_mapping.json"
)

func TestParseOptionsWithFlags(t *testing.T) {
	errBuf := bytes.NewBuffer(nil)
	opts, err := parseOptions([]string{
		"--in", "rig.json",
		"--mapping", "map.json",
		"--config", "rules.yaml",
		"--weapon", "sword_l,shield_r",
		"--use-ai=false",
	}, errBuf)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if opts.inputPath != "rig.json" {
		t.Fatalf("inputPath mismatch: %s", opts.inputPath)
	}
	if opts.mappingPath != "map.json" || opts.configPath != "rules.yaml" {
		t.Fatalf("path mismatch: mapping=%s config=%s", opts.mappingPath, opts.configPath)
	}
	if len(opts.weapons) != 2 || opts.weapons[0] != "sword_l" || opts.weapons[1] != "shield_r" {
		t.Fatalf("weapons mismatch: %v", opts.weapons)
	}
	if opts.useAI {
		t.Fatalf("use-ai should be false")
	}
	if opts.timeout != defaultMapTimeout {
		t.Fatalf("timeout mismatch: got=%s want=%s", opts.timeout, defaultMapTimeout)
	}
}

func TestParseOptionsWithPositional(t *testing.T) {
	opts, err := parseOptions([]string{"rig.json"}, bytes.NewBuffer(nil))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if opts.inputPath != "rig.json" {
		t.Fatalf("inputPath mismatch: %s", opts.inputPath)
	}
	if !opts.useAI {
		t.Fatalf("use-ai should default to true")
	}
}

func TestParseOptionsRequireJSONInput(t *testing.T) {
	if _, err := parseOptions([]string{}, bytes.NewBuffer(nil)); err == nil {
		t.Fatalf("expected error for missing input")
	}
	_, err := parseOptions([]string{"--in", "rig.fbx"}, bytes.NewBuffer(nil))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), ".json") {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := parseOptions([]string{"--in", "rig.json", "--timeout", "0s"}, bytes.NewBuffer(nil)); err == nil {
		t.Fatalf("expected error for zero timeout")
	}
}

func TestRunWithChainAnalysis(t *testing.T) {
	out := bytes.NewBuffer(nil)
	errOut := bytes.NewBuffer(nil)
	if err := run([]string{"--in", testRigPath, "--metrics"}, out, errOut); err != nil {
		t.Fatalf("run failed: %v (stderr=%s)", err, errOut.String())
	}

	text := out.String()
	for _, want := range []string{
		"名前対応取得成功: 6組",
		"groups=2 controls=2",
		"hair_01_ctrl",
		"sword_l_ctrl",
		"hand_l_space",
		"head_space",
		"metric: mu_ctrlrig_synthesis_",
		"リグ合成が完了しました",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output should contain %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "hair_02_ctrl") {
		t.Fatalf("unweighted accessory should not get a control:\n%s", text)
	}
}

func TestRunWithMappingFileAndWeapon(t *testing.T) {
	out := bytes.NewBuffer(nil)
	err := run([]string{
		"--in", testRigPath,
		"--mapping", testMappingPath,
		"--weapon", "sword_l",
	}, out, bytes.NewBuffer(nil))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "名前対応取得成功: 6組") {
		t.Fatalf("mapping count missing:\n%s", text)
	}
	if !strings.Contains(text, "sword_l_ctrl") {
		t.Fatalf("weapon control missing:\n%s", text)
	}
	if strings.Contains(text, "hand_l_space") {
		t.Fatalf("weapon should not be grouped under its hand:\n%s", text)
	}
}

func TestRunRejectsUnknownWeapon(t *testing.T) {
	err := run([]string{"--in", testRigPath, "--weapon", "axe"}, bytes.NewBuffer(nil), bytes.NewBuffer(nil))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "axe") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunReportsMissingMappingFile(t *testing.T) {
	errOut := bytes.NewBuffer(nil)
	err := run([]string{"--in", testRigPath, "--mapping", "testdata/absent.json"}, bytes.NewBuffer(nil), errOut)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(errOut.String(), "名前対応の取得に失敗しました") {
		t.Fatalf("status message missing: %s", errOut.String())
	}
}
