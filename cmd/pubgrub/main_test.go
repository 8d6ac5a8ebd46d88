package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testScenario = `{
  "packages": [
    {"name": "root", "versions": ["1.0.0"]},
    {"name": "foo", "versions": ["1.0.0", "1.1.0"]},
    {"name": "bar", "versions": ["1.0.0", "1.1.0", "2.0.0"]}
  ],
  "dependencies": [
    {"package": "root", "version": "1.0.0", "dependency": "foo", "constraint": ">=1.0.0, <2.0.0"},
    {"package": "root", "version": "1.0.0", "dependency": "bar", "constraint": ">=1.0.0, <2.0.0"},
    {"package": "foo", "version": "1.1.0", "dependency": "bar", "constraint": ">=2.0.0, <3.0.0"}
  ]
}`

func writeScenario(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(testScenario), 0644); err != nil {
		t.Fatalf("writing scenario: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (exit int, stdout, stderr string) {
	t.Helper()
	var out, errBuf bytes.Buffer
	c := &config{
		Args:   append([]string{"pubgrub"}, args...),
		Stdout: &out,
		Stderr: &errBuf,
	}
	return c.Run(), out.String(), errBuf.String()
}

func TestParseArgs(t *testing.T) {
	cases := []struct {
		args     []string
		cmd      string
		wantHelp bool
		wantExit bool
	}{
		{[]string{"pubgrub"}, "", false, true},
		{[]string{"pubgrub", "help"}, "", false, true},
		{[]string{"pubgrub", "-h"}, "", false, true},
		{[]string{"pubgrub", "resolve"}, "resolve", false, false},
		{[]string{"pubgrub", "help", "resolve"}, "resolve", true, false},
		{[]string{"pubgrub", "resolve", "x.json"}, "resolve", false, false},
	}
	for _, c := range cases {
		cmd, help, exit := parseArgs(c.args)
		if cmd != c.cmd || help != c.wantHelp || exit != c.wantExit {
			t.Errorf("parseArgs(%v) = (%q, %v, %v), want (%q, %v, %v)",
				c.args, cmd, help, exit, c.cmd, c.wantHelp, c.wantExit)
		}
	}
}

func TestResolveCommand(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "scenario.json")

	exit, stdout, stderr := run(t, "resolve", "-root", "root@1.0.0", path)
	if exit != 0 {
		t.Fatalf("exit = %d, stderr: %s", exit, stderr)
	}

	var result struct {
		Success  bool              `json:"success"`
		Solution map[string]string `json:"solution"`
	}
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if !result.Success {
		t.Fatalf("resolution should succeed: %s", stdout)
	}
	if result.Solution["foo"] != "1.0.0" {
		t.Errorf("foo = %s, want 1.0.0", result.Solution["foo"])
	}
}

func TestResolveCommandNewestRoot(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "scenario.json")

	// Bare -root name takes the newest cataloged version.
	exit, stdout, stderr := run(t, "resolve", "-root", "root", path)
	if exit != 0 {
		t.Fatalf("exit = %d, stderr: %s", exit, stderr)
	}
	if !strings.Contains(stdout, `"success": true`) {
		t.Errorf("expected success, got: %s", stdout)
	}
}

func TestResolveCommandOutFile(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "scenario.json")
	outPath := filepath.Join(dir, "result.json")

	exit, _, stderr := run(t, "resolve", "-root", "root@1.0.0", "-out", outPath, path)
	if exit != 0 {
		t.Fatalf("exit = %d, stderr: %s", exit, stderr)
	}
	raw, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("result file: %v", err)
	}
	if !strings.Contains(string(raw), `"success": true`) {
		t.Errorf("result file content: %s", raw)
	}
}

func TestResolveCommandManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "scenario.json")
	manifestPath := filepath.Join(dir, "Project.toml")
	manifest := "name = \"app\"\nversion = \"1.0.0\"\n\n[[dependencies]]\nname = \"bar\"\nconstraint = \"^1.0.0\"\n"
	if err := os.WriteFile(manifestPath, []byte(manifest), 0644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}

	exit, stdout, stderr := run(t, "resolve", "-manifest", manifestPath, path)
	if exit != 0 {
		t.Fatalf("exit = %d, stderr: %s", exit, stderr)
	}
	var result struct {
		Solution map[string]string `json:"solution"`
	}
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if result.Solution["bar"] != "1.1.0" {
		t.Errorf("bar = %s, want 1.1.0 (newest within ^1.0.0)", result.Solution["bar"])
	}
}

func TestResolveCommandErrors(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "scenario.json")

	if exit, _, _ := run(t, "resolve", path); exit == 0 {
		t.Errorf("missing -root/-manifest should fail")
	}
	if exit, _, _ := run(t, "resolve", "-root", "root", "-manifest", "x.toml", path); exit == 0 {
		t.Errorf("-root with -manifest should fail")
	}
	if exit, _, _ := run(t, "resolve", "-root", "nosuch", path); exit == 0 {
		t.Errorf("unknown root package should fail")
	}
	if exit, _, _ := run(t, "resolve", "-root", "root"); exit == 0 {
		t.Errorf("missing scenario argument should fail")
	}
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "one.json")
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writeScenario(t, sub, "two.json")

	exit, stdout, stderr := run(t, "batch", dir)
	if exit != 0 {
		t.Fatalf("exit = %d, stderr: %s", exit, stderr)
	}
	if !strings.Contains(stdout, "one.json") || !strings.Contains(stdout, "two.json") {
		t.Errorf("summary should list both scenarios:\n%s", stdout)
	}
	if !strings.Contains(stdout, "2 scenarios resolved") {
		t.Errorf("summary footer missing:\n%s", stdout)
	}
}

func TestBatchCommandSnapshot(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "scenarios")
	if err := os.Mkdir(src, 0755); err != nil {
		t.Fatal(err)
	}
	writeScenario(t, src, "one.json")
	snap := filepath.Join(dir, "snap")

	exit, _, stderr := run(t, "batch", "-snapshot", snap, src)
	if exit != 0 {
		t.Fatalf("exit = %d, stderr: %s", exit, stderr)
	}
	if _, err := os.Stat(filepath.Join(snap, "one.json")); err != nil {
		t.Errorf("snapshot should contain the scenario copy: %v", err)
	}
}

func TestSearchCommand(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "scenario.json")

	exit, stdout, stderr := run(t, "search", path, "ba")
	if exit != 0 {
		t.Fatalf("exit = %d, stderr: %s", exit, stderr)
	}
	if !strings.Contains(stdout, "bar") || strings.Contains(stdout, "foo") {
		t.Errorf("prefix search output wrong:\n%s", stdout)
	}

	if exit, _, _ := run(t, "search", path, "nosuchprefix"); exit == 0 {
		t.Errorf("empty search result should fail")
	}
}

func TestUnknownCommand(t *testing.T) {
	exit, _, stderr := run(t, "frobnicate")
	if exit == 0 {
		t.Errorf("unknown command should fail")
	}
	if !strings.Contains(stderr, "no such command") {
		t.Errorf("stderr should mention the unknown command: %s", stderr)
	}
}
