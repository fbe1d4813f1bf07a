package main

import (
	"path/filepath"
	"strings"
	"testing"

	"veld/semantics-go/pkg/operators"
)

func TestParseModeFlag(t *testing.T) {
	mode, explicit, remaining, err := parseModeFlag([]string{"eval", "1 + 1"})
	if err != nil {
		t.Fatalf("parseModeFlag returned error: %v", err)
	}
	if mode != operators.ModeStrict || explicit {
		t.Fatalf("default mode = %s, explicit = %v", mode, explicit)
	}
	if len(remaining) != 2 || remaining[0] != "eval" {
		t.Fatalf("remaining = %v", remaining)
	}

	mode, explicit, remaining, err = parseModeFlag([]string{"--mode", "legacy", "eval"})
	if err != nil {
		t.Fatalf("parseModeFlag returned error: %v", err)
	}
	if mode != operators.ModeLegacy || !explicit {
		t.Fatalf("mode = %s, explicit = %v", mode, explicit)
	}
	if len(remaining) != 1 || remaining[0] != "eval" {
		t.Fatalf("remaining = %v", remaining)
	}

	mode, explicit, _, err = parseModeFlag([]string{"--mode=legacy", "repl"})
	if err != nil {
		t.Fatalf("parseModeFlag returned error: %v", err)
	}
	if mode != operators.ModeLegacy || !explicit {
		t.Fatalf("mode = %s, explicit = %v", mode, explicit)
	}

	if _, _, _, err := parseModeFlag([]string{"--mode=sideways"}); err == nil || !strings.Contains(err.Error(), "unknown --mode value") {
		t.Fatalf("bad mode value not rejected: %v", err)
	}
	if _, _, _, err := parseModeFlag([]string{"--mode"}); err == nil || !strings.Contains(err.Error(), "expects a value") {
		t.Fatalf("dangling --mode not rejected: %v", err)
	}

	_, explicit, remaining, err = parseModeFlag([]string{"--", "--mode=legacy"})
	if err != nil {
		t.Fatalf("parseModeFlag returned error: %v", err)
	}
	if explicit {
		t.Fatal("flags after -- should not parse")
	}
	if len(remaining) != 2 || remaining[0] != "--" {
		t.Fatalf("remaining = %v", remaining)
	}
}

func TestEvalCommand(t *testing.T) {
	code, stdout, stderr := captureCLI(t, []string{"eval", "1 + 2"})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
	if stdout != "3\n" {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestEvalCommandLegacyMode(t *testing.T) {
	code, stdout, stderr := captureCLI(t, []string{"--mode=legacy", "eval", `"5" + 1`})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
	if stdout != "6\n" {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestEvalCommandReportsOperandError(t *testing.T) {
	code, stdout, stderr := captureCLI(t, []string{"eval", `"a" + 1`})
	if code != 1 {
		t.Fatalf("exit code = %d, stdout = %q", code, stdout)
	}
	if !strings.Contains(stderr, "unsupported operand") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestEvalCommandReportsSyntaxColumn(t *testing.T) {
	code, _, stderr := captureCLI(t, []string{"eval", "1 +"})
	if code != 1 || !strings.Contains(stderr, "column") {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
}

func TestEvalCommandRequiresExpression(t *testing.T) {
	code, _, stderr := captureCLI(t, []string{"eval"})
	if code != 1 || !strings.Contains(stderr, "requires an expression") {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
}

func TestVersionCommand(t *testing.T) {
	code, stdout, _ := captureCLI(t, []string{"version"})
	if code != 0 || !strings.HasPrefix(stdout, "veldop") {
		t.Fatalf("exit code = %d, stdout = %q", code, stdout)
	}
}

func TestUnknownCommand(t *testing.T) {
	code, _, stderr := captureCLI(t, []string{"bogus"})
	if code != 1 || !strings.Contains(stderr, `unknown command "bogus"`) {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
}

func TestNoArgsPrintsUsage(t *testing.T) {
	code, _, stderr := captureCLI(t, nil)
	if code != 1 || !strings.Contains(stderr, "Usage:") {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
}

func TestRulesCommandFamily(t *testing.T) {
	code, stdout, stderr := captureCLI(t, []string{"rules", "arithmetic"})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
	if !strings.Contains(stdout, "arithmetic (strict)") || !strings.Contains(stdout, "legend:") {
		t.Fatalf("stdout = %q", stdout)
	}

	var intRow []string
	for _, line := range strings.Split(stdout, "\n") {
		if strings.HasPrefix(line, "int ") {
			intRow = strings.Fields(line)
			break
		}
	}
	if len(intRow) != 9 {
		t.Fatalf("int row = %v", intRow)
	}
	// Columns follow the kind order: null, bool, int, float, string, ...
	if intRow[3] != "+" {
		t.Errorf("int x int cell = %q, want +", intRow[3])
	}
	if intRow[5] != "-" {
		t.Errorf("int x string cell = %q, want -", intRow[5])
	}
}

func TestRulesCommandLegacyMode(t *testing.T) {
	code, stdout, _ := captureCLI(t, []string{"--mode=legacy", "rules", "concat"})
	if code != 0 || !strings.Contains(stdout, "concat (legacy)") {
		t.Fatalf("exit code = %d, stdout = %q", code, stdout)
	}
}

func TestRulesCommandIncDec(t *testing.T) {
	code, stdout, _ := captureCLI(t, []string{"rules", "incdec"})
	if code != 0 || !strings.Contains(stdout, "incdec (strict)") || !strings.Contains(stdout, "++") {
		t.Fatalf("exit code = %d, stdout = %q", code, stdout)
	}
}

func TestRulesCommandAllFamilies(t *testing.T) {
	code, stdout, _ := captureCLI(t, []string{"rules"})
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	for _, fragment := range []string{"arithmetic (strict)", "shift (strict)", "unary (strict)", "legend:"} {
		if !strings.Contains(stdout, fragment) {
			t.Errorf("stdout missing %q", fragment)
		}
	}
}

func TestRulesCommandUnknownFamily(t *testing.T) {
	code, _, stderr := captureCLI(t, []string{"rules", "nope"})
	if code != 1 || !strings.Contains(stderr, "unknown family") {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
}

func TestReplModeCommand(t *testing.T) {
	mode := operators.ModeStrict
	out := captureStdout(t, func() {
		if exit := handleReplCommand(":mode legacy", &mode); exit {
			t.Error(":mode should not exit the repl")
		}
	})
	if mode != operators.ModeLegacy {
		t.Fatalf("mode = %s, want legacy", mode)
	}
	if !strings.Contains(out, "mode set to legacy") {
		t.Fatalf("out = %q", out)
	}

	out = captureStdout(t, func() {
		handleReplCommand(":mode", &mode)
	})
	if !strings.Contains(out, "legacy") {
		t.Fatalf("bare :mode should print the current mode, got %q", out)
	}
}

func TestReplQuitCommands(t *testing.T) {
	mode := operators.ModeStrict
	for _, cmd := range []string{":quit", ":exit"} {
		if !handleReplCommand(cmd, &mode) {
			t.Errorf("%s should exit the repl", cmd)
		}
	}
}

func TestReplRulesCommand(t *testing.T) {
	mode := operators.ModeStrict
	out := captureStdout(t, func() {
		handleReplCommand(":rules arithmetic", &mode)
	})
	if !strings.Contains(out, "arithmetic (strict)") {
		t.Fatalf("out = %q", out)
	}
}

func TestReplUnknownCommand(t *testing.T) {
	mode := operators.ModeStrict
	out := captureStdout(t, func() {
		if handleReplCommand(":wat", &mode) {
			t.Error(":wat should not exit the repl")
		}
	})
	if !strings.Contains(out, "unknown command") {
		t.Fatalf("out = %q", out)
	}
}

func TestConformanceRunFixtureFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.yml")
	writeFile(t, path, `
suite: sample
cases:
  - name: adds
    expr: "1 + 2"
    want: {int: 3}
`)

	code, stdout, stderr := captureCLI(t, []string{"conformance", "run", path})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
	if !strings.Contains(stdout, "total: 2 passed, 0 failed") {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestConformanceRunModeFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.yml")
	writeFile(t, path, `
suite: sample
cases:
  - name: adds
    expr: "1 + 2"
    want: {int: 3}
`)

	code, stdout, stderr := captureCLI(t, []string{"--mode=strict", "conformance", "run", path})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
	if !strings.Contains(stdout, "total: 1 passed, 0 failed, 1 skipped") {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestConformanceRunReportsFailures(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "failing.yml")
	writeFile(t, path, `
suite: failing
cases:
  - name: off-by-one
    expr: "1 + 1"
    want: {int: 3}
`)

	code, stdout, _ := captureCLI(t, []string{"conformance", "run", path})
	if code != 1 {
		t.Fatalf("exit code = %d, stdout = %q", code, stdout)
	}
	if !strings.Contains(stdout, `case "off-by-one" [strict]: got 2, want 3`) {
		t.Fatalf("stdout = %q", stdout)
	}
	if !strings.Contains(stdout, "total: 0 passed, 2 failed") {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestConformanceRunRejectsBadFixture(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yml")
	writeFile(t, path, `
suite: broken
cases:
  - name: incomplete
    op: "+"
`)

	code, _, stderr := captureCLI(t, []string{"conformance", "run", path})
	if code != 1 || !strings.Contains(stderr, "op needs either an operand or both left and right") {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
}

func TestConformanceRequiresSubcommand(t *testing.T) {
	code, _, stderr := captureCLI(t, []string{"conformance"})
	if code != 1 || !strings.Contains(stderr, "requires a subcommand") {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
}
