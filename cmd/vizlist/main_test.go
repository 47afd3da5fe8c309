package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/zojize/viz-list/pkg/driver"
)

const answerProgram = `int main() {
  int x = 40;
  x = x + 2;
  return x;
}
`

func writeProgram(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv(driver.EnvMaxSteps, "")
	t.Setenv(driver.EnvLogLevel, "")
	var stdout, stderr bytes.Buffer
	code := execute(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunHelpAndVersion(t *testing.T) {
	code, out, _ := runCLI(t, "", "--help")
	if code != 0 || !strings.Contains(out, "Usage:") {
		t.Fatalf("help: code %d, output %q", code, out)
	}
	code, out, _ = runCLI(t, "", "version")
	if code != 0 || strings.TrimSpace(out) != cliToolVersion {
		t.Fatalf("version: code %d, output %q", code, out)
	}
}

func TestRunRejectsBadArguments(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{name: "no args", args: nil, want: "Usage:"},
		{name: "unknown command", args: []string{"explode"}, want: `unknown command "explode"`},
		{name: "missing flag value", args: []string{"run", "--max-steps"}, want: "--max-steps expects a value"},
		{name: "bad max steps", args: []string{"--max-steps=0", "run"}, want: "positive integer"},
		{name: "bad output", args: []string{"--output", "xml", "run"}, want: "unknown --output value"},
		{name: "bad log level", args: []string{"--log-level=loud", "run"}, want: "unknown log level"},
		{name: "two programs", args: []string{"run", "a.cpp", "b.cpp"}, want: "at most one program"},
		{name: "no program", args: []string{"run"}, want: "no program given"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			code, _, errOut := runCLI(t, "", tc.args...)
			if code != 1 {
				t.Fatalf("expected exit code 1, got %d", code)
			}
			if !strings.Contains(errOut, tc.want) {
				t.Fatalf("expected stderr to contain %q, got %q", tc.want, errOut)
			}
		})
	}
}

func TestRunPrintsSummary(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "answer.cpp", answerProgram)

	code, out, errOut := runCLI(t, "", "--output", "text", "run", path)
	if code != 0 {
		t.Fatalf("exit code %d, stderr %q", code, errOut)
	}
	if want := "returned 42 after 3 steps"; !strings.Contains(out, want) {
		t.Fatalf("expected %q in %q", want, out)
	}

	code, out, errOut = runCLI(t, "", "run", path)
	if code != 0 {
		t.Fatalf("exit code %d, stderr %q", code, errOut)
	}
	var got summary
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode summary: %v\n%s", err, out)
	}
	if got.Result != "42" || got.Steps != 3 || got.Program != path {
		t.Fatalf("unexpected summary %+v", got)
	}
}

func TestRunEmbeddedSample(t *testing.T) {
	code, out, errOut := runCLI(t, "", "--output=text", "run", "embedded:pointers")
	if code != 0 {
		t.Fatalf("exit code %d, stderr %q", code, errOut)
	}
	if !strings.Contains(out, "embedded:pointers returned 49") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRunReportsRuntimeFailure(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "null.cpp", `int main() {
  int* p = nullptr;
  return *p;
}
`)
	code, _, errOut := runCLI(t, "", "run", path)
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(errOut, "run failed") || !strings.Contains(errOut, "null") {
		t.Fatalf("unexpected stderr %q", errOut)
	}
	if !strings.Contains(errOut, "category=memory") {
		t.Fatalf("unexpected stderr %q", errOut)
	}
}

func TestRunStepLimit(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "spin.cpp", `int main() {
  while (true) {
  }
  return 0;
}
`)
	code, _, errOut := runCLI(t, "", "--max-steps", "5", "run", path)
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(errOut, "step limit reached") {
		t.Fatalf("unexpected stderr %q", errOut)
	}
	if strings.Contains(errOut, "category=") {
		t.Fatalf("step limit is not a program failure, got %q", errOut)
	}
}

func TestTraceEmitsSnapshotStream(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "answer.cpp", answerProgram)
	code, out, errOut := runCLI(t, "", "trace", path)
	if code != 0 {
		t.Fatalf("exit code %d, stderr %q", code, errOut)
	}

	decoder := yaml.NewDecoder(strings.NewReader(out))
	docs := 0
	var last map[string]any
	for {
		var doc map[string]any
		if err := decoder.Decode(&doc); err != nil {
			break
		}
		docs++
		last = doc
	}
	// initial state, one snapshot per step, then the summary
	if docs != 5 {
		t.Fatalf("expected 5 documents, got %d:\n%s", docs, out)
	}
	if last["result"] != "42" {
		t.Fatalf("expected final summary, got %v", last)
	}
}

func TestTraceTextShowsBindings(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "answer.cpp", answerProgram)
	code, out, errOut := runCLI(t, "", "--output", "text", "trace", path)
	if code != 0 {
		t.Fatalf("exit code %d, stderr %q", code, errOut)
	}
	for _, want := range []string{"step 1 (running) at declaration", "int x #1 = 40", "int x #1 = 42", "returned 42"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestConfigFileSelectsProgram(t *testing.T) {
	dir := t.TempDir()
	writeProgram(t, dir, "answer.cpp", answerProgram)
	writeProgram(t, dir, driver.DefaultConfigName, "program: answer.cpp\noutput: text\n")
	t.Chdir(dir)

	code, out, errOut := runCLI(t, "", "run")
	if code != 0 {
		t.Fatalf("exit code %d, stderr %q", code, errOut)
	}
	if !strings.Contains(out, "returned 42") {
		t.Fatalf("unexpected output %q", out)
	}

	// a positional program wins over the config file
	code, out, errOut = runCLI(t, "", "run", "embedded:scopes")
	if code != 0 {
		t.Fatalf("exit code %d, stderr %q", code, errOut)
	}
	if !strings.Contains(out, "returned 15") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestProgramsListsSamples(t *testing.T) {
	code, out, _ := runCLI(t, "", "programs")
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	for _, name := range []string{"insert_back", "reverse", "pointers"} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in listing %q", name, out)
		}
	}

	code, out, _ = runCLI(t, "", "programs", "reverse")
	if code != 0 || !strings.Contains(out, "int main()") {
		t.Fatalf("expected reverse source, got code %d %q", code, out)
	}

	code, _, errOut := runCLI(t, "", "programs", "missing")
	if code != 1 || !strings.Contains(errOut, "unknown sample") {
		t.Fatalf("expected unknown sample error, got code %d %q", code, errOut)
	}
}

func TestStepSession(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "answer.cpp", answerProgram)
	input := strings.Join([]string{
		"step",
		"bogus",
		"",
		"state",
		"continue",
		"step",
		"reset",
		"s 2",
		"quit",
	}, "\n")
	code, out, errOut := runCLI(t, input, "--output", "text", "step", path)
	if code != 0 {
		t.Fatalf("exit code %d, stderr %q", code, errOut)
	}
	for _, want := range []string{
		"loaded; type help for commands",
		"step 1 (running)",
		`unknown command "bogus"`,
		"step 2 (running)",
		"returned 42 after 3 steps",
		"restarted",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "returned 42"); n != 2 {
		t.Fatalf("expected the summary twice (continue, then step after finishing), got %d:\n%s", n, out)
	}
}

func TestStepStopsAtEOF(t *testing.T) {
	code, out, _ := runCLI(t, "", "step", "embedded:arrays")
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(out, "embedded:arrays loaded") {
		t.Fatalf("unexpected output %q", out)
	}
}
