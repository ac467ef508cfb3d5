package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	outerr "github.com/matzehuels/outdated/pkg/errors"
	"github.com/matzehuels/outdated/pkg/installed"
	"github.com/matzehuels/outdated/pkg/observability"
)

func registryHandler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.EscapedPath() {
	case "/lodash":
		json.NewEncoder(w).Encode(map[string]any{
			"name":      "lodash",
			"dist-tags": map[string]string{"latest": "4.17.21"},
			"versions": map[string]any{
				"4.17.20": map[string]any{"homepage": "https://lodash.com/"},
				"4.17.21": map[string]any{"homepage": "https://lodash.com/"},
			},
		})
	case "/left-pad":
		json.NewEncoder(w).Encode(map[string]any{
			"name":      "left-pad",
			"dist-tags": map[string]string{"latest": "1.3.0"},
			"versions": map[string]any{
				"1.3.0": map[string]any{},
			},
		})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type testEnv struct {
	cli      *CLI
	out      bytes.Buffer
	logs     bytes.Buffer
	registry string
	wd       string
}

// newTestEnv builds a CLI over an in-memory filesystem holding files, with
// paths relative to the working directory.
func newTestEnv(t *testing.T, files map[string]string) *testEnv {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	server := httptest.NewServer(http.HandlerFunc(registryHandler))
	t.Cleanup(server.Close)

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	fs := afero.NewMemMapFs()
	for rel, content := range files {
		if err := afero.WriteFile(fs, filepath.Join(wd, rel), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	env := &testEnv{registry: server.URL, wd: wd}
	env.cli = New(&env.logs, LogInfo)
	env.cli.Out = &env.out
	env.cli.Fs = fs
	return env
}

func (e *testEnv) run(args ...string) error {
	root := e.cli.RootCommand()
	root.SetOut(&e.out)
	root.SetErr(&e.logs)
	root.SetArgs(append(args, "--registry", e.registry))
	return root.ExecuteContext(context.Background())
}

var appFiles = map[string]string{
	"package.json":                       `{"name":"app","dependencies":{"lodash":"^4.17.0","left-pad":"^1.0.0"}}`,
	"node_modules/lodash/package.json":   `{"name":"lodash","version":"4.17.20"}`,
	"node_modules/unused/package.json":   `{"name":"unused","version":"1.0.0"}`,
	"node_modules/.package-lock.json":    `{}`,
	"node_modules/lodash/lib/readme.txt": "docs",
}

func TestRunCheckJSON(t *testing.T) {
	env := newTestEnv(t, appFiles)

	err := env.run("--no-cache", "--json")
	if !errors.Is(err, ErrOutdated) {
		t.Fatalf("err = %v, want ErrOutdated", err)
	}

	var got map[string]map[string]string
	if err := json.Unmarshal(env.out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, env.out.String())
	}
	if got["lodash"]["current"] != "4.17.20" || got["lodash"]["wanted"] != "4.17.21" {
		t.Errorf("lodash = %v", got["lodash"])
	}
	if got["lodash"]["location"] != "app" {
		t.Errorf("lodash location = %q, want app", got["lodash"]["location"])
	}
	if _, ok := got["left-pad"]["current"]; ok {
		t.Errorf("missing left-pad should omit current: %v", got["left-pad"])
	}
	if strings.Index(env.out.String(), `"left-pad"`) > strings.Index(env.out.String(), `"lodash"`) {
		t.Errorf("report not sorted by name:\n%s", env.out.String())
	}
}

func TestRunCheckUpToDate(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"package.json":                     `{"name":"app","dependencies":{"lodash":"^4.17.0"}}`,
		"node_modules/lodash/package.json": `{"name":"lodash","version":"4.17.21"}`,
	})

	if err := env.run("--no-cache"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if env.out.Len() != 0 {
		t.Errorf("table output for an up-to-date tree = %q, want empty", env.out.String())
	}

	env.out.Reset()
	if err := env.run("--no-cache", "--format", "json"); err != nil {
		t.Fatalf("run json: %v", err)
	}
	if env.out.String() != "{}\n" {
		t.Errorf("json output = %q, want {}", env.out.String())
	}
}

func TestRunCheckParseable(t *testing.T) {
	env := newTestEnv(t, appFiles)

	err := env.run("--no-cache", "-p", "lodash")
	if !errors.Is(err, ErrOutdated) {
		t.Fatalf("err = %v, want ErrOutdated", err)
	}
	lines := strings.Split(strings.TrimSpace(env.out.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want only lodash: %q", len(lines), env.out.String())
	}
	want := filepath.Join(env.wd, "node_modules", "lodash") + ":lodash@4.17.21:lodash@4.17.20:lodash@4.17.21"
	if strings.TrimSpace(lines[0]) != want {
		t.Errorf("line = %q, want %q", lines[0], want)
	}
}

func TestRunCheckTable(t *testing.T) {
	env := newTestEnv(t, appFiles)

	err := env.run("--no-cache", "--color=false", "--long")
	if !errors.Is(err, ErrOutdated) {
		t.Fatalf("err = %v, want ErrOutdated", err)
	}
	out := env.out.String()
	for _, want := range []string{"Package", "Current", "MISSING", "lodash", "4.17.20", "dependencies", "https://lodash.com/"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("table has escape codes with --color=false:\n%q", out)
	}
}

func TestRunCheckErrors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		args  []string
		code  outerr.Code
	}{
		{"no manifest", map[string]string{}, nil, outerr.ErrCodeInvalidManifest},
		{"bad package arg", appFiles, []string{"Not A Package"}, outerr.ErrCodeInvalidPackage},
		{"bad depth", appFiles, []string{"--depth", "deep"}, outerr.ErrCodeInvalidConfig},
		{"bad format", appFiles, []string{"--format", "xml"}, outerr.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.files)
			err := env.run(append([]string{"--no-cache"}, tt.args...)...)
			if !outerr.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRunCheckGlobal(t *testing.T) {
	prefix := filepath.Join(string(filepath.Separator), "prefix")
	modules := installed.GlobalDir(prefix)
	env := newTestEnv(t, nil)
	afero.WriteFile(env.cli.Fs, filepath.Join(modules, "lodash", "package.json"), []byte(`{"name":"lodash","version":"4.17.20"}`), 0o644)

	err := env.run("--no-cache", "-g", "--prefix", prefix, "--json")
	if !errors.Is(err, ErrOutdated) {
		t.Fatalf("err = %v, want ErrOutdated", err)
	}
	if !strings.Contains(env.out.String(), `"location": "global"`) {
		t.Errorf("global report:\n%s", env.out.String())
	}
}

func TestVerboseHooks(t *testing.T) {
	t.Cleanup(observability.Reset)
	env := newTestEnv(t, map[string]string{
		"package.json": `{"name":"app","dependencies":{"ghost":"^1.0.0"}}`,
	})
	env.cli.SetLogLevel(LogDebug)

	root := env.cli.RootCommand()
	root.SetOut(&env.out)
	root.SetArgs([]string{"--no-cache", "--registry", env.registry})
	pre := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := pre(cmd, args); err != nil {
			return err
		}
		env.cli.EnableVerboseHooks()
		return nil
	}
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	logs := env.logs.String()
	for _, want := range []string{"walk started", "package skipped", "ghost", "walk complete", "request"} {
		if !strings.Contains(logs, want) {
			t.Errorf("verbose logs missing %q:\n%s", want, logs)
		}
	}
}

func TestPackageArgs(t *testing.T) {
	tests := []struct {
		args    []string
		want    []string
		wantErr bool
	}{
		{nil, nil, false},
		{[]string{"lodash"}, []string{"lodash"}, false},
		{[]string{"lodash@^4", "@types/node@20"}, []string{"lodash", "@types/node"}, false},
		{[]string{"lodash", "lodash@4"}, []string{"lodash"}, false},
		{[]string{"bad name"}, nil, true},
		{[]string{""}, nil, true},
	}
	for _, tt := range tests {
		got, err := packageArgs(tt.args)
		if (err != nil) != tt.wantErr {
			t.Errorf("packageArgs(%q) err = %v, wantErr %v", tt.args, err, tt.wantErr)
			continue
		}
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("packageArgs(%q) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	env := newTestEnv(t, nil)
	if err := env.run("completion", "bash"); err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(env.out.String(), "outdated") {
		t.Error("bash completion does not mention the command name")
	}
}

func TestVersionFlag(t *testing.T) {
	env := newTestEnv(t, nil)
	if err := env.run("--version"); err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.Contains(env.out.String(), "commit:") {
		t.Errorf("version output = %q", env.out.String())
	}
}
