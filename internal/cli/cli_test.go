package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/mehmetkoksal-w/lorawan-devices/internal/config"
	"github.com/mehmetkoksal-w/lorawan-devices/internal/logger"
	"github.com/mehmetkoksal-w/lorawan-devices/internal/validate"
)

const profileYAML = `supportsClassB: false
supportsClassC: true
macVersion: '1.0.2'
regionalParametersVersion: RP001-1.0.2-RevB
supportsJoin: true
maxEIRP: 14
supports32bitFCnt: true
`

type testEnv struct {
	fs     afero.Fs
	stdout bytes.Buffer
	stderr bytes.Buffer
	vars   map[string]string
}

func newTestEnv(t *testing.T, files map[string]string) *testEnv {
	t.Helper()
	e := &testEnv{fs: afero.NewMemMapFs(), vars: map[string]string{}}
	for path, content := range files {
		if err := afero.WriteFile(e.fs, path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	t.Cleanup(func() { logger.SetLevel(logger.LevelOff) })
	return e
}

func (e *testEnv) run(args ...string) error {
	return RunEnv(args, Env{
		Fs:     e.fs,
		Stdout: &e.stdout,
		Stderr: &e.stderr,
		Getenv: func(key string) string { return e.vars[key] },
	})
}

func repositoryFiles(rootPath string) map[string]string {
	return map[string]string{
		rootPath:                 "vendors:\n  - id: acme\n    name: ACME\n",
		"vendor/acme/index.yaml": "endDevices:\n  - sensor-one\n",
		"vendor/acme/sensor-one.yaml": `name: Sensor One
firmwareVersions:
  - version: '1.0'
    profiles:
      EU863-870:
        id: sensor-profile
`,
		"vendor/acme/sensor-profile.yaml": profileYAML,
	}
}

func TestRunDefaultVendorIndex(t *testing.T) {
	e := newTestEnv(t, repositoryFiles("vendor/index.yaml"))
	if err := e.run(); err != nil {
		t.Fatalf("run() error: %v\nstderr:\n%s", err, e.stderr.String())
	}
	want := "vendor: valid\nacme: valid index\nacme: sensor-one: valid\nacme: sensor-one: profile sensor-profile (EU863-870) valid\n"
	if e.stdout.String() != want {
		t.Errorf("stdout = %q, want %q", e.stdout.String(), want)
	}
}

func TestRunVendorFlag(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"long", []string{"--vendor", "staging/vendors.yaml"}},
		{"short", []string{"-v", "staging/vendors.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t, repositoryFiles("staging/vendors.yaml"))
			if err := e.run(tt.args...); err != nil {
				t.Fatalf("run() error: %v\nstderr:\n%s", err, e.stderr.String())
			}
			if !strings.HasPrefix(e.stdout.String(), "vendor: valid\nacme: valid index\n") {
				t.Errorf("stdout = %q", e.stdout.String())
			}
		})
	}
}

func TestRunFailureReturnsFatalError(t *testing.T) {
	files := repositoryFiles("vendor/index.yaml")
	files["vendor/acme/sensor-one.yaml"] = "name: Sensor One\nfirmwareVersions: []\n"

	e := newTestEnv(t, files)
	err := e.run()
	var fatal *validate.FatalError
	if !errors.As(err, &fatal) {
		t.Fatalf("expected *validate.FatalError, got %v", err)
	}
	if !strings.Contains(e.stderr.String(), "acme: sensor-one: invalid") {
		t.Errorf("stderr = %q", e.stderr.String())
	}
}

func TestRunFlagErrors(t *testing.T) {
	t.Run("unknown flag", func(t *testing.T) {
		e := newTestEnv(t, nil)
		if err := e.run("--strict"); err == nil {
			t.Fatal("expected error for unknown flag")
		}
	})

	t.Run("positional argument", func(t *testing.T) {
		e := newTestEnv(t, nil)
		err := e.run("vendor/index.yaml")
		if err == nil || !strings.Contains(err.Error(), "unexpected argument") {
			t.Fatalf("expected unexpected argument error, got %v", err)
		}
	})

	t.Run("help", func(t *testing.T) {
		e := newTestEnv(t, nil)
		if err := e.run("-h"); err != nil {
			t.Fatalf("run(-h) error: %v", err)
		}
		if !strings.Contains(e.stderr.String(), "Usage: validate --vendor <file>") {
			t.Errorf("usage not printed: %q", e.stderr.String())
		}
	})
}

func TestRunLogLevelFromEnvironment(t *testing.T) {
	t.Run("invalid level", func(t *testing.T) {
		e := newTestEnv(t, repositoryFiles("vendor/index.yaml"))
		e.vars[config.EnvLogLevel] = "chatty"
		if err := e.run(); err == nil {
			t.Fatal("expected error for unknown log level")
		}
		if e.stdout.Len() != 0 {
			t.Errorf("validation ran despite config error: %q", e.stdout.String())
		}
	})

	t.Run("info logs the report", func(t *testing.T) {
		var logs bytes.Buffer
		prev := logger.SetOutput(&logs)
		t.Cleanup(func() { logger.SetOutput(prev) })

		e := newTestEnv(t, repositoryFiles("vendor/index.yaml"))
		e.vars[config.EnvLogLevel] = "info"
		if err := e.run(); err != nil {
			t.Fatalf("run() error: %v", err)
		}
		if !strings.Contains(logs.String(), "vendors: 1 valid, 0 invalid, 0 without index; end devices: 1; profiles: 1 (1 references)") {
			t.Errorf("report not logged: %q", logs.String())
		}
	})
}

func TestPrintErrorSkipsReportedFailures(t *testing.T) {
	files := repositoryFiles("vendor/index.yaml")
	delete(files, "vendor/index.yaml")

	e := newTestEnv(t, files)
	err := e.run()
	if err == nil {
		t.Fatal("expected error for missing vendors index")
	}
	if n := strings.Count(e.stderr.String(), "vendor/index.yaml: not found"); n != 1 {
		t.Errorf("run stderr reports the failure %d times: %q", n, e.stderr.String())
	}

	var out bytes.Buffer
	PrintError(&out, err)
	if out.Len() != 0 {
		t.Errorf("PrintError() repeated a reported failure: %q", out.String())
	}

	err = e.run("extra")
	PrintError(&out, err)
	if got := out.String(); got != "validate: unexpected argument: extra\n" {
		t.Errorf("PrintError() = %q", got)
	}
}

func TestBuildInfo(t *testing.T) {
	SetBuildInfo("1.2.3", "abc123", "")
	t.Cleanup(func() { SetBuildInfo("dev", "unknown", "unknown") })
	if got := buildInfo(); got != "validate 1.2.3 (commit abc123, built unknown)" {
		t.Errorf("buildInfo() = %q", got)
	}
}
