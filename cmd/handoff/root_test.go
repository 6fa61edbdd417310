package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kolkov/handoff/internal/config"
	"github.com/kolkov/handoff/internal/console"
)

// execute runs the root command with args and stdin, isolated from the
// user's config file.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	if !hasFlag(args, "--config") {
		args = append(args, "--config", filepath.Join(t.TempDir(), "config.yaml"))
	}
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func hasFlag(args []string, name string) bool {
	for _, a := range args {
		if a == name || strings.HasPrefix(a, name+"=") {
			return true
		}
	}
	return false
}

// verifyOrder checks that each line appears in out after the previous one.
func verifyOrder(t *testing.T, out string, lines ...string) {
	t.Helper()
	pos := 0
	for _, l := range lines {
		i := strings.Index(out[pos:], l)
		if i < 0 {
			t.Fatalf("missing or out of order: %q\noutput:\n%s", l, out)
		}
		pos += i + len(l)
	}
}

func TestRoot_Scenario(t *testing.T) {
	for _, wait := range []string{"spin", "signal"} {
		t.Run(wait, func(t *testing.T) {
			out, _, err := execute(t, "hello\n42\n3.14\n", "--wait", wait, "--audit")
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}

			verifyOrder(t, out,
				console.PromptString, console.PromptInt, console.PromptDouble,
				"Original input\nString: hello\nInt: 42\nDouble: 3.140000\n",
				"Producer thread is now updating all values to: 'Producer's Update', 1, 1.0\n",
				"Producer thread has finished updating all values\n",
				"Consumer is printing... String: Producer's Update, Int: 1, Double: 1.000000\n",
				"Audit: no races detected\n",
			)
			if n := strings.Count(out, "Current thread in function id = "); n != 2 {
				t.Errorf("identity lines = %d, want 2", n)
			}
			if strings.Contains(out, "Consumer is printing... String: hello") {
				t.Error("consumer reported the operator input")
			}
		})
	}
}

func TestRoot_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.NewDefaultConfig()
	cfg.Producer = config.ProducerConfig{Text: "from file", Count: 9, Amount: 0.25}
	if err := config.SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}

	out, _, err := execute(t, "a\n1\n2\n", "--config", path)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(out, "Consumer is printing... String: from file, Int: 9, Double: 0.250000") {
		t.Errorf("producer constants from config not used:\n%s", out)
	}
	if strings.Contains(out, "Audit:") {
		t.Error("audit output without --audit")
	}
}

func TestRoot_Errors(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		args    []string
		wantErr error
	}{
		{"malformed int", "hello\nx\n1\n", nil, console.ErrInvalidInt},
		{"malformed double", "hello\n1\nx\n", nil, console.ErrInvalidFloat},
		{"short input", "hello\n", nil, console.ErrNoInput},
		{"bad wait flag", "hello\n1\n1\n", []string{"--wait", "sleep"}, config.ErrInvalidWaitMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.stdin, tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Execute() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRoot_UnsupportedConfigVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: v2.0.0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, _, err := execute(t, "a\n1\n1\n", "--config", path)
	if !errors.Is(err, config.ErrUnsupportedVersion) {
		t.Errorf("Execute() error = %v, want %v", err, config.ErrUnsupportedVersion)
	}
}

func TestRoot_DebugLogs(t *testing.T) {
	_, errOut, err := execute(t, "a\n1\n1\n", "--log-level", "debug")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	for _, msg := range []string{"record allocated", "worker started", "handshake complete", "run_id="} {
		if !strings.Contains(errOut, msg) {
			t.Errorf("log output missing %q:\n%s", msg, errOut)
		}
	}
}

func TestRoot_PollInterval(t *testing.T) {
	out, _, err := execute(t, "a\n1\n1\n", "--wait", "spin", "--poll-interval", "1")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(out, "Consumer is printing...") {
		t.Errorf("run did not complete:\n%s", out)
	}
}

func TestVersionCmd(t *testing.T) {
	out, _, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.HasPrefix(out, "handoff version 0.1.0\n") {
		t.Errorf("version output = %q", out)
	}
}

func TestConfigCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	out, _, err := execute(t, "", "config", "init", "--config", path)
	if err != nil {
		t.Fatalf("config init error: %v", err)
	}
	if !strings.Contains(out, "Configuration initialized at: "+path) {
		t.Errorf("config init output = %q", out)
	}

	out, _, err = execute(t, "", "config", "init", "--config", path)
	if err != nil || !strings.Contains(out, "Config already exists") {
		t.Errorf("second config init = %q, %v", out, err)
	}

	out, _, err = execute(t, "", "config", "show", "--config", path)
	if err != nil {
		t.Fatalf("config show error: %v", err)
	}
	if !strings.Contains(out, "wait: signal") || !strings.Contains(out, "version: v1.0.0") {
		t.Errorf("config show output:\n%s", out)
	}

	out, _, err = execute(t, "", "config", "path", "--config", path)
	if err != nil || strings.TrimSpace(out) != path {
		t.Errorf("config path = %q, %v", out, err)
	}
}
