package herald

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"

	"github.com/arthur-debert/herald/pkg/testutil"
)

// isolate points the XDG directories and working directory at fresh temp
// dirs so command tests never read a developer's real config or write
// into their state directory.
func isolate(t *testing.T) {
	t.Helper()

	t.Cleanup(func() { xdg.Reload() })
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(t.TempDir(), "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(t.TempDir(), "state"))
	xdg.Reload()
	t.Chdir(t.TempDir())
}

// captureStdout intercepts writes to os.Stdout while fn runs. The topics
// help system prints there directly.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	if err := w.Close(); err != nil {
		t.Fatalf("closing pipe: %v", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading pipe: %v", err)
	}
	return string(data)
}

func TestNewRootCmd(t *testing.T) {
	rootCmd := NewRootCmd()

	for _, name := range []string{"demo", "gen-config", "topics", "man", "completion", "help"} {
		cmd, _, err := rootCmd.Find([]string{name})
		testutil.AssertNoError(t, err, "finding %q", name)
		testutil.AssertEqual(t, name, cmd.Name())
	}
}

func TestRootNoArgs(t *testing.T) {
	isolate(t)

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{})
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)

	// Bare invocation shows help but still fails
	testutil.AssertError(t, rootCmd.Execute())
}

func TestVersionFlag(t *testing.T) {
	var buf bytes.Buffer
	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"--version"})
	rootCmd.SetOut(&buf)

	testutil.AssertNoError(t, rootCmd.Execute())
	testutil.AssertTrue(t, strings.Contains(buf.String(), "version"), "got %q", buf.String())
}

func TestTopicsCmd(t *testing.T) {
	isolate(t)

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"topics"})

	out := captureStdout(t, func() {
		testutil.AssertNoError(t, rootCmd.Execute())
	})

	testutil.AssertTrue(t, strings.Contains(out, "Available help topics:"), "got:\n%s", out)
	testutil.AssertTrue(t, strings.Contains(out, "architecture"), "got:\n%s", out)
	testutil.AssertTrue(t, strings.Contains(out, "--scenario"), "got:\n%s", out)
}

func TestHelpOptionTopic(t *testing.T) {
	isolate(t)

	rootCmd := NewRootCmd()
	// The bare flag name resolves through the option- topic fallback
	rootCmd.SetArgs([]string{"help", "scenario"})

	out := captureStdout(t, func() {
		testutil.AssertNoError(t, rootCmd.Execute())
	})

	// Plain text topics pass through the renderer untouched
	testutil.AssertTrue(t, strings.Contains(out, "HERALD_DEMO__SCENARIO"), "got:\n%s", out)
}

func TestHelpMarkdownTopic(t *testing.T) {
	isolate(t)

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"help", "lazy-registration"})

	out := captureStdout(t, func() {
		testutil.AssertNoError(t, rootCmd.Execute())
	})

	testutil.AssertTrue(t, strings.Contains(out, "trigger"), "got:\n%s", out)
}
