// cmd/herald/demo_test.go
// TEST TYPE: Integration Tests
// DEPENDENCIES: Temp XDG directories
// PURPOSE: Run the demo command end to end, built-in and file scenarios

package herald

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/herald/pkg/errors"
	"github.com/arthur-debert/herald/pkg/testutil"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(io.Discard)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestDemoRunsBuiltinScenario(t *testing.T) {
	isolate(t)

	out, err := runCommand(t, "demo", "--format", "text")
	testutil.AssertNoError(t, err)

	// Five passes: startup, signin, refresh, signout, shutdown
	for _, want := range []string{
		"app.startup",
		"  - database",
		"  - mailer",
		"  - analytics (materialized)",
		"Registrations:",
		"[lazy, resolved]",
		"Run summary:",
		"  scenario: lifecycle",
		"  events: 5",
		"  deliveries: 17",
		"  materialized: 1",
		"  failures: 0",
	} {
		testutil.AssertTrue(t, strings.Contains(out, want), "output missing %q:\n%s", want, out)
	}
}

func TestDemoDeliveryOrderFollowsRegistration(t *testing.T) {
	isolate(t)

	out, err := runCommand(t, "demo", "--format", "text")
	testutil.AssertNoError(t, err)

	// Within the startup pass, database registered before audit
	db := strings.Index(out, "  - database")
	audit := strings.Index(out, "  - audit")
	testutil.AssertTrue(t, db >= 0 && audit >= 0, "missing deliveries:\n%s", out)
	testutil.AssertTrue(t, db < audit, "database should be delivered before audit:\n%s", out)
}

func TestDemoWithScenarioFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "smoke.yaml")
	content := `name: smoke
events:
  - app.startup
services:
  analytics: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing scenario: %v", err)
	}

	out, err := runCommand(t, "demo", "--scenario", path, "--format", "text")
	testutil.AssertNoError(t, err)

	testutil.AssertTrue(t, strings.Contains(out, "  scenario: smoke"), "got:\n%s", out)
	testutil.AssertTrue(t, strings.Contains(out, "  events: 1"), "got:\n%s", out)
	// startup reaches database, cache, and audit only
	testutil.AssertTrue(t, strings.Contains(out, "  deliveries: 3"), "got:\n%s", out)
	testutil.AssertFalse(t, strings.Contains(out, "analytics"), "analytics is toggled off:\n%s", out)
}

func TestDemoServiceToggleFromScenario(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "quiet.yaml")
	content := `name: quiet
events:
  - app.signin
services:
  mailer: false
  audit: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing scenario: %v", err)
	}

	out, err := runCommand(t, "demo", "--scenario", path, "--format", "text")
	testutil.AssertNoError(t, err)

	// Only the lazy analytics service is interested in signin now
	testutil.AssertTrue(t, strings.Contains(out, "  deliveries: 1"), "got:\n%s", out)
	testutil.AssertTrue(t, strings.Contains(out, "  - analytics (materialized)"), "got:\n%s", out)
	testutil.AssertFalse(t, strings.Contains(out, "  - mailer"), "mailer is toggled off:\n%s", out)
}

func TestDemoMissingScenarioFile(t *testing.T) {
	isolate(t)

	_, err := runCommand(t, "demo", "--scenario", "nope.yaml")
	testutil.AssertError(t, err)
	testutil.AssertTrue(t, errors.IsErrorCode(err, errors.ErrInvalidInput), "got %v", err)
}

func TestDemoInvalidScenarioFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("name: empty\nevents: []\n"), 0o644); err != nil {
		t.Fatalf("writing scenario: %v", err)
	}

	_, err := runCommand(t, "demo", "--scenario", path)
	testutil.AssertError(t, err)
	testutil.AssertTrue(t, errors.IsErrorCode(err, errors.ErrScenarioInvalid), "got %v", err)
}

func TestDemoRejectsUnknownFormat(t *testing.T) {
	isolate(t)

	_, err := runCommand(t, "demo", "--format", "yaml")
	testutil.AssertError(t, err)
	testutil.AssertTrue(t, errors.IsErrorCode(err, errors.ErrInvalidInput), "got %v", err)
}
