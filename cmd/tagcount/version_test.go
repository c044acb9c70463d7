package main

import (
	"strings"
	"testing"
)

// TestVersionCmd tests the version command output.
func TestVersionCmd(t *testing.T) {
	t.Parallel()

	code, stdout, _ := runCLI(t, "", "version")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}

	for _, want := range []string{"tagcount version ", "commit: ", "built: "} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in %q", want, stdout)
		}
	}
}

// TestVersionGetters tests the build information fallbacks.
func TestVersionGetters(t *testing.T) {
	t.Parallel()

	if getVersion() == "" {
		t.Error("expected non-empty version")
	}
	if getCommit() == "" {
		t.Error("expected non-empty commit")
	}
	if getDate() == "" {
		t.Error("expected non-empty date")
	}
}
