package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/nao1215/tagcount/internal/database"
	"github.com/nao1215/tagcount/internal/report"
)

// runCLI executes the command tree and returns the exit code and both streams.
func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// newPageServer serves body as HTML and counts the requests it receives.
func newPageServer(t *testing.T, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

// writeConfig writes a configuration file into a temporary directory.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".tagcount")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "tagcount [flags] [URL TAG]" {
			t.Errorf("unexpected use %q", cmd.Use)
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
	})

	t.Run("has count flags", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name      string
			shorthand string
			defValue  string
		}{
			{"output", "o", "output.txt"},
			{"parser", "P", "tree"},
			{"config", "c", ""},
			{"proxy", "x", ""},
			{"tor", "", "false"},
			{"tor-timeout", "", "3m0s"},
			{"record", "r", "false"},
		}
		for _, tt := range tests {
			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Errorf("expected %s flag", tt.name)
				continue
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("%s: expected shorthand %q, got %q", tt.name, tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("%s: expected default %q, got %q", tt.name, tt.defValue, flag.DefValue)
			}
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		want := map[string]bool{"init": false, "history": false, "version": false}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Name()]; ok {
				want[sub.Name()] = true
			}
		}
		for name, found := range want {
			if !found {
				t.Errorf("expected %s subcommand", name)
			}
		}
	})
}

// TestUsageErrors tests that bad invocations exit with status 2 before any request.
func TestUsageErrors(t *testing.T) {
	t.Parallel()

	srv, hits := newPageServer(t, "<br>")
	cfgPath := writeConfig(t, "")

	tests := []struct {
		name string
		args []string
	}{
		{"one argument", []string{srv.URL}},
		{"three arguments", []string{srv.URL, "br", "extra"}},
		{"unknown flag", []string{"--no-such-flag", srv.URL, "br"}},
		{"url without scheme", []string{"-c", cfgPath, "example.com", "br"}},
		{"empty tag", []string{"-c", cfgPath, srv.URL, " "}},
		{"tag with attributes", []string{"-c", cfgPath, srv.URL, "a href"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			code, stdout, stderr := runCLI(t, "", tt.args...)
			if code != exitUsage {
				t.Errorf("expected exit %d, got %d (stderr: %s)", exitUsage, code, stderr)
			}
			if stdout != "" {
				t.Errorf("expected empty stdout, got %q", stdout)
			}
			if !strings.Contains(stderr, "Usage:") {
				t.Errorf("expected usage on stderr, got %q", stderr)
			}
		})
	}

	t.Cleanup(func() {
		if n := hits.Load(); n != 0 {
			t.Errorf("expected no requests, got %d", n)
		}
	})
}

// TestCountRun tests a complete run against a local server.
func TestCountRun(t *testing.T) {
	t.Parallel()

	t.Run("appends and prints the report line", func(t *testing.T) {
		t.Parallel()
		srv, hits := newPageServer(t, "Foo<br>Bar<br>Baz")
		output := filepath.Join(t.TempDir(), "output.txt")
		cfgPath := writeConfig(t, "")
		url := srv.URL + "/"

		for range 2 {
			code, stdout, stderr := runCLI(t, "", "-c", cfgPath, "-o", output, url, "BR")
			if code != exitOK {
				t.Fatalf("expected exit 0, got %d (stderr: %s)", code, stderr)
			}
			want := "URL: '" + url + "', tag: 'BR', count: 2, divisors: []\n"
			if stdout != want {
				t.Errorf("expected stdout %q, got %q", want, stdout)
			}
		}

		content, err := os.ReadFile(output)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		line := "URL: '" + url + "', tag: 'BR', count: 2, divisors: []\n"
		if string(content) != line+line {
			t.Errorf("expected two appended lines, got %q", content)
		}
		if n := hits.Load(); n != 2 {
			t.Errorf("expected 2 requests, got %d", n)
		}
	})

	t.Run("prompts when no arguments are given", func(t *testing.T) {
		t.Parallel()
		srv, _ := newPageServer(t, "<p>a</p><p>b</p><p>c</p>")
		output := filepath.Join(t.TempDir(), "output.txt")
		cfgPath := writeConfig(t, "")
		url := srv.URL + "/"

		code, stdout, stderr := runCLI(t, url+"\nP\n", "-c", cfgPath, "-o", output)
		if code != exitOK {
			t.Fatalf("expected exit 0, got %d (stderr: %s)", code, stderr)
		}
		if !strings.HasPrefix(stdout, "Url: Tag: ") {
			t.Errorf("expected prompts on stdout, got %q", stdout)
		}
		if !strings.Contains(stdout, "tag: 'P', count: 3, divisors: [3]") {
			t.Errorf("unexpected report line in %q", stdout)
		}
	})

	t.Run("applies the configuration file", func(t *testing.T) {
		t.Parallel()
		srv, _ := newPageServer(t, "<p>a</p><p>b</p>")
		output := filepath.Join(t.TempDir(), "from-config.txt")
		cfgPath := writeConfig(t, "output: "+output+"\nparser: tokenizer\ndivisors: [2, 7]\n")

		code, _, stderr := runCLI(t, "", "-c", cfgPath, srv.URL, "p")
		if code != exitOK {
			t.Fatalf("expected exit 0, got %d (stderr: %s)", code, stderr)
		}
		content, err := os.ReadFile(output)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if !strings.HasSuffix(string(content), "count: 2, divisors: [2]\n") {
			t.Errorf("unexpected line %q", content)
		}
	})

	t.Run("sends site cookie from configuration", func(t *testing.T) {
		t.Parallel()
		var cookie atomic.Value
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie.Store(r.Header.Get("Cookie"))
			_, _ = w.Write([]byte("<a></a>"))
		}))
		t.Cleanup(srv.Close)

		host := strings.TrimPrefix(srv.URL, "http://")
		cfgPath := writeConfig(t, "sites:\n  \""+host+"\":\n    cookie: \"session=abc\"\n")
		output := filepath.Join(t.TempDir(), "output.txt")

		code, _, stderr := runCLI(t, "", "-c", cfgPath, "-o", output, srv.URL, "a")
		if code != exitOK {
			t.Fatalf("expected exit 0, got %d (stderr: %s)", code, stderr)
		}
		if got, _ := cookie.Load().(string); got != "session=abc" {
			t.Errorf("expected cookie 'session=abc', got %q", got)
		}
	})
}

// TestCountFailures tests that failures exit with status 1 and print no report line.
func TestCountFailures(t *testing.T) {
	t.Parallel()

	t.Run("unreachable server", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		output := filepath.Join(t.TempDir(), "output.txt")
		code, stdout, _ := runCLI(t, "", "-c", writeConfig(t, ""), "-o", output, url, "a")
		if code != exitFailure {
			t.Errorf("expected exit %d, got %d", exitFailure, code)
		}
		if stdout != "" {
			t.Errorf("expected empty stdout, got %q", stdout)
		}
		if _, err := os.Stat(output); !os.IsNotExist(err) {
			t.Error("expected no output file")
		}
	})

	t.Run("unwritable output", func(t *testing.T) {
		t.Parallel()
		srv, _ := newPageServer(t, "<a></a>")
		output := filepath.Join(t.TempDir(), "missing", "output.txt")

		code, stdout, stderr := runCLI(t, "", "-c", writeConfig(t, ""), "-o", output, srv.URL, "a")
		if code != exitFailure {
			t.Errorf("expected exit %d, got %d", exitFailure, code)
		}
		if stdout != "" {
			t.Errorf("expected empty stdout, got %q", stdout)
		}
		if !strings.Contains(stderr, "open") {
			t.Errorf("expected open error on stderr, got %q", stderr)
		}
	})

	t.Run("missing explicit config", func(t *testing.T) {
		t.Parallel()
		missing := filepath.Join(t.TempDir(), "nope.yaml")
		code, _, stderr := runCLI(t, "", "-c", missing, "http://example.com/", "a")
		if code != exitFailure {
			t.Errorf("expected exit %d, got %d", exitFailure, code)
		}
		if !strings.Contains(stderr, "not found") {
			t.Errorf("expected not found error, got %q", stderr)
		}
	})

	t.Run("invalid parser", func(t *testing.T) {
		t.Parallel()
		code, _, stderr := runCLI(t, "", "-c", writeConfig(t, ""), "-P", "regex", "http://example.com/", "a")
		if code != exitFailure {
			t.Errorf("expected exit %d, got %d", exitFailure, code)
		}
		if !strings.Contains(stderr, "parser") {
			t.Errorf("expected parser error, got %q", stderr)
		}
	})

	t.Run("proxy and tor together", func(t *testing.T) {
		t.Parallel()
		code, _, _ := runCLI(t, "", "-c", writeConfig(t, ""), "--proxy", "127.0.0.1:9050", "--tor",
			"http://example.com/", "a")
		if code != exitFailure {
			t.Errorf("expected exit %d, got %d", exitFailure, code)
		}
	})

	t.Run("proxy not listening", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := strings.TrimPrefix(srv.URL, "http://")
		srv.Close()

		output := filepath.Join(t.TempDir(), "output.txt")
		code, stdout, stderr := runCLI(t, "", "-c", writeConfig(t, ""), "-o", output, "-x", addr,
			"http://example.com/", "a")
		if code != exitFailure {
			t.Errorf("expected exit %d, got %d", exitFailure, code)
		}
		if stdout != "" {
			t.Errorf("expected empty stdout, got %q", stdout)
		}
		if !strings.Contains(stderr, "proxy") {
			t.Errorf("expected proxy error, got %q", stderr)
		}
	})

	t.Run("no input to prompt", func(t *testing.T) {
		t.Parallel()
		code, _, _ := runCLI(t, "", "-c", writeConfig(t, ""))
		if code == exitOK {
			t.Error("expected non-zero exit")
		}
	})
}

// TestRecordAndHistory tests recording runs and listing them.
func TestRecordAndHistory(t *testing.T) {
	t.Parallel()

	srv, _ := newPageServer(t, "<a></a><a></a><a></a><div></div>")
	dbDir := t.TempDir()
	output := filepath.Join(t.TempDir(), "output.txt")
	cfgPath := writeConfig(t, "")

	for _, tag := range []string{"a", "div"} {
		code, _, stderr := runCLI(t, "", "-c", cfgPath, "-o", output, "--db-dir", dbDir, "-r", srv.URL, tag)
		if code != exitOK {
			t.Fatalf("expected exit 0, got %d (stderr: %s)", code, stderr)
		}
	}
	if _, err := os.Stat(filepath.Join(dbDir, database.FileName)); err != nil {
		t.Fatalf("expected database file: %v", err)
	}

	t.Run("lists runs as json", func(t *testing.T) {
		t.Parallel()
		code, stdout, stderr := runCLI(t, "", "history", "--db-dir", dbDir, "--json")
		if code != exitOK {
			t.Fatalf("expected exit 0, got %d (stderr: %s)", code, stderr)
		}

		var h report.History
		if err := json.Unmarshal([]byte(stdout), &h); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if h.Count != 2 {
			t.Fatalf("expected 2 runs, got %d", h.Count)
		}
		if h.Results[0].Tag != "a" || h.Results[0].Count != 3 || h.Results[0].Label != "fizz" {
			t.Errorf("unexpected first run: %+v", h.Results[0])
		}
		if h.Results[1].Tag != "div" || h.Results[1].Count != 1 {
			t.Errorf("unexpected second run: %+v", h.Results[1])
		}
	})

	t.Run("filters by tag", func(t *testing.T) {
		t.Parallel()
		code, stdout, _ := runCLI(t, "", "history", "--db-dir", dbDir, "--tag", "DIV")
		if code != exitOK {
			t.Fatalf("expected exit 0, got %d", code)
		}
		want := "URL: '" + srv.URL + "', tag: 'div', count: 1, divisors: []\n"
		if stdout != want {
			t.Errorf("expected %q, got %q", want, stdout)
		}
	})

	t.Run("renders markdown", func(t *testing.T) {
		t.Parallel()
		code, stdout, _ := runCLI(t, "", "history", "--db-dir", dbDir, "--markdown")
		if code != exitOK {
			t.Fatalf("expected exit 0, got %d", code)
		}
		if !strings.Contains(stdout, "# tagcount history") {
			t.Errorf("expected markdown title, got %q", stdout)
		}
	})
}

// TestHistoryCmd tests history without recorded runs and its flag checks.
func TestHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("reports an empty history without creating a database", func(t *testing.T) {
		t.Parallel()
		dbDir := t.TempDir()
		code, stdout, _ := runCLI(t, "", "history", "--db-dir", dbDir)
		if code != exitOK {
			t.Fatalf("expected exit 0, got %d", code)
		}
		if stdout != "No runs recorded.\n" {
			t.Errorf("unexpected output %q", stdout)
		}
		if _, err := os.Stat(filepath.Join(dbDir, database.FileName)); !os.IsNotExist(err) {
			t.Error("expected no database file")
		}
	})

	t.Run("writes an empty json history", func(t *testing.T) {
		t.Parallel()
		code, stdout, _ := runCLI(t, "", "history", "--db-dir", t.TempDir(), "--json")
		if code != exitOK {
			t.Fatalf("expected exit 0, got %d", code)
		}
		if !strings.Contains(stdout, `"results": []`) {
			t.Errorf("expected empty results, got %q", stdout)
		}
	})

	usage := []struct {
		name string
		args []string
	}{
		{"json and markdown", []string{"history", "--json", "--markdown"}},
		{"negative limit", []string{"history", "--limit", "-1"}},
		{"positional argument", []string{"history", "extra"}},
		{"invalid tag", []string{"history", "--tag", "<a>"}},
	}
	for _, tt := range usage {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			args := append(tt.args, "--db-dir", t.TempDir())
			code, _, stderr := runCLI(t, "", args...)
			if code != exitUsage {
				t.Errorf("expected exit %d, got %d (stderr: %s)", exitUsage, code, stderr)
			}
		})
	}
}
