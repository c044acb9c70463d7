package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/nao1215/tagcount/internal/counter"
)

// TestNewConfig verifies the default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default output is output.txt", func(t *testing.T) {
		t.Parallel()
		if cfg.OutputPath != "output.txt" {
			t.Errorf("expected OutputPath 'output.txt', got %q", cfg.OutputPath)
		}
	})

	t.Run("default parser is tree", func(t *testing.T) {
		t.Parallel()
		if cfg.Parser != counter.StrategyTree {
			t.Errorf("expected parser tree, got %q", cfg.Parser)
		}
	})

	t.Run("default divisors are 3 and 5", func(t *testing.T) {
		t.Parallel()
		if !slices.Equal(cfg.Divisors, []int{3, 5}) {
			t.Errorf("expected [3 5], got %v", cfg.Divisors)
		}
	})

	t.Run("recording and tor are off", func(t *testing.T) {
		t.Parallel()
		if cfg.Record || cfg.UseTor || cfg.ProxyAddress != "" {
			t.Errorf("expected direct transport without recording, got %+v", cfg)
		}
	})

	t.Run("default tor startup timeout is 3 minutes", func(t *testing.T) {
		t.Parallel()
		if cfg.TorStartupTimeout != 3*time.Minute {
			t.Errorf("expected 3m, got %v", cfg.TorStartupTimeout)
		}
	})

	t.Run("default config is valid", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

// TestConfigValidate tests each validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{name: "empty output path", modify: func(c *Config) { c.OutputPath = "" }, wantErr: ErrEmptyOutputPath},
		{name: "unknown parser", modify: func(c *Config) { c.Parser = "lxml" }, wantErr: ErrInvalidParser},
		{name: "zero divisor", modify: func(c *Config) { c.Divisors = []int{3, 0} }, wantErr: ErrInvalidDivisors},
		{name: "negative divisor", modify: func(c *Config) { c.Divisors = []int{-3} }, wantErr: ErrInvalidDivisors},
		{
			name:    "proxy and tor together",
			modify:  func(c *Config) { c.ProxyAddress = "127.0.0.1:9050"; c.UseTor = true },
			wantErr: ErrConflictingTransports,
		},
		{
			name:    "tor without startup timeout",
			modify:  func(c *Config) { c.UseTor = true; c.TorStartupTimeout = 0 },
			wantErr: ErrInvalidTorTimeout,
		},
		{
			name:    "record without database directory",
			modify:  func(c *Config) { c.Record = true; c.DBDir = "" },
			wantErr: ErrNoDBDir,
		},
		{name: "custom divisors", modify: func(c *Config) { c.Divisors = []int{2, 7} }},
		{name: "proxy only", modify: func(c *Config) { c.ProxyAddress = "127.0.0.1:9050" }},
		{name: "tor only", modify: func(c *Config) { c.UseTor = true }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tc.modify(cfg)

			err := cfg.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

// TestConfigApplyFile tests copying file options onto a Config.
func TestConfigApplyFile(t *testing.T) {
	t.Parallel()

	t.Run("set fields override defaults", func(t *testing.T) {
		t.Parallel()

		record := true
		cfg := NewConfig()
		err := cfg.ApplyFile(&File{
			Output:    "counts.log",
			Parser:    "Tokenizer",
			Divisors:  []int{2, 7},
			Proxy:     "127.0.0.1:9150",
			Record:    &record,
			UserAgent: "custom/1.0",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.OutputPath != "counts.log" {
			t.Errorf("unexpected output %q", cfg.OutputPath)
		}
		if cfg.Parser != counter.StrategyTokenizer {
			t.Errorf("unexpected parser %q", cfg.Parser)
		}
		if !slices.Equal(cfg.Divisors, []int{2, 7}) {
			t.Errorf("unexpected divisors %v", cfg.Divisors)
		}
		if cfg.ProxyAddress != "127.0.0.1:9150" || !cfg.Record || cfg.UserAgent != "custom/1.0" {
			t.Errorf("unexpected config %+v", cfg)
		}
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		if err := cfg.ApplyFile(NewFile()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.OutputPath != DefaultOutputPath || cfg.Parser != counter.DefaultStrategy {
			t.Errorf("expected defaults, got %+v", cfg)
		}
		if err := cfg.ApplyFile(nil); err != nil {
			t.Errorf("expected nil file to be ignored, got %v", err)
		}
	})

	t.Run("explicit false disables recording", func(t *testing.T) {
		t.Parallel()

		record := false
		cfg := NewConfig()
		cfg.Record = true
		if err := cfg.ApplyFile(&File{Record: &record}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Record {
			t.Error("expected Record to be false")
		}
	})

	t.Run("unknown parser is rejected", func(t *testing.T) {
		t.Parallel()

		err := NewConfig().ApplyFile(&File{Parser: "html5lib"})
		if !errors.Is(err, ErrInvalidParser) {
			t.Errorf("expected ErrInvalidParser, got %v", err)
		}
	})
}

// TestConfigSiteConfig tests per-URL request settings.
func TestConfigSiteConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.SiteConfigs = &File{
		Sites: map[string]SiteConfig{
			"example.com": {Cookie: "session=xyz"},
			"agent.test":  {UserAgent: "site-agent"},
		},
	}

	sc := cfg.SiteConfig("https://example.com/page")
	if sc.Cookie != "session=xyz" {
		t.Errorf("expected site cookie, got %q", sc.Cookie)
	}
	if sc.UserAgent != DefaultUserAgent {
		t.Errorf("expected default user agent, got %q", sc.UserAgent)
	}

	if got := cfg.SiteConfig("http://agent.test/").UserAgent; got != "site-agent" {
		t.Errorf("expected site user agent, got %q", got)
	}

	if got := cfg.SiteConfig("http://other.test/").Cookie; got != "" {
		t.Errorf("expected no cookie for other host, got %q", got)
	}
}

// TestFileGetSiteConfig tests merging site settings over defaults.
func TestFileGetSiteConfig(t *testing.T) {
	t.Parallel()

	file := &File{
		Defaults: SiteConfig{
			Cookie:  "default=abc",
			Headers: map[string]string{"X-Default": "d", "X-Shared": "default"},
		},
		Sites: map[string]SiteConfig{
			"example.com": {
				Cookie:  "session=xyz",
				Headers: map[string]string{"X-Shared": "site", "X-Site": "s"},
			},
			"example.com:8080": {UserAgent: "port-agent"},
		},
	}

	t.Run("returns defaults when site not found", func(t *testing.T) {
		t.Parallel()

		sc := file.GetSiteConfig("unknown.test")
		if sc.Cookie != "default=abc" {
			t.Errorf("expected default cookie, got %q", sc.Cookie)
		}
	})

	t.Run("merges headers with site values winning", func(t *testing.T) {
		t.Parallel()

		sc := file.GetSiteConfig("example.com")
		if sc.Cookie != "session=xyz" {
			t.Errorf("expected site cookie, got %q", sc.Cookie)
		}
		want := map[string]string{"X-Default": "d", "X-Shared": "site", "X-Site": "s"}
		for k, v := range want {
			if sc.Headers[k] != v {
				t.Errorf("expected header %s=%s, got %q", k, v, sc.Headers[k])
			}
		}
	})

	t.Run("does not mutate defaults", func(t *testing.T) {
		t.Parallel()

		_ = file.GetSiteConfig("EXAMPLE.COM")
		if _, ok := file.Defaults.Headers["X-Site"]; ok {
			t.Error("expected defaults to be left unchanged")
		}
	})

	t.Run("host match is case-insensitive", func(t *testing.T) {
		t.Parallel()

		if got := file.GetSiteConfig("Example.COM").Cookie; got != "session=xyz" {
			t.Errorf("expected site cookie, got %q", got)
		}
	})

	t.Run("host with port prefers exact key", func(t *testing.T) {
		t.Parallel()

		sc := file.SiteConfigForURL("http://example.com:8080/")
		if sc.UserAgent != "port-agent" {
			t.Errorf("expected port-specific user agent, got %q", sc.UserAgent)
		}

		sc = file.SiteConfigForURL("http://example.com:9090/")
		if sc.Cookie != "session=xyz" {
			t.Errorf("expected fallback to host name, got %q", sc.Cookie)
		}
	})
}

// TestLoadConfigFile tests loading the YAML configuration file.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cf, err := LoadConfigFile(filepath.Join(t.TempDir(), ".tagcount"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cf != nil {
			t.Error("expected nil file when not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".tagcount")
		content := `output: counts.log
parser: selector
divisors: [2, 3]
proxy: 127.0.0.1:9050
record: true
userAgent: my-agent
defaults:
  cookie: "default=abc"
sites:
  example.com:
    cookie: "session=xyz"
    headers:
      Authorization: "Bearer token"
`
		if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cf.Output != "counts.log" || cf.Parser != "selector" || cf.Proxy != "127.0.0.1:9050" {
			t.Errorf("unexpected run options %+v", cf)
		}
		if !slices.Equal(cf.Divisors, []int{2, 3}) {
			t.Errorf("unexpected divisors %v", cf.Divisors)
		}
		if cf.Record == nil || !*cf.Record {
			t.Error("expected record to be true")
		}
		if cf.UserAgent != "my-agent" {
			t.Errorf("unexpected user agent %q", cf.UserAgent)
		}
		if cf.Defaults.Cookie != "default=abc" {
			t.Errorf("unexpected default cookie %q", cf.Defaults.Cookie)
		}
		if cf.Sites["example.com"].Headers["Authorization"] != "Bearer token" {
			t.Error("expected Authorization header for example.com")
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".tagcount")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("initializes nil Sites map", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".tagcount")
		if err := os.WriteFile(configPath, []byte("output: x.txt\n"), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Sites == nil {
			t.Error("expected Sites map to be initialized")
		}
		if cf.Record != nil {
			t.Error("expected Record to be unset")
		}
	})
}

// TestFindConfigFile tests the configuration file search.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("output: x.txt\n"), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if got := FindConfigFile(configPath); got != configPath {
			t.Errorf("expected %q, got %q", configPath, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})

	t.Run("search paths cover working, XDG and home directories", func(t *testing.T) {
		t.Parallel()

		paths := searchPaths()
		want := filepath.Join(XDGConfigDir(), XDGConfigFile)
		if !slices.Contains(paths, want) {
			t.Errorf("expected %q in search paths %v", want, paths)
		}
		if len(paths) == 0 || filepath.Base(paths[0]) != DefaultConfigFile {
			t.Errorf("expected the working directory first, got %v", paths)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if filepath.Base(XDGDataDir()) != AppName {
		t.Errorf("expected data dir to end in %q, got %q", AppName, XDGDataDir())
	}
	if filepath.Base(XDGConfigDir()) != AppName {
		t.Errorf("expected config dir to end in %q, got %q", AppName, XDGConfigDir())
	}
	if NewConfig().DBDir != XDGDataDir() {
		t.Errorf("expected DBDir to default to %q", XDGDataDir())
	}
}
