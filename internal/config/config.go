package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/tagcount/internal/classify"
	"github.com/nao1215/tagcount/internal/counter"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "tagcount"

	// DefaultOutputPath is the log file the report line is appended to.
	// Relative paths are resolved against the working directory.
	DefaultOutputPath = "output.txt"

	// DefaultUserAgent identifies tagcount in HTTP requests.
	DefaultUserAgent = "tagcount/1.0 (+https://github.com/nao1215/tagcount)"

	// DefaultTorStartupTimeout is the maximum time to wait for the embedded
	// Tor daemon to bootstrap.
	DefaultTorStartupTimeout = 3 * time.Minute
)

// Config holds all options of a single run.
// It is built by the CLI and passed down explicitly; there is no global state.
type Config struct {
	// OutputPath is the log file the report line is appended to.
	OutputPath string

	// Parser is the pinned tag counting strategy.
	Parser counter.Strategy

	// Divisors are the divisors the count is classified against.
	Divisors []int

	// ProxyAddress routes the fetch through a SOCKS5 proxy ("host:port") when set.
	ProxyAddress string

	// UseTor starts an embedded Tor daemon and fetches through it.
	// Mutually exclusive with ProxyAddress.
	UseTor bool

	// TorStartupTimeout bounds the embedded Tor bootstrap.
	TorStartupTimeout time.Duration

	// Record saves successful runs to the history database.
	Record bool

	// DBDir is the directory holding the history database.
	DBDir string

	// Verbose enables debug logging on stderr.
	Verbose bool

	// ConfigFilePath is the configuration file given with --config.
	// Empty means the default search locations are used.
	ConfigFilePath string

	// SiteConfigs holds per-host request settings from the configuration file.
	SiteConfigs *File

	// UserAgent is the User-Agent header used when no site sets one.
	UserAgent string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		OutputPath:        DefaultOutputPath,
		Parser:            counter.DefaultStrategy,
		Divisors:          append([]int(nil), classify.DefaultDivisors...),
		TorStartupTimeout: DefaultTorStartupTimeout,
		DBDir:             XDGDataDir(),
		UserAgent:         DefaultUserAgent,
		SiteConfigs:       NewFile(),
	}
}

// ApplyFile copies the run options set in cf onto c.
// Unset fields in cf leave c unchanged.
func (c *Config) ApplyFile(cf *File) error {
	if cf == nil {
		return nil
	}

	if cf.Output != "" {
		c.OutputPath = cf.Output
	}
	if cf.Parser != "" {
		s, err := counter.ParseStrategy(cf.Parser)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidParser, err)
		}
		c.Parser = s
	}
	if len(cf.Divisors) > 0 {
		c.Divisors = append([]int(nil), cf.Divisors...)
	}
	if cf.Proxy != "" {
		c.ProxyAddress = cf.Proxy
	}
	if cf.Record != nil {
		c.Record = *cf.Record
	}
	if cf.UserAgent != "" {
		c.UserAgent = cf.UserAgent
	}
	c.SiteConfigs = cf
	return nil
}

// SiteConfig returns the request settings for rawURL, with the global
// UserAgent filled in when no site or default sets one.
func (c *Config) SiteConfig(rawURL string) SiteConfig {
	var sc SiteConfig
	if c.SiteConfigs != nil {
		sc = c.SiteConfigs.SiteConfigForURL(rawURL)
	}
	if sc.UserAgent == "" {
		sc.UserAgent = c.UserAgent
	}
	return sc
}

// XDGDataDir returns the XDG data directory for tagcount.
// On Linux: ~/.local/share/tagcount
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for tagcount.
// On Linux: ~/.config/tagcount
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if c.OutputPath == "" {
		return ErrEmptyOutputPath
	}

	if !c.Parser.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidParser, c.Parser)
	}

	if _, err := classify.New(c.Divisors...); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDivisors, err)
	}

	if c.ProxyAddress != "" && c.UseTor {
		return ErrConflictingTransports
	}

	if c.UseTor && c.TorStartupTimeout <= 0 {
		return ErrInvalidTorTimeout
	}

	if c.Record && c.DBDir == "" {
		return ErrNoDBDir
	}

	return nil
}
