package config

import (
	"maps"
	"net/url"
	"strings"
)

// SiteConfig holds request settings for one host.
type SiteConfig struct {
	// Cookie is a raw Cookie header, e.g. "name1=value1; name2=value2".
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are extra request headers.
	Headers map[string]string `yaml:"headers,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`
}

// File is the structure of the configuration file.
type File struct {
	// Output is the log file path.
	Output string `yaml:"output,omitempty"`

	// Parser is the tag counting strategy name.
	Parser string `yaml:"parser,omitempty"`

	// Divisors replace the default [3, 5].
	Divisors []int `yaml:"divisors,omitempty"`

	// Proxy is a SOCKS5 proxy address.
	Proxy string `yaml:"proxy,omitempty"`

	// Record saves every successful run to the history database.
	// A pointer so that an explicit false can be told from unset.
	Record *bool `yaml:"record,omitempty"`

	// UserAgent is the global User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Defaults apply to every site unless overridden.
	Defaults SiteConfig `yaml:"defaults,omitempty"`

	// Sites maps host names ("example.com" or "example.com:8080") to settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`
}

// NewFile returns an empty File.
func NewFile() *File {
	return &File{Sites: make(map[string]SiteConfig)}
}

// GetSiteConfig returns the settings for host merged over the defaults.
// Host names are matched case-insensitively.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults
	if result.Headers != nil {
		result.Headers = maps.Clone(result.Headers)
	}

	site, ok := cf.lookup(host)
	if !ok {
		return result
	}

	if site.Cookie != "" {
		result.Cookie = site.Cookie
	}
	if site.UserAgent != "" {
		result.UserAgent = site.UserAgent
	}
	if len(site.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(site.Headers))
		}
		maps.Copy(result.Headers, site.Headers)
	}
	return result
}

// SiteConfigForURL returns the settings for the host of rawURL. A site key
// with a port is preferred over the bare host name.
func (cf *File) SiteConfigForURL(rawURL string) SiteConfig {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return cf.GetSiteConfig("")
	}
	if _, ok := cf.lookup(u.Host); ok {
		return cf.GetSiteConfig(u.Host)
	}
	return cf.GetSiteConfig(u.Hostname())
}

// lookup finds the site entry for host, ignoring case.
func (cf *File) lookup(host string) (SiteConfig, bool) {
	if host == "" {
		return SiteConfig{}, false
	}
	if site, ok := cf.Sites[host]; ok {
		return site, true
	}
	for name, site := range cf.Sites {
		if strings.EqualFold(name, host) {
			return site, true
		}
	}
	return SiteConfig{}, false
}
