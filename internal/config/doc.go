// Package config holds the run configuration of tagcount and loads the
// optional YAML configuration file.
//
// Values are applied in order: defaults from NewConfig, then the
// configuration file, then command-line flags. Validate is called once
// afterwards.
package config
