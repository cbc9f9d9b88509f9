// Package config handles configuration management for the herald demo
// tooling. It layers an embedded defaults file, an optional TOML or YAML
// config file, HERALD_* environment variables, and programmatic overrides.
// The registry library itself takes no configuration; this package exists
// for the CLI.
package config
