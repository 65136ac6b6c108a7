// Package config loads, normalizes, and validates parchive configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// CLI needs: the database location, the download root, network timeouts, and
// the optional analysis endpoint.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
