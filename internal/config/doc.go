// Package config loads, normalizes, and validates povstudio configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the library and CLI need: where the scenario library lives on disk, how
// logs are emitted, and the archive codec limits.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
