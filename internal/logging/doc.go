// Package logging constructs the slog loggers used across povstudio.
//
// Two output formats are supported: a compact console format that prefixes
// messages with their component and renders attributes as key=value pairs,
// and standard JSON for machine consumption. Output paths may name stdout,
// stderr, or log files; multiple paths fan out to a single writer.
package logging
