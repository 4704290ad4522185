package logging

import "log/slog"

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldProjectID is the standardized structured logging key for project identifiers.
	FieldProjectID = "project_id"
	// FieldAssetID is the standardized structured logging key for binary asset identifiers.
	FieldAssetID = "asset_id"
	// FieldNodeID is the standardized structured logging key for scenario node identifiers.
	FieldNodeID = "node_id"
	// FieldResourceID is the standardized structured logging key for archive resource identifiers.
	FieldResourceID = "resource_id"
)

// WithComponent returns a logger tagged with the component name. The console
// handler renders the component as a message prefix rather than an attribute.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(slog.String(FieldComponent, component))
}
