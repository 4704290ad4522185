package config

const (
	defaultLibraryDir  = "~/.local/share/povstudio/library"
	defaultLogDir      = "~/.local/share/povstudio/logs"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
	defaultMaxAssetMiB = 0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Archive: Archive{
			MaxAssetMiB: defaultMaxAssetMiB,
		},
	}
}
