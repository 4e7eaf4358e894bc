package config

import "runtime"

const (
	defaultConfigPath    = "~/.config/audiosort/config.toml"
	defaultStateDir      = "~/.local/share/audiosort"
	defaultLogDir        = "~/.local/share/audiosort/logs"
	defaultMaxNameLength = 30
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

func defaultExtensions() []string {
	return []string{"mp3"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Sorter: Sorter{
			MaxNameLength: defaultMaxNameLength,
			Extensions:    defaultExtensions(),
			Workers:       runtime.NumCPU(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
