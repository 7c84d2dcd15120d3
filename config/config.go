package config

// Config holds interpreter settings loaded from flux.yaml.
type Config struct {
	// HistoryFile is where the REPL persists input history.
	HistoryFile string `yaml:"history_file"`

	// ModulePaths are extra directories searched by import after the
	// script's own directory.
	ModulePaths []string `yaml:"module_paths"`

	Watch WatchConfig `yaml:"watch"`
}

// WatchConfig holds settings for watch mode.
type WatchConfig struct {
	// DebounceMs is how long to wait after a file event before re-running,
	// so editors that write in bursts trigger a single run.
	DebounceMs int `yaml:"debounce_ms"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		HistoryFile: defaultHistoryFile(),
		ModulePaths: nil,
		Watch: WatchConfig{
			DebounceMs: 200,
		},
	}
}
