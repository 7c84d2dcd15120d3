package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a file. If configPath is empty, it
// searches default locations and falls back to Defaults() when no
// config file exists.
func Load(configPath string, getenv func(string) string) (*Config, error) {
	path := resolveConfigPath(configPath, getenv)
	if path == "" {
		return Defaults(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if configPath == "" && os.IsNotExist(err) {
			return Defaults(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Relative module paths resolve against the config file's directory.
	baseDir := filepath.Dir(path)
	for i := range cfg.ModulePaths {
		if !filepath.IsAbs(cfg.ModulePaths[i]) {
			cfg.ModulePaths[i] = filepath.Join(baseDir, cfg.ModulePaths[i])
		}
	}

	return cfg, nil
}

// resolveConfigPath returns the config file to load, or "" when none
// was specified and none of the default locations exist.
func resolveConfigPath(configPath string, getenv func(string) string) string {
	if configPath != "" {
		return configPath
	}
	candidates := []string{"flux.yaml"}
	if home := getenv("HOME"); home != "" {
		candidates = append(candidates, filepath.Join(home, ".flux", "flux.yaml"))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".flux_history"
	}
	return filepath.Join(home, ".flux_history")
}
