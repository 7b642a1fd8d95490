package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the root configuration for hoslog, stored in ~/.hoslog/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	Driver DriverConfig `json:"driver"`
	ELD    ELDConfig    `json:"eld"`
}

// DriverConfig identifies the driver whose logs this installation records.
type DriverConfig struct {
	// ID is the driver identifier written into every recorded duty event.
	ID string `json:"id"`
	// Timezone is the IANA timezone used for display (e.g. "America/Denver").
	// Empty = UTC. Timestamps are always stored in UTC.
	Timezone string `json:"timezone"`
}

// ELDConfig holds the fleet ELD provider sync settings.
type ELDConfig struct {
	// BaseURL is the provider API root, e.g. "https://api.example-eld.com".
	BaseURL string `json:"base_url"`
	// ClientID is the OAuth2 client ID for the device code flow.
	ClientID string `json:"client_id"`
}

// DefaultDriverID is used when no driver is configured.
const DefaultDriverID = "driver-1"

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		Driver: DriverConfig{ID: DefaultDriverID},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// hoslog configuration – ~/.hoslog/config.json
//
// All settings are optional except the ELD section, which is only needed
// for "hoslog eld sync". Edit this file to customise hoslog behaviour.
{
  // ── Driver identity ──────────────────────────────────────────────────────
  "driver": {
    // Identifier stamped on every duty event you record.
    "id": "driver-1",

    // IANA timezone used for display, e.g. "America/Denver".
    // Leave empty for UTC. Event timestamps are always stored in UTC.
    "timezone": ""
  },

  // ── Fleet ELD provider sync ──────────────────────────────────────────────
  "eld": {
    // API root of your fleet's ELD provider.
    "base_url": "",

    // OAuth2 application (client) ID registered with the provider for the
    // device code flow. Ask your fleet administrator for this value.
    "client_id": ""
  }
}
`

// configFilePath returns the path to ~/.hoslog/config.json.
func configFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".hoslog", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads ~/.hoslog/config.json, creating it with annotated defaults on
// first run. Lines starting with // are treated as comments and stripped
// before JSON parsing.
func Load() (Config, error) {
	path, err := configFilePath()
	if err != nil {
		return defaultConfig(), err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaultConfig(), nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	if cfg.Driver.ID == "" {
		cfg.Driver.ID = DefaultDriverID
	}
	return cfg, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
