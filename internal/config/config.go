// Package config handles loading and saving iosef's persisted settings and
// reading its environment-derived ones.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config holds the settings persisted across process runs.
type Config struct {
	mu                 sync.RWMutex `json:"-"`
	DefaultDeviceName  string       `json:"default_device_name"`
	QuickInspectHotkey HotkeyConfig `json:"quick_inspect_hotkey"`
}

// HotkeyConfig defines a global hotkey binding for the tray.
type HotkeyConfig struct {
	Modifiers []string `json:"modifiers"` // "cmd", "ctrl", "shift", "option"
	Key       string   `json:"key"`
}

func (h HotkeyConfig) String() string {
	parts := append([]string{}, h.Modifiers...)
	parts = append(parts, h.Key)
	return strings.Join(parts, "+")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		QuickInspectHotkey: HotkeyConfig{
			Modifiers: []string{"cmd", "shift"},
			Key:       "i",
		},
	}
}

// Dir returns the OS-appropriate config directory for iosef.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(base, "iosef"), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk. If the file doesn't exist, it creates a
// default config and saves it.
func Load() (*Config, error) {
	p, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		cfg := DefaultConfig()
		if saveErr := cfg.Save(); saveErr != nil {
			return nil, fmt.Errorf("create default config: %w", saveErr)
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to disk atomically (write temp, rename).
func (c *Config) Save() error {
	c.mu.RLock()
	data, err := json.MarshalIndent(c, "", "  ")
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	p, err := Path()
	if err != nil {
		return err
	}

	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

// GetDefaultDeviceName returns the persisted default device name, used by
// the resource cache's device-resolution fallback chain.
func (c *Config) GetDefaultDeviceName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.DefaultDeviceName
}

// SetDefaultDeviceName updates and persists the default device name.
func (c *Config) SetDefaultDeviceName(name string) error {
	c.mu.Lock()
	c.DefaultDeviceName = name
	c.mu.Unlock()
	return c.Save()
}

// GetQuickInspectHotkey returns a copy of the tray's quick-inspect hotkey
// binding.
func (c *Config) GetQuickInspectHotkey() HotkeyConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	mods := make([]string, len(c.QuickInspectHotkey.Modifiers))
	copy(mods, c.QuickInspectHotkey.Modifiers)
	return HotkeyConfig{Modifiers: mods, Key: c.QuickInspectHotkey.Key}
}

// SetQuickInspectHotkey updates and persists the tray's quick-inspect
// hotkey binding.
func (c *Config) SetQuickInspectHotkey(mods []string, key string) error {
	c.mu.Lock()
	c.QuickInspectHotkey = HotkeyConfig{Modifiers: mods, Key: key}
	c.mu.Unlock()
	return c.Save()
}

// Environment holds the process's environment-derived settings, read once
// at startup. Unlike Config, these are never persisted.
type Environment struct {
	FilteredTools    map[string]bool
	Timeout          time.Duration
	DefaultOutputDir string
}

const defaultTimeout = 10 * time.Second

// LoadEnvironment reads IOSEF_FILTERED_TOOLS, IOSEF_TIMEOUT, and
// IOSEF_DEFAULT_OUTPUT_DIR from the process environment.
func LoadEnvironment() Environment {
	env := Environment{
		FilteredTools: make(map[string]bool),
		Timeout:       defaultTimeout,
	}

	if raw := os.Getenv("IOSEF_FILTERED_TOOLS"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				env.FilteredTools[name] = true
			}
		}
	}

	if raw := os.Getenv("IOSEF_TIMEOUT"); raw != "" {
		if secs, err := strconv.ParseFloat(raw, 64); err == nil && secs > 0 {
			env.Timeout = time.Duration(secs * float64(time.Second))
		}
	}

	env.DefaultOutputDir = os.Getenv("IOSEF_DEFAULT_OUTPUT_DIR")

	return env
}
