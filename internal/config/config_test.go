package config

import (
	"path/filepath"
	"strings"
	"testing"
)

// withTempConfigHome isolates os.UserConfigDir by pointing HOME at a fresh
// temp directory, since the darwin implementation ignores XDG_CONFIG_HOME.
func withTempConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	return dir
}

func TestHotkeyConfigString(t *testing.T) {
	h := HotkeyConfig{Modifiers: []string{"cmd", "shift"}, Key: "i"}
	if got := h.String(); got != "cmd+shift+i" {
		t.Errorf("String() = %q, want %q", got, "cmd+shift+i")
	}
}

func TestHotkeyConfigStringNoModifiers(t *testing.T) {
	h := HotkeyConfig{Key: "f5"}
	if got := h.String(); got != "f5" {
		t.Errorf("String() = %q, want %q", got, "f5")
	}
}

func TestLoadCreatesDefaultConfigWhenMissing(t *testing.T) {
	withTempConfigHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GetQuickInspectHotkey().String() != "cmd+shift+i" {
		t.Errorf("default hotkey = %v, want cmd+shift+i", cfg.GetQuickInspectHotkey())
	}

	p, _ := Path()
	if _, err := Load(); err != nil {
		t.Fatalf("second Load() of persisted default config failed: %v", err)
	}
	_ = p
}

func TestSaveLoadRoundTrip(t *testing.T) {
	withTempConfigHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := cfg.SetDefaultDeviceName("iPhone 15"); err != nil {
		t.Fatalf("SetDefaultDeviceName() error = %v", err)
	}
	if err := cfg.SetQuickInspectHotkey([]string{"ctrl"}, "j"); err != nil {
		t.Fatalf("SetQuickInspectHotkey() error = %v", err)
	}

	reloaded, err := Load()
	if err != nil {
		t.Fatalf("reload Load() error = %v", err)
	}
	if got := reloaded.GetDefaultDeviceName(); got != "iPhone 15" {
		t.Errorf("GetDefaultDeviceName() = %q, want %q", got, "iPhone 15")
	}
	hk := reloaded.GetQuickInspectHotkey()
	if hk.String() != "ctrl+j" {
		t.Errorf("GetQuickInspectHotkey() = %v, want ctrl+j", hk)
	}
}

func TestPathUnderConfigDir(t *testing.T) {
	dir := withTempConfigHome(t)
	p, err := Path()
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	if filepath.Base(p) != "config.json" || filepath.Base(filepath.Dir(p)) != "iosef" {
		t.Errorf("Path() = %q, want a path ending in iosef/config.json", p)
	}
	if !strings.HasPrefix(p, dir) {
		t.Errorf("Path() = %q, want it rooted under temp HOME %q", p, dir)
	}
}

func TestLoadEnvironmentParsesFilteredToolsAndTimeout(t *testing.T) {
	t.Setenv("IOSEF_FILTERED_TOOLS", "tap, swipe ,,type")
	t.Setenv("IOSEF_TIMEOUT", "2.5")
	t.Setenv("IOSEF_DEFAULT_OUTPUT_DIR", "/tmp/out")

	env := LoadEnvironment()
	for _, name := range []string{"tap", "swipe", "type"} {
		if !env.FilteredTools[name] {
			t.Errorf("FilteredTools missing %q: %v", name, env.FilteredTools)
		}
	}
	if len(env.FilteredTools) != 3 {
		t.Errorf("FilteredTools = %v, want exactly 3 entries", env.FilteredTools)
	}
	if env.Timeout.Seconds() != 2.5 {
		t.Errorf("Timeout = %v, want 2.5s", env.Timeout)
	}
	if env.DefaultOutputDir != "/tmp/out" {
		t.Errorf("DefaultOutputDir = %q, want /tmp/out", env.DefaultOutputDir)
	}
}

func TestLoadEnvironmentDefaultsWhenUnset(t *testing.T) {
	t.Setenv("IOSEF_FILTERED_TOOLS", "")
	t.Setenv("IOSEF_TIMEOUT", "")
	t.Setenv("IOSEF_DEFAULT_OUTPUT_DIR", "")

	env := LoadEnvironment()
	if len(env.FilteredTools) != 0 {
		t.Errorf("FilteredTools = %v, want empty", env.FilteredTools)
	}
	if env.Timeout != defaultTimeout {
		t.Errorf("Timeout = %v, want default %v", env.Timeout, defaultTimeout)
	}
}

func TestLoadEnvironmentIgnoresInvalidTimeout(t *testing.T) {
	t.Setenv("IOSEF_TIMEOUT", "not-a-number")
	env := LoadEnvironment()
	if env.Timeout != defaultTimeout {
		t.Errorf("Timeout = %v, want default %v on invalid input", env.Timeout, defaultTimeout)
	}
}
