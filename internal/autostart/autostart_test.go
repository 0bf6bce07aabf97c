package autostart

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func withTempHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	return dir
}

func TestIsEnabledFalseWhenPlistAbsent(t *testing.T) {
	withTempHome(t)
	if IsEnabled() {
		t.Errorf("IsEnabled() = true on a fresh HOME, want false")
	}
}

func TestEnableWritesPlistAndIsEnabledReflectsIt(t *testing.T) {
	home := withTempHome(t)

	if err := Enable(); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	if !IsEnabled() {
		t.Errorf("IsEnabled() = false after Enable()")
	}

	p := filepath.Join(home, "Library", "LaunchAgents", launchAgentFile)
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read plist: %v", err)
	}
	if !strings.Contains(string(data), launchAgentLabel) {
		t.Errorf("plist contents missing label %q:\n%s", launchAgentLabel, data)
	}
}

func TestDisableRemovesPlist(t *testing.T) {
	withTempHome(t)

	if err := Enable(); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	if err := Disable(); err != nil {
		t.Fatalf("Disable() error = %v", err)
	}
	if IsEnabled() {
		t.Errorf("IsEnabled() = true after Disable()")
	}
}

func TestDisableToleratesAlreadyAbsent(t *testing.T) {
	withTempHome(t)
	if err := Disable(); err != nil {
		t.Errorf("Disable() on absent plist returned error: %v", err)
	}
}
