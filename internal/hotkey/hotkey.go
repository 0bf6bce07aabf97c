// Package hotkey provides global hotkey registration for the tray's
// quick-inspect action: unlike the teacher's press/hold PTT binding, iosef
// only needs a single fire-on-press trigger.
package hotkey

import (
	"context"
	"fmt"
	"log"
	"sync"

	"golang.design/x/hotkey"
)

// Manager handles global hotkey registration for a single trigger callback.
type Manager struct {
	mu      sync.Mutex
	hk      *hotkey.Hotkey
	cancel  context.CancelFunc
	onPress func()
}

// NewManager creates a hotkey manager that calls onPress on every key-down.
func NewManager(onPress func()) *Manager {
	return &Manager{onPress: onPress}
}

// Register sets up a global hotkey with the given modifiers and key,
// unregistering any existing binding first.
func (m *Manager) Register(mods []string, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.unregisterLocked()

	parsedMods, err := ParseModifiers(mods)
	if err != nil {
		return fmt.Errorf("parse modifiers: %w", err)
	}
	parsedKey, err := ParseKey(key)
	if err != nil {
		return fmt.Errorf("parse key: %w", err)
	}

	hk := hotkey.New(parsedMods, parsedKey)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("register hotkey: %w", err)
	}
	m.hk = hk

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	go m.listen(ctx, hk)

	log.Printf("[hotkey] registered: %v+%s", mods, key)
	return nil
}

func (m *Manager) listen(ctx context.Context, hk *hotkey.Hotkey) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-hk.Keydown():
			if m.onPress != nil {
				m.onPress()
			}
		}
	}
}

// Unregister removes the current global hotkey, if any.
func (m *Manager) Unregister() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unregisterLocked()
}

func (m *Manager) unregisterLocked() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if m.hk != nil {
		m.hk.Unregister()
		m.hk = nil
	}
}
