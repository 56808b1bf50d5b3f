package spritefield

import (
	"strconv"
	"sync"
)

// Settings keys read by the Controller.
const (
	SettingAspectRatio         = "aspect_ratio"
	SettingBackgroundTreatment = "background_treatment"
	SettingBlackBackground     = "black_background"
)

// Settings is the persistent preference store. The controller reads the
// aspect ratio and background treatment once at construction and polls the
// black background flag every frame, so Get must be cheap.
type Settings interface {
	Get(key string) (string, bool)
}

// MemorySettings is an in-memory Settings safe for concurrent use.
type MemorySettings struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemorySettings returns a store seeded with values.
func NewMemorySettings(values map[string]string) *MemorySettings {
	m := &MemorySettings{values: make(map[string]string, len(values))}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

// Get implements Settings.
func (m *MemorySettings) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key.
func (m *MemorySettings) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
}

// settingBool reads a boolean preference. Missing or malformed values are
// false.
func settingBool(s Settings, key string) bool {
	if s == nil {
		return false
	}
	v, ok := s.Get(key)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// applySettings overlays the construction-time preferences onto st.
func applySettings(s Settings, st GeneratorState) GeneratorState {
	if s == nil {
		return st
	}
	if v, ok := s.Get(SettingAspectRatio); ok {
		_ = st.AspectRatio.UnmarshalText([]byte(v))
	}
	if v, ok := s.Get(SettingBackgroundTreatment); ok {
		_ = st.BackgroundMode.UnmarshalText([]byte(v))
	}
	return st
}
