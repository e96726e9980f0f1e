// Package config holds Forge's launch-time configuration.
//
// Settings is the user-editable YAML file (settings.yaml). Launch is the
// read-only handle the session state carries: base directory, runtime
// provider identity, history bound, and boot commands. The session core
// never writes through a Launch.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zhubert/forge-core/paths"
)

// DefaultHistorySize is the default bound on the command history ring.
const DefaultHistorySize = 100

// Settings is the application configuration loaded from settings.yaml.
type Settings struct {
	// HistorySize bounds the command history ring. Zero means default.
	HistorySize int `yaml:"history_size,omitempty"`

	// BootCommands are queued ahead of user input when a session starts.
	BootCommands []string `yaml:"boot_commands,omitempty"`

	// Provider optionally overrides the runtime provider name.
	Provider string `yaml:"provider,omitempty"`

	// Debug enables debug-level logging.
	Debug bool `yaml:"debug,omitempty"`

	filePath string
}

// Load reads the settings from the default path, or returns defaults if the
// file doesn't exist.
func Load() (*Settings, error) {
	path, err := paths.SettingsFilePath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the settings from path, or returns defaults if the file
// doesn't exist.
func LoadFrom(path string) (*Settings, error) {
	s := &Settings{
		HistorySize:  DefaultHistorySize,
		BootCommands: []string{},
		filePath:     path,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	// Ensure zero values fall back to defaults after unmarshaling
	s.ensureInitialized()

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// ensureInitialized fills in defaults for unset fields after unmarshaling.
func (s *Settings) ensureInitialized() {
	if s.HistorySize == 0 {
		s.HistorySize = DefaultHistorySize
	}
	if s.BootCommands == nil {
		s.BootCommands = []string{}
	}
}

// Validate checks the settings for invalid values.
func (s *Settings) Validate() error {
	if s.HistorySize < 0 {
		return fmt.Errorf("history_size must not be negative, got %d", s.HistorySize)
	}
	for _, cmd := range s.BootCommands {
		if cmd == "" {
			return fmt.Errorf("boot_commands must not contain empty entries")
		}
	}
	return nil
}

// Save writes the settings back to the path they were loaded from.
func (s *Settings) Save() error {
	if s.filePath == "" {
		return fmt.Errorf("settings have no file path")
	}

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(s.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// Provider identifies the runtime provider the session was launched with.
type Provider struct {
	Name    string
	Version string
}

// Launch is the launch-time configuration handle carried by the session
// state. It is read-only from the session core's perspective.
type Launch struct {
	// BaseDir is the project base directory the session operates in.
	BaseDir string

	// Provider is the runtime provider the process was launched with.
	Provider Provider

	// HistorySize is the configured bound for the command history ring.
	HistorySize int

	// BootCommands are the commands queued when the session starts.
	BootCommands []string
}

// NewLaunch builds a Launch from the base directory, provider identity, and
// loaded settings.
func NewLaunch(baseDir string, provider Provider, s *Settings) *Launch {
	historySize := DefaultHistorySize
	var boot []string
	if s != nil {
		if s.HistorySize > 0 {
			historySize = s.HistorySize
		}
		boot = append(boot, s.BootCommands...)
		if s.Provider != "" {
			provider.Name = s.Provider
		}
	}
	return &Launch{
		BaseDir:      baseDir,
		Provider:     provider,
		HistorySize:  historySize,
		BootCommands: boot,
	}
}
