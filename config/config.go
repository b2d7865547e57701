// Package config holds TOML-backed settings for the X366 toolchain binaries.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the toolchain configuration read by x366run (x366asm
// takes no configuration). Unset fields fall back to DefaultConfig's values.
type Config struct {
	// Execution settings
	Execution struct {
		DefaultMemorySize int    `toml:"default_memory_size"` // bytes, one of 1024/2048/4096/8192/16384
		StepBudget        int    `toml:"step_budget"`         // instructions executed per run() yield
		Strict            bool   `toml:"strict"`              // promote stack underflow to ExecutionError
		EnableTrace       bool   `toml:"enable_trace"`
		EnableUndo        bool   `toml:"enable_undo"` // maintain the step-back journal
		UndoDepth         int    `toml:"undo_depth"`  // max steps kept by the undo journal, <= 100
		EntryPointHex     string `toml:"entry_point"` // informational; the loader always honors the binary
	} `toml:"execution"`

	// Debugger settings (loaded and saved with the file; the debugger
	// package does not read them)
	Debugger struct {
		HistorySize   int  `toml:"history_size"`
		ShowFlags     bool `toml:"show_flags"`
		ShowRegisters bool `toml:"show_registers"`
	} `toml:"debugger"`

	// Display settings (register/memory dump formatting)
	Display struct {
		ColorOutput  bool   `toml:"color_output"`
		BytesPerLine int    `toml:"bytes_per_line"`
		NumberFormat string `toml:"number_format"` // hex, dec, both
	} `toml:"display"`

	// Trace settings
	Trace struct {
		OutputFile   string `toml:"output_file"`
		FilterRegs   string `toml:"filter_registers"` // comma-separated: "AX,BX,PC"
		IncludeFlags bool   `toml:"include_flags"`
		MaxEntries   int    `toml:"max_entries"`
	} `toml:"trace"`

	// Host server settings (hostsrv package)
	Server struct {
		Addr string `toml:"addr"`
	} `toml:"server"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.DefaultMemorySize = 1024
	cfg.Execution.StepBudget = 10000
	cfg.Execution.Strict = false
	cfg.Execution.EnableTrace = false
	cfg.Execution.EnableUndo = true
	cfg.Execution.UndoDepth = 100
	cfg.Execution.EntryPointHex = "0x0020"

	cfg.Debugger.HistorySize = 1000
	cfg.Debugger.ShowFlags = true
	cfg.Debugger.ShowRegisters = true

	cfg.Display.ColorOutput = true
	cfg.Display.BytesPerLine = 16
	cfg.Display.NumberFormat = "hex"

	cfg.Trace.OutputFile = "trace.log"
	cfg.Trace.FilterRegs = ""
	cfg.Trace.IncludeFlags = true
	cfg.Trace.MaxEntries = 100000

	cfg.Server.Addr = ":8766"

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "x366")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "x366.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "x366")

	default:
		return "x366.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "x366.toml"
	}

	return filepath.Join(configDir, "x366.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file. A missing file is
// not an error: it yields DefaultConfig.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
