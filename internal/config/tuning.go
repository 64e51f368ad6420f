// Package config provides radard's file-backed parameter store: the
// per-cycle tuning flags (ShowRadarInfo, MixRadarInfo) and the one-shot,
// blocking CarParams read at startup. Adapted from the teacher's lidar
// TuningConfig loader — same optional-field/Get*-default/file-validation
// pattern, repurposed to the radar-fusion parameter set.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path radard looks for tuning flags at when
// no -config flag is given.
const DefaultConfigPath = "config/tuning.json"

// TuningConfig holds the parameters radard re-reads every cycle.
// Fields omitted from the JSON file keep their documented defaults, so
// partial configs are safe.
type TuningConfig struct {
	ShowRadarInfo *bool `json:"show_radar_info,omitempty"`
	MixRadarInfo  *int  `json:"mix_radar_info,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields unset.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file, validating
// that it has a .json extension and is under the max file size.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return cfg, nil
}

// GetShowRadarInfo returns show_radar_info or its default (false).
func (c *TuningConfig) GetShowRadarInfo() bool {
	if c == nil || c.ShowRadarInfo == nil {
		return false
	}
	return *c.ShowRadarInfo
}

// GetMixRadarInfo returns mix_radar_info or its default (0, mixing off).
func (c *TuningConfig) GetMixRadarInfo() int {
	if c == nil || c.MixRadarInfo == nil {
		return 0
	}
	return *c.MixRadarInfo
}

// ParamStore is radard's view of the external parameter daemon
// (spec.md §9's "global parameter store" collaborator): an abstract
// capability to re-read the per-cycle tuning flags. Backed here by a
// JSON file on disk, reloaded on every call.
type ParamStore struct {
	path string
}

// NewParamStore returns a ParamStore reading tuning flags from path.
// An empty path disables reloading; Get returns documented defaults.
func NewParamStore(path string) *ParamStore {
	return &ParamStore{path: path}
}

// Get reloads the tuning file (if a path was configured) and returns the
// current flags. Read errors are treated as "flags unset" rather than
// fatal — this is non-critical, per-cycle configuration, unlike CarParams.
func (s *ParamStore) Get() *TuningConfig {
	if s == nil || s.path == "" {
		return EmptyTuningConfig()
	}
	cfg, err := LoadTuningConfig(s.path)
	if err != nil {
		return EmptyTuningConfig()
	}
	return cfg
}
