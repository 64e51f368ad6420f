package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// CarParams is the one-shot configuration radard reads, blocking, at
// startup: which car the radar interface is tuned for and the radar
// cycle's period. Modeled on the source's "Params().get('CarParams',
// block=True)" contract (original_source/radard.py).
type CarParams struct {
	CarName       string  `json:"car_name"`
	RadarTimeStep float64 `json:"radar_time_step"`
}

// LoadCarParams reads and validates CarParams from a JSON file. Any
// failure here is configuration-fatal: radard cannot select a radar
// interface or a cycle period without it.
func LoadCarParams(path string) (CarParams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CarParams{}, fmt.Errorf("carParams: %w", err)
	}

	var cp CarParams
	if err := json.Unmarshal(data, &cp); err != nil {
		return CarParams{}, fmt.Errorf("carParams: invalid JSON: %w", err)
	}
	if cp.CarName == "" {
		return CarParams{}, fmt.Errorf("carParams: car_name is required")
	}
	if !(cp.RadarTimeStep > 0.01 && cp.RadarTimeStep < 0.2) {
		return CarParams{}, fmt.Errorf("carParams: radar_time_step must be between 0.01s and 0.2s, got %v", cp.RadarTimeStep)
	}
	return cp, nil
}
