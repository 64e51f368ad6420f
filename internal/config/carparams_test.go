package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCarParams(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "carparams.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"car_name":"toyota","radar_time_step":0.05}`), 0644))

	cp, err := LoadCarParams(path)
	require.NoError(t, err)
	assert.Equal(t, "toyota", cp.CarName)
	assert.Equal(t, 0.05, cp.RadarTimeStep)
}

func TestLoadCarParams_RejectsMissingCarName(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "carparams.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"radar_time_step":0.05}`), 0644))

	_, err := LoadCarParams(path)
	assert.Error(t, err)
}

func TestLoadCarParams_RejectsBadTimeStep(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "carparams.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"car_name":"toyota","radar_time_step":1.0}`), 0644))

	_, err := LoadCarParams(path)
	assert.Error(t, err)
}

func TestLoadCarParams_MissingFile(t *testing.T) {
	_, err := LoadCarParams("/nonexistent/carparams.json")
	assert.Error(t, err)
}
