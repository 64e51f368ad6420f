package core

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/banshee-data/radard/internal/bus"
	"github.com/banshee-data/radard/internal/config"
	"github.com/banshee-data/radard/internal/messages"
	"github.com/banshee-data/radard/internal/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCore(t *testing.T, delay int) (*Core, Hubs, *timeutil.MockClock) {
	t.Helper()
	clock := timeutil.NewMockClock(time.Unix(0, 0))
	hubs := Hubs{
		CarState:    bus.NewHub[messages.CarState](),
		ModelV2:     bus.NewHub[messages.ModelV2](),
		LateralPlan: bus.NewHub[messages.LateralPlan](),
		RadarState:  bus.NewHub[messages.RadarState](),
		LiveTracks:  bus.NewHub[[]messages.LiveTrack](),
	}
	c, err := New(50*time.Millisecond, delay, config.NewParamStore(""), hubs, clock)
	require.NoError(t, err)
	return c, hubs, clock
}

func TestTick_SingleTrackNoVision(t *testing.T) {
	c, hubs, _ := newTestCore(t, 0)
	hubs.CarState.Publish(messages.CarState{VEgo: 20})
	hubs.ModelV2.Publish(messages.ModelV2{LeadsV3: []messages.LeadHypothesis{
		{Prob: 0}, {Prob: 0},
	}})

	state := c.Tick(messages.RadarData{Points: []messages.RadarPoint{
		{TrackID: 1, DRel: 40, YRel: 0, VRel: -2},
	}})

	assert.False(t, state.LeadOne.Status)
	assert.False(t, state.LeadOne.Radar)
}

func TestTick_VisionOnlyLead(t *testing.T) {
	c, hubs, _ := newTestCore(t, 0)
	hubs.CarState.Publish(messages.CarState{VEgo: 20})
	lead := messages.LeadHypothesis{X: [2]float64{40, 0}, V: [2]float64{18, 0}, Prob: 0.9}
	hubs.ModelV2.Publish(messages.ModelV2{LeadsV3: []messages.LeadHypothesis{lead, lead}})

	state := c.Tick(messages.RadarData{})

	assert.True(t, state.LeadOne.Status)
	assert.False(t, state.LeadOne.Radar)
	assert.InDelta(t, 0.9, state.LeadOne.ModelProb, 1e-9)
}

func TestTick_AssociationMatch(t *testing.T) {
	c, hubs, _ := newTestCore(t, 0)
	hubs.CarState.Publish(messages.CarState{VEgo: 20})
	lead := messages.LeadHypothesis{
		X: [2]float64{41.52, 0}, Y: [2]float64{0, 0}, V: [2]float64{18, 0},
		XStd: [2]float64{1, 1}, YStd: [2]float64{1, 1}, VStd: [2]float64{1, 1},
		Prob: 0.9,
	}
	hubs.ModelV2.Publish(messages.ModelV2{LeadsV3: []messages.LeadHypothesis{lead, lead}})

	state := c.Tick(messages.RadarData{Points: []messages.RadarPoint{
		{TrackID: 7, DRel: 40, YRel: 0, VRel: -2, Measured: true},
	}})
	assert.True(t, state.LeadOne.Status)
	assert.True(t, state.LeadOne.Radar)
	assert.Equal(t, int32(7), state.LeadOne.RadarTrackID)
}

func TestTick_LowSpeedOverridePrefersClosestStoppedTrack(t *testing.T) {
	c, hubs, _ := newTestCore(t, 0)
	hubs.CarState.Publish(messages.CarState{VEgo: 1}) // near-stationary
	hubs.ModelV2.Publish(messages.ModelV2{LeadsV3: []messages.LeadHypothesis{
		{Prob: 0}, {Prob: 0},
	}})

	state := c.Tick(messages.RadarData{Points: []messages.RadarPoint{
		{TrackID: 1, DRel: 20, YRel: 0, VRel: 0, Measured: true},
		{TrackID: 2, DRel: 10, YRel: 0, VRel: 0, Measured: true},
	}})

	require.True(t, state.LeadOne.Status)
	assert.Equal(t, int32(2), state.LeadOne.RadarTrackID)
	// leadTwo has the override disabled and no vision confirmation: no lead.
	assert.False(t, state.LeadTwo.Status)
}

func TestTick_PathAdjacentLeadsWhenReadyAndShowRadarInfo(t *testing.T) {
	cfgPath := writeTuningFile(t, true, 0)
	clock := timeutil.NewMockClock(time.Unix(0, 0))
	hubs := Hubs{
		CarState:    bus.NewHub[messages.CarState](),
		ModelV2:     bus.NewHub[messages.ModelV2](),
		LateralPlan: bus.NewHub[messages.LateralPlan](),
		RadarState:  bus.NewHub[messages.RadarState](),
		LiveTracks:  bus.NewHub[[]messages.LiveTrack](),
	}
	c, err := New(50*time.Millisecond, 0, config.NewParamStore(cfgPath), hubs, clock)
	require.NoError(t, err)

	hubs.CarState.Publish(messages.CarState{VEgo: 20})
	hubs.LateralPlan.Publish(messages.LateralPlan{LaneWidth: 3.6})
	hubs.ModelV2.Publish(messages.ModelV2{LeadsV3: []messages.LeadHypothesis{
		{Prob: 0}, {Prob: 0},
	}})

	state := c.Tick(messages.RadarData{Points: []messages.RadarPoint{
		{TrackID: 1, DRel: 30, YRel: -0.2, VRel: -1, Measured: true},
	}})
	assert.Len(t, state.LeadsCenter, 1)
}

func TestTick_MixModeOverridesStaleAcceleration(t *testing.T) {
	cfgPath := writeTuningFile(t, false, 1)
	clock := timeutil.NewMockClock(time.Unix(0, 0))
	hubs := Hubs{
		CarState:    bus.NewHub[messages.CarState](),
		ModelV2:     bus.NewHub[messages.ModelV2](),
		LateralPlan: bus.NewHub[messages.LateralPlan](),
		RadarState:  bus.NewHub[messages.RadarState](),
		LiveTracks:  bus.NewHub[[]messages.LiveTrack](),
	}
	c, err := New(50*time.Millisecond, 0, config.NewParamStore(cfgPath), hubs, clock)
	require.NoError(t, err)

	hubs.CarState.Publish(messages.CarState{VEgo: 20})
	lead := messages.LeadHypothesis{
		X: [2]float64{41.52, 0}, Y: [2]float64{0, 0}, V: [2]float64{18, 0}, A: [2]float64{3, 0},
		XStd: [2]float64{1, 1}, YStd: [2]float64{1, 1}, VStd: [2]float64{1, 1},
		Prob: 0.9,
	}
	hubs.ModelV2.Publish(messages.ModelV2{LeadsV3: []messages.LeadHypothesis{lead, lead}})

	state := c.Tick(messages.RadarData{Points: []messages.RadarPoint{
		{TrackID: 7, DRel: 40, YRel: 0, VRel: -2, Measured: true},
	}})
	assert.InDelta(t, 3.0, state.LeadOne.ALeadK, 1e-9)
}

func TestTick_EmptyRadarFrameProducesNoTracks(t *testing.T) {
	c, hubs, _ := newTestCore(t, 0)
	hubs.CarState.Publish(messages.CarState{VEgo: 20})

	state := c.Tick(messages.RadarData{})
	assert.False(t, state.LeadOne.Status)

	tracks, ok := hubs.LiveTracks.Snapshot()
	require.True(t, ok)
	assert.Empty(t, tracks)
}

func TestTick_EgoVelocityHistoryLengthOneUsesCurrentVEgo(t *testing.T) {
	c, hubs, _ := newTestCore(t, 0) // delay=0 -> history length 1
	hubs.CarState.Publish(messages.CarState{VEgo: 15})

	c.Tick(messages.RadarData{Points: []messages.RadarPoint{
		{TrackID: 1, DRel: 40, YRel: 0, VRel: -5, Measured: true},
	}})

	snap := c.tracks.Snapshot()
	require.Len(t, snap, 1)
	assert.InDelta(t, 10.0, snap[0].VLead, 1e-9) // vRel + vEgo = -5 + 15
}

func TestTick_ValidRequiresCarStateModelAndNoErrors(t *testing.T) {
	c, hubs, _ := newTestCore(t, 0)
	state := c.Tick(messages.RadarData{})
	assert.False(t, state.Valid)

	hubs.CarState.Publish(messages.CarState{VEgo: 10})
	hubs.ModelV2.Publish(messages.ModelV2{})
	state = c.Tick(messages.RadarData{Errors: []string{"crc"}})
	assert.False(t, state.Valid)

	state = c.Tick(messages.RadarData{})
	assert.True(t, state.Valid)
}

func writeTuningFile(t *testing.T, showRadarInfo bool, mixRadarInfo int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuning.json")
	content := fmt.Sprintf(`{"show_radar_info":%t,"mix_radar_info":%d}`, showRadarInfo, mixRadarInfo)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
