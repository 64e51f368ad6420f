package leadselect

import (
	"testing"

	"github.com/banshee-data/radard/internal/kalman"
	"github.com/banshee-data/radard/internal/messages"
	"github.com/banshee-data/radard/internal/track"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParams(t *testing.T) kalman.Params {
	t.Helper()
	p, err := kalman.NewParams(0.05)
	require.NoError(t, err)
	return p
}

func TestSelectLead_NoVisionNoTracks(t *testing.T) {
	tracks := track.NewMap()
	res := SelectLead(20, true, tracks, messages.LeadHypothesis{Prob: 0}, 20, true, 0)
	assert.Equal(t, OutcomeNone, res.Outcome)
	assert.False(t, res.Lead.Status)
}

func TestSelectLead_VisionOnly(t *testing.T) {
	tracks := track.NewMap()
	lead := messages.LeadHypothesis{X: [2]float64{50, 0}, V: [2]float64{15, 0}, Prob: 0.9}
	res := SelectLead(10, true, tracks, lead, 10, true, 0)
	assert.Equal(t, OutcomeVisionOnly, res.Outcome)
	assert.True(t, res.Lead.Status)
	assert.False(t, res.Lead.Radar)
}

func TestSelectLead_LowSpeedOverridePicksClosest(t *testing.T) {
	p := mustParams(t)
	tracks := track.NewMap()
	tracks.Upsert(1, 5, 0.2, 0, 0, true, p)  // track A
	tracks.Upsert(2, 10, 0.0, 0, 0, true, p) // track B

	res := SelectLead(2, true, tracks, messages.LeadHypothesis{Prob: 0}, 2, true, 0)
	assert.Equal(t, OutcomeFused, res.Outcome)
	assert.Equal(t, int32(1), res.Lead.RadarTrackID, "closest low-speed track (A) must win")
}

func TestSelectLead_LowSpeedOverrideOffDoesNotOverride(t *testing.T) {
	p := mustParams(t)
	tracks := track.NewMap()
	tracks.Upsert(1, 5, 0.2, 0, 0, true, p)

	res := SelectLead(2, true, tracks, messages.LeadHypothesis{Prob: 0}, 2, false, 0)
	assert.Equal(t, OutcomeNone, res.Outcome)
	assert.False(t, res.Lead.Status)
}
