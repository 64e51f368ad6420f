// Package track maintains per-identifier smoothed lead state: one Track
// per radar-reported identifier, driven by a shared kalman.Params gain.
package track

import (
	"math"

	"github.com/banshee-data/radard/internal/kalman"
)

// leadAccelTau is the default lead-acceleration decay time-constant,
// reset whenever the smoothed acceleration is small.
const leadAccelTau = 1.5

// Track is the smoothed per-identifier state for one radar target.
type Track struct {
	ID       int32
	Cnt      int
	ALeadTau float64

	DRel     float64
	YRel     float64
	VRel     float64
	VLead    float64
	Measured bool

	VLeadK float64
	ALeadK float64

	filter kalman.Filter1D
}

// Create initialises a new Track for identifier id, seeded at vLead with
// zero acceleration. The filter is not stepped on the first Update; it is
// first stepped on the second.
func Create(id int32, vLead float64, params kalman.Params) *Track {
	return &Track{
		ID:       id,
		ALeadTau: leadAccelTau,
		VLead:    vLead,
		VLeadK:   vLead,
		filter:   kalman.NewFilter1D(params, vLead, 0.0),
	}
}

// Update stores this cycle's raw radar fields and, after the first call,
// steps the Kalman filter with the new velocity observation.
func (t *Track) Update(dRel, yRel, vRel, vLead float64, measured bool) {
	t.DRel = dRel
	t.YRel = yRel
	t.VRel = vRel
	t.VLead = vLead
	t.Measured = measured

	if t.Cnt > 0 {
		t.filter = t.filter.Update(vLead)
	}

	t.VLeadK = t.filter.Velocity()
	t.ALeadK = t.filter.Acceleration()

	if t.ALeadK < 0.5 && t.ALeadK > -0.5 {
		t.ALeadTau = leadAccelTau
	} else {
		t.ALeadTau *= 0.9
	}

	t.Cnt++
}

// ResetALead rebuilds the filter state with an externally supplied
// acceleration seed, keeping the current velocity. Part of the Track
// contract; the orchestrator itself never calls this.
func (t *Track) ResetALead(params kalman.Params, aLeadK, aLeadTau float64) {
	t.filter = kalman.NewFilter1D(params, t.VLead, aLeadK)
	t.ALeadK = aLeadK
	t.ALeadTau = aLeadTau
}

// ClusterKey returns (dRel, yRel*2, vRel) for external clustering use;
// lateral distance is weighted 2x because radar is inaccurate in y.
func (t *Track) ClusterKey() [3]float64 {
	return [3]float64{t.DRel, t.YRel * 2, t.VRel}
}

// PotentialLowSpeedLead reports whether this track should be considered
// a stopped-object lead even without model confirmation: close, centered,
// and ego is nearly stationary. The 0.75m floor rejects near-field
// glitches common on some radars.
func (t *Track) PotentialLowSpeedLead(vEgo float64) bool {
	const vEgoStationary = 4.0
	return math.Abs(t.YRel) < 1.0 && vEgo < vEgoStationary && t.DRel > 0.75 && t.DRel < 25
}

// IsPotentialFCW reports whether modelProb is high enough to treat this
// lead as a forward-collision-warning candidate.
func (t *Track) IsPotentialFCW(modelProb float64) bool {
	return modelProb > 0.9
}
