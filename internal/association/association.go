// Package association matches vision-predicted lead hypotheses to radar
// tracks, and builds the flat Lead records the orchestrator publishes.
package association

import (
	"math"

	"github.com/banshee-data/radard/internal/messages"
	"github.com/banshee-data/radard/internal/track"
)

// RadarToCamera is the longitudinal offset (metres) between the radar
// and the camera mesh frame's origin.
const RadarToCamera = 1.52

func laplacianPDF(x, mu, b float64) float64 {
	b = math.Max(b, 1e-4)
	return math.Exp(-math.Abs(x-mu) / b)
}

// MatchVisionToTrack scores every track against the vision hypothesis
// lead using a Laplacian-PDF heuristic, picks the best-scoring track, and
// sanity-gates the result. Returns nil when the best-scoring track fails
// the gates (other tracks are not tried) — stationary radar returns are a
// common source of false positives.
func MatchVisionToTrack(vEgo float64, lead messages.LeadHypothesis, tracks []*track.Track) *track.Track {
	if len(tracks) == 0 {
		return nil
	}

	offsetVisionDist := lead.X[0] - RadarToCamera

	score := func(c *track.Track) float64 {
		probD := laplacianPDF(c.DRel, offsetVisionDist, lead.XStd[0])
		probY := laplacianPDF(c.YRel, -lead.Y[0], lead.YStd[0])
		probV := laplacianPDF(c.VRel+vEgo, lead.V[0], lead.VStd[0])
		return probD * probY * probV
	}

	best := tracks[0]
	bestScore := score(best)
	for _, c := range tracks[1:] {
		if s := score(c); s > bestScore {
			best, bestScore = c, s
		}
	}

	distSane := math.Abs(best.DRel-offsetVisionDist) < math.Max(offsetVisionDist*0.35, 5.0)
	velSane := math.Abs(best.VRel+vEgo-lead.V[0]) < 10 || vEgo+best.VRel > 3
	if distSane && velSane {
		return best
	}
	return nil
}

// ProjectedLead builds a Lead record from a matched track and the vision
// hypothesis that matched it, under the given mix mode.
func ProjectedLead(t *track.Track, lead messages.LeadHypothesis, mixRadarInfo int) messages.Lead {
	yRel := t.YRel
	if mixRadarInfo > 0 && t.YRel == 0 {
		yRel = -lead.Y[0]
	}

	aLeadK := t.ALeadK
	if mixRadarInfo > 0 && lead.Prob > 0.5 && math.Abs(t.ALeadK) < math.Abs(lead.A[0]) {
		aLeadK = lead.A[0]
	}

	return messages.Lead{
		Status:       true,
		DRel:         t.DRel,
		YRel:         yRel,
		VRel:         t.VRel,
		VLead:        t.VLead,
		VLeadK:       t.VLeadK,
		ALeadK:       aLeadK,
		ALeadTau:     t.ALeadTau,
		FCW:          t.IsPotentialFCW(lead.Prob),
		ModelProb:    lead.Prob,
		Radar:        true,
		RadarTrackID: t.ID,
	}
}

// VisionOnlyLead builds a Lead record from a vision hypothesis with no
// radar match, using ego and model-predicted ego velocity to estimate
// relative motion.
func VisionOnlyLead(lead messages.LeadHypothesis, vEgo, modelVEgo float64) messages.Lead {
	vRel := lead.V[0] - modelVEgo
	vLead := vEgo + vRel
	return messages.Lead{
		Status:       true,
		DRel:         lead.X[0] - RadarToCamera,
		YRel:         -lead.Y[0],
		VRel:         vRel,
		VLead:        vLead,
		VLeadK:       vLead,
		ALeadK:       0,
		ALeadTau:     0.3,
		FCW:          false,
		ModelProb:    lead.Prob,
		Radar:        false,
		RadarTrackID: -1,
	}
}
