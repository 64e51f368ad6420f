// Package pathclass projects tracks onto the predicted driving path and
// classifies them into left/center/right corridors relative to it.
package pathclass

import (
	"math"
	"sort"

	"github.com/banshee-data/radard/internal/association"
	"github.com/banshee-data/radard/internal/messages"
	"github.com/banshee-data/radard/internal/track"
	"gonum.org/v1/gonum/interp"
)

// MinLaneProb is the minimum per-lane-line probability required before a
// lane line contributes to the centerline estimate.
const MinLaneProb = 0.6

// LeadPathDRelMin is the minimum model-path horizon, in metres, required
// before the model path is trusted for far-away leads.
const LeadPathDRelMin = 60

// Result holds the three corridor lists, already sorted.
type Result struct {
	Left, Center, Right []messages.AdjacentLead
}

// Classify partitions tracks into left/center/right corridors relative
// to the predicted path, built either from the model's direct path
// prediction or from a lane-line-derived centerline.
func Classify(vEgo float64, md *messages.ModelV2, laneWidth float64, tracks []*track.Track, mixRadarInfo int) Result {
	if len(tracks) == 0 {
		return Result{}
	}

	cY, llX := laneCenterline(md, laneWidth)
	mdX, mdY := modelPath(md)

	type keyed struct {
		dPath float64
		lead  messages.AdjacentLead
	}
	var left, right, center []keyed

	halfLaneWidth := laneWidth / 2
	var leadHyp messages.LeadHypothesis
	if md != nil && len(md.LeadsV3) > 0 {
		leadHyp = md.LeadsV3[0]
	}

	for _, c := range tracks {
		var dPath float64
		switch {
		case mdY != nil && c.DRel <= mdX[len(mdX)-1]:
			dPath = -c.YRel - interpAt(c.DRel, mdX, mdY)
		case cY != nil && llX != nil:
			dPath = -c.YRel - interpAt(c.DRel, llX, cY)
		default:
			dPath = -c.YRel
		}

		base := association.ProjectedLead(c, leadHyp, mixRadarInfo)
		ld := messages.AdjacentLead{
			Lead:  base,
			DPath: dPath,
			VLat:  math.Sqrt(math.Pow(10*dPath, 2) + c.DRel*c.DRel),
		}

		switch {
		case math.Abs(dPath) < halfLaneWidth && ld.VLeadK > -1.0:
			center = append(center, keyed{dPath, ld})
		case dPath < 0:
			left = append(left, keyed{dPath, ld})
		default:
			right = append(right, keyed{dPath, ld})
		}
	}

	sort.Slice(left, func(i, j int) bool { return math.Abs(left[i].dPath) < math.Abs(left[j].dPath) })
	sort.Slice(right, func(i, j int) bool { return math.Abs(right[i].dPath) < math.Abs(right[j].dPath) })
	sort.Slice(center, func(i, j int) bool { return center[i].lead.DRel < center[j].lead.DRel })

	toLeads := func(ks []keyed) []messages.AdjacentLead {
		out := make([]messages.AdjacentLead, len(ks))
		for i, k := range ks {
			out[i] = k.lead
		}
		return out
	}

	return Result{Left: toLeads(left), Center: toLeads(center), Right: toLeads(right)}
}

// laneCenterline builds a centerline estimate from the left/right lane
// lines, honoring MinLaneProb, and returns (nil, nil) when neither lane
// line is confident enough to use.
func laneCenterline(md *messages.ModelV2, laneWidth float64) (cY, llX []float64) {
	if md == nil || laneWidth <= 0 {
		return nil, nil
	}
	if len(md.LaneLines[1].X) != messages.TrajectorySize {
		return nil, nil
	}

	llX = md.LaneLines[1].X // left and right lane-line x is shared
	lllY := md.LaneLines[1].Y
	rllY := md.LaneLines[2].Y
	lProb := md.LaneLineProbs[1]
	rProb := md.LaneLineProbs[2]

	switch {
	case lProb > MinLaneProb && rProb > MinLaneProb:
		cY = averageY(lllY, rllY)
	case lProb > MinLaneProb:
		cY = offsetY(lllY, laneWidth/2)
	case rProb > MinLaneProb:
		cY = offsetY(rllY, -laneWidth/2)
	default:
		return nil, nil
	}
	return cY, llX
}

// modelPath returns the model's direct path prediction when it is
// present, fully populated, and extends beyond LeadPathDRelMin — per the
// documented reading of the source's malformed guard (see DESIGN.md).
func modelPath(md *messages.ModelV2) (mdX, mdY []float64) {
	if md == nil {
		return nil, nil
	}
	if len(md.Position.X) != messages.TrajectorySize {
		return nil, nil
	}
	if md.Position.X[len(md.Position.X)-1] <= LeadPathDRelMin {
		return nil, nil
	}
	return md.Position.X, md.Position.Y
}

func averageY(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = (a[i] + b[i]) / 2
	}
	return out
}

func offsetY(a []float64, offset float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + offset
	}
	return out
}

// interpAt linearly interpolates y at x using the same piecewise-linear
// primitive used for the Kalman gain table, keeping one interpolation
// idiom across the repo.
func interpAt(x float64, xs, ys []float64) float64 {
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return 0
	}
	clamped := x
	if clamped < xs[0] {
		clamped = xs[0]
	}
	if clamped > xs[len(xs)-1] {
		clamped = xs[len(xs)-1]
	}
	return pl.Predict(clamped)
}
