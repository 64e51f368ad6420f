// Package leadselect combines vision association, vision-only fallback,
// and the low-speed override into a single lead-selection outcome.
package leadselect

import (
	"github.com/banshee-data/radard/internal/association"
	"github.com/banshee-data/radard/internal/messages"
	"github.com/banshee-data/radard/internal/track"
)

// Outcome tags how a lead was produced, per the tagged-variant design
// note: none, vision-only, or fused with a specific track.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeVisionOnly
	OutcomeFused
)

// Result pairs the outcome tag with the lowered Lead record the
// orchestrator publishes.
type Result struct {
	Outcome Outcome
	Lead    messages.Lead
}

// SelectLead implements the lead-selection algorithm: vision-to-track
// association first, vision-only fallback second, then an optional
// low-speed override that prefers a closer stopped/slow radar track.
func SelectLead(
	vEgo float64,
	ready bool,
	tracks *track.Map,
	lead messages.LeadHypothesis,
	modelVEgo float64,
	lowSpeedOverride bool,
	mixRadarInfo int,
) Result {
	snapshot := tracks.Snapshot()

	var matched *track.Track
	if len(snapshot) > 0 && ready && lead.Prob > 0.5 {
		matched = association.MatchVisionToTrack(vEgo, lead, snapshot)
	}

	result := Result{Outcome: OutcomeNone, Lead: messages.Lead{Status: false}}
	switch {
	case matched != nil:
		result = Result{Outcome: OutcomeFused, Lead: association.ProjectedLead(matched, lead, mixRadarInfo)}
	case ready && lead.Prob > 0.5:
		result = Result{Outcome: OutcomeVisionOnly, Lead: association.VisionOnlyLead(lead, vEgo, modelVEgo)}
	}

	if lowSpeedOverride {
		var closest *track.Track
		for _, t := range snapshot {
			if !t.PotentialLowSpeedLead(vEgo) {
				continue
			}
			if closest == nil || t.DRel < closest.DRel {
				closest = t
			}
		}
		if closest != nil && (!result.Lead.Status || closest.DRel < result.Lead.DRel) {
			result = Result{Outcome: OutcomeFused, Lead: association.ProjectedLead(closest, lead, mixRadarInfo)}
		}
	}

	return result
}
