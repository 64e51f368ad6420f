// Package core drives the radar-fusion cycle orchestrator: one tick
// ingests a radar frame and the latest upstream subscriptions, evicts
// and upserts the track map, selects leads, optionally classifies
// path-adjacent leads, and publishes radarState and liveTracks.
package core

import (
	"context"
	"sort"
	"time"

	"github.com/banshee-data/radard/internal/bus"
	"github.com/banshee-data/radard/internal/config"
	"github.com/banshee-data/radard/internal/kalman"
	"github.com/banshee-data/radard/internal/leadselect"
	"github.com/banshee-data/radard/internal/messages"
	"github.com/banshee-data/radard/internal/pathclass"
	"github.com/banshee-data/radard/internal/radarsim"
	"github.com/banshee-data/radard/internal/timeutil"
	"github.com/banshee-data/radard/internal/track"
)

// Hubs bundles the message-bus endpoints Core reads from and publishes
// to. Consumed hubs are polled non-blockingly each cycle; published hubs
// are fanned out to any debug/UI subscribers.
type Hubs struct {
	CarState    *bus.Hub[messages.CarState]
	ModelV2     *bus.Hub[messages.ModelV2]
	LateralPlan *bus.Hub[messages.LateralPlan]
	RadarState  *bus.Hub[messages.RadarState]
	LiveTracks  *bus.Hub[[]messages.LiveTrack]
}

// Core is the single-threaded cooperative cycle orchestrator. There is
// exactly one updater of the track map, so no locking is required
// inside Core itself.
type Core struct {
	tracks     *track.Map
	params     kalman.Params
	paramStore *config.ParamStore
	hubs       Hubs
	clock      timeutil.Clock
	rk         *rateKeeper

	vEgo     float64
	vEgoHist []float64 // bounded ring, oldest first, length delay+1

	ready          bool
	carStateGen    uint64
	modelV2Gen     uint64
	carStateMonoNs int64
	mdMonoNs       int64
}

// New builds a Core for a radar cycle period dt (validated via
// kalman.NewParams) with an ego-velocity alignment delay of `delay`
// samples.
func New(dt time.Duration, delay int, paramStore *config.ParamStore, hubs Hubs, clock timeutil.Clock) (*Core, error) {
	params, err := kalman.NewParams(dt.Seconds())
	if err != nil {
		return nil, err
	}
	if delay < 0 {
		delay = 0
	}

	return &Core{
		tracks:     track.NewMap(),
		params:     params,
		paramStore: paramStore,
		hubs:       hubs,
		clock:      clock,
		rk:         newRateKeeper(clock, dt),
		vEgoHist:   make([]float64, delay+1),
	}, nil
}

// Tick runs exactly one cycle: refresh configuration, ingest the radar
// frame and latest subscriptions, evict, upsert, select leads, publish.
func (c *Core) Tick(frame messages.RadarData) messages.RadarState {
	cfg := c.paramStore.Get()

	carState, hasCarState, csGen := c.hubs.CarState.SnapshotGen()
	if csGen != c.carStateGen {
		c.carStateGen = csGen
		c.vEgo = carState.VEgo
		c.pushVEgoHist(carState.VEgo)
		c.carStateMonoNs = c.clock.Now().UnixNano()
	}

	model, hasModel, mvGen := c.hubs.ModelV2.SnapshotGen()
	if mvGen != c.modelV2Gen {
		c.modelV2Gen = mvGen
		c.ready = true
		c.mdMonoNs = c.clock.Now().UnixNano()
	}

	lateralPlan, _ := c.hubs.LateralPlan.Snapshot()

	present := make(map[int32]struct{}, len(frame.Points))
	for _, pt := range frame.Points {
		present[pt.TrackID] = struct{}{}
	}
	c.tracks.Evict(present)

	vEgoAligned := c.vEgoHist[0]
	for _, pt := range frame.Points {
		vLead := pt.VRel + vEgoAligned
		c.tracks.Upsert(pt.TrackID, pt.DRel, pt.YRel, pt.VRel, vLead, pt.Measured, c.params)
	}

	state := messages.RadarState{
		Valid:            hasCarState && hasModel && len(frame.Errors) == 0,
		MdMonoTimeNs:     c.mdMonoNs,
		CarStateMonoTime: c.carStateMonoNs,
		RadarErrors:      frame.Errors,
	}

	modelVEgo := c.vEgo
	if len(model.TemporalPose.Trans) > 0 {
		modelVEgo = model.TemporalPose.Trans[0]
	}

	if len(model.LeadsV3) > 1 {
		one := leadselect.SelectLead(c.vEgo, c.ready, c.tracks, model.LeadsV3[0], modelVEgo, true, cfg.GetMixRadarInfo())
		two := leadselect.SelectLead(c.vEgo, c.ready, c.tracks, model.LeadsV3[1], modelVEgo, false, cfg.GetMixRadarInfo())
		state.LeadOne = one.Lead
		state.LeadTwo = two.Lead

		if c.ready && cfg.GetShowRadarInfo() {
			adj := pathclass.Classify(c.vEgo, &model, lateralPlan.LaneWidth, c.tracks.Snapshot(), cfg.GetMixRadarInfo())
			state.LeadsLeft = adj.Left
			state.LeadsCenter = adj.Center
			state.LeadsRight = adj.Right
		}
	}

	state.CumLagMs = -c.rk.remaining().Seconds() * 1000

	c.hubs.RadarState.Publish(state)
	c.hubs.LiveTracks.Publish(liveTracksFrom(c.tracks))

	c.rk.monitorTime()
	return state
}

func (c *Core) pushVEgoHist(v float64) {
	copy(c.vEgoHist, c.vEgoHist[1:])
	c.vEgoHist[len(c.vEgoHist)-1] = v
}

func liveTracksFrom(tracks *track.Map) []messages.LiveTrack {
	snap := tracks.Snapshot()
	out := make([]messages.LiveTrack, len(snap))
	for i, t := range snap {
		out[i] = messages.LiveTrack{TrackID: t.ID, DRel: t.DRel, YRel: t.YRel, VRel: t.VRel}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TrackID < out[j].TrackID })
	return out
}

// Run drives the cooperative loop: block on the radar transport until a
// frame arrives, run one Tick, repeat until ctx is cancelled or the
// transport closes. On shutdown any in-flight radar state is discarded.
func (c *Core) Run(ctx context.Context, transport radarsim.Transport) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame, ok := <-transport.Frames():
			if !ok {
				return nil
			}
			c.Tick(frame)
		}
	}
}
