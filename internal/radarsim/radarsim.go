// Package radarsim provides development transports standing in for the
// vendor-specific radar interface that decodes raw bus frames into
// point structures — that decoder is an out-of-scope external
// collaborator per spec.md §1; only the data contract it produces
// (messages.RadarData) matters to the fusion core.
package radarsim

import "github.com/banshee-data/radard/internal/messages"

// Transport delivers successive radar frames to the cycle orchestrator.
// Frames returns a channel of decoded frames; it is closed when the
// transport is done (EOF on a fixture, or the port closing).
type Transport interface {
	Frames() <-chan messages.RadarData
	Close() error
}
