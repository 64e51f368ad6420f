// Package kalman implements the lead-tracking Kalman filter: a fixed
// gain table interpolated over the radar cycle period, and the small
// value-typed two-state filter driven by that gain.
package kalman

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// dts holds the 20 sample points (seconds) the gain tables are defined
// over, 0.01s apart.
var dts = func() []float64 {
	d := make([]float64, 20)
	for i := range d {
		d[i] = float64(i+1) * 0.01
	}
	return d
}()

// k0Table and k1Table are the hardcoded gain tables for the two Kalman
// states (velocity, acceleration), computed offline for radar cycle
// periods between 0.01s and 0.20s.
var k0Table = []float64{
	0.12287673, 0.14556536, 0.16522756, 0.18281627, 0.19886890, 0.21372394,
	0.22761098, 0.24069424, 0.25309600, 0.26491023, 0.27621103, 0.28705801,
	0.29750003, 0.30757767, 0.31732515, 0.32677158, 0.33594201, 0.34485814,
	0.35353899, 0.36200124,
}

var k1Table = []float64{
	0.29666309, 0.29330885, 0.29042818, 0.28787125, 0.28555364, 0.28342219,
	0.28144091, 0.27958406, 0.27783249, 0.27617149, 0.27458948, 0.27307714,
	0.27162685, 0.27023228, 0.26888809, 0.26758976, 0.26633338, 0.26511557,
	0.26393339, 0.26278425,
}

// Params is the immutable Kalman filter configuration for one radar
// cycle period: the state-transition matrix A, the observation vector C,
// and the precomputed gain K.
type Params struct {
	A [2][2]float64
	C [2]float64
	K [2]float64
}

// NewParams builds Params for cycle period dt, which must lie strictly
// between 0.01s and 0.20s. The gain is found by interpolating the two
// hardcoded tables at dt.
func NewParams(dt float64) (Params, error) {
	if !(dt > 0.01 && dt < 0.2) {
		return Params{}, fmt.Errorf("kalman: radar time step must be between 0.01s and 0.2s, got %v", dt)
	}

	var pl0, pl1 interp.PiecewiseLinear
	if err := pl0.Fit(dts, k0Table); err != nil {
		return Params{}, fmt.Errorf("kalman: fit K0 table: %w", err)
	}
	if err := pl1.Fit(dts, k1Table); err != nil {
		return Params{}, fmt.Errorf("kalman: fit K1 table: %w", err)
	}

	return Params{
		A: [2][2]float64{{1.0, dt}, {0.0, 1.0}},
		C: [2]float64{1.0, 0.0},
		K: [2]float64{pl0.Predict(dt), pl1.Predict(dt)},
	}, nil
}
