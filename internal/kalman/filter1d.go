package kalman

// Filter1D is a value-typed two-state Kalman filter: state
// [velocity, acceleration], driven by a scalar velocity observation and a
// fixed, precomputed gain. It deliberately avoids a general matrix
// library — the state shape never changes, so the update step is eight
// scalar multiplications.
type Filter1D struct {
	params Params
	x      [2]float64 // [velocity, acceleration]
}

// NewFilter1D seeds the filter at the given initial state.
func NewFilter1D(params Params, velocity, acceleration float64) Filter1D {
	return Filter1D{
		params: params,
		x:      [2]float64{velocity, acceleration},
	}
}

// Velocity returns the current smoothed velocity estimate.
func (f Filter1D) Velocity() float64 { return f.x[0] }

// Acceleration returns the current smoothed acceleration estimate.
func (f Filter1D) Acceleration() float64 { return f.x[1] }

// Update steps the filter forward with a new scalar velocity
// observation, returning the updated filter.
func (f Filter1D) Update(observation float64) Filter1D {
	a, c, k := f.params.A, f.params.C, f.params.K

	// predict: x = A*x
	predVel := a[0][0]*f.x[0] + a[0][1]*f.x[1]
	predAccel := a[1][0]*f.x[0] + a[1][1]*f.x[1]

	// innovation: y = z - C*x_pred
	innovation := observation - (c[0]*predVel + c[1]*predAccel)

	f.x[0] = predVel + k[0]*innovation
	f.x[1] = predAccel + k[1]*innovation
	return f
}
