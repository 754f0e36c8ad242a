package physiology

import "math"

// ScaleHeightM is the scale height of the exponential atmosphere model.
const ScaleHeightM = 7000.0

// AmbientPressureAtAltitude approximates ambient pressure in atm at an
// altitude in meters.
func AmbientPressureAtAltitude(altitudeM float64) float64 {
	return math.Exp(-altitudeM / ScaleHeightM)
}
