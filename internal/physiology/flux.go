package physiology

import (
	"errors"
	"math"
)

const (
	MgPerMlO2    = 1.429  // mg O2 per mL of gas at STP
	DefaultTempC = 20.0   // °C
	O2MolarMass  = 31.998 // g/mol
	henryH0      = 1500.0 // atm·L/mol at henryT0
	henryC       = 1700.0 // temperature coefficient (K)
	henryT0      = 298.0  // K
	zeroCelsiusK = 273.15
)

var ErrNoCapture = errors.New("dissolved O2 and efficiency must be > 0")

// DissolvedO2MgPerL is the dissolved O2 concentration in mg/L at 1 atm
// partial pressure for a water temperature in °C, via Henry's law.
func DissolvedO2MgPerL(tempC float64) float64 {
	tempK := tempC + zeroCelsiusK
	henry := henryH0 * math.Exp(henryC*(1/tempK-1/henryT0))
	return (1.0 / henry) * O2MolarMass * 1000.0
}

// RequiredWaterFlow is the water flow in L/min needed to supply vo2 L/min
// of O2 given the dissolved concentration and membrane capture efficiency.
func RequiredWaterFlow(vo2LPerMin, o2MgPerL, captureEfficiency float64) (float64, error) {
	o2MgPerMin := vo2LPerMin * 1000.0 * MgPerMlO2
	captured := o2MgPerL * captureEfficiency
	if captured <= 0 {
		return 0, ErrNoCapture
	}
	return o2MgPerMin / captured, nil
}
