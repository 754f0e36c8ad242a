package physiology

import (
	"errors"
	"fmt"
	"io"
	"math"
)

// GillReport is the underwater O2 extraction estimate.
type GillReport struct {
	TempC        float64
	DissolvedO2  float64 // mg/L
	VO2          float64 // L/min
	Efficiency   float64 // 0..1
	RequiredFlow float64 // L/min of water
}

func GillMode(tempC, vo2, efficiency float64) (GillReport, error) {
	o2 := DissolvedO2MgPerL(tempC)
	flow, err := RequiredWaterFlow(vo2, o2, efficiency)
	if err != nil {
		return GillReport{}, err
	}
	return GillReport{
		TempC:        tempC,
		DissolvedO2:  o2,
		VO2:          vo2,
		Efficiency:   efficiency,
		RequiredFlow: flow,
	}, nil
}

func (r GillReport) Write(w io.Writer) error {
	_, err := fmt.Fprintf(w, "--- Underwater Gill Mode ---\n"+
		"Water temp       : %.1f °C\n"+
		"Dissolved O₂     : %.1f mg/L\n"+
		"VO₂ demand       : %.2f L/min\n"+
		"Efficiency       : %.0f %%\n"+
		"Required water   : %.1f L/min\n",
		r.TempC, r.DissolvedO2, r.VO2, r.Efficiency*100, r.RequiredFlow)
	return err
}

// AirReport is the compressor boost and O2 estimate at altitude.
type AirReport struct {
	AltitudeM      float64
	AmbientP       float64 // atm
	PressureBoost  float64 // atm needed to reach sea level
	PureO2Required float64 // L/min
}

var ErrConcentratorEfficiency = errors.New("concentrator efficiency must be > 0")

func AirMode(altitudeM, vo2, concentratorEfficiency float64) (AirReport, error) {
	if concentratorEfficiency <= 0 {
		return AirReport{}, ErrConcentratorEfficiency
	}
	p := AmbientPressureAtAltitude(altitudeM)
	return AirReport{
		AltitudeM:      altitudeM,
		AmbientP:       p,
		PressureBoost:  math.Max(0, 1.0-p),
		PureO2Required: vo2 / concentratorEfficiency,
	}, nil
}

func (r AirReport) Write(w io.Writer) error {
	_, err := fmt.Fprintf(w, "--- Air / Altitude Mode ---\n"+
		"Altitude         : %.0f m\n"+
		"Ambient P        : %.2f atm\n"+
		"Pressure boost   : %.2f atm\n"+
		"Pure O₂ required : %.2f L/min\n",
		r.AltitudeM, r.AmbientP, r.PressureBoost, r.PureO2Required)
	return err
}
