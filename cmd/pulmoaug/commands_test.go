package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestHelpNamesBothModes(t *testing.T) {
	out, err := run(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Underwater")
	assert.Contains(t, out, "Air / altitude")
}

func TestGillCommand(t *testing.T) {
	out, err := run(t, "gill", "--temp", "15", "--vo2", "0.5")
	require.NoError(t, err)
	assert.Contains(t, out, "--- Underwater Gill Mode ---")
	assert.Contains(t, out, "Water temp       : 15.0 °C")
	assert.Contains(t, out, "VO₂ demand       : 0.50 L/min")
}

func TestGillCommand_ZeroEfficiency(t *testing.T) {
	_, err := run(t, "gill", "--eff", "0")
	assert.Error(t, err)
}

func TestAirCommand(t *testing.T) {
	out, err := run(t, "air", "--alt", "7000", "--conc_eff", "0.6")
	require.NoError(t, err)
	assert.Contains(t, out, "Ambient P        : 0.37 atm")
	assert.Contains(t, out, "Pressure boost   : 0.63 atm")
	assert.Contains(t, out, "Pure O₂ required : 2.00 L/min")
}

func TestUnknownMode(t *testing.T) {
	_, err := run(t, "orbit")
	assert.Error(t, err)
}
