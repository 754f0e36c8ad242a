package hardware

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsolePrintPressure(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	require.NoError(t, c.Println(BannerLine))
	require.NoError(t, c.PrintPressure(1.23456))
	require.NoError(t, c.Close())

	assert.Equal(t, "PulmoAug Controller Initialized\nPressure sensor V: 1.235\n", buf.String())
}

func TestOpenConsoleStdout(t *testing.T) {
	c, err := OpenConsole("", 115200)
	require.NoError(t, err)
	assert.NoError(t, c.Close())
}
