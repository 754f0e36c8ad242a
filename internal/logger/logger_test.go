package logger

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newBuffered(level LogLevel) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogger(log.New(&buf, "", 0), level), &buf
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBuffered(LogLevelWarning)

	l.Debugf("debug %d", 1)
	l.Infof("info %d", 2)
	assert.Empty(t, buf.String())

	l.Warnf("warn %d", 3)
	l.Errorf("error %d", 4)
	assert.Equal(t, "WARN: warn 3\nERROR: error 4\n", buf.String())
}

func TestWithTag(t *testing.T) {
	l, buf := newBuffered(LogLevelDebug)

	l.WithTag("hardware").Infof("valve=%v", true)
	l.WithTag("fsm").Debugf("enter %s", "valve-open")

	assert.Equal(t, "[hardware] valve=true\n[fsm] DEBUG: enter valve-open\n", buf.String())
}

func TestNilBaseDiscards(t *testing.T) {
	l := NewLogger(nil, LogLevelDebug)
	assert.NotPanics(t, func() {
		l.Errorf("dropped")
		l.Infof("dropped")
	})
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "warn", LogLevelWarning.String())
	assert.Equal(t, "level(9)", LogLevel(9).String())
}
