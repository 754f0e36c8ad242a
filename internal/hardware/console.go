package hardware

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.bug.st/serial"
)

// Console prints human readable lines, either to a serial port or to an
// arbitrary writer (stdout when no port is configured).
type Console struct {
	mu  sync.Mutex
	out io.Writer
	c   io.Closer
	eol string
}

// OpenConsole opens the serial port at baudRate (8N1). An empty port
// prints to stdout instead.
func OpenConsole(port string, baudRate int) (*Console, error) {
	if port == "" {
		return NewConsole(os.Stdout), nil
	}

	p, err := serial.Open(port, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial console %s: %w", port, err)
	}
	return &Console{out: p, c: p, eol: "\r\n"}, nil
}

func NewConsole(w io.Writer) *Console {
	return &Console{out: w, eol: "\n"}
}

func (c *Console) Println(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := io.WriteString(c.out, line+c.eol)
	return err
}

// PrintPressure prints the voltage with three decimals.
func (c *Console) PrintPressure(voltage float32) error {
	return c.Println(fmt.Sprintf("Pressure sensor V: %.3f", voltage))
}

func (c *Console) Close() error {
	if c.c == nil {
		return nil
	}
	return c.c.Close()
}
