package hardware

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// SysfsPwm drives one channel of a Linux PWM chip through
// /sys/class/pwm/pwmchipN/pwmM.
type SysfsPwm struct {
	dir            string
	chip           int
	channel        int
	resolutionBits int
	periodNs       uint64
	duty           uint32
	enabled        bool
	mu             sync.Mutex

	// export may create the channel directory asynchronously
	exportWait time.Duration
}

func NewSysfsPwm(dir string, chip, channel, resolutionBits int) *SysfsPwm {
	return &SysfsPwm{
		dir:            dir,
		chip:           chip,
		channel:        channel,
		resolutionBits: resolutionBits,
		exportWait:     500 * time.Millisecond,
	}
}

func (p *SysfsPwm) chipPath(name string) string {
	return filepath.Join(p.dir, fmt.Sprintf("pwmchip%d", p.chip), name)
}

func (p *SysfsPwm) channelPath(name string) string {
	return filepath.Join(p.dir, fmt.Sprintf("pwmchip%d", p.chip), fmt.Sprintf("pwm%d", p.channel), name)
}

// writeSysfs writes a value to an existing sysfs attribute.
func writeSysfs(path, value string) error {
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_TRUNC|unix.O_CLOEXEC, 0)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer unix.Close(fd)

	buf := []byte(value)
	for offset := 0; offset < len(buf); {
		n, err := unix.Write(fd, buf[offset:])
		if err != nil {
			return fmt.Errorf("failed to write %q to %s: %w", value, path, err)
		}
		offset += n
	}
	return nil
}

// Init exports the channel and programs its period from frequencyHz.
func (p *SysfsPwm) Init(frequencyHz int) error {
	if frequencyHz <= 0 {
		return fmt.Errorf("invalid PWM frequency %d", frequencyHz)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := os.Stat(p.chipPath("")); os.IsNotExist(err) {
		return fmt.Errorf("PWM chip %d not found", p.chip)
	}

	if _, err := os.Stat(p.channelPath("")); os.IsNotExist(err) {
		if err := writeSysfs(p.chipPath("export"), strconv.Itoa(p.channel)); err != nil {
			return err
		}
		deadline := time.Now().Add(p.exportWait)
		for {
			if _, err := os.Stat(p.channelPath("period")); err == nil {
				break
			}
			if time.Now().After(deadline) {
				return fmt.Errorf("PWM channel %d did not appear after export", p.channel)
			}
			time.Sleep(10 * time.Millisecond)
		}
	}

	if err := writeSysfs(p.channelPath("enable"), "0"); err != nil {
		return err
	}
	p.enabled = false

	// duty must never exceed the period, so clear it before reprogramming
	if err := writeSysfs(p.channelPath("duty_cycle"), "0"); err != nil {
		return err
	}
	p.periodNs = uint64(time.Second) / uint64(frequencyHz)
	if err := writeSysfs(p.channelPath("period"), strconv.FormatUint(p.periodNs, 10)); err != nil {
		return err
	}
	p.duty = 0
	return nil
}

// DutyToNs converts a duty in resolution units to nanoseconds of the period.
// Full scale is 2^bits, so 128 of 8 bits is exactly half.
func DutyToNs(duty uint32, resolutionBits int, periodNs uint64) uint64 {
	fullScale := uint64(1) << uint(resolutionBits)
	if uint64(duty) >= fullScale {
		return periodNs
	}
	return periodNs * uint64(duty) / fullScale
}

// SetDuty programs the duty cycle and enables the output when duty > 0.
func (p *SysfsPwm) SetDuty(duty uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.periodNs == 0 {
		return fmt.Errorf("PWM channel %d not initialized", p.channel)
	}
	if limit := uint32(1) << uint(p.resolutionBits); duty > limit {
		return fmt.Errorf("duty %d exceeds %d-bit range", duty, p.resolutionBits)
	}

	ns := DutyToNs(duty, p.resolutionBits, p.periodNs)
	if err := writeSysfs(p.channelPath("duty_cycle"), strconv.FormatUint(ns, 10)); err != nil {
		return err
	}
	p.duty = duty
	return p.setEnabledLocked(duty > 0)
}

func (p *SysfsPwm) Duty() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duty
}

func (p *SysfsPwm) setEnabledLocked(enabled bool) error {
	if p.enabled == enabled {
		return nil
	}
	val := "0"
	if enabled {
		val = "1"
	}
	if err := writeSysfs(p.channelPath("enable"), val); err != nil {
		return err
	}
	p.enabled = enabled
	return nil
}

// Cleanup disables the output and unexports the channel.
func (p *SysfsPwm) Cleanup() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.periodNs == 0 {
		return nil
	}
	if err := writeSysfs(p.channelPath("duty_cycle"), "0"); err != nil {
		return err
	}
	p.duty = 0
	if err := p.setEnabledLocked(false); err != nil {
		return err
	}
	p.periodNs = 0
	return writeSysfs(p.chipPath("unexport"), strconv.Itoa(p.channel))
}
