// Package audiopath controls the single digital select line that routes audio
// between the idle path and the call path. The line is raised only while a
// call is active; the call controller is its sole writer.
package audiopath

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

type Path interface {
	SetActive(bool) error
	Active() bool
}

// Line drives a GPIO output pin. It remembers the last commanded level so the
// active state can be asserted without touching hardware.
type Line struct {
	pin gpio.PinOut

	mu     sync.Mutex
	active bool
}

// OpenLine resolves the select pin and drives it low (idle path).
func OpenLine(name string) (*Line, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("no such pin %q for audio select line", name)
	}
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("configure %s: %w", name, err)
	}
	return &Line{pin: pin}, nil
}

func (l *Line) SetActive(v bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	level := gpio.Low
	if v {
		level = gpio.High
	}
	if err := l.pin.Out(level); err != nil {
		return err
	}
	l.active = v
	return nil
}

func (l *Line) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}
