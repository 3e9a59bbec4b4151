package button

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// Pins maps each button to a gpioreg pin name, e.g. "GPIO5".
type Pins struct {
	SendSMS     string
	MakeCall    string
	JoinMeeting string
	EndOrReject string
	Answer      string
}

// GPIO samples the physical buttons through periph.io. The buttons are wired
// active low with internal pull-ups.
type GPIO struct {
	pins map[Button]gpio.PinIO
}

// OpenGPIO resolves and configures the button pins. host.Init must have been
// called first.
func OpenGPIO(p Pins) (*GPIO, error) {
	names := map[Button]string{
		SendSMS:     p.SendSMS,
		MakeCall:    p.MakeCall,
		JoinMeeting: p.JoinMeeting,
		EndOrReject: p.EndOrReject,
		Answer:      p.Answer,
	}

	g := &GPIO{pins: make(map[Button]gpio.PinIO, len(names))}
	for b, name := range names {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, fmt.Errorf("no such pin %q for %s button", name, b)
		}
		if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("configure %s (%s): %w", name, b, err)
		}
		g.pins[b] = pin
	}
	return g, nil
}

func (g *GPIO) Pressed(b Button) bool {
	pin, ok := g.pins[b]
	if !ok {
		return false
	}
	return pin.Read() == gpio.Low
}
