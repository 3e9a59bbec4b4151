package modem

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.bug.st/serial"
)

// Discover returns the first plausible modem device: the fixed UART paths in
// order, then enumerated USB serial adapters (ttyUSB*, ttyACM*) in sorted
// order. ErrNoDevice is returned when nothing is present.
func Discover(uartPaths []string) (string, error) {
	for _, p := range uartPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	ports, err := serial.GetPortsList()
	if err != nil {
		return "", ErrNoDevice
	}

	var usb []string
	for _, p := range ports {
		base := filepath.Base(p)
		if strings.HasPrefix(base, "ttyUSB") || strings.HasPrefix(base, "ttyACM") {
			usb = append(usb, p)
		}
	}
	if len(usb) == 0 {
		return "", ErrNoDevice
	}
	sort.Strings(usb)
	return usb[0], nil
}
