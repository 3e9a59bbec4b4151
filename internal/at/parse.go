package at

import (
	"regexp"
	"strconv"
	"strings"
)

// Notification is an unsolicited line from the modem, decoded to a tagged
// variant. Lines that are neither command responses nor recognized
// notifications do not produce a Notification.
type Notification interface {
	notification()
}

// Ring reports an incoming call.
type Ring struct{}

// CallerID reports the calling number, delivered by the modem between ring
// indications once +CLIP is enabled.
type CallerID struct {
	Number string
}

// Terminated reports that the network or the remote side ended the call.
type Terminated struct {
	Cause string
}

func (Ring) notification()       {}
func (CallerID) notification()   {}
func (Terminated) notification() {}

var clipRe = regexp.MustCompile(`\+CLIP:\s*"(\+?\d+)"`)

// terminationCauses are the result codes that end an active call when they
// appear unsolicited in the line stream.
var terminationCauses = []string{NoCarrier, Busy, NoAnswer, ERROR}

// Parse decodes a single trimmed line into a Notification. The second return
// is false for lines that carry no notification, including malformed +CLIP
// lines, which the caller treats as "number unknown" rather than an error.
func Parse(line string) (Notification, bool) {
	switch {
	case line == RingIndicator:
		return Ring{}, true

	case strings.HasPrefix(line, ClipPrefix):
		m := clipRe.FindStringSubmatch(line)
		if m == nil {
			return nil, false
		}
		return CallerID{Number: m[1]}, true
	}

	for _, cause := range terminationCauses {
		if strings.Contains(line, cause) {
			return Terminated{Cause: cause}, true
		}
	}
	return nil, false
}

// Classify identifies the nature of a modem output line.
func Classify(line string) ResponseType {
	if line == Prompt || line == strings.TrimSpace(Prompt) {
		return TypePrompt
	}

	switch line {
	case OK, ERROR, NoCarrier, NoDialtone, Busy, NoAnswer:
		return TypeFinal
	}

	switch {
	case strings.HasPrefix(line, CmeError), strings.HasPrefix(line, CmsError):
		return TypeFinal
	case line == RingIndicator, strings.HasPrefix(line, ClipPrefix):
		return TypeNotification
	default:
		return TypeData
	}
}

// SignalPercent extracts the signal quality from a +CSQ response and converts
// the 0-31 RSSI scale to a percentage. 99 means "not known or not detectable".
func SignalPercent(resp string) (int, bool) {
	for _, l := range strings.Split(resp, "\n") {
		l = strings.TrimSpace(l)
		if !strings.HasPrefix(l, "+CSQ:") {
			continue
		}
		fields := strings.Split(strings.TrimSpace(strings.TrimPrefix(l, "+CSQ:")), ",")
		if len(fields) == 0 {
			return 0, false
		}
		rssi, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return 0, false
		}
		if rssi == 99 {
			return 0, true
		}
		return int(float64(rssi) / 31.0 * 100.0), true
	}
	return 0, false
}

// RegistrationStatus renders the <stat> field of a +CREG response.
func RegistrationStatus(resp string) (string, bool) {
	for _, l := range strings.Split(resp, "\n") {
		l = strings.TrimSpace(l)
		if !strings.HasPrefix(l, "+CREG:") {
			continue
		}
		fields := strings.Split(strings.TrimPrefix(l, "+CREG:"), ",")
		if len(fields) < 2 {
			return "", false
		}
		switch strings.TrimSpace(fields[1]) {
		case "1":
			return "Home Network", true
		case "5":
			return "Roaming", true
		case "2":
			return "Searching...", true
		case "3":
			return "Denied", true
		case "4":
			return "Unknown", true
		default:
			return "Not Registered", true
		}
	}
	return "", false
}
