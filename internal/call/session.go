// Package call holds the authoritative model of call state. A single Session
// value, owned by the Controller under a mutex, moves through
// Idle/Dialing/RingingIncoming/Active/Ending; the audio path and ringtone are
// mutated only as side effects of those transitions.
package call

import (
	"errors"
	"regexp"
)

type State int

const (
	StateIdle State = iota
	StateDialing
	StateRingingIncoming
	StateActive
	StateEnding
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateDialing:
		return "Dialing"
	case StateRingingIncoming:
		return "RingingIncoming"
	case StateActive:
		return "Active"
	case StateEnding:
		return "Ending"
	default:
		return "Unknown"
	}
}

type Direction int

const (
	DirectionNone Direction = iota
	DirectionOutbound
	DirectionInbound
)

func (d Direction) String() string {
	switch d {
	case DirectionOutbound:
		return "Outbound"
	case DirectionInbound:
		return "Inbound"
	default:
		return "None"
	}
}

// Session is the per-call state. Exactly one exists; it is reset to the zero
// value when the call ends. stopRingtone is non-nil only while ringing, and
// term is the handoff channel the notification router closes when the modem
// reports remote termination of an outbound call.
type Session struct {
	State        State
	Direction    Direction
	RemoteNumber string

	stopRingtone func()
	term         chan struct{}
}

var (
	errCallInProgress    = errors.New("a call is already in progress")
	errInvalidDialNumber = errors.New("invalid dial number")
)

func IsCallInProgressError(err error) bool {
	return errors.Is(err, errCallInProgress)
}

func IsInvalidDialNumberError(err error) bool {
	return errors.Is(err, errInvalidDialNumber)
}

var dialNumberRe = regexp.MustCompile(`^\+?\d{3,15}$`)

func validDialNumber(n string) bool {
	return dialNumberRe.MatchString(n)
}
