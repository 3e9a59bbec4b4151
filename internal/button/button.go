// Package button defines the digital input boundary: the five panel buttons,
// a level-sampling interface and an edge detector that turns held levels into
// fire-once press events.
package button

type Button int

const (
	SendSMS Button = iota
	MakeCall
	JoinMeeting
	EndOrReject
	Answer
)

func (b Button) String() string {
	switch b {
	case SendSMS:
		return "SendSMS"
	case MakeCall:
		return "MakeCall"
	case JoinMeeting:
		return "JoinMeeting"
	case EndOrReject:
		return "EndOrReject"
	case Answer:
		return "Answer"
	default:
		return "Unknown"
	}
}

// Input reports debounced button levels. true means pressed; the active-low
// wiring is an implementation detail below this interface.
type Input interface {
	Pressed(Button) bool
}

// Edge converts sampled levels into edge-triggered events: Fired reports true
// exactly once per transition into the pressed level.
type Edge struct {
	last map[Button]bool
}

func NewEdge() *Edge {
	return &Edge{last: make(map[Button]bool)}
}

// Prime records the current levels without firing, so a button already held
// when a sampling loop starts does not register as a fresh press.
func (e *Edge) Prime(in Input, buttons ...Button) {
	for _, b := range buttons {
		e.last[b] = in.Pressed(b)
	}
}

func (e *Edge) Fired(in Input, b Button) bool {
	level := in.Pressed(b)
	fired := level && !e.last[b]
	e.last[b] = level
	return fired
}
