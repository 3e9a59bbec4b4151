package call

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/carebridge/panel/internal/at"
	"github.com/carebridge/panel/internal/audiopath"
	"github.com/carebridge/panel/internal/button"
	"github.com/carebridge/panel/internal/modem"
	"github.com/carebridge/panel/internal/narrate"
	"github.com/carebridge/panel/pkg/logger"
)

// Link is the slice of the modem the call controller needs.
type Link interface {
	EnsureOpen() error
	Execute(cmd string, timeout time.Duration) (string, error)
	Notifications() <-chan at.Notification
}

// Ringer starts ringtone playback and returns an idempotent stop function.
type Ringer interface {
	Start() (func(), error)
}

// RingerFunc adapts a function to the Ringer interface.
type RingerFunc func() (func(), error)

func (f RingerFunc) Start() (func(), error) { return f() }

type Config struct {
	Link     Link
	Audio    audiopath.Path
	Ringer   Ringer
	Narrator narrate.Narrator
	Buttons  button.Input

	// Number dialed on MakeCall.
	Number string

	// SampleInterval bounds button polling during ringing and active calls.
	// Defaults to 100ms; cancellation latency stays under 200ms either way.
	SampleInterval time.Duration
}

// Controller owns the Session and performs every state transition. The input
// dispatch loop drives the outbound branch and the ring monitor drives the
// inbound branch; both go through methods here, under one mutex.
type Controller struct {
	link     Link
	audio    audiopath.Path
	ringer   Ringer
	narrator narrate.Narrator
	buttons  button.Input
	number   string
	interval time.Duration

	mu      sync.Mutex
	session Session
}

func NewController(cfg Config) *Controller {
	interval := cfg.SampleInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &Controller{
		link:     cfg.Link,
		audio:    cfg.Audio,
		ringer:   cfg.Ringer,
		narrator: cfg.Narrator,
		buttons:  cfg.Buttons,
		number:   cfg.Number,
		interval: interval,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.State
}

func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session
	s.stopRingtone = nil
	s.term = nil
	return s
}

// MakeCall dials the configured number and blocks until the call ends. It is
// invoked from the input dispatch loop, which by design does nothing else
// while a call it initiated is up.
func (c *Controller) MakeCall(ctx context.Context) {
	if err := c.link.EnsureOpen(); err != nil {
		logger.Log.Errorf("MakeCall: modem unavailable: %v", err)
		c.narrator.Say("Modem not available")
		return
	}

	if err := c.beginOutbound(); err != nil {
		switch {
		case IsInvalidDialNumberError(err):
			c.narrator.Say("No number configured")
			logger.Log.Warnf("MakeCall rejected: %v", err)
		case IsCallInProgressError(err):
			logger.Log.Warnf("MakeCall ignored: %v", err)
		}
		return
	}

	c.narrator.Say("Dialing number")
	if _, err := c.link.Execute(at.Dial(c.number), 3*time.Second); err != nil && !errors.Is(err, modem.ErrTimeout) {
		logger.Log.Errorf("Dial failed: %v", err)
		c.narrator.Say("Call failed")
		c.reset()
		return
	}

	// This protocol variant reports no connect notification; a completed
	// dial command enters Active and the monitor takes over. The end button
	// is primed before the Active transition becomes visible.
	edge := button.NewEdge()
	edge.Prime(c.buttons, button.EndOrReject)
	c.enterActive()
	c.monitorActive(ctx, nil, edge)
}

// RunInbound handles one incoming call end to end: ringing, the bounded
// answer/reject wait, and, if answered, active-call monitoring. It runs on
// the ring monitor goroutine, which is the sole consumer of modem
// notifications for the whole inbound branch.
func (c *Controller) RunInbound(ctx context.Context) {
	// Primed before the session becomes visible as ringing.
	edge := button.NewEdge()
	edge.Prime(c.buttons, button.Answer, button.EndOrReject)

	if !c.beginInbound() {
		return
	}

	notes := c.link.Notifications()
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.stopRingtone()
			c.reset()
			return

		case n := <-notes:
			switch v := n.(type) {
			case at.CallerID:
				c.AttachCallerID(v.Number)
			case at.Terminated:
				// Caller gave up before we decided.
				c.stopRingtone()
				c.narrator.Say("Call ended")
				c.reset()
				return
			}
			// Repeated RING indications keep the session ringing.

		case <-ticker.C:
			if edge.Fired(c.buttons, button.Answer) {
				c.stopRingtone()
				c.narrator.Say("Answering call")
				if _, err := c.link.Execute(at.CmdAnswer, time.Second); err != nil && !errors.Is(err, modem.ErrTimeout) {
					logger.Log.Errorf("Answer failed: %v", err)
					c.narrator.Say("Call failed")
					c.reset()
					return
				}
				c.enterActive()
				c.monitorActive(ctx, notes, edge)
				return
			}
			if edge.Fired(c.buttons, button.EndOrReject) {
				c.stopRingtone()
				c.narrator.Say("Call rejected")
				if _, err := c.link.Execute(at.CmdHangUp, time.Second); err != nil && !errors.Is(err, modem.ErrTimeout) {
					logger.Log.Errorf("Reject failed: %v", err)
				}
				c.reset()
				return
			}
		}
	}
}

// AttachCallerID records the remote number on a ringing session and announces
// it digit by digit.
func (c *Controller) AttachCallerID(number string) {
	c.mu.Lock()
	if c.session.State != StateRingingIncoming || c.session.RemoteNumber != "" {
		c.mu.Unlock()
		return
	}
	c.session.RemoteNumber = number
	c.mu.Unlock()

	c.narrator.Say("Incoming call from " + strings.Join(strings.Split(number, ""), " "))
}

// SignalTermination is called by the notification router when the modem
// reports call termination while the router does not itself own the active
// call (the outbound case). It hands the event to the monitoring loop.
func (c *Controller) SignalTermination() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.State != StateActive || c.session.term == nil {
		return
	}
	close(c.session.term)
	c.session.term = nil
}

// monitorActive watches an active call until it ends: remote termination
// (via notes on the inbound path, via the term handoff channel on the
// outbound path) or the end button, sampled at the controller interval. The
// caller supplies an edge detector primed before the call entered Active.
func (c *Controller) monitorActive(ctx context.Context, notes <-chan at.Notification, edge *button.Edge) {
	c.mu.Lock()
	term := c.session.term
	c.mu.Unlock()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.hangUp()
			c.finish()
			return

		case <-term:
			c.narrator.Say("Call ended")
			c.finish()
			return

		case n := <-notes:
			if _, ok := n.(at.Terminated); ok {
				c.narrator.Say("Call ended")
				c.finish()
				return
			}

		case <-ticker.C:
			if edge.Fired(c.buttons, button.EndOrReject) {
				c.narrator.Say("Ending call")
				c.hangUp()
				c.finish()
				return
			}
		}
	}
}

func (c *Controller) hangUp() {
	if _, err := c.link.Execute(at.CmdHangUp, time.Second); err != nil && !errors.Is(err, modem.ErrTimeout) {
		logger.Log.Errorf("Hang up failed: %v", err)
	}
}

func (c *Controller) beginOutbound() error {
	if !validDialNumber(c.number) {
		return errInvalidDialNumber
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.State != StateIdle {
		return errCallInProgress
	}
	c.session = Session{
		State:        StateDialing,
		Direction:    DirectionOutbound,
		RemoteNumber: c.number,
		term:         make(chan struct{}),
	}
	return nil
}

// beginInbound claims the session for an incoming call and starts the
// ringtone. Returns false when a call is already in progress.
func (c *Controller) beginInbound() bool {
	c.mu.Lock()
	if c.session.State != StateIdle {
		c.mu.Unlock()
		return false
	}
	c.session = Session{
		State:     StateRingingIncoming,
		Direction: DirectionInbound,
	}
	c.mu.Unlock()

	c.narrator.Say("Incoming call")
	stop, err := c.ringer.Start()
	if err != nil {
		logger.Log.Warnf("Ringtone failed to start: %v", err)
		c.narrator.Say("Ringtone not available")
		stop = nil
	}

	c.mu.Lock()
	if c.session.State == StateRingingIncoming {
		c.session.stopRingtone = stop
	} else if stop != nil {
		// Session changed under us; do not leave the tone playing.
		defer stop()
	}
	c.mu.Unlock()
	return true
}

func (c *Controller) stopRingtone() {
	c.mu.Lock()
	stop := c.session.stopRingtone
	c.session.stopRingtone = nil
	c.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// enterActive is the only place the audio path goes up, and finish the only
// place it comes down.
func (c *Controller) enterActive() {
	c.mu.Lock()
	c.session.State = StateActive
	c.mu.Unlock()

	if err := c.audio.SetActive(true); err != nil {
		logger.Log.Errorf("Audio path switch failed: %v", err)
	}
	c.narrator.Say("Call in progress")
}

// finish runs the Ending transition: audio path down, session destroyed.
func (c *Controller) finish() {
	c.mu.Lock()
	c.session.State = StateEnding
	c.mu.Unlock()

	if err := c.audio.SetActive(false); err != nil {
		logger.Log.Errorf("Audio path switch failed: %v", err)
	}

	c.mu.Lock()
	c.session = Session{}
	c.mu.Unlock()
	c.narrator.Say("Call finished")
}

// reset abandons a session that never reached Active. The audio path was
// never raised on these paths, so only the session is cleared.
func (c *Controller) reset() {
	c.mu.Lock()
	c.session = Session{}
	c.mu.Unlock()
}
