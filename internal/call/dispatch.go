package call

import (
	"context"
	"errors"
	"time"

	"github.com/carebridge/panel/internal/button"
	"github.com/carebridge/panel/internal/meeting"
	"github.com/carebridge/panel/internal/modem"
	"github.com/carebridge/panel/internal/narrate"
	"github.com/carebridge/panel/pkg/logger"
)

// SMSSender is the slice of the modem used for the fire-and-forget SMS
// button.
type SMSSender interface {
	SendTextSMS(number, message string) error
	SendPDUSMS(number, message string) error
}

type SMSAction struct {
	Number  string
	Message string
	// Mode selects "text" (default) or "pdu" submission.
	Mode string
}

type DispatcherConfig struct {
	Controller *Controller
	Buttons    button.Input
	Narrator   narrate.Narrator
	Sender     SMSSender
	Joiner     meeting.Joiner
	SMS        SMSAction

	// SampleInterval paces button polling. Defaults to 100ms.
	SampleInterval time.Duration
}

// Dispatcher is the foreground input loop. Each tick it samples the action
// buttons edge-triggered and dispatches at most one action, which runs to
// completion before the next tick is considered. MakeCall and JoinMeeting
// block the loop by design: only one session exists at a time, and their own
// monitoring keeps watching the end button. The action buttons are primed at
// construction time: a button already held when the dispatcher is built does
// not fire.
type Dispatcher struct {
	ctrl     *Controller
	buttons  button.Input
	narrator narrate.Narrator
	sender   SMSSender
	joiner   meeting.Joiner
	sms      SMSAction
	interval time.Duration
	edge     *button.Edge
}

func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	interval := cfg.SampleInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	d := &Dispatcher{
		ctrl:     cfg.Controller,
		buttons:  cfg.Buttons,
		narrator: cfg.Narrator,
		sender:   cfg.Sender,
		joiner:   cfg.Joiner,
		sms:      cfg.SMS,
		interval: interval,
		edge:     button.NewEdge(),
	}
	d.edge.Prime(d.buttons, button.SendSMS, button.MakeCall, button.JoinMeeting)
	return d
}

// Run blocks until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			switch {
			case d.edge.Fired(d.buttons, button.SendSMS):
				d.sendSMS()
			case d.edge.Fired(d.buttons, button.MakeCall):
				d.ctrl.MakeCall(ctx)
			case d.edge.Fired(d.buttons, button.JoinMeeting):
				d.joinMeeting(ctx)
			}
		}
	}
}

func (d *Dispatcher) sendSMS() {
	d.narrator.Say("Sending message")

	var err error
	if d.sms.Mode == "pdu" {
		err = d.sender.SendPDUSMS(d.sms.Number, d.sms.Message)
	} else {
		err = d.sender.SendTextSMS(d.sms.Number, d.sms.Message)
	}

	switch {
	case errors.Is(err, modem.ErrNoDevice):
		d.narrator.Say("Modem not available")
	case err != nil:
		logger.Log.Errorf("SMS send failed: %v", err)
		d.narrator.Say("Message failed")
	default:
		d.narrator.Say("Message sent")
	}
}

// joinMeeting runs the external join command until it exits or the operator
// presses the end button.
func (d *Dispatcher) joinMeeting(ctx context.Context) {
	// Primed before the narration makes the join observable.
	edge := button.NewEdge()
	edge.Prime(d.buttons, button.EndOrReject)
	d.narrator.Say("Joining conference")

	jctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- d.joiner.Join(jctx)
	}()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			if err != nil {
				logger.Log.Errorf("Meeting failed: %v", err)
				d.narrator.Say("Conference not available")
				return
			}
			d.narrator.Say("Conference ended")
			return

		case <-ticker.C:
			if edge.Fired(d.buttons, button.EndOrReject) {
				cancel()
				<-done
				d.narrator.Say("Conference ended")
				return
			}
		}
	}
}
