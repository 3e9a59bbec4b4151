package call

import (
	"context"
	"errors"
	"time"

	"github.com/carebridge/panel/internal/at"
	"github.com/carebridge/panel/internal/modem"
	"github.com/carebridge/panel/pkg/logger"
)

// RingMonitor is the background notification router. It runs for the process
// lifetime, keeps trying to open the modem link, and consumes every
// unsolicited notification: ring indications enter the inbound call branch
// (which it then drives to completion on this same goroutine), caller IDs
// attach to the session, and termination reports are handed to whichever loop
// owns the active call.
type RingMonitor struct {
	ctrl *Controller
	link Link

	// retryInterval paces link re-open attempts while no device is present.
	retryInterval time.Duration
}

func NewRingMonitor(ctrl *Controller, link Link) *RingMonitor {
	return &RingMonitor{
		ctrl:          ctrl,
		link:          link,
		retryInterval: 5 * time.Second,
	}
}

// Run blocks until ctx is cancelled. It never returns early: link failures
// are logged and retried after a backoff.
func (r *RingMonitor) Run(ctx context.Context) {
	if err := r.link.EnsureOpen(); err != nil {
		logger.Log.Warnf("Ring monitor: modem not yet available: %v", err)
	}

	notes := r.link.Notifications()
	retry := time.NewTicker(r.retryInterval)
	defer retry.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case n := <-notes:
			switch v := n.(type) {
			case at.Ring:
				// Blocks for the duration of the inbound call; a no-op
				// when a call is already in progress.
				r.ctrl.RunInbound(ctx)

			case at.CallerID:
				r.ctrl.AttachCallerID(v.Number)

			case at.Terminated:
				r.ctrl.SignalTermination()
			}

		case <-retry.C:
			if err := r.link.EnsureOpen(); err != nil && !errors.Is(err, modem.ErrClosed) {
				logger.Log.Debugf("Ring monitor: link still unavailable: %v", err)
			}
		}
	}
}
