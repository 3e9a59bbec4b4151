// Package modem owns the serial link to the cellular modem. A single event
// loop serializes all port I/O: AT commands execute as atomic
// command/response pairs, and unsolicited lines (ring, caller ID, call
// termination) are decoded and published on a notification channel even while
// a command is in flight.
package modem

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/carebridge/panel/internal/at"
	"github.com/carebridge/panel/pkg/logger"
	"go.bug.st/serial"
)

// Transport is an established byte stream to the modem. Production code uses
// a serial port; tests substitute a channel-backed fake.
type Transport interface {
	io.ReadWriteCloser
}

// OpenFunc produces a connected Transport and the device name it represents.
type OpenFunc func() (Transport, string, error)

type Options struct {
	// UARTPaths are fixed device paths probed before USB enumeration.
	UARTPaths []string
	BaudRate  int
	// InitCommands run best-effort after every successful open.
	InitCommands []string
	// Open overrides device discovery and opening. Used by tests.
	Open OpenFunc
}

type Modem struct {
	open     OpenFunc
	initCmds []string

	cmdChan    chan *commandRequest
	notifyChan chan at.Notification

	mu        sync.Mutex
	transport Transport
	portName  string
	stop      chan struct{}
	opened    bool
	closed    bool
}

type rxMsg struct {
	Data string
	Err  error
}

type commandRequest struct {
	payload string
	raw     bool // write payload verbatim, no CR appended
	silent  bool
	timeout time.Duration
	// stop identifies the link generation the command was issued against.
	// A fresh generation discards requests tagged with a dead one.
	stop chan struct{}
	resp chan commandResponse
}

type commandResponse struct {
	response string
	err      error
}

func New(opts Options) *Modem {
	open := opts.Open
	if open == nil {
		baud := opts.BaudRate
		if baud <= 0 {
			baud = 9600
		}
		uartPaths := opts.UARTPaths
		open = func() (Transport, string, error) {
			name, err := Discover(uartPaths)
			if err != nil {
				return nil, "", err
			}
			port, err := serial.Open(name, &serial.Mode{BaudRate: baud})
			if err != nil {
				return nil, "", fmt.Errorf("open %s: %w", name, err)
			}
			return port, name, nil
		}
	}

	return &Modem{
		open:       open,
		initCmds:   opts.InitCommands,
		cmdChan:    make(chan *commandRequest, 10),
		notifyChan: make(chan at.Notification, 16),
	}
}

// Notifications delivers decoded unsolicited lines. The channel is buffered;
// notifications are dropped with a log entry if the consumer falls behind.
func (m *Modem) Notifications() <-chan at.Notification {
	return m.notifyChan
}

// PortName reports the device currently in use, empty before the first open.
func (m *Modem) PortName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.portName
}

// EnsureOpen opens the link if it is not already open, starts the I/O loops
// and runs the init sequence. It is the lazy-open entry point: Execute calls
// it, and the ring monitor calls it periodically so an unplugged modem is
// picked up once it appears.
func (m *Modem) EnsureOpen() error {
	fresh, err := m.openIfNeeded()
	if err != nil {
		return err
	}
	if fresh {
		// Outside the lock: init commands go through the event loop and
		// must not stall teardown should the port die mid-sequence.
		m.initSequence()
	}
	return nil
}

func (m *Modem) openIfNeeded() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return false, ErrClosed
	}
	if m.opened {
		return false, nil
	}

	transport, name, err := m.open()
	if err != nil {
		return false, err
	}

	m.transport = transport
	m.portName = name
	m.stop = make(chan struct{})
	m.opened = true

	rx := make(chan rxMsg, 100)
	go m.readLoop(transport, m.stop, rx)
	go m.runLoop(transport, m.stop, rx)

	logger.Log.Infof("Modem serial opened on %s", name)
	return true, nil
}

// Execute sends an AT command and waits for its final result code. On
// timeout the partial response collected so far is returned together with
// ErrTimeout; callers must tolerate an absent final response.
func (m *Modem) Execute(cmd string, timeout time.Duration) (string, error) {
	if err := m.EnsureOpen(); err != nil {
		return "", err
	}
	return m.exec(cmd, false, false, timeout)
}

// Close shuts the link down for good. The notification channel stays open
// but goes quiet.
func (m *Modem) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.closed = true
	if m.opened {
		m.opened = false
		close(m.stop)
		return m.transport.Close()
	}
	return nil
}

func (m *Modem) exec(payload string, raw, silent bool, timeout time.Duration) (string, error) {
	m.mu.Lock()
	gen := m.stop
	m.mu.Unlock()

	req := &commandRequest{
		payload: payload,
		raw:     raw,
		silent:  silent,
		timeout: timeout,
		stop:    gen,
		resp:    make(chan commandResponse, 1),
	}

	select {
	case m.cmdChan <- req:
	case <-time.After(timeout + time.Second):
		return "", ErrTimeout
	}

	select {
	case r := <-req.resp:
		return r.response, r.err
	case <-time.After(timeout + time.Second): // safety margin past the loop's own timer
		return "", ErrTimeout
	}
}

// runLoop is the only goroutine that writes to the transport and the only
// consumer of rx. A command and its response window form one critical
// section; unsolicited lines observed inside the window are dispatched, not
// appended to the response.
func (m *Modem) runLoop(transport Transport, stop chan struct{}, rx chan rxMsg) {
	for {
		select {
		case <-stop:
			return

		case req := <-m.cmdChan:
			if req.stop != stop {
				// Queued against a dead link generation; the caller
				// has long since timed out. Never replay it here.
				req.resp <- commandResponse{err: ErrClosed}
				continue
			}
			wire := req.payload
			if !req.raw {
				wire = strings.TrimSpace(req.payload) + at.CR
			}
			if !req.silent {
				logger.Log.Debugf("[%s] TX: %s", m.portName, strings.TrimSpace(req.payload))
			}
			if _, err := transport.Write([]byte(wire)); err != nil {
				req.resp <- commandResponse{err: fmt.Errorf("write command: %w", err)}
				m.teardown(stop, transport, err)
				return
			}

			var lines []string
			timer := time.NewTimer(req.timeout)

		RespLoop:
			for {
				select {
				case <-stop:
					timer.Stop()
					req.resp <- commandResponse{response: strings.Join(lines, "\n"), err: ErrClosed}
					return

				case <-timer.C:
					req.resp <- commandResponse{response: strings.Join(lines, "\n"), err: ErrTimeout}
					break RespLoop

				case msg := <-rx:
					if msg.Err != nil {
						timer.Stop()
						req.resp <- commandResponse{response: strings.Join(lines, "\n"), err: msg.Err}
						m.teardown(stop, transport, msg.Err)
						return
					}

					line := msg.Data
					if !req.silent {
						logger.Log.Debugf("[%s] RX: %s", m.portName, line)
					}

					switch at.Classify(line) {
					case at.TypePrompt:
						lines = append(lines, line)
						req.resp <- commandResponse{response: strings.Join(lines, "\n")}
						break RespLoop

					case at.TypeNotification:
						m.dispatch(line)

					case at.TypeFinal:
						lines = append(lines, line)
						response := strings.Join(lines, "\n")
						if line == at.OK {
							req.resp <- commandResponse{response: response}
						} else {
							req.resp <- commandResponse{response: response, err: fmt.Errorf("modem result: %s", line)}
						}
						break RespLoop

					default:
						lines = append(lines, line)
					}
				}
			}
			timer.Stop()

		case msg := <-rx:
			if msg.Err != nil {
				m.teardown(stop, transport, msg.Err)
				return
			}
			m.dispatch(msg.Data)
		}
	}
}

func (m *Modem) readLoop(transport Transport, stop chan struct{}, rx chan rxMsg) {
	scanner := bufio.NewScanner(transport)
	scanner.Split(at.Splitter)

	for scanner.Scan() {
		token := scanner.Text()
		if token != at.Prompt {
			token = strings.TrimSpace(token)
		}
		if token == "" {
			continue
		}
		select {
		case rx <- rxMsg{Data: token}:
		case <-stop:
			return
		}
	}

	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	select {
	case rx <- rxMsg{Err: err}:
	case <-stop:
	}
}

// teardown closes the current link generation after an I/O failure so the
// next use re-opens the port. Close may have shut this generation down
// already while an error was still queued in rx; the opened flag covers that,
// the generation check covers a re-open that beat us here.
func (m *Modem) teardown(stop chan struct{}, transport Transport, cause error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.opened || m.stop != stop {
		return
	}
	logger.Log.Errorf("[%s] Serial link lost: %v", m.portName, cause)
	m.opened = false
	close(stop)
	transport.Close()
}

func (m *Modem) dispatch(line string) {
	n, ok := at.Parse(line)
	if !ok {
		logger.Log.Debugf("[%s] RX (unsolicited): %s", m.portName, line)
		return
	}
	select {
	case m.notifyChan <- n:
	default:
		logger.Log.Warnf("[%s] Notification dropped, consumer lagging: %#v", m.portName, n)
	}
}

// initSequence configures the modem after open: probe, echo off, verbose
// errors, caller ID and audio levels per configuration, then a signal and
// registration readout. Failures are logged and otherwise ignored.
func (m *Modem) initSequence() {
	logger.Log.Infof("[%s] Initialising modem", m.portName)

	if _, err := m.exec(at.CmdAT, false, true, 2*time.Second); err != nil {
		logger.Log.Warnf("[%s] Probe failed: %v", m.portName, err)
	}

	for _, cmd := range m.initCmds {
		resp, err := m.exec(cmd, false, false, 2*time.Second)
		if err != nil {
			logger.Log.Warnf("[%s] Init command %q failed: %v", m.portName, cmd, err)
			continue
		}
		if pct, ok := at.SignalPercent(resp); ok {
			logger.Log.Infof("[%s] Signal strength: %d%%", m.portName, pct)
		}
		if reg, ok := at.RegistrationStatus(resp); ok {
			logger.Log.Infof("[%s] Registration: %s", m.portName, reg)
		}
	}
}
