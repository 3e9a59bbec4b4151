// Package ringtone starts and stops the external ringtone playback process.
package ringtone

import (
	"fmt"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// Player spawns the configured playback command, typically mpg123 looping an
// MP3 file.
type Player struct {
	command string
	args    []string
}

func NewPlayer(command string, args []string) *Player {
	return &Player{command: command, args: args}
}

// Handle tracks one playback process. Stop is idempotent and tolerates a
// process that already exited on its own.
type Handle struct {
	cmd  *exec.Cmd
	done chan error
	once sync.Once
}

func (p *Player) Start() (*Handle, error) {
	cmd := exec.Command(p.command, p.args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ringtone player: %w", err)
	}

	h := &Handle{cmd: cmd, done: make(chan error, 1)}
	go func() {
		h.done <- cmd.Wait()
	}()
	return h, nil
}

// Stop terminates the playback process. The first call signals SIGTERM and
// escalates to SIGKILL after a second; further calls and calls on an exited
// process are no-ops.
func (h *Handle) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		// Signal errors mean the process is already gone.
		_ = h.cmd.Process.Signal(syscall.SIGTERM)
		select {
		case <-h.done:
		case <-time.After(time.Second):
			_ = h.cmd.Process.Kill()
			<-h.done
		}
	})
}
