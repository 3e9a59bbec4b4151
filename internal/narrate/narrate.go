// Package narrate is the operator feedback boundary. The call controller
// reports transitions ("dialing", "incoming call", errors) through a Narrator
// and does not care how the message reaches the operator.
package narrate

import (
	"os/exec"
	"strings"

	"github.com/carebridge/panel/pkg/logger"
)

type Narrator interface {
	Say(msg string)
}

// Speech shells out to a text-to-speech command (espeak by default) and
// always logs the message as well. Synthesis failures are logged and ignored;
// feedback is best effort.
type Speech struct {
	command string
	args    []string
}

func NewSpeech(command string, args []string) *Speech {
	return &Speech{command: command, args: args}
}

func (s *Speech) Say(msg string) {
	logger.Log.Infof("Narrate: %s", msg)
	safe := strings.ReplaceAll(msg, "'", " ")
	if err := exec.Command(s.command, append(append([]string{}, s.args...), safe)...).Run(); err != nil {
		logger.Log.Debugf("Speech synthesis failed: %v", err)
	}
}

// Silent logs messages without synthesizing speech. Used when speech output
// is disabled in configuration and as the test double.
type Silent struct{}

func (Silent) Say(msg string) {
	logger.Log.Infof("Narrate: %s", msg)
}
