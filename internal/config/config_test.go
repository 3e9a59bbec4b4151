package config

import (
	"testing"

	"github.com/carebridge/panel/internal/at"
)

func TestDefaults(t *testing.T) {
	var c Config
	applyDefaults(&c)

	if c.Serial.BaudRate != 9600 {
		t.Errorf("baud rate = %d, want 9600", c.Serial.BaudRate)
	}
	if len(c.Serial.UARTPaths) == 0 || c.Serial.UARTPaths[0] != "/dev/serial0" {
		t.Errorf("uart paths = %v", c.Serial.UARTPaths)
	}
	if len(c.Serial.InitATCommands) == 0 || c.Serial.InitATCommands[0] != at.CmdEchoOff {
		t.Errorf("init AT commands = %v", c.Serial.InitATCommands)
	}
	found := false
	for _, cmd := range c.Serial.InitATCommands {
		if cmd == at.CmdCallerID {
			found = true
		}
	}
	if !found {
		t.Error("caller ID presentation missing from init defaults")
	}
	if c.SMS.Mode != "text" {
		t.Errorf("sms mode = %q, want text", c.SMS.Mode)
	}
	if c.Buttons.Answer != "GPIO26" || c.Buttons.EndOrReject != "GPIO21" {
		t.Errorf("button pins = %+v", c.Buttons)
	}
	if c.Audio.SelectPin != "GPIO12" {
		t.Errorf("select pin = %q", c.Audio.SelectPin)
	}
	if c.Ringtone.Command != "mpg123" {
		t.Errorf("ringtone command = %q", c.Ringtone.Command)
	}
}

func TestDefaultsPreserveExplicitValues(t *testing.T) {
	c := Config{}
	c.Serial.BaudRate = 115200
	c.SMS.Mode = "pdu"
	applyDefaults(&c)

	if c.Serial.BaudRate != 115200 {
		t.Errorf("baud rate overwritten: %d", c.Serial.BaudRate)
	}
	if c.SMS.Mode != "pdu" {
		t.Errorf("sms mode overwritten: %q", c.SMS.Mode)
	}
}
