package at

import "testing"

func TestParseRing(t *testing.T) {
	n, ok := Parse("RING")
	if !ok {
		t.Fatal("RING not recognized")
	}
	if _, isRing := n.(Ring); !isRing {
		t.Fatalf("expected Ring, got %#v", n)
	}
}

func TestParseCallerID(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		number string
		ok     bool
	}{
		{"international", `+CLIP: "+2348143042627",145,,,,0`, "+2348143042627", true},
		{"plain digits", `+CLIP: "0712345678",129`, "0712345678", true},
		{"spaced", `+CLIP:  "+4915123456789"`, "+4915123456789", true},
		{"malformed", `+CLIP: garbage`, "", false},
		{"empty number", `+CLIP: ""`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := Parse(tt.line)
			if ok != tt.ok {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.line, ok, tt.ok)
			}
			if !tt.ok {
				return
			}
			cid, isCID := n.(CallerID)
			if !isCID {
				t.Fatalf("expected CallerID, got %#v", n)
			}
			if cid.Number != tt.number {
				t.Errorf("number = %q, want %q", cid.Number, tt.number)
			}
		})
	}
}

func TestParseTermination(t *testing.T) {
	for _, line := range []string{"NO CARRIER", "BUSY", "NO ANSWER", "+CME ERROR: no network service"} {
		n, ok := Parse(line)
		if !ok {
			t.Errorf("Parse(%q) not recognized", line)
			continue
		}
		if _, isTerm := n.(Terminated); !isTerm {
			t.Errorf("Parse(%q) = %#v, want Terminated", line, n)
		}
	}

	if _, ok := Parse("+CSQ: 20,99"); ok {
		t.Error("+CSQ response should not parse as a notification")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want ResponseType
	}{
		{"OK", TypeFinal},
		{"ERROR", TypeFinal},
		{"NO CARRIER", TypeFinal},
		{"+CME ERROR: operation not allowed", TypeFinal},
		{"RING", TypeNotification},
		{`+CLIP: "+123456789"`, TypeNotification},
		{"+CSQ: 20,99", TypeData},
		{"> ", TypePrompt},
	}
	for _, tt := range tests {
		if got := Classify(tt.line); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestSignalPercent(t *testing.T) {
	if pct, ok := SignalPercent("+CSQ: 31,99\nOK"); !ok || pct != 100 {
		t.Errorf("full scale: got %d,%v", pct, ok)
	}
	if pct, ok := SignalPercent("+CSQ: 99,99\nOK"); !ok || pct != 0 {
		t.Errorf("unknown rssi: got %d,%v", pct, ok)
	}
	if _, ok := SignalPercent("OK"); ok {
		t.Error("no +CSQ line should not parse")
	}
}

func TestRegistrationStatus(t *testing.T) {
	if s, ok := RegistrationStatus("+CREG: 0,1\nOK"); !ok || s != "Home Network" {
		t.Errorf("home: got %q,%v", s, ok)
	}
	if s, ok := RegistrationStatus("+CREG: 0,5\nOK"); !ok || s != "Roaming" {
		t.Errorf("roaming: got %q,%v", s, ok)
	}
	if _, ok := RegistrationStatus("OK"); ok {
		t.Error("no +CREG line should not parse")
	}
}

func TestDialAndSubmitCommands(t *testing.T) {
	if got := Dial("+2348143042627"); got != "ATD+2348143042627;" {
		t.Errorf("Dial = %q", got)
	}
	if got := SendTo("+2348143042627"); got != `AT+CMGS="+2348143042627"` {
		t.Errorf("SendTo = %q", got)
	}
	if got := SendPDU(42); got != "AT+CMGS=42" {
		t.Errorf("SendPDU = %q", got)
	}
}
