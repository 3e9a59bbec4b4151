package modem

import (
	"io"
	"sync"
)

// TestTransport simulates a blocking serial port using channels. Reads block
// until data is queued, like a real port would. An optional OnWrite hook lets
// tests script the modem's side of the conversation.
type TestTransport struct {
	mu       sync.Mutex
	readChan chan []byte
	writes   []string
	closed   bool

	// OnWrite, if set, is invoked with every chunk written to the port.
	OnWrite func(data string)
}

func NewTestTransport() *TestTransport {
	return &TestTransport{
		readChan: make(chan []byte, 32),
	}
}

func (t *TestTransport) Write(p []byte) (int, error) {
	t.mu.Lock()
	t.writes = append(t.writes, string(p))
	hook := t.OnWrite
	t.mu.Unlock()
	if hook != nil {
		hook(string(p))
	}
	return len(p), nil
}

func (t *TestTransport) Read(p []byte) (int, error) {
	data, ok := <-t.readChan
	if !ok {
		return 0, io.EOF
	}
	return copy(p, data), nil
}

func (t *TestTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.readChan)
	return nil
}

// SendLine queues one CRLF-terminated line as if the modem had sent it.
func (t *TestTransport) SendLine(line string) {
	t.SendRaw(line + "\r\n")
}

// SendRaw queues bytes verbatim, for prompts and other unterminated output.
func (t *TestTransport) SendRaw(data string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.readChan <- []byte(data)
	}
}

// Writes returns a copy of everything written to the port so far.
func (t *TestTransport) Writes() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.writes))
	copy(out, t.writes)
	return out
}
