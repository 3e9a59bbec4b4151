package modem

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carebridge/panel/internal/at"
	"github.com/carebridge/panel/pkg/logger"
	"github.com/warthog618/sms"
)

// SendTextSMS sends message to number in text mode, the fire-and-forget
// sequence the SIM800 family understands: CMGF=1, GSM charset, CMGS with the
// body terminated by Ctrl-Z. A missing submit confirmation is tolerated.
func (m *Modem) SendTextSMS(number, message string) error {
	if err := m.EnsureOpen(); err != nil {
		return err
	}

	if _, err := m.exec(at.CmdTextMode, false, false, 2*time.Second); err != nil {
		return fmt.Errorf("select text mode: %w", err)
	}
	if _, err := m.exec(at.CmdCharsetGSM, false, false, 2*time.Second); err != nil {
		logger.Log.Warnf("[%s] GSM charset select failed: %v", m.portName, err)
	}

	// The body prompt has no line ending on some firmwares; a timeout here
	// only means the prompt was not observed, so carry on regardless.
	if _, err := m.exec(at.SendTo(number), false, false, 2*time.Second); err != nil && !errors.Is(err, ErrTimeout) {
		return fmt.Errorf("submit command: %w", err)
	}

	resp, err := m.exec(message+at.CtrlZ, true, false, 10*time.Second)
	if err != nil && !errors.Is(err, ErrTimeout) {
		return fmt.Errorf("submit body: %w", err)
	}
	if strings.Contains(resp, "+CMGS:") {
		logger.Log.Infof("[%s] SMS accepted by network", m.portName)
	}
	return nil
}

// SendPDUSMS encodes message as one or more submit TPDUs and sends them in
// PDU mode. Long messages are concatenated by the encoder.
func (m *Modem) SendPDUSMS(number, message string) error {
	if err := m.EnsureOpen(); err != nil {
		return err
	}

	tpdus, err := sms.Encode([]byte(message), sms.To(number))
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	if _, err := m.exec(at.CmdPDUMode, false, false, 2*time.Second); err != nil {
		return fmt.Errorf("select PDU mode: %w", err)
	}

	for _, t := range tpdus {
		b, err := t.MarshalBinary()
		if err != nil {
			return fmt.Errorf("marshal TPDU: %w", err)
		}

		if _, err := m.exec(at.SendPDU(len(b)), false, false, 2*time.Second); err != nil && !errors.Is(err, ErrTimeout) {
			return fmt.Errorf("submit command: %w", err)
		}

		// Leading 00 tells the modem to use the stored SMSC address.
		wire := "00" + strings.ToUpper(hex.EncodeToString(b)) + at.CtrlZ
		if _, err := m.exec(wire, true, true, 10*time.Second); err != nil && !errors.Is(err, ErrTimeout) {
			return fmt.Errorf("submit PDU: %w", err)
		}
	}
	return nil
}
