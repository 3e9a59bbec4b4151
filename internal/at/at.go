// Package at defines the small slice of the AT command vocabulary spoken by
// the panel: outbound command constants, response classification, and typed
// unsolicited notifications (ring, caller ID, call termination).
package at

import "fmt"

const (
	// Terminal control
	CR     = "\r"
	CRLF   = "\r\n"
	Prompt = "> "
	CtrlZ  = "\x1a"

	// Final result codes
	OK         = "OK"
	ERROR      = "ERROR"
	NoCarrier  = "NO CARRIER"
	NoDialtone = "NO DIALTONE"
	Busy       = "BUSY"
	NoAnswer   = "NO ANSWER"
	CmeError   = "+CME ERROR:"
	CmsError   = "+CMS ERROR:"

	// Commands
	CmdAT            = "AT"
	CmdEchoOff       = "ATE0"
	CmdVerboseErrors = "AT+CMEE=2"
	CmdSignalQuality = "AT+CSQ"
	CmdRegistration  = "AT+CREG?"
	CmdCallerID      = "AT+CLIP=1"
	CmdAnswer        = "ATA"
	CmdHangUp        = "ATH"
	CmdTextMode      = "AT+CMGF=1"
	CmdPDUMode       = "AT+CMGF=0"
	CmdCharsetGSM    = `AT+CSCS="GSM"`

	// Notification prefixes
	RingIndicator = "RING"
	ClipPrefix    = "+CLIP:"
)

// Dial builds the voice dial command for number. The trailing semicolon
// selects voice mode.
func Dial(number string) string {
	return fmt.Sprintf("ATD%s;", number)
}

// SendTo builds the text-mode SMS submit command. The modem replies with the
// "> " prompt and expects the message body terminated by Ctrl-Z.
func SendTo(number string) string {
	return fmt.Sprintf(`AT+CMGS="%s"`, number)
}

// SendPDU builds the PDU-mode SMS submit command for a TPDU of length octets
// (excluding the SMSC field).
func SendPDU(length int) string {
	return fmt.Sprintf("AT+CMGS=%d", length)
}

type ResponseType int

const (
	TypeFinal        ResponseType = iota // OK, ERROR, NO CARRIER, ...
	TypeNotification                     // asynchronous notifications
	TypeData                             // intermediate command output (+CSQ: ...)
	TypePrompt                           // SMS body prompt
)
