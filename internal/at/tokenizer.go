package at

import (
	"bufio"
	"bytes"
)

// Splitter tokenizes the modem byte stream for bufio.Scanner. It splits on
// CRLF line endings and also recognizes the SMS body prompt ("> "), which is
// not newline-terminated.
//
// Assumes echo is disabled (ATE0); with echo on, command echoes would arrive
// as ordinary tokens.
func Splitter(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if bytes.HasPrefix(data, []byte(Prompt)) {
		return len(Prompt), data[0:len(Prompt)], nil
	}

	if i := bytes.Index(data, []byte(CRLF)); i >= 0 {
		return i + len(CRLF), data[0:i], nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[0:i], nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

var _ bufio.SplitFunc = Splitter
