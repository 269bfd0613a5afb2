// Package sse splits a server-sent-event byte stream into frame payloads.
//
// Frames are separated by a blank line ("\n\n"). Only frames starting with
// the literal prefix "data: " carry a payload; everything else (comments,
// keepalives, event: lines) is skipped. Chunk boundaries are arbitrary: an
// incomplete trailing frame stays buffered until the next Write completes it.
package sse

import (
	"bytes"
)

const (
	separator  = "\n\n"
	dataPrefix = "data: "
)

// Parser is a stateful frame splitter. It is not safe for concurrent use.
type Parser struct {
	buf []byte
}

func NewParser() *Parser {
	return &Parser{}
}

// Write feeds a chunk and returns the payloads of every frame it completed,
// in stream order.
func (p *Parser) Write(chunk []byte) []string {
	if len(chunk) == 0 {
		return nil
	}
	p.buf = append(p.buf, chunk...)

	var payloads []string
	for {
		idx := bytes.Index(p.buf, []byte(separator))
		if idx < 0 {
			break
		}
		frame := p.buf[:idx]
		if bytes.HasPrefix(frame, []byte(dataPrefix)) {
			payloads = append(payloads, string(frame[len(dataPrefix):]))
		}
		p.buf = p.buf[idx+len(separator):]
	}

	// Compact so the backing array doesn't grow with the stream
	if len(p.buf) == 0 {
		p.buf = p.buf[:0:0]
	} else if cap(p.buf) > 4*len(p.buf) && cap(p.buf) > 4096 {
		p.buf = append([]byte(nil), p.buf...)
	}

	return payloads
}

// Pending returns the number of buffered bytes of an incomplete frame
func (p *Parser) Pending() int {
	return len(p.buf)
}

// Reset drops any buffered partial frame
func (p *Parser) Reset() {
	p.buf = nil
}
