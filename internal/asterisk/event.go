// Package asterisk adapts an Asterisk AMI event stream into the
// telephony substrate the callmodel engine reconciles against. It exists
// so the daemon has a concrete event source; the engine itself only sees
// the telephony.Layer boundary.
package asterisk

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Event is one parsed AMI event block.
type Event struct {
	fields map[string]string
}

// NewEvent builds an Event from alternating key-value pairs, for tests
// and scripted replays.
func NewEvent(kvs ...string) Event {
	e := Event{fields: make(map[string]string, len(kvs)/2)}
	for i := 0; i+1 < len(kvs); i += 2 {
		e.fields[kvs[i]] = kvs[i+1]
	}
	return e
}

// Get returns the value for key, or "" if absent.
func (e Event) Get(key string) string {
	return e.fields[key]
}

// GetInt returns the integer value for key, or 0 if absent/unparseable.
func (e Event) GetInt(key string) int {
	v, _ := strconv.Atoi(e.fields[key])
	return v
}

// Type returns the AMI event type.
func (e Event) Type() string {
	return e.fields["Event"]
}

// IsResponse reports whether the block is an AMI action response rather
// than an event.
func (e Event) IsResponse() bool {
	_, ok := e.fields["Response"]
	return ok
}

// Parser reads an AMI byte stream and emits Events. AMI frames events as
// "Key: Value" lines terminated by a blank line.
type Parser struct {
	scanner *bufio.Scanner
}

// NewParser creates a Parser reading from r.
func NewParser(r io.Reader) *Parser {
	return &Parser{scanner: bufio.NewScanner(r)}
}

// Next reads the next event block. Returns false at EOF.
func (p *Parser) Next() (Event, bool) {
	var fields map[string]string

	for p.scanner.Scan() {
		line := strings.TrimRight(p.scanner.Text(), "\r")

		if line == "" {
			if len(fields) > 0 {
				return Event{fields: fields}, true
			}
			continue
		}

		key, value, ok := strings.Cut(line, ": ")
		if !ok {
			// Banner and other non-header lines are skipped.
			continue
		}
		if fields == nil {
			fields = make(map[string]string)
		}
		fields[key] = value
	}

	if len(fields) > 0 {
		return Event{fields: fields}, true
	}
	return Event{}, false
}

// ParseAll drains the stream.
func (p *Parser) ParseAll() []Event {
	var events []Event
	for {
		evt, ok := p.Next()
		if !ok {
			return events
		}
		events = append(events, evt)
	}
}

// ParseBytes parses all events out of a capture buffer.
func ParseBytes(data []byte) []Event {
	return NewParser(strings.NewReader(string(data))).ParseAll()
}
