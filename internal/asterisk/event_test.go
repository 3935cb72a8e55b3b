package asterisk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserFramesEventsOnBlankLines(t *testing.T) {
	stream := "Event: Newchannel\r\n" +
		"Linkedid: 1700000000.1\r\n" +
		"CallerIDNum: 15550001111\r\n" +
		"\r\n" +
		"Event: Hangup\r\n" +
		"Linkedid: 1700000000.1\r\n" +
		"Cause: 16\r\n" +
		"\r\n"

	p := NewParser(strings.NewReader(stream))

	evt, ok := p.Next()
	require.True(t, ok)
	assert.Equal(t, "Newchannel", evt.Type())
	assert.Equal(t, "1700000000.1", evt.Get("Linkedid"))
	assert.Equal(t, "15550001111", evt.Get("CallerIDNum"))

	evt, ok = p.Next()
	require.True(t, ok)
	assert.Equal(t, "Hangup", evt.Type())
	assert.Equal(t, 16, evt.GetInt("Cause"))

	_, ok = p.Next()
	assert.False(t, ok)
}

func TestParserSkipsBannerLine(t *testing.T) {
	stream := "Asterisk Call Manager/5.0.2\r\n" +
		"Event: Newchannel\r\n" +
		"Linkedid: 1700000000.1\r\n" +
		"\r\n"

	events := NewParser(strings.NewReader(stream)).ParseAll()
	require.Len(t, events, 1)
	assert.Equal(t, "Newchannel", events[0].Type())
}

func TestParserHandlesMissingTrailingBlankLine(t *testing.T) {
	stream := "Event: Hangup\nLinkedid: x\nCause: 17\n"

	events := ParseBytes([]byte(stream))
	require.Len(t, events, 1)
	assert.Equal(t, 17, events[0].GetInt("Cause"))
}

func TestParserToleratesBareNewlines(t *testing.T) {
	// Captures saved on non-Windows hosts often lose the \r.
	stream := "Event: Newstate\nLinkedid: a\nChannelStateDesc: Up\n\n"

	events := ParseBytes([]byte(stream))
	require.Len(t, events, 1)
	assert.Equal(t, "Up", events[0].Get("ChannelStateDesc"))
}

func TestEventAccessors(t *testing.T) {
	evt := NewEvent("Event", "Newchannel", "Cause", "not-a-number")

	assert.Equal(t, "Newchannel", evt.Type())
	assert.Equal(t, "", evt.Get("Missing"))
	assert.Equal(t, 0, evt.GetInt("Cause"))
	assert.Equal(t, 0, evt.GetInt("Missing"))
	assert.False(t, evt.IsResponse())

	resp := NewEvent("Response", "Success")
	assert.True(t, resp.IsResponse())
}
