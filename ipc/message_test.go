package ipc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/swarmthing/safety"
)

func TestMessage_RoundTrip(t *testing.T) {
	desc := "squares a number"
	messages := []Message{
		Text("Hello"),
		ToolShare("square", "function square(x) { return x * x; }", &desc, safety.Safe),
		ToolShare("saver", "function saver(p) { return write_file(p, \"x\"); }", nil, safety.HighRisk),
		ToolRequest("square"),
	}

	for _, msg := range messages {
		encoded, err := Encode(msg)
		require.NoError(t, err)

		parsed := Parse(encoded)
		assert.Equal(t, msg, parsed)
	}
}

func TestMessage_WireShape(t *testing.T) {
	encoded, err := Encode(ToolShare("square", "code", nil, safety.LowRisk))
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal([]byte(encoded), &wire))
	assert.Equal(t, "ToolShare", wire["type"])
	assert.Equal(t, "square", wire["name"])
	assert.Equal(t, "code", wire["code"])
	assert.Equal(t, "LowRisk", wire["safety_level"])
	// Absent description stays off the wire.
	_, hasDesc := wire["description"]
	assert.False(t, hasDesc)
}

func TestParse_PlainTextFallback(t *testing.T) {
	msg := Parse("hello")
	assert.Equal(t, KindText, msg.Type)
	assert.Equal(t, "hello", msg.Content)
}

func TestParse_UnknownTagFallsBackToText(t *testing.T) {
	raw := `{"type":"SelfDestruct","name":"x"}`
	msg := Parse(raw)
	assert.Equal(t, KindText, msg.Type)
	assert.Equal(t, raw, msg.Content)
}

func TestParse_JSONWithoutTagFallsBackToText(t *testing.T) {
	raw := `{"content":"just an object"}`
	msg := Parse(raw)
	assert.Equal(t, KindText, msg.Type)
	assert.Equal(t, raw, msg.Content)
}

func TestParse_ToolShareMissingLevelIsHighRisk(t *testing.T) {
	msg := Parse(`{"type":"ToolShare","name":"x","code":"function x() {}"}`)
	require.Equal(t, KindToolShare, msg.Type)
	assert.Equal(t, safety.HighRisk, msg.SafetyLevel)
}

func TestEncode_UnknownKindFails(t *testing.T) {
	_, err := Encode(Message{Type: "Bogus"})
	assert.Error(t, err)
}
