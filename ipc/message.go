package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/smallnest/swarmthing/safety"
)

// Kind discriminates the message union on the wire ("type" field).
type Kind string

const (
	// KindText is a plain text message.
	KindText Kind = "Text"
	// KindToolShare proposes a tool to the receiving agent.
	KindToolShare Kind = "ToolShare"
	// KindToolRequest asks the receiving agent for a named tool.
	KindToolRequest Kind = "ToolRequest"
)

// Message is the inter-agent protocol payload: one of Text, ToolShare
// or ToolRequest. Fields beyond Type are populated per kind.
type Message struct {
	Type        Kind
	Content     string       // Text
	Name        string       // ToolShare, ToolRequest
	Code        string       // ToolShare
	Description *string      // ToolShare, optional
	SafetyLevel safety.Level // ToolShare
}

// Text builds a plain text message.
func Text(content string) Message {
	return Message{Type: KindText, Content: content}
}

// ToolShare builds a tool-sharing message.
func ToolShare(name, code string, description *string, level safety.Level) Message {
	return Message{
		Type:        KindToolShare,
		Name:        name,
		Code:        code,
		Description: description,
		SafetyLevel: level,
	}
}

// ToolRequest builds a message asking for a named tool.
func ToolRequest(name string) Message {
	return Message{Type: KindToolRequest, Name: name}
}

// wireMessage is the on-the-wire shape shared by all kinds. Pointers
// keep absent fields out of the encoding and make the safety level
// distinguishable from an omitted one.
type wireMessage struct {
	Type        Kind          `json:"type"`
	Content     *string       `json:"content,omitempty"`
	Name        *string       `json:"name,omitempty"`
	Code        *string       `json:"code,omitempty"`
	Description *string       `json:"description,omitempty"`
	SafetyLevel *safety.Level `json:"safety_level,omitempty"`
}

// MarshalJSON encodes only the fields belonging to the message's kind.
func (m Message) MarshalJSON() ([]byte, error) {
	w := wireMessage{Type: m.Type}
	switch m.Type {
	case KindText:
		w.Content = &m.Content
	case KindToolShare:
		w.Name = &m.Name
		w.Code = &m.Code
		w.Description = m.Description
		level := m.SafetyLevel
		w.SafetyLevel = &level
	case KindToolRequest:
		w.Name = &m.Name
	default:
		return nil, fmt.Errorf("unknown message kind %q", m.Type)
	}
	return json.Marshal(w)
}

// Parse decodes a payload into a Message. Any payload that is not
// valid JSON carrying a known "type" tag degrades to a Text message
// wrapping the raw payload, so the protocol stays compatible with
// peers that send plain strings.
func Parse(payload string) Message {
	var w wireMessage
	if err := json.Unmarshal([]byte(payload), &w); err != nil {
		return Text(payload)
	}

	str := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}

	switch w.Type {
	case KindText:
		return Text(str(w.Content))
	case KindToolShare:
		level := safety.HighRisk // missing level never downgrades risk
		if w.SafetyLevel != nil {
			level = *w.SafetyLevel
		}
		return ToolShare(str(w.Name), str(w.Code), w.Description, level)
	case KindToolRequest:
		return ToolRequest(str(w.Name))
	default:
		return Text(payload)
	}
}

// Encode renders the message as its JSON envelope.
func Encode(m Message) (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
