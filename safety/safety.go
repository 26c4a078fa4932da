package safety

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Level is the heuristic risk classification of a tool's source text.
// Levels are totally ordered: Safe < LowRisk < MediumRisk < HighRisk.
type Level int

const (
	// Safe: pure computation, no side effects detected.
	Safe Level = iota
	// LowRisk: sends data out but reads nothing local.
	LowRisk
	// MediumRisk: reads local files or fetches remote content.
	MediumRisk
	// HighRisk: writes files, spawns listeners or processes, or replicates.
	HighRisk
)

var levelNames = map[Level]string{
	Safe:       "Safe",
	LowRisk:    "LowRisk",
	MediumRisk: "MediumRisk",
	HighRisk:   "HighRisk",
}

// String returns the wire name of the level.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// MarshalJSON encodes the level as its wire name.
func (l Level) MarshalJSON() ([]byte, error) {
	name, ok := levelNames[l]
	if !ok {
		return nil, fmt.Errorf("unknown safety level %d", int(l))
	}
	return json.Marshal(name)
}

// UnmarshalJSON decodes a wire name into a level. Unknown names decode
// as HighRisk so a peer speaking a newer protocol never downgrades risk.
func (l *Level) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	*l = ParseLevel(name)
	return nil
}

// ParseLevel maps a wire name to a Level. Unknown names map to HighRisk.
func ParseLevel(name string) Level {
	for level, n := range levelNames {
		if n == name {
			return level
		}
	}
	return HighRisk
}

// maxScriptLen is the source length above which a script is HighRisk
// regardless of content.
const maxScriptLen = 10_000

// Token groups checked by Classify, most dangerous first.
var (
	highRiskTokens   = []string{"write_file", "clone_agent", "start_server", "exec("}
	mediumRiskTokens = []string{"read_file", "scrape_url"}
	lowRiskTokens    = []string{"send_message"}
)

// Classify maps script source text to a risk level. The rules are
// evaluated in strict priority order and the first match wins:
//
//  1. source longer than 10000 bytes -> HighRisk
//  2. any high-risk capability token -> HighRisk
//  3. any read/fetch capability token -> MediumRisk
//  4. send_message -> LowRisk
//  5. otherwise -> Safe
//
// This is substring matching over raw text, not semantic analysis: a
// token inside a comment or string literal still triggers, and a
// renamed capability does not. It is a triage heuristic, not a
// security guarantee.
func Classify(code string) Level {
	if len(code) > maxScriptLen {
		return HighRisk
	}
	if containsAny(code, highRiskTokens) {
		return HighRisk
	}
	if containsAny(code, mediumRiskTokens) {
		return MediumRisk
	}
	if containsAny(code, lowRiskTokens) {
		return LowRisk
	}
	return Safe
}

func containsAny(code string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(code, tok) {
			return true
		}
	}
	return false
}
