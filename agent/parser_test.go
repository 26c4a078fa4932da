package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractToolBlocks(t *testing.T) {
	reply := "Sure, I'll make a tool.\n\n" +
		"```js\n// filename: square\nfunction square(x) { return parseInt(x) * parseInt(x); }\n```\n\n" +
		"Then call it with [TOOL: square(11)]."

	blocks := ExtractToolBlocks(reply)
	require.Len(t, blocks, 1)
	assert.Equal(t, "square", blocks[0].Name)
	assert.Contains(t, blocks[0].Code, "function square")
}

func TestExtractToolBlocks_JavascriptFence(t *testing.T) {
	reply := "```javascript\n// filename: double\nfunction double(x) { return parseInt(x) * 2; }\n```"
	blocks := ExtractToolBlocks(reply)
	require.Len(t, blocks, 1)
	assert.Equal(t, "double", blocks[0].Name)
}

func TestExtractToolBlocks_MissingFilename(t *testing.T) {
	reply := "```js\nfunction anon(x) { return x; }\n```"
	blocks := ExtractToolBlocks(reply)
	require.Len(t, blocks, 1)
	assert.Equal(t, "unknown_tool", blocks[0].Name)
}

func TestExtractToolBlocks_IgnoresOtherLanguages(t *testing.T) {
	reply := "```python\n# filename: nope\nprint('hi')\n```\nplain text\n```\nno info string\n```"
	assert.Empty(t, ExtractToolBlocks(reply))
}

func TestExtractToolCalls(t *testing.T) {
	text := `First [TOOL: square(11)] then [TOOL: list_tools()] and [TOOL: greet("world")].`

	calls := ExtractToolCalls(text)
	require.Len(t, calls, 3)

	assert.Equal(t, "square", calls[0].Name)
	assert.Equal(t, []string{"11"}, calls[0].Args)

	assert.Equal(t, "list_tools", calls[1].Name)
	assert.Empty(t, calls[1].Args)

	assert.Equal(t, "greet", calls[2].Name)
	assert.Equal(t, []string{"world"}, calls[2].Args)
}

func TestExtractToolCalls_NoMatches(t *testing.T) {
	assert.Empty(t, ExtractToolCalls("just prose, no directives"))
	assert.Empty(t, ExtractToolCalls("[TOOL: missing paren]"))
}
