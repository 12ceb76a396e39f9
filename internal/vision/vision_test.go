package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantKey string
	}{
		{name: "bare object", raw: `{"missing_items":[],"damage_detected":[]}`, wantKey: "missing_items"},
		{name: "markdown fence", raw: "```json\n{\"damage_detected\":[\"crack\"],\"missing_items\":[]}\n```", wantKey: "damage_detected"},
		{name: "prose around", raw: `Here is the analysis: {"condition_score": 8, "missing_items": [], "damage_detected": []} Hope this helps.`, wantKey: "condition_score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := ParsePayload(tt.raw)
			require.NoError(t, err)
			assert.Contains(t, payload, tt.wantKey)
		})
	}
}

func TestParsePayloadMalformed(t *testing.T) {
	for _, raw := range []string{"", "no json here", `{"missing_items": [}`, "} {"} {
		_, err := ParsePayload(raw)
		assert.ErrorIs(t, err, ErrMalformedResponse, raw)
	}
}

func TestNewResultKeepsRawResponse(t *testing.T) {
	raw := "```json\n{\"missing_items\":[],\"damage_detected\":[]}\n```"
	res, err := NewResult(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, res.RawResponse)
	assert.Equal(t, []any{}, res.Payload["missing_items"])
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(Request{RoomName: "Master Bathroom", ExpectedItems: []string{"Towel", "Hair Dryer"}})

	assert.Contains(t, prompt, "photo of a Master Bathroom")
	assert.Contains(t, prompt, "- Towel\n- Hair Dryer")
	assert.Contains(t, prompt, `"missing_items"`)
	assert.NotContains(t, prompt, "\t")
}

func TestBuildPromptEmptyChecklist(t *testing.T) {
	prompt := BuildPrompt(Request{})

	assert.Contains(t, prompt, "photo of a room")
	assert.Contains(t, prompt, "(no checklist items recorded)")
}
