package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/triage-service/internal/domain"
)

const validTriageJSON = `{
"summary": "Database queries hang under load",
"priority": "High",
"helpfulNotes": "Inspect the slow query log.",
"relatedSkills": ["MongoDB", "Node.js"]
}`

func TestParseTriageResponseRawJSON(t *testing.T) {
	result, err := ParseTriageResponse(validTriageJSON)

	require.NoError(t, err)
	assert.Equal(t, "Database queries hang under load", result.Summary)
	assert.Equal(t, domain.TicketPriorityHigh, result.Priority)
	assert.Equal(t, "Inspect the slow query log.", result.HelpfulNotes)
	assert.Equal(t, []string{"MongoDB", "Node.js"}, result.RelatedSkills)
}

func TestParseTriageResponseFencedEqualsUnfenced(t *testing.T) {
	fenced := "```json\n" + validTriageJSON + "\n```"

	fromFenced, err := ParseTriageResponse(fenced)
	require.NoError(t, err)
	fromRaw, err := ParseTriageResponse(validTriageJSON)
	require.NoError(t, err)

	assert.Equal(t, fromRaw, fromFenced)
}

func TestParseTriageResponseFenceCaseInsensitive(t *testing.T) {
	fenced := "```JSON\n" + validTriageJSON + "\n```"

	result, err := ParseTriageResponse(fenced)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityHigh, result.Priority)
}

func TestParseTriageResponseSurroundingProse(t *testing.T) {
	// some models narrate around the fence despite instructions
	wrapped := "Here is the analysis you asked for:\n```json\n" + validTriageJSON + "\n```\nLet me know if you need more."

	result, err := ParseTriageResponse(wrapped)
	require.NoError(t, err)
	assert.Equal(t, "Database queries hang under load", result.Summary)
}

func TestParseTriageResponseInvalidJSON(t *testing.T) {
	_, err := ParseTriageResponse("this is not json")
	assert.Error(t, err)
}

func TestParseTriageResponseEmpty(t *testing.T) {
	_, err := ParseTriageResponse("   ")
	assert.Error(t, err)
}

func TestParseTriageResponseMissingFields(t *testing.T) {
	cases := map[string]string{
		"no summary":       `{"priority":"High","helpfulNotes":"n","relatedSkills":[]}`,
		"no priority":      `{"summary":"s","helpfulNotes":"n","relatedSkills":[]}`,
		"no helpfulNotes":  `{"summary":"s","priority":"High","relatedSkills":[]}`,
		"no relatedSkills": `{"summary":"s","priority":"High","helpfulNotes":"n"}`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTriageResponse(payload)
			assert.Error(t, err)
		})
	}
}

func TestParseTriageResponseKeepsUnknownPriorityLabel(t *testing.T) {
	payload := `{"summary":"s","priority":"Urgent","helpfulNotes":"n","relatedSkills":[]}`

	result, err := ParseTriageResponse(payload)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriority("Urgent"), result.Priority)
	assert.False(t, result.Priority.Valid(), "label validity is the caller's call")
}

func TestParseTriageResponseEmptySkillArrayIsValid(t *testing.T) {
	payload := `{"summary":"s","priority":"Low","helpfulNotes":"n","relatedSkills":[]}`

	result, err := ParseTriageResponse(payload)
	require.NoError(t, err)
	assert.Empty(t, result.RelatedSkills)
	assert.NotNil(t, result.RelatedSkills)
}
