package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Models are told to answer with raw JSON, but some wrap it in a fenced
// code block anyway.
var fencedJSON = regexp.MustCompile("(?i)```json\\s*((?s:.*?))\\s*```")

// ExtractJSON returns the JSON payload from a model reply: the inside of
// a fenced ```json block when present, otherwise the trimmed text.
func ExtractJSON(raw string) string {
	if match := fencedJSON.FindStringSubmatch(raw); match != nil {
		return match[1]
	}
	return strings.TrimSpace(raw)
}

// ParseTriageResponse validates the model output against the triage
// contract: all four fields present, summary and helpfulNotes non-empty,
// relatedSkills an array. The priority label is kept verbatim; label
// validity is the caller's concern.
func ParseTriageResponse(raw string) (*TriageResult, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("empty ai output")
	}

	var result TriageResult
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &result); err != nil {
		return nil, fmt.Errorf("invalid json in ai output: %w", err)
	}

	if strings.TrimSpace(result.Summary) == "" {
		return nil, errors.New("missing summary in ai response")
	}
	if result.Priority == "" {
		return nil, errors.New("missing priority in ai response")
	}
	if strings.TrimSpace(result.HelpfulNotes) == "" {
		return nil, errors.New("missing helpfulNotes in ai response")
	}
	if result.RelatedSkills == nil {
		return nil, errors.New("missing relatedSkills in ai response")
	}
	return &result, nil
}
