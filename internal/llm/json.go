package llm

import (
	"encoding/json"
	"strings"
)

// UnmarshalLoose decodes a model response into out, tolerating markdown code
// fences and surrounding prose. Falls back to the outermost JSON object or
// array embedded in the text.
func UnmarshalLoose(raw string, out interface{}) error {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if err := json.Unmarshal([]byte(cleaned), out); err == nil {
		return nil
	}

	if fragment, ok := extractDelimited(cleaned, '{', '}'); ok {
		if err := json.Unmarshal([]byte(fragment), out); err == nil {
			return nil
		}
	}
	if fragment, ok := extractDelimited(cleaned, '[', ']'); ok {
		if err := json.Unmarshal([]byte(fragment), out); err == nil {
			return nil
		}
	}

	return &IncompleteArtifactError{Reason: "response is not valid JSON"}
}

func extractDelimited(s string, open, close byte) (string, bool) {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start >= 0 && end > start {
		return s[start : end+1], true
	}
	return "", false
}
