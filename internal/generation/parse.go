package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"momentlog/internal/journal"
)

// Models ramble. Completions may wrap the requested JSON in prose or code
// fences, so parsing first carves out the outermost object, then decodes and
// validates it. Anything that fails is rejected here, before a save can be
// attempted.

type recapPayload struct {
	Summary       string   `json:"summary"`
	KeyTakeaways  []string `json:"keyTakeaways"`
	TopMoments    []string `json:"topMoments"`
	EmotionalTone string   `json:"emotionalTone"`
	PeopleMet     []string `json:"peopleMet"`
}

type reportPayload struct {
	Summary           string   `json:"summary"`
	Highlights        []string `json:"highlights"`
	KeyConnections    []string `json:"keyConnections"`
	LessonsLearned    []string `json:"lessonsLearned"`
	OverallExperience string   `json:"overallExperience"`
}

func parseRecapPayload(completion string) (*recapPayload, error) {
	raw, err := extractJSONObject(completion)
	if err != nil {
		return nil, err
	}

	var p recapPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("%w: decoding recap payload: %v", journal.ErrGeneration, err)
	}
	if p.Summary == "" {
		return nil, fmt.Errorf("%w: recap payload has no summary", journal.ErrGeneration)
	}
	if p.EmotionalTone == "" {
		return nil, fmt.Errorf("%w: recap payload has no emotional tone", journal.ErrGeneration)
	}
	return &p, nil
}

func parseReportPayload(completion string) (*reportPayload, error) {
	raw, err := extractJSONObject(completion)
	if err != nil {
		return nil, err
	}

	var p reportPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("%w: decoding report payload: %v", journal.ErrGeneration, err)
	}
	if p.Summary == "" {
		return nil, fmt.Errorf("%w: report payload has no summary", journal.ErrGeneration)
	}
	if p.OverallExperience == "" {
		return nil, fmt.Errorf("%w: report payload has no overall experience", journal.ErrGeneration)
	}
	return &p, nil
}

// extractJSONObject returns the substring from the first '{' to the last '}'.
func extractJSONObject(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("%w: completion contains no JSON object", journal.ErrGeneration)
	}
	return s[start : end+1], nil
}
