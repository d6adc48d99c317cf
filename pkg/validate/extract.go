package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when a response contains no JSON object.
var ErrNoJSON = errors.New("no JSON object in response")

// Verdict is the LLM's judgment on one candidate.
type Verdict struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

type verdictEntry struct {
	Index  *int   `json:"index"`
	Valid  *bool  `json:"valid"`
	Reason string `json:"reason"`
}

type verdictResponse struct {
	Results []verdictEntry `json:"results"`
}

// parseVerdicts decodes {"results":[...]} into verdicts keyed by candidate
// index. Entries without an index or a valid flag are skipped; the first
// entry wins on duplicate indices.
func parseVerdicts(raw string) (map[int]Verdict, error) {
	obj, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}
	var resp verdictResponse
	if err := json.Unmarshal([]byte(obj), &resp); err != nil {
		return nil, fmt.Errorf("decode verdicts: %w", err)
	}
	out := make(map[int]Verdict, len(resp.Results))
	for _, e := range resp.Results {
		if e.Index == nil || e.Valid == nil {
			continue
		}
		if _, dup := out[*e.Index]; dup {
			continue
		}
		out[*e.Index] = Verdict{Valid: *e.Valid, Reason: e.Reason}
	}
	return out, nil
}

// ExtractJSON returns the first balanced JSON object found in s. Markdown
// fences, preambles and trailing prose are ignored.
func ExtractJSON(s string) (string, error) {
	s = stripFence(strings.TrimSpace(s))
	start := strings.IndexByte(s, '{')
	for start >= 0 {
		if end := matchBrace(s, start); end > 0 {
			candidate := s[start:end]
			if json.Valid([]byte(candidate)) {
				return candidate, nil
			}
		}
		next := strings.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", ErrNoJSON
}

func stripFence(s string) string {
	open := strings.Index(s, "```")
	if open < 0 {
		return s
	}
	body := s[open+3:]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	}
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// matchBrace returns the index just past the brace closing s[start], or -1.
func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}
