package oracle

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	jsonFence = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	bareFence = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// ExtractJSON pulls a JSON object out of oracle output, trying the whole
// text, fenced code blocks, and finally a brace scan. Truncated objects
// are repaired before parsing.
func ExtractJSON(text string) (json.RawMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("response is empty")
	}

	if json.Valid([]byte(text)) {
		return json.RawMessage(text), nil
	}

	for _, m := range jsonFence.FindAllStringSubmatch(text, -1) {
		candidate := strings.TrimSpace(m[1])
		if raw, ok := validOrRepaired(candidate); ok {
			return raw, nil
		}
	}

	for _, m := range bareFence.FindAllStringSubmatch(text, -1) {
		candidate := strings.TrimSpace(m[1])
		if !strings.HasPrefix(candidate, "{") && !strings.HasPrefix(candidate, "[") {
			continue
		}
		if raw, ok := validOrRepaired(candidate); ok {
			return raw, nil
		}
	}

	if candidate, ok := scanBraces(text); ok {
		if raw, ok := validOrRepaired(candidate); ok {
			return raw, nil
		}
	}

	return nil, fmt.Errorf("no valid JSON object in response")
}

func validOrRepaired(candidate string) (json.RawMessage, bool) {
	if json.Valid([]byte(candidate)) {
		return json.RawMessage(candidate), true
	}
	repaired := RepairTruncated(candidate)
	if json.Valid([]byte(repaired)) {
		return json.RawMessage(repaired), true
	}
	return nil, false
}

// scanBraces finds the outermost balanced object starting at the first
// '{', tracking string and escape state. When the text ends before the
// object closes, the unbalanced tail is returned for repair.
func scanBraces(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escape := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if escape {
			escape = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escape = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}
	return text[start:], true
}

// RepairTruncated patches an object cut off mid-stream: drops dangling
// key fragments, closes an open string, and balances brackets.
func RepairTruncated(text string) string {
	if text == "" {
		return "{}"
	}

	result := strings.TrimRight(text, " \t\n")

	// Drop lines that are obviously incomplete key fragments.
	lines := strings.Split(result, "\n")
	kept := lines[:0]
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if strings.HasSuffix(stripped, ":") {
			continue
		}
		if strings.Contains(stripped, "...") && !strings.Contains(stripped, `"`) {
			continue
		}
		kept = append(kept, line)
	}
	result = strings.TrimRight(strings.Join(kept, "\n"), " \t\n")

	for len(result) > 0 && strings.ContainsRune(",:\n\t ", rune(result[len(result)-1])) {
		result = result[:len(result)-1]
	}

	// Close a string left open by truncation.
	quotes := 0
	escape := false
	for _, ch := range result {
		if escape {
			escape = false
			continue
		}
		if ch == '\\' {
			escape = true
			continue
		}
		if ch == '"' {
			quotes++
		}
	}
	if quotes%2 == 1 {
		result += `"`
	}

	// Close whatever is still open, innermost first.
	var open []byte
	inString := false
	escape = false
	for _, ch := range result {
		if escape {
			escape = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escape = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				open = append(open, '}')
			}
		case '[':
			if !inString {
				open = append(open, ']')
			}
		case '}', ']':
			if !inString && len(open) > 0 {
				open = open[:len(open)-1]
			}
		}
	}
	for i := len(open) - 1; i >= 0; i-- {
		result += string(open[i])
	}
	return result
}
