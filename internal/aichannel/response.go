package aichannel

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON returns the JSON object embedded in a model reply. A reply
// that is a bare object is returned as is; otherwise the last top-level
// object in the text is used, which skips preambles and code fences.
func ExtractJSON(output string) (string, error) {
	output = strings.TrimSpace(output)
	if output == "" {
		return "", fmt.Errorf("%w: empty response", ErrInvalidOutline)
	}
	if strings.HasPrefix(output, "{") && json.Valid([]byte(output)) {
		return output, nil
	}

	objects := scanObjects(output)
	if len(objects) == 0 {
		return "", fmt.Errorf("%w: no JSON object in response", ErrInvalidOutline)
	}
	return objects[len(objects)-1], nil
}

// scanObjects decodes a JSON object at every '{' that starts one and skips
// past it, so nested objects are not reported separately.
func scanObjects(s string) []string {
	var out []string
	for i := 0; i < len(s); {
		start := strings.IndexByte(s[i:], '{')
		if start < 0 {
			break
		}
		start += i

		dec := json.NewDecoder(strings.NewReader(s[start:]))
		var obj map[string]json.RawMessage
		if err := dec.Decode(&obj); err != nil {
			i = start + 1
			continue
		}
		end := start + int(dec.InputOffset())
		out = append(out, s[start:end])
		i = end
	}
	return out
}

// BuildEmbeddedJSONSystemPrompt appends a JSON-only instruction and schema
// to basePrompt.
func BuildEmbeddedJSONSystemPrompt(basePrompt, schema string) string {
	return fmt.Sprintf(`%s

Always answer with one valid JSON object that follows this schema:
%s

Return the JSON object only, without markdown fences or commentary.`, basePrompt, schema)
}
