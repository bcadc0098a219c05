package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractErrorMessage pulls a human-readable message out of a decoded JSON
// error body. Checks, in order: a plain string body; message, Message or
// detail; the first element of an errors array (a string, or its message
// or msg field); a problem-details title with an errors map, rendered as
// "{title}: {field} - {message}". Returns defaultMessage when nothing matches.
func ExtractErrorMessage(body []byte, defaultMessage string) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return defaultMessage
	}

	var str string
	if err := json.Unmarshal(body, &str); err == nil {
		if str == "" {
			return defaultMessage
		}
		return str
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return defaultMessage
	}

	for _, key := range []string{"message", "Message", "detail"} {
		if msg, ok := nonBlankString(fields[key]); ok {
			return msg
		}
	}

	rawErrors := fields["errors"]

	var list []json.RawMessage
	if err := json.Unmarshal(rawErrors, &list); err == nil && len(list) > 0 {
		first := list[0]
		if msg, ok := nonBlankString(first); ok {
			return msg
		}
		var item map[string]json.RawMessage
		if err := json.Unmarshal(first, &item); err == nil {
			if msg, ok := nonBlankString(item["message"]); ok {
				return msg
			}
			if msg, ok := nonBlankString(item["msg"]); ok {
				return msg
			}
		}
	}

	if title, ok := nonBlankString(fields["title"]); ok && isContainer(rawErrors) {
		key, value, found := firstObjectEntry(rawErrors)
		if found {
			var messages []json.RawMessage
			if err := json.Unmarshal(value, &messages); err == nil && len(messages) > 0 {
				return fmt.Sprintf("%s: %s - %s", title, key, renderValue(messages[0]))
			}
		}
		return title
	}

	return defaultMessage
}

func nonBlankString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func isContainer(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && (raw[0] == '{' || raw[0] == '[')
}

// firstObjectEntry returns the first key/value pair of a JSON object in
// document order
func firstObjectEntry(raw json.RawMessage) (string, json.RawMessage, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return "", nil, false
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return "", nil, false
	}
	if !dec.More() {
		return "", nil, false
	}

	tok, err = dec.Token()
	if err != nil {
		return "", nil, false
	}
	key, ok := tok.(string)
	if !ok {
		return "", nil, false
	}

	var value json.RawMessage
	if err := dec.Decode(&value); err != nil {
		return "", nil, false
	}
	return key, value, true
}

func renderValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}
