package services

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Address is the normalised city/state pair of a seller
type Address struct {
	City  string `json:"city"`
	State string `json:"state"`
}

// ParseTags normalises the tags column: a JSON array, a JSON-encoded string
// holding an array, or nothing. Anything unparsable yields an empty slice.
func ParseTags(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []string{}
	}

	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return []string{}
		}
		raw = []byte(encoded)
	}

	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{}
	}

	tags := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			tags = append(tags, s)
		}
	}
	return tags
}

// ParseAddress normalises the address column. An object gives its city and
// state; a string is parsed as JSON and falls back to locationAddress as the
// city when that fails; a missing address also falls back to locationAddress.
func ParseAddress(raw json.RawMessage, locationAddress string) Address {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Address{City: locationAddress}
	}

	switch raw[0] {
	case '{':
		return addressFields(raw)
	case '"':
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return Address{City: locationAddress}
		}
		encoded = strings.TrimSpace(encoded)
		if !json.Valid([]byte(encoded)) {
			return Address{City: locationAddress}
		}
		return addressFields([]byte(encoded))
	default:
		// numbers, arrays, booleans carry no city/state
		return Address{}
	}
}

func addressFields(raw []byte) Address {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Address{}
	}
	city, _ := obj["city"].(string)
	state, _ := obj["state"].(string)
	return Address{City: city, State: state}
}
