// Package types provides the wire and state types shared by the TalentMatrix client.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is a Gateway-assigned identifier. The Gateway emits ids as either JSON
// strings or numbers depending on the table, so both decode into the same
// string form.
type ID string

// UnmarshalJSON accepts "42", 42 and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the id as a plain string.
func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the Gateway assigned no id.
func (id ID) IsZero() bool {
	return id == ""
}

// rawFields decodes an object into its raw members so callers can check
// several alternative key names.
func rawFields(data []byte) (map[string]json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// firstString returns the first key that holds a non-empty string (or a
// number rendered as a string).
func firstString(m map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		raw, ok := m[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s != "" {
				return s
			}
			continue
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String()
		}
	}
	return ""
}

// firstID returns the first key that decodes into a non-empty ID.
func firstID(m map[string]json.RawMessage, keys ...string) ID {
	for _, k := range keys {
		raw, ok := m[k]
		if !ok {
			continue
		}
		var id ID
		if err := json.Unmarshal(raw, &id); err == nil && !id.IsZero() {
			return id
		}
	}
	return ""
}
