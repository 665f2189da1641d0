package parser

import (
	"encoding/json"
	"fmt"
)

// DecodeJSON decodes a JSON document into the typed payload shape of a
// source family. Absent-field checks then become typed optional access
// instead of existence probing on an untyped map.
func DecodeJSON(data []byte, v any) error {
	if len(data) == 0 {
		return ErrEmptyData
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json parsing failed: %w", err)
	}

	return nil
}
