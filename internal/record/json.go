package record

import (
	"encoding/json"
	"fmt"
)

// ParseDynamicJSON parses JSON data from a byte slice into a Dynamic record.
// It returns ErrJSONUnmarshalFailed (wrapping the original error) if
// unmarshalling fails.
func ParseDynamicJSON(data []byte) (Dynamic, error) {
	var rec Dynamic

	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJSONUnmarshalFailed, err)
	}
	return rec, nil
}
