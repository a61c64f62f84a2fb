package credential

import (
	"encoding/json"
	"fmt"
)

// JSONMap represents a JSON object as a map.
type JSONMap map[string]interface{}

// ToJSONMap converts a credential into its generic JSON form.
func ToJSONMap(vc *Credential) (JSONMap, error) {
	if vc == nil {
		return nil, fmt.Errorf("credential is nil")
	}

	data, err := json.Marshal(vc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credential: %w", err)
	}

	var m JSONMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential: %w", err)
	}
	return m, nil
}

// ToJSON serializes the JSONMap to JSON.
func (m JSONMap) ToJSON() ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("JSONMap is nil")
	}

	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSONMap: %w", err)
	}
	return data, nil
}

// WithoutProof returns a shallow copy of m with the proof field removed.
func (m JSONMap) WithoutProof() JSONMap {
	out := make(JSONMap, len(m))
	for k, v := range m {
		if k != "proof" {
			out[k] = v
		}
	}
	return out
}

// Parse decodes a JSON encoded credential.
func Parse(raw []byte) (*Credential, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("JSON string is empty")
	}

	var vc Credential
	if err := json.Unmarshal(raw, &vc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential: %w", err)
	}
	return &vc, nil
}
