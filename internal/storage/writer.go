package storage

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteDiff replaces path with v as indented JSON. Map and collage keys come
// out sorted; structs should declare their fields in key order.
func WriteDiff(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode diff: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write diff: %w", err)
	}
	return nil
}

// ReadDiff decodes a document written by WriteDiff into v.
func ReadDiff(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode diff %s: %w", path, err)
	}
	return nil
}
