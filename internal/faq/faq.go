// Package faq loads the static question-to-answer mapping consulted for
// otherwise unmatched text from registered users.
package faq

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// Load reads a JSON object of question -> answer pairs from path.
func Load(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read FAQ file %s: %w", path, err)
	}
	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse FAQ file %s: %w", path, err)
	}
	slog.Debug("faq.Load: loaded entries", "path", path, "count", len(entries))
	return entries, nil
}
